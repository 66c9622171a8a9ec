// Package session owns the search and detail fetch lifecycles: which query
// or movie is current, what its fetch produced, and the guarantee that a
// superseded fetch can never overwrite the state of a newer one.
package session

// Status is the lifecycle state of a fetch slot.
type Status int

const (
	StatusIdle Status = iota
	StatusLoading
	StatusSuccess
	StatusError
)

// String returns the status name for logging.
func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusLoading:
		return "loading"
	case StatusSuccess:
		return "success"
	case StatusError:
		return "error"
	default:
		return "unknown"
	}
}
