// Package watchlist holds the watched-movie collection and its aggregates.
package watchlist

// StoreKey is the durable store entry that holds the serialized collection.
const StoreKey = "watched"

// Entry is a movie the user has rated and added to the watched collection.
// Entries are never mutated in place; collection updates always produce a
// new slice.
type Entry struct {
	IMDBID          string  `json:"imdbID"`
	Title           string  `json:"title"`
	Year            string  `json:"year"`
	Poster          string  `json:"poster"`
	Runtime         int     `json:"runtime"`
	IMDBRating      float64 `json:"imdbRating"`
	UserRating      int     `json:"userRating"`
	RatingDecisions int     `json:"countRatingDecisions"`
}

// Add returns a new collection with e appended. No uniqueness check is made
// on IMDBID: adding an entry that already exists appends a duplicate, and
// callers that want replace semantics must Remove first.
func Add(list []Entry, e Entry) []Entry {
	out := make([]Entry, 0, len(list)+1)
	out = append(out, list...)
	out = append(out, e)
	return out
}

// Remove returns a new collection with every entry matching imdbID removed,
// preserving the order of the remaining entries.
func Remove(list []Entry, imdbID string) []Entry {
	out := make([]Entry, 0, len(list))
	for _, e := range list {
		if e.IMDBID == imdbID {
			continue
		}
		out = append(out, e)
	}
	return out
}

// Contains reports whether the collection holds an entry with the given imdbID.
func Contains(list []Entry, imdbID string) bool {
	for _, e := range list {
		if e.IMDBID == imdbID {
			return true
		}
	}
	return false
}
