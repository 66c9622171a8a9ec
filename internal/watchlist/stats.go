package watchlist

import "math"

// Stats are the summary aggregates over the watched collection, a pure
// function of the collection recomputed on demand.
type Stats struct {
	Count         int
	AvgIMDBRating float64
	AvgUserRating float64
	AvgRuntime    float64
}

// Summarize derives the aggregates from the collection. An empty collection
// yields all zeros. Each mean accumulates value/length per element, so no
// division by zero can occur.
func Summarize(list []Entry) Stats {
	s := Stats{Count: len(list)}
	if len(list) == 0 {
		return s
	}

	n := float64(len(list))
	for _, e := range list {
		s.AvgIMDBRating += e.IMDBRating / n
		s.AvgUserRating += float64(e.UserRating) / n
		s.AvgRuntime += float64(e.Runtime) / n
	}
	return s
}

// Round1 rounds to one decimal place, for rating display.
func Round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// Round0 rounds to the nearest integer, for runtime display.
func Round0(v float64) float64 {
	return math.Round(v)
}
