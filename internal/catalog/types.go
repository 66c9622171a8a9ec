package catalog

import (
	"strconv"
	"strings"
)

// SearchResponse is the catalog search envelope. The API signals "no match"
// in-band: Response is the string "False" and Error carries the message,
// with Search present only on success.
type SearchResponse struct {
	Response string         `json:"Response"`
	Error    string         `json:"Error"`
	Search   []MovieSummary `json:"Search"`
}

// MovieSummary is a single search result. Field names follow the catalog
// API's capitalized JSON keys.
type MovieSummary struct {
	IMDBID string `json:"imdbID"`
	Title  string `json:"Title"`
	Year   string `json:"Year"`
	Poster string `json:"Poster"`
}

// MovieDetail is a full movie record from the detail endpoint. Runtime and
// IMDBRating arrive as strings ("117 min", "8.5"); use RuntimeMinutes and
// Rating for the numeric values.
type MovieDetail struct {
	Response   string `json:"Response"`
	Error      string `json:"Error"`
	IMDBID     string `json:"imdbID"`
	Title      string `json:"Title"`
	Year       string `json:"Year"`
	Plot       string `json:"Plot"`
	Poster     string `json:"Poster"`
	Runtime    string `json:"Runtime"`
	IMDBRating string `json:"imdbRating"`
	Released   string `json:"Released"`
	Actors     string `json:"Actors"`
	Director   string `json:"Director"`
	Genre      string `json:"Genre"`
}

// RuntimeMinutes parses the "N min" runtime string. Returns 0 when the
// field is missing or unparseable (the API uses "N/A" for unknown values).
func (d *MovieDetail) RuntimeMinutes() int {
	fields := strings.Fields(d.Runtime)
	if len(fields) == 0 {
		return 0
	}
	minutes, err := strconv.Atoi(fields[0])
	if err != nil {
		return 0
	}
	return minutes
}

// Rating parses the imdbRating string. Returns 0 when missing or unparseable.
func (d *MovieDetail) Rating() float64 {
	rating, err := strconv.ParseFloat(d.IMDBRating, 64)
	if err != nil {
		return 0
	}
	return rating
}
