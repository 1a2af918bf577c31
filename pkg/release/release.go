// Package release turns raw torrent and file names into structured media identities.
package release

import "strconv"

// MediaType is the kind of media a name describes.
type MediaType string

const (
	TypeMovie MediaType = "movie"
	TypeTV    MediaType = "tv"
)

// Identity is the best-effort identity parsed from a name.
// Optional fields are nil when the name carries no such token.
type Identity struct {
	Original string    `json:"original"`
	Title    string    `json:"title"`
	Type     MediaType `json:"type"`
	Year     *int      `json:"year"`
	Season   *int      `json:"season"`
	Episode  *int      `json:"episode"`
}

// YearString returns the year as a string, or "" when unknown.
func (id Identity) YearString() string {
	if id.Year == nil {
		return ""
	}
	return strconv.Itoa(*id.Year)
}

// IsTV reports whether a season/episode signature was detected.
func (id Identity) IsTV() bool {
	return id.Type == TypeTV
}

func intPtr(v int) *int {
	return &v
}

// atoiPtr converts a regex capture to *int. Empty captures yield nil.
func atoiPtr(s string) *int {
	if s == "" {
		return nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return nil
	}
	return intPtr(n)
}
