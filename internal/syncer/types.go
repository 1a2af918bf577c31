package syncer

import "fmt"

// Mode selects how deeply torrents are resolved.
type Mode string

const (
	// ModeFull fetches per-torrent details, builds episode lists and
	// unrestricts every link.
	ModeFull Mode = "full"
	// ModeList uses only the torrent list and keeps raw link identifiers.
	ModeList Mode = "list"
)

// ParseMode validates a mode name.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeFull, ModeList:
		return Mode(s), nil
	case "":
		return ModeFull, nil
	}
	return "", fmt.Errorf("unknown sync mode %q (want full or list)", s)
}

// Stats counts what happened to each torrent during a run.
type Stats struct {
	Fetched   int `json:"fetched"`   // torrents listed
	Eligible  int `json:"eligible"`  // downloaded torrents
	New       int `json:"new"`       // resolved, no previous record
	Refreshed int `json:"refreshed"` // resolved over a stale record
	Reused    int `json:"reused"`    // fresh record reused as is
	Fallback  int `json:"fallback"`  // resolve failed, stale record used
	Dropped   int `json:"dropped"`   // resolve failed, no record
	Evicted   int `json:"evicted"`   // records removed with their torrent
	Skipped   int `json:"skipped"`   // not downloaded
	Lookups   int `json:"lookups"`   // new enrichment outcomes recorded
}

// Items is the number of entries in the snapshot.
func (s Stats) Items() int {
	return s.New + s.Refreshed + s.Reused + s.Fallback
}

// Attrs returns the counters as slog key/value pairs.
func (s Stats) Attrs() []any {
	return []any{
		"fetched", s.Fetched,
		"eligible", s.Eligible,
		"items", s.Items(),
		"new", s.New,
		"refreshed", s.Refreshed,
		"reused", s.Reused,
		"fallback", s.Fallback,
		"dropped", s.Dropped,
		"evicted", s.Evicted,
		"skipped", s.Skipped,
		"lookups", s.Lookups,
	}
}
