package library

import (
	"slices"
	"strings"
	"time"
)

// TimestampFormat is the UTC, second-precision layout of Snapshot.Updated.
const TimestampFormat = "2006-01-02T15:04:05Z"

// SortSnapshot orders entries newest first by their added timestamp.
// ISO-8601 strings sort chronologically; equal timestamps keep input order.
func SortSnapshot(entries []Entry) {
	slices.SortStableFunc(entries, func(a, b Entry) int {
		return strings.Compare(b.Added, a.Added)
	})
}

// NewSnapshot sorts entries and wraps them with the version and timestamp.
func NewSnapshot(entries []Entry, now time.Time, mode string) *Snapshot {
	items := make([]Entry, len(entries))
	copy(items, entries)
	SortSnapshot(items)
	return &Snapshot{
		Version: SnapshotVersion,
		Updated: now.UTC().Format(TimestampFormat),
		Mode:    mode,
		Items:   items,
	}
}
