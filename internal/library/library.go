// Package library defines the catalog entries, the sync cache and the
// published snapshot, along with the per-file episode extraction that
// feeds them.
package library

import (
	"math"
	"time"

	"github.com/vmunix/arrsnap/pkg/release"
)

// SnapshotVersion is bumped whenever the snapshot format changes.
const SnapshotVersion = 1

// Entry is one downloaded torrent as published in the snapshot.
type Entry struct {
	ID       string            `json:"id"`
	Filename string            `json:"filename"`
	Title    string            `json:"title"`
	Type     release.MediaType `json:"type"`
	Year     *int              `json:"year"`
	Season   *int              `json:"season"`
	Episode  *int              `json:"episode"`
	Size     int64             `json:"size"`
	Added    string            `json:"added"`
	Links    []StreamLink      `json:"links,omitempty"`
	RawLinks []string          `json:"raw_links,omitempty"`
	IsPack   bool              `json:"is_pack"`
	Episodes []Episode         `json:"episodes,omitempty"`
	TMDB     *Enrichment       `json:"tmdb,omitempty"`
}

// Episode is a video file inside a multi-file torrent.
type Episode struct {
	Filename     string `json:"filename"`
	Path         string `json:"path"`
	Size         int64  `json:"size"`
	Season       *int   `json:"season"`
	Episode      *int   `json:"episode"`
	FriendlyName string `json:"friendly_name"`
	StreamURL    string `json:"stream_url,omitempty"`
}

// StreamLink is an unrestricted, directly playable link.
type StreamLink struct {
	Filename string `json:"filename"`
	Filesize int64  `json:"filesize"`
	Download string `json:"download"`
	MimeType string `json:"mimetype"`
}

// Enrichment is descriptive metadata from the catalog service.
type Enrichment struct {
	Title    string   `json:"title"`
	Overview string   `json:"overview"`
	Poster   string   `json:"poster,omitempty"`
	Backdrop string   `json:"backdrop,omitempty"`
	Rating   float64  `json:"rating"`
	Year     string   `json:"year"`
	Genres   []string `json:"genres"`
}

// CacheRecord is the frozen entry for one torrent and when it was built.
type CacheRecord struct {
	FetchedAt float64 `json:"_fetched_at"` // epoch seconds
	Entry     Entry   `json:"_library_entry"`
}

// NewCacheRecord stamps entry with now.
func NewCacheRecord(entry Entry, now time.Time) CacheRecord {
	return CacheRecord{
		FetchedAt: float64(now.UnixNano()) / float64(time.Second),
		Entry:     entry,
	}
}

// Fetched returns FetchedAt as a time.
func (r CacheRecord) Fetched() time.Time {
	sec, frac := math.Modf(r.FetchedAt)
	return time.Unix(int64(sec), int64(frac*float64(time.Second)))
}

// Fresh reports whether the record is younger than ttl at now.
func (r CacheRecord) Fresh(now time.Time, ttl time.Duration) bool {
	return now.Sub(r.Fetched()) < ttl
}

// Cache is everything persisted between runs. A present Enrichment key with
// a nil value records a lookup that found nothing.
type Cache struct {
	Torrents   map[string]CacheRecord `json:"torrents"`
	Enrichment map[string]*Enrichment `json:"tmdb_cache"`
}

// NewCache returns an empty cache.
func NewCache() *Cache {
	return &Cache{
		Torrents:   make(map[string]CacheRecord),
		Enrichment: make(map[string]*Enrichment),
	}
}

// Init allocates maps left nil by decoding.
func (c *Cache) Init() {
	if c.Torrents == nil {
		c.Torrents = make(map[string]CacheRecord)
	}
	if c.Enrichment == nil {
		c.Enrichment = make(map[string]*Enrichment)
	}
}

// Snapshot is the published catalog.
type Snapshot struct {
	Version int     `json:"version"`
	Updated string  `json:"updated"`
	Mode    string  `json:"mode,omitempty"`
	Items   []Entry `json:"items"`
}
