// Package syncer merges the remote torrent list with the previous run's
// cache and assembles the library snapshot.
package syncer

//go:generate go run go.uber.org/mock/mockgen -source=engine.go -destination=mocks/engine.go -package=mocks

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/vmunix/arrsnap/internal/library"
	"github.com/vmunix/arrsnap/internal/realdebrid"
	"github.com/vmunix/arrsnap/pkg/release"
)

// DefaultRefreshAfter is how long a cached entry is reused before the
// torrent is resolved again.
const DefaultRefreshAfter = 23 * time.Hour

// Source is the remote torrent service.
type Source interface {
	ListTorrents(ctx context.Context) ([]realdebrid.Torrent, error)
	TorrentInfo(ctx context.Context, id string) (*realdebrid.TorrentInfo, error)
	Unrestrict(ctx context.Context, link string) (*realdebrid.UnrestrictedLink, error)
}

// Enricher resolves metadata for an identity, recording outcomes in known.
type Enricher interface {
	Lookup(ctx context.Context, known map[string]*library.Enrichment, id release.Identity) *library.Enrichment
}

// Options configures an Engine.
type Options struct {
	Mode         Mode
	RefreshAfter time.Duration
	Clock        func() time.Time
}

// Engine runs one sync pass at a time. It is not safe for concurrent use.
type Engine struct {
	src      Source
	enricher Enricher
	opts     Options
	log      *slog.Logger
}

// New creates an Engine. Zero options default to full mode, a 23 hour
// refresh window and the wall clock.
func New(src Source, enricher Enricher, opts Options, log *slog.Logger) *Engine {
	if opts.Mode == "" {
		opts.Mode = ModeFull
	}
	if opts.RefreshAfter <= 0 {
		opts.RefreshAfter = DefaultRefreshAfter
	}
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Engine{
		src:      src,
		enricher: enricher,
		opts:     opts,
		log:      log.With("component", "syncer"),
	}
}

// Run performs one pass. cache is updated in place: records for torrents
// no longer listed are evicted, resolved torrents get new records, and
// enrichment outcomes are added. A failed list call leaves cache untouched.
func (e *Engine) Run(ctx context.Context, cache *library.Cache) (*library.Snapshot, Stats, error) {
	var stats Stats
	cache.Init()

	torrents, err := e.src.ListTorrents(ctx)
	if err != nil {
		return nil, stats, fmt.Errorf("list torrents: %w", err)
	}
	stats.Fetched = len(torrents)
	e.log.Info("fetched torrent list", "count", len(torrents), "mode", e.opts.Mode)

	stats.Evicted = evict(cache, torrents)
	if stats.Evicted > 0 {
		e.log.Info("evicted removed torrents", "count", stats.Evicted)
	}

	now := e.opts.Clock()
	knownBefore := len(cache.Enrichment)
	entries := make([]library.Entry, 0, len(torrents))

	for i, t := range torrents {
		if err := ctx.Err(); err != nil {
			return nil, stats, err
		}
		if !t.Downloaded() {
			stats.Skipped++
			continue
		}
		stats.Eligible++

		rec, cached := cache.Torrents[t.ID]
		if cached && rec.Fresh(now, e.opts.RefreshAfter) {
			entries = append(entries, rec.Entry)
			stats.Reused++
			continue
		}

		e.log.Debug("resolving torrent", "index", i+1, "total", len(torrents), "id", t.ID, "filename", t.Filename)
		entry, err := e.resolve(ctx, t, cache.Enrichment)
		if err != nil {
			if ctx.Err() != nil {
				return nil, stats, ctx.Err()
			}
			if cached {
				e.log.Warn("resolve failed, using stale entry", "id", t.ID, "filename", t.Filename, "error", err)
				entries = append(entries, rec.Entry)
				stats.Fallback++
			} else {
				e.log.Warn("resolve failed, dropping torrent", "id", t.ID, "filename", t.Filename, "error", err)
				stats.Dropped++
			}
			continue
		}

		if cached {
			stats.Refreshed++
		} else {
			stats.New++
		}
		cache.Torrents[t.ID] = library.NewCacheRecord(entry, now)
		entries = append(entries, entry)
	}
	stats.Lookups = len(cache.Enrichment) - knownBefore

	snap := library.NewSnapshot(entries, e.opts.Clock(), string(e.opts.Mode))
	e.log.Info("sync complete", stats.Attrs()...)
	return snap, stats, nil
}

// evict deletes records whose id is not in torrents and returns how many.
func evict(cache *library.Cache, torrents []realdebrid.Torrent) int {
	seen := make(map[string]struct{}, len(torrents))
	for _, t := range torrents {
		seen[t.ID] = struct{}{}
	}
	n := 0
	for id := range cache.Torrents {
		if _, ok := seen[id]; !ok {
			delete(cache.Torrents, id)
			n++
		}
	}
	return n
}

// resolve builds a fresh entry for t. Only the detail call can fail it.
func (e *Engine) resolve(ctx context.Context, t realdebrid.Torrent, known map[string]*library.Enrichment) (library.Entry, error) {
	id := release.Parse(t.Filename)
	entry := library.Entry{
		ID:       t.ID,
		Filename: t.Filename,
		Title:    id.Title,
		Type:     id.Type,
		Year:     id.Year,
		Season:   id.Season,
		Episode:  id.Episode,
		Size:     t.Bytes,
		Added:    t.Added,
	}

	switch e.opts.Mode {
	case ModeList:
		if len(t.Links) > 0 {
			entry.RawLinks = append([]string(nil), t.Links...)
		}
		entry.IsPack = len(t.Links) > 1

	default:
		info, err := e.src.TorrentInfo(ctx, t.ID)
		if err != nil {
			return library.Entry{}, err
		}

		episodes := library.ExtractEpisodes(sourceFiles(info.Files), true)
		entry.IsPack = len(episodes) > 1

		links, err := e.unrestrict(ctx, t.ID, info.Links)
		if err != nil {
			return library.Entry{}, err
		}
		entry.Links = links

		if entry.IsPack {
			library.AttachStreams(episodes, links)
			entry.Episodes = episodes
		}
	}

	entry.TMDB = e.enricher.Lookup(ctx, known, id)
	return entry, nil
}

// unrestrict resolves each hoster link, skipping the ones that fail.
// Only cancellation is returned as an error.
func (e *Engine) unrestrict(ctx context.Context, torrentID string, links []string) ([]library.StreamLink, error) {
	var out []library.StreamLink
	for _, link := range links {
		res, err := e.src.Unrestrict(ctx, link)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			e.log.Warn("unrestrict failed, skipping link", "id", torrentID, "error", err)
			continue
		}
		if res == nil || res.Download == "" {
			continue
		}
		out = append(out, library.StreamLink{
			Filename: res.Filename,
			Filesize: res.Filesize,
			Download: res.Download,
			MimeType: res.MimeType,
		})
	}
	return out, nil
}

func sourceFiles(files []realdebrid.File) []library.SourceFile {
	out := make([]library.SourceFile, len(files))
	for i, f := range files {
		out[i] = library.SourceFile{Path: f.Path, Bytes: f.Bytes, Selected: f.IsSelected()}
	}
	return out
}
