// Package enrich attaches catalog metadata to parsed identities, caching
// every outcome, including "no result", by identity key.
package enrich

//go:generate go run go.uber.org/mock/mockgen -source=enrich.go -destination=mocks/enrich.go -package=mocks

import (
	"context"
	"io"
	"log/slog"
	"strings"

	"github.com/vmunix/arrsnap/internal/library"
	"github.com/vmunix/arrsnap/internal/tmdb"
	"github.com/vmunix/arrsnap/pkg/release"
)

// Searcher finds the most relevant catalog result for a title.
// It returns nil, nil when nothing matched.
type Searcher interface {
	Search(ctx context.Context, title string, typ release.MediaType, year *int) (*tmdb.Result, error)
}

// Key identifies an enrichment subject: lower(title)|year|type.
func Key(id release.Identity) string {
	return strings.ToLower(id.Title) + "|" + id.YearString() + "|" + string(id.Type)
}

// Service performs cached lookups. A nil Searcher disables lookups.
type Service struct {
	searcher Searcher
	log      *slog.Logger
	calls    int
}

// NewService creates an enrichment service. Pass a nil searcher when no
// catalog credential is configured.
func NewService(searcher Searcher, log *slog.Logger) *Service {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Service{searcher: searcher, log: log}
}

// Enabled reports whether external lookups can happen.
func (s *Service) Enabled() bool {
	return s.searcher != nil
}

// Calls returns how many external lookups were made.
func (s *Service) Calls() int {
	return s.calls
}

// Lookup returns the enrichment for id, consulting known first. A key that
// is present in known is never looked up again, even when its value is nil.
// Failed or empty lookups are recorded in known as nil. When the service is
// disabled nothing is recorded.
func (s *Service) Lookup(ctx context.Context, known map[string]*library.Enrichment, id release.Identity) *library.Enrichment {
	key := Key(id)
	if rec, ok := known[key]; ok {
		return rec
	}
	if s.searcher == nil {
		return nil
	}

	s.calls++
	res, err := s.searcher.Search(ctx, id.Title, id.Type, id.Year)
	if err != nil {
		if ctx.Err() != nil {
			return nil
		}
		s.log.Warn("enrichment unavailable", "key", key, "error", err)
		known[key] = nil
		return nil
	}
	if res == nil {
		s.log.Debug("no enrichment result", "key", key)
		known[key] = nil
		return nil
	}

	if m := release.MatchTitle(id.Title, res.DisplayTitle()); m.Confidence < release.ConfidenceMedium {
		s.log.Warn("low confidence enrichment match",
			"title", id.Title,
			"match", res.DisplayTitle(),
			"score", m.Score,
			"confidence", m.Confidence.String())
	}

	rec := res.Enrichment()
	known[key] = rec
	return rec
}
