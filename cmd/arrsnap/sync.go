package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/vmunix/arrsnap/internal/config"
	"github.com/vmunix/arrsnap/internal/enrich"
	"github.com/vmunix/arrsnap/internal/history"
	"github.com/vmunix/arrsnap/internal/library"
	"github.com/vmunix/arrsnap/internal/realdebrid"
	"github.com/vmunix/arrsnap/internal/state"
	"github.com/vmunix/arrsnap/internal/syncer"
	"github.com/vmunix/arrsnap/internal/tmdb"
	"github.com/vmunix/arrsnap/internal/vault"
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Run one sync pass and write the snapshot",
	Long: `Fetch the torrent list, merge it with the cached results of the last
run, resolve new and stale torrents and write the encrypted cache and
snapshot.

Examples:
  arrsnap sync
  arrsnap sync --mode list
  arrsnap sync --json`,
	Args: cobra.NoArgs,
	RunE: runSyncCmd,
}

func init() {
	rootCmd.AddCommand(syncCmd)
	syncCmd.Flags().String("mode", "", "Resolution depth: full or list (default from config)")
}

func runSyncCmd(cmd *cobra.Command, _ []string) error {
	cfg, log, closeLog, err := setup()
	if err != nil {
		return err
	}
	defer func() { _ = closeLog() }()

	if mode, _ := cmd.Flags().GetString("mode"); mode != "" {
		cfg.Sync.Mode = mode
	}

	r, err := newRunner(cfg, log)
	if err != nil {
		return err
	}

	run, err := r.pass(cmd.Context())
	if jsonOutput {
		if jerr := writeJSON(cmd.OutOrStdout(), newRunJSON(run)); jerr != nil {
			return jerr
		}
	} else {
		printRunSummary(cmd.OutOrStdout(), run)
	}
	return err
}

// runner performs sync passes for one configuration.
type runner struct {
	cfg   *config.Config
	log   *slog.Logger
	mode  syncer.Mode
	store *state.Store
	clock func() time.Time

	// extra client options, appended after the configured ones
	rdOpts   []realdebrid.Option
	tmdbOpts []tmdb.Option
}

func newRunner(cfg *config.Config, log *slog.Logger) (*runner, error) {
	mode, err := syncer.ParseMode(cfg.Sync.Mode)
	if err != nil {
		return nil, err
	}
	store, err := newStore(afero.NewOsFs(), cfg)
	if err != nil {
		return nil, err
	}
	return &runner{
		cfg:   cfg,
		log:   log,
		mode:  mode,
		store: store,
		clock: time.Now,
	}, nil
}

// newStore builds the sealed state store described by cfg.
func newStore(fs afero.Fs, cfg *config.Config) (*state.Store, error) {
	enc, err := state.ParseEncoding(cfg.Storage.Encoding)
	if err != nil {
		return nil, err
	}
	var vopts []vault.Option
	if cfg.Encryption.Iterations > 0 {
		vopts = append(vopts, vault.WithIterations(cfg.Encryption.Iterations))
	}
	return state.New(fs, state.Options{
		Dir:          cfg.Storage.Dir,
		CacheFile:    cfg.Storage.CacheFile,
		SnapshotFile: cfg.Storage.SnapshotFile,
		Encoding:     enc,
		Password:     cfg.Encryption.Password,
		Vault:        vault.New(vopts...),
	}), nil
}

// pass runs one sync and records it in history. The returned run is never
// nil, even on error.
func (r *runner) pass(ctx context.Context) (*history.Run, error) {
	run := &history.Run{
		StartedAt: r.clock().UTC(),
		Mode:      string(r.mode),
		Status:    history.StatusOK,
	}

	err := r.sync(ctx, run)
	run.FinishedAt = r.clock().UTC()
	if err != nil {
		run.Status = history.StatusFailed
		run.Error = err.Error()
	}
	if errors.Is(err, state.ErrLocked) {
		return run, err
	}

	r.record(context.WithoutCancel(ctx), run)
	return run, err
}

func (r *runner) sync(ctx context.Context, run *history.Run) error {
	lock, err := state.Lock(r.cfg.Storage.Dir)
	if err != nil {
		return err
	}
	defer func() { _ = lock.Unlock() }()

	cache, err := r.store.LoadCache()
	if errors.Is(err, state.ErrCacheUnreadable) {
		r.log.Warn("cache unreadable, rebuilding from scratch", "path", r.store.CachePath(), "error", err)
		cache = library.NewCache()
	} else if err != nil {
		return err
	}

	engine := syncer.New(r.source(), enrich.NewService(r.searcher(), r.log), syncer.Options{
		Mode:         r.mode,
		RefreshAfter: r.cfg.Sync.RefreshAfter,
		Clock:        r.clock,
	}, r.log)

	snap, stats, err := engine.Run(ctx, cache)
	run.Stats = stats
	if err != nil {
		return err
	}

	if err := r.store.SaveCache(cache); err != nil {
		return err
	}
	plain, sealed, err := r.store.SaveSnapshot(snap)
	if err != nil {
		return err
	}
	r.log.Info("snapshot written",
		"path", r.store.SnapshotPath(),
		"items", len(snap.Items),
		"plain_bytes", plain,
		"sealed_bytes", sealed,
	)
	return nil
}

func (r *runner) source() *realdebrid.Client {
	opts := []realdebrid.Option{
		realdebrid.WithLogger(r.log),
		realdebrid.WithPageSize(r.cfg.RealDebrid.PageSize),
	}
	if r.cfg.RealDebrid.BaseURL != "" {
		opts = append(opts, realdebrid.WithBaseURL(r.cfg.RealDebrid.BaseURL))
	}
	return realdebrid.New(r.cfg.RealDebrid.APIKey, append(opts, r.rdOpts...)...)
}

// searcher returns nil when no TMDB key is configured, which disables
// enrichment.
func (r *runner) searcher() enrich.Searcher {
	if r.cfg.TMDB.APIKey == "" {
		r.log.Info("tmdb api key not set, enrichment disabled")
		return nil
	}
	opts := []tmdb.Option{tmdb.WithLogger(r.log)}
	if r.cfg.TMDB.BaseURL != "" {
		opts = append(opts, tmdb.WithBaseURL(r.cfg.TMDB.BaseURL))
	}
	return tmdb.NewClient(r.cfg.TMDB.APIKey, append(opts, r.tmdbOpts...)...)
}

// record stores run in the history database when one is configured.
// Failures are logged, never returned.
func (r *runner) record(ctx context.Context, run *history.Run) {
	if r.cfg.History.Path == "" {
		return
	}
	if err := os.MkdirAll(filepath.Dir(r.cfg.History.Path), 0o755); err != nil {
		r.log.Warn("history unavailable", "error", err)
		return
	}
	h, err := history.Open(ctx, r.cfg.History.Path)
	if err != nil {
		r.log.Warn("history unavailable", "error", err)
		return
	}
	defer func() { _ = h.Close() }()

	if err := h.Record(ctx, run); err != nil {
		r.log.Warn("record run failed", "error", err)
	}
}

// runJSON is the JSON form of a recorded run.
type runJSON struct {
	ID         string       `json:"id,omitempty"`
	StartedAt  time.Time    `json:"started_at"`
	FinishedAt time.Time    `json:"finished_at"`
	DurationMS int64        `json:"duration_ms"`
	Mode       string       `json:"mode"`
	Status     string       `json:"status"`
	Error      string       `json:"error,omitempty"`
	Items      int          `json:"items"`
	Stats      syncer.Stats `json:"stats"`
}

func newRunJSON(run *history.Run) runJSON {
	return runJSON{
		ID:         run.ID,
		StartedAt:  run.StartedAt,
		FinishedAt: run.FinishedAt,
		DurationMS: run.Duration().Milliseconds(),
		Mode:       run.Mode,
		Status:     string(run.Status),
		Error:      run.Error,
		Items:      run.Stats.Items(),
		Stats:      run.Stats,
	}
}

func printRunSummary(w io.Writer, run *history.Run) {
	st := run.Stats
	if run.Status == history.StatusFailed {
		fmt.Fprintf(w, "Sync failed after %s: %s\n", run.Duration().Round(time.Millisecond), run.Error)
		return
	}
	fmt.Fprintf(w, "Sync complete (%s mode) in %s\n", run.Mode, run.Duration().Round(time.Millisecond))
	fmt.Fprintf(w, "  Torrents:   %d listed, %d downloaded, %d skipped\n", st.Fetched, st.Eligible, st.Skipped)
	fmt.Fprintf(w, "  Snapshot:   %s items\n", humanize.Comma(int64(st.Items())))
	fmt.Fprintf(w, "  Resolved:   %d new, %d refreshed\n", st.New, st.Refreshed)
	fmt.Fprintf(w, "  Cached:     %d reused, %d stale fallback\n", st.Reused, st.Fallback)
	if st.Dropped > 0 || st.Evicted > 0 {
		fmt.Fprintf(w, "  Removed:    %d dropped, %d evicted\n", st.Dropped, st.Evicted)
	}
	if st.Lookups > 0 {
		fmt.Fprintf(w, "  Enrichment: %d new lookups\n", st.Lookups)
	}
}
