package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/vmunix/arrsnap/internal/history"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Sync repeatedly until interrupted",
	Long: `Run a sync pass, then another every interval, until SIGINT or SIGTERM.
Passes never overlap. A failed pass is logged and the next one runs on
schedule.

Examples:
  arrsnap watch
  arrsnap watch --interval 30m`,
	Args: cobra.NoArgs,
	RunE: runWatchCmd,
}

func init() {
	rootCmd.AddCommand(watchCmd)
	watchCmd.Flags().Duration("interval", 0, "Time between passes (default from config)")
	watchCmd.Flags().String("mode", "", "Resolution depth: full or list (default from config)")
}

func runWatchCmd(cmd *cobra.Command, _ []string) error {
	cfg, log, closeLog, err := setup()
	if err != nil {
		return err
	}
	defer func() { _ = closeLog() }()

	if mode, _ := cmd.Flags().GetString("mode"); mode != "" {
		cfg.Sync.Mode = mode
	}
	interval, _ := cmd.Flags().GetDuration("interval")
	if interval <= 0 {
		interval = cfg.Sync.Interval
	}

	r, err := newRunner(cfg, log)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Info("watching", "interval", interval.String(), "mode", string(r.mode))
	return watch(ctx, r, interval, log)
}

// passer runs one sync pass.
type passer interface {
	pass(ctx context.Context) (*history.Run, error)
}

// watch runs p immediately and then every interval until ctx is done. At
// most one pass runs at a time; a tick that arrives while a pass is still
// running is skipped. On shutdown watch waits for the running pass.
func watch(ctx context.Context, p passer, interval time.Duration, log *slog.Logger) error {
	var g errgroup.Group
	g.SetLimit(1)

	start := func() {
		started := g.TryGo(func() error {
			if ctx.Err() != nil {
				return nil
			}
			run, err := p.pass(ctx)
			switch {
			case ctx.Err() != nil:
			case err != nil:
				log.Error("sync failed", "error", err)
			default:
				log.Info("sync pass finished", "id", run.ID, "duration_ms", run.Duration().Milliseconds(), "items", run.Stats.Items())
			}
			return nil
		})
		if !started {
			log.Warn("previous pass still running, skipping tick")
		}
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	start()
	for {
		select {
		case <-ctx.Done():
			log.Info("shutting down")
			return g.Wait()
		case <-ticker.C:
			start()
		}
	}
}
