package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/vmunix/arrsnap/internal/config"
	"github.com/vmunix/arrsnap/internal/logging"
)

var version = "dev"

var (
	configPath string
	jsonOutput bool
)

var rootCmd = &cobra.Command{
	Use:   "arrsnap",
	Short: "Encrypted library snapshots from Real-Debrid",
	Long: `arrsnap - encrypted library snapshots from Real-Debrid

Lists the torrents on a Real-Debrid account, identifies the movies and
episodes inside them, optionally enriches them from TMDB and writes an
encrypted, sorted snapshot for a player to serve.

Credentials come from the config file, which by default reads
RD_API_KEY, ENCRYPTION_PASSWORD and TMDB_API_KEY from the environment.`,
	SilenceUsage: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to config file (default: search ARRSNAP_CONFIG, ./config.toml, XDG, /etc)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output as JSON")

	rootCmd.Version = version
	rootCmd.SetVersionTemplate("arrsnap {{.Version}}\n")
}

// setup loads the config and builds the process logger. The returned close
// func must be called before exit.
func setup() (*config.Config, *slog.Logger, func() error, error) {
	cfg, source, err := config.Resolve(configPath)
	if errors.Is(err, config.ErrInvalid) {
		return nil, nil, nil, fmt.Errorf("%w\n(run 'arrsnap config test' for details)", err)
	}
	if err != nil {
		return nil, nil, nil, err
	}
	log, closeLog, err := logging.New(logging.FromConfig(cfg.Log))
	if err != nil {
		return nil, nil, nil, err
	}
	log.Debug("config loaded", "source", source)
	return cfg, log, closeLog, nil
}

// writeJSON prints v indented.
func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode json: %w", err)
	}
	return nil
}
