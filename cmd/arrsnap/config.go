package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/sethvargo/go-password/password"
	"github.com/spf13/cobra"

	"github.com/vmunix/arrsnap/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Configuration management",
}

var configTestCmd = &cobra.Command{
	Use:   "test [path]",
	Short: "Validate configuration file",
	Long:  "Validates config.toml syntax, required fields, and environment variable substitution without contacting any service.",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runConfigTest,
}

var configInitCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "Write the default configuration file",
	Long: `Writes the default configuration, which reads credentials from the environment.

With --resolved the current configuration (from --config or discovery) is
written instead, with every environment reference already substituted. The
file then holds the credentials in plain text and is created with mode 0600.`,
	Args: cobra.MaximumNArgs(1),
	RunE:  runConfigInit,
}

var configPasswordCmd = &cobra.Command{
	Use:   "password",
	Short: "Generate a random encryption password",
	Long:  "Prints a random password suitable for ENCRYPTION_PASSWORD. Changing the password makes an existing cache unreadable; the next sync rebuilds it.",
	Args:  cobra.NoArgs,
	RunE:  runConfigPassword,
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configTestCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configPasswordCmd)
	configInitCmd.Flags().Bool("force", false, "Overwrite an existing file")
	configInitCmd.Flags().Bool("resolved", false, "Write the current configuration with environment values filled in")
	configInitCmd.Flags().Bool("stdout", false, "Print the default configuration instead of writing a file")
	configPasswordCmd.Flags().Int("length", 32, "Password length")
}

func runConfigTest(cmd *cobra.Command, args []string) error {
	path := configPath
	if len(args) > 0 {
		path = args[0]
	}
	out := cmd.OutOrStdout()

	cfg, source, err := config.Resolve(path)
	if err != nil {
		var configErr *config.Error
		if errors.As(err, &configErr) {
			fmt.Fprintf(out, "Validating %s...\n\n", configErr.Path)
			printConfigErrors(out, configErr)
			return fmt.Errorf("configuration invalid")
		}
		return fmt.Errorf("failed to load config: %w", err)
	}

	fmt.Fprintf(out, "Validating %s...\n\n", source)
	printConfigSummary(out, cfg)
	fmt.Fprintln(out, "\nConfiguration valid!")
	return nil
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	opts := initOptions{path: config.DefaultPath(), source: configPath}
	if len(args) > 0 {
		opts.path = args[0]
	}
	opts.force, _ = cmd.Flags().GetBool("force")
	opts.resolved, _ = cmd.Flags().GetBool("resolved")
	opts.stdout, _ = cmd.Flags().GetBool("stdout")
	return initConfig(cmd.OutOrStdout(), opts)
}

type initOptions struct {
	path     string // destination
	source   string // config to resolve with --resolved; empty means discover
	force    bool
	resolved bool
	stdout   bool
}

func initConfig(w io.Writer, opts initOptions) error {
	if opts.stdout && !opts.resolved {
		_, err := io.WriteString(w, config.DefaultConfig())
		return err
	}
	if !opts.stdout {
		if _, err := os.Stat(opts.path); err == nil && !opts.force {
			return fmt.Errorf("%s already exists (use --force to overwrite)", opts.path)
		}
	}

	if !opts.resolved {
		if err := config.WriteDefault(opts.path); err != nil {
			return fmt.Errorf("write config: %w", err)
		}
		fmt.Fprintf(w, "Wrote %s\n", opts.path)
		return nil
	}

	cfg, source, err := config.Resolve(opts.source)
	if err != nil {
		return err
	}
	if opts.stdout {
		return cfg.Encode(w)
	}
	if err := cfg.Write(opts.path); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	fmt.Fprintf(w, "Wrote %s (resolved from %s)\n", opts.path, source)
	return nil
}

func runConfigPassword(cmd *cobra.Command, args []string) error {
	length, _ := cmd.Flags().GetInt("length")
	pw, err := generatePassword(length)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), pw)
	return nil
}

// generatePassword returns a mixed-case password with a quarter digits and
// no symbols, so it survives shell quoting and TOML strings.
func generatePassword(length int) (string, error) {
	if length < 12 {
		return "", fmt.Errorf("password length must be at least 12, got %d", length)
	}
	pw, err := password.Generate(length, length/4, 0, false, true)
	if err != nil {
		return "", fmt.Errorf("generate password: %w", err)
	}
	return pw, nil
}

func printConfigErrors(w io.Writer, e *config.Error) {
	if len(e.Missing) > 0 {
		fmt.Fprintln(w, "Missing environment variables:")
		for _, m := range e.Missing {
			fmt.Fprintf(w, "  - %s\n", m)
		}
		fmt.Fprintln(w)
	}

	if len(e.Errors) > 0 {
		fmt.Fprintln(w, "Validation errors:")
		for _, err := range e.Errors {
			fmt.Fprintf(w, "  - %s\n", err)
		}
		fmt.Fprintln(w)
	}
}

func printConfigSummary(w io.Writer, cfg *config.Config) {
	enrichment := "disabled"
	if cfg.TMDB.APIKey != "" {
		enrichment = "tmdb"
	}
	hist := "disabled"
	if cfg.History.Path != "" {
		hist = cfg.History.Path
	}
	iterations := "default"
	if cfg.Encryption.Iterations > 0 {
		iterations = fmt.Sprint(cfg.Encryption.Iterations)
	}

	fmt.Fprintln(w, "Configuration Summary:")
	fmt.Fprintf(w, "  Real-Debrid: page size %d\n", cfg.RealDebrid.PageSize)
	fmt.Fprintf(w, "  Enrichment:  %s\n", enrichment)
	fmt.Fprintf(w, "  Sync:        %s mode, refresh after %s, every %s\n", cfg.Sync.Mode, cfg.Sync.RefreshAfter, cfg.Sync.Interval)
	fmt.Fprintf(w, "  Storage:     %s (%s, %s, %s)\n", cfg.Storage.Dir, valueOrEmpty(cfg.Storage.CacheFile), valueOrEmpty(cfg.Storage.SnapshotFile), cfg.Storage.Encoding)
	fmt.Fprintf(w, "  Encryption:  %s iterations\n", iterations)
	fmt.Fprintf(w, "  History:     %s\n", hist)
	fmt.Fprintf(w, "  Log:         %s (%s)\n", cfg.Log.Level, cfg.Log.Format)
}
