package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/vmunix/arrsnap/internal/library"
)

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Decrypt and list the current snapshot",
	Long: `Open the published snapshot with the configured password and list its
items, newest first.

Examples:
  arrsnap show
  arrsnap show --type tv --limit 20
  arrsnap show --json`,
	Args: cobra.NoArgs,
	RunE: runShowCmd,
}

func init() {
	rootCmd.AddCommand(showCmd)
	showCmd.Flags().String("type", "", "Only show movie or tv items")
	showCmd.Flags().Int("limit", 0, "Maximum number of items (0 for all)")
}

func runShowCmd(cmd *cobra.Command, _ []string) error {
	cfg, _, closeLog, err := setup()
	if err != nil {
		return err
	}
	defer func() { _ = closeLog() }()

	typ, _ := cmd.Flags().GetString("type")
	limit, _ := cmd.Flags().GetInt("limit")

	store, err := newStore(afero.NewOsFs(), cfg)
	if err != nil {
		return err
	}
	snap, err := store.LoadSnapshot()
	if err != nil {
		return err
	}

	items := filterItems(snap.Items, typ, limit)
	out := cmd.OutOrStdout()
	if jsonOutput {
		filtered := *snap
		filtered.Items = items
		return writeJSON(out, &filtered)
	}

	fmt.Fprintf(out, "Snapshot v%d updated %s (%s), %d of %d items\n",
		snap.Version, snap.Updated, valueOrEmpty(snap.Mode), len(items), len(snap.Items))
	if len(items) == 0 {
		return nil
	}
	headers, rows, aligns := snapshotTable(items)
	fmt.Fprintln(out, renderTable(headers, rows, aligns))
	return nil
}

// filterItems keeps items of typ (all when empty), at most limit of them.
func filterItems(items []library.Entry, typ string, limit int) []library.Entry {
	out := make([]library.Entry, 0, len(items))
	for _, it := range items {
		if typ != "" && !strings.EqualFold(string(it.Type), typ) {
			continue
		}
		out = append(out, it)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out
}

func snapshotTable(items []library.Entry) ([]string, [][]string, []columnAlignment) {
	headers := []string{"Added", "Title", "Type", "Year", "Episodes", "Size", "Rating"}
	aligns := []columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignLeft, alignRight, alignRight}

	rows := make([][]string, 0, len(items))
	for _, it := range items {
		title := it.Title
		if it.TMDB != nil && it.TMDB.Title != "" {
			title = it.TMDB.Title
		}
		rating := "-"
		if it.TMDB != nil && it.TMDB.Rating > 0 {
			rating = strconv.FormatFloat(it.TMDB.Rating, 'f', 1, 64)
		}
		rows = append(rows, []string{
			addedDate(it.Added),
			title,
			string(it.Type),
			intOrDash(it.Year),
			episodeLabel(it),
			humanize.IBytes(uint64(max(it.Size, 0))),
			rating,
		})
	}
	return headers, rows, aligns
}

// addedDate trims an ISO-8601 timestamp to its date.
func addedDate(s string) string {
	if len(s) >= 10 {
		return s[:10]
	}
	return s
}

func intOrDash(p *int) string {
	if p == nil {
		return "-"
	}
	return strconv.Itoa(*p)
}

// episodeLabel is SxxEyy for single episodes and a count for packs.
func episodeLabel(e library.Entry) string {
	if e.IsPack && len(e.Episodes) > 0 {
		return fmt.Sprintf("%d files", len(e.Episodes))
	}
	switch {
	case e.Season != nil && e.Episode != nil:
		return fmt.Sprintf("S%02dE%02d", *e.Season, *e.Episode)
	case e.Season != nil:
		return fmt.Sprintf("S%02d", *e.Season)
	case e.Episode != nil:
		return fmt.Sprintf("E%02d", *e.Episode)
	}
	return "-"
}
