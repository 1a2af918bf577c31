package main

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/vmunix/arrsnap/internal/history"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recent sync runs",
	Args:  cobra.NoArgs,
	RunE:  runHistoryCmd,
}

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.Flags().IntP("limit", "n", 20, "Number of runs to show")
}

func runHistoryCmd(cmd *cobra.Command, _ []string) error {
	cfg, _, closeLog, err := setup()
	if err != nil {
		return err
	}
	defer func() { _ = closeLog() }()

	if cfg.History.Path == "" {
		return errors.New("history is disabled (set history.path in the config)")
	}
	limit, _ := cmd.Flags().GetInt("limit")

	h, err := history.Open(cmd.Context(), cfg.History.Path)
	if err != nil {
		return err
	}
	defer func() { _ = h.Close() }()

	runs, err := h.List(cmd.Context(), limit)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if jsonOutput {
		list := make([]runJSON, 0, len(runs))
		for _, r := range runs {
			list = append(list, newRunJSON(r))
		}
		return writeJSON(out, list)
	}
	if len(runs) == 0 {
		fmt.Fprintln(out, "No runs recorded.")
		return nil
	}
	headers, rows, aligns := historyTable(runs, time.Now())
	fmt.Fprintln(out, renderTable(headers, rows, aligns))
	return nil
}

func historyTable(runs []*history.Run, now time.Time) ([]string, [][]string, []columnAlignment) {
	headers := []string{"Started", "Mode", "Status", "Duration", "Items", "New", "Refreshed", "Reused", "Fallback", "Dropped"}
	aligns := []columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignRight, alignRight, alignRight, alignRight, alignRight, alignRight}

	rows := make([][]string, 0, len(runs))
	for _, r := range runs {
		status := string(r.Status)
		if r.Error != "" {
			status += ": " + truncate(r.Error, 40)
		}
		st := r.Stats
		rows = append(rows, []string{
			humanize.RelTime(r.StartedAt, now, "ago", "from now"),
			r.Mode,
			status,
			r.Duration().Round(time.Second).String(),
			strconv.Itoa(st.Items()),
			strconv.Itoa(st.New),
			strconv.Itoa(st.Refreshed),
			strconv.Itoa(st.Reused),
			strconv.Itoa(st.Fallback),
			strconv.Itoa(st.Dropped),
		})
	}
	return headers, rows, aligns
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
