package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vmunix/arrsnap/pkg/release"
)

// ParseResultJSON is the JSON form of one parsed filename.
type ParseResultJSON struct {
	release.Identity
	CleanTitle string `json:"clean_title"`
	Video      bool   `json:"video"`
}

var parseCmd = &cobra.Command{
	Use:   "parse [flags] <filename>...",
	Short: "Parse torrent filenames (local, no network)",
	Long: `Identify title, type, year, season and episode from filenames the
same way sync does.

Examples:
  arrsnap parse "The.Matrix.1999.1080p.BluRay.x264-GROUP.mkv"
  arrsnap parse "Show.Name.S02E05.720p.WEB-DL.mkv" --json
  arrsnap parse --file names.txt`,
	RunE: runParseCmd,
}

func init() {
	rootCmd.AddCommand(parseCmd)
	parseCmd.Flags().StringP("file", "f", "", "Read filenames from file (one per line)")
}

func runParseCmd(cmd *cobra.Command, args []string) error {
	inputFile, _ := cmd.Flags().GetString("file")

	names := args
	if inputFile != "" {
		fromFile, err := readNameFile(inputFile)
		if err != nil {
			return fmt.Errorf("reading file: %w", err)
		}
		names = append(names, fromFile...)
	}
	if len(names) == 0 {
		return fmt.Errorf("usage: arrsnap parse <filename> or arrsnap parse --file <path>")
	}

	results := make([]ParseResultJSON, 0, len(names))
	for _, name := range names {
		results = append(results, parseName(name))
	}

	out := cmd.OutOrStdout()
	if jsonOutput {
		if len(results) == 1 {
			return writeJSON(out, results[0])
		}
		return writeJSON(out, results)
	}
	for i, r := range results {
		if i > 0 {
			fmt.Fprintln(out)
		}
		printParseResult(out, r)
	}
	return nil
}

func parseName(name string) ParseResultJSON {
	id := release.Parse(name)
	return ParseResultJSON{
		Identity:   id,
		CleanTitle: release.CleanTitle(id.Title),
		Video:      release.IsVideo(name),
	}
}

// readNameFile reads filenames from a file, one per line. Blank lines and
// lines starting with # are skipped.
func readNameFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	var names []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line != "" && !strings.HasPrefix(line, "#") {
			names = append(names, line)
		}
	}
	return names, scanner.Err()
}

func printParseResult(w io.Writer, r ParseResultJSON) {
	fmt.Fprintf(w, "Original:    %s\n", r.Original)
	fmt.Fprintf(w, "Title:       %s\n", valueOrEmpty(r.Title))
	fmt.Fprintf(w, "Type:        %s\n", r.Type)
	if r.Year != nil {
		fmt.Fprintf(w, "Year:        %d\n", *r.Year)
	}
	if r.Season != nil {
		fmt.Fprintf(w, "Season:      %d\n", *r.Season)
	}
	if r.Episode != nil {
		fmt.Fprintf(w, "Episode:     %d\n", *r.Episode)
	}
	fmt.Fprintf(w, "CleanTitle:  %s\n", valueOrEmpty(r.CleanTitle))
	fmt.Fprintf(w, "Video:       %s\n", boolToYesNo(r.Video))
}

// valueOrEmpty returns the value or an empty placeholder.
func valueOrEmpty(s string) string {
	if s == "" {
		return "(none)"
	}
	return s
}

// boolToYesNo converts a boolean to yes/no string.
func boolToYesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
