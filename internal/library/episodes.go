package library

import (
	"path"
	"slices"
	"strings"

	"github.com/vmunix/arrsnap/pkg/release"
)

// SourceFile is a file reported inside a remote torrent.
type SourceFile struct {
	Path     string
	Bytes    int64
	Selected bool
}

// ExtractEpisodes builds the episode list for a torrent's video files,
// ordered by (season, episode) with missing numbers sorting as 0.
// With selectedOnly, unselected files are skipped.
func ExtractEpisodes(files []SourceFile, selectedOnly bool) []Episode {
	var episodes []Episode
	for _, f := range files {
		if selectedOnly && !f.Selected {
			continue
		}
		name := path.Base(f.Path)
		if !release.IsVideo(name) {
			continue
		}
		season, episode := release.ParseEpisode(name)
		episodes = append(episodes, Episode{
			Filename:     name,
			Path:         f.Path,
			Size:         f.Bytes,
			Season:       season,
			Episode:      episode,
			FriendlyName: release.Parse(name).Title,
		})
	}

	slices.SortStableFunc(episodes, func(a, b Episode) int {
		if d := orZero(a.Season) - orZero(b.Season); d != 0 {
			return d
		}
		return orZero(a.Episode) - orZero(b.Episode)
	})
	return episodes
}

// AttachStreams sets each episode's stream URL to the first link whose
// filename contains, or is contained in, the episode filename. Matching is
// case-insensitive. Links without a filename never match.
func AttachStreams(episodes []Episode, links []StreamLink) {
	for i := range episodes {
		name := strings.ToLower(episodes[i].Filename)
		for _, l := range links {
			ln := strings.ToLower(l.Filename)
			if ln == "" {
				continue
			}
			if strings.Contains(name, ln) || strings.Contains(ln, name) {
				episodes[i].StreamURL = l.Download
				break
			}
		}
	}
}

func orZero(p *int) int {
	if p == nil {
		return 0
	}
	return *p
}
