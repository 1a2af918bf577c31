package release

// ParseEpisode extracts season and episode numbers from a single file name.
// It uses the same alternatives as Parse and falls back to bare "E05" or
// "Episode 5" numbering when no episode was found.
func ParseEpisode(name string) (season, episode *int) {
	stem := TrimVideoExt(name)
	season, episode, _ = matchSeasonEpisode(stem)
	if episode != nil {
		return season, episode
	}
	if m := bareEpisodeTokens.first(stem); m != nil {
		episode = atoiPtr(stem[m[4]:m[5]])
	}
	return season, episode
}
