package release

import (
	"regexp"
	"strings"
)

// Group 1 of every token pattern is the token itself. Delimiting is checked
// by tokenPattern so "Guts" never yields "ts" and "1920x1080" is not 20x108.
var (
	qualityTokens = tokenPattern{
		re: regexp.MustCompile(`(?i)(` +
			`720p|1080p|2160p|4k|` +
			`hdrip|brrip|bluray|bdrip|web-?dl|web-?rip|hdtv|dvdrip|dvdscr|cam|ts|remux|` +
			`x264|x265|h\.?264|h\.?265|hevc|10bit|` +
			`aac|ac3|dts|flac|atmos|dual[.\s_]?audio|multi|` +
			`hdr|dv|` +
			`repack|proper|extended|unrated|directors[.\s_]?cut` +
			`)`),
		right: notAlnum,
	}

	yearTokens = tokenPattern{
		re:    regexp.MustCompile(`((?:19|20)\d{2})`),
		right: notAlnum,
	}

	// Alternatives in priority order: S01E02, 1x02, S01, Season 1.
	seasonEpisodeTokens = tokenPattern{
		re: regexp.MustCompile(`(?i)(` +
			`s(\d{1,2})e(\d{1,3})|` +
			`(\d{1,2})x(\d{1,3})|` +
			`s(\d{1,2})|` +
			`season[.\s_]?(\d{1,2})` +
			`)`),
		right: notDigit,
	}

	// Bare episode numbering, used only when nothing else gave an episode.
	bareEpisodeTokens = tokenPattern{
		re:    regexp.MustCompile(`(?i)(e(?:pisode)?[.\s_]?(\d{1,3}))`),
		right: notDigit,
	}

	separatorRunRegex = regexp.MustCompile(`[\s._-]+`)
	trailingJunkRegex = regexp.MustCompile(`[\s-]+$`)
)

// tokenPattern is a regexp whose matches only count when they are delimited:
// preceded by the start of the string or a non-alphanumeric byte, and
// followed by the end of the string or a byte accepted by right.
type tokenPattern struct {
	re    *regexp.Regexp
	right func(byte) bool
}

// all returns the submatch indices of every delimited match, in order.
func (p tokenPattern) all(s string) [][]int {
	var out [][]int
	for _, m := range p.re.FindAllStringSubmatchIndex(s, -1) {
		start, end := m[2], m[3]
		if start > 0 && !notAlnum(s[start-1]) {
			continue
		}
		if end < len(s) && !p.right(s[end]) {
			continue
		}
		out = append(out, m)
	}
	return out
}

// first returns the first delimited match, or nil.
func (p tokenPattern) first(s string) []int {
	if all := p.all(s); len(all) > 0 {
		return all[0]
	}
	return nil
}

// cutPosition returns where a title ends if it is cut at the first delimited
// token: the token start, moved back over any leading separators. Tokens that
// would leave an empty title are ignored; -1 means no usable token.
func (p tokenPattern) cutPosition(s string) int {
	for _, m := range p.all(s) {
		pos := m[2]
		for pos > 0 && isLeadSeparator(s[pos-1]) {
			pos--
		}
		if pos > 0 {
			return pos
		}
	}
	return -1
}

func isLeadSeparator(b byte) bool {
	switch b {
	case ' ', '\t', '.', '_', '-', '[', '(':
		return true
	}
	return false
}

func notAlnum(b byte) bool {
	return !(b >= '0' && b <= '9' || b >= 'a' && b <= 'z' || b >= 'A' && b <= 'Z')
}

func notDigit(b byte) bool {
	return b < '0' || b > '9'
}

// state is the accumulator threaded through the parse rules.
type state struct {
	stem string // name with a known video extension removed
	id   Identity
}

// Rule contributes one field of an Identity.
type Rule struct {
	Name  string
	Apply func(*state)
}

// Rules is the ordered rule set applied by Parse.
var Rules = []Rule{
	{Name: "extension", Apply: stripExtension},
	{Name: "year", Apply: detectYear},
	{Name: "season-episode", Apply: detectSeasonEpisode},
	{Name: "title", Apply: cutTitle},
	{Name: "normalize", Apply: normalizeTitle},
}

// Parse extracts a media identity from a torrent or file name.
// It never fails: names without recognizable tags become movies whose title
// is the cleaned name.
func Parse(name string) Identity {
	st := &state{id: Identity{Original: name, Type: TypeMovie}}
	for _, r := range Rules {
		r.Apply(st)
	}
	return st.id
}

func stripExtension(st *state) {
	st.stem = TrimVideoExt(st.id.Original)
}

func detectYear(st *state) {
	matches := yearTokens.all(st.stem)
	if len(matches) == 0 {
		return
	}
	// A leading year belongs to the title ("1917", "2012"); prefer a later one.
	pick := matches[0]
	for _, m := range matches {
		if m[2] > 0 {
			pick = m
			break
		}
	}
	st.id.Year = atoiPtr(st.stem[pick[2]:pick[3]])
}

func detectSeasonEpisode(st *state) {
	season, episode, ok := matchSeasonEpisode(st.stem)
	if !ok {
		return
	}
	st.id.Type = TypeTV
	st.id.Season = season
	st.id.Episode = episode
}

// matchSeasonEpisode returns whichever fields the first matching alternative
// of the combined season/episode pattern provides.
func matchSeasonEpisode(s string) (season, episode *int, ok bool) {
	m := seasonEpisodeTokens.first(s)
	if m == nil {
		return nil, nil, false
	}
	group := func(i int) string {
		if m[2*i] < 0 {
			return ""
		}
		return s[m[2*i]:m[2*i+1]]
	}
	switch {
	case group(2) != "" && group(3) != "":
		return atoiPtr(group(2)), atoiPtr(group(3)), true
	case group(4) != "" && group(5) != "":
		return atoiPtr(group(4)), atoiPtr(group(5)), true
	case group(6) != "":
		return atoiPtr(group(6)), nil, true
	case group(7) != "":
		return atoiPtr(group(7)), nil, true
	}
	return nil, nil, false
}

// titleCutters are tried in priority order; on equal positions the first wins.
var titleCutters = []tokenPattern{qualityTokens, seasonEpisodeTokens, yearTokens}

func cutTitle(st *state) {
	cut := -1
	for _, p := range titleCutters {
		pos := p.cutPosition(st.stem)
		if pos > 0 && (cut < 0 || pos < cut) {
			cut = pos
		}
	}
	if cut < 0 {
		st.id.Title = st.stem
		return
	}
	st.id.Title = st.stem[:cut]
}

func normalizeTitle(st *state) {
	st.id.Title = cleanSeparators(st.id.Title)
}

// cleanSeparators collapses each run of dots, dashes, underscores and
// whitespace into one space.
func cleanSeparators(s string) string {
	s = separatorRunRegex.ReplaceAllString(s, " ")
	s = strings.TrimSpace(s)
	return trailingJunkRegex.ReplaceAllString(s, "")
}
