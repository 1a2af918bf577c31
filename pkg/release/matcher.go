package release

import "github.com/hbollon/go-edlib"

// MatchConfidence grades how closely a catalog title matches a parsed title.
type MatchConfidence int

const (
	ConfidenceNone   MatchConfidence = iota // score < 0.70
	ConfidenceLow                           // score >= 0.70
	ConfidenceMedium                        // score >= 0.85
	ConfidenceHigh                          // score >= 0.95
)

func (c MatchConfidence) String() string {
	switch c {
	case ConfidenceHigh:
		return "high"
	case ConfidenceMedium:
		return "medium"
	case ConfidenceLow:
		return "low"
	default:
		return "none"
	}
}

// MatchResult is the best candidate for a parsed title.
type MatchResult struct {
	Title      string
	Score      float64 // Jaro-Winkler similarity, 0.0-1.0
	Confidence MatchConfidence
}

// MatchTitle scores candidates against a parsed title with Jaro-Winkler
// similarity over CleanTitle forms and returns the best one.
func MatchTitle(parsed string, candidates ...string) MatchResult {
	want := CleanTitle(parsed)

	var best MatchResult
	for _, c := range candidates {
		if c == "" {
			continue
		}
		score := float64(edlib.JaroWinklerSimilarity(want, CleanTitle(c)))
		if score > best.Score {
			best = MatchResult{Title: c, Score: score}
		}
	}

	switch {
	case best.Score >= 0.95:
		best.Confidence = ConfidenceHigh
	case best.Score >= 0.85:
		best.Confidence = ConfidenceMedium
	case best.Score >= 0.70:
		best.Confidence = ConfidenceLow
	default:
		best.Confidence = ConfidenceNone
	}
	return best
}
