package sanitize

import (
	"strings"
	"unicode"
)

// SevereArtifactThreshold is the artifact score at or above which a text is
// considered badly polluted by parser noise.
const SevereArtifactThreshold = 14

// Artifact weights.
const (
	adLabelWeight        = 3
	recommendationWeight = 3
	tickerWeight         = 2
	tagCloudWeight       = 3
	timestampRunWeight   = 4
	maxURLScore          = 10
)

// minClockRun is the number of clock times in one paragraph that marks it
// as a repeating timestamp sequence.
const minClockRun = 3

// Score returns a non-negative severity score for parser noise in text,
// computed from weighted pattern hits.
func Score(text string) int {
	if strings.TrimSpace(text) == "" {
		return 0
	}

	score := adLabelWeight * countMatches(adLabelRe, text)
	score += recommendationWeight * countMatches(recommendationRe, text)
	score += tickerWeight * countMatches(tickerRe, text)
	score += tagCloudWeight * (countMatches(tagCloudRe, text) + countMatches(hashtagRunRe, text))
	score += min(countMatches(urlRe, text), maxURLScore)

	for _, p := range SplitParagraphs(text) {
		if isTimestampRun(p) {
			score += timestampRunWeight
		}
	}
	return score
}

// HasSevereArtifacts reports whether text scores at or above
// SevereArtifactThreshold.
func HasSevereArtifacts(text string) bool {
	return Score(text) >= SevereArtifactThreshold
}

// Candidate scoring weights.
const (
	candidateLengthUnit  = 100
	maxLengthBonus       = 40
	paragraphBonus       = 2
	maxParagraphBonus    = 20
	headingBonus         = 5
	candidateJunkPenalty = 2
)

// ScoreCandidate rates a set of extracted paragraphs as article body
// candidates: longer bodies with more paragraphs and some headings score
// higher, noise lowers the score. The result may be negative.
func ScoreCandidate(paragraphs []string) int {
	if len(paragraphs) == 0 {
		return 0
	}

	var length int
	var hasHeading bool
	for _, p := range paragraphs {
		length += len([]rune(p))
		if IsHeading(p) {
			hasHeading = true
		}
	}

	score := min(length/candidateLengthUnit, maxLengthBonus)
	score += min(len(paragraphs)*paragraphBonus, maxParagraphBonus)
	if hasHeading {
		score += headingBonus
	}
	score -= candidateJunkPenalty * Score(strings.Join(paragraphs, "\n\n"))
	return score
}

// SplitParagraphs splits text on blank lines, trimming each paragraph and
// dropping empty ones. A heading line is always a paragraph of its own.
func SplitParagraphs(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	var out []string
	var current []string
	flush := func() {
		if len(current) == 0 {
			return
		}
		if p := strings.TrimSpace(strings.Join(current, "\n")); p != "" {
			out = append(out, p)
		}
		current = current[:0]
	}
	for _, line := range strings.Split(text, "\n") {
		switch {
		case strings.TrimSpace(line) == "":
			flush()
		case IsHeading(line):
			flush()
			current = append(current, line)
			flush()
		default:
			current = append(current, line)
		}
	}
	flush()
	return out
}

// IsHeading reports whether p is a markdown heading.
func IsHeading(p string) bool {
	return headingRe.MatchString(strings.TrimSpace(p))
}

// DigitRatio returns the share of digits among the letters and digits of s.
func DigitRatio(s string) float64 {
	var letters, digits int
	for _, r := range s {
		switch {
		case unicode.IsDigit(r):
			digits++
		case unicode.IsLetter(r):
			letters++
		}
	}
	if letters+digits == 0 {
		return 0
	}
	return float64(digits) / float64(letters+digits)
}

// isTimestampRun reports whether p looks like a sequence of timestamps.
func isTimestampRun(p string) bool {
	return countMatches(clockRe, p) >= minClockRun
}
