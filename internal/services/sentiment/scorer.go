package sentiment

import "strings"

// Score averages lexicon polarity and subjectivity over the recognized words
// of text. Unrecognized text scores (0, 0).
func Score(text string) (polarity, subjectivity float64) {
	var n int
	for _, word := range strings.Fields(strings.ToLower(text)) {
		word = strings.Trim(word, ".,;:!?\"'()[]")
		e, ok := lexicon[word]
		if !ok {
			continue
		}
		polarity += e.polarity
		subjectivity += e.subjectivity
		n++
	}
	if n == 0 {
		return 0, 0
	}
	return polarity / float64(n), subjectivity / float64(n)
}

// classify labels a single article. The polarity threshold sits at 0.2 and
// needs subjectivity above 0.3 to count as an opinionated signal.
func classify(text string) (label string, score float64) {
	polarity, subjectivity := Score(text)
	switch {
	case polarity > 0.2 && subjectivity > 0.3:
		return "positive", polarity
	case polarity < -0.2 && subjectivity > 0.3:
		return "negative", -polarity
	default:
		return "neutral", 0
	}
}

// articleConfidence mirrors the scraper-side heuristic: absolute polarity
// plus a base offset, capped at 1.
func articleConfidence(text string) float64 {
	polarity, _ := Score(text)
	if polarity < 0 {
		polarity = -polarity
	}
	if c := polarity + 0.3; c < 1 {
		return c
	}
	return 1
}

func matchKeywords(textLower string, keywords []string) []string {
	var out []string
	for _, kw := range keywords {
		if strings.Contains(textLower, kw) {
			out = append(out, kw)
		}
	}
	return out
}

// highImpact reports whether a headline mentions a price-moving term.
func highImpact(textLower string) bool {
	for _, kw := range highImpactKeywords {
		if strings.Contains(textLower, kw) {
			return true
		}
	}
	return false
}
