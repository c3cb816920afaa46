package models

import "time"

// Overall sentiment labels.
const (
	SentimentBullish = "bullish"
	SentimentBearish = "bearish"
	SentimentNeutral = "neutral"
)

// SentimentProfile aggregates a symbol's news window into one signal.
// Built fresh per pipeline run; zero articles yields the neutral default
// via NeutralSentiment, never an error.
type SentimentProfile struct {
	Symbol       string
	Overall      string  // bullish, bearish, neutral
	Score        float64 // [-1, 1]
	ArticleCount int
	Positive     int
	Negative     int
	Neutral      int

	// Keyword matches, deduplicated and capped at 5 each.
	KeyEvents     []string
	RiskFactors   []string
	Opportunities []string

	Advice     string
	Confidence float64
	Summary    string
	AnalyzedAt time.Time
}

// NeutralSentiment is the documented no-data profile for a symbol.
func NeutralSentiment(symbol string) SentimentProfile {
	return SentimentProfile{
		Symbol:     symbol,
		Overall:    SentimentNeutral,
		Score:      0,
		Advice:     "No recent news available for analysis.",
		Confidence: 0,
		Summary:    "No news data available for this company.",
		AnalyzedAt: time.Now(),
	}
}
