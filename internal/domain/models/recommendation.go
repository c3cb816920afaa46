package models

import "time"

// Recommendation is one per-user, per-symbol suggestion for one pipeline run.
// A run's set is created fresh; the prior run's set is retained for diffing.
type Recommendation struct {
	ID             string
	UserID         string
	Symbol         string
	Name           string
	Sector         string
	Type           string  // strong_buy, buy, hold, sell, strong_sell
	Confidence     float64 // risk-adjusted score, [0,1]
	ExpectedReturn float64
	RiskLevel      string // low, medium, high
	Allocation     float64
	Reasoning      string
	KeyFactors     []string
	RiskFactors    []string

	// Supporting snapshots frozen at synthesis time.
	Technical *TechnicalProfile
	Sentiment *SentimentProfile

	CreatedAt time.Time
}

// DeltaEntry is one symbol's classification in a recommendation diff.
type DeltaEntry struct {
	Symbol        string
	OldType       string
	NewType       string
	OldConfidence float64
	NewConfidence float64
	Reason        string
}

// RecommendationDelta partitions an old and new recommendation set by symbol.
// The four partitions are exhaustive and disjoint over old union new.
type RecommendationDelta struct {
	Added     []DeltaEntry
	Removed   []DeltaEntry
	Changed   []DeltaEntry
	Unchanged []DeltaEntry
}

// Total returns the number of classified symbols.
func (d RecommendationDelta) Total() int {
	return len(d.Added) + len(d.Removed) + len(d.Changed) + len(d.Unchanged)
}

// Submission records one accepted preference form and the run it produced.
// Saved append-only; the latest submission per user feeds the next run's diff.
type Submission struct {
	ID              string
	UserID          string
	Preferences     Preferences
	Recommendations []Recommendation
	SubmittedAt     time.Time
}
