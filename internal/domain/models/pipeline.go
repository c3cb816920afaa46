package models

import "time"

// Stage names in execution order.
const (
	StageMarket    = "market"
	StageTechnical = "technical"
	StageSentiment = "sentiment"
	StageRisk      = "risk"
	StagePortfolio = "portfolio"
	StageSynthesis = "synthesis"
)

// StageStatus captures how a single stage finished. A degraded stage ran
// but fell back to defaults for some or all of its output.
type StageStatus struct {
	Name     string        `json:"name"`
	Degraded bool          `json:"degraded"`
	Error    string        `json:"error,omitempty"`
	Elapsed  time.Duration `json:"elapsed"`
}

// PipelineState carries stage outputs through a run. Each stage receives
// the state by value and returns a copy with its own output attached, so
// earlier stage results are never mutated downstream.
type PipelineState struct {
	UserID      string
	Preferences Preferences
	StartedAt   time.Time

	Records    []MarketRecord
	Technical  []TechnicalProfile
	Cohort     CohortSummary
	Sentiments map[string]SentimentProfile
	Risk       RiskProfile
	Portfolio  PortfolioSnapshot
}

// WithRecords returns a copy of the state carrying the market stage output.
func (s PipelineState) WithRecords(recs []MarketRecord) PipelineState {
	s.Records = recs
	return s
}

// WithTechnical returns a copy carrying ranked technical profiles.
func (s PipelineState) WithTechnical(profiles []TechnicalProfile, cohort CohortSummary) PipelineState {
	s.Technical = profiles
	s.Cohort = cohort
	return s
}

// WithSentiments returns a copy carrying per-symbol sentiment.
func (s PipelineState) WithSentiments(m map[string]SentimentProfile) PipelineState {
	s.Sentiments = m
	return s
}

// WithRisk returns a copy carrying the user risk profile.
func (s PipelineState) WithRisk(r RiskProfile) PipelineState {
	s.Risk = r
	return s
}

// WithPortfolio returns a copy carrying the reconciled portfolio view.
func (s PipelineState) WithPortfolio(p PortfolioSnapshot) PipelineState {
	s.Portfolio = p
	return s
}

// PipelineResult is the full outcome of a run. Success reflects whether the
// run produced and persisted recommendations, not whether every stage ran
// clean; per-stage degradation is reported in Stages.
type PipelineResult struct {
	SubmissionID    string               `json:"submission_id"`
	UserID          string               `json:"user_id"`
	Success         bool                 `json:"success"`
	Recommendations []Recommendation     `json:"recommendations"`
	Delta           RecommendationDelta  `json:"delta"`
	Cohort          CohortSummary        `json:"cohort"`
	Portfolio       PortfolioSnapshot    `json:"portfolio"`
	Risk            RiskProfile          `json:"risk"`
	Stages          []StageStatus        `json:"stages"`
	CompletedAt     time.Time            `json:"completed_at"`
}
