package service

import (
	"context"

	"BullBearPK/internal/domain/models"
)

// TechnicalAnalyzer scores a record set and returns ranked profiles plus a
// cohort summary. Input records are not mutated.
type TechnicalAnalyzer interface {
	Analyze(ctx context.Context, recs []models.MarketRecord, prefs models.Preferences) ([]models.TechnicalProfile, models.CohortSummary, error)
}

// SentimentAnalyzer scores recent news for one symbol. An empty item set
// yields the neutral profile, not an error.
type SentimentAnalyzer interface {
	Analyze(ctx context.Context, symbol string, items []models.NewsItem) (models.SentimentProfile, error)
}

// RiskProfiler derives a user risk profile from stated tolerance, trade
// history and current holdings.
type RiskProfiler interface {
	Profile(ctx context.Context, userID string, tolerance string, trades []models.TradeRecord, holdings []models.Holding, cash float64) (models.RiskProfile, error)
}

// PortfolioReconciler values holdings against latest quotes and summarizes
// portfolio health.
type PortfolioReconciler interface {
	Reconcile(ctx context.Context, userID string, holdings []models.Holding, quotes map[string]models.MarketRecord, balance float64, hasAccount bool) (models.PortfolioSnapshot, error)
}

// Synthesizer fuses technical and sentiment evidence into the final
// recommendation set.
type Synthesizer interface {
	Synthesize(ctx context.Context, userID string, profiles []models.TechnicalProfile, sentiments map[string]models.SentimentProfile, risk models.RiskProfile, prefs models.Preferences) ([]models.Recommendation, error)
}

// Differ compares a new recommendation set against the previous run.
type Differ interface {
	Diff(prev, next []models.Recommendation) models.RecommendationDelta
}
