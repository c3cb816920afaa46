package models

import "time"

// Risk levels; the score is binned at 0.3 and 0.7.
const (
	RiskLow      = "low"
	RiskModerate = "moderate"
	RiskHigh     = "high"
)

// BehaviorAnalysis summarizes a user's trading history patterns.
type BehaviorAnalysis struct {
	TotalTrades        int
	AvgTradeSize       float64
	AvgHoldingDays     float64
	WinRate            float64
	TradingFrequency   string // low, medium, high
	SectorDiversity    float64
	Score              float64 // [0,1]; higher means more disciplined
	ToleranceIndicator string  // conservative, moderate, aggressive
}

// PortfolioRisk blends current exposure sub-scores, each in [0,1].
type PortfolioRisk struct {
	Volatility    float64
	Concentration float64
	Liquidity     float64
	SectorRisk    float64
	Overall       float64
}

// RiskProfile is a point-in-time derivation for one user.
// Recomputed each run from history and holdings; never authoritative storage.
type RiskProfile struct {
	UserID    string
	Level     string
	Score     float64 // [0,1]
	Behavior  BehaviorAnalysis
	Portfolio PortfolioRisk

	Advice         string
	DetailedAdvice []string
	AnalyzedAt     time.Time
}

// ModerateRiskProfile is the defined default when a user has no history.
func ModerateRiskProfile(userID string) RiskProfile {
	return RiskProfile{
		UserID: userID,
		Level:  RiskModerate,
		Score:  0.5,
		Behavior: BehaviorAnalysis{
			TradingFrequency:   "low",
			Score:              0.5,
			ToleranceIndicator: RiskModerate,
		},
		Portfolio: PortfolioRisk{
			Volatility:    0.5,
			Concentration: 0.5,
			Liquidity:     0.5,
			SectorRisk:    0.5,
			Overall:       0.5,
		},
		Advice:     "Balance your portfolio between growth and stability. Consider a mix of growth and value stocks.",
		AnalyzedAt: time.Now(),
	}
}

// TradeRecord is one closed or open position from the user's history,
// the input to behavior analysis.
type TradeRecord struct {
	Symbol      string
	Sector      string
	Invested    float64
	RealizedPnL float64
	BuyDate     time.Time
	SellDate    time.Time // zero when still open
	Status      string
}
