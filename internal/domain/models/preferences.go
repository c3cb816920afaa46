package models

import "time"

// SectorAny disables sector filtering.
const SectorAny = "Any"

// Sectors accepted by the preference form.
var SupportedSectors = []string{
	"Banking", "Technology", "Energy", "Healthcare", "Consumer Goods",
	"Real Estate", "Manufacturing", "Telecommunications", "Transportation",
	"Utilities", SectorAny,
}

// Preferences is the pipeline entry-point form. Any field outside its
// enumerated domain fails request validation before the pipeline starts.
type Preferences struct {
	Budget           float64 `query:"budget" json:"budget" validate:"required,gt=0"`
	SectorPreference string  `query:"sector_preference" json:"sector_preference" default:"Any" validate:"oneof=Banking Technology Energy Healthcare 'Consumer Goods' 'Real Estate' Manufacturing Telecommunications Transportation Utilities Any"`
	RiskTolerance    string  `query:"risk_tolerance" json:"risk_tolerance" default:"moderate" validate:"oneof=low moderate high"`
	TimeHorizon      string  `query:"time_horizon" json:"time_horizon" default:"medium" validate:"oneof=short medium long"`
	TargetProfit     float64 `query:"target_profit" json:"target_profit" default:"10" validate:"gte=0,lte=100"`
	InvestmentGoal   string  `query:"investment_goal" json:"investment_goal" default:"growth" validate:"oneof=growth income balanced conservative"`
}

// RunRequest asks for a fresh recommendation run.
type RunRequest struct {
	UserID      string      `json:"user_id" validate:"required"`
	Preferences Preferences `json:"preferences"`
}

// Decision actions accepted by the ledger.
const (
	DecisionBuy     = "buy"
	DecisionSell    = "sell"
	DecisionHold    = "hold"
	DecisionPending = "pending"
)

// DecisionRequest records a user's action against a recommendation.
type DecisionRequest struct {
	UserID           string  `json:"user_id" validate:"required"`
	Action           string  `json:"action" validate:"required,oneof=buy sell hold pending"`
	Symbol           string  `json:"symbol" validate:"required"`
	Quantity         int64   `json:"quantity" validate:"gte=0"`
	Price            float64 `json:"price" validate:"gte=0"`
	RecommendationID string  `json:"recommendation_id"`
}

// DecisionResult reports the ledger outcome for one decision.
type DecisionResult struct {
	Status      string // success, rejected
	Message     string
	Symbol      string
	Action      string
	Quantity    int64
	RealizedPnL float64
	ProcessedAt time.Time
}
