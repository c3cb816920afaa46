package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Holding statuses mutated by the decision ledger.
const (
	HoldingActive      = "active"
	HoldingPartialSold = "partial_sold"
	HoldingSold        = "sold"
	HoldingPending     = "pending"
)

// Portfolio snapshot statuses.
const (
	PortfolioExistingUser = "existing_user"
	PortfolioNewUser      = "new_user"
)

// StarterCash is the default cash balance granted to a brand-new user.
var StarterCash = decimal.NewFromInt(10000)

// Holding is one currently- or previously-owned position. Money fields use
// decimal so repeated buys and partial sells never drift on float rounding.
type Holding struct {
	Symbol        string
	Name          string
	Sector        string
	Quantity      decimal.Decimal
	BuyPrice      decimal.Decimal
	CurrentPrice  decimal.Decimal
	Invested      decimal.Decimal
	CurrentValue  decimal.Decimal
	ProfitLoss    decimal.Decimal
	ProfitLossPct float64
	RealizedPnL   decimal.Decimal
	Status        string
	BuyDate       time.Time
	LastUpdated   time.Time
}

// Active reports whether the holding still counts toward exposure.
func (h Holding) Active() bool {
	return h.Status == HoldingActive || h.Status == HoldingPartialSold
}

// PerformerEntry is one over- or under-performing position.
type PerformerEntry struct {
	Symbol       string
	Name         string
	ChangePct    float64
	CurrentValue decimal.Decimal
}

// PortfolioSnapshot is the reconciled, per-run view of a user's portfolio.
type PortfolioSnapshot struct {
	UserID    string
	Status    string // existing_user or new_user
	Holdings  []Holding

	TotalValue      decimal.Decimal
	TotalInvested   decimal.Decimal
	TotalProfitLoss decimal.Decimal
	ProfitLossPct   float64

	Performance          string // excellent, good, average, below_average, poor, new_portfolio
	RiskLevel            string
	DiversificationScore float64
	SectorAllocation     map[string]decimal.Decimal

	// TopPerformers gained more than 10%, Underperformers lost more than 5%.
	TopPerformers   []PerformerEntry
	Underperformers []PerformerEntry

	CashAvailable decimal.Decimal
	Suggestions   []string
	ReconciledAt  time.Time
}

// NewUserSnapshot is the defined portfolio state for a user with no holdings.
// Distinct from an error: the pipeline proceeds and recommends from scratch.
func NewUserSnapshot(userID string) PortfolioSnapshot {
	return PortfolioSnapshot{
		UserID:      userID,
		Status:      PortfolioNewUser,
		Performance: "new_portfolio",
		RiskLevel:   RiskLow,
		CashAvailable: StarterCash,
		Suggestions: []string{
			"Start with small investments to build portfolio",
			"Consider diversifying across sectors",
			"Set up initial investment goals",
		},
		ReconciledAt: time.Now(),
	}
}
