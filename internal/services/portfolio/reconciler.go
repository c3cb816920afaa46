package portfolio

import (
	"context"
	"fmt"
	"time"

	"BullBearPK/internal/domain/models"
	"BullBearPK/pkg/logger"

	"github.com/shopspring/decimal"
)

// Reconciler values holdings against the latest quotes and summarizes
// portfolio health. Money math stays in decimal end to end.
type Reconciler struct {
	log *logger.Logger
}

func NewReconciler(log *logger.Logger) *Reconciler {
	return &Reconciler{log: log}
}

// Reconcile revalues each active holding at its latest quote, falling back
// to the buy price when no quote is available. A user with no holdings gets
// the defined new-user snapshot rather than an error.
func (r *Reconciler) Reconcile(ctx context.Context, userID string, holdings []models.Holding, quotes map[string]models.MarketRecord, balance float64, hasAccount bool) (models.PortfolioSnapshot, error) {
	if err := ctx.Err(); err != nil {
		return models.PortfolioSnapshot{}, err
	}

	active := make([]models.Holding, 0, len(holdings))
	for _, h := range holdings {
		if h.Active() {
			active = append(active, h)
		}
	}
	if len(active) == 0 && !hasAccount {
		r.log.Info("no portfolio found, treating as new user", logger.String("user_id", userID))
		return models.NewUserSnapshot(userID), nil
	}

	snap := models.PortfolioSnapshot{
		UserID:           userID,
		Status:           models.PortfolioExistingUser,
		SectorAllocation: make(map[string]decimal.Decimal),
		CashAvailable:    decimal.NewFromFloat(balance),
		ReconciledAt:     time.Now(),
	}

	for _, h := range active {
		price := h.BuyPrice
		if q, ok := quotes[h.Symbol]; ok && q.Close > 0 {
			price = decimal.NewFromFloat(q.Close)
		}
		h.CurrentPrice = price
		h.CurrentValue = h.Quantity.Mul(price)
		h.ProfitLoss = h.CurrentValue.Sub(h.Invested)
		if h.Invested.IsPositive() {
			h.ProfitLossPct, _ = h.ProfitLoss.Div(h.Invested).Mul(decimal.NewFromInt(100)).Float64()
		}
		h.LastUpdated = snap.ReconciledAt

		snap.Holdings = append(snap.Holdings, h)
		snap.TotalValue = snap.TotalValue.Add(h.CurrentValue)
		snap.TotalInvested = snap.TotalInvested.Add(h.Invested)
		snap.TotalProfitLoss = snap.TotalProfitLoss.Add(h.ProfitLoss)
		snap.SectorAllocation[h.Sector] = snap.SectorAllocation[h.Sector].Add(h.CurrentValue)

		entry := models.PerformerEntry{
			Symbol: h.Symbol, Name: h.Name, ChangePct: h.ProfitLossPct, CurrentValue: h.CurrentValue,
		}
		if h.ProfitLossPct > 10 {
			snap.TopPerformers = append(snap.TopPerformers, entry)
		} else if h.ProfitLossPct < -5 {
			snap.Underperformers = append(snap.Underperformers, entry)
		}
	}

	if snap.TotalInvested.IsPositive() {
		snap.ProfitLossPct, _ = snap.TotalProfitLoss.Div(snap.TotalInvested).Mul(decimal.NewFromInt(100)).Float64()
	}
	if n := len(snap.Holdings); n > 0 {
		sectors := make(map[string]struct{}, n)
		for _, h := range snap.Holdings {
			sectors[h.Sector] = struct{}{}
		}
		snap.DiversificationScore = float64(len(sectors)) / float64(n)
	}

	snap.Performance = performanceFor(snap.ProfitLossPct, len(snap.Holdings))
	snap.RiskLevel = riskLevelFor(snap.DiversificationScore)
	snap.Suggestions = suggestions(&snap)

	r.log.Debug("portfolio reconciled",
		logger.String("user_id", userID),
		logger.Int("holdings", len(snap.Holdings)),
		logger.String("performance", snap.Performance))
	return snap, nil
}

func performanceFor(pnlPct float64, holdings int) string {
	if holdings == 0 {
		return "new_portfolio"
	}
	switch {
	case pnlPct > 15:
		return "excellent"
	case pnlPct > 8:
		return "good"
	case pnlPct > 2:
		return "average"
	case pnlPct > -5:
		return "below_average"
	default:
		return "poor"
	}
}

// riskLevelFor maps diversification to risk: fewer distinct sectors per
// holding means more concentration.
func riskLevelFor(diversification float64) string {
	switch {
	case diversification < 0.3:
		return models.RiskHigh
	case diversification < 0.6:
		return models.RiskModerate
	default:
		return models.RiskLow
	}
}

func suggestions(snap *models.PortfolioSnapshot) []string {
	var out []string
	switch snap.Performance {
	case "excellent":
		out = append(out, "Portfolio performing excellently - consider taking partial profits on top performers")
	case "poor":
		out = append(out, "Review underperforming positions and consider setting stop-losses")
	}
	if snap.DiversificationScore < 0.3 {
		out = append(out, "Portfolio lacks diversification - consider adding stocks from different sectors")
	} else if snap.DiversificationScore > 0.7 {
		out = append(out, "Good diversification - maintain current sector allocation")
	}
	switch snap.RiskLevel {
	case models.RiskHigh:
		out = append(out, "High concentration risk - consider reducing exposure to largest holdings")
	case models.RiskLow:
		out = append(out, "Low risk portfolio - consider adding growth stocks for higher returns")
	}
	if n := len(snap.TopPerformers); n > 0 {
		out = append(out, fmt.Sprintf("Consider taking profits on %d overperforming stocks", n))
	}
	if n := len(snap.Underperformers); n > 0 {
		out = append(out, fmt.Sprintf("Review %d underperforming stocks for potential exit", n))
	}
	return out
}
