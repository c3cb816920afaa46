package risk

import (
	"context"
	"math"
	"time"

	"BullBearPK/internal/domain/models"
	"BullBearPK/pkg/logger"
)

// Profiler derives a user's risk profile from stated tolerance, trade
// history and current exposure. All sub-scores live in [0,1].
type Profiler struct {
	log *logger.Logger
}

func NewProfiler(log *logger.Logger) *Profiler {
	return &Profiler{log: log}
}

// Profile blends base tolerance (30%), behavior risk (40%) and portfolio
// risk (30%) into one clamped score. A user with no history and no holdings
// lands on the moderate default.
func (p *Profiler) Profile(ctx context.Context, userID, tolerance string, trades []models.TradeRecord, holdings []models.Holding, cash float64) (models.RiskProfile, error) {
	if err := ctx.Err(); err != nil {
		return models.RiskProfile{}, err
	}

	behavior := analyzeBehavior(trades)
	exposure := analyzePortfolio(holdings, cash)

	base := 0.5
	switch tolerance {
	case "low":
		base = 0.3
	case "high":
		base = 0.8
	}
	behaviorRisk := 1 - behavior.Score
	score := clamp01(base*0.3 + behaviorRisk*0.4 + exposure.Overall*0.3)

	profile := models.RiskProfile{
		UserID:     userID,
		Score:      score,
		Level:      levelFor(score),
		Behavior:   behavior,
		Portfolio:  exposure,
		AnalyzedAt: time.Now(),
	}
	profile.Advice = adviceFor(profile.Level)
	profile.DetailedAdvice = detailedAdvice(behavior, exposure)

	p.log.Debug("risk profile computed",
		logger.String("user_id", userID),
		logger.String("level", profile.Level),
		logger.Any("score", score))
	return profile, nil
}

func analyzeBehavior(trades []models.TradeRecord) models.BehaviorAnalysis {
	if len(trades) == 0 {
		return models.BehaviorAnalysis{
			TradingFrequency:   "low",
			Score:              0.5,
			ToleranceIndicator: models.RiskModerate,
		}
	}

	b := models.BehaviorAnalysis{TotalTrades: len(trades)}
	var invested float64
	var wins int
	var holdingDays, closed float64
	sectors := make(map[string]struct{})
	for _, tr := range trades {
		invested += tr.Invested
		if tr.RealizedPnL > 0 {
			wins++
		}
		if !tr.BuyDate.IsZero() && !tr.SellDate.IsZero() {
			holdingDays += tr.SellDate.Sub(tr.BuyDate).Hours() / 24
			closed++
		}
		sectors[tr.Sector] = struct{}{}
	}

	n := float64(len(trades))
	b.AvgTradeSize = invested / n
	if closed > 0 {
		b.AvgHoldingDays = holdingDays / closed
	}
	b.WinRate = float64(wins) / n
	b.SectorDiversity = float64(len(sectors)) / math.Max(n, 1)

	switch {
	case len(trades) > 20:
		b.TradingFrequency = "high"
	case len(trades) > 10:
		b.TradingFrequency = "medium"
	default:
		b.TradingFrequency = "low"
	}

	b.Score = b.WinRate*0.4 + math.Min(b.AvgHoldingDays/365, 1)*0.3 + b.SectorDiversity*0.3
	switch {
	case b.Score > 0.7:
		b.ToleranceIndicator = "conservative"
	case b.Score < 0.3:
		b.ToleranceIndicator = "aggressive"
	default:
		b.ToleranceIndicator = models.RiskModerate
	}
	return b
}

// analyzePortfolio scores current exposure. Sub-scores default to 0.5 when
// there is nothing to measure.
func analyzePortfolio(holdings []models.Holding, cash float64) models.PortfolioRisk {
	active := make([]models.Holding, 0, len(holdings))
	for _, h := range holdings {
		if h.Active() {
			active = append(active, h)
		}
	}
	if len(active) == 0 {
		return models.PortfolioRisk{
			Volatility: 0.5, Concentration: 0.5, Liquidity: 0.5, SectorRisk: 0.5, Overall: 0.5,
		}
	}

	var totalValue, totalPnL, largest float64
	sectorValue := make(map[string]float64)
	for _, h := range active {
		v, _ := h.CurrentValue.Float64()
		pnl, _ := h.ProfitLoss.Float64()
		totalValue += v
		totalPnL += pnl
		if v > largest {
			largest = v
		}
		sectorValue[h.Sector] += v
	}
	denom := math.Max(totalValue, 1)

	var maxSector float64
	for _, v := range sectorValue {
		if v > maxSector {
			maxSector = v
		}
	}

	// Cash can exceed holding value, so every sub-score is clamped before
	// the blend.
	r := models.PortfolioRisk{
		Volatility:    clamp01(math.Abs(totalPnL) / denom),
		Concentration: clamp01(largest / denom),
		Liquidity:     clamp01(1 - cash/denom),
		SectorRisk:    clamp01(maxSector / denom),
	}
	r.Overall = r.Volatility*0.3 + r.Concentration*0.25 + r.Liquidity*0.25 + r.SectorRisk*0.2
	return r
}

func levelFor(score float64) string {
	switch {
	case score < 0.3:
		return models.RiskLow
	case score < 0.7:
		return models.RiskModerate
	default:
		return models.RiskHigh
	}
}

func adviceFor(level string) string {
	switch level {
	case models.RiskLow:
		return "Focus on stable, dividend-paying stocks with lower volatility. Consider blue-chip companies and defensive sectors."
	case models.RiskHigh:
		return "Consider growth stocks with higher potential returns but increased volatility. Monitor positions closely and set stop-losses."
	default:
		return "Balance your portfolio between growth and stability. Consider a mix of growth and value stocks."
	}
}

func detailedAdvice(b models.BehaviorAnalysis, r models.PortfolioRisk) []string {
	var out []string
	if b.TotalTrades > 0 && b.WinRate < 0.5 {
		out = append(out, "Consider improving trade timing and risk management")
	}
	if r.Concentration > 0.3 {
		out = append(out, "Diversify portfolio to reduce concentration risk")
	}
	if r.Liquidity > 0.7 {
		out = append(out, "Maintain higher cash reserves for liquidity")
	}
	if b.TotalTrades > 0 && b.SectorDiversity < 0.3 {
		out = append(out, "Consider diversifying across more sectors")
	}
	return out
}

func clamp01(v float64) float64 {
	return math.Min(math.Max(v, 0), 1)
}
