package technical

import (
	"math"

	"BullBearPK/internal/domain/models"
)

// performanceScore is the composite 0-100 score: weighted blend of the day's
// move, RSI centrality, volume ratio, Sharpe and VaR, with multiplicative
// bonuses for positive moves and heavy volume.
func performanceScore(r models.MarketRecord, osc models.Oscillators, vol models.VolumeAnalysis, stats models.MarketStats, risk models.RiskMetrics) float64 {
	base := math.Abs(r.ChangePercent) * 0.3
	rsiScore := (50 - math.Abs(osc.RSI-50)) / 50 * 0.25
	volScore := math.Min(vol.Ratio, 2) * 0.2
	sharpeScore := math.Min(math.Max(stats.Sharpe, 0), 10) / 10 * 0.15
	varScore := math.Max(0, 1-risk.ValueAtRisk/100) * 0.1

	total := base + rsiScore + volScore + sharpeScore + varScore
	if r.ChangePercent > 0 {
		total *= 1.2
	}
	if r.Volume > 1_000_000 {
		total *= 1.1
	}
	return math.Min(total*100, 100)
}

// signalFor votes on RSI, the day's move and the composite score. Three or
// more net votes upgrades to the strong variant.
func signalFor(rsi, changePct, score float64) (string, float64) {
	var buy, sell int

	switch {
	case rsi < 30:
		buy += 2
	case rsi < 40:
		buy++
	case rsi > 70:
		sell += 2
	case rsi > 60:
		sell++
	}

	switch {
	case changePct > 5:
		buy += 2
	case changePct > 0:
		buy++
	case changePct < -5:
		sell += 2
	case changePct < 0:
		sell++
	}

	switch {
	case score > 70:
		buy += 2
	case score > 50:
		buy++
	case score < 30:
		sell++
	}

	switch {
	case buy > sell && buy >= 3:
		return models.SignalStrongBuy, math.Min(0.9, 0.6+float64(buy)*0.1)
	case buy > sell:
		return models.SignalBuy, math.Min(0.8, 0.5+float64(buy)*0.1)
	case sell > buy && sell >= 3:
		return models.SignalStrongSell, math.Min(0.9, 0.6+float64(sell)*0.1)
	case sell > buy:
		return models.SignalSell, math.Min(0.8, 0.5+float64(sell)*0.1)
	default:
		return models.SignalHold, 0.5
	}
}

func riskLevelFor(valueAtRisk float64) string {
	switch {
	case valueAtRisk > 20:
		return models.RiskHigh
	case valueAtRisk > 10:
		return models.RiskModerate
	default:
		return models.RiskLow
	}
}

func rankNote(rank int) string {
	switch {
	case rank == 1:
		return "Top performer with excellent momentum and strong fundamentals"
	case rank <= 3:
		return "High performer with strong technical indicators and positive trends"
	case rank <= 5:
		return "Good performer with favorable risk-reward ratio"
	case rank <= 7:
		return "Stable performer with moderate growth potential"
	default:
		return "Decent performer with acceptable risk profile"
	}
}
