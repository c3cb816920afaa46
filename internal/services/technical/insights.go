package technical

import (
	"math"

	"BullBearPK/internal/domain/models"
)

func insightsFor(p *models.TechnicalProfile) map[string]string {
	ins := make(map[string]string, 4)

	switch {
	case p.PerformanceScore > 80:
		ins["performance_rating"] = "Excellent"
	case p.PerformanceScore > 60:
		ins["performance_rating"] = "Good"
	case p.PerformanceScore > 40:
		ins["performance_rating"] = "Average"
	default:
		ins["performance_rating"] = "Poor"
	}

	switch {
	case p.Oscillators.RSI < 40:
		ins["technical_sentiment"] = "Bullish"
	case p.Oscillators.RSI > 60:
		ins["technical_sentiment"] = "Bearish"
	default:
		ins["technical_sentiment"] = "Neutral"
	}

	if p.Volume > 1_000_000 {
		ins["volume_analysis"] = "High volume confirms move"
	} else {
		ins["volume_analysis"] = "Normal volume"
	}

	switch {
	case math.Abs(p.ChangePercent) > 5:
		ins["trend_strength"] = "Strong"
	case math.Abs(p.ChangePercent) > 2:
		ins["trend_strength"] = "Moderate"
	default:
		ins["trend_strength"] = "Weak"
	}

	return ins
}

func riskFactorsFor(p *models.TechnicalProfile) []string {
	var out []string
	if p.Oscillators.RSI > 70 {
		out = append(out, "Overbought conditions - potential reversal")
	}
	if p.Oscillators.RSI < 30 {
		out = append(out, "Oversold conditions - potential bounce")
	}
	if math.Abs(p.ChangePercent) > 10 {
		out = append(out, "High volatility - increased risk")
	}
	if p.Volume < 500_000 {
		out = append(out, "Low volume - weak conviction")
	}
	return out
}

func opportunitiesFor(p *models.TechnicalProfile) []string {
	var out []string
	if p.Oscillators.RSI < 40 && p.ChangePercent > 0 {
		out = append(out, "Oversold with positive momentum")
	}
	if p.Oscillators.RSI > 60 && p.ChangePercent < 0 {
		out = append(out, "Overbought with negative momentum")
	}
	if p.Volume > 1_000_000 && p.ChangePercent > 0 {
		out = append(out, "High volume bullish confirmation")
	}
	if p.PerformanceScore > 70 {
		out = append(out, "Strong performance metrics")
	}
	return out
}
