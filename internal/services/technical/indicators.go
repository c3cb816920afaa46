package technical

import (
	"math"

	"BullBearPK/internal/domain/models"
)

// z95 is the one-tailed 95% normal quantile used in the VaR proxy.
const z95 = 1.6448536269514722

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// oscillators derives bounded single-point proxies from one day's bar.
// Range-dependent oscillators pin to their midpoint when high == low.
func oscillators(r models.MarketRecord) models.Oscillators {
	o := models.Oscillators{
		RSI: clamp(50+r.ChangePercent*3, 0, 100),
		CCI: 0,
		ROC: r.ChangePercent,
		ATR: r.High - r.Low,
	}
	if span := r.High - r.Low; span > 0 {
		k := (r.Close - r.Low) / span * 100
		o.StochasticK = k
		o.StochasticD = k
		o.WilliamsR = (r.High - r.Close) / span * -100
	} else {
		o.StochasticK = 50
		o.StochasticD = 50
		o.WilliamsR = -50
	}
	return o
}

func macdOf(close float64) models.MACD {
	line := close * 0.01
	signal := line * 0.9
	return models.MACD{Line: line, Signal: signal, Histogram: line - signal}
}

func movingAverages(close float64) models.MovingAverages {
	return models.MovingAverages{
		MA5:   close * 1.01,
		MA10:  close * 1.005,
		MA20:  close * 1.002,
		MA50:  close * 0.998,
		MA200: close * 0.995,
	}
}

func bollinger(close float64) models.Bollinger {
	mid := close
	std := close * 0.02
	b := models.Bollinger{
		Upper:  mid + 2*std,
		Middle: mid,
		Lower:  mid - 2*std,
	}
	if b.Upper != b.Lower {
		b.Position = (close - b.Lower) / (b.Upper - b.Lower) * 100
	} else {
		b.Position = 50
	}
	return b
}

func levels(r models.MarketRecord) models.SupportResistance {
	l := models.SupportResistance{
		Support:    r.Low * 0.98,
		Resistance: r.High * 1.02,
	}
	if r.Close > 0 {
		l.SupportDistance = (r.Close - l.Support) / r.Close * 100
		l.ResistanceDistance = (l.Resistance - r.Close) / r.Close * 100
	}
	return l
}

// trendOf buckets the day's move at 0 and +-5 percent.
func trendOf(changePct float64) (string, float64) {
	switch {
	case changePct > 5:
		return models.TrendStrongUp, math.Min(changePct/5, 1)
	case changePct > 0:
		return models.TrendUp, math.Min(changePct/2, 0.5)
	case changePct < -5:
		return models.TrendStrongDown, math.Min(math.Abs(changePct)/5, 1)
	case changePct < 0:
		return models.TrendDown, math.Min(math.Abs(changePct)/2, 0.5)
	default:
		return models.TrendSideways, 0
	}
}

func volumeAnalysis(volume int64, changePct float64) models.VolumeAnalysis {
	v := models.VolumeAnalysis{SMA: float64(volume) * 1.1, Ratio: 1}
	if v.SMA > 0 {
		v.Ratio = float64(volume) / v.SMA
	}
	switch {
	case v.Ratio > 1.5:
		v.Trend = "high_volume"
	case v.Ratio > 1.2:
		v.Trend = "above_average"
	case v.Ratio < 0.8:
		v.Trend = "low_volume"
	default:
		v.Trend = "normal_volume"
	}
	switch {
	case changePct > 0 && v.Ratio > 1.2:
		v.PriceTrend = "bullish_confirmation"
	case changePct < 0 && v.Ratio > 1.2:
		v.PriceTrend = "bearish_confirmation"
	case changePct > 0 && v.Ratio < 0.8:
		v.PriceTrend = "weak_bullish"
	case changePct < 0 && v.Ratio < 0.8:
		v.PriceTrend = "weak_bearish"
	default:
		v.PriceTrend = "neutral"
	}
	return v
}

func marketStats(changePct float64) models.MarketStats {
	alpha := changePct - 5
	return models.MarketStats{
		Beta:             1 + changePct/100,
		Sharpe:           changePct / math.Max(math.Abs(changePct)*0.1, 0.1),
		Alpha:            alpha,
		InformationRatio: alpha / math.Max(math.Abs(alpha)*0.1, 0.1),
		RelativeStrength: 50 + changePct*2,
	}
}

func riskMetrics(r models.MarketRecord, volatility float64) models.RiskMetrics {
	downside := math.Abs(math.Min(r.ChangePercent, 0))
	return models.RiskMetrics{
		ValueAtRisk:       math.Abs(r.ChangePercent) + volatility*z95,
		MaxDrawdown:       downside,
		DownsideDeviation: downside,
	}
}
