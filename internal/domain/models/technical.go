package models

import "time"

// Signal labels produced by the technical engine and the synthesizer.
const (
	SignalStrongBuy  = "strong_buy"
	SignalBuy        = "buy"
	SignalHold       = "hold"
	SignalSell       = "sell"
	SignalStrongSell = "strong_sell"
)

// Trend labels, thresholded on change percent at 0 and +-5.
const (
	TrendStrongUp   = "strong_uptrend"
	TrendUp         = "uptrend"
	TrendSideways   = "sideways"
	TrendDown       = "downtrend"
	TrendStrongDown = "strong_downtrend"
)

// Oscillators holds the bounded single-point oscillator proxies.
// RSI and StochasticK/D sit in [0,100]; WilliamsR in [-100,0].
type Oscillators struct {
	RSI         float64
	StochasticK float64
	StochasticD float64
	WilliamsR   float64
	CCI         float64
	ROC         float64
	ATR         float64
}

// MACD is the simplified convergence-divergence triple.
type MACD struct {
	Line      float64
	Signal    float64
	Histogram float64
}

// MovingAverages are close-derived proxies for the standard windows.
type MovingAverages struct {
	MA5   float64
	MA10  float64
	MA20  float64
	MA50  float64
	MA200 float64
}

// Bollinger carries band levels plus the close's position within them (0-100).
type Bollinger struct {
	Upper    float64
	Middle   float64
	Lower    float64
	Position float64
}

// SupportResistance carries levels and percent distances from close.
type SupportResistance struct {
	Support            float64
	Resistance         float64
	SupportDistance    float64
	ResistanceDistance float64
}

// VolumeAnalysis classifies traded volume against an assumed average.
type VolumeAnalysis struct {
	SMA        float64
	Ratio      float64
	Trend      string // high_volume, above_average, normal_volume, low_volume
	PriceTrend string // bullish_confirmation, bearish_confirmation, weak_bullish, weak_bearish, neutral
}

// RiskMetrics are the engine's single-point risk proxies.
type RiskMetrics struct {
	ValueAtRisk       float64
	MaxDrawdown       float64
	DownsideDeviation float64
}

// MarketStats are the statistical proxies derived from the day's move.
type MarketStats struct {
	Beta             float64
	Sharpe           float64
	Alpha            float64
	InformationRatio float64
	RelativeStrength float64
}

// TechnicalProfile is one symbol's derived analysis for one snapshot cycle.
// Regenerated every pipeline run; consumed read-only downstream.
type TechnicalProfile struct {
	Symbol        string
	Name          string
	Sector        string
	Price         float64
	Open          float64
	High          float64
	Low           float64
	Volume        int64
	ChangeAmount  float64
	ChangePercent float64

	Oscillators Oscillators
	MACD        MACD
	Averages    MovingAverages
	Bollinger   Bollinger
	Levels      SupportResistance
	VolumeData  VolumeAnalysis
	Stats       MarketStats
	Risk        RiskMetrics

	Trend         string
	TrendStrength float64
	Momentum      float64
	Volatility    float64

	// PerformanceScore is the composite weighted score in [0,100];
	// Rank is assigned after sorting the cohort by descending score.
	PerformanceScore float64
	Rank             int
	RankNote         string

	Signal         string
	Confidence     float64
	RiskLevel      string // low, moderate, high
	ExpectedReturn float64
	TargetPrice    float64
	StopLoss       float64

	Insights     map[string]string
	RiskFactors  []string
	Opportunities []string

	AnalyzedAt time.Time
}

// CohortSummary aggregates one run's ranked profiles.
type CohortSummary struct {
	Total         int
	AvgScore      float64
	AvgChange     float64
	AvgRSI        float64
	AvgVolatility float64
	TotalVolume   int64
	Gainers       int
	Losers        int
	Sectors       map[string]int
	RiskLevels    map[string]int
	Signals       map[string]int
}
