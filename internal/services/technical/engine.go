package technical

import (
	"context"
	"math"
	"sort"
	"time"

	"BullBearPK/internal/domain/models"
	"BullBearPK/pkg/logger"
)

// topN caps the ranked cohort returned by one analysis cycle.
const topN = 10

// Engine scores a record set, applies the user's sector and risk filters and
// returns the ranked top performers. It is stateless and safe for concurrent
// use; input records are never mutated.
type Engine struct {
	log *logger.Logger
}

func NewEngine(log *logger.Logger) *Engine {
	return &Engine{log: log}
}

// Analyze builds a profile per valid record, filters by preferences, sorts by
// descending score and assigns ranks. Invalid records are skipped per symbol;
// a fully invalid input yields an empty cohort, not an error.
func (e *Engine) Analyze(ctx context.Context, recs []models.MarketRecord, prefs models.Preferences) ([]models.TechnicalProfile, models.CohortSummary, error) {
	if err := ctx.Err(); err != nil {
		return nil, models.CohortSummary{}, err
	}

	profiles := make([]models.TechnicalProfile, 0, len(recs))
	for _, rec := range recs {
		if !rec.Valid() {
			e.log.Warn("skipping invalid market record", logger.String("symbol", rec.Symbol))
			continue
		}
		profiles = append(profiles, e.profile(rec))
	}

	filtered := e.applyPreferences(profiles, prefs)
	if len(filtered) == 0 && len(profiles) > 0 {
		e.log.Info("no symbols matched preferences, using full cohort",
			logger.String("sector", prefs.SectorPreference),
			logger.String("risk_tolerance", prefs.RiskTolerance))
		filtered = profiles
	}

	sort.SliceStable(filtered, func(i, j int) bool {
		return filtered[i].PerformanceScore > filtered[j].PerformanceScore
	})
	if len(filtered) > topN {
		filtered = filtered[:topN]
	}
	for i := range filtered {
		filtered[i].Rank = i + 1
		filtered[i].RankNote = rankNote(i + 1)
	}

	return filtered, summarize(filtered), nil
}

func (e *Engine) profile(rec models.MarketRecord) models.TechnicalProfile {
	p := models.TechnicalProfile{
		Symbol:        rec.Symbol,
		Name:          rec.Name,
		Sector:        rec.Sector,
		Price:         rec.Close,
		Open:          rec.Open,
		High:          rec.High,
		Low:           rec.Low,
		Volume:        rec.Volume,
		ChangeAmount:  rec.ChangeAmount,
		ChangePercent: rec.ChangePercent,
		AnalyzedAt:    time.Now(),
	}

	p.Oscillators = oscillators(rec)
	p.MACD = macdOf(rec.Close)
	p.Averages = movingAverages(rec.Close)
	p.Bollinger = bollinger(rec.Close)
	p.Levels = levels(rec)
	p.VolumeData = volumeAnalysis(rec.Volume, rec.ChangePercent)
	p.Stats = marketStats(rec.ChangePercent)

	p.Trend, p.TrendStrength = trendOf(rec.ChangePercent)
	p.Momentum = rec.ChangePercent * 2
	p.Volatility = (rec.High - rec.Low) / rec.Close * 100
	p.Risk = riskMetrics(rec, p.Volatility)

	p.PerformanceScore = performanceScore(rec, p.Oscillators, p.VolumeData, p.Stats, p.Risk)
	p.Signal, p.Confidence = signalFor(p.Oscillators.RSI, rec.ChangePercent, p.PerformanceScore)
	p.RiskLevel = riskLevelFor(p.Risk.ValueAtRisk)

	p.ExpectedReturn = rec.ChangePercent * 1.5
	p.TargetPrice = rec.Close * (1 + p.ExpectedReturn/100)
	p.StopLoss = rec.Close * (1 - math.Abs(rec.ChangePercent)/100)

	p.Insights = insightsFor(&p)
	p.RiskFactors = riskFactorsFor(&p)
	p.Opportunities = opportunitiesFor(&p)
	return p
}

// applyPreferences drops non-preferred sectors, drops high-risk symbols for
// low tolerance and discounts their score for moderate tolerance.
func (e *Engine) applyPreferences(profiles []models.TechnicalProfile, prefs models.Preferences) []models.TechnicalProfile {
	out := make([]models.TechnicalProfile, 0, len(profiles))
	for _, p := range profiles {
		if prefs.SectorPreference != "" && prefs.SectorPreference != models.SectorAny && p.Sector != prefs.SectorPreference {
			continue
		}
		if p.RiskLevel == models.RiskHigh {
			switch prefs.RiskTolerance {
			case "low":
				continue
			case "moderate":
				p.PerformanceScore *= 0.8
			}
		}
		out = append(out, p)
	}
	return out
}

func summarize(profiles []models.TechnicalProfile) models.CohortSummary {
	s := models.CohortSummary{
		Total:      len(profiles),
		Sectors:    make(map[string]int),
		RiskLevels: make(map[string]int),
		Signals:    make(map[string]int),
	}
	if len(profiles) == 0 {
		return s
	}
	for _, p := range profiles {
		s.AvgScore += p.PerformanceScore
		s.AvgChange += p.ChangePercent
		s.AvgRSI += p.Oscillators.RSI
		s.AvgVolatility += p.Volatility
		s.TotalVolume += p.Volume
		if p.ChangePercent > 0 {
			s.Gainers++
		} else if p.ChangePercent < 0 {
			s.Losers++
		}
		s.Sectors[p.Sector]++
		s.RiskLevels[p.RiskLevel]++
		s.Signals[p.Signal]++
	}
	n := float64(len(profiles))
	s.AvgScore /= n
	s.AvgChange /= n
	s.AvgRSI /= n
	s.AvgVolatility /= n
	return s
}
