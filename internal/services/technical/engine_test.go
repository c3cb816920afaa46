package technical

import (
	"context"
	"math"
	"testing"
	"time"

	"BullBearPK/internal/domain/models"
	"BullBearPK/pkg/logger"
)

func testEngine(t *testing.T) *Engine {
	t.Helper()
	log, err := logger.New(&logger.Config{Level: "error", Format: "json", Output: "stderr"})
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	return NewEngine(log)
}

func record(symbol string, close, changePct float64, volume int64) models.MarketRecord {
	return models.MarketRecord{
		Symbol:        symbol,
		Name:          symbol + " Ltd",
		Sector:        "Technology",
		Open:          close * 0.99,
		High:          close * 1.02,
		Low:           close * 0.97,
		Close:         close,
		Volume:        volume,
		ChangeAmount:  close * changePct / 100,
		ChangePercent: changePct,
		AsOf:          time.Now(),
	}
}

func TestAnalyzeUptrend(t *testing.T) {
	e := testEngine(t)
	rec := record("OGDC", 120, 3.5, 2_000_000)

	profiles, _, err := e.Analyze(context.Background(), []models.MarketRecord{rec}, models.Preferences{SectorPreference: "Any"})
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if len(profiles) != 1 {
		t.Fatalf("expected 1 profile, got %d", len(profiles))
	}
	p := profiles[0]
	if p.Trend != models.TrendUp {
		t.Fatalf("expected uptrend, got %s", p.Trend)
	}
	if p.Oscillators.RSI <= 50 || p.Oscillators.RSI > 100 {
		t.Fatalf("rsi out of expected range: %v", p.Oscillators.RSI)
	}
	if p.PerformanceScore < 0 || p.PerformanceScore > 100 {
		t.Fatalf("score out of range: %v", p.PerformanceScore)
	}
	if p.Rank != 1 {
		t.Fatalf("expected rank 1, got %d", p.Rank)
	}
	if p.Momentum != 7 {
		t.Fatalf("expected momentum 7, got %v", p.Momentum)
	}
}

func TestOscillatorsFlatRange(t *testing.T) {
	rec := models.MarketRecord{Symbol: "FLAT", Open: 100, High: 100, Low: 100, Close: 100, ChangePercent: 0}
	o := oscillators(rec)
	if o.StochasticK != 50 || o.StochasticD != 50 {
		t.Fatalf("expected stochastic midpoint, got K=%v D=%v", o.StochasticK, o.StochasticD)
	}
	if o.WilliamsR != -50 {
		t.Fatalf("expected williams midpoint, got %v", o.WilliamsR)
	}
	if o.RSI != 50 {
		t.Fatalf("expected neutral rsi, got %v", o.RSI)
	}
}

func TestAnalyzeSkipsInvalidRecords(t *testing.T) {
	e := testEngine(t)
	recs := []models.MarketRecord{
		record("GOOD", 50, 1.0, 500_000),
		{Symbol: "BAD", Close: 0},
		{Symbol: "", Close: 10, High: 11, Low: 9},
	}
	profiles, summary, err := e.Analyze(context.Background(), recs, models.Preferences{})
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if len(profiles) != 1 || profiles[0].Symbol != "GOOD" {
		t.Fatalf("expected only GOOD, got %v", profiles)
	}
	if summary.Total != 1 {
		t.Fatalf("expected summary total 1, got %d", summary.Total)
	}
}

func TestAnalyzeRankingIsStableAndDescending(t *testing.T) {
	e := testEngine(t)
	// Small moves keep the composite score below its 100 cap so the
	// ordering is meaningful.
	recs := []models.MarketRecord{
		record("A", 100, 0.0, 500_000),
		record("B", 100, 0.2, 500_000),
		record("C", 100, -0.3, 500_000),
	}
	profiles, _, err := e.Analyze(context.Background(), recs, models.Preferences{})
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	for i := 1; i < len(profiles); i++ {
		if profiles[i-1].PerformanceScore < profiles[i].PerformanceScore {
			t.Fatalf("scores not descending at %d", i)
		}
		if profiles[i].Rank != profiles[i-1].Rank+1 {
			t.Fatalf("ranks not sequential at %d", i)
		}
	}
	if profiles[0].Symbol != "B" || profiles[len(profiles)-1].Symbol != "A" {
		t.Fatalf("unexpected ordering: %s .. %s", profiles[0].Symbol, profiles[len(profiles)-1].Symbol)
	}
}

func TestAnalyzeIdempotent(t *testing.T) {
	e := testEngine(t)
	recs := []models.MarketRecord{record("X", 80, 2.5, 900_000), record("Y", 40, -1.0, 300_000)}

	first, _, err := e.Analyze(context.Background(), recs, models.Preferences{})
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	second, _, err := e.Analyze(context.Background(), recs, models.Preferences{})
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if len(first) != len(second) {
		t.Fatalf("length mismatch: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i].Symbol != second[i].Symbol ||
			math.Abs(first[i].PerformanceScore-second[i].PerformanceScore) > 1e-9 ||
			first[i].Signal != second[i].Signal {
			t.Fatalf("run not reproducible at %d: %+v vs %+v", i, first[i], second[i])
		}
	}
}

func TestAnalyzeSectorFilter(t *testing.T) {
	e := testEngine(t)
	tech := record("TECH", 100, 2.0, 500_000)
	bank := record("BANK", 100, 4.0, 500_000)
	bank.Sector = "Banking"

	profiles, _, err := e.Analyze(context.Background(), []models.MarketRecord{tech, bank}, models.Preferences{SectorPreference: "Banking"})
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if len(profiles) != 1 || profiles[0].Symbol != "BANK" {
		t.Fatalf("expected only BANK, got %v", profiles)
	}
}

func TestAnalyzeLowToleranceDropsHighRisk(t *testing.T) {
	e := testEngine(t)
	// Wide range inflates volatility and VaR past the high-risk threshold.
	risky := models.MarketRecord{
		Symbol: "RISKY", Name: "Risky", Sector: "Energy",
		Open: 100, High: 130, Low: 85, Close: 100,
		Volume: 800_000, ChangePercent: 4, ChangeAmount: 4,
	}
	calm := record("CALM", 100, 0.5, 400_000)

	profiles, _, err := e.Analyze(context.Background(), []models.MarketRecord{risky, calm}, models.Preferences{RiskTolerance: "low"})
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	for _, p := range profiles {
		if p.Symbol == "RISKY" {
			t.Fatalf("high-risk symbol survived low tolerance filter")
		}
	}
}

func TestAnalyzeEmptyFilterFallsBack(t *testing.T) {
	e := testEngine(t)
	rec := record("ONLY", 60, 1.5, 400_000)

	profiles, _, err := e.Analyze(context.Background(), []models.MarketRecord{rec}, models.Preferences{SectorPreference: "Utilities"})
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if len(profiles) != 1 {
		t.Fatalf("expected fallback to full cohort, got %d profiles", len(profiles))
	}
}
