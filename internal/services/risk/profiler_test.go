package risk

import (
	"context"
	"math"
	"testing"
	"time"

	"BullBearPK/internal/domain/models"
	"BullBearPK/pkg/logger"

	"github.com/shopspring/decimal"
)

func testProfiler(t *testing.T) *Profiler {
	t.Helper()
	log, err := logger.New(&logger.Config{Level: "error", Format: "json", Output: "stderr"})
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	return NewProfiler(log)
}

func TestProfileNoHistoryDefaultsModerate(t *testing.T) {
	p := testProfiler(t)
	profile, err := p.Profile(context.Background(), "u1", "moderate", nil, nil, 0)
	if err != nil {
		t.Fatalf("profile: %v", err)
	}
	if profile.Level != models.RiskModerate {
		t.Fatalf("expected moderate, got %s", profile.Level)
	}
	if math.Abs(profile.Score-0.5) > 1e-9 {
		t.Fatalf("expected score 0.5, got %v", profile.Score)
	}
	if profile.Behavior.TradingFrequency != "low" {
		t.Fatalf("expected low frequency, got %s", profile.Behavior.TradingFrequency)
	}
}

func TestProfileToleranceShiftsBase(t *testing.T) {
	p := testProfiler(t)
	low, err := p.Profile(context.Background(), "u1", "low", nil, nil, 0)
	if err != nil {
		t.Fatalf("profile: %v", err)
	}
	high, err := p.Profile(context.Background(), "u1", "high", nil, nil, 0)
	if err != nil {
		t.Fatalf("profile: %v", err)
	}
	if low.Score >= high.Score {
		t.Fatalf("low tolerance should score below high: %v vs %v", low.Score, high.Score)
	}
}

func TestBehaviorAnalysis(t *testing.T) {
	buy := time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC)
	trades := []models.TradeRecord{
		{Symbol: "A", Sector: "Banking", Invested: 1000, RealizedPnL: 100, BuyDate: buy, SellDate: buy.AddDate(0, 0, 30)},
		{Symbol: "B", Sector: "Energy", Invested: 2000, RealizedPnL: -50, BuyDate: buy, SellDate: buy.AddDate(0, 0, 60)},
	}
	b := analyzeBehavior(trades)
	if b.TotalTrades != 2 {
		t.Fatalf("expected 2 trades, got %d", b.TotalTrades)
	}
	if math.Abs(b.WinRate-0.5) > 1e-9 {
		t.Fatalf("expected win rate 0.5, got %v", b.WinRate)
	}
	if math.Abs(b.AvgHoldingDays-45) > 1e-9 {
		t.Fatalf("expected avg holding 45 days, got %v", b.AvgHoldingDays)
	}
	if math.Abs(b.SectorDiversity-1.0) > 1e-9 {
		t.Fatalf("expected full diversity, got %v", b.SectorDiversity)
	}
}

func TestPortfolioConcentration(t *testing.T) {
	holdings := []models.Holding{
		{Symbol: "A", Sector: "Banking", Status: models.HoldingActive,
			CurrentValue: decimal.NewFromInt(9000), ProfitLoss: decimal.NewFromInt(0)},
		{Symbol: "B", Sector: "Energy", Status: models.HoldingActive,
			CurrentValue: decimal.NewFromInt(1000), ProfitLoss: decimal.NewFromInt(0)},
	}
	r := analyzePortfolio(holdings, 0)
	if math.Abs(r.Concentration-0.9) > 1e-9 {
		t.Fatalf("expected concentration 0.9, got %v", r.Concentration)
	}
	if r.Liquidity != 1 {
		t.Fatalf("expected max liquidity risk with no cash, got %v", r.Liquidity)
	}
	if r.SectorRisk < 0.89 || r.SectorRisk > 0.91 {
		t.Fatalf("unexpected sector risk %v", r.SectorRisk)
	}
}

func TestPortfolioCashHeavyStaysInRange(t *testing.T) {
	p := testProfiler(t)
	holdings := []models.Holding{
		{Symbol: "A", Sector: "Banking", Status: models.HoldingActive,
			CurrentValue: decimal.NewFromInt(1000), ProfitLoss: decimal.NewFromInt(0)},
	}
	r := analyzePortfolio(holdings, 9000)
	if r.Liquidity < 0 || r.Liquidity > 1 {
		t.Fatalf("liquidity out of range: %v", r.Liquidity)
	}
	if r.Overall < 0 || r.Overall > 1 {
		t.Fatalf("overall out of range: %v", r.Overall)
	}

	profile, err := p.Profile(context.Background(), "u1", "moderate", nil, holdings, 9000)
	if err != nil {
		t.Fatalf("profile: %v", err)
	}
	if profile.Score <= 0 {
		t.Fatalf("cash-heavy user should not zero out the score, got %v", profile.Score)
	}
	if profile.Level != models.RiskModerate {
		t.Fatalf("expected moderate for a fresh cash-heavy user, got %s", profile.Level)
	}
}

func TestDetailedAdviceFlagsConcentration(t *testing.T) {
	p := testProfiler(t)
	holdings := []models.Holding{
		{Symbol: "ONLY", Sector: "Banking", Status: models.HoldingActive,
			CurrentValue: decimal.NewFromInt(10000), ProfitLoss: decimal.NewFromInt(500)},
	}
	profile, err := p.Profile(context.Background(), "u1", "moderate", nil, holdings, 0)
	if err != nil {
		t.Fatalf("profile: %v", err)
	}
	var found bool
	for _, adv := range profile.DetailedAdvice {
		if adv == "Diversify portfolio to reduce concentration risk" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected concentration advice, got %v", profile.DetailedAdvice)
	}
}
