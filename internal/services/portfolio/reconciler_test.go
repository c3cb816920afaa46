package portfolio

import (
	"context"
	"math"
	"testing"

	"BullBearPK/internal/domain/models"
	"BullBearPK/pkg/logger"

	"github.com/shopspring/decimal"
)

func testReconciler(t *testing.T) *Reconciler {
	t.Helper()
	log, err := logger.New(&logger.Config{Level: "error", Format: "json", Output: "stderr"})
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	return NewReconciler(log)
}

func holding(symbol, sector string, qty, buyPrice int64) models.Holding {
	q := decimal.NewFromInt(qty)
	p := decimal.NewFromInt(buyPrice)
	return models.Holding{
		Symbol:   symbol,
		Name:     symbol + " Ltd",
		Sector:   sector,
		Quantity: q,
		BuyPrice: p,
		Invested: q.Mul(p),
		Status:   models.HoldingActive,
	}
}

func TestReconcileNewUser(t *testing.T) {
	r := testReconciler(t)
	snap, err := r.Reconcile(context.Background(), "u1", nil, nil, 0, false)
	if err != nil {
		t.Fatalf("reconcile: %v", err)
	}
	if snap.Status != models.PortfolioNewUser {
		t.Fatalf("expected new_user, got %s", snap.Status)
	}
	if !snap.CashAvailable.Equal(models.StarterCash) {
		t.Fatalf("expected starter cash, got %s", snap.CashAvailable)
	}
	if len(snap.Suggestions) != 3 {
		t.Fatalf("expected 3 starter suggestions, got %d", len(snap.Suggestions))
	}
}

func TestReconcileValuesAtLatestQuote(t *testing.T) {
	r := testReconciler(t)
	holdings := []models.Holding{holding("OGDC", "Energy", 100, 50)}
	quotes := map[string]models.MarketRecord{
		"OGDC": {Symbol: "OGDC", Close: 60, High: 61, Low: 58},
	}
	snap, err := r.Reconcile(context.Background(), "u1", holdings, quotes, 500, true)
	if err != nil {
		t.Fatalf("reconcile: %v", err)
	}
	h := snap.Holdings[0]
	if !h.CurrentValue.Equal(decimal.NewFromInt(6000)) {
		t.Fatalf("expected value 6000, got %s", h.CurrentValue)
	}
	if math.Abs(h.ProfitLossPct-20) > 1e-9 {
		t.Fatalf("expected 20%% gain, got %v", h.ProfitLossPct)
	}
	if len(snap.TopPerformers) != 1 {
		t.Fatalf("expected 1 top performer, got %d", len(snap.TopPerformers))
	}
	if snap.Performance != "excellent" {
		t.Fatalf("expected excellent, got %s", snap.Performance)
	}
}

func TestReconcileMissingQuoteFallsBackToBuyPrice(t *testing.T) {
	r := testReconciler(t)
	holdings := []models.Holding{holding("HBL", "Banking", 10, 90)}
	snap, err := r.Reconcile(context.Background(), "u1", holdings, nil, 0, true)
	if err != nil {
		t.Fatalf("reconcile: %v", err)
	}
	h := snap.Holdings[0]
	if !h.CurrentPrice.Equal(decimal.NewFromInt(90)) {
		t.Fatalf("expected fallback to buy price, got %s", h.CurrentPrice)
	}
	if !h.ProfitLoss.IsZero() {
		t.Fatalf("expected zero pnl, got %s", h.ProfitLoss)
	}
	if snap.Performance != "below_average" {
		t.Fatalf("expected below_average at 0%%, got %s", snap.Performance)
	}
}

func TestReconcileDiversification(t *testing.T) {
	r := testReconciler(t)
	holdings := []models.Holding{
		holding("A", "Banking", 10, 100),
		holding("B", "Banking", 10, 100),
		holding("C", "Banking", 10, 100),
		holding("D", "Banking", 10, 100),
	}
	snap, err := r.Reconcile(context.Background(), "u1", holdings, nil, 0, true)
	if err != nil {
		t.Fatalf("reconcile: %v", err)
	}
	if math.Abs(snap.DiversificationScore-0.25) > 1e-9 {
		t.Fatalf("expected 0.25, got %v", snap.DiversificationScore)
	}
	if snap.RiskLevel != models.RiskHigh {
		t.Fatalf("expected high risk, got %s", snap.RiskLevel)
	}
}

func TestReconcileSkipsSoldHoldings(t *testing.T) {
	r := testReconciler(t)
	sold := holding("X", "Energy", 10, 100)
	sold.Status = models.HoldingSold
	snap, err := r.Reconcile(context.Background(), "u1", []models.Holding{sold}, nil, 100, true)
	if err != nil {
		t.Fatalf("reconcile: %v", err)
	}
	if len(snap.Holdings) != 0 {
		t.Fatalf("sold holding should not be valued, got %d", len(snap.Holdings))
	}
	if snap.Status != models.PortfolioExistingUser {
		t.Fatalf("expected existing_user, got %s", snap.Status)
	}
}
