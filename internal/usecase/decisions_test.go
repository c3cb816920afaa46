package usecase

import (
	"context"
	"math"
	"strings"
	"testing"

	"BullBearPK/internal/domain/models"

	"github.com/shopspring/decimal"
)

func newLedger(t *testing.T) (*DecisionLedger, *fakePortfolio) {
	t.Helper()
	store := newFakePortfolio()
	market := &fakeMarket{recs: []models.MarketRecord{
		marketRecord("OGDC", "Energy", 1.0),
	}}
	return NewDecisionLedger(store, market, testLogger(t)), store
}

func TestBuyCreatesHoldingAndSeedsBalance(t *testing.T) {
	ledger, store := newLedger(t)
	res, err := ledger.Handle(context.Background(), models.DecisionRequest{
		UserID: "u1", Action: models.DecisionBuy, Symbol: "OGDC", Quantity: 10, Price: 100,
	})
	if err != nil {
		t.Fatalf("handle: %v", err)
	}
	if res.Status != "success" {
		t.Fatalf("expected success, got %s: %s", res.Status, res.Message)
	}

	holdings, _ := store.Holdings(context.Background(), "u1")
	if len(holdings) != 1 {
		t.Fatalf("expected 1 holding, got %d", len(holdings))
	}
	h := holdings[0]
	if !h.Quantity.Equal(decimal.NewFromInt(10)) || !h.Invested.Equal(decimal.NewFromInt(1000)) {
		t.Fatalf("unexpected holding %+v", h)
	}
	if h.Sector != "Energy" {
		t.Fatalf("expected sector lookup, got %q", h.Sector)
	}

	balance, ok, _ := store.Balance(context.Background(), "u1")
	if !ok || math.Abs(balance-9000) > 1e-9 {
		t.Fatalf("expected starter cash minus purchase, got %v", balance)
	}
}

func TestBuyMergesAtNewAveragePrice(t *testing.T) {
	ledger, store := newLedger(t)
	ctx := context.Background()
	for _, price := range []float64{100, 200} {
		if _, err := ledger.Handle(ctx, models.DecisionRequest{
			UserID: "u1", Action: models.DecisionBuy, Symbol: "OGDC", Quantity: 10, Price: price,
		}); err != nil {
			t.Fatalf("handle: %v", err)
		}
	}
	holdings, _ := store.Holdings(ctx, "u1")
	if len(holdings) != 1 {
		t.Fatalf("buys should merge into one holding, got %d", len(holdings))
	}
	h := holdings[0]
	if !h.Quantity.Equal(decimal.NewFromInt(20)) {
		t.Fatalf("expected 20 shares, got %s", h.Quantity)
	}
	if !h.BuyPrice.Equal(decimal.NewFromInt(150)) {
		t.Fatalf("expected avg price 150, got %s", h.BuyPrice)
	}
}

func TestSellInsufficientSharesRejected(t *testing.T) {
	ledger, _ := newLedger(t)
	ctx := context.Background()
	if _, err := ledger.Handle(ctx, models.DecisionRequest{
		UserID: "u1", Action: models.DecisionBuy, Symbol: "OGDC", Quantity: 5, Price: 100,
	}); err != nil {
		t.Fatalf("buy: %v", err)
	}

	res, err := ledger.Handle(ctx, models.DecisionRequest{
		UserID: "u1", Action: models.DecisionSell, Symbol: "OGDC", Quantity: 10, Price: 110,
	})
	if err != nil {
		t.Fatalf("sell: %v", err)
	}
	if res.Status != "rejected" {
		t.Fatalf("expected rejection, got %s", res.Status)
	}
	if !strings.Contains(res.Message, "Insufficient shares") {
		t.Fatalf("unexpected message %q", res.Message)
	}
}

func TestSellPartialRealizesPnL(t *testing.T) {
	ledger, store := newLedger(t)
	ctx := context.Background()
	if _, err := ledger.Handle(ctx, models.DecisionRequest{
		UserID: "u1", Action: models.DecisionBuy, Symbol: "OGDC", Quantity: 10, Price: 100,
	}); err != nil {
		t.Fatalf("buy: %v", err)
	}

	res, err := ledger.Handle(ctx, models.DecisionRequest{
		UserID: "u1", Action: models.DecisionSell, Symbol: "OGDC", Quantity: 4, Price: 120,
	})
	if err != nil {
		t.Fatalf("sell: %v", err)
	}
	if math.Abs(res.RealizedPnL-80) > 1e-9 {
		t.Fatalf("expected realized pnl 80, got %v", res.RealizedPnL)
	}

	holdings, _ := store.Holdings(ctx, "u1")
	h := holdings[0]
	if h.Status != models.HoldingPartialSold {
		t.Fatalf("expected partial_sold, got %s", h.Status)
	}
	if !h.Quantity.Equal(decimal.NewFromInt(6)) {
		t.Fatalf("expected 6 shares left, got %s", h.Quantity)
	}

	trades, _ := store.Trades(ctx, "u1", 0)
	if len(trades) != 2 {
		t.Fatalf("expected buy and sell trade records, got %d", len(trades))
	}
}

func TestSellAllMarksSold(t *testing.T) {
	ledger, store := newLedger(t)
	ctx := context.Background()
	if _, err := ledger.Handle(ctx, models.DecisionRequest{
		UserID: "u1", Action: models.DecisionBuy, Symbol: "OGDC", Quantity: 10, Price: 100,
	}); err != nil {
		t.Fatalf("buy: %v", err)
	}
	if _, err := ledger.Handle(ctx, models.DecisionRequest{
		UserID: "u1", Action: models.DecisionSell, Symbol: "OGDC", Quantity: 10, Price: 90,
	}); err != nil {
		t.Fatalf("sell: %v", err)
	}
	holdings, _ := store.Holdings(ctx, "u1")
	if holdings[0].Status != models.HoldingSold {
		t.Fatalf("expected sold, got %s", holdings[0].Status)
	}

	balance, _, _ := store.Balance(ctx, "u1")
	if math.Abs(balance-(10000-1000+900)) > 1e-9 {
		t.Fatalf("unexpected balance %v", balance)
	}
}

func TestHoldWithoutPositionRejected(t *testing.T) {
	ledger, _ := newLedger(t)
	res, err := ledger.Handle(context.Background(), models.DecisionRequest{
		UserID: "u1", Action: models.DecisionHold, Symbol: "HBL",
	})
	if err != nil {
		t.Fatalf("handle: %v", err)
	}
	if res.Status != "rejected" {
		t.Fatalf("expected rejection, got %s", res.Status)
	}
}
