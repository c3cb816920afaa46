package recommend

import (
	"strings"
	"testing"

	"BullBearPK/internal/domain/models"
)

func rec(symbol, recType string, confidence float64) models.Recommendation {
	return models.Recommendation{Symbol: symbol, Type: recType, Confidence: confidence}
}

func TestDiffPartitionsAreExhaustiveAndDisjoint(t *testing.T) {
	prev := []models.Recommendation{
		rec("A", models.SignalBuy, 0.7),
		rec("B", models.SignalHold, 0.5),
		rec("C", models.SignalSell, 0.3),
	}
	next := []models.Recommendation{
		rec("B", models.SignalHold, 0.5),
		rec("C", models.SignalBuy, 0.65),
		rec("D", models.SignalStrongBuy, 0.85),
	}
	delta := NewDiffer().Diff(prev, next)

	if delta.Total() != 4 {
		t.Fatalf("expected 4 classified symbols, got %d", delta.Total())
	}
	seen := map[string]int{}
	for _, e := range delta.Added {
		seen[e.Symbol]++
	}
	for _, e := range delta.Removed {
		seen[e.Symbol]++
	}
	for _, e := range delta.Changed {
		seen[e.Symbol]++
	}
	for _, e := range delta.Unchanged {
		seen[e.Symbol]++
	}
	for _, symbol := range []string{"A", "B", "C", "D"} {
		if seen[symbol] != 1 {
			t.Fatalf("symbol %s classified %d times", symbol, seen[symbol])
		}
	}
	if len(delta.Added) != 1 || delta.Added[0].Symbol != "D" {
		t.Fatalf("unexpected added: %v", delta.Added)
	}
	if len(delta.Removed) != 1 || delta.Removed[0].Symbol != "A" {
		t.Fatalf("unexpected removed: %v", delta.Removed)
	}
}

func TestDiffSmallConfidenceDriftIsUnchanged(t *testing.T) {
	prev := []models.Recommendation{rec("X", models.SignalBuy, 0.6)}
	next := []models.Recommendation{rec("X", models.SignalBuy, 0.65)}
	delta := NewDiffer().Diff(prev, next)
	if len(delta.Unchanged) != 1 || len(delta.Changed) != 0 {
		t.Fatalf("0.05 drift should be unchanged: %+v", delta)
	}
}

func TestDiffLargeConfidenceDriftIsChanged(t *testing.T) {
	prev := []models.Recommendation{rec("X", models.SignalBuy, 0.6)}
	next := []models.Recommendation{rec("X", models.SignalBuy, 0.75)}
	delta := NewDiffer().Diff(prev, next)
	if len(delta.Changed) != 1 {
		t.Fatalf("0.15 drift should be changed: %+v", delta)
	}
	if !strings.Contains(delta.Changed[0].Reason, "Confidence increased") {
		t.Fatalf("unexpected reason: %q", delta.Changed[0].Reason)
	}
}

func TestDiffUpgradeAndDowngradeWording(t *testing.T) {
	prev := []models.Recommendation{
		rec("UP", models.SignalHold, 0.5),
		rec("DOWN", models.SignalBuy, 0.7),
	}
	next := []models.Recommendation{
		rec("UP", models.SignalBuy, 0.7),
		rec("DOWN", models.SignalSell, 0.3),
	}
	delta := NewDiffer().Diff(prev, next)
	if len(delta.Changed) != 2 {
		t.Fatalf("expected 2 changed, got %d", len(delta.Changed))
	}
	for _, e := range delta.Changed {
		switch e.Symbol {
		case "UP":
			if !strings.Contains(e.Reason, "Upgraded") {
				t.Fatalf("expected upgrade wording, got %q", e.Reason)
			}
		case "DOWN":
			if !strings.Contains(e.Reason, "Downgraded") {
				t.Fatalf("expected downgrade wording, got %q", e.Reason)
			}
		}
	}
}

func TestDiffStrongSellToBuyIsUpgrade(t *testing.T) {
	prev := []models.Recommendation{rec("X", models.SignalStrongSell, 0.8)}
	next := []models.Recommendation{rec("X", models.SignalBuy, 0.7)}
	delta := NewDiffer().Diff(prev, next)
	if len(delta.Changed) != 1 {
		t.Fatalf("expected 1 changed, got %+v", delta)
	}
	if !strings.Contains(delta.Changed[0].Reason, "Upgraded") {
		t.Fatalf("strong_sell to buy should read as an upgrade, got %q", delta.Changed[0].Reason)
	}
}

func TestDiffEmptyPrevious(t *testing.T) {
	next := []models.Recommendation{rec("A", models.SignalBuy, 0.7)}
	delta := NewDiffer().Diff(nil, next)
	if len(delta.Added) != 1 || delta.Total() != 1 {
		t.Fatalf("first run should classify everything as added: %+v", delta)
	}
}
