package recommend

import (
	"fmt"
	"math"
	"sort"

	"BullBearPK/internal/domain/models"
)

// confidenceDriftThreshold is the confidence move past which a same-type
// recommendation still counts as changed.
const confidenceDriftThreshold = 0.1

// Differ partitions an old and new recommendation set by symbol into added,
// removed, changed and unchanged. The partitions are exhaustive and disjoint
// over the symbol union, and output order is deterministic.
type Differ struct{}

func NewDiffer() *Differ {
	return &Differ{}
}

func (Differ) Diff(prev, next []models.Recommendation) models.RecommendationDelta {
	oldBySymbol := make(map[string]models.Recommendation, len(prev))
	for _, r := range prev {
		oldBySymbol[r.Symbol] = r
	}
	newBySymbol := make(map[string]models.Recommendation, len(next))
	for _, r := range next {
		newBySymbol[r.Symbol] = r
	}

	var delta models.RecommendationDelta
	for _, symbol := range sortedSymbols(oldBySymbol, newBySymbol) {
		oldRec, hadOld := oldBySymbol[symbol]
		newRec, hasNew := newBySymbol[symbol]
		switch {
		case !hadOld:
			delta.Added = append(delta.Added, models.DeltaEntry{
				Symbol:        symbol,
				NewType:       newRec.Type,
				NewConfidence: newRec.Confidence,
				Reason:        "New recommendation based on updated analysis",
			})
		case !hasNew:
			delta.Removed = append(delta.Removed, models.DeltaEntry{
				Symbol:        symbol,
				OldType:       oldRec.Type,
				OldConfidence: oldRec.Confidence,
				Reason:        "No longer recommended based on current analysis",
			})
		default:
			entry := models.DeltaEntry{
				Symbol:        symbol,
				OldType:       oldRec.Type,
				NewType:       newRec.Type,
				OldConfidence: oldRec.Confidence,
				NewConfidence: newRec.Confidence,
			}
			if oldRec.Type != newRec.Type ||
				math.Abs(oldRec.Confidence-newRec.Confidence) > confidenceDriftThreshold {
				entry.Reason = changeReason(oldRec, newRec)
				delta.Changed = append(delta.Changed, entry)
			} else {
				delta.Unchanged = append(delta.Unchanged, entry)
			}
		}
	}
	return delta
}

func changeReason(oldRec, newRec models.Recommendation) string {
	if oldRec.Type == newRec.Type {
		if newRec.Confidence > oldRec.Confidence {
			return fmt.Sprintf("Confidence increased from %.1f%% to %.1f%%",
				oldRec.Confidence*100, newRec.Confidence*100)
		}
		return fmt.Sprintf("Confidence decreased from %.1f%% to %.1f%%",
			oldRec.Confidence*100, newRec.Confidence*100)
	}
	if isBuySide(newRec.Type) && isHoldOrSell(oldRec.Type) {
		return fmt.Sprintf("Upgraded from %s to %s due to improved analysis", oldRec.Type, newRec.Type)
	}
	if isHoldOrSell(newRec.Type) && isBuySide(oldRec.Type) {
		return fmt.Sprintf("Downgraded from %s to %s due to market changes", oldRec.Type, newRec.Type)
	}
	return fmt.Sprintf("Recommendation changed from %s to %s", oldRec.Type, newRec.Type)
}

func isBuySide(t string) bool {
	return t == models.SignalStrongBuy || t == models.SignalBuy
}

func isHoldOrSell(t string) bool {
	return t == models.SignalHold || t == models.SignalSell || t == models.SignalStrongSell
}

func sortedSymbols(maps ...map[string]models.Recommendation) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, m := range maps {
		for symbol := range m {
			if _, ok := seen[symbol]; !ok {
				seen[symbol] = struct{}{}
				out = append(out, symbol)
			}
		}
	}
	sort.Strings(out)
	return out
}
