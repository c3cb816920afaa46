package repository

import (
	"context"
	"time"

	"BullBearPK/internal/domain/models"
)

// Horizon is the investment window a user plans around.
type Horizon string

const (
	HorizonShort  Horizon = "short"
	HorizonMedium Horizon = "medium"
	HorizonLong   Horizon = "long"
)

// IsValidHorizon returns true if h is a supported horizon.
func IsValidHorizon(h Horizon) bool {
	switch h {
	case HorizonShort, HorizonMedium, HorizonLong:
		return true
	default:
		return false
	}
}

// DefaultHorizon returns the default horizon.
func DefaultHorizon() Horizon { return HorizonMedium }

// NormalizeHorizon converts a raw string to a valid horizon (or default).
func NormalizeHorizon(s string) Horizon {
	if s == "" {
		return DefaultHorizon()
	}
	h := Horizon(s)
	if IsValidHorizon(h) {
		return h
	}
	return DefaultHorizon()
}

// Lookback maps a horizon to the history window used when querying past
// records for it.
func (h Horizon) Lookback() time.Duration {
	switch h {
	case HorizonShort:
		return 7 * 24 * time.Hour
	case HorizonLong:
		return 365 * 24 * time.Hour
	default:
		return 90 * 24 * time.Hour
	}
}

// MarketHistory provides read-only access to stored records for reporting
// and scheduled snapshot materialization.
type MarketHistory interface {
	Range(ctx context.Context, symbol string, h Horizon) ([]models.MarketRecord, error)
	LatestN(ctx context.Context, symbol string, n int) ([]models.MarketRecord, error)
}
