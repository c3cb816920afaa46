package models

import "time"

// MarketRecord is one symbol's quote for one snapshot cycle.
// Immutable once created; uniquely keyed by (Symbol, AsOf).
type MarketRecord struct {
	Symbol        string
	Name          string
	Sector        string
	Open          float64
	High          float64
	Low           float64
	Close         float64
	Volume        int64
	ChangeAmount  float64
	ChangePercent float64
	AsOf          time.Time
}

// Valid reports whether the record carries usable price data.
// Records failing this check are skipped per-symbol, never aborting a cohort.
func (r MarketRecord) Valid() bool {
	return r.Symbol != "" && r.Close > 0 && r.High >= r.Low
}

// NewsItem is one scraped headline attributed to a symbol.
type NewsItem struct {
	Symbol      string
	Title       string
	Summary     string
	Source      string
	PublishedAt time.Time
}
