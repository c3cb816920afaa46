package usecase

import (
	"context"
	"fmt"
	"time"

	"BullBearPK/internal/domain/models"
	domrepo "BullBearPK/internal/domain/repository"
	xhttp "BullBearPK/pkg/http"
)

// MarketHistoryUseCase provides read access to a symbol's stored records.
type MarketHistoryUseCase struct {
	history domrepo.MarketHistory
}

func NewMarketHistoryUseCase(history domrepo.MarketHistory) *MarketHistoryUseCase {
	return &MarketHistoryUseCase{history: history}
}

type GetRecordsParams struct {
	Symbol  string
	Horizon domrepo.Horizon
	Limit   int
}

type GetRecordsResult struct {
	Symbol  string
	Horizon string
	From    time.Time
	To      time.Time
	Count   int
	Records []models.MarketRecord
}

// GetRecords returns a symbol's history over the horizon's lookback window,
// ascending, capped at Limit newest.
func (uc *MarketHistoryUseCase) GetRecords(ctx context.Context, p GetRecordsParams) (*GetRecordsResult, error) {
	if p.Symbol == "" {
		return nil, xhttp.BadRequestError("symbol required")
	}
	if !domrepo.IsValidHorizon(p.Horizon) {
		p.Horizon = domrepo.DefaultHorizon()
	}
	if p.Limit <= 0 {
		p.Limit = 1000
	}
	if p.Limit > 10000 {
		p.Limit = 10000
	}

	records, err := uc.history.Range(ctx, p.Symbol, p.Horizon)
	if err != nil {
		return nil, fmt.Errorf("get records: %w", err)
	}
	if len(records) > p.Limit {
		records = records[len(records)-p.Limit:]
	}

	res := &GetRecordsResult{
		Symbol:  p.Symbol,
		Horizon: string(p.Horizon),
		Count:   len(records),
		Records: records,
	}
	if len(records) > 0 {
		res.From = records[0].AsOf
		res.To = records[len(records)-1].AsOf
	}
	return res, nil
}
