package usecase

import (
	"context"
	"fmt"
	"testing"
	"time"

	"BullBearPK/internal/domain/models"
	domrepo "BullBearPK/internal/domain/repository"
)

type fakeHistory struct {
	records []models.MarketRecord
	gotSym  string
	gotHor  domrepo.Horizon
	err     error
}

func (f *fakeHistory) Range(ctx context.Context, symbol string, h domrepo.Horizon) ([]models.MarketRecord, error) {
	f.gotSym = symbol
	f.gotHor = h
	return f.records, f.err
}

func (f *fakeHistory) LatestN(ctx context.Context, symbol string, n int) ([]models.MarketRecord, error) {
	return f.records, f.err
}

func histRecords(n int) []models.MarketRecord {
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	recs := make([]models.MarketRecord, n)
	for i := range recs {
		recs[i] = models.MarketRecord{
			Symbol: "OGDC",
			Close:  100 + float64(i),
			AsOf:   base.Add(time.Duration(i) * 24 * time.Hour),
		}
	}
	return recs
}

func TestGetRecordsRequiresSymbol(t *testing.T) {
	uc := NewMarketHistoryUseCase(&fakeHistory{})
	if _, err := uc.GetRecords(context.Background(), GetRecordsParams{}); err == nil {
		t.Fatalf("expected error for missing symbol")
	}
}

func TestGetRecordsDefaultsHorizon(t *testing.T) {
	h := &fakeHistory{records: histRecords(3)}
	uc := NewMarketHistoryUseCase(h)

	res, err := uc.GetRecords(context.Background(), GetRecordsParams{Symbol: "OGDC", Horizon: "quarterly"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if h.gotHor != domrepo.HorizonMedium {
		t.Fatalf("expected horizon normalized to medium, got %q", h.gotHor)
	}
	if res.Horizon != "medium" {
		t.Fatalf("result horizon = %q", res.Horizon)
	}
}

func TestGetRecordsTrimsToNewest(t *testing.T) {
	h := &fakeHistory{records: histRecords(10)}
	uc := NewMarketHistoryUseCase(h)

	res, err := uc.GetRecords(context.Background(), GetRecordsParams{Symbol: "OGDC", Horizon: domrepo.HorizonShort, Limit: 4})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Count != 4 {
		t.Fatalf("count = %d, want 4", res.Count)
	}
	// Newest 4 survive; order stays ascending.
	if res.Records[0].Close != 106 || res.Records[3].Close != 109 {
		t.Fatalf("wrong window: first=%v last=%v", res.Records[0].Close, res.Records[3].Close)
	}
	if !res.From.Before(res.To) {
		t.Fatalf("from %v should precede to %v", res.From, res.To)
	}
}

func TestGetRecordsPropagatesStoreError(t *testing.T) {
	h := &fakeHistory{err: fmt.Errorf("clickhouse down")}
	uc := NewMarketHistoryUseCase(h)
	if _, err := uc.GetRecords(context.Background(), GetRecordsParams{Symbol: "OGDC"}); err == nil {
		t.Fatalf("expected store error to propagate")
	}
}
