package usecase

import (
	"context"
	"fmt"
	"testing"
	"time"

	"BullBearPK/internal/domain/models"
)

type fakeMarketStore struct {
	stored []*models.MarketRecord
	err    error
}

func (f *fakeMarketStore) Init(context.Context) error { return nil }

func (f *fakeMarketStore) Store(_ context.Context, rec *models.MarketRecord) error {
	if f.err != nil {
		return f.err
	}
	f.stored = append(f.stored, rec)
	return nil
}

func (f *fakeMarketStore) StoreBatch(ctx context.Context, recs []*models.MarketRecord) error {
	for _, r := range recs {
		if err := f.Store(ctx, r); err != nil {
			return err
		}
	}
	return nil
}

func (f *fakeMarketStore) Latest(context.Context, string, int) ([]models.MarketRecord, error) {
	return nil, nil
}

func (f *fakeMarketStore) LatestBySymbols(context.Context, []string) ([]models.MarketRecord, error) {
	return nil, nil
}

func (f *fakeMarketStore) Health(context.Context) error { return nil }
func (f *fakeMarketStore) Close() error                 { return nil }

func TestHandleStoresRecord(t *testing.T) {
	store := &fakeMarketStore{}
	m := newFakeMetrics()
	h := NewKafkaRecordsHandler("market.records", store, m)

	msg := []byte(`{"symbol":"OGDC","name":"Oil & Gas Development","sector":"Energy","open":100,"high":105,"low":98,"close":102,"volume":50000,"change_amount":2,"change_percent":2,"as_of":1735689600}`)
	if err := h.Handle(context.Background(), msg); err != nil {
		t.Fatalf("handle: %v", err)
	}
	if len(store.stored) != 1 {
		t.Fatalf("expected 1 stored record, got %d", len(store.stored))
	}
	rec := store.stored[0]
	if rec.Symbol != "OGDC" || rec.Close != 102 {
		t.Fatalf("unexpected record: %+v", rec)
	}
	want := time.Unix(1735689600, 0).UTC()
	if !rec.AsOf.Equal(want) {
		t.Fatalf("as_of = %v, want %v", rec.AsOf, want)
	}
}

func TestHandleNormalizesMillisTimestamps(t *testing.T) {
	store := &fakeMarketStore{}
	h := NewKafkaRecordsHandler("market.records", store, newFakeMetrics())

	msg := []byte(`{"symbol":"HBL","close":250,"as_of":1735689600000}`)
	if err := h.Handle(context.Background(), msg); err != nil {
		t.Fatalf("handle: %v", err)
	}
	want := time.Unix(1735689600, 0).UTC()
	if !store.stored[0].AsOf.Equal(want) {
		t.Fatalf("as_of = %v, want %v", store.stored[0].AsOf, want)
	}
}

func TestHandleRejectsMalformedPayload(t *testing.T) {
	store := &fakeMarketStore{}
	m := newFakeMetrics()
	h := NewKafkaRecordsHandler("market.records", store, m)

	if err := h.Handle(context.Background(), []byte("{broken")); err == nil {
		t.Fatalf("expected unmarshal error")
	}
	if len(store.stored) != 0 {
		t.Fatalf("malformed payload must not reach the store")
	}
}

func TestHandlePropagatesStoreError(t *testing.T) {
	store := &fakeMarketStore{err: fmt.Errorf("insert failed")}
	h := NewKafkaRecordsHandler("market.records", store, newFakeMetrics())

	msg := []byte(`{"symbol":"OGDC","close":102,"as_of":1735689600}`)
	if err := h.Handle(context.Background(), msg); err == nil {
		t.Fatalf("expected store error to propagate")
	}
}
