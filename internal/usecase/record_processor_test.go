package usecase

import (
	"context"
	"testing"
	"time"

	"BullBearPK/internal/domain/models"
)

type fakeRecordPublisher struct {
	published []*models.MarketRecord
	closed    bool
}

func (f *fakeRecordPublisher) Publish(_ context.Context, rec *models.MarketRecord) error {
	f.published = append(f.published, rec)
	return nil
}

func (f *fakeRecordPublisher) PublishBatch(_ context.Context, recs []*models.MarketRecord) error {
	f.published = append(f.published, recs...)
	return nil
}

func (f *fakeRecordPublisher) Close() error {
	f.closed = true
	return nil
}

func sampleRecord() *models.MarketRecord {
	return &models.MarketRecord{Symbol: "OGDC", Close: 102, AsOf: time.Now()}
}

func TestProcessRoutesToKafkaBackend(t *testing.T) {
	pub := &fakeRecordPublisher{}
	store := &fakeMarketStore{}
	p := NewRecordProcessor(pub, store, newFakeMetrics(), "kafka")

	if err := p.Process(context.Background(), sampleRecord()); err != nil {
		t.Fatalf("process: %v", err)
	}
	if len(pub.published) != 1 {
		t.Fatalf("expected publish, got %d", len(pub.published))
	}
	if len(store.stored) != 0 {
		t.Fatalf("kafka backend must not write the store directly")
	}
}

func TestProcessRoutesToClickHouseBackend(t *testing.T) {
	pub := &fakeRecordPublisher{}
	store := &fakeMarketStore{}
	p := NewRecordProcessor(pub, store, newFakeMetrics(), "clickhouse")

	if err := p.Process(context.Background(), sampleRecord()); err != nil {
		t.Fatalf("process: %v", err)
	}
	if len(store.stored) != 1 {
		t.Fatalf("expected store write, got %d", len(store.stored))
	}
	if len(pub.published) != 0 {
		t.Fatalf("clickhouse backend must not publish")
	}
}

func TestProcessRejectsUnknownBackend(t *testing.T) {
	p := NewRecordProcessor(&fakeRecordPublisher{}, &fakeMarketStore{}, newFakeMetrics(), "postgres")
	if err := p.Process(context.Background(), sampleRecord()); err == nil {
		t.Fatalf("expected error for unknown backend")
	}
}

func TestProcessBatchRoutes(t *testing.T) {
	pub := &fakeRecordPublisher{}
	p := NewRecordProcessor(pub, &fakeMarketStore{}, newFakeMetrics(), "kafka")

	recs := []*models.MarketRecord{sampleRecord(), sampleRecord()}
	if err := p.ProcessBatch(context.Background(), recs); err != nil {
		t.Fatalf("process batch: %v", err)
	}
	if len(pub.published) != 2 {
		t.Fatalf("expected 2 published, got %d", len(pub.published))
	}
	// Empty batches are a no-op.
	if err := p.ProcessBatch(context.Background(), nil); err != nil {
		t.Fatalf("empty batch: %v", err)
	}
}

func TestCloseClosesPublisher(t *testing.T) {
	pub := &fakeRecordPublisher{}
	p := NewRecordProcessor(pub, &fakeMarketStore{}, newFakeMetrics(), "kafka")
	p.Close()
	if !pub.closed {
		t.Fatalf("expected publisher closed")
	}
}
