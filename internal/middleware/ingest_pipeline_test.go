package middleware

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"BullBearPK/internal/domain/models"
)

type fakeProc struct {
	mu   sync.Mutex
	recs []*models.MarketRecord
	err  error
}

func (p *fakeProc) Process(ctx context.Context, rec *models.MarketRecord) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.recs = append(p.recs, rec)
	return nil
}

func (p *fakeProc) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.recs)
}

type fakeMetrics struct {
	mu     sync.Mutex
	errors map[string]int
}

func newFakeMetrics() *fakeMetrics { return &fakeMetrics{errors: make(map[string]int)} }

func (m *fakeMetrics) RecordStage(string, bool, float64)  {}
func (m *fakeMetrics) RecordRun(bool)                     {}
func (m *fakeMetrics) RecordIngested(string, int)         {}
func (m *fakeMetrics) RecordLastPrice(string, float64)    {}
func (m *fakeMetrics) RecordError(kind string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errors[kind]++
}

func (m *fakeMetrics) errCount(kind string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.errors[kind]
}

func validRecord(symbol string) *models.MarketRecord {
	return &models.MarketRecord{
		Symbol: symbol,
		Open:   100, High: 105, Low: 98, Close: 102,
		Volume: 1000,
		AsOf:   time.Now(),
	}
}

func TestProcessForwardsValidRecord(t *testing.T) {
	proc := &fakeProc{}
	p := NewIngestPipeline(proc, newFakeMetrics())

	if err := p.Process(context.Background(), validRecord("OGDC")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if proc.count() != 1 {
		t.Fatalf("expected 1 forwarded record, got %d", proc.count())
	}
}

func TestProcessRejectsInvalidRecords(t *testing.T) {
	proc := &fakeProc{}
	m := newFakeMetrics()
	p := NewIngestPipeline(proc, m)

	cases := []*models.MarketRecord{
		nil,
		{Symbol: "", AsOf: time.Now()},
		{Symbol: "OGDC"}, // zero timestamp
		{Symbol: "OGDC", AsOf: time.Now(), Close: -1},
	}
	for _, rec := range cases {
		if err := p.Process(context.Background(), rec); err == nil {
			t.Fatalf("expected validation error for %+v", rec)
		}
	}
	if proc.count() != 0 {
		t.Fatalf("invalid records must not reach the processor")
	}
	if m.errCount("pipeline_validate") != len(cases) {
		t.Fatalf("expected %d validate errors, got %d", len(cases), m.errCount("pipeline_validate"))
	}
}

func TestProcessThrottlesPerSymbol(t *testing.T) {
	proc := &fakeProc{}
	m := newFakeMetrics()
	p := NewIngestPipeline(proc, m, WithMaxRPS(1))

	// Two records for the same symbol in rapid succession: second is dropped.
	if err := p.Process(context.Background(), validRecord("OGDC")); err != nil {
		t.Fatalf("first record: %v", err)
	}
	if err := p.Process(context.Background(), validRecord("OGDC")); err != nil {
		t.Fatalf("throttled record should drop silently: %v", err)
	}
	if proc.count() != 1 {
		t.Fatalf("expected 1 forwarded record after throttle, got %d", proc.count())
	}
	if m.errCount("pipeline_throttle") != 1 {
		t.Fatalf("expected 1 throttle drop, got %d", m.errCount("pipeline_throttle"))
	}

	// A different symbol is unaffected.
	if err := p.Process(context.Background(), validRecord("HBL")); err != nil {
		t.Fatalf("other symbol: %v", err)
	}
	if proc.count() != 2 {
		t.Fatalf("expected 2 forwarded records, got %d", proc.count())
	}
}

func TestProcessBuffersOnDownstreamFailure(t *testing.T) {
	proc := &fakeProc{err: fmt.Errorf("broker down")}
	m := newFakeMetrics()
	p := NewIngestPipeline(proc, m, WithBufferSize(4))

	if err := p.Process(context.Background(), validRecord("OGDC")); err == nil {
		t.Fatalf("expected downstream error")
	}
	if m.errCount("pipeline_process") != 1 {
		t.Fatalf("expected 1 process error, got %d", m.errCount("pipeline_process"))
	}

	// Downstream recovers; the background flusher drains the buffer.
	proc.mu.Lock()
	proc.err = nil
	proc.mu.Unlock()

	p.Start(context.Background())
	defer p.Stop()

	deadline := time.Now().Add(2 * time.Second)
	for proc.count() == 0 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	if proc.count() != 1 {
		t.Fatalf("expected buffered record flushed, got %d", proc.count())
	}
}
