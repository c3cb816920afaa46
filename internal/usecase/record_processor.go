package usecase

import (
	"context"
	"fmt"

	"BullBearPK/internal/domain/models"
	drepo "BullBearPK/internal/domain/repository"
)

// RecordProcessor routes ingested market records to the configured backend.
// With the kafka backend the consumer side owns all ClickHouse writes; the
// clickhouse backend writes directly and exists for single-node deployments.
type RecordProcessor struct {
	pub     drepo.RecordPublisher
	store   drepo.MarketStore
	metrics drepo.Metrics
	backend string
}

func NewRecordProcessor(
	pub drepo.RecordPublisher,
	store drepo.MarketStore,
	metrics drepo.Metrics,
	backend string,
) *RecordProcessor {
	return &RecordProcessor{
		pub:     pub,
		store:   store,
		metrics: metrics,
		backend: backend,
	}
}

// Process routes a single record to the configured backend.
func (p *RecordProcessor) Process(ctx context.Context, rec *models.MarketRecord) error {
	if rec == nil {
		return fmt.Errorf("record is nil")
	}

	var err error
	switch p.backend {
	case "kafka":
		err = p.pub.Publish(ctx, rec)
	case "clickhouse":
		err = p.store.Store(ctx, rec)
	default:
		err = fmt.Errorf("unknown backend: %s", p.backend)
	}

	if err != nil {
		p.metrics.RecordError("process")
		return fmt.Errorf("process record: %w", err)
	}

	p.metrics.RecordIngested(p.backend, 1)
	return nil
}

// ProcessBatch routes multiple records in one backend call.
func (p *RecordProcessor) ProcessBatch(ctx context.Context, recs []*models.MarketRecord) error {
	if len(recs) == 0 {
		return nil
	}

	var err error
	switch p.backend {
	case "kafka":
		err = p.pub.PublishBatch(ctx, recs)
	case "clickhouse":
		err = p.store.StoreBatch(ctx, recs)
	default:
		err = fmt.Errorf("unknown backend: %s", p.backend)
	}

	if err != nil {
		p.metrics.RecordError("process_batch")
		return fmt.Errorf("process batch: %w", err)
	}

	p.metrics.RecordIngested(p.backend, len(recs))
	return nil
}

// Close closes underlying resources if available.
func (p *RecordProcessor) Close() {
	if p.pub != nil {
		_ = p.pub.Close()
	}
	if p.store != nil {
		_ = p.store.Close()
	}
}
