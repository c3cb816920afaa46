package usecase

import (
	"context"

	"BullBearPK/internal/domain/models"
	drepo "BullBearPK/internal/domain/repository"
	mid "BullBearPK/internal/middleware"
)

// RecordCollector consumes the live market feed and hands records to the
// ingest pipeline.
type RecordCollector struct {
	stream  drepo.MarketStream
	proc    *RecordProcessor
	metrics drepo.Metrics
	pipe    *mid.IngestPipeline
	symbols []string
}

func NewRecordCollector(
	stream drepo.MarketStream,
	proc *RecordProcessor,
	metrics drepo.Metrics,
	pipe *mid.IngestPipeline,
	symbols []string,
) *RecordCollector {
	return &RecordCollector{stream: stream, proc: proc, metrics: metrics, pipe: pipe, symbols: symbols}
}

// IsConnected reports whether the market stream is connected.
func (c *RecordCollector) IsConnected() bool {
	return c.stream.IsConnected()
}

func (c *RecordCollector) Start(ctx context.Context) error {
	if err := c.stream.Connect(ctx); err != nil {
		return err
	}
	if err := c.stream.Subscribe(ctx, c.symbols); err != nil {
		return err
	}
	if c.pipe != nil {
		c.pipe.Start(ctx)
	}
	recCh, errCh := c.stream.Read(ctx)
	go c.consume(ctx, recCh, errCh)
	return nil
}

func (c *RecordCollector) consume(ctx context.Context, recCh <-chan *models.MarketRecord, errCh <-chan error) {
	for {
		select {
		case <-ctx.Done():
			return
		case err := <-errCh:
			if err != nil {
				c.metrics.RecordError("stream")
				_ = c.stream.Reconnect(ctx)
			}
		case rec := <-recCh:
			if rec == nil {
				continue
			}
			if c.pipe != nil {
				_ = c.pipe.Process(ctx, rec)
			} else {
				_ = c.proc.Process(ctx, rec)
			}
			c.metrics.RecordLastPrice(rec.Symbol, rec.Close)
		}
	}
}

func (c *RecordCollector) Stop() error { return c.stream.Close() }

// Processor returns the underlying RecordProcessor for lifecycle management.
func (c *RecordCollector) Processor() *RecordProcessor { return c.proc }

// Shutdown stops the pipeline and closes the stream.
func (c *RecordCollector) Shutdown(ctx context.Context) error {
	if c.pipe != nil {
		c.pipe.Stop()
	}
	return c.stream.Close()
}
