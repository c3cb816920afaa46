package repository

import (
	"context"
	"time"

	"BullBearPK/internal/domain/models"
)

// MarketStream is a live quote feed. Read returns two channels owned by the
// stream; both close when the stream shuts down.
type MarketStream interface {
	Connect(ctx context.Context) error
	Subscribe(ctx context.Context, symbols []string) error
	Read(ctx context.Context) (<-chan *models.MarketRecord, <-chan error)
	Reconnect(ctx context.Context) error
	Close() error
	IsConnected() bool
}

// SnapshotProvider serves the most recent market record per symbol, scoped
// by sector when sector is non-empty and not "Any".
type SnapshotProvider interface {
	Latest(ctx context.Context, sector string, limit int) ([]models.MarketRecord, error)
	LatestBySymbols(ctx context.Context, symbols []string) ([]models.MarketRecord, error)
}

// MarketStore persists market records. Appends only; history is never
// overwritten.
type MarketStore interface {
	SnapshotProvider
	Init(ctx context.Context) error
	Store(ctx context.Context, rec *models.MarketRecord) error
	StoreBatch(ctx context.Context, recs []*models.MarketRecord) error
	Health(ctx context.Context) error
	Close() error
}

// NewsSource fetches recent headlines for a symbol.
type NewsSource interface {
	Recent(ctx context.Context, symbol string, limit int) ([]models.NewsItem, error)
}

// NewsStore persists fetched headlines for later sentiment replay.
type NewsStore interface {
	Init(ctx context.Context) error
	StoreBatch(ctx context.Context, items []models.NewsItem) error
	Recent(ctx context.Context, symbol string, limit int) ([]models.NewsItem, error)
}

// SubmissionStore keeps the append-only history of pipeline runs and their
// recommendation sets.
type SubmissionStore interface {
	Init(ctx context.Context) error
	Save(ctx context.Context, sub *models.Submission) error
	LatestForUser(ctx context.Context, userID string) (*models.Submission, error)
	HistoryForUser(ctx context.Context, userID string, limit int) ([]models.Submission, error)
}

// PortfolioStore holds the mutable per-user holdings document and the trade
// ledger backing behavior analysis.
type PortfolioStore interface {
	Holdings(ctx context.Context, userID string) ([]models.Holding, error)
	SaveHoldings(ctx context.Context, userID string, holdings []models.Holding) error
	Trades(ctx context.Context, userID string, limit int) ([]models.TradeRecord, error)
	AppendTrade(ctx context.Context, userID string, tr models.TradeRecord) error
	Balance(ctx context.Context, userID string) (float64, bool, error)
	SaveBalance(ctx context.Context, userID string, balance float64) error
}

// Publisher emits recommendation events for downstream consumers. Delivery
// is best effort; pipeline success does not depend on it.
type Publisher interface {
	PublishRun(ctx context.Context, result *models.PipelineResult) error
	Close() error
}

// RecordPublisher relays ingested market records onto the broker so the
// consumer side owns all ClickHouse writes.
type RecordPublisher interface {
	Publish(ctx context.Context, rec *models.MarketRecord) error
	PublishBatch(ctx context.Context, recs []*models.MarketRecord) error
	Close() error
}

// Metrics is the instrumentation sink for pipeline and ingestion paths.
type Metrics interface {
	RecordStage(stage string, degraded bool, seconds float64)
	RecordRun(success bool)
	RecordIngested(source string, n int)
	RecordError(kind string)
	RecordLastPrice(symbol string, price float64)
}

// SentimentCache memoizes per-symbol sentiment between runs.
type SentimentCache interface {
	Get(ctx context.Context, symbol string) (*models.SentimentProfile, bool)
	Set(ctx context.Context, symbol string, p *models.SentimentProfile, ttl time.Duration)
}
