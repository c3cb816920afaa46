package usecase

import (
	"context"
	"fmt"

	domrepo "BullBearPK/internal/domain/repository"
	applogger "BullBearPK/pkg/logger"
	"BullBearPK/pkg/queue"
)

const NewsRefreshType = "news_refresh"

// NewsRefreshPayload names the symbol whose headlines should be refetched.
type NewsRefreshPayload struct {
	Symbol string `json:"symbol"`
	Limit  int    `json:"limit"`
}

// NewsRefreshJob pulls fresh headlines for a symbol and persists them, so
// pipeline runs read warm local history instead of hitting the provider.
type NewsRefreshJob struct {
	source domrepo.NewsSource
	store  domrepo.NewsStore
	log    *applogger.Logger
}

func NewNewsRefreshJob(source domrepo.NewsSource, store domrepo.NewsStore, log *applogger.Logger) *NewsRefreshJob {
	return &NewsRefreshJob{source: source, store: store, log: log}
}

func (j *NewsRefreshJob) Name() string { return "news-refresh" }
func (j *NewsRefreshJob) Type() string { return NewsRefreshType }

func (j *NewsRefreshJob) Handle(ctx context.Context, payload interface{}) error {
	p, err := queue.ParsePayload[NewsRefreshPayload](payload)
	if err != nil {
		return fmt.Errorf("news refresh payload: %w", err)
	}
	if p.Symbol == "" {
		return fmt.Errorf("news refresh: symbol required")
	}
	limit := p.Limit
	if limit <= 0 {
		limit = 20
	}

	items, err := j.source.Recent(ctx, p.Symbol, limit)
	if err != nil {
		return fmt.Errorf("news refresh fetch %s: %w", p.Symbol, err)
	}
	if len(items) == 0 {
		return nil
	}
	if err := j.store.StoreBatch(ctx, items); err != nil {
		return fmt.Errorf("news refresh store %s: %w", p.Symbol, err)
	}
	j.log.Debug("news refreshed",
		applogger.String("symbol", p.Symbol),
		applogger.Int("items", len(items)))
	return nil
}

var _ queue.Job = (*NewsRefreshJob)(nil)
