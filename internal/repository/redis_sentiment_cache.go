package repository

import (
	"context"
	"time"

	"BullBearPK/internal/domain/models"
	"BullBearPK/pkg/cache"
	applogger "BullBearPK/pkg/logger"
)

// RedisSentimentCache memoizes per-symbol sentiment between runs. Misses and
// write failures are silent; sentiment is always recomputable.
type RedisSentimentCache struct {
	cache cache.Service
	log   *applogger.Logger
}

func NewRedisSentimentCache(c cache.Service, log *applogger.Logger) *RedisSentimentCache {
	return &RedisSentimentCache{cache: c, log: log}
}

func sentimentKey(symbol string) string { return cache.GenerateKey("sentiment", symbol) }

func (s *RedisSentimentCache) Get(ctx context.Context, symbol string) (*models.SentimentProfile, bool) {
	var p models.SentimentProfile
	if err := s.cache.Get(ctx, sentimentKey(symbol), &p); err != nil {
		return nil, false
	}
	return &p, true
}

func (s *RedisSentimentCache) Set(ctx context.Context, symbol string, p *models.SentimentProfile, ttl time.Duration) {
	if p == nil {
		return
	}
	if err := s.cache.Set(ctx, sentimentKey(symbol), p, ttl); err != nil && s.log != nil {
		s.log.Warn("sentiment cache write failed",
			applogger.String("symbol", symbol),
			applogger.Error(err),
		)
	}
}
