package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"BullBearPK/internal/domain/models"
	"BullBearPK/pkg/cache"
)

// RedisPortfolioStore keeps the mutable per-user documents: holdings, the
// trade ledger, and the cash balance. Keys never expire; the ledger is
// append-only and trimmed on read by the caller's limit.
type RedisPortfolioStore struct {
	cache cache.Service
}

func NewRedisPortfolioStore(c cache.Service) *RedisPortfolioStore {
	return &RedisPortfolioStore{cache: c}
}

func holdingsKey(userID string) string { return cache.GenerateKeyWithParams("portfolio", userID, "holdings") }
func tradesKey(userID string) string   { return cache.GenerateKeyWithParams("portfolio", userID, "trades") }
func balanceKey(userID string) string  { return cache.GenerateKeyWithParams("portfolio", userID, "balance") }
func tradesLock(userID string) string  { return cache.GenerateKeyWithParams("portfolio", userID, "trades", "lock") }

func (s *RedisPortfolioStore) Holdings(ctx context.Context, userID string) ([]models.Holding, error) {
	var holdings []models.Holding
	err := s.cache.Get(ctx, holdingsKey(userID), &holdings)
	if errors.Is(err, cache.ErrCacheMiss) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get holdings: %w", err)
	}
	return holdings, nil
}

func (s *RedisPortfolioStore) SaveHoldings(ctx context.Context, userID string, holdings []models.Holding) error {
	if err := s.cache.Set(ctx, holdingsKey(userID), holdings, 0); err != nil {
		return fmt.Errorf("save holdings: %w", err)
	}
	return nil
}

func (s *RedisPortfolioStore) Trades(ctx context.Context, userID string, limit int) ([]models.TradeRecord, error) {
	var trades []models.TradeRecord
	err := s.cache.Get(ctx, tradesKey(userID), &trades)
	if errors.Is(err, cache.ErrCacheMiss) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get trades: %w", err)
	}
	if limit > 0 && len(trades) > limit {
		trades = trades[len(trades)-limit:]
	}
	return trades, nil
}

func (s *RedisPortfolioStore) AppendTrade(ctx context.Context, userID string, tr models.TradeRecord) error {
	// Ledger append is read-modify-write; the lock guards concurrent decisions
	// for the same user.
	locked, err := s.cache.TryLock(ctx, tradesLock(userID), 5*time.Second)
	if err != nil {
		return fmt.Errorf("lock trades: %w", err)
	}
	if !locked {
		return fmt.Errorf("trades ledger busy for user %s", userID)
	}
	defer func() { _ = s.cache.Unlock(ctx, tradesLock(userID)) }()

	var trades []models.TradeRecord
	if err := s.cache.Get(ctx, tradesKey(userID), &trades); err != nil && !errors.Is(err, cache.ErrCacheMiss) {
		return fmt.Errorf("get trades: %w", err)
	}
	trades = append(trades, tr)
	if err := s.cache.Set(ctx, tradesKey(userID), trades, 0); err != nil {
		return fmt.Errorf("append trade: %w", err)
	}
	return nil
}

// Balance returns the cash balance and whether the account has one yet.
func (s *RedisPortfolioStore) Balance(ctx context.Context, userID string) (float64, bool, error) {
	var balance float64
	err := s.cache.Get(ctx, balanceKey(userID), &balance)
	if errors.Is(err, cache.ErrCacheMiss) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("get balance: %w", err)
	}
	return balance, true, nil
}

func (s *RedisPortfolioStore) SaveBalance(ctx context.Context, userID string, balance float64) error {
	if err := s.cache.Set(ctx, balanceKey(userID), balance, 0); err != nil {
		return fmt.Errorf("save balance: %w", err)
	}
	return nil
}
