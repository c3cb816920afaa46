package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"BullBearPK/internal/domain/models"
	pkgch "BullBearPK/pkg/clickhouse"
)

const newsTable = "bullbearpk.news_items"

// CHNewsStore persists scraped headlines so sentiment can replay them
// without refetching sources.
type CHNewsStore struct {
	db *sql.DB
}

func NewCHNewsStore(ch *pkgch.Client) *CHNewsStore {
	return &CHNewsStore{db: ch.DB()}
}

func (s *CHNewsStore) Init(ctx context.Context) error {
	stmts := []string{
		`CREATE DATABASE IF NOT EXISTS bullbearpk`,
		`CREATE TABLE IF NOT EXISTS ` + newsTable + ` (
			symbol       LowCardinality(String),
			title        String,
			summary      String,
			source       LowCardinality(String),
			published_at DateTime
		) ENGINE = MergeTree()
		PARTITION BY toYYYYMM(published_at)
		ORDER BY (symbol, published_at)`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("init news schema: %w", err)
		}
	}
	return nil
}

func (s *CHNewsStore) StoreBatch(ctx context.Context, items []models.NewsItem) error {
	if len(items) == 0 {
		return nil
	}
	values := make([]string, 0, len(items))
	args := make([]interface{}, 0, len(items)*5)
	for _, it := range items {
		if it.Symbol == "" || it.Title == "" {
			continue
		}
		values = append(values, "(?, ?, ?, ?, ?)")
		args = append(args, it.Symbol, it.Title, it.Summary, it.Source, it.PublishedAt)
	}
	if len(values) == 0 {
		return nil
	}
	q := `INSERT INTO ` + newsTable + ` (symbol, title, summary, source, published_at) VALUES ` + strings.Join(values, ",")
	if _, err := s.db.ExecContext(ctx, q, args...); err != nil {
		return fmt.Errorf("store news batch: %w", err)
	}
	return nil
}

func (s *CHNewsStore) Recent(ctx context.Context, symbol string, limit int) ([]models.NewsItem, error) {
	q := `
		SELECT symbol, title, summary, source, published_at
		FROM ` + newsTable + `
		WHERE symbol = ?
		ORDER BY published_at DESC
		LIMIT ?`
	rows, err := s.db.QueryContext(ctx, q, symbol, limit)
	if err != nil {
		return nil, fmt.Errorf("recent news: %w", err)
	}
	defer rows.Close()

	out := make([]models.NewsItem, 0, limit)
	for rows.Next() {
		var it models.NewsItem
		if err := rows.Scan(&it.Symbol, &it.Title, &it.Summary, &it.Source, &it.PublishedAt); err != nil {
			return nil, fmt.Errorf("scan news item: %w", err)
		}
		out = append(out, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	return out, nil
}
