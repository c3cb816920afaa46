package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"BullBearPK/internal/domain/models"
	domrepo "BullBearPK/internal/domain/repository"
	pkgch "BullBearPK/pkg/clickhouse"
	applogger "BullBearPK/pkg/logger"
	"BullBearPK/pkg/util"
)

const marketTable = "bullbearpk.market_records"

// CHMarketStore implements MarketStore and MarketHistory on ClickHouse.
// Rows are append-only; Latest* queries resolve the newest row per symbol.
type CHMarketStore struct {
	db *sql.DB
	l  *applogger.Logger
}

func NewCHMarketStore(ch *pkgch.Client) *CHMarketStore {
	return &CHMarketStore{db: ch.DB()}
}

// SetLogger injects a structured logger.
func (s *CHMarketStore) SetLogger(l *applogger.Logger) { s.l = l }

func (s *CHMarketStore) Init(ctx context.Context) error {
	stmts := []string{
		`CREATE DATABASE IF NOT EXISTS bullbearpk`,
		`CREATE TABLE IF NOT EXISTS ` + marketTable + ` (
			symbol         LowCardinality(String),
			name           String,
			sector         LowCardinality(String),
			open           Float64,
			high           Float64,
			low            Float64,
			close          Float64,
			volume         Int64,
			change_amount  Float64,
			change_percent Float64,
			as_of          DateTime
		) ENGINE = MergeTree()
		PARTITION BY toYYYYMM(as_of)
		ORDER BY (symbol, as_of)`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("init market schema: %w", err)
		}
	}
	return nil
}

func (s *CHMarketStore) Store(ctx context.Context, rec *models.MarketRecord) error {
	if rec == nil {
		return fmt.Errorf("record is nil")
	}
	q := `INSERT INTO ` + marketTable + ` (symbol, name, sector, open, high, low, close, volume, change_amount, change_percent, as_of)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := s.db.ExecContext(ctx, q,
		rec.Symbol, rec.Name, rec.Sector,
		rec.Open, rec.High, rec.Low, rec.Close, rec.Volume,
		rec.ChangeAmount, rec.ChangePercent, rec.AsOf,
	)
	if err != nil {
		return fmt.Errorf("store record: %w", err)
	}
	return nil
}

func (s *CHMarketStore) StoreBatch(ctx context.Context, recs []*models.MarketRecord) error {
	if len(recs) == 0 {
		return nil
	}
	const chunkSize = 2000
	for start := 0; start < len(recs); start += chunkSize {
		end := start + chunkSize
		if end > len(recs) {
			end = len(recs)
		}
		values := make([]string, 0, end-start)
		args := make([]interface{}, 0, (end-start)*11)
		for _, rec := range recs[start:end] {
			if rec == nil || rec.Symbol == "" || rec.AsOf.IsZero() {
				continue
			}
			values = append(values, "(?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)")
			args = append(args,
				rec.Symbol, rec.Name, rec.Sector,
				rec.Open, rec.High, rec.Low, rec.Close, rec.Volume,
				rec.ChangeAmount, rec.ChangePercent, rec.AsOf,
			)
		}
		if len(values) == 0 {
			continue
		}
		q := `INSERT INTO ` + marketTable + ` (symbol, name, sector, open, high, low, close, volume, change_amount, change_percent, as_of) VALUES ` + strings.Join(values, ",")
		if _, err := s.db.ExecContext(ctx, q, args...); err != nil {
			return fmt.Errorf("store batch: %w", err)
		}
	}
	return nil
}

// Latest returns the newest record per symbol, optionally scoped to a sector.
func (s *CHMarketStore) Latest(ctx context.Context, sector string, limit int) ([]models.MarketRecord, error) {
	start := time.Now()
	q := `
		SELECT symbol, name, sector, open, high, low, close, volume, change_amount, change_percent, as_of
		FROM ` + marketTable + `
	`
	args := make([]interface{}, 0, 2)
	if sector != "" && sector != models.SectorAny {
		q += ` WHERE sector = ?`
		args = append(args, sector)
	}
	q += `
		ORDER BY symbol, as_of DESC
		LIMIT 1 BY symbol
		LIMIT ?`
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		if s.l != nil {
			s.l.Error("clickhouse latest query error",
				applogger.String("sector", sector),
				applogger.Error(err),
			)
		}
		return nil, fmt.Errorf("latest records: %w", err)
	}
	defer rows.Close()

	out, err := scanRecords(rows)
	if err != nil {
		return nil, err
	}
	if s.l != nil {
		s.l.Info("clickhouse latest ok",
			applogger.String("sector", sector),
			applogger.Int("rows", len(out)),
			applogger.Duration("duration_ms", time.Since(start)),
		)
	}
	return out, nil
}

// LatestBySymbols returns the newest record for each of the given symbols.
func (s *CHMarketStore) LatestBySymbols(ctx context.Context, symbols []string) ([]models.MarketRecord, error) {
	if len(symbols) == 0 {
		return nil, nil
	}
	placeholders := make([]string, len(symbols))
	args := make([]interface{}, len(symbols))
	for i, sym := range symbols {
		placeholders[i] = "?"
		args[i] = sym
	}
	q := `
		SELECT symbol, name, sector, open, high, low, close, volume, change_amount, change_percent, as_of
		FROM ` + marketTable + `
		WHERE symbol IN (` + strings.Join(placeholders, ",") + `)
		ORDER BY symbol, as_of DESC
		LIMIT 1 BY symbol`

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("latest by symbols: %w", err)
	}
	defer rows.Close()
	return scanRecords(rows)
}

// Range returns records for one symbol over a horizon's lookback, ascending.
func (s *CHMarketStore) Range(ctx context.Context, symbol string, h domrepo.Horizon) ([]models.MarketRecord, error) {
	now := time.Now()
	from, _ := util.AlignLookback(now.Add(-h.Lookback()), now)
	q := `
		SELECT symbol, name, sector, open, high, low, close, volume, change_amount, change_percent, as_of
		FROM ` + marketTable + `
		WHERE symbol = ? AND as_of >= ?
		ORDER BY as_of ASC`
	rows, err := s.db.QueryContext(ctx, q, symbol, from)
	if err != nil {
		return nil, fmt.Errorf("range records: %w", err)
	}
	defer rows.Close()
	return scanRecords(rows)
}

// LatestN returns the last n records for one symbol, ascending.
func (s *CHMarketStore) LatestN(ctx context.Context, symbol string, n int) ([]models.MarketRecord, error) {
	q := `
		SELECT symbol, name, sector, open, high, low, close, volume, change_amount, change_percent, as_of
		FROM ` + marketTable + `
		WHERE symbol = ?
		ORDER BY as_of DESC
		LIMIT ?`
	rows, err := s.db.QueryContext(ctx, q, symbol, n)
	if err != nil {
		return nil, fmt.Errorf("latest n records: %w", err)
	}
	defer rows.Close()

	tmp, err := scanRecords(rows)
	if err != nil {
		return nil, err
	}
	for i, j := 0, len(tmp)-1; i < j; i, j = i+1, j-1 {
		tmp[i], tmp[j] = tmp[j], tmp[i]
	}
	return tmp, nil
}

func (s *CHMarketStore) Health(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *CHMarketStore) Close() error {
	return nil // pool owned by pkg client
}

func scanRecords(rows *sql.Rows) ([]models.MarketRecord, error) {
	out := make([]models.MarketRecord, 0, 64)
	for rows.Next() {
		var r models.MarketRecord
		if err := rows.Scan(
			&r.Symbol, &r.Name, &r.Sector,
			&r.Open, &r.High, &r.Low, &r.Close, &r.Volume,
			&r.ChangeAmount, &r.ChangePercent, &r.AsOf,
		); err != nil {
			return nil, fmt.Errorf("scan record: %w", err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	return out, nil
}
