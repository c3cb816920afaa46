package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"BullBearPK/internal/domain/models"
	pkgch "BullBearPK/pkg/clickhouse"
)

const submissionTable = "bullbearpk.submissions"

// CHSubmissionStore keeps the append-only run history per user. The
// recommendation set is stored as a JSON document; only the latest row per
// user is read on the hot path.
type CHSubmissionStore struct {
	db *sql.DB
}

func NewCHSubmissionStore(ch *pkgch.Client) *CHSubmissionStore {
	return &CHSubmissionStore{db: ch.DB()}
}

func (s *CHSubmissionStore) Init(ctx context.Context) error {
	stmts := []string{
		`CREATE DATABASE IF NOT EXISTS bullbearpk`,
		`CREATE TABLE IF NOT EXISTS ` + submissionTable + ` (
			id              String,
			user_id         String,
			preferences     String,
			recommendations String,
			submitted_at    DateTime
		) ENGINE = MergeTree()
		PARTITION BY toYYYYMM(submitted_at)
		ORDER BY (user_id, submitted_at)`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("init submission schema: %w", err)
		}
	}
	return nil
}

func (s *CHSubmissionStore) Save(ctx context.Context, sub *models.Submission) error {
	if sub == nil {
		return fmt.Errorf("submission is nil")
	}
	prefs, err := json.Marshal(sub.Preferences)
	if err != nil {
		return fmt.Errorf("marshal preferences: %w", err)
	}
	recs, err := json.Marshal(sub.Recommendations)
	if err != nil {
		return fmt.Errorf("marshal recommendations: %w", err)
	}
	q := `INSERT INTO ` + submissionTable + ` (id, user_id, preferences, recommendations, submitted_at) VALUES (?, ?, ?, ?, ?)`
	if _, err := s.db.ExecContext(ctx, q, sub.ID, sub.UserID, string(prefs), string(recs), sub.SubmittedAt); err != nil {
		return fmt.Errorf("save submission: %w", err)
	}
	return nil
}

// LatestForUser returns the newest submission, or nil when the user has none.
func (s *CHSubmissionStore) LatestForUser(ctx context.Context, userID string) (*models.Submission, error) {
	q := `
		SELECT id, user_id, preferences, recommendations, submitted_at
		FROM ` + submissionTable + `
		WHERE user_id = ?
		ORDER BY submitted_at DESC
		LIMIT 1`
	row := s.db.QueryRowContext(ctx, q, userID)
	sub, err := scanSubmission(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("latest submission: %w", err)
	}
	return sub, nil
}

func (s *CHSubmissionStore) HistoryForUser(ctx context.Context, userID string, limit int) ([]models.Submission, error) {
	q := `
		SELECT id, user_id, preferences, recommendations, submitted_at
		FROM ` + submissionTable + `
		WHERE user_id = ?
		ORDER BY submitted_at DESC
		LIMIT ?`
	rows, err := s.db.QueryContext(ctx, q, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("submission history: %w", err)
	}
	defer rows.Close()

	out := make([]models.Submission, 0, limit)
	for rows.Next() {
		sub, err := scanSubmission(rows)
		if err != nil {
			return nil, fmt.Errorf("scan submission: %w", err)
		}
		out = append(out, *sub)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	return out, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanSubmission(row rowScanner) (*models.Submission, error) {
	var sub models.Submission
	var prefs, recs string
	if err := row.Scan(&sub.ID, &sub.UserID, &prefs, &recs, &sub.SubmittedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(prefs), &sub.Preferences); err != nil {
		return nil, fmt.Errorf("unmarshal preferences: %w", err)
	}
	if err := json.Unmarshal([]byte(recs), &sub.Recommendations); err != nil {
		return nil, fmt.Errorf("unmarshal recommendations: %w", err)
	}
	return &sub, nil
}
