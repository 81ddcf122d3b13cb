package aiusage

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Store handles ai_usage persistence.
type Store struct {
	db        *pgxpool.Pool
	allowance int
	now       func() time.Time
}

// NewStore returns a Store backed by the given connection pool.
// A non-positive allowance falls back to DefaultTokens.
func NewStore(db *pgxpool.Pool, allowance int) *Store {
	if allowance <= 0 {
		allowance = DefaultTokens
	}
	return &Store{db: db, allowance: allowance, now: time.Now}
}

// UseToken atomically checks the monthly quota and deducts one token.
// It resets the counter to the allowance when last_reset_month is behind the current month.
// Returns ErrInsufficientTokens when 0 rows are updated (quota exhausted or client absent).
func (s *Store) UseToken(ctx context.Context, uid string) error {
	month := s.now().UTC().Format(monthLayout)

	tag, err := s.db.Exec(ctx, `
		UPDATE ai_usage SET
			tokens_remaining = CASE WHEN last_reset_month != $1 THEN $2 - 1 ELSE tokens_remaining - 1 END,
			last_reset_month = $1
		WHERE uid = $3 AND (last_reset_month < $1 OR tokens_remaining > 0)
	`, month, s.allowance, uid)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrInsufficientTokens
	}
	return nil
}

// EnsureUser inserts a new ai_usage row for uid with the full allowance.
// If the row already exists the insert is silently skipped (ON CONFLICT DO NOTHING).
func (s *Store) EnsureUser(ctx context.Context, uid string) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO ai_usage (uid, tokens_remaining, last_reset_month)
		VALUES ($1, $2, $3)
		ON CONFLICT (uid) DO NOTHING
	`, uid, s.allowance, s.now().UTC().Format(monthLayout))
	return err
}

// Remaining returns the tokens left this month; a client without a row or
// with a stale month has the full allowance.
func (s *Store) Remaining(ctx context.Context, uid string) (int, error) {
	var left int
	err := s.db.QueryRow(ctx, `
		SELECT CASE WHEN last_reset_month = $2 THEN tokens_remaining ELSE $3 END
		FROM ai_usage WHERE uid = $1
	`, uid, s.now().UTC().Format(monthLayout), s.allowance).Scan(&left)
	if errors.Is(err, pgx.ErrNoRows) {
		return s.allowance, nil
	}
	return left, err
}
