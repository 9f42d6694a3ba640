package trend

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"dfinspect/internal/df"
)

const schema = `
CREATE TABLE IF NOT EXISTS trend_state (
	host         TEXT    NOT NULL,
	item         TEXT    NOT NULL,
	prev_ts      REAL    NOT NULL,
	prev_used_mb REAL    NOT NULL,
	rate_acc     REAL    NOT NULL,
	updated_at   INTEGER NOT NULL,
	PRIMARY KEY (host, item)
);
CREATE INDEX IF NOT EXISTS idx_trend_state_updated_at ON trend_state (updated_at);
`

// RetryPolicy bounds how often a write is retried while the database is busy.
type RetryPolicy struct {
	MaxRetries int
	BaseDelay  time.Duration
}

// SQLiteStore persists trend state in a local sqlite database.
type SQLiteStore struct {
	db     *sql.DB
	locks  *keyedMutex
	retry  RetryPolicy
	logger zerolog.Logger
	now    func() time.Time
}

// OpenSQLite opens (and creates if needed) the trend database at path.
func OpenSQLite(ctx context.Context, path string, retry RetryPolicy, logger zerolog.Logger) (*SQLiteStore, error) {
	if path == "" {
		return nil, fmt.Errorf("trend store path is empty")
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create trend store directory: %w", err)
		}
	}

	dsn := "file:" + path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open trend store: %w", err)
	}
	// a single connection serializes writers inside this process
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize trend store schema: %w", err)
	}

	s := &SQLiteStore{
		db:     db,
		locks:  newKeyedMutex(),
		retry:  retry,
		logger: logger.With().Str("component", "trend-store").Logger(),
		now:    time.Now,
	}
	s.logger.Debug().Str("path", path).Msg("trend store opened")
	return s, nil
}

// ForHost implements Store.
func (s *SQLiteStore) ForHost(host string) df.TrendStore {
	return hostView{b: s, host: host}
}

// Prune removes keys that have not been written since olderThan.
func (s *SQLiteStore) Prune(ctx context.Context, olderThan time.Time) (int64, error) {
	var removed int64
	err := s.withRetry(ctx, "prune", func() error {
		res, err := s.db.ExecContext(ctx, `DELETE FROM trend_state WHERE updated_at < ?`, olderThan.Unix())
		if err != nil {
			return err
		}
		removed, err = res.RowsAffected()
		return err
	})
	if err != nil {
		return 0, err
	}
	s.logger.Info().Int64("removed", removed).Time("older_than", olderThan).Msg("pruned stale trend keys")
	return removed, nil
}

// Close closes the database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) lock(host, key string) func() {
	return s.locks.Lock(lockKey(host, key))
}

func (s *SQLiteStore) load(ctx context.Context, host, key string) (df.TrendState, bool, error) {
	var st df.TrendState
	err := s.db.QueryRowContext(ctx,
		`SELECT prev_ts, prev_used_mb, rate_acc FROM trend_state WHERE host = ? AND item = ?`,
		host, key,
	).Scan(&st.Timestamp, &st.UsedMB, &st.RateAcc)
	if errors.Is(err, sql.ErrNoRows) {
		return df.TrendState{}, false, nil
	}
	if err != nil {
		return df.TrendState{}, false, fmt.Errorf("failed to query trend state: %w", err)
	}
	return st, true, nil
}

func (s *SQLiteStore) save(ctx context.Context, host, key string, state df.TrendState) error {
	return s.withRetry(ctx, "save", func() error {
		_, err := s.db.ExecContext(ctx, `
INSERT INTO trend_state (host, item, prev_ts, prev_used_mb, rate_acc, updated_at)
VALUES (?, ?, ?, ?, ?, ?)
ON CONFLICT (host, item) DO UPDATE SET
	prev_ts = excluded.prev_ts,
	prev_used_mb = excluded.prev_used_mb,
	rate_acc = excluded.rate_acc,
	updated_at = excluded.updated_at`,
			host, key, state.Timestamp, state.UsedMB, state.RateAcc, s.now().Unix())
		return err
	})
}

// withRetry runs fn until it succeeds, fails with a non-busy error, or the
// retry budget is spent. Delays double after every attempt.
func (s *SQLiteStore) withRetry(ctx context.Context, op string, fn func() error) error {
	var err error
	for attempt := 0; attempt <= s.retry.MaxRetries; attempt++ {
		if attempt > 0 {
			delay := s.retry.BaseDelay << (attempt - 1)
			s.logger.Debug().Err(err).Str("op", op).Int("attempt", attempt).Dur("delay", delay).Msg("retrying trend store write")
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}
		if err = fn(); err == nil {
			return nil
		}
		if !isBusy(err) {
			return fmt.Errorf("trend store %s failed: %w", op, err)
		}
	}
	return fmt.Errorf("trend store %s failed after %d attempts: %w", op, s.retry.MaxRetries+1, err)
}

func isBusy(err error) bool {
	var se *sqlite.Error
	if !errors.As(err, &se) {
		return false
	}
	switch se.Code() & 0xff {
	case sqlite3.SQLITE_BUSY, sqlite3.SQLITE_LOCKED:
		return true
	}
	return false
}
