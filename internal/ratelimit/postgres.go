package ratelimit

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore shares limiter state between instances through the
// pin_attempts table.
type PostgresStore struct {
	DB *pgxpool.Pool
}

func NewPostgresStore(db *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{DB: db}
}

func (s *PostgresStore) Get(ctx context.Context, key string) (AttemptRecord, bool, error) {
	var rec AttemptRecord
	err := s.DB.QueryRow(ctx,
		`SELECT count, first_attempt FROM pin_attempts WHERE key = $1`, key,
	).Scan(&rec.Count, &rec.FirstAttempt)
	if errors.Is(err, pgx.ErrNoRows) {
		return AttemptRecord{}, false, nil
	}
	if err != nil {
		return AttemptRecord{}, false, err
	}
	return rec, true, nil
}

// Increment upserts the record in one statement. $3 is the cutoff: a window
// that began before it has expired and restarts at $2.
func (s *PostgresStore) Increment(ctx context.Context, key string, now time.Time, window time.Duration) (AttemptRecord, error) {
	var rec AttemptRecord
	err := s.DB.QueryRow(ctx, `
		INSERT INTO pin_attempts (key, count, first_attempt)
		VALUES ($1, 1, $2)
		ON CONFLICT (key) DO UPDATE SET
			count = CASE WHEN pin_attempts.first_attempt < $3 THEN 1 ELSE pin_attempts.count + 1 END,
			first_attempt = CASE WHEN pin_attempts.first_attempt < $3 THEN $2 ELSE pin_attempts.first_attempt END
		RETURNING count, first_attempt`,
		key, now, now.Add(-window),
	).Scan(&rec.Count, &rec.FirstAttempt)
	if err != nil {
		return AttemptRecord{}, err
	}
	return rec, nil
}

func (s *PostgresStore) Delete(ctx context.Context, key string) error {
	_, err := s.DB.Exec(ctx, `DELETE FROM pin_attempts WHERE key = $1`, key)
	return err
}
