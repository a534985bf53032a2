package database

import (
	"context"
	"time"

	"bakery/logger"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

const schema = `
CREATE TABLE IF NOT EXISTS forecast_documents (
    name         TEXT PRIMARY KEY,
    body         JSONB NOT NULL,
    generated_at TIMESTAMPTZ NOT NULL,
    run_id       TEXT NOT NULL
)`

const upsertDocument = `
INSERT INTO forecast_documents (name, body, generated_at, run_id)
VALUES ($1, $2, $3, $4)
ON CONFLICT (name) DO UPDATE
SET body = EXCLUDED.body, generated_at = EXCLUDED.generated_at, run_id = EXCLUDED.run_id`

// Document is one named pipeline output.
type Document struct {
	Name string
	Body []byte
}

// Store mirrors pipeline documents into Postgres.
type Store struct {
	pool *pgxpool.Pool
}

// Connect sets up the connection pool, checks it and ensures the schema.
func Connect(ctx context.Context, databaseURL string) (*Store, error) {
	pool, err := pgxpool.Connect(ctx, databaseURL)
	if err != nil {
		return nil, errors.Wrap(err, "unable to connect to database")
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, errors.Wrap(err, "database ping failed")
	}

	if _, err := pool.Exec(ctx, schema); err != nil {
		pool.Close()
		return nil, errors.Wrap(err, "failed to create forecast_documents")
	}

	logger.Info("[DB] connected to database")
	return &Store{pool: pool}, nil
}

// Close closes the database connection pool.
func (s *Store) Close() {
	if s != nil && s.pool != nil {
		s.pool.Close()
		logger.Info("[DB] connection pool closed")
	}
}

func (s *Store) Ping(ctx context.Context) error {
	if s == nil || s.pool == nil {
		return errors.New("database is not configured")
	}
	return s.pool.Ping(ctx)
}

// SaveDocuments replaces the stored body of every document in one
// transaction; either all of them are written or none.
func (s *Store) SaveDocuments(ctx context.Context, runID string, docs ...Document) error {
	if s == nil || s.pool == nil {
		return errors.New("database is not configured")
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return errors.Wrap(err, "failed to start transaction")
	}
	defer tx.Rollback(ctx)

	now := time.Now().UTC()
	if err := saveAll(ctx, tx, now, runID, docs); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return errors.Wrap(err, "failed to commit transaction")
	}
	logger.Info("[DB] documents saved", zap.String("run_id", runID), zap.Int("count", len(docs)))
	return nil
}

func saveAll(ctx context.Context, tx pgx.Tx, at time.Time, runID string, docs []Document) error {
	for _, d := range docs {
		if _, err := tx.Exec(ctx, upsertDocument, d.Name, string(d.Body), at, runID); err != nil {
			return errors.Wrapf(err, "failed to save document %s", d.Name)
		}
	}
	return nil
}
