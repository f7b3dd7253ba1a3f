package db

import (
	"context"
	"encoding/json"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pkg/errors"
)

// PostgresStore keeps every collection in the collections table, one row per
// record.
type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(ctx context.Context, databaseURL string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, errors.Wrap(err, "open pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, errors.Wrap(err, "ping")
	}

	// goose needs a database/sql handle; it borrows connections from the pool
	sqlDB := stdlib.OpenDBFromPool(pool)
	err = migrate(ctx, sqlDB, dialectPostgres)
	if cerr := sqlDB.Close(); err == nil && cerr != nil {
		err = errors.Wrap(cerr, "close migration handle")
	}
	if err != nil {
		pool.Close()
		return nil, err
	}

	return &PostgresStore{pool: pool}, nil
}

func (s *PostgresStore) Close() error {
	if s.pool != nil {
		s.pool.Close()
	}
	return nil
}

func (s *PostgresStore) Load(ctx context.Context, collection string) (map[string]json.RawMessage, error) {
	if s.pool == nil {
		return nil, errors.New("db not initialized")
	}

	const query = `
		SELECT key, doc::text
		FROM collections
		WHERE name = $1
	`
	rows, err := s.pool.Query(ctx, query, collection)
	if err != nil {
		return nil, errors.Wrapf(err, "load %s", collection)
	}
	defer rows.Close()

	records := map[string]json.RawMessage{}
	for rows.Next() {
		var key, doc string
		if err := rows.Scan(&key, &doc); err != nil {
			return nil, errors.Wrapf(err, "scan %s", collection)
		}
		records[key] = json.RawMessage(doc)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrapf(err, "rows %s", collection)
	}
	return records, nil
}

// Save replaces the collection in a single transaction.
func (s *PostgresStore) Save(ctx context.Context, collection string, records map[string]json.RawMessage) error {
	if s.pool == nil {
		return errors.New("db not initialized")
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return errors.Wrapf(err, "begin save %s", collection)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM collections WHERE name = $1`, collection); err != nil {
		return errors.Wrapf(err, "clear %s", collection)
	}

	const insert = `
		INSERT INTO collections (name, key, doc)
		VALUES ($1, $2, $3::jsonb)
	`
	batch := &pgx.Batch{}
	for key, doc := range records {
		batch.Queue(insert, collection, key, string(doc))
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return errors.Wrapf(err, "insert %s", collection)
	}

	if err := tx.Commit(ctx); err != nil {
		return errors.Wrapf(err, "commit %s", collection)
	}
	return nil
}
