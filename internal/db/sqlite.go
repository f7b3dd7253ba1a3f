package db

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/pkg/errors"

	_ "modernc.org/sqlite" // pure-Go SQLite driver
)

// SQLiteStore is the embedded single-file backend used by the interactive
// client when it should not write loose JSON files.
type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(ctx context.Context, path string) (*SQLiteStore, error) {
	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, errors.Wrap(err, "open sqlite")
	}
	// one writer at a time
	conn.SetMaxOpenConns(1)

	if err := conn.PingContext(ctx); err != nil {
		conn.Close()
		return nil, errors.Wrap(err, "ping sqlite")
	}
	if err := migrate(ctx, conn, dialectSQLite); err != nil {
		conn.Close()
		return nil, err
	}
	return &SQLiteStore{db: conn}, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) Load(ctx context.Context, collection string) (map[string]json.RawMessage, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT key, doc FROM collections WHERE name = ?`, collection)
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

func (s *SQLiteStore) Save(ctx context.Context, collection string, records map[string]json.RawMessage) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrapf(err, "begin save %s", collection)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, `DELETE FROM collections WHERE name = ?`, collection); err != nil {
		return errors.Wrapf(err, "clear %s", collection)
	}
	for key, doc := range records {
		if _, err = tx.ExecContext(ctx,
			`INSERT INTO collections (name, key, doc) VALUES (?, ?, ?)`,
			collection, key, string(doc)); err != nil {
			return errors.Wrapf(err, "insert %s/%s", collection, key)
		}
	}
	if err = tx.Commit(); err != nil {
		return errors.Wrapf(err, "commit %s", collection)
	}
	return nil
}
