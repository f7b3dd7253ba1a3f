package db

import (
	"context"
	"database/sql"
	"embed"
	"sync"

	"github.com/pkg/errors"
	"github.com/pressly/goose/v3"
)

//go:embed migrations/*/*.sql
var migrations embed.FS

type dialect struct {
	goose string
	dir   string
}

var (
	dialectPostgres = dialect{goose: "postgres", dir: "migrations/postgres"}
	dialectSQLite   = dialect{goose: "sqlite3", dir: "migrations/sqlite"}
)

// goose keeps its base FS and dialect in package state
var migrateMu sync.Mutex

func migrate(ctx context.Context, conn *sql.DB, d dialect) error {
	migrateMu.Lock()
	defer migrateMu.Unlock()

	goose.SetBaseFS(migrations)
	defer goose.SetBaseFS(nil)

	if err := goose.SetDialect(d.goose); err != nil {
		return errors.Wrap(err, "set goose dialect")
	}
	if err := goose.UpContext(ctx, conn, d.dir); err != nil {
		return errors.Wrap(err, "apply migrations")
	}
	return nil
}
