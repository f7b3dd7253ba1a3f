package db

import (
	"context"
	"fmt"
)

// Backends accepted by Open.
const (
	DriverFile     = "file"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Options selects and configures a backend.
type Options struct {
	Driver      string
	DataDir     string
	DatabaseURL string
	SQLitePath  string
}

func Open(ctx context.Context, opts Options) (Store, error) {
	switch opts.Driver {
	case "", DriverFile:
		return NewFileStore(opts.DataDir)
	case DriverPostgres:
		if opts.DatabaseURL == "" {
			return nil, fmt.Errorf("postgres store needs a database url")
		}
		return NewPostgresStore(ctx, opts.DatabaseURL)
	case DriverSQLite:
		return NewSQLiteStore(ctx, opts.SQLitePath)
	default:
		return nil, fmt.Errorf("unknown store driver %q", opts.Driver)
	}
}
