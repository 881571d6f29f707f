package runsource

import (
	"context"
	"fmt"
)

// Source kinds reported by Handle.Name.
const (
	KindPostgres = "postgres"
	KindSQLite   = "sqlite"
	KindFile     = "file"
)

// OpenConfig selects a source. The first non-empty field wins, in the order
// DatabaseURL, SQLitePath, File.
type OpenConfig struct {
	DatabaseURL string
	SQLitePath  string
	File        string
}

// Handle is an opened source. A zero Handle has a nil Source.
type Handle struct {
	Source Source
	Name   string
	close  func() error
}

// Close releases the underlying connection, if any.
func (h Handle) Close() error {
	if h.close == nil {
		return nil
	}
	return h.close()
}

// Open opens the source selected by c. With nothing configured it returns a
// zero Handle and no error.
func Open(ctx context.Context, c OpenConfig) (Handle, error) {
	switch {
	case c.DatabaseURL != "":
		pg, err := OpenPostgres(ctx, c.DatabaseURL)
		if err != nil {
			return Handle{}, fmt.Errorf("runsource: open: %w", err)
		}
		return Handle{Source: pg, Name: KindPostgres, close: pg.Close}, nil
	case c.SQLitePath != "":
		lite, err := OpenSQLite(ctx, c.SQLitePath)
		if err != nil {
			return Handle{}, fmt.Errorf("runsource: open: %w", err)
		}
		return Handle{Source: lite, Name: KindSQLite, close: lite.Close}, nil
	case c.File != "":
		return Handle{Source: NewFileSource(c.File), Name: KindFile}, nil
	}
	return Handle{}, nil
}
