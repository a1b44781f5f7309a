//-------------------------------------------------------------------------
//
// pgEdge Shop Insights
//
// Copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package store implements the analytical store: a relational database
// holding the five entity tables plus a metadata table. PostgreSQL is
// served through pgx; SQLite and MySQL through gorm.
package store

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/pgEdge/pgedge-shopinsights/internal/db"
	"github.com/pgEdge/pgedge-shopinsights/internal/errdefs"
	"github.com/pgEdge/pgedge-shopinsights/internal/model"
)

// Dialect identifies the SQL flavour of a store.
type Dialect int

const (
	DialectPostgres Dialect = iota
	DialectSQLite
	DialectMySQL
)

func (d Dialect) String() string {
	switch d {
	case DialectPostgres:
		return "postgres"
	case DialectSQLite:
		return "sqlite"
	case DialectMySQL:
		return "mysql"
	default:
		return fmt.Sprintf("Dialect(%d)", int(d))
	}
}

// MonthExpr returns an expression formatting a DATE column as YYYY-MM.
func (d Dialect) MonthExpr(column string) string {
	switch d {
	case DialectSQLite:
		return fmt.Sprintf("strftime('%%Y-%%m', %s)", column)
	case DialectMySQL:
		return fmt.Sprintf("DATE_FORMAT(%s, '%%Y-%%m')", column)
	default:
		return fmt.Sprintf("to_char(%s, 'YYYY-MM')", column)
	}
}

// Rows is a forward-only query result. pgx.Rows satisfies it directly;
// database/sql results are adapted.
type Rows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
	Close()
}

// Store is an open analytical store.
type Store interface {
	// Dialect reports the SQL flavour queries must be written in.
	Dialect() Dialect

	// Location is a loggable description of the store.
	Location() string

	// Replace drops and recreates the schema, then inserts ds and meta.
	// On PostgreSQL and SQLite everything is committed or nothing is: a
	// foreign key violation yields a ReferentialIntegrityError and the
	// previous contents stay in place. MySQL commits each DDL statement
	// implicitly, so a failure there after the drop leaves the store
	// empty or partially loaded; callers check the dataset before calling
	// Replace and a failed load must be rerun.
	Replace(ctx context.Context, ds *model.Dataset, meta map[string]string) error

	// Query runs a read-only statement.
	Query(ctx context.Context, sql string, args ...any) (Rows, error)

	// Metadata returns the load metadata. It fails if the store has
	// never been loaded.
	Metadata(ctx context.Context) (map[string]string, error)

	Close() error
}

// Options tune a store connection.
type Options struct {
	// BatchSize is the number of rows per INSERT for gorm backends.
	BatchSize int

	// ReadOnly is set by stages that only query. A SQLite file that does
	// not exist is then reported as unloaded instead of being created.
	ReadOnly bool
}

// DefaultOptions returns the default store options.
func DefaultOptions() Options {
	return Options{BatchSize: 500}
}

// Open connects to the store named by rawURL.
func Open(ctx context.Context, rawURL string, opts Options) (Store, error) {
	target, err := db.ParseTarget(rawURL)
	if err != nil {
		return nil, err
	}
	if opts.BatchSize <= 0 {
		opts.BatchSize = DefaultOptions().BatchSize
	}

	switch target.Driver {
	case db.DriverPostgres:
		pool, err := db.Connect(ctx, target)
		if err != nil {
			return nil, err
		}
		return &pgStore{pool: pool, location: target.Display}, nil

	case db.DriverSQLite, db.DriverMySQL:
		if opts.ReadOnly && target.Driver == db.DriverSQLite {
			if err := sqliteExists(target); err != nil {
				return nil, err
			}
		}
		gdb, err := db.OpenGorm(target)
		if err != nil {
			return nil, err
		}
		dialect := DialectSQLite
		if target.Driver == db.DriverMySQL {
			dialect = DialectMySQL
		}
		return &gormStore{db: gdb, dialect: dialect, batchSize: opts.BatchSize, location: target.Display}, nil
	}

	return nil, fmt.Errorf("unsupported driver %s", target.Driver)
}

// sqliteExists fails with a MissingInputError when the target's database
// file is absent. URI and in-memory targets are not checked.
func sqliteExists(t db.Target) error {
	if t.Path == "" || strings.HasPrefix(t.Path, "file:") || strings.HasPrefix(t.Path, ":memory:") {
		return nil
	}
	_, err := os.Stat(t.Path)
	if errors.Is(err, fs.ErrNotExist) {
		return &errdefs.MissingInputError{
			Path:   t.Display,
			Reason: "store has not been loaded; run the load stage first",
			Err:    err,
		}
	}
	if err != nil {
		return fmt.Errorf("failed to stat %s: %w", t.Display, err)
	}
	return nil
}

// Count returns the number of rows in table.
func Count(ctx context.Context, s Store, table string) (int64, error) {
	rows, err := s.Query(ctx, "SELECT COUNT(*) FROM "+table)
	if err != nil {
		return 0, fmt.Errorf("failed to count %s: %w", table, err)
	}
	defer rows.Close()

	var n int64
	if rows.Next() {
		if err := rows.Scan(&n); err != nil {
			return 0, fmt.Errorf("failed to count %s: %w", table, err)
		}
	}
	return n, rows.Err()
}
