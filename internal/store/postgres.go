//-------------------------------------------------------------------------
//
// pgEdge Shop Insights
//
// Copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/pgEdge/pgedge-shopinsights/internal/errdefs"
	"github.com/pgEdge/pgedge-shopinsights/internal/logging"
	"github.com/pgEdge/pgedge-shopinsights/internal/model"
)

// PostgreSQL SQLSTATE codes mapped to typed errors.
const (
	pgForeignKeyViolation = "23503"
	pgUniqueViolation     = "23505"
	pgCheckViolation      = "23514"
)

type pgStore struct {
	pool     *pgxpool.Pool
	location string
}

func (s *pgStore) Dialect() Dialect { return DialectPostgres }

func (s *pgStore) Location() string { return s.location }

func (s *pgStore) Replace(ctx context.Context, ds *model.Dataset, meta map[string]string) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	for _, stmt := range dropStatements {
		if _, err := tx.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("failed to drop schema: %w", err)
		}
	}
	for _, stmt := range createStatements {
		if _, err := tx.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("failed to create schema: %w", err)
		}
	}

	for _, t := range datasetRows(ds) {
		n, err := tx.CopyFrom(ctx, pgx.Identifier{t.name}, t.columns, pgx.CopyFromRows(pgValues(t.rows)))
		if err != nil {
			return translatePgError(t.name, err)
		}
		logging.Debug().Str("table", t.name).Int64("rows", n).Msg("Copied rows")
	}

	for _, key := range sortedKeys(meta) {
		_, err := tx.Exec(ctx,
			`INSERT INTO `+MetadataTable+` (meta_key, meta_value) VALUES ($1, $2)`,
			key, meta[key])
		if err != nil {
			return fmt.Errorf("failed to save metadata %s: %w", key, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return translatePgError("commit", err)
	}
	return nil
}

// pgValues converts decimals to pgtype.Numeric so CopyFrom can use the
// binary protocol without losing precision.
func pgValues(rows [][]any) [][]any {
	out := make([][]any, len(rows))
	for i, row := range rows {
		converted := make([]any, len(row))
		for j, v := range row {
			if d, ok := v.(decimal.Decimal); ok {
				converted[j] = pgtype.Numeric{Int: d.Coefficient(), Exp: d.Exponent(), Valid: true}
				continue
			}
			converted[j] = v
		}
		out[i] = converted
	}
	return out
}

func translatePgError(table string, err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return fmt.Errorf("failed to load %s: %w", table, err)
	}
	switch pgErr.Code {
	case pgForeignKeyViolation:
		return &errdefs.ReferentialIntegrityError{Table: table, Parent: pgErr.ConstraintName, Err: err}
	case pgUniqueViolation, pgCheckViolation:
		return &errdefs.ConsistencyError{Table: table, Reason: pgErr.Message + ": " + pgErr.Detail}
	}
	return fmt.Errorf("failed to load %s: %w", table, err)
}

func (s *pgStore) Query(ctx context.Context, sql string, args ...any) (Rows, error) {
	rows, err := s.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (s *pgStore) Metadata(ctx context.Context) (map[string]string, error) {
	return readMetadata(ctx, s)
}

func (s *pgStore) Close() error {
	s.pool.Close()
	return nil
}
