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
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/pgEdge/pgedge-shopinsights/internal/errdefs"
	"github.com/pgEdge/pgedge-shopinsights/internal/logging"
	"github.com/pgEdge/pgedge-shopinsights/internal/model"
)

// gormStore serves SQLite and MySQL. MySQL commits DDL implicitly, so
// callers must have checked referential closure before Replace.
type gormStore struct {
	db        *gorm.DB
	dialect   Dialect
	batchSize int
	location  string
}

func (s *gormStore) Dialect() Dialect { return s.dialect }

func (s *gormStore) Location() string { return s.location }

func (s *gormStore) Replace(ctx context.Context, ds *model.Dataset, meta map[string]string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, stmt := range dropStatements {
			if err := tx.Exec(stmt).Error; err != nil {
				return fmt.Errorf("failed to drop schema: %w", err)
			}
		}
		for _, stmt := range createStatements {
			if err := tx.Exec(stmt).Error; err != nil {
				return fmt.Errorf("failed to create schema: %w", err)
			}
		}

		if err := s.insert(tx, model.TableCustomers, &ds.Customers, len(ds.Customers)); err != nil {
			return err
		}
		if err := s.insert(tx, model.TableProducts, &ds.Products, len(ds.Products)); err != nil {
			return err
		}
		if err := s.insert(tx, model.TableOrders, &ds.Orders, len(ds.Orders)); err != nil {
			return err
		}
		if err := s.insert(tx, model.TableOrderItems, &ds.OrderItems, len(ds.OrderItems)); err != nil {
			return err
		}
		if err := s.insert(tx, model.TableReviews, &ds.Reviews, len(ds.Reviews)); err != nil {
			return err
		}

		for _, key := range sortedKeys(meta) {
			err := tx.Exec(`INSERT INTO `+MetadataTable+` (meta_key, meta_value) VALUES (?, ?)`,
				key, meta[key]).Error
			if err != nil {
				return fmt.Errorf("failed to save metadata %s: %w", key, err)
			}
		}
		return nil
	})
}

// insert writes a slice of entities in batches. gorm rejects empty slices.
func (s *gormStore) insert(tx *gorm.DB, table string, rows any, n int) error {
	if n == 0 {
		return nil
	}
	if err := tx.CreateInBatches(rows, s.batchSize).Error; err != nil {
		return translateGormError(table, err)
	}
	logging.Debug().Str("table", table).Int("rows", n).Int("batch_size", s.batchSize).Msg("Inserted rows")
	return nil
}

func translateGormError(table string, err error) error {
	msg := strings.ToLower(err.Error())
	switch {
	case errors.Is(err, gorm.ErrForeignKeyViolated),
		strings.Contains(msg, "foreign key constraint"):
		return &errdefs.ReferentialIntegrityError{Table: table, Err: err}
	case errors.Is(err, gorm.ErrDuplicatedKey),
		errors.Is(err, gorm.ErrCheckConstraintViolated):
		return &errdefs.ConsistencyError{Table: table, Reason: err.Error()}
	}
	return fmt.Errorf("failed to load %s: %w", table, err)
}

func (s *gormStore) Query(ctx context.Context, query string, args ...any) (Rows, error) {
	rows, err := s.db.WithContext(ctx).Raw(query, args...).Rows()
	if err != nil {
		return nil, err
	}
	return sqlRows{rows}, nil
}

func (s *gormStore) Metadata(ctx context.Context) (map[string]string, error) {
	return readMetadata(ctx, s)
}

func (s *gormStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// sqlRows adapts *sql.Rows to Rows.
type sqlRows struct {
	*sql.Rows
}

func (r sqlRows) Close() { _ = r.Rows.Close() }
