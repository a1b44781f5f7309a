//-------------------------------------------------------------------------
//
// pgEdge Shop Insights
//
// Copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

//go:build integration
// +build integration

// PostgreSQL store tests.
// Run with: go test -tags=integration ./internal/store/...
// Set PGEDGE_TEST_CONN environment variable to override connection string.

package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/pgEdge/pgedge-shopinsights/internal/errdefs"
	"github.com/pgEdge/pgedge-shopinsights/internal/model"
	"github.com/pgEdge/pgedge-shopinsights/internal/testutil"
)

func openPostgres(t *testing.T) Store {
	t.Helper()
	baseConnStr := testutil.SkipIfNoPostgres(t)
	connStr := testutil.CreateTestDB(t, baseConnStr)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	st, err := Open(ctx, connStr, DefaultOptions())
	if err != nil {
		t.Fatalf("Failed to open store: %v", err)
	}
	t.Cleanup(func() { _ = st.Close() })
	return st
}

func TestPostgresReplace(t *testing.T) {
	ctx := context.Background()
	st := openPostgres(t)
	ds := testutil.ShopFixture()

	for i := 0; i < 2; i++ {
		if err := st.Replace(ctx, ds, map[string]string{MetaRunID: "pg-run"}); err != nil {
			t.Fatalf("Replace #%d failed: %v", i+1, err)
		}
	}

	for table, want := range ds.Counts() {
		n, err := Count(ctx, st, table)
		if err != nil {
			t.Fatalf("Count(%s) failed: %v", table, err)
		}
		if n != int64(want) {
			t.Errorf("Expected %d rows in %s, got %d", want, table, n)
		}
	}

	rows, err := st.Query(ctx, "SELECT total_amount FROM orders WHERE order_id = $1", 1)
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	defer rows.Close()
	if !rows.Next() {
		t.Fatal("Expected one row")
	}
	var total decimal.Decimal
	if err := rows.Scan(&total); err != nil {
		t.Fatalf("Scan failed: %v", err)
	}
	if !total.Equal(decimal.RequireFromString("45.50")) {
		t.Errorf("Expected total 45.50, got %s", total)
	}
}

func TestPostgresForeignKeyViolation(t *testing.T) {
	ctx := context.Background()
	st := openPostgres(t)

	bad := testutil.ShopFixture()
	bad.Reviews[0].ProductID = 99
	err := st.Replace(ctx, bad, map[string]string{MetaRunID: "bad"})

	var riErr *errdefs.ReferentialIntegrityError
	if !errors.As(err, &riErr) {
		t.Fatalf("Expected ReferentialIntegrityError, got %v", err)
	}
	if riErr.Table != model.TableReviews {
		t.Errorf("Expected table %s, got %s", model.TableReviews, riErr.Table)
	}
	if _, err := st.Metadata(ctx); err == nil {
		t.Error("Expected no metadata after a failed first load")
	}
}
