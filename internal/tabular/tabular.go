//-------------------------------------------------------------------------
//
// pgEdge Shop Insights
//
// Copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package tabular implements the CSV file contracts exchanged between
// stages. Each file has a header row whose column names and order are
// fixed by its Contract.
package tabular

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/pgEdge/pgedge-shopinsights/internal/errdefs"
)

// ContractVersion identifies the current set of file contracts. It is
// recorded in the store metadata at load time.
const ContractVersion = "1"

// Contract describes one CSV file.
type Contract struct {
	Name    string
	File    string
	Columns []string
}

// Path returns the contract's file path inside dir.
func (c Contract) Path(dir string) string {
	return filepath.Join(dir, c.File)
}

// Entity file contracts, in load order.
var (
	Customers = Contract{
		Name: "customers",
		File: "customers.csv",
		Columns: []string{"customer_id", "first_name", "last_name", "email", "phone",
			"address", "city", "state", "zip_code", "registration_date"},
	}
	Products = Contract{
		Name: "products",
		File: "products.csv",
		Columns: []string{"product_id", "product_name", "category", "price",
			"stock_quantity", "supplier", "description"},
	}
	Orders = Contract{
		Name: "orders",
		File: "orders.csv",
		Columns: []string{"order_id", "customer_id", "order_date", "total_amount",
			"status", "shipping_address"},
	}
	OrderItems = Contract{
		Name: "order_items",
		File: "order_items.csv",
		Columns: []string{"order_item_id", "order_id", "product_id", "quantity",
			"unit_price", "subtotal"},
	}
	Reviews = Contract{
		Name: "reviews",
		File: "reviews.csv",
		Columns: []string{"review_id", "product_id", "customer_id", "rating",
			"review_text", "review_date"},
	}
)

// EntityContracts returns the five entity contracts in load order.
func EntityContracts() []Contract {
	return []Contract{Customers, Products, Orders, OrderItems, Reviews}
}

// WriteFile writes a header row followed by rows to path, replacing any
// existing file.
func WriteFile(path string, columns []string, rows [][]string) error {
	return WriteAtomic(path, func(out io.Writer) error {
		w := csv.NewWriter(out)
		if err := w.Write(columns); err != nil {
			return fmt.Errorf("failed to write header: %w", err)
		}
		if err := w.WriteAll(rows); err != nil {
			return fmt.Errorf("failed to write rows: %w", err)
		}
		return nil
	})
}

// WriteAtomic creates path's directory and writes the file through a
// temporary name in the same directory, renaming it into place only when
// write succeeds. A failed write leaves any previous file untouched.
func WriteAtomic(path string, write func(w io.Writer) error) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", path, err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer os.Remove(tmp.Name())

	if err := write(tmp); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := tmp.Chmod(0o644); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to set mode on %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", path, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to replace %s: %w", path, err)
	}
	return nil
}

// Write writes rows under the contract's header into dir.
func (c Contract) Write(dir string, rows [][]string) error {
	return WriteFile(c.Path(dir), c.Columns, rows)
}

// Read loads the contract's file from dir. An absent file, a header that
// differs from the contract or a row with the wrong number of fields
// yields a MissingInputError naming the file.
func (c Contract) Read(dir string) ([][]string, error) {
	path := c.Path(dir)
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &errdefs.MissingInputError{Path: path, Reason: "file does not exist", Err: err}
		}
		return nil, &errdefs.MissingInputError{Path: path, Reason: "cannot open file", Err: err}
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = len(c.Columns)

	header, err := r.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, &errdefs.MissingInputError{Path: path, Reason: "file is empty"}
		}
		return nil, &errdefs.MissingInputError{Path: path, Reason: "unreadable header", Err: err}
	}
	if !slices.Equal(header, c.Columns) {
		return nil, &errdefs.MissingInputError{
			Path: path,
			Reason: fmt.Sprintf("unexpected header %q, want %q",
				strings.Join(header, ","), strings.Join(c.Columns, ",")),
		}
	}

	rows, err := r.ReadAll()
	if err != nil {
		return nil, &errdefs.MissingInputError{Path: path, Reason: "malformed row", Err: err}
	}
	return rows, nil
}

// Malformed builds the error for a row that has the right shape but an
// unparseable value. line counts the header as line 1.
func (c Contract) Malformed(dir string, line int, column string, err error) error {
	return &errdefs.MissingInputError{
		Path:   c.Path(dir),
		Reason: fmt.Sprintf("line %d: invalid %s", line, column),
		Err:    err,
	}
}
