package tabular

import (
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/pgEdge/pgedge-shopinsights/internal/model"
)

// Row decodes the fields of one record. The first failure is kept so a
// caller can read every column and check once; later failures are
// ignored.
type Row struct {
	contract Contract
	dir      string
	line     int
	fields   []string
	err      error
}

// Err returns the first decoding failure as a MissingInputError.
func (r *Row) Err() error { return r.err }

func (r *Row) fail(col int, err error) {
	if r.err == nil {
		r.err = r.contract.Malformed(r.dir, r.line, r.contract.Columns[col], err)
	}
}

// Str returns the raw field.
func (r *Row) Str(col int) string {
	return r.fields[col]
}

func (r *Row) Int(col int) int64 {
	v, err := strconv.ParseInt(r.fields[col], 10, 64)
	if err != nil {
		r.fail(col, err)
	}
	return v
}

func (r *Row) Money(col int) decimal.Decimal {
	v, err := decimal.NewFromString(r.fields[col])
	if err != nil {
		r.fail(col, err)
	}
	return v
}

// NullDecimal treats an empty field as null.
func (r *Row) NullDecimal(col int) decimal.NullDecimal {
	if r.fields[col] == "" {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(r.Money(col))
}

func (r *Row) Date(col int) time.Time {
	v, err := model.ParseDate(r.fields[col])
	if err != nil {
		r.fail(col, err)
	}
	return v
}

func (r *Row) Category(col int) model.Category {
	v, err := model.ParseCategory(r.fields[col])
	if err != nil {
		r.fail(col, err)
	}
	return v
}

func (r *Row) Status(col int) model.OrderStatus {
	v, err := model.ParseOrderStatus(r.fields[col])
	if err != nil {
		r.fail(col, err)
	}
	return v
}

// ParseRows reads the contract's file from dir and calls fn for every
// record, stopping at the first record that fails to decode.
func ParseRows(dir string, c Contract, fn func(r *Row)) error {
	rows, err := c.Read(dir)
	if err != nil {
		return err
	}
	for i, fields := range rows {
		r := &Row{contract: c, dir: dir, line: i + 2, fields: fields}
		fn(r)
		if r.err != nil {
			return r.err
		}
	}
	return nil
}
