package model_test

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/pgEdge/pgedge-shopinsights/internal/errdefs"
	"github.com/pgEdge/pgedge-shopinsights/internal/model"
	"github.com/pgEdge/pgedge-shopinsights/internal/testutil"
)

func TestCategoryLabels(t *testing.T) {
	cats := model.Categories()
	if len(cats) != 10 {
		t.Fatalf("Expected 10 categories, got %d", len(cats))
	}
	for _, c := range cats {
		parsed, err := model.ParseCategory(c.String())
		if err != nil {
			t.Errorf("ParseCategory(%q) failed: %v", c.String(), err)
		}
		if parsed != c {
			t.Errorf("ParseCategory(%q) = %v, want %v", c.String(), parsed, c)
		}
	}

	if _, err := model.ParseCategory("Jewelry"); err == nil {
		t.Error("Expected error for unknown category")
	}
	if _, err := model.Category(0).Value(); err == nil {
		t.Error("Expected error storing the zero category")
	}
}

func TestOrderStatusLabels(t *testing.T) {
	tests := []struct {
		label   string
		want    model.OrderStatus
		wantErr bool
	}{
		{"pending", model.StatusPending, false},
		{"processing", model.StatusProcessing, false},
		{"shipped", model.StatusShipped, false},
		{"delivered", model.StatusDelivered, false},
		{"cancelled", model.StatusCancelled, false},
		{"Shipped", 0, true},
		{"", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			got, err := model.ParseOrderStatus(tt.label)
			if tt.wantErr {
				if err == nil {
					t.Errorf("Expected error for %q", tt.label)
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("Expected %v, got %v", tt.want, got)
			}
			v, err := got.Value()
			if err != nil || v != tt.label {
				t.Errorf("Value() = %v, %v; want %q", v, err, tt.label)
			}
		})
	}
}

func TestDatasetValidateFixture(t *testing.T) {
	if err := testutil.ShopFixture().Validate(); err != nil {
		t.Fatalf("Fixture failed validation: %v", err)
	}
	if err := testutil.MonthlyFixture(14).Validate(); err != nil {
		t.Fatalf("Monthly fixture failed validation: %v", err)
	}
}

func TestDatasetValidateFailures(t *testing.T) {
	tests := []struct {
		name      string
		modify    func(*model.Dataset)
		wantRI    bool
		wantTable string
	}{
		{
			name:      "orphan order item",
			modify:    func(ds *model.Dataset) { ds.OrderItems[0].ProductID = 99 },
			wantRI:    true,
			wantTable: model.TableOrderItems,
		},
		{
			name:      "orphan order",
			modify:    func(ds *model.Dataset) { ds.Orders[1].CustomerID = 42 },
			wantRI:    true,
			wantTable: model.TableOrders,
		},
		{
			name:      "orphan review",
			modify:    func(ds *model.Dataset) { ds.Reviews[0].CustomerID = 42 },
			wantRI:    true,
			wantTable: model.TableReviews,
		},
		{
			name:      "total mismatch",
			modify:    func(ds *model.Dataset) { ds.Orders[0].TotalAmount = decimal.RequireFromString("45.51") },
			wantTable: model.TableOrders,
		},
		{
			name:      "subtotal mismatch",
			modify:    func(ds *model.Dataset) { ds.OrderItems[2].Subtotal = decimal.RequireFromString("29.99") },
			wantTable: model.TableOrderItems,
		},
		{
			name:      "rating out of range",
			modify:    func(ds *model.Dataset) { ds.Reviews[2].Rating = 6 },
			wantTable: model.TableReviews,
		},
		{
			name:      "duplicate customer",
			modify:    func(ds *model.Dataset) { ds.Customers[1].CustomerID = 1 },
			wantTable: model.TableCustomers,
		},
		{
			name:      "duplicate email",
			modify:    func(ds *model.Dataset) { ds.Customers[1].Email = ds.Customers[0].Email },
			wantTable: model.TableCustomers,
		},
		{
			name:      "zero quantity",
			modify:    func(ds *model.Dataset) { ds.OrderItems[0].Quantity = 0 },
			wantTable: model.TableOrderItems,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ds := testutil.ShopFixture()
			tt.modify(ds)
			err := ds.Validate()
			if err == nil {
				t.Fatal("Expected validation error")
			}

			if tt.wantRI {
				var riErr *errdefs.ReferentialIntegrityError
				if !errors.As(err, &riErr) {
					t.Fatalf("Expected ReferentialIntegrityError, got %v", err)
				}
				if riErr.Table != tt.wantTable {
					t.Errorf("Expected table %s, got %s", tt.wantTable, riErr.Table)
				}
				return
			}

			var cErr *errdefs.ConsistencyError
			if !errors.As(err, &cErr) {
				t.Fatalf("Expected ConsistencyError, got %v", err)
			}
			if cErr.Table != tt.wantTable {
				t.Errorf("Expected table %s, got %s", tt.wantTable, cErr.Table)
			}
		})
	}
}

func TestCounts(t *testing.T) {
	counts := testutil.ShopFixture().Counts()
	want := map[string]int{
		model.TableCustomers:  5,
		model.TableProducts:   3,
		model.TableOrders:     4,
		model.TableOrderItems: 6,
		model.TableReviews:    5,
	}
	for table, n := range want {
		if counts[table] != n {
			t.Errorf("Expected %d %s, got %d", n, table, counts[table])
		}
	}
}
