package loader

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pgEdge/pgedge-shopinsights/internal/errdefs"
	"github.com/pgEdge/pgedge-shopinsights/internal/model"
	"github.com/pgEdge/pgedge-shopinsights/internal/store"
	"github.com/pgEdge/pgedge-shopinsights/internal/tabular"
	"github.com/pgEdge/pgedge-shopinsights/internal/testutil"
)

func writeFixture(t *testing.T, ds *model.Dataset) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, tabular.WriteDataset(dir, ds))
	return dir
}

func openStore(t *testing.T) store.Store {
	t.Helper()
	st, err := store.Open(context.Background(), testutil.SQLiteURL(t), store.DefaultOptions())
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	return st
}

func TestLoadFixture(t *testing.T) {
	ctx := context.Background()
	st := openStore(t)
	dir := writeFixture(t, testutil.ShopFixture())

	res, err := Load(ctx, st, Config{DataDir: dir, VerifyTotals: true, RunID: "run-1"}, zerolog.Nop())
	require.NoError(t, err)
	assert.Equal(t, 6, res.Counts[model.TableOrderItems])

	meta, err := st.Metadata(ctx)
	require.NoError(t, err)
	assert.Equal(t, "run-1", meta[store.MetaRunID])
	assert.Equal(t, tabular.ContractVersion, meta[store.MetaContractVersion])
	assert.Equal(t, "5", meta[store.RowsKey(model.TableReviews)])

	// Every child row resolves to a parent
	for _, q := range []string{
		`SELECT COUNT(*) FROM orders o LEFT JOIN customers c ON c.customer_id = o.customer_id WHERE c.customer_id IS NULL`,
		`SELECT COUNT(*) FROM order_items oi LEFT JOIN products p ON p.product_id = oi.product_id WHERE p.product_id IS NULL`,
		`SELECT COUNT(*) FROM reviews r LEFT JOIN customers c ON c.customer_id = r.customer_id WHERE c.customer_id IS NULL`,
	} {
		rows, err := st.Query(ctx, q)
		require.NoError(t, err)
		require.True(t, rows.Next())
		var n int64
		require.NoError(t, rows.Scan(&n))
		rows.Close()
		assert.Zero(t, n, q)
	}
}

func TestLoadTwiceIsIdempotent(t *testing.T) {
	ctx := context.Background()
	st := openStore(t)
	dir := writeFixture(t, testutil.ShopFixture())
	cfg := Config{DataDir: dir, VerifyTotals: true, RunID: "run"}

	_, err := Load(ctx, st, cfg, zerolog.Nop())
	require.NoError(t, err)
	_, err = Load(ctx, st, cfg, zerolog.Nop())
	require.NoError(t, err)

	for table, want := range testutil.ShopFixture().Counts() {
		n, err := store.Count(ctx, st, table)
		require.NoError(t, err)
		assert.EqualValues(t, want, n, "rows in %s", table)
	}
}

func TestLoadOrphanLeavesStoreUntouched(t *testing.T) {
	ctx := context.Background()
	st := openStore(t)

	good := writeFixture(t, testutil.ShopFixture())
	_, err := Load(ctx, st, Config{DataDir: good, RunID: "good"}, zerolog.Nop())
	require.NoError(t, err)

	bad := testutil.ShopFixture()
	bad.OrderItems[0].ProductID = 99
	badDir := writeFixture(t, bad)

	_, err = Load(ctx, st, Config{DataDir: badDir, RunID: "bad"}, zerolog.Nop())
	var riErr *errdefs.ReferentialIntegrityError
	require.True(t, errors.As(err, &riErr), "expected ReferentialIntegrityError, got %v", err)
	assert.Equal(t, model.TableOrderItems, riErr.Table)
	assert.Equal(t, "product_id", riErr.Column)
	assert.EqualValues(t, 99, riErr.Key)

	meta, err := st.Metadata(ctx)
	require.NoError(t, err)
	assert.Equal(t, "good", meta[store.MetaRunID])
}

func TestLoadTotalMismatch(t *testing.T) {
	ctx := context.Background()
	ds := testutil.ShopFixture()
	ds.Orders[2].TotalAmount = decimal.RequireFromString("99.99")
	dir := writeFixture(t, ds)

	_, err := Load(ctx, openStore(t), Config{DataDir: dir, VerifyTotals: true}, zerolog.Nop())
	var cErr *errdefs.ConsistencyError
	require.True(t, errors.As(err, &cErr), "expected ConsistencyError, got %v", err)
	assert.Equal(t, model.TableOrders, cErr.Table)
	assert.EqualValues(t, 3, cErr.Key)

	// Loading without verification accepts the same files
	_, err = Load(ctx, openStore(t), Config{DataDir: dir, VerifyTotals: false}, zerolog.Nop())
	assert.NoError(t, err)
}

func TestLoadMissingFile(t *testing.T) {
	dir := writeFixture(t, testutil.ShopFixture())
	require.NoError(t, os.Remove(filepath.Join(dir, "reviews.csv")))

	_, err := Load(context.Background(), openStore(t), Config{DataDir: dir}, zerolog.Nop())
	var missing *errdefs.MissingInputError
	require.True(t, errors.As(err, &missing), "expected MissingInputError, got %v", err)
	assert.Equal(t, "reviews.csv", filepath.Base(missing.Path))
}

func TestRunOpensAndClosesStore(t *testing.T) {
	dir := writeFixture(t, testutil.ShopFixture())
	url := testutil.SQLiteURL(t)

	res, err := Run(context.Background(), url, store.DefaultOptions(), Config{DataDir: dir, VerifyTotals: true}, zerolog.Nop())
	require.NoError(t, err)
	assert.Equal(t, 4, res.Counts[model.TableOrders])

	_, err = Run(context.Background(), "ftp://nowhere", store.DefaultOptions(), Config{DataDir: dir}, zerolog.Nop())
	var cfgErr *errdefs.ConfigurationError
	assert.True(t, errors.As(err, &cfgErr), "expected ConfigurationError, got %v", err)
}
