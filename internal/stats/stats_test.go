package stats

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockRepo(t *testing.T) (Repository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewRepository(db), mock
}

func day(s string) time.Time {
	d, _ := time.Parse("2006-01-02", s)
	return d
}

func TestTotalSales(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		repo, mock := newMockRepo(t)
		mock.ExpectQuery("SELECT COALESCE\\(SUM\\(total\\),0\\) FROM orders WHERE payment_status='Paid'").
			WillReturnRows(sqlmock.NewRows([]string{"coalesce"}).AddRow(1520.0))

		total, err := repo.TotalSales(ctx)

		require.NoError(t, err)
		assert.Equal(t, 1520.0, total)
	})

	t.Run("Error", func(t *testing.T) {
		repo, mock := newMockRepo(t)
		mock.ExpectQuery("SELECT COALESCE").WillReturnError(errors.New("query failed"))

		_, err := repo.TotalSales(ctx)

		assert.EqualError(t, err, "query failed")
	})
}

func TestTotalProfit(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectQuery("selling_price - p.cost_price").
		WillReturnRows(sqlmock.NewRows([]string{"coalesce"}).AddRow(430.0))

	profit, err := repo.TotalProfit(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 430.0, profit)
}

func TestBestSeller(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		repo, mock := newMockRepo(t)
		mock.ExpectQuery("ORDER BY total_sold DESC").
			WillReturnRows(sqlmock.NewRows([]string{"name", "total_sold"}).
				AddRow("Bhajani Chakali", int64(42)))

		best, err := repo.BestSeller(ctx)

		require.NoError(t, err)
		require.NotNil(t, best)
		assert.Equal(t, "Bhajani Chakali", best.Name)
		assert.Equal(t, int64(42), best.TotalSold)
	})

	t.Run("NoOrdersYet", func(t *testing.T) {
		repo, mock := newMockRepo(t)
		mock.ExpectQuery("ORDER BY total_sold DESC").
			WillReturnRows(sqlmock.NewRows([]string{"name", "total_sold"}))

		best, err := repo.BestSeller(ctx)

		require.NoError(t, err)
		assert.Nil(t, best)
	})
}

func TestStatusCounts(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectQuery("COUNT\\(\\*\\) FILTER").
		WillReturnRows(sqlmock.NewRows([]string{
			"total_orders", "pending_orders", "current_orders", "completed_orders",
		}).AddRow(10, 4, 2, 4))

	counts, err := repo.StatusCounts(context.Background())

	require.NoError(t, err)
	assert.Equal(t, StatusCounts{Total: 10, Pending: 4, Current: 2, Completed: 4}, counts)
}

func TestDailySeries(t *testing.T) {
	ctx := context.Background()

	t.Run("MergesSalesAndProfit", func(t *testing.T) {
		repo, mock := newMockRepo(t)
		mock.ExpectQuery("SELECT DATE\\(created_at\\) AS day, COALESCE\\(SUM\\(total\\),0\\) AS sales").
			WillReturnRows(sqlmock.NewRows([]string{"day", "sales"}).
				AddRow(day("2026-08-27"), 364.0).
				AddRow(day("2026-08-28"), 95.0))
		mock.ExpectQuery("AS profit").
			WillReturnRows(sqlmock.NewRows([]string{"day", "profit"}).
				AddRow(day("2026-08-28"), 30.0).
				AddRow(day("2026-08-29"), 12.0))

		series, err := repo.DailySeries(ctx)

		require.NoError(t, err)
		assert.Equal(t, []DailyPoint{
			{Day: "2026-08-27", Sales: 364, Profit: 0},
			{Day: "2026-08-28", Sales: 95, Profit: 30},
			{Day: "2026-08-29", Sales: 0, Profit: 12},
		}, series)
	})

	t.Run("SalesQueryError", func(t *testing.T) {
		repo, mock := newMockRepo(t)
		mock.ExpectQuery("AS sales").WillReturnError(errors.New("query failed"))

		series, err := repo.DailySeries(ctx)

		assert.Nil(t, series)
		assert.EqualError(t, err, "query failed")
	})
}

type stubRepo struct {
	Repository
	salesErr error
}

func (s *stubRepo) TotalSales(ctx context.Context) (float64, error) {
	return 0, s.salesErr
}

func TestSummary(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		repo, mock := newMockRepo(t)
		mock.ExpectQuery("payment_status='Paid'").
			WillReturnRows(sqlmock.NewRows([]string{"c"}).AddRow(1520.0))
		mock.ExpectQuery("selling_price - p.cost_price").
			WillReturnRows(sqlmock.NewRows([]string{"c"}).AddRow(430.0))
		mock.ExpectQuery("ORDER BY total_sold DESC").
			WillReturnRows(sqlmock.NewRows([]string{"name", "total_sold"}).AddRow("Bhajani Chakali", 42))
		mock.ExpectQuery("COUNT\\(\\*\\) FILTER").
			WillReturnRows(sqlmock.NewRows([]string{"t", "p", "cu", "co"}).AddRow(10, 4, 2, 4))
		mock.ExpectQuery("AS sales").
			WillReturnRows(sqlmock.NewRows([]string{"day", "sales"}).AddRow(day("2026-08-29"), 364.0))
		mock.ExpectQuery("AS profit").
			WillReturnRows(sqlmock.NewRows([]string{"day", "profit"}).AddRow(day("2026-08-29"), 30.0))

		summary, err := NewService(repo).Summary(ctx)

		require.NoError(t, err)
		assert.Equal(t, 1520.0, summary.TotalSales)
		assert.Equal(t, int64(10), summary.TotalOrders)
		assert.Equal(t, 430.0, summary.TotalProfit)
		require.NotNil(t, summary.BestSeller)
		assert.Equal(t, int64(4), summary.StatusCounts.Pending)
		require.Len(t, summary.DailySeries, 1)
	})

	t.Run("Error", func(t *testing.T) {
		svc := NewService(&stubRepo{salesErr: errors.New("db down")})

		summary, err := svc.Summary(ctx)

		assert.Nil(t, summary)
		assert.EqualError(t, err, "db down")
	})
}
