package order

import (
	"context"
	"errors"
	"regexp"
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

func orderRows(id int64, status string) *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "customer_name", "phone", "address", "total", "payment_status",
		"order_status", "payment_method", "order_source", "live_location_url",
		"live_latitude", "live_longitude", "order_pdf_url", "created_at",
	}).AddRow(id, "Sanika", "919529111760", "MG Road, Pune", 364.0, "COD Pending",
		status, "cod", "website", nil, nil, nil, nil, time.Now())
}

func TestInsertOrder(t *testing.T) {
	ctx := context.Background()
	o := &Order{
		CustomerName:  "Sanika",
		Phone:         "919529111760",
		Address:       "MG Road, Pune",
		Total:         364,
		PaymentStatus: PaymentCODPending,
		OrderStatus:   StatusReceived,
		PaymentMethod: "cod",
		OrderSource:   "website",
	}

	t.Run("Success", func(t *testing.T) {
		repo, mock := newMockRepo(t)
		mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO orders")).
			WithArgs(o.CustomerName, o.Phone, o.Address, o.Total, o.PaymentStatus,
				o.OrderStatus, o.PaymentMethod, o.OrderSource, nil, nil, nil).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(7))

		id, err := repo.InsertOrder(ctx, o)

		require.NoError(t, err)
		assert.Equal(t, int64(7), id)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Error", func(t *testing.T) {
		repo, mock := newMockRepo(t)
		mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO orders")).
			WillReturnError(errors.New("insert failed"))

		id, err := repo.InsertOrder(ctx, o)

		assert.Zero(t, id)
		assert.EqualError(t, err, "insert failed")
	})
}

func TestSetPDFURL(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectExec(regexp.QuoteMeta("UPDATE orders SET order_pdf_url=$1 WHERE id=$2")).
		WithArgs("http://localhost:3000/order-pdfs/order-7.pdf", int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.SetPDFURL(context.Background(), 7, "http://localhost:3000/order-pdfs/order-7.pdf")

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInsertItem(t *testing.T) {
	repo, mock := newMockRepo(t)
	productID := int64(3)
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO order_items")).
		WithArgs(int64(7), int64(3), 2, 162.0, "500g").
		WillReturnResult(sqlmock.NewResult(1, 1))

	err := repo.InsertItem(context.Background(), &Item{
		OrderID: 7, ProductID: &productID, Quantity: 2, UnitPrice: 162, WeightOption: "500g",
	})

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDecrementStock(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectExec(regexp.QuoteMeta("UPDATE products SET stock = stock - $1 WHERE id=$2")).
		WithArgs(2, int64(3)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.DecrementStock(context.Background(), 3, 2)

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetByID(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		repo, mock := newMockRepo(t)
		mock.ExpectQuery("SELECT (.+) FROM orders WHERE id=").
			WithArgs(int64(7)).
			WillReturnRows(orderRows(7, "Packed"))

		o, err := repo.GetByID(ctx, 7)

		require.NoError(t, err)
		assert.Equal(t, int64(7), o.ID)
		assert.Equal(t, "Packed", o.OrderStatus)
	})

	t.Run("LegacyStatusNormalized", func(t *testing.T) {
		repo, mock := newMockRepo(t)
		mock.ExpectQuery("SELECT (.+) FROM orders WHERE id=").
			WithArgs(int64(7)).
			WillReturnRows(orderRows(7, "Pending Confirmation"))

		o, err := repo.GetByID(ctx, 7)

		require.NoError(t, err)
		assert.Equal(t, StatusReceived, o.OrderStatus)
	})

	t.Run("NotFound", func(t *testing.T) {
		repo, mock := newMockRepo(t)
		mock.ExpectQuery("SELECT (.+) FROM orders WHERE id=").
			WithArgs(int64(99)).
			WillReturnRows(sqlmock.NewRows([]string{"id"}))

		o, err := repo.GetByID(ctx, 99)

		assert.Nil(t, o)
		assert.ErrorIs(t, err, ErrOrderNotFound)
	})
}

func TestItemsByOrder(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		repo, mock := newMockRepo(t)
		rows := sqlmock.NewRows([]string{
			"quantity", "weight_option", "product_name", "product_image", "effective_unit_price",
		}).
			AddRow(2, "500g", "Bhajani Chakali", "/img/bhajani.jpg", 162.0).
			AddRow(1, "250g", "Deleted Product", nil, 95.5)
		mock.ExpectQuery("SELECT(.+)FROM order_items oi").
			WithArgs(int64(7)).
			WillReturnRows(rows)

		items, err := repo.ItemsByOrder(ctx, 7)

		require.NoError(t, err)
		require.Len(t, items, 2)
		assert.Equal(t, "Bhajani Chakali", items[0].ProductName)
		assert.Equal(t, 324.0, items[0].LineTotal)
		assert.Equal(t, "Deleted Product", items[1].ProductName)
		assert.Nil(t, items[1].ProductImage)
		// 95.5 * 1 rounds half away from zero
		assert.Equal(t, 96.0, items[1].LineTotal)
	})

	t.Run("Error", func(t *testing.T) {
		repo, mock := newMockRepo(t)
		mock.ExpectQuery("SELECT(.+)FROM order_items oi").
			WillReturnError(errors.New("query failed"))

		items, err := repo.ItemsByOrder(ctx, 7)

		assert.Nil(t, items)
		assert.EqualError(t, err, "query failed")
	})
}

func TestUpdateStatus(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectExec(regexp.QuoteMeta("UPDATE orders SET order_status=$1 WHERE id=$2")).
		WithArgs("Shipped", int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.UpdateStatus(context.Background(), 7, "Shipped")

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecentAndToday(t *testing.T) {
	ctx := context.Background()

	t.Run("Recent", func(t *testing.T) {
		repo, mock := newMockRepo(t)
		mock.ExpectQuery("SELECT (.+) FROM orders ORDER BY id DESC LIMIT").
			WithArgs(30).
			WillReturnRows(orderRows(9, "Order Received"))

		orders, err := repo.Recent(ctx, 30)

		require.NoError(t, err)
		require.Len(t, orders, 1)
		assert.Equal(t, int64(9), orders[0].ID)
	})

	t.Run("Today", func(t *testing.T) {
		repo, mock := newMockRepo(t)
		mock.ExpectQuery(regexp.QuoteMeta("WHERE DATE(created_at)=CURRENT_DATE")).
			WithArgs(30).
			WillReturnRows(orderRows(9, "Order Received"))

		orders, err := repo.Today(ctx, 30)

		require.NoError(t, err)
		require.Len(t, orders, 1)
	})
}
