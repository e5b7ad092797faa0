package order

import (
	"context"
	"database/sql"

	"github.com/sanikapatil01/chakali-store/internal/pricing"
)

type Repository interface {
	InsertOrder(ctx context.Context, o *Order) (int64, error)
	SetPDFURL(ctx context.Context, orderID int64, url string) error
	InsertItem(ctx context.Context, item *Item) error
	DecrementStock(ctx context.Context, productID int64, quantity int) error
	GetByID(ctx context.Context, id int64) (*Order, error)
	ItemsByOrder(ctx context.Context, orderID int64) ([]TrackedItem, error)
	UpdateStatus(ctx context.Context, orderID int64, status string) error
	Recent(ctx context.Context, limit int) ([]Order, error)
	Today(ctx context.Context, limit int) ([]Order, error)
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

const orderColumns = `id, customer_name, phone, address, total, payment_status, order_status,
		payment_method, order_source, live_location_url, live_latitude, live_longitude,
		order_pdf_url, created_at`

func scanOrder(row interface{ Scan(dest ...any) error }) (*Order, error) {
	var o Order
	err := row.Scan(
		&o.ID, &o.CustomerName, &o.Phone, &o.Address, &o.Total,
		&o.PaymentStatus, &o.OrderStatus, &o.PaymentMethod, &o.OrderSource,
		&o.LiveLocationURL, &o.LiveLatitude, &o.LiveLongitude,
		&o.OrderPDFURL, &o.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	o.OrderStatus = NormalizeStatus(o.OrderStatus)
	return &o, nil
}

func (r *repository) InsertOrder(ctx context.Context, o *Order) (int64, error) {
	query := `INSERT INTO orders (customer_name, phone, address, total, payment_status,
		order_status, payment_method, order_source, live_location_url, live_latitude, live_longitude)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11) RETURNING id`

	var id int64
	err := r.db.QueryRowContext(ctx, query,
		o.CustomerName, o.Phone, o.Address, o.Total, o.PaymentStatus,
		o.OrderStatus, o.PaymentMethod, o.OrderSource,
		o.LiveLocationURL, o.LiveLatitude, o.LiveLongitude,
	).Scan(&id)
	if err != nil {
		return 0, err
	}
	return id, nil
}

func (r *repository) SetPDFURL(ctx context.Context, orderID int64, url string) error {
	_, err := r.db.ExecContext(ctx, "UPDATE orders SET order_pdf_url=$1 WHERE id=$2", url, orderID)
	return err
}

func (r *repository) InsertItem(ctx context.Context, item *Item) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO order_items (order_id, product_id, quantity, unit_price, weight_option)
		VALUES ($1,$2,$3,$4,$5)`,
		item.OrderID, item.ProductID, item.Quantity, item.UnitPrice, item.WeightOption)
	return err
}

// DecrementStock applies a relative update so concurrent orders never
// overwrite each other's decrement. Stock is allowed to go negative,
// oversells surface on the dashboard instead of failing the order.
func (r *repository) DecrementStock(ctx context.Context, productID int64, quantity int) error {
	_, err := r.db.ExecContext(ctx,
		"UPDATE products SET stock = stock - $1 WHERE id=$2", quantity, productID)
	return err
}

func (r *repository) GetByID(ctx context.Context, id int64) (*Order, error) {
	o, err := scanOrder(r.db.QueryRowContext(ctx,
		"SELECT "+orderColumns+" FROM orders WHERE id=$1", id))
	if err == sql.ErrNoRows {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}
	return o, nil
}

func (r *repository) ItemsByOrder(ctx context.Context, orderID int64) ([]TrackedItem, error) {
	query := `SELECT
		oi.quantity,
		oi.weight_option,
		COALESCE(p.name, 'Deleted Product') AS product_name,
		p.image AS product_image,
		COALESCE(oi.unit_price, p.price, p.selling_price, 0) AS effective_unit_price
	FROM order_items oi
	LEFT JOIN products p ON p.id = oi.product_id
	WHERE oi.order_id=$1
	ORDER BY oi.id ASC`

	rows, err := r.db.QueryContext(ctx, query, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []TrackedItem
	for rows.Next() {
		var it TrackedItem
		if err := rows.Scan(&it.Quantity, &it.WeightOption, &it.ProductName,
			&it.ProductImage, &it.UnitPrice); err != nil {
			return nil, err
		}
		it.LineTotal = pricing.Round(it.UnitPrice * float64(it.Quantity))
		items = append(items, it)
	}
	return items, rows.Err()
}

func (r *repository) UpdateStatus(ctx context.Context, orderID int64, status string) error {
	_, err := r.db.ExecContext(ctx,
		"UPDATE orders SET order_status=$1 WHERE id=$2", status, orderID)
	return err
}

func (r *repository) Recent(ctx context.Context, limit int) ([]Order, error) {
	return r.list(ctx,
		"SELECT "+orderColumns+" FROM orders ORDER BY id DESC LIMIT $1", limit)
}

func (r *repository) Today(ctx context.Context, limit int) ([]Order, error) {
	return r.list(ctx,
		"SELECT "+orderColumns+" FROM orders WHERE DATE(created_at)=CURRENT_DATE ORDER BY id DESC LIMIT $1",
		limit)
}

func (r *repository) list(ctx context.Context, query string, args ...any) ([]Order, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, *o)
	}
	return orders, rows.Err()
}
