// Package stats computes the admin dashboard aggregates.
package stats

import (
	"context"
	"database/sql"
	"sort"
	"time"
)

// BestSeller is the product with the highest ordered quantity.
type BestSeller struct {
	Name      string `json:"name"`
	TotalSold int64  `json:"total_sold"`
}

// StatusCounts buckets orders by fulfilment progress.
type StatusCounts struct {
	Total     int64 `json:"total_orders"`
	Pending   int64 `json:"pending_orders"`
	Current   int64 `json:"current_orders"`
	Completed int64 `json:"completed_orders"`
}

// DailyPoint is one day of the sales/profit chart, keyed by ISO date.
type DailyPoint struct {
	Day    string  `json:"day"`
	Sales  float64 `json:"sales"`
	Profit float64 `json:"profit"`
}

// Summary is everything the dashboard shows at once.
type Summary struct {
	TotalSales   float64      `json:"total_sales"`
	TotalOrders  int64        `json:"total_orders"`
	TotalProfit  float64      `json:"total_profit"`
	BestSeller   *BestSeller  `json:"best_selling,omitempty"`
	StatusCounts StatusCounts `json:"order_stats"`
	DailySeries  []DailyPoint `json:"daily_chart_data"`
}

type Repository interface {
	TotalSales(ctx context.Context) (float64, error)
	TotalProfit(ctx context.Context) (float64, error)
	BestSeller(ctx context.Context) (*BestSeller, error)
	StatusCounts(ctx context.Context) (StatusCounts, error)
	DailySeries(ctx context.Context) ([]DailyPoint, error)
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

// TotalSales sums settled revenue only; COD orders count once marked
// paid.
func (r *repository) TotalSales(ctx context.Context) (float64, error) {
	var total float64
	err := r.db.QueryRowContext(ctx,
		"SELECT COALESCE(SUM(total),0) FROM orders WHERE payment_status='Paid'").Scan(&total)
	return total, err
}

func (r *repository) TotalProfit(ctx context.Context) (float64, error) {
	var profit float64
	err := r.db.QueryRowContext(ctx,
		`SELECT COALESCE(SUM((p.selling_price - p.cost_price) * oi.quantity),0)
		FROM order_items oi
		JOIN products p ON p.id = oi.product_id`).Scan(&profit)
	return profit, err
}

func (r *repository) BestSeller(ctx context.Context) (*BestSeller, error) {
	var bs BestSeller
	err := r.db.QueryRowContext(ctx,
		`SELECT p.name, SUM(oi.quantity) as total_sold
		FROM order_items oi
		JOIN products p ON p.id = oi.product_id
		GROUP BY p.name
		ORDER BY total_sold DESC
		LIMIT 1`).Scan(&bs.Name, &bs.TotalSold)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &bs, nil
}

func (r *repository) StatusCounts(ctx context.Context) (StatusCounts, error) {
	var c StatusCounts
	err := r.db.QueryRowContext(ctx,
		`SELECT
			COUNT(*) AS total_orders,
			COUNT(*) FILTER (WHERE order_status IN ('Order Received', 'Packed')) AS pending_orders,
			COUNT(*) FILTER (WHERE order_status = 'Shipped') AS current_orders,
			COUNT(*) FILTER (WHERE order_status = 'Delivered') AS completed_orders
		FROM orders`).Scan(&c.Total, &c.Pending, &c.Current, &c.Completed)
	return c, err
}

// DailySeries merges the last 14 days of sales and profit into one
// date-keyed series. Days with sales but no resolvable profit keep a
// zero profit and vice versa.
func (r *repository) DailySeries(ctx context.Context) ([]DailyPoint, error) {
	byDay := map[string]*DailyPoint{}

	salesRows, err := r.db.QueryContext(ctx,
		`SELECT DATE(created_at) AS day, COALESCE(SUM(total),0) AS sales
		FROM orders
		WHERE created_at >= NOW() - INTERVAL '14 days'
		GROUP BY DATE(created_at)
		ORDER BY day ASC`)
	if err != nil {
		return nil, err
	}
	defer salesRows.Close()
	for salesRows.Next() {
		var day time.Time
		var sales float64
		if err := salesRows.Scan(&day, &sales); err != nil {
			return nil, err
		}
		key := day.Format("2006-01-02")
		byDay[key] = &DailyPoint{Day: key, Sales: sales}
	}
	if err := salesRows.Err(); err != nil {
		return nil, err
	}

	profitRows, err := r.db.QueryContext(ctx,
		`SELECT DATE(o.created_at) AS day,
			COALESCE(SUM((COALESCE(p.selling_price, p.price, 0) - COALESCE(p.cost_price, 0)) * oi.quantity),0) AS profit
		FROM orders o
		LEFT JOIN order_items oi ON oi.order_id = o.id
		LEFT JOIN products p ON p.id = oi.product_id
		WHERE o.created_at >= NOW() - INTERVAL '14 days'
		GROUP BY DATE(o.created_at)
		ORDER BY day ASC`)
	if err != nil {
		return nil, err
	}
	defer profitRows.Close()
	for profitRows.Next() {
		var day time.Time
		var profit float64
		if err := profitRows.Scan(&day, &profit); err != nil {
			return nil, err
		}
		key := day.Format("2006-01-02")
		if point, ok := byDay[key]; ok {
			point.Profit = profit
		} else {
			byDay[key] = &DailyPoint{Day: key, Profit: profit}
		}
	}
	if err := profitRows.Err(); err != nil {
		return nil, err
	}

	series := make([]DailyPoint, 0, len(byDay))
	for _, point := range byDay {
		series = append(series, *point)
	}
	sort.Slice(series, func(i, j int) bool { return series[i].Day < series[j].Day })
	return series, nil
}

type Service interface {
	Summary(ctx context.Context) (*Summary, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) Summary(ctx context.Context) (*Summary, error) {
	sales, err := s.repo.TotalSales(ctx)
	if err != nil {
		return nil, err
	}
	profit, err := s.repo.TotalProfit(ctx)
	if err != nil {
		return nil, err
	}
	best, err := s.repo.BestSeller(ctx)
	if err != nil {
		return nil, err
	}
	counts, err := s.repo.StatusCounts(ctx)
	if err != nil {
		return nil, err
	}
	series, err := s.repo.DailySeries(ctx)
	if err != nil {
		return nil, err
	}

	return &Summary{
		TotalSales:   sales,
		TotalOrders:  counts.Total,
		TotalProfit:  profit,
		BestSeller:   best,
		StatusCounts: counts,
		DailySeries:  series,
	}, nil
}
