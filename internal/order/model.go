// Package order finalizes customer orders: it freezes prices, records
// the order, generates the slip document and notifies the admin.
package order

import "time"

const (
	StatusReceived  = "Order Received"
	StatusPacked    = "Packed"
	StatusShipped   = "Shipped"
	StatusDelivered = "Delivered"

	PaymentCODPending = "COD Pending"
	PaymentPaid       = "Paid"
)

// Statuses lists the fulfilment states in progression order.
var Statuses = []string{StatusReceived, StatusPacked, StatusShipped, StatusDelivered}

// NormalizeStatus maps any stored or submitted status onto the allowed
// set. Legacy values fold into the initial state.
func NormalizeStatus(status string) string {
	for _, s := range Statuses {
		if status == s {
			return s
		}
	}
	return StatusReceived
}

// PaymentStatusFor derives the initial payment status from the chosen
// method: cash on delivery starts unpaid, everything else is treated
// as already settled.
func PaymentStatusFor(method string) string {
	if method == "cod" {
		return PaymentCODPending
	}
	return PaymentPaid
}

type Order struct {
	ID              int64     `json:"id"`
	CustomerName    string    `json:"customer_name"`
	Phone           string    `json:"phone"`
	Address         string    `json:"address"`
	Total           float64   `json:"total"`
	PaymentStatus   string    `json:"payment_status"`
	OrderStatus     string    `json:"order_status"`
	PaymentMethod   string    `json:"payment_method"`
	OrderSource     string    `json:"order_source"`
	LiveLocationURL *string   `json:"live_location_url,omitempty"`
	LiveLatitude    *float64  `json:"live_latitude,omitempty"`
	LiveLongitude   *float64  `json:"live_longitude,omitempty"`
	OrderPDFURL     *string   `json:"order_pdf_url,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
}

// Item is one persisted order line. ProductID survives as NULL when
// the product is later deleted; UnitPrice stays frozen at order time.
type Item struct {
	ID           int64   `json:"id"`
	OrderID      int64   `json:"order_id"`
	ProductID    *int64  `json:"product_id,omitempty"`
	Quantity     int     `json:"quantity"`
	UnitPrice    float64 `json:"unit_price"`
	WeightOption string  `json:"weight_option"`
}

// TrackedItem is an order line joined with whatever remains of its
// product, shaped for the tracking page.
type TrackedItem struct {
	ProductName  string  `json:"product_name"`
	ProductImage *string `json:"product_image,omitempty"`
	Quantity     int     `json:"quantity"`
	UnitPrice    float64 `json:"unit_price"`
	WeightOption string  `json:"weight_option"`
	LineTotal    float64 `json:"line_total"`
}

// Placement is the checkout submission.
type Placement struct {
	Items           []PlacementItem
	CustomerName    string
	Phone           string
	Address         string
	PaymentMethod   string
	OrderSource     string
	LiveLocationURL string
	LiveLatitude    *float64
	LiveLongitude   *float64
}

// PlacementItem references a product by id; price is never taken from
// the client on this path.
type PlacementItem struct {
	ProductID    int64  `json:"productId"`
	Quantity     int    `json:"quantity"`
	WeightOption string `json:"weightOption,omitempty"`
}
