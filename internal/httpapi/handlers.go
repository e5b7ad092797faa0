package httpapi

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/sanikapatil01/chakali-store/internal/cart"
	"github.com/sanikapatil01/chakali-store/internal/catalog"
	"github.com/sanikapatil01/chakali-store/internal/order"
	"github.com/sanikapatil01/chakali-store/internal/whatsapp"
)

func idParam(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return 0, false
	}
	return id, true
}

func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, catalog.ErrProductNotFound), errors.Is(err, order.ErrOrderNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, order.ErrNoValidItems):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

// productView carries a product with its weight-tier prices keyed by
// gram count.
type productView struct {
	*catalog.Product
	WeightPrices map[int]float64 `json:"weight_prices"`
}

func tiersToMap(tiers []catalog.WeightTier) map[int]float64 {
	prices := make(map[int]float64, len(tiers))
	for _, t := range tiers {
		prices[t.WeightGrams] = t.Price
	}
	return prices
}

func (a *API) listProducts(c *gin.Context) {
	products, tiers, err := a.Catalog.ListProducts(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	views := make([]productView, 0, len(products))
	for i := range products {
		views = append(views, productView{
			Product:      &products[i],
			WeightPrices: tiersToMap(tiers[products[i].ID]),
		})
	}
	c.JSON(http.StatusOK, gin.H{"products": views, "weight_options": catalog.WeightOptions})
}

func (a *API) getProduct(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	p, tiers, err := a.Catalog.GetProduct(ctx, id)
	if err != nil {
		respondError(c, err)
		return
	}
	reviews, rating, err := a.Catalog.ProductReviews(ctx, id)
	if err != nil {
		respondError(c, err)
		return
	}

	enquiry := fmt.Sprintf("New order enquiry from website\nProduct: %s\nQty: 1\nPrice: Rs. %s",
		p.Name, strconv.FormatFloat(p.SellingPrice, 'f', -1, 64))

	c.JSON(http.StatusOK, gin.H{
		"product":        productView{Product: p, WeightPrices: tiersToMap(tiers)},
		"reviews":        reviews,
		"rating":         rating,
		"enquiry_link":   a.WhatsApp.ChatLink(enquiry),
		"weight_options": catalog.WeightOptions,
	})
}

type reviewRequest struct {
	CustomerName string `json:"customer_name"`
	Rating       int    `json:"rating"`
	Comment      string `json:"comment"`
}

func (a *API) addReview(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var req reviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if err := a.Catalog.AddReview(c.Request.Context(), id, req.CustomerName, req.Rating, req.Comment); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"status": "review added"})
}

type cartRequest struct {
	Items []cart.Line `json:"items"`
}

func (a *API) priceCart(c *gin.Context) {
	var req cartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	preview, err := a.Cart.Preview(c.Request.Context(), req.Items)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, preview)
}

type orderRequest struct {
	Items           []order.PlacementItem `json:"items"`
	Name            string                `json:"name"`
	Phone           string                `json:"phone"`
	Address         string                `json:"address"`
	PaymentMethod   string                `json:"payment_method"`
	OrderSource     string                `json:"order_source"`
	LiveLocationURL string                `json:"live_location_url"`
	LiveLatitude    *float64              `json:"live_latitude"`
	LiveLongitude   *float64              `json:"live_longitude"`
}

type singleOrderRequest struct {
	orderRequest
	ProductID    int64  `json:"productId"`
	Quantity     int    `json:"quantity"`
	WeightOption string `json:"weightOption"`
}

func (r *orderRequest) placement() *order.Placement {
	method := "online"
	if r.PaymentMethod == "cod" {
		method = "cod"
	}
	source := "website"
	if r.OrderSource == "whatsapp" {
		source = "whatsapp"
	}
	return &order.Placement{
		Items:           r.Items,
		CustomerName:    r.Name,
		Phone:           r.Phone,
		Address:         r.Address,
		PaymentMethod:   method,
		OrderSource:     source,
		LiveLocationURL: r.LiveLocationURL,
		LiveLatitude:    r.LiveLatitude,
		LiveLongitude:   r.LiveLongitude,
	}
}

func notifyLabel(outcome whatsapp.Outcome) string {
	if outcome.OK {
		return "ok"
	}
	if outcome.Reason == whatsapp.ReasonMissingConfig {
		return "missing_config"
	}
	return "failed"
}

func (a *API) place(c *gin.Context, p *order.Placement) {
	orderID, outcome, err := a.Orders.Place(c.Request.Context(), p)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"orderId": orderID,
		"notify":  notifyLabel(outcome),
	})
}

func (a *API) placeOrder(c *gin.Context) {
	var req orderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	a.place(c, req.placement())
}

func (a *API) placeSingleOrder(c *gin.Context) {
	var req singleOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	quantity := req.Quantity
	if quantity < 1 {
		quantity = 1
	}
	weight := req.WeightOption
	if weight == "" {
		weight = "250g"
	}
	p := req.placement()
	p.Items = []order.PlacementItem{{
		ProductID:    req.ProductID,
		Quantity:     quantity,
		WeightOption: weight,
	}}
	a.place(c, p)
}

func (a *API) getOrder(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	o, items, err := a.Orders.Track(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"order": o, "items": items})
}
