package httpapi

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sanikapatil01/chakali-store/internal/admin"
	"github.com/sanikapatil01/chakali-store/internal/catalog"
	"github.com/sanikapatil01/chakali-store/internal/store"
)

// validation sentinels that map to a 400 instead of a 500
var badRequestErrs = []error{
	catalog.ErrNameCategoryRequired,
	catalog.ErrNoWeightPrices,
	catalog.ErrInvalidSellingPrice,
	catalog.ErrInvalidQuantityGrams,
	catalog.ErrInvalidStock,
	catalog.ErrInvalidCostPrice,
	catalog.ErrInvalidItemsPerPack,
	catalog.ErrInvalidMRP,
	store.ErrInvalidDeliveryCharge,
	store.ErrInvalidFreeThreshold,
}

func respondAdminError(c *gin.Context, err error) {
	for _, sentinel := range badRequestErrs {
		if errors.Is(err, sentinel) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}
	respondError(c, err)
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (a *API) adminLogin(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	token, err := a.Admin.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, admin.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
			return
		}
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": token})
}

func (a *API) dashboard(c *gin.Context) {
	ctx := c.Request.Context()

	summary, err := a.Stats.Summary(ctx)
	if err != nil {
		respondError(c, err)
		return
	}
	products, tiers, err := a.Catalog.ListProducts(ctx)
	if err != nil {
		respondError(c, err)
		return
	}
	recent, err := a.Orders.Recent(ctx, 30)
	if err != nil {
		respondError(c, err)
		return
	}
	today, err := a.Orders.Today(ctx, 30)
	if err != nil {
		respondError(c, err)
		return
	}
	settings, err := a.Store.Get(ctx)
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

	c.JSON(http.StatusOK, gin.H{
		"summary":         summary,
		"products":        views,
		"orders":          recent,
		"today_orders":    today,
		"store_settings":  settings,
		"weight_options":  catalog.WeightOptions,
		"whatsapp_status": a.WhatsApp.Status(),
	})
}

type statusRequest struct {
	OrderStatus string `json:"order_status"`
}

func (a *API) updateOrderStatus(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var req statusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if err := a.Orders.UpdateStatus(c.Request.Context(), id, req.OrderStatus); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "updated"})
}

type deliveryRequest struct {
	DeliveryCharge    float64  `json:"delivery_charge"`
	FreeDeliveryAbove *float64 `json:"free_delivery_above"`
}

func (a *API) updateDelivery(c *gin.Context) {
	var req deliveryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if err := a.Store.UpdateDelivery(c.Request.Context(), req.DeliveryCharge, req.FreeDeliveryAbove); err != nil {
		respondAdminError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "updated"})
}

type productRequest struct {
	Name           string          `json:"name"`
	Category       string          `json:"category"`
	Description    *string         `json:"description"`
	Ingredients    *string         `json:"ingredients"`
	QuantityGrams  *int            `json:"quantity_grams"`
	Stock          *int            `json:"stock"`
	CostPrice      *float64        `json:"cost_price"`
	SellingPrice   *float64        `json:"selling_price"`
	Image          *string         `json:"image"`
	BrandName      *string         `json:"brand_name"`
	OfferText      *string         `json:"offer_text"`
	RegionOfOrigin *string         `json:"region_of_origin"`
	NetQuantity    *string         `json:"net_quantity"`
	ItemsPerPack   *int            `json:"items_per_pack"`
	ItemPartNumber *string         `json:"item_part_number"`
	MRP            *float64        `json:"mrp"`
	LogoImage      *string         `json:"logo_image"`
	WeightPrices   map[int]float64 `json:"weight_prices"`
}

func (r *productRequest) input() catalog.NewProductInput {
	return catalog.NewProductInput{
		Name:           r.Name,
		Category:       r.Category,
		Description:    r.Description,
		Ingredients:    r.Ingredients,
		QuantityGrams:  r.QuantityGrams,
		Stock:          r.Stock,
		CostPrice:      r.CostPrice,
		SellingPrice:   r.SellingPrice,
		Image:          r.Image,
		BrandName:      r.BrandName,
		OfferText:      r.OfferText,
		RegionOfOrigin: r.RegionOfOrigin,
		NetQuantity:    r.NetQuantity,
		ItemsPerPack:   r.ItemsPerPack,
		ItemPartNumber: r.ItemPartNumber,
		MRP:            r.MRP,
		LogoImage:      r.LogoImage,
		WeightPrices:   r.WeightPrices,
	}
}

func (a *API) createProduct(c *gin.Context) {
	var req productRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	id, err := a.Catalog.CreateProduct(c.Request.Context(), req.input())
	if err != nil {
		respondAdminError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": id})
}

func (a *API) updateProduct(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var req productRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if err := a.Catalog.UpdateProduct(c.Request.Context(), id, req.input()); err != nil {
		respondAdminError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "updated"})
}

func (a *API) deleteProduct(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	if err := a.Catalog.DeleteProduct(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

type discountRequest struct {
	DiscountPercent float64 `json:"discount_percent"`
	Action          string  `json:"action"`
}

func (a *API) setDiscount(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var req discountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	remove := req.Action == "remove"
	if err := a.Catalog.SetDiscount(c.Request.Context(), id, req.DiscountPercent, remove); err != nil {
		respondAdminError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "updated"})
}
