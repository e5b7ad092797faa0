package catalog

import "time"

// WeightOptions are the gram sizes the store sells packaged snacks in.
var WeightOptions = []int{100, 250, 500, 750, 1000}

type Product struct {
	ID              int64    `json:"id"`
	Name            string   `json:"name"`
	Category        string   `json:"category"`
	Price           float64  `json:"price"`
	QuantityGrams   int      `json:"quantity_grams"`
	Stock           int      `json:"stock"`
	CostPrice       float64  `json:"cost_price"`
	SellingPrice    float64  `json:"selling_price"`
	Image           *string  `json:"image"`
	Description     *string  `json:"description"`
	Ingredients     *string  `json:"ingredients"`
	DiscountPercent float64  `json:"discount_percent"`
	BrandName       *string  `json:"brand_name"`
	OfferText       *string  `json:"offer_text"`
	RegionOfOrigin  *string  `json:"region_of_origin"`
	NetQuantity     *string  `json:"net_quantity"`
	ItemsPerPack    int      `json:"items_per_pack"`
	ItemPartNumber  *string  `json:"item_part_number"`
	MRP             *float64 `json:"mrp"`
	LogoImage       *string  `json:"logo_image"`
}

// WeightTier is a per-gram price override; absence of a tier means the
// base price applies regardless of the requested weight.
type WeightTier struct {
	ProductID   int64
	WeightGrams int
	Price       float64
}

type Review struct {
	ID           int64     `json:"id"`
	ProductID    int64     `json:"product_id"`
	CustomerName string    `json:"customer_name"`
	Rating       int       `json:"rating"`
	Comment      string    `json:"comment"`
	CreatedAt    time.Time `json:"created_at"`
}

type RatingSummary struct {
	Average float64 `json:"average"`
	Total   int     `json:"total"`
}

// NewProductInput is the admin create/update payload. Weight tier
// prices come as a grams→price map; at least one is required on create.
type NewProductInput struct {
	Name           string
	Category       string
	Description    *string
	Ingredients    *string
	QuantityGrams  *int
	Stock          *int
	CostPrice      *float64
	SellingPrice   *float64
	Image          *string
	BrandName      *string
	OfferText      *string
	RegionOfOrigin *string
	NetQuantity    *string
	ItemsPerPack   *int
	ItemPartNumber *string
	MRP            *float64
	LogoImage      *string
	WeightPrices   map[int]float64
}
