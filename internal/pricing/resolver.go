package pricing

import (
	"context"
	"fmt"
	"strings"

	"github.com/sanikapatil01/chakali-store/internal/catalog"
)

// ResolvedLine is a cart line with its authoritative unit price and
// the presentation fields the order slip and notification need.
type ResolvedLine struct {
	ProductID       int64
	Name            string
	BrandName       string
	Quantity        int
	UnitPrice       float64
	DiscountPercent float64
	MRP             float64
	OfferText       string
	WeightLabel     string
	ItemsPerPack    int
	RegionOfOrigin  string
	NetQuantity     string
}

// Catalog is the slice of the catalog repository the resolver needs.
type Catalog interface {
	GetByID(ctx context.Context, id int64) (*catalog.Product, error)
	TierPrice(ctx context.Context, productID int64, grams int) (float64, bool, error)
}

type Resolver struct {
	catalog Catalog
}

func NewResolver(c Catalog) *Resolver {
	return &Resolver{catalog: c}
}

// Resolve determines the unit price for one cart line: the weight-tier
// price when a tier exists for the parsed gram count, else the base
// price, with the product's discount applied and the result rounded.
// An unknown product surfaces catalog.ErrProductNotFound; callers on
// the order path drop such lines rather than failing the order.
func (r *Resolver) Resolve(ctx context.Context, productID int64, weightOption string, quantity int) (*ResolvedLine, error) {
	p, err := r.catalog.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	grams, hasGrams := ParseWeightGrams(weightOption)

	base := 0.0
	if hasGrams {
		tierPrice, ok, err := r.catalog.TierPrice(ctx, productID, grams)
		if err != nil {
			return nil, err
		}
		if ok && tierPrice > 0 {
			base = tierPrice
		}
	}
	if base <= 0 {
		base = p.Price
		if base <= 0 {
			base = p.SellingPrice
		}
	}

	discount := ClampDiscount(p.DiscountPercent)
	unit := Round(base * (1 - discount/100))

	if quantity < 1 {
		quantity = 1
	}

	label := weightOption
	if hasGrams {
		label = fmt.Sprintf("%dg", grams)
	} else if label == "" {
		defaultGrams := p.QuantityGrams
		if defaultGrams <= 0 {
			defaultGrams = 250
		}
		label = fmt.Sprintf("%dg", defaultGrams)
	}

	mrp := base
	if p.MRP != nil && *p.MRP > 0 {
		mrp = *p.MRP
	}

	offer := ""
	if p.OfferText != nil {
		offer = strings.TrimSpace(*p.OfferText)
	}
	if offer == "" {
		offer = "No active offer"
	}

	brand := "Chakali Store"
	if p.BrandName != nil && *p.BrandName != "" {
		brand = *p.BrandName
	}

	itemsPerPack := p.ItemsPerPack
	if itemsPerPack < 1 {
		itemsPerPack = 1
	}

	region := "India"
	if p.RegionOfOrigin != nil && *p.RegionOfOrigin != "" {
		region = *p.RegionOfOrigin
	}

	netQuantity := label
	if p.NetQuantity != nil && *p.NetQuantity != "" {
		netQuantity = *p.NetQuantity
	}

	return &ResolvedLine{
		ProductID:       p.ID,
		Name:            p.Name,
		BrandName:       brand,
		Quantity:        quantity,
		UnitPrice:       unit,
		DiscountPercent: discount,
		MRP:             Round(mrp),
		OfferText:       offer,
		WeightLabel:     label,
		ItemsPerPack:    itemsPerPack,
		RegionOfOrigin:  region,
		NetQuantity:     netQuantity,
	}, nil
}
