// Package cart prices a client-held cart against the live catalog and
// store settings without persisting anything.
package cart

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/sanikapatil01/chakali-store/internal/catalog"
	"github.com/sanikapatil01/chakali-store/internal/logger"
	"github.com/sanikapatil01/chakali-store/internal/pricing"
	"github.com/sanikapatil01/chakali-store/internal/store"
)

// Line is one cart entry as the client sends it. UnitPrice is an
// optional display override; the product's base price is used when it
// is absent or zero.
type Line struct {
	ProductID    int64    `json:"productId"`
	Quantity     int      `json:"quantity"`
	UnitPrice    *float64 `json:"unitPrice,omitempty"`
	WeightOption string   `json:"weightOption,omitempty"`
}

// Detail is one priced cart entry joined with its product.
type Detail struct {
	Product         *catalog.Product `json:"product"`
	Quantity        int              `json:"quantity"`
	UnitPrice       float64          `json:"unitPrice"`
	DiscountPercent float64          `json:"discountPercent"`
	WeightOption    string           `json:"weightOption"`
}

// Preview is the fully priced cart. Lines for unknown products are
// dropped, never reported as errors.
type Preview struct {
	Items    []Detail       `json:"items"`
	Totals   pricing.Totals `json:"pricing"`
	Settings store.Settings `json:"storeSettings"`
}

// Catalog is the slice of the catalog repository the cart needs.
type Catalog interface {
	GetByID(ctx context.Context, id int64) (*catalog.Product, error)
}

// SettingsSource yields the current delivery configuration.
type SettingsSource interface {
	Get(ctx context.Context) (*store.Settings, error)
}

type Service interface {
	Preview(ctx context.Context, lines []Line) (*Preview, error)
}

type service struct {
	catalog  Catalog
	settings SettingsSource
}

func NewService(c Catalog, s SettingsSource) Service {
	return &service{catalog: c, settings: s}
}

func (s *service) Preview(ctx context.Context, lines []Line) (*Preview, error) {
	settings, err := s.settings.Get(ctx)
	if err != nil {
		logger.FromCtx(ctx).Error("failed to load store settings",
			zap.String("layer", "cart"),
			zap.String("method", "Preview"),
			zap.Error(err))
		return nil, err
	}

	details := make([]Detail, 0, len(lines))
	for _, line := range lines {
		p, err := s.catalog.GetByID(ctx, line.ProductID)
		if err != nil {
			if errors.Is(err, catalog.ErrProductNotFound) {
				continue
			}
			return nil, err
		}

		fallback := p.Price
		if fallback <= 0 {
			fallback = p.SellingPrice
		}
		unit := fallback
		if line.UnitPrice != nil && *line.UnitPrice > 0 {
			unit = *line.UnitPrice
		}

		weight := line.WeightOption
		if weight == "" {
			weight = "250g"
		}

		details = append(details, Detail{
			Product:         p,
			Quantity:        line.Quantity,
			UnitPrice:       unit,
			DiscountPercent: p.DiscountPercent,
			WeightOption:    weight,
		})
	}

	priced := make([]pricing.Line, 0, len(details))
	for _, d := range details {
		priced = append(priced, pricing.Line{
			UnitPrice:       d.UnitPrice,
			Quantity:        d.Quantity,
			DiscountPercent: d.DiscountPercent,
		})
	}

	return &Preview{
		Items:    details,
		Totals:   pricing.Calculate(priced, settings),
		Settings: *settings,
	}, nil
}
