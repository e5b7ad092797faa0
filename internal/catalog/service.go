package catalog

import (
	"context"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/sanikapatil01/chakali-store/internal/logger"
)

type Service interface {
	GetProduct(ctx context.Context, id int64) (*Product, []WeightTier, error)
	ListProducts(ctx context.Context) ([]Product, map[int64][]WeightTier, error)
	CreateProduct(ctx context.Context, input NewProductInput) (int64, error)
	UpdateProduct(ctx context.Context, id int64, input NewProductInput) error
	DeleteProduct(ctx context.Context, id int64) error
	SetDiscount(ctx context.Context, id int64, percent float64, remove bool) error

	AddReview(ctx context.Context, productID int64, customerName string, rating int, comment string) error
	ProductReviews(ctx context.Context, productID int64) ([]Review, *RatingSummary, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) GetProduct(ctx context.Context, id int64) (*Product, []WeightTier, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	tiers, err := s.repo.WeightTiersFor(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	return p, tiers, nil
}

func (s *service) ListProducts(ctx context.Context) ([]Product, map[int64][]WeightTier, error) {
	products, err := s.repo.List(ctx)
	if err != nil {
		return nil, nil, err
	}
	ids := make([]int64, 0, len(products))
	for _, p := range products {
		ids = append(ids, p.ID)
	}
	tiers, err := s.repo.WeightTiersByProduct(ctx, ids)
	if err != nil {
		return nil, nil, err
	}
	return products, tiers, nil
}

// validTiers keeps only recognised gram options with a non-negative
// price, sorted by grams.
func validTiers(prices map[int]float64) []WeightTier {
	var out []WeightTier
	for _, grams := range WeightOptions {
		price, ok := prices[grams]
		if !ok || price < 0 {
			continue
		}
		out = append(out, WeightTier{WeightGrams: grams, Price: price})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].WeightGrams < out[j].WeightGrams })
	return out
}

// fallbackSellingPrice picks a selling price from the tiers when the
// admin did not supply one. 250g is the store's default pack size, so
// it wins; the rest follow the original preference order.
func fallbackSellingPrice(tiers []WeightTier) float64 {
	byGrams := make(map[int]float64, len(tiers))
	for _, t := range tiers {
		byGrams[t.WeightGrams] = t.Price
	}
	for _, grams := range []int{250, 500, 100, 750, 1000} {
		if price, ok := byGrams[grams]; ok && price > 0 {
			return price
		}
	}
	return 0
}

func (s *service) buildProduct(input NewProductInput, existing *Product) (*Product, []WeightTier, error) {
	if strings.TrimSpace(input.Name) == "" || strings.TrimSpace(input.Category) == "" {
		return nil, nil, ErrNameCategoryRequired
	}

	tiers := validTiers(input.WeightPrices)
	if existing == nil && len(tiers) == 0 {
		return nil, nil, ErrNoWeightPrices
	}

	p := &Product{Name: input.Name, Category: input.Category}
	if existing != nil {
		*p = *existing
		p.Name = input.Name
		p.Category = input.Category
	}

	sellingPrice := fallbackSellingPrice(tiers)
	if input.SellingPrice != nil && *input.SellingPrice > 0 {
		sellingPrice = *input.SellingPrice
	} else if existing != nil && sellingPrice == 0 {
		sellingPrice = existing.SellingPrice
		if sellingPrice == 0 {
			sellingPrice = existing.Price
		}
	}
	if sellingPrice <= 0 {
		return nil, nil, ErrInvalidSellingPrice
	}
	p.SellingPrice = sellingPrice
	p.Price = sellingPrice

	p.QuantityGrams = 250
	if existing != nil && existing.QuantityGrams > 0 {
		p.QuantityGrams = existing.QuantityGrams
	}
	if input.QuantityGrams != nil {
		p.QuantityGrams = *input.QuantityGrams
	}
	if p.QuantityGrams <= 0 {
		return nil, nil, ErrInvalidQuantityGrams
	}

	if input.Stock != nil {
		p.Stock = *input.Stock
	}
	if p.Stock < 0 {
		return nil, nil, ErrInvalidStock
	}

	if input.CostPrice != nil {
		p.CostPrice = *input.CostPrice
	}
	if p.CostPrice < 0 {
		return nil, nil, ErrInvalidCostPrice
	}

	p.ItemsPerPack = 1
	if existing != nil && existing.ItemsPerPack > 0 {
		p.ItemsPerPack = existing.ItemsPerPack
	}
	if input.ItemsPerPack != nil {
		p.ItemsPerPack = *input.ItemsPerPack
	}
	if p.ItemsPerPack < 1 {
		return nil, nil, ErrInvalidItemsPerPack
	}

	if input.MRP != nil {
		if *input.MRP < 0 {
			return nil, nil, ErrInvalidMRP
		}
		p.MRP = input.MRP
	}

	if input.Description != nil {
		p.Description = input.Description
	}
	if input.Ingredients != nil {
		p.Ingredients = input.Ingredients
	}
	if input.Image != nil {
		p.Image = input.Image
	}
	if input.LogoImage != nil {
		p.LogoImage = input.LogoImage
	}
	p.BrandName = trimmedOrKeep(input.BrandName, p.BrandName)
	p.OfferText = trimmedOrKeep(input.OfferText, p.OfferText)
	p.RegionOfOrigin = trimmedOrKeep(input.RegionOfOrigin, p.RegionOfOrigin)
	p.NetQuantity = trimmedOrKeep(input.NetQuantity, p.NetQuantity)
	p.ItemPartNumber = trimmedOrKeep(input.ItemPartNumber, p.ItemPartNumber)

	return p, tiers, nil
}

func trimmedOrKeep(in *string, current *string) *string {
	if in == nil {
		return current
	}
	v := strings.TrimSpace(*in)
	if v == "" {
		return nil
	}
	return &v
}

func (s *service) CreateProduct(ctx context.Context, input NewProductInput) (int64, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "CreateProduct"),
	)

	p, tiers, err := s.buildProduct(input, nil)
	if err != nil {
		log.Warn("product input rejected", zap.Error(err))
		return 0, err
	}

	id, err := s.repo.Create(ctx, p)
	if err != nil {
		log.Error("failed to insert product", zap.Error(err))
		return 0, err
	}

	if err := s.repo.ReplaceWeightTiers(ctx, id, tiers); err != nil {
		log.Error("failed to store weight tiers", zap.Int64("product_id", id), zap.Error(err))
		return 0, err
	}

	log.Info("product created", zap.Int64("product_id", id), zap.Int("tiers", len(tiers)))
	return id, nil
}

func (s *service) UpdateProduct(ctx context.Context, id int64, input NewProductInput) error {
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	p, tiers, err := s.buildProduct(input, existing)
	if err != nil {
		return err
	}
	p.ID = id

	if err := s.repo.Update(ctx, p); err != nil {
		return err
	}
	if len(tiers) > 0 {
		if err := s.repo.ReplaceWeightTiers(ctx, id, tiers); err != nil {
			return err
		}
	}
	return nil
}

func (s *service) DeleteProduct(ctx context.Context, id int64) error {
	ok, err := s.repo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return ErrProductNotFound
	}
	return nil
}

// SetDiscount clamps the admin-supplied discount to [0,95]; remove
// resets it to zero.
func (s *service) SetDiscount(ctx context.Context, id int64, percent float64, remove bool) error {
	if remove {
		percent = 0
	}
	if percent < 0 {
		percent = 0
	}
	if percent > 95 {
		percent = 95
	}
	return s.repo.UpdateDiscount(ctx, id, percent)
}

func (s *service) AddReview(ctx context.Context, productID int64, customerName string, rating int, comment string) error {
	if _, err := s.repo.GetByID(ctx, productID); err != nil {
		return err
	}
	if customerName == "" {
		customerName = "Customer"
	}
	if rating < 1 {
		rating = 1
	}
	if rating > 5 {
		rating = 5
	}
	return s.repo.AddReview(ctx, &Review{
		ProductID:    productID,
		CustomerName: customerName,
		Rating:       rating,
		Comment:      comment,
	})
}

func (s *service) ProductReviews(ctx context.Context, productID int64) ([]Review, *RatingSummary, error) {
	reviews, err := s.repo.ReviewsFor(ctx, productID)
	if err != nil {
		return nil, nil, err
	}
	summary, err := s.repo.RatingFor(ctx, productID)
	if err != nil {
		return nil, nil, err
	}
	return reviews, summary, nil
}
