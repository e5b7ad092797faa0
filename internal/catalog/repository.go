package catalog

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"
)

type Repository interface {
	GetByID(ctx context.Context, id int64) (*Product, error)
	List(ctx context.Context) ([]Product, error)
	Create(ctx context.Context, p *Product) (int64, error)
	Update(ctx context.Context, p *Product) error
	Delete(ctx context.Context, id int64) (bool, error)
	UpdateDiscount(ctx context.Context, id int64, percent float64) error

	ReplaceWeightTiers(ctx context.Context, productID int64, tiers []WeightTier) error
	WeightTiersFor(ctx context.Context, productID int64) ([]WeightTier, error)
	WeightTiersByProduct(ctx context.Context, productIDs []int64) (map[int64][]WeightTier, error)
	TierPrice(ctx context.Context, productID int64, grams int) (float64, bool, error)

	AddReview(ctx context.Context, r *Review) error
	ReviewsFor(ctx context.Context, productID int64) ([]Review, error)
	RatingFor(ctx context.Context, productID int64) (*RatingSummary, error)
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

const productColumns = `
	id, name, category, price, quantity_grams, stock, cost_price,
	selling_price, image, description, ingredients, discount_percent,
	brand_name, offer_text, region_of_origin, net_quantity,
	items_per_pack, item_part_number, mrp, logo_image`

func scanProduct(row interface{ Scan(...any) error }) (*Product, error) {
	var p Product
	err := row.Scan(
		&p.ID, &p.Name, &p.Category, &p.Price, &p.QuantityGrams, &p.Stock,
		&p.CostPrice, &p.SellingPrice, &p.Image, &p.Description,
		&p.Ingredients, &p.DiscountPercent, &p.BrandName, &p.OfferText,
		&p.RegionOfOrigin, &p.NetQuantity, &p.ItemsPerPack,
		&p.ItemPartNumber, &p.MRP, &p.LogoImage,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *repository) GetByID(ctx context.Context, id int64) (*Product, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+productColumns+`
		FROM products WHERE id = $1
	`, id)

	p, err := scanProduct(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrProductNotFound
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (r *repository) List(ctx context.Context) ([]Product, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+productColumns+`
		FROM products ORDER BY id DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	return out, rows.Err()
}

func (r *repository) Create(ctx context.Context, p *Product) (int64, error) {
	var id int64
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO products (
			name, category, price, quantity_grams, stock, cost_price,
			selling_price, image, description, ingredients, discount_percent,
			brand_name, offer_text, region_of_origin, net_quantity,
			items_per_pack, item_part_number, mrp, logo_image
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19)
		RETURNING id
	`,
		p.Name, p.Category, p.Price, p.QuantityGrams, p.Stock, p.CostPrice,
		p.SellingPrice, p.Image, p.Description, p.Ingredients,
		p.DiscountPercent, p.BrandName, p.OfferText, p.RegionOfOrigin,
		p.NetQuantity, p.ItemsPerPack, p.ItemPartNumber, p.MRP, p.LogoImage,
	).Scan(&id)
	if err != nil {
		return 0, err
	}
	return id, nil
}

func (r *repository) Update(ctx context.Context, p *Product) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE products SET
			name=$1, category=$2, price=$3, quantity_grams=$4, stock=$5,
			cost_price=$6, selling_price=$7, image=$8, description=$9,
			ingredients=$10, brand_name=$11, offer_text=$12,
			region_of_origin=$13, net_quantity=$14, items_per_pack=$15,
			item_part_number=$16, mrp=$17, logo_image=$18
		WHERE id=$19
	`,
		p.Name, p.Category, p.Price, p.QuantityGrams, p.Stock, p.CostPrice,
		p.SellingPrice, p.Image, p.Description, p.Ingredients, p.BrandName,
		p.OfferText, p.RegionOfOrigin, p.NetQuantity, p.ItemsPerPack,
		p.ItemPartNumber, p.MRP, p.LogoImage, p.ID,
	)
	if err != nil {
		return err
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return ErrProductNotFound
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, id int64) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return false, err
	}
	affected, _ := res.RowsAffected()
	return affected > 0, nil
}

func (r *repository) UpdateDiscount(ctx context.Context, id int64, percent float64) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE products SET discount_percent = $1 WHERE id = $2
	`, percent, id)
	if err != nil {
		return err
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return ErrProductNotFound
	}
	return nil
}

// ReplaceWeightTiers swaps the full tier set for a product. The
// original store always rewrites all tiers together, so delete+insert
// inside one transaction keeps the (product, grams) uniqueness simple.
func (r *repository) ReplaceWeightTiers(ctx context.Context, productID int64, tiers []WeightTier) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `
		DELETE FROM product_weight_prices WHERE product_id = $1
	`, productID); err != nil {
		return err
	}

	for _, t := range tiers {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO product_weight_prices (product_id, weight_grams, price)
			VALUES ($1, $2, $3)
		`, productID, t.WeightGrams, t.Price); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (r *repository) WeightTiersFor(ctx context.Context, productID int64) ([]WeightTier, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT product_id, weight_grams, price
		FROM product_weight_prices
		WHERE product_id = $1
		ORDER BY weight_grams ASC
	`, productID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []WeightTier
	for rows.Next() {
		var t WeightTier
		if err := rows.Scan(&t.ProductID, &t.WeightGrams, &t.Price); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (r *repository) WeightTiersByProduct(ctx context.Context, productIDs []int64) (map[int64][]WeightTier, error) {
	result := make(map[int64][]WeightTier)
	if len(productIDs) == 0 {
		return result, nil
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT product_id, weight_grams, price
		FROM product_weight_prices
		WHERE product_id = ANY($1)
		ORDER BY weight_grams ASC
	`, pq.Array(productIDs))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var t WeightTier
		if err := rows.Scan(&t.ProductID, &t.WeightGrams, &t.Price); err != nil {
			return nil, err
		}
		result[t.ProductID] = append(result[t.ProductID], t)
	}
	return result, rows.Err()
}

func (r *repository) TierPrice(ctx context.Context, productID int64, grams int) (float64, bool, error) {
	var price float64
	err := r.db.QueryRowContext(ctx, `
		SELECT price FROM product_weight_prices
		WHERE product_id = $1 AND weight_grams = $2
		LIMIT 1
	`, productID, grams).Scan(&price)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return price, true, nil
}

func (r *repository) AddReview(ctx context.Context, rv *Review) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO product_reviews (product_id, customer_name, rating, comment)
		VALUES ($1, $2, $3, $4)
	`, rv.ProductID, rv.CustomerName, rv.Rating, rv.Comment)
	return err
}

func (r *repository) ReviewsFor(ctx context.Context, productID int64) ([]Review, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, product_id, customer_name, rating, comment, created_at
		FROM product_reviews
		WHERE product_id = $1
		ORDER BY id DESC
	`, productID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Review
	for rows.Next() {
		var rv Review
		if err := rows.Scan(&rv.ID, &rv.ProductID, &rv.CustomerName, &rv.Rating, &rv.Comment, &rv.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, rv)
	}
	return out, rows.Err()
}

func (r *repository) RatingFor(ctx context.Context, productID int64) (*RatingSummary, error) {
	var s RatingSummary
	err := r.db.QueryRowContext(ctx, `
		SELECT COALESCE(ROUND(AVG(rating)::numeric, 1), 0), COUNT(*)
		FROM product_reviews
		WHERE product_id = $1
	`, productID).Scan(&s.Average, &s.Total)
	if err != nil {
		return nil, err
	}
	return &s, nil
}
