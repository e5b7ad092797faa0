package catalog

import "errors"

var (
	ErrProductNotFound = errors.New("product not found")

	// -- Admin input validation --
	ErrNameCategoryRequired = errors.New("product name and category are required")
	ErrNoWeightPrices       = errors.New("at least one gram-wise price is required")
	ErrInvalidSellingPrice  = errors.New("selling price could not be calculated from gram-wise prices")
	ErrInvalidQuantityGrams = errors.New("invalid quantity value")
	ErrInvalidStock         = errors.New("invalid stock value")
	ErrInvalidCostPrice     = errors.New("invalid cost price value")
	ErrInvalidItemsPerPack  = errors.New("invalid number of items value")
	ErrInvalidMRP           = errors.New("invalid MRP value")
)
