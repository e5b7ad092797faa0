package order

import "errors"

var (
	ErrOrderNotFound = errors.New("order not found")
	ErrNoValidItems  = errors.New("No valid items to order")
)
