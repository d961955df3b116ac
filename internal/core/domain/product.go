package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Product is a catalog entry with a stock counter. Stock is only changed by admin
// edits and by the order engine; it never drops below zero.
type Product struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Stock       int             `json:"stock"`
	ImageURL    string          `json:"imageUrl"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

// Validate checks the catalog invariants: a name, price > 0, stock >= 0.
func (p *Product) Validate() error {
	if p.Name == "" {
		return fmt.Errorf("%w: name is required", ErrValidation)
	}
	if !p.Price.IsPositive() {
		return fmt.Errorf("%w: price must be greater than 0", ErrValidation)
	}
	if p.Stock < 0 {
		return fmt.Errorf("%w: stock must be >= 0", ErrValidation)
	}
	return nil
}
