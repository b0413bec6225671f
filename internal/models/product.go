package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is a catalog item sold by the unit. CapacityByBox is how many
// units fit in one crate of the product's crate type; 0 means the product
// is only ever handled loose.
type Product struct {
	ID            int             `json:"id"`
	Designation   string          `json:"designation"`
	PriceUnite    decimal.Decimal `json:"priceUnite"`
	BoxID         *int            `json:"box,omitempty"`
	CapacityByBox int             `json:"capacityByBox"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

type CreateProductRequest struct {
	Designation   string          `json:"designation"`
	PriceUnite    decimal.Decimal `json:"priceUnite"`
	BoxID         *int            `json:"box,omitempty"`
	CapacityByBox int             `json:"capacityByBox"`
}
