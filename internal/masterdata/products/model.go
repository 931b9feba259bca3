package products

import (
	"time"

	"github.com/google/uuid"
)

// Product is a catalogue item of a brand.
type Product struct {
	ID           uuid.UUID    `json:"id"`
	Name         string       `json:"name"`
	SKU          string       `json:"sku"`
	BrandID      *uuid.UUID   `json:"brandId"`
	BrandName    *string      `json:"brandName"`
	CategoryID   *uuid.UUID   `json:"categoryId"`
	FunctionID   *uuid.UUID   `json:"functionId"`
	Description  string       `json:"description"`
	Price        float64      `json:"price"`
	IsPOR        bool         `json:"isPOR"`
	PriceHistory []PricePoint `json:"priceHistory"`
	Images       []string     `json:"images"`
	MainImage    string       `json:"mainImage"`
	Status       string       `json:"status"`
	CreatedAt    time.Time    `json:"createdAt"`
	UpdatedAt    time.Time    `json:"updatedAt"`
}

// PricePoint is one entry of the in-document price history, newest last.
type PricePoint struct {
	Price float64   `json:"price"`
	Date  time.Time `json:"date"`
}

// PriceChange is a ledger row; EffectiveTo is nil while the price is current.
type PriceChange struct {
	ID            uuid.UUID  `json:"id"`
	ProductID     uuid.UUID  `json:"productId"`
	Price         float64    `json:"price"`
	IsPOR         bool       `json:"isPOR"`
	Note          string     `json:"note"`
	EffectiveFrom time.Time  `json:"effectiveFrom"`
	EffectiveTo   *time.Time `json:"effectiveTo"`
	CreatedAt     time.Time  `json:"createdAt"`
}
