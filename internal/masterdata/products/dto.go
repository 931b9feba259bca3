package products

import (
	"github.com/google/uuid"

	"github.com/quoteroom/quoteroom/internal/masterdata/shared"
)

// ProductInput carries create and update fields from JSON or a multipart form.
// Nil pointers leave the stored value unchanged.
type ProductInput struct {
	Name        *string            `json:"name"`
	SKU         *string            `json:"sku"`
	BrandID     *string            `json:"brandId"`
	CategoryID  *string            `json:"categoryId"`
	FunctionID  *string            `json:"functionId"`
	Description *string            `json:"description"`
	Price       *shared.FlexString `json:"price"`
	IsPOR       *shared.FlexBool   `json:"isPOR"`
	Status      *string            `json:"status"`
	// Images lists the existing image URLs to keep, in display order.
	Images    *shared.FlexStrings `json:"images"`
	MainImage *string             `json:"mainImage"`
}

// ManualPriceInput records a price set from the price list screen.
type ManualPriceInput struct {
	ProductID uuid.UUID         `json:"productId" validate:"required"`
	Price     shared.FlexString `json:"price"`
	IsPOR     shared.FlexBool   `json:"isPOR"`
	Note      string            `json:"note" validate:"max=500"`
}
