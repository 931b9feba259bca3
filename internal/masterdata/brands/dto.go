package brands

import (
	"github.com/google/uuid"

	"github.com/quoteroom/quoteroom/internal/masterdata/shared"
)

// BrandInput carries create and patch fields. Nil means "leave unchanged".
type BrandInput struct {
	Name        *string         `json:"name"`
	Description *string         `json:"description"`
	Status      *string         `json:"status"`
	RemoveLogo  shared.FlexBool `json:"removeLogo"`
}

// ProductOrderInput replaces the stored product order.
type ProductOrderInput struct {
	ProductIDs []uuid.UUID `json:"productIds" validate:"required"`
}
