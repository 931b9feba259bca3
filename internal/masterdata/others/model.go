// Package others manages third-party brands and products that appear on
// quotations without being part of the main catalogue.
package others

import (
	"time"

	"github.com/google/uuid"

	"github.com/quoteroom/quoteroom/internal/masterdata/shared"
)

type OtherBrand struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Status      string    `json:"status"`
	Logo        string    `json:"logo"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type OtherProduct struct {
	ID             uuid.UUID  `json:"id"`
	Name           string     `json:"name"`
	OtherBrandID   *uuid.UUID `json:"otherBrandId"`
	OtherBrandName *string    `json:"otherBrandName"`
	Description    string     `json:"description"`
	Price          float64    `json:"price"`
	Image          string     `json:"image"`
	CreatedAt      time.Time  `json:"createdAt"`
	UpdatedAt      time.Time  `json:"updatedAt"`
}

type OtherBrandInput struct {
	Name        *string         `json:"name"`
	Description *string         `json:"description"`
	Status      *string         `json:"status"`
	RemoveLogo  shared.FlexBool `json:"removeLogo"`
}

type OtherProductInput struct {
	Name         *string            `json:"name"`
	OtherBrandID *string            `json:"otherBrandId"`
	Description  *string            `json:"description"`
	Price        *shared.FlexString `json:"price"`
	RemoveImage  shared.FlexBool    `json:"removeImage"`
}
