package brands

import (
	"time"

	"github.com/google/uuid"
)

// Brand is a manufacturer whose products are quoted.
type Brand struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Status      string    `json:"status"`
	Logo        string    `json:"logo"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// ProductOrder is the manual display order of a brand's products.
type ProductOrder struct {
	BrandID    uuid.UUID   `json:"brandId"`
	ProductIDs []uuid.UUID `json:"productIds"`
	UpdatedAt  time.Time   `json:"updatedAt"`
}
