// Package lookups manages the small named reference lists: product categories,
// product functions and area/room types.
package lookups

import (
	"time"

	"github.com/google/uuid"
)

// Kind identifies one lookup list and the table behind it.
type Kind struct {
	Table  string
	Entity string
}

var (
	ProductCategories = Kind{Table: "product_categories", Entity: "product category"}
	ProductFunctions  = Kind{Table: "product_functions", Entity: "product function"}
	AreaRoomTypes     = Kind{Table: "area_room_types", Entity: "area room type"}
)

// Item is one entry of a lookup list.
type Item struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// ItemInput carries create and patch fields.
type ItemInput struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}
