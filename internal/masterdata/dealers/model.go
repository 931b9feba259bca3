package dealers

import (
	"time"

	"github.com/google/uuid"

	"github.com/quoteroom/quoteroom/internal/masterdata/shared"
)

// Dealer owns quotations issued through it.
type Dealer struct {
	ID            uuid.UUID `json:"id"`
	Name          string    `json:"name"`
	ContactPerson string    `json:"contactPerson"`
	Email         string    `json:"email"`
	Phone         string    `json:"phone"`
	Address       string    `json:"address"`
	Status        string    `json:"status"`
	Logo          string    `json:"logo"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// DealerInput carries create and patch fields. Nil means "leave unchanged".
type DealerInput struct {
	Name          *string         `json:"name"`
	ContactPerson *string         `json:"contactPerson"`
	Email         *string         `json:"email"`
	Phone         *string         `json:"phone"`
	Address       *string         `json:"address"`
	Status        *string         `json:"status"`
	RemoveLogo    shared.FlexBool `json:"removeLogo"`
}
