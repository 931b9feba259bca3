package quotations

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/quoteroom/quoteroom/internal/platform/httpx"
	"github.com/quoteroom/quoteroom/internal/sales/shared"
)

type ItemRequest struct {
	ProductID   string  `json:"productId"`
	ProductName string  `json:"productName"`
	Quantity    float64 `json:"quantity" validate:"gte=1"`
	UnitPrice   float64 `json:"unitPrice" validate:"gte=0"`
}

type AreaRequest struct {
	AreaRoomTypeID   string        `json:"areaRoomTypeId"`
	AreaRoomTypeName string        `json:"areaRoomTypeName"`
	Items            []ItemRequest `json:"items" validate:"dive"`
}

type CreateQuotationRequest struct {
	QuotationNumber string         `json:"quotationNumber" validate:"max=50"`
	DealerID        *uuid.UUID     `json:"dealerId"`
	ClientID        *uuid.UUID     `json:"clientId"`
	TemplateID      *uuid.UUID     `json:"templateId"`
	Client          ClientSnapshot `json:"client"`
	Status          Status         `json:"status" validate:"omitempty,oneof=Draft Sent Accepted Rejected Expired"`
	Areas           []AreaRequest  `json:"areas" validate:"dive"`
	Items           []ItemRequest  `json:"items" validate:"dive"`
	Discount        float64        `json:"discount" validate:"gte=0"`
	ValidUntil      string         `json:"validUntil"`
	Notes           string         `json:"notes"`
}

// UpdateQuotationRequest replaces the supplied fields. Client-side totals are
// ignored; they are recomputed whenever areas, items or discount change.
type UpdateQuotationRequest struct {
	QuotationNumber *string         `json:"quotationNumber,omitempty" validate:"omitnil,min=1,max=50"`
	DealerID        *uuid.UUID      `json:"dealerId,omitempty"`
	ClientID        *uuid.UUID      `json:"clientId,omitempty"`
	TemplateID      *uuid.UUID      `json:"templateId,omitempty"`
	Client          *ClientSnapshot `json:"client,omitempty"`
	Status          *Status         `json:"status,omitempty" validate:"omitnil,oneof=Draft Sent Accepted Rejected Expired"`
	Areas           *[]AreaRequest  `json:"areas,omitempty" validate:"omitnil,dive"`
	Items           *[]ItemRequest  `json:"items,omitempty" validate:"omitnil,dive"`
	Discount        *float64        `json:"discount,omitempty" validate:"omitnil,gte=0"`
	ValidUntil      *string         `json:"validUntil,omitempty"`
	Notes           *string         `json:"notes,omitempty"`
}

type ListQuotationsRequest struct {
	DealerID *uuid.UUID
	Status   Status
	Search   string
	Limit    int
	Offset   int
}

func toItems(in []ItemRequest) []shared.Item {
	out := make([]shared.Item, len(in))
	for i, it := range in {
		out[i] = shared.Item{
			ProductID:   strings.TrimSpace(it.ProductID),
			ProductName: strings.TrimSpace(it.ProductName),
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
		}
	}
	return out
}

func toAreas(in []AreaRequest) []shared.Area {
	out := make([]shared.Area, len(in))
	for i, a := range in {
		out[i] = shared.Area{
			AreaRoomTypeID:   strings.TrimSpace(a.AreaRoomTypeID),
			AreaRoomTypeName: strings.TrimSpace(a.AreaRoomTypeName),
			Items:            toItems(a.Items),
		}
	}
	return out
}

// parseDate accepts a calendar date or an RFC 3339 timestamp. A bare date
// stays valid until the end of that day (UTC).
func parseDate(raw string) (*time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return &t, nil
	}
	d, err := time.Parse(time.DateOnly, raw)
	if err != nil {
		return nil, fmt.Errorf("%w: validUntil must be a date", httpx.ErrValidation)
	}
	end := d.Add(24*time.Hour - time.Nanosecond)
	return &end, nil
}
