package quotations

import (
	"time"

	"github.com/google/uuid"

	"github.com/quoteroom/quoteroom/internal/sales/shared"
)

type Status string

const (
	StatusDraft    Status = "Draft"
	StatusSent     Status = "Sent"
	StatusAccepted Status = "Accepted"
	StatusRejected Status = "Rejected"
	StatusExpired  Status = "Expired"
)

// ClientSnapshot is the client as it was when the quotation was written.
type ClientSnapshot struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

type Quotation struct {
	ID              uuid.UUID      `json:"id"`
	QuotationNumber string         `json:"quotationNumber"`
	DealerID        *uuid.UUID     `json:"dealerId"`
	ClientID        *uuid.UUID     `json:"clientId"`
	TemplateID      *uuid.UUID     `json:"templateId"`
	Client          ClientSnapshot `json:"client"`
	Status          Status         `json:"status"`
	EffectiveStatus Status         `json:"effectiveStatus"`
	Areas           []shared.Area  `json:"areas"`
	Items           []shared.Item  `json:"items"`
	Subtotal        float64        `json:"subtotal"`
	Tax             float64        `json:"tax"`
	Discount        float64        `json:"discount"`
	Total           float64        `json:"total"`
	ValidUntil      *time.Time     `json:"validUntil"`
	Notes           string         `json:"notes"`
	CreatedAt       time.Time      `json:"createdAt"`
	UpdatedAt       time.Time      `json:"updatedAt"`
}

// effectiveStatus reports Expired for open quotations past validUntil. The
// stored status is left untouched.
func (q Quotation) effectiveStatus(now time.Time) Status {
	if q.ValidUntil != nil && now.After(*q.ValidUntil) && (q.Status == StatusDraft || q.Status == StatusSent) {
		return StatusExpired
	}
	return q.Status
}

// reprice recomputes every item total and the aggregate amounts. Areas win
// over the legacy flat items when both are present, and the flat items are
// dropped so no unpriced line is stored.
func (q *Quotation) reprice() {
	var totals shared.Totals
	if len(q.Areas) > 0 {
		q.Areas, totals = shared.ComputeTotals(q.Areas, q.Discount)
		q.Items = nil
	} else {
		q.Items, totals = shared.ComputeItemTotals(q.Items, q.Discount)
	}
	q.Subtotal = totals.Subtotal
	q.Tax = totals.Tax
	q.Discount = totals.Discount
	q.Total = totals.Total
}
