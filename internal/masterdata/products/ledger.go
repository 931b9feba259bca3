package products

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Ledger is the part of a transaction that maintains the price-change timeline.
type Ledger interface {
	CloseOpenPriceChange(ctx context.Context, productID uuid.UUID, at time.Time) error
	InsertPriceChange(ctx context.Context, change PriceChange) error
}

// applyPrice moves p to newPrice at now. When the price differs it appends a
// history point, closes the open ledger row and opens a new one, all stamped with
// the same instant. It reports whether anything changed.
func applyPrice(ctx context.Context, ledger Ledger, p *Product, newPrice float64, isPOR bool, note string, now time.Time) (bool, error) {
	p.IsPOR = isPOR
	if newPrice == p.Price {
		return false, nil
	}

	p.PriceHistory = append(p.PriceHistory, PricePoint{Price: newPrice, Date: now})
	p.Price = newPrice

	if err := ledger.CloseOpenPriceChange(ctx, p.ID, now); err != nil {
		return false, err
	}
	if err := ledger.InsertPriceChange(ctx, PriceChange{
		ID:            uuid.New(),
		ProductID:     p.ID,
		Price:         newPrice,
		IsPOR:         isPOR,
		Note:          note,
		EffectiveFrom: now,
	}); err != nil {
		return false, err
	}
	return true, nil
}
