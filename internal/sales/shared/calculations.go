// Package shared holds the quotation pricing rules used by create and update.
package shared

import "math"

// TaxRate applied to the quotation subtotal.
const TaxRate = 0.18

// Item is one priced line of a quotation.
type Item struct {
	ProductID   string  `json:"productId"`
	ProductName string  `json:"productName"`
	Quantity    float64 `json:"quantity"`
	UnitPrice   float64 `json:"unitPrice"`
	Total       float64 `json:"total"`
}

// Area groups items by room.
type Area struct {
	AreaRoomTypeID   string `json:"areaRoomTypeId"`
	AreaRoomTypeName string `json:"areaRoomTypeName"`
	Items            []Item `json:"items"`
}

type Totals struct {
	Subtotal float64 `json:"subtotal"`
	Tax      float64 `json:"tax"`
	Discount float64 `json:"discount"`
	Total    float64 `json:"total"`
}

// Amount coerces x to a usable money value: NaN, infinities and negatives become 0.
func Amount(x float64) float64 {
	if math.IsNaN(x) || math.IsInf(x, 0) || x < 0 {
		return 0
	}
	return x
}

// LineTotal is quantity times unit price after coercion, unrounded.
func LineTotal(quantity, unitPrice float64) float64 {
	return Amount(quantity) * Amount(unitPrice)
}

// RoundCents rounds half away from zero at the cent boundary, scaling by 100
// after the multiplication so results match the stored totals of existing quotations.
func RoundCents(x float64) float64 {
	return math.Round(x*100) / 100
}

// ComputeTotals returns a copy of areas with every item's total set, and the
// aggregate amounts. Tax is rounded to cents; the total never goes below zero.
func ComputeTotals(areas []Area, discount float64) ([]Area, Totals) {
	out := make([]Area, len(areas))
	var subtotal float64
	for i, a := range areas {
		items := make([]Item, len(a.Items))
		for j, it := range a.Items {
			it.Total = LineTotal(it.Quantity, it.UnitPrice)
			items[j] = it
			subtotal += it.Total
		}
		a.Items = items
		out[i] = a
	}
	return out, totalsFor(subtotal, discount)
}

// ComputeItemTotals prices a flat item list, as stored on legacy quotations.
func ComputeItemTotals(items []Item, discount float64) ([]Item, Totals) {
	areas, totals := ComputeTotals([]Area{{Items: items}}, discount)
	return areas[0].Items, totals
}

func totalsFor(subtotal, discount float64) Totals {
	tax := RoundCents(subtotal * TaxRate)
	d := Amount(discount)
	return Totals{
		Subtotal: subtotal,
		Tax:      tax,
		Discount: d,
		Total:    math.Max(0, subtotal+tax-d),
	}
}
