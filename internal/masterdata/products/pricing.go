package products

import (
	"math"
	"strconv"
	"strings"
)

// ResolvePrice turns raw form input into a stored price: zero when the product is
// price-on-request, otherwise the parsed amount with anything unparsable, negative
// or non-finite collapsing to zero.
func ResolvePrice(isPOR bool, raw string) float64 {
	if isPOR {
		return 0
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0
	}
	return v
}

func formatPrice(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
