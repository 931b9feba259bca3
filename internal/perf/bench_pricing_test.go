package perf

import (
	"fmt"
	"io"
	"sort"
	"testing"
	"time"

	"github.com/quoteroom/quoteroom/internal/sales/shared"
	"github.com/quoteroom/quoteroom/internal/view"
)

func largeQuotation(areas, itemsPerArea int) []shared.Area {
	out := make([]shared.Area, areas)
	for i := range out {
		items := make([]shared.Item, itemsPerArea)
		for j := range items {
			items[j] = shared.Item{
				ProductID:   fmt.Sprintf("p-%d-%d", i, j),
				ProductName: fmt.Sprintf("Product %d", j),
				Quantity:    float64(j%7 + 1),
				UnitPrice:   12.35 + float64(j),
			}
		}
		out[i] = shared.Area{AreaRoomTypeName: fmt.Sprintf("Room %d", i), Items: items}
	}
	return out
}

func TestQuotationPricingLatencyTargets(t *testing.T) {
	areas := largeQuotation(20, 50)
	samples := make([]time.Duration, 0, 20)
	for i := 0; i < 20; i++ {
		start := time.Now()
		_, totals := shared.ComputeTotals(areas, 100)
		samples = append(samples, time.Since(start))
		if totals.Total <= 0 {
			t.Fatalf("unexpected total %f", totals.Total)
		}
	}
	if p95 := percentile95(samples); p95 > 250*time.Millisecond {
		t.Fatalf("pricing latency regression: p95=%s", p95)
	}
}

func BenchmarkComputeTotals(b *testing.B) {
	areas := largeQuotation(10, 30)
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		shared.ComputeTotals(areas, 50)
	}
}

type printItem struct {
	AreaRoomTypeName string
	ProductName      string
	Quantity         float64
	UnitPrice        float64
	Total            float64
}

type printProps struct {
	QuotationNumber string
	EffectiveStatus string
	CreatedAt       time.Time
	ValidUntil      *time.Time
	Client          struct{ Name, Email, Phone, Address string }
	Company         any
	Dealer          any
	Items           []printItem
	Subtotal        float64
	Tax             float64
	TaxRate         float64
	Discount        float64
	Total           float64
	Notes           string
	CoverImage      string
	ProposalNote    string
	ClosingNote     string
	ClosingImage    string
	AboutText       string
	AboutImage      string
}

func BenchmarkPrintQuotation(b *testing.B) {
	engine, err := view.NewEngine()
	if err != nil {
		b.Fatal(err)
	}
	props := printProps{QuotationNumber: "QT-202501-0001", EffectiveStatus: "Draft", CreatedAt: time.Now(), TaxRate: 0.18}
	for _, a := range largeQuotation(5, 20) {
		for _, it := range a.Items {
			props.Items = append(props.Items, printItem{
				AreaRoomTypeName: a.AreaRoomTypeName,
				ProductName:      it.ProductName,
				Quantity:         it.Quantity,
				UnitPrice:        it.UnitPrice,
				Total:            it.Quantity * it.UnitPrice,
			})
		}
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if err := engine.Execute(io.Discard, "quotation.html", props); err != nil {
			b.Fatal(err)
		}
	}
}

func percentile95(samples []time.Duration) time.Duration {
	if len(samples) == 0 {
		return 0
	}
	sorted := append([]time.Duration(nil), samples...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
	index := int(float64(len(sorted)-1) * 0.95)
	return sorted[index]
}
