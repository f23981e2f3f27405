package query

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestFromTableState_ClearedFilters(t *testing.T) {
	q, count := FromTableState(TableState{Filters: DefaultTableFilters(), Page: 1, Size: 10})

	if count != 0 {
		t.Fatalf("expected no active filters, got %d", count)
	}
	if len(q.Filter) != 0 {
		t.Fatalf("expected no filters, got %+v", q.Filter)
	}
	if q.Page != 1 || q.Size != 10 {
		t.Fatalf("expected page 1 size 10, got %d/%d", q.Page, q.Size)
	}
}

func TestFromTableState_AllFilters(t *testing.T) {
	state := TableState{
		Sort: []Sort{{Field: "amount", Direction: Desc}},
		Filters: TableFilters{
			DateRange:     []int64{1704067200000, 1706745600000},
			AmountRange:   [2]float64{50, 500},
			Status:        []string{"completed", "failed"},
			Merchant:      "Amazon",
			PaymentMethod: "paypal",
			Search:        "order",
		},
		Page: 2,
		Size: 250,
	}

	q, count := FromTableState(state)

	if count != 6 {
		t.Fatalf("expected 6 active filters, got %d", count)
	}
	want := Query{
		Sort: []Sort{{Field: "amount", Direction: Desc}},
		Filter: []Filter{
			{Field: "timestamp", Value: RangeValue(Bound(1704067200000), Bound(1706745600000))},
			{Field: "amount", Value: RangeValue(Bound(50), Bound(500))},
			{Field: "status", Value: ListValue("completed", "failed")},
			{Field: "merchant.name", Value: TextValue("Amazon")},
			{Field: "payment_method.type", Value: TextValue("paypal")},
		},
		Search: "order",
		Page:   2,
		Size:   MaxSize,
	}
	if diff := cmp.Diff(want, q); diff != "" {
		t.Fatalf("query mismatch (-want +got):\n%s", diff)
	}
	if err := Validate(q); err != nil {
		t.Fatalf("expected valid query, got %v", err)
	}
}

func TestFromTableState_HalfOpenDateRangeCountsButDoesNotFilter(t *testing.T) {
	filters := DefaultTableFilters()
	filters.DateRange = []int64{1704067200000, 0}

	q, count := FromTableState(TableState{Filters: filters})

	if count != 1 {
		t.Fatalf("expected 1 active filter, got %d", count)
	}
	if len(q.Filter) != 0 {
		t.Fatalf("expected no timestamp filter, got %+v", q.Filter)
	}
}
