package query

import (
	"errors"
	"strconv"
	"testing"

	"transaction_dashboard_backend/platform/apperr"

	"github.com/google/go-cmp/cmp"
)

func TestParse_DashboardExample(t *testing.T) {
	raw := map[string]string{
		"filter": "status:completed|pending,amount.min:10,amount.max:100",
		"sort":   "timestamp:desc",
		"page":   "2",
		"size":   "5",
	}

	got, err := Parse(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := Query{
		Sort: []Sort{{Field: "timestamp", Direction: Desc}},
		Filter: []Filter{
			{Field: "status", Value: ListValue("completed", "pending")},
			{Field: "amount", Value: RangeValue(Bound(10), Bound(100))},
		},
		Page: 2,
		Size: 5,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("parsed query mismatch (-want +got):\n%s", diff)
	}
}

func TestParse_EmptyInputYieldsDefaults(t *testing.T) {
	got, err := Parse(map[string]string{"sort": "", "filter": "", "search": ""})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if diff := cmp.Diff(New(), got); diff != "" {
		t.Fatalf("expected defaults (-want +got):\n%s", diff)
	}
}

func TestParse_SortDirectionDefaultsToAsc(t *testing.T) {
	got, err := Parse(map[string]string{"sort": "amount,timestamp:desc"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []Sort{{Field: "amount", Direction: Asc}, {Field: "timestamp", Direction: Desc}}
	if diff := cmp.Diff(want, got.Sort); diff != "" {
		t.Fatalf("sort mismatch (-want +got):\n%s", diff)
	}
}

func TestParse_SearchIsVerbatim(t *testing.T) {
	got, err := Parse(map[string]string{"search": " Acme, Inc: store|1 "})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Search != " Acme, Inc: store|1 " {
		t.Fatalf("expected verbatim search, got %q", got.Search)
	}
}

func TestParse_ValueMayContainColon(t *testing.T) {
	got, err := Parse(map[string]string{"filter": "merchant.name:Shop: North"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got.Filter) != 1 || got.Filter[0].Value.Text != "Shop: North" {
		t.Fatalf("expected text value %q, got %+v", "Shop: North", got.Filter)
	}
}

func TestParse_RangeBoundsMergeIntoOneEntry(t *testing.T) {
	got, err := Parse(map[string]string{"filter": "amount.max:100,status:failed,amount.min:10"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []Filter{
		{Field: "amount", Value: RangeValue(Bound(10), Bound(100))},
		{Field: "status", Value: ListValue("failed")},
	}
	if diff := cmp.Diff(want, got.Filter); diff != "" {
		t.Fatalf("filter mismatch (-want +got):\n%s", diff)
	}
}

func TestParse_TemporalBoundsAreNumeric(t *testing.T) {
	got, err := Parse(map[string]string{"filter": "timestamp.min:1704067200000"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []Filter{{Field: "timestamp", Value: RangeValue(Bound(1704067200000), nil)}}
	if diff := cmp.Diff(want, got.Filter); diff != "" {
		t.Fatalf("filter mismatch (-want +got):\n%s", diff)
	}
}

func TestParse_NumericScalarIsCoerced(t *testing.T) {
	got, err := Parse(map[string]string{"filter": "fees.processing_fee:2.5,currency:USD"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []Filter{
		{Field: "fees.processing_fee", Value: NumberValue(2.5)},
		{Field: "currency", Value: TextValue("USD")},
	}
	if diff := cmp.Diff(want, got.Filter); diff != "" {
		t.Fatalf("filter mismatch (-want +got):\n%s", diff)
	}
}

func TestParse_SizeIsClamped(t *testing.T) {
	got, err := Parse(map[string]string{"size": "500"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Size != MaxSize {
		t.Fatalf("expected size %d, got %d", MaxSize, got.Size)
	}
}

func TestParse_LargestPageKeepsOffsetPositive(t *testing.T) {
	q, err := Parse(map[string]string{"page": strconv.Itoa(MaxPageNumber), "size": "100"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if q.Offset() < 0 {
		t.Fatalf("expected non-negative offset, got %d", q.Offset())
	}
}

func TestParse_Rejects(t *testing.T) {
	tests := []struct {
		name string
		raw  map[string]string
		key  string
	}{
		{name: "zero size", raw: map[string]string{"size": "0"}, key: KeySize},
		{name: "negative size", raw: map[string]string{"size": "-3"}, key: KeySize},
		{name: "fractional size", raw: map[string]string{"size": "2.5"}, key: KeySize},
		{name: "zero page", raw: map[string]string{"page": "0"}, key: KeyPage},
		{name: "text page", raw: map[string]string{"page": "two"}, key: KeyPage},
		{name: "page beyond offset range", raw: map[string]string{"page": strconv.Itoa(MaxPageNumber + 1), "size": "100"}, key: KeyPage},
		{name: "unknown status", raw: map[string]string{"filter": "status:completed|refunded"}, key: KeyFilter},
		{name: "empty status token", raw: map[string]string{"filter": "status:completed|"}, key: KeyFilter},
		{name: "non-numeric bound", raw: map[string]string{"filter": "amount.min:ten"}, key: KeyFilter},
		{name: "infinite bound", raw: map[string]string{"filter": "amount.max:Inf"}, key: KeyFilter},
		{name: "bound on exact field", raw: map[string]string{"filter": "currency.min:1"}, key: KeyFilter},
		{name: "non-numeric amount", raw: map[string]string{"filter": "amount:lots"}, key: KeyFilter},
		{name: "missing colon", raw: map[string]string{"filter": "amount"}, key: KeyFilter},
		{name: "bad direction", raw: map[string]string{"sort": "amount:up"}, key: KeySort},
		{name: "missing sort field", raw: map[string]string{"sort": ":desc"}, key: KeySort},
		{name: "native start key", raw: map[string]string{"filter": "_start:0,_limit:1"}, key: KeyFilter},
		{name: "native search key", raw: map[string]string{"filter": "q:coffee"}, key: KeyFilter},
		{name: "native operator suffix", raw: map[string]string{"filter": "merchant.name_like:^B"}, key: KeyFilter},
		{name: "bound on native key", raw: map[string]string{"filter": "_limit.max:1"}, key: KeyFilter},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.raw)
			if err == nil {
				t.Fatalf("expected error")
			}
			if !IsMalformed(err) {
				t.Fatalf("expected malformed query error, got %v", err)
			}

			var appErr *apperr.Error
			if !errors.As(err, &appErr) {
				t.Fatalf("expected *apperr.Error, got %T", err)
			}
			details, ok := appErr.Details.([]FieldError)
			if !ok || len(details) == 0 {
				t.Fatalf("expected field errors, got %#v", appErr.Details)
			}
			if details[0].Key != tt.key {
				t.Fatalf("expected error on %q, got %q", tt.key, details[0].Key)
			}
		})
	}
}

func TestParse_ReportsEveryRejectedEntry(t *testing.T) {
	_, err := Parse(map[string]string{
		"filter": "amount.min:x,status:unknown",
		"size":   "0",
	})

	var appErr *apperr.Error
	if !errors.As(err, &appErr) {
		t.Fatalf("expected *apperr.Error, got %v", err)
	}
	details := appErr.Details.([]FieldError)
	if len(details) != 3 {
		t.Fatalf("expected 3 field errors, got %d: %+v", len(details), details)
	}
}

func TestFromValues_TakesFirstValue(t *testing.T) {
	raw := FromValues(map[string][]string{"page": {"3", "4"}, "size": {"7"}})
	if raw["page"] != "3" || raw["size"] != "7" {
		t.Fatalf("unexpected flattening: %v", raw)
	}
}
