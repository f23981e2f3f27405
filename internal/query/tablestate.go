package query

// Default amount slider bounds. A slider left at these bounds is not a filter.
const (
	DefaultAmountMin = 0
	DefaultAmountMax = 10000
)

// TableFilters is the filter panel state of the transactions table.
type TableFilters struct {
	// DateRange holds [from, to] in epoch milliseconds; it filters only when
	// both ends are set.
	DateRange     []int64
	AmountRange   [2]float64
	Status        []string
	Merchant      string
	PaymentMethod string
	Search        string
}

// DefaultTableFilters returns the cleared filter panel.
func DefaultTableFilters() TableFilters {
	return TableFilters{AmountRange: [2]float64{DefaultAmountMin, DefaultAmountMax}}
}

// TableState is the full state of the transactions table.
type TableState struct {
	Sort    []Sort
	Filters TableFilters
	Page    int
	Size    int
}

func (f TableFilters) amountIsDefault() bool {
	return f.AmountRange[0] == DefaultAmountMin && f.AmountRange[1] == DefaultAmountMax
}

func (f TableFilters) hasDateRange() bool {
	return len(f.DateRange) == 2 && f.DateRange[0] != 0 && f.DateRange[1] != 0
}

// FromTableState builds the list query for state and counts the active
// filters shown on the filter badge.
func FromTableState(state TableState) (Query, int) {
	q := New()
	if state.Page >= 1 {
		q.Page = state.Page
	}
	if state.Size >= 1 {
		q.Size = min(state.Size, MaxSize)
	}
	q.Sort = state.Sort
	q.Search = state.Filters.Search

	f := state.Filters
	if f.hasDateRange() {
		q.Filter = append(q.Filter, Filter{
			Field: FieldTimestamp,
			Value: RangeValue(Bound(float64(f.DateRange[0])), Bound(float64(f.DateRange[1]))),
		})
	}
	if !f.amountIsDefault() {
		q.Filter = append(q.Filter, Filter{
			Field: FieldAmount,
			Value: RangeValue(Bound(f.AmountRange[0]), Bound(f.AmountRange[1])),
		})
	}
	if len(f.Status) > 0 {
		q.Filter = append(q.Filter, Filter{Field: FieldStatus, Value: ListValue(f.Status...)})
	}
	if f.Merchant != "" {
		q.Filter = append(q.Filter, Filter{Field: FieldMerchantName, Value: TextValue(f.Merchant)})
	}
	if f.PaymentMethod != "" {
		q.Filter = append(q.Filter, Filter{Field: FieldPaymentMethod, Value: TextValue(f.PaymentMethod)})
	}

	return q, activeFilters(f)
}

func activeFilters(f TableFilters) int {
	count := 0
	if len(f.DateRange) > 0 {
		count++
	}
	if !f.amountIsDefault() {
		count++
	}
	if len(f.Status) > 0 {
		count++
	}
	for _, s := range []string{f.Merchant, f.PaymentMethod, f.Search} {
		if s != "" {
			count++
		}
	}
	return count
}
