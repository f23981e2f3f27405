package query

import (
	"math"
	"net/url"
	"strconv"
	"strings"

	"transaction_dashboard_backend/platform/apperr"
)

// MalformedQueryMessage is the message of every parse failure.
const MalformedQueryMessage = "malformed query"

// FieldError locates one rejected part of a raw query.
type FieldError struct {
	Key     string `json:"key"`
	Entry   string `json:"entry,omitempty"`
	Message string `json:"message"`
}

// IsMalformed reports whether err is a parse failure.
func IsMalformed(err error) bool {
	return apperr.Is(err, apperr.KindValidation)
}

// Parser decodes raw wire parameters into a Query using a policy table.
type Parser struct {
	policies PolicyTable
}

// NewParser returns a parser bound to policies.
func NewParser(policies PolicyTable) *Parser {
	return &Parser{policies: policies}
}

var transactionParser = NewParser(TransactionPolicies)

// Parse decodes raw with the transaction policy table.
func Parse(raw map[string]string) (Query, error) {
	return transactionParser.Parse(raw)
}

// FromValues flattens URL query values to the first value of each key.
func FromValues(values url.Values) map[string]string {
	raw := make(map[string]string, len(values))
	for key := range values {
		raw[key] = values.Get(key)
	}
	return raw
}

// Parse decodes raw into a Query. Any entry that cannot be coerced fails the
// whole parse; the returned error is a validation *apperr.Error whose
// details list every rejected entry. Empty sort, filter and search inputs
// are not errors.
func (p *Parser) Parse(raw map[string]string) (Query, error) {
	q := New()
	var errs []FieldError

	q.Sort = parseSort(raw[KeySort], &errs)
	q.Filter = p.parseFilter(raw[KeyFilter], &errs)
	q.Search = raw[KeySearch]

	if v := raw[KeyPage]; v != "" {
		page, err := strconv.Atoi(v)
		switch {
		case err != nil || page < 1:
			errs = append(errs, FieldError{Key: KeyPage, Entry: v, Message: "must be a positive integer"})
		case page > MaxPageNumber:
			errs = append(errs, FieldError{Key: KeyPage, Entry: v, Message: "must be at most " + strconv.Itoa(MaxPageNumber)})
		default:
			q.Page = page
		}
	}
	if v := raw[KeySize]; v != "" {
		size, err := strconv.Atoi(v)
		if err != nil || size < 1 {
			errs = append(errs, FieldError{Key: KeySize, Entry: v, Message: "must be a positive integer"})
		} else {
			q.Size = min(size, MaxSize)
		}
	}

	if len(errs) > 0 {
		return Query{}, apperr.Validation(MalformedQueryMessage).WithDetails(errs)
	}
	return q, nil
}

func parseSort(raw string, errs *[]FieldError) []Sort {
	if raw == "" {
		return nil
	}

	var sorts []Sort
	for _, entry := range strings.Split(raw, entrySep) {
		if entry == "" {
			continue
		}
		field, dir, _ := strings.Cut(entry, pairSep)
		if field == "" {
			*errs = append(*errs, FieldError{Key: KeySort, Entry: entry, Message: "missing field"})
			continue
		}
		direction := Asc
		if dir != "" {
			direction = Direction(dir)
		}
		if !direction.Valid() {
			*errs = append(*errs, FieldError{Key: KeySort, Entry: entry, Message: "direction must be asc or desc"})
			continue
		}
		sorts = append(sorts, Sort{Field: field, Direction: direction})
	}
	return sorts
}

func (p *Parser) parseFilter(raw string, errs *[]FieldError) []Filter {
	if raw == "" {
		return nil
	}

	var filters []Filter
	reject := func(entry, message string) {
		*errs = append(*errs, FieldError{Key: KeyFilter, Entry: entry, Message: message})
	}

	for _, entry := range strings.Split(raw, entrySep) {
		if entry == "" {
			continue
		}
		field, value, ok := strings.Cut(entry, pairSep)
		if !ok || field == "" {
			reject(entry, "expected field:value")
			continue
		}
		if base, _, _ := splitBound(field); Reserved(base) {
			reject(entry, "field name is reserved")
			continue
		}

		if base, isMin, isBound := splitBound(field); isBound {
			if !p.policies.Lookup(base).Kind.IsRange() {
				reject(entry, "field does not support range filtering")
				continue
			}
			n, err := parseNumber(value)
			if err != nil {
				reject(entry, "range bound must be a number")
				continue
			}
			filters = mergeBound(filters, base, isMin, n)
			continue
		}

		policy := p.policies.Lookup(field)
		switch policy.Kind {
		case KindArray:
			tokens := strings.Split(value, listSep)
			valid := true
			for _, token := range tokens {
				if !policy.Allows(token) {
					reject(entry, "value "+strconv.Quote(token)+" is not allowed")
					valid = false
					break
				}
			}
			if valid {
				filters = append(filters, Filter{Field: field, Value: ListValue(tokens...)})
			}
		case KindRangeNumeric:
			n, err := parseNumber(value)
			if err != nil {
				reject(entry, "value must be a number")
				continue
			}
			filters = append(filters, Filter{Field: field, Value: NumberValue(n)})
		default:
			filters = append(filters, Filter{Field: field, Value: TextValue(value)})
		}
	}
	return filters
}

// splitBound strips a .min/.max suffix from field.
func splitBound(field string) (base string, isMin bool, ok bool) {
	switch {
	case strings.HasSuffix(field, minSuffix):
		return strings.TrimSuffix(field, minSuffix), true, true
	case strings.HasSuffix(field, maxSuffix):
		return strings.TrimSuffix(field, maxSuffix), false, true
	default:
		return field, false, false
	}
}

// mergeBound sets one bound on the existing range entry of base, or
// appends a new range entry when there is none.
func mergeBound(filters []Filter, base string, isMin bool, n float64) []Filter {
	for i := range filters {
		if filters[i].Field == base && filters[i].Value.Kind == ValueRange {
			setBound(&filters[i].Value.Range, isMin, n)
			return filters
		}
	}
	var r Range
	setBound(&r, isMin, n)
	return append(filters, Filter{Field: base, Value: Value{Kind: ValueRange, Range: r}})
}

func setBound(r *Range, isMin bool, n float64) {
	if isMin {
		r.Min = &n
	} else {
		r.Max = &n
	}
}

func parseNumber(s string) (float64, error) {
	n, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(n) || math.IsInf(n, 0) {
		return 0, strconv.ErrSyntax
	}
	return n, nil
}
