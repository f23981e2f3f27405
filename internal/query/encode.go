package query

import (
	"fmt"
	"math"
	"net/url"
	"strconv"
	"strings"
)

// Encode renders q in the wire grammar. Page and size are always emitted;
// sort, filter and search only when non-empty. For any q accepted by
// Validate, Parse(EncodeMap(q)) reproduces q.
func Encode(q Query) url.Values {
	values := url.Values{}
	for key, value := range EncodeMap(q) {
		values.Set(key, value)
	}
	return values
}

// EncodeMap is Encode as a flat map.
func EncodeMap(q Query) map[string]string {
	raw := map[string]string{
		KeyPage: strconv.Itoa(q.Page),
		KeySize: strconv.Itoa(q.Size),
	}

	if len(q.Sort) > 0 {
		parts := make([]string, 0, len(q.Sort))
		for _, s := range q.Sort {
			parts = append(parts, s.Field+pairSep+string(s.Direction))
		}
		raw[KeySort] = strings.Join(parts, entrySep)
	}

	if len(q.Filter) > 0 {
		parts := make([]string, 0, len(q.Filter))
		for _, f := range q.Filter {
			parts = append(parts, encodeFilter(f)...)
		}
		if len(parts) > 0 {
			raw[KeyFilter] = strings.Join(parts, entrySep)
		}
	}

	if q.Search != "" {
		raw[KeySearch] = q.Search
	}
	return raw
}

func encodeFilter(f Filter) []string {
	switch f.Value.Kind {
	case ValueRange:
		var parts []string
		if f.Value.Range.Min != nil {
			parts = append(parts, f.Field+minSuffix+pairSep+formatNumber(*f.Value.Range.Min))
		}
		if f.Value.Range.Max != nil {
			parts = append(parts, f.Field+maxSuffix+pairSep+formatNumber(*f.Value.Range.Max))
		}
		return parts
	case ValueList:
		return []string{f.Field + pairSep + strings.Join(f.Value.List, listSep)}
	case ValueNumber:
		return []string{f.Field + pairSep + formatNumber(f.Value.Number)}
	default:
		return []string{f.Field + pairSep + f.Value.Text}
	}
}

func formatNumber(n float64) string {
	return strconv.FormatFloat(n, 'f', -1, 64)
}

// Validate reports whether q is in the domain over which encoding and
// parsing are inverse: every value has the shape its field policy parses to
// and no token contains a separator of the grammar.
func (p *Parser) Validate(q Query) error {
	if q.Page < 1 || q.Page > MaxPageNumber {
		return fmt.Errorf("page %d: must be between 1 and %d", q.Page, MaxPageNumber)
	}
	if q.Size < 1 || q.Size > MaxSize {
		return fmt.Errorf("size %d: must be between 1 and %d", q.Size, MaxSize)
	}

	for _, s := range q.Sort {
		if err := checkName(s.Field); err != nil {
			return fmt.Errorf("sort: %w", err)
		}
		if !s.Direction.Valid() {
			return fmt.Errorf("sort %s: invalid direction %q", s.Field, s.Direction)
		}
	}

	ranged := make(map[string]bool)
	for _, f := range q.Filter {
		if err := checkName(f.Field); err != nil {
			return fmt.Errorf("filter: %w", err)
		}
		if _, _, isBound := splitBound(f.Field); isBound {
			return fmt.Errorf("filter %s: name carries a bound suffix", f.Field)
		}
		if Reserved(f.Field) {
			return fmt.Errorf("filter %s: name is reserved", f.Field)
		}
		if err := p.checkValue(f); err != nil {
			return fmt.Errorf("filter %s: %w", f.Field, err)
		}
		if f.Value.Kind == ValueRange {
			if ranged[f.Field] {
				return fmt.Errorf("filter %s: more than one range", f.Field)
			}
			ranged[f.Field] = true
		}
	}
	return nil
}

// Validate checks q against the transaction policy table.
func Validate(q Query) error {
	return transactionParser.Validate(q)
}

func (p *Parser) checkValue(f Filter) error {
	policy := p.policies.Lookup(f.Field)
	v := f.Value

	if v.Kind == ValueRange {
		if !policy.Kind.IsRange() {
			return fmt.Errorf("range on a field without range support")
		}
		if v.Range.Empty() {
			return fmt.Errorf("range has no bounds")
		}
		for _, b := range []*float64{v.Range.Min, v.Range.Max} {
			if b != nil && !finite(*b) {
				return fmt.Errorf("bound is not finite")
			}
		}
		return nil
	}

	switch policy.Kind {
	case KindArray:
		if v.Kind != ValueList || len(v.List) == 0 {
			return fmt.Errorf("expected a non-empty list")
		}
		for _, token := range v.List {
			if !policy.Allows(token) {
				return fmt.Errorf("token %q is not allowed", token)
			}
			if strings.Contains(token, listSep) || strings.Contains(token, entrySep) {
				return fmt.Errorf("token %q contains a separator", token)
			}
		}
	case KindRangeNumeric:
		if v.Kind != ValueNumber || !finite(v.Number) {
			return fmt.Errorf("expected a finite number or a range")
		}
	default:
		if v.Kind != ValueText {
			return fmt.Errorf("expected text, got %s", v.Kind)
		}
		if strings.Contains(v.Text, entrySep) {
			return fmt.Errorf("text contains %q", entrySep)
		}
	}
	return nil
}

func checkName(name string) error {
	if name == "" {
		return fmt.Errorf("empty field name")
	}
	if strings.ContainsAny(name, entrySep+pairSep) {
		return fmt.Errorf("field %q contains a separator", name)
	}
	return nil
}

func finite(n float64) bool {
	return !math.IsNaN(n) && !math.IsInf(n, 0)
}
