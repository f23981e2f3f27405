// Package query defines the storage-agnostic list query (sort, filter,
// search, page, size), its wire grammar, and the field policy table that
// decides how each filter field is coerced and translated.
package query

import "math"

// Wire keys of the external query language.
const (
	KeySort   = "sort"
	KeyFilter = "filter"
	KeySearch = "search"
	KeyPage   = "page"
	KeySize   = "size"
)

// Pagination defaults and limits.
const (
	DefaultPage = 1
	DefaultSize = 10
	MaxSize     = 100

	// MaxPageNumber keeps (page-1)*size within an int for every legal size.
	MaxPageNumber = math.MaxInt / MaxSize
)

// Grammar separators.
const (
	entrySep = ","
	pairSep  = ":"
	listSep  = "|"

	minSuffix = ".min"
	maxSuffix = ".max"
)

// Direction is a sort direction.
type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

// Valid reports whether d is asc or desc.
func (d Direction) Valid() bool {
	return d == Asc || d == Desc
}

// Sort is one sort key. The first key of a query is primary, later keys
// break ties.
type Sort struct {
	Field     string
	Direction Direction
}

// ValueKind tags the variant held by a Value.
type ValueKind int

const (
	ValueText ValueKind = iota
	ValueNumber
	ValueList
	ValueRange
)

func (k ValueKind) String() string {
	switch k {
	case ValueText:
		return "text"
	case ValueNumber:
		return "number"
	case ValueList:
		return "list"
	case ValueRange:
		return "range"
	default:
		return "unknown"
	}
}

// Range is an inclusive bound pair. At least one bound is set in a valid
// query. Temporal bounds are epoch milliseconds.
type Range struct {
	Min *float64
	Max *float64
}

// Empty reports whether neither bound is set.
func (r Range) Empty() bool {
	return r.Min == nil && r.Max == nil
}

// Value is a filter value: exactly one of Text, Number, List or Range is
// meaningful, as selected by Kind. Build it with the constructors.
type Value struct {
	Kind   ValueKind
	Text   string
	Number float64
	List   []string
	Range  Range
}

// TextValue returns an exact-match string value.
func TextValue(s string) Value {
	return Value{Kind: ValueText, Text: s}
}

// NumberValue returns an exact-match numeric value.
func NumberValue(n float64) Value {
	return Value{Kind: ValueNumber, Number: n}
}

// ListValue returns an OR-set value.
func ListValue(items ...string) Value {
	return Value{Kind: ValueList, List: items}
}

// RangeValue returns a range value. Pass nil for an open bound.
func RangeValue(min, max *float64) Value {
	return Value{Kind: ValueRange, Range: Range{Min: min, Max: max}}
}

// Bound is a helper for building range values inline.
func Bound(v float64) *float64 {
	return &v
}

// Filter binds a value to a field.
type Filter struct {
	Field string
	Value Value
}

// Query is the canonical list request.
type Query struct {
	Sort   []Sort
	Filter []Filter
	Search string
	Page   int
	Size   int
}

// New returns an empty query at the default page and size.
func New() Query {
	return Query{Page: DefaultPage, Size: DefaultSize}
}

// Offset returns the zero-based index of the first record of the page.
func (q Query) Offset() int {
	return (q.Page - 1) * q.Size
}

// MaxPage returns ceil(total/size), which is zero exactly when total is zero.
func MaxPage(total, size int) int {
	if total <= 0 || size <= 0 {
		return 0
	}
	return (total + size - 1) / size
}
