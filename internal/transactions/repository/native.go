package repository

import (
	"net/url"
	"strconv"
	"strings"
	"time"

	"transaction_dashboard_backend/internal/query"
)

// Native parameter names understood by the record store.
const (
	ParamSort   = "_sort"
	ParamOrder  = "_order"
	ParamStart  = "_start"
	ParamLimit  = "_limit"
	ParamSearch = "q"

	SuffixGTE = "_gte"
	SuffixLTE = "_lte"
)

// ISOLayout renders temporal bounds as UTC with millisecond precision.
const ISOLayout = "2006-01-02T15:04:05.000Z"

// NativeParam is one key=value pair of the store's query string. Keys may
// repeat.
type NativeParam struct {
	Key   string
	Value string
}

// TranslatedRequest is a list query expressed in the store's native syntax.
// SortFields and SortOrders are positionally aligned.
type TranslatedRequest struct {
	SortFields []string
	SortOrders []string
	Params     []NativeParam
	FullText   string
	Offset     int
	Limit      int
}

// CountValues returns the filter, search and sort parameters without
// pagination.
func (r TranslatedRequest) CountValues() url.Values {
	values := url.Values{}
	if len(r.SortFields) > 0 {
		values.Set(ParamSort, strings.Join(r.SortFields, ","))
		values.Set(ParamOrder, strings.Join(r.SortOrders, ","))
	}
	for _, p := range r.Params {
		values.Add(p.Key, p.Value)
	}
	if r.FullText != "" {
		values.Set(ParamSearch, r.FullText)
	}
	return values
}

// PageValues returns CountValues plus offset and limit.
func (r TranslatedRequest) PageValues() url.Values {
	values := r.CountValues()
	values.Set(ParamStart, strconv.Itoa(r.Offset))
	values.Set(ParamLimit, strconv.Itoa(r.Limit))
	return values
}

// Translator maps list queries onto native store parameters using a field
// policy table. It does no I/O.
type Translator struct {
	policies query.PolicyTable
}

// NewTranslator creates a translator bound to policies.
func NewTranslator(policies query.PolicyTable) *Translator {
	return &Translator{policies: policies}
}

// Translate maps q to the native request.
func (t *Translator) Translate(q query.Query) TranslatedRequest {
	req := TranslatedRequest{
		FullText: q.Search,
		Offset:   q.Offset(),
		Limit:    q.Size,
	}

	for _, s := range q.Sort {
		req.SortFields = append(req.SortFields, s.Field)
		req.SortOrders = append(req.SortOrders, string(s.Direction))
	}

	for _, f := range q.Filter {
		req.Params = append(req.Params, t.translateFilter(f)...)
	}
	return req
}

func (t *Translator) translateFilter(f query.Filter) []NativeParam {
	switch f.Value.Kind {
	case query.ValueRange:
		format := formatDecimal
		if t.policies.Lookup(f.Field).Kind == query.KindRangeTemporal {
			format = formatISO
		}
		var params []NativeParam
		if f.Value.Range.Min != nil {
			params = append(params, NativeParam{Key: f.Field + SuffixGTE, Value: format(*f.Value.Range.Min)})
		}
		if f.Value.Range.Max != nil {
			params = append(params, NativeParam{Key: f.Field + SuffixLTE, Value: format(*f.Value.Range.Max)})
		}
		return params
	case query.ValueList:
		params := make([]NativeParam, 0, len(f.Value.List))
		for _, item := range f.Value.List {
			params = append(params, NativeParam{Key: f.Field, Value: item})
		}
		return params
	case query.ValueNumber:
		return []NativeParam{{Key: f.Field, Value: formatDecimal(f.Value.Number)}}
	default:
		return []NativeParam{{Key: f.Field, Value: f.Value.Text}}
	}
}

func formatDecimal(n float64) string {
	return strconv.FormatFloat(n, 'f', -1, 64)
}

// formatISO renders epoch milliseconds as an ISO-8601 UTC instant.
func formatISO(ms float64) string {
	return time.UnixMilli(int64(ms)).UTC().Format(ISOLayout)
}
