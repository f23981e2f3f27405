package repository

import (
	"fmt"
	"net/url"
	"slices"
	"strconv"
	"strings"
	"time"

	"transaction_dashboard_backend/platform/apperr"
)

// Native query parameters.
const (
	paramSort   = "_sort"
	paramOrder  = "_order"
	paramStart  = "_start"
	paramEnd    = "_end"
	paramLimit  = "_limit"
	paramSearch = "q"

	opGTE  = "_gte"
	opLTE  = "_lte"
	opNE   = "_ne"
	opLike = "_like"
)

var operators = []string{opGTE, opLTE, opNE, opLike}

// instantPattern guards the timestamptz cast so that values which are not
// RFC 3339 instants never match instead of failing the query.
const instantPattern = `^\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}(\.\d+)?(Z|[+-]\d{2}:\d{2})$`

// FindQuery is a parameterised SELECT over one collection.
type FindQuery struct {
	SQL  string
	Args []any
}

type findBuilder struct {
	where   []string
	orderBy []string
	args    []any
}

func (b *findBuilder) arg(v any) string {
	b.args = append(b.args, v)
	return "$" + strconv.Itoa(len(b.args))
}

// BuildFind translates native params into SQL over the records table.
//
// Plain keys match the text of a dotted field against any of their values.
// Keys suffixed _gte/_lte compare as numbers when the value parses as one, as
// instants when it is an RFC 3339 timestamp and as strings otherwise. _ne and
// _like compare text, _like as a case-insensitive regular expression. q matches any string or number leaf.
// Records without an explicit sort keep insertion order.
func BuildFind(collection string, params url.Values) (FindQuery, error) {
	b := &findBuilder{}
	b.where = append(b.where, "collection = "+b.arg(collection))

	keys := make([]string, 0, len(params))
	for key := range params {
		keys = append(keys, key)
	}
	slices.Sort(keys)

	for _, key := range keys {
		values := params[key]
		switch key {
		case paramSort, paramOrder, paramStart, paramEnd, paramLimit:
			continue
		case paramSearch:
			if term := values[0]; term != "" {
				b.where = append(b.where, fmt.Sprintf(
					`EXISTS (SELECT 1 FROM jsonb_path_query(data, 'strict $.**') AS leaf
						WHERE jsonb_typeof(leaf) IN ('string', 'number') AND leaf #>> '{}' ILIKE %s)`,
					b.arg("%"+escapeLike(term)+"%"),
				))
			}
			continue
		}
		if strings.HasPrefix(key, "_") {
			continue
		}
		if err := b.addFilter(key, values); err != nil {
			return FindQuery{}, err
		}
	}

	if err := b.addSort(params.Get(paramSort), params.Get(paramOrder)); err != nil {
		return FindQuery{}, err
	}

	limit, offset, err := pagination(params)
	if err != nil {
		return FindQuery{}, err
	}

	var sql strings.Builder
	sql.WriteString("SELECT data FROM records WHERE ")
	sql.WriteString(strings.Join(b.where, " AND "))
	sql.WriteString(" ORDER BY ")
	sql.WriteString(strings.Join(append(b.orderBy, "seq ASC"), ", "))
	if limit >= 0 {
		sql.WriteString(" LIMIT " + b.arg(limit))
	}
	if offset > 0 {
		sql.WriteString(" OFFSET " + b.arg(offset))
	}

	return FindQuery{SQL: sql.String(), Args: b.args}, nil
}

func (b *findBuilder) addFilter(key string, values []string) error {
	field, op := splitOperator(key)
	path, err := fieldPath(field)
	if err != nil {
		return err
	}

	switch op {
	case opGTE, opLTE:
		cmp := ">="
		if op == opLTE {
			cmp = "<="
		}
		for _, v := range values {
			p := b.arg(path)
			if n, err := strconv.ParseFloat(v, 64); err == nil {
				b.where = append(b.where, fmt.Sprintf(
					"CASE WHEN jsonb_typeof(data #> %[1]s::text[]) = 'number' THEN (data #>> %[1]s::text[])::numeric %[2]s %[3]s ELSE false END",
					p, cmp, b.arg(n)))
			} else if ts, err := time.Parse(time.RFC3339Nano, v); err == nil {
				b.where = append(b.where, fmt.Sprintf(
					"CASE WHEN (data #>> %[1]s::text[]) ~ '%[4]s' THEN (data #>> %[1]s::text[])::timestamptz %[2]s %[3]s ELSE false END",
					p, cmp, b.arg(ts), instantPattern))
			} else {
				b.where = append(b.where, fmt.Sprintf("(data #>> %s::text[]) %s %s", p, cmp, b.arg(v)))
			}
		}
	case opNE:
		for _, v := range values {
			b.where = append(b.where, fmt.Sprintf("(data #>> %s::text[]) IS DISTINCT FROM %s", b.arg(path), b.arg(v)))
		}
	case opLike:
		for _, v := range values {
			b.where = append(b.where, fmt.Sprintf("(data #>> %s::text[]) ~* %s", b.arg(path), b.arg(v)))
		}
	default:
		b.where = append(b.where, fmt.Sprintf("(data #>> %s::text[]) = ANY(%s::text[])", b.arg(path), b.arg(values)))
	}
	return nil
}

func (b *findBuilder) addSort(fields, orders string) error {
	if fields == "" {
		return nil
	}
	orderList := strings.Split(orders, ",")
	for i, field := range strings.Split(fields, ",") {
		path, err := fieldPath(field)
		if err != nil {
			return err
		}
		dir := "ASC"
		if i < len(orderList) {
			switch strings.ToLower(orderList[i]) {
			case "", "asc":
			case "desc":
				dir = "DESC"
			default:
				return apperr.BadRequest(fmt.Sprintf("invalid sort order %q", orderList[i]))
			}
		}
		b.orderBy = append(b.orderBy, fmt.Sprintf("data #> %s::text[] %s", b.arg(path), dir))
	}
	return nil
}

// pagination resolves _start/_end/_limit. A limit of -1 means unbounded.
func pagination(params url.Values) (limit, offset int, err error) {
	limit = -1
	if offset, err = nonNegative(params, paramStart); err != nil {
		return 0, 0, err
	}
	if params.Get(paramEnd) != "" {
		end, err := nonNegative(params, paramEnd)
		if err != nil {
			return 0, 0, err
		}
		limit = max(end-offset, 0)
	}
	if params.Get(paramLimit) != "" {
		if limit, err = nonNegative(params, paramLimit); err != nil {
			return 0, 0, err
		}
	}
	return limit, offset, nil
}

func nonNegative(params url.Values, key string) (int, error) {
	raw := params.Get(key)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, apperr.BadRequest(fmt.Sprintf("%s must be a non-negative integer", key))
	}
	return n, nil
}

func splitOperator(key string) (field, op string) {
	for _, op := range operators {
		if strings.HasSuffix(key, op) && len(key) > len(op) {
			return strings.TrimSuffix(key, op), op
		}
	}
	return key, ""
}

// fieldPath splits a dotted field into its JSON path.
func fieldPath(field string) ([]string, error) {
	path := strings.Split(field, ".")
	for _, segment := range path {
		if segment == "" {
			return nil, apperr.BadRequest(fmt.Sprintf("invalid field %q", field))
		}
	}
	return path, nil
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
