package query

import (
	"slices"
	"strings"
)

// FieldKind decides how a filter field is parsed and translated.
type FieldKind int

const (
	// KindExact fields are matched verbatim as strings.
	KindExact FieldKind = iota
	// KindRangeNumeric fields accept numeric scalars and numeric ranges.
	KindRangeNumeric
	// KindRangeTemporal fields accept ranges of epoch milliseconds; the
	// store receives ISO-8601 bounds.
	KindRangeTemporal
	// KindArray fields accept OR-sets, optionally restricted to an enum.
	KindArray
)

// IsRange reports whether the kind supports .min/.max bounds.
func (k FieldKind) IsRange() bool {
	return k == KindRangeNumeric || k == KindRangeTemporal
}

// FieldPolicy is the static metadata of one filterable field.
type FieldPolicy struct {
	Kind FieldKind
	// Enum, when non-empty, is the closed domain of an array field.
	Enum []string
}

// Allows reports whether token belongs to the field's domain.
func (p FieldPolicy) Allows(token string) bool {
	if token == "" {
		return false
	}
	if len(p.Enum) == 0 {
		return true
	}
	return slices.Contains(p.Enum, token)
}

// PolicyTable maps field names to policies. Fields missing from the table
// are exact-match strings.
type PolicyTable map[string]FieldPolicy

// Lookup returns the policy of field.
func (t PolicyTable) Lookup(field string) FieldPolicy {
	if p, ok := t[field]; ok {
		return p
	}
	return FieldPolicy{Kind: KindExact}
}

// reservedSuffixes are the operator suffixes of the native store protocol.
var reservedSuffixes = []string{"_gte", "_lte", "_ne", "_like"}

// Reserved reports whether field would collide with a native store key:
// control parameters start with an underscore, q is full-text search and
// the operator suffixes turn an exact match into a comparison.
func Reserved(field string) bool {
	if strings.HasPrefix(field, "_") || field == "q" {
		return true
	}
	for _, suffix := range reservedSuffixes {
		if strings.HasSuffix(field, suffix) {
			return true
		}
	}
	return false
}

// Transaction statuses.
const (
	StatusCompleted = "completed"
	StatusPending   = "pending"
	StatusFailed    = "failed"
)

// Filterable transaction fields with a non-default policy.
const (
	FieldAmount        = "amount"
	FieldProcessingFee = "fees.processing_fee"
	FieldTimestamp     = "timestamp"
	FieldStatus        = "status"
	FieldMerchantName  = "merchant.name"
	FieldPaymentMethod = "payment_method.type"
)

// TransactionPolicies is the policy table of the transaction collection.
// Adding a filterable field is a change to this table only.
var TransactionPolicies = PolicyTable{
	FieldAmount:        {Kind: KindRangeNumeric},
	FieldProcessingFee: {Kind: KindRangeNumeric},
	FieldTimestamp:     {Kind: KindRangeTemporal},
	FieldStatus:        {Kind: KindArray, Enum: []string{StatusCompleted, StatusPending, StatusFailed}},
}
