package service

import (
	"slices"

	"transaction_dashboard_backend/internal/transactions/transport"
)

// Aggregate computes collection facets in a single pass over records. An
// empty collection yields zero amount bounds, empty timestamp bounds and
// empty value sets. Timestamps are compared as ISO-8601 strings.
func Aggregate(records []transport.Transaction) transport.MetadataResponse {
	out := transport.MetadataResponse{
		MerchantName:  []string{},
		PaymentMethod: []string{},
	}
	if len(records) == 0 {
		return out
	}

	merchants := make(map[string]struct{})
	methods := make(map[string]struct{})

	first := records[0]
	out.Amount = transport.NumericRange{Min: first.Amount, Max: first.Amount}
	out.Timestamp = transport.TemporalRange{Min: first.Timestamp, Max: first.Timestamp}

	for _, r := range records {
		out.Amount.Min = min(out.Amount.Min, r.Amount)
		out.Amount.Max = max(out.Amount.Max, r.Amount)
		out.Timestamp.Min = min(out.Timestamp.Min, r.Timestamp)
		out.Timestamp.Max = max(out.Timestamp.Max, r.Timestamp)

		if r.Merchant.Name != "" {
			merchants[r.Merchant.Name] = struct{}{}
		}
		if r.PaymentMethod.Type != "" {
			methods[r.PaymentMethod.Type] = struct{}{}
		}
	}

	out.MerchantName = sortedKeys(merchants)
	out.PaymentMethod = sortedKeys(methods)
	return out
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
