// Package seed generates sample transactions for a development record store.
package seed

import (
	"fmt"
	"math"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"

	"transaction_dashboard_backend/internal/transactions/transport"
)

// Timestamps fall inside [WindowStart, WindowEnd + 1 day).
var (
	WindowStart = time.Date(2025, time.May, 1, 0, 0, 0, 0, time.UTC)
	WindowEnd   = time.Date(2025, time.June, 30, 0, 0, 0, 0, time.UTC)
)

const timestampFormat = "2006-01-02T15:04:05Z"

var (
	merchantNames = []string{
		"Example Store", "Streaming Service", "Hotel Plaza", "Fresh Market",
		"Tech Gadgets", "Coffee Haven", "Book Nook", "Fitness Club",
		"Clothing Boutique", "Electronics Hub",
	}
	paymentMethods = []transport.PaymentMethod{
		{Type: "credit_card", Last4: "4242", Brand: "visa"},
		{Type: "credit_card", Last4: "1111", Brand: "mastercard"},
		{Type: "debit_card", Last4: "5678", Brand: "visa"},
		{Type: "paypal"},
		{Type: "credit_card", Last4: "9999", Brand: "amex"},
	}
	statuses    = []string{"completed", "pending", "failed"}
	currencies  = []string{"USD", "EUR", "GBP"}
	senderNames = []string{
		"John Doe", "Alice Smith", "Robert Johnson", "Emma Wilson",
		"Michael Brown", "Sarah Davis", "David Lee", "Laura Martinez",
		"James Taylor", "Emily Clark",
	}
	descriptions = []string{
		"Online Purchase", "Subscription Renewal", "Hotel Booking", "Grocery Store Purchase",
		"Electronics Purchase", "Coffee Shop Order", "Book Purchase", "Gym Membership",
		"Clothing Purchase", "Restaurant Order",
	}
)

// Generator builds random transactions from fixed presets.
type Generator struct {
	rng         *rand.Rand
	merchantIDs []string
}

// NewGenerator creates a generator drawing from rng. Each generator picks its
// own pool of merchant ids.
func NewGenerator(rng *rand.Rand) *Generator {
	ids := make([]string, len(merchantNames))
	for i := range ids {
		ids[i] = fmt.Sprintf("mcht_%d", 100000+rng.IntN(900000))
	}
	return &Generator{rng: rng, merchantIDs: ids}
}

// Transaction returns one random transaction.
func (g *Generator) Transaction() transport.Transaction {
	amount := round2(10 + g.rng.Float64()*490)
	currency := pick(g.rng, currencies)

	return transport.Transaction{
		ID:          "txn_" + uuid.NewString()[:8],
		Amount:      amount,
		Currency:    currency,
		Status:      pick(g.rng, statuses),
		Timestamp:   g.timestamp(),
		Description: pick(g.rng, descriptions),
		Merchant: transport.Merchant{
			Name: pick(g.rng, merchantNames),
			ID:   pick(g.rng, g.merchantIDs),
		},
		PaymentMethod: pick(g.rng, paymentMethods),
		Sender: transport.Party{
			Name:      pick(g.rng, senderNames),
			AccountID: g.code("acc"),
		},
		Receiver: transport.Party{
			Name:      pick(g.rng, merchantNames),
			AccountID: g.code("acc"),
		},
		Fees: transport.Fees{
			ProcessingFee: round2(amount * (0.01 + g.rng.Float64()*0.02)),
			Currency:      currency,
		},
		Metadata: transport.Metadata{
			OrderID:    g.code("ord"),
			CustomerID: g.code("cust"),
		},
	}
}

// Transactions returns n random transactions.
func (g *Generator) Transactions(n int) []transport.Transaction {
	out := make([]transport.Transaction, 0, max(n, 0))
	for range n {
		out = append(out, g.Transaction())
	}
	return out
}

func (g *Generator) timestamp() string {
	days := int(WindowEnd.Sub(WindowStart).Hours() / 24)
	offset := time.Duration(g.rng.IntN(days+1))*24*time.Hour + time.Duration(g.rng.IntN(86400))*time.Second
	return WindowStart.Add(offset).Format(timestampFormat)
}

func (g *Generator) code(prefix string) string {
	return fmt.Sprintf("%s_%d", prefix, 10000+g.rng.IntN(90000))
}

func pick[T any](rng *rand.Rand, values []T) T {
	return values[rng.IntN(len(values))]
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
