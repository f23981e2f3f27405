package seed

import (
	"math/rand/v2"
	"strings"
	"testing"
	"time"

	"transaction_dashboard_backend/internal/transactions/transport"
	"transaction_dashboard_backend/platform/validator"
)

func TestTransactions_AreValidRecords(t *testing.T) {
	gen := NewGenerator(rand.New(rand.NewPCG(1, 2)))
	val := validator.New()

	for _, txn := range gen.Transactions(200) {
		if err := val.Struct(txn); err != nil {
			t.Fatalf("generated invalid transaction %+v: %v", txn, err)
		}
		if !strings.HasPrefix(txn.ID, "txn_") || len(txn.ID) != 12 {
			t.Fatalf("unexpected id %q", txn.ID)
		}
		if txn.Fees.Currency != txn.Currency {
			t.Fatalf("expected fee currency %s, got %s", txn.Currency, txn.Fees.Currency)
		}
		if txn.Fees.ProcessingFee < txn.Amount*0.01-0.01 || txn.Fees.ProcessingFee > txn.Amount*0.03+0.01 {
			t.Fatalf("processing fee %v out of range for amount %v", txn.Fees.ProcessingFee, txn.Amount)
		}
	}
}

func TestTransactions_TimestampsInWindow(t *testing.T) {
	gen := NewGenerator(rand.New(rand.NewPCG(3, 4)))
	upper := WindowEnd.Add(24 * time.Hour)

	for _, txn := range gen.Transactions(200) {
		ts, err := time.Parse(transport.TimestampLayout, txn.Timestamp)
		if err != nil {
			t.Fatalf("unparsable timestamp %q: %v", txn.Timestamp, err)
		}
		if ts.Before(WindowStart) || ts.After(upper) {
			t.Fatalf("timestamp %s outside window", txn.Timestamp)
		}
	}
}

func TestTransactions_NegativeCount(t *testing.T) {
	gen := NewGenerator(rand.New(rand.NewPCG(5, 6)))
	if got := gen.Transactions(-1); len(got) != 0 {
		t.Fatalf("expected no transactions, got %d", len(got))
	}
}
