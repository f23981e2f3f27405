package repository

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"

	"transaction_dashboard_backend/platform/apperr"
)

func TestPrepare_KeepsGivenID(t *testing.T) {
	id, payload, err := prepare(Document{"id": "txn_1", "amount": 10.5})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id != "txn_1" {
		t.Fatalf("expected txn_1, got %s", id)
	}
	var doc map[string]any
	if err := json.Unmarshal(payload, &doc); err != nil || doc["amount"] != 10.5 {
		t.Fatalf("unexpected payload %s", payload)
	}
}

func TestPrepare_AssignsMissingID(t *testing.T) {
	doc := Document{"amount": 1.0}
	id, _, err := prepare(doc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := uuid.Parse(id); err != nil {
		t.Fatalf("expected generated uuid, got %q", id)
	}
	if doc["id"] != id {
		t.Fatalf("expected id written back to the document")
	}
}

func TestPrepare_RejectsInvalidID(t *testing.T) {
	for _, raw := range []any{"", 42.0, true} {
		if _, _, err := prepare(Document{"id": raw}); !apperr.Is(err, apperr.KindBadRequest) {
			t.Fatalf("%v: expected bad request, got %v", raw, err)
		}
	}
}
