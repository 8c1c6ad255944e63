package events

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mmynk/claimwise/internal/models"
)

func TestEncode(t *testing.T) {
	event := Event{
		Type:        PaymentCompleted,
		ClaimID:     "claim-1",
		ClaimStatus: "paid",
		OccurredAt:  time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC),
		Payments: []PaymentSnapshot{Snapshot(models.Payment{
			ID:      "pay-1",
			ClaimID: "claim-1",
			Amount:  decimal.RequireFromString("200"),
			Status:  models.PaymentCompleted,
		})},
	}

	body, err := Encode(event)
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	s := string(body)
	for _, want := range []string{`"type":"payment.completed"`, `"claim_id":"claim-1"`, `"amount":"200"`, `"status":"completed"`} {
		if !strings.Contains(s, want) {
			t.Errorf("encoded event missing %s: %s", want, s)
		}
	}
	if strings.Contains(s, "bank_notes") {
		t.Errorf("empty bank_notes should be omitted: %s", s)
	}
}

func TestRecorder(t *testing.T) {
	r := &Recorder{}
	ctx := context.Background()
	r.Publish(ctx, Event{Type: ClaimApproved, ClaimID: "a"})
	r.Publish(ctx, Event{Type: PaymentCreated, ClaimID: "a"})
	r.Publish(ctx, Event{Type: ClaimApproved, ClaimID: "b"})

	if got := len(r.Events()); got != 3 {
		t.Errorf("expected 3 events, got %d", got)
	}
	if got := len(r.OfType(ClaimApproved)); got != 2 {
		t.Errorf("expected 2 approvals, got %d", got)
	}
}
