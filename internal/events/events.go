// Package events publishes claim and payment lifecycle events after each
// committed transition.
package events

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mmynk/claimwise/internal/models"
)

// Type names a lifecycle event. It doubles as the AMQP routing key.
type Type string

const (
	ClaimCreated       Type = "claim.created"
	ClaimSubmitted     Type = "claim.submitted"
	ClaimReviewStarted Type = "claim.review_started"
	ClaimApproved      Type = "claim.approved"
	ClaimRejected      Type = "claim.rejected"
	ClaimPaid          Type = "claim.paid"
	ClaimDeleted       Type = "claim.deleted"
	PaymentCreated     Type = "payment.created"
	PaymentInitiated   Type = "payment.initiated"
	PaymentCompleted   Type = "payment.completed"
	PaymentRejected    Type = "payment.rejected"
)

// PaymentSnapshot is the payment state carried in an event.
type PaymentSnapshot struct {
	ID          string          `json:"id"`
	ClaimID     string          `json:"claim_id"`
	Amount      decimal.Decimal `json:"amount"`
	Status      string          `json:"status"`
	InitiatedAt int64           `json:"initiated_at"`
	CompletedAt int64           `json:"completed_at,omitempty"`
	BankNotes   string          `json:"bank_notes,omitempty"`
}

// Snapshot copies a payment into its event form.
func Snapshot(p models.Payment) PaymentSnapshot {
	return PaymentSnapshot{
		ID:          p.ID,
		ClaimID:     p.ClaimID,
		Amount:      p.Amount,
		Status:      string(p.Status),
		InitiatedAt: p.InitiatedAt,
		CompletedAt: p.CompletedAt,
		BankNotes:   p.BankNotes,
	}
}

// Event is one committed lifecycle change.
type Event struct {
	Type        Type      `json:"type"`
	ClaimID     string    `json:"claim_id"`
	ClaimStatus string    `json:"claim_status,omitempty"`
	ActorID     string    `json:"actor_id,omitempty"`
	OccurredAt  time.Time `json:"occurred_at"`

	// Payments holds the payment the event is about, or for claim.deleted every
	// payment removed with the claim.
	Payments []PaymentSnapshot `json:"payments,omitempty"`
}

// Publisher delivers events to interested consumers.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

// LogPublisher writes events to the structured log. Used when no broker is configured.
type LogPublisher struct{}

func (LogPublisher) Publish(_ context.Context, event Event) error {
	slog.Info("Lifecycle event",
		"type", event.Type,
		"claim_id", event.ClaimID,
		"claim_status", event.ClaimStatus,
		"payments", len(event.Payments),
	)
	return nil
}

// Recorder keeps published events in memory.
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *Recorder) Publish(_ context.Context, event Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
	return nil
}

// Events returns a copy of everything published so far.
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Event(nil), r.events...)
}

// OfType returns the recorded events with the given type.
func (r *Recorder) OfType(t Type) []Event {
	var out []Event
	for _, e := range r.Events() {
		if e.Type == t {
			out = append(out, e)
		}
	}
	return out
}
