package calculator

import (
	"github.com/shopspring/decimal"

	"github.com/mmynk/claimwise/internal/models"
)

// StatusTotal is the number of payments and their summed amount for one status.
type StatusTotal struct {
	Status models.PaymentStatus
	Count  int
	Amount decimal.Decimal
}

// PayoutSummary aggregates a set of payments for the bank's queue view.
type PayoutSummary struct {
	// ByStatus holds one entry per payment status, in lifecycle order, including
	// statuses with no payments.
	ByStatus []StatusTotal

	// Outstanding is the amount still owed: pending plus initiated payments.
	Outstanding decimal.Decimal

	// Disbursed is the amount of completed payments.
	Disbursed decimal.Decimal
}

// SummarizePayouts totals payments per status.
func SummarizePayouts(payments []*models.Payment) PayoutSummary {
	order := []models.PaymentStatus{
		models.PaymentPending,
		models.PaymentInitiated,
		models.PaymentCompleted,
		models.PaymentRejected,
	}
	totals := make(map[models.PaymentStatus]*StatusTotal, len(order))
	for _, st := range order {
		totals[st] = &StatusTotal{Status: st, Amount: decimal.Zero}
	}

	for _, p := range payments {
		t, ok := totals[p.Status]
		if !ok {
			continue
		}
		t.Count++
		t.Amount = t.Amount.Add(p.Amount)
	}

	summary := PayoutSummary{
		Outstanding: totals[models.PaymentPending].Amount.Add(totals[models.PaymentInitiated].Amount),
		Disbursed:   totals[models.PaymentCompleted].Amount,
	}
	for _, st := range order {
		summary.ByStatus = append(summary.ByStatus, *totals[st])
	}
	return summary
}
