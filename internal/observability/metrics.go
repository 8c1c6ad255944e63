// Package observability holds the service's Prometheus metrics and OpenTelemetry
// tracing setup.
package observability

import (
	"errors"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mmynk/claimwise/internal/lifecycle"
	"github.com/mmynk/claimwise/internal/locker"
	"github.com/mmynk/claimwise/internal/storage"
)

var (
	claimTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "claimwise",
		Name:      "claim_transitions_total",
		Help:      "Committed claim status transitions.",
	}, []string{"from", "to"})

	paymentTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "claimwise",
		Name:      "payment_transitions_total",
		Help:      "Committed payment status transitions. Newly derived payments use from=\"none\".",
	}, []string{"from", "to"})

	lifecycleErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "claimwise",
		Name:      "lifecycle_errors_total",
		Help:      "Rejected lifecycle operations by error kind.",
	}, []string{"kind"})

	payoutAmount = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "claimwise",
		Name:      "payout_amount_total",
		Help:      "Sum of completed payment amounts.",
	})
)

// ClaimTransition counts a committed claim status change.
func ClaimTransition(from, to string) {
	claimTransitions.WithLabelValues(from, to).Inc()
}

// PaymentTransition counts a committed payment status change.
func PaymentTransition(from, to string) {
	if from == "" {
		from = "none"
	}
	paymentTransitions.WithLabelValues(from, to).Inc()
}

// Payout adds a completed payment's amount.
func Payout(amount float64) {
	payoutAmount.Add(amount)
}

// LifecycleError counts a failed operation under its error kind.
func LifecycleError(err error) {
	lifecycleErrors.WithLabelValues(ErrorKind(err)).Inc()
}

// ErrorKind classifies an error for the kind label.
func ErrorKind(err error) string {
	var (
		invalid   *lifecycle.InvalidTransitionError
		notFound  *lifecycle.NotFoundError
		duplicate *lifecycle.DuplicatePaymentError
		invalidIn *lifecycle.ValidationError
	)
	switch {
	case errors.As(err, &invalid):
		return "invalid_transition"
	case errors.As(err, &notFound), errors.Is(err, storage.ErrNotFound):
		return "not_found"
	case errors.As(err, &duplicate), errors.Is(err, storage.ErrActivePaymentExists):
		return "duplicate_payment"
	case errors.As(err, &invalidIn):
		return "validation"
	case errors.Is(err, storage.ErrConflict), errors.Is(err, locker.ErrNotAcquired):
		return "conflict"
	default:
		return "internal"
	}
}

// Handler serves the default Prometheus registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
