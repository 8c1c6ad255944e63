package service

import (
	"context"
	"log/slog"

	"connectrpc.com/connect"

	"github.com/mmynk/claimwise/internal/auth"
	"github.com/mmynk/claimwise/internal/calculator"
	"github.com/mmynk/claimwise/internal/events"
	"github.com/mmynk/claimwise/internal/lifecycle"
	"github.com/mmynk/claimwise/internal/models"
	"github.com/mmynk/claimwise/internal/observability"
	"github.com/mmynk/claimwise/internal/storage"
	"github.com/mmynk/claimwise/pkg/api"
	"github.com/mmynk/claimwise/pkg/api/apiconnect"
)

// PaymentService implements the Connect PaymentService. Only the bank moves
// payments; insurance may read them.
type PaymentService struct {
	apiconnect.UnimplementedPaymentServiceHandler
	core
}

// NewPaymentService creates a new PaymentService with the given storage backend.
func NewPaymentService(store storage.Store, opts ...Option) *PaymentService {
	return &PaymentService{core: newCore(store, opts)}
}

// GetPayment retrieves a payment by ID.
func (s *PaymentService) GetPayment(ctx context.Context, req *connect.Request[api.GetPaymentRequest]) (*connect.Response[api.GetPaymentResponse], error) {
	if _, err := requireRole(ctx, auth.RoleBank, auth.RoleInsurance); err != nil {
		return nil, fail("GetPayment", err)
	}
	if err := validateRequest(req.Msg); err != nil {
		return nil, fail("GetPayment", err)
	}

	payment, err := s.loadPayment(ctx, req.Msg.PaymentId)
	if err != nil {
		return nil, fail("GetPayment", err, "payment_id", req.Msg.PaymentId)
	}
	return connect.NewResponse(&api.GetPaymentResponse{Payment: paymentToAPI(payment)}), nil
}

// ListPayments returns payments matching the filter with per-status totals.
func (s *PaymentService) ListPayments(ctx context.Context, req *connect.Request[api.ListPaymentsRequest]) (*connect.Response[api.ListPaymentsResponse], error) {
	if _, err := requireRole(ctx, auth.RoleBank, auth.RoleInsurance); err != nil {
		return nil, fail("ListPayments", err)
	}
	slog.Info("ListPayments request received", "claim_id", req.Msg.ClaimId, "status", req.Msg.Status)

	filter := storage.PaymentFilter{ClaimID: req.Msg.ClaimId}
	if req.Msg.Status != "" {
		status, err := models.ParsePaymentStatus(req.Msg.Status)
		if err != nil {
			return nil, fail("ListPayments", &lifecycle.ValidationError{Field: "status", Reason: err.Error()})
		}
		filter.Status = status
	}

	payments, err := s.store.ListPayments(ctx, filter)
	if err != nil {
		return nil, fail("ListPayments", err)
	}
	summary := calculator.SummarizePayouts(payments)

	slog.Info("ListPayments successful",
		"count", len(payments),
		"outstanding", summary.Outstanding.String(),
		"disbursed", summary.Disbursed.String(),
	)

	return connect.NewResponse(&api.ListPaymentsResponse{
		Payments: paymentsToAPI(payments),
		Summary:  summaryToAPI(summary),
	}), nil
}

// InitiatePayment records that the bank started the transfer.
func (s *PaymentService) InitiatePayment(ctx context.Context, req *connect.Request[api.InitiatePaymentRequest]) (*connect.Response[api.InitiatePaymentResponse], error) {
	actor, err := requireRole(ctx, auth.RoleBank)
	if err != nil {
		return nil, fail("InitiatePayment", err)
	}
	if err := validateRequest(req.Msg); err != nil {
		return nil, fail("InitiatePayment", err)
	}
	slog.Info("InitiatePayment request received", "payment_id", req.Msg.PaymentId)

	payment, _, err := s.transitionPayment(ctx, req.Msg.PaymentId, func(p models.Payment, _ *models.Claim) (models.Payment, *models.Claim, error) {
		next, err := lifecycle.InitiatePayment(p)
		return next, nil, err
	})
	if err != nil {
		return nil, fail("InitiatePayment", err, "payment_id", req.Msg.PaymentId)
	}

	slog.Info("Payment initiated", "payment_id", payment.ID, "claim_id", payment.ClaimID)
	s.publish(ctx, events.Event{
		Type:     events.PaymentInitiated,
		ClaimID:  payment.ClaimID,
		ActorID:  actor.ID,
		Payments: []events.PaymentSnapshot{events.Snapshot(payment)},
	})

	return connect.NewResponse(&api.InitiatePaymentResponse{Payment: paymentToAPI(&payment)}), nil
}

// CompletePayment settles a payment and moves its claim to paid in one write.
func (s *PaymentService) CompletePayment(ctx context.Context, req *connect.Request[api.CompletePaymentRequest]) (*connect.Response[api.CompletePaymentResponse], error) {
	actor, err := requireRole(ctx, auth.RoleBank)
	if err != nil {
		return nil, fail("CompletePayment", err)
	}
	if err := validateRequest(req.Msg); err != nil {
		return nil, fail("CompletePayment", err)
	}
	slog.Info("CompletePayment request received", "payment_id", req.Msg.PaymentId)

	payment, claim, err := s.transitionPayment(ctx, req.Msg.PaymentId, func(p models.Payment, c *models.Claim) (models.Payment, *models.Claim, error) {
		nextPayment, nextClaim, err := lifecycle.CompletePayment(p, *c, req.Msg.Notes, s.now())
		if err != nil {
			return models.Payment{}, nil, err
		}
		return nextPayment, &nextClaim, nil
	})
	if err != nil {
		return nil, fail("CompletePayment", err, "payment_id", req.Msg.PaymentId)
	}

	observability.Payout(payment.Amount.InexactFloat64())
	slog.Info("Payment completed",
		"payment_id", payment.ID,
		"claim_id", claim.ID,
		"amount", payment.Amount.String(),
	)
	snapshot := []events.PaymentSnapshot{events.Snapshot(payment)}
	s.publish(ctx, events.Event{
		Type:        events.PaymentCompleted,
		ClaimID:     claim.ID,
		ClaimStatus: string(claim.Status),
		ActorID:     actor.ID,
		Payments:    snapshot,
	})
	s.publish(ctx, events.Event{
		Type:        events.ClaimPaid,
		ClaimID:     claim.ID,
		ClaimStatus: string(claim.Status),
		ActorID:     actor.ID,
		Payments:    snapshot,
	})

	return connect.NewResponse(&api.CompletePaymentResponse{
		Payment: paymentToAPI(&payment),
		Claim:   claimToAPI(claim),
	}), nil
}

// RejectPayment records the bank's refusal. The claim stays approved and can be
// paid again through ReissuePayment.
func (s *PaymentService) RejectPayment(ctx context.Context, req *connect.Request[api.RejectPaymentRequest]) (*connect.Response[api.RejectPaymentResponse], error) {
	actor, err := requireRole(ctx, auth.RoleBank)
	if err != nil {
		return nil, fail("RejectPayment", err)
	}
	if err := validateRequest(req.Msg); err != nil {
		return nil, fail("RejectPayment", err)
	}
	slog.Info("RejectPayment request received", "payment_id", req.Msg.PaymentId)

	payment, _, err := s.transitionPayment(ctx, req.Msg.PaymentId, func(p models.Payment, _ *models.Claim) (models.Payment, *models.Claim, error) {
		next, err := lifecycle.RejectPayment(p, req.Msg.Notes, s.now())
		return next, nil, err
	})
	if err != nil {
		return nil, fail("RejectPayment", err, "payment_id", req.Msg.PaymentId)
	}

	slog.Info("Payment rejected", "payment_id", payment.ID, "claim_id", payment.ClaimID)
	s.publish(ctx, events.Event{
		Type:     events.PaymentRejected,
		ClaimID:  payment.ClaimID,
		ActorID:  actor.ID,
		Payments: []events.PaymentSnapshot{events.Snapshot(payment)},
	})

	return connect.NewResponse(&api.RejectPaymentResponse{Payment: paymentToAPI(&payment)}), nil
}

// ReissuePayment derives a fresh pending payment for an approved claim whose
// earlier payments were all rejected by the bank.
func (s *PaymentService) ReissuePayment(ctx context.Context, req *connect.Request[api.ReissuePaymentRequest]) (*connect.Response[api.ReissuePaymentResponse], error) {
	actor, err := requireRole(ctx, auth.RoleBank)
	if err != nil {
		return nil, fail("ReissuePayment", err)
	}
	if err := validateRequest(req.Msg); err != nil {
		return nil, fail("ReissuePayment", err)
	}
	slog.Info("ReissuePayment request received", "claim_id", req.Msg.ClaimId)

	var payment models.Payment
	err = s.withClaimLock(ctx, req.Msg.ClaimId, func(ctx context.Context) error {
		claim, err := s.loadClaim(ctx, req.Msg.ClaimId)
		if err != nil {
			return err
		}
		payments, err := s.claimPayments(ctx, claim.ID)
		if err != nil {
			return err
		}
		p, err := lifecycle.ReissuePayment(*claim, payments, s.policy, s.now())
		if err != nil {
			return err
		}
		if err := s.store.Apply(ctx, storage.Change{Payment: &p}); err != nil {
			return err
		}
		payment = p
		return nil
	})
	if err != nil {
		return nil, fail("ReissuePayment", err, "claim_id", req.Msg.ClaimId)
	}

	observability.PaymentTransition("", string(payment.Status))
	slog.Info("Payment reissued",
		"payment_id", payment.ID,
		"claim_id", payment.ClaimID,
		"amount", payment.Amount.String(),
	)
	s.publish(ctx, events.Event{
		Type:     events.PaymentCreated,
		ClaimID:  payment.ClaimID,
		ActorID:  actor.ID,
		Payments: []events.PaymentSnapshot{events.Snapshot(payment)},
	})

	return connect.NewResponse(&api.ReissuePaymentResponse{Payment: paymentToAPI(&payment)}), nil
}

// transitionPayment applies a payment transition under its claim's lock. apply
// receives the current payment and claim; a non-nil claim it returns is written
// in the same transaction.
func (s *PaymentService) transitionPayment(ctx context.Context, paymentID string, apply func(models.Payment, *models.Claim) (models.Payment, *models.Claim, error)) (models.Payment, *models.Claim, error) {
	// The claim id is needed to pick the lock; the payment is re-read under it.
	initial, err := s.loadPayment(ctx, paymentID)
	if err != nil {
		return models.Payment{}, nil, err
	}

	var (
		payment     models.Payment
		claim       *models.Claim
		paymentFrom models.PaymentStatus
		claimFrom   models.ClaimStatus
	)
	err = s.withClaimLock(ctx, initial.ClaimID, func(ctx context.Context) error {
		current, err := s.loadPayment(ctx, paymentID)
		if err != nil {
			return err
		}
		currentClaim, err := s.loadClaim(ctx, current.ClaimID)
		if err != nil {
			return err
		}
		nextPayment, nextClaim, err := apply(*current, currentClaim)
		if err != nil {
			return err
		}

		change := storage.Change{Payment: &nextPayment, PaymentFrom: current.Status}
		if nextClaim != nil {
			change.Claim = nextClaim
			change.ClaimFrom = currentClaim.Status
		}
		if err := s.store.Apply(ctx, change); err != nil {
			return err
		}
		payment, claim = nextPayment, nextClaim
		paymentFrom, claimFrom = current.Status, currentClaim.Status
		return nil
	})
	if err != nil {
		return models.Payment{}, nil, err
	}

	observability.PaymentTransition(string(paymentFrom), string(payment.Status))
	if claim != nil {
		observability.ClaimTransition(string(claimFrom), string(claim.Status))
	}
	return payment, claim, nil
}
