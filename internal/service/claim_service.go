package service

import (
	"context"
	"log/slog"

	"connectrpc.com/connect"
	"github.com/shopspring/decimal"

	"github.com/mmynk/claimwise/internal/auth"
	"github.com/mmynk/claimwise/internal/events"
	"github.com/mmynk/claimwise/internal/lifecycle"
	"github.com/mmynk/claimwise/internal/models"
	"github.com/mmynk/claimwise/internal/observability"
	"github.com/mmynk/claimwise/internal/storage"
	"github.com/mmynk/claimwise/pkg/api"
	"github.com/mmynk/claimwise/pkg/api/apiconnect"
)

// ClaimService implements the Connect ClaimService.
type ClaimService struct {
	apiconnect.UnimplementedClaimServiceHandler
	core
}

// NewClaimService creates a new ClaimService with the given storage backend.
func NewClaimService(store storage.Store, opts ...Option) *ClaimService {
	return &ClaimService{core: newCore(store, opts)}
}

// CreateClaim stores a new claim in pending, or in draft when requested.
// Patients may only claim for themselves; doctors only for their own treatments.
func (s *ClaimService) CreateClaim(ctx context.Context, req *connect.Request[api.CreateClaimRequest]) (*connect.Response[api.CreateClaimResponse], error) {
	actor, err := requireRole(ctx, auth.RolePatient, auth.RoleDoctor)
	if err != nil {
		return nil, fail("CreateClaim", err)
	}
	slog.Info("CreateClaim request received",
		"patient_id", req.Msg.PatientId,
		"doctor_id", req.Msg.DoctorId,
		"draft", req.Msg.Draft,
	)

	if err := validateRequest(req.Msg); err != nil {
		return nil, fail("CreateClaim", err)
	}
	if err := checkClaimant(actor, req.Msg.PatientId, req.Msg.DoctorId); err != nil {
		return nil, fail("CreateClaim", err)
	}
	cost, err := parseAmount("cost", req.Msg.Cost)
	if err != nil {
		return nil, fail("CreateClaim", err)
	}
	if req.Msg.TreatmentId != "" {
		if err := s.checkLinkedTreatment(ctx, req.Msg, cost); err != nil {
			return nil, fail("CreateClaim", err, "treatment_id", req.Msg.TreatmentId)
		}
	}

	claim, err := lifecycle.NewClaim(models.Claim{
		PatientID:   req.Msg.PatientId,
		DoctorID:    req.Msg.DoctorId,
		TreatmentID: req.Msg.TreatmentId,
		Diagnosis:   req.Msg.Diagnosis,
		Cost:        cost,
		Documents:   req.Msg.Documents,
		Notes:       req.Msg.Notes,
	}, req.Msg.Draft, s.now())
	if err != nil {
		return nil, fail("CreateClaim", err)
	}
	return s.createClaim(ctx, "CreateClaim", actor, claim)
}

// CreateClaimFromTreatment derives a pending claim from a stored treatment.
func (s *ClaimService) CreateClaimFromTreatment(ctx context.Context, req *connect.Request[api.CreateClaimFromTreatmentRequest]) (*connect.Response[api.CreateClaimFromTreatmentResponse], error) {
	actor, err := requireRole(ctx, auth.RolePatient, auth.RoleDoctor)
	if err != nil {
		return nil, fail("CreateClaimFromTreatment", err)
	}
	slog.Info("CreateClaimFromTreatment request received", "treatment_id", req.Msg.TreatmentId)

	if err := validateRequest(req.Msg); err != nil {
		return nil, fail("CreateClaimFromTreatment", err)
	}
	treatment, err := s.loadTreatment(ctx, req.Msg.TreatmentId)
	if err != nil {
		return nil, fail("CreateClaimFromTreatment", err, "treatment_id", req.Msg.TreatmentId)
	}
	if err := checkClaimant(actor, treatment.PatientID, treatment.DoctorID); err != nil {
		return nil, fail("CreateClaimFromTreatment", err)
	}

	claim, err := lifecycle.ClaimFromTreatment(*treatment, req.Msg.Documents, req.Msg.Notes, s.now())
	if err != nil {
		return nil, fail("CreateClaimFromTreatment", err, "treatment_id", treatment.ID)
	}
	resp, err := s.createClaim(ctx, "CreateClaimFromTreatment", actor, claim)
	if err != nil {
		return nil, err
	}
	return connect.NewResponse(&api.CreateClaimFromTreatmentResponse{Claim: resp.Msg.Claim}), nil
}

// checkLinkedTreatment requires a referenced treatment to exist, to belong to
// the claim's patient and doctor, and to cover at least the claimed cost.
func (s *ClaimService) checkLinkedTreatment(ctx context.Context, msg *api.CreateClaimRequest, cost decimal.Decimal) error {
	treatment, err := s.loadTreatment(ctx, msg.TreatmentId)
	if err != nil {
		return err
	}
	if treatment.PatientID != msg.PatientId || treatment.DoctorID != msg.DoctorId {
		return permissionDenied("treatment %s was not given by doctor %s to patient %s", treatment.ID, msg.DoctorId, msg.PatientId)
	}
	if cost.GreaterThan(treatment.Cost) {
		return &lifecycle.ValidationError{Field: "cost", Reason: "exceeds the cost of the linked treatment"}
	}
	return nil
}

func (s *ClaimService) createClaim(ctx context.Context, op string, actor auth.Actor, claim models.Claim) (*connect.Response[api.CreateClaimResponse], error) {
	if err := s.store.CreateClaim(ctx, &claim); err != nil {
		return nil, fail(op, err)
	}

	slog.Info("Claim created", "claim_id", claim.ID, "status", claim.Status)
	observability.ClaimTransition("none", string(claim.Status))
	s.publish(ctx, events.Event{
		Type:        events.ClaimCreated,
		ClaimID:     claim.ID,
		ClaimStatus: string(claim.Status),
		ActorID:     actor.ID,
	})

	return connect.NewResponse(&api.CreateClaimResponse{Claim: claimToAPI(&claim)}), nil
}

// checkClaimant enforces that a patient claims for themselves and a doctor for
// their own patients.
func checkClaimant(actor auth.Actor, patientID, doctorID string) error {
	switch actor.Role {
	case auth.RolePatient:
		if patientID != actor.ID {
			return permissionDenied("patients may only file their own claims")
		}
	case auth.RoleDoctor:
		if doctorID != actor.ID {
			return permissionDenied("doctors may only file claims for their own treatments")
		}
	}
	return nil
}

// GetClaim retrieves a claim and its payments.
func (s *ClaimService) GetClaim(ctx context.Context, req *connect.Request[api.GetClaimRequest]) (*connect.Response[api.GetClaimResponse], error) {
	actor, err := requireRole(ctx, auth.RolePatient, auth.RoleDoctor, auth.RoleInsurance, auth.RoleBank)
	if err != nil {
		return nil, fail("GetClaim", err)
	}
	if err := validateRequest(req.Msg); err != nil {
		return nil, fail("GetClaim", err)
	}
	slog.Info("GetClaim request received", "claim_id", req.Msg.ClaimId)

	claim, err := s.loadClaim(ctx, req.Msg.ClaimId)
	if err != nil {
		return nil, fail("GetClaim", err, "claim_id", req.Msg.ClaimId)
	}
	if !canSeeClaim(actor, claim) {
		return nil, fail("GetClaim", permissionDenied("claim %s belongs to another patient", claim.ID))
	}
	payments, err := s.store.ListPayments(ctx, storage.PaymentFilter{ClaimID: claim.ID})
	if err != nil {
		return nil, fail("GetClaim", err, "claim_id", claim.ID)
	}

	return connect.NewResponse(&api.GetClaimResponse{
		Claim:    claimToAPI(claim),
		Payments: paymentsToAPI(payments),
	}), nil
}

// ListClaims returns claims matching the filter, newest first. Patients only see
// their own claims whatever filter they send.
func (s *ClaimService) ListClaims(ctx context.Context, req *connect.Request[api.ListClaimsRequest]) (*connect.Response[api.ListClaimsResponse], error) {
	actor, err := requireRole(ctx, auth.RolePatient, auth.RoleDoctor, auth.RoleInsurance, auth.RoleBank)
	if err != nil {
		return nil, fail("ListClaims", err)
	}
	slog.Info("ListClaims request received",
		"patient_id", req.Msg.PatientId,
		"doctor_id", req.Msg.DoctorId,
		"status", req.Msg.Status,
	)

	filter := storage.ClaimFilter{
		PatientID: req.Msg.PatientId,
		DoctorID:  req.Msg.DoctorId,
	}
	if req.Msg.Status != "" {
		status, err := models.ParseClaimStatus(req.Msg.Status)
		if err != nil {
			return nil, fail("ListClaims", &lifecycle.ValidationError{Field: "status", Reason: err.Error()})
		}
		filter.Status = status
	}
	if actor.Role == auth.RolePatient {
		if filter.PatientID != "" && filter.PatientID != actor.ID {
			return nil, fail("ListClaims", permissionDenied("patients may only list their own claims"))
		}
		filter.PatientID = actor.ID
	}

	claims, err := s.store.ListClaims(ctx, filter)
	if err != nil {
		return nil, fail("ListClaims", err)
	}

	out := make([]*api.Claim, len(claims))
	for i, c := range claims {
		out[i] = claimToAPI(c)
	}

	slog.Info("ListClaims successful", "count", len(out))

	return connect.NewResponse(&api.ListClaimsResponse{Claims: out}), nil
}

// SubmitClaim moves a draft or pending claim to submitted.
func (s *ClaimService) SubmitClaim(ctx context.Context, req *connect.Request[api.SubmitClaimRequest]) (*connect.Response[api.SubmitClaimResponse], error) {
	actor, err := requireRole(ctx, auth.RolePatient, auth.RoleDoctor)
	if err != nil {
		return nil, fail("SubmitClaim", err)
	}
	if err := validateRequest(req.Msg); err != nil {
		return nil, fail("SubmitClaim", err)
	}
	slog.Info("SubmitClaim request received", "claim_id", req.Msg.ClaimId)

	claim, from, err := s.transitionClaim(ctx, actor, req.Msg.ClaimId, func(c models.Claim) (models.Claim, error) {
		if err := checkClaimant(actor, c.PatientID, c.DoctorID); err != nil {
			return models.Claim{}, err
		}
		return lifecycle.SubmitClaim(c, s.now())
	})
	if err != nil {
		return nil, fail("SubmitClaim", err, "claim_id", req.Msg.ClaimId)
	}

	slog.Info("Claim submitted", "claim_id", claim.ID, "from", from)
	s.publish(ctx, events.Event{
		Type:        events.ClaimSubmitted,
		ClaimID:     claim.ID,
		ClaimStatus: string(claim.Status),
		ActorID:     actor.ID,
	})

	return connect.NewResponse(&api.SubmitClaimResponse{Claim: claimToAPI(&claim)}), nil
}

// StartReview marks a submitted claim as being reviewed by insurance.
func (s *ClaimService) StartReview(ctx context.Context, req *connect.Request[api.StartReviewRequest]) (*connect.Response[api.StartReviewResponse], error) {
	actor, err := requireRole(ctx, auth.RoleInsurance)
	if err != nil {
		return nil, fail("StartReview", err)
	}
	if err := validateRequest(req.Msg); err != nil {
		return nil, fail("StartReview", err)
	}
	slog.Info("StartReview request received", "claim_id", req.Msg.ClaimId)

	claim, _, err := s.transitionClaim(ctx, actor, req.Msg.ClaimId, lifecycle.StartReview)
	if err != nil {
		return nil, fail("StartReview", err, "claim_id", req.Msg.ClaimId)
	}

	slog.Info("Claim review started", "claim_id", claim.ID)
	s.publish(ctx, events.Event{
		Type:        events.ClaimReviewStarted,
		ClaimID:     claim.ID,
		ClaimStatus: string(claim.Status),
		ActorID:     actor.ID,
	})

	return connect.NewResponse(&api.StartReviewResponse{Claim: claimToAPI(&claim)}), nil
}

// transitionClaim applies a claim-only transition under the claim lock and
// persists it with a conditional write. It returns the updated claim and the
// status it moved from.
func (s *ClaimService) transitionClaim(ctx context.Context, actor auth.Actor, claimID string, apply func(models.Claim) (models.Claim, error)) (models.Claim, models.ClaimStatus, error) {
	var (
		updated models.Claim
		from    models.ClaimStatus
	)
	err := s.withClaimLock(ctx, claimID, func(ctx context.Context) error {
		current, err := s.loadClaim(ctx, claimID)
		if err != nil {
			return err
		}
		if !canSeeClaim(actor, current) {
			return permissionDenied("claim %s belongs to another patient", claimID)
		}
		next, err := apply(*current)
		if err != nil {
			return err
		}
		if err := s.store.Apply(ctx, storage.Change{Claim: &next, ClaimFrom: current.Status}); err != nil {
			return err
		}
		updated, from = next, current.Status
		return nil
	})
	if err != nil {
		return models.Claim{}, "", err
	}
	observability.ClaimTransition(string(from), string(updated.Status))
	return updated, from, nil
}

// ReviewClaim records the insurance decision. Approval derives the claim's
// payment in the same transaction.
func (s *ClaimService) ReviewClaim(ctx context.Context, req *connect.Request[api.ReviewClaimRequest]) (*connect.Response[api.ReviewClaimResponse], error) {
	actor, err := requireRole(ctx, auth.RoleInsurance)
	if err != nil {
		return nil, fail("ReviewClaim", err)
	}
	if err := validateRequest(req.Msg); err != nil {
		return nil, fail("ReviewClaim", err)
	}
	slog.Info("ReviewClaim request received", "claim_id", req.Msg.ClaimId, "decision", req.Msg.Decision)

	decision, err := lifecycle.ParseDecision(req.Msg.Decision)
	if err != nil {
		return nil, fail("ReviewClaim", err, "claim_id", req.Msg.ClaimId)
	}

	var (
		claim   models.Claim
		payment *models.Payment
		from    models.ClaimStatus
	)
	err = s.withClaimLock(ctx, req.Msg.ClaimId, func(ctx context.Context) error {
		current, err := s.loadClaim(ctx, req.Msg.ClaimId)
		if err != nil {
			return err
		}
		payments, err := s.claimPayments(ctx, current.ID)
		if err != nil {
			return err
		}
		next, p, err := lifecycle.ReviewClaim(*current, payments, decision, req.Msg.Notes, s.policy, s.now())
		if err != nil {
			return err
		}
		if err := s.store.Apply(ctx, storage.Change{Claim: &next, ClaimFrom: current.Status, Payment: p}); err != nil {
			return err
		}
		claim, payment, from = next, p, current.Status
		return nil
	})
	if err != nil {
		return nil, fail("ReviewClaim", err, "claim_id", req.Msg.ClaimId)
	}

	observability.ClaimTransition(string(from), string(claim.Status))
	resp := &api.ReviewClaimResponse{Claim: claimToAPI(&claim)}

	if payment == nil {
		slog.Info("Claim rejected", "claim_id", claim.ID)
		s.publish(ctx, events.Event{
			Type:        events.ClaimRejected,
			ClaimID:     claim.ID,
			ClaimStatus: string(claim.Status),
			ActorID:     actor.ID,
		})
		return connect.NewResponse(resp), nil
	}

	slog.Info("Claim approved",
		"claim_id", claim.ID,
		"payment_id", payment.ID,
		"amount", payment.Amount.String(),
	)
	observability.PaymentTransition("", string(payment.Status))
	snapshot := []events.PaymentSnapshot{events.Snapshot(*payment)}
	s.publish(ctx, events.Event{
		Type:        events.ClaimApproved,
		ClaimID:     claim.ID,
		ClaimStatus: string(claim.Status),
		ActorID:     actor.ID,
		Payments:    snapshot,
	})
	s.publish(ctx, events.Event{
		Type:        events.PaymentCreated,
		ClaimID:     claim.ID,
		ClaimStatus: string(claim.Status),
		ActorID:     actor.ID,
		Payments:    snapshot,
	})

	resp.Payment = paymentToAPI(payment)
	return connect.NewResponse(resp), nil
}

// DeleteClaim removes a claim and every payment derived from it. Patients may
// delete their own claims; insurance may delete any.
func (s *ClaimService) DeleteClaim(ctx context.Context, req *connect.Request[api.DeleteClaimRequest]) (*connect.Response[api.DeleteClaimResponse], error) {
	actor, err := requireRole(ctx, auth.RolePatient, auth.RoleInsurance)
	if err != nil {
		return nil, fail("DeleteClaim", err)
	}
	if err := validateRequest(req.Msg); err != nil {
		return nil, fail("DeleteClaim", err)
	}
	slog.Info("DeleteClaim request received", "claim_id", req.Msg.ClaimId)

	var (
		deletion lifecycle.Deletion
		removed  []models.Payment
		status   models.ClaimStatus
	)
	err = s.withClaimLock(ctx, req.Msg.ClaimId, func(ctx context.Context) error {
		claim, err := s.loadClaim(ctx, req.Msg.ClaimId)
		if err != nil {
			return err
		}
		if !canSeeClaim(actor, claim) {
			return permissionDenied("claim %s belongs to another patient", claim.ID)
		}
		payments, err := s.claimPayments(ctx, claim.ID)
		if err != nil {
			return err
		}
		deletion = lifecycle.PlanDeletion(*claim, payments)
		if err := s.store.DeleteClaim(ctx, claim.ID); err != nil {
			return err
		}
		removed, status = payments, claim.Status
		return nil
	})
	if err != nil {
		return nil, fail("DeleteClaim", err, "claim_id", req.Msg.ClaimId)
	}

	for _, p := range deletion.Completed {
		slog.Warn("Deleted claim had a completed payment",
			"claim_id", deletion.ClaimID,
			"payment_id", p.ID,
			"amount", p.Amount.String(),
		)
	}
	slog.Info("Claim deleted", "claim_id", deletion.ClaimID, "payments", len(deletion.PaymentIDs))

	snapshots := make([]events.PaymentSnapshot, len(removed))
	for i, p := range removed {
		snapshots[i] = events.Snapshot(p)
	}
	s.publish(ctx, events.Event{
		Type:        events.ClaimDeleted,
		ClaimID:     deletion.ClaimID,
		ClaimStatus: string(status),
		ActorID:     actor.ID,
		Payments:    snapshots,
	})

	return connect.NewResponse(&api.DeleteClaimResponse{
		ClaimId:    deletion.ClaimID,
		PaymentIds: deletion.PaymentIDs,
	}), nil
}
