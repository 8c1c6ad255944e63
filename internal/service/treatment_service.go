package service

import (
	"context"
	"errors"
	"log/slog"

	"connectrpc.com/connect"

	"github.com/mmynk/claimwise/internal/auth"
	"github.com/mmynk/claimwise/internal/lifecycle"
	"github.com/mmynk/claimwise/internal/models"
	"github.com/mmynk/claimwise/internal/storage"
	"github.com/mmynk/claimwise/pkg/api"
	"github.com/mmynk/claimwise/pkg/api/apiconnect"
)

// TreatmentService implements the Connect TreatmentService.
type TreatmentService struct {
	apiconnect.UnimplementedTreatmentServiceHandler
	core
}

// NewTreatmentService creates a new TreatmentService with the given storage backend.
func NewTreatmentService(store storage.Store, opts ...Option) *TreatmentService {
	return &TreatmentService{core: newCore(store, opts)}
}

// RecordTreatment stores a treatment performed by the calling doctor.
func (s *TreatmentService) RecordTreatment(ctx context.Context, req *connect.Request[api.RecordTreatmentRequest]) (*connect.Response[api.RecordTreatmentResponse], error) {
	actor, err := requireRole(ctx, auth.RoleDoctor)
	if err != nil {
		return nil, fail("RecordTreatment", err)
	}
	slog.Info("RecordTreatment request received", "patient_id", req.Msg.PatientId, "doctor_id", actor.ID)

	if err := validateRequest(req.Msg); err != nil {
		return nil, fail("RecordTreatment", err)
	}
	cost, err := parseAmount("cost", req.Msg.Cost)
	if err != nil {
		return nil, fail("RecordTreatment", err)
	}
	if !cost.IsPositive() {
		return nil, fail("RecordTreatment", &lifecycle.ValidationError{Field: "cost", Reason: "must be greater than zero"})
	}

	now := s.now()
	treatedAt := req.Msg.TreatedAt
	if treatedAt == 0 {
		treatedAt = now.Unix()
	}
	treatment := &models.Treatment{
		PatientID: req.Msg.PatientId,
		DoctorID:  actor.ID,
		Diagnosis: req.Msg.Diagnosis,
		Cost:      cost,
		TreatedAt: treatedAt,
		Notes:     req.Msg.Notes,
		CreatedAt: now.Unix(),
	}
	if err := s.store.CreateTreatment(ctx, treatment); err != nil {
		return nil, fail("RecordTreatment", err)
	}

	slog.Info("Treatment recorded", "treatment_id", treatment.ID, "patient_id", treatment.PatientID)

	return connect.NewResponse(&api.RecordTreatmentResponse{
		Treatment: treatmentToAPI(treatment),
	}), nil
}

// GetTreatment retrieves a treatment by ID. Patients can only read their own.
func (s *TreatmentService) GetTreatment(ctx context.Context, req *connect.Request[api.GetTreatmentRequest]) (*connect.Response[api.GetTreatmentResponse], error) {
	actor, err := requireRole(ctx, auth.RolePatient, auth.RoleDoctor, auth.RoleInsurance, auth.RoleBank)
	if err != nil {
		return nil, fail("GetTreatment", err)
	}
	if err := validateRequest(req.Msg); err != nil {
		return nil, fail("GetTreatment", err)
	}

	treatment, err := s.loadTreatment(ctx, req.Msg.TreatmentId)
	if err != nil {
		return nil, fail("GetTreatment", err, "treatment_id", req.Msg.TreatmentId)
	}
	if actor.Role == auth.RolePatient && treatment.PatientID != actor.ID {
		return nil, fail("GetTreatment", permissionDenied("treatment %s belongs to another patient", treatment.ID))
	}

	return connect.NewResponse(&api.GetTreatmentResponse{
		Treatment: treatmentToAPI(treatment),
	}), nil
}

func (c *core) loadTreatment(ctx context.Context, treatmentID string) (*models.Treatment, error) {
	treatment, err := c.store.GetTreatment(ctx, treatmentID)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, &lifecycle.NotFoundError{Entity: lifecycle.EntityTreatment, ID: treatmentID}
	}
	return treatment, err
}
