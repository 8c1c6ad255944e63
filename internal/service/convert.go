package service

import (
	"github.com/mmynk/claimwise/internal/calculator"
	"github.com/mmynk/claimwise/internal/models"
	"github.com/mmynk/claimwise/pkg/api"
)

func claimToAPI(c *models.Claim) *api.Claim {
	return &api.Claim{
		Id:             c.ID,
		PatientId:      c.PatientID,
		DoctorId:       c.DoctorID,
		TreatmentId:    c.TreatmentID,
		Diagnosis:      c.Diagnosis,
		Cost:           c.Cost.String(),
		Documents:      c.Documents,
		Notes:          c.Notes,
		InsuranceNotes: c.InsuranceNotes,
		Status:         string(c.Status),
		SubmittedAt:    c.SubmittedAt,
		ReviewedAt:     c.ReviewedAt,
		PaidAt:         c.PaidAt,
		CreatedAt:      c.CreatedAt,
	}
}

func paymentToAPI(p *models.Payment) *api.Payment {
	return &api.Payment{
		Id:          p.ID,
		ClaimId:     p.ClaimID,
		Amount:      p.Amount.String(),
		Status:      string(p.Status),
		InitiatedAt: p.InitiatedAt,
		CompletedAt: p.CompletedAt,
		BankNotes:   p.BankNotes,
	}
}

func paymentsToAPI(payments []*models.Payment) []*api.Payment {
	out := make([]*api.Payment, len(payments))
	for i, p := range payments {
		out[i] = paymentToAPI(p)
	}
	return out
}

func treatmentToAPI(t *models.Treatment) *api.Treatment {
	return &api.Treatment{
		Id:        t.ID,
		PatientId: t.PatientID,
		DoctorId:  t.DoctorID,
		Diagnosis: t.Diagnosis,
		Cost:      t.Cost.String(),
		TreatedAt: t.TreatedAt,
		Notes:     t.Notes,
		CreatedAt: t.CreatedAt,
	}
}

func summaryToAPI(s calculator.PayoutSummary) *api.PayoutSummary {
	out := &api.PayoutSummary{
		Outstanding: s.Outstanding.String(),
		Disbursed:   s.Disbursed.String(),
	}
	for _, t := range s.ByStatus {
		out.ByStatus = append(out.ByStatus, &api.StatusTotal{
			Status: string(t.Status),
			Count:  int32(t.Count),
			Amount: t.Amount.String(),
		})
	}
	return out
}
