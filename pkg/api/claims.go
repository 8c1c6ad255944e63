package api

// Claim is a reimbursement request. Timestamps are Unix seconds; zero means unset.
type Claim struct {
	Id             string   `json:"id"`
	PatientId      string   `json:"patientId"`
	DoctorId       string   `json:"doctorId"`
	TreatmentId    string   `json:"treatmentId,omitempty"`
	Diagnosis      string   `json:"diagnosis"`
	Cost           string   `json:"cost"`
	Documents      []string `json:"documents,omitempty"`
	Notes          string   `json:"notes,omitempty"`
	InsuranceNotes string   `json:"insuranceNotes,omitempty"`
	Status         string   `json:"status"`
	SubmittedAt    int64    `json:"submittedAt,omitempty"`
	ReviewedAt     int64    `json:"reviewedAt,omitempty"`
	PaidAt         int64    `json:"paidAt,omitempty"`
	CreatedAt      int64    `json:"createdAt"`
}

type CreateClaimRequest struct {
	PatientId   string   `json:"patientId" validate:"required"`
	DoctorId    string   `json:"doctorId" validate:"required"`
	TreatmentId string   `json:"treatmentId,omitempty"`
	Diagnosis   string   `json:"diagnosis" validate:"required"`
	Cost        string   `json:"cost" validate:"required,numeric"`
	Documents   []string `json:"documents,omitempty" validate:"dive,required"`
	Notes       string   `json:"notes,omitempty"`
	// Draft creates the claim in draft instead of pending.
	Draft bool `json:"draft,omitempty"`
}

type CreateClaimResponse struct {
	Claim *Claim `json:"claim"`
}

type CreateClaimFromTreatmentRequest struct {
	TreatmentId string   `json:"treatmentId" validate:"required"`
	Documents   []string `json:"documents,omitempty" validate:"dive,required"`
	Notes       string   `json:"notes,omitempty"`
}

type CreateClaimFromTreatmentResponse struct {
	Claim *Claim `json:"claim"`
}

type GetClaimRequest struct {
	ClaimId string `json:"claimId" validate:"required"`
}

type GetClaimResponse struct {
	Claim    *Claim     `json:"claim"`
	Payments []*Payment `json:"payments"`
}

type ListClaimsRequest struct {
	PatientId string `json:"patientId,omitempty"`
	DoctorId  string `json:"doctorId,omitempty"`
	Status    string `json:"status,omitempty"`
}

type ListClaimsResponse struct {
	Claims []*Claim `json:"claims"`
}

type SubmitClaimRequest struct {
	ClaimId string `json:"claimId" validate:"required"`
}

type SubmitClaimResponse struct {
	Claim *Claim `json:"claim"`
}

type StartReviewRequest struct {
	ClaimId string `json:"claimId" validate:"required"`
}

type StartReviewResponse struct {
	Claim *Claim `json:"claim"`
}

type ReviewClaimRequest struct {
	ClaimId  string `json:"claimId" validate:"required"`
	Decision string `json:"decision" validate:"required"`
	Notes    string `json:"notes,omitempty"`
}

type ReviewClaimResponse struct {
	Claim *Claim `json:"claim"`
	// Payment is set when the claim was approved.
	Payment *Payment `json:"payment,omitempty"`
}

type DeleteClaimRequest struct {
	ClaimId string `json:"claimId" validate:"required"`
}

type DeleteClaimResponse struct {
	ClaimId    string   `json:"claimId"`
	PaymentIds []string `json:"paymentIds,omitempty"`
}
