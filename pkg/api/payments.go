package api

// Payment is a disbursement derived from an approved claim.
type Payment struct {
	Id          string `json:"id"`
	ClaimId     string `json:"claimId"`
	Amount      string `json:"amount"`
	Status      string `json:"status"`
	InitiatedAt int64  `json:"initiatedAt"`
	CompletedAt int64  `json:"completedAt,omitempty"`
	BankNotes   string `json:"bankNotes,omitempty"`
}

type StatusTotal struct {
	Status string `json:"status"`
	Count  int32  `json:"count"`
	Amount string `json:"amount"`
}

// PayoutSummary totals the payments of a ListPayments result.
type PayoutSummary struct {
	ByStatus    []*StatusTotal `json:"byStatus"`
	Outstanding string         `json:"outstanding"`
	Disbursed   string         `json:"disbursed"`
}

type GetPaymentRequest struct {
	PaymentId string `json:"paymentId" validate:"required"`
}

type GetPaymentResponse struct {
	Payment *Payment `json:"payment"`
}

type ListPaymentsRequest struct {
	ClaimId string `json:"claimId,omitempty"`
	Status  string `json:"status,omitempty"`
}

type ListPaymentsResponse struct {
	Payments []*Payment     `json:"payments"`
	Summary  *PayoutSummary `json:"summary"`
}

type InitiatePaymentRequest struct {
	PaymentId string `json:"paymentId" validate:"required"`
}

type InitiatePaymentResponse struct {
	Payment *Payment `json:"payment"`
}

type CompletePaymentRequest struct {
	PaymentId string `json:"paymentId" validate:"required"`
	Notes     string `json:"notes,omitempty"`
}

type CompletePaymentResponse struct {
	Payment *Payment `json:"payment"`
	Claim   *Claim   `json:"claim"`
}

type RejectPaymentRequest struct {
	PaymentId string `json:"paymentId" validate:"required"`
	Notes     string `json:"notes,omitempty"`
}

type RejectPaymentResponse struct {
	Payment *Payment `json:"payment"`
}

type ReissuePaymentRequest struct {
	ClaimId string `json:"claimId" validate:"required"`
}

type ReissuePaymentResponse struct {
	Payment *Payment `json:"payment"`
}
