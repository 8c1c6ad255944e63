package api

// Treatment is a doctor's clinical record.
type Treatment struct {
	Id        string `json:"id"`
	PatientId string `json:"patientId"`
	DoctorId  string `json:"doctorId"`
	Diagnosis string `json:"diagnosis"`
	Cost      string `json:"cost"`
	TreatedAt int64  `json:"treatedAt,omitempty"`
	Notes     string `json:"notes,omitempty"`
	CreatedAt int64  `json:"createdAt"`
}

type RecordTreatmentRequest struct {
	PatientId string `json:"patientId" validate:"required"`
	Diagnosis string `json:"diagnosis" validate:"required"`
	Cost      string `json:"cost" validate:"required,numeric"`
	TreatedAt int64  `json:"treatedAt,omitempty" validate:"gte=0"`
	Notes     string `json:"notes,omitempty"`
}

type RecordTreatmentResponse struct {
	Treatment *Treatment `json:"treatment"`
}

type GetTreatmentRequest struct {
	TreatmentId string `json:"treatmentId" validate:"required"`
}

type GetTreatmentResponse struct {
	Treatment *Treatment `json:"treatment"`
}
