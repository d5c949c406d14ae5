package clinical

import (
	"time"

	"github.com/google/uuid"
)

// MedicalRecord maps to the medical_records table.
type MedicalRecord struct {
	ID           uuid.UUID `db:"id" json:"id"`
	PatientID    uuid.UUID `db:"patient_id" json:"patient_id"`
	DoctorID     uuid.UUID `db:"doctor_id" json:"doctor_id"`
	Diagnosis    *string   `db:"diagnosis" json:"diagnosis,omitempty"`
	Treatment    *string   `db:"treatment" json:"treatment,omitempty"`
	Prescription *string   `db:"prescription" json:"prescription,omitempty"`
	RecordDate   time.Time `db:"record_date" json:"record_date"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

// Investigation maps to the investigations table.
type Investigation struct {
	ID            uuid.UUID  `db:"id" json:"id"`
	PatientID     uuid.UUID  `db:"patient_id" json:"patient_id"`
	Type          string     `db:"type" json:"type"`
	Results       *string    `db:"results" json:"results,omitempty"`
	Status        string     `db:"status" json:"status"`
	ScheduledDate *time.Time `db:"scheduled_date" json:"scheduled_date,omitempty"`
	CompletedDate *time.Time `db:"completed_date" json:"completed_date,omitempty"`
	CreatedAt     time.Time  `db:"created_at" json:"created_at"`
}
