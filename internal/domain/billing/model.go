package billing

import (
	"time"

	"github.com/google/uuid"
)

// Bill maps to the bills table.
type Bill struct {
	ID            uuid.UUID  `db:"id" json:"id"`
	PatientID     uuid.UUID  `db:"patient_id" json:"patient_id"`
	AppointmentID *uuid.UUID `db:"appointment_id" json:"appointment_id,omitempty"`
	Amount        float64    `db:"amount" json:"amount"`
	Description   *string    `db:"description" json:"description,omitempty"`
	Status        string     `db:"status" json:"status"`
	DueDate       *time.Time `db:"due_date" json:"due_date,omitempty"`
	CreatedAt     time.Time  `db:"created_at" json:"created_at"`
}
