package messaging

import (
	"time"

	"github.com/google/uuid"
)

// Communication maps to the communications table. Messages are internal
// staff-to-staff notes, not outbound patient traffic.
type Communication struct {
	ID         uuid.UUID `db:"id" json:"id"`
	SenderID   uuid.UUID `db:"sender_id" json:"sender_id"`
	ReceiverID uuid.UUID `db:"receiver_id" json:"receiver_id"`
	Subject    *string   `db:"subject" json:"subject,omitempty"`
	Message    string    `db:"message" json:"message"`
	IsRead     bool      `db:"is_read" json:"is_read"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}
