package marketing

import (
	"time"

	"github.com/google/uuid"
)

// Campaign maps to the campaigns table. Delivery channels are recorded
// but nothing is ever sent from here.
type Campaign struct {
	ID             uuid.UUID  `db:"id" json:"id"`
	Name           string     `db:"name" json:"name"`
	Type           string     `db:"type" json:"type"`
	Template       *string    `db:"template" json:"template,omitempty"`
	TargetAudience *string    `db:"target_audience" json:"target_audience,omitempty"`
	Status         string     `db:"status" json:"status"`
	ScheduledDate  *time.Time `db:"scheduled_date" json:"scheduled_date,omitempty"`
	CreatedAt      time.Time  `db:"created_at" json:"created_at"`
}
