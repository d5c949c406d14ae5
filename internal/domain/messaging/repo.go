package messaging

import (
	"context"

	"github.com/google/uuid"
)

type CommunicationRepository interface {
	Create(ctx context.Context, c *Communication) error
	ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*Communication, int, error)
}
