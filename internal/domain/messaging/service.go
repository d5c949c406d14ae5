package messaging

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

type Service struct {
	communications CommunicationRepository
}

func NewService(communications CommunicationRepository) *Service {
	return &Service{communications: communications}
}

// Send stores a message from the authenticated sender.
func (s *Service) Send(ctx context.Context, senderID uuid.UUID, c *Communication) error {
	if senderID == uuid.Nil {
		return fmt.Errorf("sender_id is required")
	}
	if c.ReceiverID == uuid.Nil {
		return fmt.Errorf("receiver_id is required")
	}
	if c.Message == "" {
		return fmt.Errorf("message is required")
	}
	c.SenderID = senderID
	c.IsRead = false
	return s.communications.Create(ctx, c)
}

// Inbox lists the messages the user sent or received, newest first.
func (s *Service) Inbox(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*Communication, int, error) {
	return s.communications.ListByUser(ctx, userID, limit, offset)
}
