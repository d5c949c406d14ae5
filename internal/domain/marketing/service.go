package marketing

import (
	"context"
	"fmt"
)

type Service struct {
	campaigns CampaignRepository
}

func NewService(campaigns CampaignRepository) *Service {
	return &Service{campaigns: campaigns}
}

var validCampaignTypes = map[string]bool{
	"email": true, "sms": true, "whatsapp": true,
}

var validCampaignStatuses = map[string]bool{
	"draft": true, "scheduled": true, "active": true, "completed": true,
}

func (s *Service) CreateCampaign(ctx context.Context, c *Campaign) error {
	if c.Name == "" {
		return fmt.Errorf("name is required")
	}
	if c.Type == "" {
		return fmt.Errorf("type is required")
	}
	if !validCampaignTypes[c.Type] {
		return fmt.Errorf("invalid campaign type: %s", c.Type)
	}
	if c.Status == "" {
		c.Status = "draft"
	}
	if !validCampaignStatuses[c.Status] {
		return fmt.Errorf("invalid campaign status: %s", c.Status)
	}
	return s.campaigns.Create(ctx, c)
}

func (s *Service) ListCampaigns(ctx context.Context, limit, offset int) ([]*Campaign, int, error) {
	return s.campaigns.List(ctx, limit, offset)
}

// CampaignTypes lists the delivery channels a campaign may target.
func CampaignTypes() []string {
	return []string{"email", "sms", "whatsapp"}
}
