package partner

import (
	"github.com/batchpay/backend/internal/domain/shared"
)

// Event types for the partner aggregate
const (
	EventTypePartnerCreated     = "partner.created"
	EventTypePartnerDeactivated = "partner.deactivated"
)

// PartnerCreatedEvent is raised when a partner is created
type PartnerCreatedEvent struct {
	shared.BaseDomainEvent
	Code        string `json:"code"`
	DisplayName string `json:"display_name"`
	Role        Role   `json:"role"`
}

// NewPartnerCreatedEvent creates a new PartnerCreatedEvent
func NewPartnerCreatedEvent(p *Partner) *PartnerCreatedEvent {
	return &PartnerCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePartnerCreated, "Partner", p.ID),
		Code:            p.Code,
		DisplayName:     p.DisplayName,
		Role:            p.Role,
	}
}
