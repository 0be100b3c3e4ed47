package partner

import (
	"github.com/batchpay/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Role describes which side of the ledger a partner can appear on
type Role string

const (
	RoleCustomer Role = "CUSTOMER" // we invoice them
	RoleVendor   Role = "VENDOR"   // they invoice us
	RoleBoth     Role = "BOTH"     // both directions
)

// IsValid checks if the role is valid
func (r Role) IsValid() bool {
	switch r {
	case RoleCustomer, RoleVendor, RoleBoth:
		return true
	}
	return false
}

// String returns the string representation
func (r Role) String() string {
	return string(r)
}

// Partner represents a business partner (customer and/or vendor).
// Partners sharing a top-level business entity form a commercial group;
// CommercialPartnerID points at that top-level record (self for
// standalone partners).
type Partner struct {
	shared.CompanyAggregateRoot
	Code                string    `json:"code"`
	DisplayName         string    `json:"display_name"`
	Role                Role      `json:"role"`
	CommercialPartnerID uuid.UUID `json:"commercial_partner_id"`
	Email               string    `json:"email"`
	Active              bool      `json:"active"`
}

// NewPartner creates a new standalone partner (its own commercial group)
func NewPartner(companyID uuid.UUID, code, displayName string, role Role) (*Partner, error) {
	if code == "" {
		return nil, shared.NewDomainError("INVALID_PARTNER_CODE", "Partner code cannot be empty")
	}
	if len(code) > 50 {
		return nil, shared.NewDomainError("INVALID_PARTNER_CODE", "Partner code cannot exceed 50 characters")
	}
	if displayName == "" {
		return nil, shared.NewDomainError("INVALID_PARTNER_NAME", "Partner display name cannot be empty")
	}
	if !role.IsValid() {
		return nil, shared.NewDomainError("INVALID_PARTNER_ROLE", "Partner role is not valid")
	}

	p := &Partner{
		CompanyAggregateRoot: shared.NewCompanyAggregateRoot(companyID),
		Code:                 code,
		DisplayName:          displayName,
		Role:                 role,
		Active:               true,
	}
	p.CommercialPartnerID = p.ID

	p.AddDomainEvent(NewPartnerCreatedEvent(p))

	return p, nil
}

// AttachToCommercialGroup places the partner under another partner's
// commercial group for invoicing purposes
func (p *Partner) AttachToCommercialGroup(commercialPartnerID uuid.UUID) error {
	if commercialPartnerID == uuid.Nil {
		return shared.NewDomainError("INVALID_COMMERCIAL_PARTNER", "Commercial partner ID cannot be empty")
	}
	p.CommercialPartnerID = commercialPartnerID
	p.IncrementVersion()
	return nil
}

// EligibleFor returns true if the partner can be allocated in the given role
func (p *Partner) EligibleFor(role Role) bool {
	if !p.Active {
		return false
	}
	return p.Role == role || p.Role == RoleBoth
}

// Rename updates the display name
func (p *Partner) Rename(displayName string) error {
	if displayName == "" {
		return shared.NewDomainError("INVALID_PARTNER_NAME", "Partner display name cannot be empty")
	}
	p.DisplayName = displayName
	p.IncrementVersion()
	return nil
}

// Deactivate marks the partner inactive; inactive partners are excluded
// from allocation
func (p *Partner) Deactivate() {
	p.Active = false
	p.IncrementVersion()
}
