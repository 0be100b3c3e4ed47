package partner

import (
	"context"

	"github.com/google/uuid"
)

// Filter narrows partner queries
type Filter struct {
	Role   *Role
	Active *bool
	Search string // matches code or display name
}

// Repository is the persistence contract for partners
type Repository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Partner, error)
	FindByCode(ctx context.Context, companyID uuid.UUID, code string) (*Partner, error)
	FindAll(ctx context.Context, companyID uuid.UUID, filter Filter) ([]Partner, error)
	// FindCommercialGroup returns the IDs of every partner whose
	// commercial partner matches the given partner's commercial partner,
	// including the partner itself.
	FindCommercialGroup(ctx context.Context, companyID, partnerID uuid.UUID) ([]uuid.UUID, error)
	Save(ctx context.Context, p *Partner) error
}
