package persistence

import (
	"context"
	"testing"

	"github.com/batchpay/backend/internal/domain/partner"
	"github.com/batchpay/backend/internal/domain/shared"
	"github.com/batchpay/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupPartnerTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(&models.PartnerModel{})
	require.NoError(t, err)

	return db
}

func TestPartnerRepository(t *testing.T) {
	db := setupPartnerTestDB(t)
	repo := NewGormPartnerRepository(db)
	ctx := context.Background()
	companyID := uuid.New()

	t.Run("saves and finds a partner by ID and code", func(t *testing.T) {
		p, err := partner.NewPartner(companyID, "CUST001", "Acme Corp", partner.RoleCustomer)
		require.NoError(t, err)
		require.NoError(t, repo.Save(ctx, p))

		byID, err := repo.FindByID(ctx, p.ID)
		require.NoError(t, err)
		assert.Equal(t, "Acme Corp", byID.DisplayName)

		byCode, err := repo.FindByCode(ctx, companyID, "CUST001")
		require.NoError(t, err)
		assert.Equal(t, p.ID, byCode.ID)
	})

	t.Run("returns ErrNotFound for unknown partner", func(t *testing.T) {
		_, err := repo.FindByID(ctx, uuid.New())
		assert.ErrorIs(t, err, shared.ErrNotFound)

		_, err = repo.FindByCode(ctx, companyID, "MISSING")
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("role filter includes BOTH partners", func(t *testing.T) {
		vendor, err := partner.NewPartner(companyID, "VEND001", "Supply Co", partner.RoleVendor)
		require.NoError(t, err)
		both, err := partner.NewPartner(companyID, "BOTH001", "Dual Role Ltd", partner.RoleBoth)
		require.NoError(t, err)
		require.NoError(t, repo.Save(ctx, vendor))
		require.NoError(t, repo.Save(ctx, both))

		role := partner.RoleVendor
		found, err := repo.FindAll(ctx, companyID, partner.Filter{Role: &role})
		require.NoError(t, err)

		codes := make([]string, len(found))
		for i, p := range found {
			codes[i] = p.Code
		}
		assert.ElementsMatch(t, []string{"VEND001", "BOTH001"}, codes)
	})

	t.Run("search filter", func(t *testing.T) {
		t.Skip("search uses PostgreSQL-specific ILIKE syntax, skipping for SQLite")
	})
}

func TestPartnerRepository_FindCommercialGroup(t *testing.T) {
	db := setupPartnerTestDB(t)
	repo := NewGormPartnerRepository(db)
	ctx := context.Background()
	companyID := uuid.New()

	parent, err := partner.NewPartner(companyID, "GRP001", "Holding SA", partner.RoleCustomer)
	require.NoError(t, err)
	child, err := partner.NewPartner(companyID, "GRP002", "Holding SA Branch", partner.RoleCustomer)
	require.NoError(t, err)
	require.NoError(t, child.AttachToCommercialGroup(parent.ID))
	outsider, err := partner.NewPartner(companyID, "SOLO001", "Standalone", partner.RoleCustomer)
	require.NoError(t, err)

	for _, p := range []*partner.Partner{parent, child, outsider} {
		require.NoError(t, repo.Save(ctx, p))
	}

	t.Run("returns every member of the group from either member", func(t *testing.T) {
		fromParent, err := repo.FindCommercialGroup(ctx, companyID, parent.ID)
		require.NoError(t, err)
		assert.ElementsMatch(t, []uuid.UUID{parent.ID, child.ID}, fromParent)

		fromChild, err := repo.FindCommercialGroup(ctx, companyID, child.ID)
		require.NoError(t, err)
		assert.ElementsMatch(t, []uuid.UUID{parent.ID, child.ID}, fromChild)
	})

	t.Run("standalone partner is its own group", func(t *testing.T) {
		group, err := repo.FindCommercialGroup(ctx, companyID, outsider.ID)
		require.NoError(t, err)
		assert.Equal(t, []uuid.UUID{outsider.ID}, group)
	})

	t.Run("unknown partner yields ErrNotFound", func(t *testing.T) {
		_, err := repo.FindCommercialGroup(ctx, companyID, uuid.New())
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}
