package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/batchpay/backend/internal/domain/currency"
	"github.com/batchpay/backend/internal/domain/shared"
	"github.com/batchpay/backend/internal/domain/shared/valueobject"
	"github.com/batchpay/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupRateTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(&models.CurrencyRateModel{})
	require.NoError(t, err)

	return db
}

func TestCurrencyRateRepository(t *testing.T) {
	db := setupRateTestDB(t)
	repo := NewGormCurrencyRateRepository(db)
	ctx := context.Background()
	companyID := uuid.New()

	jan := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	feb := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	mar := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	for _, entry := range []struct {
		rate string
		from time.Time
	}{
		{"1.05", jan},
		{"1.10", feb},
		{"1.15", mar},
	} {
		rate, err := currency.NewCurrencyRate(companyID, valueobject.EUR,
			decimal.RequireFromString(entry.rate), entry.from)
		require.NoError(t, err)
		require.NoError(t, repo.Save(ctx, rate))
	}

	t.Run("picks the latest rate valid on the date", func(t *testing.T) {
		rate, err := repo.FindLatest(ctx, companyID, valueobject.EUR, feb.AddDate(0, 0, 10))
		require.NoError(t, err)
		assert.True(t, rate.Rate.Equal(decimal.RequireFromString("1.10")))
	})

	t.Run("exact validity date is included", func(t *testing.T) {
		rate, err := repo.FindLatest(ctx, companyID, valueobject.EUR, mar)
		require.NoError(t, err)
		assert.True(t, rate.Rate.Equal(decimal.RequireFromString("1.15")))
	})

	t.Run("no rate before the first entry", func(t *testing.T) {
		_, err := repo.FindLatest(ctx, companyID, valueobject.EUR, jan.AddDate(0, 0, -1))
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("RateAt exposes the raw decimal for the converter", func(t *testing.T) {
		rate, err := repo.RateAt(ctx, companyID, valueobject.EUR, mar.AddDate(0, 1, 0))
		require.NoError(t, err)
		assert.True(t, rate.Equal(decimal.RequireFromString("1.15")))
	})

	t.Run("other company has no rates", func(t *testing.T) {
		_, err := repo.RateAt(ctx, uuid.New(), valueobject.EUR, mar)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}
