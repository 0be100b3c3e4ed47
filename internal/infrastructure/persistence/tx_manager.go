package persistence

import (
	"context"

	appalloc "github.com/batchpay/backend/internal/application/allocation"
	"gorm.io/gorm"
)

// GormTransactionManager implements the application layer's
// TransactionManager on top of a GORM transaction. Repositories handed
// to the callback are bound to the transaction, so every write inside
// the callback commits or rolls back together.
type GormTransactionManager struct {
	db *gorm.DB
}

// NewGormTransactionManager creates a new GormTransactionManager
func NewGormTransactionManager(db *gorm.DB) *GormTransactionManager {
	return &GormTransactionManager{db: db}
}

// Do runs fn inside a transaction
func (m *GormTransactionManager) Do(ctx context.Context, fn func(ctx context.Context, repos appalloc.TxRepos) error) error {
	return m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(ctx, appalloc.TxRepos{
			Invoices:        NewGormInvoiceRepository(tx),
			Payments:        NewGormPaymentRepository(tx),
			Reconciliations: NewGormReconciliationRepository(tx),
		})
	})
}
