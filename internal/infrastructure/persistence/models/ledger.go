package models

import (
	"time"

	"github.com/batchpay/backend/internal/domain/currency"
	"github.com/batchpay/backend/internal/domain/ledger"
	"github.com/batchpay/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// InvoiceModel is the persistence model for the Invoice aggregate root.
type InvoiceModel struct {
	CompanyAggregateModel
	Number              string               `gorm:"type:varchar(50);not null;uniqueIndex:idx_invoice_company_number,priority:2"`
	MoveType            ledger.MoveType      `gorm:"type:varchar(30);not null;index"`
	State               ledger.InvoiceState  `gorm:"type:varchar(20);not null;default:'DRAFT';index"`
	PaymentState        ledger.PaymentState  `gorm:"type:varchar(20);not null;default:'NOT_PAID';index"`
	PartnerID           uuid.UUID            `gorm:"type:uuid;not null;index"`
	CommercialPartnerID uuid.UUID            `gorm:"type:uuid;not null;index"`
	PartnerName         string               `gorm:"type:varchar(200);not null"`
	InvoiceDate         time.Time            `gorm:"not null;index"`
	Currency            valueobject.Currency `gorm:"type:varchar(3);not null"`
	AmountTotal         decimal.Decimal      `gorm:"type:decimal(18,6);not null"`
	AmountResidual      decimal.Decimal      `gorm:"type:decimal(18,6);not null;index"`
	Lines               ledger.MoveLines     `gorm:"type:jsonb;default:'[]'"`
}

// TableName returns the table name for GORM
func (InvoiceModel) TableName() string {
	return "invoices"
}

// ToDomain converts the persistence model to a domain Invoice entity.
func (m *InvoiceModel) ToDomain() *ledger.Invoice {
	return &ledger.Invoice{
		CompanyAggregateRoot: m.ToDomainCompanyAggregateRoot(),
		Number:               m.Number,
		MoveType:             m.MoveType,
		State:                m.State,
		PaymentState:         m.PaymentState,
		PartnerID:            m.PartnerID,
		CommercialPartnerID:  m.CommercialPartnerID,
		PartnerName:          m.PartnerName,
		InvoiceDate:          m.InvoiceDate,
		Currency:             m.Currency,
		AmountTotal:          m.AmountTotal,
		AmountResidual:       m.AmountResidual,
		Lines:                m.Lines,
	}
}

// FromDomain populates the persistence model from a domain Invoice entity.
func (m *InvoiceModel) FromDomain(inv *ledger.Invoice) {
	m.FromDomainCompanyAggregateRoot(inv.CompanyAggregateRoot)
	m.Number = inv.Number
	m.MoveType = inv.MoveType
	m.State = inv.State
	m.PaymentState = inv.PaymentState
	m.PartnerID = inv.PartnerID
	m.CommercialPartnerID = inv.CommercialPartnerID
	m.PartnerName = inv.PartnerName
	m.InvoiceDate = inv.InvoiceDate
	m.Currency = inv.Currency
	m.AmountTotal = inv.AmountTotal
	m.AmountResidual = inv.AmountResidual
	m.Lines = inv.Lines
}

// InvoiceModelFromDomain creates a new persistence model from a domain Invoice.
func InvoiceModelFromDomain(inv *ledger.Invoice) *InvoiceModel {
	m := &InvoiceModel{}
	m.FromDomain(inv)
	return m
}

// JournalModel is the persistence model for the Journal aggregate root.
type JournalModel struct {
	CompanyAggregateModel
	Name        string                    `gorm:"type:varchar(100);not null"`
	Code        string                    `gorm:"type:varchar(20);not null;uniqueIndex:idx_journal_company_code,priority:2"`
	Type        ledger.JournalType        `gorm:"type:varchar(10);not null"`
	Currency    valueobject.Currency      `gorm:"type:varchar(3)"`
	MethodLines ledger.PaymentMethodLines `gorm:"type:jsonb;default:'[]'"`
	Active      bool                      `gorm:"not null;default:true;index"`
}

// TableName returns the table name for GORM
func (JournalModel) TableName() string {
	return "journals"
}

// ToDomain converts the persistence model to a domain Journal entity.
func (m *JournalModel) ToDomain() *ledger.Journal {
	return &ledger.Journal{
		CompanyAggregateRoot: m.ToDomainCompanyAggregateRoot(),
		Name:                 m.Name,
		Code:                 m.Code,
		Type:                 m.Type,
		Currency:             m.Currency,
		MethodLines:          m.MethodLines,
		Active:               m.Active,
	}
}

// FromDomain populates the persistence model from a domain Journal entity.
func (m *JournalModel) FromDomain(j *ledger.Journal) {
	m.FromDomainCompanyAggregateRoot(j.CompanyAggregateRoot)
	m.Name = j.Name
	m.Code = j.Code
	m.Type = j.Type
	m.Currency = j.Currency
	m.MethodLines = j.MethodLines
	m.Active = j.Active
}

// JournalModelFromDomain creates a new persistence model from a domain Journal.
func JournalModelFromDomain(j *ledger.Journal) *JournalModel {
	m := &JournalModel{}
	m.FromDomain(j)
	return m
}

// PaymentModel is the persistence model for the Payment aggregate root.
type PaymentModel struct {
	CompanyAggregateModel
	Number      string                  `gorm:"type:varchar(50);not null;uniqueIndex:idx_payment_company_number,priority:2"`
	State       ledger.PaymentLifecycle `gorm:"type:varchar(20);not null;default:'DRAFT';index"`
	Direction   ledger.PaymentDirection `gorm:"type:varchar(10);not null"`
	PartnerID   uuid.UUID               `gorm:"type:uuid;not null;index"`
	JournalID   uuid.UUID               `gorm:"type:uuid;not null;index"`
	MethodID    uuid.UUID               `gorm:"type:uuid;not null"`
	PaymentDate time.Time               `gorm:"not null;index"`
	Currency    valueobject.Currency    `gorm:"type:varchar(3);not null"`
	Amount      decimal.Decimal         `gorm:"type:decimal(18,6);not null"`
	Memo        string                  `gorm:"type:varchar(500)"`
	Lines       ledger.MoveLines        `gorm:"type:jsonb;default:'[]'"`
}

// TableName returns the table name for GORM
func (PaymentModel) TableName() string {
	return "payments"
}

// ToDomain converts the persistence model to a domain Payment entity.
func (m *PaymentModel) ToDomain() *ledger.Payment {
	return &ledger.Payment{
		CompanyAggregateRoot: m.ToDomainCompanyAggregateRoot(),
		Number:               m.Number,
		State:                m.State,
		Direction:            m.Direction,
		PartnerID:            m.PartnerID,
		JournalID:            m.JournalID,
		MethodID:             m.MethodID,
		PaymentDate:          m.PaymentDate,
		Currency:             m.Currency,
		Amount:               m.Amount,
		Memo:                 m.Memo,
		Lines:                m.Lines,
	}
}

// FromDomain populates the persistence model from a domain Payment entity.
func (m *PaymentModel) FromDomain(p *ledger.Payment) {
	m.FromDomainCompanyAggregateRoot(p.CompanyAggregateRoot)
	m.Number = p.Number
	m.State = p.State
	m.Direction = p.Direction
	m.PartnerID = p.PartnerID
	m.JournalID = p.JournalID
	m.MethodID = p.MethodID
	m.PaymentDate = p.PaymentDate
	m.Currency = p.Currency
	m.Amount = p.Amount
	m.Memo = p.Memo
	m.Lines = p.Lines
}

// PaymentModelFromDomain creates a new persistence model from a domain Payment.
func PaymentModelFromDomain(p *ledger.Payment) *PaymentModel {
	m := &PaymentModel{}
	m.FromDomain(p)
	return m
}

// ReconciliationModel is the persistence model for Reconciliation records.
type ReconciliationModel struct {
	BaseModel
	CompanyID      uuid.UUID            `gorm:"type:uuid;not null;index"`
	DebitLineID    uuid.UUID            `gorm:"type:uuid;not null;index"`
	CreditLineID   uuid.UUID            `gorm:"type:uuid;not null;index"`
	DebitMoveID    uuid.UUID            `gorm:"type:uuid;not null;index"`
	CreditMoveID   uuid.UUID            `gorm:"type:uuid;not null;index"`
	Amount         decimal.Decimal      `gorm:"type:decimal(18,6);not null"`
	AmountCurrency decimal.Decimal      `gorm:"type:decimal(18,6);not null"`
	Currency       valueobject.Currency `gorm:"type:varchar(3);not null"`
}

// TableName returns the table name for GORM
func (ReconciliationModel) TableName() string {
	return "reconciliations"
}

// ToDomain converts the persistence model to a domain Reconciliation entity.
func (m *ReconciliationModel) ToDomain() *ledger.Reconciliation {
	return &ledger.Reconciliation{
		BaseEntity:     m.BaseModel.ToDomain(),
		CompanyID:      m.CompanyID,
		DebitLineID:    m.DebitLineID,
		CreditLineID:   m.CreditLineID,
		DebitMoveID:    m.DebitMoveID,
		CreditMoveID:   m.CreditMoveID,
		Amount:         m.Amount,
		AmountCurrency: m.AmountCurrency,
		Currency:       m.Currency,
	}
}

// FromDomain populates the persistence model from a domain Reconciliation entity.
func (m *ReconciliationModel) FromDomain(r *ledger.Reconciliation) {
	m.FromDomainBaseEntity(r.BaseEntity)
	m.CompanyID = r.CompanyID
	m.DebitLineID = r.DebitLineID
	m.CreditLineID = r.CreditLineID
	m.DebitMoveID = r.DebitMoveID
	m.CreditMoveID = r.CreditMoveID
	m.Amount = r.Amount
	m.AmountCurrency = r.AmountCurrency
	m.Currency = r.Currency
}

// ReconciliationModelFromDomain creates a new persistence model from a domain Reconciliation.
func ReconciliationModelFromDomain(r *ledger.Reconciliation) *ReconciliationModel {
	m := &ReconciliationModel{}
	m.FromDomain(r)
	return m
}

// CurrencyRateModel is the persistence model for exchange rates.
type CurrencyRateModel struct {
	BaseModel
	CompanyID uuid.UUID            `gorm:"type:uuid;not null;uniqueIndex:idx_rate_company_ccy_from,priority:1"`
	Currency  valueobject.Currency `gorm:"type:varchar(3);not null;uniqueIndex:idx_rate_company_ccy_from,priority:2"`
	Rate      decimal.Decimal      `gorm:"type:decimal(18,8);not null"`
	ValidFrom time.Time            `gorm:"not null;uniqueIndex:idx_rate_company_ccy_from,priority:3"`
}

// TableName returns the table name for GORM
func (CurrencyRateModel) TableName() string {
	return "currency_rates"
}

// ToDomain converts the persistence model to a domain CurrencyRate entity.
func (m *CurrencyRateModel) ToDomain() *currency.CurrencyRate {
	return &currency.CurrencyRate{
		BaseEntity: m.BaseModel.ToDomain(),
		CompanyID:  m.CompanyID,
		Currency:   m.Currency,
		Rate:       m.Rate,
		ValidFrom:  m.ValidFrom,
	}
}

// FromDomain populates the persistence model from a domain CurrencyRate entity.
func (m *CurrencyRateModel) FromDomain(r *currency.CurrencyRate) {
	m.FromDomainBaseEntity(r.BaseEntity)
	m.CompanyID = r.CompanyID
	m.Currency = r.Currency
	m.Rate = r.Rate
	m.ValidFrom = r.ValidFrom
}

// CurrencyRateModelFromDomain creates a new persistence model from a domain CurrencyRate.
func CurrencyRateModelFromDomain(r *currency.CurrencyRate) *CurrencyRateModel {
	m := &CurrencyRateModel{}
	m.FromDomain(r)
	return m
}
