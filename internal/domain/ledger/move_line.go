package ledger

import (
	"database/sql/driver"
	"encoding/json"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AccountKind classifies which account a ledger line posts to
type AccountKind string

const (
	AccountKindReceivable AccountKind = "RECEIVABLE"
	AccountKindPayable    AccountKind = "PAYABLE"
	AccountKindLiquidity  AccountKind = "LIQUIDITY"
	AccountKindOther      AccountKind = "OTHER"
)

// IsValid checks if the account kind is valid
func (k AccountKind) IsValid() bool {
	switch k {
	case AccountKindReceivable, AccountKindPayable, AccountKindLiquidity, AccountKindOther:
		return true
	}
	return false
}

// IsSettleable returns true for kinds that reconciliation can target
func (k AccountKind) IsSettleable() bool {
	return k == AccountKindReceivable || k == AccountKindPayable
}

// MoveLine is a single ledger line of an invoice or payment move.
// Balance is signed and expressed in company currency (debit > 0,
// credit < 0); AmountCurrency carries the same value in the move's
// own currency.
type MoveLine struct {
	ID             uuid.UUID       `json:"id"`
	AccountKind    AccountKind     `json:"account_kind"`
	Balance        decimal.Decimal `json:"balance"`
	AmountCurrency decimal.Decimal `json:"amount_currency"`
	Reconciled     bool            `json:"reconciled"`
}

// NewMoveLine creates a new ledger line
func NewMoveLine(kind AccountKind, balance, amountCurrency decimal.Decimal) MoveLine {
	return MoveLine{
		ID:             uuid.New(),
		AccountKind:    kind,
		Balance:        balance,
		AmountCurrency: amountCurrency,
	}
}

// MoveLines is a slice of MoveLine that implements GORM Scanner/Valuer
// for JSONB storage
type MoveLines []MoveLine

// Value implements driver.Valuer for GORM to store as JSONB
func (l MoveLines) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	return json.Marshal(l)
}

// Scan implements sql.Scanner for GORM to read from JSONB
func (l *MoveLines) Scan(value interface{}) error {
	if value == nil {
		*l = MoveLines{}
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return errors.New("failed to scan MoveLines: unsupported type")
	}

	if len(bytes) == 0 {
		*l = MoveLines{}
		return nil
	}

	return json.Unmarshal(bytes, l)
}

// FirstOpenSettleable returns the first unreconciled receivable/payable
// line, or nil when every settleable line is already reconciled.
func (l MoveLines) FirstOpenSettleable() *MoveLine {
	for i := range l {
		if l[i].AccountKind.IsSettleable() && !l[i].Reconciled {
			return &l[i]
		}
	}
	return nil
}
