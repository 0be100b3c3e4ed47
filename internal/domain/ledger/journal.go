package ledger

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"sort"

	"github.com/batchpay/backend/internal/domain/shared"
	"github.com/batchpay/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
)

// JournalType restricts which journals can register payments
type JournalType string

const (
	JournalTypeBank JournalType = "BANK"
	JournalTypeCash JournalType = "CASH"
)

// IsValid checks if the journal type is valid
func (t JournalType) IsValid() bool {
	return t == JournalTypeBank || t == JournalTypeCash
}

// PaymentDirection is the direction money flows relative to the company
type PaymentDirection string

const (
	DirectionInbound  PaymentDirection = "INBOUND"  // money received
	DirectionOutbound PaymentDirection = "OUTBOUND" // money sent
)

// IsValid checks if the direction is valid
func (d PaymentDirection) IsValid() bool {
	return d == DirectionInbound || d == DirectionOutbound
}

// String returns the string representation
func (d PaymentDirection) String() string {
	return string(d)
}

// PaymentMethodLine is a payment method configured on a journal for one
// direction (e.g. "manual in", "SEPA transfer out")
type PaymentMethodLine struct {
	ID        uuid.UUID        `json:"id"`
	Name      string           `json:"name"`
	Direction PaymentDirection `json:"direction"`
	Sequence  int              `json:"sequence"`
}

// PaymentMethodLines implements GORM Scanner/Valuer for JSONB storage
type PaymentMethodLines []PaymentMethodLine

// Value implements driver.Valuer for GORM to store as JSONB
func (l PaymentMethodLines) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	return json.Marshal(l)
}

// Scan implements sql.Scanner for GORM to read from JSONB
func (l *PaymentMethodLines) Scan(value interface{}) error {
	if value == nil {
		*l = PaymentMethodLines{}
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return errors.New("failed to scan PaymentMethodLines: unsupported type")
	}

	if len(bytes) == 0 {
		*l = PaymentMethodLines{}
		return nil
	}

	return json.Unmarshal(bytes, l)
}

// Journal is a bank or cash journal payments are registered on
type Journal struct {
	shared.CompanyAggregateRoot
	Name        string               `json:"name"`
	Code        string               `json:"code"`
	Type        JournalType          `json:"type"`
	Currency    valueobject.Currency `json:"currency"` // empty means company currency
	MethodLines PaymentMethodLines   `json:"method_lines"`
	Active      bool                 `json:"active"`
}

// NewJournal creates a new journal
func NewJournal(companyID uuid.UUID, name, code string, journalType JournalType) (*Journal, error) {
	if name == "" {
		return nil, shared.NewDomainError("INVALID_JOURNAL_NAME", "Journal name cannot be empty")
	}
	if code == "" {
		return nil, shared.NewDomainError("INVALID_JOURNAL_CODE", "Journal code cannot be empty")
	}
	if !journalType.IsValid() {
		return nil, shared.NewDomainError("INVALID_JOURNAL_TYPE", "Journal type must be BANK or CASH")
	}

	return &Journal{
		CompanyAggregateRoot: shared.NewCompanyAggregateRoot(companyID),
		Name:                 name,
		Code:                 code,
		Type:                 journalType,
		MethodLines:          PaymentMethodLines{},
		Active:               true,
	}, nil
}

// SetCurrency fixes the journal to a specific currency
func (j *Journal) SetCurrency(currency valueobject.Currency) error {
	if !currency.IsValid() {
		return shared.NewDomainError("INVALID_CURRENCY", "Currency is not valid")
	}
	j.Currency = currency
	j.IncrementVersion()
	return nil
}

// AddMethodLine registers a payment method on the journal
func (j *Journal) AddMethodLine(name string, direction PaymentDirection) (*PaymentMethodLine, error) {
	if name == "" {
		return nil, shared.NewDomainError("INVALID_METHOD_NAME", "Payment method name cannot be empty")
	}
	if !direction.IsValid() {
		return nil, shared.NewDomainError("INVALID_DIRECTION", "Payment direction must be INBOUND or OUTBOUND")
	}

	line := PaymentMethodLine{
		ID:        uuid.New(),
		Name:      name,
		Direction: direction,
		Sequence:  len(j.MethodLines) + 1,
	}
	j.MethodLines = append(j.MethodLines, line)
	j.IncrementVersion()

	return &line, nil
}

// AvailableMethods returns the journal's method lines for a direction,
// ordered by sequence
func (j *Journal) AvailableMethods(direction PaymentDirection) []PaymentMethodLine {
	methods := make([]PaymentMethodLine, 0)
	for _, l := range j.MethodLines {
		if l.Direction == direction {
			methods = append(methods, l)
		}
	}
	sort.Slice(methods, func(i, k int) bool {
		return methods[i].Sequence < methods[k].Sequence
	})
	return methods
}

// MethodByID looks up a method line by ID; nil when absent
func (j *Journal) MethodByID(id uuid.UUID) *PaymentMethodLine {
	for i := range j.MethodLines {
		if j.MethodLines[i].ID == id {
			return &j.MethodLines[i]
		}
	}
	return nil
}
