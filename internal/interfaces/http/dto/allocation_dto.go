package dto

// LoadAllocationRequest is the request body for building an allocation
// line set for one partner.
type LoadAllocationRequest struct {
	PartnerID              string `json:"partner_id" binding:"required,uuid" example:"550e8400-e29b-41d4-a716-446655440000"`
	Role                   string `json:"role" binding:"required,oneof=CUSTOMER VENDOR" example:"CUSTOMER"`
	Currency               string `json:"currency" binding:"required,currency" example:"USD"`
	PaymentDate            string `json:"payment_date" binding:"required" example:"2026-01-15"`
	IncludeCommercialGroup bool   `json:"include_commercial_group" example:"false"`
	DefaultAmountPolicy    string `json:"default_amount_policy" binding:"omitempty,oneof=full_residual zero" example:"full_residual"`
}

// AllocationLineResponse is one proposed settlement line
type AllocationLineResponse struct {
	InvoiceID         string `json:"invoice_id" example:"550e8400-e29b-41d4-a716-446655440001"`
	InvoiceNumber     string `json:"invoice_number" example:"INV/2026/0042"`
	InvoiceDate       string `json:"invoice_date" example:"2026-01-02"`
	MoveType          string `json:"move_type" example:"CUSTOMER_INVOICE"`
	InvoiceCurrency   string `json:"invoice_currency" example:"EUR"`
	Residual          string `json:"residual" example:"100.00"`
	ResidualConverted string `json:"residual_converted" example:"110.00"`
	AmountToPay       string `json:"amount_to_pay" example:"110.00"`
}

// LoadAllocationResponse is the line set built for a request
type LoadAllocationResponse struct {
	Lines []AllocationLineResponse `json:"lines"`
	Total string                   `json:"total" example:"210.00"`
}

// ConfirmAllocationLine is one line submitted for settlement
type ConfirmAllocationLine struct {
	InvoiceID         string `json:"invoice_id" binding:"required,uuid"`
	InvoiceNumber     string `json:"invoice_number" binding:"required"`
	ResidualConverted string `json:"residual_converted" binding:"required"`
	AmountToPay       string `json:"amount_to_pay" binding:"required"`
}

// ConfirmAllocationRequest is the request body for confirming a batch payment
type ConfirmAllocationRequest struct {
	PartnerID   string                  `json:"partner_id" binding:"required,uuid"`
	Role        string                  `json:"role" binding:"required,oneof=CUSTOMER VENDOR"`
	Currency    string                  `json:"currency" binding:"required,currency"`
	PaymentDate string                  `json:"payment_date" binding:"required"`
	JournalID   string                  `json:"journal_id" binding:"required,uuid"`
	MethodID    string                  `json:"method_id" binding:"omitempty,uuid"`
	Memo        string                  `json:"memo" binding:"max=500"`
	Lines       []ConfirmAllocationLine `json:"lines" binding:"required,min=1,dive"`
}

// SkippedLineResponse reports an allocation line that could not be reconciled
type SkippedLineResponse struct {
	InvoiceID     string `json:"invoice_id"`
	InvoiceNumber string `json:"invoice_number"`
	AmountToPay   string `json:"amount_to_pay"`
	Reason        string `json:"reason"`
}

// PaymentResponse is the posted payment in API responses
type PaymentResponse struct {
	ID          string `json:"id"`
	Number      string `json:"number" example:"PAY/2026/0007"`
	State       string `json:"state" example:"POSTED"`
	Direction   string `json:"direction" example:"INBOUND"`
	PartnerID   string `json:"partner_id"`
	JournalID   string `json:"journal_id"`
	MethodID    string `json:"method_id"`
	PaymentDate string `json:"payment_date"`
	Currency    string `json:"currency" example:"USD"`
	Amount      string `json:"amount" example:"150.00"`
	Memo        string `json:"memo"`
}

// ConfirmAllocationResponse is the outcome of a confirmed batch payment
type ConfirmAllocationResponse struct {
	Payment         PaymentResponse       `json:"payment"`
	Reconciliations int                   `json:"reconciliations"`
	Skipped         []SkippedLineResponse `json:"skipped,omitempty"`
}

// PartnerResponse is a partner in API responses
type PartnerResponse struct {
	ID                  string `json:"id"`
	Code                string `json:"code" example:"CUST001"`
	DisplayName         string `json:"display_name" example:"Acme Corp"`
	Role                string `json:"role" example:"CUSTOMER"`
	CommercialPartnerID string `json:"commercial_partner_id"`
	Email               string `json:"email,omitempty"`
	Active              bool   `json:"active"`
}

// PaymentMethodLineResponse is one payment method offered by a journal
type PaymentMethodLineResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name" example:"Manual"`
	Direction string `json:"direction" example:"INBOUND"`
	Sequence  int    `json:"sequence"`
}

// JournalResponse is a journal in API responses
type JournalResponse struct {
	ID          string                      `json:"id"`
	Name        string                      `json:"name" example:"Main Bank"`
	Code        string                      `json:"code" example:"BNK1"`
	Type        string                      `json:"type" example:"BANK"`
	Currency    string                      `json:"currency,omitempty" example:"EUR"`
	MethodLines []PaymentMethodLineResponse `json:"method_lines"`
	Active      bool                        `json:"active"`
}
