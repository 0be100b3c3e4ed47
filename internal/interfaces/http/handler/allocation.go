package handler

import (
	"time"

	allocapp "github.com/batchpay/backend/internal/application/allocation"
	"github.com/batchpay/backend/internal/domain/allocation"
	"github.com/batchpay/backend/internal/domain/ledger"
	"github.com/batchpay/backend/internal/domain/partner"
	"github.com/batchpay/backend/internal/domain/shared/valueobject"
	"github.com/batchpay/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// parseDate parses a date string in RFC3339 or plain ISO date form
func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", s)
}

// AllocationHandler handles batch payment allocation endpoints
type AllocationHandler struct {
	BaseHandler
	allocationService *allocapp.Service
}

// NewAllocationHandler creates a new AllocationHandler
func NewAllocationHandler(allocationService *allocapp.Service) *AllocationHandler {
	return &AllocationHandler{
		allocationService: allocationService,
	}
}

// RegisterRoutes registers allocation routes
func (h *AllocationHandler) RegisterRoutes(rg *gin.RouterGroup) {
	allocations := rg.Group("/allocations")
	{
		allocations.POST("/load", h.Load)
		allocations.POST("/confirm", h.Confirm)
	}
}

// Load builds the allocation line set for a partner
// @Summary Load open invoices for batch payment
// @Tags allocations
// @Accept json
// @Produce json
// @Param request body dto.LoadAllocationRequest true "Allocation inputs"
// @Success 200 {object} dto.Response{data=dto.LoadAllocationResponse}
// @Router /allocations/load [post]
func (h *AllocationHandler) Load(c *gin.Context) {
	var req dto.LoadAllocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	companyID, err := getCompanyID(c)
	if err != nil {
		h.BadRequest(c, "Invalid X-Company-ID header")
		return
	}

	domainReq, err := toAllocationRequest(companyID, req.PartnerID, req.Role, req.Currency, req.PaymentDate)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	domainReq.IncludeCommercialGroup = req.IncludeCommercialGroup
	domainReq.DefaultAmountPolicy = req.DefaultAmountPolicy

	result, err := h.allocationService.LoadInvoices(c.Request.Context(), domainReq)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	lines := make([]dto.AllocationLineResponse, len(result.Lines))
	for i, line := range result.Lines {
		lines[i] = dto.AllocationLineResponse{
			InvoiceID:         line.InvoiceID.String(),
			InvoiceNumber:     line.InvoiceNumber,
			InvoiceDate:       line.InvoiceDate.Format("2006-01-02"),
			MoveType:          string(line.MoveType),
			InvoiceCurrency:   line.InvoiceCurrency.String(),
			Residual:          line.Residual.String(),
			ResidualConverted: line.ResidualConverted.String(),
			AmountToPay:       line.AmountToPay.String(),
		}
	}

	h.Success(c, dto.LoadAllocationResponse{Lines: lines, Total: result.Total})
}

// Confirm validates the submitted lines and posts one batch payment
// @Summary Confirm a batch payment allocation
// @Tags allocations
// @Accept json
// @Produce json
// @Param request body dto.ConfirmAllocationRequest true "Allocation lines to settle"
// @Success 201 {object} dto.Response{data=dto.ConfirmAllocationResponse}
// @Router /allocations/confirm [post]
func (h *AllocationHandler) Confirm(c *gin.Context) {
	var req dto.ConfirmAllocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	companyID, err := getCompanyID(c)
	if err != nil {
		h.BadRequest(c, "Invalid X-Company-ID header")
		return
	}

	domainReq, err := toAllocationRequest(companyID, req.PartnerID, req.Role, req.Currency, req.PaymentDate)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	domainReq.Memo = req.Memo

	journalID, err := uuid.Parse(req.JournalID)
	if err != nil {
		h.BadRequest(c, "Invalid journal_id")
		return
	}
	domainReq.JournalID = journalID

	if req.MethodID != "" {
		methodID, err := uuid.Parse(req.MethodID)
		if err != nil {
			h.BadRequest(c, "Invalid method_id")
			return
		}
		domainReq.MethodID = methodID
	}

	lines, err := toAllocationLines(req.Lines)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	result, err := h.allocationService.ConfirmAllocation(c.Request.Context(), domainReq, lines)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, toConfirmResponse(result))
}

// toAllocationRequest converts the shared request fields to the domain form
func toAllocationRequest(companyID uuid.UUID, partnerID, role, currency, paymentDate string) (allocation.AllocationRequest, error) {
	pid, err := uuid.Parse(partnerID)
	if err != nil {
		return allocation.AllocationRequest{}, err
	}
	date, err := parseDate(paymentDate)
	if err != nil {
		return allocation.AllocationRequest{}, err
	}
	return allocation.AllocationRequest{
		CompanyID:   companyID,
		PartnerID:   pid,
		Role:        partner.Role(role),
		Currency:    valueobject.Currency(currency),
		PaymentDate: date,
	}, nil
}

// toAllocationLines converts the submitted line DTOs to domain lines
func toAllocationLines(in []dto.ConfirmAllocationLine) ([]allocation.AllocationLine, error) {
	lines := make([]allocation.AllocationLine, len(in))
	for i, l := range in {
		invoiceID, err := uuid.Parse(l.InvoiceID)
		if err != nil {
			return nil, err
		}
		residualConverted, err := decimal.NewFromString(l.ResidualConverted)
		if err != nil {
			return nil, err
		}
		amountToPay, err := decimal.NewFromString(l.AmountToPay)
		if err != nil {
			return nil, err
		}
		lines[i] = allocation.AllocationLine{
			InvoiceID:         invoiceID,
			InvoiceNumber:     l.InvoiceNumber,
			ResidualConverted: residualConverted,
			AmountToPay:       amountToPay,
		}
	}
	return lines, nil
}

func toConfirmResponse(result *allocapp.ConfirmResult) dto.ConfirmAllocationResponse {
	skipped := make([]dto.SkippedLineResponse, len(result.Skipped))
	for i, s := range result.Skipped {
		skipped[i] = dto.SkippedLineResponse{
			InvoiceID:     s.InvoiceID.String(),
			InvoiceNumber: s.InvoiceNumber,
			AmountToPay:   s.AmountToPay.String(),
			Reason:        s.Reason,
		}
	}
	return dto.ConfirmAllocationResponse{
		Payment:         toPaymentResponse(result.Payment),
		Reconciliations: len(result.Reconciliations),
		Skipped:         skipped,
	}
}

func toPaymentResponse(p *ledger.Payment) dto.PaymentResponse {
	return dto.PaymentResponse{
		ID:          p.ID.String(),
		Number:      p.Number,
		State:       string(p.State),
		Direction:   string(p.Direction),
		PartnerID:   p.PartnerID.String(),
		JournalID:   p.JournalID.String(),
		MethodID:    p.MethodID.String(),
		PaymentDate: p.PaymentDate.Format("2006-01-02"),
		Currency:    p.Currency.String(),
		Amount:      p.Amount.String(),
		Memo:        p.Memo,
	}
}
