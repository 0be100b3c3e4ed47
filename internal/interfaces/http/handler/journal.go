package handler

import (
	"github.com/batchpay/backend/internal/domain/ledger"
	"github.com/batchpay/backend/internal/domain/shared/valueobject"
	"github.com/batchpay/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// JournalHandler handles journal API endpoints
type JournalHandler struct {
	BaseHandler
	journals ledger.JournalRepository
}

// NewJournalHandler creates a new JournalHandler
func NewJournalHandler(journals ledger.JournalRepository) *JournalHandler {
	return &JournalHandler{journals: journals}
}

// RegisterRoutes registers journal routes
func (h *JournalHandler) RegisterRoutes(rg *gin.RouterGroup) {
	journals := rg.Group("/journals")
	{
		journals.GET("", h.List)
		journals.GET("/:id", h.Get)
		journals.POST("", h.Create)
	}
}

// CreateJournalRequest is the request body for creating a journal
type CreateJournalRequest struct {
	Name     string `json:"name" binding:"required,max=100"`
	Code     string `json:"code" binding:"required,max=20"`
	Type     string `json:"type" binding:"required,oneof=BANK CASH"`
	Currency string `json:"currency" binding:"omitempty,len=3"`
	Methods  []struct {
		Name      string `json:"name" binding:"required"`
		Direction string `json:"direction" binding:"required,oneof=INBOUND OUTBOUND"`
	} `json:"methods" binding:"omitempty,dive"`
}

// List returns the active journals of the acting company
// @Summary List journals
// @Tags journals
// @Produce json
// @Success 200 {object} dto.Response{data=[]dto.JournalResponse}
// @Router /journals [get]
func (h *JournalHandler) List(c *gin.Context) {
	companyID, err := getCompanyID(c)
	if err != nil {
		h.BadRequest(c, "Invalid X-Company-ID header")
		return
	}

	found, err := h.journals.FindAll(c.Request.Context(), companyID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	resp := make([]dto.JournalResponse, len(found))
	for i, j := range found {
		resp[i] = toJournalResponse(&j)
	}
	h.Success(c, resp)
}

// Get returns one journal by ID
// @Summary Get a journal
// @Tags journals
// @Produce json
// @Param id path string true "Journal ID"
// @Success 200 {object} dto.Response{data=dto.JournalResponse}
// @Router /journals/{id} [get]
func (h *JournalHandler) Get(c *gin.Context) {
	var req dto.IDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	id, err := uuid.Parse(req.ID)
	if err != nil {
		h.BadRequest(c, "Invalid journal ID")
		return
	}

	j, err := h.journals.FindByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toJournalResponse(j))
}

// Create registers a new journal with its payment methods
// @Summary Create a journal
// @Tags journals
// @Accept json
// @Produce json
// @Param request body CreateJournalRequest true "Journal fields"
// @Success 201 {object} dto.Response{data=dto.JournalResponse}
// @Router /journals [post]
func (h *JournalHandler) Create(c *gin.Context) {
	var req CreateJournalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	companyID, err := getCompanyID(c)
	if err != nil {
		h.BadRequest(c, "Invalid X-Company-ID header")
		return
	}

	j, err := ledger.NewJournal(companyID, req.Name, req.Code, ledger.JournalType(req.Type))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	if req.Currency != "" {
		if err := j.SetCurrency(valueobject.Currency(req.Currency)); err != nil {
			h.HandleError(c, err)
			return
		}
	}
	for _, m := range req.Methods {
		if _, err := j.AddMethodLine(m.Name, ledger.PaymentDirection(m.Direction)); err != nil {
			h.HandleError(c, err)
			return
		}
	}

	if err := h.journals.Save(c.Request.Context(), j); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, toJournalResponse(j))
}

func toJournalResponse(j *ledger.Journal) dto.JournalResponse {
	methods := make([]dto.PaymentMethodLineResponse, len(j.MethodLines))
	for i, m := range j.MethodLines {
		methods[i] = dto.PaymentMethodLineResponse{
			ID:        m.ID.String(),
			Name:      m.Name,
			Direction: string(m.Direction),
			Sequence:  m.Sequence,
		}
	}
	return dto.JournalResponse{
		ID:          j.ID.String(),
		Name:        j.Name,
		Code:        j.Code,
		Type:        string(j.Type),
		Currency:    j.Currency.String(),
		MethodLines: methods,
		Active:      j.Active,
	}
}
