package handler

import (
	"github.com/batchpay/backend/internal/domain/partner"
	"github.com/batchpay/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// PartnerHandler handles partner API endpoints
type PartnerHandler struct {
	BaseHandler
	partners partner.Repository
}

// NewPartnerHandler creates a new PartnerHandler
func NewPartnerHandler(partners partner.Repository) *PartnerHandler {
	return &PartnerHandler{partners: partners}
}

// RegisterRoutes registers partner routes
func (h *PartnerHandler) RegisterRoutes(rg *gin.RouterGroup) {
	partners := rg.Group("/partners")
	{
		partners.GET("", h.List)
		partners.GET("/:id", h.Get)
		partners.POST("", h.Create)
	}
}

// CreatePartnerRequest is the request body for creating a partner
type CreatePartnerRequest struct {
	Code        string `json:"code" binding:"required,max=50"`
	DisplayName string `json:"display_name" binding:"required,max=200"`
	Role        string `json:"role" binding:"required,oneof=CUSTOMER VENDOR BOTH"`
	Email       string `json:"email" binding:"omitempty,email"`
}

// listPartnersQuery holds the optional list filters
type listPartnersQuery struct {
	Role   string `form:"role" binding:"omitempty,oneof=CUSTOMER VENDOR BOTH"`
	Active *bool  `form:"active"`
	Search string `form:"search"`
}

// List returns the partners of the acting company
// @Summary List partners
// @Tags partners
// @Produce json
// @Success 200 {object} dto.Response{data=[]dto.PartnerResponse}
// @Router /partners [get]
func (h *PartnerHandler) List(c *gin.Context) {
	companyID, err := getCompanyID(c)
	if err != nil {
		h.BadRequest(c, "Invalid X-Company-ID header")
		return
	}

	var q listPartnersQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	filter := partner.Filter{Active: q.Active, Search: q.Search}
	if q.Role != "" {
		role := partner.Role(q.Role)
		filter.Role = &role
	}

	found, err := h.partners.FindAll(c.Request.Context(), companyID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	resp := make([]dto.PartnerResponse, len(found))
	for i, p := range found {
		resp[i] = toPartnerResponse(&p)
	}
	h.Success(c, resp)
}

// Get returns one partner by ID
// @Summary Get a partner
// @Tags partners
// @Produce json
// @Param id path string true "Partner ID"
// @Success 200 {object} dto.Response{data=dto.PartnerResponse}
// @Router /partners/{id} [get]
func (h *PartnerHandler) Get(c *gin.Context) {
	var req dto.IDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	id, err := uuid.Parse(req.ID)
	if err != nil {
		h.BadRequest(c, "Invalid partner ID")
		return
	}

	p, err := h.partners.FindByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toPartnerResponse(p))
}

// Create registers a new partner
// @Summary Create a partner
// @Tags partners
// @Accept json
// @Produce json
// @Param request body CreatePartnerRequest true "Partner fields"
// @Success 201 {object} dto.Response{data=dto.PartnerResponse}
// @Router /partners [post]
func (h *PartnerHandler) Create(c *gin.Context) {
	var req CreatePartnerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	companyID, err := getCompanyID(c)
	if err != nil {
		h.BadRequest(c, "Invalid X-Company-ID header")
		return
	}

	if existing, err := h.partners.FindByCode(c.Request.Context(), companyID, req.Code); err == nil && existing != nil {
		h.Error(c, 409, dto.ErrCodeAlreadyExists, "Partner code already in use")
		return
	}

	p, err := partner.NewPartner(companyID, req.Code, req.DisplayName, partner.Role(req.Role))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	p.Email = req.Email

	if err := h.partners.Save(c.Request.Context(), p); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, toPartnerResponse(p))
}

func toPartnerResponse(p *partner.Partner) dto.PartnerResponse {
	return dto.PartnerResponse{
		ID:                  p.ID.String(),
		Code:                p.Code,
		DisplayName:         p.DisplayName,
		Role:                string(p.Role),
		CommercialPartnerID: p.CommercialPartnerID.String(),
		Email:               p.Email,
		Active:              p.Active,
	}
}
