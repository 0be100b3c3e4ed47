package models

import (
	"github.com/batchpay/backend/internal/domain/partner"
	"github.com/google/uuid"
)

// PartnerModel is the persistence model for the Partner aggregate root.
type PartnerModel struct {
	CompanyAggregateModel
	Code                string       `gorm:"type:varchar(50);not null;uniqueIndex:idx_partner_company_code,priority:2"`
	DisplayName         string       `gorm:"type:varchar(200);not null;index"`
	Role                partner.Role `gorm:"type:varchar(20);not null;index"`
	CommercialPartnerID uuid.UUID    `gorm:"type:uuid;not null;index"`
	Email               string       `gorm:"type:varchar(200)"`
	Active              bool         `gorm:"not null;default:true;index"`
}

// TableName returns the table name for GORM
func (PartnerModel) TableName() string {
	return "partners"
}

// ToDomain converts the persistence model to a domain Partner entity.
func (m *PartnerModel) ToDomain() *partner.Partner {
	return &partner.Partner{
		CompanyAggregateRoot: m.ToDomainCompanyAggregateRoot(),
		Code:                 m.Code,
		DisplayName:          m.DisplayName,
		Role:                 m.Role,
		CommercialPartnerID:  m.CommercialPartnerID,
		Email:                m.Email,
		Active:               m.Active,
	}
}

// FromDomain populates the persistence model from a domain Partner entity.
func (m *PartnerModel) FromDomain(p *partner.Partner) {
	m.FromDomainCompanyAggregateRoot(p.CompanyAggregateRoot)
	m.Code = p.Code
	m.DisplayName = p.DisplayName
	m.Role = p.Role
	m.CommercialPartnerID = p.CommercialPartnerID
	m.Email = p.Email
	m.Active = p.Active
}

// PartnerModelFromDomain creates a new persistence model from a domain Partner.
func PartnerModelFromDomain(p *partner.Partner) *PartnerModel {
	m := &PartnerModel{}
	m.FromDomain(p)
	return m
}
