package handler

import (
	identityapp "github.com/menuhub/backend/internal/application/identity"
	"github.com/menuhub/backend/internal/domain/identity"
	"github.com/shopspring/decimal"
)

// =====================
// Tenant Request DTOs
// =====================

// ContactRequest holds the public contact channels of a restaurant
type ContactRequest struct {
	Phone    string `json:"phone" binding:"max=50"`
	Email    string `json:"email" binding:"omitempty,email,max=255"`
	Address  string `json:"address" binding:"max=500"`
	WhatsApp string `json:"whatsapp" binding:"max=50"`
}

func (r ContactRequest) toDomain() identity.Contact {
	return identity.Contact{
		Phone:    r.Phone,
		Email:    r.Email,
		Address:  r.Address,
		WhatsApp: r.WhatsApp,
	}
}

// OwnerRequest describes the first admin of a new tenant
type OwnerRequest struct {
	Email       string `json:"email" binding:"required,email,max=255"`
	Password    string `json:"password" binding:"required,min=6,max=128"`
	DisplayName string `json:"display_name" binding:"required,max=200"`
}

// CreateTenantRequest represents the request body for creating a tenant
type CreateTenantRequest struct {
	Subdomain string         `json:"subdomain" binding:"required,min=3,max=63"`
	Name      string         `json:"name" binding:"required,max=200"`
	Plan      string         `json:"plan" binding:"omitempty,oneof=free basic pro enterprise"`
	Contact   ContactRequest `json:"contact"`
	Owner     *OwnerRequest  `json:"owner"`
}

// UpdateTenantRequest represents the editable tenant information
type UpdateTenantRequest struct {
	Name    string         `json:"name" binding:"required,max=200"`
	Contact ContactRequest `json:"contact"`
}

func (r UpdateTenantRequest) toInput() identityapp.UpdateTenantInput {
	return identityapp.UpdateTenantInput{Name: r.Name, Contact: r.Contact.toDomain()}
}

// BrandingRequest represents the visual identity of a restaurant
type BrandingRequest struct {
	LogoURL        string `json:"logo_url" binding:"omitempty,url"`
	BannerURL      string `json:"banner_url" binding:"omitempty,url"`
	PrimaryColor   string `json:"primary_color" binding:"omitempty,hexcolor"`
	SecondaryColor string `json:"secondary_color" binding:"omitempty,hexcolor"`
	Description    string `json:"description" binding:"max=1000"`
}

func (r BrandingRequest) toDomain() identity.Branding {
	return identity.Branding{
		LogoURL:        r.LogoURL,
		BannerURL:      r.BannerURL,
		PrimaryColor:   r.PrimaryColor,
		SecondaryColor: r.SecondaryColor,
		Description:    r.Description,
	}
}

// SettingsRequest represents the ordering settings of a tenant
type SettingsRequest struct {
	Currency        string          `json:"currency" binding:"required,len=3"`
	Timezone        string          `json:"timezone" binding:"required,timezone"`
	TaxRate         decimal.Decimal `json:"tax_rate"`
	DeliveryFee     decimal.Decimal `json:"delivery_fee"`
	MinimumOrder    decimal.Decimal `json:"minimum_order"`
	AcceptsDelivery bool            `json:"accepts_delivery"`
	AcceptsPickup   bool            `json:"accepts_pickup"`
	AcceptsDineIn   bool            `json:"accepts_dine_in"`
	IsOpen          bool            `json:"is_open"`
}

func (r SettingsRequest) toInput() identityapp.SettingsInput {
	return identityapp.SettingsInput{
		Currency:        r.Currency,
		Timezone:        r.Timezone,
		TaxRate:         r.TaxRate,
		DeliveryFee:     r.DeliveryFee,
		MinimumOrder:    r.MinimumOrder,
		AcceptsDelivery: r.AcceptsDelivery,
		AcceptsPickup:   r.AcceptsPickup,
		AcceptsDineIn:   r.AcceptsDineIn,
		IsOpen:          r.IsOpen,
	}
}

// ChangePlanRequest represents the request body for a plan change
type ChangePlanRequest struct {
	Plan string `json:"plan" binding:"required,oneof=free basic pro enterprise"`
}

// AdvanceSetupRequest completes one configuration wizard step. Only the part
// matching Step is read.
type AdvanceSetupRequest struct {
	Step     string               `json:"step" binding:"required,oneof=info branding branch menu"`
	Info     *UpdateTenantRequest `json:"info"`
	Branding *BrandingRequest     `json:"branding"`
	Settings *SettingsRequest     `json:"settings"`
	Branch   *BranchRequest       `json:"branch"`
}

func (r AdvanceSetupRequest) toInput() identityapp.AdvanceSetupInput {
	in := identityapp.AdvanceSetupInput{Step: r.Step}
	if r.Info != nil {
		info := r.Info.toInput()
		in.Info = &info
	}
	if r.Branding != nil {
		branding := r.Branding.toDomain()
		in.Branding = &branding
	}
	if r.Settings != nil {
		settings := r.Settings.toInput()
		in.Settings = &settings
	}
	if r.Branch != nil {
		branch := r.Branch.toInput()
		in.Branch = &branch
	}
	return in
}

// TenantListQuery represents the query string of the tenant list
type TenantListQuery struct {
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	Search   string `form:"search" binding:"max=100"`
	Status   string `form:"status" binding:"omitempty,oneof=active inactive suspended"`
	Plan     string `form:"plan" binding:"omitempty,oneof=free basic pro enterprise"`
}
