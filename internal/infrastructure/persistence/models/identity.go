package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/menuhub/backend/internal/domain/identity"
	"github.com/shopspring/decimal"
)

// TenantModel is the persistence model for the Tenant aggregate.
// Branding, contact and settings are flattened into prefixed columns.
type TenantModel struct {
	AggregateModel
	Subdomain string                `gorm:"type:varchar(63);not null;uniqueIndex"`
	Name      string                `gorm:"type:varchar(200);not null"`
	OwnerID   *uuid.UUID            `gorm:"type:uuid"`
	Plan      identity.Plan         `gorm:"type:varchar(20);not null;default:'free'"`
	Status    identity.TenantStatus `gorm:"type:varchar(20);not null;default:'active'"`
	SetupStep identity.SetupStep    `gorm:"type:varchar(20);not null;default:'info'"`

	LogoURL        string `gorm:"type:varchar(500)"`
	BannerURL      string `gorm:"type:varchar(500)"`
	PrimaryColor   string `gorm:"type:varchar(20)"`
	SecondaryColor string `gorm:"type:varchar(20)"`
	Description    string `gorm:"type:text"`

	ContactPhone    string `gorm:"type:varchar(50)"`
	ContactEmail    string `gorm:"type:varchar(200)"`
	ContactAddress  string `gorm:"type:text"`
	ContactWhatsApp string `gorm:"column:contact_whatsapp;type:varchar(50)"`

	Currency        string          `gorm:"type:varchar(3);not null;default:'ARS'"`
	Timezone        string          `gorm:"type:varchar(64);not null"`
	TaxRate         decimal.Decimal `gorm:"type:decimal(5,2);not null;default:0"`
	DeliveryFee     decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	MinimumOrder    decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	AcceptsDelivery bool            `gorm:"not null;default:true"`
	AcceptsPickup   bool            `gorm:"not null;default:true"`
	AcceptsDineIn   bool            `gorm:"not null;default:false"`
	IsOpen          bool            `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (TenantModel) TableName() string {
	return "tenants"
}

// ToDomain converts the persistence model to a domain Tenant
func (m *TenantModel) ToDomain() *identity.Tenant {
	return &identity.Tenant{
		BaseAggregateRoot: m.ToAggregateRoot(),
		Subdomain:         m.Subdomain,
		Name:              m.Name,
		OwnerID:           m.OwnerID,
		Plan:              m.Plan,
		Status:            m.Status,
		SetupStep:         m.SetupStep,
		Branding: identity.Branding{
			LogoURL:        m.LogoURL,
			BannerURL:      m.BannerURL,
			PrimaryColor:   m.PrimaryColor,
			SecondaryColor: m.SecondaryColor,
			Description:    m.Description,
		},
		Contact: identity.Contact{
			Phone:    m.ContactPhone,
			Email:    m.ContactEmail,
			Address:  m.ContactAddress,
			WhatsApp: m.ContactWhatsApp,
		},
		Settings: identity.TenantSettings{
			Currency:        m.Currency,
			Timezone:        m.Timezone,
			TaxRate:         m.TaxRate,
			DeliveryFee:     m.DeliveryFee,
			MinimumOrder:    m.MinimumOrder,
			AcceptsDelivery: m.AcceptsDelivery,
			AcceptsPickup:   m.AcceptsPickup,
			AcceptsDineIn:   m.AcceptsDineIn,
			IsOpen:          m.IsOpen,
		},
	}
}

// FromDomain populates the persistence model from a domain Tenant
func (m *TenantModel) FromDomain(t *identity.Tenant) {
	m.FromDomainAggregateRoot(t.BaseAggregateRoot)
	m.Subdomain = t.Subdomain
	m.Name = t.Name
	m.OwnerID = t.OwnerID
	m.Plan = t.Plan
	m.Status = t.Status
	m.SetupStep = t.SetupStep
	m.LogoURL = t.Branding.LogoURL
	m.BannerURL = t.Branding.BannerURL
	m.PrimaryColor = t.Branding.PrimaryColor
	m.SecondaryColor = t.Branding.SecondaryColor
	m.Description = t.Branding.Description
	m.ContactPhone = t.Contact.Phone
	m.ContactEmail = t.Contact.Email
	m.ContactAddress = t.Contact.Address
	m.ContactWhatsApp = t.Contact.WhatsApp
	m.Currency = t.Settings.Currency
	m.Timezone = t.Settings.Timezone
	m.TaxRate = t.Settings.TaxRate
	m.DeliveryFee = t.Settings.DeliveryFee
	m.MinimumOrder = t.Settings.MinimumOrder
	m.AcceptsDelivery = t.Settings.AcceptsDelivery
	m.AcceptsPickup = t.Settings.AcceptsPickup
	m.AcceptsDineIn = t.Settings.AcceptsDineIn
	m.IsOpen = t.Settings.IsOpen
}

// TenantModelFromDomain creates a new persistence model from a domain Tenant
func TenantModelFromDomain(t *identity.Tenant) *TenantModel {
	m := &TenantModel{}
	m.FromDomain(t)
	return m
}

// BranchModel is the persistence model for the Branch aggregate
type BranchModel struct {
	TenantAggregateModel
	Name         string           `gorm:"type:varchar(200);not null"`
	Address      string           `gorm:"type:text"`
	City         string           `gorm:"type:varchar(100)"`
	Phone        string           `gorm:"type:varchar(50)"`
	Email        string           `gorm:"type:varchar(200)"`
	OpeningHours string           `gorm:"type:text"`
	Active       bool             `gorm:"not null;default:true"`
	IsMain       bool             `gorm:"not null;default:false"`
	DeliveryFee  *decimal.Decimal `gorm:"type:decimal(12,2)"`
	TaxRate      *decimal.Decimal `gorm:"type:decimal(5,2)"`
}

// TableName returns the table name for GORM
func (BranchModel) TableName() string {
	return "branches"
}

// ToDomain converts the persistence model to a domain Branch
func (m *BranchModel) ToDomain() *identity.Branch {
	return &identity.Branch{
		TenantAggregateRoot: m.ToTenantAggregateRoot(),
		Name:                m.Name,
		Address:             m.Address,
		City:                m.City,
		Phone:               m.Phone,
		Email:               m.Email,
		OpeningHours:        m.OpeningHours,
		Active:              m.Active,
		IsMain:              m.IsMain,
		DeliveryFee:         m.DeliveryFee,
		TaxRate:             m.TaxRate,
	}
}

// FromDomain populates the persistence model from a domain Branch
func (m *BranchModel) FromDomain(b *identity.Branch) {
	m.FromDomainTenantAggregateRoot(b.TenantAggregateRoot)
	m.Name = b.Name
	m.Address = b.Address
	m.City = b.City
	m.Phone = b.Phone
	m.Email = b.Email
	m.OpeningHours = b.OpeningHours
	m.Active = b.Active
	m.IsMain = b.IsMain
	m.DeliveryFee = b.DeliveryFee
	m.TaxRate = b.TaxRate
}

// BranchModelFromDomain creates a new persistence model from a domain Branch
func BranchModelFromDomain(b *identity.Branch) *BranchModel {
	m := &BranchModel{}
	m.FromDomain(b)
	return m
}

// UserProfileModel is the persistence model for the UserProfile aggregate.
// TenantID is NULL for superadmins.
type UserProfileModel struct {
	AggregateModel
	TenantID           *uuid.UUID            `gorm:"type:uuid;index"`
	Email              string                `gorm:"type:varchar(254);not null;index"`
	DisplayName        string                `gorm:"type:varchar(200);not null"`
	Phone              string                `gorm:"type:varchar(50)"`
	Address            string                `gorm:"type:text"`
	Role               identity.Role         `gorm:"type:varchar(20);not null;default:'client'"`
	Provider           identity.AuthProvider `gorm:"type:varchar(20);not null;default:'password'"`
	ProviderUID        string                `gorm:"column:provider_uid;type:varchar(200)"`
	PasswordHash       string                `gorm:"type:varchar(255)"`
	Active             bool                  `gorm:"not null;default:true"`
	LastLoginAt        *time.Time
	SessionsValidAfter *time.Time
}

// TableName returns the table name for GORM
func (UserProfileModel) TableName() string {
	return "user_profiles"
}

// ToDomain converts the persistence model to a domain UserProfile
func (m *UserProfileModel) ToDomain() *identity.UserProfile {
	return &identity.UserProfile{
		BaseAggregateRoot:  m.ToAggregateRoot(),
		TenantID:           m.TenantID,
		Email:              m.Email,
		DisplayName:        m.DisplayName,
		Phone:              m.Phone,
		Address:            m.Address,
		Role:               m.Role,
		Provider:           m.Provider,
		ProviderUID:        m.ProviderUID,
		PasswordHash:       m.PasswordHash,
		Active:             m.Active,
		LastLoginAt:        m.LastLoginAt,
		SessionsValidAfter: m.SessionsValidAfter,
	}
}

// FromDomain populates the persistence model from a domain UserProfile
func (m *UserProfileModel) FromDomain(u *identity.UserProfile) {
	m.FromDomainAggregateRoot(u.BaseAggregateRoot)
	m.TenantID = u.TenantID
	m.Email = u.Email
	m.DisplayName = u.DisplayName
	m.Phone = u.Phone
	m.Address = u.Address
	m.Role = u.Role
	m.Provider = u.Provider
	m.ProviderUID = u.ProviderUID
	m.PasswordHash = u.PasswordHash
	m.Active = u.Active
	m.LastLoginAt = u.LastLoginAt
	m.SessionsValidAfter = u.SessionsValidAfter
}

// UserProfileModelFromDomain creates a new persistence model from a domain UserProfile
func UserProfileModelFromDomain(u *identity.UserProfile) *UserProfileModel {
	m := &UserProfileModel{}
	m.FromDomain(u)
	return m
}
