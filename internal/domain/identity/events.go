package identity

import (
	"github.com/google/uuid"
	"github.com/menuhub/backend/internal/domain/shared"
)

// Aggregate type constants
const (
	AggregateTypeTenant = "Tenant"
	AggregateTypeBranch = "Branch"
	AggregateTypeUser   = "UserProfile"
)

// Identity domain event types
const (
	EventTypeTenantCreated     = "TenantCreated"
	EventTypeTenantPlanChanged = "TenantPlanChanged"
	EventTypeBranchCreated     = "BranchCreated"
	EventTypeBranchDeleted     = "BranchDeleted"
	EventTypeUserRegistered    = "UserRegistered"
)

// TenantCreatedEvent is published when a restaurant signs up
type TenantCreatedEvent struct {
	shared.BaseDomainEvent
	Subdomain string `json:"subdomain"`
	Name      string `json:"name"`
	Plan      Plan   `json:"plan"`
}

// NewTenantCreatedEvent creates a new TenantCreatedEvent
func NewTenantCreatedEvent(t *Tenant) *TenantCreatedEvent {
	return &TenantCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeTenantCreated, AggregateTypeTenant, t.ID, t.ID),
		Subdomain:       t.Subdomain,
		Name:            t.Name,
		Plan:            t.Plan,
	}
}

// TenantPlanChangedEvent is published when the subscription plan changes
type TenantPlanChangedEvent struct {
	shared.BaseDomainEvent
	OldPlan Plan `json:"old_plan"`
	NewPlan Plan `json:"new_plan"`
}

// NewTenantPlanChangedEvent creates a new TenantPlanChangedEvent
func NewTenantPlanChangedEvent(t *Tenant, old Plan) *TenantPlanChangedEvent {
	return &TenantPlanChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeTenantPlanChanged, AggregateTypeTenant, t.ID, t.ID),
		OldPlan:         old,
		NewPlan:         t.Plan,
	}
}

// BranchCreatedEvent is published when a branch is opened
type BranchCreatedEvent struct {
	shared.BaseDomainEvent
	Name string `json:"name"`
}

// NewBranchCreatedEvent creates a new BranchCreatedEvent
func NewBranchCreatedEvent(b *Branch) *BranchCreatedEvent {
	return &BranchCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeBranchCreated, AggregateTypeBranch, b.ID, b.TenantID),
		Name:            b.Name,
	}
}

// BranchDeletedEvent is published after a branch is removed
type BranchDeletedEvent struct {
	shared.BaseDomainEvent
	Name string `json:"name"`
}

// NewBranchDeletedEvent creates a new BranchDeletedEvent
func NewBranchDeletedEvent(b *Branch) *BranchDeletedEvent {
	return &BranchDeletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeBranchDeleted, AggregateTypeBranch, b.ID, b.TenantID),
		Name:            b.Name,
	}
}

// UserRegisteredEvent is published when a user profile is created
type UserRegisteredEvent struct {
	shared.BaseDomainEvent
	Email    string       `json:"email"`
	Role     Role         `json:"role"`
	Provider AuthProvider `json:"provider"`
}

// NewUserRegisteredEvent creates a new UserRegisteredEvent
func NewUserRegisteredEvent(u *UserProfile) *UserRegisteredEvent {
	tenantID := uuid.Nil
	if u.TenantID != nil {
		tenantID = *u.TenantID
	}
	return &UserRegisteredEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeUserRegistered, AggregateTypeUser, u.ID, tenantID),
		Email:           u.Email,
		Role:            u.Role,
		Provider:        u.Provider,
	}
}
