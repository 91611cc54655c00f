package identity

import (
	"testing"

	"github.com/menuhub/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlanLimits(t *testing.T) {
	tests := []struct {
		plan     Plan
		branches int
		products int
		users    int
	}{
		{PlanFree, 1, 50, 2},
		{PlanBasic, 3, 200, 5},
		{PlanPro, 10, 1000, 20},
		{PlanEnterprise, Unlimited, Unlimited, Unlimited},
	}
	for _, tt := range tests {
		t.Run(string(tt.plan), func(t *testing.T) {
			l := tt.plan.Limits()
			assert.Equal(t, tt.branches, l.MaxBranches)
			assert.Equal(t, tt.products, l.MaxProducts)
			assert.Equal(t, tt.users, l.MaxUsers)
		})
	}

	assert.Equal(t, PlanFree.Limits(), Plan("gold").Limits())
	assert.False(t, Plan("gold").IsValid())
	assert.Len(t, AllPlans(), 4)
}

func TestNewTenant(t *testing.T) {
	t.Run("creates active tenant on free plan by default", func(t *testing.T) {
		tenant, err := NewTenant("  PizzaNow ", "Pizza Now", "")
		require.NoError(t, err)

		assert.Equal(t, "pizzanow", tenant.Subdomain)
		assert.Equal(t, "Pizza Now", tenant.Name)
		assert.Equal(t, PlanFree, tenant.Plan)
		assert.Equal(t, TenantStatusActive, tenant.Status)
		assert.Equal(t, SetupStepInfo, tenant.SetupStep)
		assert.Equal(t, 1, tenant.Version)
		require.Len(t, tenant.GetDomainEvents(), 1)
		assert.Equal(t, EventTypeTenantCreated, tenant.GetDomainEvents()[0].EventType())
	})

	t.Run("rejects invalid subdomains", func(t *testing.T) {
		for _, sub := range []string{"ab", "-pizza", "pizza-", "pizza now", "pizza_now", "www", "admin"} {
			_, err := NewTenant(sub, "Pizza", PlanFree)
			assert.Error(t, err, sub)
		}
	})

	t.Run("rejects empty name", func(t *testing.T) {
		_, err := NewTenant("pizzanow", "   ", PlanFree)
		require.Error(t, err)
		assert.Equal(t, "El nombre es obligatorio", err.Error())
	})

	t.Run("rejects unknown plan", func(t *testing.T) {
		_, err := NewTenant("pizzanow", "Pizza", Plan("gold"))
		assert.Error(t, err)
	})
}

func TestTenant_CanAddBranch(t *testing.T) {
	tests := []struct {
		name    string
		plan    Plan
		current int64
		want    bool
	}{
		{"free with no branches", PlanFree, 0, true},
		{"free with one branch", PlanFree, 1, false},
		{"basic with two branches", PlanBasic, 2, true},
		{"basic at limit", PlanBasic, 3, false},
		{"basic over limit", PlanBasic, 7, false},
		{"enterprise is unlimited", PlanEnterprise, 500, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tenant, err := NewTenant("pizzanow", "Pizza Now", tt.plan)
			require.NoError(t, err)
			assert.Equal(t, tt.want, tenant.CanAddBranch(tt.current))
		})
	}
}

func TestTenant_CanAddProductAndUser(t *testing.T) {
	tenant, _ := NewTenant("pizzanow", "Pizza Now", PlanFree)
	assert.True(t, tenant.CanAddProduct(49))
	assert.False(t, tenant.CanAddProduct(50))
	assert.True(t, tenant.CanAddUser(1))
	assert.False(t, tenant.CanAddUser(2))
}

func TestTenant_UpdateBranding(t *testing.T) {
	tenant, _ := NewTenant("pizzanow", "Pizza Now", PlanFree)

	replaced := tenant.UpdateBranding(Branding{LogoURL: "https://cdn/logo1.png", BannerURL: "https://cdn/banner.png"})
	assert.Empty(t, replaced)

	replaced = tenant.UpdateBranding(Branding{LogoURL: "https://cdn/logo2.png", BannerURL: "https://cdn/banner.png"})
	assert.Equal(t, []string{"https://cdn/logo1.png"}, replaced)
	assert.Equal(t, []string{"https://cdn/logo2.png", "https://cdn/banner.png"}, tenant.ImageURLs())
}

func TestTenant_UpdateSettings(t *testing.T) {
	tenant, _ := NewTenant("pizzanow", "Pizza Now", PlanFree)

	t.Run("keeps currency when omitted", func(t *testing.T) {
		s := DefaultTenantSettings()
		s.Currency = ""
		s.TaxRate = decimal.NewFromInt(21)
		require.NoError(t, tenant.UpdateSettings(s))
		assert.Equal(t, "ARS", tenant.Settings.Currency)
		assert.True(t, tenant.Settings.TaxRate.Equal(decimal.NewFromInt(21)))
	})

	t.Run("rejects tax above 100", func(t *testing.T) {
		s := DefaultTenantSettings()
		s.TaxRate = decimal.NewFromInt(101)
		assert.Error(t, tenant.UpdateSettings(s))
	})

	t.Run("rejects negative delivery fee", func(t *testing.T) {
		s := DefaultTenantSettings()
		s.DeliveryFee = decimal.NewFromInt(-1)
		assert.Error(t, tenant.UpdateSettings(s))
	})

	t.Run("requires at least one order type", func(t *testing.T) {
		s := DefaultTenantSettings()
		s.AcceptsDelivery, s.AcceptsPickup, s.AcceptsDineIn = false, false, false
		assert.Error(t, tenant.UpdateSettings(s))
	})
}

func TestTenant_ChangePlan(t *testing.T) {
	tenant, _ := NewTenant("pizzanow", "Pizza Now", PlanFree)
	tenant.ClearDomainEvents()

	require.NoError(t, tenant.ChangePlan(PlanPro))
	assert.Equal(t, PlanPro, tenant.Plan)
	require.Len(t, tenant.GetDomainEvents(), 1)
	ev := tenant.GetDomainEvents()[0].(*TenantPlanChangedEvent)
	assert.Equal(t, PlanFree, ev.OldPlan)
	assert.Equal(t, PlanPro, ev.NewPlan)

	require.NoError(t, tenant.ChangePlan(PlanPro))
	assert.Len(t, tenant.GetDomainEvents(), 1)

	assert.Error(t, tenant.ChangePlan(Plan("gold")))
}

func TestTenant_SuspendActivate(t *testing.T) {
	tenant, _ := NewTenant("pizzanow", "Pizza Now", PlanFree)

	require.Error(t, tenant.Activate())
	require.NoError(t, tenant.Suspend())
	assert.False(t, tenant.IsActive())
	require.Error(t, tenant.Suspend())
	require.NoError(t, tenant.Activate())
	assert.True(t, tenant.IsActive())
}

func TestTenant_CompleteSetupStep(t *testing.T) {
	tenant, _ := NewTenant("pizzanow", "Pizza Now", PlanFree)

	err := tenant.CompleteSetupStep(SetupStepBranch)
	require.Error(t, err)
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "SETUP_STEP_OUT_OF_ORDER", domainErr.Code)

	for _, step := range []SetupStep{SetupStepInfo, SetupStepBranding, SetupStepBranch, SetupStepMenu} {
		require.NoError(t, tenant.CompleteSetupStep(step))
	}
	assert.True(t, tenant.SetupCompleted())

	// revisiting a finished step is harmless
	require.NoError(t, tenant.CompleteSetupStep(SetupStepInfo))
	assert.Equal(t, SetupStepDone, tenant.SetupStep)

	assert.Error(t, tenant.CompleteSetupStep(SetupStepDone))
}
