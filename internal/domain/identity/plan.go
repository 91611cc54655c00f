package identity

// Plan is the subscription tier of a tenant
type Plan string

const (
	PlanFree       Plan = "free"
	PlanBasic      Plan = "basic"
	PlanPro        Plan = "pro"
	PlanEnterprise Plan = "enterprise"
)

// Unlimited marks a plan limit without an upper bound
const Unlimited = -1

// PlanLimits caps how many resources a tenant may own
type PlanLimits struct {
	MaxBranches int `json:"max_branches"`
	MaxProducts int `json:"max_products"`
	MaxUsers    int `json:"max_users"`
}

var planLimits = map[Plan]PlanLimits{
	PlanFree:       {MaxBranches: 1, MaxProducts: 50, MaxUsers: 2},
	PlanBasic:      {MaxBranches: 3, MaxProducts: 200, MaxUsers: 5},
	PlanPro:        {MaxBranches: 10, MaxProducts: 1000, MaxUsers: 20},
	PlanEnterprise: {MaxBranches: Unlimited, MaxProducts: Unlimited, MaxUsers: Unlimited},
}

// IsValid checks if the plan is known
func (p Plan) IsValid() bool {
	_, ok := planLimits[p]
	return ok
}

// Limits returns the plan's resource limits; unknown plans get the free tier
func (p Plan) Limits() PlanLimits {
	if l, ok := planLimits[p]; ok {
		return l
	}
	return planLimits[PlanFree]
}

// AllPlans returns the plans from cheapest to most expensive
func AllPlans() []Plan {
	return []Plan{PlanFree, PlanBasic, PlanPro, PlanEnterprise}
}

// withinLimit reports whether one more resource fits: current >= limit is rejected unless unlimited
func withinLimit(limit int, current int64) bool {
	if limit == Unlimited {
		return true
	}
	return current < int64(limit)
}
