package store

// Plan is a store's subscription tier.
type Plan string

const (
	PlanBasic    Plan = "BASIC"
	PlanStandard Plan = "STANDARD"
	PlanPremium  Plan = "PREMIUM"
)

// PlanLimits are the store fields derived from the plan. They are never
// authored on their own.
type PlanLimits struct {
	MaxProducts       int  `json:"maxProducts"`
	AllowReservations bool `json:"allowReservations"`
	Featured          bool `json:"featured"`
}

var planTable = map[Plan]PlanLimits{
	PlanBasic:    {MaxProducts: 20, AllowReservations: false, Featured: false},
	PlanStandard: {MaxProducts: 200, AllowReservations: true, Featured: false},
	PlanPremium:  {MaxProducts: 10000, AllowReservations: true, Featured: true},
}

// Valid reports whether p is a known plan.
func (p Plan) Valid() bool {
	_, ok := planTable[p]
	return ok
}

// ApplyPlan looks up the limits for p. Unknown plans get the BASIC limits.
func ApplyPlan(p Plan) PlanLimits {
	if limits, ok := planTable[p]; ok {
		return limits
	}
	return planTable[PlanBasic]
}
