package models

import (
	"strings"

	"github.com/google/uuid"
)

// Benefit is one entry in the seeded benefits catalog. BaseCost is in cents.
type Benefit struct {
	ID       uuid.UUID `json:"id"`
	Name     string    `json:"name"`
	BaseCost int64     `json:"base_cost"`
}

// Assignment links one employee to one benefit. The pair (EmployeeID,
// BenefitID) is unique across all rows; the store enforces it as a hard
// constraint and the service de-duplicates before any write reaches it.
type Assignment struct {
	ID           uuid.UUID `json:"id"`
	EmployeeID   uuid.UUID `json:"employee_id"`
	BenefitID    uuid.UUID `json:"benefit_id"`
	CostOverride *int64    `json:"cost_override,omitempty"`
}

// EffectiveCost resolves the cost for this assignment: the override when
// present, otherwise the benefit's base cost.
func (a *Assignment) EffectiveCost(baseCost int64) int64 {
	if a.CostOverride != nil {
		return *a.CostOverride
	}
	return baseCost
}

// KindReplaceBenefits is the payload kind for the replace endpoint.
const KindReplaceBenefits = "benefits.replace"

// ReplaceBenefitsRequest replaces an employee's full benefit assignment set.
// CostOverrides is keyed by benefit ID and applies to matching entries only.
type ReplaceBenefitsRequest struct {
	BenefitIDs    []string         `json:"benefit_ids"`
	CostOverrides map[string]int64 `json:"cost_overrides,omitempty"`
}

func (r *ReplaceBenefitsRequest) PayloadKind() string { return KindReplaceBenefits }

func (r *ReplaceBenefitsRequest) Normalize() {
	for i, id := range r.BenefitIDs {
		r.BenefitIDs[i] = strings.TrimSpace(strings.ToLower(id))
	}
	if len(r.CostOverrides) > 0 {
		overrides := make(map[string]int64, len(r.CostOverrides))
		for key, cost := range r.CostOverrides {
			overrides[strings.TrimSpace(strings.ToLower(key))] = cost
		}
		r.CostOverrides = overrides
	}
}
