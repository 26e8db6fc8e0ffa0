// Package benefit holds the benefit module's validators.
package benefit

import (
	"slices"

	"staffdesk/internal/benefit/models"
	"staffdesk/internal/validation"
)

// NewReplaceValidator validates benefit replacement payloads. Existence of the
// referenced benefits is a service concern (404), not a field rule.
func NewReplaceValidator() validation.Validator {
	return validation.Bind(models.KindReplaceBenefits, func(p *models.ReplaceBenefitsRequest) []validation.Field {
		overrideKeys := make([]string, 0, len(p.CostOverrides))
		for key := range p.CostOverrides {
			overrideKeys = append(overrideKeys, key)
		}
		// Map iteration order is random; sort so the reported key is stable.
		slices.Sort(overrideKeys)

		return []validation.Field{
			{Name: "benefit_ids", Rules: []validation.Rule{
				validation.Each(p.BenefitIDs, validation.IsUUID, "Benefit id %q is not a valid identifier."),
			}},
			{Name: "cost_overrides", Rules: []validation.Rule{
				validation.Each(overrideKeys, validation.IsUUID, "Cost override key %q is not a valid identifier."),
			}},
		}
	})
}
