package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEffectiveCostUsesBaseWithoutOverride(t *testing.T) {
	a := &Assignment{}
	assert.Equal(t, int64(10000), a.EffectiveCost(10000))
}

func TestEffectiveCostPrefersOverride(t *testing.T) {
	override := int64(6000)
	a := &Assignment{CostOverride: &override}
	assert.Equal(t, int64(6000), a.EffectiveCost(10000))
}

func TestEffectiveCostAllowsZeroOverride(t *testing.T) {
	// A zero override is a real value (fully subsidized), not absence.
	override := int64(0)
	a := &Assignment{CostOverride: &override}
	assert.Equal(t, int64(0), a.EffectiveCost(10000))
}

func TestReplaceRequestNormalizeCanonicalizesIDs(t *testing.T) {
	r := &ReplaceBenefitsRequest{BenefitIDs: []string{"  8F2D4D5A-0001-4C61-9A5E-B4F1B6F1D001  "}}
	r.Normalize()
	assert.Equal(t, []string{"8f2d4d5a-0001-4c61-9a5e-b4f1b6f1d001"}, r.BenefitIDs)
}
