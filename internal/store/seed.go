// Package store seeds reference data shared by the memory and postgres stores.
package store

import (
	"context"

	"github.com/google/uuid"

	bmodels "staffdesk/internal/benefit/models"
)

// BenefitWriter is the narrow surface seeding needs.
type BenefitWriter interface {
	PutBenefit(ctx context.Context, b *bmodels.Benefit) error
}

// Catalog IDs are fixed so seeding is idempotent across restarts.
var (
	BenefitHealthID = uuid.MustParse("8f2d4d5a-0001-4c61-9a5e-b4f1b6f1d001")
	BenefitDentalID = uuid.MustParse("8f2d4d5a-0002-4c61-9a5e-b4f1b6f1d002")
	BenefitVisionID = uuid.MustParse("8f2d4d5a-0003-4c61-9a5e-b4f1b6f1d003")
)

// SeedBenefits writes the default benefits catalog. Costs are in cents.
func SeedBenefits(ctx context.Context, w BenefitWriter) error {
	catalog := []*bmodels.Benefit{
		{ID: BenefitHealthID, Name: "Health", BaseCost: 10000},
		{ID: BenefitDentalID, Name: "Dental", BaseCost: 2500},
		{ID: BenefitVisionID, Name: "Vision", BaseCost: 1500},
	}
	for _, b := range catalog {
		if err := w.PutBenefit(ctx, b); err != nil {
			return err
		}
	}
	return nil
}
