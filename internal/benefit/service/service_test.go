package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"staffdesk/internal/benefit/metrics"
	"staffdesk/internal/benefit/models"
	emodels "staffdesk/internal/employee/models"
	"staffdesk/internal/persistence"
	"staffdesk/internal/store/memory"
	"staffdesk/pkg/domainerrors"
)

// promauto registers against the default registry, so the package shares one
// metrics instance across tests.
var testMetrics = metrics.New()

type fixture struct {
	svc      *Service
	db       *memory.DB
	employee uuid.UUID
	health   uuid.UUID
	dental   uuid.UUID
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	db := memory.New()

	health := uuid.New()
	dental := uuid.New()
	require.NoError(t, db.PutBenefit(ctx, &models.Benefit{ID: health, Name: "Health", BaseCost: 10000}))
	require.NoError(t, db.PutBenefit(ctx, &models.Benefit{ID: dental, Name: "Dental", BaseCost: 2500}))

	e := &emodels.Employee{ID: uuid.New(), FirstName: "Jane", LastName: "Doe"}
	require.NoError(t, db.Commit(ctx, []persistence.Change{{Op: persistence.OpInsert, Record: e}}))

	return &fixture{
		svc:      New(db, db, db, testMetrics),
		db:       db,
		employee: e.ID,
		health:   health,
		dental:   dental,
	}
}

func TestReplaceAssignsRequestedBenefits(t *testing.T) {
	f := newFixture(t)

	views, err := f.svc.Replace(context.Background(), f.employee, []uuid.UUID{f.health, f.dental}, nil)
	require.NoError(t, err)
	require.Len(t, views, 2)
	assert.Equal(t, "Health", views[0].Name)
	assert.Equal(t, int64(10000), views[0].EffectiveCost)
	assert.Equal(t, "Dental", views[1].Name)
}

func TestReplaceCollapsesDuplicateInput(t *testing.T) {
	f := newFixture(t)

	views, err := f.svc.Replace(context.Background(), f.employee,
		[]uuid.UUID{f.dental, f.dental, f.dental}, nil)
	require.NoError(t, err)
	require.Len(t, views, 1, "duplicate ids collapse to a single assignment")

	rows, err := f.db.ListAssignments(context.Background(), f.employee)
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}

func TestReplaceSwapsExistingSet(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.Replace(ctx, f.employee, []uuid.UUID{f.health}, nil)
	require.NoError(t, err)

	views, err := f.svc.Replace(ctx, f.employee, []uuid.UUID{f.dental}, nil)
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, f.dental, views[0].BenefitID, "the prior set is fully replaced")
}

func TestReplaceAppliesCostOverride(t *testing.T) {
	f := newFixture(t)

	views, err := f.svc.Replace(context.Background(), f.employee,
		[]uuid.UUID{f.health}, map[uuid.UUID]int64{f.health: 6000})
	require.NoError(t, err)
	require.Len(t, views, 1)
	require.NotNil(t, views[0].CostOverride)
	assert.Equal(t, int64(6000), *views[0].CostOverride)
	assert.Equal(t, int64(6000), views[0].EffectiveCost, "override wins over base cost")
	assert.Equal(t, int64(10000), views[0].BaseCost, "base cost stays visible alongside the override")
}

func TestReplaceEmptySetClearsAssignments(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.Replace(ctx, f.employee, []uuid.UUID{f.health}, nil)
	require.NoError(t, err)

	views, err := f.svc.Replace(ctx, f.employee, nil, nil)
	require.NoError(t, err)
	assert.Empty(t, views)

	rows, err := f.db.ListAssignments(ctx, f.employee)
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestReplaceUnknownEmployeeIsNotFound(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Replace(context.Background(), uuid.New(), []uuid.UUID{f.health}, nil)
	require.Error(t, err)
	assert.Equal(t, domainerrors.CodeNotFound, domainerrors.CodeOf(err))
}

func TestReplaceUnknownBenefitIsNotFound(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Replace(context.Background(), f.employee, []uuid.UUID{uuid.New()}, nil)
	require.Error(t, err)
	assert.Equal(t, domainerrors.CodeNotFound, domainerrors.CodeOf(err))

	rows, err := f.db.ListAssignments(context.Background(), f.employee)
	require.NoError(t, err)
	assert.Empty(t, rows, "nothing is written when any requested benefit is unknown")
}

func TestListForEmployeeJoinsCatalog(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.Replace(ctx, f.employee, []uuid.UUID{f.dental}, map[uuid.UUID]int64{f.dental: 2000})
	require.NoError(t, err)

	views, err := f.svc.ListForEmployee(ctx, f.employee)
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, "Dental", views[0].Name)
	assert.Equal(t, int64(2000), views[0].EffectiveCost)
}

func TestListForUnknownEmployeeIsNotFound(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.ListForEmployee(context.Background(), uuid.New())
	require.Error(t, err)
	assert.Equal(t, domainerrors.CodeNotFound, domainerrors.CodeOf(err))
}

func TestCatalogReturnsSeededBenefits(t *testing.T) {
	f := newFixture(t)

	benefits, err := f.svc.Catalog(context.Background())
	require.NoError(t, err)
	assert.Len(t, benefits, 2)
}
