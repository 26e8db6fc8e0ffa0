package handler

import (
	"context"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"staffdesk/internal/employee"
	"staffdesk/internal/employee/metrics"
	"staffdesk/internal/employee/models"
	employeeservice "staffdesk/internal/employee/service"
	"staffdesk/internal/persistence"
	"staffdesk/internal/store/memory"
	"staffdesk/internal/validation"
	"staffdesk/pkg/clock"
	"staffdesk/pkg/requestcontext"
	"staffdesk/pkg/testutil"
)

// promauto registers against the default registry, so the package shares one
// metrics instance across tests.
var testMetrics = metrics.New()

var frozen = time.Date(2022, 1, 1, 0, 0, 0, 0, time.UTC)

func newRouter(t *testing.T) (chi.Router, *memory.DB) {
	t.Helper()
	db := memory.New()
	committer := persistence.NewAuditCommitter(db,
		persistence.WithClock(clock.Fixed(frozen)),
		persistence.WithAuthor(func(ctx context.Context) string {
			if actor := requestcontext.Actor(ctx); actor != "" {
				return actor
			}
			return persistence.SystemAuthor(ctx)
		}),
	)
	svc := employeeservice.New(db, committer, testMetrics)

	registry, err := validation.NewRegistry(
		employee.NewCreateValidator(),
		employee.NewUpdateValidator(db),
	)
	require.NoError(t, err)
	log := slog.New(slog.DiscardHandler)
	pipeline := validation.NewPipeline(registry, log)

	router := chi.NewRouter()
	New(svc, pipeline, log).Register(router)
	return router, db
}

func validCreateBody() map[string]any {
	return map[string]any{
		"first_name": "Jane",
		"last_name":  "Doe",
		"address1":   "123 Main St",
		"email":      "jane.doe@example.com",
	}
}

func createEmployee(t *testing.T, router chi.Router) *models.Employee {
	t.Helper()
	req := testutil.WithRequestTime(
		testutil.WithRequestID(
			testutil.NewJSONRequest(t, http.MethodPost, "/employees", validCreateBody()),
			"test-request"),
		frozen)
	rr := testutil.DoRequest(router, req)
	testutil.AssertStatus(t, rr, http.StatusCreated)
	return testutil.UnmarshalResponse[models.Employee](t, rr)
}

func TestCreateEmployeeReturnsStampedRecord(t *testing.T) {
	router, _ := newRouter(t)

	created := createEmployee(t, router)
	assert.Equal(t, "Jane", created.FirstName)
	require.NotNil(t, created.CreatedAt)
	assert.Equal(t, frozen, *created.CreatedAt)
	assert.Nil(t, created.ModifiedAt)
}

func TestCreateEmployeeAttributesActor(t *testing.T) {
	router, db := newRouter(t)

	req := testutil.WithActor(
		testutil.NewJSONRequest(t, http.MethodPost, "/employees", validCreateBody()),
		"hr-admin")
	rr := testutil.DoRequest(router, req)
	testutil.AssertStatus(t, rr, http.StatusCreated)

	created := testutil.UnmarshalResponse[models.Employee](t, rr)
	stored, err := db.GetEmployee(req.Context(), created.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.CreatedBy)
	assert.Equal(t, "hr-admin", *stored.CreatedBy)
}

func TestCreateEmployeeRejectsInvalidPayload(t *testing.T) {
	router, _ := newRouter(t)

	req := testutil.NewJSONRequest(t, http.MethodPost, "/employees", map[string]any{
		"first_name": "",
		"last_name":  "Doe",
		"email":      "not-an-address",
	})
	rr := testutil.DoRequest(router, req)
	testutil.AssertStatus(t, rr, http.StatusBadRequest)

	errs := testutil.ValidationErrors(t, rr)
	assert.Equal(t, []string{"First name is required."}, errs["first_name"])
	assert.Equal(t, []string{"Email must be a valid address."}, errs["email"])
}

func TestUpdateEmployeeCannotClearAddress(t *testing.T) {
	router, _ := newRouter(t)
	created := createEmployee(t, router)

	req := testutil.NewJSONRequest(t, http.MethodPut, "/employees/"+created.ID.String(), map[string]any{
		"first_name": "Jane",
		"last_name":  "Doe",
		"address1":   "",
	})
	rr := testutil.DoRequest(router, req)
	testutil.AssertStatus(t, rr, http.StatusBadRequest)

	assert.Equal(t,
		[]string{"Address1 must not be empty as an address was already set on the employee."},
		testutil.ValidationErrors(t, rr)["address1"])
}

func TestUpdateEmployeePersistsChanges(t *testing.T) {
	router, db := newRouter(t)
	created := createEmployee(t, router)

	req := testutil.NewJSONRequest(t, http.MethodPut, "/employees/"+created.ID.String(), map[string]any{
		"first_name": "Janet",
		"last_name":  "Doe",
		"address1":   "456 Oak Ave",
	})
	rr := testutil.DoRequest(router, req)
	testutil.AssertStatusOK(t, rr)

	stored, err := db.GetEmployee(req.Context(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Janet", stored.FirstName)
	assert.Equal(t, "456 Oak Ave", stored.Address1)
	require.NotNil(t, stored.ModifiedAt)
}

func TestGetUnknownEmployeeReturns404(t *testing.T) {
	router, _ := newRouter(t)

	req := testutil.NewRequest(t, http.MethodGet, "/employees/8f2d4d5a-0001-4c61-9a5e-b4f1b6f1d001")
	rr := testutil.DoRequest(router, req)
	testutil.AssertStatusAndError(t, rr, http.StatusNotFound, "not_found")
}

func TestGetMalformedIDReturns400(t *testing.T) {
	router, _ := newRouter(t)

	req := testutil.NewRequest(t, http.MethodGet, "/employees/not-a-uuid")
	rr := testutil.DoRequest(router, req)
	testutil.AssertStatusAndError(t, rr, http.StatusBadRequest, "bad_request")
}

func TestDeleteEmployeeReturns204(t *testing.T) {
	router, db := newRouter(t)
	created := createEmployee(t, router)

	req := testutil.NewRequest(t, http.MethodDelete, "/employees/"+created.ID.String())
	rr := testutil.DoRequest(router, req)
	testutil.AssertStatus(t, rr, http.StatusNoContent)

	_, err := db.GetEmployee(req.Context(), created.ID)
	require.Error(t, err)
}

func TestCreateRejectsUnknownFields(t *testing.T) {
	router, _ := newRouter(t)

	req := testutil.NewRequestWithBody(t, http.MethodPost, "/employees",
		`{"first_name":"Jane","last_name":"Doe","surprise":true}`)
	rr := testutil.DoRequest(router, req)
	testutil.AssertStatusAndError(t, rr, http.StatusBadRequest, "bad_request")
}
