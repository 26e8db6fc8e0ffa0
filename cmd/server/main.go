package main

import (
	"context"
	"database/sql"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"staffdesk/internal/benefit"
	benefithandler "staffdesk/internal/benefit/handler"
	benefitmetrics "staffdesk/internal/benefit/metrics"
	benefitmodels "staffdesk/internal/benefit/models"
	benefitservice "staffdesk/internal/benefit/service"
	benefitstore "staffdesk/internal/benefit/store"
	"staffdesk/internal/employee"
	employeehandler "staffdesk/internal/employee/handler"
	employeemetrics "staffdesk/internal/employee/metrics"
	employeemodels "staffdesk/internal/employee/models"
	employeeservice "staffdesk/internal/employee/service"
	"staffdesk/internal/persistence"
	"staffdesk/internal/platform/auditlog"
	"staffdesk/internal/platform/config"
	"staffdesk/internal/platform/httpserver"
	"staffdesk/internal/platform/logger"
	platformmetrics "staffdesk/internal/platform/metrics"
	"staffdesk/internal/store"
	"staffdesk/internal/store/memory"
	"staffdesk/internal/store/postgres"
	"staffdesk/internal/user"
	userhandler "staffdesk/internal/user/handler"
	usermodels "staffdesk/internal/user/models"
	userservice "staffdesk/internal/user/service"
	"staffdesk/internal/validation"
	"staffdesk/pkg/clock"
	"staffdesk/pkg/platform/middleware/requestmeta"
	"staffdesk/pkg/requestcontext"
)

// datastore is the full storage surface main wires. Both the memory and
// postgres stores satisfy it.
type datastore interface {
	persistence.Committer
	GetEmployee(ctx context.Context, id uuid.UUID) (*employeemodels.Employee, error)
	ListEmployees(ctx context.Context) ([]*employeemodels.Employee, error)
	EmployeeExists(ctx context.Context, id uuid.UUID) (bool, error)
	GetUser(ctx context.Context, id uuid.UUID) (*usermodels.User, error)
	ListUsers(ctx context.Context) ([]*usermodels.User, error)
	PutBenefit(ctx context.Context, b *benefitmodels.Benefit) error
	GetBenefit(ctx context.Context, id uuid.UUID) (*benefitmodels.Benefit, error)
	ListBenefits(ctx context.Context) ([]*benefitmodels.Benefit, error)
	ListAssignments(ctx context.Context, employeeID uuid.UUID) ([]*benefitmodels.Assignment, error)
	ReplaceAssignments(ctx context.Context, employeeID uuid.UUID, rows []*benefitmodels.Assignment) error
}

// main wires high-level dependencies and keeps the server lifecycle small.
// Business logic lives in the internal service packages.
func main() {
	cfg := config.FromEnv()
	log := logger.New()
	ctx := context.Background()

	db, err := openStore(ctx, cfg)
	if err != nil {
		log.Error("open store", "error", err)
		os.Exit(1)
	}
	if err := store.SeedBenefits(ctx, db); err != nil {
		log.Error("seed benefits", "error", err)
		os.Exit(1)
	}

	trail, closeTrail, err := openTrail(cfg, log)
	if err != nil {
		log.Error("open audit trail", "error", err)
		os.Exit(1)
	}
	defer closeTrail()

	committer := persistence.NewAuditCommitter(db,
		persistence.WithClock(clock.System),
		persistence.WithAuthor(contextAuthor),
		persistence.WithTrail(trail),
	)

	benefitReader := openBenefitReader(cfg, db, log)

	registry, err := validation.NewRegistry(
		employee.NewCreateValidator(),
		employee.NewUpdateValidator(db),
		user.NewCreateValidator(),
		user.NewUpdateValidator(),
		benefit.NewReplaceValidator(),
	)
	if err != nil {
		log.Error("build validator registry", "error", err)
		os.Exit(1)
	}
	pipeline := validation.NewPipeline(registry, log)

	employees := employeeservice.New(db, committer, employeemetrics.New())
	users := userservice.New(db, committer)
	benefits := benefitservice.New(benefitReader, db, db, benefitmetrics.New())

	router := chi.NewRouter()
	router.Use(chimw.Recoverer)
	router.Use(requestmeta.Middleware)
	router.Use(platformmetrics.NewHTTP().Middleware)
	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	router.Handle("/metrics", promhttp.Handler())
	employeehandler.New(employees, pipeline, log).Register(router)
	userhandler.New(users, pipeline, log).Register(router)
	benefithandler.New(benefits, pipeline, log).Register(router)

	srv := httpserver.New(cfg.Addr, router)

	log.Info("starting staffdesk", "addr", cfg.Addr)

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt)
	<-quit

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
		os.Exit(1)
	}
}

// contextAuthor resolves the audit author from the request context, falling
// back to the system identity for unattributed writes.
func contextAuthor(ctx context.Context) string {
	if actor := requestcontext.Actor(ctx); actor != "" {
		return actor
	}
	return "system"
}

// openStore selects postgres when configured, memory otherwise.
func openStore(ctx context.Context, cfg config.Server) (datastore, error) {
	if cfg.PostgresURL == "" {
		return memory.New(), nil
	}
	sqlDB, err := sql.Open("postgres", cfg.PostgresURL)
	if err != nil {
		return nil, err
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return nil, err
	}
	pg := postgres.New(sqlDB)
	if err := pg.EnsureSchema(ctx); err != nil {
		return nil, err
	}
	return pg, nil
}

// openTrail builds the audit trail publisher, no-op when unconfigured.
func openTrail(cfg config.Server, log *slog.Logger) (auditlog.Publisher, func(), error) {
	if len(cfg.KafkaBrokers) == 0 {
		return auditlog.Noop{}, func() {}, nil
	}
	kafka, err := auditlog.NewKafka(cfg.KafkaBrokers, cfg.AuditTopic, log)
	if err != nil {
		return nil, nil, err
	}
	return kafka, kafka.Close, nil
}

// openBenefitReader fronts benefit reads with Redis when configured.
func openBenefitReader(cfg config.Server, db datastore, log *slog.Logger) benefitservice.BenefitReader {
	if cfg.RedisURL == "" {
		return db
	}
	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		log.Warn("invalid redis URL, caching disabled", "error", err)
		return db
	}
	return benefitstore.NewCache(db, redis.NewClient(opts), config.BenefitCacheTTL, log)
}
