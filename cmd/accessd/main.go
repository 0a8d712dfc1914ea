package main

import (
	"context"
	"log"
	"time"

	"accessd/internal/config"
	"accessd/internal/domain"
	"accessd/internal/infra/auth"
	"accessd/internal/infra/auth/rego"
	"accessd/internal/infra/db"
	httpinfra "accessd/internal/infra/http"
	"accessd/internal/infra/memstore"
	"accessd/internal/infra/ratelimit"
	"accessd/internal/usecase"

	"github.com/joho/godotenv"
)

type repositories struct {
	apps        usecase.ApplicationRepository
	companies   usecase.CompanyRepository
	departments usecase.DepartmentRepository
	managers    usecase.ManagerRepository
	projects    usecase.ProjectRepository
	logs        usecase.AccessLogRepository
}

func main() {
	_ = godotenv.Load()
	cfg := config.FromEnv()
	ctx := context.Background()

	repos, err := buildRepositories(cfg)
	if err != nil {
		log.Fatalf("failed to init store: %v", err)
	}

	authz, err := rego.NewAuthorizer(ctx)
	if err != nil {
		log.Fatalf("failed to init authorizer: %v", err)
	}

	sessions, err := auth.NewSessionCodec(cfg.JWTSecret, cfg.SessionTTL)
	if err != nil {
		log.Fatalf("failed to init sessions: %v", err)
	}

	limiter, err := buildRateLimiter(cfg)
	if err != nil {
		log.Fatalf("failed to init rate limiter: %v", err)
	}

	srv := httpinfra.NewServer(cfg, httpinfra.ServerDeps{
		Applications: usecase.NewApplicationService(repos.apps, repos.companies, authz, cfg.HomeCountry),
		Ledger:       usecase.NewLedgerService(repos.apps, repos.logs, authz),
		Stats:        usecase.NewStatsService(repos.apps, repos.logs, authz, cfg.StatsLocation()),
		Directory:    usecase.NewDirectoryService(repos.companies, repos.departments, repos.managers, repos.projects, authz),
		Sessions:     sessions,
		RateLimiter:  limiter,
	})
	if err := srv.Run(); err != nil {
		log.Fatalf("server exited: %v", err)
	}
}

// buildRepositories opens postgres when a DSN is configured and falls back
// to the in-memory store otherwise. The in-memory store loses everything
// on restart; it exists for local development.
func buildRepositories(cfg config.Config) (repositories, error) {
	if cfg.PostgresDSN == "" {
		log.Printf("POSTGRES_DSN not set, using in-memory store")
		mem := memstore.New()
		return repositories{
			apps:        mem.Applications(),
			companies:   mem.Companies(),
			departments: mem.Departments(),
			managers:    mem.Managers(),
			projects:    mem.Projects(),
			logs:        mem.AccessLogs(),
		}, nil
	}
	store, err := db.NewStore(cfg)
	if err != nil {
		return repositories{}, err
	}
	return repositories{
		apps:        db.NewApplicationRepository(store.DB),
		companies:   db.NewCompanyRepository(store.DB),
		departments: db.NewDepartmentRepository(store.DB),
		managers:    db.NewManagerRepository(store.DB),
		projects:    db.NewProjectRepository(store.DB),
		logs:        db.NewAccessLogRepository(store.DB),
	}, nil
}

func buildRateLimiter(cfg config.Config) (domain.RateLimiter, error) {
	if cfg.RedisAddr != "" {
		return ratelimit.NewRedisLimiter(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, time.Now)
	}
	return ratelimit.NewMemoryLimiter(cfg.RateLimitMaxKeys, time.Now), nil
}
