package usecase

import (
	"context"
	"time"

	"accessd/internal/domain"
)

type ApplicationFilter struct {
	Status domain.ApplicationStatus
	// Query is a free-text match over applicant name, company-name
	// snapshot, and project name.
	Query string
}

type ApplicationRepository interface {
	Create(ctx context.Context, app domain.Application) (domain.Application, error)
	GetByID(ctx context.Context, id string) (*domain.Application, error)
	GetByQRID(ctx context.Context, qrid string) (*domain.Application, error)
	List(ctx context.Context, filter ApplicationFilter) ([]domain.Application, error)
	ListByIdentity(ctx context.Context, name, phone string) ([]domain.Application, error)
	Update(ctx context.Context, app domain.Application) (domain.Application, error)
	Delete(ctx context.Context, id string) error
	CountByStatus(ctx context.Context) (domain.StatusCounts, error)
}

type CompanyRepository interface {
	Create(ctx context.Context, company domain.Company) (domain.Company, error)
	GetByID(ctx context.Context, id string) (*domain.Company, error)
	GetByName(ctx context.Context, name string) (*domain.Company, error)
	List(ctx context.Context) ([]domain.Company, error)
	Update(ctx context.Context, company domain.Company) (domain.Company, error)
	Delete(ctx context.Context, id string) error
}

type DepartmentRepository interface {
	Create(ctx context.Context, dept domain.Department) (domain.Department, error)
	GetByID(ctx context.Context, id string) (*domain.Department, error)
	List(ctx context.Context) ([]domain.Department, error)
	Update(ctx context.Context, dept domain.Department) (domain.Department, error)
	Delete(ctx context.Context, id string) error
}

type ManagerRepository interface {
	Create(ctx context.Context, mgr domain.Manager) (domain.Manager, error)
	GetByID(ctx context.Context, id string) (*domain.Manager, error)
	List(ctx context.Context) ([]domain.Manager, error)
	CountByDepartment(ctx context.Context, departmentID string) (int, error)
	Update(ctx context.Context, mgr domain.Manager) (domain.Manager, error)
	Delete(ctx context.Context, id string) error
}

type ProjectRepository interface {
	Create(ctx context.Context, project domain.Project) (domain.Project, error)
	GetByID(ctx context.Context, id string) (*domain.Project, error)
	List(ctx context.Context) ([]domain.Project, error)
	Update(ctx context.Context, project domain.Project) (domain.Project, error)
	Delete(ctx context.Context, id string) error
}

type AccessLogRepository interface {
	// LatestByToken returns the most recent entry for a token, or nil when
	// the token has never logged an event.
	LatestByToken(ctx context.Context, qrid string) (*domain.AccessLogEntry, error)

	// Append writes a new ledger entry only if the token's latest event
	// type still equals expectPrev (empty string for "no prior entry").
	// A mismatch means a concurrent scan won the toggle; implementations
	// return domain.ErrConflict and write nothing.
	Append(ctx context.Context, entry domain.AccessLogEntry, expectPrev domain.AccessEventType) (domain.AccessLogEntry, error)

	ListBetween(ctx context.Context, from, to time.Time) ([]domain.AccessLogEntry, error)

	// LatestPerToken returns the most recent entry for every distinct
	// token over the full ledger history.
	LatestPerToken(ctx context.Context) ([]domain.AccessLogEntry, error)
}
