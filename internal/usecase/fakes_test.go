package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"accessd/internal/domain"
)

type allowAllAuthz struct{}

func (allowAllAuthz) Require(ctx context.Context, session domain.Session, action string) error {
	return nil
}

type denyAllAuthz struct{}

func (denyAllAuthz) Require(ctx context.Context, session domain.Session, action string) error {
	return domain.ErrForbidden
}

type fakeApplicationRepo struct {
	apps map[string]domain.Application
}

func newFakeApplicationRepo() *fakeApplicationRepo {
	return &fakeApplicationRepo{apps: make(map[string]domain.Application)}
}

func (r *fakeApplicationRepo) Create(ctx context.Context, app domain.Application) (domain.Application, error) {
	r.apps[app.ID] = app
	return app, nil
}

func (r *fakeApplicationRepo) GetByID(ctx context.Context, id string) (*domain.Application, error) {
	app, ok := r.apps[id]
	if !ok {
		return nil, fmt.Errorf("%w: application %s", domain.ErrNotFound, id)
	}
	return &app, nil
}

func (r *fakeApplicationRepo) GetByQRID(ctx context.Context, qrid string) (*domain.Application, error) {
	for _, app := range r.apps {
		if app.QRID != "" && app.QRID == qrid {
			out := app
			return &out, nil
		}
	}
	return nil, fmt.Errorf("%w: unknown credential", domain.ErrNotFound)
}

func (r *fakeApplicationRepo) List(ctx context.Context, filter ApplicationFilter) ([]domain.Application, error) {
	out := make([]domain.Application, 0, len(r.apps))
	for _, app := range r.apps {
		if filter.Status != "" && app.Status != filter.Status {
			continue
		}
		if filter.Query != "" && !strings.Contains(app.ApplicantName, filter.Query) &&
			!strings.Contains(app.CompanyName, filter.Query) {
			continue
		}
		out = append(out, app)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeApplicationRepo) ListByIdentity(ctx context.Context, name, phone string) ([]domain.Application, error) {
	out := []domain.Application{}
	for _, app := range r.apps {
		if app.ApplicantName == name && app.ApplicantPhone == phone {
			out = append(out, app)
		}
	}
	return out, nil
}

func (r *fakeApplicationRepo) Update(ctx context.Context, app domain.Application) (domain.Application, error) {
	if _, ok := r.apps[app.ID]; !ok {
		return domain.Application{}, fmt.Errorf("%w: application %s", domain.ErrNotFound, app.ID)
	}
	r.apps[app.ID] = app
	return app, nil
}

func (r *fakeApplicationRepo) Delete(ctx context.Context, id string) error {
	if _, ok := r.apps[id]; !ok {
		return fmt.Errorf("%w: application %s", domain.ErrNotFound, id)
	}
	delete(r.apps, id)
	return nil
}

func (r *fakeApplicationRepo) CountByStatus(ctx context.Context) (domain.StatusCounts, error) {
	var counts domain.StatusCounts
	for _, app := range r.apps {
		switch app.Status {
		case domain.StatusPending:
			counts.Pending++
		case domain.StatusApproved:
			counts.Approved++
		case domain.StatusRejected:
			counts.Rejected++
		}
	}
	return counts, nil
}

type fakeCompanyRepo struct {
	companies map[string]domain.Company
}

func newFakeCompanyRepo() *fakeCompanyRepo {
	return &fakeCompanyRepo{companies: make(map[string]domain.Company)}
}

func (r *fakeCompanyRepo) Create(ctx context.Context, company domain.Company) (domain.Company, error) {
	r.companies[company.ID] = company
	return company, nil
}

func (r *fakeCompanyRepo) GetByID(ctx context.Context, id string) (*domain.Company, error) {
	company, ok := r.companies[id]
	if !ok {
		return nil, fmt.Errorf("%w: company %s", domain.ErrNotFound, id)
	}
	return &company, nil
}

func (r *fakeCompanyRepo) GetByName(ctx context.Context, name string) (*domain.Company, error) {
	for _, company := range r.companies {
		if company.Name == name {
			out := company
			return &out, nil
		}
	}
	return nil, fmt.Errorf("%w: company %q", domain.ErrNotFound, name)
}

func (r *fakeCompanyRepo) List(ctx context.Context) ([]domain.Company, error) {
	out := make([]domain.Company, 0, len(r.companies))
	for _, company := range r.companies {
		out = append(out, company)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *fakeCompanyRepo) Update(ctx context.Context, company domain.Company) (domain.Company, error) {
	if _, ok := r.companies[company.ID]; !ok {
		return domain.Company{}, fmt.Errorf("%w: company %s", domain.ErrNotFound, company.ID)
	}
	r.companies[company.ID] = company
	return company, nil
}

func (r *fakeCompanyRepo) Delete(ctx context.Context, id string) error {
	if _, ok := r.companies[id]; !ok {
		return fmt.Errorf("%w: company %s", domain.ErrNotFound, id)
	}
	delete(r.companies, id)
	return nil
}

type fakeDepartmentRepo struct {
	depts map[string]domain.Department
}

func newFakeDepartmentRepo() *fakeDepartmentRepo {
	return &fakeDepartmentRepo{depts: make(map[string]domain.Department)}
}

func (r *fakeDepartmentRepo) Create(ctx context.Context, dept domain.Department) (domain.Department, error) {
	r.depts[dept.ID] = dept
	return dept, nil
}

func (r *fakeDepartmentRepo) GetByID(ctx context.Context, id string) (*domain.Department, error) {
	dept, ok := r.depts[id]
	if !ok {
		return nil, fmt.Errorf("%w: department %s", domain.ErrNotFound, id)
	}
	return &dept, nil
}

func (r *fakeDepartmentRepo) List(ctx context.Context) ([]domain.Department, error) {
	out := make([]domain.Department, 0, len(r.depts))
	for _, dept := range r.depts {
		out = append(out, dept)
	}
	return out, nil
}

func (r *fakeDepartmentRepo) Update(ctx context.Context, dept domain.Department) (domain.Department, error) {
	if _, ok := r.depts[dept.ID]; !ok {
		return domain.Department{}, fmt.Errorf("%w: department %s", domain.ErrNotFound, dept.ID)
	}
	r.depts[dept.ID] = dept
	return dept, nil
}

func (r *fakeDepartmentRepo) Delete(ctx context.Context, id string) error {
	if _, ok := r.depts[id]; !ok {
		return fmt.Errorf("%w: department %s", domain.ErrNotFound, id)
	}
	delete(r.depts, id)
	return nil
}

type fakeManagerRepo struct {
	managers map[string]domain.Manager
}

func newFakeManagerRepo() *fakeManagerRepo {
	return &fakeManagerRepo{managers: make(map[string]domain.Manager)}
}

func (r *fakeManagerRepo) Create(ctx context.Context, mgr domain.Manager) (domain.Manager, error) {
	r.managers[mgr.ID] = mgr
	return mgr, nil
}

func (r *fakeManagerRepo) GetByID(ctx context.Context, id string) (*domain.Manager, error) {
	mgr, ok := r.managers[id]
	if !ok {
		return nil, fmt.Errorf("%w: manager %s", domain.ErrNotFound, id)
	}
	return &mgr, nil
}

func (r *fakeManagerRepo) List(ctx context.Context) ([]domain.Manager, error) {
	out := make([]domain.Manager, 0, len(r.managers))
	for _, mgr := range r.managers {
		out = append(out, mgr)
	}
	return out, nil
}

func (r *fakeManagerRepo) CountByDepartment(ctx context.Context, departmentID string) (int, error) {
	count := 0
	for _, mgr := range r.managers {
		if mgr.DepartmentID == departmentID {
			count++
		}
	}
	return count, nil
}

func (r *fakeManagerRepo) Update(ctx context.Context, mgr domain.Manager) (domain.Manager, error) {
	if _, ok := r.managers[mgr.ID]; !ok {
		return domain.Manager{}, fmt.Errorf("%w: manager %s", domain.ErrNotFound, mgr.ID)
	}
	r.managers[mgr.ID] = mgr
	return mgr, nil
}

func (r *fakeManagerRepo) Delete(ctx context.Context, id string) error {
	if _, ok := r.managers[id]; !ok {
		return fmt.Errorf("%w: manager %s", domain.ErrNotFound, id)
	}
	delete(r.managers, id)
	return nil
}

type fakeProjectRepo struct {
	projects map[string]domain.Project
}

func newFakeProjectRepo() *fakeProjectRepo {
	return &fakeProjectRepo{projects: make(map[string]domain.Project)}
}

func (r *fakeProjectRepo) Create(ctx context.Context, project domain.Project) (domain.Project, error) {
	r.projects[project.ID] = project
	return project, nil
}

func (r *fakeProjectRepo) GetByID(ctx context.Context, id string) (*domain.Project, error) {
	project, ok := r.projects[id]
	if !ok {
		return nil, fmt.Errorf("%w: project %s", domain.ErrNotFound, id)
	}
	return &project, nil
}

func (r *fakeProjectRepo) List(ctx context.Context) ([]domain.Project, error) {
	out := make([]domain.Project, 0, len(r.projects))
	for _, project := range r.projects {
		out = append(out, project)
	}
	return out, nil
}

func (r *fakeProjectRepo) Update(ctx context.Context, project domain.Project) (domain.Project, error) {
	if _, ok := r.projects[project.ID]; !ok {
		return domain.Project{}, fmt.Errorf("%w: project %s", domain.ErrNotFound, project.ID)
	}
	r.projects[project.ID] = project
	return project, nil
}

func (r *fakeProjectRepo) Delete(ctx context.Context, id string) error {
	if _, ok := r.projects[id]; !ok {
		return fmt.Errorf("%w: project %s", domain.ErrNotFound, id)
	}
	delete(r.projects, id)
	return nil
}

type fakeAccessLogRepo struct {
	entries []domain.AccessLogEntry
}

func newFakeAccessLogRepo() *fakeAccessLogRepo {
	return &fakeAccessLogRepo{}
}

func (r *fakeAccessLogRepo) latest(qrid string) *domain.AccessLogEntry {
	var found *domain.AccessLogEntry
	for i := range r.entries {
		e := &r.entries[i]
		if e.QRID != qrid {
			continue
		}
		if found == nil || e.Timestamp.After(found.Timestamp) {
			found = e
		}
	}
	return found
}

func (r *fakeAccessLogRepo) LatestByToken(ctx context.Context, qrid string) (*domain.AccessLogEntry, error) {
	e := r.latest(qrid)
	if e == nil {
		return nil, nil
	}
	out := *e
	return &out, nil
}

func (r *fakeAccessLogRepo) Append(ctx context.Context, entry domain.AccessLogEntry, expectPrev domain.AccessEventType) (domain.AccessLogEntry, error) {
	var current domain.AccessEventType
	if e := r.latest(entry.QRID); e != nil {
		current = e.EventType
	}
	if current != expectPrev {
		return domain.AccessLogEntry{}, fmt.Errorf("%w: ledger advanced concurrently", domain.ErrConflict)
	}
	r.entries = append(r.entries, entry)
	return entry, nil
}

func (r *fakeAccessLogRepo) ListBetween(ctx context.Context, from, to time.Time) ([]domain.AccessLogEntry, error) {
	out := []domain.AccessLogEntry{}
	for _, e := range r.entries {
		if !from.IsZero() && e.Timestamp.Before(from) {
			continue
		}
		if !to.IsZero() && !e.Timestamp.Before(to) {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

func (r *fakeAccessLogRepo) LatestPerToken(ctx context.Context) ([]domain.AccessLogEntry, error) {
	seen := make(map[string]bool)
	out := []domain.AccessLogEntry{}
	for _, e := range r.entries {
		if seen[e.QRID] {
			continue
		}
		seen[e.QRID] = true
		out = append(out, *r.latest(e.QRID))
	}
	return out, nil
}
