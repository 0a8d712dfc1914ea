// Package memstore provides in-memory implementations of the usecase
// repositories. It backs unit tests and lets the server boot without a
// database for local development.
package memstore

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"accessd/internal/domain"
	"accessd/internal/usecase"
)

type Store struct {
	mu           sync.RWMutex
	applications map[string]domain.Application
	companies    map[string]domain.Company
	departments  map[string]domain.Department
	managers     map[string]domain.Manager
	projects     map[string]domain.Project
	accessLogs   []domain.AccessLogEntry
}

func New() *Store {
	return &Store{
		applications: make(map[string]domain.Application),
		companies:    make(map[string]domain.Company),
		departments:  make(map[string]domain.Department),
		managers:     make(map[string]domain.Manager),
		projects:     make(map[string]domain.Project),
	}
}

func (s *Store) Applications() usecase.ApplicationRepository { return (*applicationRepo)(s) }
func (s *Store) Companies() usecase.CompanyRepository        { return (*companyRepo)(s) }
func (s *Store) Departments() usecase.DepartmentRepository   { return (*departmentRepo)(s) }
func (s *Store) Managers() usecase.ManagerRepository         { return (*managerRepo)(s) }
func (s *Store) Projects() usecase.ProjectRepository         { return (*projectRepo)(s) }
func (s *Store) AccessLogs() usecase.AccessLogRepository     { return (*accessLogRepo)(s) }

type applicationRepo Store

func (r *applicationRepo) Create(_ context.Context, app domain.Application) (domain.Application, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.applications[app.ID] = app
	return app, nil
}

func (r *applicationRepo) GetByID(_ context.Context, id string) (*domain.Application, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	app, ok := r.applications[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &app, nil
}

func (r *applicationRepo) GetByQRID(_ context.Context, qrid string) (*domain.Application, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, app := range r.applications {
		if app.QRID != "" && app.QRID == qrid {
			out := app
			return &out, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *applicationRepo) List(_ context.Context, filter usecase.ApplicationFilter) ([]domain.Application, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	q := strings.ToLower(strings.TrimSpace(filter.Query))
	out := make([]domain.Application, 0, len(r.applications))
	for _, app := range r.applications {
		if filter.Status != "" && app.Status != filter.Status {
			continue
		}
		if q != "" {
			haystack := strings.ToLower(app.ApplicantName + " " + app.CompanyName)
			if project, ok := r.projects[app.ProjectID]; ok {
				haystack += " " + strings.ToLower(project.Name)
			}
			if !strings.Contains(haystack, q) {
				continue
			}
		}
		out = append(out, app)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *applicationRepo) ListByIdentity(_ context.Context, name, phone string) ([]domain.Application, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []domain.Application
	for _, app := range r.applications {
		if app.ApplicantName == name && app.ApplicantPhone == phone {
			out = append(out, app)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *applicationRepo) Update(_ context.Context, app domain.Application) (domain.Application, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.applications[app.ID]; !ok {
		return domain.Application{}, domain.ErrNotFound
	}
	r.applications[app.ID] = app
	return app, nil
}

func (r *applicationRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.applications[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.applications, id)
	return nil
}

func (r *applicationRepo) CountByStatus(_ context.Context) (domain.StatusCounts, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var counts domain.StatusCounts
	for _, app := range r.applications {
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

type companyRepo Store

func (r *companyRepo) Create(_ context.Context, company domain.Company) (domain.Company, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.companies {
		if existing.Name == company.Name {
			return domain.Company{}, domain.ErrConflict
		}
	}
	r.companies[company.ID] = company
	return company, nil
}

func (r *companyRepo) GetByID(_ context.Context, id string) (*domain.Company, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	company, ok := r.companies[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &company, nil
}

func (r *companyRepo) GetByName(_ context.Context, name string) (*domain.Company, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, company := range r.companies {
		if company.Name == name {
			out := company
			return &out, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *companyRepo) List(_ context.Context) ([]domain.Company, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.Company, 0, len(r.companies))
	for _, company := range r.companies {
		company.DepartmentName = (*Store)(r).departmentName(company.DepartmentID)
		company.ManagerName = (*Store)(r).managerName(company.ManagerID)
		out = append(out, company)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *companyRepo) Update(_ context.Context, company domain.Company) (domain.Company, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.companies[company.ID]; !ok {
		return domain.Company{}, domain.ErrNotFound
	}
	r.companies[company.ID] = company
	return company, nil
}

func (r *companyRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.companies[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.companies, id)
	return nil
}

type departmentRepo Store

func (r *departmentRepo) Create(_ context.Context, dept domain.Department) (domain.Department, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.departments[dept.ID] = dept
	return dept, nil
}

func (r *departmentRepo) GetByID(_ context.Context, id string) (*domain.Department, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	dept, ok := r.departments[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	dept.Managers = (*Store)(r).managersOf(id)
	return &dept, nil
}

func (r *departmentRepo) List(_ context.Context) ([]domain.Department, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.Department, 0, len(r.departments))
	for _, dept := range r.departments {
		dept.Managers = (*Store)(r).managersOf(dept.ID)
		out = append(out, dept)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *departmentRepo) Update(_ context.Context, dept domain.Department) (domain.Department, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.departments[dept.ID]; !ok {
		return domain.Department{}, domain.ErrNotFound
	}
	r.departments[dept.ID] = dept
	return dept, nil
}

func (r *departmentRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.departments[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.departments, id)
	return nil
}

type managerRepo Store

func (r *managerRepo) Create(_ context.Context, mgr domain.Manager) (domain.Manager, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.managers[mgr.ID] = mgr
	return mgr, nil
}

func (r *managerRepo) GetByID(_ context.Context, id string) (*domain.Manager, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	mgr, ok := r.managers[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &mgr, nil
}

func (r *managerRepo) List(_ context.Context) ([]domain.Manager, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.Manager, 0, len(r.managers))
	for _, mgr := range r.managers {
		out = append(out, mgr)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *managerRepo) CountByDepartment(_ context.Context, departmentID string) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	count := 0
	for _, mgr := range r.managers {
		if mgr.DepartmentID == departmentID {
			count++
		}
	}
	return count, nil
}

func (r *managerRepo) Update(_ context.Context, mgr domain.Manager) (domain.Manager, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.managers[mgr.ID]; !ok {
		return domain.Manager{}, domain.ErrNotFound
	}
	r.managers[mgr.ID] = mgr
	return mgr, nil
}

func (r *managerRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.managers[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.managers, id)
	return nil
}

type projectRepo Store

func (r *projectRepo) Create(_ context.Context, project domain.Project) (domain.Project, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.projects[project.ID] = project
	return project, nil
}

func (r *projectRepo) GetByID(_ context.Context, id string) (*domain.Project, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	project, ok := r.projects[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &project, nil
}

func (r *projectRepo) List(_ context.Context) ([]domain.Project, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.Project, 0, len(r.projects))
	for _, project := range r.projects {
		project.DepartmentName = (*Store)(r).departmentName(project.DepartmentID)
		project.ManagerName = (*Store)(r).managerName(project.ManagerID)
		out = append(out, project)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *projectRepo) Update(_ context.Context, project domain.Project) (domain.Project, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.projects[project.ID]; !ok {
		return domain.Project{}, domain.ErrNotFound
	}
	r.projects[project.ID] = project
	return project, nil
}

func (r *projectRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.projects[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.projects, id)
	return nil
}

type accessLogRepo Store

func (r *accessLogRepo) LatestByToken(_ context.Context, qrid string) (*domain.AccessLogEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	entry := (*Store)(r).latestByTokenLocked(qrid)
	if entry == nil {
		return nil, nil
	}
	out := *entry
	return &out, nil
}

func (r *accessLogRepo) Append(_ context.Context, entry domain.AccessLogEntry, expectPrev domain.AccessEventType) (domain.AccessLogEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var current domain.AccessEventType
	if latest := (*Store)(r).latestByTokenLocked(entry.QRID); latest != nil {
		current = latest.EventType
	}
	if current != expectPrev {
		return domain.AccessLogEntry{}, domain.ErrConflict
	}
	r.accessLogs = append(r.accessLogs, entry)
	return entry, nil
}

func (r *accessLogRepo) ListBetween(_ context.Context, from, to time.Time) ([]domain.AccessLogEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []domain.AccessLogEntry
	for _, entry := range r.accessLogs {
		if !entry.Timestamp.Before(from) && entry.Timestamp.Before(to) {
			out = append(out, entry)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Timestamp.Before(out[j].Timestamp) })
	return out, nil
}

func (r *accessLogRepo) LatestPerToken(_ context.Context) ([]domain.AccessLogEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	latest := make(map[string]domain.AccessLogEntry)
	for _, entry := range r.accessLogs {
		current, ok := latest[entry.QRID]
		if !ok || entry.Timestamp.After(current.Timestamp) {
			latest[entry.QRID] = entry
		}
	}
	out := make([]domain.AccessLogEntry, 0, len(latest))
	for _, entry := range latest {
		out = append(out, entry)
	}
	return out, nil
}

func (s *Store) latestByTokenLocked(qrid string) *domain.AccessLogEntry {
	var latest *domain.AccessLogEntry
	for i := range s.accessLogs {
		entry := &s.accessLogs[i]
		if entry.QRID != qrid {
			continue
		}
		if latest == nil || entry.Timestamp.After(latest.Timestamp) {
			latest = entry
		}
	}
	return latest
}

func (s *Store) departmentName(id string) string {
	if id == "" {
		return ""
	}
	if dept, ok := s.departments[id]; ok {
		return dept.Name
	}
	return ""
}

func (s *Store) managerName(id string) string {
	if id == "" {
		return ""
	}
	if mgr, ok := s.managers[id]; ok {
		return mgr.Name
	}
	return ""
}

func (s *Store) managersOf(departmentID string) []domain.Manager {
	var out []domain.Manager
	for _, mgr := range s.managers {
		if mgr.DepartmentID == departmentID {
			out = append(out, mgr)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
