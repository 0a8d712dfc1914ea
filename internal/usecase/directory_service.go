package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"accessd/internal/domain"

	"github.com/google/uuid"
)

// DirectoryService is administrator CRUD over the shared reference data:
// companies, departments, managers, and projects. Company and project
// listings are readable without a session because the public application
// form needs them.
type DirectoryService struct {
	Companies   CompanyRepository
	Departments DepartmentRepository
	Managers    ManagerRepository
	Projects    ProjectRepository
	Authz       domain.Authorizer
	Clock       func() time.Time
	NewID       func() string
}

func NewDirectoryService(companies CompanyRepository, departments DepartmentRepository, managers ManagerRepository, projects ProjectRepository, authz domain.Authorizer) *DirectoryService {
	return &DirectoryService{
		Companies:   companies,
		Departments: departments,
		Managers:    managers,
		Projects:    projects,
		Authz:       authz,
		Clock:       time.Now,
		NewID:       uuid.NewString,
	}
}

func (s *DirectoryService) ListCompanies(ctx context.Context, session domain.Session) ([]domain.Company, error) {
	if err := s.Authz.Require(ctx, session, domain.ActionDirectoryReadOpen); err != nil {
		return nil, err
	}
	return s.Companies.List(ctx)
}

func (s *DirectoryService) AddCompany(ctx context.Context, session domain.Session, company domain.Company) (domain.Company, error) {
	if err := s.Authz.Require(ctx, session, domain.ActionDirectoryWrite); err != nil {
		return domain.Company{}, err
	}
	company.Name = strings.TrimSpace(company.Name)
	if company.Name == "" {
		return domain.Company{}, fmt.Errorf("%w: company name is required", domain.ErrValidation)
	}
	if err := s.checkCompanyLinks(ctx, company); err != nil {
		return domain.Company{}, err
	}
	company.ID = s.NewID()
	company.CreatedAt = s.Clock()
	return s.Companies.Create(ctx, company)
}

func (s *DirectoryService) UpdateCompany(ctx context.Context, session domain.Session, company domain.Company) (domain.Company, error) {
	if err := s.Authz.Require(ctx, session, domain.ActionDirectoryWrite); err != nil {
		return domain.Company{}, err
	}
	company.Name = strings.TrimSpace(company.Name)
	if company.Name == "" {
		return domain.Company{}, fmt.Errorf("%w: company name is required", domain.ErrValidation)
	}
	if _, err := s.Companies.GetByID(ctx, company.ID); err != nil {
		return domain.Company{}, err
	}
	if err := s.checkCompanyLinks(ctx, company); err != nil {
		return domain.Company{}, err
	}
	return s.Companies.Update(ctx, company)
}

func (s *DirectoryService) DeleteCompany(ctx context.Context, session domain.Session, id string) error {
	if err := s.Authz.Require(ctx, session, domain.ActionDirectoryWrite); err != nil {
		return err
	}
	if _, err := s.Companies.GetByID(ctx, id); err != nil {
		return err
	}
	return s.Companies.Delete(ctx, id)
}

func (s *DirectoryService) checkCompanyLinks(ctx context.Context, company domain.Company) error {
	if company.DepartmentID != "" {
		if _, err := s.Departments.GetByID(ctx, company.DepartmentID); err != nil {
			return fmt.Errorf("department %s: %w", company.DepartmentID, err)
		}
	}
	if company.ManagerID != "" {
		if _, err := s.Managers.GetByID(ctx, company.ManagerID); err != nil {
			return fmt.Errorf("manager %s: %w", company.ManagerID, err)
		}
	}
	return nil
}

func (s *DirectoryService) ListDepartments(ctx context.Context, session domain.Session) ([]domain.Department, error) {
	if err := s.Authz.Require(ctx, session, domain.ActionDirectoryRead); err != nil {
		return nil, err
	}
	return s.Departments.List(ctx)
}

func (s *DirectoryService) AddDepartment(ctx context.Context, session domain.Session, dept domain.Department) (domain.Department, error) {
	if err := s.Authz.Require(ctx, session, domain.ActionDirectoryWrite); err != nil {
		return domain.Department{}, err
	}
	dept.Name = strings.TrimSpace(dept.Name)
	if dept.Name == "" {
		return domain.Department{}, fmt.Errorf("%w: department name is required", domain.ErrValidation)
	}
	dept.ID = s.NewID()
	dept.CreatedAt = s.Clock()
	return s.Departments.Create(ctx, dept)
}

func (s *DirectoryService) UpdateDepartment(ctx context.Context, session domain.Session, dept domain.Department) (domain.Department, error) {
	if err := s.Authz.Require(ctx, session, domain.ActionDirectoryWrite); err != nil {
		return domain.Department{}, err
	}
	dept.Name = strings.TrimSpace(dept.Name)
	if dept.Name == "" {
		return domain.Department{}, fmt.Errorf("%w: department name is required", domain.ErrValidation)
	}
	if _, err := s.Departments.GetByID(ctx, dept.ID); err != nil {
		return domain.Department{}, err
	}
	return s.Departments.Update(ctx, dept)
}

// DeleteDepartment refuses to delete a department that still owns
// managers. Reassign or remove them first.
func (s *DirectoryService) DeleteDepartment(ctx context.Context, session domain.Session, id string) error {
	if err := s.Authz.Require(ctx, session, domain.ActionDirectoryWrite); err != nil {
		return err
	}
	if _, err := s.Departments.GetByID(ctx, id); err != nil {
		return err
	}
	count, err := s.Managers.CountByDepartment(ctx, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return fmt.Errorf("%w: department has %d managers", domain.ErrInvalidState, count)
	}
	return s.Departments.Delete(ctx, id)
}

func (s *DirectoryService) ListManagers(ctx context.Context, session domain.Session) ([]domain.Manager, error) {
	if err := s.Authz.Require(ctx, session, domain.ActionDirectoryRead); err != nil {
		return nil, err
	}
	return s.Managers.List(ctx)
}

func (s *DirectoryService) AddManager(ctx context.Context, session domain.Session, mgr domain.Manager) (domain.Manager, error) {
	if err := s.Authz.Require(ctx, session, domain.ActionDirectoryWrite); err != nil {
		return domain.Manager{}, err
	}
	if err := s.validateManager(ctx, mgr); err != nil {
		return domain.Manager{}, err
	}
	mgr.ID = s.NewID()
	mgr.CreatedAt = s.Clock()
	return s.Managers.Create(ctx, mgr)
}

func (s *DirectoryService) UpdateManager(ctx context.Context, session domain.Session, mgr domain.Manager) (domain.Manager, error) {
	if err := s.Authz.Require(ctx, session, domain.ActionDirectoryWrite); err != nil {
		return domain.Manager{}, err
	}
	if _, err := s.Managers.GetByID(ctx, mgr.ID); err != nil {
		return domain.Manager{}, err
	}
	if err := s.validateManager(ctx, mgr); err != nil {
		return domain.Manager{}, err
	}
	return s.Managers.Update(ctx, mgr)
}

func (s *DirectoryService) DeleteManager(ctx context.Context, session domain.Session, id string) error {
	if err := s.Authz.Require(ctx, session, domain.ActionDirectoryWrite); err != nil {
		return err
	}
	if _, err := s.Managers.GetByID(ctx, id); err != nil {
		return err
	}
	return s.Managers.Delete(ctx, id)
}

func (s *DirectoryService) validateManager(ctx context.Context, mgr domain.Manager) error {
	if strings.TrimSpace(mgr.Name) == "" {
		return fmt.Errorf("%w: manager name is required", domain.ErrValidation)
	}
	if mgr.Role != "" && !mgr.Role.Valid() {
		return fmt.Errorf("%w: unknown manager role %q", domain.ErrValidation, mgr.Role)
	}
	if mgr.DepartmentID == "" {
		return fmt.Errorf("%w: manager requires a department", domain.ErrValidation)
	}
	if _, err := s.Departments.GetByID(ctx, mgr.DepartmentID); err != nil {
		return fmt.Errorf("department %s: %w", mgr.DepartmentID, err)
	}
	return nil
}

func (s *DirectoryService) ListProjects(ctx context.Context, session domain.Session) ([]domain.Project, error) {
	if err := s.Authz.Require(ctx, session, domain.ActionDirectoryReadOpen); err != nil {
		return nil, err
	}
	return s.Projects.List(ctx)
}

func (s *DirectoryService) AddProject(ctx context.Context, session domain.Session, project domain.Project) (domain.Project, error) {
	if err := s.Authz.Require(ctx, session, domain.ActionDirectoryWrite); err != nil {
		return domain.Project{}, err
	}
	if err := s.validateProject(ctx, project); err != nil {
		return domain.Project{}, err
	}
	project.ID = s.NewID()
	project.CreatedAt = s.Clock()
	return s.Projects.Create(ctx, project)
}

func (s *DirectoryService) UpdateProject(ctx context.Context, session domain.Session, project domain.Project) (domain.Project, error) {
	if err := s.Authz.Require(ctx, session, domain.ActionDirectoryWrite); err != nil {
		return domain.Project{}, err
	}
	if _, err := s.Projects.GetByID(ctx, project.ID); err != nil {
		return domain.Project{}, err
	}
	if err := s.validateProject(ctx, project); err != nil {
		return domain.Project{}, err
	}
	return s.Projects.Update(ctx, project)
}

func (s *DirectoryService) DeleteProject(ctx context.Context, session domain.Session, id string) error {
	if err := s.Authz.Require(ctx, session, domain.ActionDirectoryWrite); err != nil {
		return err
	}
	if _, err := s.Projects.GetByID(ctx, id); err != nil {
		return err
	}
	return s.Projects.Delete(ctx, id)
}

func (s *DirectoryService) validateProject(ctx context.Context, project domain.Project) error {
	if strings.TrimSpace(project.Name) == "" {
		return fmt.Errorf("%w: project name is required", domain.ErrValidation)
	}
	if project.StartDate != nil && project.EndDate != nil && project.EndDate.Before(*project.StartDate) {
		return fmt.Errorf("%w: project end date precedes start date", domain.ErrValidation)
	}
	if project.DepartmentID != "" {
		if _, err := s.Departments.GetByID(ctx, project.DepartmentID); err != nil {
			return fmt.Errorf("department %s: %w", project.DepartmentID, err)
		}
	}
	if project.ManagerID != "" {
		if _, err := s.Managers.GetByID(ctx, project.ManagerID); err != nil {
			return fmt.Errorf("manager %s: %w", project.ManagerID, err)
		}
	}
	return nil
}
