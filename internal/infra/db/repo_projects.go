package db

import (
	"context"
	"errors"

	"accessd/internal/domain"

	"gorm.io/gorm"
)

type ProjectRepository struct {
	db *gorm.DB
}

func NewProjectRepository(db *gorm.DB) *ProjectRepository {
	return &ProjectRepository{db: db}
}

func (r *ProjectRepository) Create(ctx context.Context, project domain.Project) (domain.Project, error) {
	if r.db == nil {
		return domain.Project{}, errDBUnavailable
	}
	model := projectModelFromDomain(project)
	if err := r.db.WithContext(ctx).Create(&model).Error; err != nil {
		return domain.Project{}, err
	}
	return project, nil
}

func (r *ProjectRepository) GetByID(ctx context.Context, id string) (*domain.Project, error) {
	if r.db == nil {
		return nil, errDBUnavailable
	}
	var model ProjectModel
	err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	project := projectFromModel(model)
	return &project, nil
}

type projectRow struct {
	ProjectModel
	DepartmentName *string
	ManagerName    *string
}

func (r *ProjectRepository) List(ctx context.Context) ([]domain.Project, error) {
	if r.db == nil {
		return nil, errDBUnavailable
	}
	var rows []projectRow
	err := r.db.WithContext(ctx).Model(&ProjectModel{}).
		Select("projects.*, departments.name AS department_name, managers.name AS manager_name").
		Joins("LEFT JOIN departments ON departments.id = projects.department_id").
		Joins("LEFT JOIN managers ON managers.id = projects.manager_id").
		Order("projects.name ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make([]domain.Project, 0, len(rows))
	for _, row := range rows {
		project := projectFromModel(row.ProjectModel)
		project.DepartmentName = strValue(row.DepartmentName)
		project.ManagerName = strValue(row.ManagerName)
		out = append(out, project)
	}
	return out, nil
}

func (r *ProjectRepository) Update(ctx context.Context, project domain.Project) (domain.Project, error) {
	if r.db == nil {
		return domain.Project{}, errDBUnavailable
	}
	model := projectModelFromDomain(project)
	result := r.db.WithContext(ctx).Model(&ProjectModel{}).Where("id = ?", model.ID).
		Select("*").Omit("id", "created_at").Updates(&model)
	if result.Error != nil {
		return domain.Project{}, result.Error
	}
	if result.RowsAffected == 0 {
		return domain.Project{}, domain.ErrNotFound
	}
	return project, nil
}

func (r *ProjectRepository) Delete(ctx context.Context, id string) error {
	if r.db == nil {
		return errDBUnavailable
	}
	result := r.db.WithContext(ctx).Delete(&ProjectModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func projectModelFromDomain(project domain.Project) ProjectModel {
	return ProjectModel{
		ID:           project.ID,
		Name:         project.Name,
		Description:  project.Description,
		StartDate:    project.StartDate,
		EndDate:      project.EndDate,
		DepartmentID: strPtr(project.DepartmentID),
		ManagerID:    strPtr(project.ManagerID),
		CreatedAt:    project.CreatedAt,
	}
}

func projectFromModel(model ProjectModel) domain.Project {
	return domain.Project{
		ID:           model.ID,
		Name:         model.Name,
		Description:  model.Description,
		StartDate:    model.StartDate,
		EndDate:      model.EndDate,
		DepartmentID: strValue(model.DepartmentID),
		ManagerID:    strValue(model.ManagerID),
		CreatedAt:    model.CreatedAt,
	}
}
