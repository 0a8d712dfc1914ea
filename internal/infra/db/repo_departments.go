package db

import (
	"context"
	"errors"

	"accessd/internal/domain"

	"gorm.io/gorm"
)

type DepartmentRepository struct {
	db *gorm.DB
}

func NewDepartmentRepository(db *gorm.DB) *DepartmentRepository {
	return &DepartmentRepository{db: db}
}

func (r *DepartmentRepository) Create(ctx context.Context, dept domain.Department) (domain.Department, error) {
	if r.db == nil {
		return domain.Department{}, errDBUnavailable
	}
	model := DepartmentModel{ID: dept.ID, Name: dept.Name, CreatedAt: dept.CreatedAt}
	if err := r.db.WithContext(ctx).Create(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.Department{}, domain.ErrConflict
		}
		return domain.Department{}, err
	}
	return dept, nil
}

func (r *DepartmentRepository) GetByID(ctx context.Context, id string) (*domain.Department, error) {
	if r.db == nil {
		return nil, errDBUnavailable
	}
	var model DepartmentModel
	err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	dept := domain.Department{ID: model.ID, Name: model.Name, CreatedAt: model.CreatedAt}
	managers, err := r.managersOf(ctx, id)
	if err != nil {
		return nil, err
	}
	dept.Managers = managers
	return &dept, nil
}

func (r *DepartmentRepository) List(ctx context.Context) ([]domain.Department, error) {
	if r.db == nil {
		return nil, errDBUnavailable
	}
	var models []DepartmentModel
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&models).Error; err != nil {
		return nil, err
	}
	out := make([]domain.Department, 0, len(models))
	for _, model := range models {
		managers, err := r.managersOf(ctx, model.ID)
		if err != nil {
			return nil, err
		}
		out = append(out, domain.Department{
			ID:        model.ID,
			Name:      model.Name,
			CreatedAt: model.CreatedAt,
			Managers:  managers,
		})
	}
	return out, nil
}

func (r *DepartmentRepository) Update(ctx context.Context, dept domain.Department) (domain.Department, error) {
	if r.db == nil {
		return domain.Department{}, errDBUnavailable
	}
	result := r.db.WithContext(ctx).Model(&DepartmentModel{}).Where("id = ?", dept.ID).
		Update("name", dept.Name)
	if result.Error != nil {
		return domain.Department{}, result.Error
	}
	if result.RowsAffected == 0 {
		return domain.Department{}, domain.ErrNotFound
	}
	return dept, nil
}

func (r *DepartmentRepository) Delete(ctx context.Context, id string) error {
	if r.db == nil {
		return errDBUnavailable
	}
	result := r.db.WithContext(ctx).Delete(&DepartmentModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *DepartmentRepository) managersOf(ctx context.Context, departmentID string) ([]domain.Manager, error) {
	var models []ManagerModel
	err := r.db.WithContext(ctx).
		Where("department_id = ?", departmentID).
		Order("name ASC").
		Find(&models).Error
	if err != nil {
		return nil, err
	}
	out := make([]domain.Manager, 0, len(models))
	for _, model := range models {
		out = append(out, managerFromModel(model))
	}
	return out, nil
}
