package db

import (
	"context"
	"errors"

	"accessd/internal/domain"

	"gorm.io/gorm"
)

type ManagerRepository struct {
	db *gorm.DB
}

func NewManagerRepository(db *gorm.DB) *ManagerRepository {
	return &ManagerRepository{db: db}
}

func (r *ManagerRepository) Create(ctx context.Context, mgr domain.Manager) (domain.Manager, error) {
	if r.db == nil {
		return domain.Manager{}, errDBUnavailable
	}
	model := managerModelFromDomain(mgr)
	if err := r.db.WithContext(ctx).Create(&model).Error; err != nil {
		return domain.Manager{}, err
	}
	return mgr, nil
}

func (r *ManagerRepository) GetByID(ctx context.Context, id string) (*domain.Manager, error) {
	if r.db == nil {
		return nil, errDBUnavailable
	}
	var model ManagerModel
	err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	mgr := managerFromModel(model)
	return &mgr, nil
}

func (r *ManagerRepository) List(ctx context.Context) ([]domain.Manager, error) {
	if r.db == nil {
		return nil, errDBUnavailable
	}
	var models []ManagerModel
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&models).Error; err != nil {
		return nil, err
	}
	out := make([]domain.Manager, 0, len(models))
	for _, model := range models {
		out = append(out, managerFromModel(model))
	}
	return out, nil
}

func (r *ManagerRepository) CountByDepartment(ctx context.Context, departmentID string) (int, error) {
	if r.db == nil {
		return 0, errDBUnavailable
	}
	var count int64
	err := r.db.WithContext(ctx).Model(&ManagerModel{}).
		Where("department_id = ?", departmentID).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return int(count), nil
}

func (r *ManagerRepository) Update(ctx context.Context, mgr domain.Manager) (domain.Manager, error) {
	if r.db == nil {
		return domain.Manager{}, errDBUnavailable
	}
	model := managerModelFromDomain(mgr)
	result := r.db.WithContext(ctx).Model(&ManagerModel{}).Where("id = ?", model.ID).
		Select("*").Omit("id", "created_at").Updates(&model)
	if result.Error != nil {
		return domain.Manager{}, result.Error
	}
	if result.RowsAffected == 0 {
		return domain.Manager{}, domain.ErrNotFound
	}
	return mgr, nil
}

func (r *ManagerRepository) Delete(ctx context.Context, id string) error {
	if r.db == nil {
		return errDBUnavailable
	}
	result := r.db.WithContext(ctx).Delete(&ManagerModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func managerModelFromDomain(mgr domain.Manager) ManagerModel {
	return ManagerModel{
		ID:           mgr.ID,
		Name:         mgr.Name,
		Email:        mgr.Email,
		Phone:        mgr.Phone,
		Role:         string(mgr.Role),
		DepartmentID: mgr.DepartmentID,
		CreatedAt:    mgr.CreatedAt,
	}
}

func managerFromModel(model ManagerModel) domain.Manager {
	return domain.Manager{
		ID:           model.ID,
		Name:         model.Name,
		Email:        model.Email,
		Phone:        model.Phone,
		Role:         domain.ManagerRole(model.Role),
		DepartmentID: model.DepartmentID,
		CreatedAt:    model.CreatedAt,
	}
}
