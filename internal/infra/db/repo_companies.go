package db

import (
	"context"
	"errors"

	"accessd/internal/domain"

	"gorm.io/gorm"
)

type CompanyRepository struct {
	db *gorm.DB
}

func NewCompanyRepository(db *gorm.DB) *CompanyRepository {
	return &CompanyRepository{db: db}
}

func (r *CompanyRepository) Create(ctx context.Context, company domain.Company) (domain.Company, error) {
	if r.db == nil {
		return domain.Company{}, errDBUnavailable
	}
	model := companyModelFromDomain(company)
	if err := r.db.WithContext(ctx).Create(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.Company{}, domain.ErrConflict
		}
		return domain.Company{}, err
	}
	return company, nil
}

func (r *CompanyRepository) GetByID(ctx context.Context, id string) (*domain.Company, error) {
	return r.getOne(ctx, "id = ?", id)
}

func (r *CompanyRepository) GetByName(ctx context.Context, name string) (*domain.Company, error) {
	return r.getOne(ctx, "name = ?", name)
}

func (r *CompanyRepository) getOne(ctx context.Context, query, arg string) (*domain.Company, error) {
	if r.db == nil {
		return nil, errDBUnavailable
	}
	var model CompanyModel
	err := r.db.WithContext(ctx).First(&model, query, arg).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	company := companyFromModel(model)
	return &company, nil
}

// companyRow carries the joined department/manager names resolved at read
// time; applications and companies store only foreign keys.
type companyRow struct {
	CompanyModel
	DepartmentName *string
	ManagerName    *string
}

func (r *CompanyRepository) List(ctx context.Context) ([]domain.Company, error) {
	if r.db == nil {
		return nil, errDBUnavailable
	}
	var rows []companyRow
	err := r.db.WithContext(ctx).Model(&CompanyModel{}).
		Select("companies.*, departments.name AS department_name, managers.name AS manager_name").
		Joins("LEFT JOIN departments ON departments.id = companies.department_id").
		Joins("LEFT JOIN managers ON managers.id = companies.manager_id").
		Order("companies.name ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make([]domain.Company, 0, len(rows))
	for _, row := range rows {
		company := companyFromModel(row.CompanyModel)
		company.DepartmentName = strValue(row.DepartmentName)
		company.ManagerName = strValue(row.ManagerName)
		out = append(out, company)
	}
	return out, nil
}

func (r *CompanyRepository) Update(ctx context.Context, company domain.Company) (domain.Company, error) {
	if r.db == nil {
		return domain.Company{}, errDBUnavailable
	}
	model := companyModelFromDomain(company)
	result := r.db.WithContext(ctx).Model(&CompanyModel{}).Where("id = ?", model.ID).
		Select("*").Omit("id", "created_at").Updates(&model)
	if result.Error != nil {
		return domain.Company{}, result.Error
	}
	if result.RowsAffected == 0 {
		return domain.Company{}, domain.ErrNotFound
	}
	return company, nil
}

func (r *CompanyRepository) Delete(ctx context.Context, id string) error {
	if r.db == nil {
		return errDBUnavailable
	}
	result := r.db.WithContext(ctx).Delete(&CompanyModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func companyModelFromDomain(company domain.Company) CompanyModel {
	return CompanyModel{
		ID:            company.ID,
		Name:          company.Name,
		ContactPerson: company.ContactPerson,
		PhoneNumber:   company.PhoneNumber,
		DepartmentID:  strPtr(company.DepartmentID),
		ManagerID:     strPtr(company.ManagerID),
		CreatedAt:     company.CreatedAt,
	}
}

func companyFromModel(model CompanyModel) domain.Company {
	return domain.Company{
		ID:            model.ID,
		Name:          model.Name,
		ContactPerson: model.ContactPerson,
		PhoneNumber:   model.PhoneNumber,
		DepartmentID:  strValue(model.DepartmentID),
		ManagerID:     strValue(model.ManagerID),
		CreatedAt:     model.CreatedAt,
	}
}
