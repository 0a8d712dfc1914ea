package db

import (
	"context"
	"errors"

	"accessd/internal/domain"
	"accessd/internal/usecase"

	"gorm.io/gorm"
)

type ApplicationRepository struct {
	db *gorm.DB
}

func NewApplicationRepository(db *gorm.DB) *ApplicationRepository {
	return &ApplicationRepository{db: db}
}

func (r *ApplicationRepository) Create(ctx context.Context, app domain.Application) (domain.Application, error) {
	if r.db == nil {
		return domain.Application{}, errDBUnavailable
	}
	model := applicationModelFromDomain(app)
	if err := r.db.WithContext(ctx).Create(&model).Error; err != nil {
		return domain.Application{}, err
	}
	return applicationFromModel(model), nil
}

func (r *ApplicationRepository) GetByID(ctx context.Context, id string) (*domain.Application, error) {
	return r.getOne(ctx, "id = ?", id)
}

func (r *ApplicationRepository) GetByQRID(ctx context.Context, qrid string) (*domain.Application, error) {
	return r.getOne(ctx, "qrid = ?", qrid)
}

func (r *ApplicationRepository) getOne(ctx context.Context, query string, arg string) (*domain.Application, error) {
	if r.db == nil {
		return nil, errDBUnavailable
	}
	var model ApplicationModel
	err := r.db.WithContext(ctx).First(&model, query, arg).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	app := applicationFromModel(model)
	return &app, nil
}

func (r *ApplicationRepository) List(ctx context.Context, filter usecase.ApplicationFilter) ([]domain.Application, error) {
	if r.db == nil {
		return nil, errDBUnavailable
	}
	q := r.db.WithContext(ctx).Model(&ApplicationModel{})
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.Query != "" {
		like := "%" + filter.Query + "%"
		q = q.Where(
			"applicant_name ILIKE ? OR company_name ILIKE ? OR project_id IN (SELECT id FROM projects WHERE name ILIKE ?)",
			like, like, like,
		)
	}
	var models []ApplicationModel
	if err := q.Order("created_at DESC").Find(&models).Error; err != nil {
		return nil, err
	}
	out := make([]domain.Application, 0, len(models))
	for _, model := range models {
		out = append(out, applicationFromModel(model))
	}
	return out, nil
}

func (r *ApplicationRepository) ListByIdentity(ctx context.Context, name, phone string) ([]domain.Application, error) {
	if r.db == nil {
		return nil, errDBUnavailable
	}
	var models []ApplicationModel
	err := r.db.WithContext(ctx).
		Where("applicant_name = ? AND applicant_phone = ?", name, phone).
		Order("created_at DESC").
		Find(&models).Error
	if err != nil {
		return nil, err
	}
	out := make([]domain.Application, 0, len(models))
	for _, model := range models {
		out = append(out, applicationFromModel(model))
	}
	return out, nil
}

func (r *ApplicationRepository) Update(ctx context.Context, app domain.Application) (domain.Application, error) {
	if r.db == nil {
		return domain.Application{}, errDBUnavailable
	}
	model := applicationModelFromDomain(app)
	result := r.db.WithContext(ctx).Model(&ApplicationModel{}).Where("id = ?", model.ID).
		Select("*").Omit("id", "created_at").Updates(&model)
	if result.Error != nil {
		return domain.Application{}, result.Error
	}
	if result.RowsAffected == 0 {
		return domain.Application{}, domain.ErrNotFound
	}
	return app, nil
}

func (r *ApplicationRepository) Delete(ctx context.Context, id string) error {
	if r.db == nil {
		return errDBUnavailable
	}
	result := r.db.WithContext(ctx).Delete(&ApplicationModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *ApplicationRepository) CountByStatus(ctx context.Context) (domain.StatusCounts, error) {
	if r.db == nil {
		return domain.StatusCounts{}, errDBUnavailable
	}
	var rows []struct {
		Status string
		Count  int
	}
	err := r.db.WithContext(ctx).Model(&ApplicationModel{}).
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return domain.StatusCounts{}, err
	}
	var counts domain.StatusCounts
	for _, row := range rows {
		switch domain.ApplicationStatus(row.Status) {
		case domain.StatusPending:
			counts.Pending = row.Count
		case domain.StatusApproved:
			counts.Approved = row.Count
		case domain.StatusRejected:
			counts.Rejected = row.Count
		}
	}
	return counts, nil
}

func applicationModelFromDomain(app domain.Application) ApplicationModel {
	return ApplicationModel{
		ID:                   app.ID,
		ApplicantName:        app.ApplicantName,
		ApplicantPhone:       app.ApplicantPhone,
		Gender:               app.Gender,
		Nationality:          app.Nationality,
		PassportNumber:       app.PassportNumber,
		CompanyName:          app.CompanyName,
		CompanyID:            strPtr(app.CompanyID),
		ProjectID:            strPtr(app.ProjectID),
		VisitDate:            app.VisitDate,
		IsSiteRepresentative: app.IsSiteRepresentative,
		IsVehicleOwner:       app.IsVehicleOwner,
		VehicleNumber:        app.VehicleNumber,
		VehicleType:          app.VehicleType,
		AgreedOn:             app.AgreedOn,
		Signature:            app.Signature,
		Status:               string(app.Status),
		QRID:                 strPtr(app.QRID),
		CreatedAt:            app.CreatedAt,
	}
}

func applicationFromModel(model ApplicationModel) domain.Application {
	return domain.Application{
		ID:                   model.ID,
		ApplicantName:        model.ApplicantName,
		ApplicantPhone:       model.ApplicantPhone,
		Gender:               model.Gender,
		Nationality:          model.Nationality,
		PassportNumber:       model.PassportNumber,
		CompanyName:          model.CompanyName,
		CompanyID:            strValue(model.CompanyID),
		ProjectID:            strValue(model.ProjectID),
		VisitDate:            model.VisitDate,
		IsSiteRepresentative: model.IsSiteRepresentative,
		IsVehicleOwner:       model.IsVehicleOwner,
		VehicleNumber:        model.VehicleNumber,
		VehicleType:          model.VehicleType,
		AgreedOn:             model.AgreedOn,
		Signature:            model.Signature,
		Status:               domain.ApplicationStatus(model.Status),
		QRID:                 strValue(model.QRID),
		CreatedAt:            model.CreatedAt,
	}
}
