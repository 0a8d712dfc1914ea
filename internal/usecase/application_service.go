package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"accessd/internal/domain"

	"github.com/google/uuid"
)

// ApplicationService owns the access-request lifecycle: submission,
// listing, free-form edits, deletion, and the approve/reject state
// machine with credential issuance.
type ApplicationService struct {
	Apps        ApplicationRepository
	Companies   CompanyRepository
	Authz       domain.Authorizer
	HomeCountry string
	Clock       func() time.Time
	NewID       func() string
}

func NewApplicationService(apps ApplicationRepository, companies CompanyRepository, authz domain.Authorizer, homeCountry string) *ApplicationService {
	return &ApplicationService{
		Apps:        apps,
		Companies:   companies,
		Authz:       authz,
		HomeCountry: homeCountry,
		Clock:       time.Now,
		NewID:       uuid.NewString,
	}
}

type SubmitApplicationInput struct {
	ApplicantName        string
	ApplicantPhone       string
	Gender               string
	Nationality          string
	PassportNumber       string
	CompanyName          string
	ProjectID            string
	VisitDate            time.Time
	IsSiteRepresentative bool
	IsVehicleOwner       bool
	VehicleNumber        string
	VehicleType          string
	AgreedOn             *time.Time
	Signature            string
}

// Submit validates the request, auto-registers the company when the name
// is not yet in the directory, and stores the application as pending.
// The company write is the only implicit directory mutation in the system.
func (s *ApplicationService) Submit(ctx context.Context, session domain.Session, input SubmitApplicationInput) (domain.Application, error) {
	if err := s.Authz.Require(ctx, session, domain.ActionApplicationSubmit); err != nil {
		return domain.Application{}, err
	}
	now := s.Clock()
	app := domain.Application{
		ID:                   s.NewID(),
		ApplicantName:        strings.TrimSpace(input.ApplicantName),
		ApplicantPhone:       strings.TrimSpace(input.ApplicantPhone),
		Gender:               input.Gender,
		Nationality:          input.Nationality,
		PassportNumber:       strings.TrimSpace(input.PassportNumber),
		CompanyName:          strings.TrimSpace(input.CompanyName),
		ProjectID:            input.ProjectID,
		VisitDate:            input.VisitDate,
		IsSiteRepresentative: input.IsSiteRepresentative,
		IsVehicleOwner:       input.IsVehicleOwner,
		VehicleNumber:        strings.TrimSpace(input.VehicleNumber),
		VehicleType:          input.VehicleType,
		AgreedOn:             input.AgreedOn,
		Signature:            input.Signature,
		Status:               domain.StatusPending,
		CreatedAt:            now,
	}
	if err := app.Validate(s.HomeCountry); err != nil {
		return domain.Application{}, err
	}

	company, err := s.Companies.GetByName(ctx, app.CompanyName)
	switch {
	case err == nil:
		app.CompanyID = company.ID
	case errors.Is(err, domain.ErrNotFound):
		created, err := s.Companies.Create(ctx, domain.Company{
			ID:        s.NewID(),
			Name:      app.CompanyName,
			CreatedAt: now,
		})
		if err != nil {
			return domain.Application{}, fmt.Errorf("auto-register company: %w", err)
		}
		app.CompanyID = created.ID
	default:
		return domain.Application{}, err
	}

	return s.Apps.Create(ctx, app)
}

func (s *ApplicationService) List(ctx context.Context, session domain.Session, filter ApplicationFilter) ([]domain.Application, error) {
	if err := s.Authz.Require(ctx, session, domain.ActionApplicationList); err != nil {
		return nil, err
	}
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", domain.ErrValidation, filter.Status)
	}
	return s.Apps.List(ctx, filter)
}

// GetByIdentity is the applicant self-service lookup; both fields must
// match exactly.
func (s *ApplicationService) GetByIdentity(ctx context.Context, session domain.Session, name, phone string) ([]domain.Application, error) {
	if err := s.Authz.Require(ctx, session, domain.ActionApplicationSelf); err != nil {
		return nil, err
	}
	name = strings.TrimSpace(name)
	phone = strings.TrimSpace(phone)
	if name == "" || phone == "" {
		return nil, fmt.Errorf("%w: name and phone are required", domain.ErrValidation)
	}
	return s.Apps.ListByIdentity(ctx, name, phone)
}

// UpdateApplicationInput carries a partial edit; nil fields are left
// unchanged. Status and credential are not editable through this path.
type UpdateApplicationInput struct {
	ApplicantName        *string
	ApplicantPhone       *string
	Gender               *string
	Nationality          *string
	PassportNumber       *string
	CompanyName          *string
	ProjectID            *string
	VisitDate            *time.Time
	IsSiteRepresentative *bool
	IsVehicleOwner       *bool
	VehicleNumber        *string
	VehicleType          *string
}

func (s *ApplicationService) Update(ctx context.Context, session domain.Session, id string, input UpdateApplicationInput) (domain.Application, error) {
	if err := s.Authz.Require(ctx, session, domain.ActionApplicationUpdate); err != nil {
		return domain.Application{}, err
	}
	app, err := s.Apps.GetByID(ctx, id)
	if err != nil {
		return domain.Application{}, err
	}
	updated := *app
	applyString(&updated.ApplicantName, input.ApplicantName)
	applyString(&updated.ApplicantPhone, input.ApplicantPhone)
	applyString(&updated.Gender, input.Gender)
	applyString(&updated.Nationality, input.Nationality)
	applyString(&updated.PassportNumber, input.PassportNumber)
	applyString(&updated.VehicleNumber, input.VehicleNumber)
	applyString(&updated.VehicleType, input.VehicleType)
	applyString(&updated.ProjectID, input.ProjectID)
	if input.VisitDate != nil {
		updated.VisitDate = *input.VisitDate
	}
	if input.IsSiteRepresentative != nil {
		updated.IsSiteRepresentative = *input.IsSiteRepresentative
	}
	if input.IsVehicleOwner != nil {
		updated.IsVehicleOwner = *input.IsVehicleOwner
	}
	if input.CompanyName != nil {
		updated.CompanyName = strings.TrimSpace(*input.CompanyName)
		company, err := s.Companies.GetByName(ctx, updated.CompanyName)
		switch {
		case err == nil:
			updated.CompanyID = company.ID
		case errors.Is(err, domain.ErrNotFound):
			updated.CompanyID = ""
		default:
			return domain.Application{}, err
		}
	}
	if err := updated.Validate(s.HomeCountry); err != nil {
		return domain.Application{}, err
	}
	return s.Apps.Update(ctx, updated)
}

// Delete removes a decided application. Pending applications cannot be
// deleted; an undecided request must be approved or rejected first.
func (s *ApplicationService) Delete(ctx context.Context, session domain.Session, id string) error {
	if err := s.Authz.Require(ctx, session, domain.ActionApplicationDelete); err != nil {
		return err
	}
	app, err := s.Apps.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if app.Status == domain.StatusPending {
		return fmt.Errorf("%w: pending applications cannot be deleted", domain.ErrInvalidState)
	}
	return s.Apps.Delete(ctx, id)
}

// Approve transitions each application to approved, minting its
// credential token on first approval only. The batch is best effort: an
// id that fails to resolve or persist is skipped and the rest continue,
// so callers compare the returned length with the requested count.
func (s *ApplicationService) Approve(ctx context.Context, session domain.Session, ids []string) ([]domain.Application, error) {
	return s.decide(ctx, session, ids, domain.StatusApproved)
}

// Reject transitions each application to rejected. An already-issued
// credential is retained.
func (s *ApplicationService) Reject(ctx context.Context, session domain.Session, ids []string) ([]domain.Application, error) {
	return s.decide(ctx, session, ids, domain.StatusRejected)
}

func (s *ApplicationService) decide(ctx context.Context, session domain.Session, ids []string, target domain.ApplicationStatus) ([]domain.Application, error) {
	if err := s.Authz.Require(ctx, session, domain.ActionApplicationDecide); err != nil {
		return nil, err
	}
	now := s.Clock()
	out := make([]domain.Application, 0, len(ids))
	for _, id := range ids {
		app, err := s.Apps.GetByID(ctx, id)
		if err != nil {
			continue
		}
		app.Status = target
		if target == domain.StatusApproved && app.QRID == "" {
			app.QRID = IssueCredential(app.ID, app.ApplicantName, now)
		}
		updated, err := s.Apps.Update(ctx, *app)
		if err != nil {
			continue
		}
		out = append(out, updated)
	}
	return out, nil
}

func applyString(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}
