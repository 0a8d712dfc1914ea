package domain

import (
	"fmt"
	"strings"
	"time"
)

type ApplicationStatus string

const (
	StatusPending  ApplicationStatus = "pending"
	StatusApproved ApplicationStatus = "approved"
	StatusRejected ApplicationStatus = "rejected"
)

func (s ApplicationStatus) Valid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected:
		return true
	}
	return false
}

// Application is one visitor/contractor access request. CompanyName is the
// raw string captured at submission; CompanyID/ProjectID are resolved
// against the directory at read time.
type Application struct {
	ID             string
	ApplicantName  string
	ApplicantPhone string
	Gender         string
	Nationality    string
	PassportNumber string

	CompanyName string
	CompanyID   string
	ProjectID   string
	VisitDate   time.Time

	IsSiteRepresentative bool
	IsVehicleOwner       bool
	VehicleNumber        string
	VehicleType          string

	AgreedOn  *time.Time
	Signature string

	Status ApplicationStatus

	// QRID is the credential token. Non-empty once the application has been
	// approved at least once; never cleared or regenerated afterwards.
	QRID string

	CreatedAt time.Time
}

// Validate enforces the submission invariants. homeCountry is the
// deployment's domestic nationality; passports are required only for
// foreign applicants.
func (a Application) Validate(homeCountry string) error {
	if strings.TrimSpace(a.ApplicantName) == "" {
		return fmt.Errorf("%w: applicant_name is required", ErrValidation)
	}
	if strings.TrimSpace(a.ApplicantPhone) == "" {
		return fmt.Errorf("%w: applicant_phone is required", ErrValidation)
	}
	if strings.TrimSpace(a.CompanyName) == "" {
		return fmt.Errorf("%w: company_name is required", ErrValidation)
	}
	if a.VisitDate.IsZero() {
		return fmt.Errorf("%w: visit_date is required", ErrValidation)
	}
	foreign := a.Nationality != "" && !strings.EqualFold(a.Nationality, homeCountry)
	if foreign && strings.TrimSpace(a.PassportNumber) == "" {
		return fmt.Errorf("%w: passport_number is required for nationality %q", ErrValidation, a.Nationality)
	}
	if !foreign && a.PassportNumber != "" {
		return fmt.Errorf("%w: passport_number must be empty for domestic applicants", ErrValidation)
	}
	if a.IsVehicleOwner {
		if strings.TrimSpace(a.VehicleNumber) == "" {
			return fmt.Errorf("%w: vehicle_number is required for vehicle owners", ErrValidation)
		}
	} else if a.VehicleNumber != "" || a.VehicleType != "" {
		return fmt.Errorf("%w: vehicle fields must be empty when is_vehicle_owner is false", ErrValidation)
	}
	return nil
}
