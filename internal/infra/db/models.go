package db

import "time"

type ApplicationModel struct {
	ID             string `gorm:"type:uuid;primaryKey"`
	ApplicantName  string `gorm:"index;not null"`
	ApplicantPhone string `gorm:"index;not null"`
	Gender         string
	Nationality    string
	PassportNumber string

	CompanyName string    `gorm:"not null"`
	CompanyID   *string   `gorm:"type:uuid;index"`
	ProjectID   *string   `gorm:"type:uuid;index"`
	VisitDate   time.Time `gorm:"type:date;not null"`

	IsSiteRepresentative bool `gorm:"not null;default:false"`
	IsVehicleOwner       bool `gorm:"not null;default:false"`
	VehicleNumber        string
	VehicleType          string

	AgreedOn  *time.Time
	Signature string `gorm:"type:text"`

	Status string `gorm:"index;not null"`

	QRID *string `gorm:"column:qrid;uniqueIndex"`

	CreatedAt time.Time `gorm:"not null"`
}

func (ApplicationModel) TableName() string { return "applications" }

type CompanyModel struct {
	ID            string `gorm:"type:uuid;primaryKey"`
	Name          string `gorm:"uniqueIndex;not null"`
	ContactPerson string
	PhoneNumber   string
	DepartmentID  *string   `gorm:"type:uuid;index"`
	ManagerID     *string   `gorm:"type:uuid;index"`
	CreatedAt     time.Time `gorm:"not null"`
}

func (CompanyModel) TableName() string { return "companies" }

type DepartmentModel struct {
	ID        string    `gorm:"type:uuid;primaryKey"`
	Name      string    `gorm:"uniqueIndex;not null"`
	CreatedAt time.Time `gorm:"not null"`
}

func (DepartmentModel) TableName() string { return "departments" }

type ManagerModel struct {
	ID           string `gorm:"type:uuid;primaryKey"`
	Name         string `gorm:"not null"`
	Email        string
	Phone        string
	Role         string
	DepartmentID string    `gorm:"type:uuid;index;not null"`
	CreatedAt    time.Time `gorm:"not null"`
}

func (ManagerModel) TableName() string { return "managers" }

type ProjectModel struct {
	ID           string `gorm:"type:uuid;primaryKey"`
	Name         string `gorm:"not null"`
	Description  string
	StartDate    *time.Time `gorm:"type:date"`
	EndDate      *time.Time `gorm:"type:date"`
	DepartmentID *string    `gorm:"type:uuid;index"`
	ManagerID    *string    `gorm:"type:uuid;index"`
	CreatedAt    time.Time  `gorm:"not null"`
}

func (ProjectModel) TableName() string { return "projects" }

// AccessLogModel rows are append-only; nothing in the code path updates
// or deletes them.
type AccessLogModel struct {
	ID        string    `gorm:"type:uuid;primaryKey"`
	QRID      string    `gorm:"column:qrid;index;not null"`
	EventType string    `gorm:"not null"`
	Timestamp time.Time `gorm:"index;not null"`
}

func (AccessLogModel) TableName() string { return "access_logs" }
