package domain

import "time"

type ManagerRole string

const (
	ManagerRoleGeneral ManagerRole = "general"
	ManagerRoleSafety  ManagerRole = "safety"
	ManagerRoleAdmin   ManagerRole = "admin"
)

func (r ManagerRole) Valid() bool {
	switch r {
	case ManagerRoleGeneral, ManagerRoleSafety, ManagerRoleAdmin:
		return true
	}
	return false
}

// Company is shared reference data. ContactPerson/PhoneNumber are legacy
// free-text fallbacks used when no manager link exists. Auto-registered
// companies carry only a name until an administrator fills them in.
type Company struct {
	ID            string
	Name          string
	ContactPerson string
	PhoneNumber   string
	DepartmentID  string
	ManagerID     string
	CreatedAt     time.Time

	// Resolved at read time, never stored.
	DepartmentName string
	ManagerName    string
}

type Department struct {
	ID        string
	Name      string
	CreatedAt time.Time

	Managers []Manager
}

type Manager struct {
	ID           string
	Name         string
	Email        string
	Phone        string
	Role         ManagerRole
	DepartmentID string
	CreatedAt    time.Time
}

type Project struct {
	ID           string
	Name         string
	Description  string
	StartDate    *time.Time
	EndDate      *time.Time
	DepartmentID string
	ManagerID    string
	CreatedAt    time.Time

	// Resolved at read time, never stored.
	DepartmentName string
	ManagerName    string
}
