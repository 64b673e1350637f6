package user

import "time"

type Role string

const (
	RoleStaff    Role = "staff"    // Administrative staff - acts on any employee
	RoleEmployee Role = "employee" // Self-service - acts on own record only
)

// IsValid reports whether r is a known role.
func (r Role) IsValid() bool {
	return r == RoleStaff || r == RoleEmployee
}

type User struct {
	ID           string
	Email        string
	PasswordHash string
	Role         Role
	CreatedAt    time.Time
	UpdatedAt    time.Time

	// Join
	EmployeeID *string
}

// IsStaff checks if user has the staff role
func (u *User) IsStaff() bool {
	return u.Role == RoleStaff
}

// Actor is the authenticated requester as seen by the services.
type Actor struct {
	UserID     string
	Email      string
	EmployeeID *string
	Role       Role
}

func (a Actor) IsStaff() bool {
	return a.Role == RoleStaff
}

// CanActOn is the access rule for employee-scoped data: staff may act on any
// employee, everyone else only on the employee linked to their account.
func (a Actor) CanActOn(employeeID string) bool {
	if a.IsStaff() {
		return true
	}
	return a.EmployeeID != nil && *a.EmployeeID != "" && *a.EmployeeID == employeeID
}

// OwnEmployeeID returns the linked employee id, or "" when there is none.
func (a Actor) OwnEmployeeID() string {
	if a.EmployeeID == nil {
		return ""
	}
	return *a.EmployeeID
}
