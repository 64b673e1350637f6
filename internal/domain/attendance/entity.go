package attendance

import (
	"time"

	"github.com/shopspring/decimal"
)

type Status string

const (
	StatusPresent Status = "P"
	StatusAbsent  Status = "A"
	StatusLeave   Status = "L"
)

// IsValid reports whether s is one of P, A or L.
func (s Status) IsValid() bool {
	return s == StatusPresent || s == StatusAbsent || s == StatusLeave
}

// Label returns the human readable status.
func (s Status) Label() string {
	switch s {
	case StatusPresent:
		return "Present"
	case StatusAbsent:
		return "Absent"
	case StatusLeave:
		return "Leave"
	default:
		return string(s)
	}
}

// DefaultWorkingHours applies when a record is created without hours.
var DefaultWorkingHours = decimal.New(800, -2)

type Attendance struct {
	ID           string
	EmployeeID   string
	Date         time.Time
	Status       Status
	WorkingHours decimal.Decimal
	CreatedAt    time.Time

	// Join
	EmployeeCode *string
	EmployeeName *string
}
