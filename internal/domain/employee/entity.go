package employee

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type Employee struct {
	ID          string
	UserID      *string
	Code        string
	FirstName   string
	LastName    string
	Email       string
	Phone       string
	Department  string
	Designation string
	JoinDate    time.Time
	BaseSalary  *decimal.Decimal
	IsActive    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// FullName joins first and last name.
func (e Employee) FullName() string {
	return strings.TrimSpace(e.FirstName + " " + e.LastName)
}

// DisplayName renders "CODE - First Last".
func (e Employee) DisplayName() string {
	return e.Code + " - " + e.FullName()
}

// Salary returns the base salary, treating an unset value as zero.
func (e Employee) Salary() decimal.Decimal {
	if e.BaseSalary == nil {
		return decimal.Zero
	}
	return *e.BaseSalary
}
