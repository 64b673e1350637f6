package payroll

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// SalarySlip is the stored payroll for one employee and one calendar month.
// Month is always the first day of that month.
type SalarySlip struct {
	ID          string
	EmployeeID  string
	Month       time.Time
	Basic       decimal.Decimal
	HRA         decimal.Decimal
	Allowances  decimal.Decimal
	Deductions  decimal.Decimal
	NetPay      decimal.Decimal
	GeneratedAt time.Time
	UpdatedAt   time.Time

	// Join
	Employee SlipEmployee
}

// SlipEmployee is the read-only employee projection rendered on a slip.
type SlipEmployee struct {
	Code        string
	FirstName   string
	LastName    string
	Department  string
	Designation string
}

func (e SlipEmployee) FullName() string {
	return strings.TrimSpace(e.FirstName + " " + e.LastName)
}

// Gross is basic + hra + allowances.
func (s SalarySlip) Gross() decimal.Decimal {
	return s.Basic.Add(s.HRA).Add(s.Allowances)
}

// SlipAmounts is the result of computing a month for one employee.
type SlipAmounts struct {
	Month       time.Time
	DaysInMonth int
	AbsentDays  int
	PerDayRate  decimal.Decimal
	Basic       decimal.Decimal
	HRA         decimal.Decimal
	Allowances  decimal.Decimal
	Gross       decimal.Decimal
	Deductions  decimal.Decimal
	NetPay      decimal.Decimal
}

// NewSalarySlip builds the slip row to upsert from computed amounts.
func NewSalarySlip(employeeID string, amounts SlipAmounts) SalarySlip {
	return SalarySlip{
		EmployeeID: employeeID,
		Month:      amounts.Month,
		Basic:      amounts.Basic,
		HRA:        amounts.HRA,
		Allowances: amounts.Allowances,
		Deductions: amounts.Deductions,
		NetPay:     amounts.NetPay,
	}
}
