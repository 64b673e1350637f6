package payroll

import (
	"context"
	"time"

	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/employee"
)

type SalarySlipRepository interface {
	// Upsert writes the slip for (employee, month) in one statement. created
	// reports whether a new row was inserted. generated_at is kept on update.
	Upsert(ctx context.Context, slip SalarySlip) (saved SalarySlip, created bool, err error)
	GetByID(ctx context.Context, id string) (SalarySlip, error)

	// List returns slips ordered by month desc then employee code. A zero
	// Limit returns every matching row.
	List(ctx context.Context, filter SalarySlipFilter) ([]SalarySlip, int64, error)
	Count(ctx context.Context, employeeID *string) (int64, error)
}

// AttendanceLedger is the read-only attendance query payroll consumes.
type AttendanceLedger interface {
	CountByStatus(ctx context.Context, employeeID string, status attendance.Status, start, end time.Time) (int, error)
}

// EmployeeDirectory resolves employees for generation.
type EmployeeDirectory interface {
	GetByID(ctx context.Context, id string) (employee.Employee, error)
	ListActive(ctx context.Context) ([]employee.Employee, error)
}

// SlipRenderer turns stored slips into downloadable documents.
type SlipRenderer interface {
	SlipPDF(slip SalarySlip) ([]byte, error)
	PayrollWorkbook(slips []SalarySlip) ([]byte, error)
}
