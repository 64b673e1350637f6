package payroll

import "errors"

var (
	ErrSalarySlipNotFound    = errors.New("salary slip not found")
	ErrSalarySlipConflict    = errors.New("salary slip was written concurrently")
	ErrInvalidMonth          = errors.New("month must be in YYYY-MM format")
	ErrEmployeeRequired      = errors.New("employee is required")
	ErrEmployeeNotEligible   = errors.New("employee not found or inactive")
	ErrAttendanceUnavailable = errors.New("attendance data unavailable")
)
