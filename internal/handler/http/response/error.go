package response

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/payroll"
	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/payroll-backend-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/payroll-backend-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Auth domain errors
	case errors.Is(err, auth.ErrInvalidCredentials):
		Unauthorized(w, err.Error())
	case errors.Is(err, auth.ErrInvalidToken), errors.Is(err, jwt.ErrMissingClaims):
		Unauthorized(w, "Invalid or expired token")
	case errors.Is(err, auth.ErrTokenExpired):
		Unauthorized(w, "Token expired")
	case errors.Is(err, auth.ErrRefreshTokenRevoked):
		Unauthorized(w, "Refresh token revoked")
	case errors.Is(err, auth.ErrUserNotFound), errors.Is(err, user.ErrUserNotFound):
		NotFound(w, "User not found")

	// User domain errors
	case errors.Is(err, user.ErrUserEmailExists):
		Conflict(w, "Email already registered")
	case errors.Is(err, user.ErrEmployeeAlreadyLinked), errors.Is(err, employee.ErrUserAlreadyLinked):
		Conflict(w, "Employee is already linked to a user")
	case errors.Is(err, user.ErrStaffAccessRequired):
		Forbidden(w, "Staff access required")
	case errors.Is(err, user.ErrInsufficientPermissions):
		Forbidden(w, "Insufficient permissions")
	case errors.Is(err, user.ErrNoLinkedEmployee):
		Forbidden(w, "No employee record is linked to this account")

	// Employee domain errors
	case errors.Is(err, employee.ErrEmployeeNotFound):
		NotFound(w, "Employee not found")
	case errors.Is(err, employee.ErrEmployeeCodeExists):
		Conflict(w, "Employee code already exists")

	// Attendance domain errors
	case errors.Is(err, attendance.ErrAttendanceNotFound):
		NotFound(w, "Attendance record not found")
	case errors.Is(err, attendance.ErrAttendanceExists):
		Conflict(w, "Attendance already recorded for this employee and date")
	case errors.Is(err, attendance.ErrInvalidStatus):
		ValidationError(w, map[string]string{"status": err.Error()})

	// Payroll domain errors
	case errors.Is(err, payroll.ErrSalarySlipNotFound):
		NotFound(w, "Salary slip not found")
	case errors.Is(err, payroll.ErrSalarySlipConflict):
		Conflict(w, "Salary slip was modified concurrently, please retry")
	case errors.Is(err, payroll.ErrInvalidMonth):
		ValidationError(w, map[string]string{"month": err.Error()})
	case errors.Is(err, payroll.ErrEmployeeRequired):
		ValidationError(w, map[string]string{"employee_id": err.Error()})
	case errors.Is(err, payroll.ErrEmployeeNotEligible):
		ValidationError(w, map[string]string{"employee_id": err.Error()})
	case errors.Is(err, payroll.ErrAttendanceUnavailable):
		slog.Error("attendance ledger unavailable", "error", err)
		ServiceUnavailable(w, "Attendance data is temporarily unavailable")

	case errors.Is(err, context.DeadlineExceeded):
		ServiceUnavailable(w, "Request timed out")

	// Default
	default:
		slog.Error("unhandled error", "error", err)
		InternalServerError(w, "An unexpected error occurred")
	}
}
