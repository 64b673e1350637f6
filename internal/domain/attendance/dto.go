package attendance

import (
	"strings"
	"time"

	"github.com/cmlabs-hris/payroll-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

type CreateAttendanceRequest struct {
	EmployeeID   string           `json:"employee_id"`
	Date         string           `json:"date"` // YYYY-MM-DD
	Status       string           `json:"status"`
	WorkingHours *decimal.Decimal `json:"working_hours,omitempty"`

	// Parsed by Validate
	ParsedDate time.Time `json:"-"`
}

var maxWorkingHours = decimal.NewFromInt(24)

func (r *CreateAttendanceRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_id",
			Message: "employee_id is required",
		})
	} else if !validator.IsValidUUID(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_id",
			Message: "employee_id must be a valid UUID",
		})
	}

	if validator.IsEmpty(r.Date) {
		errs = append(errs, validator.ValidationError{
			Field:   "date",
			Message: "date is required",
		})
	} else if date, ok := validator.IsValidDate(r.Date); !ok {
		errs = append(errs, validator.ValidationError{
			Field:   "date",
			Message: "date must be in YYYY-MM-DD format",
		})
	} else {
		r.ParsedDate = date
	}

	r.Status = strings.ToUpper(strings.TrimSpace(r.Status))
	if !Status(r.Status).IsValid() {
		errs = append(errs, validator.ValidationError{
			Field:   "status",
			Message: ErrInvalidStatus.Error(),
		})
	}

	if r.WorkingHours != nil {
		if r.WorkingHours.IsNegative() || r.WorkingHours.GreaterThan(maxWorkingHours) {
			errs = append(errs, validator.ValidationError{
				Field:   "working_hours",
				Message: "working_hours must be between 0 and 24",
			})
		} else if !validator.HasMaxDecimalPlaces(*r.WorkingHours, 2) {
			errs = append(errs, validator.ValidationError{
				Field:   "working_hours",
				Message: "working_hours must have at most 2 decimal places",
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type AttendanceFilter struct {
	EmployeeID *string `json:"employee_id,omitempty"`
	Date       *string `json:"date,omitempty"` // YYYY-MM-DD
	Status     *string `json:"status,omitempty"`

	// Pagination
	Page  int `json:"page"`
	Limit int `json:"limit"`
}

func (f *AttendanceFilter) Validate() error {
	var errs validator.ValidationErrors

	if f.Page < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "page",
			Message: "page must be a positive number",
		})
	}
	if f.Page == 0 {
		f.Page = 1
	}

	if f.Limit < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "limit",
			Message: "limit must be a positive number",
		})
	}
	if f.Limit == 0 {
		f.Limit = 20
	}
	if f.Limit > 100 {
		errs = append(errs, validator.ValidationError{
			Field:   "limit",
			Message: "limit must not exceed 100",
		})
	}

	if f.EmployeeID != nil && *f.EmployeeID != "" && !validator.IsValidUUID(*f.EmployeeID) {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_id",
			Message: "employee_id must be a valid UUID",
		})
	}

	if f.Date != nil && *f.Date != "" {
		if _, valid := validator.IsValidDate(*f.Date); !valid {
			errs = append(errs, validator.ValidationError{
				Field:   "date",
				Message: "date must be in YYYY-MM-DD format",
			})
		}
	}

	if f.Status != nil && *f.Status != "" {
		upper := strings.ToUpper(*f.Status)
		f.Status = &upper
		if !Status(upper).IsValid() {
			errs = append(errs, validator.ValidationError{
				Field:   "status",
				Message: ErrInvalidStatus.Error(),
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type AttendanceResponse struct {
	ID           string  `json:"id"`
	EmployeeID   string  `json:"employee_id"`
	EmployeeCode *string `json:"employee_code,omitempty"`
	EmployeeName *string `json:"employee_name,omitempty"`
	Date         string  `json:"date"`
	Status       string  `json:"status"`
	StatusLabel  string  `json:"status_label"`
	WorkingHours string  `json:"working_hours"`
	CreatedAt    string  `json:"created_at"`
}

type ListAttendanceResponse struct {
	TotalCount  int64                `json:"total_count"`
	Page        int                  `json:"page"`
	Limit       int                  `json:"limit"`
	TotalPages  int                  `json:"total_pages"`
	Attendances []AttendanceResponse `json:"attendances"`
}
