package payroll

import (
	"time"

	"github.com/cmlabs-hris/payroll-backend-go/internal/pkg/validator"
)

// GenerateSlipRequest selects an employee and a month. EmployeeID may be
// empty for self-service callers, who default to their own record.
type GenerateSlipRequest struct {
	EmployeeID string `json:"employee_id"`
	Month      string `json:"month"` // YYYY-MM

	// Parsed by Validate
	ParsedMonth time.Time `json:"-"`
}

func (r *GenerateSlipRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.EmployeeID != "" && !validator.IsValidUUID(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_id",
			Message: "employee_id must be a valid UUID",
		})
	}

	if validator.IsEmpty(r.Month) {
		errs = append(errs, validator.ValidationError{
			Field:   "month",
			Message: "month is required",
		})
	} else if month, err := ParseMonth(r.Month); err != nil {
		errs = append(errs, validator.ValidationError{
			Field:   "month",
			Message: ErrInvalidMonth.Error(),
		})
	} else {
		r.ParsedMonth = month
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type GenerateMonthRequest struct {
	Month string `json:"month"` // YYYY-MM

	// Parsed by Validate
	ParsedMonth time.Time `json:"-"`
}

func (r *GenerateMonthRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Month) {
		errs = append(errs, validator.ValidationError{
			Field:   "month",
			Message: "month is required",
		})
	} else if month, err := ParseMonth(r.Month); err != nil {
		errs = append(errs, validator.ValidationError{
			Field:   "month",
			Message: ErrInvalidMonth.Error(),
		})
	} else {
		r.ParsedMonth = month
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type SalarySlipFilter struct {
	EmployeeID *string `json:"employee_id,omitempty"`
	Month      *string `json:"month,omitempty"` // YYYY-MM

	// Pagination. Limit 0 means all rows, used by exports.
	Page  int `json:"page"`
	Limit int `json:"limit"`

	// Parsed by Validate
	ParsedMonth *time.Time `json:"-"`
}

func (f *SalarySlipFilter) Validate() error {
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

	if f.Month != nil && *f.Month != "" {
		month, err := ParseMonth(*f.Month)
		if err != nil {
			errs = append(errs, validator.ValidationError{
				Field:   "month",
				Message: ErrInvalidMonth.Error(),
			})
		} else {
			f.ParsedMonth = &month
		}
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type SlipAmountsResponse struct {
	EmployeeID  string `json:"employee_id"`
	Month       string `json:"month"`     // YYYY-MM
	FirstDay    string `json:"first_day"` // YYYY-MM-DD
	DaysInMonth int    `json:"days_in_month"`
	AbsentDays  int    `json:"absent_days"`
	PerDayRate  string `json:"per_day_rate"`
	Basic       string `json:"basic"`
	HRA         string `json:"hra"`
	Allowances  string `json:"allowances"`
	Gross       string `json:"gross"`
	Deductions  string `json:"deductions"`
	NetPay      string `json:"net_pay"`
}

type SalarySlipResponse struct {
	ID           string `json:"id"`
	EmployeeID   string `json:"employee_id"`
	EmployeeCode string `json:"employee_code"`
	EmployeeName string `json:"employee_name"`
	Department   string `json:"department"`
	Designation  string `json:"designation"`
	Month        string `json:"month"`       // YYYY-MM
	MonthLabel   string `json:"month_label"` // January 2025
	Basic        string `json:"basic"`
	HRA          string `json:"hra"`
	Allowances   string `json:"allowances"`
	Gross        string `json:"gross"`
	Deductions   string `json:"deductions"`
	NetPay       string `json:"net_pay"`
	GeneratedAt  string `json:"generated_at"`
	UpdatedAt    string `json:"updated_at"`
}

type GenerateSlipResponse struct {
	Created bool                `json:"created"`
	Amounts SlipAmountsResponse `json:"amounts"`
	Slip    SalarySlipResponse  `json:"slip"`
}

type GenerateFailure struct {
	EmployeeID   string `json:"employee_id"`
	EmployeeCode string `json:"employee_code"`
	Error        string `json:"error"`
}

type GenerateMonthResponse struct {
	Month    string            `json:"month"`
	Total    int               `json:"total"`
	Created  int               `json:"created"`
	Updated  int               `json:"updated"`
	Failed   int               `json:"failed"`
	Failures []GenerateFailure `json:"failures,omitempty"`
}

type ListSalarySlipResponse struct {
	TotalCount int64                `json:"total_count"`
	Page       int                  `json:"page"`
	Limit      int                  `json:"limit"`
	TotalPages int                  `json:"total_pages"`
	Slips      []SalarySlipResponse `json:"slips"`
}

// FileResponse is a rendered download.
type FileResponse struct {
	Filename    string
	ContentType string
	Content     []byte
}
