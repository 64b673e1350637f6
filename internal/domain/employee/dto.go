package employee

import (
	"strings"

	"github.com/cmlabs-hris/payroll-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

type CreateEmployeeRequest struct {
	Code        string           `json:"code"`
	FirstName   string           `json:"first_name"`
	LastName    string           `json:"last_name"`
	Email       string           `json:"email"`
	Phone       string           `json:"phone"`
	Department  string           `json:"department"`
	Designation string           `json:"designation"`
	JoinDate    string           `json:"join_date"` // YYYY-MM-DD
	BaseSalary  *decimal.Decimal `json:"base_salary,omitempty"`
	IsActive    *bool            `json:"is_active,omitempty"`
}

func (r *CreateEmployeeRequest) Validate() error {
	var errs validator.ValidationErrors

	r.Code = strings.TrimSpace(r.Code)
	r.Email = strings.TrimSpace(strings.ToLower(r.Email))

	if validator.IsEmpty(r.Code) {
		errs = append(errs, validator.ValidationError{
			Field:   "code",
			Message: "code is required",
		})
	} else if !validator.IsValidEmployeeCode(r.Code) {
		errs = append(errs, validator.ValidationError{
			Field:   "code",
			Message: "code must be at most 10 letters, digits, dashes or underscores",
		})
	}

	errs = append(errs, validateName("first_name", r.FirstName)...)
	errs = append(errs, validateName("last_name", r.LastName)...)

	if validator.IsEmpty(r.Email) {
		errs = append(errs, validator.ValidationError{
			Field:   "email",
			Message: "email is required",
		})
	} else if !validator.IsValidEmail(r.Email) {
		errs = append(errs, validator.ValidationError{
			Field:   "email",
			Message: "invalid email format",
		})
	}

	errs = append(errs, validateOptional("phone", r.Phone, 20)...)
	errs = append(errs, validateOptional("department", r.Department, 50)...)
	errs = append(errs, validateOptional("designation", r.Designation, 50)...)

	if validator.IsEmpty(r.JoinDate) {
		errs = append(errs, validator.ValidationError{
			Field:   "join_date",
			Message: "join_date is required",
		})
	} else if _, ok := validator.IsValidDate(r.JoinDate); !ok {
		errs = append(errs, validator.ValidationError{
			Field:   "join_date",
			Message: "join_date must be in YYYY-MM-DD format",
		})
	}

	errs = append(errs, validateSalary(r.BaseSalary)...)

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// UpdateEmployeeRequest carries only the fields to change.
type UpdateEmployeeRequest struct {
	ID          string           `json:"-"`
	Code        *string          `json:"code,omitempty"`
	FirstName   *string          `json:"first_name,omitempty"`
	LastName    *string          `json:"last_name,omitempty"`
	Email       *string          `json:"email,omitempty"`
	Phone       *string          `json:"phone,omitempty"`
	Department  *string          `json:"department,omitempty"`
	Designation *string          `json:"designation,omitempty"`
	JoinDate    *string          `json:"join_date,omitempty"`
	BaseSalary  *decimal.Decimal `json:"base_salary,omitempty"`
	IsActive    *bool            `json:"is_active,omitempty"`
}

func (r *UpdateEmployeeRequest) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsValidUUID(r.ID) {
		errs = append(errs, validator.ValidationError{
			Field:   "id",
			Message: "id must be a valid UUID",
		})
	}

	if r.Code != nil {
		*r.Code = strings.TrimSpace(*r.Code)
		if !validator.IsValidEmployeeCode(*r.Code) {
			errs = append(errs, validator.ValidationError{
				Field:   "code",
				Message: "code must be at most 10 letters, digits, dashes or underscores",
			})
		}
	}
	if r.FirstName != nil {
		errs = append(errs, validateName("first_name", *r.FirstName)...)
	}
	if r.LastName != nil {
		errs = append(errs, validateName("last_name", *r.LastName)...)
	}
	if r.Email != nil {
		*r.Email = strings.TrimSpace(strings.ToLower(*r.Email))
		if !validator.IsValidEmail(*r.Email) {
			errs = append(errs, validator.ValidationError{
				Field:   "email",
				Message: "invalid email format",
			})
		}
	}
	if r.Phone != nil {
		errs = append(errs, validateOptional("phone", *r.Phone, 20)...)
	}
	if r.Department != nil {
		errs = append(errs, validateOptional("department", *r.Department, 50)...)
	}
	if r.Designation != nil {
		errs = append(errs, validateOptional("designation", *r.Designation, 50)...)
	}
	if r.JoinDate != nil {
		if _, ok := validator.IsValidDate(*r.JoinDate); !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "join_date",
				Message: "join_date must be in YYYY-MM-DD format",
			})
		}
	}
	errs = append(errs, validateSalary(r.BaseSalary)...)

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type EmployeeFilter struct {
	Search     *string `json:"search,omitempty"` // code or name
	Department *string `json:"department,omitempty"`
	IsActive   *bool   `json:"is_active,omitempty"`

	// Pagination
	Page  int `json:"page"`
	Limit int `json:"limit"`
}

func (f *EmployeeFilter) Validate() error {
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
		f.Limit = 10
	}
	if f.Limit > 100 {
		errs = append(errs, validator.ValidationError{
			Field:   "limit",
			Message: "limit must not exceed 100",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type EmployeeResponse struct {
	ID          string  `json:"id"`
	UserID      *string `json:"user_id,omitempty"`
	Code        string  `json:"code"`
	FirstName   string  `json:"first_name"`
	LastName    string  `json:"last_name"`
	FullName    string  `json:"full_name"`
	Email       string  `json:"email"`
	Phone       string  `json:"phone"`
	Department  string  `json:"department"`
	Designation string  `json:"designation"`
	JoinDate    string  `json:"join_date"`
	BaseSalary  string  `json:"base_salary"`
	IsActive    bool    `json:"is_active"`
	CreatedAt   string  `json:"created_at"`
	UpdatedAt   string  `json:"updated_at"`
}

type ListEmployeeResponse struct {
	TotalCount int64              `json:"total_count"`
	Page       int                `json:"page"`
	Limit      int                `json:"limit"`
	TotalPages int                `json:"total_pages"`
	Employees  []EmployeeResponse `json:"employees"`
}

func validateName(field, value string) validator.ValidationErrors {
	if validator.IsEmpty(value) {
		return validator.ValidationErrors{{Field: field, Message: field + " is required"}}
	}
	if len(value) > 50 {
		return validator.ValidationErrors{{Field: field, Message: field + " must not exceed 50 characters"}}
	}
	return nil
}

func validateOptional(field, value string, max int) validator.ValidationErrors {
	if len(value) > max {
		return validator.ValidationErrors{{Field: field, Message: field + " is too long"}}
	}
	return nil
}

func validateSalary(salary *decimal.Decimal) validator.ValidationErrors {
	if salary == nil {
		return nil
	}
	if salary.IsNegative() {
		return validator.ValidationErrors{{Field: "base_salary", Message: "base_salary must not be negative"}}
	}
	if !validator.HasMaxDecimalPlaces(*salary, 2) {
		return validator.ValidationErrors{{Field: "base_salary", Message: "base_salary must have at most 2 decimal places"}}
	}
	// numeric(10,2)
	if salary.GreaterThanOrEqual(decimal.New(1, 8)) {
		return validator.ValidationErrors{{Field: "base_salary", Message: "base_salary must be less than 100000000"}}
	}
	return nil
}
