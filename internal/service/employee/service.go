package employee

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/payroll-backend-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/payroll-backend-go/internal/pkg/validator"
)

type EmployeeServiceImpl struct {
	employeeRepo employee.EmployeeRepository
}

func NewEmployeeService(employeeRepo employee.EmployeeRepository) employee.EmployeeService {
	return &EmployeeServiceImpl{
		employeeRepo: employeeRepo,
	}
}

// mapEmployeeToResponse converts an Employee entity to its API representation
func mapEmployeeToResponse(emp employee.Employee) employee.EmployeeResponse {
	return employee.EmployeeResponse{
		ID:          emp.ID,
		UserID:      emp.UserID,
		Code:        emp.Code,
		FirstName:   emp.FirstName,
		LastName:    emp.LastName,
		FullName:    emp.FullName(),
		Email:       emp.Email,
		Phone:       emp.Phone,
		Department:  emp.Department,
		Designation: emp.Designation,
		JoinDate:    emp.JoinDate.Format("2006-01-02"),
		BaseSalary:  emp.Salary().StringFixed(2),
		IsActive:    emp.IsActive,
		CreatedAt:   emp.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   emp.UpdatedAt.Format(time.RFC3339),
	}
}

// GetEmployee implements employee.EmployeeService.
func (s *EmployeeServiceImpl) GetEmployee(ctx context.Context, id string) (employee.EmployeeResponse, error) {
	actor, err := jwt.ActorFromContext(ctx)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}

	if !validator.IsValidUUID(id) {
		return employee.EmployeeResponse{}, validator.ValidationErrors{{Field: "id", Message: "id must be a valid UUID"}}
	}

	// Employees only see their own record; anything else looks missing.
	if !actor.CanActOn(id) {
		return employee.EmployeeResponse{}, employee.ErrEmployeeNotFound
	}

	emp, err := s.employeeRepo.GetByID(ctx, id)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}

	return mapEmployeeToResponse(emp), nil
}

// CreateEmployee implements employee.EmployeeService.
func (s *EmployeeServiceImpl) CreateEmployee(ctx context.Context, req employee.CreateEmployeeRequest) (employee.EmployeeResponse, error) {
	if err := req.Validate(); err != nil {
		return employee.EmployeeResponse{}, err
	}

	joinDate, _ := validator.IsValidDate(req.JoinDate)

	newEmployee := employee.Employee{
		Code:        req.Code,
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		Email:       req.Email,
		Phone:       req.Phone,
		Department:  req.Department,
		Designation: req.Designation,
		JoinDate:    joinDate,
		BaseSalary:  req.BaseSalary,
		IsActive:    true,
	}
	if req.IsActive != nil {
		newEmployee.IsActive = *req.IsActive
	}

	created, err := s.employeeRepo.Create(ctx, newEmployee)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}

	slog.Info("employee created", "employee_id", created.ID, "code", created.Code)
	return mapEmployeeToResponse(created), nil
}

// UpdateEmployee implements employee.EmployeeService.
func (s *EmployeeServiceImpl) UpdateEmployee(ctx context.Context, req employee.UpdateEmployeeRequest) (employee.EmployeeResponse, error) {
	if err := req.Validate(); err != nil {
		return employee.EmployeeResponse{}, err
	}

	existing, err := s.employeeRepo.GetByID(ctx, req.ID)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}

	if req.Code != nil {
		existing.Code = *req.Code
	}
	if req.FirstName != nil {
		existing.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		existing.LastName = *req.LastName
	}
	if req.Email != nil {
		existing.Email = *req.Email
	}
	if req.Phone != nil {
		existing.Phone = *req.Phone
	}
	if req.Department != nil {
		existing.Department = *req.Department
	}
	if req.Designation != nil {
		existing.Designation = *req.Designation
	}
	if req.JoinDate != nil {
		existing.JoinDate, _ = validator.IsValidDate(*req.JoinDate)
	}
	if req.BaseSalary != nil {
		existing.BaseSalary = req.BaseSalary
	}
	if req.IsActive != nil {
		existing.IsActive = *req.IsActive
	}

	updated, err := s.employeeRepo.Update(ctx, existing)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}

	return mapEmployeeToResponse(updated), nil
}

// DeleteEmployee implements employee.EmployeeService.
func (s *EmployeeServiceImpl) DeleteEmployee(ctx context.Context, id string) error {
	if !validator.IsValidUUID(id) {
		return validator.ValidationErrors{{Field: "id", Message: "id must be a valid UUID"}}
	}

	if err := s.employeeRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, employee.ErrEmployeeNotFound) {
			return err
		}
		return fmt.Errorf("failed to delete employee: %w", err)
	}

	slog.Info("employee deleted", "employee_id", id)
	return nil
}

// ListEmployees implements employee.EmployeeService.
func (s *EmployeeServiceImpl) ListEmployees(ctx context.Context, filter employee.EmployeeFilter) (employee.ListEmployeeResponse, error) {
	if err := filter.Validate(); err != nil {
		return employee.ListEmployeeResponse{}, err
	}

	employees, total, err := s.employeeRepo.List(ctx, filter)
	if err != nil {
		return employee.ListEmployeeResponse{}, err
	}

	responses := make([]employee.EmployeeResponse, 0, len(employees))
	for _, emp := range employees {
		responses = append(responses, mapEmployeeToResponse(emp))
	}

	return employee.ListEmployeeResponse{
		TotalCount: total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: int(math.Ceil(float64(total) / float64(filter.Limit))),
		Employees:  responses,
	}, nil
}
