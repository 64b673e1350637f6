package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/payroll-backend-go/internal/pkg/database"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type employeeRepositoryImpl struct {
	db *database.DB
}

func NewEmployeeRepository(db *database.DB) employee.EmployeeRepository {
	return &employeeRepositoryImpl{db: db}
}

const employeeColumns = `id, user_id, code, first_name, last_name, email, phone, department, designation,
	join_date, base_salary, is_active, created_at, updated_at`

func scanEmployee(row pgx.Row) (employee.Employee, error) {
	var emp employee.Employee
	err := row.Scan(
		&emp.ID, &emp.UserID, &emp.Code, &emp.FirstName, &emp.LastName, &emp.Email, &emp.Phone,
		&emp.Department, &emp.Designation, &emp.JoinDate, &emp.BaseSalary, &emp.IsActive,
		&emp.CreatedAt, &emp.UpdatedAt,
	)
	return emp, err
}

func translateEmployeeError(err error, action string) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return employee.ErrEmployeeNotFound
	}
	if isUniqueViolation(err, "employees_code_key") {
		return employee.ErrEmployeeCodeExists
	}
	if isUniqueViolation(err, "employees_user_id_key") {
		return employee.ErrUserAlreadyLinked
	}
	return fmt.Errorf("failed to %s employee: %w", action, err)
}

// GetByID implements employee.EmployeeRepository.
func (e *employeeRepositoryImpl) GetByID(ctx context.Context, id string) (employee.Employee, error) {
	q := GetQuerier(ctx, e.db)

	query := `SELECT ` + employeeColumns + ` FROM employees WHERE id = $1`

	emp, err := scanEmployee(q.QueryRow(ctx, query, id))
	if err != nil {
		return employee.Employee{}, translateEmployeeError(err, "get")
	}
	return emp, nil
}

// GetByUserID implements employee.EmployeeRepository.
func (e *employeeRepositoryImpl) GetByUserID(ctx context.Context, userID string) (employee.Employee, error) {
	q := GetQuerier(ctx, e.db)

	query := `SELECT ` + employeeColumns + ` FROM employees WHERE user_id = $1`

	emp, err := scanEmployee(q.QueryRow(ctx, query, userID))
	if err != nil {
		return employee.Employee{}, translateEmployeeError(err, "get")
	}
	return emp, nil
}

// Create implements employee.EmployeeRepository.
func (e *employeeRepositoryImpl) Create(ctx context.Context, newEmployee employee.Employee) (employee.Employee, error) {
	q := GetQuerier(ctx, e.db)

	if newEmployee.ID == "" {
		id, err := uuid.NewV7()
		if err != nil {
			return employee.Employee{}, fmt.Errorf("failed to generate employee id: %w", err)
		}
		newEmployee.ID = id.String()
	}

	query := `
		INSERT INTO employees (
			id, user_id, code, first_name, last_name, email, phone, department, designation,
			join_date, base_salary, is_active
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING ` + employeeColumns

	created, err := scanEmployee(q.QueryRow(ctx, query,
		newEmployee.ID, newEmployee.UserID, newEmployee.Code, newEmployee.FirstName, newEmployee.LastName,
		newEmployee.Email, newEmployee.Phone, newEmployee.Department, newEmployee.Designation,
		newEmployee.JoinDate, newEmployee.BaseSalary, newEmployee.IsActive,
	))
	if err != nil {
		return employee.Employee{}, translateEmployeeError(err, "create")
	}
	return created, nil
}

// Update implements employee.EmployeeRepository.
func (e *employeeRepositoryImpl) Update(ctx context.Context, emp employee.Employee) (employee.Employee, error) {
	q := GetQuerier(ctx, e.db)

	query := `
		UPDATE employees
		SET code = $2, first_name = $3, last_name = $4, email = $5, phone = $6, department = $7,
			designation = $8, join_date = $9, base_salary = $10, is_active = $11, updated_at = NOW()
		WHERE id = $1
		RETURNING ` + employeeColumns

	updated, err := scanEmployee(q.QueryRow(ctx, query,
		emp.ID, emp.Code, emp.FirstName, emp.LastName, emp.Email, emp.Phone, emp.Department,
		emp.Designation, emp.JoinDate, emp.BaseSalary, emp.IsActive,
	))
	if err != nil {
		return employee.Employee{}, translateEmployeeError(err, "update")
	}
	return updated, nil
}

// Delete implements employee.EmployeeRepository. Attendance and slips cascade.
func (e *employeeRepositoryImpl) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, e.db)

	tag, err := q.Exec(ctx, `DELETE FROM employees WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete employee: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return employee.ErrEmployeeNotFound
	}
	return nil
}

// LinkUser implements employee.EmployeeRepository.
func (e *employeeRepositoryImpl) LinkUser(ctx context.Context, id string, userID string) error {
	q := GetQuerier(ctx, e.db)

	query := `
		UPDATE employees
		SET user_id = $2, updated_at = NOW()
		WHERE id = $1 AND user_id IS NULL
	`
	tag, err := q.Exec(ctx, query, id, userID)
	if err != nil {
		return translateEmployeeError(err, "link user to")
	}
	if tag.RowsAffected() == 0 {
		// Either missing or already linked
		if _, err := e.GetByID(ctx, id); err != nil {
			return err
		}
		return employee.ErrUserAlreadyLinked
	}
	return nil
}

// List implements employee.EmployeeRepository.
func (e *employeeRepositoryImpl) List(ctx context.Context, filter employee.EmployeeFilter) ([]employee.Employee, int64, error) {
	q := GetQuerier(ctx, e.db)

	conditions := []string{"1=1"}
	args := []interface{}{}
	argIdx := 1

	if filter.Search != nil && *filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf("(code ILIKE $%d OR first_name ILIKE $%d OR last_name ILIKE $%d)", argIdx, argIdx, argIdx))
		args = append(args, "%"+*filter.Search+"%")
		argIdx++
	}
	if filter.Department != nil && *filter.Department != "" {
		conditions = append(conditions, fmt.Sprintf("department = $%d", argIdx))
		args = append(args, *filter.Department)
		argIdx++
	}
	if filter.IsActive != nil {
		conditions = append(conditions, fmt.Sprintf("is_active = $%d", argIdx))
		args = append(args, *filter.IsActive)
		argIdx++
	}

	whereClause := strings.Join(conditions, " AND ")

	// Count query
	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM employees WHERE %s", whereClause)
	var total int64
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count employees: %w", err)
	}

	offset := (filter.Page - 1) * filter.Limit
	query := fmt.Sprintf(`SELECT %s FROM employees WHERE %s ORDER BY code ASC LIMIT $%d OFFSET $%d`,
		employeeColumns, whereClause, argIdx, argIdx+1)
	args = append(args, filter.Limit, offset)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list employees: %w", err)
	}
	defer rows.Close()

	employees := make([]employee.Employee, 0)
	for rows.Next() {
		emp, err := scanEmployee(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan employee: %w", err)
		}
		employees = append(employees, emp)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	return employees, total, nil
}

// ListActive implements employee.EmployeeRepository.
func (e *employeeRepositoryImpl) ListActive(ctx context.Context) ([]employee.Employee, error) {
	q := GetQuerier(ctx, e.db)

	query := `SELECT ` + employeeColumns + ` FROM employees WHERE is_active = TRUE ORDER BY code ASC`

	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list active employees: %w", err)
	}
	defer rows.Close()

	var employees []employee.Employee
	for rows.Next() {
		emp, err := scanEmployee(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan employee: %w", err)
		}
		employees = append(employees, emp)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return employees, nil
}

// Count implements employee.EmployeeRepository.
func (e *employeeRepositoryImpl) Count(ctx context.Context) (int64, int64, error) {
	q := GetQuerier(ctx, e.db)

	var total, active int64
	err := q.QueryRow(ctx, `SELECT COUNT(*), COUNT(*) FILTER (WHERE is_active) FROM employees`).Scan(&total, &active)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to count employees: %w", err)
	}
	return total, active, nil
}
