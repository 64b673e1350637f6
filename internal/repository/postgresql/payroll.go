package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/payroll"
	"github.com/cmlabs-hris/payroll-backend-go/internal/pkg/database"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type salarySlipRepositoryImpl struct {
	db *database.DB
}

func NewSalarySlipRepository(db *database.DB) payroll.SalarySlipRepository {
	return &salarySlipRepositoryImpl{db: db}
}

const slipColumns = `s.id, s.employee_id, s.month, s.basic, s.hra, s.allowances, s.deductions, s.net_pay,
	s.generated_at, s.updated_at, e.code, e.first_name, e.last_name, e.department, e.designation`

func slipScanTargets(s *payroll.SalarySlip) []interface{} {
	return []interface{}{
		&s.ID, &s.EmployeeID, &s.Month, &s.Basic, &s.HRA, &s.Allowances, &s.Deductions, &s.NetPay,
		&s.GeneratedAt, &s.UpdatedAt, &s.Employee.Code, &s.Employee.FirstName, &s.Employee.LastName,
		&s.Employee.Department, &s.Employee.Designation,
	}
}

// Upsert implements payroll.SalarySlipRepository. The conditional write runs
// as one statement so concurrent generations for the same pair converge on a
// single row. xmax is 0 only for a freshly inserted tuple.
func (r *salarySlipRepositoryImpl) Upsert(ctx context.Context, slip payroll.SalarySlip) (payroll.SalarySlip, bool, error) {
	q := GetQuerier(ctx, r.db)

	id, err := uuid.NewV7()
	if err != nil {
		return payroll.SalarySlip{}, false, fmt.Errorf("failed to generate salary slip id: %w", err)
	}

	query := `
		WITH s AS (
			INSERT INTO salary_slips (id, employee_id, month, basic, hra, allowances, deductions, net_pay)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			ON CONFLICT (employee_id, month) DO UPDATE
			SET basic = EXCLUDED.basic,
				hra = EXCLUDED.hra,
				allowances = EXCLUDED.allowances,
				deductions = EXCLUDED.deductions,
				net_pay = EXCLUDED.net_pay,
				updated_at = NOW()
			RETURNING id, employee_id, month, basic, hra, allowances, deductions, net_pay,
				generated_at, updated_at, (xmax = 0) AS created
		)
		SELECT ` + slipColumns + `, s.created
		FROM s
		JOIN employees e ON e.id = s.employee_id
	`

	var saved payroll.SalarySlip
	var created bool
	targets := append(slipScanTargets(&saved), &created)

	err = q.QueryRow(ctx, query,
		id.String(), slip.EmployeeID, payroll.MonthStart(slip.Month),
		slip.Basic, slip.HRA, slip.Allowances, slip.Deductions, slip.NetPay,
	).Scan(targets...)
	if err != nil {
		if isUniqueViolation(err, "") {
			return payroll.SalarySlip{}, false, payroll.ErrSalarySlipConflict
		}
		return payroll.SalarySlip{}, false, fmt.Errorf("failed to upsert salary slip: %w", err)
	}

	return saved, created, nil
}

// GetByID implements payroll.SalarySlipRepository.
func (r *salarySlipRepositoryImpl) GetByID(ctx context.Context, id string) (payroll.SalarySlip, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + slipColumns + `
		FROM salary_slips s
		JOIN employees e ON e.id = s.employee_id
		WHERE s.id = $1
	`

	var slip payroll.SalarySlip
	if err := q.QueryRow(ctx, query, id).Scan(slipScanTargets(&slip)...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return payroll.SalarySlip{}, payroll.ErrSalarySlipNotFound
		}
		return payroll.SalarySlip{}, fmt.Errorf("failed to get salary slip: %w", err)
	}
	return slip, nil
}

// List implements payroll.SalarySlipRepository.
func (r *salarySlipRepositoryImpl) List(ctx context.Context, filter payroll.SalarySlipFilter) ([]payroll.SalarySlip, int64, error) {
	q := GetQuerier(ctx, r.db)

	conditions := []string{"1=1"}
	args := []interface{}{}
	argIdx := 1

	if filter.EmployeeID != nil && *filter.EmployeeID != "" {
		conditions = append(conditions, fmt.Sprintf("s.employee_id = $%d", argIdx))
		args = append(args, *filter.EmployeeID)
		argIdx++
	}
	if filter.ParsedMonth != nil {
		conditions = append(conditions, fmt.Sprintf("s.month = $%d", argIdx))
		args = append(args, payroll.MonthStart(*filter.ParsedMonth))
		argIdx++
	}

	whereClause := strings.Join(conditions, " AND ")

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM salary_slips s WHERE %s", whereClause)
	var total int64
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count salary slips: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM salary_slips s
		JOIN employees e ON e.id = s.employee_id
		WHERE %s
		ORDER BY s.month DESC, e.code ASC
	`, slipColumns, whereClause)

	if filter.Limit > 0 {
		page := filter.Page
		if page < 1 {
			page = 1
		}
		query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", argIdx, argIdx+1)
		args = append(args, filter.Limit, (page-1)*filter.Limit)
	}

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list salary slips: %w", err)
	}
	defer rows.Close()

	slips := make([]payroll.SalarySlip, 0)
	for rows.Next() {
		var slip payroll.SalarySlip
		if err := rows.Scan(slipScanTargets(&slip)...); err != nil {
			return nil, 0, fmt.Errorf("failed to scan salary slip: %w", err)
		}
		slips = append(slips, slip)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	return slips, total, nil
}

// Count implements payroll.SalarySlipRepository.
func (r *salarySlipRepositoryImpl) Count(ctx context.Context, employeeID *string) (int64, error) {
	q := GetQuerier(ctx, r.db)

	var total int64
	var err error
	if employeeID != nil {
		err = q.QueryRow(ctx, `SELECT COUNT(*) FROM salary_slips WHERE employee_id = $1`, *employeeID).Scan(&total)
	} else {
		err = q.QueryRow(ctx, `SELECT COUNT(*) FROM salary_slips`).Scan(&total)
	}
	if err != nil {
		return 0, fmt.Errorf("failed to count salary slips: %w", err)
	}
	return total, nil
}
