package postgresql

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/payroll-backend-go/internal/pkg/database"
	"github.com/google/uuid"
)

type attendanceRepositoryImpl struct {
	db *database.DB
}

func NewAttendanceRepository(db *database.DB) attendance.AttendanceRepository {
	return &attendanceRepositoryImpl{db: db}
}

// Create implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) Create(ctx context.Context, a attendance.Attendance) (attendance.Attendance, error) {
	q := GetQuerier(ctx, r.db)

	if a.ID == "" {
		id, err := uuid.NewV7()
		if err != nil {
			return attendance.Attendance{}, fmt.Errorf("failed to generate attendance id: %w", err)
		}
		a.ID = id.String()
	}

	query := `
		INSERT INTO attendance_records (id, employee_id, date, status, working_hours)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, employee_id, date, status, working_hours, created_at
	`

	var created attendance.Attendance
	err := q.QueryRow(ctx, query, a.ID, a.EmployeeID, a.Date, a.Status, a.WorkingHours).Scan(
		&created.ID, &created.EmployeeID, &created.Date, &created.Status, &created.WorkingHours, &created.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err, "uq_attendance_employee_date") {
			return attendance.Attendance{}, attendance.ErrAttendanceExists
		}
		return attendance.Attendance{}, fmt.Errorf("failed to create attendance: %w", err)
	}
	return created, nil
}

// List implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) List(ctx context.Context, filter attendance.AttendanceFilter) ([]attendance.Attendance, int64, error) {
	q := GetQuerier(ctx, r.db)

	conditions := []string{"1=1"}
	args := []interface{}{}
	argIdx := 1

	if filter.EmployeeID != nil && *filter.EmployeeID != "" {
		conditions = append(conditions, fmt.Sprintf("a.employee_id = $%d", argIdx))
		args = append(args, *filter.EmployeeID)
		argIdx++
	}
	if filter.Date != nil && *filter.Date != "" {
		conditions = append(conditions, fmt.Sprintf("a.date = $%d", argIdx))
		args = append(args, *filter.Date)
		argIdx++
	}
	if filter.Status != nil && *filter.Status != "" {
		conditions = append(conditions, fmt.Sprintf("a.status = $%d", argIdx))
		args = append(args, *filter.Status)
		argIdx++
	}

	whereClause := strings.Join(conditions, " AND ")

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM attendance_records a WHERE %s", whereClause)
	var total int64
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count attendance: %w", err)
	}

	offset := (filter.Page - 1) * filter.Limit
	query := fmt.Sprintf(`
		SELECT a.id, a.employee_id, a.date, a.status, a.working_hours, a.created_at,
			e.code, e.first_name || ' ' || e.last_name
		FROM attendance_records a
		JOIN employees e ON e.id = a.employee_id
		WHERE %s
		ORDER BY a.date DESC, e.code ASC
		LIMIT $%d OFFSET $%d
	`, whereClause, argIdx, argIdx+1)
	args = append(args, filter.Limit, offset)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list attendance: %w", err)
	}
	defer rows.Close()

	records := make([]attendance.Attendance, 0)
	for rows.Next() {
		var a attendance.Attendance
		if err := rows.Scan(
			&a.ID, &a.EmployeeID, &a.Date, &a.Status, &a.WorkingHours, &a.CreatedAt,
			&a.EmployeeCode, &a.EmployeeName,
		); err != nil {
			return nil, 0, fmt.Errorf("failed to scan attendance: %w", err)
		}
		records = append(records, a)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	return records, total, nil
}

// CountByStatus implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) CountByStatus(ctx context.Context, employeeID string, status attendance.Status, start, end time.Time) (int, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT COUNT(*)
		FROM attendance_records
		WHERE employee_id = $1 AND status = $2 AND date BETWEEN $3 AND $4
	`

	var count int
	if err := q.QueryRow(ctx, query, employeeID, status, start, end).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count attendance by status: %w", err)
	}
	return count, nil
}

// Count implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) Count(ctx context.Context, employeeID *string) (int64, error) {
	q := GetQuerier(ctx, r.db)

	var total int64
	var err error
	if employeeID != nil {
		err = q.QueryRow(ctx, `SELECT COUNT(*) FROM attendance_records WHERE employee_id = $1`, *employeeID).Scan(&total)
	} else {
		err = q.QueryRow(ctx, `SELECT COUNT(*) FROM attendance_records`).Scan(&total)
	}
	if err != nil {
		return 0, fmt.Errorf("failed to count attendance: %w", err)
	}
	return total, nil
}
