package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/dashboard"
	"github.com/cmlabs-hris/payroll-backend-go/internal/pkg/database"
)

type dashboardRepositoryImpl struct {
	db *database.DB
}

func NewDashboardRepository(db *database.DB) dashboard.DashboardRepository {
	return &dashboardRepositoryImpl{db: db}
}

// GetAttendanceStats returns present/absent/leave in single query
func (r *dashboardRepositoryImpl) GetAttendanceStats(ctx context.Context, employeeID *string, start, end time.Time) (*dashboard.AttendanceStats, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT
			COUNT(*) FILTER (WHERE status = 'P') as present,
			COUNT(*) FILTER (WHERE status = 'A') as absent,
			COUNT(*) FILTER (WHERE status = 'L') as leave
		FROM attendance_records
		WHERE date BETWEEN $1 AND $2
	`
	args := []interface{}{start, end}
	if employeeID != nil {
		query += ` AND employee_id = $3`
		args = append(args, *employeeID)
	}

	var stats dashboard.AttendanceStats
	err := q.QueryRow(ctx, query, args...).Scan(&stats.Present, &stats.Absent, &stats.Leave)
	if err != nil {
		return nil, fmt.Errorf("failed to get attendance stats: %w", err)
	}
	return &stats, nil
}
