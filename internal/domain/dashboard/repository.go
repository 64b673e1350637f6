package dashboard

import (
	"context"
	"time"
)

// AttendanceStats combines present/absent/leave counts
type AttendanceStats struct {
	Present int64
	Absent  int64
	Leave   int64
}

// DashboardRepository defines the interface for dashboard data access
type DashboardRepository interface {
	// GetAttendanceStats returns per-status counts for start..end inclusive,
	// optionally for a single employee.
	GetAttendanceStats(ctx context.Context, employeeID *string, start, end time.Time) (*AttendanceStats, error)
}

type EmployeeCounter interface {
	Count(ctx context.Context) (total int64, active int64, err error)
}

// RecordCounter is satisfied by the attendance and salary slip repositories.
type RecordCounter interface {
	Count(ctx context.Context, employeeID *string) (int64, error)
}
