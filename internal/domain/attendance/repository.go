package attendance

import (
	"context"
	"time"
)

type AttendanceRepository interface {
	Create(ctx context.Context, a Attendance) (Attendance, error)
	List(ctx context.Context, filter AttendanceFilter) ([]Attendance, int64, error)

	// CountByStatus counts records for one employee with the given status
	// and date in [start, end], both ends inclusive.
	CountByStatus(ctx context.Context, employeeID string, status Status, start, end time.Time) (int, error)

	// Count returns the number of records, optionally for a single employee.
	Count(ctx context.Context, employeeID *string) (int64, error)
}
