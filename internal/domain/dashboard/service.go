package dashboard

import "context"

// DashboardService defines the interface for dashboard operations
type DashboardService interface {
	// GetDashboard returns combined dashboard data using goroutines
	GetDashboard(ctx context.Context) (*DashboardResponse, error)

	// GetMonthlyAttendance returns the attendance breakdown for a month, YYYY-MM, defaulting to the current one
	GetMonthlyAttendance(ctx context.Context, month string) (*MonthlyAttendanceResponse, error)
}
