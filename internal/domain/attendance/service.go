package attendance

import "context"

type AttendanceService interface {
	// CreateAttendance records a status for one employee and date (staff only)
	CreateAttendance(ctx context.Context, req CreateAttendanceRequest) (AttendanceResponse, error)

	// ListAttendance lists records; non-staff callers only see their own
	ListAttendance(ctx context.Context, filter AttendanceFilter) (ListAttendanceResponse, error)
}
