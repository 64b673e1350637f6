package dashboard

// DashboardResponse is the combined response for the main dashboard endpoint
type DashboardResponse struct {
	Scope             string                    `json:"scope"` // "all" for staff, "own" for employees
	Employees         *EmployeeSummaryResponse  `json:"employees,omitempty"`
	AttendanceRecords int64                     `json:"attendance_records"`
	SalarySlips       int64                     `json:"salary_slips"`
	MonthlyAttendance MonthlyAttendanceResponse `json:"monthly_attendance"`
}

// EmployeeSummaryResponse is only filled for staff.
type EmployeeSummaryResponse struct {
	Total  int64 `json:"total"`
	Active int64 `json:"active"`
}

type MonthlyAttendanceResponse struct {
	Month   string `json:"month"` // Format: "YYYY-MM"
	Present int64  `json:"present"`
	Absent  int64  `json:"absent"`
	Leave   int64  `json:"leave"`
	Total   int64  `json:"total"`
}
