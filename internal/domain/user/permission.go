package user

type Permission string

const (
	// Employee Management
	PermissionEmployeeView   Permission = "employee.view"
	PermissionEmployeeManage Permission = "employee.manage"

	// Attendance Management
	PermissionAttendanceViewOwn Permission = "attendance.view_own"
	PermissionAttendanceViewAll Permission = "attendance.view_all"
	PermissionAttendanceCreate  Permission = "attendance.create"

	// Payroll
	PermissionPayrollViewOwn     Permission = "payroll.view_own"
	PermissionPayrollViewAll     Permission = "payroll.view_all"
	PermissionPayrollGenerateOwn Permission = "payroll.generate_own"
	PermissionPayrollGenerateAll Permission = "payroll.generate_all"

	// User Management
	PermissionUserManage Permission = "user.manage"
)

// RolePermissions maps roles to their permissions
var RolePermissions = map[Role][]Permission{
	RoleStaff: {
		PermissionEmployeeView,
		PermissionEmployeeManage,
		PermissionAttendanceViewOwn,
		PermissionAttendanceViewAll,
		PermissionAttendanceCreate,
		PermissionPayrollViewOwn,
		PermissionPayrollViewAll,
		PermissionPayrollGenerateOwn,
		PermissionPayrollGenerateAll,
		PermissionUserManage,
	},
	RoleEmployee: {
		PermissionEmployeeView,
		PermissionAttendanceViewOwn,
		PermissionPayrollViewOwn,
		PermissionPayrollGenerateOwn,
	},
}

// HasPermission checks if a role has a specific permission
func HasPermission(role Role, permission Permission) bool {
	permissions, exists := RolePermissions[role]
	if !exists {
		return false
	}

	for _, p := range permissions {
		if p == permission {
			return true
		}
	}

	return false
}
