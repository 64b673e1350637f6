package attendance

import (
	"context"
	"testing"
	"time"

	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/payroll-backend-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/payroll-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	empAsha = "0192f5a0-0000-7000-8000-000000000001"
	empRavi = "0192f5a0-0000-7000-8000-000000000002"
)

type fakeAttendanceRepo struct {
	attendance.AttendanceRepository
	records    []attendance.Attendance
	lastFilter attendance.AttendanceFilter
}

func (f *fakeAttendanceRepo) Create(ctx context.Context, a attendance.Attendance) (attendance.Attendance, error) {
	for _, r := range f.records {
		if r.EmployeeID == a.EmployeeID && r.Date.Equal(a.Date) {
			return attendance.Attendance{}, attendance.ErrAttendanceExists
		}
	}
	a.ID = "att-new"
	a.CreatedAt = time.Now()
	f.records = append(f.records, a)
	return a, nil
}

func (f *fakeAttendanceRepo) List(ctx context.Context, filter attendance.AttendanceFilter) ([]attendance.Attendance, int64, error) {
	f.lastFilter = filter
	var out []attendance.Attendance
	for _, r := range f.records {
		if filter.EmployeeID != nil && r.EmployeeID != *filter.EmployeeID {
			continue
		}
		out = append(out, r)
	}
	return out, int64(len(out)), nil
}

type fakeEmployeeRepo struct {
	employee.EmployeeRepository
}

func (fakeEmployeeRepo) GetByID(ctx context.Context, id string) (employee.Employee, error) {
	switch id {
	case empAsha:
		return employee.Employee{ID: empAsha, Code: "EMP001", FirstName: "Asha", LastName: "Rao", IsActive: true}, nil
	case empRavi:
		return employee.Employee{ID: empRavi, Code: "EMP002", FirstName: "Ravi", LastName: "Kumar", IsActive: true}, nil
	}
	return employee.Employee{}, employee.ErrEmployeeNotFound
}

func seededRepo() *fakeAttendanceRepo {
	day := time.Date(2024, time.April, 2, 0, 0, 0, 0, time.UTC)
	return &fakeAttendanceRepo{records: []attendance.Attendance{
		{ID: "a1", EmployeeID: empAsha, Date: day, Status: attendance.StatusAbsent, WorkingHours: attendance.DefaultWorkingHours},
		{ID: "a2", EmployeeID: empRavi, Date: day, Status: attendance.StatusPresent, WorkingHours: attendance.DefaultWorkingHours},
	}}
}

func TestCreateAttendance_DefaultsHours(t *testing.T) {
	repo := seededRepo()
	svc := NewAttendanceService(repo, fakeEmployeeRepo{})

	resp, err := svc.CreateAttendance(context.Background(), attendance.CreateAttendanceRequest{
		EmployeeID: empAsha,
		Date:       "2024-04-03",
		Status:     "l",
	})
	require.NoError(t, err)
	assert.Equal(t, "L", resp.Status)
	assert.Equal(t, "Leave", resp.StatusLabel)
	assert.Equal(t, "8.00", resp.WorkingHours)
	assert.Equal(t, "2024-04-03", resp.Date)
	require.NotNil(t, resp.EmployeeCode)
	assert.Equal(t, "EMP001", *resp.EmployeeCode)
}

func TestCreateAttendance_Errors(t *testing.T) {
	hours := decimal.RequireFromString("25")

	tests := []struct {
		name    string
		req     attendance.CreateAttendanceRequest
		wantErr error
	}{
		{
			name:    "duplicate day",
			req:     attendance.CreateAttendanceRequest{EmployeeID: empAsha, Date: "2024-04-02", Status: "P"},
			wantErr: attendance.ErrAttendanceExists,
		},
		{
			name:    "unknown employee",
			req:     attendance.CreateAttendanceRequest{EmployeeID: "0192f5a0-0000-7000-8000-0000000000aa", Date: "2024-04-02", Status: "P"},
			wantErr: employee.ErrEmployeeNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewAttendanceService(seededRepo(), fakeEmployeeRepo{})
			_, err := svc.CreateAttendance(context.Background(), tt.req)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	t.Run("invalid fields", func(t *testing.T) {
		svc := NewAttendanceService(seededRepo(), fakeEmployeeRepo{})
		_, err := svc.CreateAttendance(context.Background(), attendance.CreateAttendanceRequest{
			EmployeeID:   empAsha,
			Date:         "2024-04-31",
			Status:       "X",
			WorkingHours: &hours,
		})
		var verrs validator.ValidationErrors
		require.ErrorAs(t, err, &verrs)
		fields := verrs.ToMap()
		assert.Contains(t, fields, "date")
		assert.Contains(t, fields, "status")
		assert.Contains(t, fields, "working_hours")
	})
}

func TestListAttendance_EmployeeScopeIsForced(t *testing.T) {
	repo := seededRepo()
	svc := NewAttendanceService(repo, fakeEmployeeRepo{})

	own := empAsha
	other := empRavi
	ctx := jwt.ContextWithActor(context.Background(), user.Actor{UserID: "u1", Role: user.RoleEmployee, EmployeeID: &own})

	resp, err := svc.ListAttendance(ctx, attendance.AttendanceFilter{EmployeeID: &other})
	require.NoError(t, err)
	require.NotNil(t, repo.lastFilter.EmployeeID)
	assert.Equal(t, empAsha, *repo.lastFilter.EmployeeID)
	require.Len(t, resp.Attendances, 1)
	assert.Equal(t, "a1", resp.Attendances[0].ID)
	assert.Equal(t, 20, resp.Limit)
}

func TestListAttendance_StaffSeesAll(t *testing.T) {
	repo := seededRepo()
	svc := NewAttendanceService(repo, fakeEmployeeRepo{})

	ctx := jwt.ContextWithActor(context.Background(), user.Actor{UserID: "s1", Role: user.RoleStaff})
	resp, err := svc.ListAttendance(ctx, attendance.AttendanceFilter{})
	require.NoError(t, err)
	assert.Nil(t, repo.lastFilter.EmployeeID)
	assert.Equal(t, int64(2), resp.TotalCount)
}

func TestListAttendance_UnlinkedEmployee(t *testing.T) {
	svc := NewAttendanceService(seededRepo(), fakeEmployeeRepo{})

	ctx := jwt.ContextWithActor(context.Background(), user.Actor{UserID: "u2", Role: user.RoleEmployee})
	_, err := svc.ListAttendance(ctx, attendance.AttendanceFilter{})
	assert.ErrorIs(t, err, user.ErrNoLinkedEmployee)
}
