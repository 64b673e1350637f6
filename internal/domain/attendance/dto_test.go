package attendance

import (
	"testing"
	"time"

	"github.com/cmlabs-hris/payroll-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateAttendanceRequest_Validate_Success(t *testing.T) {
	req := CreateAttendanceRequest{
		EmployeeID: "0190a6b2-7c3d-7e4f-8a1b-2c3d4e5f6a7b",
		Date:       "2024-02-29",
		Status:     "a",
	}
	require.NoError(t, req.Validate())
	assert.Equal(t, "A", req.Status)
	assert.Equal(t, time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC), req.ParsedDate)
}

func TestCreateAttendanceRequest_Validate_Errors(t *testing.T) {
	hours := decimal.NewFromInt(25)
	req := CreateAttendanceRequest{
		EmployeeID:   "x",
		Date:         "2023-02-29",
		Status:       "Z",
		WorkingHours: &hours,
	}
	err := req.Validate()
	require.Error(t, err)

	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	m := verrs.ToMap()
	assert.Contains(t, m, "employee_id")
	assert.Contains(t, m, "date")
	assert.Contains(t, m, "status")
	assert.Contains(t, m, "working_hours")
}

func TestAttendanceFilter_Validate(t *testing.T) {
	status := "l"
	f := AttendanceFilter{Status: &status}
	require.NoError(t, f.Validate())
	assert.Equal(t, "L", *f.Status)
	assert.Equal(t, 1, f.Page)
	assert.Equal(t, 20, f.Limit)

	bad := "2024-13-01"
	f = AttendanceFilter{Date: &bad, Limit: 500}
	assert.Error(t, f.Validate())
}

func TestStatus_Label(t *testing.T) {
	assert.Equal(t, "Present", StatusPresent.Label())
	assert.Equal(t, "Absent", StatusAbsent.Label())
	assert.Equal(t, "Leave", StatusLeave.Label())
	assert.Equal(t, "8.00", DefaultWorkingHours.StringFixed(2))
}
