package attendance

import (
	"context"
	"math"
	"time"

	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/payroll-backend-go/internal/pkg/jwt"
)

type AttendanceServiceImpl struct {
	attendanceRepo attendance.AttendanceRepository
	employeeRepo   employee.EmployeeRepository
}

func NewAttendanceService(attendanceRepo attendance.AttendanceRepository, employeeRepo employee.EmployeeRepository) attendance.AttendanceService {
	return &AttendanceServiceImpl{
		attendanceRepo: attendanceRepo,
		employeeRepo:   employeeRepo,
	}
}

func mapAttendanceToResponse(a attendance.Attendance) attendance.AttendanceResponse {
	return attendance.AttendanceResponse{
		ID:           a.ID,
		EmployeeID:   a.EmployeeID,
		EmployeeCode: a.EmployeeCode,
		EmployeeName: a.EmployeeName,
		Date:         a.Date.Format("2006-01-02"),
		Status:       string(a.Status),
		StatusLabel:  a.Status.Label(),
		WorkingHours: a.WorkingHours.StringFixed(2),
		CreatedAt:    a.CreatedAt.Format(time.RFC3339),
	}
}

// CreateAttendance implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) CreateAttendance(ctx context.Context, req attendance.CreateAttendanceRequest) (attendance.AttendanceResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.AttendanceResponse{}, err
	}

	emp, err := s.employeeRepo.GetByID(ctx, req.EmployeeID)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	hours := attendance.DefaultWorkingHours
	if req.WorkingHours != nil {
		hours = *req.WorkingHours
	}

	created, err := s.attendanceRepo.Create(ctx, attendance.Attendance{
		EmployeeID:   emp.ID,
		Date:         req.ParsedDate,
		Status:       attendance.Status(req.Status),
		WorkingHours: hours,
	})
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	code, name := emp.Code, emp.FullName()
	created.EmployeeCode = &code
	created.EmployeeName = &name

	return mapAttendanceToResponse(created), nil
}

// ListAttendance implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) ListAttendance(ctx context.Context, filter attendance.AttendanceFilter) (attendance.ListAttendanceResponse, error) {
	actor, err := jwt.ActorFromContext(ctx)
	if err != nil {
		return attendance.ListAttendanceResponse{}, err
	}

	if err := filter.Validate(); err != nil {
		return attendance.ListAttendanceResponse{}, err
	}

	if !actor.IsStaff() {
		if actor.EmployeeID == nil {
			return attendance.ListAttendanceResponse{}, user.ErrNoLinkedEmployee
		}
		own := *actor.EmployeeID
		filter.EmployeeID = &own
	}

	records, total, err := s.attendanceRepo.List(ctx, filter)
	if err != nil {
		return attendance.ListAttendanceResponse{}, err
	}

	responses := make([]attendance.AttendanceResponse, 0, len(records))
	for _, a := range records {
		responses = append(responses, mapAttendanceToResponse(a))
	}

	return attendance.ListAttendanceResponse{
		TotalCount:  total,
		Page:        filter.Page,
		Limit:       filter.Limit,
		TotalPages:  int(math.Ceil(float64(total) / float64(filter.Limit))),
		Attendances: responses,
	}, nil
}
