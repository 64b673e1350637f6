package dashboard

import (
	"context"
	"time"

	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/dashboard"
	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/payroll"
	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/payroll-backend-go/internal/pkg/jwt"
	"golang.org/x/sync/errgroup"
)

const (
	scopeAll = "all"
	scopeOwn = "own"
)

type DashboardServiceImpl struct {
	dashboardRepo  dashboard.DashboardRepository
	employeeRepo   dashboard.EmployeeCounter
	attendanceRepo dashboard.RecordCounter
	slipRepo       dashboard.RecordCounter
	now            func() time.Time
}

func NewDashboardService(dashboardRepo dashboard.DashboardRepository, employeeRepo dashboard.EmployeeCounter, attendanceRepo dashboard.RecordCounter, slipRepo dashboard.RecordCounter) dashboard.DashboardService {
	return &DashboardServiceImpl{
		dashboardRepo:  dashboardRepo,
		employeeRepo:   employeeRepo,
		attendanceRepo: attendanceRepo,
		slipRepo:       slipRepo,
		now:            time.Now,
	}
}

// scope returns nil for staff and the linked employee id for everyone else.
func scope(actor user.Actor) (*string, error) {
	if actor.IsStaff() {
		return nil, nil
	}
	if actor.OwnEmployeeID() == "" {
		return nil, user.ErrNoLinkedEmployee
	}
	return actor.EmployeeID, nil
}

// parseMonth parses YYYY-MM format, defaults to current month
func (s *DashboardServiceImpl) parseMonth(month string) (time.Time, error) {
	if month == "" {
		return payroll.MonthStart(s.now().UTC()), nil
	}
	return payroll.ParseMonth(month)
}

func (s *DashboardServiceImpl) monthlyAttendance(ctx context.Context, employeeID *string, month time.Time) (dashboard.MonthlyAttendanceResponse, error) {
	stats, err := s.dashboardRepo.GetAttendanceStats(ctx, employeeID, payroll.MonthStart(month), payroll.MonthEnd(month))
	if err != nil {
		return dashboard.MonthlyAttendanceResponse{}, err
	}
	return dashboard.MonthlyAttendanceResponse{
		Month:   month.Format("2006-01"),
		Present: stats.Present,
		Absent:  stats.Absent,
		Leave:   stats.Leave,
		Total:   stats.Present + stats.Absent + stats.Leave,
	}, nil
}

// GetDashboard returns combined dashboard data using parallel goroutines
func (s *DashboardServiceImpl) GetDashboard(ctx context.Context) (*dashboard.DashboardResponse, error) {
	actor, err := jwt.ActorFromContext(ctx)
	if err != nil {
		return nil, err
	}
	employeeID, err := scope(actor)
	if err != nil {
		return nil, err
	}

	resp := dashboard.DashboardResponse{Scope: scopeOwn}
	month := payroll.MonthStart(s.now().UTC())

	g, gCtx := errgroup.WithContext(ctx)

	if actor.IsStaff() {
		resp.Scope = scopeAll
		g.Go(func() error {
			total, active, err := s.employeeRepo.Count(gCtx)
			if err != nil {
				return err
			}
			resp.Employees = &dashboard.EmployeeSummaryResponse{Total: total, Active: active}
			return nil
		})
	}

	g.Go(func() error {
		count, err := s.attendanceRepo.Count(gCtx, employeeID)
		if err != nil {
			return err
		}
		resp.AttendanceRecords = count
		return nil
	})

	g.Go(func() error {
		count, err := s.slipRepo.Count(gCtx, employeeID)
		if err != nil {
			return err
		}
		resp.SalarySlips = count
		return nil
	})

	g.Go(func() error {
		monthly, err := s.monthlyAttendance(gCtx, employeeID, month)
		if err != nil {
			return err
		}
		resp.MonthlyAttendance = monthly
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &resp, nil
}

// GetMonthlyAttendance returns the status breakdown for one month (1 query)
func (s *DashboardServiceImpl) GetMonthlyAttendance(ctx context.Context, month string) (*dashboard.MonthlyAttendanceResponse, error) {
	actor, err := jwt.ActorFromContext(ctx)
	if err != nil {
		return nil, err
	}
	employeeID, err := scope(actor)
	if err != nil {
		return nil, err
	}

	start, err := s.parseMonth(month)
	if err != nil {
		return nil, err
	}

	monthly, err := s.monthlyAttendance(ctx, employeeID, start)
	if err != nil {
		return nil, err
	}
	return &monthly, nil
}
