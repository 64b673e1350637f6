package payroll

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"sort"
	"sync"
	"time"

	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/payroll"
	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/payroll-backend-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/payroll-backend-go/internal/pkg/validator"
	"golang.org/x/sync/errgroup"
)

const (
	defaultListLimit = 10
	xlsxContentType  = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

type PayrollServiceImpl struct {
	slipRepo  payroll.SalarySlipRepository
	ledger    payroll.AttendanceLedger
	employees payroll.EmployeeDirectory
	renderer  payroll.SlipRenderer
	workers   int
}

func NewPayrollService(
	slipRepo payroll.SalarySlipRepository,
	ledger payroll.AttendanceLedger,
	employees payroll.EmployeeDirectory,
	renderer payroll.SlipRenderer,
	workers int,
) payroll.PayrollService {
	if workers <= 0 {
		workers = 1
	}
	return &PayrollServiceImpl{
		slipRepo:  slipRepo,
		ledger:    ledger,
		employees: employees,
		renderer:  renderer,
		workers:   workers,
	}
}

func mapAmountsToResponse(employeeID string, a payroll.SlipAmounts) payroll.SlipAmountsResponse {
	return payroll.SlipAmountsResponse{
		EmployeeID:  employeeID,
		Month:       a.Month.Format("2006-01"),
		FirstDay:    a.Month.Format("2006-01-02"),
		DaysInMonth: a.DaysInMonth,
		AbsentDays:  a.AbsentDays,
		PerDayRate:  a.PerDayRate.StringFixed(2),
		Basic:       a.Basic.StringFixed(2),
		HRA:         a.HRA.StringFixed(2),
		Allowances:  a.Allowances.StringFixed(2),
		Gross:       a.Gross.StringFixed(2),
		Deductions:  a.Deductions.StringFixed(2),
		NetPay:      a.NetPay.StringFixed(2),
	}
}

func mapSlipToResponse(s payroll.SalarySlip) payroll.SalarySlipResponse {
	return payroll.SalarySlipResponse{
		ID:           s.ID,
		EmployeeID:   s.EmployeeID,
		EmployeeCode: s.Employee.Code,
		EmployeeName: s.Employee.FullName(),
		Department:   s.Employee.Department,
		Designation:  s.Employee.Designation,
		Month:        s.Month.Format("2006-01"),
		MonthLabel:   s.Month.Format("January 2006"),
		Basic:        s.Basic.StringFixed(2),
		HRA:          s.HRA.StringFixed(2),
		Allowances:   s.Allowances.StringFixed(2),
		Gross:        s.Gross().StringFixed(2),
		Deductions:   s.Deductions.StringFixed(2),
		NetPay:       s.NetPay.StringFixed(2),
		GeneratedAt:  s.GeneratedAt.Format(time.RFC3339),
		UpdatedAt:    s.UpdatedAt.Format(time.RFC3339),
	}
}

// resolveTarget picks the employee a request is about and applies the access
// rule. Self-service callers may omit the id.
func resolveTarget(actor user.Actor, requested string) (string, error) {
	if requested == "" {
		if actor.IsStaff() {
			return "", errors.Join(payroll.ErrEmployeeRequired, validator.ValidationErrors{{
				Field:   "employee_id",
				Message: "employee_id is required",
			}})
		}
		if actor.EmployeeID == nil {
			return "", user.ErrNoLinkedEmployee
		}
		return *actor.EmployeeID, nil
	}
	if !actor.CanActOn(requested) {
		return "", user.ErrInsufficientPermissions
	}
	return requested, nil
}

// eligibleEmployee loads an employee that may be paid. Missing and inactive
// employees are reported the same way.
func (s *PayrollServiceImpl) eligibleEmployee(ctx context.Context, employeeID string) (employee.Employee, error) {
	emp, err := s.employees.GetByID(ctx, employeeID)
	if err != nil {
		if errors.Is(err, employee.ErrEmployeeNotFound) {
			return employee.Employee{}, notEligible()
		}
		return employee.Employee{}, fmt.Errorf("failed to load employee: %w", err)
	}
	if !emp.IsActive {
		return employee.Employee{}, notEligible()
	}
	return emp, nil
}

func notEligible() error {
	return errors.Join(payroll.ErrEmployeeNotEligible, validator.ValidationErrors{{
		Field:   "employee_id",
		Message: payroll.ErrEmployeeNotEligible.Error(),
	}})
}

func (s *PayrollServiceImpl) computeAmounts(ctx context.Context, emp employee.Employee, month time.Time) (payroll.SlipAmounts, error) {
	absent, err := s.ledger.CountByStatus(ctx, emp.ID, attendance.StatusAbsent, payroll.MonthStart(month), payroll.MonthEnd(month))
	if err != nil {
		return payroll.SlipAmounts{}, fmt.Errorf("%w: %w", payroll.ErrAttendanceUnavailable, err)
	}
	return payroll.ComputeAmounts(emp.Salary(), month, absent), nil
}

// generate computes and upserts one slip. A conflicting concurrent write is
// retried once; the second attempt lands on the update path.
func (s *PayrollServiceImpl) generate(ctx context.Context, emp employee.Employee, month time.Time) (payroll.SalarySlip, bool, payroll.SlipAmounts, error) {
	amounts, err := s.computeAmounts(ctx, emp, month)
	if err != nil {
		return payroll.SalarySlip{}, false, payroll.SlipAmounts{}, err
	}

	slip := payroll.NewSalarySlip(emp.ID, amounts)
	saved, created, err := s.slipRepo.Upsert(ctx, slip)
	if errors.Is(err, payroll.ErrSalarySlipConflict) {
		slog.Warn("salary slip upsert conflicted, retrying", "employee_id", emp.ID, "month", amounts.Month.Format("2006-01"))
		saved, created, err = s.slipRepo.Upsert(ctx, slip)
	}
	if err != nil {
		return payroll.SalarySlip{}, false, payroll.SlipAmounts{}, err
	}

	return saved, created, amounts, nil
}

// ComputeForMonth implements payroll.PayrollService.
func (s *PayrollServiceImpl) ComputeForMonth(ctx context.Context, req payroll.GenerateSlipRequest) (payroll.SlipAmountsResponse, error) {
	actor, err := jwt.ActorFromContext(ctx)
	if err != nil {
		return payroll.SlipAmountsResponse{}, err
	}
	if err := req.Validate(); err != nil {
		return payroll.SlipAmountsResponse{}, err
	}

	employeeID, err := resolveTarget(actor, req.EmployeeID)
	if err != nil {
		return payroll.SlipAmountsResponse{}, err
	}

	emp, err := s.eligibleEmployee(ctx, employeeID)
	if err != nil {
		return payroll.SlipAmountsResponse{}, err
	}

	amounts, err := s.computeAmounts(ctx, emp, req.ParsedMonth)
	if err != nil {
		return payroll.SlipAmountsResponse{}, err
	}

	return mapAmountsToResponse(emp.ID, amounts), nil
}

// GenerateSlip implements payroll.PayrollService.
func (s *PayrollServiceImpl) GenerateSlip(ctx context.Context, req payroll.GenerateSlipRequest) (payroll.GenerateSlipResponse, error) {
	actor, err := jwt.ActorFromContext(ctx)
	if err != nil {
		return payroll.GenerateSlipResponse{}, err
	}
	if err := req.Validate(); err != nil {
		return payroll.GenerateSlipResponse{}, err
	}

	employeeID, err := resolveTarget(actor, req.EmployeeID)
	if err != nil {
		return payroll.GenerateSlipResponse{}, err
	}

	emp, err := s.eligibleEmployee(ctx, employeeID)
	if err != nil {
		return payroll.GenerateSlipResponse{}, err
	}

	saved, created, amounts, err := s.generate(ctx, emp, req.ParsedMonth)
	if err != nil {
		return payroll.GenerateSlipResponse{}, err
	}

	slog.Info("salary slip generated",
		"slip_id", saved.ID,
		"employee_id", emp.ID,
		"month", amounts.Month.Format("2006-01"),
		"created", created,
		"requested_by", actor.UserID,
	)

	return payroll.GenerateSlipResponse{
		Created: created,
		Amounts: mapAmountsToResponse(emp.ID, amounts),
		Slip:    mapSlipToResponse(saved),
	}, nil
}

// GenerateMonth implements payroll.PayrollService.
func (s *PayrollServiceImpl) GenerateMonth(ctx context.Context, req payroll.GenerateMonthRequest) (payroll.GenerateMonthResponse, error) {
	actor, err := jwt.ActorFromContext(ctx)
	if err != nil {
		return payroll.GenerateMonthResponse{}, err
	}
	if !actor.IsStaff() {
		return payroll.GenerateMonthResponse{}, user.ErrStaffAccessRequired
	}
	if err := req.Validate(); err != nil {
		return payroll.GenerateMonthResponse{}, err
	}

	return s.generateMonth(ctx, req.ParsedMonth)
}

// GenerateMonthAsSystem implements payroll.PayrollService.
func (s *PayrollServiceImpl) GenerateMonthAsSystem(ctx context.Context, month time.Time) (payroll.GenerateMonthResponse, error) {
	return s.generateMonth(ctx, payroll.MonthStart(month))
}

func (s *PayrollServiceImpl) generateMonth(ctx context.Context, month time.Time) (payroll.GenerateMonthResponse, error) {
	employees, err := s.employees.ListActive(ctx)
	if err != nil {
		return payroll.GenerateMonthResponse{}, fmt.Errorf("failed to list active employees: %w", err)
	}

	result := payroll.GenerateMonthResponse{
		Month: month.Format("2006-01"),
		Total: len(employees),
	}

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)

	for _, emp := range employees {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			_, created, _, err := s.generate(gctx, emp, month)
			if err != nil {
				if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
					return err
				}
				slog.Warn("salary slip generation failed", "employee_id", emp.ID, "code", emp.Code, "month", result.Month, "error", err)

				mu.Lock()
				result.Failed++
				result.Failures = append(result.Failures, payroll.GenerateFailure{
					EmployeeID:   emp.ID,
					EmployeeCode: emp.Code,
					Error:        err.Error(),
				})
				mu.Unlock()
				return nil
			}

			mu.Lock()
			if created {
				result.Created++
			} else {
				result.Updated++
			}
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return payroll.GenerateMonthResponse{}, err
	}

	sort.Slice(result.Failures, func(i, j int) bool {
		return result.Failures[i].EmployeeCode < result.Failures[j].EmployeeCode
	})

	slog.Info("monthly payroll generated",
		"month", result.Month,
		"total", result.Total,
		"created", result.Created,
		"updated", result.Updated,
		"failed", result.Failed,
	)

	return result, nil
}

// visibleSlip loads a slip the actor may see. Slips of other employees are
// reported as missing.
func (s *PayrollServiceImpl) visibleSlip(ctx context.Context, id string) (payroll.SalarySlip, error) {
	actor, err := jwt.ActorFromContext(ctx)
	if err != nil {
		return payroll.SalarySlip{}, err
	}

	if !validator.IsValidUUID(id) {
		return payroll.SalarySlip{}, validator.ValidationErrors{{Field: "id", Message: "id must be a valid UUID"}}
	}

	slip, err := s.slipRepo.GetByID(ctx, id)
	if err != nil {
		return payroll.SalarySlip{}, err
	}

	if !actor.CanActOn(slip.EmployeeID) {
		return payroll.SalarySlip{}, payroll.ErrSalarySlipNotFound
	}
	return slip, nil
}

// GetSlip implements payroll.PayrollService.
func (s *PayrollServiceImpl) GetSlip(ctx context.Context, id string) (payroll.SalarySlipResponse, error) {
	slip, err := s.visibleSlip(ctx, id)
	if err != nil {
		return payroll.SalarySlipResponse{}, err
	}
	return mapSlipToResponse(slip), nil
}

// scopeFilter restricts non-staff callers to their own slips.
func scopeFilter(actor user.Actor, filter *payroll.SalarySlipFilter) error {
	if actor.IsStaff() {
		return nil
	}
	if actor.EmployeeID == nil {
		return user.ErrNoLinkedEmployee
	}
	own := *actor.EmployeeID
	filter.EmployeeID = &own
	return nil
}

// ListSlips implements payroll.PayrollService.
func (s *PayrollServiceImpl) ListSlips(ctx context.Context, filter payroll.SalarySlipFilter) (payroll.ListSalarySlipResponse, error) {
	actor, err := jwt.ActorFromContext(ctx)
	if err != nil {
		return payroll.ListSalarySlipResponse{}, err
	}
	if err := filter.Validate(); err != nil {
		return payroll.ListSalarySlipResponse{}, err
	}
	if filter.Limit == 0 {
		filter.Limit = defaultListLimit
	}
	if err := scopeFilter(actor, &filter); err != nil {
		return payroll.ListSalarySlipResponse{}, err
	}

	slips, total, err := s.slipRepo.List(ctx, filter)
	if err != nil {
		return payroll.ListSalarySlipResponse{}, err
	}

	responses := make([]payroll.SalarySlipResponse, 0, len(slips))
	for _, slip := range slips {
		responses = append(responses, mapSlipToResponse(slip))
	}

	return payroll.ListSalarySlipResponse{
		TotalCount: total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: int(math.Ceil(float64(total) / float64(filter.Limit))),
		Slips:      responses,
	}, nil
}

// ExportSlipPDF implements payroll.PayrollService.
func (s *PayrollServiceImpl) ExportSlipPDF(ctx context.Context, id string) (payroll.FileResponse, error) {
	slip, err := s.visibleSlip(ctx, id)
	if err != nil {
		return payroll.FileResponse{}, err
	}

	content, err := s.renderer.SlipPDF(slip)
	if err != nil {
		return payroll.FileResponse{}, fmt.Errorf("failed to render salary slip: %w", err)
	}

	return payroll.FileResponse{
		Filename:    fmt.Sprintf("salary_slip_%s_%s.pdf", slip.Employee.Code, slip.Month.Format("2006_01")),
		ContentType: "application/pdf",
		Content:     content,
	}, nil
}

// ExportSlipsExcel implements payroll.PayrollService.
func (s *PayrollServiceImpl) ExportSlipsExcel(ctx context.Context, filter payroll.SalarySlipFilter) (payroll.FileResponse, error) {
	actor, err := jwt.ActorFromContext(ctx)
	if err != nil {
		return payroll.FileResponse{}, err
	}
	if err := filter.Validate(); err != nil {
		return payroll.FileResponse{}, err
	}
	if err := scopeFilter(actor, &filter); err != nil {
		return payroll.FileResponse{}, err
	}

	// Exports are never paginated.
	filter.Page, filter.Limit = 1, 0

	slips, _, err := s.slipRepo.List(ctx, filter)
	if err != nil {
		return payroll.FileResponse{}, err
	}

	content, err := s.renderer.PayrollWorkbook(slips)
	if err != nil {
		return payroll.FileResponse{}, fmt.Errorf("failed to render payroll workbook: %w", err)
	}

	return payroll.FileResponse{
		Filename:    "payroll.xlsx",
		ContentType: xlsxContentType,
		Content:     content,
	}, nil
}
