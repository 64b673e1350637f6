package payroll

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/payroll"
	"github.com/cmlabs-hris/payroll-backend-go/internal/pkg/cron"
	"github.com/cmlabs-hris/payroll-backend-go/internal/pkg/lock"
)

const autoGenerateJobName = "payroll_auto_generate"

// AutoGenerateJob regenerates the current month's slips for every active
// employee on a schedule.
type AutoGenerateJob struct {
	payrollSvc payroll.PayrollService
	locker     lock.Locker
	lockTTL    time.Duration
	now        func() time.Time
}

func NewAutoGenerateJob(payrollSvc payroll.PayrollService, locker lock.Locker, lockTTL time.Duration) *AutoGenerateJob {
	return &AutoGenerateJob{
		payrollSvc: payrollSvc,
		locker:     locker,
		lockTTL:    lockTTL,
		now:        time.Now,
	}
}

func (j *AutoGenerateJob) RegisterJobs(scheduler *cron.Scheduler, interval time.Duration) {
	scheduler.AddJob(autoGenerateJobName, interval, j.lockTTL, j.Run)
}

// LockKey is the lock guarding one month's run.
func LockKey(month time.Time) string {
	return fmt.Sprintf("payroll:auto-generate:%s", month.Format("2006-01"))
}

func (j *AutoGenerateJob) Run(ctx context.Context) error {
	month := payroll.MonthStart(j.now().UTC())
	key := LockKey(month)

	release, err := j.locker.Acquire(ctx, key, j.lockTTL)
	if err != nil {
		if errors.Is(err, lock.ErrNotObtained) {
			slog.Info("Cron: payroll auto-generate skipped, another instance holds the lock", "lock", key)
			return nil
		}
		return err
	}
	defer func() {
		if err := release(context.WithoutCancel(ctx)); err != nil {
			slog.Warn("Cron: failed to release payroll lock", "lock", key, "error", err)
		}
	}()

	slog.Info("Cron: starting payroll auto-generate", "month", month.Format("2006-01"))

	result, err := j.payrollSvc.GenerateMonthAsSystem(ctx, month)
	if err != nil {
		return fmt.Errorf("payroll auto-generate for %s: %w", month.Format("2006-01"), err)
	}

	for _, failure := range result.Failures {
		slog.Warn("Cron: salary slip not generated", "employee_code", failure.EmployeeCode, "error", failure.Error)
	}
	slog.Info("Cron: payroll auto-generate finished",
		"month", result.Month,
		"created", result.Created,
		"updated", result.Updated,
		"failed", result.Failed,
	)
	return nil
}
