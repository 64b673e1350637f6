package payroll

import (
	"context"
	"time"
)

type PayrollService interface {
	// ComputeForMonth previews a slip without writing it.
	ComputeForMonth(ctx context.Context, req GenerateSlipRequest) (SlipAmountsResponse, error)

	// GenerateSlip creates or regenerates the slip for one employee and month.
	GenerateSlip(ctx context.Context, req GenerateSlipRequest) (GenerateSlipResponse, error)

	// GenerateMonth regenerates every active employee's slip for a month (staff only).
	GenerateMonth(ctx context.Context, req GenerateMonthRequest) (GenerateMonthResponse, error)

	// GenerateMonthAsSystem is GenerateMonth for scheduled jobs, which carry no requester.
	GenerateMonthAsSystem(ctx context.Context, month time.Time) (GenerateMonthResponse, error)

	GetSlip(ctx context.Context, id string) (SalarySlipResponse, error)
	ListSlips(ctx context.Context, filter SalarySlipFilter) (ListSalarySlipResponse, error)
	ExportSlipPDF(ctx context.Context, id string) (FileResponse, error)
	ExportSlipsExcel(ctx context.Context, filter SalarySlipFilter) (FileResponse, error)
}
