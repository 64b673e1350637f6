package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/payroll"
	"github.com/cmlabs-hris/payroll-backend-go/internal/handler/http/response"
)

type PayrollHandler interface {
	// Computation
	PreviewSlip(w http.ResponseWriter, r *http.Request)
	GenerateSlip(w http.ResponseWriter, r *http.Request)
	GenerateMonth(w http.ResponseWriter, r *http.Request)

	// Slips
	GetSlip(w http.ResponseWriter, r *http.Request)
	ListSlips(w http.ResponseWriter, r *http.Request)

	// Exports
	DownloadSlipPDF(w http.ResponseWriter, r *http.Request)
	ExportSlips(w http.ResponseWriter, r *http.Request)
}

type payrollHandlerImpl struct {
	payrollService payroll.PayrollService
}

func NewPayrollHandler(payrollService payroll.PayrollService) PayrollHandler {
	return &payrollHandlerImpl{payrollService: payrollService}
}

func slipFilterFromQuery(w http.ResponseWriter, r *http.Request) (payroll.SalarySlipFilter, bool) {
	filter := payroll.SalarySlipFilter{
		EmployeeID: queryString(r, "employee_id"),
		Month:      queryString(r, "month"),
	}
	page, limit, ok := pagination(w, r)
	if !ok {
		return filter, false
	}
	filter.Page, filter.Limit = page, limit
	return filter, true
}

// ========== COMPUTATION ==========

// GET /payroll/preview?employee_id=&month=
func (h *payrollHandlerImpl) PreviewSlip(w http.ResponseWriter, r *http.Request) {
	req := payroll.GenerateSlipRequest{
		EmployeeID: r.URL.Query().Get("employee_id"),
		Month:      r.URL.Query().Get("month"),
	}

	result, err := h.payrollService.ComputeForMonth(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *payrollHandlerImpl) GenerateSlip(w http.ResponseWriter, r *http.Request) {
	var req payroll.GenerateSlipRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("GenerateSlip decode error", "error", err)
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.payrollService.GenerateSlip(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	if result.Created {
		response.Created(w, "Salary slip generated", result)
		return
	}
	response.SuccessWithMessage(w, "Salary slip regenerated", result)
}

func (h *payrollHandlerImpl) GenerateMonth(w http.ResponseWriter, r *http.Request) {
	var req payroll.GenerateMonthRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("GenerateMonth decode error", "error", err)
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.payrollService.GenerateMonth(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Salary slips generated", result)
}

// ========== SLIPS ==========

func (h *payrollHandlerImpl) GetSlip(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id", "Salary slip")
	if !ok {
		return
	}

	result, err := h.payrollService.GetSlip(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *payrollHandlerImpl) ListSlips(w http.ResponseWriter, r *http.Request) {
	filter, ok := slipFilterFromQuery(w, r)
	if !ok {
		return
	}

	result, err := h.payrollService.ListSlips(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMeta(w, result.Slips, response.PageMeta(result.Page, result.Limit, result.TotalCount, result.TotalPages))
}

// ========== EXPORTS ==========

func (h *payrollHandlerImpl) DownloadSlipPDF(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id", "Salary slip")
	if !ok {
		return
	}

	file, err := h.payrollService.ExportSlipPDF(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.File(w, file.ContentType, file.Filename, file.Content)
}

func (h *payrollHandlerImpl) ExportSlips(w http.ResponseWriter, r *http.Request) {
	filter, ok := slipFilterFromQuery(w, r)
	if !ok {
		return
	}

	file, err := h.payrollService.ExportSlipsExcel(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.File(w, file.ContentType, file.Filename, file.Content)
}
