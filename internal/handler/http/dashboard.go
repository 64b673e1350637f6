package http

import (
	"net/http"

	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/dashboard"
	"github.com/cmlabs-hris/payroll-backend-go/internal/handler/http/response"
)

// DashboardHandler defines the interface for dashboard HTTP handlers
type DashboardHandler interface {
	GetDashboard(w http.ResponseWriter, r *http.Request)
	GetMonthlyAttendance(w http.ResponseWriter, r *http.Request)
}

type dashboardHandlerImpl struct {
	dashboardService dashboard.DashboardService
}

func NewDashboardHandler(dashboardService dashboard.DashboardService) DashboardHandler {
	return &dashboardHandlerImpl{
		dashboardService: dashboardService,
	}
}

// GetDashboard returns the combined summary
// GET /dashboard
func (h *dashboardHandlerImpl) GetDashboard(w http.ResponseWriter, r *http.Request) {
	result, err := h.dashboardService.GetDashboard(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, result)
}

// GetMonthlyAttendance returns one month's attendance breakdown
// GET /dashboard/attendance?month=YYYY-MM
func (h *dashboardHandlerImpl) GetMonthlyAttendance(w http.ResponseWriter, r *http.Request) {
	result, err := h.dashboardService.GetMonthlyAttendance(r.Context(), r.URL.Query().Get("month"))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, result)
}
