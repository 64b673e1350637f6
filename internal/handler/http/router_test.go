package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/dashboard"
	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/payroll"
	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/payroll-backend-go/internal/handler/http/response"
	"github.com/cmlabs-hris/payroll-backend-go/internal/pkg/jwt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	handlerTestSecret = "test-secret-key-for-jwt"
	slipID            = "0190a1b2-0000-7000-8000-0000000000aa"
	ownEmployeeID     = "0190a1b2-0000-7000-8000-000000000001"
)

type fakeAuthService struct {
	auth.AuthService
	jwtService  jwt.Service
	lastRefresh string
}

func (f *fakeAuthService) Login(ctx context.Context, req auth.LoginRequest, sessionReq auth.SessionTrackingRequest) (auth.TokenResponse, error) {
	if req.Password != "password123" {
		return auth.TokenResponse{}, auth.ErrInvalidCredentials
	}
	access, accessExp, _ := f.jwtService.GenerateAccessToken("user-1", req.Email, nil, user.RoleStaff)
	refresh, refreshExp, _ := f.jwtService.GenerateRefreshToken("user-1")
	return auth.TokenResponse{AccessToken: access, AccessTokenExpiresIn: accessExp, RefreshToken: refresh, RefreshTokenExpiresIn: refreshExp}, nil
}

func (f *fakeAuthService) RefreshToken(ctx context.Context, req auth.RefreshTokenRequest) (auth.AccessTokenResponse, error) {
	f.lastRefresh = req.RefreshToken
	if req.RefreshToken == "" {
		return auth.AccessTokenResponse{}, auth.ErrInvalidToken
	}
	return auth.AccessTokenResponse{AccessToken: "new-access"}, nil
}

func (f *fakeAuthService) Logout(ctx context.Context, req auth.RefreshTokenRequest) error {
	f.lastRefresh = req.RefreshToken
	return nil
}

func (f *fakeAuthService) Me(ctx context.Context) (user.UserResponse, error) {
	actor, err := jwt.ActorFromContext(ctx)
	if err != nil {
		return user.UserResponse{}, err
	}
	return user.UserResponse{ID: actor.UserID, Role: string(actor.Role), EmployeeID: actor.EmployeeID}, nil
}

type fakeEmployeeService struct {
	employee.EmployeeService
	created int
}

func (f *fakeEmployeeService) CreateEmployee(ctx context.Context, req employee.CreateEmployeeRequest) (employee.EmployeeResponse, error) {
	f.created++
	return employee.EmployeeResponse{Code: req.Code}, nil
}

func (f *fakeEmployeeService) GetEmployee(ctx context.Context, id string) (employee.EmployeeResponse, error) {
	return employee.EmployeeResponse{ID: id}, nil
}

type fakePayrollService struct {
	payroll.PayrollService
	exists     bool
	lastFilter payroll.SalarySlipFilter
	computeErr error
}

func (f *fakePayrollService) ComputeForMonth(ctx context.Context, req payroll.GenerateSlipRequest) (payroll.SlipAmountsResponse, error) {
	if f.computeErr != nil {
		return payroll.SlipAmountsResponse{}, f.computeErr
	}
	return payroll.SlipAmountsResponse{Month: req.Month, NetPay: "37064.52"}, nil
}

func (f *fakePayrollService) GenerateSlip(ctx context.Context, req payroll.GenerateSlipRequest) (payroll.GenerateSlipResponse, error) {
	created := !f.exists
	f.exists = true
	return payroll.GenerateSlipResponse{Created: created}, nil
}

func (f *fakePayrollService) GenerateMonth(ctx context.Context, req payroll.GenerateMonthRequest) (payroll.GenerateMonthResponse, error) {
	return payroll.GenerateMonthResponse{Month: req.Month}, nil
}

func (f *fakePayrollService) ListSlips(ctx context.Context, filter payroll.SalarySlipFilter) (payroll.ListSalarySlipResponse, error) {
	f.lastFilter = filter
	return payroll.ListSalarySlipResponse{
		TotalCount: 7,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: 2,
		Slips:      []payroll.SalarySlipResponse{{ID: slipID}},
	}, nil
}

func (f *fakePayrollService) GetSlip(ctx context.Context, id string) (payroll.SalarySlipResponse, error) {
	if id != slipID {
		return payroll.SalarySlipResponse{}, payroll.ErrSalarySlipNotFound
	}
	return payroll.SalarySlipResponse{ID: id}, nil
}

func (f *fakePayrollService) ExportSlipPDF(ctx context.Context, id string) (payroll.FileResponse, error) {
	return payroll.FileResponse{Filename: "salary_slip_EMP001_2025_01.pdf", ContentType: "application/pdf", Content: []byte("%PDF-1.3")}, nil
}

type fakeAttendanceService struct{ attendance.AttendanceService }

type fakeDashboardService struct{ dashboard.DashboardService }

type routerFixture struct {
	handler  http.Handler
	jwt      jwt.Service
	auth     *fakeAuthService
	employee *fakeEmployeeService
	payroll  *fakePayrollService
}

func newRouterFixture() *routerFixture {
	jwtService := jwt.NewJWTService(handlerTestSecret, "1h", "24h")
	authSvc := &fakeAuthService{jwtService: jwtService}
	employeeSvc := &fakeEmployeeService{}
	payrollSvc := &fakePayrollService{}

	router := NewRouter(RouterConfig{AppName: "payroll-test", Env: "test", LogLevel: slog.LevelError}, jwtService, Handlers{
		Auth:       NewAuthHandler(jwtService, authSvc),
		User:       NewUserHandler(authSvc),
		Employee:   NewEmployeeHandler(employeeSvc),
		Attendance: NewAttendanceHandler(&fakeAttendanceService{}),
		Payroll:    NewPayrollHandler(payrollSvc),
		Dashboard:  NewDashboardHandler(&fakeDashboardService{}),
	})

	return &routerFixture{handler: router, jwt: jwtService, auth: authSvc, employee: employeeSvc, payroll: payrollSvc}
}

func (f *routerFixture) token(t *testing.T, role user.Role) string {
	t.Helper()
	var employeeID *string
	if role == user.RoleEmployee {
		id := ownEmployeeID
		employeeID = &id
	}
	token, _, err := f.jwt.GenerateAccessToken("user-1", "someone@example.com", employeeID, role)
	require.NoError(t, err)
	return token
}

func (f *routerFixture) do(method, path, token string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) response.Response {
	t.Helper()
	var body response.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestLogin_SetsRefreshCookie(t *testing.T) {
	f := newRouterFixture()

	rec := f.do(http.MethodPost, "/api/v1/auth/login", "", map[string]string{"email": "staff@example.com", "password": "password123"})
	require.Equal(t, http.StatusCreated, rec.Code)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "refresh_token", cookies[0].Name)
	assert.True(t, cookies[0].HttpOnly)
	assert.NotEmpty(t, cookies[0].Value)

	rec = f.do(http.MethodPost, "/api/v1/auth/login", "", map[string]string{"email": "staff@example.com", "password": "nope"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestLogin_MalformedBody(t *testing.T) {
	f := newRouterFixture()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", strings.NewReader("{"))
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "BAD_REQUEST", decode(t, rec).Error.Code)
}

func TestRefreshToken_CookieOrBody(t *testing.T) {
	f := newRouterFixture()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/refresh", nil)
	req.AddCookie(&http.Cookie{Name: "refresh_token", Value: "from-cookie"})
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "from-cookie", f.auth.lastRefresh)

	rec = f.do(http.MethodPost, "/api/v1/auth/refresh", "", map[string]string{"refresh_token": "from-body"})
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "from-body", f.auth.lastRefresh)
}

func TestLogout_ClearsCookie(t *testing.T) {
	f := newRouterFixture()

	rec := f.do(http.MethodPost, "/api/v1/auth/logout", "", map[string]string{"refresh_token": "abc"})
	require.Equal(t, http.StatusOK, rec.Code)
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Empty(t, cookies[0].Value)
	assert.Equal(t, -1, cookies[0].MaxAge)
}

func TestProtectedRoutes_RequireToken(t *testing.T) {
	f := newRouterFixture()

	rec := f.do(http.MethodGet, "/api/v1/auth/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = f.do(http.MethodGet, "/api/v1/auth/me", f.token(t, user.RoleEmployee), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	data := decode(t, rec).Data.(map[string]interface{})
	assert.Equal(t, ownEmployeeID, data["employee_id"])
}

func TestEmployeeRoutes_Permissions(t *testing.T) {
	f := newRouterFixture()
	body := map[string]string{"code": "EMP010"}

	rec := f.do(http.MethodPost, "/api/v1/employees", f.token(t, user.RoleEmployee), body)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Zero(t, f.employee.created)

	rec = f.do(http.MethodPost, "/api/v1/employees", f.token(t, user.RoleStaff), body)
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, 1, f.employee.created)
}

func TestPathIDs_AreValidated(t *testing.T) {
	f := newRouterFixture()
	token := f.token(t, user.RoleStaff)

	tests := []struct {
		path string
		want int
	}{
		{"/api/v1/employees/not-a-uuid", http.StatusBadRequest},
		{"/api/v1/employees/" + ownEmployeeID, http.StatusOK},
		{"/api/v1/payroll/slips/123", http.StatusBadRequest},
		{"/api/v1/payroll/slips/" + slipID, http.StatusOK},
		{"/api/v1/payroll/slips/0190a1b2-0000-7000-8000-0000000000bb", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			rec := f.do(http.MethodGet, tt.path, token, nil)
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestGenerateSlip_CreatedThenRegenerated(t *testing.T) {
	f := newRouterFixture()
	token := f.token(t, user.RoleEmployee)
	body := map[string]string{"month": "2025-01"}

	rec := f.do(http.MethodPost, "/api/v1/payroll/slips", token, body)
	assert.Equal(t, http.StatusCreated, rec.Code)

	rec = f.do(http.MethodPost, "/api/v1/payroll/slips", token, body)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Salary slip regenerated", decode(t, rec).Message)
}

func TestGenerateMonth_StaffOnly(t *testing.T) {
	f := newRouterFixture()
	body := map[string]string{"month": "2025-01"}

	rec := f.do(http.MethodPost, "/api/v1/payroll/slips/bulk", f.token(t, user.RoleEmployee), body)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = f.do(http.MethodPost, "/api/v1/payroll/slips/bulk", f.token(t, user.RoleStaff), body)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestPreview_LedgerUnavailable(t *testing.T) {
	f := newRouterFixture()
	token := f.token(t, user.RoleStaff)

	rec := f.do(http.MethodGet, "/api/v1/payroll/preview?employee_id="+ownEmployeeID+"&month=2025-01", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	f.payroll.computeErr = errors.Join(payroll.ErrAttendanceUnavailable, errors.New("connection refused"))
	rec = f.do(http.MethodGet, "/api/v1/payroll/preview?employee_id="+ownEmployeeID+"&month=2025-01", token, nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestListSlips_Pagination(t *testing.T) {
	f := newRouterFixture()
	token := f.token(t, user.RoleStaff)

	rec := f.do(http.MethodGet, "/api/v1/payroll/slips?page=2&limit=5&month=2025-01", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 2, f.payroll.lastFilter.Page)
	assert.Equal(t, 5, f.payroll.lastFilter.Limit)
	require.NotNil(t, f.payroll.lastFilter.Month)
	assert.Equal(t, "2025-01", *f.payroll.lastFilter.Month)

	body := decode(t, rec)
	require.NotNil(t, body.Meta)
	assert.Equal(t, response.Meta{Page: 2, Limit: 5, TotalItems: 7, TotalPages: 2}, *body.Meta)
	slips := body.Data.([]interface{})
	require.Len(t, slips, 1)
	assert.Equal(t, slipID, slips[0].(map[string]interface{})["id"])

	rec = f.do(http.MethodGet, "/api/v1/payroll/slips?page=two", token, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDownloadSlipPDF(t *testing.T) {
	f := newRouterFixture()

	rec := f.do(http.MethodGet, "/api/v1/payroll/slips/"+slipID+"/pdf", f.token(t, user.RoleEmployee), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "salary_slip_EMP001_2025_01.pdf")
	assert.Equal(t, "%PDF-1.3", rec.Body.String())
}
