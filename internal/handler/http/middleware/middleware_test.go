package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/payroll-backend-go/internal/pkg/jwt"
	"github.com/go-chi/jwtauth/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var okHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusNoContent)
})

func serve(h http.Handler, ctx context.Context) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/", nil).WithContext(ctx)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestAuthRequired(t *testing.T) {
	svc := jwt.NewJWTService("test-secret", "1h", "24h")
	protected := jwtauth.Verifier(svc.JWTAuth())(AuthRequired(svc.JWTAuth())(okHandler))

	access, _, err := svc.GenerateAccessToken("user-1", "asha@example.com", nil, user.RoleStaff)
	require.NoError(t, err)
	refresh, _, err := svc.GenerateRefreshToken("user-1")
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{"access token", "Bearer " + access, http.StatusNoContent},
		{"refresh token", "Bearer " + refresh, http.StatusUnauthorized},
		{"no token", "", http.StatusUnauthorized},
		{"garbage", "Bearer abc.def.ghi", http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			protected.ServeHTTP(rec, req)
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestRequireStaff(t *testing.T) {
	employeeID := "emp-1"
	staff := jwt.ContextWithActor(context.Background(), user.Actor{UserID: "s", Role: user.RoleStaff})
	employee := jwt.ContextWithActor(context.Background(), user.Actor{UserID: "e", Role: user.RoleEmployee, EmployeeID: &employeeID})

	assert.Equal(t, http.StatusNoContent, serve(RequireStaff(okHandler), staff).Code)
	assert.Equal(t, http.StatusForbidden, serve(RequireStaff(okHandler), employee).Code)
	assert.Equal(t, http.StatusForbidden, serve(RequireStaff(okHandler), context.Background()).Code)
}

func TestRequirePermission(t *testing.T) {
	employeeID := "emp-1"
	employee := jwt.ContextWithActor(context.Background(), user.Actor{UserID: "e", Role: user.RoleEmployee, EmployeeID: &employeeID})

	assert.Equal(t, http.StatusNoContent, serve(RequirePermission(user.PermissionEmployeeView)(okHandler), employee).Code)

	rec := serve(RequirePermission(user.PermissionEmployeeManage)(okHandler), employee)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, rec.Body.String(), "employee.manage")
}
