package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/payroll-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/payroll-backend-go/internal/pkg/jwt"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const (
	testAccessExp  = "1h"
	testRefreshExp = "24h"
	testSecret     = "test-secret-key-for-jwt"
	testPassword   = "password123"
	linkedEmployee = "0190a1b2-0000-7000-8000-000000000001"
)

type fakeUserRepo struct {
	users map[string]user.User
}

func (r *fakeUserRepo) GetByEmail(ctx context.Context, email string) (user.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return user.User{}, user.ErrUserNotFound
}

func (r *fakeUserRepo) GetByID(ctx context.Context, id string) (user.User, error) {
	u, ok := r.users[id]
	if !ok {
		return user.User{}, user.ErrUserNotFound
	}
	return u, nil
}

func (r *fakeUserRepo) Create(ctx context.Context, newUser user.User) (user.User, error) {
	if _, err := r.GetByEmail(ctx, newUser.Email); err == nil {
		return user.User{}, user.ErrUserEmailExists
	}
	newUser.ID = "user-" + newUser.Email
	newUser.CreatedAt = time.Now()
	newUser.UpdatedAt = newUser.CreatedAt
	r.users[newUser.ID] = newUser
	return newUser, nil
}

type fakeTokenRepo struct {
	stored  map[string]string
	revoked map[string]bool
}

func (r *fakeTokenRepo) CreateRefreshToken(ctx context.Context, userID string, token string, expiresAt int64, sessionReq auth.SessionTrackingRequest) error {
	r.stored[token] = userID
	return nil
}

func (r *fakeTokenRepo) IsRefreshTokenRevoked(ctx context.Context, token string) (string, bool, error) {
	userID, ok := r.stored[token]
	if !ok {
		return "", true, nil
	}
	return userID, r.revoked[token], nil
}

func (r *fakeTokenRepo) RevokeRefreshToken(ctx context.Context, token string) error {
	r.revoked[token] = true
	return nil
}

type fakeEmployeeRepo struct {
	employee.EmployeeRepository
	links map[string]string
}

func (r *fakeEmployeeRepo) LinkUser(ctx context.Context, id string, userID string) error {
	if _, ok := r.links[id]; ok {
		return employee.ErrUserAlreadyLinked
	}
	r.links[id] = userID
	return nil
}

type fixture struct {
	svc    auth.AuthService
	mock   pgxmock.PgxPoolIface
	users  *fakeUserRepo
	tokens *fakeTokenRepo
	emps   *fakeEmployeeRepo
	jwt    jwt.Service
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)

	hash, err := bcrypt.GenerateFromPassword([]byte(testPassword), bcrypt.MinCost)
	require.NoError(t, err)

	employeeID := linkedEmployee
	users := &fakeUserRepo{users: map[string]user.User{
		"user-1": {ID: "user-1", Email: "asha@example.com", PasswordHash: string(hash), Role: user.RoleEmployee, EmployeeID: &employeeID},
	}}
	tokens := &fakeTokenRepo{stored: map[string]string{}, revoked: map[string]bool{}}
	emps := &fakeEmployeeRepo{links: map[string]string{linkedEmployee: "user-1"}}
	jwtService := jwt.NewJWTService(testSecret, testAccessExp, testRefreshExp)

	return &fixture{
		svc:    NewAuthService(database.New(mock), users, emps, tokens, jwtService),
		mock:   mock,
		users:  users,
		tokens: tokens,
		emps:   emps,
		jwt:    jwtService,
	}
}

func staffCtx() context.Context {
	return jwt.ContextWithActor(context.Background(), user.Actor{UserID: "staff-1", Role: user.RoleStaff})
}

func TestLogin_Success(t *testing.T) {
	f := newFixture(t)
	f.mock.ExpectBegin()
	f.mock.ExpectCommit()

	resp, err := f.svc.Login(context.Background(), auth.LoginRequest{Email: " Asha@Example.com ", Password: testPassword}, auth.SessionTrackingRequest{UserAgent: "test"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)
	assert.Equal(t, "user-1", f.tokens.stored[resp.RefreshToken])
	assert.NoError(t, f.mock.ExpectationsWereMet())
}

func TestLogin_InvalidCredentials(t *testing.T) {
	tests := []struct {
		name     string
		email    string
		password string
	}{
		{"unknown email", "nobody@example.com", testPassword},
		{"wrong password", "asha@example.com", "wrong-password"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			_, err := f.svc.Login(context.Background(), auth.LoginRequest{Email: tt.email, Password: tt.password}, auth.SessionTrackingRequest{})
			assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
			assert.Empty(t, f.tokens.stored)
		})
	}
}

func TestLogin_ValidationError(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.Login(context.Background(), auth.LoginRequest{Email: "not-an-email"}, auth.SessionTrackingRequest{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "password")
}

func TestRefreshToken(t *testing.T) {
	f := newFixture(t)
	f.mock.ExpectBegin()
	f.mock.ExpectCommit()

	login, err := f.svc.Login(context.Background(), auth.LoginRequest{Email: "asha@example.com", Password: testPassword}, auth.SessionTrackingRequest{})
	require.NoError(t, err)

	resp, err := f.svc.RefreshToken(context.Background(), auth.RefreshTokenRequest{RefreshToken: login.RefreshToken})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)

	// An access token is never accepted in place of a refresh token.
	_, err = f.svc.RefreshToken(context.Background(), auth.RefreshTokenRequest{RefreshToken: login.AccessToken})
	assert.ErrorIs(t, err, auth.ErrInvalidToken)

	require.NoError(t, f.svc.Logout(context.Background(), auth.RefreshTokenRequest{RefreshToken: login.RefreshToken}))
	_, err = f.svc.RefreshToken(context.Background(), auth.RefreshTokenRequest{RefreshToken: login.RefreshToken})
	assert.ErrorIs(t, err, auth.ErrRefreshTokenRevoked)
}

func TestRefreshToken_UnknownToken(t *testing.T) {
	f := newFixture(t)
	refresh, _, err := f.jwt.GenerateRefreshToken("user-1")
	require.NoError(t, err)

	_, err = f.svc.RefreshToken(context.Background(), auth.RefreshTokenRequest{RefreshToken: refresh})
	assert.ErrorIs(t, err, auth.ErrRefreshTokenRevoked)
}

func TestLogout_Idempotent(t *testing.T) {
	f := newFixture(t)
	req := auth.RefreshTokenRequest{RefreshToken: "some-token"}

	require.NoError(t, f.svc.Logout(context.Background(), req))
	require.NoError(t, f.svc.Logout(context.Background(), req))
}

func TestMe(t *testing.T) {
	f := newFixture(t)
	employeeID := linkedEmployee
	ctx := jwt.ContextWithActor(context.Background(), user.Actor{UserID: "user-1", Role: user.RoleEmployee, EmployeeID: &employeeID})

	me, err := f.svc.Me(ctx)
	require.NoError(t, err)
	assert.Equal(t, "asha@example.com", me.Email)
	assert.Equal(t, "employee", me.Role)
	require.NotNil(t, me.EmployeeID)
	assert.Equal(t, linkedEmployee, *me.EmployeeID)

	_, err = f.svc.Me(context.Background())
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestCreateUser(t *testing.T) {
	f := newFixture(t)
	f.mock.ExpectBegin()
	f.mock.ExpectCommit()

	employeeID := "0190a1b2-0000-7000-8000-000000000002"
	resp, err := f.svc.CreateUser(staffCtx(), user.CreateUserRequest{
		Email:      "ravi@example.com",
		Password:   testPassword,
		Role:       "employee",
		EmployeeID: &employeeID,
	})
	require.NoError(t, err)
	assert.Equal(t, "ravi@example.com", resp.Email)
	require.NotNil(t, resp.EmployeeID)
	assert.Equal(t, employeeID, *resp.EmployeeID)
	assert.Equal(t, resp.ID, f.emps.links[employeeID])

	stored := f.users.users[resp.ID]
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte(testPassword)))
	assert.NoError(t, f.mock.ExpectationsWereMet())
}

func TestCreateUser_Errors(t *testing.T) {
	employeeID := linkedEmployee

	tests := []struct {
		name    string
		ctx     context.Context
		req     user.CreateUserRequest
		inTx    bool
		wantErr error
	}{
		{
			name:    "employee caller",
			ctx:     jwt.ContextWithActor(context.Background(), user.Actor{UserID: "user-1", Role: user.RoleEmployee, EmployeeID: &employeeID}),
			req:     user.CreateUserRequest{Email: "x@example.com", Password: testPassword, Role: "staff"},
			wantErr: user.ErrStaffAccessRequired,
		},
		{
			name:    "duplicate email",
			ctx:     staffCtx(),
			req:     user.CreateUserRequest{Email: "asha@example.com", Password: testPassword, Role: "employee"},
			inTx:    true,
			wantErr: user.ErrUserEmailExists,
		},
		{
			name:    "employee already linked",
			ctx:     staffCtx(),
			req:     user.CreateUserRequest{Email: "new@example.com", Password: testPassword, Role: "employee", EmployeeID: &employeeID},
			inTx:    true,
			wantErr: user.ErrEmployeeAlreadyLinked,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			if tt.inTx {
				f.mock.ExpectBegin()
				f.mock.ExpectRollback()
			}

			_, err := f.svc.CreateUser(tt.ctx, tt.req)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.NoError(t, f.mock.ExpectationsWereMet())
		})
	}
}

func TestEnsureStaffUser(t *testing.T) {
	f := newFixture(t)

	require.NoError(t, f.svc.EnsureStaffUser(context.Background(), "admin@example.com", "admin-password"))
	require.NoError(t, f.svc.EnsureStaffUser(context.Background(), "admin@example.com", "admin-password"))

	var staff []user.User
	for _, u := range f.users.users {
		if u.Role == user.RoleStaff {
			staff = append(staff, u)
		}
	}
	require.Len(t, staff, 1)
	assert.Equal(t, "admin@example.com", staff[0].Email)

	err := f.svc.EnsureStaffUser(context.Background(), "admin@example.com", "short")
	assert.Error(t, err)
	assert.False(t, errors.Is(err, user.ErrUserEmailExists))
}
