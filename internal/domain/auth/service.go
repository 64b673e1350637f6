package auth

import (
	"context"

	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/user"
)

type AuthService interface {
	Login(ctx context.Context, req LoginRequest, sessionReq SessionTrackingRequest) (TokenResponse, error)
	RefreshToken(ctx context.Context, req RefreshTokenRequest) (AccessTokenResponse, error)
	Logout(ctx context.Context, req RefreshTokenRequest) error
	Me(ctx context.Context) (user.UserResponse, error)
	CreateUser(ctx context.Context, req user.CreateUserRequest) (user.UserResponse, error)
	EnsureStaffUser(ctx context.Context, email, password string) error
}
