package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/payroll-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/payroll-backend-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/payroll-backend-go/internal/repository/postgresql"
	"golang.org/x/crypto/bcrypt"
)

type AuthServiceImpl struct {
	db           *database.DB
	userRepo     user.UserRepository
	employeeRepo employee.EmployeeRepository
	tokenRepo    auth.RefreshTokenRepository
	jwtService   jwt.Service
}

func NewAuthService(db *database.DB, userRepo user.UserRepository, employeeRepo employee.EmployeeRepository, tokenRepo auth.RefreshTokenRepository, jwtService jwt.Service) auth.AuthService {
	return &AuthServiceImpl{
		db:           db,
		userRepo:     userRepo,
		employeeRepo: employeeRepo,
		tokenRepo:    tokenRepo,
		jwtService:   jwtService,
	}
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func mapUserToResponse(u user.User) user.UserResponse {
	return user.UserResponse{
		ID:         u.ID,
		Email:      u.Email,
		Role:       string(u.Role),
		EmployeeID: u.EmployeeID,
		CreatedAt:  u.CreatedAt.Format(time.RFC3339),
		UpdatedAt:  u.UpdatedAt.Format(time.RFC3339),
	}
}

// Login implements auth.AuthService.
func (a *AuthServiceImpl) Login(ctx context.Context, req auth.LoginRequest, sessionReq auth.SessionTrackingRequest) (auth.TokenResponse, error) {
	if err := req.Validate(); err != nil {
		return auth.TokenResponse{}, err
	}

	userData, err := a.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return auth.TokenResponse{}, auth.ErrInvalidCredentials
		}
		return auth.TokenResponse{}, fmt.Errorf("failed to get user by email: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(userData.PasswordHash), []byte(req.Password)); err != nil {
		return auth.TokenResponse{}, auth.ErrInvalidCredentials
	}

	var tokenResponse auth.TokenResponse
	err = postgresql.WithTransaction(ctx, a.db, func(txCtx context.Context) error {
		var err error
		tokenResponse.AccessToken, tokenResponse.AccessTokenExpiresIn, err = a.jwtService.GenerateAccessToken(userData.ID, userData.Email, userData.EmployeeID, userData.Role)
		if err != nil {
			return fmt.Errorf("failed to create access token: %w", err)
		}
		tokenResponse.RefreshToken, tokenResponse.RefreshTokenExpiresIn, err = a.jwtService.GenerateRefreshToken(userData.ID)
		if err != nil {
			return fmt.Errorf("failed to create refresh token: %w", err)
		}

		if err := a.tokenRepo.CreateRefreshToken(txCtx, userData.ID, tokenResponse.RefreshToken, tokenResponse.RefreshTokenExpiresIn, sessionReq); err != nil {
			return fmt.Errorf("failed to save refresh token to database: %w", err)
		}
		return nil
	})
	if err != nil {
		return auth.TokenResponse{}, err
	}

	return tokenResponse, nil
}

// RefreshToken implements auth.AuthService.
func (a *AuthServiceImpl) RefreshToken(ctx context.Context, req auth.RefreshTokenRequest) (auth.AccessTokenResponse, error) {
	if err := req.Validate(); err != nil {
		return auth.AccessTokenResponse{}, err
	}

	if _, err := a.jwtService.ParseRefreshToken(req.RefreshToken); err != nil {
		return auth.AccessTokenResponse{}, auth.ErrInvalidToken
	}

	userID, revoked, err := a.tokenRepo.IsRefreshTokenRevoked(ctx, req.RefreshToken)
	if err != nil {
		return auth.AccessTokenResponse{}, fmt.Errorf("failed to check refresh token: %w", err)
	}
	if revoked {
		return auth.AccessTokenResponse{}, auth.ErrRefreshTokenRevoked
	}

	// Re-read the user so a newly linked employee shows up in the new token.
	userData, err := a.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return auth.AccessTokenResponse{}, auth.ErrUserNotFound
		}
		return auth.AccessTokenResponse{}, err
	}

	var resp auth.AccessTokenResponse
	resp.AccessToken, resp.AccessTokenExpiresIn, err = a.jwtService.GenerateAccessToken(userData.ID, userData.Email, userData.EmployeeID, userData.Role)
	if err != nil {
		return auth.AccessTokenResponse{}, fmt.Errorf("failed to generate access token: %w", err)
	}
	return resp, nil
}

// Logout implements auth.AuthService.
func (a *AuthServiceImpl) Logout(ctx context.Context, req auth.RefreshTokenRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}

	if err := a.tokenRepo.RevokeRefreshToken(ctx, req.RefreshToken); err != nil {
		return fmt.Errorf("failed to revoke refresh token: %w", err)
	}
	return nil
}

// Me implements auth.AuthService.
func (a *AuthServiceImpl) Me(ctx context.Context) (user.UserResponse, error) {
	actor, err := jwt.ActorFromContext(ctx)
	if err != nil {
		return user.UserResponse{}, auth.ErrInvalidToken
	}

	userData, err := a.userRepo.GetByID(ctx, actor.UserID)
	if err != nil {
		return user.UserResponse{}, err
	}
	return mapUserToResponse(userData), nil
}

// CreateUser implements auth.AuthService.
func (a *AuthServiceImpl) CreateUser(ctx context.Context, req user.CreateUserRequest) (user.UserResponse, error) {
	actor, err := jwt.ActorFromContext(ctx)
	if err != nil {
		return user.UserResponse{}, auth.ErrInvalidToken
	}
	if !user.HasPermission(actor.Role, user.PermissionUserManage) {
		return user.UserResponse{}, user.ErrStaffAccessRequired
	}

	if err := req.Validate(); err != nil {
		return user.UserResponse{}, err
	}

	passwordHash, err := hashPassword(req.Password)
	if err != nil {
		return user.UserResponse{}, fmt.Errorf("failed to hash password: %w", err)
	}

	var created user.User
	err = postgresql.WithTransaction(ctx, a.db, func(txCtx context.Context) error {
		var err error
		created, err = a.userRepo.Create(txCtx, user.User{
			Email:        req.Email,
			PasswordHash: passwordHash,
			Role:         user.Role(req.Role),
		})
		if err != nil {
			return err
		}

		if req.EmployeeID == nil {
			return nil
		}
		if err := a.employeeRepo.LinkUser(txCtx, *req.EmployeeID, created.ID); err != nil {
			if errors.Is(err, employee.ErrUserAlreadyLinked) {
				return user.ErrEmployeeAlreadyLinked
			}
			return err
		}
		created.EmployeeID = req.EmployeeID
		return nil
	})
	if err != nil {
		return user.UserResponse{}, err
	}

	slog.Info("user created", "user_id", created.ID, "role", created.Role, "by", actor.UserID)
	return mapUserToResponse(created), nil
}

// EnsureStaffUser implements auth.AuthService.
func (a *AuthServiceImpl) EnsureStaffUser(ctx context.Context, email, password string) error {
	req := user.CreateUserRequest{Email: email, Password: password, Role: string(user.RoleStaff)}
	if err := req.Validate(); err != nil {
		return err
	}

	_, err := a.userRepo.GetByEmail(ctx, req.Email)
	if err == nil {
		return nil
	}
	if !errors.Is(err, user.ErrUserNotFound) {
		return fmt.Errorf("failed to look up staff user: %w", err)
	}

	passwordHash, err := hashPassword(req.Password)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	created, err := a.userRepo.Create(ctx, user.User{
		Email:        req.Email,
		PasswordHash: passwordHash,
		Role:         user.RoleStaff,
	})
	if err != nil {
		if errors.Is(err, user.ErrUserEmailExists) {
			return nil
		}
		return err
	}

	slog.Info("staff user created", "user_id", created.ID, "email", created.Email)
	return nil
}
