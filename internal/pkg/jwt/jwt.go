package jwt

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/user"
	"github.com/go-chi/jwtauth/v5"
	"github.com/google/uuid"
	"github.com/lestrrat-go/jwx/v2/jwt"
)

const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

// ErrMissingClaims is returned when the request context carries no usable access token.
var ErrMissingClaims = errors.New("missing or malformed token claims")

type Service interface {
	GenerateAccessToken(userID string, email string, employeeID *string, role user.Role) (token string, expiresAt int64, err error)
	GenerateRefreshToken(userID string) (token string, expiresAt int64, err error)
	ParseRefreshToken(tokenString string) (userID string, err error)
	JWTAuth() *jwtauth.JWTAuth
	RefreshTokenCookie(token string, expiresAt int64) *http.Cookie
}

type JWTService struct {
	secretKey                  string
	accessTokenExpirationTime  string
	refreshTokenExpirationTime string
	tokenAuth                  *jwtauth.JWTAuth
}

func (j *JWTService) JWTAuth() *jwtauth.JWTAuth {
	return j.tokenAuth
}

func NewJWTService(secretKey string, accessTokenExpirationTime string, refreshTokenExpirationTime string) Service {
	return &JWTService{
		secretKey:                  secretKey,
		accessTokenExpirationTime:  accessTokenExpirationTime,
		refreshTokenExpirationTime: refreshTokenExpirationTime,
		tokenAuth:                  jwtauth.New("HS256", []byte(secretKey), nil, jwt.WithAcceptableSkew(30*time.Second)),
	}
}

func (j *JWTService) GenerateAccessToken(userID string, email string, employeeID *string, role user.Role) (token string, expiresAt int64, err error) {
	expDuration, err := time.ParseDuration(j.accessTokenExpirationTime)
	if err != nil {
		return "", 0, err
	}
	expiresAt = time.Now().Add(expDuration).Unix()

	claims := map[string]interface{}{
		"user_id": userID,
		"email":   email,
		"role":    string(role),
		"type":    TokenTypeAccess,
		"exp":     expiresAt,
	}
	if employeeID != nil && *employeeID != "" {
		claims["employee_id"] = *employeeID
	}

	_, tokenString, err := j.tokenAuth.Encode(claims)
	return tokenString, expiresAt, err
}

func (j *JWTService) GenerateRefreshToken(userID string) (token string, expiresAt int64, err error) {
	expDuration, err := time.ParseDuration(j.refreshTokenExpirationTime)
	if err != nil {
		return "", 0, err
	}
	now := time.Now()
	expiresAt = now.Add(expDuration).Unix()
	_, tokenString, err := j.tokenAuth.Encode(map[string]interface{}{
		"user_id": userID,
		"exp":     expiresAt,
		"iat":     now.Unix(),
		"jti":     uuid.NewString(),
		"type":    TokenTypeRefresh,
	})
	return tokenString, expiresAt, err
}

// ParseRefreshToken verifies the signature, expiry and type of a refresh token.
func (j *JWTService) ParseRefreshToken(tokenString string) (string, error) {
	token, err := jwtauth.VerifyToken(j.tokenAuth, tokenString)
	if err != nil {
		return "", err
	}

	tokenType, ok := token.Get("type")
	if !ok || tokenType != TokenTypeRefresh {
		return "", jwt.ErrInvalidJWT()
	}

	userIDVal, ok := token.Get("user_id")
	if !ok {
		return "", jwt.ErrInvalidJWT()
	}
	userID, ok := userIDVal.(string)
	if !ok || userID == "" {
		return "", jwt.ErrInvalidJWT()
	}

	return userID, nil
}

func (j *JWTService) RefreshTokenCookie(token string, expiresAt int64) *http.Cookie {
	return &http.Cookie{
		Name:     "refresh_token",
		Value:    token,
		Path:     "/api/v1/auth",
		Expires:  time.Unix(expiresAt, 0),
		HttpOnly: true,
		Secure:   false,
		SameSite: http.SameSiteStrictMode,
	}
}

// ActorFromClaims builds the requesting actor from access token claims.
func ActorFromClaims(claims map[string]interface{}) (user.Actor, error) {
	userID, ok := claims["user_id"].(string)
	if !ok || userID == "" {
		return user.Actor{}, ErrMissingClaims
	}

	roleStr, ok := claims["role"].(string)
	if !ok || !user.Role(roleStr).IsValid() {
		return user.Actor{}, ErrMissingClaims
	}

	actor := user.Actor{
		UserID: userID,
		Role:   user.Role(roleStr),
	}
	if email, ok := claims["email"].(string); ok {
		actor.Email = email
	}
	if employeeID, ok := claims["employee_id"].(string); ok && employeeID != "" {
		actor.EmployeeID = &employeeID
	}

	return actor, nil
}

// ActorFromContext reads the verified token placed on ctx by jwtauth.Verifier.
func ActorFromContext(ctx context.Context) (user.Actor, error) {
	_, claims, err := jwtauth.FromContext(ctx)
	if err != nil {
		return user.Actor{}, ErrMissingClaims
	}
	return ActorFromClaims(claims)
}

// ContextWithActor attaches an unsigned access token for actor to ctx, the
// same shape jwtauth.Verifier leaves behind. Used by tests and internal callers.
func ContextWithActor(ctx context.Context, actor user.Actor) context.Context {
	token := jwt.New()
	_ = token.Set("user_id", actor.UserID)
	_ = token.Set("email", actor.Email)
	_ = token.Set("role", string(actor.Role))
	_ = token.Set("type", TokenTypeAccess)
	if actor.EmployeeID != nil {
		_ = token.Set("employee_id", *actor.EmployeeID)
	}
	return jwtauth.NewContext(ctx, token, nil)
}
