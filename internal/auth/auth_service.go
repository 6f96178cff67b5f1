package auth

import (
	"context"
	"errors"
	"os"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	autherrors "go-portal/internal/auth/errors"
	"go-portal/internal/employee"
	"go-portal/internal/shared/contextutil"
)

const (
	accessTokenTTL  = time.Minute * 15
	refreshTokenTTL = time.Hour * 24 * 7
)

//go:generate mockgen -source=auth_service.go -destination=mock/auth_service_mock.go -package=mock
type Service interface {
	// ExchangeSSO verifies an upstream SSO id token, mirrors the identity
	// into the local user table, resolves (or lazily creates) its Employee
	// and issues portal tokens.
	ExchangeSSO(ctx context.Context, idToken string) (accessToken, refreshToken string, resp AuthResponse, err error)

	// Login is the local fallback for accounts provisioned with a password.
	Login(ctx context.Context, email, password string) (accessToken, refreshToken string, resp AuthResponse, err error)

	RefreshToken(ctx context.Context, refreshToken string) (newAccessToken, newRefreshToken string, resp AuthResponse, err error)

	GetMe(ctx context.Context, userID string) (*AuthResponse, error)
}

type service struct {
	repo      Repository
	employees employee.Service
	logger    *zap.Logger
}

func NewService(repo Repository, employees employee.Service, logger ...*zap.Logger) Service {
	l := zap.L().Named("auth.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("auth.service")
	}
	return &service{repo: repo, employees: employees, logger: l}
}

func (s *service) ExchangeSSO(ctx context.Context, idToken string) (string, string, AuthResponse, error) {
	rid := contextutil.GetRequestID(ctx)

	claims, err := verifyHMACToken(idToken, os.Getenv("SSO_JWT_SECRET"))
	if err != nil {
		s.logger.Warn("SSO token rejected", zap.String("request_id", rid), zap.Error(err))
		return "", "", AuthResponse{}, autherrors.ErrInvalidSSOToken
	}

	subject, _ := claims["sub"].(string)
	email, _ := claims["email"].(string)
	name, _ := claims["name"].(string)
	if subject == "" || email == "" {
		return "", "", AuthResponse{}, autherrors.ErrInvalidSSOToken
	}
	if name == "" {
		name = email
	}

	if err := s.repo.UpsertBySubject(ctx, &User{
		ID:       uuid.New(),
		Subject:  subject,
		Name:     name,
		Email:    email,
		IsActive: true,
	}); err != nil {
		s.logger.Error("user upsert failed", zap.String("request_id", rid), zap.Error(err))
		return "", "", AuthResponse{}, err
	}

	// Re-read so a pre-existing subject keeps its original ID and role.
	user, err := s.repo.GetBySubject(ctx, subject)
	if err != nil {
		s.logger.Error("user lookup after upsert failed", zap.String("request_id", rid), zap.Error(err))
		return "", "", AuthResponse{}, err
	}

	emp, err := s.ensureEmployee(ctx, user)
	if err != nil {
		return "", "", AuthResponse{}, err
	}

	return s.issueTokens(user, emp.ID)
}

func (s *service) Login(ctx context.Context, email, password string) (string, string, AuthResponse, error) {
	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		return "", "", AuthResponse{}, autherrors.ErrInvalidCredentials
	}

	if user.PasswordHash == "" {
		// SSO-only account, no local password to compare against.
		return "", "", AuthResponse{}, autherrors.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", "", AuthResponse{}, autherrors.ErrInvalidCredentials
	}

	emp, err := s.ensureEmployee(ctx, user)
	if err != nil {
		return "", "", AuthResponse{}, err
	}

	return s.issueTokens(user, emp.ID)
}

func (s *service) RefreshToken(ctx context.Context, refreshToken string) (string, string, AuthResponse, error) {
	claims, err := verifyHMACToken(refreshToken, os.Getenv("JWT_SECRET"))
	if err != nil {
		return "", "", AuthResponse{}, autherrors.ErrInvalidRefreshToken
	}

	userIDStr, ok := claims["user_id"].(string)
	if !ok {
		return "", "", AuthResponse{}, autherrors.ErrInvalidToken
	}
	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		return "", "", AuthResponse{}, autherrors.ErrInvalidUserID
	}

	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return "", "", AuthResponse{}, autherrors.ErrUserNotFound
	}

	emp, err := s.ensureEmployee(ctx, user)
	if err != nil {
		return "", "", AuthResponse{}, err
	}

	return s.issueTokens(user, emp.ID)
}

func (s *service) GetMe(ctx context.Context, userID string) (*AuthResponse, error) {
	id, err := uuid.Parse(userID)
	if err != nil {
		return nil, autherrors.ErrInvalidUserID
	}

	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, autherrors.ErrUserNotFound
	}

	employeeID := ""
	if user.EmployeeID != nil {
		employeeID = user.EmployeeID.String()
	}

	return &AuthResponse{
		ID:         user.ID.String(),
		EmployeeID: employeeID,
		Email:      user.Email,
		Name:       user.Name,
		Role:       normalizeRole(user.Role),
	}, nil
}

// ensureEmployee maps the user to its Employee row, allocating one on first
// login and persisting the link so later lookups skip the resolve path.
func (s *service) ensureEmployee(ctx context.Context, user *User) (*employee.Employee, error) {
	emp, err := s.employees.ResolveOrCreate(ctx, user.ID.String(), employee.CreateProfile{
		FullName: user.Name,
		Email:    user.Email,
	})
	if err != nil {
		s.logger.Error("employee resolution failed",
			zap.String("request_id", contextutil.GetRequestID(ctx)),
			zap.String("user_id", user.ID.String()),
			zap.Error(err))
		return nil, err
	}

	if user.EmployeeID == nil || *user.EmployeeID != emp.ID {
		if err := s.repo.LinkEmployee(ctx, user.ID, emp.ID); err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			s.logger.Warn("employee link update failed", zap.Error(err))
		}
		user.EmployeeID = &emp.ID
	}

	return emp, nil
}

func (s *service) issueTokens(user *User, employeeID uuid.UUID) (string, string, AuthResponse, error) {
	role := normalizeRole(user.Role)

	accessToken, err := generateToken(user.ID.String(), employeeID.String(), role, accessTokenTTL)
	if err != nil {
		return "", "", AuthResponse{}, autherrors.ErrTokenGenerationFailed
	}
	refreshToken, err := generateToken(user.ID.String(), employeeID.String(), role, refreshTokenTTL)
	if err != nil {
		return "", "", AuthResponse{}, autherrors.ErrTokenGenerationFailed
	}

	return accessToken, refreshToken, AuthResponse{
		ID:         user.ID.String(),
		EmployeeID: employeeID.String(),
		Email:      user.Email,
		Name:       user.Name,
		Role:       role,
	}, nil
}

func generateToken(userID, employeeID, role string, expiry time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"user_id":     userID,
		"employee_id": employeeID,
		"role":        role,
		"exp":         time.Now().Add(expiry).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(os.Getenv("JWT_SECRET")))
}

func verifyHMACToken(tokenString, secret string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, autherrors.ErrInvalidToken
		}
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		if err == nil {
			err = autherrors.ErrInvalidToken
		}
		return nil, err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, autherrors.ErrInvalidToken
	}
	return claims, nil
}

func normalizeRole(role string) string {
	role = strings.ToUpper(strings.TrimSpace(role))
	if role == "" {
		role = "EMPLOYEE"
	}
	return role
}
