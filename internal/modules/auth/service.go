package auth

import (
	"context"
	"fmt"
	"strings"
	"time"

	"leadboard/internal/domain"
	"leadboard/internal/repository"

	"golang.org/x/crypto/bcrypt"
)

// Service contains all business logic for authentication
type Service struct {
	users UserRepository
	jwt   TokenIssuer
	audit AuditRecorder
	ttl   time.Duration
}

func NewService(users UserRepository, jwt TokenIssuer, audit AuditRecorder, ttl time.Duration) *Service {
	return &Service{users: users, jwt: jwt, audit: audit, ttl: ttl}
}

// HashPassword bcrypt-hashes a plain password.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// NormalizeEmail lowercases and trims an address before storage or lookup.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates an active Employee and signs them in.
func (s *Service) Register(ctx context.Context, req RegisterRequest, ip string) (*AuthResponse, error) {
	email := NormalizeEmail(req.Email)
	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil, ErrEmailAlreadyExists
	} else if !repository.IsNotFound(err) {
		return nil, fmt.Errorf("lookup email: %w", err)
	}

	hash, err := HashPassword(req.Password)
	if err != nil {
		return nil, err
	}
	user := &domain.User{
		Email:        email,
		PasswordHash: hash,
		Name:         strings.TrimSpace(req.Name),
		Role:         domain.RoleEmployee,
		IsActive:     true,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, ErrEmailAlreadyExists
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	s.record(ctx, user.ID, "register", ip, nil)
	return s.issue(user)
}

// Login checks the password before the active flag so that a wrong
// password never reveals whether an account is disabled.
func (s *Service) Login(ctx context.Context, req LoginRequest, ip string) (*AuthResponse, error) {
	user, err := s.users.GetByEmail(ctx, NormalizeEmail(req.Email))
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, ErrUserInactive
	}

	s.record(ctx, user.ID, "login", ip, map[string]any{"method": "password"})
	return s.issue(user)
}

// Me reloads the caller; deleted or disabled accounts are unauthorized.
func (s *Service) Me(ctx context.Context, userID int64) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrUnauthorized
		}
		return nil, err
	}
	if !user.IsActive {
		return nil, ErrUserInactive
	}
	return user, nil
}

// Logout only records the event; tokens are stateless and expire on their own.
func (s *Service) Logout(ctx context.Context, userID int64, ip string) {
	s.record(ctx, userID, "logout", ip, nil)
}

func (s *Service) issue(user *domain.User) (*AuthResponse, error) {
	token, err := s.jwt.GenerateToken(user.ID, string(user.Role))
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}
	return &AuthResponse{
		Token:     token,
		TokenType: "Bearer",
		ExpiresIn: int64(s.ttl.Seconds()),
		User:      Public(user),
	}, nil
}

func (s *Service) record(ctx context.Context, userID int64, action, ip string, details map[string]any) {
	if s.audit == nil {
		return
	}
	s.audit.Record(ctx, &domain.ActivityLog{
		UserID:       userID,
		Action:       action,
		ResourceType: "auth",
		Details:      details,
		IPAddress:    ip,
	})
}
