package service

import (
	"context"
	"fmt"
	"time"

	"swapmarket/internal/core/domain"
	"swapmarket/internal/core/ports"
	"swapmarket/pkg/apperror"

	"github.com/google/uuid"
)

// AuthServiceImpl implements ports.AuthService.
type AuthServiceImpl struct {
	userRepo ports.UserRepository
	hashSvc  ports.HashService
	tokenSvc ports.TokenService
	auditSvc ports.AuditService
}

// NewAuthService creates a new AuthServiceImpl.
func NewAuthService(
	userRepo ports.UserRepository,
	hashSvc ports.HashService,
	tokenSvc ports.TokenService,
	auditSvc ports.AuditService,
) *AuthServiceImpl {
	return &AuthServiceImpl{
		userRepo: userRepo,
		hashSvc:  hashSvc,
		tokenSvc: tokenSvc,
		auditSvc: auditSvc,
	}
}

// Register creates a new member account.
func (s *AuthServiceImpl) Register(ctx context.Context, req ports.RegisterRequest) (*domain.User, error) {
	existing, err := s.userRepo.GetByUsername(ctx, req.Username)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("check username: %w", err))
	}
	if existing != nil {
		return nil, apperror.ErrUsernameExists()
	}

	passwordHash, err := s.hashSvc.Hash(req.Password)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("hash password: %w", err))
	}

	now := time.Now().UTC()
	user := &domain.User{
		ID:           uuid.New(),
		Username:     req.Username,
		PasswordHash: passwordHash,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Phone:        req.Phone,
		Role:         domain.UserRoleMember,
		Status:       domain.UserStatusActive,
		KYCStatus:    domain.KYCStatusNotVerified,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("create user: %w", err))
	}

	s.auditSvc.Log(ctx, &domain.AuditLog{
		ID:           uuid.New(),
		UserID:       &user.ID,
		Action:       domain.AuditActionRegister,
		ResourceType: "user",
		ResourceID:   user.ID.String(),
		CreatedAt:    now,
	})

	return user, nil
}

// Login verifies credentials and returns a signed token with its expiry.
func (s *AuthServiceImpl) Login(ctx context.Context, username, password string) (string, time.Time, error) {
	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return "", time.Time{}, apperror.InternalError(fmt.Errorf("get user: %w", err))
	}
	if user == nil {
		return "", time.Time{}, apperror.ErrInvalidCredentials()
	}

	ok, err := s.hashSvc.Verify(password, user.PasswordHash)
	if err != nil {
		return "", time.Time{}, apperror.InternalError(fmt.Errorf("verify password: %w", err))
	}
	if !ok {
		return "", time.Time{}, apperror.ErrInvalidCredentials()
	}

	if !user.IsActive() {
		return "", time.Time{}, apperror.ErrUserSuspended()
	}

	token, expiresAt, err := s.tokenSvc.Generate(user.ID, user.Role)
	if err != nil {
		return "", time.Time{}, apperror.InternalError(fmt.Errorf("generate token: %w", err))
	}

	s.auditSvc.Log(ctx, &domain.AuditLog{
		ID:           uuid.New(),
		UserID:       &user.ID,
		Action:       domain.AuditActionLogin,
		ResourceType: "user",
		ResourceID:   user.ID.String(),
		CreatedAt:    time.Now().UTC(),
	})

	return token, expiresAt, nil
}
