package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"swapmarket/internal/core/domain"
	"swapmarket/internal/core/ports"
	"swapmarket/pkg/apperror"

	"github.com/google/uuid"
)

// StatusOverrider applies a guarded transaction transition without a party
// check. Satisfied by TransactionServiceImpl.
type StatusOverrider interface {
	Override(ctx context.Context, id uuid.UUID, status domain.TransactionStatus) (*domain.Transaction, error)
}

// AdminServiceImpl implements ports.AdminService.
type AdminServiceImpl struct {
	userRepo   ports.UserRepository
	txnRepo    ports.TransactionRepository
	kycRepo    ports.KYCRepository
	msgRepo    ports.MessageRepository
	transactor ports.DBTransactor
	overrider  StatusOverrider
	notifier   ports.Notifier
	auditSvc   ports.AuditService
}

// NewAdminService creates a new AdminServiceImpl.
func NewAdminService(
	userRepo ports.UserRepository,
	txnRepo ports.TransactionRepository,
	kycRepo ports.KYCRepository,
	msgRepo ports.MessageRepository,
	transactor ports.DBTransactor,
	overrider StatusOverrider,
	notifier ports.Notifier,
	auditSvc ports.AuditService,
) *AdminServiceImpl {
	return &AdminServiceImpl{
		userRepo:   userRepo,
		txnRepo:    txnRepo,
		kycRepo:    kycRepo,
		msgRepo:    msgRepo,
		transactor: transactor,
		overrider:  overrider,
		notifier:   notifier,
		auditSvc:   auditSvc,
	}
}

// ListUsers returns users with filter and pagination.
func (s *AdminServiceImpl) ListUsers(ctx context.Context, params ports.UserListParams) ([]domain.User, int64, error) {
	clampPage(&params.Page, &params.PageSize)
	users, total, err := s.userRepo.List(ctx, params)
	if err != nil {
		return nil, 0, apperror.InternalError(fmt.Errorf("list users: %w", err))
	}
	return users, total, nil
}

// ListTransactions returns all transactions with filter and pagination.
func (s *AdminServiceImpl) ListTransactions(ctx context.Context, params ports.TransactionListParams) ([]domain.Transaction, int64, error) {
	clampPage(&params.Page, &params.PageSize)
	txns, total, err := s.txnRepo.List(ctx, params)
	if err != nil {
		return nil, 0, apperror.InternalError(fmt.Errorf("list transactions: %w", err))
	}
	return txns, total, nil
}

// ListKYCSubmissions returns KYC records with filter and pagination.
func (s *AdminServiceImpl) ListKYCSubmissions(ctx context.Context, params ports.KYCListParams) ([]domain.KYCData, int64, error) {
	clampPage(&params.Page, &params.PageSize)
	records, total, err := s.kycRepo.List(ctx, params)
	if err != nil {
		return nil, 0, apperror.InternalError(fmt.Errorf("list kyc records: %w", err))
	}
	return records, total, nil
}

// SuspendUser blocks an account from transacting.
func (s *AdminServiceImpl) SuspendUser(ctx context.Context, userID uuid.UUID) error {
	return s.setUserStatus(ctx, userID, domain.UserStatusSuspended, domain.AuditActionSuspendUser)
}

// ActivateUser lifts a suspension.
func (s *AdminServiceImpl) ActivateUser(ctx context.Context, userID uuid.UUID) error {
	return s.setUserStatus(ctx, userID, domain.UserStatusActive, domain.AuditActionActivateUser)
}

func (s *AdminServiceImpl) setUserStatus(ctx context.Context, userID uuid.UUID, status domain.UserStatus, action domain.AuditAction) error {
	if err := s.userRepo.SetStatus(ctx, userID, status); err != nil {
		return apperror.InternalError(fmt.Errorf("set user status: %w", err))
	}
	s.auditSvc.Log(ctx, &domain.AuditLog{
		ID:           uuid.New(),
		Action:       action,
		ResourceType: "user",
		ResourceID:   userID.String(),
		CreatedAt:    time.Now().UTC(),
	})
	return nil
}

// VerifyKYC approves a pending submission.
func (s *AdminServiceImpl) VerifyKYC(ctx context.Context, userID uuid.UUID, note string) error {
	var reason *string
	if strings.TrimSpace(note) != "" {
		reason = &note
	}
	return s.decideKYC(ctx, userID, domain.KYCStatusVerified, reason)
}

// RejectKYC rejects a pending submission. A reason is mandatory, since the
// user needs it to fix and resubmit.
func (s *AdminServiceImpl) RejectKYC(ctx context.Context, userID uuid.UUID, reason string) error {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return apperror.Validation("rejection reason is required")
	}
	return s.decideKYC(ctx, userID, domain.KYCStatusRejected, &reason)
}

// decideKYC writes the decision onto the KYC record and the user-record
// mirror in one database transaction.
func (s *AdminServiceImpl) decideKYC(ctx context.Context, userID uuid.UUID, status domain.KYCStatus, reason *string) error {
	rec, err := s.kycRepo.Get(ctx, userID)
	if err != nil {
		return apperror.InternalError(fmt.Errorf("get kyc record: %w", err))
	}
	if rec == nil {
		return apperror.ErrNotFound("kyc record")
	}
	if rec.Status != domain.KYCStatusPending {
		return apperror.ErrKYCNotPending()
	}

	now := time.Now().UTC()
	tx, err := s.transactor.Begin(ctx)
	if err != nil {
		return apperror.InternalError(fmt.Errorf("begin tx: %w", err))
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	if err := s.kycRepo.SetDecision(ctx, tx, userID, status, reason, now); err != nil {
		return apperror.InternalError(fmt.Errorf("set kyc decision: %w", err))
	}
	if err := s.userRepo.SetKYCStatus(ctx, tx, userID, status); err != nil {
		return apperror.InternalError(fmt.Errorf("mirror kyc status: %w", err))
	}
	if err := tx.Commit(ctx); err != nil {
		return apperror.InternalError(fmt.Errorf("commit tx: %w", err))
	}

	payload := map[string]string{"status": string(status)}
	if reason != nil {
		payload["reason"] = *reason
	}
	s.notifier.Notify(ctx, domain.Notification{
		Kind:    domain.NotificationKYCStatusChanged,
		UserID:  userID.String(),
		Payload: payload,
	})

	s.auditSvc.Log(ctx, &domain.AuditLog{
		ID:           uuid.New(),
		Action:       domain.AuditActionKYCDecision,
		ResourceType: "kyc",
		ResourceID:   userID.String(),
		Details:      fmt.Sprintf(`{"status":%q}`, status),
		CreatedAt:    now,
	})

	return nil
}

// OverrideTransactionStatus applies the same transition guard as the
// party-facing call; administrators cannot skip the state machine.
func (s *AdminServiceImpl) OverrideTransactionStatus(ctx context.Context, id uuid.UUID, status domain.TransactionStatus) (*domain.Transaction, error) {
	return s.overrider.Override(ctx, id, status)
}

// DeleteMessage soft-deletes a chat message.
func (s *AdminServiceImpl) DeleteMessage(ctx context.Context, id uuid.UUID) error {
	msg, err := s.msgRepo.GetByID(ctx, id)
	if err != nil {
		return apperror.InternalError(fmt.Errorf("get message: %w", err))
	}
	if msg == nil {
		return apperror.ErrNotFound("message")
	}
	if msg.IsDeleted() {
		return nil // idempotent
	}

	now := time.Now().UTC()
	if err := s.msgRepo.SoftDelete(ctx, id, now); err != nil {
		return apperror.InternalError(fmt.Errorf("soft delete message: %w", err))
	}

	s.auditSvc.Log(ctx, &domain.AuditLog{
		ID:           uuid.New(),
		Action:       domain.AuditActionDeleteMessage,
		ResourceType: "message",
		ResourceID:   id.String(),
		CreatedAt:    now,
	})
	return nil
}

// clampPage normalizes pagination inputs.
func clampPage(page, pageSize *int) {
	if *page < 1 {
		*page = 1
	}
	if *pageSize < 1 || *pageSize > 100 {
		*pageSize = 20
	}
}
