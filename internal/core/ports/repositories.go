package ports

import (
	"context"
	"time"

	"swapmarket/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// UserRepository defines persistence operations for users.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	Update(ctx context.Context, user *domain.User) error
	SetStatus(ctx context.Context, id uuid.UUID, status domain.UserStatus) error
	// SetKYCStatus mirrors a KYC decision onto the user record. It runs
	// inside the same database transaction as the KYC record update.
	SetKYCStatus(ctx context.Context, tx pgx.Tx, id uuid.UUID, status domain.KYCStatus) error
	List(ctx context.Context, params UserListParams) ([]domain.User, int64, error)
}

// UserListParams holds filter + pagination for listing users.
type UserListParams struct {
	Status   *domain.UserStatus
	Page     int
	PageSize int
}

// OfferRepository defines persistence operations for offers.
type OfferRepository interface {
	Create(ctx context.Context, offer *domain.Offer) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Offer, error)
	List(ctx context.Context, params OfferListParams) ([]domain.Offer, int64, error)
}

// OfferListParams holds filter + pagination for listing offers.
type OfferListParams struct {
	GiveCurrency *string
	GetCurrency  *string
	UserID       *uuid.UUID
	Page         int
	PageSize     int
}

// TransactionRepository defines persistence operations for transactions.
type TransactionRepository interface {
	Create(ctx context.Context, txn *domain.Transaction) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Transaction, error)
	// UpdateStatus persists a status change together with the proof fields
	// and the new updated-at stamp.
	UpdateStatus(ctx context.Context, txn *domain.Transaction) error
	// List returns transactions most-recent-first.
	List(ctx context.Context, params TransactionListParams) ([]domain.Transaction, int64, error)
}

// TransactionListParams holds filter + pagination for listing transactions.
type TransactionListParams struct {
	UserID   *uuid.UUID // either party
	Status   *domain.TransactionStatus
	Page     int
	PageSize int
}

// KYCRepository defines persistence operations for KYC records.
type KYCRepository interface {
	Get(ctx context.Context, userID uuid.UUID) (*domain.KYCData, error)
	// Save upserts the record; the wizard mutates it field by field.
	Save(ctx context.Context, data *domain.KYCData) error
	// SetSubmitted moves the record into review inside a database
	// transaction, so the user-record mirror cannot diverge.
	SetSubmitted(ctx context.Context, tx pgx.Tx, userID uuid.UUID, submittedAt time.Time) error
	// SetDecision applies an administrative verify/reject inside a database
	// transaction, so the user-record mirror cannot diverge.
	SetDecision(ctx context.Context, tx pgx.Tx, userID uuid.UUID, status domain.KYCStatus, reason *string, decidedAt time.Time) error
	List(ctx context.Context, params KYCListParams) ([]domain.KYCData, int64, error)
}

// KYCListParams holds filter + pagination for listing KYC submissions.
type KYCListParams struct {
	Status   *domain.KYCStatus
	Page     int
	PageSize int
}

// MessageRepository defines persistence operations for transaction chat.
type MessageRepository interface {
	Create(ctx context.Context, msg *domain.Message) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Message, error)
	// ListByTransaction returns non-deleted messages oldest-first.
	ListByTransaction(ctx context.Context, transactionID uuid.UUID) ([]domain.Message, error)
	SoftDelete(ctx context.Context, id uuid.UUID, deletedAt time.Time) error
}

// AuditRepository persists audit log entries.
type AuditRepository interface {
	Create(ctx context.Context, entry *domain.AuditLog) error
}

// DBTransactor provides database transaction management.
type DBTransactor interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}
