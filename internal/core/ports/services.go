package ports

import (
	"context"
	"time"

	"swapmarket/internal/core/domain"

	"github.com/google/uuid"
)

// HashService handles password hashing (Argon2id).
type HashService interface {
	Hash(password string) (string, error)
	Verify(password string, hash string) (bool, error)
}

// TokenService handles JWT token operations.
type TokenService interface {
	Generate(userID uuid.UUID, role domain.UserRole) (string, time.Time, error)
	Validate(tokenString string) (*TokenClaims, error)
}

// TokenClaims holds the parsed JWT claims.
type TokenClaims struct {
	UserID uuid.UUID
	Role   domain.UserRole
}

// EncryptionService handles AES-256-GCM encryption/decryption. KYC documents
// and phone numbers are stored encrypted at rest.
type EncryptionService interface {
	Encrypt(plaintext string) (string, error)
	Decrypt(ciphertext string) (string, error)
}

// Notifier dispatches best-effort user notifications. Dispatch never blocks
// the caller and failures never surface; they are logged and dropped.
type Notifier interface {
	Notify(ctx context.Context, n domain.Notification)
}

// PhoneCodeStore holds one-time phone verification codes with a TTL.
type PhoneCodeStore interface {
	Set(ctx context.Context, userID string, code string, ttl time.Duration) error
	// Consume checks the stored code and removes it on match. Returns true
	// only when code matches an unexpired entry.
	Consume(ctx context.Context, userID string, code string) (bool, error)
}

// PreferenceStore holds small per-user key-value preferences (e.g. the UI
// language) outside the primary database.
type PreferenceStore interface {
	SetLanguage(ctx context.Context, userID string, language string) error
	GetLanguage(ctx context.Context, userID string) (string, error)
}

// --- Service Ports (Business Logic) ---

// AuthService defines registration and login.
type AuthService interface {
	Register(ctx context.Context, req RegisterRequest) (*domain.User, error)
	Login(ctx context.Context, username, password string) (string, time.Time, error) // token, expiry, error
}

// RegisterRequest holds input for user registration.
type RegisterRequest struct {
	Username  string
	Password  string
	FirstName string
	LastName  string
	Phone     string
}

// OfferService defines offer posting and browsing.
type OfferService interface {
	Create(ctx context.Context, req CreateOfferRequest) (*domain.Offer, error)
	Get(ctx context.Context, id uuid.UUID) (*domain.Offer, error)
	List(ctx context.Context, params OfferListParams) ([]domain.Offer, int64, error)
}

// CreateOfferRequest holds validated input for posting an offer.
type CreateOfferRequest struct {
	UserID         uuid.UUID
	GiveCurrency   string
	GiveAmount     float64
	GetCurrency    string
	GetAmount      float64
	PaymentMethods []string
	Location       string
	Comment        *string
	TTL            time.Duration // zero means the default expiry window
}

// TransactionService drives the exchange lifecycle.
type TransactionService interface {
	// Create opens a transaction by accepting an offer.
	Create(ctx context.Context, req CreateTransactionRequest) (*domain.Transaction, error)
	Get(ctx context.Context, id uuid.UUID, actorID uuid.UUID) (*domain.Transaction, error)
	ListForUser(ctx context.Context, userID uuid.UUID, params TransactionListParams) ([]domain.Transaction, int64, error)
	// UpdateStatus applies a guarded status transition on behalf of a party.
	UpdateStatus(ctx context.Context, id uuid.UUID, actorID uuid.UUID, status domain.TransactionStatus) (*domain.Transaction, error)
	// SubmitProof attaches proof of payment and moves to PROOF_SUBMITTED.
	SubmitProof(ctx context.Context, id uuid.UUID, actorID uuid.UUID, proofURL string) (*domain.Transaction, error)
}

// CreateTransactionRequest holds input for accepting an offer.
type CreateTransactionRequest struct {
	OfferID       uuid.UUID
	AcceptorID    uuid.UUID
	PaymentMethod string
	Deadline      *time.Time
}

// KYCService drives the identity-verification wizard.
type KYCService interface {
	Get(ctx context.Context, userID uuid.UUID) (*domain.KYCData, error)
	// UpdateData merges a partial field set into the record. A phone change
	// always clears the phone-verified flag.
	UpdateData(ctx context.Context, userID uuid.UUID, update KYCUpdate) (*domain.KYCData, error)
	// Continue advances the wizard iff the current step is complete.
	Continue(ctx context.Context, userID uuid.UUID) (*domain.KYCData, error)
	// Back moves one step backward unconditionally.
	Back(ctx context.Context, userID uuid.UUID) (*domain.KYCData, error)
	RequestPhoneCode(ctx context.Context, userID uuid.UUID) error
	VerifyPhone(ctx context.Context, userID uuid.UUID, code string) (*domain.KYCData, error)
	Submit(ctx context.Context, userID uuid.UUID) (*domain.KYCData, error)
}

// KYCUpdate is a partial field set; nil means "leave unchanged".
type KYCUpdate struct {
	FirstName       *string
	LastName        *string
	DateOfBirth     *string
	Phone           *string
	Address         *string
	City            *string
	PostalCode      *string
	Country         *string
	DocumentType    *string
	DocumentURL     *string
	SelfieURL       *string
	AddressProofURL *string
}

// MessageService handles the transaction chat thread.
type MessageService interface {
	Post(ctx context.Context, transactionID uuid.UUID, senderID uuid.UUID, body string) (*domain.Message, error)
	List(ctx context.Context, transactionID uuid.UUID, actorID uuid.UUID, isAdmin bool) ([]domain.Message, error)
}

// AdminService is the administrative surface: listings with filter and
// pagination plus the moderation mutations.
type AdminService interface {
	ListUsers(ctx context.Context, params UserListParams) ([]domain.User, int64, error)
	ListTransactions(ctx context.Context, params TransactionListParams) ([]domain.Transaction, int64, error)
	ListKYCSubmissions(ctx context.Context, params KYCListParams) ([]domain.KYCData, int64, error)
	SuspendUser(ctx context.Context, userID uuid.UUID) error
	ActivateUser(ctx context.Context, userID uuid.UUID) error
	VerifyKYC(ctx context.Context, userID uuid.UUID, note string) error
	RejectKYC(ctx context.Context, userID uuid.UUID, reason string) error
	// OverrideTransactionStatus applies the same transition guard as the
	// party-facing call.
	OverrideTransactionStatus(ctx context.Context, id uuid.UUID, status domain.TransactionStatus) (*domain.Transaction, error)
	DeleteMessage(ctx context.Context, id uuid.UUID) error
}

// AuditService records audited actions (fire-and-forget).
type AuditService interface {
	Log(ctx context.Context, entry *domain.AuditLog)
}
