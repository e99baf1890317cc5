package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"swapmarket/internal/core/domain"
	"swapmarket/internal/core/ports"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// KYCRepo implements ports.KYCRepository. The phone number and document
// URLs are encrypted at rest; all other fields are stored as-is.
type KYCRepo struct {
	pool Pool
	enc  ports.EncryptionService
}

// NewKYCRepo creates a new KYCRepo.
func NewKYCRepo(pool Pool, enc ports.EncryptionService) *KYCRepo {
	return &KYCRepo{pool: pool, enc: enc}
}

const kycColumns = `user_id, first_name, last_name, date_of_birth, phone_enc, phone_verified,
	address, city, postal_code, country, document_type, document_url_enc, selfie_url_enc, address_proof_url_enc,
	status, step, submitted_at, verified_at, rejection_reason, created_at, updated_at`

// Get fetches the KYC record for a user, decrypting protected fields.
// Returns nil when the user has no record yet.
func (r *KYCRepo) Get(ctx context.Context, userID uuid.UUID) (*domain.KYCData, error) {
	query := `SELECT ` + kycColumns + ` FROM kyc_records WHERE user_id = $1`

	k := &domain.KYCData{}
	var phoneEnc, docEnc, selfieEnc, proofEnc string
	err := r.pool.QueryRow(ctx, query, userID).Scan(
		&k.UserID, &k.FirstName, &k.LastName, &k.DateOfBirth, &phoneEnc, &k.PhoneVerified,
		&k.Address, &k.City, &k.PostalCode, &k.Country, &k.DocumentType, &docEnc, &selfieEnc, &proofEnc,
		&k.Status, &k.Step, &k.SubmittedAt, &k.VerifiedAt, &k.RejectionReason, &k.CreatedAt, &k.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get kyc record: %w", err)
	}

	if k.Phone, err = r.decryptField(phoneEnc); err != nil {
		return nil, fmt.Errorf("decrypt kyc phone: %w", err)
	}
	if k.DocumentURL, err = r.decryptField(docEnc); err != nil {
		return nil, fmt.Errorf("decrypt kyc document url: %w", err)
	}
	if k.SelfieURL, err = r.decryptField(selfieEnc); err != nil {
		return nil, fmt.Errorf("decrypt kyc selfie url: %w", err)
	}
	if k.AddressProofURL, err = r.decryptField(proofEnc); err != nil {
		return nil, fmt.Errorf("decrypt kyc address proof url: %w", err)
	}
	return k, nil
}

// Save upserts the KYC record, encrypting protected fields.
func (r *KYCRepo) Save(ctx context.Context, k *domain.KYCData) error {
	phoneEnc, err := r.encryptField(k.Phone)
	if err != nil {
		return fmt.Errorf("encrypt kyc phone: %w", err)
	}
	docEnc, err := r.encryptField(k.DocumentURL)
	if err != nil {
		return fmt.Errorf("encrypt kyc document url: %w", err)
	}
	selfieEnc, err := r.encryptField(k.SelfieURL)
	if err != nil {
		return fmt.Errorf("encrypt kyc selfie url: %w", err)
	}
	proofEnc, err := r.encryptField(k.AddressProofURL)
	if err != nil {
		return fmt.Errorf("encrypt kyc address proof url: %w", err)
	}

	query := `INSERT INTO kyc_records (` + kycColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21)
		ON CONFLICT (user_id) DO UPDATE SET
			first_name = EXCLUDED.first_name,
			last_name = EXCLUDED.last_name,
			date_of_birth = EXCLUDED.date_of_birth,
			phone_enc = EXCLUDED.phone_enc,
			phone_verified = EXCLUDED.phone_verified,
			address = EXCLUDED.address,
			city = EXCLUDED.city,
			postal_code = EXCLUDED.postal_code,
			country = EXCLUDED.country,
			document_type = EXCLUDED.document_type,
			document_url_enc = EXCLUDED.document_url_enc,
			selfie_url_enc = EXCLUDED.selfie_url_enc,
			address_proof_url_enc = EXCLUDED.address_proof_url_enc,
			status = EXCLUDED.status,
			step = EXCLUDED.step,
			submitted_at = EXCLUDED.submitted_at,
			verified_at = EXCLUDED.verified_at,
			rejection_reason = EXCLUDED.rejection_reason,
			updated_at = EXCLUDED.updated_at`

	_, err = r.pool.Exec(ctx, query,
		k.UserID, k.FirstName, k.LastName, k.DateOfBirth, phoneEnc, k.PhoneVerified,
		k.Address, k.City, k.PostalCode, k.Country, k.DocumentType, docEnc, selfieEnc, proofEnc,
		k.Status, k.Step, k.SubmittedAt, k.VerifiedAt, k.RejectionReason, k.CreatedAt, k.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert kyc record: %w", err)
	}
	return nil
}

// SetSubmitted moves the record into review inside the given database
// transaction, clearing any earlier rejection reason.
func (r *KYCRepo) SetSubmitted(ctx context.Context, tx pgx.Tx, userID uuid.UUID, submittedAt time.Time) error {
	query := `UPDATE kyc_records SET status = $1, step = $2, submitted_at = $3, rejection_reason = NULL, updated_at = $4 WHERE user_id = $5`

	tag, err := tx.Exec(ctx, query, domain.KYCStatusPending, domain.KYCStepReview, submittedAt, submittedAt, userID)
	if err != nil {
		return fmt.Errorf("set kyc submitted: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("kyc record not found: %s", userID)
	}
	return nil
}

// SetDecision applies an administrative verify/reject inside the given
// database transaction.
func (r *KYCRepo) SetDecision(ctx context.Context, tx pgx.Tx, userID uuid.UUID, status domain.KYCStatus, reason *string, decidedAt time.Time) error {
	query := `UPDATE kyc_records SET status = $1, rejection_reason = $2, verified_at = $3, updated_at = $4 WHERE user_id = $5`

	var verifiedAt *time.Time
	if status == domain.KYCStatusVerified {
		verifiedAt = &decidedAt
	}

	tag, err := tx.Exec(ctx, query, status, reason, verifiedAt, decidedAt, userID)
	if err != nil {
		return fmt.Errorf("set kyc decision: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("kyc record not found: %s", userID)
	}
	return nil
}

// List fetches KYC records with filtering and pagination. Protected fields
// stay encrypted in listings; administrators fetch single records to review.
func (r *KYCRepo) List(ctx context.Context, params ports.KYCListParams) ([]domain.KYCData, int64, error) {
	var conditions []string
	var args []any
	argIdx := 1

	if params.Status != nil {
		conditions = append(conditions, fmt.Sprintf("status = $%d", argIdx))
		args = append(args, *params.Status)
		argIdx++
	}

	where := ""
	if len(conditions) > 0 {
		where = "WHERE " + strings.Join(conditions, " AND ")
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM kyc_records %s", where)
	var total int64
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count kyc records: %w", err)
	}

	offset := (params.Page - 1) * params.PageSize
	dataQuery := fmt.Sprintf(`SELECT user_id, first_name, last_name, status, step, phone_verified,
		submitted_at, verified_at, rejection_reason, created_at, updated_at
		FROM kyc_records %s ORDER BY submitted_at DESC NULLS LAST, created_at DESC LIMIT $%d OFFSET $%d`,
		where, argIdx, argIdx+1)
	args = append(args, params.PageSize, offset)

	rows, err := r.pool.Query(ctx, dataQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list kyc records: %w", err)
	}
	defer rows.Close()

	var records []domain.KYCData
	for rows.Next() {
		k := domain.KYCData{}
		err := rows.Scan(
			&k.UserID, &k.FirstName, &k.LastName, &k.Status, &k.Step, &k.PhoneVerified,
			&k.SubmittedAt, &k.VerifiedAt, &k.RejectionReason, &k.CreatedAt, &k.UpdatedAt,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("scan kyc row: %w", err)
		}
		records = append(records, k)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate kyc rows: %w", err)
	}
	return records, total, nil
}

// encryptField encrypts non-empty values; blanks stay blank.
func (r *KYCRepo) encryptField(plain string) (string, error) {
	if plain == "" {
		return "", nil
	}
	return r.enc.Encrypt(plain)
}

func (r *KYCRepo) decryptField(cipher string) (string, error) {
	if cipher == "" {
		return "", nil
	}
	return r.enc.Decrypt(cipher)
}
