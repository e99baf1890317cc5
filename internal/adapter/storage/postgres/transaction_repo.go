package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"swapmarket/internal/core/domain"
	"swapmarket/internal/core/ports"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// TransactionRepo implements ports.TransactionRepository. Party snapshots
// are flattened into columns so a transaction never reads the live user row.
type TransactionRepo struct {
	pool Pool
}

// NewTransactionRepo creates a new TransactionRepo.
func NewTransactionRepo(pool Pool) *TransactionRepo {
	return &TransactionRepo{pool: pool}
}

const transactionColumns = `id, offer_id,
	party_a_user_id, party_a_username, party_a_rating, party_a_completed_swaps, party_a_kyc_status,
	party_b_user_id, party_b_username, party_b_rating, party_b_completed_swaps, party_b_kyc_status,
	give_currency, give_amount, get_currency, get_amount, rate, payment_method,
	status, proof_url, proof_submitted_at, deadline, created_at, updated_at`

// Create inserts a new transaction.
func (r *TransactionRepo) Create(ctx context.Context, t *domain.Transaction) error {
	query := `INSERT INTO transactions (` + transactionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22, $23, $24)`

	_, err := r.pool.Exec(ctx, query,
		t.ID, t.OfferID,
		t.PartyA.UserID, t.PartyA.Username, t.PartyA.Rating, t.PartyA.CompletedSwaps, t.PartyA.KYCStatus,
		t.PartyB.UserID, t.PartyB.Username, t.PartyB.Rating, t.PartyB.CompletedSwaps, t.PartyB.KYCStatus,
		t.GiveCurrency, t.GiveAmount, t.GetCurrency, t.GetAmount, t.Rate, t.PaymentMethod,
		t.Status, t.ProofURL, t.ProofSubmittedAt, t.Deadline, t.CreatedAt, t.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert transaction: %w", err)
	}
	return nil
}

// GetByID fetches a transaction by UUID.
func (r *TransactionRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE id = $1`
	return r.scanTransaction(r.pool.QueryRow(ctx, query, id))
}

// UpdateStatus persists a status change together with the proof fields and
// the updated-at stamp.
func (r *TransactionRepo) UpdateStatus(ctx context.Context, t *domain.Transaction) error {
	query := `UPDATE transactions SET status = $1, proof_url = $2, proof_submitted_at = $3, updated_at = $4 WHERE id = $5`

	tag, err := r.pool.Exec(ctx, query, t.Status, t.ProofURL, t.ProofSubmittedAt, t.UpdatedAt, t.ID)
	if err != nil {
		return fmt.Errorf("update transaction status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("transaction not found: %s", t.ID)
	}
	return nil
}

// List fetches transactions most-recent-first with filtering and pagination.
func (r *TransactionRepo) List(ctx context.Context, params ports.TransactionListParams) ([]domain.Transaction, int64, error) {
	var conditions []string
	var args []any
	argIdx := 1

	if params.UserID != nil {
		conditions = append(conditions, fmt.Sprintf("(party_a_user_id = $%d OR party_b_user_id = $%d)", argIdx, argIdx))
		args = append(args, *params.UserID)
		argIdx++
	}
	if params.Status != nil {
		conditions = append(conditions, fmt.Sprintf("status = $%d", argIdx))
		args = append(args, *params.Status)
		argIdx++
	}

	where := ""
	if len(conditions) > 0 {
		where = "WHERE " + strings.Join(conditions, " AND ")
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM transactions %s", where)
	var total int64
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count transactions: %w", err)
	}

	offset := (params.Page - 1) * params.PageSize
	dataQuery := fmt.Sprintf(`SELECT `+transactionColumns+` FROM transactions %s ORDER BY created_at DESC LIMIT $%d OFFSET $%d`,
		where, argIdx, argIdx+1)
	args = append(args, params.PageSize, offset)

	rows, err := r.pool.Query(ctx, dataQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	var txns []domain.Transaction
	for rows.Next() {
		t := domain.Transaction{}
		err := rows.Scan(
			&t.ID, &t.OfferID,
			&t.PartyA.UserID, &t.PartyA.Username, &t.PartyA.Rating, &t.PartyA.CompletedSwaps, &t.PartyA.KYCStatus,
			&t.PartyB.UserID, &t.PartyB.Username, &t.PartyB.Rating, &t.PartyB.CompletedSwaps, &t.PartyB.KYCStatus,
			&t.GiveCurrency, &t.GiveAmount, &t.GetCurrency, &t.GetAmount, &t.Rate, &t.PaymentMethod,
			&t.Status, &t.ProofURL, &t.ProofSubmittedAt, &t.Deadline, &t.CreatedAt, &t.UpdatedAt,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("scan transaction row: %w", err)
		}
		txns = append(txns, t)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate transaction rows: %w", err)
	}
	return txns, total, nil
}

// scanTransaction is a helper to scan a single row into a Transaction.
func (r *TransactionRepo) scanTransaction(row pgx.Row) (*domain.Transaction, error) {
	t := &domain.Transaction{}
	err := row.Scan(
		&t.ID, &t.OfferID,
		&t.PartyA.UserID, &t.PartyA.Username, &t.PartyA.Rating, &t.PartyA.CompletedSwaps, &t.PartyA.KYCStatus,
		&t.PartyB.UserID, &t.PartyB.Username, &t.PartyB.Rating, &t.PartyB.CompletedSwaps, &t.PartyB.KYCStatus,
		&t.GiveCurrency, &t.GiveAmount, &t.GetCurrency, &t.GetAmount, &t.Rate, &t.PaymentMethod,
		&t.Status, &t.ProofURL, &t.ProofSubmittedAt, &t.Deadline, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan transaction: %w", err)
	}
	return t, nil
}
