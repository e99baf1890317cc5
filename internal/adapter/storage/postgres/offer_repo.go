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

// OfferRepo implements ports.OfferRepository.
type OfferRepo struct {
	pool Pool
}

// NewOfferRepo creates a new OfferRepo.
func NewOfferRepo(pool Pool) *OfferRepo {
	return &OfferRepo{pool: pool}
}

const offerColumns = `id, user_id, give_currency, give_amount, get_currency, get_amount,
	payment_methods, location, comment, created_at, expires_at`

// Create inserts a new offer into the database.
func (r *OfferRepo) Create(ctx context.Context, o *domain.Offer) error {
	query := `INSERT INTO offers (` + offerColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	_, err := r.pool.Exec(ctx, query,
		o.ID, o.UserID, o.GiveCurrency, o.GiveAmount, o.GetCurrency, o.GetAmount,
		o.PaymentMethods, o.Location, o.Comment, o.CreatedAt, o.ExpiresAt,
	)
	if err != nil {
		return fmt.Errorf("insert offer: %w", err)
	}
	return nil
}

// GetByID fetches an offer by its UUID.
func (r *OfferRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Offer, error) {
	query := `SELECT ` + offerColumns + ` FROM offers WHERE id = $1`

	o := &domain.Offer{}
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&o.ID, &o.UserID, &o.GiveCurrency, &o.GiveAmount, &o.GetCurrency, &o.GetAmount,
		&o.PaymentMethods, &o.Location, &o.Comment, &o.CreatedAt, &o.ExpiresAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get offer by id: %w", err)
	}
	return o, nil
}

// List fetches unexpired offers with filtering and pagination.
func (r *OfferRepo) List(ctx context.Context, params ports.OfferListParams) ([]domain.Offer, int64, error) {
	var conditions []string
	var args []any
	argIdx := 1

	conditions = append(conditions, "expires_at > NOW()")

	if params.GiveCurrency != nil {
		conditions = append(conditions, fmt.Sprintf("give_currency = $%d", argIdx))
		args = append(args, strings.ToUpper(*params.GiveCurrency))
		argIdx++
	}
	if params.GetCurrency != nil {
		conditions = append(conditions, fmt.Sprintf("get_currency = $%d", argIdx))
		args = append(args, strings.ToUpper(*params.GetCurrency))
		argIdx++
	}
	if params.UserID != nil {
		conditions = append(conditions, fmt.Sprintf("user_id = $%d", argIdx))
		args = append(args, *params.UserID)
		argIdx++
	}

	where := "WHERE " + strings.Join(conditions, " AND ")

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM offers %s", where)
	var total int64
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count offers: %w", err)
	}

	offset := (params.Page - 1) * params.PageSize
	dataQuery := fmt.Sprintf(`SELECT `+offerColumns+` FROM offers %s ORDER BY created_at DESC LIMIT $%d OFFSET $%d`,
		where, argIdx, argIdx+1)
	args = append(args, params.PageSize, offset)

	rows, err := r.pool.Query(ctx, dataQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list offers: %w", err)
	}
	defer rows.Close()

	var offers []domain.Offer
	for rows.Next() {
		o := domain.Offer{}
		err := rows.Scan(
			&o.ID, &o.UserID, &o.GiveCurrency, &o.GiveAmount, &o.GetCurrency, &o.GetAmount,
			&o.PaymentMethods, &o.Location, &o.Comment, &o.CreatedAt, &o.ExpiresAt,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("scan offer row: %w", err)
		}
		offers = append(offers, o)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate offer rows: %w", err)
	}
	return offers, total, nil
}
