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

// UserRepo implements ports.UserRepository.
type UserRepo struct {
	pool Pool
}

// NewUserRepo creates a new UserRepo.
func NewUserRepo(pool Pool) *UserRepo {
	return &UserRepo{pool: pool}
}

const userColumns = `id, username, password_hash, first_name, last_name, phone, role, status, kyc_status,
	rating, completed_swaps, success_rate, badges, preferred_currencies, preferred_methods, language,
	created_at, updated_at`

// Create inserts a new user into the database.
func (r *UserRepo) Create(ctx context.Context, u *domain.User) error {
	query := `INSERT INTO users (` + userColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)`

	_, err := r.pool.Exec(ctx, query,
		u.ID, u.Username, u.PasswordHash, u.FirstName, u.LastName, u.Phone,
		u.Role, u.Status, u.KYCStatus,
		u.Rating, u.CompletedSwaps, u.SuccessRate,
		u.Badges, u.PreferredCurrencies, u.PreferredMethods, u.Language,
		u.CreatedAt, u.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

// GetByID fetches a user by its UUID.
func (r *UserRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return r.scanUser(r.pool.QueryRow(ctx, query, id))
}

// GetByUsername fetches a user by username.
func (r *UserRepo) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE username = $1`
	return r.scanUser(r.pool.QueryRow(ctx, query, username))
}

// Update updates the mutable profile and reputation fields.
func (r *UserRepo) Update(ctx context.Context, u *domain.User) error {
	query := `UPDATE users
		SET first_name=$1, last_name=$2, phone=$3, rating=$4, completed_swaps=$5, success_rate=$6,
			badges=$7, preferred_currencies=$8, preferred_methods=$9, language=$10, updated_at=NOW()
		WHERE id=$11`
	_, err := r.pool.Exec(ctx, query,
		u.FirstName, u.LastName, u.Phone, u.Rating, u.CompletedSwaps, u.SuccessRate,
		u.Badges, u.PreferredCurrencies, u.PreferredMethods, u.Language, u.ID,
	)
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	return nil
}

// SetStatus changes the account status (suspend/activate).
func (r *UserRepo) SetStatus(ctx context.Context, id uuid.UUID, status domain.UserStatus) error {
	query := `UPDATE users SET status = $1, updated_at = NOW() WHERE id = $2`

	tag, err := r.pool.Exec(ctx, query, status, id)
	if err != nil {
		return fmt.Errorf("set user status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("user not found: %s", id)
	}
	return nil
}

// SetKYCStatus mirrors a KYC decision onto the user record inside the given
// database transaction.
func (r *UserRepo) SetKYCStatus(ctx context.Context, tx pgx.Tx, id uuid.UUID, status domain.KYCStatus) error {
	query := `UPDATE users SET kyc_status = $1, updated_at = NOW() WHERE id = $2`

	tag, err := tx.Exec(ctx, query, status, id)
	if err != nil {
		return fmt.Errorf("set user kyc status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("user not found: %s", id)
	}
	return nil
}

// List fetches users with filtering and pagination.
func (r *UserRepo) List(ctx context.Context, params ports.UserListParams) ([]domain.User, int64, error) {
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

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM users %s", where)
	var total int64
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count users: %w", err)
	}

	offset := (params.Page - 1) * params.PageSize
	dataQuery := fmt.Sprintf(`SELECT `+userColumns+` FROM users %s ORDER BY created_at DESC LIMIT $%d OFFSET $%d`,
		where, argIdx, argIdx+1)
	args = append(args, params.PageSize, offset)

	rows, err := r.pool.Query(ctx, dataQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		u := domain.User{}
		err := rows.Scan(
			&u.ID, &u.Username, &u.PasswordHash, &u.FirstName, &u.LastName, &u.Phone,
			&u.Role, &u.Status, &u.KYCStatus,
			&u.Rating, &u.CompletedSwaps, &u.SuccessRate,
			&u.Badges, &u.PreferredCurrencies, &u.PreferredMethods, &u.Language,
			&u.CreatedAt, &u.UpdatedAt,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("scan user row: %w", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate user rows: %w", err)
	}
	return users, total, nil
}

// scanUser is a helper to scan a single row into a User.
func (r *UserRepo) scanUser(row pgx.Row) (*domain.User, error) {
	u := &domain.User{}
	err := row.Scan(
		&u.ID, &u.Username, &u.PasswordHash, &u.FirstName, &u.LastName, &u.Phone,
		&u.Role, &u.Status, &u.KYCStatus,
		&u.Rating, &u.CompletedSwaps, &u.SuccessRate,
		&u.Badges, &u.PreferredCurrencies, &u.PreferredMethods, &u.Language,
		&u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan user: %w", err)
	}
	return u, nil
}
