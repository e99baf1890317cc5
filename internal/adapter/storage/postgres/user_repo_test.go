package postgres

import (
	"context"
	"testing"
	"time"

	"swapmarket/internal/core/domain"
	"swapmarket/internal/core/ports"

	"github.com/google/uuid"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestUser() *domain.User {
	return &domain.User{
		ID:                  uuid.New(),
		Username:            "marie_d",
		PasswordHash:        "$argon2id$v=19$m=65536,t=1,p=4$salt$hash",
		FirstName:           "Marie",
		LastName:            "Dupont",
		Phone:               "+237650000001",
		Role:                domain.UserRoleMember,
		Status:              domain.UserStatusActive,
		KYCStatus:           domain.KYCStatusNotVerified,
		Rating:              4.5,
		CompletedSwaps:      12,
		SuccessRate:         0.92,
		Badges:              []string{"TRUSTED"},
		PreferredCurrencies: []string{"EUR", "XAF"},
		PreferredMethods:    []string{"bank transfer"},
		Language:            "fr",
		CreatedAt:           time.Now().UTC().Truncate(time.Microsecond),
		UpdatedAt:           time.Now().UTC().Truncate(time.Microsecond),
	}
}

func userColumnNames() []string {
	return []string{"id", "username", "password_hash", "first_name", "last_name", "phone", "role", "status", "kyc_status",
		"rating", "completed_swaps", "success_rate", "badges", "preferred_currencies", "preferred_methods", "language",
		"created_at", "updated_at"}
}

func userRow(u *domain.User) *pgxmock.Rows {
	return pgxmock.NewRows(userColumnNames()).AddRow(
		u.ID, u.Username, u.PasswordHash, u.FirstName, u.LastName, u.Phone,
		u.Role, u.Status, u.KYCStatus,
		u.Rating, u.CompletedSwaps, u.SuccessRate,
		u.Badges, u.PreferredCurrencies, u.PreferredMethods, u.Language,
		u.CreatedAt, u.UpdatedAt,
	)
}

func TestUserRepo_Create(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewUserRepo(mock)
	u := newTestUser()

	mock.ExpectExec("INSERT INTO users").
		WithArgs(u.ID, u.Username, u.PasswordHash, u.FirstName, u.LastName, u.Phone,
			u.Role, u.Status, u.KYCStatus,
			u.Rating, u.CompletedSwaps, u.SuccessRate,
			u.Badges, u.PreferredCurrencies, u.PreferredMethods, u.Language,
			u.CreatedAt, u.UpdatedAt).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err = repo.Create(context.Background(), u)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepo_GetByID(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewUserRepo(mock)
	u := newTestUser()

	mock.ExpectQuery("SELECT .+ FROM users WHERE id").
		WithArgs(u.ID).
		WillReturnRows(userRow(u))

	result, err := repo.GetByID(context.Background(), u.ID)
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, u.ID, result.ID)
	assert.Equal(t, u.Username, result.Username)
	assert.Equal(t, u.KYCStatus, result.KYCStatus)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepo_GetByUsername_NotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewUserRepo(mock)

	mock.ExpectQuery("SELECT .+ FROM users WHERE username").
		WithArgs("ghost").
		WillReturnRows(pgxmock.NewRows(userColumnNames()))

	result, err := repo.GetByUsername(context.Background(), "ghost")
	require.NoError(t, err)
	assert.Nil(t, result)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepo_SetStatus(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewUserRepo(mock)
	id := uuid.New()

	mock.ExpectExec("UPDATE users SET status").
		WithArgs(domain.UserStatusSuspended, id).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	err = repo.SetStatus(context.Background(), id, domain.UserStatusSuspended)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepo_SetStatus_NotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewUserRepo(mock)
	id := uuid.New()

	mock.ExpectExec("UPDATE users SET status").
		WithArgs(domain.UserStatusActive, id).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err = repo.SetStatus(context.Background(), id, domain.UserStatusActive)
	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepo_List_WithStatusFilter(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewUserRepo(mock)
	u := newTestUser()
	status := domain.UserStatusActive

	mock.ExpectQuery("SELECT COUNT").
		WithArgs(status).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(int64(1)))
	mock.ExpectQuery("SELECT .+ FROM users WHERE status").
		WithArgs(status, 20, 0).
		WillReturnRows(userRow(u))

	users, total, err := repo.List(context.Background(), ports.UserListParams{
		Status:   &status,
		Page:     1,
		PageSize: 20,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, users, 1)
	assert.Equal(t, u.Username, users[0].Username)
	assert.NoError(t, mock.ExpectationsWereMet())
}
