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

func newTestTransaction() *domain.Transaction {
	now := time.Now().UTC().Truncate(time.Microsecond)
	return &domain.Transaction{
		ID:      uuid.New(),
		OfferID: uuid.New(),
		PartyA: domain.PartySnapshot{
			UserID:         uuid.New(),
			Username:       "owner",
			Rating:         4.8,
			CompletedSwaps: 30,
			KYCStatus:      domain.KYCStatusVerified,
		},
		PartyB: domain.PartySnapshot{
			UserID:         uuid.New(),
			Username:       "acceptor",
			Rating:         4.1,
			CompletedSwaps: 5,
			KYCStatus:      domain.KYCStatusNotVerified,
		},
		GiveCurrency:  "EUR",
		GiveAmount:    500,
		GetCurrency:   "XAF",
		GetAmount:     328000,
		Rate:          656,
		PaymentMethod: "bank transfer",
		Status:        domain.TransactionStatusProposed,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

func transactionColumnNames() []string {
	return []string{"id", "offer_id",
		"party_a_user_id", "party_a_username", "party_a_rating", "party_a_completed_swaps", "party_a_kyc_status",
		"party_b_user_id", "party_b_username", "party_b_rating", "party_b_completed_swaps", "party_b_kyc_status",
		"give_currency", "give_amount", "get_currency", "get_amount", "rate", "payment_method",
		"status", "proof_url", "proof_submitted_at", "deadline", "created_at", "updated_at"}
}

func transactionRow(t *domain.Transaction) *pgxmock.Rows {
	return pgxmock.NewRows(transactionColumnNames()).AddRow(
		t.ID, t.OfferID,
		t.PartyA.UserID, t.PartyA.Username, t.PartyA.Rating, t.PartyA.CompletedSwaps, t.PartyA.KYCStatus,
		t.PartyB.UserID, t.PartyB.Username, t.PartyB.Rating, t.PartyB.CompletedSwaps, t.PartyB.KYCStatus,
		t.GiveCurrency, t.GiveAmount, t.GetCurrency, t.GetAmount, t.Rate, t.PaymentMethod,
		t.Status, t.ProofURL, t.ProofSubmittedAt, t.Deadline, t.CreatedAt, t.UpdatedAt,
	)
}

func TestTransactionRepo_Create(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewTransactionRepo(mock)
	txn := newTestTransaction()

	mock.ExpectExec("INSERT INTO transactions").
		WithArgs(txn.ID, txn.OfferID,
			txn.PartyA.UserID, txn.PartyA.Username, txn.PartyA.Rating, txn.PartyA.CompletedSwaps, txn.PartyA.KYCStatus,
			txn.PartyB.UserID, txn.PartyB.Username, txn.PartyB.Rating, txn.PartyB.CompletedSwaps, txn.PartyB.KYCStatus,
			txn.GiveCurrency, txn.GiveAmount, txn.GetCurrency, txn.GetAmount, txn.Rate, txn.PaymentMethod,
			txn.Status, txn.ProofURL, txn.ProofSubmittedAt, txn.Deadline, txn.CreatedAt, txn.UpdatedAt).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err = repo.Create(context.Background(), txn)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTransactionRepo_GetByID(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewTransactionRepo(mock)
	txn := newTestTransaction()

	mock.ExpectQuery("SELECT .+ FROM transactions WHERE id").
		WithArgs(txn.ID).
		WillReturnRows(transactionRow(txn))

	result, err := repo.GetByID(context.Background(), txn.ID)
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, txn.ID, result.ID)
	assert.Equal(t, txn.PartyA.Username, result.PartyA.Username)
	assert.Equal(t, txn.Rate, result.Rate)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTransactionRepo_GetByID_NotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewTransactionRepo(mock)
	id := uuid.New()

	mock.ExpectQuery("SELECT .+ FROM transactions WHERE id").
		WithArgs(id).
		WillReturnRows(pgxmock.NewRows(transactionColumnNames()))

	result, err := repo.GetByID(context.Background(), id)
	require.NoError(t, err)
	assert.Nil(t, result)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTransactionRepo_UpdateStatus(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewTransactionRepo(mock)
	txn := newTestTransaction()
	txn.Status = domain.TransactionStatusAccepted
	txn.UpdatedAt = time.Now().UTC().Truncate(time.Microsecond)

	mock.ExpectExec("UPDATE transactions SET status").
		WithArgs(txn.Status, txn.ProofURL, txn.ProofSubmittedAt, txn.UpdatedAt, txn.ID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	err = repo.UpdateStatus(context.Background(), txn)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTransactionRepo_UpdateStatus_NotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewTransactionRepo(mock)
	txn := newTestTransaction()

	mock.ExpectExec("UPDATE transactions SET status").
		WithArgs(txn.Status, txn.ProofURL, txn.ProofSubmittedAt, txn.UpdatedAt, txn.ID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err = repo.UpdateStatus(context.Background(), txn)
	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTransactionRepo_List_ByParty(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewTransactionRepo(mock)
	txn := newTestTransaction()
	userID := txn.PartyB.UserID

	mock.ExpectQuery("SELECT COUNT").
		WithArgs(userID).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(int64(1)))
	mock.ExpectQuery("SELECT .+ FROM transactions WHERE").
		WithArgs(userID, 10, 0).
		WillReturnRows(transactionRow(txn))

	txns, total, err := repo.List(context.Background(), ports.TransactionListParams{
		UserID:   &userID,
		Page:     1,
		PageSize: 10,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, txns, 1)
	assert.Equal(t, txn.ID, txns[0].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}
