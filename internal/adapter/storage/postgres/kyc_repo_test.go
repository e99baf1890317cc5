package postgres

import (
	"context"
	"strings"
	"testing"
	"time"

	"swapmarket/internal/core/domain"

	"github.com/google/uuid"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeEncryption is a reversible stand-in for the AES service.
type fakeEncryption struct{}

func (fakeEncryption) Encrypt(plain string) (string, error) { return "enc:" + plain, nil }
func (fakeEncryption) Decrypt(cipher string) (string, error) {
	return strings.TrimPrefix(cipher, "enc:"), nil
}

func newTestKYC() *domain.KYCData {
	now := time.Now().UTC().Truncate(time.Microsecond)
	return &domain.KYCData{
		UserID:        uuid.New(),
		FirstName:     "Marie",
		LastName:      "Dupont",
		DateOfBirth:   "1990-04-12",
		Phone:         "+237650000001",
		PhoneVerified: true,
		Address:       "12 Rue des Manguiers",
		City:          "Douala",
		PostalCode:    "00237",
		Country:       "CM",
		DocumentType:  "PASSPORT",
		DocumentURL:   "https://cdn.example.com/doc.jpg",
		SelfieURL:     "https://cdn.example.com/selfie.jpg",
		Status:        domain.KYCStatusNotVerified,
		Step:          domain.KYCStepAddressProof,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

func kycColumnNames() []string {
	return []string{"user_id", "first_name", "last_name", "date_of_birth", "phone_enc", "phone_verified",
		"address", "city", "postal_code", "country", "document_type", "document_url_enc", "selfie_url_enc", "address_proof_url_enc",
		"status", "step", "submitted_at", "verified_at", "rejection_reason", "created_at", "updated_at"}
}

func TestKYCRepo_Save_EncryptsProtectedFields(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewKYCRepo(mock, fakeEncryption{})
	k := newTestKYC()

	mock.ExpectExec("INSERT INTO kyc_records").
		WithArgs(k.UserID, k.FirstName, k.LastName, k.DateOfBirth, "enc:"+k.Phone, k.PhoneVerified,
			k.Address, k.City, k.PostalCode, k.Country, k.DocumentType,
			"enc:"+k.DocumentURL, "enc:"+k.SelfieURL, "",
			k.Status, k.Step, k.SubmittedAt, k.VerifiedAt, k.RejectionReason, k.CreatedAt, k.UpdatedAt).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err = repo.Save(context.Background(), k)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestKYCRepo_Get_DecryptsProtectedFields(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewKYCRepo(mock, fakeEncryption{})
	k := newTestKYC()

	row := pgxmock.NewRows(kycColumnNames()).AddRow(
		k.UserID, k.FirstName, k.LastName, k.DateOfBirth, "enc:"+k.Phone, k.PhoneVerified,
		k.Address, k.City, k.PostalCode, k.Country, k.DocumentType,
		"enc:"+k.DocumentURL, "enc:"+k.SelfieURL, "",
		k.Status, k.Step, k.SubmittedAt, k.VerifiedAt, k.RejectionReason, k.CreatedAt, k.UpdatedAt,
	)

	mock.ExpectQuery("SELECT .+ FROM kyc_records WHERE user_id").
		WithArgs(k.UserID).
		WillReturnRows(row)

	result, err := repo.Get(context.Background(), k.UserID)
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, k.Phone, result.Phone)
	assert.Equal(t, k.DocumentURL, result.DocumentURL)
	assert.Equal(t, k.SelfieURL, result.SelfieURL)
	assert.Empty(t, result.AddressProofURL)
	assert.Equal(t, k.Step, result.Step)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestKYCRepo_Get_NotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewKYCRepo(mock, fakeEncryption{})
	id := uuid.New()

	mock.ExpectQuery("SELECT .+ FROM kyc_records WHERE user_id").
		WithArgs(id).
		WillReturnRows(pgxmock.NewRows(kycColumnNames()))

	result, err := repo.Get(context.Background(), id)
	require.NoError(t, err)
	assert.Nil(t, result)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestKYCRepo_SetSubmitted(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewKYCRepo(mock, fakeEncryption{})
	id := uuid.New()
	submittedAt := time.Now().UTC().Truncate(time.Microsecond)

	mock.ExpectBegin()
	tx, err := mock.Begin(context.Background())
	require.NoError(t, err)

	mock.ExpectExec("UPDATE kyc_records SET status").
		WithArgs(domain.KYCStatusPending, domain.KYCStepReview, submittedAt, submittedAt, id).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	err = repo.SetSubmitted(context.Background(), tx, id, submittedAt)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestKYCRepo_SetSubmitted_MissingRecord(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewKYCRepo(mock, fakeEncryption{})
	id := uuid.New()
	submittedAt := time.Now().UTC()

	mock.ExpectBegin()
	tx, err := mock.Begin(context.Background())
	require.NoError(t, err)

	mock.ExpectExec("UPDATE kyc_records SET status").
		WithArgs(domain.KYCStatusPending, domain.KYCStepReview, submittedAt, submittedAt, id).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err = repo.SetSubmitted(context.Background(), tx, id, submittedAt)
	assert.Error(t, err)
}

func TestKYCRepo_SetDecision_Verified(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewKYCRepo(mock, fakeEncryption{})
	id := uuid.New()
	decidedAt := time.Now().UTC().Truncate(time.Microsecond)

	mock.ExpectBegin()
	tx, err := mock.Begin(context.Background())
	require.NoError(t, err)

	mock.ExpectExec("UPDATE kyc_records SET status").
		WithArgs(domain.KYCStatusVerified, (*string)(nil), &decidedAt, decidedAt, id).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	err = repo.SetDecision(context.Background(), tx, id, domain.KYCStatusVerified, nil, decidedAt)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
