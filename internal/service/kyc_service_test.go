package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"swapmarket/internal/core/domain"
	"swapmarket/internal/core/ports"
	"swapmarket/internal/core/ports/mocks"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type kycTestDeps struct {
	svc        *KYCServiceImpl
	kycRepo    *mocks.MockKYCRepository
	userRepo   *mocks.MockUserRepository
	transactor *mocks.MockDBTransactor
	phoneCodes *mocks.MockPhoneCodeStore
	notifier   *mocks.MockNotifier
	ctrl       *gomock.Controller
}

func setupKYCService(t *testing.T) *kycTestDeps {
	ctrl := gomock.NewController(t)
	d := &kycTestDeps{
		kycRepo:    mocks.NewMockKYCRepository(ctrl),
		userRepo:   mocks.NewMockUserRepository(ctrl),
		transactor: mocks.NewMockDBTransactor(ctrl),
		phoneCodes: mocks.NewMockPhoneCodeStore(ctrl),
		notifier:   mocks.NewMockNotifier(ctrl),
		ctrl:       ctrl,
	}
	d.svc = NewKYCService(
		d.kycRepo, d.userRepo, d.transactor, d.phoneCodes, d.notifier,
		NewAuditService(nil, zerolog.Nop()), 5*time.Minute,
	)
	return d
}

// filledKYC returns a record with every data-collection step complete.
func filledKYC(userID uuid.UUID) *domain.KYCData {
	rec := domain.NewKYCData(userID, time.Now().UTC())
	rec.FirstName = "Marie"
	rec.LastName = "Dubois"
	rec.Phone = "+33612345678"
	rec.PhoneVerified = true
	rec.Address = "12 rue des Lilas"
	rec.City = "Lyon"
	rec.PostalCode = "69003"
	rec.Country = "FR"
	rec.DocumentType = "passport"
	rec.DocumentURL = "https://cdn.example.com/doc.jpg"
	rec.SelfieURL = "https://cdn.example.com/selfie.jpg"
	rec.AddressProofURL = "https://cdn.example.com/bill.pdf"
	return rec
}

func TestKYCService_Get_CreatesAndPrefills(t *testing.T) {
	d := setupKYCService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	userID := uuid.New()
	user := memberUser(userID, "marie_d")
	user.FirstName = "Marie"
	user.LastName = "Dubois"
	user.Phone = "+33612345678"

	d.kycRepo.EXPECT().Get(ctx, userID).Return(nil, nil)
	d.userRepo.EXPECT().GetByID(ctx, userID).Return(user, nil)
	d.kycRepo.EXPECT().Save(ctx, gomock.Any()).Return(nil)

	rec, err := d.svc.Get(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, domain.KYCStatusNotVerified, rec.Status)
	assert.Equal(t, domain.KYCStepPersonalInfo, rec.Step)
	assert.Equal(t, "Marie", rec.FirstName)
	assert.Equal(t, "+33612345678", rec.Phone)
	assert.False(t, rec.PhoneVerified)
}

func TestKYCService_Get_ReturnsExisting(t *testing.T) {
	d := setupKYCService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	userID := uuid.New()
	existing := filledKYC(userID)

	d.kycRepo.EXPECT().Get(ctx, userID).Return(existing, nil)

	rec, err := d.svc.Get(ctx, userID)
	require.NoError(t, err)
	assert.Same(t, existing, rec)
}

func TestKYCService_UpdateData_PhoneChangeClearsVerification(t *testing.T) {
	d := setupKYCService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	userID := uuid.New()
	rec := filledKYC(userID)
	require.True(t, rec.PhoneVerified)

	d.kycRepo.EXPECT().Get(ctx, userID).Return(rec, nil)
	var saved *domain.KYCData
	d.kycRepo.EXPECT().Save(ctx, gomock.Any()).DoAndReturn(
		func(_ context.Context, data *domain.KYCData) error {
			saved = data
			return nil
		})

	phone := " +33700000000 "
	updated, err := d.svc.UpdateData(ctx, userID, ports.KYCUpdate{Phone: &phone})
	require.NoError(t, err)

	assert.Equal(t, "+33700000000", updated.Phone)
	assert.False(t, updated.PhoneVerified)
	assert.False(t, saved.PhoneVerified)
}

func TestKYCService_UpdateData_NilFieldsUntouched(t *testing.T) {
	d := setupKYCService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	userID := uuid.New()
	rec := filledKYC(userID)

	d.kycRepo.EXPECT().Get(ctx, userID).Return(rec, nil)
	d.kycRepo.EXPECT().Save(ctx, gomock.Any()).Return(nil)

	city := "Marseille"
	updated, err := d.svc.UpdateData(ctx, userID, ports.KYCUpdate{City: &city})
	require.NoError(t, err)

	assert.Equal(t, "Marseille", updated.City)
	assert.Equal(t, "Marie", updated.FirstName)
	assert.True(t, updated.PhoneVerified) // phone not in the update
}

func TestKYCService_UpdateData_LockedWhilePending(t *testing.T) {
	d := setupKYCService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	userID := uuid.New()
	rec := filledKYC(userID)
	rec.Status = domain.KYCStatusPending

	d.kycRepo.EXPECT().Get(ctx, userID).Return(rec, nil)

	name := "Eve"
	_, err := d.svc.UpdateData(ctx, userID, ports.KYCUpdate{FirstName: &name})
	assert.Equal(t, "KYC_002", appErrCode(t, err))
}

func TestKYCService_Continue_BlockedOnIncompleteStep(t *testing.T) {
	d := setupKYCService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	userID := uuid.New()
	rec := domain.NewKYCData(userID, time.Now().UTC()) // personal info empty

	d.kycRepo.EXPECT().Get(ctx, userID).Return(rec, nil)

	_, err := d.svc.Continue(ctx, userID)
	assert.Equal(t, "KYC_001", appErrCode(t, err))
}

func TestKYCService_Continue_AdvancesWhenComplete(t *testing.T) {
	d := setupKYCService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	userID := uuid.New()
	rec := filledKYC(userID)
	rec.Step = domain.KYCStepDocumentSelection

	d.kycRepo.EXPECT().Get(ctx, userID).Return(rec, nil)
	d.kycRepo.EXPECT().Save(ctx, gomock.Any()).Return(nil)

	updated, err := d.svc.Continue(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, domain.KYCStepDocumentCapture, updated.Step)
}

func TestKYCService_Back_NeverGated(t *testing.T) {
	d := setupKYCService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	userID := uuid.New()
	rec := domain.NewKYCData(userID, time.Now().UTC())
	rec.Step = domain.KYCStepDocumentSelection // everything before it is blank

	d.kycRepo.EXPECT().Get(ctx, userID).Return(rec, nil)
	d.kycRepo.EXPECT().Save(ctx, gomock.Any()).Return(nil)

	updated, err := d.svc.Back(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, domain.KYCStepPhoneVerification, updated.Step)
}

func TestKYCService_Back_StopsAtFirstStep(t *testing.T) {
	d := setupKYCService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	userID := uuid.New()
	rec := domain.NewKYCData(userID, time.Now().UTC())

	d.kycRepo.EXPECT().Get(ctx, userID).Return(rec, nil)
	d.kycRepo.EXPECT().Save(ctx, gomock.Any()).Return(nil)

	updated, err := d.svc.Back(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, domain.KYCStepPersonalInfo, updated.Step)
}

func TestKYCService_RequestPhoneCode_Success(t *testing.T) {
	d := setupKYCService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	userID := uuid.New()
	rec := filledKYC(userID)

	d.kycRepo.EXPECT().Get(ctx, userID).Return(rec, nil)

	var stored string
	d.phoneCodes.EXPECT().Set(ctx, userID.String(), gomock.Any(), 5*time.Minute).DoAndReturn(
		func(_ context.Context, _ string, code string, _ time.Duration) error {
			stored = code
			return nil
		})
	d.notifier.EXPECT().Notify(ctx, gomock.Any()).Do(func(_ context.Context, n domain.Notification) {
		assert.Equal(t, domain.NotificationPhoneCode, n.Kind)
		assert.Equal(t, rec.Phone, n.Payload["phone"])
		assert.Equal(t, stored, n.Payload["code"])
	})

	err := d.svc.RequestPhoneCode(ctx, userID)
	require.NoError(t, err)
	assert.Len(t, stored, 6)
}

func TestKYCService_RequestPhoneCode_NoPhoneOnRecord(t *testing.T) {
	d := setupKYCService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	userID := uuid.New()
	rec := filledKYC(userID)
	rec.Phone = "  "

	d.kycRepo.EXPECT().Get(ctx, userID).Return(rec, nil)

	err := d.svc.RequestPhoneCode(ctx, userID)
	assert.Equal(t, "KYC_005", appErrCode(t, err))
}

func TestKYCService_VerifyPhone_Success(t *testing.T) {
	d := setupKYCService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	userID := uuid.New()
	rec := filledKYC(userID)
	rec.PhoneVerified = false

	d.kycRepo.EXPECT().Get(ctx, userID).Return(rec, nil)
	d.phoneCodes.EXPECT().Consume(ctx, userID.String(), "482913").Return(true, nil)
	d.kycRepo.EXPECT().Save(ctx, gomock.Any()).Return(nil)

	updated, err := d.svc.VerifyPhone(ctx, userID, " 482913 ")
	require.NoError(t, err)
	assert.True(t, updated.PhoneVerified)
}

func TestKYCService_VerifyPhone_WrongCode(t *testing.T) {
	d := setupKYCService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	userID := uuid.New()
	rec := filledKYC(userID)
	rec.PhoneVerified = false

	d.kycRepo.EXPECT().Get(ctx, userID).Return(rec, nil)
	d.phoneCodes.EXPECT().Consume(ctx, userID.String(), "000000").Return(false, nil)

	_, err := d.svc.VerifyPhone(ctx, userID, "000000")
	assert.Equal(t, "KYC_004", appErrCode(t, err))
	assert.False(t, rec.PhoneVerified)
}

func TestKYCService_Submit_Success(t *testing.T) {
	d := setupKYCService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	userID := uuid.New()
	rec := filledKYC(userID)
	rejectedNote := "blurry selfie"
	rec.Status = domain.KYCStatusRejected // resubmission after a rejection
	rec.RejectionReason = &rejectedNote

	d.kycRepo.EXPECT().Get(ctx, userID).Return(rec, nil)
	d.transactor.EXPECT().Begin(ctx).Return(&mockTx{}, nil)
	d.kycRepo.EXPECT().SetSubmitted(ctx, gomock.Any(), userID, gomock.Any()).Return(nil)
	d.userRepo.EXPECT().SetKYCStatus(ctx, gomock.Any(), userID, domain.KYCStatusPending).Return(nil)
	d.notifier.EXPECT().Notify(ctx, gomock.Any()).Do(func(_ context.Context, n domain.Notification) {
		assert.Equal(t, domain.NotificationKYCStatusChanged, n.Kind)
		assert.Equal(t, "PENDING", n.Payload["status"])
	})

	updated, err := d.svc.Submit(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, domain.KYCStatusPending, updated.Status)
	assert.Equal(t, domain.KYCStepReview, updated.Step)
	assert.NotNil(t, updated.SubmittedAt)
	assert.Nil(t, updated.RejectionReason)
}

func TestKYCService_Submit_MirrorFailureKeepsRecordSubmittable(t *testing.T) {
	d := setupKYCService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	userID := uuid.New()
	rec := filledKYC(userID)

	// First attempt: the user-record mirror fails, the transaction rolls
	// back and the record must stay untouched.
	d.kycRepo.EXPECT().Get(ctx, userID).Return(rec, nil)
	d.transactor.EXPECT().Begin(ctx).Return(&mockTx{}, nil)
	d.kycRepo.EXPECT().SetSubmitted(ctx, gomock.Any(), userID, gomock.Any()).Return(nil)
	d.userRepo.EXPECT().SetKYCStatus(ctx, gomock.Any(), userID, domain.KYCStatusPending).Return(errors.New("connection reset"))

	_, err := d.svc.Submit(ctx, userID)
	require.Error(t, err)
	assert.Equal(t, domain.KYCStatusNotVerified, rec.Status)
	assert.Nil(t, rec.SubmittedAt)

	// Retry: the record was never frozen at PENDING, so the same record
	// passes the gating and goes through.
	d.kycRepo.EXPECT().Get(ctx, userID).Return(rec, nil)
	d.transactor.EXPECT().Begin(ctx).Return(&mockTx{}, nil)
	d.kycRepo.EXPECT().SetSubmitted(ctx, gomock.Any(), userID, gomock.Any()).Return(nil)
	d.userRepo.EXPECT().SetKYCStatus(ctx, gomock.Any(), userID, domain.KYCStatusPending).Return(nil)
	d.notifier.EXPECT().Notify(ctx, gomock.Any())

	updated, err := d.svc.Submit(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, domain.KYCStatusPending, updated.Status)
}

func TestKYCService_Submit_Incomplete(t *testing.T) {
	d := setupKYCService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	userID := uuid.New()
	rec := filledKYC(userID)
	rec.SelfieURL = ""

	d.kycRepo.EXPECT().Get(ctx, userID).Return(rec, nil)

	_, err := d.svc.Submit(ctx, userID)
	assert.Equal(t, "KYC_001", appErrCode(t, err))
}

func TestKYCService_Submit_AlreadyPending(t *testing.T) {
	d := setupKYCService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	userID := uuid.New()
	rec := filledKYC(userID)
	rec.Status = domain.KYCStatusPending

	d.kycRepo.EXPECT().Get(ctx, userID).Return(rec, nil)

	_, err := d.svc.Submit(ctx, userID)
	assert.Equal(t, "KYC_002", appErrCode(t, err))
}

func TestKYCService_Submit_VerifiedIsFinal(t *testing.T) {
	d := setupKYCService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	userID := uuid.New()
	rec := filledKYC(userID)
	rec.Status = domain.KYCStatusVerified

	d.kycRepo.EXPECT().Get(ctx, userID).Return(rec, nil)

	_, err := d.svc.Submit(ctx, userID)
	assert.Equal(t, "KYC_002", appErrCode(t, err))
}
