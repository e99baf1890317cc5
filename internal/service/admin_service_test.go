package service

import (
	"context"
	"testing"
	"time"

	"swapmarket/internal/core/domain"
	"swapmarket/internal/core/ports/mocks"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

// stubOverrider records the delegated call.
type stubOverrider struct {
	gotID     uuid.UUID
	gotStatus domain.TransactionStatus
	result    *domain.Transaction
	err       error
}

func (o *stubOverrider) Override(_ context.Context, id uuid.UUID, status domain.TransactionStatus) (*domain.Transaction, error) {
	o.gotID = id
	o.gotStatus = status
	return o.result, o.err
}

type adminTestDeps struct {
	svc        *AdminServiceImpl
	userRepo   *mocks.MockUserRepository
	txnRepo    *mocks.MockTransactionRepository
	kycRepo    *mocks.MockKYCRepository
	msgRepo    *mocks.MockMessageRepository
	transactor *mocks.MockDBTransactor
	overrider  *stubOverrider
	notifier   *mocks.MockNotifier
	ctrl       *gomock.Controller
}

func setupAdminService(t *testing.T) *adminTestDeps {
	ctrl := gomock.NewController(t)
	d := &adminTestDeps{
		userRepo:   mocks.NewMockUserRepository(ctrl),
		txnRepo:    mocks.NewMockTransactionRepository(ctrl),
		kycRepo:    mocks.NewMockKYCRepository(ctrl),
		msgRepo:    mocks.NewMockMessageRepository(ctrl),
		transactor: mocks.NewMockDBTransactor(ctrl),
		overrider:  &stubOverrider{},
		notifier:   mocks.NewMockNotifier(ctrl),
		ctrl:       ctrl,
	}
	d.svc = NewAdminService(
		d.userRepo, d.txnRepo, d.kycRepo, d.msgRepo, d.transactor,
		d.overrider, d.notifier, NewAuditService(nil, zerolog.Nop()),
	)
	return d
}

func TestAdminService_SuspendUser(t *testing.T) {
	d := setupAdminService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	userID := uuid.New()

	d.userRepo.EXPECT().SetStatus(ctx, userID, domain.UserStatusSuspended).Return(nil)

	require.NoError(t, d.svc.SuspendUser(ctx, userID))
}

func TestAdminService_ActivateUser(t *testing.T) {
	d := setupAdminService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	userID := uuid.New()

	d.userRepo.EXPECT().SetStatus(ctx, userID, domain.UserStatusActive).Return(nil)

	require.NoError(t, d.svc.ActivateUser(ctx, userID))
}

func TestAdminService_VerifyKYC_Success(t *testing.T) {
	d := setupAdminService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	userID := uuid.New()
	rec := filledKYC(userID)
	rec.Status = domain.KYCStatusPending

	d.kycRepo.EXPECT().Get(ctx, userID).Return(rec, nil)
	d.transactor.EXPECT().Begin(ctx).Return(&mockTx{}, nil)
	d.kycRepo.EXPECT().SetDecision(ctx, gomock.Any(), userID, domain.KYCStatusVerified, gomock.Nil(), gomock.Any()).Return(nil)
	d.userRepo.EXPECT().SetKYCStatus(ctx, gomock.Any(), userID, domain.KYCStatusVerified).Return(nil)
	d.notifier.EXPECT().Notify(ctx, gomock.Any()).Do(func(_ context.Context, n domain.Notification) {
		assert.Equal(t, domain.NotificationKYCStatusChanged, n.Kind)
		assert.Equal(t, "VERIFIED", n.Payload["status"])
	})

	require.NoError(t, d.svc.VerifyKYC(ctx, userID, ""))
}

func TestAdminService_RejectKYC_Success(t *testing.T) {
	d := setupAdminService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	userID := uuid.New()
	rec := filledKYC(userID)
	rec.Status = domain.KYCStatusPending

	d.kycRepo.EXPECT().Get(ctx, userID).Return(rec, nil)
	d.transactor.EXPECT().Begin(ctx).Return(&mockTx{}, nil)
	d.kycRepo.EXPECT().SetDecision(ctx, gomock.Any(), userID, domain.KYCStatusRejected, gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, _ interface{}, _ uuid.UUID, _ domain.KYCStatus, reason *string, _ time.Time) error {
			require.NotNil(t, reason)
			assert.Equal(t, "document unreadable", *reason)
			return nil
		})
	d.userRepo.EXPECT().SetKYCStatus(ctx, gomock.Any(), userID, domain.KYCStatusRejected).Return(nil)
	d.notifier.EXPECT().Notify(ctx, gomock.Any()).Do(func(_ context.Context, n domain.Notification) {
		assert.Equal(t, "REJECTED", n.Payload["status"])
		assert.Equal(t, "document unreadable", n.Payload["reason"])
	})

	require.NoError(t, d.svc.RejectKYC(ctx, userID, "  document unreadable  "))
}

func TestAdminService_RejectKYC_ReasonRequired(t *testing.T) {
	d := setupAdminService(t)
	defer d.ctrl.Finish()

	err := d.svc.RejectKYC(context.Background(), uuid.New(), "   ")
	assert.Equal(t, "VAL_001", appErrCode(t, err))
}

func TestAdminService_DecideKYC_NotPending(t *testing.T) {
	d := setupAdminService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	userID := uuid.New()
	rec := filledKYC(userID) // status NOT_VERIFIED, never submitted

	d.kycRepo.EXPECT().Get(ctx, userID).Return(rec, nil)

	err := d.svc.VerifyKYC(ctx, userID, "")
	assert.Equal(t, "KYC_003", appErrCode(t, err))
}

func TestAdminService_DecideKYC_NoRecord(t *testing.T) {
	d := setupAdminService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	userID := uuid.New()

	d.kycRepo.EXPECT().Get(ctx, userID).Return(nil, nil)

	err := d.svc.VerifyKYC(ctx, userID, "")
	assert.Equal(t, "RES_001", appErrCode(t, err))
}

func TestAdminService_OverrideTransactionStatus_Delegates(t *testing.T) {
	d := setupAdminService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	txn := openTransaction(domain.TransactionStatusDisputed)
	d.overrider.result = txn

	got, err := d.svc.OverrideTransactionStatus(ctx, txn.ID, domain.TransactionStatusCancelled)
	require.NoError(t, err)
	assert.Same(t, txn, got)
	assert.Equal(t, txn.ID, d.overrider.gotID)
	assert.Equal(t, domain.TransactionStatusCancelled, d.overrider.gotStatus)
}

func TestAdminService_DeleteMessage_Success(t *testing.T) {
	d := setupAdminService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	msg := &domain.Message{ID: uuid.New(), TransactionID: uuid.New(), SenderID: uuid.New(), Body: "offensive", CreatedAt: time.Now().UTC()}

	d.msgRepo.EXPECT().GetByID(ctx, msg.ID).Return(msg, nil)
	d.msgRepo.EXPECT().SoftDelete(ctx, msg.ID, gomock.Any()).Return(nil)

	require.NoError(t, d.svc.DeleteMessage(ctx, msg.ID))
}

func TestAdminService_DeleteMessage_Idempotent(t *testing.T) {
	d := setupAdminService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	deletedAt := time.Now().UTC()
	msg := &domain.Message{ID: uuid.New(), Body: "gone", DeletedAt: &deletedAt}

	d.msgRepo.EXPECT().GetByID(ctx, msg.ID).Return(msg, nil)
	// No SoftDelete expected

	require.NoError(t, d.svc.DeleteMessage(ctx, msg.ID))
}
