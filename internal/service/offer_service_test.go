package service

import (
	"context"
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

type offerTestDeps struct {
	svc       *OfferServiceImpl
	offerRepo *mocks.MockOfferRepository
	ctrl      *gomock.Controller
}

func setupOfferService(t *testing.T) *offerTestDeps {
	ctrl := gomock.NewController(t)
	d := &offerTestDeps{
		offerRepo: mocks.NewMockOfferRepository(ctrl),
		ctrl:      ctrl,
	}
	d.svc = NewOfferService(d.offerRepo, NewAuditService(nil, zerolog.Nop()), 72*time.Hour)
	return d
}

func TestOfferService_Create_NormalizesCurrencies(t *testing.T) {
	d := setupOfferService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	d.offerRepo.EXPECT().Create(ctx, gomock.Any()).Return(nil)

	offer, err := d.svc.Create(ctx, ports.CreateOfferRequest{
		UserID:         uuid.New(),
		GiveCurrency:   " eur ",
		GiveAmount:     500,
		GetCurrency:    "xaf",
		GetAmount:      328000,
		PaymentMethods: []string{"bank transfer"},
		Location:       "Douala",
	})
	require.NoError(t, err)

	assert.Equal(t, "EUR", offer.GiveCurrency)
	assert.Equal(t, "XAF", offer.GetCurrency)
	assert.WithinDuration(t, time.Now().UTC().Add(72*time.Hour), offer.ExpiresAt, 5*time.Second)
}

func TestOfferService_Create_CustomTTL(t *testing.T) {
	d := setupOfferService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	d.offerRepo.EXPECT().Create(ctx, gomock.Any()).Return(nil)

	offer, err := d.svc.Create(ctx, ports.CreateOfferRequest{
		UserID:         uuid.New(),
		GiveCurrency:   "EUR",
		GiveAmount:     100,
		GetCurrency:    "USD",
		GetAmount:      108,
		PaymentMethods: []string{"cash"},
		TTL:            6 * time.Hour,
	})
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().UTC().Add(6*time.Hour), offer.ExpiresAt, 5*time.Second)
}

func TestOfferService_Create_RejectsInvalidAmount(t *testing.T) {
	d := setupOfferService(t)
	defer d.ctrl.Finish()

	_, err := d.svc.Create(context.Background(), ports.CreateOfferRequest{
		UserID:         uuid.New(),
		GiveCurrency:   "EUR",
		GiveAmount:     0,
		GetCurrency:    "USD",
		GetAmount:      100,
		PaymentMethods: []string{"cash"},
	})
	assert.Equal(t, "OFR_001", appErrCode(t, err))
}

func TestOfferService_Create_RejectsSameCurrencyPair(t *testing.T) {
	d := setupOfferService(t)
	defer d.ctrl.Finish()

	// Case-insensitive: eur vs EUR is still the same currency
	_, err := d.svc.Create(context.Background(), ports.CreateOfferRequest{
		UserID:         uuid.New(),
		GiveCurrency:   "eur",
		GiveAmount:     100,
		GetCurrency:    "EUR",
		GetAmount:      100,
		PaymentMethods: []string{"cash"},
	})
	assert.Equal(t, "OFR_002", appErrCode(t, err))
}

func TestOfferService_Create_RejectsNoPaymentMethods(t *testing.T) {
	d := setupOfferService(t)
	defer d.ctrl.Finish()

	_, err := d.svc.Create(context.Background(), ports.CreateOfferRequest{
		UserID:       uuid.New(),
		GiveCurrency: "EUR",
		GiveAmount:   100,
		GetCurrency:  "USD",
		GetAmount:    108,
	})
	assert.Equal(t, "OFR_003", appErrCode(t, err))
}

func TestOfferService_Get_NotFound(t *testing.T) {
	d := setupOfferService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	id := uuid.New()
	d.offerRepo.EXPECT().GetByID(ctx, id).Return(nil, nil)

	_, err := d.svc.Get(ctx, id)
	assert.Equal(t, "RES_001", appErrCode(t, err))
}

func TestOfferService_List_ClampsPagination(t *testing.T) {
	d := setupOfferService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	d.offerRepo.EXPECT().List(ctx, gomock.Any()).DoAndReturn(
		func(_ context.Context, params ports.OfferListParams) ([]domain.Offer, int64, error) {
			assert.Equal(t, 1, params.Page)
			assert.Equal(t, 20, params.PageSize)
			return nil, 0, nil
		})

	_, _, err := d.svc.List(ctx, ports.OfferListParams{Page: -3, PageSize: 500})
	assert.NoError(t, err)
}
