package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"swapmarket/internal/core/domain"
	"swapmarket/internal/core/ports"
	"swapmarket/pkg/apperror"

	"github.com/google/uuid"
)

// OfferServiceImpl implements ports.OfferService.
type OfferServiceImpl struct {
	offerRepo ports.OfferRepository
	auditSvc  ports.AuditService
	offerTTL  time.Duration
}

// NewOfferService creates a new OfferServiceImpl.
func NewOfferService(offerRepo ports.OfferRepository, auditSvc ports.AuditService, offerTTL time.Duration) *OfferServiceImpl {
	return &OfferServiceImpl{
		offerRepo: offerRepo,
		auditSvc:  auditSvc,
		offerTTL:  offerTTL,
	}
}

// Create validates and posts a new offer. Currency codes are normalized to
// upper case before the invariants are checked.
func (s *OfferServiceImpl) Create(ctx context.Context, req ports.CreateOfferRequest) (*domain.Offer, error) {
	ttl := req.TTL
	if ttl <= 0 {
		ttl = s.offerTTL
	}

	now := time.Now().UTC()
	offer := &domain.Offer{
		ID:             uuid.New(),
		UserID:         req.UserID,
		GiveCurrency:   strings.ToUpper(strings.TrimSpace(req.GiveCurrency)),
		GiveAmount:     req.GiveAmount,
		GetCurrency:    strings.ToUpper(strings.TrimSpace(req.GetCurrency)),
		GetAmount:      req.GetAmount,
		PaymentMethods: req.PaymentMethods,
		Location:       strings.TrimSpace(req.Location),
		Comment:        req.Comment,
		CreatedAt:      now,
		ExpiresAt:      now.Add(ttl),
	}

	if err := offer.Validate(); err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidOfferAmount):
			return nil, apperror.ErrInvalidAmount()
		case errors.Is(err, domain.ErrSameCurrency):
			return nil, apperror.ErrSameCurrencyPair()
		case errors.Is(err, domain.ErrNoPaymentMethods):
			return nil, apperror.ErrNoPaymentMethods()
		default:
			return nil, apperror.Validation(err.Error())
		}
	}

	if err := s.offerRepo.Create(ctx, offer); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("create offer: %w", err))
	}

	s.auditSvc.Log(ctx, &domain.AuditLog{
		ID:           uuid.New(),
		UserID:       &req.UserID,
		Action:       domain.AuditActionCreateOffer,
		ResourceType: "offer",
		ResourceID:   offer.ID.String(),
		CreatedAt:    now,
	})

	return offer, nil
}

// Get returns a single offer by ID.
func (s *OfferServiceImpl) Get(ctx context.Context, id uuid.UUID) (*domain.Offer, error) {
	offer, err := s.offerRepo.GetByID(ctx, id)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("get offer: %w", err))
	}
	if offer == nil {
		return nil, apperror.ErrNotFound("offer")
	}
	return offer, nil
}

// List returns unexpired offers matching the filters.
func (s *OfferServiceImpl) List(ctx context.Context, params ports.OfferListParams) ([]domain.Offer, int64, error) {
	clampPage(&params.Page, &params.PageSize)

	offers, total, err := s.offerRepo.List(ctx, params)
	if err != nil {
		return nil, 0, apperror.InternalError(fmt.Errorf("list offers: %w", err))
	}
	return offers, total, nil
}
