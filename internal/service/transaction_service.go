package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"swapmarket/internal/core/domain"
	"swapmarket/internal/core/ports"
	"swapmarket/pkg/apperror"

	"github.com/google/uuid"
)

// TransactionServiceImpl implements ports.TransactionService. Every status
// change, party-facing or administrative, goes through the transition table.
type TransactionServiceImpl struct {
	txnRepo      ports.TransactionRepository
	offerRepo    ports.OfferRepository
	userRepo     ports.UserRepository
	notifier     ports.Notifier
	auditSvc     ports.AuditService
	dealDeadline time.Duration
}

// NewTransactionService creates a new TransactionServiceImpl.
func NewTransactionService(
	txnRepo ports.TransactionRepository,
	offerRepo ports.OfferRepository,
	userRepo ports.UserRepository,
	notifier ports.Notifier,
	auditSvc ports.AuditService,
	dealDeadline time.Duration,
) *TransactionServiceImpl {
	return &TransactionServiceImpl{
		txnRepo:      txnRepo,
		offerRepo:    offerRepo,
		userRepo:     userRepo,
		notifier:     notifier,
		auditSvc:     auditSvc,
		dealDeadline: dealDeadline,
	}
}

// Create opens a transaction by accepting an offer. The offer's currency
// terms and the parties' reputations are snapshotted; later changes to the
// offer or the user records never alter an open transaction.
func (s *TransactionServiceImpl) Create(ctx context.Context, req ports.CreateTransactionRequest) (*domain.Transaction, error) {
	offer, err := s.offerRepo.GetByID(ctx, req.OfferID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("get offer: %w", err))
	}
	if offer == nil {
		return nil, apperror.ErrNotFound("offer")
	}

	now := time.Now().UTC()
	if offer.IsExpired(now) {
		return nil, apperror.ErrOfferExpired()
	}
	if offer.UserID == req.AcceptorID {
		return nil, apperror.ErrOwnOffer()
	}
	if !offer.AcceptsPaymentMethod(req.PaymentMethod) {
		return nil, apperror.ErrPaymentMethodNotAccepted()
	}

	owner, err := s.userRepo.GetByID(ctx, offer.UserID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("get offer owner: %w", err))
	}
	if owner == nil {
		return nil, apperror.ErrNotFound("offer owner")
	}

	acceptor, err := s.userRepo.GetByID(ctx, req.AcceptorID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("get acceptor: %w", err))
	}
	if acceptor == nil {
		return nil, apperror.ErrNotFound("user")
	}
	if !acceptor.IsActive() {
		return nil, apperror.ErrUserSuspended()
	}

	deadline := req.Deadline
	if deadline == nil {
		d := now.Add(s.dealDeadline)
		deadline = &d
	}

	txn := &domain.Transaction{
		ID:            uuid.New(),
		OfferID:       offer.ID,
		PartyA:        owner.Snapshot(),
		PartyB:        acceptor.Snapshot(),
		GiveCurrency:  offer.GiveCurrency,
		GiveAmount:    offer.GiveAmount,
		GetCurrency:   offer.GetCurrency,
		GetAmount:     offer.GetAmount,
		Rate:          offer.Rate(),
		PaymentMethod: req.PaymentMethod,
		Status:        domain.TransactionStatusProposed,
		Deadline:      deadline,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.txnRepo.Create(ctx, txn); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("create transaction: %w", err))
	}

	s.notifier.Notify(ctx, domain.Notification{
		Kind:   domain.NotificationTransactionStatusChanged,
		UserID: owner.ID.String(),
		Payload: map[string]string{
			"transaction_id": txn.ID.String(),
			"status":         string(txn.Status),
			"counterparty":   acceptor.Username,
		},
	})

	s.auditSvc.Log(ctx, &domain.AuditLog{
		ID:           uuid.New(),
		UserID:       &req.AcceptorID,
		Action:       domain.AuditActionCreateTransaction,
		ResourceType: "transaction",
		ResourceID:   txn.ID.String(),
		CreatedAt:    now,
	})

	return txn, nil
}

// Get returns a transaction, restricted to its parties.
func (s *TransactionServiceImpl) Get(ctx context.Context, id uuid.UUID, actorID uuid.UUID) (*domain.Transaction, error) {
	txn, err := s.txnRepo.GetByID(ctx, id)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("get transaction: %w", err))
	}
	if txn == nil {
		return nil, apperror.ErrNotFound("transaction")
	}
	if !txn.IsParty(actorID) {
		return nil, apperror.ErrNotTransactionParty()
	}
	return txn, nil
}

// ListForUser returns the transactions the user participates in,
// most-recent-first.
func (s *TransactionServiceImpl) ListForUser(ctx context.Context, userID uuid.UUID, params ports.TransactionListParams) ([]domain.Transaction, int64, error) {
	clampPage(&params.Page, &params.PageSize)
	params.UserID = &userID

	txns, total, err := s.txnRepo.List(ctx, params)
	if err != nil {
		return nil, 0, apperror.InternalError(fmt.Errorf("list transactions: %w", err))
	}
	return txns, total, nil
}

// UpdateStatus applies a guarded status transition on behalf of a party.
func (s *TransactionServiceImpl) UpdateStatus(ctx context.Context, id uuid.UUID, actorID uuid.UUID, status domain.TransactionStatus) (*domain.Transaction, error) {
	txn, err := s.txnRepo.GetByID(ctx, id)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("get transaction: %w", err))
	}
	if txn == nil {
		return nil, apperror.ErrNotFound("transaction")
	}
	if !txn.IsParty(actorID) {
		return nil, apperror.ErrNotTransactionParty()
	}

	return s.applyTransition(ctx, txn, status, &actorID)
}

// SubmitProof attaches proof of payment and moves to PROOF_SUBMITTED.
func (s *TransactionServiceImpl) SubmitProof(ctx context.Context, id uuid.UUID, actorID uuid.UUID, proofURL string) (*domain.Transaction, error) {
	proofURL = strings.TrimSpace(proofURL)
	if proofURL == "" {
		return nil, apperror.Validation("proof URL is required")
	}

	txn, err := s.txnRepo.GetByID(ctx, id)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("get transaction: %w", err))
	}
	if txn == nil {
		return nil, apperror.ErrNotFound("transaction")
	}
	if !txn.IsParty(actorID) {
		return nil, apperror.ErrNotTransactionParty()
	}

	if !txn.Status.CanTransitionTo(domain.TransactionStatusProofSubmitted) {
		return nil, apperror.ErrIllegalTransition(string(txn.Status), string(domain.TransactionStatusProofSubmitted))
	}

	now := time.Now().UTC()
	txn.ProofURL = &proofURL
	txn.ProofSubmittedAt = &now

	return s.applyTransition(ctx, txn, domain.TransactionStatusProofSubmitted, &actorID)
}

// Override applies a guarded transition without a party check. It backs the
// administrative status override; the transition table still applies.
func (s *TransactionServiceImpl) Override(ctx context.Context, id uuid.UUID, status domain.TransactionStatus) (*domain.Transaction, error) {
	txn, err := s.txnRepo.GetByID(ctx, id)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("get transaction: %w", err))
	}
	if txn == nil {
		return nil, apperror.ErrNotFound("transaction")
	}
	return s.applyTransition(ctx, txn, status, nil)
}

// applyTransition checks the transition table, persists the change and fans
// out notifications to both parties.
func (s *TransactionServiceImpl) applyTransition(ctx context.Context, txn *domain.Transaction, status domain.TransactionStatus, actorID *uuid.UUID) (*domain.Transaction, error) {
	if !status.IsValid() {
		return nil, apperror.Validation(fmt.Sprintf("unknown transaction status: %s", status))
	}
	if !txn.Status.CanTransitionTo(status) {
		return nil, apperror.ErrIllegalTransition(string(txn.Status), string(status))
	}

	from := txn.Status
	now := time.Now().UTC()
	txn.Status = status
	txn.UpdatedAt = now

	if err := s.txnRepo.UpdateStatus(ctx, txn); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("update transaction status: %w", err))
	}

	payload := map[string]string{
		"transaction_id": txn.ID.String(),
		"from":           string(from),
		"status":         string(status),
	}
	for _, party := range []uuid.UUID{txn.PartyA.UserID, txn.PartyB.UserID} {
		if actorID != nil && party == *actorID {
			continue // the actor already knows
		}
		s.notifier.Notify(ctx, domain.Notification{
			Kind:    domain.NotificationTransactionStatusChanged,
			UserID:  party.String(),
			Payload: payload,
		})
	}

	s.auditSvc.Log(ctx, &domain.AuditLog{
		ID:           uuid.New(),
		UserID:       actorID,
		Action:       domain.AuditActionStatusChange,
		ResourceType: "transaction",
		ResourceID:   txn.ID.String(),
		Details:      fmt.Sprintf(`{"from":%q,"to":%q}`, from, status),
		CreatedAt:    now,
	})

	return txn, nil
}
