package service

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"swapmarket/internal/core/domain"
	"swapmarket/internal/core/ports"
	"swapmarket/pkg/apperror"

	"github.com/google/uuid"
)

// MessageServiceImpl implements ports.MessageService, the chat thread
// attached to each transaction.
type MessageServiceImpl struct {
	msgRepo   ports.MessageRepository
	txnRepo   ports.TransactionRepository
	notifier  ports.Notifier
	maxLength int
}

// NewMessageService creates a new MessageServiceImpl.
func NewMessageService(msgRepo ports.MessageRepository, txnRepo ports.TransactionRepository, notifier ports.Notifier, maxLength int) *MessageServiceImpl {
	return &MessageServiceImpl{
		msgRepo:   msgRepo,
		txnRepo:   txnRepo,
		notifier:  notifier,
		maxLength: maxLength,
	}
}

// Post appends a message to the thread and notifies the counterparty.
func (s *MessageServiceImpl) Post(ctx context.Context, transactionID uuid.UUID, senderID uuid.UUID, body string) (*domain.Message, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return nil, apperror.Validation("message body is required")
	}
	if utf8.RuneCountInString(body) > s.maxLength {
		return nil, apperror.Validation(fmt.Sprintf("message exceeds %d characters", s.maxLength))
	}

	txn, err := s.txnRepo.GetByID(ctx, transactionID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("get transaction: %w", err))
	}
	if txn == nil {
		return nil, apperror.ErrNotFound("transaction")
	}
	if !txn.IsParty(senderID) {
		return nil, apperror.ErrNotTransactionParty()
	}

	msg := &domain.Message{
		ID:            uuid.New(),
		TransactionID: transactionID,
		SenderID:      senderID,
		Body:          body,
		CreatedAt:     time.Now().UTC(),
	}

	if err := s.msgRepo.Create(ctx, msg); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("create message: %w", err))
	}

	recipient := txn.PartyA.UserID
	if recipient == senderID {
		recipient = txn.PartyB.UserID
	}
	s.notifier.Notify(ctx, domain.Notification{
		Kind:   domain.NotificationNewMessage,
		UserID: recipient.String(),
		Payload: map[string]string{
			"transaction_id": transactionID.String(),
			"message_id":     msg.ID.String(),
		},
	})

	return msg, nil
}

// List returns the thread's non-deleted messages oldest-first. Parties and
// administrators may read it.
func (s *MessageServiceImpl) List(ctx context.Context, transactionID uuid.UUID, actorID uuid.UUID, isAdmin bool) ([]domain.Message, error) {
	txn, err := s.txnRepo.GetByID(ctx, transactionID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("get transaction: %w", err))
	}
	if txn == nil {
		return nil, apperror.ErrNotFound("transaction")
	}
	if !isAdmin && !txn.IsParty(actorID) {
		return nil, apperror.ErrNotTransactionParty()
	}

	msgs, err := s.msgRepo.ListByTransaction(ctx, transactionID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("list messages: %w", err))
	}
	return msgs, nil
}
