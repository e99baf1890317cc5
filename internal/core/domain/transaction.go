package domain

import (
	"time"

	"github.com/google/uuid"
)

// TransactionStatus represents the lifecycle state of an exchange transaction.
type TransactionStatus string

const (
	TransactionStatusProposed       TransactionStatus = "PROPOSED"
	TransactionStatusAccepted       TransactionStatus = "ACCEPTED"
	TransactionStatusInProgress     TransactionStatus = "IN_PROGRESS"
	TransactionStatusProofSubmitted TransactionStatus = "PROOF_SUBMITTED"
	TransactionStatusValidated      TransactionStatus = "VALIDATED"
	TransactionStatusCompleted      TransactionStatus = "COMPLETED"
	TransactionStatusCancelled      TransactionStatus = "CANCELLED"
	TransactionStatusDisputed       TransactionStatus = "DISPUTED"
)

// validTransactionTransitions maps each status to the set of statuses
// reachable from it. Cancellation and dispute are legal from every
// non-terminal state; the forward path is strictly ordered, with the proof
// step allowed to close directly without explicit validation.
var validTransactionTransitions = map[TransactionStatus][]TransactionStatus{
	TransactionStatusProposed:       {TransactionStatusAccepted, TransactionStatusCancelled, TransactionStatusDisputed},
	TransactionStatusAccepted:       {TransactionStatusInProgress, TransactionStatusCancelled, TransactionStatusDisputed},
	TransactionStatusInProgress:     {TransactionStatusProofSubmitted, TransactionStatusCancelled, TransactionStatusDisputed},
	TransactionStatusProofSubmitted: {TransactionStatusValidated, TransactionStatusCompleted, TransactionStatusCancelled, TransactionStatusDisputed},
	TransactionStatusValidated:      {TransactionStatusCompleted},
	TransactionStatusCompleted:      {},
	TransactionStatusCancelled:      {},
	TransactionStatusDisputed:       {},
}

// CanTransitionTo reports whether moving from s to target is legal.
func (s TransactionStatus) CanTransitionTo(target TransactionStatus) bool {
	allowed, ok := validTransactionTransitions[s]
	if !ok {
		return false
	}
	for _, t := range allowed {
		if t == target {
			return true
		}
	}
	return false
}

// IsTerminal returns true if no transition may leave this status.
func (s TransactionStatus) IsTerminal() bool {
	return len(validTransactionTransitions[s]) == 0
}

// IsValid reports whether s is a known status value.
func (s TransactionStatus) IsValid() bool {
	_, ok := validTransactionTransitions[s]
	return ok
}

// Transaction is one accepted instance of an Offer between two users,
// tracked through the status lifecycle. Currency fields are copied from the
// source offer at creation and never change afterwards.
type Transaction struct {
	ID               uuid.UUID         `json:"id"`
	OfferID          uuid.UUID         `json:"offer_id"`
	PartyA           PartySnapshot     `json:"party_a"` // Offer owner
	PartyB           PartySnapshot     `json:"party_b"` // Accepting counterparty
	GiveCurrency     string            `json:"give_currency"`
	GiveAmount       float64           `json:"give_amount"`
	GetCurrency      string            `json:"get_currency"`
	GetAmount        float64           `json:"get_amount"`
	Rate             float64           `json:"rate"`
	PaymentMethod    string            `json:"payment_method"`
	Status           TransactionStatus `json:"status"`
	ProofURL         *string           `json:"proof_url,omitempty"`
	ProofSubmittedAt *time.Time        `json:"proof_submitted_at,omitempty"`
	Deadline         *time.Time        `json:"deadline,omitempty"`
	CreatedAt        time.Time         `json:"created_at"`
	UpdatedAt        time.Time         `json:"updated_at"`
}

// IsParty reports whether the given user is one of the two participants.
func (t *Transaction) IsParty(userID uuid.UUID) bool {
	return t.PartyA.UserID == userID || t.PartyB.UserID == userID
}
