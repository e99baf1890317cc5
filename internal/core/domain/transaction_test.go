package domain

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestTransactionStatus_CanTransitionTo(t *testing.T) {
	tests := []struct {
		from     TransactionStatus
		to       TransactionStatus
		expected bool
	}{
		// Forward path
		{TransactionStatusProposed, TransactionStatusAccepted, true},
		{TransactionStatusAccepted, TransactionStatusInProgress, true},
		{TransactionStatusInProgress, TransactionStatusProofSubmitted, true},
		{TransactionStatusProofSubmitted, TransactionStatusValidated, true},
		{TransactionStatusProofSubmitted, TransactionStatusCompleted, true},
		{TransactionStatusValidated, TransactionStatusCompleted, true},

		// Cancellation and dispute from every active state
		{TransactionStatusProposed, TransactionStatusCancelled, true},
		{TransactionStatusAccepted, TransactionStatusCancelled, true},
		{TransactionStatusInProgress, TransactionStatusCancelled, true},
		{TransactionStatusProofSubmitted, TransactionStatusCancelled, true},
		{TransactionStatusProposed, TransactionStatusDisputed, true},
		{TransactionStatusAccepted, TransactionStatusDisputed, true},
		{TransactionStatusInProgress, TransactionStatusDisputed, true},
		{TransactionStatusProofSubmitted, TransactionStatusDisputed, true},

		// Skipping forward states is rejected
		{TransactionStatusProposed, TransactionStatusInProgress, false},
		{TransactionStatusProposed, TransactionStatusProofSubmitted, false},
		{TransactionStatusProposed, TransactionStatusCompleted, false},
		{TransactionStatusAccepted, TransactionStatusProofSubmitted, false},
		{TransactionStatusAccepted, TransactionStatusCompleted, false},
		{TransactionStatusInProgress, TransactionStatusCompleted, false},

		// Backward moves are rejected
		{TransactionStatusAccepted, TransactionStatusProposed, false},
		{TransactionStatusProofSubmitted, TransactionStatusInProgress, false},

		// Terminal states emit nothing
		{TransactionStatusCompleted, TransactionStatusDisputed, false},
		{TransactionStatusCompleted, TransactionStatusCancelled, false},
		{TransactionStatusCancelled, TransactionStatusProposed, false},
		{TransactionStatusDisputed, TransactionStatusCompleted, false},
		{TransactionStatusValidated, TransactionStatusCancelled, false},
		{TransactionStatusValidated, TransactionStatusDisputed, false},

		// Unknown values
		{TransactionStatus("bogus"), TransactionStatusAccepted, false},
		{TransactionStatusProposed, TransactionStatus("bogus"), false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.from.CanTransitionTo(tt.to))
		})
	}
}

func TestTransactionStatus_IsTerminal(t *testing.T) {
	terminal := []TransactionStatus{
		TransactionStatusCompleted,
		TransactionStatusCancelled,
		TransactionStatusDisputed,
	}
	active := []TransactionStatus{
		TransactionStatusProposed,
		TransactionStatusAccepted,
		TransactionStatusInProgress,
		TransactionStatusProofSubmitted,
		TransactionStatusValidated,
	}

	for _, s := range terminal {
		assert.True(t, s.IsTerminal(), "%s should be terminal", s)
	}
	for _, s := range active {
		assert.False(t, s.IsTerminal(), "%s should not be terminal", s)
	}
}

func TestTransactionStatus_IsValid(t *testing.T) {
	assert.True(t, TransactionStatusProposed.IsValid())
	assert.True(t, TransactionStatusDisputed.IsValid())
	assert.False(t, TransactionStatus("SHIPPED").IsValid())
}

func TestTransaction_IsParty(t *testing.T) {
	a := uuid.New()
	b := uuid.New()
	txn := &Transaction{
		PartyA: PartySnapshot{UserID: a},
		PartyB: PartySnapshot{UserID: b},
	}

	assert.True(t, txn.IsParty(a))
	assert.True(t, txn.IsParty(b))
	assert.False(t, txn.IsParty(uuid.New()))
}
