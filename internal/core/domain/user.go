package domain

import (
	"time"

	"github.com/google/uuid"
)

// UserRole distinguishes regular marketplace users from administrators.
type UserRole string

const (
	UserRoleMember UserRole = "MEMBER"
	UserRoleAdmin  UserRole = "ADMIN"
)

// UserStatus represents the state of a user account.
type UserStatus string

const (
	UserStatusActive    UserStatus = "ACTIVE"
	UserStatusSuspended UserStatus = "SUSPENDED"
)

// IsValid reports whether s is a known status value.
func (s UserStatus) IsValid() bool {
	return s == UserStatusActive || s == UserStatusSuspended
}

// User represents a registered marketplace participant.
type User struct {
	ID                  uuid.UUID  `json:"id"`
	Username            string     `json:"username"`
	PasswordHash        string     `json:"-"` // Never expose
	FirstName           string     `json:"first_name"`
	LastName            string     `json:"last_name"`
	Phone               string     `json:"phone,omitempty"`
	Role                UserRole   `json:"role"`
	Status              UserStatus `json:"status"`
	KYCStatus           KYCStatus  `json:"kyc_status"`
	Rating              float64    `json:"rating"`
	CompletedSwaps      int        `json:"completed_swaps"`
	SuccessRate         float64    `json:"success_rate"`
	Badges              []string   `json:"badges,omitempty"`
	PreferredCurrencies []string   `json:"preferred_currencies,omitempty"`
	PreferredMethods    []string   `json:"preferred_payment_methods,omitempty"`
	Language            string     `json:"language,omitempty"`
	CreatedAt           time.Time  `json:"created_at"`
	UpdatedAt           time.Time  `json:"updated_at"`
}

// IsActive returns true if the account may transact.
func (u *User) IsActive() bool {
	return u.Status == UserStatusActive
}

// IsAdmin returns true if the account holds the administrator role.
func (u *User) IsAdmin() bool {
	return u.Role == UserRoleAdmin
}

// PartySnapshot is the per-transaction copy of a participant. Transactions
// snapshot both parties at creation time instead of referencing live records.
type PartySnapshot struct {
	UserID         uuid.UUID `json:"user_id"`
	Username       string    `json:"username"`
	Rating         float64   `json:"rating"`
	CompletedSwaps int       `json:"completed_swaps"`
	KYCStatus      KYCStatus `json:"kyc_status"`
}

// Snapshot captures the fields a transaction keeps about a party.
func (u *User) Snapshot() PartySnapshot {
	return PartySnapshot{
		UserID:         u.ID,
		Username:       u.Username,
		Rating:         u.Rating,
		CompletedSwaps: u.CompletedSwaps,
		KYCStatus:      u.KYCStatus,
	}
}
