package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Offer is a standing currency-exchange advertisement. Offers are immutable
// once created.
type Offer struct {
	ID             uuid.UUID `json:"id"`
	UserID         uuid.UUID `json:"user_id"`
	GiveCurrency   string    `json:"give_currency"`
	GiveAmount     float64   `json:"give_amount"`
	GetCurrency    string    `json:"get_currency"`
	GetAmount      float64   `json:"get_amount"`
	PaymentMethods []string  `json:"payment_methods"`
	Location       string    `json:"location"`
	Comment        *string   `json:"comment,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	ExpiresAt      time.Time `json:"expires_at"`
}

// Rate returns the derived exchange rate, get amount per unit of give amount.
func (o *Offer) Rate() float64 {
	return o.GetAmount / o.GiveAmount
}

// IsExpired reports whether the offer has passed its expiry.
func (o *Offer) IsExpired(now time.Time) bool {
	return now.After(o.ExpiresAt)
}

// AcceptsPaymentMethod reports whether the offer lists the given method.
// Matching is case-insensitive.
func (o *Offer) AcceptsPaymentMethod(method string) bool {
	for _, m := range o.PaymentMethods {
		if strings.EqualFold(m, method) {
			return true
		}
	}
	return false
}

// Validate enforces offer invariants: distinct currency pair, strictly
// positive amounts, at least one payment method.
func (o *Offer) Validate() error {
	if o.GiveAmount <= 0 || o.GetAmount <= 0 {
		return ErrInvalidOfferAmount
	}
	if strings.EqualFold(o.GiveCurrency, o.GetCurrency) {
		return ErrSameCurrency
	}
	if len(o.PaymentMethods) == 0 {
		return ErrNoPaymentMethods
	}
	return nil
}
