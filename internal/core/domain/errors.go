package domain

import "errors"

// Sentinel validation errors. The service layer maps these onto the
// structured apperror codes at the API boundary.
var (
	ErrInvalidOfferAmount = errors.New("offer amounts must be strictly positive")
	ErrSameCurrency       = errors.New("give and get currency must differ")
	ErrNoPaymentMethods   = errors.New("offer requires at least one payment method")
)
