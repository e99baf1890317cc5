package apperror

import (
	"fmt"
	"net/http"
)

// AppError is a structured error that maps to HTTP responses.
type AppError struct {
	Code       string `json:"error_code"`
	Message    string `json:"message"`
	HTTPStatus int    `json:"-"`
	Err        error  `json:"-"` // Wrapped internal error (not exposed to client)
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// New creates a new AppError.
func New(code string, message string, httpStatus int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
	}
}

// Wrap wraps an internal error with an AppError.
func Wrap(code string, message string, httpStatus int, err error) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
		Err:        err,
	}
}

// ---- Authentication (AUTH) ----

func ErrInvalidCredentials() *AppError {
	return New("AUTH_001", "Invalid credentials", http.StatusUnauthorized)
}

func ErrUsernameExists() *AppError {
	return New("AUTH_002", "Username already exists", http.StatusConflict)
}

func ErrInvalidToken() *AppError {
	return New("AUTH_003", "Invalid or expired token", http.StatusUnauthorized)
}

func ErrUserSuspended() *AppError {
	return New("AUTH_004", "User account is suspended", http.StatusForbidden)
}

func ErrAdminOnly() *AppError {
	return New("AUTH_005", "Administrator role required", http.StatusForbidden)
}

// ErrNotFound covers every resource lookup miss.
func ErrNotFound(entity string) *AppError {
	return New("RES_001", fmt.Sprintf("%s not found", entity), http.StatusNotFound)
}

// ---- Offers (OFR) ----

func ErrInvalidAmount() *AppError {
	return New("OFR_001", "Amounts must be strictly positive", http.StatusBadRequest)
}

func ErrSameCurrencyPair() *AppError {
	return New("OFR_002", "Give and get currency must differ", http.StatusBadRequest)
}

func ErrNoPaymentMethods() *AppError {
	return New("OFR_003", "At least one payment method is required", http.StatusBadRequest)
}

func ErrOfferExpired() *AppError {
	return New("OFR_004", "Offer has expired", http.StatusGone)
}

// ---- Transactions (TXN) ----

func ErrIllegalTransition(from, to string) *AppError {
	return New("TXN_001",
		fmt.Sprintf("illegal status transition from %s to %s", from, to),
		http.StatusConflict)
}

func ErrOwnOffer() *AppError {
	return New("TXN_002", "Cannot accept your own offer", http.StatusBadRequest)
}

func ErrPaymentMethodNotAccepted() *AppError {
	return New("TXN_003", "Payment method not accepted by this offer", http.StatusBadRequest)
}

func ErrNotTransactionParty() *AppError {
	return New("TXN_004", "Only a transaction party may perform this action", http.StatusForbidden)
}

// ---- KYC (KYC) ----

func ErrStepIncomplete(step string) *AppError {
	return New("KYC_001",
		fmt.Sprintf("step %s is incomplete", step),
		http.StatusUnprocessableEntity)
}

func ErrKYCNotSubmittable() *AppError {
	return New("KYC_002", "KYC record is not in a submittable state", http.StatusConflict)
}

func ErrKYCNotPending() *AppError {
	return New("KYC_003", "KYC record is not pending review", http.StatusConflict)
}

func ErrInvalidPhoneCode() *AppError {
	return New("KYC_004", "Invalid or expired verification code", http.StatusBadRequest)
}

func ErrPhoneMissing() *AppError {
	return New("KYC_005", "No phone number on record", http.StatusBadRequest)
}

// ---- Rate Limiting (RATE) ----

func ErrRateLimitExceeded() *AppError {
	return New("RATE_001", "Rate limit exceeded", http.StatusTooManyRequests)
}

// ---- Validation (VAL) ----

// Validation returns a generic request validation error.
func Validation(message string) *AppError {
	return New("VAL_001", message, http.StatusBadRequest)
}

// ---- System & Infrastructure (SYS) ----

// InternalError wraps an internal error as a SYS_001 error.
func InternalError(err error) *AppError {
	return Wrap("SYS_001", "Internal server error", http.StatusInternalServerError, err)
}

func ErrEncryptionFailure(err error) *AppError {
	return Wrap("SYS_002", "Encryption service failure", http.StatusInternalServerError, err)
}
