package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// KYCStatus is the business-facing verification state of a user's identity.
type KYCStatus string

const (
	KYCStatusNotVerified KYCStatus = "NOT_VERIFIED"
	KYCStatusPending     KYCStatus = "PENDING"
	KYCStatusVerified    KYCStatus = "VERIFIED"
	KYCStatusRejected    KYCStatus = "REJECTED"
)

// IsValid reports whether s is a known status value.
func (s KYCStatus) IsValid() bool {
	switch s {
	case KYCStatusNotVerified, KYCStatusPending, KYCStatusVerified, KYCStatusRejected:
		return true
	}
	return false
}

// KYCStep is one ordered stage of the data-collection wizard.
type KYCStep string

const (
	KYCStepPersonalInfo      KYCStep = "PERSONAL_INFO"
	KYCStepPhoneVerification KYCStep = "PHONE_VERIFICATION"
	KYCStepDocumentSelection KYCStep = "DOCUMENT_SELECTION"
	KYCStepDocumentCapture   KYCStep = "DOCUMENT_CAPTURE"
	KYCStepSelfieCapture     KYCStep = "SELFIE_CAPTURE"
	KYCStepAddressProof      KYCStep = "ADDRESS_PROOF"
	KYCStepReview            KYCStep = "REVIEW"
)

// KYCSteps is the wizard order. Forward navigation is gated per step;
// backward navigation is unconditional.
var KYCSteps = []KYCStep{
	KYCStepPersonalInfo,
	KYCStepPhoneVerification,
	KYCStepDocumentSelection,
	KYCStepDocumentCapture,
	KYCStepSelfieCapture,
	KYCStepAddressProof,
	KYCStepReview,
}

// StepIndex returns the position of s in the wizard order, or -1.
func StepIndex(s KYCStep) int {
	for i, step := range KYCSteps {
		if step == s {
			return i
		}
	}
	return -1
}

// NextStep returns the step after s, or s itself when s is the last step.
func NextStep(s KYCStep) KYCStep {
	i := StepIndex(s)
	if i < 0 || i >= len(KYCSteps)-1 {
		return s
	}
	return KYCSteps[i+1]
}

// PrevStep returns the step before s, or s itself when s is the first step.
func PrevStep(s KYCStep) KYCStep {
	i := StepIndex(s)
	if i <= 0 {
		return s
	}
	return KYCSteps[i-1]
}

// KYCData is the per-user identity-verification record, mutated field by
// field as the user progresses through the wizard.
type KYCData struct {
	UserID          uuid.UUID  `json:"user_id"`
	FirstName       string     `json:"first_name"`
	LastName        string     `json:"last_name"`
	DateOfBirth     string     `json:"date_of_birth,omitempty"` // ISO 8601 date
	Phone           string     `json:"phone"`
	PhoneVerified   bool       `json:"phone_verified"`
	Address         string     `json:"address"`
	City            string     `json:"city"`
	PostalCode      string     `json:"postal_code"`
	Country         string     `json:"country"`
	DocumentType    string     `json:"document_type,omitempty"`
	DocumentURL     string     `json:"document_url,omitempty"`
	SelfieURL       string     `json:"selfie_url,omitempty"`
	AddressProofURL string     `json:"address_proof_url,omitempty"`
	Status          KYCStatus  `json:"status"`
	Step            KYCStep    `json:"step"`
	SubmittedAt     *time.Time `json:"submitted_at,omitempty"`
	VerifiedAt      *time.Time `json:"verified_at,omitempty"`
	RejectionReason *string    `json:"rejection_reason,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// NewKYCData returns the empty record a user starts the wizard with.
func NewKYCData(userID uuid.UUID, now time.Time) *KYCData {
	return &KYCData{
		UserID:    userID,
		Status:    KYCStatusNotVerified,
		Step:      KYCStepPersonalInfo,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// StepComplete is the per-step completeness predicate gating forward
// navigation. Blank-after-trim counts as blank.
func (k *KYCData) StepComplete(step KYCStep) bool {
	switch step {
	case KYCStepPersonalInfo:
		required := []string{k.FirstName, k.LastName, k.Phone, k.Address, k.City, k.PostalCode, k.Country}
		for _, f := range required {
			if strings.TrimSpace(f) == "" {
				return false
			}
		}
		return true
	case KYCStepPhoneVerification:
		return k.PhoneVerified
	case KYCStepDocumentSelection:
		return strings.TrimSpace(k.DocumentType) != ""
	case KYCStepDocumentCapture:
		return strings.TrimSpace(k.DocumentURL) != ""
	case KYCStepSelfieCapture:
		return strings.TrimSpace(k.SelfieURL) != ""
	case KYCStepAddressProof:
		return strings.TrimSpace(k.AddressProofURL) != ""
	case KYCStepReview:
		return k.ReadyToSubmit()
	default:
		return false
	}
}

// ReadyToSubmit reports whether every data-collection step is complete.
func (k *KYCData) ReadyToSubmit() bool {
	for _, step := range KYCSteps[:len(KYCSteps)-1] {
		if !k.StepComplete(step) {
			return false
		}
	}
	return true
}

// Submittable reports whether the record may enter review. A rejected record
// may be resubmitted.
func (k *KYCData) Submittable() bool {
	return k.Status == KYCStatusNotVerified || k.Status == KYCStatusRejected
}
