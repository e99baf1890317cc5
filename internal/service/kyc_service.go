package service

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
	"time"

	"swapmarket/internal/core/domain"
	"swapmarket/internal/core/ports"
	"swapmarket/pkg/apperror"

	"github.com/google/uuid"
)

// KYCServiceImpl implements ports.KYCService, driving the identity
// verification wizard.
type KYCServiceImpl struct {
	kycRepo    ports.KYCRepository
	userRepo   ports.UserRepository
	transactor ports.DBTransactor
	phoneCodes ports.PhoneCodeStore
	notifier   ports.Notifier
	auditSvc   ports.AuditService
	codeTTL    time.Duration
}

// NewKYCService creates a new KYCServiceImpl.
func NewKYCService(
	kycRepo ports.KYCRepository,
	userRepo ports.UserRepository,
	transactor ports.DBTransactor,
	phoneCodes ports.PhoneCodeStore,
	notifier ports.Notifier,
	auditSvc ports.AuditService,
	codeTTL time.Duration,
) *KYCServiceImpl {
	return &KYCServiceImpl{
		kycRepo:    kycRepo,
		userRepo:   userRepo,
		transactor: transactor,
		phoneCodes: phoneCodes,
		notifier:   notifier,
		auditSvc:   auditSvc,
		codeTTL:    codeTTL,
	}
}

// Get returns the user's KYC record, creating one on first access. A fresh
// record is prefilled from the registration profile.
func (s *KYCServiceImpl) Get(ctx context.Context, userID uuid.UUID) (*domain.KYCData, error) {
	rec, err := s.kycRepo.Get(ctx, userID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("get kyc record: %w", err))
	}
	if rec != nil {
		return rec, nil
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("get user: %w", err))
	}
	if user == nil {
		return nil, apperror.ErrNotFound("user")
	}

	rec = domain.NewKYCData(userID, time.Now().UTC())
	rec.FirstName = user.FirstName
	rec.LastName = user.LastName
	rec.Phone = user.Phone

	if err := s.kycRepo.Save(ctx, rec); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("save kyc record: %w", err))
	}
	return rec, nil
}

// UpdateData merges a partial field set into the record. Only nil pointers
// are left untouched, so a client may clear a field by sending "". Writing
// the phone field always clears the phone-verified flag, even when the
// value is unchanged.
func (s *KYCServiceImpl) UpdateData(ctx context.Context, userID uuid.UUID, update ports.KYCUpdate) (*domain.KYCData, error) {
	rec, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !rec.Submittable() {
		return nil, apperror.ErrKYCNotSubmittable()
	}

	apply := func(dst *string, src *string) {
		if src != nil {
			*dst = strings.TrimSpace(*src)
		}
	}

	apply(&rec.FirstName, update.FirstName)
	apply(&rec.LastName, update.LastName)
	apply(&rec.DateOfBirth, update.DateOfBirth)
	apply(&rec.Address, update.Address)
	apply(&rec.City, update.City)
	apply(&rec.PostalCode, update.PostalCode)
	apply(&rec.Country, update.Country)
	apply(&rec.DocumentType, update.DocumentType)
	apply(&rec.DocumentURL, update.DocumentURL)
	apply(&rec.SelfieURL, update.SelfieURL)
	apply(&rec.AddressProofURL, update.AddressProofURL)

	if update.Phone != nil {
		rec.Phone = strings.TrimSpace(*update.Phone)
		rec.PhoneVerified = false
	}

	rec.UpdatedAt = time.Now().UTC()
	if err := s.kycRepo.Save(ctx, rec); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("save kyc record: %w", err))
	}
	return rec, nil
}

// Continue advances the wizard iff the current step is complete.
func (s *KYCServiceImpl) Continue(ctx context.Context, userID uuid.UUID) (*domain.KYCData, error) {
	rec, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !rec.StepComplete(rec.Step) {
		return nil, apperror.ErrStepIncomplete(string(rec.Step))
	}

	rec.Step = domain.NextStep(rec.Step)
	rec.UpdatedAt = time.Now().UTC()
	if err := s.kycRepo.Save(ctx, rec); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("save kyc record: %w", err))
	}
	return rec, nil
}

// Back moves one step backward. No completeness check applies.
func (s *KYCServiceImpl) Back(ctx context.Context, userID uuid.UUID) (*domain.KYCData, error) {
	rec, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	rec.Step = domain.PrevStep(rec.Step)
	rec.UpdatedAt = time.Now().UTC()
	if err := s.kycRepo.Save(ctx, rec); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("save kyc record: %w", err))
	}
	return rec, nil
}

// RequestPhoneCode issues a one-time code for the phone on record and hands
// it to the notifier for delivery.
func (s *KYCServiceImpl) RequestPhoneCode(ctx context.Context, userID uuid.UUID) error {
	rec, err := s.Get(ctx, userID)
	if err != nil {
		return err
	}
	if strings.TrimSpace(rec.Phone) == "" {
		return apperror.ErrPhoneMissing()
	}

	code, err := generateNumericCode(6)
	if err != nil {
		return apperror.InternalError(fmt.Errorf("generate code: %w", err))
	}

	if err := s.phoneCodes.Set(ctx, userID.String(), code, s.codeTTL); err != nil {
		return apperror.InternalError(fmt.Errorf("store code: %w", err))
	}

	s.notifier.Notify(ctx, domain.Notification{
		Kind:   domain.NotificationPhoneCode,
		UserID: userID.String(),
		Payload: map[string]string{
			"phone": rec.Phone,
			"code":  code,
		},
	})
	return nil
}

// VerifyPhone consumes the one-time code and marks the phone verified.
func (s *KYCServiceImpl) VerifyPhone(ctx context.Context, userID uuid.UUID, code string) (*domain.KYCData, error) {
	rec, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	ok, err := s.phoneCodes.Consume(ctx, userID.String(), strings.TrimSpace(code))
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("consume code: %w", err))
	}
	if !ok {
		return nil, apperror.ErrInvalidPhoneCode()
	}

	rec.PhoneVerified = true
	rec.UpdatedAt = time.Now().UTC()
	if err := s.kycRepo.Save(ctx, rec); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("save kyc record: %w", err))
	}
	return rec, nil
}

// Submit moves a complete record into review. The record and the
// user-record status mirror are updated in one database transaction.
func (s *KYCServiceImpl) Submit(ctx context.Context, userID uuid.UUID) (*domain.KYCData, error) {
	rec, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !rec.Submittable() {
		return nil, apperror.ErrKYCNotSubmittable()
	}
	if !rec.ReadyToSubmit() {
		return nil, apperror.ErrStepIncomplete(string(firstIncompleteStep(rec)))
	}

	now := time.Now().UTC()

	tx, err := s.transactor.Begin(ctx)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("begin tx: %w", err))
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	if err := s.kycRepo.SetSubmitted(ctx, tx, userID, now); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("mark kyc submitted: %w", err))
	}
	if err := s.userRepo.SetKYCStatus(ctx, tx, userID, domain.KYCStatusPending); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("mirror kyc status: %w", err))
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("commit tx: %w", err))
	}

	rec.Status = domain.KYCStatusPending
	rec.Step = domain.KYCStepReview
	rec.SubmittedAt = &now
	rec.RejectionReason = nil
	rec.UpdatedAt = now

	s.notifier.Notify(ctx, domain.Notification{
		Kind:   domain.NotificationKYCStatusChanged,
		UserID: userID.String(),
		Payload: map[string]string{
			"status": string(domain.KYCStatusPending),
		},
	})

	s.auditSvc.Log(ctx, &domain.AuditLog{
		ID:           uuid.New(),
		UserID:       &userID,
		Action:       domain.AuditActionKYCSubmit,
		ResourceType: "kyc",
		ResourceID:   userID.String(),
		CreatedAt:    now,
	})

	return rec, nil
}

// firstIncompleteStep returns the earliest data-collection step still
// blocking submission.
func firstIncompleteStep(rec *domain.KYCData) domain.KYCStep {
	for _, step := range domain.KYCSteps[:len(domain.KYCSteps)-1] {
		if !rec.StepComplete(step) {
			return step
		}
	}
	return domain.KYCStepReview
}

// generateNumericCode returns a cryptographically random n-digit code.
func generateNumericCode(n int) (string, error) {
	var sb strings.Builder
	for i := 0; i < n; i++ {
		d, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			return "", err
		}
		sb.WriteString(d.String())
	}
	return sb.String(), nil
}
