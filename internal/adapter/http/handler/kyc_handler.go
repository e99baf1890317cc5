package handler

import (
	"swapmarket/internal/adapter/http/dto"
	"swapmarket/internal/adapter/http/middleware"
	"swapmarket/internal/core/ports"
	"swapmarket/pkg/apperror"
	"swapmarket/pkg/response"

	"github.com/gin-gonic/gin"
)

// KYCHandler exposes the identity-verification wizard.
type KYCHandler struct {
	kycSvc ports.KYCService
}

// NewKYCHandler creates a new KYCHandler.
func NewKYCHandler(kycSvc ports.KYCService) *KYCHandler {
	return &KYCHandler{kycSvc: kycSvc}
}

// Get handles GET /api/v1/kyc.
func (h *KYCHandler) Get(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	rec, err := h.kycSvc.Get(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, rec)
}

// Update handles PATCH /api/v1/kyc.
func (h *KYCHandler) Update(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	var req dto.KYCUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	dto.SanitizeStruct(&req)

	rec, err := h.kycSvc.UpdateData(c.Request.Context(), userID, ports.KYCUpdate{
		FirstName:       req.FirstName,
		LastName:        req.LastName,
		DateOfBirth:     req.DateOfBirth,
		Phone:           req.Phone,
		Address:         req.Address,
		City:            req.City,
		PostalCode:      req.PostalCode,
		Country:         req.Country,
		DocumentType:    req.DocumentType,
		DocumentURL:     req.DocumentURL,
		SelfieURL:       req.SelfieURL,
		AddressProofURL: req.AddressProofURL,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, rec)
}

// Continue handles POST /api/v1/kyc/continue.
func (h *KYCHandler) Continue(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	rec, err := h.kycSvc.Continue(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, rec)
}

// Back handles POST /api/v1/kyc/back.
func (h *KYCHandler) Back(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	rec, err := h.kycSvc.Back(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, rec)
}

// RequestPhoneCode handles POST /api/v1/kyc/phone/code.
func (h *KYCHandler) RequestPhoneCode(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	if err := h.kycSvc.RequestPhoneCode(c.Request.Context(), userID); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, gin.H{"sent": true})
}

// VerifyPhone handles POST /api/v1/kyc/phone/verify.
func (h *KYCHandler) VerifyPhone(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	var req dto.VerifyPhoneRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	rec, err := h.kycSvc.VerifyPhone(c.Request.Context(), userID, req.Code)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, rec)
}

// Submit handles POST /api/v1/kyc/submit.
func (h *KYCHandler) Submit(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	rec, err := h.kycSvc.Submit(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, rec)
}
