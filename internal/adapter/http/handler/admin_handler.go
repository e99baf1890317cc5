package handler

import (
	"swapmarket/internal/adapter/http/dto"
	"swapmarket/internal/core/domain"
	"swapmarket/internal/core/ports"
	"swapmarket/pkg/apperror"
	"swapmarket/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// AdminHandler exposes the administrative surface.
type AdminHandler struct {
	adminSvc ports.AdminService
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(adminSvc ports.AdminService) *AdminHandler {
	return &AdminHandler{adminSvc: adminSvc}
}

// ListUsers handles GET /api/v1/admin/users.
func (h *AdminHandler) ListUsers(c *gin.Context) {
	params := ports.UserListParams{
		Page:     queryInt(c, "page", 1),
		PageSize: queryInt(c, "page_size", 20),
	}
	if v := c.Query("status"); v != "" {
		status := domain.UserStatus(v)
		if !status.IsValid() {
			response.Error(c, apperror.Validation("invalid status filter"))
			return
		}
		params.Status = &status
	}

	users, total, err := h.adminSvc.ListUsers(c.Request.Context(), params)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, dto.NewListResponse(users, total, params.Page, params.PageSize))
}

// ListTransactions handles GET /api/v1/admin/transactions.
func (h *AdminHandler) ListTransactions(c *gin.Context) {
	params := ports.TransactionListParams{
		Page:     queryInt(c, "page", 1),
		PageSize: queryInt(c, "page_size", 20),
	}
	if v := c.Query("status"); v != "" {
		status := domain.TransactionStatus(v)
		if !status.IsValid() {
			response.Error(c, apperror.Validation("invalid status filter"))
			return
		}
		params.Status = &status
	}
	if v := c.Query("user_id"); v != "" {
		userID, err := uuid.Parse(v)
		if err != nil {
			response.Error(c, apperror.Validation("invalid user_id filter"))
			return
		}
		params.UserID = &userID
	}

	txns, total, err := h.adminSvc.ListTransactions(c.Request.Context(), params)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, dto.NewListResponse(txns, total, params.Page, params.PageSize))
}

// ListKYC handles GET /api/v1/admin/kyc.
func (h *AdminHandler) ListKYC(c *gin.Context) {
	params := ports.KYCListParams{
		Page:     queryInt(c, "page", 1),
		PageSize: queryInt(c, "page_size", 20),
	}
	if v := c.Query("status"); v != "" {
		status := domain.KYCStatus(v)
		if !status.IsValid() {
			response.Error(c, apperror.Validation("invalid status filter"))
			return
		}
		params.Status = &status
	}

	records, total, err := h.adminSvc.ListKYCSubmissions(c.Request.Context(), params)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, dto.NewListResponse(records, total, params.Page, params.PageSize))
}

// SuspendUser handles POST /api/v1/admin/users/:id/suspend.
func (h *AdminHandler) SuspendUser(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, apperror.Validation("invalid user id"))
		return
	}

	if err := h.adminSvc.SuspendUser(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, gin.H{"status": string(domain.UserStatusSuspended)})
}

// ActivateUser handles POST /api/v1/admin/users/:id/activate.
func (h *AdminHandler) ActivateUser(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, apperror.Validation("invalid user id"))
		return
	}

	if err := h.adminSvc.ActivateUser(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, gin.H{"status": string(domain.UserStatusActive)})
}

// VerifyKYC handles POST /api/v1/admin/kyc/:user_id/verify.
func (h *AdminHandler) VerifyKYC(c *gin.Context) {
	userID, err := uuid.Parse(c.Param("user_id"))
	if err != nil {
		response.Error(c, apperror.Validation("invalid user id"))
		return
	}

	var req dto.VerifyKYCRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			response.Error(c, apperror.Validation(err.Error()))
			return
		}
		dto.SanitizeStruct(&req)
	}

	if err := h.adminSvc.VerifyKYC(c.Request.Context(), userID, req.Note); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, gin.H{"status": string(domain.KYCStatusVerified)})
}

// RejectKYC handles POST /api/v1/admin/kyc/:user_id/reject.
func (h *AdminHandler) RejectKYC(c *gin.Context) {
	userID, err := uuid.Parse(c.Param("user_id"))
	if err != nil {
		response.Error(c, apperror.Validation("invalid user id"))
		return
	}

	var req dto.RejectKYCRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	dto.SanitizeStruct(&req)

	if err := h.adminSvc.RejectKYC(c.Request.Context(), userID, req.Reason); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, gin.H{"status": string(domain.KYCStatusRejected)})
}

// OverrideTransactionStatus handles PATCH /api/v1/admin/transactions/:id/status.
func (h *AdminHandler) OverrideTransactionStatus(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, apperror.Validation("invalid transaction id"))
		return
	}

	var req dto.UpdateTransactionStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	txn, err := h.adminSvc.OverrideTransactionStatus(c.Request.Context(), id, domain.TransactionStatus(req.Status))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, txn)
}

// DeleteMessage handles DELETE /api/v1/admin/messages/:id.
func (h *AdminHandler) DeleteMessage(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, apperror.Validation("invalid message id"))
		return
	}

	if err := h.adminSvc.DeleteMessage(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
