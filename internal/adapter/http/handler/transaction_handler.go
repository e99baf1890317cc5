package handler

import (
	"swapmarket/internal/adapter/http/dto"
	"swapmarket/internal/adapter/http/middleware"
	"swapmarket/internal/core/domain"
	"swapmarket/internal/core/ports"
	"swapmarket/pkg/apperror"
	"swapmarket/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// TransactionHandler handles the exchange lifecycle plus the chat thread
// attached to each transaction.
type TransactionHandler struct {
	txnSvc ports.TransactionService
	msgSvc ports.MessageService
}

// NewTransactionHandler creates a new TransactionHandler.
func NewTransactionHandler(txnSvc ports.TransactionService, msgSvc ports.MessageService) *TransactionHandler {
	return &TransactionHandler{txnSvc: txnSvc, msgSvc: msgSvc}
}

// Accept handles POST /api/v1/offers/:id/accept.
func (h *TransactionHandler) Accept(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	offerID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, apperror.Validation("invalid offer id"))
		return
	}

	var req dto.AcceptOfferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	dto.SanitizeStruct(&req)

	txn, err := h.txnSvc.Create(c.Request.Context(), ports.CreateTransactionRequest{
		OfferID:       offerID,
		AcceptorID:    userID,
		PaymentMethod: req.PaymentMethod,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, txn)
}

// Get handles GET /api/v1/transactions/:id.
func (h *TransactionHandler) Get(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, apperror.Validation("invalid transaction id"))
		return
	}

	txn, err := h.txnSvc.Get(c.Request.Context(), id, userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, txn)
}

// List handles GET /api/v1/transactions.
func (h *TransactionHandler) List(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

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

	txns, total, err := h.txnSvc.ListForUser(c.Request.Context(), userID, params)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, dto.NewListResponse(txns, total, params.Page, params.PageSize))
}

// UpdateStatus handles PATCH /api/v1/transactions/:id/status.
func (h *TransactionHandler) UpdateStatus(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

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

	txn, err := h.txnSvc.UpdateStatus(c.Request.Context(), id, userID, domain.TransactionStatus(req.Status))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, txn)
}

// SubmitProof handles POST /api/v1/transactions/:id/proof.
func (h *TransactionHandler) SubmitProof(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, apperror.Validation("invalid transaction id"))
		return
	}

	var req dto.SubmitProofRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	txn, err := h.txnSvc.SubmitProof(c.Request.Context(), id, userID, req.ProofURL)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, txn)
}

// PostMessage handles POST /api/v1/transactions/:id/messages.
func (h *TransactionHandler) PostMessage(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, apperror.Validation("invalid transaction id"))
		return
	}

	var req dto.PostMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	dto.SanitizeStruct(&req)

	msg, err := h.msgSvc.Post(c.Request.Context(), id, userID, req.Body)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, msg)
}

// ListMessages handles GET /api/v1/transactions/:id/messages.
func (h *TransactionHandler) ListMessages(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, apperror.Validation("invalid transaction id"))
		return
	}

	msgs, err := h.msgSvc.List(c.Request.Context(), id, userID, middleware.IsAdmin(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, msgs)
}
