package handler

import (
	"strconv"
	"time"

	"swapmarket/internal/adapter/http/dto"
	"swapmarket/internal/adapter/http/middleware"
	"swapmarket/internal/core/ports"
	"swapmarket/pkg/apperror"
	"swapmarket/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// OfferHandler handles offer endpoints.
type OfferHandler struct {
	offerSvc ports.OfferService
}

// NewOfferHandler creates a new OfferHandler.
func NewOfferHandler(offerSvc ports.OfferService) *OfferHandler {
	return &OfferHandler{offerSvc: offerSvc}
}

// Create handles POST /api/v1/offers.
func (h *OfferHandler) Create(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	var req dto.CreateOfferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	dto.SanitizeStruct(&req)

	offer, err := h.offerSvc.Create(c.Request.Context(), ports.CreateOfferRequest{
		UserID:         userID,
		GiveCurrency:   req.GiveCurrency,
		GiveAmount:     req.GiveAmount,
		GetCurrency:    req.GetCurrency,
		GetAmount:      req.GetAmount,
		PaymentMethods: req.PaymentMethods,
		Location:       req.Location,
		Comment:        req.Comment,
		TTL:            time.Duration(req.TTLHours) * time.Hour,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, offer)
}

// Get handles GET /api/v1/offers/:id.
func (h *OfferHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, apperror.Validation("invalid offer id"))
		return
	}

	offer, err := h.offerSvc.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, offer)
}

// List handles GET /api/v1/offers.
func (h *OfferHandler) List(c *gin.Context) {
	params := ports.OfferListParams{
		Page:     queryInt(c, "page", 1),
		PageSize: queryInt(c, "page_size", 20),
	}
	if v := c.Query("give_currency"); v != "" {
		params.GiveCurrency = &v
	}
	if v := c.Query("get_currency"); v != "" {
		params.GetCurrency = &v
	}
	if v := c.Query("user_id"); v != "" {
		ownerID, err := uuid.Parse(v)
		if err != nil {
			response.Error(c, apperror.Validation("invalid user_id filter"))
			return
		}
		params.UserID = &ownerID
	}

	offers, total, err := h.offerSvc.List(c.Request.Context(), params)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, dto.NewListResponse(offers, total, params.Page, params.PageSize))
}

// queryInt parses an integer query parameter with a fallback.
func queryInt(c *gin.Context, name string, fallback int) int {
	v := c.Query(name)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}
