package handler

import (
	"swapmarket/internal/adapter/http/dto"
	"swapmarket/internal/adapter/http/middleware"
	"swapmarket/internal/core/ports"
	"swapmarket/pkg/apperror"
	"swapmarket/pkg/response"

	"github.com/gin-gonic/gin"
)

// UserHandler serves the caller's own profile.
type UserHandler struct {
	userRepo ports.UserRepository
	prefs    ports.PreferenceStore
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(userRepo ports.UserRepository, prefs ports.PreferenceStore) *UserHandler {
	return &UserHandler{userRepo: userRepo, prefs: prefs}
}

// GetMe handles GET /api/v1/users/me.
func (h *UserHandler) GetMe(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	user, err := h.userRepo.GetByID(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, apperror.InternalError(err))
		return
	}
	if user == nil {
		response.Error(c, apperror.ErrNotFound("user"))
		return
	}

	if lang, err := h.prefs.GetLanguage(c.Request.Context(), userID.String()); err == nil && lang != "" {
		user.Language = lang
	}

	response.OK(c, user)
}

// SetLanguage handles PUT /api/v1/users/me/language.
func (h *UserHandler) SetLanguage(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	var req dto.SetLanguageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	dto.SanitizeStruct(&req)

	if err := h.prefs.SetLanguage(c.Request.Context(), userID.String(), req.Language); err != nil {
		response.Error(c, apperror.InternalError(err))
		return
	}
	response.OK(c, gin.H{"language": req.Language})
}
