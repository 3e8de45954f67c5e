package handlers

import (
	"marketly/internal/handlers/shared"
	"marketly/internal/services"
	"marketly/internal/utils"
	"marketly/internal/validators"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	authService services.AuthService
}

func NewAuthHandler(authService services.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

func (h *AuthHandler) Register(c *gin.Context) {
	var request services.RegisterRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		_ = c.Error(utils.NewBadRequestError("Invalid request body: " + err.Error()))
		return
	}
	if errs := validators.ValidateRegistration(&request); len(errs) > 0 {
		_ = c.Error(errs.AppError())
		return
	}

	response, err := h.authService.Register(c.Request.Context(), &request)
	if err != nil {
		_ = c.Error(err)
		return
	}

	utils.CreatedResponse(c, "Registration successful", response)
}

func (h *AuthHandler) Login(c *gin.Context) {
	var request services.LoginRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		_ = c.Error(utils.NewBadRequestError("Invalid request body: " + err.Error()))
		return
	}
	if errs := validators.ValidateLogin(&request); len(errs) > 0 {
		_ = c.Error(errs.AppError())
		return
	}

	response, err := h.authService.Login(c.Request.Context(), &request)
	if err != nil {
		_ = c.Error(err)
		return
	}

	utils.SuccessResponse(c, "Login successful", response)
}

func (h *AuthHandler) RefreshToken(c *gin.Context) {
	var request services.RefreshTokenRequest
	if err := shared.BindJSON(c, &request); err != nil {
		_ = c.Error(err)
		return
	}

	response, err := h.authService.RefreshToken(c.Request.Context(), request.RefreshToken)
	if err != nil {
		_ = c.Error(err)
		return
	}

	utils.SuccessResponse(c, "Token refreshed successfully", response)
}

func (h *AuthHandler) Me(c *gin.Context) {
	userID, err := shared.UserID(c)
	if err != nil {
		_ = c.Error(err)
		return
	}

	user, err := h.authService.Me(c.Request.Context(), userID)
	if err != nil {
		_ = c.Error(err)
		return
	}

	utils.SuccessResponse(c, "Profile retrieved successfully", user)
}

func (h *AuthHandler) ChangePassword(c *gin.Context) {
	userID, err := shared.UserID(c)
	if err != nil {
		_ = c.Error(err)
		return
	}

	var request services.ChangePasswordRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		_ = c.Error(utils.NewBadRequestError("Invalid request body: " + err.Error()))
		return
	}
	if errs := validators.ValidatePasswordChange(&request); len(errs) > 0 {
		_ = c.Error(errs.AppError())
		return
	}

	if err := h.authService.ChangePassword(c.Request.Context(), userID, &request); err != nil {
		_ = c.Error(err)
		return
	}

	utils.SuccessResponse(c, "Password changed successfully", nil)
}
