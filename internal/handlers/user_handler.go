package handlers

import (
	"marketly/internal/handlers/shared"
	"marketly/internal/models"
	"marketly/internal/repositories/interfaces"
	"marketly/internal/services"
	"marketly/internal/utils"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	userService services.UserService
}

func NewUserHandler(userService services.UserService) *UserHandler {
	return &UserHandler{
		userService: userService,
	}
}

// List filters by role and status.
func (h *UserHandler) List(c *gin.Context) {
	params := utils.GetPaginationParams(c)
	filter := interfaces.UserFilter{
		Role:   c.Query("role"),
		Status: models.UserStatus(c.Query("status")),
	}

	users, total, err := h.userService.List(c.Request.Context(), filter, params)
	if err != nil {
		_ = c.Error(err)
		return
	}

	utils.PaginatedResponse(c, "Users retrieved successfully", users, params, total)
}

func (h *UserHandler) Get(c *gin.Context) {
	id, err := shared.ParamID(c, "id")
	if err != nil {
		_ = c.Error(err)
		return
	}

	user, err := h.userService.Get(c.Request.Context(), id)
	if err != nil {
		_ = c.Error(err)
		return
	}

	utils.SuccessResponse(c, "User retrieved successfully", user)
}

func (h *UserHandler) Update(c *gin.Context) {
	id, err := shared.ParamID(c, "id")
	if err != nil {
		_ = c.Error(err)
		return
	}

	var request services.UpdateUserRequest
	if err := shared.BindPartialJSON(c, &request); err != nil {
		_ = c.Error(err)
		return
	}

	user, err := h.userService.Update(c.Request.Context(), id, &request, shared.Actor(c))
	if err != nil {
		_ = c.Error(err)
		return
	}

	shared.Audit(c, "update", "user", id.Hex())
	utils.SuccessResponse(c, "User updated successfully", user)
}

// Remove retires the account. Retired users can no longer log in.
func (h *UserHandler) Remove(c *gin.Context) {
	id, err := shared.ParamID(c, "id")
	if err != nil {
		_ = c.Error(err)
		return
	}

	if err := h.userService.Remove(c.Request.Context(), id, shared.Actor(c)); err != nil {
		_ = c.Error(err)
		return
	}

	shared.Audit(c, "remove", "user", id.Hex())
	utils.SuccessResponse(c, "User removed successfully", nil)
}
