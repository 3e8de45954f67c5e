package handlers

import (
	"marketly/internal/handlers/shared"
	"marketly/internal/services"
	"marketly/internal/utils"

	"github.com/gin-gonic/gin"
)

type RoleHandler struct {
	roleService services.RoleService
}

func NewRoleHandler(roleService services.RoleService) *RoleHandler {
	return &RoleHandler{
		roleService: roleService,
	}
}

// Create adds a role, restoring a retired one with the same name.
func (h *RoleHandler) Create(c *gin.Context) {
	var request services.CreateRoleRequest
	if err := shared.BindJSON(c, &request); err != nil {
		_ = c.Error(err)
		return
	}

	role, err := h.roleService.Create(c.Request.Context(), &request)
	if err != nil {
		_ = c.Error(err)
		return
	}

	shared.Audit(c, "create", "role", role.ID.Hex())
	utils.CreatedResponse(c, "Role created successfully", role)
}

func (h *RoleHandler) Get(c *gin.Context) {
	id, err := shared.ParamID(c, "id")
	if err != nil {
		_ = c.Error(err)
		return
	}

	role, err := h.roleService.Get(c.Request.Context(), id)
	if err != nil {
		_ = c.Error(err)
		return
	}

	utils.SuccessResponse(c, "Role retrieved successfully", role)
}

func (h *RoleHandler) Update(c *gin.Context) {
	id, err := shared.ParamID(c, "id")
	if err != nil {
		_ = c.Error(err)
		return
	}

	var request services.UpdateRoleRequest
	if err := shared.BindPartialJSON(c, &request); err != nil {
		_ = c.Error(err)
		return
	}

	role, err := h.roleService.Update(c.Request.Context(), id, &request)
	if err != nil {
		_ = c.Error(err)
		return
	}

	shared.Audit(c, "update", "role", id.Hex())
	utils.SuccessResponse(c, "Role updated successfully", role)
}

// Remove fails for built-in roles and roles still assigned to users.
func (h *RoleHandler) Remove(c *gin.Context) {
	id, err := shared.ParamID(c, "id")
	if err != nil {
		_ = c.Error(err)
		return
	}

	if err := h.roleService.Remove(c.Request.Context(), id); err != nil {
		_ = c.Error(err)
		return
	}

	shared.Audit(c, "remove", "role", id.Hex())
	utils.SuccessResponse(c, "Role removed successfully", nil)
}

func (h *RoleHandler) List(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	roles, total, err := h.roleService.List(c.Request.Context(), params)
	if err != nil {
		_ = c.Error(err)
		return
	}

	utils.PaginatedResponse(c, "Roles retrieved successfully", roles, params, total)
}
