package handlers

import (
	"marketly/internal/handlers/shared"
	"marketly/internal/repositories/interfaces"
	"marketly/internal/services"
	"marketly/internal/utils"

	"github.com/gin-gonic/gin"
)

type CategoryHandler struct {
	categoryService services.CategoryService
}

func NewCategoryHandler(categoryService services.CategoryService) *CategoryHandler {
	return &CategoryHandler{
		categoryService: categoryService,
	}
}

func (h *CategoryHandler) Create(c *gin.Context) {
	var request services.CreateCategoryRequest
	if err := shared.BindJSON(c, &request); err != nil {
		_ = c.Error(err)
		return
	}

	category, err := h.categoryService.Create(c.Request.Context(), &request)
	if err != nil {
		_ = c.Error(err)
		return
	}

	shared.Audit(c, "create", "category", category.ID.Hex())
	utils.CreatedResponse(c, "Category created successfully", category)
}

func (h *CategoryHandler) Get(c *gin.Context) {
	id, err := shared.ParamID(c, "id")
	if err != nil {
		_ = c.Error(err)
		return
	}

	category, err := h.categoryService.Get(c.Request.Context(), id)
	if err != nil {
		_ = c.Error(err)
		return
	}

	utils.SuccessResponse(c, "Category retrieved successfully", category)
}

func (h *CategoryHandler) GetBySlug(c *gin.Context) {
	category, err := h.categoryService.GetBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		_ = c.Error(err)
		return
	}

	utils.SuccessResponse(c, "Category retrieved successfully", category)
}

func (h *CategoryHandler) Update(c *gin.Context) {
	id, err := shared.ParamID(c, "id")
	if err != nil {
		_ = c.Error(err)
		return
	}

	var request services.UpdateCategoryRequest
	if err := shared.BindPartialJSON(c, &request); err != nil {
		_ = c.Error(err)
		return
	}

	category, err := h.categoryService.Update(c.Request.Context(), id, &request)
	if err != nil {
		_ = c.Error(err)
		return
	}

	shared.Audit(c, "update", "category", id.Hex())
	utils.SuccessResponse(c, "Category updated successfully", category)
}

// Remove retires the category together with its subtree.
func (h *CategoryHandler) Remove(c *gin.Context) {
	id, err := shared.ParamID(c, "id")
	if err != nil {
		_ = c.Error(err)
		return
	}

	retired, err := h.categoryService.Remove(c.Request.Context(), id)
	if err != nil {
		_ = c.Error(err)
		return
	}

	shared.Audit(c, "remove", "category", id.Hex())
	utils.SuccessResponse(c, "Category removed successfully", gin.H{"retired": retired})
}

// List filters by parent_id, or root=true for top level categories.
func (h *CategoryHandler) List(c *gin.Context) {
	status, err := shared.StatusFilter(c)
	if err != nil {
		_ = c.Error(err)
		return
	}
	parentID, err := shared.QueryID(c, "parent_id")
	if err != nil {
		_ = c.Error(err)
		return
	}
	params := utils.GetPaginationParams(c)

	filter := interfaces.CategoryFilter{
		ParentID: parentID,
		RootOnly: parentID == nil && c.Query("root") == "true",
		Status:   status,
	}

	categories, total, err := h.categoryService.List(c.Request.Context(), filter, params)
	if err != nil {
		_ = c.Error(err)
		return
	}

	utils.PaginatedResponse(c, "Categories retrieved successfully", categories, params, total)
}
