package handlers

import (
	"strconv"

	"marketly/internal/handlers/shared"
	"marketly/internal/models"
	"marketly/internal/repositories/interfaces"
	"marketly/internal/services"
	"marketly/internal/utils"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ProductHandler struct {
	productService services.ProductService
}

func NewProductHandler(productService services.ProductService) *ProductHandler {
	return &ProductHandler{
		productService: productService,
	}
}

// Create adds a product. Vendors always own what they create.
func (h *ProductHandler) Create(c *gin.Context) {
	var request services.CreateProductRequest
	if err := shared.BindJSON(c, &request); err != nil {
		_ = c.Error(err)
		return
	}

	product, err := h.productService.Create(c.Request.Context(), &request, shared.Actor(c))
	if err != nil {
		_ = c.Error(err)
		return
	}

	shared.Audit(c, "create", "product", product.ID.Hex())
	utils.CreatedResponse(c, "Product created successfully", product)
}

func (h *ProductHandler) Get(c *gin.Context) {
	id, err := shared.ParamID(c, "id")
	if err != nil {
		_ = c.Error(err)
		return
	}

	product, err := h.productService.Get(c.Request.Context(), id)
	if err != nil {
		_ = c.Error(err)
		return
	}
	if product.Status != models.StatusActive && !canSeeInactive(c, product) {
		_ = c.Error(utils.NewNotFoundError("product"))
		return
	}

	utils.SuccessResponse(c, "Product retrieved successfully", product)
}

// canSeeInactive is true for admins and for the owning vendor under /manage.
func canSeeInactive(c *gin.Context, product *models.Product) bool {
	if shared.IsAdmin(c) {
		return true
	}
	actor := shared.Actor(c)
	return actor != nil && actor.Role == utils.RoleVendor && c.GetBool(manageScopeKey) &&
		product.VendorID != nil && *product.VendorID == actor.UserID
}

// GetBySlug serves the storefront product page.
func (h *ProductHandler) GetBySlug(c *gin.Context) {
	product, err := h.productService.GetPublished(c.Request.Context(), c.Param("slug"))
	if err != nil {
		_ = c.Error(err)
		return
	}

	utils.SuccessResponse(c, "Product retrieved successfully", product)
}

func (h *ProductHandler) Update(c *gin.Context) {
	id, err := shared.ParamID(c, "id")
	if err != nil {
		_ = c.Error(err)
		return
	}

	var request services.UpdateProductRequest
	if err := shared.BindPartialJSON(c, &request); err != nil {
		_ = c.Error(err)
		return
	}

	product, err := h.productService.Update(c.Request.Context(), id, &request, shared.Actor(c))
	if err != nil {
		_ = c.Error(err)
		return
	}

	shared.Audit(c, "update", "product", id.Hex())
	utils.SuccessResponse(c, "Product updated successfully", product)
}

func (h *ProductHandler) Remove(c *gin.Context) {
	id, err := shared.ParamID(c, "id")
	if err != nil {
		_ = c.Error(err)
		return
	}

	if err := h.productService.Remove(c.Request.Context(), id, shared.Actor(c)); err != nil {
		_ = c.Error(err)
		return
	}

	shared.Audit(c, "remove", "product", id.Hex())
	utils.SuccessResponse(c, "Product removed successfully", nil)
}

func (h *ProductHandler) List(c *gin.Context) {
	filter, err := productFilter(c)
	if err != nil {
		_ = c.Error(err)
		return
	}

	// vendors managing the catalog only see their own products
	if actor := shared.Actor(c); actor != nil && actor.Role == utils.RoleVendor && c.GetBool(manageScopeKey) {
		filter.VendorID = actor.IDPtr()
		filter.Status = ""
		if status := models.Status(c.Query("status")); status.Valid() {
			filter.Status = status
		}
	}

	params := utils.GetPaginationParams(c)
	products, total, err := h.productService.List(c.Request.Context(), filter, params)
	if err != nil {
		_ = c.Error(err)
		return
	}

	utils.PaginatedResponse(c, "Products retrieved successfully", products, params, total)
}

func productFilter(c *gin.Context) (interfaces.ProductFilter, error) {
	var filter interfaces.ProductFilter

	status, err := shared.StatusFilter(c)
	if err != nil {
		return filter, err
	}
	filter.Status = status

	ids := map[string]**primitive.ObjectID{
		"brand_id":    &filter.BrandID,
		"category_id": &filter.CategoryID,
		"tag_id":      &filter.TagID,
		"vendor_id":   &filter.VendorID,
		"vehicle_id":  &filter.VehicleID,
	}
	for name, target := range ids {
		id, err := shared.QueryID(c, name)
		if err != nil {
			return filter, err
		}
		*target = id
	}

	prices := map[string]*float64{"min_price": &filter.MinPrice, "max_price": &filter.MaxPrice}
	for name, target := range prices {
		raw := c.Query(name)
		if raw == "" {
			continue
		}
		value, err := strconv.ParseFloat(raw, 64)
		if err != nil || value < 0 {
			return filter, utils.NewValidationError("Invalid "+name, map[string]string{name: name + " must be a non-negative number"})
		}
		*target = value
	}

	if filter.MaxPrice > 0 && filter.MinPrice > filter.MaxPrice {
		return filter, utils.NewValidationError("Invalid price range", map[string]string{"max_price": "max_price must be at least min_price"})
	}
	return filter, nil
}

const manageScopeKey = "manage_scope"

// ManageScope marks requests coming through the catalog management routes.
func ManageScope() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(manageScopeKey, true)
		c.Next()
	}
}
