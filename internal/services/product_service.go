package services

import (
	"context"
	"strings"

	"marketly/internal/models"
	"marketly/internal/repositories/interfaces"
	"marketly/internal/utils"
	"marketly/pkg/logger"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ProductService interface {
	Create(ctx context.Context, request *CreateProductRequest, actor *Actor) (*models.Product, error)
	Get(ctx context.Context, id primitive.ObjectID) (*models.Product, error)
	// GetPublished returns an active product by slug for the storefront.
	GetPublished(ctx context.Context, slug string) (*models.Product, error)
	Update(ctx context.Context, id primitive.ObjectID, request *UpdateProductRequest, actor *Actor) (*models.Product, error)
	Remove(ctx context.Context, id primitive.ObjectID, actor *Actor) error
	List(ctx context.Context, filter interfaces.ProductFilter, params *utils.PaginationParams) ([]*models.Product, int64, error)
}

type ProductDimensions struct {
	LengthCm float64 `json:"length_cm" validate:"gt=0"`
	WidthCm  float64 `json:"width_cm" validate:"gt=0"`
	HeightCm float64 `json:"height_cm" validate:"gt=0"`
}

func (d *ProductDimensions) toModel() *models.Dimensions {
	if d == nil {
		return nil
	}
	return &models.Dimensions{LengthCm: d.LengthCm, WidthCm: d.WidthCm, HeightCm: d.HeightCm}
}

type CreateProductRequest struct {
	Name              string             `json:"name" validate:"required,min=1,max=200"`
	Slug              string             `json:"slug" validate:"omitempty,slug"`
	SKU               string             `json:"sku" validate:"required,min=2,max=64"`
	Description       string             `json:"description" validate:"max=10000"`
	Price             float64            `json:"price" validate:"gt=0"`
	CompareAtPrice    float64            `json:"compare_at_price" validate:"omitempty,gtfield=Price"`
	BrandID           string             `json:"brand_id" validate:"omitempty,object_id"`
	CategoryID        string             `json:"category_id" validate:"omitempty,object_id"`
	TagIDs            []string           `json:"tag_ids" validate:"omitempty,dive,object_id"`
	VendorID          string             `json:"vendor_id" validate:"omitempty,object_id"`
	VehicleIDs        []string           `json:"vehicle_ids" validate:"omitempty,dive,object_id"`
	HSNCode           string             `json:"hsn_code" validate:"omitempty,hsn_code"`
	WeightKg          float64            `json:"weight_kg" validate:"min=0"`
	Dimensions        *ProductDimensions `json:"dimensions"`
	Stock             int                `json:"stock" validate:"min=0"`
	LowStockThreshold int                `json:"low_stock_threshold" validate:"min=0"`
	Images            []string           `json:"images" validate:"omitempty,max=20,dive,max=500"`
	Status            models.Status      `json:"status" validate:"omitempty,oneof=active inactive"`
}

type UpdateProductRequest struct {
	Name              *string            `json:"name" validate:"omitempty,min=1,max=200"`
	Slug              *string            `json:"slug" validate:"omitempty,slug"`
	Description       *string            `json:"description" validate:"omitempty,max=10000"`
	Price             *float64           `json:"price" validate:"omitempty,gt=0"`
	CompareAtPrice    *float64           `json:"compare_at_price" validate:"omitempty,min=0"`
	BrandID           *string            `json:"brand_id" validate:"omitempty,object_id"`
	CategoryID        *string            `json:"category_id" validate:"omitempty,object_id"`
	TagIDs            *[]string          `json:"tag_ids" validate:"omitempty,dive,object_id"`
	VehicleIDs        *[]string          `json:"vehicle_ids" validate:"omitempty,dive,object_id"`
	HSNCode           *string            `json:"hsn_code" validate:"omitempty,hsn_code"`
	WeightKg          *float64           `json:"weight_kg" validate:"omitempty,min=0"`
	Dimensions        *ProductDimensions `json:"dimensions"`
	LowStockThreshold *int               `json:"low_stock_threshold" validate:"omitempty,min=0"`
	Images            *[]string          `json:"images" validate:"omitempty,max=20,dive,max=500"`
	Status            *models.Status     `json:"status" validate:"omitempty,oneof=active inactive"`
}

type productService struct {
	productRepo  interfaces.ProductRepository
	brandRepo    interfaces.BrandRepository
	categoryRepo interfaces.CategoryRepository
	tagRepo      interfaces.TagRepository
	logger       *logger.Logger
}

func NewProductService(
	productRepo interfaces.ProductRepository,
	brandRepo interfaces.BrandRepository,
	categoryRepo interfaces.CategoryRepository,
	tagRepo interfaces.TagRepository,
	logger *logger.Logger,
) ProductService {
	return &productService{
		productRepo:  productRepo,
		brandRepo:    brandRepo,
		categoryRepo: categoryRepo,
		tagRepo:      tagRepo,
		logger:       logger,
	}
}

func (s *productService) Create(ctx context.Context, request *CreateProductRequest, actor *Actor) (*models.Product, error) {
	brandID := objectIDPtr(request.BrandID)
	categoryID := objectIDPtr(request.CategoryID)
	tagIDs := objectIDs(request.TagIDs)
	if err := s.checkReferences(ctx, brandID, categoryID, tagIDs); err != nil {
		return nil, err
	}

	vendorID := objectIDPtr(request.VendorID)
	if actor != nil && actor.Role == utils.RoleVendor {
		vendorID = actor.IDPtr()
	}

	name := strings.TrimSpace(request.Name)
	sku := strings.ToUpper(strings.TrimSpace(request.SKU))
	product := &models.Product{
		Name:              name,
		Slug:              slugOrDefault(request.Slug, name),
		SKU:               sku,
		Description:       request.Description,
		Price:             utils.Round2(request.Price),
		CompareAtPrice:    utils.Round2(request.CompareAtPrice),
		BrandID:           brandID,
		CategoryID:        categoryID,
		TagIDs:            tagIDs,
		VendorID:          vendorID,
		VehicleIDs:        objectIDs(request.VehicleIDs),
		HSNCode:           request.HSNCode,
		WeightKg:          request.WeightKg,
		Dimensions:        request.Dimensions.toModel(),
		Stock:             request.Stock,
		LowStockThreshold: request.LowStockThreshold,
		Images:            request.Images,
		Status:            statusOrActive(request.Status),
	}

	existing, err := s.productRepo.FindAnyBySKU(ctx, sku)
	if err != nil && !isNotFound(err) {
		return nil, repoError(err, "product")
	}
	if existing != nil {
		if existing.IsActive() {
			return nil, utils.NewConflictError("product with this SKU already exists")
		}

		restored, err := s.productRepo.Restore(ctx, existing.ID, map[string]interface{}{
			"name":                product.Name,
			"slug":                product.Slug,
			"description":         product.Description,
			"price":               product.Price,
			"compare_at_price":    product.CompareAtPrice,
			"brand_id":            product.BrandID,
			"category_id":         product.CategoryID,
			"tag_ids":             product.TagIDs,
			"vendor_id":           product.VendorID,
			"vehicle_ids":         product.VehicleIDs,
			"hsn_code":            product.HSNCode,
			"weight_kg":           product.WeightKg,
			"dimensions":          product.Dimensions,
			"stock":               product.Stock,
			"low_stock_threshold": product.LowStockThreshold,
			"images":              product.Images,
			"status":              product.Status,
		})
		if err != nil {
			return nil, repoError(err, "product")
		}
		s.logger.WithField("product_id", restored.ID.Hex()).Info("Product restored")
		return restored, nil
	}

	if err := s.productRepo.Create(ctx, product); err != nil {
		return nil, repoError(err, "product")
	}

	s.logger.WithFields(map[string]interface{}{
		"product_id": product.ID.Hex(),
		"sku":        product.SKU,
	}).Info("Product created")
	return product, nil
}

func (s *productService) checkReferences(ctx context.Context, brandID, categoryID *primitive.ObjectID, tagIDs []primitive.ObjectID) error {
	if brandID != nil {
		if _, err := s.brandRepo.GetByID(ctx, *brandID); err != nil {
			return repoError(err, "brand")
		}
	}
	if categoryID != nil {
		if _, err := s.categoryRepo.GetByID(ctx, *categoryID); err != nil {
			return repoError(err, "category")
		}
	}
	if len(tagIDs) > 0 {
		unique := make(map[primitive.ObjectID]struct{}, len(tagIDs))
		for _, id := range tagIDs {
			unique[id] = struct{}{}
		}
		count, err := s.tagRepo.CountActive(ctx, tagIDs)
		if err != nil {
			return repoError(err, "tag")
		}
		if count != int64(len(unique)) {
			return utils.NewValidationError(utils.ErrValidationFailed, map[string]string{"tag_ids": "one or more tags do not exist"})
		}
	}
	return nil
}

func (s *productService) Get(ctx context.Context, id primitive.ObjectID) (*models.Product, error) {
	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, repoError(err, "product")
	}
	return product, nil
}

func (s *productService) GetPublished(ctx context.Context, slug string) (*models.Product, error) {
	product, err := s.productRepo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, repoError(err, "product")
	}
	if product.Status != models.StatusActive {
		return nil, utils.NewNotFoundError("product")
	}
	return product, nil
}

// owned loads the product and checks a vendor only touches their own listings.
func (s *productService) owned(ctx context.Context, id primitive.ObjectID, actor *Actor) (*models.Product, error) {
	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, repoError(err, "product")
	}
	if actor != nil && actor.Role == utils.RoleVendor {
		if product.VendorID == nil || *product.VendorID != actor.UserID {
			return nil, utils.NewForbiddenError("product belongs to another vendor")
		}
	}
	return product, nil
}

func (s *productService) Update(ctx context.Context, id primitive.ObjectID, request *UpdateProductRequest, actor *Actor) (*models.Product, error) {
	if _, err := s.owned(ctx, id, actor); err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	setIf(updates, "name", request.Name)
	setIf(updates, "slug", request.Slug)
	setIf(updates, "description", request.Description)
	setIf(updates, "hsn_code", request.HSNCode)
	setIf(updates, "weight_kg", request.WeightKg)
	setIf(updates, "low_stock_threshold", request.LowStockThreshold)
	setIf(updates, "images", request.Images)
	setIf(updates, "status", request.Status)
	if request.Price != nil {
		updates["price"] = utils.Round2(*request.Price)
	}
	if request.CompareAtPrice != nil {
		updates["compare_at_price"] = utils.Round2(*request.CompareAtPrice)
	}
	if request.Dimensions != nil {
		updates["dimensions"] = request.Dimensions.toModel()
	}
	if request.VehicleIDs != nil {
		updates["vehicle_ids"] = objectIDs(*request.VehicleIDs)
	}

	var brandID, categoryID *primitive.ObjectID
	var tagIDs []primitive.ObjectID
	if request.BrandID != nil {
		brandID = objectIDPtr(*request.BrandID)
		updates["brand_id"] = brandID
	}
	if request.CategoryID != nil {
		categoryID = objectIDPtr(*request.CategoryID)
		updates["category_id"] = categoryID
	}
	if request.TagIDs != nil {
		tagIDs = objectIDs(*request.TagIDs)
		updates["tag_ids"] = tagIDs
	}
	if len(updates) == 0 {
		return nil, errNothingToUpdate()
	}
	if err := s.checkReferences(ctx, brandID, categoryID, tagIDs); err != nil {
		return nil, err
	}

	product, err := s.productRepo.Update(ctx, id, updates)
	if err != nil {
		return nil, repoError(err, "product")
	}
	return product, nil
}

func (s *productService) Remove(ctx context.Context, id primitive.ObjectID, actor *Actor) error {
	if _, err := s.owned(ctx, id, actor); err != nil {
		return err
	}
	if err := s.productRepo.Retire(ctx, id); err != nil {
		return repoError(err, "product")
	}
	s.logger.WithField("product_id", id.Hex()).Info("Product removed")
	return nil
}

func (s *productService) List(ctx context.Context, filter interfaces.ProductFilter, params *utils.PaginationParams) ([]*models.Product, int64, error) {
	products, total, err := s.productRepo.List(ctx, filter, params)
	if err != nil {
		return nil, 0, repoError(err, "product")
	}
	return products, total, nil
}
