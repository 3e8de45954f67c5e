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

type BrandService interface {
	Create(ctx context.Context, request *CreateBrandRequest) (*models.Brand, error)
	Get(ctx context.Context, id primitive.ObjectID) (*models.Brand, error)
	GetBySlug(ctx context.Context, slug string) (*models.Brand, error)
	Update(ctx context.Context, id primitive.ObjectID, request *UpdateBrandRequest) (*models.Brand, error)
	Remove(ctx context.Context, id primitive.ObjectID) error
	List(ctx context.Context, status models.Status, params *utils.PaginationParams) ([]*models.Brand, int64, error)
}

type CreateBrandRequest struct {
	Name        string        `json:"name" validate:"required,min=1,max=100"`
	Slug        string        `json:"slug" validate:"omitempty,slug"`
	Description string        `json:"description" validate:"max=2000"`
	Logo        string        `json:"logo" validate:"max=500"`
	Website     string        `json:"website" validate:"omitempty,url"`
	Status      models.Status `json:"status" validate:"omitempty,oneof=active inactive"`
}

type UpdateBrandRequest struct {
	Name        *string        `json:"name" validate:"omitempty,min=1,max=100"`
	Slug        *string        `json:"slug" validate:"omitempty,slug"`
	Description *string        `json:"description" validate:"omitempty,max=2000"`
	Logo        *string        `json:"logo" validate:"omitempty,max=500"`
	Website     *string        `json:"website" validate:"omitempty,url"`
	Status      *models.Status `json:"status" validate:"omitempty,oneof=active inactive"`
}

type brandService struct {
	brandRepo interfaces.BrandRepository
	logger    *logger.Logger
}

func NewBrandService(brandRepo interfaces.BrandRepository, logger *logger.Logger) BrandService {
	return &brandService{
		brandRepo: brandRepo,
		logger:    logger,
	}
}

func (s *brandService) Create(ctx context.Context, request *CreateBrandRequest) (*models.Brand, error) {
	name := strings.TrimSpace(request.Name)
	brand := &models.Brand{
		Name:        name,
		Slug:        slugOrDefault(request.Slug, name),
		Description: request.Description,
		Logo:        request.Logo,
		Website:     request.Website,
		Status:      statusOrActive(request.Status),
	}

	existing, err := s.brandRepo.FindAnyByName(ctx, name)
	if err != nil && !isNotFound(err) {
		return nil, repoError(err, "brand")
	}
	if existing != nil {
		if existing.IsActive() {
			return nil, utils.NewConflictError("brand with this name already exists")
		}

		restored, err := s.brandRepo.Restore(ctx, existing.ID, map[string]interface{}{
			"name":        brand.Name,
			"slug":        brand.Slug,
			"description": brand.Description,
			"logo":        brand.Logo,
			"website":     brand.Website,
			"status":      brand.Status,
		})
		if err != nil {
			return nil, repoError(err, "brand")
		}
		s.logger.WithField("brand_id", restored.ID.Hex()).Info("Brand restored")
		return restored, nil
	}

	if err := s.brandRepo.Create(ctx, brand); err != nil {
		return nil, repoError(err, "brand")
	}

	s.logger.WithField("brand_id", brand.ID.Hex()).Info("Brand created")
	return brand, nil
}

func (s *brandService) Get(ctx context.Context, id primitive.ObjectID) (*models.Brand, error) {
	brand, err := s.brandRepo.GetByID(ctx, id)
	if err != nil {
		return nil, repoError(err, "brand")
	}
	return brand, nil
}

func (s *brandService) GetBySlug(ctx context.Context, slug string) (*models.Brand, error) {
	brand, err := s.brandRepo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, repoError(err, "brand")
	}
	return brand, nil
}

func (s *brandService) Update(ctx context.Context, id primitive.ObjectID, request *UpdateBrandRequest) (*models.Brand, error) {
	updates := map[string]interface{}{}
	if request.Name != nil {
		name := strings.TrimSpace(*request.Name)
		existing, err := s.brandRepo.FindAnyByName(ctx, name)
		if err != nil && !isNotFound(err) {
			return nil, repoError(err, "brand")
		}
		if existing != nil && existing.IsActive() && existing.ID != id {
			return nil, utils.NewConflictError("brand with this name already exists")
		}
		updates["name"] = name
	}
	setIf(updates, "slug", request.Slug)
	setIf(updates, "description", request.Description)
	setIf(updates, "logo", request.Logo)
	setIf(updates, "website", request.Website)
	setIf(updates, "status", request.Status)
	if len(updates) == 0 {
		return nil, errNothingToUpdate()
	}

	brand, err := s.brandRepo.Update(ctx, id, updates)
	if err != nil {
		return nil, repoError(err, "brand")
	}
	return brand, nil
}

func (s *brandService) Remove(ctx context.Context, id primitive.ObjectID) error {
	if err := s.brandRepo.Retire(ctx, id); err != nil {
		return repoError(err, "brand")
	}
	s.logger.WithField("brand_id", id.Hex()).Info("Brand removed")
	return nil
}

func (s *brandService) List(ctx context.Context, status models.Status, params *utils.PaginationParams) ([]*models.Brand, int64, error) {
	brands, total, err := s.brandRepo.List(ctx, status, params)
	if err != nil {
		return nil, 0, repoError(err, "brand")
	}
	return brands, total, nil
}
