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

// VehicleTaxonomyService manages the brand > model > model year > vehicle tree. Removing a node
// retires its whole subtree; recreating a retired node restores it under the same id.
type VehicleTaxonomyService interface {
	CreateBrand(ctx context.Context, request *CreateVehicleBrandRequest) (*models.VehicleBrand, error)
	GetBrand(ctx context.Context, id primitive.ObjectID) (*models.VehicleBrand, error)
	UpdateBrand(ctx context.Context, id primitive.ObjectID, request *UpdateVehicleBrandRequest) (*models.VehicleBrand, error)
	RemoveBrand(ctx context.Context, id primitive.ObjectID) error
	ListBrands(ctx context.Context, filter interfaces.VehicleBrandFilter, params *utils.PaginationParams) ([]*models.VehicleBrand, int64, error)

	CreateModel(ctx context.Context, request *CreateVehicleModelRequest) (*models.VehicleModel, error)
	GetModel(ctx context.Context, id primitive.ObjectID) (*models.VehicleModel, error)
	UpdateModel(ctx context.Context, id primitive.ObjectID, request *UpdateVehicleModelRequest) (*models.VehicleModel, error)
	RemoveModel(ctx context.Context, id primitive.ObjectID) error
	ListModels(ctx context.Context, filter interfaces.VehicleModelFilter, params *utils.PaginationParams) ([]*models.VehicleModel, int64, error)

	CreateModelYear(ctx context.Context, request *CreateVehicleModelYearRequest) (*models.VehicleModelYear, error)
	GetModelYear(ctx context.Context, id primitive.ObjectID) (*models.VehicleModelYear, error)
	UpdateModelYear(ctx context.Context, id primitive.ObjectID, request *UpdateVehicleModelYearRequest) (*models.VehicleModelYear, error)
	RemoveModelYear(ctx context.Context, id primitive.ObjectID) error
	ListModelYears(ctx context.Context, modelID primitive.ObjectID, params *utils.PaginationParams) ([]*models.VehicleModelYear, int64, error)

	CreateVehicle(ctx context.Context, request *CreateVehicleRequest) (*models.Vehicle, error)
	GetVehicle(ctx context.Context, id primitive.ObjectID) (*models.Vehicle, error)
	UpdateVehicle(ctx context.Context, id primitive.ObjectID, request *UpdateVehicleRequest) (*models.Vehicle, error)
	RemoveVehicle(ctx context.Context, id primitive.ObjectID) error
	ListVehicles(ctx context.Context, filter interfaces.VehicleFilter, params *utils.PaginationParams) ([]*models.Vehicle, int64, error)
}

type CreateVehicleBrandRequest struct {
	Name        string                  `json:"name" validate:"required,min=1,max=100"`
	Slug        string                  `json:"slug" validate:"omitempty,slug"`
	Description string                  `json:"description" validate:"max=1000"`
	Logo        string                  `json:"logo" validate:"required,max=500"`
	Type        models.VehicleBrandType `json:"type" validate:"omitempty,oneof=vehicle manufacturer"`
	Status      models.Status           `json:"status" validate:"omitempty,oneof=active inactive"`
}

type UpdateVehicleBrandRequest struct {
	Name        *string                  `json:"name" validate:"omitempty,min=1,max=100"`
	Slug        *string                  `json:"slug" validate:"omitempty,slug"`
	Description *string                  `json:"description" validate:"omitempty,max=1000"`
	Logo        *string                  `json:"logo" validate:"omitempty,min=1,max=500"`
	Type        *models.VehicleBrandType `json:"type" validate:"omitempty,oneof=vehicle manufacturer"`
	Status      *models.Status           `json:"status" validate:"omitempty,oneof=active inactive"`
}

type CreateVehicleModelRequest struct {
	BrandID     string        `json:"brand_id" validate:"required,object_id"`
	Name        string        `json:"name" validate:"required,min=1,max=100"`
	Slug        string        `json:"slug" validate:"omitempty,slug"`
	Year        int           `json:"year" validate:"omitempty,min=1900,max=2100"`
	Description string        `json:"description" validate:"max=1000"`
	Image       string        `json:"image" validate:"max=500"`
	Status      models.Status `json:"status" validate:"omitempty,oneof=active inactive"`
}

type UpdateVehicleModelRequest struct {
	Name        *string        `json:"name" validate:"omitempty,min=1,max=100"`
	Slug        *string        `json:"slug" validate:"omitempty,slug"`
	Year        *int           `json:"year" validate:"omitempty,min=1900,max=2100"`
	Description *string        `json:"description" validate:"omitempty,max=1000"`
	Image       *string        `json:"image" validate:"omitempty,max=500"`
	Status      *models.Status `json:"status" validate:"omitempty,oneof=active inactive"`
}

type CreateVehicleModelYearRequest struct {
	ModelID string        `json:"model_id" validate:"required,object_id"`
	Year    int           `json:"year" validate:"required,min=1900,max=2100"`
	Status  models.Status `json:"status" validate:"omitempty,oneof=active inactive"`
}

type UpdateVehicleModelYearRequest struct {
	Status *models.Status `json:"status" validate:"omitempty,oneof=active inactive"`
}

type CreateVehicleRequest struct {
	ModelID     string                 `json:"model_id" validate:"required,object_id"`
	ModelYearID string                 `json:"model_year_id" validate:"omitempty,object_id"`
	Name        string                 `json:"name" validate:"required,min=1,max=150"`
	Variant     string                 `json:"variant" validate:"max=100"`
	FuelType    string                 `json:"fuel_type" validate:"omitempty,oneof=petrol diesel cng electric hybrid lpg"`
	Attributes  map[string]interface{} `json:"attributes"`
	Status      models.Status          `json:"status" validate:"omitempty,oneof=active inactive"`
}

type UpdateVehicleRequest struct {
	Name       *string                 `json:"name" validate:"omitempty,min=1,max=150"`
	Variant    *string                 `json:"variant" validate:"omitempty,max=100"`
	FuelType   *string                 `json:"fuel_type" validate:"omitempty,oneof=petrol diesel cng electric hybrid lpg"`
	Attributes *map[string]interface{} `json:"attributes"`
	Status     *models.Status          `json:"status" validate:"omitempty,oneof=active inactive"`
}

type vehicleTaxonomyService struct {
	brandRepo   interfaces.VehicleBrandRepository
	modelRepo   interfaces.VehicleModelRepository
	yearRepo    interfaces.VehicleModelYearRepository
	vehicleRepo interfaces.VehicleRepository
	tx          Transactor
	logger      *logger.Logger
}

func NewVehicleTaxonomyService(
	brandRepo interfaces.VehicleBrandRepository,
	modelRepo interfaces.VehicleModelRepository,
	yearRepo interfaces.VehicleModelYearRepository,
	vehicleRepo interfaces.VehicleRepository,
	tx Transactor,
	logger *logger.Logger,
) VehicleTaxonomyService {
	return &vehicleTaxonomyService{
		brandRepo:   brandRepo,
		modelRepo:   modelRepo,
		yearRepo:    yearRepo,
		vehicleRepo: vehicleRepo,
		tx:          transactorOrDirect(tx),
		logger:      logger,
	}
}

func statusOrActive(status models.Status) models.Status {
	if status == "" {
		return models.StatusActive
	}
	return status
}

// Brands

func (s *vehicleTaxonomyService) CreateBrand(ctx context.Context, request *CreateVehicleBrandRequest) (*models.VehicleBrand, error) {
	name := strings.TrimSpace(request.Name)
	brandType := request.Type
	if brandType == "" {
		brandType = models.VehicleBrandTypeVehicle
	}

	slug := slugOrDefault(request.Slug, name)
	values := map[string]interface{}{
		"name":        name,
		"slug":        slug,
		"description": request.Description,
		"logo":        request.Logo,
		"type":        brandType,
		"status":      statusOrActive(request.Status),
	}

	existing, err := s.brandRepo.FindAnyByName(ctx, name)
	if err != nil && !isNotFound(err) {
		return nil, repoError(err, "vehicle brand")
	}
	if existing != nil {
		if existing.IsActive() {
			return nil, utils.NewConflictError("vehicle brand with this name already exists")
		}

		restored, err := s.brandRepo.Restore(ctx, existing.ID, values)
		if err != nil {
			return nil, repoError(err, "vehicle brand")
		}
		s.logger.WithField("vehicle_brand_id", restored.ID.Hex()).Info("Vehicle brand restored")
		return restored, nil
	}

	brand := &models.VehicleBrand{
		Name:        name,
		Slug:        slug,
		Description: request.Description,
		Logo:        request.Logo,
		Type:        brandType,
		Status:      statusOrActive(request.Status),
	}
	if err := s.brandRepo.Create(ctx, brand); err != nil {
		return nil, repoError(err, "vehicle brand")
	}

	s.logger.WithField("vehicle_brand_id", brand.ID.Hex()).Info("Vehicle brand created")
	return brand, nil
}

func (s *vehicleTaxonomyService) GetBrand(ctx context.Context, id primitive.ObjectID) (*models.VehicleBrand, error) {
	brand, err := s.brandRepo.GetByID(ctx, id)
	if err != nil {
		return nil, repoError(err, "vehicle brand")
	}
	return brand, nil
}

func (s *vehicleTaxonomyService) UpdateBrand(ctx context.Context, id primitive.ObjectID, request *UpdateVehicleBrandRequest) (*models.VehicleBrand, error) {
	updates := map[string]interface{}{}
	if request.Name != nil {
		name := strings.TrimSpace(*request.Name)
		existing, err := s.brandRepo.FindAnyByName(ctx, name)
		if err != nil && !isNotFound(err) {
			return nil, repoError(err, "vehicle brand")
		}
		if existing != nil && existing.IsActive() && existing.ID != id {
			return nil, utils.NewConflictError("vehicle brand with this name already exists")
		}
		updates["name"] = name
	}
	setIf(updates, "slug", request.Slug)
	setIf(updates, "description", request.Description)
	setIf(updates, "logo", request.Logo)
	setIf(updates, "type", request.Type)
	setIf(updates, "status", request.Status)
	if len(updates) == 0 {
		return nil, errNothingToUpdate()
	}

	brand, err := s.brandRepo.Update(ctx, id, updates)
	if err != nil {
		return nil, repoError(err, "vehicle brand")
	}
	return brand, nil
}

// RemoveBrand retires the brand with its models, their model years and vehicles.
func (s *vehicleTaxonomyService) RemoveBrand(ctx context.Context, id primitive.ObjectID) error {
	brand, err := s.brandRepo.GetByID(ctx, id)
	if err != nil {
		return repoError(err, "vehicle brand")
	}
	if !brand.Type.Valid() {
		return utils.NewNotFoundError("vehicle brand")
	}

	var retiredModels, retiredVehicles int64
	err = s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		modelIDs, err := s.modelRepo.RetireByBrandIDs(ctx, []primitive.ObjectID{id})
		if err != nil {
			return err
		}
		retiredModels = int64(len(modelIDs))

		if err := s.retireModelChildren(ctx, modelIDs, &retiredVehicles); err != nil {
			return err
		}

		return s.brandRepo.Retire(ctx, id)
	})
	if err != nil {
		return repoError(err, "vehicle brand")
	}

	s.logger.WithFields(map[string]interface{}{
		"vehicle_brand_id": id.Hex(),
		"models_retired":   retiredModels,
		"vehicles_retired": retiredVehicles,
	}).Info("Vehicle brand removed")
	return nil
}

func (s *vehicleTaxonomyService) retireModelChildren(ctx context.Context, modelIDs []primitive.ObjectID, vehicles *int64) error {
	if len(modelIDs) == 0 {
		return nil
	}
	if _, err := s.yearRepo.RetireByModelIDs(ctx, modelIDs); err != nil {
		return err
	}
	count, err := s.vehicleRepo.RetireByModelIDs(ctx, modelIDs)
	if err != nil {
		return err
	}
	*vehicles += count
	return nil
}

func (s *vehicleTaxonomyService) ListBrands(ctx context.Context, filter interfaces.VehicleBrandFilter, params *utils.PaginationParams) ([]*models.VehicleBrand, int64, error) {
	brands, total, err := s.brandRepo.List(ctx, filter, params)
	if err != nil {
		return nil, 0, repoError(err, "vehicle brand")
	}
	return brands, total, nil
}

// Models

func (s *vehicleTaxonomyService) CreateModel(ctx context.Context, request *CreateVehicleModelRequest) (*models.VehicleModel, error) {
	brandID := objectIDPtr(request.BrandID)
	if brandID == nil {
		return nil, utils.NewValidationError(utils.ErrValidationFailed, map[string]string{"brand_id": "Invalid ID format"})
	}
	if _, err := s.brandRepo.GetByID(ctx, *brandID); err != nil {
		return nil, repoError(err, "vehicle brand")
	}

	name := strings.TrimSpace(request.Name)
	slug := slugOrDefault(request.Slug, name)

	existing, err := s.modelRepo.FindAnyByBrandAndName(ctx, *brandID, name)
	if err != nil && !isNotFound(err) {
		return nil, repoError(err, "vehicle model")
	}
	if existing != nil {
		if existing.IsActive() {
			return nil, utils.NewConflictError("vehicle model with this name already exists for the brand")
		}

		restored, err := s.modelRepo.Restore(ctx, existing.ID, map[string]interface{}{
			"name":        name,
			"slug":        slug,
			"year":        request.Year,
			"description": request.Description,
			"image":       request.Image,
			"status":      statusOrActive(request.Status),
		})
		if err != nil {
			return nil, repoError(err, "vehicle model")
		}
		s.logger.WithField("vehicle_model_id", restored.ID.Hex()).Info("Vehicle model restored")
		return restored, nil
	}

	model := &models.VehicleModel{
		BrandID:     *brandID,
		Name:        name,
		Slug:        slug,
		Year:        request.Year,
		Description: request.Description,
		Image:       request.Image,
		Status:      statusOrActive(request.Status),
	}
	if err := s.modelRepo.Create(ctx, model); err != nil {
		return nil, repoError(err, "vehicle model")
	}
	return model, nil
}

func (s *vehicleTaxonomyService) GetModel(ctx context.Context, id primitive.ObjectID) (*models.VehicleModel, error) {
	model, err := s.modelRepo.GetByID(ctx, id)
	if err != nil {
		return nil, repoError(err, "vehicle model")
	}
	return model, nil
}

func (s *vehicleTaxonomyService) UpdateModel(ctx context.Context, id primitive.ObjectID, request *UpdateVehicleModelRequest) (*models.VehicleModel, error) {
	updates := map[string]interface{}{}
	if request.Name != nil {
		current, err := s.modelRepo.GetByID(ctx, id)
		if err != nil {
			return nil, repoError(err, "vehicle model")
		}
		name := strings.TrimSpace(*request.Name)
		existing, err := s.modelRepo.FindAnyByBrandAndName(ctx, current.BrandID, name)
		if err != nil && !isNotFound(err) {
			return nil, repoError(err, "vehicle model")
		}
		if existing != nil && existing.IsActive() && existing.ID != id {
			return nil, utils.NewConflictError("vehicle model with this name already exists for the brand")
		}
		updates["name"] = name
	}
	setIf(updates, "slug", request.Slug)
	setIf(updates, "year", request.Year)
	setIf(updates, "description", request.Description)
	setIf(updates, "image", request.Image)
	setIf(updates, "status", request.Status)
	if len(updates) == 0 {
		return nil, errNothingToUpdate()
	}

	model, err := s.modelRepo.Update(ctx, id, updates)
	if err != nil {
		return nil, repoError(err, "vehicle model")
	}
	return model, nil
}

func (s *vehicleTaxonomyService) RemoveModel(ctx context.Context, id primitive.ObjectID) error {
	if _, err := s.modelRepo.GetByID(ctx, id); err != nil {
		return repoError(err, "vehicle model")
	}

	var retiredVehicles int64
	err := s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		if err := s.retireModelChildren(ctx, []primitive.ObjectID{id}, &retiredVehicles); err != nil {
			return err
		}
		return s.modelRepo.Retire(ctx, id)
	})
	if err != nil {
		return repoError(err, "vehicle model")
	}

	s.logger.WithFields(map[string]interface{}{
		"vehicle_model_id": id.Hex(),
		"vehicles_retired": retiredVehicles,
	}).Info("Vehicle model removed")
	return nil
}

func (s *vehicleTaxonomyService) ListModels(ctx context.Context, filter interfaces.VehicleModelFilter, params *utils.PaginationParams) ([]*models.VehicleModel, int64, error) {
	items, total, err := s.modelRepo.List(ctx, filter, params)
	if err != nil {
		return nil, 0, repoError(err, "vehicle model")
	}
	return items, total, nil
}

// Model years

func (s *vehicleTaxonomyService) CreateModelYear(ctx context.Context, request *CreateVehicleModelYearRequest) (*models.VehicleModelYear, error) {
	modelID := objectIDPtr(request.ModelID)
	if modelID == nil {
		return nil, utils.NewValidationError(utils.ErrValidationFailed, map[string]string{"model_id": "Invalid ID format"})
	}
	if _, err := s.modelRepo.GetByID(ctx, *modelID); err != nil {
		return nil, repoError(err, "vehicle model")
	}

	existing, err := s.yearRepo.FindAnyByModelAndYear(ctx, *modelID, request.Year)
	if err != nil && !isNotFound(err) {
		return nil, repoError(err, "vehicle model year")
	}
	if existing != nil {
		if existing.IsActive() {
			return nil, utils.NewConflictError("model year already exists for the model")
		}
		restored, err := s.yearRepo.Restore(ctx, existing.ID, map[string]interface{}{
			"status": statusOrActive(request.Status),
		})
		if err != nil {
			return nil, repoError(err, "vehicle model year")
		}
		return restored, nil
	}

	year := &models.VehicleModelYear{
		ModelID: *modelID,
		Year:    request.Year,
		Status:  statusOrActive(request.Status),
	}
	if err := s.yearRepo.Create(ctx, year); err != nil {
		return nil, repoError(err, "vehicle model year")
	}
	return year, nil
}

func (s *vehicleTaxonomyService) GetModelYear(ctx context.Context, id primitive.ObjectID) (*models.VehicleModelYear, error) {
	year, err := s.yearRepo.GetByID(ctx, id)
	if err != nil {
		return nil, repoError(err, "vehicle model year")
	}
	return year, nil
}

func (s *vehicleTaxonomyService) UpdateModelYear(ctx context.Context, id primitive.ObjectID, request *UpdateVehicleModelYearRequest) (*models.VehicleModelYear, error) {
	updates := map[string]interface{}{}
	setIf(updates, "status", request.Status)
	if len(updates) == 0 {
		return nil, errNothingToUpdate()
	}

	year, err := s.yearRepo.Update(ctx, id, updates)
	if err != nil {
		return nil, repoError(err, "vehicle model year")
	}
	return year, nil
}

func (s *vehicleTaxonomyService) RemoveModelYear(ctx context.Context, id primitive.ObjectID) error {
	if _, err := s.yearRepo.GetByID(ctx, id); err != nil {
		return repoError(err, "vehicle model year")
	}

	err := s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		if _, err := s.vehicleRepo.RetireByModelYearIDs(ctx, []primitive.ObjectID{id}); err != nil {
			return err
		}
		return s.yearRepo.Retire(ctx, id)
	})
	return repoError(err, "vehicle model year")
}

func (s *vehicleTaxonomyService) ListModelYears(ctx context.Context, modelID primitive.ObjectID, params *utils.PaginationParams) ([]*models.VehicleModelYear, int64, error) {
	years, total, err := s.yearRepo.ListByModel(ctx, modelID, params)
	if err != nil {
		return nil, 0, repoError(err, "vehicle model year")
	}
	return years, total, nil
}

// Vehicles

func (s *vehicleTaxonomyService) CreateVehicle(ctx context.Context, request *CreateVehicleRequest) (*models.Vehicle, error) {
	modelID := objectIDPtr(request.ModelID)
	if modelID == nil {
		return nil, utils.NewValidationError(utils.ErrValidationFailed, map[string]string{"model_id": "Invalid ID format"})
	}
	if _, err := s.modelRepo.GetByID(ctx, *modelID); err != nil {
		return nil, repoError(err, "vehicle model")
	}

	yearID := objectIDPtr(request.ModelYearID)
	if yearID != nil {
		year, err := s.yearRepo.GetByID(ctx, *yearID)
		if err != nil {
			return nil, repoError(err, "vehicle model year")
		}
		if year.ModelID != *modelID {
			return nil, utils.NewValidationError(utils.ErrValidationFailed, map[string]string{
				"model_year_id": "model year does not belong to the model",
			})
		}
	}

	name := strings.TrimSpace(request.Name)
	existing, err := s.vehicleRepo.FindAnyByKey(ctx, *modelID, yearID, name)
	if err != nil && !isNotFound(err) {
		return nil, repoError(err, "vehicle")
	}
	if existing != nil {
		if existing.IsActive() {
			return nil, utils.NewConflictError("vehicle already exists for the model")
		}
		restored, err := s.vehicleRepo.Restore(ctx, existing.ID, map[string]interface{}{
			"variant":    request.Variant,
			"fuel_type":  request.FuelType,
			"attributes": request.Attributes,
			"status":     statusOrActive(request.Status),
		})
		if err != nil {
			return nil, repoError(err, "vehicle")
		}
		return restored, nil
	}

	vehicle := &models.Vehicle{
		ModelID:     *modelID,
		ModelYearID: yearID,
		Name:        name,
		Variant:     request.Variant,
		FuelType:    request.FuelType,
		Attributes:  request.Attributes,
		Status:      statusOrActive(request.Status),
	}
	if err := s.vehicleRepo.Create(ctx, vehicle); err != nil {
		return nil, repoError(err, "vehicle")
	}
	return vehicle, nil
}

func (s *vehicleTaxonomyService) GetVehicle(ctx context.Context, id primitive.ObjectID) (*models.Vehicle, error) {
	vehicle, err := s.vehicleRepo.GetByID(ctx, id)
	if err != nil {
		return nil, repoError(err, "vehicle")
	}
	return vehicle, nil
}

func (s *vehicleTaxonomyService) UpdateVehicle(ctx context.Context, id primitive.ObjectID, request *UpdateVehicleRequest) (*models.Vehicle, error) {
	updates := map[string]interface{}{}
	if request.Name != nil {
		current, err := s.vehicleRepo.GetByID(ctx, id)
		if err != nil {
			return nil, repoError(err, "vehicle")
		}
		name := strings.TrimSpace(*request.Name)
		existing, err := s.vehicleRepo.FindAnyByKey(ctx, current.ModelID, current.ModelYearID, name)
		if err != nil && !isNotFound(err) {
			return nil, repoError(err, "vehicle")
		}
		if existing != nil && existing.IsActive() && existing.ID != id {
			return nil, utils.NewConflictError("vehicle already exists for the model")
		}
		updates["name"] = name
	}
	setIf(updates, "variant", request.Variant)
	setIf(updates, "fuel_type", request.FuelType)
	setIf(updates, "attributes", request.Attributes)
	setIf(updates, "status", request.Status)
	if len(updates) == 0 {
		return nil, errNothingToUpdate()
	}

	vehicle, err := s.vehicleRepo.Update(ctx, id, updates)
	if err != nil {
		return nil, repoError(err, "vehicle")
	}
	return vehicle, nil
}

func (s *vehicleTaxonomyService) RemoveVehicle(ctx context.Context, id primitive.ObjectID) error {
	return repoError(s.vehicleRepo.Retire(ctx, id), "vehicle")
}

func (s *vehicleTaxonomyService) ListVehicles(ctx context.Context, filter interfaces.VehicleFilter, params *utils.PaginationParams) ([]*models.Vehicle, int64, error) {
	vehicles, total, err := s.vehicleRepo.List(ctx, filter, params)
	if err != nil {
		return nil, 0, repoError(err, "vehicle")
	}
	return vehicles, total, nil
}
