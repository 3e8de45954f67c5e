package interfaces

import (
	"context"

	"marketly/internal/models"
	"marketly/internal/utils"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type VehicleBrandFilter struct {
	Type   models.VehicleBrandType
	Status models.Status
}

type VehicleBrandRepository interface {
	Create(ctx context.Context, brand *models.VehicleBrand) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.VehicleBrand, error)
	// FindAnyByName ignores the record state so retired brands can be restored.
	FindAnyByName(ctx context.Context, name string) (*models.VehicleBrand, error)
	Update(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) (*models.VehicleBrand, error)
	Restore(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) (*models.VehicleBrand, error)
	Retire(ctx context.Context, id primitive.ObjectID) error
	List(ctx context.Context, filter VehicleBrandFilter, params *utils.PaginationParams) ([]*models.VehicleBrand, int64, error)
}

type VehicleModelFilter struct {
	BrandID *primitive.ObjectID
	Status  models.Status
}

type VehicleModelRepository interface {
	Create(ctx context.Context, model *models.VehicleModel) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.VehicleModel, error)
	FindAnyByBrandAndName(ctx context.Context, brandID primitive.ObjectID, name string) (*models.VehicleModel, error)
	Update(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) (*models.VehicleModel, error)
	Restore(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) (*models.VehicleModel, error)
	Retire(ctx context.Context, id primitive.ObjectID) error
	// RetireByBrandIDs retires every active model of the brands and returns the retired ids.
	RetireByBrandIDs(ctx context.Context, brandIDs []primitive.ObjectID) ([]primitive.ObjectID, error)
	List(ctx context.Context, filter VehicleModelFilter, params *utils.PaginationParams) ([]*models.VehicleModel, int64, error)
}

type VehicleModelYearRepository interface {
	Create(ctx context.Context, year *models.VehicleModelYear) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.VehicleModelYear, error)
	FindAnyByModelAndYear(ctx context.Context, modelID primitive.ObjectID, year int) (*models.VehicleModelYear, error)
	Update(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) (*models.VehicleModelYear, error)
	Restore(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) (*models.VehicleModelYear, error)
	Retire(ctx context.Context, id primitive.ObjectID) error
	RetireByModelIDs(ctx context.Context, modelIDs []primitive.ObjectID) ([]primitive.ObjectID, error)
	ListByModel(ctx context.Context, modelID primitive.ObjectID, params *utils.PaginationParams) ([]*models.VehicleModelYear, int64, error)
}

type VehicleFilter struct {
	ModelID     *primitive.ObjectID
	ModelYearID *primitive.ObjectID
	Status      models.Status
}

type VehicleRepository interface {
	Create(ctx context.Context, vehicle *models.Vehicle) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Vehicle, error)
	FindAnyByKey(ctx context.Context, modelID primitive.ObjectID, modelYearID *primitive.ObjectID, name string) (*models.Vehicle, error)
	Update(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) (*models.Vehicle, error)
	Restore(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) (*models.Vehicle, error)
	Retire(ctx context.Context, id primitive.ObjectID) error
	RetireByModelIDs(ctx context.Context, modelIDs []primitive.ObjectID) (int64, error)
	RetireByModelYearIDs(ctx context.Context, yearIDs []primitive.ObjectID) (int64, error)
	List(ctx context.Context, filter VehicleFilter, params *utils.PaginationParams) ([]*models.Vehicle, int64, error)
}
