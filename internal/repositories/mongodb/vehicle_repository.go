package mongodb

import (
	"context"
	"time"

	"marketly/internal/models"
	"marketly/internal/repositories/interfaces"
	"marketly/internal/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type vehicleBrandRepository struct {
	store[models.VehicleBrand]
}

func NewVehicleBrandRepository(db *mongo.Database) interfaces.VehicleBrandRepository {
	return &vehicleBrandRepository{newStore[models.VehicleBrand](db, "vehicle_brands", "vehicle brand", "name", "slug")}
}

func (r *vehicleBrandRepository) Create(ctx context.Context, brand *models.VehicleBrand) error {
	brand.ID = primitive.NewObjectID()
	brand.Stamp(time.Now())
	return r.insert(ctx, brand)
}

func (r *vehicleBrandRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.VehicleBrand, error) {
	return r.getByID(ctx, id)
}

func (r *vehicleBrandRepository) FindAnyByName(ctx context.Context, name string) (*models.VehicleBrand, error) {
	return r.findAny(ctx, bson.M{"name": name})
}

func (r *vehicleBrandRepository) Update(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) (*models.VehicleBrand, error) {
	return r.update(ctx, id, updates)
}

func (r *vehicleBrandRepository) Restore(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) (*models.VehicleBrand, error) {
	return r.restore(ctx, id, updates)
}

func (r *vehicleBrandRepository) Retire(ctx context.Context, id primitive.ObjectID) error {
	return r.retire(ctx, id)
}

func (r *vehicleBrandRepository) List(ctx context.Context, filter interfaces.VehicleBrandFilter, params *utils.PaginationParams) ([]*models.VehicleBrand, int64, error) {
	query := statusFilter(bson.M{}, filter.Status)
	if filter.Type != "" {
		query["type"] = filter.Type
	}
	return r.paginate(ctx, query, params)
}

type vehicleModelRepository struct {
	store[models.VehicleModel]
}

func NewVehicleModelRepository(db *mongo.Database) interfaces.VehicleModelRepository {
	return &vehicleModelRepository{newStore[models.VehicleModel](db, "vehicle_models", "vehicle model", "name", "slug")}
}

func (r *vehicleModelRepository) Create(ctx context.Context, model *models.VehicleModel) error {
	model.ID = primitive.NewObjectID()
	model.Stamp(time.Now())
	return r.insert(ctx, model)
}

func (r *vehicleModelRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.VehicleModel, error) {
	return r.getByID(ctx, id)
}

func (r *vehicleModelRepository) FindAnyByBrandAndName(ctx context.Context, brandID primitive.ObjectID, name string) (*models.VehicleModel, error) {
	return r.findAny(ctx, bson.M{"brand_id": brandID, "name": name})
}

func (r *vehicleModelRepository) Update(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) (*models.VehicleModel, error) {
	return r.update(ctx, id, updates)
}

func (r *vehicleModelRepository) Restore(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) (*models.VehicleModel, error) {
	return r.restore(ctx, id, updates)
}

func (r *vehicleModelRepository) Retire(ctx context.Context, id primitive.ObjectID) error {
	return r.retire(ctx, id)
}

func (r *vehicleModelRepository) RetireByBrandIDs(ctx context.Context, brandIDs []primitive.ObjectID) ([]primitive.ObjectID, error) {
	return r.retireChildren(ctx, "brand_id", brandIDs)
}

func (r *vehicleModelRepository) List(ctx context.Context, filter interfaces.VehicleModelFilter, params *utils.PaginationParams) ([]*models.VehicleModel, int64, error) {
	query := statusFilter(bson.M{}, filter.Status)
	if filter.BrandID != nil {
		query["brand_id"] = *filter.BrandID
	}
	return r.paginate(ctx, query, params)
}

type vehicleModelYearRepository struct {
	store[models.VehicleModelYear]
}

func NewVehicleModelYearRepository(db *mongo.Database) interfaces.VehicleModelYearRepository {
	return &vehicleModelYearRepository{newStore[models.VehicleModelYear](db, "vehicle_model_years", "vehicle model year")}
}

func (r *vehicleModelYearRepository) Create(ctx context.Context, year *models.VehicleModelYear) error {
	year.ID = primitive.NewObjectID()
	year.Stamp(time.Now())
	return r.insert(ctx, year)
}

func (r *vehicleModelYearRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.VehicleModelYear, error) {
	return r.getByID(ctx, id)
}

func (r *vehicleModelYearRepository) FindAnyByModelAndYear(ctx context.Context, modelID primitive.ObjectID, year int) (*models.VehicleModelYear, error) {
	return r.findAny(ctx, bson.M{"model_id": modelID, "year": year})
}

func (r *vehicleModelYearRepository) Update(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) (*models.VehicleModelYear, error) {
	return r.update(ctx, id, updates)
}

func (r *vehicleModelYearRepository) Restore(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) (*models.VehicleModelYear, error) {
	return r.restore(ctx, id, updates)
}

func (r *vehicleModelYearRepository) Retire(ctx context.Context, id primitive.ObjectID) error {
	return r.retire(ctx, id)
}

func (r *vehicleModelYearRepository) RetireByModelIDs(ctx context.Context, modelIDs []primitive.ObjectID) ([]primitive.ObjectID, error) {
	return r.retireChildren(ctx, "model_id", modelIDs)
}

func (r *vehicleModelYearRepository) ListByModel(ctx context.Context, modelID primitive.ObjectID, params *utils.PaginationParams) ([]*models.VehicleModelYear, int64, error) {
	return r.paginate(ctx, bson.M{"model_id": modelID}, params)
}

type vehicleRepository struct {
	store[models.Vehicle]
}

func NewVehicleRepository(db *mongo.Database) interfaces.VehicleRepository {
	return &vehicleRepository{newStore[models.Vehicle](db, "vehicles", "vehicle", "name", "variant")}
}

func (r *vehicleRepository) Create(ctx context.Context, vehicle *models.Vehicle) error {
	vehicle.ID = primitive.NewObjectID()
	vehicle.Stamp(time.Now())
	return r.insert(ctx, vehicle)
}

func (r *vehicleRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Vehicle, error) {
	return r.getByID(ctx, id)
}

func (r *vehicleRepository) FindAnyByKey(ctx context.Context, modelID primitive.ObjectID, modelYearID *primitive.ObjectID, name string) (*models.Vehicle, error) {
	filter := bson.M{"model_id": modelID, "name": name}
	if modelYearID != nil {
		filter["model_year_id"] = *modelYearID
	} else {
		filter["model_year_id"] = bson.M{"$exists": false}
	}
	return r.findAny(ctx, filter)
}

func (r *vehicleRepository) Update(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) (*models.Vehicle, error) {
	return r.update(ctx, id, updates)
}

func (r *vehicleRepository) Restore(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) (*models.Vehicle, error) {
	return r.restore(ctx, id, updates)
}

func (r *vehicleRepository) Retire(ctx context.Context, id primitive.ObjectID) error {
	return r.retire(ctx, id)
}

func (r *vehicleRepository) RetireByModelIDs(ctx context.Context, modelIDs []primitive.ObjectID) (int64, error) {
	if len(modelIDs) == 0 {
		return 0, nil
	}
	return r.retireWhere(ctx, bson.M{"model_id": bson.M{"$in": modelIDs}})
}

func (r *vehicleRepository) RetireByModelYearIDs(ctx context.Context, yearIDs []primitive.ObjectID) (int64, error) {
	if len(yearIDs) == 0 {
		return 0, nil
	}
	return r.retireWhere(ctx, bson.M{"model_year_id": bson.M{"$in": yearIDs}})
}

func (r *vehicleRepository) List(ctx context.Context, filter interfaces.VehicleFilter, params *utils.PaginationParams) ([]*models.Vehicle, int64, error) {
	query := statusFilter(bson.M{}, filter.Status)
	if filter.ModelID != nil {
		query["model_id"] = *filter.ModelID
	}
	if filter.ModelYearID != nil {
		query["model_year_id"] = *filter.ModelYearID
	}
	return r.paginate(ctx, query, params)
}
