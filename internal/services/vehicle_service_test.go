package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"marketly/internal/models"
	"marketly/internal/repositories/interfaces"
	"marketly/internal/utils"
	"marketly/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func retire(l *models.Lifecycle) {
	now := time.Now()
	l.State = models.StateRetired
	l.RetiredAt = &now
}

func restore(l *models.Lifecycle) {
	l.State = models.StateActive
	l.RetiredAt = nil
}

type memVehicleBrands struct {
	interfaces.VehicleBrandRepository
	items map[primitive.ObjectID]*models.VehicleBrand
}

func (m *memVehicleBrands) Create(_ context.Context, brand *models.VehicleBrand) error {
	brand.ID = primitive.NewObjectID()
	brand.Stamp(time.Now())
	m.items[brand.ID] = brand
	return nil
}

func (m *memVehicleBrands) GetByID(_ context.Context, id primitive.ObjectID) (*models.VehicleBrand, error) {
	if brand, ok := m.items[id]; ok && brand.IsActive() {
		return brand, nil
	}
	return nil, interfaces.ErrNotFound
}

func (m *memVehicleBrands) FindAnyByName(_ context.Context, name string) (*models.VehicleBrand, error) {
	for _, brand := range m.items {
		if brand.Name == name {
			return brand, nil
		}
	}
	return nil, interfaces.ErrNotFound
}

func (m *memVehicleBrands) Restore(_ context.Context, id primitive.ObjectID, updates map[string]interface{}) (*models.VehicleBrand, error) {
	brand := m.items[id]
	restore(&brand.Lifecycle)
	brand.Logo = updates["logo"].(string)
	return brand, nil
}

func (m *memVehicleBrands) Retire(_ context.Context, id primitive.ObjectID) error {
	brand, ok := m.items[id]
	if !ok || !brand.IsActive() {
		return interfaces.ErrNotFound
	}
	retire(&brand.Lifecycle)
	return nil
}

type memVehicleModels struct {
	interfaces.VehicleModelRepository
	items map[primitive.ObjectID]*models.VehicleModel
}

func (m *memVehicleModels) Create(_ context.Context, model *models.VehicleModel) error {
	model.ID = primitive.NewObjectID()
	model.Stamp(time.Now())
	m.items[model.ID] = model
	return nil
}

func (m *memVehicleModels) GetByID(_ context.Context, id primitive.ObjectID) (*models.VehicleModel, error) {
	if model, ok := m.items[id]; ok && model.IsActive() {
		return model, nil
	}
	return nil, interfaces.ErrNotFound
}

func (m *memVehicleModels) FindAnyByBrandAndName(_ context.Context, brandID primitive.ObjectID, name string) (*models.VehicleModel, error) {
	for _, model := range m.items {
		if model.BrandID == brandID && model.Name == name {
			return model, nil
		}
	}
	return nil, interfaces.ErrNotFound
}

func (m *memVehicleModels) Restore(_ context.Context, id primitive.ObjectID, _ map[string]interface{}) (*models.VehicleModel, error) {
	model := m.items[id]
	restore(&model.Lifecycle)
	return model, nil
}

func (m *memVehicleModels) Retire(_ context.Context, id primitive.ObjectID) error {
	retire(&m.items[id].Lifecycle)
	return nil
}

func (m *memVehicleModels) RetireByBrandIDs(_ context.Context, brandIDs []primitive.ObjectID) ([]primitive.ObjectID, error) {
	var ids []primitive.ObjectID
	for _, model := range m.items {
		if model.IsActive() && containsID(brandIDs, &model.BrandID) {
			retire(&model.Lifecycle)
			ids = append(ids, model.ID)
		}
	}
	return ids, nil
}

type memModelYears struct {
	interfaces.VehicleModelYearRepository
	items map[primitive.ObjectID]*models.VehicleModelYear
}

func (m *memModelYears) Create(_ context.Context, year *models.VehicleModelYear) error {
	year.ID = primitive.NewObjectID()
	year.Stamp(time.Now())
	m.items[year.ID] = year
	return nil
}

func (m *memModelYears) GetByID(_ context.Context, id primitive.ObjectID) (*models.VehicleModelYear, error) {
	if year, ok := m.items[id]; ok && year.IsActive() {
		return year, nil
	}
	return nil, interfaces.ErrNotFound
}

func (m *memModelYears) FindAnyByModelAndYear(_ context.Context, modelID primitive.ObjectID, value int) (*models.VehicleModelYear, error) {
	for _, year := range m.items {
		if year.ModelID == modelID && year.Year == value {
			return year, nil
		}
	}
	return nil, interfaces.ErrNotFound
}

func (m *memModelYears) Retire(_ context.Context, id primitive.ObjectID) error {
	retire(&m.items[id].Lifecycle)
	return nil
}

func (m *memModelYears) RetireByModelIDs(_ context.Context, modelIDs []primitive.ObjectID) ([]primitive.ObjectID, error) {
	var ids []primitive.ObjectID
	for _, year := range m.items {
		if year.IsActive() && containsID(modelIDs, &year.ModelID) {
			retire(&year.Lifecycle)
			ids = append(ids, year.ID)
		}
	}
	return ids, nil
}

type memVehicles struct {
	interfaces.VehicleRepository
	items map[primitive.ObjectID]*models.Vehicle
	fail  error
}

func (m *memVehicles) Create(_ context.Context, vehicle *models.Vehicle) error {
	vehicle.ID = primitive.NewObjectID()
	vehicle.Stamp(time.Now())
	m.items[vehicle.ID] = vehicle
	return nil
}

func (m *memVehicles) FindAnyByKey(_ context.Context, modelID primitive.ObjectID, yearID *primitive.ObjectID, name string) (*models.Vehicle, error) {
	for _, vehicle := range m.items {
		sameYear := (yearID == nil && vehicle.ModelYearID == nil) ||
			(yearID != nil && vehicle.ModelYearID != nil && *yearID == *vehicle.ModelYearID)
		if vehicle.ModelID == modelID && sameYear && vehicle.Name == name {
			return vehicle, nil
		}
	}
	return nil, interfaces.ErrNotFound
}

func (m *memVehicles) RetireByModelIDs(_ context.Context, modelIDs []primitive.ObjectID) (int64, error) {
	if m.fail != nil {
		return 0, m.fail
	}
	var count int64
	for _, vehicle := range m.items {
		if vehicle.IsActive() && containsID(modelIDs, &vehicle.ModelID) {
			retire(&vehicle.Lifecycle)
			count++
		}
	}
	return count, nil
}

func (m *memVehicles) RetireByModelYearIDs(_ context.Context, yearIDs []primitive.ObjectID) (int64, error) {
	var count int64
	for _, vehicle := range m.items {
		if vehicle.IsActive() && containsID(yearIDs, vehicle.ModelYearID) {
			retire(&vehicle.Lifecycle)
			count++
		}
	}
	return count, nil
}

// recordingTx counts transactions and runs fn without isolation.
type recordingTx struct{ calls int }

func (r *recordingTx) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	r.calls++
	return fn(ctx)
}

type taxonomyFixture struct {
	service  VehicleTaxonomyService
	brands   *memVehicleBrands
	models   *memVehicleModels
	years    *memModelYears
	vehicles *memVehicles
	tx       *recordingTx
}

func newTaxonomyFixture() *taxonomyFixture {
	f := &taxonomyFixture{
		brands:   &memVehicleBrands{items: map[primitive.ObjectID]*models.VehicleBrand{}},
		models:   &memVehicleModels{items: map[primitive.ObjectID]*models.VehicleModel{}},
		years:    &memModelYears{items: map[primitive.ObjectID]*models.VehicleModelYear{}},
		vehicles: &memVehicles{items: map[primitive.ObjectID]*models.Vehicle{}},
		tx:       &recordingTx{},
	}
	f.service = NewVehicleTaxonomyService(f.brands, f.models, f.years, f.vehicles, f.tx, logger.NewNop())
	return f
}

// seed builds one brand with a model, a model year and a vehicle under it.
func (f *taxonomyFixture) seed(t *testing.T, brandName string) (*models.VehicleBrand, *models.VehicleModel, *models.VehicleModelYear, *models.Vehicle) {
	t.Helper()
	ctx := context.Background()

	brand, err := f.service.CreateBrand(ctx, &CreateVehicleBrandRequest{Name: brandName, Logo: "logo.png"})
	require.NoError(t, err)
	model, err := f.service.CreateModel(ctx, &CreateVehicleModelRequest{BrandID: brand.ID.Hex(), Name: "Swift"})
	require.NoError(t, err)
	year, err := f.service.CreateModelYear(ctx, &CreateVehicleModelYearRequest{ModelID: model.ID.Hex(), Year: 2021})
	require.NoError(t, err)
	vehicle, err := f.service.CreateVehicle(ctx, &CreateVehicleRequest{ModelID: model.ID.Hex(), ModelYearID: year.ID.Hex(), Name: "Swift VXi"})
	require.NoError(t, err)
	return brand, model, year, vehicle
}

func TestVehicleTaxonomy_CreateBrandDefaults(t *testing.T) {
	f := newTaxonomyFixture()

	brand, err := f.service.CreateBrand(context.Background(), &CreateVehicleBrandRequest{Name: "  Maruti Suzuki ", Logo: "m.png"})
	require.NoError(t, err)
	assert.Equal(t, "Maruti Suzuki", brand.Name)
	assert.Equal(t, "maruti-suzuki", brand.Slug)
	assert.Equal(t, models.VehicleBrandTypeVehicle, brand.Type)
	assert.Equal(t, models.StatusActive, brand.Status)

	_, err = f.service.CreateBrand(context.Background(), &CreateVehicleBrandRequest{Name: "Maruti Suzuki", Logo: "m.png"})
	require.Error(t, err)
	assert.Equal(t, utils.CodeConflict, utils.AsAppError(err).Code)
}

func TestVehicleTaxonomy_RemoveBrandCascades(t *testing.T) {
	f := newTaxonomyFixture()
	brand, model, year, vehicle := f.seed(t, "Maruti")
	otherBrand, otherModel, _, otherVehicle := f.seed(t, "Hyundai")

	require.NoError(t, f.service.RemoveBrand(context.Background(), brand.ID))
	assert.Equal(t, 1, f.tx.calls)

	assert.False(t, f.brands.items[brand.ID].IsActive())
	assert.False(t, f.models.items[model.ID].IsActive())
	assert.False(t, f.years.items[year.ID].IsActive())
	assert.False(t, f.vehicles.items[vehicle.ID].IsActive())
	assert.NotNil(t, f.vehicles.items[vehicle.ID].RetiredAt)

	assert.True(t, f.brands.items[otherBrand.ID].IsActive())
	assert.True(t, f.models.items[otherModel.ID].IsActive())
	assert.True(t, f.vehicles.items[otherVehicle.ID].IsActive())

	err := f.service.RemoveBrand(context.Background(), brand.ID)
	assert.Equal(t, utils.CodeNotFound, utils.AsAppError(err).Code)
}

func TestVehicleTaxonomy_RemoveBrandPropagatesFailure(t *testing.T) {
	f := newTaxonomyFixture()
	brand, _, _, _ := f.seed(t, "Tata")
	f.vehicles.fail = errors.New("write conflict")

	err := f.service.RemoveBrand(context.Background(), brand.ID)
	require.Error(t, err)
	assert.Equal(t, utils.CodeInternal, utils.AsAppError(err).Code)
	assert.True(t, f.brands.items[brand.ID].IsActive())
}

func TestVehicleTaxonomy_RemoveModelYearRetiresItsVehicles(t *testing.T) {
	f := newTaxonomyFixture()
	_, model, year, vehicle := f.seed(t, "Honda")
	unbound, err := f.service.CreateVehicle(context.Background(), &CreateVehicleRequest{ModelID: model.ID.Hex(), Name: "City"})
	require.NoError(t, err)

	require.NoError(t, f.service.RemoveModelYear(context.Background(), year.ID))
	assert.False(t, f.years.items[year.ID].IsActive())
	assert.False(t, f.vehicles.items[vehicle.ID].IsActive())
	assert.True(t, f.vehicles.items[unbound.ID].IsActive())
	assert.True(t, f.models.items[model.ID].IsActive())
}

func TestVehicleTaxonomy_RecreateRestoresSameID(t *testing.T) {
	f := newTaxonomyFixture()
	brand, model, _, _ := f.seed(t, "Kia")
	require.NoError(t, f.service.RemoveBrand(context.Background(), brand.ID))

	restored, err := f.service.CreateBrand(context.Background(), &CreateVehicleBrandRequest{Name: "Kia", Logo: "new.png"})
	require.NoError(t, err)
	assert.Equal(t, brand.ID, restored.ID)
	assert.True(t, restored.IsActive())
	assert.Equal(t, "new.png", restored.Logo)

	// children stay retired until recreated themselves
	assert.False(t, f.models.items[model.ID].IsActive())

	again, err := f.service.CreateModel(context.Background(), &CreateVehicleModelRequest{BrandID: brand.ID.Hex(), Name: "Swift"})
	require.NoError(t, err)
	assert.Equal(t, model.ID, again.ID)
}

func TestVehicleTaxonomy_CreateUnderRetiredParent(t *testing.T) {
	f := newTaxonomyFixture()
	brand, _, _, _ := f.seed(t, "Mahindra")
	require.NoError(t, f.service.RemoveBrand(context.Background(), brand.ID))

	_, err := f.service.CreateModel(context.Background(), &CreateVehicleModelRequest{BrandID: brand.ID.Hex(), Name: "Thar"})
	assert.Equal(t, utils.CodeNotFound, utils.AsAppError(err).Code)
}

func TestVehicleTaxonomy_VehicleYearMustBelongToModel(t *testing.T) {
	f := newTaxonomyFixture()
	_, _, year, _ := f.seed(t, "Toyota")
	_, otherModel, _, _ := f.seed(t, "Renault")

	_, err := f.service.CreateVehicle(context.Background(), &CreateVehicleRequest{
		ModelID:     otherModel.ID.Hex(),
		ModelYearID: year.ID.Hex(),
		Name:        "Kwid",
	})
	appErr := utils.AsAppError(err)
	assert.Equal(t, utils.CodeValidation, appErr.Code)
	assert.Contains(t, appErr.Details, "model_year_id")
}

func TestVehicleTaxonomy_UpdateRequiresField(t *testing.T) {
	f := newTaxonomyFixture()

	_, err := f.service.UpdateModelYear(context.Background(), primitive.NewObjectID(), &UpdateVehicleModelYearRequest{})
	assert.Equal(t, utils.ErrNothingToUpdate, utils.AsAppError(err).Message)
}
