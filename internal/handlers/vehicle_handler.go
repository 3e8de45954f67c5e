package handlers

import (
	"marketly/internal/handlers/shared"
	"marketly/internal/models"
	"marketly/internal/repositories/interfaces"
	"marketly/internal/services"
	"marketly/internal/utils"

	"github.com/gin-gonic/gin"
)

// VehicleHandler serves the brand > model > model year > vehicle taxonomy.
type VehicleHandler struct {
	vehicleService services.VehicleTaxonomyService
}

func NewVehicleHandler(vehicleService services.VehicleTaxonomyService) *VehicleHandler {
	return &VehicleHandler{
		vehicleService: vehicleService,
	}
}

func (h *VehicleHandler) CreateBrand(c *gin.Context) {
	var request services.CreateVehicleBrandRequest
	if err := shared.BindJSON(c, &request); err != nil {
		_ = c.Error(err)
		return
	}

	brand, err := h.vehicleService.CreateBrand(c.Request.Context(), &request)
	if err != nil {
		_ = c.Error(err)
		return
	}

	shared.Audit(c, "create", "vehicle_brand", brand.ID.Hex())
	utils.CreatedResponse(c, "Vehicle brand created successfully", brand)
}

func (h *VehicleHandler) GetBrand(c *gin.Context) {
	id, err := shared.ParamID(c, "id")
	if err != nil {
		_ = c.Error(err)
		return
	}

	brand, err := h.vehicleService.GetBrand(c.Request.Context(), id)
	if err != nil {
		_ = c.Error(err)
		return
	}

	utils.SuccessResponse(c, "Vehicle brand retrieved successfully", brand)
}

func (h *VehicleHandler) UpdateBrand(c *gin.Context) {
	id, err := shared.ParamID(c, "id")
	if err != nil {
		_ = c.Error(err)
		return
	}

	var request services.UpdateVehicleBrandRequest
	if err := shared.BindPartialJSON(c, &request); err != nil {
		_ = c.Error(err)
		return
	}

	brand, err := h.vehicleService.UpdateBrand(c.Request.Context(), id, &request)
	if err != nil {
		_ = c.Error(err)
		return
	}

	shared.Audit(c, "update", "vehicle_brand", id.Hex())
	utils.SuccessResponse(c, "Vehicle brand updated successfully", brand)
}

// RemoveBrand retires the brand with its models, model years and vehicles.
func (h *VehicleHandler) RemoveBrand(c *gin.Context) {
	id, err := shared.ParamID(c, "id")
	if err != nil {
		_ = c.Error(err)
		return
	}

	if err := h.vehicleService.RemoveBrand(c.Request.Context(), id); err != nil {
		_ = c.Error(err)
		return
	}

	shared.Audit(c, "remove", "vehicle_brand", id.Hex())
	utils.SuccessResponse(c, "Vehicle brand removed successfully", nil)
}

// CreateModel requires an active parent brand.
func (h *VehicleHandler) CreateModel(c *gin.Context) {
	var request services.CreateVehicleModelRequest
	if err := shared.BindJSON(c, &request); err != nil {
		_ = c.Error(err)
		return
	}

	model, err := h.vehicleService.CreateModel(c.Request.Context(), &request)
	if err != nil {
		_ = c.Error(err)
		return
	}

	shared.Audit(c, "create", "vehicle_model", model.ID.Hex())
	utils.CreatedResponse(c, "Vehicle model created successfully", model)
}

func (h *VehicleHandler) GetModel(c *gin.Context) {
	id, err := shared.ParamID(c, "id")
	if err != nil {
		_ = c.Error(err)
		return
	}

	model, err := h.vehicleService.GetModel(c.Request.Context(), id)
	if err != nil {
		_ = c.Error(err)
		return
	}

	utils.SuccessResponse(c, "Vehicle model retrieved successfully", model)
}

func (h *VehicleHandler) UpdateModel(c *gin.Context) {
	id, err := shared.ParamID(c, "id")
	if err != nil {
		_ = c.Error(err)
		return
	}

	var request services.UpdateVehicleModelRequest
	if err := shared.BindPartialJSON(c, &request); err != nil {
		_ = c.Error(err)
		return
	}

	model, err := h.vehicleService.UpdateModel(c.Request.Context(), id, &request)
	if err != nil {
		_ = c.Error(err)
		return
	}

	shared.Audit(c, "update", "vehicle_model", id.Hex())
	utils.SuccessResponse(c, "Vehicle model updated successfully", model)
}

// RemoveModel retires the model with its model years and vehicles.
func (h *VehicleHandler) RemoveModel(c *gin.Context) {
	id, err := shared.ParamID(c, "id")
	if err != nil {
		_ = c.Error(err)
		return
	}

	if err := h.vehicleService.RemoveModel(c.Request.Context(), id); err != nil {
		_ = c.Error(err)
		return
	}

	shared.Audit(c, "remove", "vehicle_model", id.Hex())
	utils.SuccessResponse(c, "Vehicle model removed successfully", nil)
}

func (h *VehicleHandler) CreateModelYear(c *gin.Context) {
	var request services.CreateVehicleModelYearRequest
	if err := shared.BindJSON(c, &request); err != nil {
		_ = c.Error(err)
		return
	}

	year, err := h.vehicleService.CreateModelYear(c.Request.Context(), &request)
	if err != nil {
		_ = c.Error(err)
		return
	}

	shared.Audit(c, "create", "vehicle_model_year", year.ID.Hex())
	utils.CreatedResponse(c, "Vehicle model year created successfully", year)
}

func (h *VehicleHandler) GetModelYear(c *gin.Context) {
	id, err := shared.ParamID(c, "id")
	if err != nil {
		_ = c.Error(err)
		return
	}

	year, err := h.vehicleService.GetModelYear(c.Request.Context(), id)
	if err != nil {
		_ = c.Error(err)
		return
	}

	utils.SuccessResponse(c, "Vehicle model year retrieved successfully", year)
}

func (h *VehicleHandler) UpdateModelYear(c *gin.Context) {
	id, err := shared.ParamID(c, "id")
	if err != nil {
		_ = c.Error(err)
		return
	}

	var request services.UpdateVehicleModelYearRequest
	if err := shared.BindPartialJSON(c, &request); err != nil {
		_ = c.Error(err)
		return
	}

	year, err := h.vehicleService.UpdateModelYear(c.Request.Context(), id, &request)
	if err != nil {
		_ = c.Error(err)
		return
	}

	shared.Audit(c, "update", "vehicle_model_year", id.Hex())
	utils.SuccessResponse(c, "Vehicle model year updated successfully", year)
}

func (h *VehicleHandler) RemoveModelYear(c *gin.Context) {
	id, err := shared.ParamID(c, "id")
	if err != nil {
		_ = c.Error(err)
		return
	}

	if err := h.vehicleService.RemoveModelYear(c.Request.Context(), id); err != nil {
		_ = c.Error(err)
		return
	}

	shared.Audit(c, "remove", "vehicle_model_year", id.Hex())
	utils.SuccessResponse(c, "Vehicle model year removed successfully", nil)
}

func (h *VehicleHandler) CreateVehicle(c *gin.Context) {
	var request services.CreateVehicleRequest
	if err := shared.BindJSON(c, &request); err != nil {
		_ = c.Error(err)
		return
	}

	vehicle, err := h.vehicleService.CreateVehicle(c.Request.Context(), &request)
	if err != nil {
		_ = c.Error(err)
		return
	}

	shared.Audit(c, "create", "vehicle", vehicle.ID.Hex())
	utils.CreatedResponse(c, "Vehicle created successfully", vehicle)
}

func (h *VehicleHandler) GetVehicle(c *gin.Context) {
	id, err := shared.ParamID(c, "id")
	if err != nil {
		_ = c.Error(err)
		return
	}

	vehicle, err := h.vehicleService.GetVehicle(c.Request.Context(), id)
	if err != nil {
		_ = c.Error(err)
		return
	}

	utils.SuccessResponse(c, "Vehicle retrieved successfully", vehicle)
}

func (h *VehicleHandler) UpdateVehicle(c *gin.Context) {
	id, err := shared.ParamID(c, "id")
	if err != nil {
		_ = c.Error(err)
		return
	}

	var request services.UpdateVehicleRequest
	if err := shared.BindPartialJSON(c, &request); err != nil {
		_ = c.Error(err)
		return
	}

	vehicle, err := h.vehicleService.UpdateVehicle(c.Request.Context(), id, &request)
	if err != nil {
		_ = c.Error(err)
		return
	}

	shared.Audit(c, "update", "vehicle", id.Hex())
	utils.SuccessResponse(c, "Vehicle updated successfully", vehicle)
}

func (h *VehicleHandler) RemoveVehicle(c *gin.Context) {
	id, err := shared.ParamID(c, "id")
	if err != nil {
		_ = c.Error(err)
		return
	}

	if err := h.vehicleService.RemoveVehicle(c.Request.Context(), id); err != nil {
		_ = c.Error(err)
		return
	}

	shared.Audit(c, "remove", "vehicle", id.Hex())
	utils.SuccessResponse(c, "Vehicle removed successfully", nil)
}

// ListBrands filters by type (vehicle or manufacturer).
func (h *VehicleHandler) ListBrands(c *gin.Context) {
	status, err := shared.StatusFilter(c)
	if err != nil {
		_ = c.Error(err)
		return
	}
	params := utils.GetPaginationParams(c)

	filter := interfaces.VehicleBrandFilter{
		Type:   models.VehicleBrandType(c.Query("type")),
		Status: status,
	}

	brands, total, err := h.vehicleService.ListBrands(c.Request.Context(), filter, params)
	if err != nil {
		_ = c.Error(err)
		return
	}

	utils.PaginatedResponse(c, "Vehicle brands retrieved successfully", brands, params, total)
}

func (h *VehicleHandler) ListModels(c *gin.Context) {
	status, err := shared.StatusFilter(c)
	if err != nil {
		_ = c.Error(err)
		return
	}
	brandID, err := shared.QueryID(c, "brand_id")
	if err != nil {
		_ = c.Error(err)
		return
	}
	params := utils.GetPaginationParams(c)

	vehicleModels, total, err := h.vehicleService.ListModels(c.Request.Context(), interfaces.VehicleModelFilter{BrandID: brandID, Status: status}, params)
	if err != nil {
		_ = c.Error(err)
		return
	}

	utils.PaginatedResponse(c, "Vehicle models retrieved successfully", vehicleModels, params, total)
}

func (h *VehicleHandler) ListModelYears(c *gin.Context) {
	modelID, err := shared.QueryID(c, "model_id")
	if err != nil {
		_ = c.Error(err)
		return
	}
	if modelID == nil {
		_ = c.Error(utils.NewValidationError("model_id is required", map[string]string{"model_id": "model_id is required"}))
		return
	}
	params := utils.GetPaginationParams(c)

	years, total, err := h.vehicleService.ListModelYears(c.Request.Context(), *modelID, params)
	if err != nil {
		_ = c.Error(err)
		return
	}

	utils.PaginatedResponse(c, "Vehicle model years retrieved successfully", years, params, total)
}

func (h *VehicleHandler) ListVehicles(c *gin.Context) {
	status, err := shared.StatusFilter(c)
	if err != nil {
		_ = c.Error(err)
		return
	}
	modelID, err := shared.QueryID(c, "model_id")
	if err != nil {
		_ = c.Error(err)
		return
	}
	modelYearID, err := shared.QueryID(c, "model_year_id")
	if err != nil {
		_ = c.Error(err)
		return
	}
	params := utils.GetPaginationParams(c)

	filter := interfaces.VehicleFilter{
		ModelID:     modelID,
		ModelYearID: modelYearID,
		Status:      status,
	}

	vehicles, total, err := h.vehicleService.ListVehicles(c.Request.Context(), filter, params)
	if err != nil {
		_ = c.Error(err)
		return
	}

	utils.PaginatedResponse(c, "Vehicles retrieved successfully", vehicles, params, total)
}
