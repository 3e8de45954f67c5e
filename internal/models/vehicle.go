package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type VehicleBrandType string

const (
	VehicleBrandTypeVehicle      VehicleBrandType = "vehicle"
	VehicleBrandTypeManufacturer VehicleBrandType = "manufacturer"
)

func (t VehicleBrandType) Valid() bool {
	return t == VehicleBrandTypeVehicle || t == VehicleBrandTypeManufacturer
}

type VehicleBrand struct {
	ID          primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Name        string             `json:"name" bson:"name"`
	Slug        string             `json:"slug" bson:"slug"`
	Description string             `json:"description,omitempty" bson:"description,omitempty"`
	Logo        string             `json:"logo" bson:"logo"`
	Type        VehicleBrandType   `json:"type" bson:"type"`
	Status      Status             `json:"status" bson:"status"`
	Lifecycle   `bson:",inline"`
}

type VehicleModel struct {
	ID          primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	BrandID     primitive.ObjectID `json:"brand_id" bson:"brand_id"`
	Name        string             `json:"name" bson:"name"`
	Slug        string             `json:"slug" bson:"slug"`
	Year        int                `json:"year,omitempty" bson:"year,omitempty"`
	Description string             `json:"description,omitempty" bson:"description,omitempty"`
	Image       string             `json:"image,omitempty" bson:"image,omitempty"`
	Status      Status             `json:"status" bson:"status"`
	Lifecycle   `bson:",inline"`
}

type VehicleModelYear struct {
	ID        primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	ModelID   primitive.ObjectID `json:"model_id" bson:"model_id"`
	Year      int                `json:"year" bson:"year"`
	Status    Status             `json:"status" bson:"status"`
	Lifecycle `bson:",inline"`
}

type Vehicle struct {
	ID          primitive.ObjectID     `json:"id" bson:"_id,omitempty"`
	ModelID     primitive.ObjectID     `json:"model_id" bson:"model_id"`
	ModelYearID *primitive.ObjectID    `json:"model_year_id,omitempty" bson:"model_year_id,omitempty"`
	Name        string                 `json:"name" bson:"name"`
	Variant     string                 `json:"variant,omitempty" bson:"variant,omitempty"`
	FuelType    string                 `json:"fuel_type,omitempty" bson:"fuel_type,omitempty"`
	Attributes  map[string]interface{} `json:"attributes,omitempty" bson:"attributes,omitempty"`
	Status      Status                 `json:"status" bson:"status"`
	Lifecycle   `bson:",inline"`
}
