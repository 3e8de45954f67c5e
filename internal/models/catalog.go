package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Brand struct {
	ID          primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Name        string             `json:"name" bson:"name"`
	Slug        string             `json:"slug" bson:"slug"`
	Description string             `json:"description,omitempty" bson:"description,omitempty"`
	Logo        string             `json:"logo,omitempty" bson:"logo,omitempty"`
	Website     string             `json:"website,omitempty" bson:"website,omitempty"`
	Status      Status             `json:"status" bson:"status"`
	Lifecycle   `bson:",inline"`
}

type Category struct {
	ID          primitive.ObjectID  `json:"id" bson:"_id,omitempty"`
	Name        string              `json:"name" bson:"name"`
	Slug        string              `json:"slug" bson:"slug"`
	ParentID    *primitive.ObjectID `json:"parent_id,omitempty" bson:"parent_id,omitempty"`
	Description string              `json:"description,omitempty" bson:"description,omitempty"`
	Image       string              `json:"image,omitempty" bson:"image,omitempty"`
	SortOrder   int                 `json:"sort_order" bson:"sort_order"`
	Status      Status              `json:"status" bson:"status"`
	Lifecycle   `bson:",inline"`
}

type Tag struct {
	ID        primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Name      string             `json:"name" bson:"name"`
	Slug      string             `json:"slug" bson:"slug"`
	Lifecycle `bson:",inline"`
}

type Dimensions struct {
	LengthCm float64 `json:"length_cm" bson:"length_cm"`
	WidthCm  float64 `json:"width_cm" bson:"width_cm"`
	HeightCm float64 `json:"height_cm" bson:"height_cm"`
}

// Volume in cubic centimetres.
func (d *Dimensions) Volume() float64 {
	if d == nil {
		return 0
	}
	return d.LengthCm * d.WidthCm * d.HeightCm
}

type Product struct {
	ID                primitive.ObjectID   `json:"id" bson:"_id,omitempty"`
	Name              string               `json:"name" bson:"name"`
	Slug              string               `json:"slug" bson:"slug"`
	SKU               string               `json:"sku" bson:"sku"`
	Description       string               `json:"description,omitempty" bson:"description,omitempty"`
	Price             float64              `json:"price" bson:"price"`
	CompareAtPrice    float64              `json:"compare_at_price,omitempty" bson:"compare_at_price,omitempty"`
	BrandID           *primitive.ObjectID  `json:"brand_id,omitempty" bson:"brand_id,omitempty"`
	CategoryID        *primitive.ObjectID  `json:"category_id,omitempty" bson:"category_id,omitempty"`
	TagIDs            []primitive.ObjectID `json:"tag_ids,omitempty" bson:"tag_ids,omitempty"`
	VendorID          *primitive.ObjectID  `json:"vendor_id,omitempty" bson:"vendor_id,omitempty"`
	VehicleIDs        []primitive.ObjectID `json:"vehicle_ids,omitempty" bson:"vehicle_ids,omitempty"`
	HSNCode           string               `json:"hsn_code,omitempty" bson:"hsn_code,omitempty"`
	WeightKg          float64              `json:"weight_kg" bson:"weight_kg"`
	Dimensions        *Dimensions          `json:"dimensions,omitempty" bson:"dimensions,omitempty"`
	Stock             int                  `json:"stock" bson:"stock"`
	LowStockThreshold int                  `json:"low_stock_threshold" bson:"low_stock_threshold"`
	Images            []string             `json:"images,omitempty" bson:"images,omitempty"`
	Status            Status               `json:"status" bson:"status"`
	Lifecycle         `bson:",inline"`
}

// Sellable reports whether the product can be added to a cart.
func (p *Product) Sellable() bool {
	return p.IsActive() && p.Status == StatusActive
}
