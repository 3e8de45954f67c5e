package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type SeoEntityType string

const (
	SeoEntityGlobal   SeoEntityType = "global"
	SeoEntityProduct  SeoEntityType = "product"
	SeoEntityCategory SeoEntityType = "category"
	SeoEntityBrand    SeoEntityType = "brand"
	SeoEntityPage     SeoEntityType = "page"
)

type SeoRecord struct {
	ID              primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	EntityType      SeoEntityType      `json:"entity_type" bson:"entity_type"`
	EntityID        string             `json:"entity_id,omitempty" bson:"entity_id,omitempty"`
	Slug            string             `json:"slug,omitempty" bson:"slug,omitempty"`
	MetaTitle       string             `json:"meta_title" bson:"meta_title"`
	MetaDescription string             `json:"meta_description,omitempty" bson:"meta_description,omitempty"`
	Keywords        []string           `json:"keywords,omitempty" bson:"keywords,omitempty"`
	CanonicalURL    string             `json:"canonical_url,omitempty" bson:"canonical_url,omitempty"`
	OGImage         string             `json:"og_image,omitempty" bson:"og_image,omitempty"`
	Robots          string             `json:"robots,omitempty" bson:"robots,omitempty"`
	Lifecycle       `bson:",inline"`
}

const SettingsKey = "global"

type Settings struct {
	Key                      string              `json:"-" bson:"_id"`
	StoreName                string              `json:"store_name" bson:"store_name"`
	Currency                 string              `json:"currency" bson:"currency"`
	SupportEmail             string              `json:"support_email,omitempty" bson:"support_email,omitempty"`
	SupportPhone             string              `json:"support_phone,omitempty" bson:"support_phone,omitempty"`
	PlatformCommissionRate   float64             `json:"platform_commission_rate" bson:"platform_commission_rate"`
	MaintenanceMode          bool                `json:"maintenance_mode" bson:"maintenance_mode"`
	DefaultVolumetricDivisor float64             `json:"default_volumetric_divisor" bson:"default_volumetric_divisor"`
	UpdatedAt                time.Time           `json:"updated_at" bson:"updated_at"`
	UpdatedBy                *primitive.ObjectID `json:"updated_by,omitempty" bson:"updated_by,omitempty"`
}

type Media struct {
	ID          primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Key         string             `json:"key" bson:"key"`
	URL         string             `json:"url" bson:"url"`
	FileName    string             `json:"file_name" bson:"file_name"`
	ContentType string             `json:"content_type" bson:"content_type"`
	Size        int64              `json:"size" bson:"size"`
	Folder      string             `json:"folder" bson:"folder"`
	Alt         string             `json:"alt,omitempty" bson:"alt,omitempty"`
	UploadedBy  primitive.ObjectID `json:"uploaded_by" bson:"uploaded_by"`
	Lifecycle   `bson:",inline"`
}
