package interfaces

import (
	"context"

	"marketly/internal/models"
	"marketly/internal/utils"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type SeoRepository interface {
	Create(ctx context.Context, record *models.SeoRecord) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.SeoRecord, error)
	GetBySlug(ctx context.Context, slug string) (*models.SeoRecord, error)
	GetByEntity(ctx context.Context, entityType models.SeoEntityType, entityID string) (*models.SeoRecord, error)
	FindAnyByEntity(ctx context.Context, entityType models.SeoEntityType, entityID string) (*models.SeoRecord, error)
	Update(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) (*models.SeoRecord, error)
	Restore(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) (*models.SeoRecord, error)
	Retire(ctx context.Context, id primitive.ObjectID) error
	List(ctx context.Context, entityType models.SeoEntityType, params *utils.PaginationParams) ([]*models.SeoRecord, int64, error)
}

type SettingsRepository interface {
	Get(ctx context.Context) (*models.Settings, error)
	Upsert(ctx context.Context, updates map[string]interface{}) (*models.Settings, error)
}

type MediaFilter struct {
	Folder     string
	UploadedBy *primitive.ObjectID
}

type MediaRepository interface {
	Create(ctx context.Context, media *models.Media) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Media, error)
	Retire(ctx context.Context, id primitive.ObjectID) error
	List(ctx context.Context, filter MediaFilter, params *utils.PaginationParams) ([]*models.Media, int64, error)
}
