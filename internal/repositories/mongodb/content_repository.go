package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"marketly/internal/models"
	"marketly/internal/repositories/interfaces"
	"marketly/internal/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type seoRepository struct {
	store[models.SeoRecord]
}

func NewSeoRepository(db *mongo.Database) interfaces.SeoRepository {
	return &seoRepository{newStore[models.SeoRecord](db, "seo_records", "seo record", "slug", "meta_title")}
}

func (r *seoRepository) Create(ctx context.Context, record *models.SeoRecord) error {
	record.ID = primitive.NewObjectID()
	record.Stamp(time.Now())
	return r.insert(ctx, record)
}

func (r *seoRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.SeoRecord, error) {
	return r.getByID(ctx, id)
}

func (r *seoRepository) GetBySlug(ctx context.Context, slug string) (*models.SeoRecord, error) {
	return r.findOne(ctx, active(bson.M{"slug": slug}))
}

func entityFilter(entityType models.SeoEntityType, entityID string) bson.M {
	filter := bson.M{"entity_type": entityType}
	if entityID == "" {
		filter["entity_id"] = bson.M{"$exists": false}
	} else {
		filter["entity_id"] = entityID
	}
	return filter
}

func (r *seoRepository) GetByEntity(ctx context.Context, entityType models.SeoEntityType, entityID string) (*models.SeoRecord, error) {
	return r.findOne(ctx, active(entityFilter(entityType, entityID)), options.FindOne().SetSort(bson.D{{Key: "updated_at", Value: -1}}))
}

func (r *seoRepository) FindAnyByEntity(ctx context.Context, entityType models.SeoEntityType, entityID string) (*models.SeoRecord, error) {
	return r.findAny(ctx, entityFilter(entityType, entityID))
}

func (r *seoRepository) Update(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) (*models.SeoRecord, error) {
	return r.update(ctx, id, updates)
}

func (r *seoRepository) Restore(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) (*models.SeoRecord, error) {
	return r.restore(ctx, id, updates)
}

func (r *seoRepository) Retire(ctx context.Context, id primitive.ObjectID) error {
	return r.retire(ctx, id)
}

func (r *seoRepository) List(ctx context.Context, entityType models.SeoEntityType, params *utils.PaginationParams) ([]*models.SeoRecord, int64, error) {
	filter := bson.M{}
	if entityType != "" {
		filter["entity_type"] = entityType
	}
	return r.paginate(ctx, filter, params)
}

type settingsRepository struct {
	collection *mongo.Collection
}

func NewSettingsRepository(db *mongo.Database) interfaces.SettingsRepository {
	return &settingsRepository{collection: db.Collection("settings")}
}

func (r *settingsRepository) Get(ctx context.Context) (*models.Settings, error) {
	var settings models.Settings
	err := r.collection.FindOne(ctx, bson.M{"_id": models.SettingsKey}).Decode(&settings)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, interfaces.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get settings: %w", err)
	}
	return &settings, nil
}

func (r *settingsRepository) Upsert(ctx context.Context, updates map[string]interface{}) (*models.Settings, error) {
	set := bson.M{"updated_at": time.Now()}
	for k, v := range updates {
		set[k] = v
	}

	var settings models.Settings
	err := r.collection.FindOneAndUpdate(ctx,
		bson.M{"_id": models.SettingsKey},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After),
	).Decode(&settings)
	if err != nil {
		return nil, fmt.Errorf("failed to update settings: %w", err)
	}
	return &settings, nil
}

type mediaRepository struct {
	store[models.Media]
}

func NewMediaRepository(db *mongo.Database) interfaces.MediaRepository {
	return &mediaRepository{newStore[models.Media](db, "media", "media", "file_name", "folder")}
}

func (r *mediaRepository) Create(ctx context.Context, media *models.Media) error {
	if media.ID.IsZero() {
		media.ID = primitive.NewObjectID()
	}
	media.Stamp(time.Now())
	return r.insert(ctx, media)
}

func (r *mediaRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Media, error) {
	return r.getByID(ctx, id)
}

func (r *mediaRepository) Retire(ctx context.Context, id primitive.ObjectID) error {
	return r.retire(ctx, id)
}

func (r *mediaRepository) List(ctx context.Context, filter interfaces.MediaFilter, params *utils.PaginationParams) ([]*models.Media, int64, error) {
	query := bson.M{}
	if filter.Folder != "" {
		query["folder"] = filter.Folder
	}
	if filter.UploadedBy != nil {
		query["uploaded_by"] = *filter.UploadedBy
	}
	return r.paginate(ctx, query, params)
}
