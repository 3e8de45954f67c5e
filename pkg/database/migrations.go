package database

import (
	"context"
	"fmt"
	"time"

	"marketly/pkg/logger"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Migration struct {
	Version     int
	Description string
	Up          func(context.Context, *mongo.Database) error
}

type Migrator struct {
	db         *mongo.Database
	migrations []Migration
	logger     *logger.Logger
}

func NewMigrator(db *mongo.Database, log *logger.Logger) *Migrator {
	return &Migrator{
		db:         db,
		migrations: getMigrations(),
		logger:     log,
	}
}

func (m *Migrator) Up(ctx context.Context) error {
	currentVersion, err := m.getCurrentVersion(ctx)
	if err != nil {
		return err
	}

	for _, migration := range m.migrations {
		if migration.Version <= currentVersion {
			continue
		}

		m.logger.WithFields(map[string]interface{}{
			"version":     migration.Version,
			"description": migration.Description,
		}).Info("Running migration")

		if err := migration.Up(ctx, m.db); err != nil {
			return fmt.Errorf("migration %d failed: %w", migration.Version, err)
		}

		if err := m.updateVersion(ctx, migration.Version); err != nil {
			return fmt.Errorf("failed to update migration version: %w", err)
		}
	}

	return nil
}

func (m *Migrator) getCurrentVersion(ctx context.Context) (int, error) {
	var result struct {
		Version int `bson:"version"`
	}

	err := m.db.Collection("migrations").FindOne(ctx, bson.D{}).Decode(&result)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return 0, nil
		}
		return 0, err
	}

	return result.Version, nil
}

func (m *Migrator) updateVersion(ctx context.Context, version int) error {
	_, err := m.db.Collection("migrations").ReplaceOne(
		ctx,
		bson.D{},
		bson.D{{Key: "version", Value: version}, {Key: "updated_at", Value: time.Now()}},
		options.Replace().SetUpsert(true),
	)
	return err
}

// activeUnique enforces uniqueness among active documents only, so retired rows keep their keys.
func activeUnique() *options.IndexOptions {
	return options.Index().
		SetUnique(true).
		SetPartialFilterExpression(bson.M{"state": "active"})
}

func createIndexes(ctx context.Context, db *mongo.Database, collection string, indexes []mongo.IndexModel) error {
	if _, err := db.Collection(collection).Indexes().CreateMany(ctx, indexes); err != nil {
		return fmt.Errorf("failed to create %s indexes: %w", collection, err)
	}
	return nil
}

func getMigrations() []Migration {
	return []Migration{
		{
			Version:     1,
			Description: "Create vehicle taxonomy indexes",
			Up:          createVehicleTaxonomyIndexes,
		},
		{
			Version:     2,
			Description: "Create catalog indexes",
			Up:          createCatalogIndexes,
		},
		{
			Version:     3,
			Description: "Create pricing indexes",
			Up:          createPricingIndexes,
		},
		{
			Version:     4,
			Description: "Create user, role and content indexes",
			Up:          createAccountIndexes,
		},
		{
			Version:     5,
			Description: "Create commerce indexes",
			Up:          createCommerceIndexes,
		},
		{
			Version:     6,
			Description: "Seed built-in roles",
			Up:          seedBuiltInRoles,
		},
	}
}

func createVehicleTaxonomyIndexes(ctx context.Context, db *mongo.Database) error {
	if err := createIndexes(ctx, db, "vehicle_brands", []mongo.IndexModel{
		{Keys: bson.D{{Key: "name", Value: 1}}, Options: activeUnique()},
		{Keys: bson.D{{Key: "slug", Value: 1}}},
		{Keys: bson.D{{Key: "state", Value: 1}, {Key: "type", Value: 1}}},
	}); err != nil {
		return err
	}

	if err := createIndexes(ctx, db, "vehicle_models", []mongo.IndexModel{
		{Keys: bson.D{{Key: "brand_id", Value: 1}, {Key: "name", Value: 1}}, Options: activeUnique()},
		{Keys: bson.D{{Key: "state", Value: 1}, {Key: "brand_id", Value: 1}}},
	}); err != nil {
		return err
	}

	if err := createIndexes(ctx, db, "vehicle_model_years", []mongo.IndexModel{
		{Keys: bson.D{{Key: "model_id", Value: 1}, {Key: "year", Value: 1}}, Options: activeUnique()},
	}); err != nil {
		return err
	}

	return createIndexes(ctx, db, "vehicles", []mongo.IndexModel{
		{Keys: bson.D{{Key: "model_id", Value: 1}, {Key: "model_year_id", Value: 1}, {Key: "name", Value: 1}}, Options: activeUnique()},
		{Keys: bson.D{{Key: "model_year_id", Value: 1}}},
	})
}

func createCatalogIndexes(ctx context.Context, db *mongo.Database) error {
	if err := createIndexes(ctx, db, "brands", []mongo.IndexModel{
		{Keys: bson.D{{Key: "name", Value: 1}}, Options: activeUnique()},
		{Keys: bson.D{{Key: "slug", Value: 1}}},
	}); err != nil {
		return err
	}

	if err := createIndexes(ctx, db, "categories", []mongo.IndexModel{
		{Keys: bson.D{{Key: "slug", Value: 1}}, Options: activeUnique()},
		{Keys: bson.D{{Key: "parent_id", Value: 1}, {Key: "state", Value: 1}}},
	}); err != nil {
		return err
	}

	if err := createIndexes(ctx, db, "tags", []mongo.IndexModel{
		{Keys: bson.D{{Key: "name", Value: 1}}, Options: activeUnique()},
	}); err != nil {
		return err
	}

	return createIndexes(ctx, db, "products", []mongo.IndexModel{
		{Keys: bson.D{{Key: "sku", Value: 1}}, Options: activeUnique()},
		{Keys: bson.D{{Key: "slug", Value: 1}}},
		{Keys: bson.D{{Key: "state", Value: 1}, {Key: "category_id", Value: 1}}},
		{Keys: bson.D{{Key: "state", Value: 1}, {Key: "brand_id", Value: 1}}},
		{Keys: bson.D{{Key: "vendor_id", Value: 1}}},
		{Keys: bson.D{{Key: "name", Value: "text"}, {Key: "description", Value: "text"}}},
	})
}

func createPricingIndexes(ctx context.Context, db *mongo.Database) error {
	if err := createIndexes(ctx, db, "coupons", []mongo.IndexModel{
		{Keys: bson.D{{Key: "code", Value: 1}}, Options: activeUnique()},
		{Keys: bson.D{{Key: "status", Value: 1}, {Key: "ends_at", Value: 1}}},
	}); err != nil {
		return err
	}

	if err := createIndexes(ctx, db, "shipping_rules", []mongo.IndexModel{
		{Keys: bson.D{{Key: "state", Value: 1}, {Key: "status", Value: 1}, {Key: "created_at", Value: 1}}},
	}); err != nil {
		return err
	}

	return createIndexes(ctx, db, "tax_slabs", []mongo.IndexModel{
		{Keys: bson.D{{Key: "hsn_code", Value: 1}, {Key: "min_amount", Value: 1}}},
	})
}

func createAccountIndexes(ctx context.Context, db *mongo.Database) error {
	if err := createIndexes(ctx, db, "users", []mongo.IndexModel{
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: activeUnique()},
		{Keys: bson.D{{Key: "role", Value: 1}}},
		{Keys: bson.D{{Key: "created_at", Value: -1}}},
	}); err != nil {
		return err
	}

	if err := createIndexes(ctx, db, "roles", []mongo.IndexModel{
		{Keys: bson.D{{Key: "name", Value: 1}}, Options: activeUnique()},
	}); err != nil {
		return err
	}

	if err := createIndexes(ctx, db, "seo_records", []mongo.IndexModel{
		// slug is optional on SEO records, only set slugs must be unique
		{Keys: bson.D{{Key: "slug", Value: 1}}, Options: options.Index().
			SetUnique(true).
			SetPartialFilterExpression(bson.M{"state": "active", "slug": bson.M{"$gt": ""}})},
		{Keys: bson.D{{Key: "entity_type", Value: 1}, {Key: "entity_id", Value: 1}, {Key: "state", Value: 1}}},
	}); err != nil {
		return err
	}

	return createIndexes(ctx, db, "media", []mongo.IndexModel{
		{Keys: bson.D{{Key: "key", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "folder", Value: 1}, {Key: "created_at", Value: -1}}},
	})
}

func createCommerceIndexes(ctx context.Context, db *mongo.Database) error {
	if err := createIndexes(ctx, db, "carts", []mongo.IndexModel{
		{Keys: bson.D{{Key: "user_id", Value: 1}}, Options: options.Index().SetUnique(true)},
	}); err != nil {
		return err
	}

	if err := createIndexes(ctx, db, "orders", []mongo.IndexModel{
		{Keys: bson.D{{Key: "number", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "status", Value: 1}, {Key: "created_at", Value: 1}}},
		{Keys: bson.D{{Key: "coupon_id", Value: 1}, {Key: "user_id", Value: 1}}},
	}); err != nil {
		return err
	}

	return createIndexes(ctx, db, "inventory_movements", []mongo.IndexModel{
		{Keys: bson.D{{Key: "product_id", Value: 1}, {Key: "created_at", Value: -1}}},
	})
}

var builtInRoles = []struct {
	Name        string
	Description string
	Permissions []string
}{
	{Name: "admin", Description: "Full administrative access", Permissions: []string{"*"}},
	{Name: "vendor", Description: "Manages own products and inventory", Permissions: []string{"products:write", "inventory:write", "orders:read"}},
	{Name: "customer", Description: "Shops and places orders", Permissions: []string{"cart:write", "orders:write"}},
}

func seedBuiltInRoles(ctx context.Context, db *mongo.Database) error {
	collection := db.Collection("roles")
	now := time.Now()

	for _, role := range builtInRoles {
		_, err := collection.UpdateOne(
			ctx,
			bson.M{"name": role.Name, "state": "active"},
			bson.M{
				"$setOnInsert": bson.M{
					"_id":         primitive.NewObjectID(),
					"name":        role.Name,
					"description": role.Description,
					"permissions": role.Permissions,
					"built_in":    true,
					"state":       "active",
					"created_at":  now,
					"updated_at":  now,
				},
			},
			options.Update().SetUpsert(true),
		)
		if err != nil {
			return fmt.Errorf("failed to seed role %s: %w", role.Name, err)
		}
	}

	return nil
}
