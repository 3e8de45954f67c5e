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

type brandRepository struct {
	store[models.Brand]
}

func NewBrandRepository(db *mongo.Database) interfaces.BrandRepository {
	return &brandRepository{newStore[models.Brand](db, "brands", "brand", "name", "slug")}
}

func (r *brandRepository) Create(ctx context.Context, brand *models.Brand) error {
	brand.ID = primitive.NewObjectID()
	brand.Stamp(time.Now())
	return r.insert(ctx, brand)
}

func (r *brandRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Brand, error) {
	return r.getByID(ctx, id)
}

func (r *brandRepository) GetBySlug(ctx context.Context, slug string) (*models.Brand, error) {
	return r.findOne(ctx, active(bson.M{"slug": slug}))
}

func (r *brandRepository) FindAnyByName(ctx context.Context, name string) (*models.Brand, error) {
	return r.findAny(ctx, bson.M{"name": name})
}

func (r *brandRepository) Update(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) (*models.Brand, error) {
	return r.update(ctx, id, updates)
}

func (r *brandRepository) Restore(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) (*models.Brand, error) {
	return r.restore(ctx, id, updates)
}

func (r *brandRepository) Retire(ctx context.Context, id primitive.ObjectID) error {
	return r.retire(ctx, id)
}

func (r *brandRepository) List(ctx context.Context, status models.Status, params *utils.PaginationParams) ([]*models.Brand, int64, error) {
	return r.paginate(ctx, statusFilter(bson.M{}, status), params)
}

type categoryRepository struct {
	store[models.Category]
}

func NewCategoryRepository(db *mongo.Database) interfaces.CategoryRepository {
	return &categoryRepository{newStore[models.Category](db, "categories", "category", "name", "slug")}
}

func (r *categoryRepository) Create(ctx context.Context, category *models.Category) error {
	category.ID = primitive.NewObjectID()
	category.Stamp(time.Now())
	return r.insert(ctx, category)
}

func (r *categoryRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Category, error) {
	return r.getByID(ctx, id)
}

func (r *categoryRepository) GetBySlug(ctx context.Context, slug string) (*models.Category, error) {
	return r.findOne(ctx, active(bson.M{"slug": slug}))
}

func (r *categoryRepository) FindAnyBySlug(ctx context.Context, slug string) (*models.Category, error) {
	return r.findAny(ctx, bson.M{"slug": slug})
}

func (r *categoryRepository) Update(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) (*models.Category, error) {
	return r.update(ctx, id, updates)
}

func (r *categoryRepository) Restore(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) (*models.Category, error) {
	return r.restore(ctx, id, updates)
}

func (r *categoryRepository) ActiveChildIDs(ctx context.Context, parentIDs []primitive.ObjectID) ([]primitive.ObjectID, error) {
	if len(parentIDs) == 0 {
		return nil, nil
	}
	return r.activeIDs(ctx, bson.M{"parent_id": bson.M{"$in": parentIDs}})
}

func (r *categoryRepository) RetireMany(ctx context.Context, ids []primitive.ObjectID) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	return r.retireWhere(ctx, bson.M{"_id": bson.M{"$in": ids}})
}

func (r *categoryRepository) List(ctx context.Context, filter interfaces.CategoryFilter, params *utils.PaginationParams) ([]*models.Category, int64, error) {
	query := statusFilter(bson.M{}, filter.Status)
	switch {
	case filter.ParentID != nil:
		query["parent_id"] = *filter.ParentID
	case filter.RootOnly:
		query["parent_id"] = bson.M{"$exists": false}
	}
	return r.paginate(ctx, query, params)
}

type tagRepository struct {
	store[models.Tag]
}

func NewTagRepository(db *mongo.Database) interfaces.TagRepository {
	return &tagRepository{newStore[models.Tag](db, "tags", "tag", "name", "slug")}
}

func (r *tagRepository) Create(ctx context.Context, tag *models.Tag) error {
	tag.ID = primitive.NewObjectID()
	tag.Stamp(time.Now())
	return r.insert(ctx, tag)
}

func (r *tagRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Tag, error) {
	return r.getByID(ctx, id)
}

func (r *tagRepository) FindAnyByName(ctx context.Context, name string) (*models.Tag, error) {
	return r.findAny(ctx, bson.M{"name": name})
}

func (r *tagRepository) Update(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) (*models.Tag, error) {
	return r.update(ctx, id, updates)
}

func (r *tagRepository) Restore(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) (*models.Tag, error) {
	return r.restore(ctx, id, updates)
}

func (r *tagRepository) Retire(ctx context.Context, id primitive.ObjectID) error {
	return r.retire(ctx, id)
}

func (r *tagRepository) CountActive(ctx context.Context, ids []primitive.ObjectID) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	count, err := r.collection.CountDocuments(ctx, active(bson.M{"_id": bson.M{"$in": ids}}))
	if err != nil {
		return 0, fmt.Errorf("failed to count tags: %w", err)
	}
	return count, nil
}

func (r *tagRepository) List(ctx context.Context, params *utils.PaginationParams) ([]*models.Tag, int64, error) {
	return r.paginate(ctx, bson.M{}, params)
}

type productRepository struct {
	store[models.Product]
}

func NewProductRepository(db *mongo.Database) interfaces.ProductRepository {
	return &productRepository{newStore[models.Product](db, "products", "product", "name", "sku", "slug")}
}

func (r *productRepository) Create(ctx context.Context, product *models.Product) error {
	product.ID = primitive.NewObjectID()
	product.Stamp(time.Now())
	return r.insert(ctx, product)
}

func (r *productRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Product, error) {
	return r.getByID(ctx, id)
}

func (r *productRepository) GetBySlug(ctx context.Context, slug string) (*models.Product, error) {
	return r.findOne(ctx, active(bson.M{"slug": slug}))
}

func (r *productRepository) GetByIDs(ctx context.Context, ids []primitive.ObjectID) ([]*models.Product, error) {
	if len(ids) == 0 {
		return []*models.Product{}, nil
	}
	return r.findAll(ctx, active(bson.M{"_id": bson.M{"$in": ids}}))
}

func (r *productRepository) FindAnyBySKU(ctx context.Context, sku string) (*models.Product, error) {
	return r.findAny(ctx, bson.M{"sku": sku})
}

func (r *productRepository) Update(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) (*models.Product, error) {
	return r.update(ctx, id, updates)
}

func (r *productRepository) Restore(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) (*models.Product, error) {
	return r.restore(ctx, id, updates)
}

func (r *productRepository) Retire(ctx context.Context, id primitive.ObjectID) error {
	return r.retire(ctx, id)
}

func (r *productRepository) AdjustStock(ctx context.Context, id primitive.ObjectID, delta int) (*models.Product, error) {
	filter := active(bson.M{"_id": id})
	if delta < 0 {
		// the guard and the decrement happen in one document write
		filter["stock"] = bson.M{"$gte": -delta}
	}

	var product models.Product
	err := r.collection.FindOneAndUpdate(ctx, filter,
		bson.M{
			"$inc": bson.M{"stock": delta},
			"$set": bson.M{"updated_at": time.Now()},
		},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&product)
	if err == nil {
		return &product, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("failed to adjust stock: %w", err)
	}

	// tell a missing product apart from a failed guard
	if _, getErr := r.getByID(ctx, id); getErr != nil {
		return nil, getErr
	}
	return nil, interfaces.ErrInsufficientStock
}

func (r *productRepository) LowStock(ctx context.Context, params *utils.PaginationParams) ([]*models.Product, int64, error) {
	filter := bson.M{"$expr": bson.M{"$lte": bson.A{"$stock", "$low_stock_threshold"}}}
	return r.paginate(ctx, filter, params)
}

func (r *productRepository) List(ctx context.Context, filter interfaces.ProductFilter, params *utils.PaginationParams) ([]*models.Product, int64, error) {
	query := statusFilter(bson.M{}, filter.Status)
	if filter.BrandID != nil {
		query["brand_id"] = *filter.BrandID
	}
	if filter.CategoryID != nil {
		query["category_id"] = *filter.CategoryID
	}
	if filter.TagID != nil {
		query["tag_ids"] = *filter.TagID
	}
	if filter.VendorID != nil {
		query["vendor_id"] = *filter.VendorID
	}
	if filter.VehicleID != nil {
		query["vehicle_ids"] = *filter.VehicleID
	}

	price := bson.M{}
	if filter.MinPrice > 0 {
		price["$gte"] = filter.MinPrice
	}
	if filter.MaxPrice > 0 {
		price["$lte"] = filter.MaxPrice
	}
	if len(price) > 0 {
		query["price"] = price
	}

	return r.paginate(ctx, query, params)
}
