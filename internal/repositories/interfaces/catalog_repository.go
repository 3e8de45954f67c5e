package interfaces

import (
	"context"

	"marketly/internal/models"
	"marketly/internal/utils"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type BrandRepository interface {
	Create(ctx context.Context, brand *models.Brand) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Brand, error)
	GetBySlug(ctx context.Context, slug string) (*models.Brand, error)
	FindAnyByName(ctx context.Context, name string) (*models.Brand, error)
	Update(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) (*models.Brand, error)
	Restore(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) (*models.Brand, error)
	Retire(ctx context.Context, id primitive.ObjectID) error
	List(ctx context.Context, status models.Status, params *utils.PaginationParams) ([]*models.Brand, int64, error)
}

type CategoryFilter struct {
	ParentID *primitive.ObjectID
	RootOnly bool
	Status   models.Status
}

type CategoryRepository interface {
	Create(ctx context.Context, category *models.Category) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Category, error)
	GetBySlug(ctx context.Context, slug string) (*models.Category, error)
	FindAnyBySlug(ctx context.Context, slug string) (*models.Category, error)
	Update(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) (*models.Category, error)
	Restore(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) (*models.Category, error)
	// ActiveChildIDs returns the ids of active categories whose parent is one of parentIDs.
	ActiveChildIDs(ctx context.Context, parentIDs []primitive.ObjectID) ([]primitive.ObjectID, error)
	RetireMany(ctx context.Context, ids []primitive.ObjectID) (int64, error)
	List(ctx context.Context, filter CategoryFilter, params *utils.PaginationParams) ([]*models.Category, int64, error)
}

type TagRepository interface {
	Create(ctx context.Context, tag *models.Tag) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Tag, error)
	FindAnyByName(ctx context.Context, name string) (*models.Tag, error)
	Update(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) (*models.Tag, error)
	Restore(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) (*models.Tag, error)
	Retire(ctx context.Context, id primitive.ObjectID) error
	CountActive(ctx context.Context, ids []primitive.ObjectID) (int64, error)
	List(ctx context.Context, params *utils.PaginationParams) ([]*models.Tag, int64, error)
}

type ProductFilter struct {
	BrandID    *primitive.ObjectID
	CategoryID *primitive.ObjectID
	TagID      *primitive.ObjectID
	VendorID   *primitive.ObjectID
	VehicleID  *primitive.ObjectID
	Status     models.Status
	MinPrice   float64
	MaxPrice   float64
}

type ProductRepository interface {
	Create(ctx context.Context, product *models.Product) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Product, error)
	GetBySlug(ctx context.Context, slug string) (*models.Product, error)
	GetByIDs(ctx context.Context, ids []primitive.ObjectID) ([]*models.Product, error)
	FindAnyBySKU(ctx context.Context, sku string) (*models.Product, error)
	Update(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) (*models.Product, error)
	Restore(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) (*models.Product, error)
	Retire(ctx context.Context, id primitive.ObjectID) error
	// AdjustStock applies delta atomically and fails with ErrInsufficientStock instead of going negative.
	AdjustStock(ctx context.Context, id primitive.ObjectID, delta int) (*models.Product, error)
	LowStock(ctx context.Context, params *utils.PaginationParams) ([]*models.Product, int64, error)
	List(ctx context.Context, filter ProductFilter, params *utils.PaginationParams) ([]*models.Product, int64, error)
}
