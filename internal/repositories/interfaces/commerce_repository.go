package interfaces

import (
	"context"
	"time"

	"marketly/internal/models"
	"marketly/internal/utils"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type InventoryMovementRepository interface {
	Create(ctx context.Context, movement *models.InventoryMovement) error
	ListByProduct(ctx context.Context, productID primitive.ObjectID, params *utils.PaginationParams) ([]*models.InventoryMovement, int64, error)
}

type CartRepository interface {
	GetByUser(ctx context.Context, userID primitive.ObjectID) (*models.Cart, error)
	// Save replaces the user's cart, creating it on first write.
	Save(ctx context.Context, cart *models.Cart) error
	Clear(ctx context.Context, userID primitive.ObjectID) error
}

type OrderFilter struct {
	UserID *primitive.ObjectID
	Status models.OrderStatus
	From   *time.Time
	To     *time.Time
}

// ReportRange is a half-open [From, To) window over order creation time.
type ReportRange struct {
	From time.Time
	To   time.Time
}

type OrderRepository interface {
	Create(ctx context.Context, order *models.Order) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Order, error)
	// UpdateStatus moves the order from one status to the next, failing with ErrStaleStatus when the
	// stored status is no longer from.
	UpdateStatus(ctx context.Context, id primitive.ObjectID, from models.OrderStatus, change models.StatusChange) (*models.Order, error)
	CountByUser(ctx context.Context, userID primitive.ObjectID) (int64, error)
	CountByUserAndCoupon(ctx context.Context, userID, couponID primitive.ObjectID) (int64, error)
	List(ctx context.Context, filter OrderFilter, params *utils.PaginationParams) ([]*models.Order, int64, error)

	Summary(ctx context.Context, window ReportRange) (*models.SalesSummary, error)
	Daily(ctx context.Context, window ReportRange, timezone string) ([]*models.DailySales, error)
	TopProducts(ctx context.Context, window ReportRange, limit int) ([]*models.TopProduct, error)
}
