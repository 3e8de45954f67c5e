package interfaces

import (
	"context"

	"marketly/internal/models"
	"marketly/internal/utils"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type CouponRepository interface {
	Create(ctx context.Context, coupon *models.Coupon) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Coupon, error)
	GetByCode(ctx context.Context, code string) (*models.Coupon, error)
	FindAnyByCode(ctx context.Context, code string) (*models.Coupon, error)
	Update(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) (*models.Coupon, error)
	Restore(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) (*models.Coupon, error)
	Retire(ctx context.Context, id primitive.ObjectID) error
	// IncrementUsage bumps used_count only while it is below usage_limit.
	IncrementUsage(ctx context.Context, id primitive.ObjectID) (*models.Coupon, error)
	// ReleaseUsage gives back one use while used_count is above zero.
	ReleaseUsage(ctx context.Context, id primitive.ObjectID) error
	List(ctx context.Context, status models.Status, params *utils.PaginationParams) ([]*models.Coupon, int64, error)
}

type ShippingRuleRepository interface {
	Create(ctx context.Context, rule *models.ShippingRule) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.ShippingRule, error)
	Update(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) (*models.ShippingRule, error)
	Retire(ctx context.Context, id primitive.ObjectID) error
	// ListApplicable returns active rules with status active, oldest first.
	ListApplicable(ctx context.Context) ([]*models.ShippingRule, error)
	List(ctx context.Context, params *utils.PaginationParams) ([]*models.ShippingRule, int64, error)
}

type TaxSlabRepository interface {
	Create(ctx context.Context, slab *models.TaxSlab) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.TaxSlab, error)
	Update(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) (*models.TaxSlab, error)
	Retire(ctx context.Context, id primitive.ObjectID) error
	// FindApplicable returns active slabs for the HSN code ordered by min_amount.
	FindApplicable(ctx context.Context, hsnCode string) ([]*models.TaxSlab, error)
	List(ctx context.Context, hsnCode string, params *utils.PaginationParams) ([]*models.TaxSlab, int64, error)
}
