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

type couponRepository struct {
	store[models.Coupon]
}

func NewCouponRepository(db *mongo.Database) interfaces.CouponRepository {
	return &couponRepository{newStore[models.Coupon](db, "coupons", "coupon", "code", "description")}
}

func (r *couponRepository) Create(ctx context.Context, coupon *models.Coupon) error {
	coupon.ID = primitive.NewObjectID()
	coupon.Stamp(time.Now())
	return r.insert(ctx, coupon)
}

func (r *couponRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Coupon, error) {
	return r.getByID(ctx, id)
}

func (r *couponRepository) GetByCode(ctx context.Context, code string) (*models.Coupon, error) {
	return r.findOne(ctx, active(bson.M{"code": code}))
}

func (r *couponRepository) FindAnyByCode(ctx context.Context, code string) (*models.Coupon, error) {
	return r.findAny(ctx, bson.M{"code": code})
}

func (r *couponRepository) Update(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) (*models.Coupon, error) {
	return r.update(ctx, id, updates)
}

func (r *couponRepository) Restore(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) (*models.Coupon, error) {
	return r.restore(ctx, id, updates)
}

func (r *couponRepository) Retire(ctx context.Context, id primitive.ObjectID) error {
	return r.retire(ctx, id)
}

func (r *couponRepository) IncrementUsage(ctx context.Context, id primitive.ObjectID) (*models.Coupon, error) {
	filter := active(bson.M{
		"_id": id,
		"$or": []bson.M{
			{"usage_limit": 0},
			{"$expr": bson.M{"$lt": bson.A{"$used_count", "$usage_limit"}}},
		},
	})

	var coupon models.Coupon
	err := r.collection.FindOneAndUpdate(ctx, filter,
		bson.M{
			"$inc": bson.M{"used_count": 1},
			"$set": bson.M{"updated_at": time.Now()},
		},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&coupon)
	if err == nil {
		return &coupon, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("failed to redeem coupon: %w", err)
	}

	if _, getErr := r.getByID(ctx, id); getErr != nil {
		return nil, getErr
	}
	return nil, interfaces.ErrUsageLimitReached
}

func (r *couponRepository) ReleaseUsage(ctx context.Context, id primitive.ObjectID) error {
	_, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": id, "used_count": bson.M{"$gt": 0}},
		bson.M{
			"$inc": bson.M{"used_count": -1},
			"$set": bson.M{"updated_at": time.Now()},
		},
	)
	if err != nil {
		return fmt.Errorf("failed to release coupon: %w", err)
	}
	return nil
}

func (r *couponRepository) List(ctx context.Context, status models.Status, params *utils.PaginationParams) ([]*models.Coupon, int64, error) {
	return r.paginate(ctx, statusFilter(bson.M{}, status), params)
}

type shippingRuleRepository struct {
	store[models.ShippingRule]
}

func NewShippingRuleRepository(db *mongo.Database) interfaces.ShippingRuleRepository {
	return &shippingRuleRepository{newStore[models.ShippingRule](db, "shipping_rules", "shipping rule", "name", "country")}
}

func (r *shippingRuleRepository) Create(ctx context.Context, rule *models.ShippingRule) error {
	rule.ID = primitive.NewObjectID()
	rule.Stamp(time.Now())
	return r.insert(ctx, rule)
}

func (r *shippingRuleRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.ShippingRule, error) {
	return r.getByID(ctx, id)
}

func (r *shippingRuleRepository) Update(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) (*models.ShippingRule, error) {
	return r.update(ctx, id, updates)
}

func (r *shippingRuleRepository) Retire(ctx context.Context, id primitive.ObjectID) error {
	return r.retire(ctx, id)
}

func (r *shippingRuleRepository) ListApplicable(ctx context.Context) ([]*models.ShippingRule, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}})
	return r.findAll(ctx, active(bson.M{"status": models.StatusActive}), opts)
}

func (r *shippingRuleRepository) List(ctx context.Context, params *utils.PaginationParams) ([]*models.ShippingRule, int64, error) {
	return r.paginate(ctx, bson.M{}, params)
}

type taxSlabRepository struct {
	store[models.TaxSlab]
}

func NewTaxSlabRepository(db *mongo.Database) interfaces.TaxSlabRepository {
	return &taxSlabRepository{newStore[models.TaxSlab](db, "tax_slabs", "tax slab", "hsn_code", "description")}
}

func (r *taxSlabRepository) Create(ctx context.Context, slab *models.TaxSlab) error {
	slab.ID = primitive.NewObjectID()
	slab.Stamp(time.Now())
	return r.insert(ctx, slab)
}

func (r *taxSlabRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.TaxSlab, error) {
	return r.getByID(ctx, id)
}

func (r *taxSlabRepository) Update(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) (*models.TaxSlab, error) {
	return r.update(ctx, id, updates)
}

func (r *taxSlabRepository) Retire(ctx context.Context, id primitive.ObjectID) error {
	return r.retire(ctx, id)
}

func (r *taxSlabRepository) FindApplicable(ctx context.Context, hsnCode string) ([]*models.TaxSlab, error) {
	opts := options.Find().SetSort(bson.D{{Key: "min_amount", Value: 1}, {Key: "created_at", Value: 1}})
	return r.findAll(ctx, active(bson.M{"hsn_code": hsnCode, "status": models.StatusActive}), opts)
}

func (r *taxSlabRepository) List(ctx context.Context, hsnCode string, params *utils.PaginationParams) ([]*models.TaxSlab, int64, error) {
	filter := bson.M{}
	if hsnCode != "" {
		filter["hsn_code"] = hsnCode
	}
	return r.paginate(ctx, filter, params)
}
