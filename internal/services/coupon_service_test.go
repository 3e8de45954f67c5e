package services

import (
	"context"
	"testing"
	"time"

	"marketly/internal/models"
	"marketly/internal/repositories/interfaces"
	"marketly/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type fakeCoupons struct {
	interfaces.CouponRepository
	byCode   map[string]*models.Coupon
	restored map[string]interface{}
	created  *models.Coupon
	// exhausted makes IncrementUsage fail as if another order took the last use.
	exhausted bool
}

func newFakeCoupons(coupons ...*models.Coupon) *fakeCoupons {
	f := &fakeCoupons{byCode: map[string]*models.Coupon{}}
	for _, coupon := range coupons {
		f.byCode[coupon.Code] = coupon
	}
	return f
}

func (f *fakeCoupons) GetByCode(_ context.Context, code string) (*models.Coupon, error) {
	coupon, ok := f.byCode[code]
	if !ok || !coupon.IsActive() {
		return nil, interfaces.ErrNotFound
	}
	return coupon, nil
}

func (f *fakeCoupons) FindAnyByCode(_ context.Context, code string) (*models.Coupon, error) {
	coupon, ok := f.byCode[code]
	if !ok {
		return nil, interfaces.ErrNotFound
	}
	return coupon, nil
}

func (f *fakeCoupons) Create(_ context.Context, coupon *models.Coupon) error {
	coupon.ID = primitive.NewObjectID()
	coupon.Stamp(time.Now())
	f.created = coupon
	f.byCode[coupon.Code] = coupon
	return nil
}

func (f *fakeCoupons) Restore(_ context.Context, id primitive.ObjectID, updates map[string]interface{}) (*models.Coupon, error) {
	f.restored = updates
	for _, coupon := range f.byCode {
		if coupon.ID == id {
			coupon.State = models.StateActive
			coupon.UsedCount = updates["used_count"].(int)
			return coupon, nil
		}
	}
	return nil, interfaces.ErrNotFound
}

func (f *fakeCoupons) IncrementUsage(_ context.Context, id primitive.ObjectID) (*models.Coupon, error) {
	for _, coupon := range f.byCode {
		if coupon.ID != id {
			continue
		}
		if f.exhausted || (coupon.UsageLimit > 0 && coupon.UsedCount >= coupon.UsageLimit) {
			return nil, interfaces.ErrUsageLimitReached
		}
		coupon.UsedCount++
		return coupon, nil
	}
	return nil, interfaces.ErrNotFound
}

func (f *fakeCoupons) ReleaseUsage(_ context.Context, id primitive.ObjectID) error {
	for _, coupon := range f.byCode {
		if coupon.ID == id && coupon.UsedCount > 0 {
			coupon.UsedCount--
		}
	}
	return nil
}

type fakeOrderCounts struct {
	interfaces.OrderRepository
	orders     int64
	withCoupon int64
}

func (f *fakeOrderCounts) CountByUser(context.Context, primitive.ObjectID) (int64, error) {
	return f.orders, nil
}

func (f *fakeOrderCounts) CountByUserAndCoupon(context.Context, primitive.ObjectID, primitive.ObjectID) (int64, error) {
	return f.withCoupon, nil
}

func activeCoupon(code string, discountType models.DiscountType, amount float64) *models.Coupon {
	coupon := &models.Coupon{
		ID:           primitive.NewObjectID(),
		Code:         code,
		DiscountType: discountType,
		Amount:       amount,
		Status:       models.StatusActive,
	}
	coupon.Stamp(time.Now())
	return coupon
}

func cartOf(items ...CouponCartItem) *CouponCart {
	return &CouponCart{Items: items, Shipping: 60}
}

func TestEvaluateCoupon(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)
	brakes := primitive.NewObjectID()
	filters := primitive.NewObjectID()

	item := func(price float64, quantity int, category *primitive.ObjectID) CouponCartItem {
		return CouponCartItem{ProductID: primitive.NewObjectID(), CategoryID: category, Price: price, Quantity: quantity}
	}

	tests := []struct {
		name     string
		coupon   func() *models.Coupon
		cart     *CouponCart
		eligible bool
		reason   string
		discount float64
	}{
		{
			name:     "percentage",
			coupon:   func() *models.Coupon { return activeCoupon("TEN", models.DiscountPercentage, 10) },
			cart:     cartOf(item(250, 2, nil)),
			eligible: true,
			discount: 50,
		},
		{
			name: "percentage capped",
			coupon: func() *models.Coupon {
				c := activeCoupon("TEN", models.DiscountPercentage, 10)
				c.MaxDiscount = 30
				return c
			},
			cart:     cartOf(item(250, 2, nil)),
			eligible: true,
			discount: 30,
		},
		{
			name:     "fixed never exceeds subtotal",
			coupon:   func() *models.Coupon { return activeCoupon("FLAT", models.DiscountFixed, 500) },
			cart:     cartOf(item(120, 1, nil)),
			eligible: true,
			discount: 120,
		},
		{
			name:     "free shipping",
			coupon:   func() *models.Coupon { return activeCoupon("SHIP", models.DiscountFreeShipping, 0) },
			cart:     cartOf(item(120, 1, nil)),
			eligible: true,
			discount: 60,
		},
		{
			name: "scoped to category",
			coupon: func() *models.Coupon {
				c := activeCoupon("BRAKES", models.DiscountPercentage, 20)
				c.Constraints.CategoryIDs = []primitive.ObjectID{brakes}
				return c
			},
			cart:     cartOf(item(100, 1, &brakes), item(400, 1, &filters)),
			eligible: true,
			discount: 20,
		},
		{
			name: "scoped without matching items",
			coupon: func() *models.Coupon {
				c := activeCoupon("BRAKES", models.DiscountPercentage, 20)
				c.Constraints.CategoryIDs = []primitive.ObjectID{brakes}
				return c
			},
			cart:   cartOf(item(400, 1, &filters)),
			reason: ReasonNoEligibleItems,
		},
		{
			name: "inactive",
			coupon: func() *models.Coupon {
				c := activeCoupon("OFF", models.DiscountFixed, 10)
				c.Status = models.StatusInactive
				return c
			},
			cart:   cartOf(item(100, 1, nil)),
			reason: ReasonCouponInactive,
		},
		{
			name: "not started",
			coupon: func() *models.Coupon {
				c := activeCoupon("SOON", models.DiscountFixed, 10)
				c.StartsAt = &future
				return c
			},
			cart:   cartOf(item(100, 1, nil)),
			reason: ReasonCouponNotStarted,
		},
		{
			name: "expired",
			coupon: func() *models.Coupon {
				c := activeCoupon("OLD", models.DiscountFixed, 10)
				c.EndsAt = &past
				return c
			},
			cart:   cartOf(item(100, 1, nil)),
			reason: ReasonCouponExpired,
		},
		{
			name: "exhausted",
			coupon: func() *models.Coupon {
				c := activeCoupon("GONE", models.DiscountFixed, 10)
				c.UsageLimit, c.UsedCount = 5, 5
				return c
			},
			cart:   cartOf(item(100, 1, nil)),
			reason: ReasonCouponExhausted,
		},
		{
			name: "below minimum subtotal",
			coupon: func() *models.Coupon {
				c := activeCoupon("BIG", models.DiscountFixed, 10)
				c.Constraints.MinSubtotal = 1000
				return c
			},
			cart:   cartOf(item(999.99, 1, nil)),
			reason: ReasonMinSubtotal,
		},
		{
			name: "too few items",
			coupon: func() *models.Coupon {
				c := activeCoupon("BULK", models.DiscountFixed, 10)
				c.Constraints.MinItems = 3
				return c
			},
			cart:   cartOf(item(10, 2, nil)),
			reason: ReasonMinItems,
		},
		{
			name:   "empty cart",
			coupon: func() *models.Coupon { return activeCoupon("TEN", models.DiscountPercentage, 10) },
			cart:   &CouponCart{},
			reason: ReasonEmptyCart,
		},
		{
			name: "per user limit needs a customer",
			coupon: func() *models.Coupon {
				c := activeCoupon("ONCE", models.DiscountFixed, 10)
				c.Constraints.PerUserLimit = 1
				return c
			},
			cart:   cartOf(item(100, 1, nil)),
			reason: ReasonCustomerRequired,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			preview := evaluateCoupon(tt.coupon(), tt.cart, couponUsage{}, now)
			assert.Equal(t, tt.eligible, preview.Eligible)
			assert.Equal(t, tt.reason, preview.Reason)
			assert.Equal(t, tt.discount, preview.Discount)
		})
	}
}

func TestEvaluateCoupon_WithoutCartChecksCouponOnly(t *testing.T) {
	coupon := activeCoupon("TEN", models.DiscountPercentage, 10)
	coupon.Constraints.MinSubtotal = 5000

	preview := evaluateCoupon(coupon, nil, couponUsage{}, time.Now())
	assert.True(t, preview.Eligible)
	assert.Zero(t, preview.Discount)
}

func TestCouponService_EvaluateCustomerLimits(t *testing.T) {
	once := activeCoupon("WELCOME", models.DiscountFixed, 100)
	once.Constraints.PerUserLimit = 1
	once.Constraints.FirstOrderOnly = true
	orders := &fakeOrderCounts{}
	service := NewCouponService(newFakeCoupons(once), orders, logger.NewNop())

	userID := primitive.NewObjectID()
	cart := cartOf(CouponCartItem{ProductID: primitive.NewObjectID(), Price: 500, Quantity: 1})
	cart.UserID = &userID

	preview, err := service.Evaluate(context.Background(), " welcome ", cart)
	require.NoError(t, err)
	assert.True(t, preview.Eligible)
	assert.Equal(t, 100.0, preview.Discount)

	orders.orders = 2
	preview, err = service.Evaluate(context.Background(), "WELCOME", cart)
	require.NoError(t, err)
	assert.Equal(t, ReasonFirstOrderOnly, preview.Reason)

	orders.withCoupon = 1
	preview, err = service.Evaluate(context.Background(), "WELCOME", cart)
	require.NoError(t, err)
	assert.Equal(t, ReasonPerUserLimit, preview.Reason)
}

func TestCouponService_EvaluateUnknownCode(t *testing.T) {
	service := NewCouponService(newFakeCoupons(), &fakeOrderCounts{}, logger.NewNop())

	preview, err := service.Evaluate(context.Background(), "nope", nil)
	require.NoError(t, err)
	assert.False(t, preview.Eligible)
	assert.Equal(t, ReasonCouponNotFound, preview.Reason)
	assert.Equal(t, "NOPE", preview.Code)
}

func TestCouponService_CreateRestoresRetiredCode(t *testing.T) {
	retired := activeCoupon("SUMMER", models.DiscountPercentage, 10)
	retired.UsedCount = 42
	retired.State = models.StateRetired
	repo := newFakeCoupons(retired)
	service := NewCouponService(repo, &fakeOrderCounts{}, logger.NewNop())

	coupon, err := service.Create(context.Background(), &CreateCouponRequest{
		Code:         "summer",
		DiscountType: models.DiscountPercentage,
		Amount:       15,
	})
	require.NoError(t, err)
	assert.Equal(t, retired.ID, coupon.ID)
	assert.Zero(t, coupon.UsedCount)
	assert.Equal(t, 15.0, repo.restored["amount"])
	assert.Nil(t, repo.created)

	_, err = service.Create(context.Background(), &CreateCouponRequest{Code: "SUMMER", DiscountType: models.DiscountFixed, Amount: 5})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")
}

func TestCouponService_CreateValidatesAmount(t *testing.T) {
	service := NewCouponService(newFakeCoupons(), &fakeOrderCounts{}, logger.NewNop())

	_, err := service.Create(context.Background(), &CreateCouponRequest{Code: "HUGE", DiscountType: models.DiscountPercentage, Amount: 150})
	require.Error(t, err)

	start := time.Now()
	end := start.Add(-time.Hour)
	_, err = service.Create(context.Background(), &CreateCouponRequest{Code: "BACK", DiscountType: models.DiscountFixed, Amount: 5, StartsAt: &start, EndsAt: &end})
	require.Error(t, err)

	coupon, err := service.Create(context.Background(), &CreateCouponRequest{Code: "fresh10", DiscountType: models.DiscountFixed, Amount: 10})
	require.NoError(t, err)
	assert.Equal(t, "FRESH10", coupon.Code)
	assert.Equal(t, models.StatusActive, coupon.Status)
}
