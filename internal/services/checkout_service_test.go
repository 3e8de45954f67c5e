package services

import (
	"context"
	"testing"

	"marketly/internal/models"
	"marketly/internal/repositories/interfaces"
	"marketly/internal/utils"
	"marketly/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type memCarts struct {
	interfaces.CartRepository
	carts map[primitive.ObjectID]*models.Cart
}

func (m *memCarts) GetByUser(_ context.Context, userID primitive.ObjectID) (*models.Cart, error) {
	if cart, ok := m.carts[userID]; ok {
		return cart, nil
	}
	return nil, interfaces.ErrNotFound
}

func (m *memCarts) Clear(_ context.Context, userID primitive.ObjectID) error {
	delete(m.carts, userID)
	return nil
}

type memOrders struct {
	interfaces.OrderRepository
	items map[primitive.ObjectID]*models.Order
}

func (m *memOrders) Create(_ context.Context, order *models.Order) error {
	m.items[order.ID] = order
	return nil
}

func (m *memOrders) GetByID(_ context.Context, id primitive.ObjectID) (*models.Order, error) {
	if order, ok := m.items[id]; ok {
		return order, nil
	}
	return nil, interfaces.ErrNotFound
}

func (m *memOrders) UpdateStatus(_ context.Context, id primitive.ObjectID, from models.OrderStatus, change models.StatusChange) (*models.Order, error) {
	order, ok := m.items[id]
	if !ok {
		return nil, interfaces.ErrNotFound
	}
	if order.Status != from {
		return nil, interfaces.ErrStaleStatus
	}
	order.Status = change.Status
	order.StatusHistory = append(order.StatusHistory, change)
	return order, nil
}

func (m *memOrders) CountByUser(_ context.Context, userID primitive.ObjectID) (int64, error) {
	var count int64
	for _, order := range m.items {
		if order.UserID == userID && order.Status != models.OrderCancelled {
			count++
		}
	}
	return count, nil
}

func (m *memOrders) CountByUserAndCoupon(_ context.Context, userID, couponID primitive.ObjectID) (int64, error) {
	var count int64
	for _, order := range m.items {
		if order.UserID == userID && order.CouponID != nil && *order.CouponID == couponID && order.Status != models.OrderCancelled {
			count++
		}
	}
	return count, nil
}

type checkoutFixture struct {
	service   CheckoutService
	direct    CheckoutService
	orders    OrderService
	carts     *memCarts
	products  *memProducts
	orderRepo *memOrders
	coupons   *fakeCoupons
	movements *memMovements
	jobs      *recordingQueue
	userID    primitive.ObjectID
	caliper   *models.Product
	gasket    *models.Product
	vendorID  primitive.ObjectID
	tx        *recordingTx
}

func newCheckoutFixture() *checkoutFixture {
	f := &checkoutFixture{userID: primitive.NewObjectID(), vendorID: primitive.NewObjectID(), tx: &recordingTx{}}
	f.caliper = &models.Product{Name: "Brake caliper", SKU: "CAL-1", Price: 500, Stock: 5, HSNCode: "87089900", WeightKg: 1, VendorID: &f.vendorID}
	f.gasket = &models.Product{Name: "Gasket", SKU: "GSK-1", Price: 250, Stock: 1}
	f.products = newMemProducts(f.caliper, f.gasket)
	f.carts = &memCarts{carts: map[primitive.ObjectID]*models.Cart{
		f.userID: {UserID: f.userID, Items: []models.CartItem{
			{ProductID: f.caliper.ID, Quantity: 2},
			{ProductID: f.gasket.ID, Quantity: 1},
		}},
	}}
	f.orderRepo = &memOrders{items: map[primitive.ObjectID]*models.Order{}}
	f.coupons = newFakeCoupons(activeCoupon("TEN", models.DiscountPercentage, 10))
	f.movements = &memMovements{}
	f.jobs = &recordingQueue{}

	log := logger.NewNop()
	settings := &fakeSettings{settings: &models.Settings{Currency: "INR", PlatformCommissionRate: 0.1}}
	shipping := NewShippingService(&fakeShippingRules{rules: []*models.ShippingRule{
		{ID: primitive.NewObjectID(), Name: "domestic", Country: "IN", BaseRate: 50},
	}}, settings, log)
	tax := NewTaxService(&fakeTaxSlabs{slabs: []*models.TaxSlab{
		{ID: primitive.NewObjectID(), HSNCode: "87089900", Rate: 0.18, Status: models.StatusActive},
	}}, log)
	inventory := NewInventoryService(f.products, f.movements, f.jobs, 5, log)
	coupons := NewCouponService(f.coupons, f.orderRepo, log)

	f.service = NewCheckoutService(f.carts, f.products, f.orderRepo, coupons, shipping, tax, inventory, settings, f.tx, log)
	f.direct = NewCheckoutService(f.carts, f.products, f.orderRepo, coupons, shipping, tax, inventory, settings, nil, log)
	f.orders = NewOrderService(f.orderRepo, inventory, f.tx, log)
	return f
}

func checkoutRequest(country, coupon string) *CheckoutRequest {
	return &CheckoutRequest{
		Address: AddressInput{
			Name:    "Asha Rao",
			Phone:   "+919876543210",
			Line1:   "12 MG Road",
			Country: country,
			City:    "Bengaluru",
			Pincode: "560001",
		},
		CouponCode:    coupon,
		PaymentMethod: models.PaymentMethodPrepaid,
	}
}

func TestAllocateDiscount(t *testing.T) {
	brakes := primitive.NewObjectID()
	lines := []models.CartLine{
		{ProductID: primitive.NewObjectID(), CategoryID: &brakes, LineTotal: 100},
		{ProductID: primitive.NewObjectID(), CategoryID: &brakes, LineTotal: 200},
		{ProductID: primitive.NewObjectID(), CategoryID: &brakes, LineTotal: 300},
	}

	preview := &CouponPreview{Eligible: true, DiscountType: models.DiscountFixed, Discount: 100, coupon: &models.Coupon{}}
	items, discount := allocateDiscount(lines, preview)
	assert.True(t, discount.Equal(utils.Dec(100)))
	assert.Equal(t, 16.67, items[0].Discount)
	assert.Equal(t, 33.33, items[1].Discount)
	assert.Equal(t, 50.0, items[2].Discount)

	scoped := &models.Coupon{Constraints: models.CouponConstraints{ProductIDs: []primitive.ObjectID{lines[2].ProductID}}}
	preview = &CouponPreview{Eligible: true, DiscountType: models.DiscountPercentage, Discount: 30, coupon: scoped}
	items, discount = allocateDiscount(lines, preview)
	assert.True(t, discount.Equal(utils.Dec(30)))
	assert.Zero(t, items[0].Discount)
	assert.Zero(t, items[1].Discount)
	assert.Equal(t, 30.0, items[2].Discount)

	preview = &CouponPreview{Eligible: true, DiscountType: models.DiscountFreeShipping, Discount: 60, coupon: &models.Coupon{}}
	_, discount = allocateDiscount(lines, preview)
	assert.True(t, discount.IsZero())
}

func TestSplitPayouts(t *testing.T) {
	vendor := primitive.NewObjectID()
	items := []models.OrderItem{
		{VendorID: &vendor, LineTotal: 1000},
		{LineTotal: 200},
		{VendorID: &vendor, LineTotal: 500, Discount: 100},
	}

	payouts, commission := splitPayouts(items, 0.1)
	require.Len(t, payouts, 2)
	assert.Equal(t, &vendor, payouts[0].VendorID)
	assert.Equal(t, 1400.0, payouts[0].Gross)
	assert.Equal(t, 140.0, payouts[0].Commission)
	assert.Equal(t, 1260.0, payouts[0].Net)
	assert.Nil(t, payouts[1].VendorID)
	assert.Equal(t, 20.0, payouts[1].Commission)
	assert.True(t, commission.Equal(utils.Dec(160)))
}

func TestCheckoutService_Quote(t *testing.T) {
	f := newCheckoutFixture()

	quote, err := f.service.Quote(context.Background(), f.userID, checkoutRequest("IN", "ten"))
	require.NoError(t, err)
	require.True(t, quote.Serviceable)
	require.NotNil(t, quote.Coupon)
	assert.True(t, quote.Coupon.Eligible)

	assert.Equal(t, models.Pricing{
		Subtotal:   1250,
		Discount:   125,
		Shipping:   50,
		Tax:        162,
		Total:      1337,
		Commission: 112.5,
	}, quote.Pricing)
	assert.Equal(t, 100.0, quote.Items[0].Discount)
	assert.Equal(t, 25.0, quote.Items[1].Discount)
	assert.Equal(t, "INR", quote.Currency)

	// quoting reserves nothing
	assert.Equal(t, 5, f.products.items[f.caliper.ID].Stock)
	assert.Zero(t, f.coupons.byCode["TEN"].UsedCount)
}

func TestCheckoutService_QuoteUnserviceable(t *testing.T) {
	f := newCheckoutFixture()

	quote, err := f.service.Quote(context.Background(), f.userID, checkoutRequest("US", ""))
	require.NoError(t, err)
	assert.False(t, quote.Serviceable)

	_, err = f.service.PlaceOrder(context.Background(), f.userID, checkoutRequest("US", ""))
	assert.Equal(t, utils.CodeUnprocessable, utils.AsAppError(err).Code)
	assert.Empty(t, f.orderRepo.items)
}

func TestCheckoutService_PlaceOrder(t *testing.T) {
	f := newCheckoutFixture()

	order, err := f.service.PlaceOrder(context.Background(), f.userID, checkoutRequest("IN", "TEN"))
	require.NoError(t, err)
	assert.Equal(t, 1, f.tx.calls)
	assert.Equal(t, models.OrderPending, order.Status)
	assert.Regexp(t, `^MK-\d{8}-[0-9A-F]{8}$`, order.Number)
	assert.Equal(t, "TEN", order.CouponCode)
	assert.Equal(t, 1337.0, order.Pricing.Total)
	require.Len(t, order.StatusHistory, 1)

	assert.Equal(t, 3, f.products.items[f.caliper.ID].Stock)
	assert.Zero(t, f.products.items[f.gasket.ID].Stock)
	assert.Len(t, f.movements.items, 2)
	for _, movement := range f.movements.items {
		assert.Equal(t, models.MovementOrder, movement.Reason)
		assert.Equal(t, order.ID, *movement.OrderID)
	}
	assert.Len(t, f.jobs.jobs, 2)
	assert.Equal(t, 1, f.coupons.byCode["TEN"].UsedCount)
	assert.NotContains(t, f.carts.carts, f.userID)
	assert.Contains(t, f.orderRepo.items, order.ID)
}

func TestCheckoutService_PlaceOrderRejectsShortStock(t *testing.T) {
	f := newCheckoutFixture()
	f.carts.carts[f.userID].Items[0].Quantity = 6

	_, err := f.service.PlaceOrder(context.Background(), f.userID, checkoutRequest("IN", ""))
	appErr := utils.AsAppError(err)
	assert.Equal(t, utils.CodeUnprocessable, appErr.Code)
	assert.Contains(t, appErr.Message, "CAL-1")
	assert.Empty(t, f.orderRepo.items)
	assert.Equal(t, 5, f.products.items[f.caliper.ID].Stock)
}

func TestCheckoutService_PlaceOrderRejectsIneligibleCoupon(t *testing.T) {
	f := newCheckoutFixture()

	_, err := f.service.PlaceOrder(context.Background(), f.userID, checkoutRequest("IN", "MISSING"))
	appErr := utils.AsAppError(err)
	assert.Equal(t, utils.CodeUnprocessable, appErr.Code)
	assert.Contains(t, appErr.Message, ReasonCouponNotFound)
}

func TestCheckoutService_PlaceOrderWithoutTransactionKeepsStockWhenCouponRunsOut(t *testing.T) {
	f := newCheckoutFixture()
	f.coupons.exhausted = true

	_, err := f.direct.PlaceOrder(context.Background(), f.userID, checkoutRequest("IN", "TEN"))
	appErr := utils.AsAppError(err)
	assert.Equal(t, utils.CodeUnprocessable, appErr.Code)
	assert.Equal(t, "coupon usage limit reached", appErr.Message)
	assert.Empty(t, f.orderRepo.items)
	assert.Empty(t, f.movements.items)
	assert.Equal(t, 5, f.products.items[f.caliper.ID].Stock)
	assert.Equal(t, 1, f.products.items[f.gasket.ID].Stock)
	assert.Contains(t, f.carts.carts, f.userID)
}

func TestCheckoutService_PlaceOrderWithoutTransactionReleasesReservedLines(t *testing.T) {
	f := newCheckoutFixture()
	f.products.failStock = f.gasket.ID

	_, err := f.direct.PlaceOrder(context.Background(), f.userID, checkoutRequest("IN", "TEN"))
	assert.Equal(t, utils.CodeUnprocessable, utils.AsAppError(err).Code)
	assert.Empty(t, f.orderRepo.items)
	assert.Equal(t, 5, f.products.items[f.caliper.ID].Stock)
	assert.Equal(t, 1, f.products.items[f.gasket.ID].Stock)
	assert.Zero(t, f.coupons.byCode["TEN"].UsedCount)

	require.Len(t, f.movements.items, 2)
	assert.Equal(t, models.MovementOrder, f.movements.items[0].Reason)
	assert.Equal(t, -2, f.movements.items[0].Delta)
	assert.Equal(t, models.MovementReturn, f.movements.items[1].Reason)
	assert.Equal(t, 2, f.movements.items[1].Delta)
}

func TestCheckoutService_EmptyCart(t *testing.T) {
	f := newCheckoutFixture()

	_, err := f.service.Quote(context.Background(), primitive.NewObjectID(), checkoutRequest("IN", ""))
	assert.Equal(t, utils.CodeUnprocessable, utils.AsAppError(err).Code)
}

func TestOrderService_UpdateStatus(t *testing.T) {
	f := newCheckoutFixture()
	order, err := f.service.PlaceOrder(context.Background(), f.userID, checkoutRequest("IN", ""))
	require.NoError(t, err)
	admin := &Actor{UserID: primitive.NewObjectID(), Role: utils.RoleAdmin}

	_, err = f.orders.UpdateStatus(context.Background(), order.ID, &UpdateOrderStatusRequest{Status: models.OrderShipped}, admin)
	assert.Equal(t, utils.CodeUnprocessable, utils.AsAppError(err).Code)

	updated, err := f.orders.UpdateStatus(context.Background(), order.ID, &UpdateOrderStatusRequest{Status: models.OrderConfirmed}, admin)
	require.NoError(t, err)
	assert.Equal(t, models.OrderConfirmed, updated.Status)
	assert.Equal(t, &admin.UserID, updated.StatusHistory[1].ChangedBy)

	_, err = f.orders.UpdateStatus(context.Background(), order.ID, &UpdateOrderStatusRequest{Status: models.OrderCancelled, Note: "customer request"}, admin)
	require.NoError(t, err)
	assert.Equal(t, 5, f.products.items[f.caliper.ID].Stock)
	assert.Equal(t, 1, f.products.items[f.gasket.ID].Stock)

	_, err = f.orders.UpdateStatus(context.Background(), order.ID, &UpdateOrderStatusRequest{Status: models.OrderConfirmed}, admin)
	assert.Error(t, err)
}

func TestOrderService_GetMineHidesOtherCustomers(t *testing.T) {
	f := newCheckoutFixture()
	order, err := f.service.PlaceOrder(context.Background(), f.userID, checkoutRequest("IN", ""))
	require.NoError(t, err)

	mine, err := f.orders.GetMine(context.Background(), f.userID, order.ID)
	require.NoError(t, err)
	assert.Equal(t, order.ID, mine.ID)

	_, err = f.orders.GetMine(context.Background(), primitive.NewObjectID(), order.ID)
	assert.Equal(t, utils.CodeNotFound, utils.AsAppError(err).Code)
}
