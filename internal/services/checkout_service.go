package services

import (
	"context"
	"strings"
	"time"

	"marketly/internal/models"
	"marketly/internal/repositories/interfaces"
	"marketly/internal/utils"
	"marketly/pkg/logger"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type CheckoutService interface {
	// Quote prices the caller's cart without reserving anything. An unserviceable
	// destination or an ineligible coupon is reported in the quote.
	Quote(ctx context.Context, userID primitive.ObjectID, request *CheckoutRequest) (*CheckoutQuote, error)
	// PlaceOrder reprices the cart, reserves stock, redeems the coupon and stores the order.
	PlaceOrder(ctx context.Context, userID primitive.ObjectID, request *CheckoutRequest) (*models.Order, error)
}

type AddressInput struct {
	Name    string `json:"name" validate:"required,min=2,max=100"`
	Phone   string `json:"phone" validate:"required,phone_number"`
	Line1   string `json:"line1" validate:"required,min=3,max=200"`
	Line2   string `json:"line2" validate:"max=200"`
	Country string `json:"country" validate:"required,min=2,max=56"`
	State   string `json:"state" validate:"max=56"`
	City    string `json:"city" validate:"required,max=85"`
	Pincode string `json:"pincode" validate:"required,pincode"`
}

func (a AddressInput) toModel() models.Address {
	return models.Address{
		Name:  strings.TrimSpace(a.Name),
		Phone: a.Phone,
		Line1: a.Line1,
		Line2: a.Line2,
		Destination: models.Destination{
			Country: a.Country,
			State:   a.State,
			City:    a.City,
			Pincode: a.Pincode,
		},
	}
}

type CheckoutRequest struct {
	Address       AddressInput         `json:"address"`
	CouponCode    string               `json:"coupon_code" validate:"omitempty,coupon_code"`
	PaymentMethod models.PaymentMethod `json:"payment_method" validate:"required,oneof=prepaid cod"`
}

type CheckoutQuote struct {
	Serviceable bool                  `json:"serviceable"`
	Items       []models.OrderItem    `json:"items"`
	Pricing     models.Pricing        `json:"pricing"`
	Shipping    *models.ShippingQuote `json:"shipping"`
	Coupon      *CouponPreview        `json:"coupon,omitempty"`
	Payouts     []models.VendorPayout `json:"payouts"`
	Currency    string                `json:"currency"`

	couponID *primitive.ObjectID
}

type checkoutService struct {
	cartRepo    interfaces.CartRepository
	productRepo interfaces.ProductRepository
	orderRepo   interfaces.OrderRepository
	coupons     CouponService
	shipping    ShippingService
	tax         TaxService
	inventory   InventoryService
	settings    SettingsService
	tx          Transactor
	logger      *logger.Logger
	now         func() time.Time
}

func NewCheckoutService(
	cartRepo interfaces.CartRepository,
	productRepo interfaces.ProductRepository,
	orderRepo interfaces.OrderRepository,
	coupons CouponService,
	shipping ShippingService,
	tax TaxService,
	inventory InventoryService,
	settings SettingsService,
	tx Transactor,
	logger *logger.Logger,
) CheckoutService {
	return &checkoutService{
		cartRepo:    cartRepo,
		productRepo: productRepo,
		orderRepo:   orderRepo,
		coupons:     coupons,
		shipping:    shipping,
		tax:         tax,
		inventory:   inventory,
		settings:    settings,
		tx:          transactorOrDirect(tx),
		logger:      logger,
		now:         time.Now,
	}
}

func (s *checkoutService) Quote(ctx context.Context, userID primitive.ObjectID, request *CheckoutRequest) (*CheckoutQuote, error) {
	cart, err := loadCart(ctx, s.cartRepo, userID)
	if err != nil {
		return nil, err
	}
	view, err := hydrateCart(ctx, s.productRepo, cart)
	if err != nil {
		return nil, err
	}
	if len(view.Lines) == 0 {
		return nil, utils.NewUnprocessableError("cart is empty")
	}
	for _, line := range view.Lines {
		if !line.InStock {
			return nil, utils.NewUnprocessableError(line.SKU + " is not available in the requested quantity")
		}
	}

	settings, err := s.settings.Get(ctx)
	if err != nil {
		return nil, err
	}

	address := request.Address.toModel()
	shipping, err := s.shipping.Quote(ctx, parcelFor(view, address.Destination, request.PaymentMethod))
	if err != nil {
		return nil, err
	}

	quote := &CheckoutQuote{
		Serviceable: shipping.Serviceable,
		Shipping:    shipping,
		Currency:    settings.Currency,
	}

	var preview *CouponPreview
	if code := strings.TrimSpace(request.CouponCode); code != "" {
		preview, err = s.coupons.Evaluate(ctx, code, couponCartFor(view, shipping.Total, userID))
		if err != nil {
			return nil, err
		}
		quote.Coupon = preview
		if preview.Eligible {
			quote.couponID = preview.CouponID
		}
	}

	items, lineDiscount := allocateDiscount(view.Lines, preview)

	subtotal := decimal.Zero
	taxTotal := decimal.Zero
	for i := range items {
		net := utils.Dec(items[i].LineTotal).Sub(utils.Dec(items[i].Discount))
		result, err := s.tax.Calculate(ctx, items[i].HSNCode, utils.Money(net))
		if err != nil {
			return nil, err
		}
		items[i].TaxRate = result.Rate
		items[i].Tax = result.Tax
		subtotal = subtotal.Add(utils.Dec(items[i].LineTotal))
		taxTotal = taxTotal.Add(utils.Dec(result.Tax))
	}

	shippingAmount := utils.Dec(shipping.Total)
	discount := lineDiscount
	if preview != nil && preview.Eligible && preview.DiscountType == models.DiscountFreeShipping {
		discount = utils.MinDecimal(utils.Dec(preview.Discount), shippingAmount)
	}

	payouts, commission := splitPayouts(items, settings.PlatformCommissionRate)

	total := subtotal.Sub(discount).Add(shippingAmount).Add(taxTotal)
	quote.Items = items
	quote.Payouts = payouts
	quote.Pricing = models.Pricing{
		Subtotal:   utils.Money(subtotal),
		Discount:   utils.Money(discount),
		Shipping:   utils.Money(shippingAmount),
		Tax:        utils.Money(taxTotal),
		Total:      utils.Money(utils.MaxDecimal(total, decimal.Zero)),
		Commission: utils.Money(commission),
	}

	return quote, nil
}

func parcelFor(view *models.CartView, destination models.Destination, method models.PaymentMethod) ShippingInput {
	input := ShippingInput{
		Destination:   destination,
		Subtotal:      view.Subtotal,
		PaymentMethod: method,
	}
	for _, line := range view.Lines {
		input.WeightKg += line.WeightKg
		input.VolumeCm3 += line.VolumeCm3
	}
	return input
}

func couponCartFor(view *models.CartView, shipping float64, userID primitive.ObjectID) *CouponCart {
	cart := &CouponCart{
		Items:    make([]CouponCartItem, 0, len(view.Lines)),
		Shipping: shipping,
		UserID:   &userID,
	}
	for _, line := range view.Lines {
		cart.Items = append(cart.Items, CouponCartItem{
			ProductID:  line.ProductID,
			CategoryID: line.CategoryID,
			BrandID:    line.BrandID,
			Price:      line.UnitPrice,
			Quantity:   line.Quantity,
		})
	}
	return cart
}

// allocateDiscount spreads an eligible line discount over the lines it applies to in
// proportion to their totals. The last eligible line absorbs the rounding remainder.
func allocateDiscount(lines []models.CartLine, preview *CouponPreview) ([]models.OrderItem, decimal.Decimal) {
	items := make([]models.OrderItem, 0, len(lines))
	for _, line := range lines {
		items = append(items, models.OrderItem{
			ProductID: line.ProductID,
			VendorID:  line.VendorID,
			Name:      line.Name,
			SKU:       line.SKU,
			HSNCode:   line.HSNCode,
			UnitPrice: line.UnitPrice,
			Quantity:  line.Quantity,
			LineTotal: line.LineTotal,
		})
	}

	if preview == nil || !preview.Eligible || preview.coupon == nil ||
		preview.DiscountType == models.DiscountFreeShipping || preview.Discount <= 0 {
		return items, decimal.Zero
	}

	eligible := make([]int, 0, len(lines))
	base := decimal.Zero
	for i, line := range lines {
		item := CouponCartItem{ProductID: line.ProductID, CategoryID: line.CategoryID, BrandID: line.BrandID}
		if couponApplies(preview.coupon.Constraints, item) {
			eligible = append(eligible, i)
			base = base.Add(utils.Dec(line.LineTotal))
		}
	}
	if len(eligible) == 0 || !base.IsPositive() {
		return items, decimal.Zero
	}

	discount := utils.MinDecimal(utils.Dec(preview.Discount), base)
	remaining := discount
	for n, i := range eligible {
		share := remaining
		if n < len(eligible)-1 {
			share = discount.Mul(utils.Dec(items[i].LineTotal)).Div(base).Round(2)
			if share.GreaterThan(remaining) {
				share = remaining
			}
		}
		items[i].Discount = utils.Money(share)
		remaining = remaining.Sub(share)
	}

	return items, discount
}

// splitPayouts groups line revenue net of discount by vendor and takes the platform
// commission from each group. Lines without a vendor are grouped under a nil vendor.
func splitPayouts(items []models.OrderItem, rate float64) ([]models.VendorPayout, decimal.Decimal) {
	order := make([]string, 0)
	gross := map[string]decimal.Decimal{}
	vendors := map[string]*primitive.ObjectID{}
	for _, item := range items {
		key := ""
		if item.VendorID != nil {
			key = item.VendorID.Hex()
		}
		if _, seen := gross[key]; !seen {
			order = append(order, key)
			gross[key] = decimal.Zero
			vendors[key] = item.VendorID
		}
		gross[key] = gross[key].Add(utils.Dec(item.LineTotal).Sub(utils.Dec(item.Discount)))
	}

	payouts := make([]models.VendorPayout, 0, len(order))
	total := decimal.Zero
	for _, key := range order {
		commission := gross[key].Mul(utils.Dec(rate)).Round(2)
		total = total.Add(commission)
		payouts = append(payouts, models.VendorPayout{
			VendorID:   vendors[key],
			Gross:      utils.Money(gross[key]),
			Commission: utils.Money(commission),
			Net:        utils.Money(gross[key].Sub(commission)),
		})
	}
	return payouts, total
}

func (s *checkoutService) orderNumber(now time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
	return "MK-" + now.UTC().Format("20060102") + "-" + suffix
}

func (s *checkoutService) PlaceOrder(ctx context.Context, userID primitive.ObjectID, request *CheckoutRequest) (*models.Order, error) {
	var order *models.Order

	err := s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		quote, err := s.Quote(ctx, userID, request)
		if err != nil {
			return err
		}
		if !quote.Serviceable {
			return utils.NewUnprocessableError("destination is not serviceable")
		}
		if quote.Coupon != nil && !quote.Coupon.Eligible {
			return utils.NewUnprocessableError("coupon is not applicable: " + quote.Coupon.Reason)
		}

		now := s.now()
		orderID := primitive.NewObjectID()

		couponCode := ""
		if quote.couponID != nil {
			coupon, err := s.coupons.Redeem(ctx, *quote.couponID)
			if err != nil {
				return err
			}
			couponCode = coupon.Code
		}

		var reserved []models.OrderItem
		placed := false
		defer func() {
			if !placed {
				s.releaseReservation(ctx, orderID, quote.couponID, reserved)
			}
		}()

		for _, item := range quote.Items {
			if _, err := s.inventory.Adjust(ctx, StockAdjustment{
				ProductID: item.ProductID,
				Delta:     -item.Quantity,
				Reason:    models.MovementOrder,
				ActorID:   &userID,
				OrderID:   &orderID,
			}); err != nil {
				return err
			}
			reserved = append(reserved, item)
		}

		order = &models.Order{
			ID:            orderID,
			Number:        s.orderNumber(now),
			UserID:        userID,
			Items:         quote.Items,
			Address:       request.Address.toModel(),
			Pricing:       quote.Pricing,
			CouponID:      quote.couponID,
			CouponCode:    couponCode,
			Payouts:       quote.Payouts,
			PaymentMethod: request.PaymentMethod,
			Status:        models.OrderPending,
			StatusHistory: []models.StatusChange{{
				Status:    models.OrderPending,
				ChangedBy: &userID,
				ChangedAt: now,
			}},
		}
		if err := s.orderRepo.Create(ctx, order); err != nil {
			return repoError(err, "order")
		}
		placed = true

		if err := s.cartRepo.Clear(ctx, userID); err != nil {
			s.logger.WithError(err).WithField("order_id", orderID.Hex()).Warn("Failed to clear cart after order")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.WithFields(map[string]interface{}{
		"order_id": order.ID.Hex(),
		"number":   order.Number,
		"user_id":  userID.Hex(),
		"total":    order.Pricing.Total,
	}).Info("Order placed")
	return order, nil
}

// releaseReservation puts back the stock and coupon use taken by an order that was not
// stored. Inside a transaction the writes roll back with it.
func (s *checkoutService) releaseReservation(ctx context.Context, orderID primitive.ObjectID, couponID *primitive.ObjectID, items []models.OrderItem) {
	for _, item := range items {
		if _, err := s.inventory.Adjust(ctx, StockAdjustment{
			ProductID: item.ProductID,
			Delta:     item.Quantity,
			Reason:    models.MovementReturn,
			Note:      "order " + orderID.Hex() + " not placed",
			OrderID:   &orderID,
		}); err != nil {
			s.logger.WithError(err).WithField("product_id", item.ProductID.Hex()).Error("Failed to release reserved stock")
		}
	}
	if couponID != nil {
		if err := s.coupons.Release(ctx, *couponID); err != nil {
			s.logger.WithError(err).WithField("coupon_id", couponID.Hex()).Error("Failed to release coupon use")
		}
	}
}
