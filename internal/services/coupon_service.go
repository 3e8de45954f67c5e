package services

import (
	"context"
	"strings"
	"time"

	"marketly/internal/models"
	"marketly/internal/repositories/interfaces"
	"marketly/internal/utils"
	"marketly/pkg/logger"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Ineligibility reasons reported by coupon previews.
const (
	ReasonCouponNotFound   = "coupon not found"
	ReasonCouponInactive   = "coupon is inactive"
	ReasonCouponNotStarted = "coupon is not active yet"
	ReasonCouponExpired    = "coupon has expired"
	ReasonCouponExhausted  = "coupon usage limit reached"
	ReasonMinItems         = "cart does not have enough items"
	ReasonMinSubtotal      = "cart subtotal is below the minimum"
	ReasonNoEligibleItems  = "no items in the cart are eligible"
	ReasonPerUserLimit     = "coupon already used the maximum number of times"
	ReasonFirstOrderOnly   = "coupon is only valid on a first order"
	ReasonCustomerRequired = "coupon requires a signed-in customer"
	ReasonEmptyCart        = "cart is empty"
)

type CouponService interface {
	Create(ctx context.Context, request *CreateCouponRequest) (*models.Coupon, error)
	Get(ctx context.Context, id primitive.ObjectID) (*models.Coupon, error)
	Update(ctx context.Context, id primitive.ObjectID, request *UpdateCouponRequest) (*models.Coupon, error)
	Remove(ctx context.Context, id primitive.ObjectID) error
	List(ctx context.Context, status models.Status, params *utils.PaginationParams) ([]*models.Coupon, int64, error)

	// Preview evaluates a code against an optional cart without consuming a use. Customer
	// limits are checked for customerID only, which is nil for anonymous callers.
	Preview(ctx context.Context, customerID *primitive.ObjectID, request *CouponPreviewRequest) (*CouponPreview, error)
	// Evaluate is Preview for an already assembled cart.
	Evaluate(ctx context.Context, code string, cart *CouponCart) (*CouponPreview, error)
	// Redeem consumes one use atomically.
	Redeem(ctx context.Context, couponID primitive.ObjectID) (*models.Coupon, error)
	// Release returns a use taken by Redeem.
	Release(ctx context.Context, couponID primitive.ObjectID) error
}

type CouponConstraintsInput struct {
	MinSubtotal    float64  `json:"min_subtotal" validate:"min=0"`
	MinItems       int      `json:"min_items" validate:"min=0"`
	ProductIDs     []string `json:"product_ids" validate:"omitempty,dive,object_id"`
	CategoryIDs    []string `json:"category_ids" validate:"omitempty,dive,object_id"`
	BrandIDs       []string `json:"brand_ids" validate:"omitempty,dive,object_id"`
	PerUserLimit   int      `json:"per_user_limit" validate:"min=0"`
	FirstOrderOnly bool     `json:"first_order_only"`
}

func (c *CouponConstraintsInput) toModel() models.CouponConstraints {
	if c == nil {
		return models.CouponConstraints{}
	}
	return models.CouponConstraints{
		MinSubtotal:    c.MinSubtotal,
		MinItems:       c.MinItems,
		ProductIDs:     objectIDs(c.ProductIDs),
		CategoryIDs:    objectIDs(c.CategoryIDs),
		BrandIDs:       objectIDs(c.BrandIDs),
		PerUserLimit:   c.PerUserLimit,
		FirstOrderOnly: c.FirstOrderOnly,
	}
}

type CreateCouponRequest struct {
	Code         string                  `json:"code" validate:"required,coupon_code"`
	Description  string                  `json:"description" validate:"max=500"`
	DiscountType models.DiscountType     `json:"discount_type" validate:"required,oneof=percentage fixed free_shipping"`
	Amount       float64                 `json:"amount" validate:"min=0"`
	MaxDiscount  float64                 `json:"max_discount" validate:"min=0"`
	StartsAt     *time.Time              `json:"starts_at"`
	EndsAt       *time.Time              `json:"ends_at"`
	UsageLimit   int                     `json:"usage_limit" validate:"min=0"`
	Constraints  *CouponConstraintsInput `json:"constraints"`
	Status       models.Status           `json:"status" validate:"omitempty,oneof=active inactive"`
}

type UpdateCouponRequest struct {
	Description  *string                 `json:"description" validate:"omitempty,max=500"`
	DiscountType *models.DiscountType    `json:"discount_type" validate:"omitempty,oneof=percentage fixed free_shipping"`
	Amount       *float64                `json:"amount" validate:"omitempty,min=0"`
	MaxDiscount  *float64                `json:"max_discount" validate:"omitempty,min=0"`
	StartsAt     *time.Time              `json:"starts_at"`
	EndsAt       *time.Time              `json:"ends_at"`
	UsageLimit   *int                    `json:"usage_limit" validate:"omitempty,min=0"`
	Constraints  *CouponConstraintsInput `json:"constraints"`
	Status       *models.Status          `json:"status" validate:"omitempty,oneof=active inactive"`
}

type CouponPreviewItem struct {
	ProductID  string  `json:"product_id" validate:"required,object_id"`
	CategoryID string  `json:"category_id" validate:"omitempty,object_id"`
	BrandID    string  `json:"brand_id" validate:"omitempty,object_id"`
	Price      float64 `json:"price" validate:"min=0"`
	Quantity   int     `json:"quantity" validate:"required,min=1"`
}

type CouponPreviewCart struct {
	Items    []CouponPreviewItem `json:"items" validate:"omitempty,dive"`
	Shipping float64             `json:"shipping" validate:"min=0"`
}

type CouponPreviewRequest struct {
	Code string             `json:"code" validate:"required,max=32"`
	Cart *CouponPreviewCart `json:"cart"`
}

// CouponCart is the cart shape coupons are evaluated against.
type CouponCart struct {
	Items    []CouponCartItem
	Shipping float64
	UserID   *primitive.ObjectID
}

type CouponCartItem struct {
	ProductID  primitive.ObjectID
	CategoryID *primitive.ObjectID
	BrandID    *primitive.ObjectID
	Price      float64
	Quantity   int
}

func (i CouponCartItem) total() decimal.Decimal {
	return utils.Dec(i.Price).Mul(decimal.NewFromInt(int64(i.Quantity)))
}

type CouponPreview struct {
	Eligible         bool                `json:"eligible"`
	Reason           string              `json:"reason,omitempty"`
	Code             string              `json:"code"`
	CouponID         *primitive.ObjectID `json:"coupon_id,omitempty"`
	DiscountType     models.DiscountType `json:"discount_type,omitempty"`
	Discount         float64             `json:"discount"`
	EligibleSubtotal float64             `json:"eligible_subtotal"`

	coupon *models.Coupon
}

// couponUsage carries the per-customer counts the constraints need.
type couponUsage struct {
	known      bool
	byCustomer int64
	orders     int64
}

type couponService struct {
	couponRepo interfaces.CouponRepository
	orderRepo  interfaces.OrderRepository
	logger     *logger.Logger
	now        func() time.Time
}

func NewCouponService(couponRepo interfaces.CouponRepository, orderRepo interfaces.OrderRepository, logger *logger.Logger) CouponService {
	return &couponService{
		couponRepo: couponRepo,
		orderRepo:  orderRepo,
		logger:     logger,
		now:        time.Now,
	}
}

func normalizeCouponCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

func checkCouponWindow(startsAt, endsAt *time.Time) error {
	if startsAt != nil && endsAt != nil && endsAt.Before(*startsAt) {
		return utils.NewValidationError(utils.ErrValidationFailed, map[string]string{"ends_at": "ends_at must be after starts_at"})
	}
	return nil
}

func checkCouponAmount(discountType models.DiscountType, amount float64) error {
	switch discountType {
	case models.DiscountPercentage:
		if amount <= 0 || amount > 100 {
			return utils.NewValidationError(utils.ErrValidationFailed, map[string]string{"amount": "percentage must be between 0 and 100"})
		}
	case models.DiscountFixed:
		if amount <= 0 {
			return utils.NewValidationError(utils.ErrValidationFailed, map[string]string{"amount": "amount must be greater than 0"})
		}
	}
	return nil
}

func (s *couponService) Create(ctx context.Context, request *CreateCouponRequest) (*models.Coupon, error) {
	if err := checkCouponWindow(request.StartsAt, request.EndsAt); err != nil {
		return nil, err
	}
	if err := checkCouponAmount(request.DiscountType, request.Amount); err != nil {
		return nil, err
	}

	coupon := &models.Coupon{
		Code:         normalizeCouponCode(request.Code),
		Description:  request.Description,
		DiscountType: request.DiscountType,
		Amount:       request.Amount,
		MaxDiscount:  request.MaxDiscount,
		StartsAt:     request.StartsAt,
		EndsAt:       request.EndsAt,
		UsageLimit:   request.UsageLimit,
		Constraints:  request.Constraints.toModel(),
		Status:       statusOrActive(request.Status),
	}

	existing, err := s.couponRepo.FindAnyByCode(ctx, coupon.Code)
	if err != nil && !isNotFound(err) {
		return nil, repoError(err, "coupon")
	}
	if existing != nil {
		if existing.IsActive() {
			return nil, utils.NewConflictError("coupon with this code already exists")
		}

		// a restored coupon starts a fresh usage count
		restored, err := s.couponRepo.Restore(ctx, existing.ID, map[string]interface{}{
			"description":   coupon.Description,
			"discount_type": coupon.DiscountType,
			"amount":        coupon.Amount,
			"max_discount":  coupon.MaxDiscount,
			"starts_at":     coupon.StartsAt,
			"ends_at":       coupon.EndsAt,
			"usage_limit":   coupon.UsageLimit,
			"used_count":    0,
			"constraints":   coupon.Constraints,
			"status":        coupon.Status,
		})
		if err != nil {
			return nil, repoError(err, "coupon")
		}
		s.logger.WithField("coupon_code", restored.Code).Info("Coupon restored")
		return restored, nil
	}

	if err := s.couponRepo.Create(ctx, coupon); err != nil {
		return nil, repoError(err, "coupon")
	}

	s.logger.WithField("coupon_code", coupon.Code).Info("Coupon created")
	return coupon, nil
}

func (s *couponService) Get(ctx context.Context, id primitive.ObjectID) (*models.Coupon, error) {
	coupon, err := s.couponRepo.GetByID(ctx, id)
	if err != nil {
		return nil, repoError(err, "coupon")
	}
	return coupon, nil
}

func (s *couponService) Update(ctx context.Context, id primitive.ObjectID, request *UpdateCouponRequest) (*models.Coupon, error) {
	current, err := s.couponRepo.GetByID(ctx, id)
	if err != nil {
		return nil, repoError(err, "coupon")
	}

	updates := map[string]interface{}{}
	setIf(updates, "description", request.Description)
	setIf(updates, "discount_type", request.DiscountType)
	setIf(updates, "amount", request.Amount)
	setIf(updates, "max_discount", request.MaxDiscount)
	setIf(updates, "usage_limit", request.UsageLimit)
	setIf(updates, "status", request.Status)
	if request.StartsAt != nil {
		updates["starts_at"] = request.StartsAt
	}
	if request.EndsAt != nil {
		updates["ends_at"] = request.EndsAt
	}
	if request.Constraints != nil {
		updates["constraints"] = request.Constraints.toModel()
	}
	if len(updates) == 0 {
		return nil, errNothingToUpdate()
	}

	startsAt, endsAt := current.StartsAt, current.EndsAt
	if request.StartsAt != nil {
		startsAt = request.StartsAt
	}
	if request.EndsAt != nil {
		endsAt = request.EndsAt
	}
	if err := checkCouponWindow(startsAt, endsAt); err != nil {
		return nil, err
	}

	discountType, amount := current.DiscountType, current.Amount
	if request.DiscountType != nil {
		discountType = *request.DiscountType
	}
	if request.Amount != nil {
		amount = *request.Amount
	}
	if err := checkCouponAmount(discountType, amount); err != nil {
		return nil, err
	}

	coupon, err := s.couponRepo.Update(ctx, id, updates)
	if err != nil {
		return nil, repoError(err, "coupon")
	}
	return coupon, nil
}

func (s *couponService) Remove(ctx context.Context, id primitive.ObjectID) error {
	return repoError(s.couponRepo.Retire(ctx, id), "coupon")
}

func (s *couponService) List(ctx context.Context, status models.Status, params *utils.PaginationParams) ([]*models.Coupon, int64, error) {
	coupons, total, err := s.couponRepo.List(ctx, status, params)
	if err != nil {
		return nil, 0, repoError(err, "coupon")
	}
	return coupons, total, nil
}

func (s *couponService) Preview(ctx context.Context, customerID *primitive.ObjectID, request *CouponPreviewRequest) (*CouponPreview, error) {
	var cart *CouponCart
	if request.Cart != nil {
		cart = &CouponCart{
			Shipping: request.Cart.Shipping,
			UserID:   customerID,
			Items:    make([]CouponCartItem, 0, len(request.Cart.Items)),
		}
		for _, item := range request.Cart.Items {
			productID := objectIDPtr(item.ProductID)
			if productID == nil {
				continue
			}
			cart.Items = append(cart.Items, CouponCartItem{
				ProductID:  *productID,
				CategoryID: objectIDPtr(item.CategoryID),
				BrandID:    objectIDPtr(item.BrandID),
				Price:      item.Price,
				Quantity:   item.Quantity,
			})
		}
	}

	return s.Evaluate(ctx, request.Code, cart)
}

func (s *couponService) Evaluate(ctx context.Context, code string, cart *CouponCart) (*CouponPreview, error) {
	code = normalizeCouponCode(code)

	coupon, err := s.couponRepo.GetByCode(ctx, code)
	if err != nil {
		if isNotFound(err) {
			return &CouponPreview{Eligible: false, Reason: ReasonCouponNotFound, Code: code}, nil
		}
		return nil, repoError(err, "coupon")
	}

	usage := couponUsage{}
	if cart != nil && cart.UserID != nil && (coupon.Constraints.PerUserLimit > 0 || coupon.Constraints.FirstOrderOnly) {
		usage.known = true
		if coupon.Constraints.PerUserLimit > 0 {
			if usage.byCustomer, err = s.orderRepo.CountByUserAndCoupon(ctx, *cart.UserID, coupon.ID); err != nil {
				return nil, repoError(err, "order")
			}
		}
		if coupon.Constraints.FirstOrderOnly {
			if usage.orders, err = s.orderRepo.CountByUser(ctx, *cart.UserID); err != nil {
				return nil, repoError(err, "order")
			}
		}
	}

	return evaluateCoupon(coupon, cart, usage, s.now()), nil
}

func (s *couponService) Redeem(ctx context.Context, couponID primitive.ObjectID) (*models.Coupon, error) {
	coupon, err := s.couponRepo.IncrementUsage(ctx, couponID)
	if err != nil {
		return nil, repoError(err, "coupon")
	}
	return coupon, nil
}

func (s *couponService) Release(ctx context.Context, couponID primitive.ObjectID) error {
	return repoError(s.couponRepo.ReleaseUsage(ctx, couponID), "coupon")
}

// evaluateCoupon applies every coupon rule to cart. A nil cart only checks the coupon itself.
func evaluateCoupon(coupon *models.Coupon, cart *CouponCart, usage couponUsage, now time.Time) *CouponPreview {
	id := coupon.ID
	preview := &CouponPreview{
		Code:         coupon.Code,
		CouponID:     &id,
		DiscountType: coupon.DiscountType,
		coupon:       coupon,
	}
	reject := func(reason string) *CouponPreview {
		preview.Reason = reason
		preview.Discount = 0
		return preview
	}

	switch {
	case coupon.Status != models.StatusActive:
		return reject(ReasonCouponInactive)
	case coupon.StartsAt != nil && now.Before(*coupon.StartsAt):
		return reject(ReasonCouponNotStarted)
	case coupon.EndsAt != nil && now.After(*coupon.EndsAt):
		return reject(ReasonCouponExpired)
	case coupon.UsageLimit > 0 && coupon.UsedCount >= coupon.UsageLimit:
		return reject(ReasonCouponExhausted)
	}

	if cart == nil {
		preview.Eligible = true
		return preview
	}

	constraints := coupon.Constraints
	if len(cart.Items) == 0 {
		return reject(ReasonEmptyCart)
	}

	units := 0
	eligible := decimal.Zero
	for _, item := range cart.Items {
		units += item.Quantity
		if couponApplies(constraints, item) {
			eligible = eligible.Add(item.total())
		}
	}
	preview.EligibleSubtotal = utils.Money(eligible)

	if constraints.MinItems > 0 && units < constraints.MinItems {
		return reject(ReasonMinItems)
	}
	if constraints.Scoped() && eligible.IsZero() {
		return reject(ReasonNoEligibleItems)
	}
	if constraints.MinSubtotal > 0 && eligible.LessThan(utils.Dec(constraints.MinSubtotal)) {
		return reject(ReasonMinSubtotal)
	}

	if constraints.PerUserLimit > 0 || constraints.FirstOrderOnly {
		if cart.UserID == nil || !usage.known {
			return reject(ReasonCustomerRequired)
		}
		if constraints.PerUserLimit > 0 && usage.byCustomer >= int64(constraints.PerUserLimit) {
			return reject(ReasonPerUserLimit)
		}
		if constraints.FirstOrderOnly && usage.orders > 0 {
			return reject(ReasonFirstOrderOnly)
		}
	}

	var discount decimal.Decimal
	switch coupon.DiscountType {
	case models.DiscountPercentage:
		discount = eligible.Mul(utils.Dec(coupon.Amount)).Div(decimal.NewFromInt(100))
		if coupon.MaxDiscount > 0 {
			discount = utils.MinDecimal(discount, utils.Dec(coupon.MaxDiscount))
		}
	case models.DiscountFixed:
		discount = utils.MinDecimal(utils.Dec(coupon.Amount), eligible)
	case models.DiscountFreeShipping:
		discount = utils.Dec(cart.Shipping)
	}

	preview.Eligible = true
	preview.Discount = utils.Money(discount)
	return preview
}

// couponApplies reports whether item counts towards the coupon's eligible subtotal.
func couponApplies(constraints models.CouponConstraints, item CouponCartItem) bool {
	if !constraints.Scoped() {
		return true
	}
	if containsID(constraints.ProductIDs, &item.ProductID) {
		return true
	}
	if containsID(constraints.CategoryIDs, item.CategoryID) {
		return true
	}
	return containsID(constraints.BrandIDs, item.BrandID)
}

func containsID(ids []primitive.ObjectID, id *primitive.ObjectID) bool {
	if id == nil {
		return false
	}
	for _, candidate := range ids {
		if candidate == *id {
			return true
		}
	}
	return false
}
