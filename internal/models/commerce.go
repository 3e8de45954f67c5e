package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type MovementReason string

const (
	MovementRestock    MovementReason = "restock"
	MovementAdjustment MovementReason = "adjustment"
	MovementOrder      MovementReason = "order"
	MovementReturn     MovementReason = "return"
	MovementDamage     MovementReason = "damage"
)

type InventoryMovement struct {
	ID         primitive.ObjectID  `json:"id" bson:"_id,omitempty"`
	ProductID  primitive.ObjectID  `json:"product_id" bson:"product_id"`
	Delta      int                 `json:"delta" bson:"delta"`
	StockAfter int                 `json:"stock_after" bson:"stock_after"`
	Reason     MovementReason      `json:"reason" bson:"reason"`
	Note       string              `json:"note,omitempty" bson:"note,omitempty"`
	ActorID    *primitive.ObjectID `json:"actor_id,omitempty" bson:"actor_id,omitempty"`
	OrderID    *primitive.ObjectID `json:"order_id,omitempty" bson:"order_id,omitempty"`
	CreatedAt  time.Time           `json:"created_at" bson:"created_at"`
}

type LowStockAlert struct {
	ProductID primitive.ObjectID `json:"product_id"`
	SKU       string             `json:"sku"`
	Name      string             `json:"name"`
	Stock     int                `json:"stock"`
	Threshold int                `json:"threshold"`
}

type CartItem struct {
	ProductID primitive.ObjectID `json:"product_id" bson:"product_id"`
	Quantity  int                `json:"quantity" bson:"quantity"`
	AddedAt   time.Time          `json:"added_at" bson:"added_at"`
}

type Cart struct {
	ID        primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	UserID    primitive.ObjectID `json:"user_id" bson:"user_id"`
	Items     []CartItem         `json:"items" bson:"items"`
	CreatedAt time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time          `json:"updated_at" bson:"updated_at"`
}

// CartLine is a cart item joined with the product it points at.
type CartLine struct {
	ProductID  primitive.ObjectID  `json:"product_id"`
	Name       string              `json:"name"`
	SKU        string              `json:"sku"`
	Image      string              `json:"image,omitempty"`
	UnitPrice  float64             `json:"unit_price"`
	Quantity   int                 `json:"quantity"`
	LineTotal  float64             `json:"line_total"`
	InStock    bool                `json:"in_stock"`
	BrandID    *primitive.ObjectID `json:"-"`
	CategoryID *primitive.ObjectID `json:"-"`
	VendorID   *primitive.ObjectID `json:"-"`
	HSNCode    string              `json:"-"`
	WeightKg   float64             `json:"-"`
	VolumeCm3  float64             `json:"-"`
}

type CartView struct {
	UserID    primitive.ObjectID `json:"user_id"`
	Lines     []CartLine         `json:"lines"`
	ItemCount int                `json:"item_count"`
	Subtotal  float64            `json:"subtotal"`
}

type OrderStatus string

const (
	OrderPending   OrderStatus = "pending"
	OrderConfirmed OrderStatus = "confirmed"
	OrderShipped   OrderStatus = "shipped"
	OrderDelivered OrderStatus = "delivered"
	OrderCancelled OrderStatus = "cancelled"
)

var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderPending:   {OrderConfirmed, OrderCancelled},
	OrderConfirmed: {OrderShipped, OrderCancelled},
	OrderShipped:   {OrderDelivered},
}

func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	for _, allowed := range orderTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

type Address struct {
	Name        string `json:"name" bson:"name"`
	Phone       string `json:"phone" bson:"phone"`
	Line1       string `json:"line1" bson:"line1"`
	Line2       string `json:"line2,omitempty" bson:"line2,omitempty"`
	Destination `bson:",inline"`
}

type OrderItem struct {
	ProductID primitive.ObjectID  `json:"product_id" bson:"product_id"`
	VendorID  *primitive.ObjectID `json:"vendor_id,omitempty" bson:"vendor_id,omitempty"`
	Name      string              `json:"name" bson:"name"`
	SKU       string              `json:"sku" bson:"sku"`
	HSNCode   string              `json:"hsn_code,omitempty" bson:"hsn_code,omitempty"`
	UnitPrice float64             `json:"unit_price" bson:"unit_price"`
	Quantity  int                 `json:"quantity" bson:"quantity"`
	LineTotal float64             `json:"line_total" bson:"line_total"`
	Discount  float64             `json:"discount" bson:"discount"`
	TaxRate   float64             `json:"tax_rate" bson:"tax_rate"`
	Tax       float64             `json:"tax" bson:"tax"`
}

type Pricing struct {
	Subtotal   float64 `json:"subtotal" bson:"subtotal"`
	Discount   float64 `json:"discount" bson:"discount"`
	Shipping   float64 `json:"shipping" bson:"shipping"`
	Tax        float64 `json:"tax" bson:"tax"`
	Total      float64 `json:"total" bson:"total"`
	Commission float64 `json:"commission" bson:"commission"`
}

type VendorPayout struct {
	VendorID   *primitive.ObjectID `json:"vendor_id,omitempty" bson:"vendor_id,omitempty"`
	Gross      float64             `json:"gross" bson:"gross"`
	Commission float64             `json:"commission" bson:"commission"`
	Net        float64             `json:"net" bson:"net"`
}

type StatusChange struct {
	Status    OrderStatus         `json:"status" bson:"status"`
	Note      string              `json:"note,omitempty" bson:"note,omitempty"`
	ChangedBy *primitive.ObjectID `json:"changed_by,omitempty" bson:"changed_by,omitempty"`
	ChangedAt time.Time           `json:"changed_at" bson:"changed_at"`
}

type Order struct {
	ID            primitive.ObjectID  `json:"id" bson:"_id,omitempty"`
	Number        string              `json:"number" bson:"number"`
	UserID        primitive.ObjectID  `json:"user_id" bson:"user_id"`
	Items         []OrderItem         `json:"items" bson:"items"`
	Address       Address             `json:"address" bson:"address"`
	Pricing       Pricing             `json:"pricing" bson:"pricing"`
	CouponID      *primitive.ObjectID `json:"coupon_id,omitempty" bson:"coupon_id,omitempty"`
	CouponCode    string              `json:"coupon_code,omitempty" bson:"coupon_code,omitempty"`
	Payouts       []VendorPayout      `json:"payouts" bson:"payouts"`
	PaymentMethod PaymentMethod       `json:"payment_method" bson:"payment_method"`
	Status        OrderStatus         `json:"status" bson:"status"`
	StatusHistory []StatusChange      `json:"status_history" bson:"status_history"`
	CreatedAt     time.Time           `json:"created_at" bson:"created_at"`
	UpdatedAt     time.Time           `json:"updated_at" bson:"updated_at"`
}

type SalesSummary struct {
	Orders            int64   `json:"orders" bson:"orders"`
	Units             int64   `json:"units" bson:"units"`
	Gross             float64 `json:"gross" bson:"gross"`
	Discounts         float64 `json:"discounts" bson:"discounts"`
	Shipping          float64 `json:"shipping" bson:"shipping"`
	Tax               float64 `json:"tax" bson:"tax"`
	Revenue           float64 `json:"revenue" bson:"revenue"`
	NetRevenue        float64 `json:"net_revenue" bson:"net_revenue"`
	Commission        float64 `json:"commission" bson:"commission"`
	AverageOrderValue float64 `json:"average_order_value" bson:"-"`
}

type DailySales struct {
	Date    string  `json:"date" bson:"_id"`
	Orders  int64   `json:"orders" bson:"orders"`
	Revenue float64 `json:"revenue" bson:"revenue"`
}

type TopProduct struct {
	ProductID primitive.ObjectID `json:"product_id" bson:"_id"`
	Name      string             `json:"name" bson:"name"`
	SKU       string             `json:"sku" bson:"sku"`
	Units     int64              `json:"units" bson:"units"`
	Revenue   float64            `json:"revenue" bson:"revenue"`
}
