package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type DiscountType string

const (
	DiscountPercentage   DiscountType = "percentage"
	DiscountFixed        DiscountType = "fixed"
	DiscountFreeShipping DiscountType = "free_shipping"
)

type CouponConstraints struct {
	MinSubtotal    float64              `json:"min_subtotal,omitempty" bson:"min_subtotal,omitempty"`
	MinItems       int                  `json:"min_items,omitempty" bson:"min_items,omitempty"`
	ProductIDs     []primitive.ObjectID `json:"product_ids,omitempty" bson:"product_ids,omitempty"`
	CategoryIDs    []primitive.ObjectID `json:"category_ids,omitempty" bson:"category_ids,omitempty"`
	BrandIDs       []primitive.ObjectID `json:"brand_ids,omitempty" bson:"brand_ids,omitempty"`
	PerUserLimit   int                  `json:"per_user_limit,omitempty" bson:"per_user_limit,omitempty"`
	FirstOrderOnly bool                 `json:"first_order_only,omitempty" bson:"first_order_only,omitempty"`
}

// Scoped reports whether the coupon only applies to some products.
func (c CouponConstraints) Scoped() bool {
	return len(c.ProductIDs) > 0 || len(c.CategoryIDs) > 0 || len(c.BrandIDs) > 0
}

type Coupon struct {
	ID           primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Code         string             `json:"code" bson:"code"`
	Description  string             `json:"description,omitempty" bson:"description,omitempty"`
	DiscountType DiscountType       `json:"discount_type" bson:"discount_type"`
	Amount       float64            `json:"amount" bson:"amount"`
	MaxDiscount  float64            `json:"max_discount,omitempty" bson:"max_discount,omitempty"`
	StartsAt     *time.Time         `json:"starts_at,omitempty" bson:"starts_at,omitempty"`
	EndsAt       *time.Time         `json:"ends_at,omitempty" bson:"ends_at,omitempty"`
	UsageLimit   int                `json:"usage_limit" bson:"usage_limit"`
	UsedCount    int                `json:"used_count" bson:"used_count"`
	Constraints  CouponConstraints  `json:"constraints" bson:"constraints"`
	Status       Status             `json:"status" bson:"status"`
	Lifecycle    `bson:",inline"`
}
