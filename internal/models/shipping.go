package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type PaymentMethod string

const (
	PaymentMethodPrepaid PaymentMethod = "prepaid"
	PaymentMethodCOD     PaymentMethod = "cod"
)

type PincodeRange struct {
	From string `json:"from" bson:"from"`
	To   string `json:"to" bson:"to"`
}

type Surcharge struct {
	Name   string  `json:"name" bson:"name"`
	Amount float64 `json:"amount" bson:"amount"`
}

type ShippingRule struct {
	ID                primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Name              string             `json:"name" bson:"name"`
	Country           string             `json:"country" bson:"country"`
	States            []string           `json:"states,omitempty" bson:"states,omitempty"`
	Cities            []string           `json:"cities,omitempty" bson:"cities,omitempty"`
	PincodeRanges     []PincodeRange     `json:"pincode_ranges,omitempty" bson:"pincode_ranges,omitempty"`
	MinWeight         float64            `json:"min_weight" bson:"min_weight"`
	MaxWeight         float64            `json:"max_weight" bson:"max_weight"`
	BaseRate          float64            `json:"base_rate" bson:"base_rate"`
	PerKgRate         float64            `json:"per_kg_rate" bson:"per_kg_rate"`
	Surcharges        []Surcharge        `json:"surcharges,omitempty" bson:"surcharges,omitempty"`
	FreeShippingAbove float64            `json:"free_shipping_above" bson:"free_shipping_above"`
	CODFee            float64            `json:"cod_fee" bson:"cod_fee"`
	VolumetricDivisor float64            `json:"volumetric_divisor,omitempty" bson:"volumetric_divisor,omitempty"`
	EstimatedDays     int                `json:"estimated_days,omitempty" bson:"estimated_days,omitempty"`
	Status            Status             `json:"status" bson:"status"`
	Lifecycle         `bson:",inline"`
}

type Destination struct {
	Country string `json:"country" bson:"country"`
	State   string `json:"state,omitempty" bson:"state,omitempty"`
	City    string `json:"city,omitempty" bson:"city,omitempty"`
	Pincode string `json:"pincode,omitempty" bson:"pincode,omitempty"`
}

type ShippingQuote struct {
	Serviceable    bool                `json:"serviceable"`
	RuleID         *primitive.ObjectID `json:"rule_id,omitempty"`
	RuleName       string              `json:"rule_name,omitempty"`
	ActualWeight   float64             `json:"actual_weight"`
	Volumetric     float64             `json:"volumetric_weight"`
	BillableWeight float64             `json:"billable_weight"`
	Rate           float64             `json:"rate"`
	CODFee         float64             `json:"cod_fee"`
	FreeShipping   bool                `json:"free_shipping"`
	Total          float64             `json:"total"`
	EstimatedDays  int                 `json:"estimated_days,omitempty"`
}
