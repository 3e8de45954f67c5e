package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type TaxSlab struct {
	ID          primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	HSNCode     string             `json:"hsn_code" bson:"hsn_code"`
	Description string             `json:"description,omitempty" bson:"description,omitempty"`
	Rate        float64            `json:"rate" bson:"rate"`
	MinAmount   float64            `json:"min_amount" bson:"min_amount"`
	MaxAmount   float64            `json:"max_amount" bson:"max_amount"`
	Status      Status             `json:"status" bson:"status"`
	Lifecycle   `bson:",inline"`
}

// Covers reports whether amount falls inside the slab. MaxAmount 0 is unbounded.
func (s *TaxSlab) Covers(amount float64) bool {
	if amount < s.MinAmount {
		return false
	}
	return s.MaxAmount == 0 || amount <= s.MaxAmount
}

type TaxResult struct {
	HSNCode string              `json:"hsn_code"`
	Amount  float64             `json:"amount"`
	Rate    float64             `json:"rate"`
	Tax     float64             `json:"tax"`
	SlabID  *primitive.ObjectID `json:"slab_id,omitempty"`
}
