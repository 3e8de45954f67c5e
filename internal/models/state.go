package models

import "time"

// RecordState is the lifecycle of a stored document. Retired documents stay in the
// collection but every standard read filters them out.
type RecordState string

const (
	StateActive  RecordState = "active"
	StateRetired RecordState = "retired"
)

// Status is the business visibility toggle an admin controls, independent of RecordState.
type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
)

func (s Status) Valid() bool {
	return s == StatusActive || s == StatusInactive
}

type Lifecycle struct {
	State     RecordState `json:"state" bson:"state"`
	CreatedAt time.Time   `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time   `json:"updated_at" bson:"updated_at"`
	RetiredAt *time.Time  `json:"retired_at,omitempty" bson:"retired_at,omitempty"`
}

// Stamp prepares a new document for insertion.
func (l *Lifecycle) Stamp(now time.Time) {
	l.State = StateActive
	l.CreatedAt = now
	l.UpdatedAt = now
	l.RetiredAt = nil
}

func (l Lifecycle) IsActive() bool {
	return l.State == StateActive
}
