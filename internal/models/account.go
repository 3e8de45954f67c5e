package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type UserStatus string

const (
	UserStatusActive    UserStatus = "active"
	UserStatusSuspended UserStatus = "suspended"
)

type User struct {
	ID           primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Name         string             `json:"name" bson:"name"`
	Email        string             `json:"email" bson:"email"`
	Phone        string             `json:"phone,omitempty" bson:"phone,omitempty"`
	PasswordHash string             `json:"-" bson:"password_hash"`
	Role         string             `json:"role" bson:"role"`
	Status       UserStatus         `json:"status" bson:"status"`
	LastLoginAt  *time.Time         `json:"last_login_at,omitempty" bson:"last_login_at,omitempty"`
	Lifecycle    `bson:",inline"`
}

type Role struct {
	ID          primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Name        string             `json:"name" bson:"name"`
	Description string             `json:"description,omitempty" bson:"description,omitempty"`
	Permissions []string           `json:"permissions" bson:"permissions"`
	BuiltIn     bool               `json:"built_in" bson:"built_in"`
	Lifecycle   `bson:",inline"`
}
