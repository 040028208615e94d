package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User roles
const (
	RoleUser     = "user"
	RoleAdmin    = "admin"
	RoleSupplier = "supplier"
)

// Address represents a user's saved address
type Address struct {
	Street  string `bson:"street" json:"street"`
	City    string `bson:"city" json:"city"`
	State   string `bson:"state" json:"state"`
	Pincode string `bson:"pincode" json:"pincode"`
}

// User represents a user in the system
type User struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Name     string             `bson:"name" json:"name"`
	Email    string             `bson:"email" json:"email"`
	Password string             `bson:"password,omitempty" json:"-"`
	Phone    string             `bson:"phone" json:"phone"`
	Address  Address            `bson:"address" json:"address"`
	Role     string             `bson:"role" json:"role"` // "user", "admin" or "supplier"
}
