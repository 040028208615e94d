package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CartItem represents an item in the cart
type CartItem struct {
	MedicineID primitive.ObjectID `bson:"medicine" json:"medicine"`
	Quantity   int                `bson:"quantity" json:"quantity"`
}

// Cart represents a user's cart, kept server-side between visits
type Cart struct {
	ID     primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	UserID primitive.ObjectID `bson:"user" json:"user"`
	Items  []CartItem         `bson:"items" json:"items"`
}
