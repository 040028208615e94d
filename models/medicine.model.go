package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Medicine represents a product in the catalog
type Medicine struct {
	ID                   primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Name                 string             `bson:"name" json:"name"`
	Description          string             `bson:"description" json:"description"`
	Price                float64            `bson:"price" json:"price"`
	Stock                int                `bson:"stock" json:"stock"`
	Category             string             `bson:"category" json:"category"`
	Manufacturer         string             `bson:"manufacturer" json:"manufacturer"`
	ExpiryDate           time.Time          `bson:"expiryDate" json:"expiryDate"`
	PrescriptionRequired bool               `bson:"prescriptionRequired" json:"prescriptionRequired"`
	ImageURL             string             `bson:"imageUrl" json:"imageUrl"`
	IsActive             bool               `bson:"isActive" json:"isActive"`
	CreatedAt            time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt            time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// IsInStock reports whether any units are left.
func (m *Medicine) IsInStock() bool {
	return m.Stock > 0
}

// IsExpired reports whether the medicine is past its expiry date.
func (m *Medicine) IsExpired() bool {
	return time.Now().After(m.ExpiryDate)
}
