package models

import (
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Order statuses
const (
	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
	StatusShipped   = "shipped"
	StatusDelivered = "delivered"
	StatusCancelled = "cancelled"
)

// Subscription frequencies
const (
	FrequencyWeekly  = "weekly"
	FrequencyMonthly = "monthly"
)

// Subscription statuses
const (
	SubscriptionActive    = "active"
	SubscriptionPaused    = "paused"
	SubscriptionCancelled = "cancelled"
)

// Payment methods
const (
	PaymentCard = "card"
	PaymentCash = "cash"
	PaymentUPI  = "upi"
)

// ErrCannotCancel is returned when an order is already shipped or delivered.
var ErrCannotCancel = errors.New("cannot cancel shipped or delivered orders")

// OrderItem is a single line of an order. Price is a snapshot taken at
// checkout, not a live lookup against the medicine document.
type OrderItem struct {
	MedicineID primitive.ObjectID `bson:"medicine" json:"medicine"`
	Quantity   int                `bson:"quantity" json:"quantity"`
	Price      float64            `bson:"price" json:"price"`
}

// ShippingInfo is the delivery address block captured at checkout.
type ShippingInfo struct {
	Name    string `bson:"name" json:"name" validate:"required"`
	Email   string `bson:"email" json:"email" validate:"required,email"`
	Phone   string `bson:"phone" json:"phone" validate:"required,len=10,number"`
	Address string `bson:"address" json:"address" validate:"required"`
	City    string `bson:"city" json:"city" validate:"required"`
	State   string `bson:"state" json:"state" validate:"required"`
	Pincode string `bson:"pincode" json:"pincode" validate:"required,len=6,number"`
	Country string `bson:"country" json:"country" validate:"required"`
}

// SubscriptionDetails carries the renewal metadata of a subscription order.
// LastRenewedDate is set by the auto-order runner when a renewal is spawned so
// a second run on the same day does not duplicate it.
type SubscriptionDetails struct {
	Frequency        string     `bson:"frequency" json:"frequency"`
	Status           string     `bson:"status" json:"status"`
	NextDeliveryDate time.Time  `bson:"nextDeliveryDate" json:"nextDeliveryDate"`
	LastRenewedDate  *time.Time `bson:"lastRenewedDate,omitempty" json:"lastRenewedDate,omitempty"`
}

// PaymentDetails holds the chosen payment method.
type PaymentDetails struct {
	PaymentMethod string `bson:"paymentMethod" json:"paymentMethod"`
}

// Order represents a purchase request, one-time or recurring.
type Order struct {
	ID                  primitive.ObjectID   `bson:"_id,omitempty" json:"id,omitempty"`
	UserID              primitive.ObjectID   `bson:"user" json:"user"`
	Items               []OrderItem          `bson:"items" json:"items"`
	TotalAmount         float64              `bson:"totalAmount" json:"totalAmount"`
	Status              string               `bson:"status" json:"status"`
	Shipping            ShippingInfo         `bson:"shipping" json:"shipping"`
	IsSubscription      bool                 `bson:"isSubscription" json:"isSubscription"`
	SubscriptionDetails *SubscriptionDetails `bson:"subscriptionDetails,omitempty" json:"subscriptionDetails,omitempty"`
	PaymentDetails      PaymentDetails       `bson:"paymentDetails" json:"paymentDetails"`
	CreatedAt           time.Time            `bson:"createdAt" json:"createdAt"`
}

// IsSubscriptionOrder reports whether the order carries renewal metadata.
func (o *Order) IsSubscriptionOrder() bool {
	return o.IsSubscription
}

// Cancel marks the order cancelled. Shipped and delivered orders cannot be
// cancelled; the order is left unchanged and ErrCannotCancel is returned.
func (o *Order) Cancel() error {
	if o.Status == StatusShipped || o.Status == StatusDelivered {
		return ErrCannotCancel
	}
	o.Status = StatusCancelled
	return nil
}

// ValidStatus reports whether s is one of the order status values.
func ValidStatus(s string) bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusShipped, StatusDelivered, StatusCancelled:
		return true
	}
	return false
}

// ValidSubscriptionStatus reports whether s is a subscription status value.
func ValidSubscriptionStatus(s string) bool {
	switch s {
	case SubscriptionActive, SubscriptionPaused, SubscriptionCancelled:
		return true
	}
	return false
}

// ValidPaymentMethod reports whether m is a supported payment method.
func ValidPaymentMethod(m string) bool {
	switch m {
	case PaymentCard, PaymentCash, PaymentUPI:
		return true
	}
	return false
}

// Midnight truncates t to the start of its calendar day.
func Midnight(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// NextDeliveryAfter returns the delivery date one cycle after from, normalized
// to midnight. Weekly adds 7 calendar days. Monthly adds one calendar month,
// clamping the day to the last valid day of the target month, so
// 2024-01-31 advances to 2024-02-29.
func (s *SubscriptionDetails) NextDeliveryAfter(from time.Time) time.Time {
	if s.Frequency == FrequencyMonthly {
		return addMonthClamped(Midnight(from))
	}
	return Midnight(from.AddDate(0, 0, 7))
}

func addMonthClamped(t time.Time) time.Time {
	y, m, d := t.Date()
	// day 0 of month m+2 is the last day of month m+1
	lastDay := time.Date(y, m+2, 0, 0, 0, 0, 0, t.Location()).Day()
	if d > lastDay {
		d = lastDay
	}
	return time.Date(y, m+1, d, 0, 0, 0, 0, t.Location())
}
