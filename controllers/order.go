package controllers

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"medirural/middleware"
	"medirural/models"
	"medirural/utils"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// OrderController handles order-related requests
type OrderController struct {
	OrderCollection    *mongo.Collection
	MedicineCollection *mongo.Collection
	CartCollection     *mongo.Collection
	EmailService       *utils.EmailService
}

// NewOrderController creates a new OrderController
func NewOrderController(client *mongo.Client, emailService *utils.EmailService) *OrderController {
	db := client.Database(utils.DatabaseName)
	return &OrderController{
		OrderCollection:    db.Collection("orders"),
		MedicineCollection: db.Collection("medicines"),
		CartCollection:     db.Collection("carts"),
		EmailService:       emailService,
	}
}

// createOrderRequest is the checkout payload. Item prices and the total are
// snapshots supplied by the caller; the total is not re-derived from the items.
type createOrderRequest struct {
	Items               []models.OrderItem          `json:"items"`
	TotalAmount         float64                     `json:"totalAmount"`
	Shipping            models.ShippingInfo         `json:"shipping"`
	IsSubscription      bool                        `json:"isSubscription"`
	SubscriptionDetails *models.SubscriptionDetails `json:"subscriptionDetails"`
	PaymentDetails      models.PaymentDetails       `json:"paymentDetails"`
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

// validate checks everything that can be rejected before touching the database.
func (req *createOrderRequest) validate() ([]utils.FieldError, string) {
	if fieldErrors := utils.ValidateShipping(req.Shipping); fieldErrors != nil {
		return fieldErrors, ""
	}
	if len(req.Items) == 0 {
		return nil, "Order must contain at least one item"
	}
	for _, item := range req.Items {
		if item.Quantity < 1 {
			return nil, "Item quantity must be at least 1"
		}
		if item.Price < 0 {
			return nil, "Item price cannot be negative"
		}
	}
	if req.TotalAmount < 0 {
		return nil, "Total amount cannot be negative"
	}
	if req.PaymentDetails.PaymentMethod == "" {
		req.PaymentDetails.PaymentMethod = models.PaymentCash
	}
	if !models.ValidPaymentMethod(req.PaymentDetails.PaymentMethod) {
		return nil, "Invalid payment method"
	}
	if req.IsSubscription {
		if req.SubscriptionDetails == nil {
			return nil, "Subscription details are required for subscription orders"
		}
		f := req.SubscriptionDetails.Frequency
		if f != models.FrequencyWeekly && f != models.FrequencyMonthly {
			return nil, "Subscription frequency must be weekly or monthly"
		}
	}
	return nil, ""
}

// buildOrder assembles the order document from a validated checkout request.
// Status always starts at pending. Subscription details are forced active; a
// client-supplied next delivery date is normalized to midnight, and a missing
// one defaults to now advanced by the chosen frequency.
func buildOrder(req createOrderRequest, userID primitive.ObjectID, now time.Time) models.Order {
	order := models.Order{
		UserID:         userID,
		Items:          req.Items,
		TotalAmount:    req.TotalAmount,
		Status:         models.StatusPending,
		Shipping:       req.Shipping,
		IsSubscription: req.IsSubscription,
		PaymentDetails: req.PaymentDetails,
		CreatedAt:      now,
	}
	if req.IsSubscription {
		details := models.SubscriptionDetails{
			Frequency: req.SubscriptionDetails.Frequency,
			Status:    models.SubscriptionActive,
		}
		if req.SubscriptionDetails.NextDeliveryDate.IsZero() {
			details.NextDeliveryDate = details.NextDeliveryAfter(now)
		} else {
			details.NextDeliveryDate = models.Midnight(req.SubscriptionDetails.NextDeliveryDate)
		}
		order.SubscriptionDetails = &details
	}
	return order
}

// restoreStock returns deducted units to inventory.
func (oc *OrderController) restoreStock(ctx context.Context, items []models.OrderItem) {
	for _, item := range items {
		_, err := oc.MedicineCollection.UpdateOne(ctx, bson.M{"_id": item.MedicineID}, bson.M{
			"$inc": bson.M{"stock": item.Quantity},
		})
		if err != nil {
			log.Printf("Failed to restore stock for medicine %s: %v", item.MedicineID.Hex(), err)
		}
	}
}

// CreateOrder places a new order for the authenticated user
func (oc *OrderController) CreateOrder(w http.ResponseWriter, r *http.Request) {
	claims, ok := r.Context().Value(middleware.UserContextKey).(*utils.Claims)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	userID, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		http.Error(w, "Invalid user ID in token", http.StatusUnauthorized)
		return
	}

	var req createOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	fieldErrors, msg := req.validate()
	if fieldErrors != nil {
		writeJSON(w, http.StatusBadRequest, map[string]interface{}{
			"success": false,
			"errors":  fieldErrors,
		})
		return
	}
	if msg != "" {
		writeJSON(w, http.StatusBadRequest, map[string]interface{}{
			"success": false,
			"message": msg,
		})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Check stock before deducting anything
	for _, item := range req.Items {
		var medicine models.Medicine
		err := oc.MedicineCollection.FindOne(ctx, bson.M{"_id": item.MedicineID}).Decode(&medicine)
		if err != nil {
			http.Error(w, fmt.Sprintf("Medicine with ID %s not found", item.MedicineID.Hex()), http.StatusNotFound)
			return
		}
		if medicine.Stock < item.Quantity {
			http.Error(w, fmt.Sprintf("Insufficient stock for medicine: %s", medicine.Name), http.StatusBadRequest)
			return
		}
	}

	// Deduct stock for each medicine
	for _, item := range req.Items {
		_, err := oc.MedicineCollection.UpdateOne(ctx, bson.M{"_id": item.MedicineID}, bson.M{
			"$inc": bson.M{"stock": -item.Quantity},
		})
		if err != nil {
			http.Error(w, "Failed to update medicine stock", http.StatusInternalServerError)
			return
		}
	}

	order := buildOrder(req, userID, time.Now())

	result, err := oc.OrderCollection.InsertOne(ctx, order)
	if err != nil {
		// Give back the stock deducted above
		oc.restoreStock(ctx, order.Items)
		http.Error(w, "Failed to create order", http.StatusInternalServerError)
		return
	}
	order.ID = result.InsertedID.(primitive.ObjectID)

	// Clear the user's cart; checkout consumed it
	if _, err := oc.CartCollection.DeleteOne(ctx, bson.M{"user": userID}); err != nil {
		log.Printf("Failed to clear cart for user %s: %v", userID.Hex(), err)
	}

	// Send confirmation email without blocking the response
	if oc.EmailService != nil {
		go func(o models.Order) {
			if err := oc.EmailService.SendOrderConfirmationEmail(o.Shipping.Email, o); err != nil {
				log.Printf("Failed to send email to %s: %v", o.Shipping.Email, err)
			}
		}(order)
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"success": true,
		"message": "Order created successfully",
		"order":   order,
	})
}

// GetOrders retrieves orders: staff see every order, users only their own
func (oc *OrderController) GetOrders(w http.ResponseWriter, r *http.Request) {
	claims, ok := r.Context().Value(middleware.UserContextKey).(*utils.Claims)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	filter := bson.M{}
	if claims.Role != models.RoleAdmin && claims.Role != models.RoleSupplier {
		userID, err := primitive.ObjectIDFromHex(claims.UserID)
		if err != nil {
			http.Error(w, "Invalid user ID in token", http.StatusUnauthorized)
			return
		}
		filter["user"] = userID
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	cursor, err := oc.OrderCollection.Find(ctx, filter)
	if err != nil {
		http.Error(w, "Failed to retrieve orders", http.StatusInternalServerError)
		return
	}
	defer cursor.Close(ctx)

	var orders []models.Order
	if err := cursor.All(ctx, &orders); err != nil {
		http.Error(w, "Error decoding orders", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"orders":  orders,
	})
}

// GetUserSubscriptions retrieves the caller's subscription orders
func (oc *OrderController) GetUserSubscriptions(w http.ResponseWriter, r *http.Request) {
	claims, ok := r.Context().Value(middleware.UserContextKey).(*utils.Claims)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	userID, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		http.Error(w, "Invalid user ID in token", http.StatusUnauthorized)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	cursor, err := oc.OrderCollection.Find(ctx, bson.M{"user": userID, "isSubscription": true})
	if err != nil {
		http.Error(w, "Failed to retrieve subscriptions", http.StatusInternalServerError)
		return
	}
	defer cursor.Close(ctx)

	var subscriptions []models.Order
	if err := cursor.All(ctx, &subscriptions); err != nil {
		http.Error(w, "Error decoding subscriptions", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":       true,
		"subscriptions": subscriptions,
	})
}

// GetOrderByID retrieves a single order; users may only fetch their own
func (oc *OrderController) GetOrderByID(w http.ResponseWriter, r *http.Request) {
	claims, ok := r.Context().Value(middleware.UserContextKey).(*utils.Claims)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	params := mux.Vars(r)
	orderID, err := primitive.ObjectIDFromHex(params["id"])
	if err != nil {
		http.Error(w, "Invalid order ID", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var order models.Order
	err = oc.OrderCollection.FindOne(ctx, bson.M{"_id": orderID}).Decode(&order)
	if err != nil {
		http.Error(w, "Order not found", http.StatusNotFound)
		return
	}

	if claims.Role != models.RoleAdmin && claims.Role != models.RoleSupplier && order.UserID.Hex() != claims.UserID {
		http.Error(w, "Forbidden", http.StatusForbidden)
		return
	}

	writeJSON(w, http.StatusOK, order)
}

// updateOrderRequest is the PUT patch body. Only the listed fields can change;
// no transition graph is enforced beyond the cancellation rule.
type updateOrderRequest struct {
	Status              *string `json:"status"`
	SubscriptionDetails *struct {
		Status    *string `json:"status"`
		Frequency *string `json:"frequency"`
	} `json:"subscriptionDetails"`
}

// UpdateOrder patches an order's status or subscription fields
func (oc *OrderController) UpdateOrder(w http.ResponseWriter, r *http.Request) {
	params := mux.Vars(r)
	orderID, err := primitive.ObjectIDFromHex(params["id"])
	if err != nil {
		http.Error(w, "Invalid order ID", http.StatusBadRequest)
		return
	}

	var req updateOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	set := bson.M{}
	if req.Status != nil {
		if !models.ValidStatus(*req.Status) {
			http.Error(w, "Invalid order status", http.StatusBadRequest)
			return
		}
		set["status"] = *req.Status
	}
	if req.SubscriptionDetails != nil {
		if req.SubscriptionDetails.Status != nil {
			if !models.ValidSubscriptionStatus(*req.SubscriptionDetails.Status) {
				http.Error(w, "Invalid subscription status", http.StatusBadRequest)
				return
			}
			set["subscriptionDetails.status"] = *req.SubscriptionDetails.Status
		}
		if req.SubscriptionDetails.Frequency != nil {
			f := *req.SubscriptionDetails.Frequency
			if f != models.FrequencyWeekly && f != models.FrequencyMonthly {
				http.Error(w, "Invalid subscription frequency", http.StatusBadRequest)
				return
			}
			set["subscriptionDetails.frequency"] = f
		}
	}
	if len(set) == 0 {
		http.Error(w, "Nothing to update", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	result, err := oc.OrderCollection.UpdateOne(ctx, bson.M{"_id": orderID}, bson.M{"$set": set})
	if err != nil {
		http.Error(w, "Failed to update order", http.StatusInternalServerError)
		return
	}
	if result.MatchedCount == 0 {
		http.Error(w, "Order not found", http.StatusNotFound)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Order updated successfully",
	})
}

// CancelOrder cancels an order unless it has shipped or been delivered. Stock
// deducted at checkout is restored for every item; this is the single
// authoritative cancel path, inventory follows the order.
func (oc *OrderController) CancelOrder(w http.ResponseWriter, r *http.Request) {
	claims, ok := r.Context().Value(middleware.UserContextKey).(*utils.Claims)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	params := mux.Vars(r)
	orderID, err := primitive.ObjectIDFromHex(params["id"])
	if err != nil {
		http.Error(w, "Invalid order ID", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var order models.Order
	err = oc.OrderCollection.FindOne(ctx, bson.M{"_id": orderID}).Decode(&order)
	if err != nil {
		http.Error(w, "Order not found", http.StatusNotFound)
		return
	}

	if claims.Role != models.RoleAdmin && claims.Role != models.RoleSupplier && order.UserID.Hex() != claims.UserID {
		http.Error(w, "Forbidden", http.StatusForbidden)
		return
	}

	if err := order.Cancel(); err != nil {
		http.Error(w, err.Error(), http.StatusConflict)
		return
	}

	_, err = oc.OrderCollection.UpdateOne(ctx, bson.M{"_id": orderID}, bson.M{
		"$set": bson.M{"status": models.StatusCancelled},
	})
	if err != nil {
		http.Error(w, "Failed to cancel order", http.StatusInternalServerError)
		return
	}

	// Restore stock for each item
	oc.restoreStock(ctx, order.Items)

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Order cancelled successfully",
	})
}

// DeleteOrder removes an order by ID (Staff only)
func (oc *OrderController) DeleteOrder(w http.ResponseWriter, r *http.Request) {
	params := mux.Vars(r)
	orderID, err := primitive.ObjectIDFromHex(params["id"])
	if err != nil {
		http.Error(w, "Invalid order ID", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	result, err := oc.OrderCollection.DeleteOne(ctx, bson.M{"_id": orderID})
	if err != nil {
		http.Error(w, "Failed to delete order", http.StatusInternalServerError)
		return
	}
	if result.DeletedCount == 0 {
		http.Error(w, "Order not found", http.StatusNotFound)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Order deleted successfully",
	})
}
