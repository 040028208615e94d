package controllers

import (
	"context"
	"encoding/json"
	"medirural/middleware"
	"medirural/models"
	"medirural/utils"
	"net/http"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// CartController handles cart-related requests
type CartController struct {
	Collection         *mongo.Collection
	MedicineCollection *mongo.Collection
}

// NewCartController creates a new CartController
func NewCartController(client *mongo.Client) *CartController {
	db := client.Database(utils.DatabaseName)
	return &CartController{
		Collection:         db.Collection("carts"),
		MedicineCollection: db.Collection("medicines"),
	}
}

func userIDFromRequest(r *http.Request) (primitive.ObjectID, bool) {
	claims, ok := r.Context().Value(middleware.UserContextKey).(*utils.Claims)
	if !ok {
		return primitive.NilObjectID, false
	}
	id, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		return primitive.NilObjectID, false
	}
	return id, true
}

// AddToCart adds a medicine to the user's cart
func (cc *CartController) AddToCart(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromRequest(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var item models.CartItem
	err := json.NewDecoder(r.Body).Decode(&item)
	if err != nil {
		http.Error(w, "Invalid input", http.StatusBadRequest)
		return
	}
	if item.Quantity < 1 {
		http.Error(w, "Quantity must be at least 1", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// Make sure the medicine exists and is still sold
	var medicine models.Medicine
	err = cc.MedicineCollection.FindOne(ctx, bson.M{"_id": item.MedicineID, "isActive": true}).Decode(&medicine)
	if err != nil {
		http.Error(w, "Medicine not found", http.StatusNotFound)
		return
	}

	var cart models.Cart
	err = cc.Collection.FindOne(ctx, bson.M{"user": userID}).Decode(&cart)
	if err == mongo.ErrNoDocuments {
		cart = models.Cart{
			UserID: userID,
			Items:  []models.CartItem{item},
		}
		_, err = cc.Collection.InsertOne(ctx, cart)
		if err != nil {
			http.Error(w, "Failed to create cart", http.StatusInternalServerError)
			return
		}
	} else if err != nil {
		http.Error(w, "Database error", http.StatusInternalServerError)
		return
	} else {
		// Merge with an existing line if the medicine is already in the cart
		merged := false
		for i, existing := range cart.Items {
			if existing.MedicineID == item.MedicineID {
				cart.Items[i].Quantity += item.Quantity
				merged = true
				break
			}
		}
		if !merged {
			cart.Items = append(cart.Items, item)
		}
		_, err = cc.Collection.UpdateOne(ctx, bson.M{"user": userID}, bson.M{"$set": bson.M{"items": cart.Items}})
		if err != nil {
			http.Error(w, "Failed to update cart", http.StatusInternalServerError)
			return
		}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"success": true,
		"message": "Item added to cart",
	})
}

// GetCart retrieves the user's cart
func (cc *CartController) GetCart(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromRequest(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var cart models.Cart
	err := cc.Collection.FindOne(ctx, bson.M{"user": userID}).Decode(&cart)
	if err == mongo.ErrNoDocuments {
		cart = models.Cart{UserID: userID, Items: []models.CartItem{}}
	} else if err != nil {
		http.Error(w, "Database error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(cart)
}

// RemoveFromCart removes a medicine from the user's cart
func (cc *CartController) RemoveFromCart(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromRequest(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var payload struct {
		MedicineID primitive.ObjectID `json:"medicine"`
	}
	err := json.NewDecoder(r.Body).Decode(&payload)
	if err != nil {
		http.Error(w, "Invalid input", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	result, err := cc.Collection.UpdateOne(ctx, bson.M{"user": userID}, bson.M{
		"$pull": bson.M{"items": bson.M{"medicine": payload.MedicineID}},
	})
	if err != nil {
		http.Error(w, "Failed to update cart", http.StatusInternalServerError)
		return
	}
	if result.MatchedCount == 0 {
		http.Error(w, "Cart not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"success": true,
		"message": "Item removed from cart",
	})
}
