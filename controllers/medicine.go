package controllers

import (
	"context"
	"encoding/json"
	"medirural/models"
	"medirural/utils"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// MedicineController handles medicine catalog requests
type MedicineController struct {
	Collection *mongo.Collection
}

// NewMedicineController creates a new MedicineController
func NewMedicineController(client *mongo.Client) *MedicineController {
	collection := client.Database(utils.DatabaseName).Collection("medicines")
	return &MedicineController{
		Collection: collection,
	}
}

// CreateMedicine handles adding a new medicine (Admin only)
func (mc *MedicineController) CreateMedicine(w http.ResponseWriter, r *http.Request) {
	var medicine models.Medicine
	err := json.NewDecoder(r.Body).Decode(&medicine)
	if err != nil {
		http.Error(w, "Invalid input", http.StatusBadRequest)
		return
	}

	if medicine.Name == "" || medicine.Price < 0 || medicine.Stock < 0 {
		http.Error(w, "Invalid medicine data", http.StatusBadRequest)
		return
	}

	medicine.IsActive = true
	medicine.CreatedAt = time.Now()
	medicine.UpdatedAt = medicine.CreatedAt

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	result, err := mc.Collection.InsertOne(ctx, medicine)
	if err != nil {
		http.Error(w, "Error creating medicine", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"success": true,
		"message": "Medicine added successfully",
		"id":      result.InsertedID,
	})
}

// GetMedicines retrieves all medicines, optionally filtered by category
func (mc *MedicineController) GetMedicines(w http.ResponseWriter, r *http.Request) {
	filter := bson.M{}
	if category := r.URL.Query().Get("category"); category != "" {
		filter["category"] = category
		filter["isActive"] = true
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	cursor, err := mc.Collection.Find(ctx, filter)
	if err != nil {
		http.Error(w, "Error fetching medicines", http.StatusInternalServerError)
		return
	}
	defer cursor.Close(ctx)

	var medicines []models.Medicine
	if err := cursor.All(ctx, &medicines); err != nil {
		http.Error(w, "Error reading medicines", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(medicines)
}

// GetMedicineByID retrieves a single medicine by ID
func (mc *MedicineController) GetMedicineByID(w http.ResponseWriter, r *http.Request) {
	params := mux.Vars(r)
	id, err := primitive.ObjectIDFromHex(params["id"])
	if err != nil {
		http.Error(w, "Invalid medicine ID", http.StatusBadRequest)
		return
	}

	var medicine models.Medicine
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err = mc.Collection.FindOne(ctx, bson.M{"_id": id}).Decode(&medicine)
	if err != nil {
		http.Error(w, "Medicine not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(medicine)
}

// UpdateMedicine handles updating a medicine (Admin only)
func (mc *MedicineController) UpdateMedicine(w http.ResponseWriter, r *http.Request) {
	params := mux.Vars(r)
	id, err := primitive.ObjectIDFromHex(params["id"])
	if err != nil {
		http.Error(w, "Invalid medicine ID", http.StatusBadRequest)
		return
	}

	var medicine models.Medicine
	err = json.NewDecoder(r.Body).Decode(&medicine)
	if err != nil {
		http.Error(w, "Invalid input", http.StatusBadRequest)
		return
	}
	medicine.UpdatedAt = time.Now()

	update := bson.M{
		"$set": medicine,
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	result, err := mc.Collection.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		http.Error(w, "Error updating medicine", http.StatusInternalServerError)
		return
	}
	if result.MatchedCount == 0 {
		http.Error(w, "Medicine not found", http.StatusNotFound)
		return
	}

	json.NewEncoder(w).Encode(map[string]interface{}{
		"success": true,
		"message": "Medicine updated successfully",
	})
}

// DeleteMedicine handles deleting a medicine (Admin only)
func (mc *MedicineController) DeleteMedicine(w http.ResponseWriter, r *http.Request) {
	params := mux.Vars(r)
	id, err := primitive.ObjectIDFromHex(params["id"])
	if err != nil {
		http.Error(w, "Invalid medicine ID", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	result, err := mc.Collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		http.Error(w, "Error deleting medicine", http.StatusInternalServerError)
		return
	}
	if result.DeletedCount == 0 {
		http.Error(w, "Medicine not found", http.StatusNotFound)
		return
	}

	json.NewEncoder(w).Encode(map[string]interface{}{
		"success": true,
		"message": "Medicine deleted successfully",
	})
}
