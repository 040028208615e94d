package controllers

import (
	"encoding/json"
	"medirural/models"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

func checkoutRequest() createOrderRequest {
	return createOrderRequest{
		Items: []models.OrderItem{
			{MedicineID: primitive.NewObjectID(), Quantity: 2, Price: 45.50},
		},
		TotalAmount: 91.00,
		Shipping: models.ShippingInfo{
			Name:    "Ramesh Kumar",
			Email:   "ramesh@example.com",
			Phone:   "9876543210",
			Address: "12 Market Road",
			City:    "Bardoli",
			State:   "Gujarat",
			Pincode: "394601",
			Country: "India",
		},
		PaymentDetails: models.PaymentDetails{PaymentMethod: models.PaymentUPI},
	}
}

func TestBuildOrderStartsPending(t *testing.T) {
	userID := primitive.NewObjectID()
	now := time.Date(2024, 6, 10, 14, 30, 0, 0, time.UTC)
	req := checkoutRequest()

	order := buildOrder(req, userID, now)

	assert.Equal(t, models.StatusPending, order.Status)
	assert.Equal(t, userID, order.UserID)
	assert.Equal(t, req.Items, order.Items)
	assert.Equal(t, req.TotalAmount, order.TotalAmount)
	assert.Equal(t, req.Shipping, order.Shipping)
	assert.Equal(t, req.PaymentDetails, order.PaymentDetails)
	assert.Equal(t, now, order.CreatedAt)
	assert.False(t, order.IsSubscription)
	assert.Nil(t, order.SubscriptionDetails)
}

func TestBuildOrderDefaultsSubscriptionDeliveryDate(t *testing.T) {
	req := checkoutRequest()
	req.IsSubscription = true
	req.SubscriptionDetails = &models.SubscriptionDetails{Frequency: models.FrequencyWeekly}
	now := time.Date(2024, 6, 10, 14, 30, 0, 0, time.UTC)

	order := buildOrder(req, primitive.NewObjectID(), now)

	require.NotNil(t, order.SubscriptionDetails)
	assert.True(t, order.IsSubscription)
	assert.Equal(t, models.SubscriptionActive, order.SubscriptionDetails.Status)
	assert.Equal(t, models.FrequencyWeekly, order.SubscriptionDetails.Frequency)
	assert.Equal(t, time.Date(2024, 6, 17, 0, 0, 0, 0, time.UTC), order.SubscriptionDetails.NextDeliveryDate)
}

func TestBuildOrderNormalizesClientDeliveryDate(t *testing.T) {
	req := checkoutRequest()
	req.IsSubscription = true
	req.SubscriptionDetails = &models.SubscriptionDetails{
		Frequency:        models.FrequencyMonthly,
		Status:           models.SubscriptionPaused, // a new subscription cannot start paused
		NextDeliveryDate: time.Date(2024, 7, 1, 18, 45, 12, 0, time.UTC),
	}

	order := buildOrder(req, primitive.NewObjectID(), time.Date(2024, 6, 10, 14, 30, 0, 0, time.UTC))

	require.NotNil(t, order.SubscriptionDetails)
	assert.Equal(t, models.SubscriptionActive, order.SubscriptionDetails.Status)
	assert.Equal(t, time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC), order.SubscriptionDetails.NextDeliveryDate)
}

func checkoutBody(medicineID primitive.ObjectID) string {
	return `{
		"items": [{"medicine": "` + medicineID.Hex() + `", "quantity": 2, "price": 45.5}],
		"totalAmount": 91,
		"shipping": {
			"name": "Ramesh Kumar",
			"email": "ramesh@example.com",
			"phone": "9876543210",
			"address": "12 Market Road",
			"city": "Bardoli",
			"state": "Gujarat",
			"pincode": "394601",
			"country": "India"
		}
	}`
}

func mockedOrderController(mt *mtest.T) *OrderController {
	db := mt.Client.Database("medirural")
	return &OrderController{
		OrderCollection:    db.Collection("orders"),
		MedicineCollection: db.Collection("medicines"),
		CartCollection:     db.Collection("carts"),
	}
}

func TestCreateOrderPersistsPendingOrder(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("valid checkout", func(mt *mtest.T) {
		oc := mockedOrderController(mt)
		medicineID := primitive.NewObjectID()
		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, "medirural.medicines", mtest.FirstBatch, bson.D{
				{Key: "_id", Value: medicineID},
				{Key: "name", Value: "Paracetamol"},
				{Key: "stock", Value: 10},
			}),
			mtest.CreateSuccessResponse(), // stock deduction
			mtest.CreateSuccessResponse(), // order insert
			mtest.CreateSuccessResponse(), // cart clear
		)

		rr := httptest.NewRecorder()
		oc.CreateOrder(rr, authedRequest(mt.T, "POST", "/api/orders", checkoutBody(medicineID)))

		assert.Equal(mt.T, http.StatusCreated, rr.Code)

		var resp struct {
			Success bool         `json:"success"`
			Order   models.Order `json:"order"`
		}
		require.NoError(mt.T, json.Unmarshal(rr.Body.Bytes(), &resp))
		assert.True(mt.T, resp.Success)
		assert.Equal(mt.T, models.StatusPending, resp.Order.Status)
		assert.False(mt.T, resp.Order.ID.IsZero())
		assert.False(mt.T, resp.Order.CreatedAt.IsZero())
		assert.Equal(mt.T, models.PaymentCash, resp.Order.PaymentDetails.PaymentMethod)
	})
}

func TestCreateOrderRestoresStockWhenInsertFails(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("insert failure", func(mt *mtest.T) {
		oc := mockedOrderController(mt)
		medicineID := primitive.NewObjectID()
		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, "medirural.medicines", mtest.FirstBatch, bson.D{
				{Key: "_id", Value: medicineID},
				{Key: "name", Value: "Paracetamol"},
				{Key: "stock", Value: 10},
			}),
			mtest.CreateSuccessResponse(), // stock deduction
			mtest.CreateWriteErrorsResponse(mtest.WriteError{Index: 0, Code: 11000, Message: "write failed"}),
			mtest.CreateSuccessResponse(), // compensating stock restore
		)

		rr := httptest.NewRecorder()
		oc.CreateOrder(rr, authedRequest(mt.T, "POST", "/api/orders", checkoutBody(medicineID)))

		assert.Equal(mt.T, http.StatusInternalServerError, rr.Code)

		// find, deduct, failed insert, then the compensating update
		events := mt.GetAllStartedEvents()
		require.Len(mt.T, events, 4)
		assert.Equal(mt.T, "update", events[3].CommandName)
		assert.Contains(mt.T, events[3].Command.String(), "$inc")
	})
}
