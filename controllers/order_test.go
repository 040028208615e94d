package controllers

import (
	"context"
	"encoding/json"
	"medirural/middleware"
	"medirural/models"
	"medirural/utils"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func authedRequest(t *testing.T, method, target, body string) *http.Request {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	claims := &utils.Claims{
		UserID: primitive.NewObjectID().Hex(),
		Email:  "ramesh@example.com",
		Role:   models.RoleUser,
	}
	return req.WithContext(context.WithValue(req.Context(), middleware.UserContextKey, claims))
}

// Validation runs before any database access, so a zero-value controller is
// enough for the rejection paths.
func TestCreateOrderRejectsMalformedShipping(t *testing.T) {
	oc := &OrderController{}
	body := `{
		"items": [{"medicine": "` + primitive.NewObjectID().Hex() + `", "quantity": 1, "price": 45.5}],
		"totalAmount": 45.5,
		"shipping": {
			"name": "Ramesh Kumar",
			"email": "ramesh@example.com",
			"phone": "12345",
			"address": "12 Market Road",
			"city": "Bardoli",
			"state": "Gujarat",
			"pincode": "394601",
			"country": "India"
		}
	}`

	rr := httptest.NewRecorder()
	oc.CreateOrder(rr, authedRequest(t, "POST", "/api/orders", body))

	assert.Equal(t, http.StatusBadRequest, rr.Code)

	var resp struct {
		Success bool               `json:"success"`
		Errors  []utils.FieldError `json:"errors"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
	require.Len(t, resp.Errors, 1)
	assert.Equal(t, "phone", resp.Errors[0].Field)
}

func TestCreateOrderRejectsEmptyItems(t *testing.T) {
	oc := &OrderController{}
	body := `{
		"items": [],
		"totalAmount": 0,
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

	rr := httptest.NewRecorder()
	oc.CreateOrder(rr, authedRequest(t, "POST", "/api/orders", body))

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "at least one item")
}

func TestCreateOrderRejectsInvalidSubscriptionFrequency(t *testing.T) {
	oc := &OrderController{}
	body := `{
		"items": [{"medicine": "` + primitive.NewObjectID().Hex() + `", "quantity": 1, "price": 45.5}],
		"totalAmount": 45.5,
		"isSubscription": true,
		"subscriptionDetails": {"frequency": "daily"},
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

	rr := httptest.NewRecorder()
	oc.CreateOrder(rr, authedRequest(t, "POST", "/api/orders", body))

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "weekly or monthly")
}

func TestCreateOrderRequiresAuth(t *testing.T) {
	oc := &OrderController{}
	req := httptest.NewRequest("POST", "/api/orders", strings.NewReader("{}"))

	rr := httptest.NewRecorder()
	oc.CreateOrder(rr, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestUpdateOrderRejectsInvalidStatus(t *testing.T) {
	oc := &OrderController{}
	req := authedRequest(t, "PUT", "/api/orders/x", `{"status": "processing"}`)
	req = mux.SetURLVars(req, map[string]string{"id": primitive.NewObjectID().Hex()})

	rr := httptest.NewRecorder()
	oc.UpdateOrder(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "Invalid order status")
}

func TestUpdateOrderRejectsInvalidSubscriptionStatus(t *testing.T) {
	oc := &OrderController{}
	req := authedRequest(t, "PUT", "/api/orders/x", `{"subscriptionDetails": {"status": "expired"}}`)
	req = mux.SetURLVars(req, map[string]string{"id": primitive.NewObjectID().Hex()})

	rr := httptest.NewRecorder()
	oc.UpdateOrder(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "Invalid subscription status")
}

func TestUpdateOrderRejectsEmptyPatch(t *testing.T) {
	oc := &OrderController{}
	req := authedRequest(t, "PUT", "/api/orders/x", `{}`)
	req = mux.SetURLVars(req, map[string]string{"id": primitive.NewObjectID().Hex()})

	rr := httptest.NewRecorder()
	oc.UpdateOrder(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestUpdateOrderRejectsBadID(t *testing.T) {
	oc := &OrderController{}
	req := authedRequest(t, "PUT", "/api/orders/nope", `{"status": "shipped"}`)
	req = mux.SetURLVars(req, map[string]string{"id": "nope"})

	rr := httptest.NewRecorder()
	oc.UpdateOrder(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}
