package middleware

import (
	"medirural/models"
	"medirural/utils"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tokenFor(t *testing.T, role string) string {
	t.Helper()
	token, err := utils.GenerateJWT("66a1b2c3d4e5f6a7b8c9d0e1", "user@example.com", role)
	require.NoError(t, err)
	return token
}

func TestAuthMiddlewareAttachesClaims(t *testing.T) {
	var got *utils.Claims
	handler := AuthMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = r.Context().Value(UserContextKey).(*utils.Claims)
	}))

	req := httptest.NewRequest("GET", "/api/orders", nil)
	req.Header.Set("Authorization", "Bearer "+tokenFor(t, models.RoleUser))
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	require.NotNil(t, got)
	assert.Equal(t, "66a1b2c3d4e5f6a7b8c9d0e1", got.UserID)
	assert.Equal(t, models.RoleUser, got.Role)
}

func TestAuthMiddlewareRejectsMissingHeader(t *testing.T) {
	handler := AuthMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not be reached")
	}))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest("GET", "/api/orders", nil))

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestAuthMiddlewareRejectsGarbageToken(t *testing.T) {
	handler := AuthMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not be reached")
	}))

	req := httptest.NewRequest("GET", "/api/orders", nil)
	req.Header.Set("Authorization", "Bearer not.a.token")
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestAdminMiddlewareBlocksNonAdmins(t *testing.T) {
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})
	handler := AuthMiddleware(AdminMiddleware(inner))

	for role, want := range map[string]int{
		models.RoleAdmin:    http.StatusOK,
		models.RoleSupplier: http.StatusForbidden,
		models.RoleUser:     http.StatusForbidden,
	} {
		req := httptest.NewRequest("POST", "/api/medicines", nil)
		req.Header.Set("Authorization", "Bearer "+tokenFor(t, role))
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)
		assert.Equal(t, want, rr.Code, role)
	}
}

func TestStaffMiddlewareAllowsAdminAndSupplier(t *testing.T) {
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})
	handler := AuthMiddleware(StaffMiddleware(inner))

	for role, want := range map[string]int{
		models.RoleAdmin:    http.StatusOK,
		models.RoleSupplier: http.StatusOK,
		models.RoleUser:     http.StatusForbidden,
	} {
		req := httptest.NewRequest("PUT", "/api/orders/abc", nil)
		req.Header.Set("Authorization", "Bearer "+tokenFor(t, role))
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)
		assert.Equal(t, want, rr.Code, role)
	}
}
