package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"urban-bites/api-gateway/internal/auth"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadSettings_Defaults(t *testing.T) {
	t.Setenv("RESTAURANT_SVC_URL", "")
	t.Setenv("RATE_LIMIT_PER_SEC", "not-a-number")
	t.Setenv("RATE_LIMIT_BURST", "3")
	t.Setenv("ADMIN_EMAIL", "chef@urbanbites.test")

	s := loadSettings()

	assert.Equal(t, "http://localhost:8081", s.Gateway.RestaurantSvcURL)
	assert.Equal(t, "chef@urbanbites.test", s.Gateway.AdminEmail)
	assert.Equal(t, 1.0, s.RatePerSecond)
	assert.Equal(t, 3, s.RateBurst)
}

// TestCheckoutEndToEnd drives the wired gateway against a fake restaurant-svc.
func TestCheckoutEndToEnd(t *testing.T) {
	var placed map[string]interface{}
	var placedBy string
	restaurant := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/api/menu/m1":
			w.Write([]byte(`{"id":"m1","name":"Truffle Burger","price":"18.50","is_available":true}`))
		case r.Method == http.MethodPost && r.URL.Path == "/api/orders":
			placedBy = r.Header.Get(auth.HeaderUserEmail)
			json.NewDecoder(r.Body).Decode(&placed)
			w.WriteHeader(http.StatusCreated)
			w.Write([]byte(`{"id":"o1","status":"PENDING"}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer restaurant.Close()

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()

	s := settings{
		IdentitySecret: "e2e-secret",
		RatePerSecond:  100,
		RateBurst:      100,
		AllowedOrigins: []string{"*"},
	}
	s.Gateway.RestaurantSvcURL = restaurant.URL
	handler := buildHandler(s, rdb, restaurant.Client())

	token, err := auth.NewVerifier("e2e-secret").Issue(auth.Identity{Email: "ana@example.com", Name: "Ana"}, time.Hour)
	require.NoError(t, err)

	add := httptest.NewRequest(http.MethodPost, "/api/cart/items", strings.NewReader(`{"menu_item_id":"m1"}`))
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, add)
	require.Equal(t, http.StatusOK, rr.Code)
	cookies := rr.Result().Cookies()
	require.NotEmpty(t, cookies)

	checkout := httptest.NewRequest(http.MethodPost, "/api/cart/checkout", nil)
	checkout.AddCookie(cookies[0])
	checkout.Header.Set("Authorization", "Bearer "+token)
	rr = httptest.NewRecorder()
	handler.ServeHTTP(rr, checkout)

	require.Equal(t, http.StatusCreated, rr.Code)
	assert.Equal(t, "ana@example.com", placedBy)
	assert.Equal(t, "Ana", placed["customer_name"])
	items := placed["items"].([]interface{})
	require.Len(t, items, 1)
	assert.Equal(t, 18.5, items[0].(map[string]interface{})["price"])

	view := httptest.NewRequest(http.MethodGet, "/api/cart", nil)
	view.AddCookie(cookies[0])
	rr = httptest.NewRecorder()
	handler.ServeHTTP(rr, view)
	assert.Contains(t, rr.Body.String(), `"item_count":0`)
}
