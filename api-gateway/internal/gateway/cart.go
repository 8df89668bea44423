package gateway

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strings"

	"urban-bites/api-gateway/internal/auth"
	"urban-bites/api-gateway/internal/cart"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

const SessionCookie = "cart_session"

// menuItem is the part of restaurant-svc's menu item the cart snapshots.
type menuItem struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Price       decimal.Decimal `json:"price"`
	Image       string          `json:"image"`
	IsAvailable bool            `json:"is_available"`
}

type orderItemRequest struct {
	MenuItemID string          `json:"menu_item_id"`
	Name       string          `json:"name"`
	Quantity   int             `json:"quantity"`
	Price      decimal.Decimal `json:"price"`
}

type orderRequest struct {
	CustomerName  string             `json:"customer_name"`
	CustomerEmail string             `json:"customer_email"`
	CustomerPhone string             `json:"customer_phone,omitempty"`
	Items         []orderItemRequest `json:"items"`
}

type checkoutRequest struct {
	CustomerName  string `json:"customer_name"`
	CustomerPhone string `json:"customer_phone"`
}

// session returns the caller's cart session id, issuing a new cookie when there is none.
func session(w http.ResponseWriter, r *http.Request) string {
	if c, err := r.Cookie(SessionCookie); err == nil {
		if _, err := uuid.Parse(c.Value); err == nil {
			return c.Value
		}
	}
	id := uuid.NewString()
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    id,
		Path:     "/",
		MaxAge:   int(cart.DefaultTTL.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return id
}

func (g *Gateway) GetCart(w http.ResponseWriter, r *http.Request) {
	state, err := g.carts.Load(r.Context(), session(w, r))
	if err != nil {
		log.WithError(err).Error("Failed to load cart")
		writeError(w, http.StatusServiceUnavailable, "Cart storage unavailable", "")
		return
	}
	writeJSON(w, http.StatusOK, state.View())
}

func (g *Gateway) AddCartItem(w http.ResponseWriter, r *http.Request) {
	var body struct {
		MenuItemID string `json:"menu_item_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON format: "+err.Error(), "")
		return
	}
	body.MenuItemID = strings.TrimSpace(body.MenuItemID)
	if body.MenuItemID == "" {
		writeError(w, http.StatusBadRequest, "menu_item_id is required", "menu_item_id")
		return
	}

	item, status, message := g.fetchMenuItem(r, body.MenuItemID)
	if item == nil {
		writeError(w, status, message, "")
		return
	}

	g.apply(w, r, cart.AddItem{Item: cart.Item{
		ID:    item.ID,
		Name:  item.Name,
		Price: item.Price,
		Image: item.Image,
	}})
}

func (g *Gateway) UpdateCartItem(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Quantity *int `json:"quantity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON format: "+err.Error(), "")
		return
	}
	if body.Quantity == nil {
		writeError(w, http.StatusBadRequest, "quantity is required", "quantity")
		return
	}
	g.apply(w, r, cart.UpdateQuantity{ID: mux.Vars(r)["id"], Quantity: *body.Quantity})
}

func (g *Gateway) RemoveCartItem(w http.ResponseWriter, r *http.Request) {
	g.apply(w, r, cart.RemoveItem{ID: mux.Vars(r)["id"]})
}

func (g *Gateway) ClearCart(w http.ResponseWriter, r *http.Request) {
	g.apply(w, r, cart.ClearCart{})
}

func (g *Gateway) apply(w http.ResponseWriter, r *http.Request, action cart.Action) {
	state, err := g.carts.Apply(r.Context(), session(w, r), action)
	if err != nil {
		log.WithError(err).Error("Failed to update cart")
		writeError(w, http.StatusServiceUnavailable, "Cart storage unavailable", "")
		return
	}
	writeJSON(w, http.StatusOK, state.View())
}

// Checkout turns the session cart into an order. The cart is only cleared once the order exists.
func (g *Gateway) Checkout(w http.ResponseWriter, r *http.Request) {
	id, ok := auth.FromContext(r.Context())
	if !ok {
		g.metrics.recordCheckout("unauthenticated")
		writeError(w, http.StatusUnauthorized, "Sign in to place an order", "")
		return
	}

	var body checkoutRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "Invalid JSON format: "+err.Error(), "")
		return
	}

	sessionID := session(w, r)
	state, err := g.carts.Load(r.Context(), sessionID)
	if err != nil {
		g.metrics.recordCheckout("storage_error")
		log.WithError(err).Error("Checkout could not read the cart")
		writeError(w, http.StatusServiceUnavailable, "Cart storage unavailable", "")
		return
	}
	if state.IsEmpty() {
		g.metrics.recordCheckout("empty")
		writeError(w, http.StatusBadRequest, "Cart is empty", "items")
		return
	}

	order := orderRequest{
		CustomerName:  strings.TrimSpace(body.CustomerName),
		CustomerEmail: id.Email,
		CustomerPhone: strings.TrimSpace(body.CustomerPhone),
	}
	if order.CustomerName == "" {
		order.CustomerName = id.Name
	}
	for _, item := range state.Items() {
		order.Items = append(order.Items, orderItemRequest{
			MenuItemID: item.ID,
			Name:       item.Name,
			Quantity:   item.Quantity,
			Price:      item.Price,
		})
	}

	payload, err := json.Marshal(order)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to encode order", "")
		return
	}
	req, err := http.NewRequestWithContext(r.Context(), http.MethodPost, g.config.RestaurantSvcURL+"/api/orders", bytes.NewReader(payload))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to create upstream request", "")
		return
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(auth.HeaderUserEmail, id.Email)

	resp, err := g.client.Do(req)
	if err != nil {
		g.metrics.recordCheckout("upstream_error")
		log.WithError(err).Error("Checkout could not reach restaurant-svc")
		writeError(w, http.StatusBadGateway, "Upstream service unavailable", "")
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusCreated {
		g.metrics.recordCheckout("placed")
		if err := g.carts.Clear(r.Context(), sessionID); err != nil {
			log.WithError(err).WithField("session", sessionID).Warn("Order placed but cart could not be cleared")
		}
	} else {
		g.metrics.recordCheckout("rejected")
		log.WithField("status", resp.StatusCode).Info("Checkout rejected by restaurant-svc, cart kept")
	}
	copyResponse(w, resp)
}

// fetchMenuItem snapshots a currently available menu item from restaurant-svc.
// On failure the item is nil and status/message describe the response to send.
func (g *Gateway) fetchMenuItem(r *http.Request, id string) (*menuItem, int, string) {
	target := g.config.RestaurantSvcURL + "/api/menu/" + url.PathEscape(id)
	req, err := http.NewRequestWithContext(r.Context(), http.MethodGet, target, nil)
	if err != nil {
		return nil, http.StatusInternalServerError, "Failed to create upstream request"
	}

	resp, err := g.client.Do(req)
	if err != nil {
		log.WithError(err).Error("Menu lookup failed")
		return nil, http.StatusBadGateway, "Upstream service unavailable"
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, http.StatusNotFound, "Menu item not available"
	case resp.StatusCode != http.StatusOK:
		return nil, http.StatusBadGateway, "Menu lookup failed"
	}

	var item menuItem
	if err := json.NewDecoder(resp.Body).Decode(&item); err != nil {
		return nil, http.StatusBadGateway, "Malformed menu item"
	}
	if !item.IsAvailable {
		return nil, http.StatusNotFound, "Menu item not available"
	}
	return &item, http.StatusOK, ""
}
