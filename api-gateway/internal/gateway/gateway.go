package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"urban-bites/api-gateway/internal/auth"
	"urban-bites/api-gateway/internal/cart"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

type Config struct {
	RestaurantSvcURL string
	StatsSvcURL      string
	AdminEmail       string
}

type Gateway struct {
	config   Config
	client   HTTPClient
	carts    *cart.Carts
	verifier *auth.Verifier
	limiter  *RateLimiter
	metrics  *Metrics
}

// NewGateway wires the proxy. limiter may be nil to disable rate limiting.
func NewGateway(config Config, client HTTPClient, carts *cart.Carts, verifier *auth.Verifier, limiter *RateLimiter) *Gateway {
	config.RestaurantSvcURL = strings.TrimRight(config.RestaurantSvcURL, "/")
	config.StatsSvcURL = strings.TrimRight(config.StatsSvcURL, "/")
	return &Gateway{
		config:   config,
		client:   client,
		carts:    carts,
		verifier: verifier,
		limiter:  limiter,
		metrics:  NewMetrics(),
	}
}

func (g *Gateway) Metrics() *Metrics {
	return g.metrics
}

func (g *Gateway) HealthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": "api-gateway",
	})
}

func (g *Gateway) ProxyRequest(w http.ResponseWriter, r *http.Request, targetURL string) {
	target := targetURL + r.URL.Path
	if r.URL.RawQuery != "" {
		target += "?" + r.URL.RawQuery
	}
	log.WithFields(log.Fields{"method": r.Method, "path": r.URL.Path, "target": target}).Debug("Proxying request")

	req, err := http.NewRequestWithContext(r.Context(), r.Method, target, r.Body)
	if err != nil {
		log.WithError(err).Error("Failed to create upstream request")
		writeError(w, http.StatusInternalServerError, "Failed to create upstream request", "")
		return
	}

	for k, v := range r.Header {
		req.Header[k] = v
	}

	resp, err := g.client.Do(req)
	if err != nil {
		log.WithError(err).WithField("target", targetURL).Error("Upstream request failed")
		writeError(w, http.StatusBadGateway, "Upstream service unavailable", "")
		return
	}
	defer resp.Body.Close()

	copyResponse(w, resp)
}

// RouteHandler sends every public /api route that the gateway does not serve itself to restaurant-svc.
func (g *Gateway) RouteHandler(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Path

	switch {
	case path == "/api/menu" || strings.HasPrefix(path, "/api/menu/"),
		strings.HasPrefix(path, "/api/orders"),
		path == "/api/reservations" || strings.HasPrefix(path, "/api/reservations/"):
		g.ProxyRequest(w, r, g.config.RestaurantSvcURL)
	default:
		log.WithField("path", path).Info("Unmatched API route")
		writeError(w, http.StatusNotFound, "API route not found", "")
	}
}

// AdminHandler forwards back-office routes once the caller is known to be the operator.
func (g *Gateway) AdminHandler(w http.ResponseWriter, r *http.Request) {
	if strings.HasPrefix(r.URL.Path, "/api/admin/analytics") {
		g.ProxyRequest(w, r, g.config.StatsSvcURL)
		return
	}
	g.ProxyRequest(w, r, g.config.RestaurantSvcURL)
}

func (g *Gateway) requireAdmin(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := auth.FromContext(r.Context())
		if !ok {
			writeError(w, http.StatusUnauthorized, "Sign in required", "")
			return
		}
		if g.config.AdminEmail == "" || !strings.EqualFold(id.Email, g.config.AdminEmail) {
			log.WithField("email", id.Email).Warn("Non-admin attempted back-office access")
			writeError(w, http.StatusForbidden, "Admin access required", "")
			return
		}
		next(w, r)
	}
}

// MyOrders is the signed-in customer's order history; the email always comes from the identity.
func (g *Gateway) MyOrders(w http.ResponseWriter, r *http.Request) {
	id, ok := auth.FromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Sign in to see your orders", "")
		return
	}
	r.URL.Path = "/api/orders"
	r.URL.RawQuery = url.Values{"email": {id.Email}}.Encode()
	g.ProxyRequest(w, r, g.config.RestaurantSvcURL)
}

// PlaceOrder blocks direct order creation. Orders are built from the session cart by Checkout,
// so prices and the customer email never come from the caller.
func (g *Gateway) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	if _, ok := auth.FromContext(r.Context()); !ok {
		writeError(w, http.StatusUnauthorized, "Sign in to place an order", "")
		return
	}
	w.Header().Set("Allow", http.MethodGet)
	writeError(w, http.StatusMethodNotAllowed, "Orders are placed through /api/cart/checkout", "")
}

func (g *Gateway) SetupRoutes() http.Handler {
	r := mux.NewRouter()
	r.Use(g.metrics.Middleware)
	if g.verifier != nil {
		r.Use(g.verifier.Middleware)
	}

	r.HandleFunc("/health", g.HealthCheck).Methods("GET")
	r.Handle("/metrics", g.metrics.Handler()).Methods("GET")

	r.HandleFunc("/api/cart", g.GetCart).Methods("GET")
	r.HandleFunc("/api/cart", g.ClearCart).Methods("DELETE")
	r.HandleFunc("/api/cart/items", g.AddCartItem).Methods("POST")
	r.HandleFunc("/api/cart/items/{id}", g.UpdateCartItem).Methods("PATCH")
	r.HandleFunc("/api/cart/items/{id}", g.RemoveCartItem).Methods("DELETE")
	r.HandleFunc("/api/cart/checkout", g.limiter.Wrap(g.Checkout)).Methods("POST")

	r.HandleFunc("/api/me/orders", g.MyOrders).Methods("GET")
	r.HandleFunc("/api/orders", g.MyOrders).Methods("GET")
	r.HandleFunc("/api/orders", g.PlaceOrder).Methods("POST")
	r.HandleFunc("/api/reservations", g.limiter.Wrap(g.RouteHandler)).Methods("POST")

	r.PathPrefix("/api/admin/").HandlerFunc(g.requireAdmin(g.AdminHandler))
	r.PathPrefix("/api/").HandlerFunc(g.RouteHandler)
	return r
}

// Serve runs the gateway until ctx is cancelled, then drains in-flight requests.
func Serve(ctx context.Context, addr string, handler http.Handler) error {
	server := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("API Gateway starting on %s", addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	log.Info("API Gateway shutting down")
	return server.Shutdown(shutdownCtx)
}

type errorResponse struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.WithError(err).Warn("Failed to encode response")
	}
}

func writeError(w http.ResponseWriter, status int, message, field string) {
	writeJSON(w, status, errorResponse{Error: message, Field: field})
}

func copyResponse(w http.ResponseWriter, resp *http.Response) {
	for k, v := range resp.Header {
		w.Header()[k] = v
	}
	w.WriteHeader(resp.StatusCode)
	if _, err := io.Copy(w, resp.Body); err != nil {
		log.WithError(err).Warn("Failed to copy upstream response")
	}
}
