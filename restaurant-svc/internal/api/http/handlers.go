package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"urban-bites/restaurant-svc/internal/domain"
	"urban-bites/restaurant-svc/internal/service"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

type Handler struct {
	Menu         service.MenuServiceInterface
	Orders       service.OrderServiceInterface
	Reservations service.ReservationServiceInterface
	Dashboard    service.DashboardServiceInterface
	AdminEmail   string
}

func NewHandler(menu service.MenuServiceInterface, orders service.OrderServiceInterface, reservations service.ReservationServiceInterface, dashboard service.DashboardServiceInterface, adminEmail string) *Handler {
	return &Handler{
		Menu:         menu,
		Orders:       orders,
		Reservations: reservations,
		Dashboard:    dashboard,
		AdminEmail:   adminEmail,
	}
}

func (h *Handler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/health", h.healthCheck).Methods("GET")

	r.HandleFunc("/api/menu", h.listMenu).Methods("GET")
	r.HandleFunc("/api/menu/{id}", h.getMenuItem).Methods("GET")

	r.HandleFunc("/api/orders", h.createOrder).Methods("POST")
	r.HandleFunc("/api/orders", h.getOrderHistory).Methods("GET")
	r.HandleFunc("/api/orders/{id}", h.getOrder).Methods("GET")
	r.HandleFunc("/api/orders/{id}/qrcode", h.getOrderQRCode).Methods("GET")

	r.HandleFunc("/api/reservations", h.createReservation).Methods("POST")
	r.HandleFunc("/api/reservations/{id}", h.getReservation).Methods("GET")

	admin := r.PathPrefix("/api/admin").Subrouter()
	admin.Use(h.requireAdmin)

	admin.HandleFunc("/stats", h.getDashboardStats).Methods("GET")

	admin.HandleFunc("/menu", h.listAllMenu).Methods("GET")
	admin.HandleFunc("/menu", h.createMenuItem).Methods("POST")
	admin.HandleFunc("/menu/{id}", h.getAnyMenuItem).Methods("GET")
	admin.HandleFunc("/menu/{id}", h.updateMenuItem).Methods("PATCH")
	admin.HandleFunc("/menu/{id}", h.deleteMenuItem).Methods("DELETE")
	admin.HandleFunc("/menu/{id}/availability", h.setMenuItemAvailability).Methods("PATCH")

	admin.HandleFunc("/orders", h.listOrders).Methods("GET")
	admin.HandleFunc("/orders/{id}", h.updateOrderStatus).Methods("PATCH")
	admin.HandleFunc("/orders/{id}/advance", h.advanceOrder).Methods("POST")

	admin.HandleFunc("/reservations", h.listReservations).Methods("GET")
	admin.HandleFunc("/reservations/{id}", h.getReservation).Methods("GET")
	admin.HandleFunc("/reservations/{id}", h.updateReservation).Methods("PUT")
	admin.HandleFunc("/reservations/{id}", h.updateReservationStatus).Methods("PATCH")
	admin.HandleFunc("/reservations/{id}", h.cancelReservation).Methods("DELETE")
}

// requireAdmin trusts X-User-Email, which the gateway sets from a verified identity token.
func (h *Handler) requireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		email := strings.TrimSpace(r.Header.Get("X-User-Email"))
		if email == "" {
			writeError(w, http.StatusUnauthorized, "sign in required", "")
			return
		}
		if h.AdminEmail == "" || !strings.EqualFold(email, h.AdminEmail) {
			writeError(w, http.StatusForbidden, "admin access required", "")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (h *Handler) healthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"service":   "restaurant-svc",
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

func (h *Handler) getDashboardStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.Dashboard.Stats(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

type errorResponse struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message, field string) {
	writeJSON(w, status, errorResponse{Error: message, Field: field})
}

func decodeBody(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON format: "+err.Error(), "")
		return false
	}
	return true
}

func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var validation service.ValidationError
	switch {
	case errors.As(err, &validation):
		writeError(w, http.StatusBadRequest, validation.Message, validation.Field)
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error(), "")
	case errors.Is(err, domain.ErrIllegalTransition):
		writeError(w, http.StatusConflict, err.Error(), "")
	case errors.Is(err, domain.ErrUnknownStatus):
		writeError(w, http.StatusBadRequest, err.Error(), "status")
	default:
		log.WithError(err).WithFields(log.Fields{"method": r.Method, "path": r.URL.Path}).Error("Request failed")
		writeError(w, http.StatusInternalServerError, "internal error", "")
	}
}
