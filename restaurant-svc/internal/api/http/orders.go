package httpapi

import (
	"net/http"
	"strconv"

	"urban-bites/restaurant-svc/internal/domain"
	"urban-bites/restaurant-svc/internal/service"

	"github.com/gorilla/mux"
)

func (h *Handler) createOrder(w http.ResponseWriter, r *http.Request) {
	var order domain.Order
	if !decodeBody(w, r, &order) {
		return
	}

	if err := h.Orders.Create(r.Context(), &order); err != nil {
		writeServiceError(w, r, err)
		return
	}

	order.QRCode = h.Orders.QRLink(order.ID)
	writeJSON(w, http.StatusCreated, order)
}

func (h *Handler) getOrder(w http.ResponseWriter, r *http.Request) {
	order, err := h.Orders.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	order.QRCode = h.Orders.QRLink(order.ID)
	writeJSON(w, http.StatusOK, order)
}

// getOrderHistory is the customer's own history; the gateway fills email from the identity token.
func (h *Handler) getOrderHistory(w http.ResponseWriter, r *http.Request) {
	email := r.URL.Query().Get("email")
	if email == "" {
		writeError(w, http.StatusBadRequest, "email is required", "email")
		return
	}
	orders, err := h.Orders.List(r.Context(), domain.OrderFilter{Email: email})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, orders)
}

func (h *Handler) listOrders(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	filter := domain.OrderFilter{Email: query.Get("email")}

	if raw := query.Get("active"); raw != "" {
		active, err := strconv.ParseBool(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "active must be true or false", "active")
			return
		}
		filter.Active = active
	}
	if raw := query.Get("status"); raw != "" {
		status, err := domain.ParseOrderStatus(raw)
		if err != nil {
			writeServiceError(w, r, service.ValidationError{Field: "status", Message: err.Error()})
			return
		}
		filter.Status = status
	}

	orders, err := h.Orders.List(r.Context(), filter)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, orders)
}

func (h *Handler) updateOrderStatus(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Status string `json:"status"`
	}
	if !decodeBody(w, r, &payload) {
		return
	}
	order, err := h.Orders.UpdateStatus(r.Context(), mux.Vars(r)["id"], payload.Status)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, order)
}

func (h *Handler) advanceOrder(w http.ResponseWriter, r *http.Request) {
	order, err := h.Orders.Advance(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, order)
}

func (h *Handler) getOrderQRCode(w http.ResponseWriter, r *http.Request) {
	qrCode, err := h.Orders.QRCode(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	if len(qrCode) == 0 {
		writeError(w, http.StatusNotFound, "QR code not found", "")
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "public, max-age=3600")
	w.WriteHeader(http.StatusOK)
	w.Write(qrCode)
}
