package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"urban-bites/stats-svc/internal/service"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

type Handler struct {
	Stats      service.StatsInterface
	AdminEmail string
}

func NewHandler(stats service.StatsInterface, adminEmail string) *Handler {
	return &Handler{Stats: stats, AdminEmail: adminEmail}
}

func (h *Handler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "healthy", "service": "stats-svc"})
	}).Methods("GET")

	admin := r.PathPrefix("/api/admin/analytics").Subrouter()
	admin.Use(h.requireAdmin)
	admin.HandleFunc("/daily", h.getDaily).Methods("GET")
	admin.HandleFunc("/popular", h.getPopular).Methods("GET")
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

func (h *Handler) getDaily(w http.ResponseWriter, r *http.Request) {
	stats, err := h.Stats.Daily(r.Context(), r.URL.Query().Get("date"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (h *Handler) getPopular(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "limit must be a number", "limit")
			return
		}
		limit = parsed
	}

	items, err := h.Stats.Popular(r.Context(), r.URL.Query().Get("date"), limit)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
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

func writeServiceError(w http.ResponseWriter, err error) {
	var validation service.ValidationError
	if errors.As(err, &validation) {
		writeError(w, http.StatusBadRequest, validation.Message, validation.Field)
		return
	}
	log.WithError(err).Error("Stats request failed")
	writeError(w, http.StatusInternalServerError, "internal error", "")
}
