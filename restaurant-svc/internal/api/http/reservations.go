package httpapi

import (
	"net/http"
	"strconv"

	"urban-bites/restaurant-svc/internal/domain"

	"github.com/gorilla/mux"
)

func (h *Handler) createReservation(w http.ResponseWriter, r *http.Request) {
	var reservation domain.Reservation
	if !decodeBody(w, r, &reservation) {
		return
	}
	if err := h.Reservations.Create(r.Context(), &reservation); err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, reservation)
}

func (h *Handler) getReservation(w http.ResponseWriter, r *http.Request) {
	reservation, err := h.Reservations.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, reservation)
}

func (h *Handler) listReservations(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	upcoming := false
	if raw := query.Get("upcoming"); raw != "" {
		parsed, err := strconv.ParseBool(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "upcoming must be true or false", "upcoming")
			return
		}
		upcoming = parsed
	}

	reservations, err := h.Reservations.List(r.Context(), query.Get("status"), upcoming)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, reservations)
}

func (h *Handler) updateReservation(w http.ResponseWriter, r *http.Request) {
	var changes domain.Reservation
	if !decodeBody(w, r, &changes) {
		return
	}
	reservation, err := h.Reservations.Update(r.Context(), mux.Vars(r)["id"], &changes)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, reservation)
}

func (h *Handler) updateReservationStatus(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Status string `json:"status"`
	}
	if !decodeBody(w, r, &payload) {
		return
	}
	reservation, err := h.Reservations.UpdateStatus(r.Context(), mux.Vars(r)["id"], payload.Status)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, reservation)
}

func (h *Handler) cancelReservation(w http.ResponseWriter, r *http.Request) {
	reservation, err := h.Reservations.Cancel(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, reservation)
}
