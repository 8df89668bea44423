package httpapi

import (
	"net/http"

	"urban-bites/restaurant-svc/internal/domain"

	"github.com/gorilla/mux"
)

func (h *Handler) listMenu(w http.ResponseWriter, r *http.Request) {
	items, err := h.Menu.ListAvailable(r.Context(), r.URL.Query().Get("category"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (h *Handler) getMenuItem(w http.ResponseWriter, r *http.Request) {
	item, err := h.Menu.GetAvailable(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (h *Handler) listAllMenu(w http.ResponseWriter, r *http.Request) {
	items, err := h.Menu.ListAll(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (h *Handler) getAnyMenuItem(w http.ResponseWriter, r *http.Request) {
	item, err := h.Menu.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (h *Handler) createMenuItem(w http.ResponseWriter, r *http.Request) {
	item := domain.MenuItem{IsAvailable: true}
	if !decodeBody(w, r, &item) {
		return
	}
	if err := h.Menu.Create(r.Context(), &item); err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, item)
}

func (h *Handler) updateMenuItem(w http.ResponseWriter, r *http.Request) {
	var patch domain.MenuItemPatch
	if !decodeBody(w, r, &patch) {
		return
	}
	item, err := h.Menu.Update(r.Context(), mux.Vars(r)["id"], patch)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (h *Handler) setMenuItemAvailability(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		IsAvailable *bool `json:"is_available"`
	}
	if !decodeBody(w, r, &payload) {
		return
	}
	if payload.IsAvailable == nil {
		writeError(w, http.StatusBadRequest, "is_available is required", "is_available")
		return
	}
	item, err := h.Menu.SetAvailability(r.Context(), mux.Vars(r)["id"], *payload.IsAvailable)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (h *Handler) deleteMenuItem(w http.ResponseWriter, r *http.Request) {
	if err := h.Menu.Delete(r.Context(), mux.Vars(r)["id"]); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
