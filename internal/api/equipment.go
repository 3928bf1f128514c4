package api

import (
	"net/http"
	"strconv"

	"github.com/are3ej/heavytrade/internal/equipment"
	"github.com/are3ej/heavytrade/internal/gallery"
)

// EquipmentHandler handles the admin-facing equipment lifecycle and the
// public single-record reads.
type EquipmentHandler struct {
	Repo *equipment.Repository
}

// Create handles POST /api/equipment.
func (h *EquipmentHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in equipment.WriteInput
	if err := decodeJSON(r, &in); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	id, err := h.Repo.Create(r.Context(), in)
	if err != nil {
		repositoryError(w, err)
		return
	}
	jsonResponse(w, http.StatusCreated, map[string]string{"id": id})
}

// Get handles GET /api/equipment/{id}.
func (h *EquipmentHandler) Get(w http.ResponseWriter, r *http.Request) {
	rec, err := h.Repo.GetByID(r.Context(), r.PathValue("id"))
	if err != nil {
		repositoryError(w, err)
		return
	}
	jsonResponse(w, http.StatusOK, rec)
}

// Update handles PUT /api/equipment/{id}.
func (h *EquipmentHandler) Update(w http.ResponseWriter, r *http.Request) {
	var in equipment.WriteInput
	if err := decodeJSON(r, &in); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.Repo.Update(r.Context(), r.PathValue("id"), in); err != nil {
		repositoryError(w, err)
		return
	}
	jsonResponse(w, http.StatusOK, map[string]string{"message": "equipment updated"})
}

// Delete handles DELETE /api/equipment/{id}.
func (h *EquipmentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.Repo.Delete(r.Context(), r.PathValue("id")); err != nil {
		repositoryError(w, err)
		return
	}
	jsonResponse(w, http.StatusOK, map[string]string{"message": "equipment deleted"})
}

// Sell handles POST /api/equipment/{id}/sell, moving the record into the
// sold collection.
func (h *EquipmentHandler) Sell(w http.ResponseWriter, r *http.Request) {
	var in equipment.SoldInput
	if err := decodeJSON(r, &in); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.Repo.MarkAsSold(r.Context(), r.PathValue("id"), in); err != nil {
		repositoryError(w, err)
		return
	}
	jsonResponse(w, http.StatusOK, map[string]string{"message": "equipment marked as sold"})
}

// Return handles POST /api/sold/{id}/return, moving a sold record back to
// the available collection.
func (h *EquipmentHandler) Return(w http.ResponseWriter, r *http.Request) {
	if err := h.Repo.ReturnToAvailable(r.Context(), r.PathValue("id")); err != nil {
		repositoryError(w, err)
		return
	}
	jsonResponse(w, http.StatusOK, map[string]string{"message": "equipment returned to available"})
}

// ListSold handles GET /api/sold.
func (h *EquipmentHandler) ListSold(w http.ResponseWriter, r *http.Request) {
	records, err := h.Repo.ListSold(r.Context())
	if err != nil {
		repositoryError(w, err)
		return
	}
	jsonResponse(w, http.StatusOK, map[string]any{"equipment": records})
}

// Gallery handles GET /api/equipment/{id}/gallery, returning the ordered
// lightbox slide sequence for a record.
func (h *EquipmentHandler) Gallery(w http.ResponseWriter, r *http.Request) {
	rec, err := h.Repo.GetByID(r.Context(), r.PathValue("id"))
	if err != nil {
		repositoryError(w, err)
		return
	}

	start := 0
	if raw := r.URL.Query().Get("start"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil {
			start = n
		}
	}

	session := gallery.Open(rec, start)
	jsonResponse(w, http.StatusOK, map[string]any{
		"slides": session.Slides(),
		"index":  session.CurrentIndex(),
	})
}
