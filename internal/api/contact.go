package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/are3ej/heavytrade/internal/docstore"
)

// CollectionContactMessages holds inbound contact form submissions.
const CollectionContactMessages = "contact_messages"

// ContactHandler accepts contact form submissions from the public site.
type ContactHandler struct {
	Store docstore.Store
}

type contactInput struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Message string `json:"message"`
}

// Submit handles POST /api/contact.
func (h *ContactHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var in contactInput
	if err := decodeJSON(r, &in); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)
	in.Message = strings.TrimSpace(in.Message)

	switch {
	case in.Name == "":
		jsonError(w, http.StatusBadRequest, "name is required")
		return
	case in.Email == "" || !strings.Contains(in.Email, "@"):
		jsonError(w, http.StatusBadRequest, "a valid email is required")
		return
	case in.Message == "":
		jsonError(w, http.StatusBadRequest, "message is required")
		return
	}

	id, err := h.Store.Insert(r.Context(), CollectionContactMessages, map[string]any{
		"name":       in.Name,
		"email":      in.Email,
		"phone":      strings.TrimSpace(in.Phone),
		"message":    in.Message,
		"receivedAt": time.Now().UTC().Format(time.RFC3339),
		"processed":  false,
	})
	if err != nil {
		jsonError(w, http.StatusServiceUnavailable, "could not record message, try again later")
		return
	}

	jsonResponse(w, http.StatusCreated, map[string]string{"id": id})
}
