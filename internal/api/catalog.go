package api

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/are3ej/heavytrade/internal/catalog"
	"github.com/are3ej/heavytrade/internal/feed"
	"github.com/are3ej/heavytrade/internal/model"
)

// CatalogHandler serves the public browsing surface: the paginated
// equipment listing, the category list, and the sold archive.
type CatalogHandler struct {
	VM       *catalog.ViewModel
	Feed     *feed.Client // optional fallback source, may be nil
	PageSize int
}

// List handles GET /api/equipment. The listing is refreshed from the store
// on every request; when the store is unreachable a previously loaded
// listing is served stale, and the static feed covers a cold start.
func (h *CatalogHandler) List(w http.ResponseWriter, r *http.Request) {
	var records []model.Equipment
	switch err := h.VM.Refresh(r.Context()); {
	case err == nil:
		records = h.VM.Snapshot()
	case h.VM.Loaded():
		slog.Warn("serving stale equipment listing", "error", err)
		records = h.VM.Snapshot()
	default:
		fetched, ferr := h.fallback(r)
		if ferr != nil {
			slog.Warn("catalog unavailable", "error", err, "fallback_error", ferr)
			jsonError(w, http.StatusServiceUnavailable, "equipment listing is temporarily unavailable")
			return
		}
		records = fetched
	}

	filtered := catalog.Filter(records, r.URL.Query().Get("category"))

	page := 1
	if raw := r.URL.Query().Get("page"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil {
			page = n
		}
	}

	jsonResponse(w, http.StatusOK, map[string]any{
		"equipment": catalog.Paginate(filtered, page, h.PageSize),
		"total":     len(filtered),
		"page":      page,
		"page_size": h.PageSize,
	})
}

// Categories handles GET /api/categories.
func (h *CatalogHandler) Categories(w http.ResponseWriter, r *http.Request) {
	jsonResponse(w, http.StatusOK, map[string]any{
		"categories": append([]string{catalog.AllCategories}, model.Categories...),
	})
}

func (h *CatalogHandler) fallback(r *http.Request) ([]model.Equipment, error) {
	if h.Feed == nil {
		return nil, feed.ErrNoFeed
	}
	return h.Feed.Fetch(r.Context())
}
