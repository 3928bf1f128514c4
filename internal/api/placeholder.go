package api

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/are3ej/heavytrade/internal/imaging"
)

// Placeholder handles GET /api/placeholder, serving the generated stand-in
// image used for records without usable media. Dimensions come from the
// w and h query parameters.
func Placeholder(w http.ResponseWriter, r *http.Request) {
	width := queryDimension(r, "w", imaging.DefaultWidth)
	height := queryDimension(r, "h", imaging.DefaultHeight)

	img, err := imaging.Placeholder(width, height)
	if err != nil {
		slog.Error("failed to render placeholder image", "error", err)
		jsonError(w, http.StatusInternalServerError, "could not render placeholder")
		return
	}

	w.Header().Set("Content-Type", "image/jpeg")
	w.Header().Set("Cache-Control", "public, max-age=86400")
	if _, err := w.Write(img); err != nil {
		slog.Debug("failed to write placeholder image", "error", err)
	}
}

func queryDimension(r *http.Request, key string, fallback int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return n
}
