// Package media classifies and validates gallery asset URLs.
package media

import (
	"net/url"
	"path"
	"strings"

	"github.com/are3ej/heavytrade/internal/model"
)

// DefaultOrigin is the approved media host for this deployment.
const DefaultOrigin = "res.cloudinary.com"

// videoExtensions lists recognized video file extensions (without dot).
var videoExtensions = map[string]bool{
	"mp4":  true,
	"mov":  true,
	"avi":  true,
	"webm": true,
	"mkv":  true,
}

// Classification is the result of classifying a media URL.
type Classification struct {
	Kind  model.MediaKind
	Valid bool
}

// Resolver validates media URLs against an approved origin.
type Resolver struct {
	origin string
}

// NewResolver creates a resolver for the given approved origin. An empty
// origin falls back to DefaultOrigin.
func NewResolver(origin string) *Resolver {
	if origin == "" {
		origin = DefaultOrigin
	}
	return &Resolver{origin: strings.ToLower(origin)}
}

// Classify reports whether raw is a usable media URL and what kind of asset
// it points at. It never panics; anything unparsable is an invalid image.
func (r *Resolver) Classify(raw string) Classification {
	c := Classification{Kind: model.MediaKindImage}

	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || !u.IsAbs() || u.Host == "" {
		return c
	}

	host := strings.ToLower(u.Hostname())
	if host == r.origin || strings.HasSuffix(host, "."+r.origin) {
		c.Valid = true
	}

	if videoExtensions[extension(u.Path)] {
		c.Kind = model.MediaKindVideo
	}
	return c
}

// extension returns the lowercased trailing extension of a URL path, without
// the leading dot.
func extension(p string) string {
	ext := path.Ext(p)
	if ext == "" {
		return ""
	}
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}
