package equipment

import (
	"strings"
	"time"

	"github.com/are3ej/heavytrade/internal/media"
	"github.com/are3ej/heavytrade/internal/model"
)

// Display defaults substituted for missing or invalid fields.
const (
	DefaultName        = "Unnamed Equipment"
	DefaultDescription = "No description available"

	// DefaultPlaceholderURL is served by the API from a generated image.
	DefaultPlaceholderURL = "/api/placeholder"
)

// WriteInput is the client-editable portion of an equipment record.
type WriteInput struct {
	Name        string   `json:"name"`
	Category    string   `json:"category"`
	Description string   `json:"description"`
	Media       []string `json:"media"`
}

// Sanitizer is the boundary between untyped store/feed documents and
// well-formed records. Nothing downstream reads raw documents directly.
type Sanitizer struct {
	resolver       *media.Resolver
	diag           Diagnostics
	placeholderURL string
}

// NewSanitizer creates a sanitizer. An empty placeholderURL falls back to
// DefaultPlaceholderURL.
func NewSanitizer(resolver *media.Resolver, diag Diagnostics, placeholderURL string) *Sanitizer {
	if placeholderURL == "" {
		placeholderURL = DefaultPlaceholderURL
	}
	if diag == nil {
		diag = NopDiagnostics{}
	}
	return &Sanitizer{resolver: resolver, diag: diag, placeholderURL: placeholderURL}
}

// ValidateForWrite checks input strictly, returning a record holding only the
// client-editable fields. It fails with *InvalidRecordError naming the first
// missing or invalid field.
func (s *Sanitizer) ValidateForWrite(in WriteInput) (model.Equipment, error) {
	var rec model.Equipment

	name := strings.TrimSpace(in.Name)
	if len([]rune(name)) < 2 {
		return rec, &InvalidRecordError{Field: "name", Reason: "must be at least 2 characters"}
	}

	category := strings.TrimSpace(in.Category)
	if category == "" {
		return rec, &InvalidRecordError{Field: "category", Reason: "is required"}
	}

	var refs []model.MediaReference
	for _, raw := range in.Media {
		url := strings.TrimSpace(raw)
		c := s.resolver.Classify(url)
		if !c.Valid {
			continue
		}
		refs = append(refs, model.MediaReference{URL: url, Kind: c.Kind})
	}
	if len(refs) == 0 {
		return rec, &InvalidRecordError{Field: "media", Reason: "needs at least one approved media URL"}
	}

	rec.Name = name
	rec.Category = category
	rec.Description = strings.TrimSpace(in.Description)
	rec.Media = refs
	return rec, nil
}

// SanitizeForDisplay converts an arbitrary stored document into a renderable
// record. It never fails: missing or invalid fields are replaced with
// defaults and the repairs reported to the diagnostics collaborator.
func (s *Sanitizer) SanitizeForDisplay(id string, raw map[string]any) model.Equipment {
	rec, repairs := s.sanitize(id, raw)
	if len(repairs) > 0 {
		s.diag.Event("equipment.display_defaults", map[string]any{
			"id":     id,
			"fields": strings.Join(repairs, ","),
		})
	}
	return rec
}

// SanitizeSoldForDisplay is SanitizeForDisplay for documents in the sold
// collection, additionally extracting the sale fields.
func (s *Sanitizer) SanitizeSoldForDisplay(id string, raw map[string]any) model.SoldEquipment {
	rec, repairs := s.sanitize(id, raw)

	sold := model.SoldEquipment{Equipment: rec}
	sold.SoldAt = timeField(raw, "sold_at", "soldAt")
	sold.SoldNotes = stringField(raw, "sold_notes", "soldNotes")

	if price, ok := floatField(raw, "sold_price", "soldPrice"); ok {
		if price >= 0 {
			sold.SoldPrice = &price
		} else {
			repairs = append(repairs, "sold_price")
		}
	}

	if len(repairs) > 0 {
		s.diag.Event("equipment.display_defaults", map[string]any{
			"id":     id,
			"fields": strings.Join(repairs, ","),
		})
	}
	return sold
}

func (s *Sanitizer) sanitize(id string, raw map[string]any) (model.Equipment, []string) {
	var repairs []string

	rec := model.Equipment{ID: id}

	rec.Name = strings.TrimSpace(stringField(raw, "name"))
	if rec.Name == "" {
		rec.Name = DefaultName
		repairs = append(repairs, "name")
	}

	rec.Category = strings.TrimSpace(stringField(raw, "category"))

	rec.Description = strings.TrimSpace(stringField(raw, "description"))
	if rec.Description == "" {
		rec.Description = DefaultDescription
		repairs = append(repairs, "description")
	}

	rec.Media = s.sanitizeMedia(raw)
	if len(rec.Media) == 0 {
		rec.Media = []model.MediaReference{{URL: s.placeholderURL, Kind: model.MediaKindImage}}
		repairs = append(repairs, "media")
	}

	rec.CreatedAt = timeField(raw, "created_at", "createdAt")
	rec.UpdatedAt = timeField(raw, "updated_at", "updatedAt")
	rec.CreatedBy = stringField(raw, "created_by", "createdBy")
	rec.UpdatedBy = stringField(raw, "updated_by", "updatedBy")

	return rec, repairs
}

// sanitizeMedia coerces the media list, accepting bare URL strings or
// {url: ...} objects under either the "media" or the legacy "images" key,
// and drops entries the resolver rejects.
func (s *Sanitizer) sanitizeMedia(raw map[string]any) []model.MediaReference {
	var entries []any
	for _, key := range []string{"media", "images"} {
		if list, ok := raw[key].([]any); ok {
			entries = list
			break
		}
	}

	var refs []model.MediaReference
	for _, entry := range entries {
		url := ""
		switch v := entry.(type) {
		case string:
			url = v
		case map[string]any:
			url = stringField(v, "url")
		}

		url = strings.TrimSpace(url)
		c := s.resolver.Classify(url)
		if !c.Valid {
			continue
		}
		refs = append(refs, model.MediaReference{URL: url, Kind: c.Kind})
	}
	return refs
}

// stringField returns the first of the named fields that holds a string.
func stringField(raw map[string]any, keys ...string) string {
	for _, key := range keys {
		if v, ok := raw[key].(string); ok {
			return v
		}
	}
	return ""
}

// floatField returns the first of the named fields that holds a number.
func floatField(raw map[string]any, keys ...string) (float64, bool) {
	for _, key := range keys {
		if v, ok := raw[key].(float64); ok {
			return v, true
		}
	}
	return 0, false
}

// timeField parses the first of the named fields as an RFC 3339 timestamp,
// returning the zero time when absent or malformed.
func timeField(raw map[string]any, keys ...string) time.Time {
	for _, key := range keys {
		v, ok := raw[key].(string)
		if !ok {
			continue
		}
		if ts, err := time.Parse(time.RFC3339, v); err == nil {
			return ts
		}
	}
	return time.Time{}
}
