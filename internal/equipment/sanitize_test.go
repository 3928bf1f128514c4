package equipment

import (
	"errors"
	"testing"

	"github.com/are3ej/heavytrade/internal/media"
	"github.com/are3ej/heavytrade/internal/model"
)

func newTestSanitizer() *Sanitizer {
	return NewSanitizer(media.NewResolver(""), NopDiagnostics{}, "")
}

func TestSanitizeForDisplayTotality(t *testing.T) {
	s := newTestSanitizer()

	inputs := map[string]map[string]any{
		"nil":     nil,
		"empty":   {},
		"partial": {"name": "  ", "media": []any{"not a url", 42}},
		"wrong types": {
			"name":        7,
			"description": []any{"x"},
			"media":       "https://res.cloudinary.com/a.jpg",
		},
	}

	for label, raw := range inputs {
		rec := s.SanitizeForDisplay("id-1", raw)
		if rec.Name == "" {
			t.Errorf("%s: expected non-empty name", label)
		}
		if len(rec.Media) == 0 {
			t.Errorf("%s: expected non-empty media", label)
		}
		if rec.Description == "" {
			t.Errorf("%s: expected non-empty description", label)
		}
	}
}

func TestSanitizeForDisplayDefaults(t *testing.T) {
	s := newTestSanitizer()

	rec := s.SanitizeForDisplay("id-1", map[string]any{})
	if rec.Name != DefaultName {
		t.Errorf("expected default name, got %q", rec.Name)
	}
	if rec.Description != DefaultDescription {
		t.Errorf("expected default description, got %q", rec.Description)
	}
	if len(rec.Media) != 1 || rec.Media[0].URL != DefaultPlaceholderURL {
		t.Errorf("expected placeholder media, got %v", rec.Media)
	}
}

func TestSanitizeMediaCoercion(t *testing.T) {
	s := newTestSanitizer()

	rec := s.SanitizeForDisplay("id-1", map[string]any{
		"name": "Cat D6",
		"media": []any{
			"https://res.cloudinary.com/demo/dozer.jpg",
			map[string]any{"url": "https://res.cloudinary.com/demo/clip.mp4"},
			"https://evil.example.com/a.jpg",
			map[string]any{"href": "missing url key"},
		},
	})

	if len(rec.Media) != 2 {
		t.Fatalf("expected 2 media entries, got %d", len(rec.Media))
	}
	if rec.Media[0].Kind != model.MediaKindImage {
		t.Errorf("expected first entry to be an image, got %s", rec.Media[0].Kind)
	}
	if rec.Media[1].Kind != model.MediaKindVideo {
		t.Errorf("expected second entry to be a video, got %s", rec.Media[1].Kind)
	}
}

func TestSanitizeLegacyImagesKey(t *testing.T) {
	s := newTestSanitizer()

	rec := s.SanitizeForDisplay("id-1", map[string]any{
		"name":   "Komatsu PC200",
		"images": []any{map[string]any{"url": "https://res.cloudinary.com/demo/a.jpg"}},
	})
	if len(rec.Media) != 1 || rec.Media[0].URL != "https://res.cloudinary.com/demo/a.jpg" {
		t.Errorf("expected legacy images key to be read, got %v", rec.Media)
	}
}

func TestValidateForWrite(t *testing.T) {
	s := newTestSanitizer()
	validMedia := []string{"https://res.cloudinary.com/demo/a.jpg"}

	cases := []struct {
		label string
		in    WriteInput
		field string
	}{
		{"empty name", WriteInput{Name: "", Category: "Dozer", Media: validMedia}, "name"},
		{"one char name", WriteInput{Name: " X ", Category: "Dozer", Media: validMedia}, "name"},
		{"empty category", WriteInput{Name: "Cat D6", Category: "  ", Media: validMedia}, "category"},
		{"no media", WriteInput{Name: "Cat D6", Category: "Dozer", Media: nil}, "media"},
		{"only invalid media", WriteInput{Name: "Cat D6", Category: "Dozer", Media: []string{"https://evil.example.com/a.jpg"}}, "media"},
	}

	for _, tc := range cases {
		_, err := s.ValidateForWrite(tc.in)
		var ire *InvalidRecordError
		if !errors.As(err, &ire) {
			t.Errorf("%s: expected InvalidRecordError, got %v", tc.label, err)
			continue
		}
		if ire.Field != tc.field {
			t.Errorf("%s: expected field %q, got %q", tc.label, tc.field, ire.Field)
		}
	}

	rec, err := s.ValidateForWrite(WriteInput{
		Name:     "  Cat D6  ",
		Category: "Dozer",
		Media:    validMedia,
	})
	if err != nil {
		t.Fatalf("expected valid input to pass, got %v", err)
	}
	if rec.Name != "Cat D6" {
		t.Errorf("expected trimmed name, got %q", rec.Name)
	}
	if len(rec.Media) != 1 {
		t.Errorf("expected 1 media reference, got %d", len(rec.Media))
	}
}

func TestSanitizeSoldDropsNegativePrice(t *testing.T) {
	s := newTestSanitizer()

	sold := s.SanitizeSoldForDisplay("id-1", map[string]any{
		"name":       "Cat D6",
		"sold_price": -100.0,
		"sold_at":    "2025-06-01T12:00:00Z",
	})
	if sold.SoldPrice != nil {
		t.Errorf("expected negative price to be dropped, got %v", *sold.SoldPrice)
	}
	if sold.SoldAt.IsZero() {
		t.Error("expected sold_at to be parsed")
	}
}
