package media

import (
	"testing"

	"github.com/are3ej/heavytrade/internal/model"
)

func TestClassifyVideo(t *testing.T) {
	r := NewResolver("")

	c := r.Classify("https://res.cloudinary.com/x/video/upload/v1/clip.mp4")
	if !c.Valid {
		t.Error("expected cloudinary video URL to be valid")
	}
	if c.Kind != model.MediaKindVideo {
		t.Errorf("expected video kind, got %s", c.Kind)
	}
}

func TestClassifyImage(t *testing.T) {
	r := NewResolver("")

	c := r.Classify("https://res.cloudinary.com/demo/image/upload/dozer.jpg")
	if !c.Valid {
		t.Error("expected cloudinary image URL to be valid")
	}
	if c.Kind != model.MediaKindImage {
		t.Errorf("expected image kind, got %s", c.Kind)
	}
}

func TestClassifyRejectsForeignHost(t *testing.T) {
	r := NewResolver("")

	c := r.Classify("https://evil.example.com/a.jpg")
	if c.Valid {
		t.Error("expected foreign host to be invalid")
	}
}

func TestClassifyVideoExtensionCaseInsensitive(t *testing.T) {
	r := NewResolver("")

	c := r.Classify("https://res.cloudinary.com/demo/video/upload/clip.MOV")
	if c.Kind != model.MediaKindVideo {
		t.Errorf("expected video kind for uppercase extension, got %s", c.Kind)
	}
}

func TestClassifyGarbageInput(t *testing.T) {
	r := NewResolver("")

	for _, raw := range []string{"", "   ", "not a url", "/relative/path.jpg", "://%"} {
		c := r.Classify(raw)
		if c.Valid {
			t.Errorf("expected %q to be invalid", raw)
		}
		if c.Kind != model.MediaKindImage {
			t.Errorf("expected %q to default to image kind, got %s", raw, c.Kind)
		}
	}
}

func TestClassifySubdomainOfOrigin(t *testing.T) {
	r := NewResolver("cloudinary.com")

	if c := r.Classify("https://res.cloudinary.com/demo/a.png"); !c.Valid {
		t.Error("expected subdomain of approved origin to be valid")
	}
	if c := r.Classify("https://notcloudinary.com/demo/a.png"); c.Valid {
		t.Error("expected lookalike host to be invalid")
	}
}
