// Package gallery models the lightbox shown when a catalog card is opened:
// an ordered slide sequence with a current index and an open/closed state.
package gallery

import (
	"fmt"

	"github.com/are3ej/heavytrade/internal/model"
)

// Slide is one gallery entry.
type Slide struct {
	URL      string          `json:"url"`
	Kind     model.MediaKind `json:"kind"`
	Position string          `json:"position"` // "i/N" label
}

// Session tracks which slide of a record is currently displayed. Navigation
// clamps at both ends; there is no wraparound.
type Session struct {
	slides []Slide
	index  int
	open   bool
}

// Open starts a session over the record's media, positioned at startIndex
// (clamped into range).
func Open(rec model.Equipment, startIndex int) *Session {
	slides := make([]Slide, len(rec.Media))
	for i, ref := range rec.Media {
		slides[i] = Slide{
			URL:      ref.URL,
			Kind:     ref.Kind,
			Position: fmt.Sprintf("%d/%d", i+1, len(rec.Media)),
		}
	}

	s := &Session{slides: slides, open: true}
	s.index = clamp(startIndex, len(slides))
	return s
}

// Slides returns the ordered slide sequence.
func (s *Session) Slides() []Slide { return s.slides }

// CurrentIndex returns the zero-based index of the displayed slide.
func (s *Session) CurrentIndex() int { return s.index }

// Current returns the displayed slide, or false when the session is closed
// or empty.
func (s *Session) Current() (Slide, bool) {
	if !s.open || len(s.slides) == 0 {
		return Slide{}, false
	}
	return s.slides[s.index], true
}

// Next advances one slide, stopping at the last one.
func (s *Session) Next() {
	if !s.open {
		return
	}
	s.index = clamp(s.index+1, len(s.slides))
}

// Previous steps back one slide, stopping at the first one.
func (s *Session) Previous() {
	if !s.open {
		return
	}
	s.index = clamp(s.index-1, len(s.slides))
}

// Close ends the session. Closing an already-closed session is a no-op.
func (s *Session) Close() { s.open = false }

// IsOpen reports whether the session is still open.
func (s *Session) IsOpen() bool { return s.open }

func clamp(i, n int) int {
	if i < 0 {
		return 0
	}
	if i >= n && n > 0 {
		return n - 1
	}
	if n == 0 {
		return 0
	}
	return i
}
