package ui

import (
	"sync"

	"github.com/google/uuid"
)

// LoadingScreen covers the viewport until every asset has loaded.
type LoadingScreen struct {
	mu sync.Mutex

	id         string
	background [4]float32
	label      *Label
	removed    bool
}

var _ Element = &LoadingScreen{}

// NewLoadingScreen creates an opaque dark screen with the given text centered on it.
func NewLoadingScreen(text string) *LoadingScreen {
	return &LoadingScreen{
		id:         uuid.NewString(),
		background: [4]float32{0.05, 0.05, 0.06, 1},
		label:      NewLabel(text, WithLabelScale(2)),
	}
}

// Remove takes the screen down.
//
// Returns:
//   - bool: true on the first call only
func (s *LoadingScreen) Remove() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.removed {
		return false
	}
	s.removed = true
	return true
}

// Removed reports whether Remove has been called.
func (s *LoadingScreen) Removed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.removed
}

// Label exposes the centered text.
func (s *LoadingScreen) Label() *Label { return s.label }

func (s *LoadingScreen) ID() string { return s.id }

func (s *LoadingScreen) Visible() bool { return !s.Removed() }

func (s *LoadingScreen) Quads(width, height int) []Quad {
	quads := []Quad{{
		Rect:  Rect{W: float32(width), H: float32(height)},
		Color: s.background,
	}}
	b := s.label.Bounds()
	s.label.SetPosition((float32(width)-b.W)/2, (float32(height)-b.H)/2)
	return append(quads, s.label.Quads(width, height)...)
}

// Click swallows every click while the screen is up.
func (s *LoadingScreen) Click(float32, float32, int, int) bool { return true }
