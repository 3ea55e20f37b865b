// Package ui draws the 2D overlay on top of the 3D scene: labels, the color picker and the
// loading screen. Elements produce screen-space quads in framebuffer pixels with the origin at
// the top-left corner; the renderer draws them after the scene in insertion order.
package ui

import (
	"sync"

	"github.com/domx3d/hello-lamp/common"
)

// Rect is an axis-aligned pixel rectangle.
type Rect struct {
	X, Y, W, H float32
}

// Contains reports whether the point lies inside the rectangle, edges included.
func (r Rect) Contains(x, y float32) bool {
	return x >= r.X && x <= r.X+r.W && y >= r.Y && y <= r.Y+r.H
}

// Quad is one textured or flat rectangle of the overlay.
type Quad struct {
	Rect  Rect
	Color [4]float32

	// TextureKey identifies an alpha-mask texture, empty for a flat quad. The renderer re-uploads
	// the texture whenever TextureVersion changes for the same key.
	TextureKey     string
	TextureVersion uint64
	Texture        *common.TextureStagingData
}

// Element is a widget of the overlay.
type Element interface {
	// ID returns a unique identifier, stable for the element's lifetime.
	ID() string

	// Visible reports whether the element draws and receives clicks.
	Visible() bool

	// Quads returns the element's quads for a viewport of the given size.
	//
	// Parameters:
	//   - width: viewport width in pixels
	//   - height: viewport height in pixels
	//
	// Returns:
	//   - []Quad: quads in back to front order
	Quads(width, height int) []Quad

	// Click offers a click to the element.
	//
	// Parameters:
	//   - x, y: pointer position in pixels
	//   - width, height: viewport size in pixels
	//
	// Returns:
	//   - bool: true if the element consumed the click
	Click(x, y float32, width, height int) bool
}

// Overlay is an ordered stack of elements. Later elements draw on top and see clicks first.
type Overlay struct {
	mu       sync.Mutex
	elements []Element
}

// NewOverlay creates an overlay holding the given elements.
func NewOverlay(elements ...Element) *Overlay {
	return &Overlay{elements: elements}
}

// Add pushes elements on top of the stack.
func (o *Overlay) Add(elements ...Element) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.elements = append(o.elements, elements...)
}

// Remove takes an element off the stack.
//
// Returns:
//   - bool: false if the element was not present
func (o *Overlay) Remove(e Element) bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	for i, el := range o.elements {
		if el.ID() == e.ID() {
			o.elements = append(o.elements[:i], o.elements[i+1:]...)
			return true
		}
	}
	return false
}

// Elements returns a snapshot of the stack, bottom first.
func (o *Overlay) Elements() []Element {
	o.mu.Lock()
	defer o.mu.Unlock()
	return append([]Element(nil), o.elements...)
}

// Quads collects the quads of every visible element, bottom first.
func (o *Overlay) Quads(width, height int) []Quad {
	var quads []Quad
	for _, e := range o.Elements() {
		if e.Visible() {
			quads = append(quads, e.Quads(width, height)...)
		}
	}
	return quads
}

// Click offers a click to visible elements from the top down and stops at the first that consumes it.
//
// Returns:
//   - bool: true if an element consumed the click, so it must not reach the 3D scene
func (o *Overlay) Click(x, y float32, width, height int) bool {
	elements := o.Elements()
	for i := len(elements) - 1; i >= 0; i-- {
		if e := elements[i]; e.Visible() && e.Click(x, y, width, height) {
			return true
		}
	}
	return false
}
