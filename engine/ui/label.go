package ui

import (
	"sync"

	"github.com/domx3d/hello-lamp/common"

	"github.com/google/uuid"
)

// Label is a line of text with a mutable tint color.
type Label struct {
	mu sync.Mutex

	id      string
	text    string
	x, y    float32
	scale   float32
	color   common.Color
	visible bool

	texture *common.TextureStagingData
	version uint64
}

var _ Element = &Label{}

// LabelOption is a functional option for configuring a Label.
type LabelOption func(*Label)

// WithLabelPosition places the label's top-left corner.
func WithLabelPosition(x, y float32) LabelOption {
	return func(l *Label) {
		l.x, l.y = x, y
	}
}

// WithLabelScale sets an integer-friendly pixel scale for the bitmap glyphs.
func WithLabelScale(scale float32) LabelOption {
	return func(l *Label) {
		l.scale = max(scale, 1)
	}
}

// WithLabelColor sets the initial tint.
func WithLabelColor(c common.Color) LabelOption {
	return func(l *Label) {
		l.color = c
	}
}

// NewLabel creates a visible white label.
//
// Parameters:
//   - text: the label text
//   - options: variadic list of LabelOption functions
//
// Returns:
//   - *Label: the label with its text rasterized
func NewLabel(text string, options ...LabelOption) *Label {
	l := &Label{
		id:      uuid.NewString(),
		scale:   1,
		color:   common.White,
		visible: true,
	}
	for _, opt := range options {
		opt(l)
	}
	l.setText(text)
	return l
}

func (l *Label) setText(text string) {
	l.text = text
	l.texture = rasterizeText(text, defaultFace)
	l.version++
}

// SetText replaces the text and re-rasterizes it.
func (l *Label) SetText(text string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if text != l.text {
		l.setText(text)
	}
}

// Text returns the current text.
func (l *Label) Text() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.text
}

// SetColor changes the tint. It does not re-rasterize.
func (l *Label) SetColor(c common.Color) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.color = c
}

// Color returns the current tint.
func (l *Label) Color() common.Color {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.color
}

// SetPosition moves the label's top-left corner.
func (l *Label) SetPosition(x, y float32) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.x, l.y = x, y
}

// Bounds returns the label's rectangle in pixels.
func (l *Label) Bounds() Rect {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.bounds()
}

func (l *Label) bounds() Rect {
	if l.texture == nil {
		return Rect{X: l.x, Y: l.y}
	}
	return Rect{X: l.x, Y: l.y, W: float32(l.texture.Width) * l.scale, H: float32(l.texture.Height) * l.scale}
}

// SetVisible shows or hides the label.
func (l *Label) SetVisible(visible bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.visible = visible
}

func (l *Label) ID() string { return l.id }

func (l *Label) Visible() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.visible
}

func (l *Label) Quads(int, int) []Quad {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.texture == nil {
		return nil
	}
	return []Quad{{
		Rect:           l.bounds(),
		Color:          l.color.RGBA(1),
		TextureKey:     l.id,
		TextureVersion: l.version,
		Texture:        l.texture,
	}}
}

// Click never consumes: labels are decoration.
func (l *Label) Click(float32, float32, int, int) bool { return false }
