package ui

import (
	"fmt"
	"sync"

	"github.com/domx3d/hello-lamp/common"

	"github.com/google/uuid"
)

const (
	swatchWidth   = 40
	swatchHeight  = 24
	swatchBorder  = 2
	paletteCell   = 24
	palettePad    = 4
	paletteGap    = 4
	paletteColumn = 4
)

// DefaultPalette is the preset list shown when the picker opens.
var DefaultPalette = []string{
	"#ffffff", "#ffff00", "#ffa500", "#ff0000",
	"#ff00ff", "#800080", "#0000ff", "#00ffff",
	"#00ff00", "#008000", "#848789", "#000000",
}

// ColorPicker is a swatch button that opens a palette. Choosing a palette entry sets the value
// and emits an input event, like a browser color input.
type ColorPicker struct {
	mu sync.Mutex

	id      string
	x, y    float32
	value   common.Color
	palette []common.Color
	open    bool
	visible bool
	onInput []func(hex string)
}

var _ Element = &ColorPicker{}

// ColorPickerOption is a functional option for configuring a ColorPicker.
type ColorPickerOption func(*ColorPicker) error

// WithValue sets the initial value.
//
// Parameters:
//   - hex: "#RRGGBB" or "#RGB"
//
// Returns:
//   - ColorPickerOption: the option function
func WithValue(hex string) ColorPickerOption {
	return func(p *ColorPicker) error {
		c, err := common.ParseHex(hex)
		if err != nil {
			return err
		}
		p.value = c
		return nil
	}
}

// WithPalette replaces the preset colors.
func WithPalette(hexes ...string) ColorPickerOption {
	return func(p *ColorPicker) error {
		palette := make([]common.Color, 0, len(hexes))
		for _, h := range hexes {
			c, err := common.ParseHex(h)
			if err != nil {
				return fmt.Errorf("palette entry %q: %w", h, err)
			}
			palette = append(palette, c)
		}
		p.palette = palette
		return nil
	}
}

// NewColorPicker creates a closed, visible picker at the origin with a white value.
//
// Parameters:
//   - options: variadic list of ColorPickerOption functions
//
// Returns:
//   - *ColorPicker: the picker
//   - error: an invalid value or palette entry
func NewColorPicker(options ...ColorPickerOption) (*ColorPicker, error) {
	p := &ColorPicker{
		id:      uuid.NewString(),
		value:   common.White,
		visible: true,
	}
	if err := WithPalette(DefaultPalette...)(p); err != nil {
		return nil, err
	}
	for _, opt := range options {
		if err := opt(p); err != nil {
			return nil, err
		}
	}
	return p, nil
}

// OnInput registers a handler for value changes made through the palette.
func (p *ColorPicker) OnInput(fn func(hex string)) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.onInput = append(p.onInput, fn)
}

// Value returns the current value as lower-case "#rrggbb".
func (p *ColorPicker) Value() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.value.Hex()
}

// SetValue sets the value without emitting an input event.
//
// Returns:
//   - error: wrapped common.ErrInvalidHex; the value is unchanged
func (p *ColorPicker) SetValue(hex string) error {
	c, err := common.ParseHex(hex)
	if err != nil {
		return err
	}
	p.mu.Lock()
	p.value = c
	p.mu.Unlock()
	return nil
}

// SetTranslate moves the swatch's top-left corner.
func (p *ColorPicker) SetTranslate(x, y float32) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.x, p.y = x, y
}

// Translate returns the swatch's top-left corner.
func (p *ColorPicker) Translate() (float32, float32) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.x, p.y
}

// ShowPicker opens the palette.
func (p *ColorPicker) ShowPicker() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.open = true
}

// Close hides the palette.
func (p *ColorPicker) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.open = false
}

// IsOpen reports whether the palette is showing.
func (p *ColorPicker) IsOpen() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.open
}

// SetVisible shows or hides the picker. Hiding also closes the palette.
func (p *ColorPicker) SetVisible(visible bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.visible = visible
	if !visible {
		p.open = false
	}
}

func (p *ColorPicker) ID() string { return p.id }

func (p *ColorPicker) Visible() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.visible
}

func (p *ColorPicker) swatchRect() Rect {
	return Rect{X: p.x, Y: p.y, W: swatchWidth, H: swatchHeight}
}

// paletteRect places the palette below the swatch, or above it when it would leave the viewport.
func (p *ColorPicker) paletteRect(height int) Rect {
	rows := (len(p.palette) + paletteColumn - 1) / paletteColumn
	r := Rect{
		X: p.x,
		Y: p.y + swatchHeight + paletteGap,
		W: palettePad*2 + paletteColumn*paletteCell,
		H: palettePad*2 + float32(rows)*paletteCell,
	}
	if height > 0 && r.Y+r.H > float32(height) {
		r.Y = p.y - paletteGap - r.H
	}
	return r
}

func (p *ColorPicker) cellRect(palette Rect, i int) Rect {
	return Rect{
		X: palette.X + palettePad + float32(i%paletteColumn)*paletteCell,
		Y: palette.Y + palettePad + float32(i/paletteColumn)*paletteCell,
		W: paletteCell,
		H: paletteCell,
	}
}

func (p *ColorPicker) Quads(_, height int) []Quad {
	p.mu.Lock()
	defer p.mu.Unlock()

	s := p.swatchRect()
	quads := []Quad{
		{Rect: s, Color: [4]float32{0.15, 0.15, 0.15, 1}},
		{Rect: Rect{X: s.X + swatchBorder, Y: s.Y + swatchBorder, W: s.W - 2*swatchBorder, H: s.H - 2*swatchBorder}, Color: p.value.RGBA(1)},
	}
	if !p.open {
		return quads
	}

	pr := p.paletteRect(height)
	quads = append(quads, Quad{Rect: pr, Color: [4]float32{0.1, 0.1, 0.1, 0.9}})
	for i, c := range p.palette {
		cell := p.cellRect(pr, i)
		cell.X, cell.Y, cell.W, cell.H = cell.X+1, cell.Y+1, cell.W-2, cell.H-2
		quads = append(quads, Quad{Rect: cell, Color: c.RGBA(1)})
	}
	return quads
}

// Click toggles the palette on the swatch and picks a color inside the palette. Any other click
// closes an open palette without consuming the click.
func (p *ColorPicker) Click(x, y float32, _, height int) bool {
	p.mu.Lock()

	if p.open {
		pr := p.paletteRect(height)
		if pr.Contains(x, y) {
			for i, c := range p.palette {
				if p.cellRect(pr, i).Contains(x, y) {
					p.value = c
					p.open = false
					handlers := append([]func(string){}, p.onInput...)
					p.mu.Unlock()
					for _, fn := range handlers {
						fn(c.Hex())
					}
					return true
				}
			}
			p.mu.Unlock()
			return true
		}
	}

	if p.swatchRect().Contains(x, y) {
		p.open = !p.open
		p.mu.Unlock()
		return true
	}

	p.open = false
	p.mu.Unlock()
	return false
}
