package lamp

import (
	"fmt"

	"github.com/domx3d/hello-lamp/common"
	"github.com/domx3d/hello-lamp/engine/material"
)

// ColorTarget receives a broadcast color.
type ColorTarget interface {
	SetColor(c common.Color)
}

// emissiveTarget recolors the emission of every material of a node instead of its diffuse color.
type emissiveTarget []material.Material

func (t emissiveTarget) SetColor(c common.Color) {
	for _, m := range t {
		m.SetEmissive(c)
	}
}

// ColorSync broadcasts a picked color to the brand label, the bulb emission and the spot light.
// The bulb target is absent until the lamp loads; SetBulb replays the last applied color onto it.
type ColorSync struct {
	label ColorTarget
	bulb  ColorTarget
	spot  ColorTarget

	last    common.Color
	applied bool
}

// NewColorSync creates a ColorSync with the targets known before any asset loads.
//
// Parameters:
//   - label: the brand label tint
//   - spot: the spot light color
//
// Returns:
//   - *ColorSync: the sync
func NewColorSync(label, spot ColorTarget) *ColorSync {
	return &ColorSync{label: label, spot: spot}
}

// SetBulb installs the bulb target and applies the last color to it, if any.
func (s *ColorSync) SetBulb(bulb ColorTarget) {
	s.bulb = bulb
	if bulb != nil && s.applied {
		bulb.SetColor(s.last)
	}
}

// Apply parses hex and sets it on every present target.
//
// Parameters:
//   - hex: "#RRGGBB" or "#RGB"
//
// Returns:
//   - error: wrapped common.ErrInvalidHex; no target changes
func (s *ColorSync) Apply(hex string) error {
	c, err := common.ParseHex(hex)
	if err != nil {
		return fmt.Errorf("color sync: %w", err)
	}
	for _, t := range []ColorTarget{s.label, s.bulb, s.spot} {
		if t != nil {
			t.SetColor(c)
		}
	}
	s.last, s.applied = c, true
	return nil
}
