package material

import (
	"testing"

	"github.com/domx3d/hello-lamp/common"
	"github.com/stretchr/testify/assert"
)

func TestNewMaterialDefaults(t *testing.T) {
	m := NewMaterial()
	assert.Equal(t, KindStandard, m.Kind())
	assert.Equal(t, common.White, m.Color())
	assert.Equal(t, float32(1), m.Opacity())
	assert.False(t, m.Transparent())
	assert.False(t, m.DoubleSided())
	assert.Equal(t, float32(1), m.Roughness())
	assert.Equal(t, common.Color{}, m.Emissive())
}

func TestGlassAndFoilOptions(t *testing.T) {
	glass := NewMaterial(
		WithKind(KindPhong),
		WithColor(common.MustParseHex("#FFFFFF")),
		WithOpacity(0.7),
		WithTransparent(true),
		WithDoubleSided(true),
	)
	assert.Equal(t, "Phong", glass.Kind().String())
	assert.InDelta(t, 0.7, glass.Opacity(), 1e-6)
	assert.True(t, glass.Transparent())
	assert.True(t, glass.DoubleSided())

	foil := NewMaterial(
		WithColor(common.MustParseHex("#848789")),
		WithRoughness(0.2),
		WithMetallic(1),
	)
	assert.Equal(t, float32(1), foil.Metallic())
	assert.InDelta(t, 0.2, foil.Roughness(), 1e-6)
}

func TestSetEmissiveAndClone(t *testing.T) {
	bulb := NewMaterial(WithEmissive(common.MustParseHex("#FFFF00"), 1))
	clone := bulb.Clone()

	bulb.SetEmissive(common.Color{R: 1})
	assert.Equal(t, common.Color{R: 1}, bulb.Emissive())
	assert.Equal(t, common.Color{R: 1, G: 1}, clone.Emissive())
}

func TestWithOpacityClamps(t *testing.T) {
	assert.Equal(t, float32(1), NewMaterial(WithOpacity(3)).Opacity())
	assert.Equal(t, float32(0), NewMaterial(WithOpacity(-1)).Opacity())
}
