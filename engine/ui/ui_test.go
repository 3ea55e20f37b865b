package ui

import (
	"testing"

	"github.com/domx3d/hello-lamp/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func opaquePixels(t *common.TextureStagingData) int {
	n := 0
	for i := 3; i < len(t.Pixels); i += 4 {
		if t.Pixels[i] > 0 {
			n++
		}
	}
	return n
}

func TestLabelRasterizesText(t *testing.T) {
	l := NewLabel("hello-lamp", WithLabelPosition(5, 6))

	quads := l.Quads(800, 600)
	require.Len(t, quads, 1)
	q := quads[0]
	require.NotNil(t, q.Texture)
	assert.Equal(t, uint32(70), q.Texture.Width, "ten glyphs of the 7px face")
	assert.Equal(t, uint32(13), q.Texture.Height)
	assert.Positive(t, opaquePixels(q.Texture))
	assert.Equal(t, Rect{X: 5, Y: 6, W: 70, H: 13}, q.Rect)
	assert.Equal(t, l.ID(), q.TextureKey)
}

func TestLabelScale(t *testing.T) {
	l := NewLabel("ab", WithLabelScale(2))
	assert.Equal(t, Rect{W: 28, H: 26}, l.Bounds())

	l = NewLabel("ab", WithLabelScale(0))
	assert.Equal(t, Rect{W: 14, H: 13}, l.Bounds(), "scale is floored at 1")
}

func TestLabelSetColorKeepsTexture(t *testing.T) {
	l := NewLabel("brand")
	before := l.Quads(0, 0)[0]

	red := common.MustParseHex("#ff0000")
	l.SetColor(red)
	after := l.Quads(0, 0)[0]

	assert.Equal(t, red, l.Color())
	assert.Equal(t, [4]float32{1, 0, 0, 1}, after.Color)
	assert.Equal(t, before.TextureVersion, after.TextureVersion)
	assert.Same(t, before.Texture, after.Texture)
}

func TestLabelSetTextBumpsVersion(t *testing.T) {
	l := NewLabel("a")
	v := l.Quads(0, 0)[0].TextureVersion

	l.SetText("a")
	assert.Equal(t, v, l.Quads(0, 0)[0].TextureVersion, "same text is a no-op")

	l.SetText("abc")
	assert.Equal(t, "abc", l.Text())
	assert.Greater(t, l.Quads(0, 0)[0].TextureVersion, v)

	l.SetText("")
	assert.Empty(t, l.Quads(0, 0))
}

func TestColorPickerDefaults(t *testing.T) {
	p, err := NewColorPicker()
	require.NoError(t, err)
	assert.Equal(t, "#ffffff", p.Value())
	assert.False(t, p.IsOpen())
	assert.True(t, p.Visible())
	assert.Len(t, p.Quads(800, 600), 2, "border and fill")
}

func TestColorPickerSetValue(t *testing.T) {
	p, err := NewColorPicker(WithValue("#00F"))
	require.NoError(t, err)
	assert.Equal(t, "#0000ff", p.Value())

	var fired bool
	p.OnInput(func(string) { fired = true })

	require.NoError(t, p.SetValue("#848789"))
	assert.Equal(t, "#848789", p.Value())
	assert.False(t, fired, "programmatic changes do not emit input")

	err = p.SetValue("blue")
	assert.ErrorIs(t, err, common.ErrInvalidHex)
	assert.Equal(t, "#848789", p.Value())

	_, err = NewColorPicker(WithPalette("#fff", "nope"))
	assert.ErrorIs(t, err, common.ErrInvalidHex)
}

func TestColorPickerPaletteClick(t *testing.T) {
	p, err := NewColorPicker()
	require.NoError(t, err)
	p.SetTranslate(10, 10)

	var got []string
	p.OnInput(func(hex string) { got = append(got, hex) })

	require.True(t, p.Click(20, 20, 800, 600), "swatch click opens")
	require.True(t, p.IsOpen())
	assert.Len(t, p.Quads(800, 600), 2+1+len(DefaultPalette))

	// Fourth cell of the first row is red.
	assert.True(t, p.Click(98, 54, 800, 600))
	assert.Equal(t, []string{"#ff0000"}, got)
	assert.Equal(t, "#ff0000", p.Value())
	assert.False(t, p.IsOpen())
}

func TestColorPickerClosesOnOutsideClick(t *testing.T) {
	p, err := NewColorPicker()
	require.NoError(t, err)
	p.SetTranslate(10, 10)

	p.ShowPicker()
	assert.False(t, p.Click(400, 400, 800, 600), "outside clicks fall through")
	assert.False(t, p.IsOpen())

	p.ShowPicker()
	assert.True(t, p.Click(20, 20, 800, 600))
	assert.False(t, p.IsOpen(), "swatch toggles")

	p.ShowPicker()
	p.SetVisible(false)
	assert.False(t, p.IsOpen())
}

func TestColorPickerFlipsAboveNearBottom(t *testing.T) {
	p, err := NewColorPicker()
	require.NoError(t, err)
	p.SetTranslate(10, 570)

	r := p.paletteRect(600)
	assert.Less(t, r.Y+r.H, float32(570))
	x, y := p.Translate()
	assert.Equal(t, float32(10), x)
	assert.Equal(t, float32(570), y)
}

func TestLoadingScreenRemoveOnce(t *testing.T) {
	s := NewLoadingScreen("Loading...")
	assert.True(t, s.Visible())
	assert.False(t, s.Removed())

	assert.True(t, s.Remove())
	assert.False(t, s.Remove())
	assert.True(t, s.Removed())
	assert.False(t, s.Visible())
}

func TestLoadingScreenCoversViewport(t *testing.T) {
	s := NewLoadingScreen("Loading...")
	quads := s.Quads(800, 600)
	require.Len(t, quads, 2)
	assert.Equal(t, Rect{W: 800, H: 600}, quads[0].Rect)

	label := quads[1].Rect
	assert.InDelta(t, 400, label.X+label.W/2, 0.5)
	assert.InDelta(t, 300, label.Y+label.H/2, 0.5)
	assert.Equal(t, "Loading...", s.Label().Text())
}

func TestOverlayClickOrder(t *testing.T) {
	p, err := NewColorPicker()
	require.NoError(t, err)
	p.SetTranslate(10, 10)
	screen := NewLoadingScreen("Loading...")

	o := NewOverlay(p, screen)
	assert.True(t, o.Click(20, 20, 800, 600))
	assert.False(t, p.IsOpen(), "the loading screen is on top and swallows clicks")

	screen.Remove()
	assert.True(t, o.Click(20, 20, 800, 600))
	assert.True(t, p.IsOpen())

	p.Close()
	assert.False(t, o.Click(400, 400, 800, 600), "empty space reaches the scene")
}

func TestOverlayQuadsSkipHidden(t *testing.T) {
	a := NewLabel("a")
	b := NewLabel("b")
	o := NewOverlay(a)
	o.Add(b)
	assert.Len(t, o.Quads(100, 100), 2)

	b.SetVisible(false)
	assert.Len(t, o.Quads(100, 100), 1)

	assert.True(t, o.Remove(a))
	assert.False(t, o.Remove(a))
	assert.Len(t, o.Elements(), 1)
	assert.Empty(t, o.Quads(100, 100))
}
