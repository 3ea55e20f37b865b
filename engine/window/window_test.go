package window

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestContentScale(t *testing.T) {
	sx, sy := contentScale(2560, 1440, 1280, 720)
	assert.Equal(t, float32(2), sx)
	assert.Equal(t, float32(2), sy)

	sx, sy = contentScale(1280, 720, 1280, 720)
	assert.Equal(t, float32(1), sx)
	assert.Equal(t, float32(1), sy)

	// Minimized windows report zero sizes.
	sx, sy = contentScale(0, 0, 0, 0)
	assert.Equal(t, float32(1), sx)
	assert.Equal(t, float32(1), sy)
}

func TestBuilderDefaults(t *testing.T) {
	w := &engineWindow{width: 1280, height: 720}
	WithSize(0, 600)(w)
	WithTitle("lamp")(w)
	WithMinSize(100, 50)(w)

	width, height := w.FramebufferSize()
	assert.Equal(t, 1280, width)
	assert.Equal(t, 600, height)
	assert.Equal(t, "lamp", w.title)
	assert.Equal(t, 100, w.minWidth)
	assert.Equal(t, 50, w.minHeight)
	assert.False(t, w.IsRunning())
	w.RequestClose()
	assert.ErrorIs(t, w.Close(), errNotInitialized)
}
