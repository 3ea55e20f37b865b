package profiler

import (
	"bytes"
	"testing"
	"time"

	"github.com/domx3d/hello-lamp/engine/logging"

	"github.com/stretchr/testify/assert"
)

func TestTickLogsOncePerInterval(t *testing.T) {
	var out bytes.Buffer
	now := time.Unix(0, 0)
	p := NewProfiler(
		WithLogger(logging.NewWriterLogger("test", false, &out, &out)),
		WithClock(func() time.Time { return now }),
	)

	for range 59 {
		now = now.Add(time.Second / 60)
		assert.False(t, p.Tick())
	}
	// time.Second/60 truncates, so the 60th frame lands exactly on the interval.
	now = time.Unix(1, 0)
	assert.True(t, p.Tick())
	assert.Contains(t, out.String(), "FPS: 60.00")

	out.Reset()
	now = now.Add(time.Second / 2)
	assert.False(t, p.Tick())
	assert.Empty(t, out.String())
}

func TestWithIntervalIgnoresNonPositive(t *testing.T) {
	p := NewProfiler(WithInterval(0), WithLogger(logging.NewNopLogger()))
	assert.Equal(t, time.Second, p.updateInterval)

	p = NewProfiler(WithInterval(250*time.Millisecond), WithLogger(logging.NewNopLogger()))
	assert.Equal(t, 250*time.Millisecond, p.updateInterval)
}
