package bind_group_provider

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewBindGroupProvider(t *testing.T) {
	p := NewBindGroupProvider("node:Shade", WithGeometry(nil, nil, 36))
	assert.Equal(t, "node:Shade", p.Label())
	assert.Equal(t, 36, p.IndexCount())
	assert.Nil(t, p.BindGroup())
	assert.Nil(t, p.Buffer(0))
	assert.Nil(t, p.TextureView(1))
	assert.Nil(t, p.Sampler(2))
}

func TestReleaseWithoutGPUResources(t *testing.T) {
	p := NewBindGroupProvider("frame", WithBuffer(0, nil), WithGeometry(nil, nil, 6))
	p.SetTexture(1, nil, nil)
	p.SetSampler(2, nil)

	assert.NotPanics(t, p.Release)
	assert.Zero(t, p.IndexCount())
	assert.NotPanics(t, p.Release, "release is idempotent")
}
