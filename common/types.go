// Package common holds plain helper types and math shared across the engine packages.
package common

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/draw"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"

	"github.com/cogentcore/webgpu/wgpu"
)

// ErrNoImageSource is returned by ImportedTexture.Decode when neither bytes nor a path are present.
var ErrNoImageSource = errors.New("texture has neither data nor path")

// TextureStagingData holds RGBA pixel data pending GPU upload.
type TextureStagingData struct {
	// Pixels holds tightly packed RGBA8 rows.
	Pixels []byte
	Width  uint32
	Height uint32
}

// SamplerStagingData holds the configuration for a sampler pending GPU creation.
// Zero fields fall back to linear filtering and repeat addressing.
type SamplerStagingData struct {
	AddressModeU, AddressModeV wgpu.AddressMode
	MagFilter, MinFilter       wgpu.FilterMode
}

// ImportedTexture is an image referenced by a model file.
// Embedded images carry Data; external images carry Path.
type ImportedTexture struct {
	Name     string
	Path     string
	Data     []byte
	MimeType string

	// SamplerData holds sampler parameters read from the model file, or nil for defaults.
	SamplerData *SamplerStagingData
}

// Decode decodes the texture to RGBA pixels. PNG and JPEG are supported.
//
// Returns:
//   - *TextureStagingData: the decoded pixels and dimensions
//   - error: ErrNoImageSource, an open error, or a decode error
func (t *ImportedTexture) Decode() (*TextureStagingData, error) {
	if t == nil {
		return nil, ErrNoImageSource
	}

	var r io.Reader
	switch {
	case len(t.Data) > 0:
		r = bytes.NewReader(t.Data)
	case t.Path != "":
		f, err := os.Open(t.Path)
		if err != nil {
			return nil, fmt.Errorf("open texture %s: %w", t.Path, err)
		}
		defer f.Close()
		r = f
	default:
		return nil, ErrNoImageSource
	}

	img, _, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("decode texture %q: %w", t.Name, err)
	}
	return RGBAStaging(img), nil
}

// RGBAStaging converts any image to tightly packed RGBA8 pixels.
func RGBAStaging(img image.Image) *TextureStagingData {
	b := img.Bounds()
	rgba, ok := img.(*image.RGBA)
	if !ok || rgba.Stride != b.Dx()*4 || b.Min != (image.Point{}) {
		rgba = image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
		draw.Draw(rgba, rgba.Bounds(), img, b.Min, draw.Src)
	}
	return &TextureStagingData{
		Pixels: rgba.Pix,
		Width:  uint32(b.Dx()),
		Height: uint32(b.Dy()),
	}
}
