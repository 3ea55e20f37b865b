package ui

import (
	"image"

	"github.com/domx3d/hello-lamp/common"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// defaultFace is the fixed 7x13 bitmap face used for all overlay text.
var defaultFace font.Face = basicfont.Face7x13

// rasterizeText draws text in white onto a transparent image sized to the string's advance and
// the face's line height. The renderer multiplies the result by the quad tint.
//
// Parameters:
//   - text: the string to draw
//   - face: the font face
//
// Returns:
//   - *common.TextureStagingData: RGBA pixels, nil for empty text
func rasterizeText(text string, face font.Face) *common.TextureStagingData {
	if text == "" {
		return nil
	}
	metrics := face.Metrics()
	width := font.MeasureString(face, text).Ceil()
	height := (metrics.Ascent + metrics.Descent).Ceil()
	if width <= 0 || height <= 0 {
		return nil
	}

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	d := &font.Drawer{
		Dst:  img,
		Src:  image.White,
		Face: face,
		Dot:  fixed.P(0, metrics.Ascent.Ceil()),
	}
	d.DrawString(text)
	return common.RGBAStaging(img)
}
