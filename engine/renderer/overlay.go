package renderer

import (
	"github.com/domx3d/hello-lamp/engine/ui"
)

// verticesPerQuad is two triangles with unshared corners.
const verticesPerQuad = 6

// appendQuadVertices appends the six vertices of q in pixel space: position, uv, color.
// UVs run from (0,0) at the top-left corner to (1,1) at the bottom-right.
func appendQuadVertices(dst []float32, q ui.Quad) []float32 {
	x0, y0 := q.Rect.X, q.Rect.Y
	x1, y1 := x0+q.Rect.W, y0+q.Rect.H
	c := q.Color
	corner := func(x, y, u, v float32) {
		dst = append(dst, x, y, u, v, c[0], c[1], c[2], c[3])
	}
	corner(x0, y0, 0, 0)
	corner(x0, y1, 0, 1)
	corner(x1, y0, 1, 0)
	corner(x1, y0, 1, 0)
	corner(x0, y1, 0, 1)
	corner(x1, y1, 1, 1)
	return dst
}

// overlayVertices packs every quad in draw order.
func overlayVertices(quads []ui.Quad) []float32 {
	out := make([]float32, 0, len(quads)*verticesPerQuad*overlayVertexFloats)
	for _, q := range quads {
		out = appendQuadVertices(out, q)
	}
	return out
}
