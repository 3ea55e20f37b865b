package scene

import (
	"errors"
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// ErrEmptyGeometry is returned when a geometry is created without positions.
var ErrEmptyGeometry = errors.New("geometry has no positions")

// Geometry is an immutable indexed triangle list in the node's local space.
type Geometry struct {
	positions []float32
	normals   []float32
	uvs       []float32
	indices   []uint32

	min, max mgl32.Vec3
	center   mgl32.Vec3
	radius   float32
}

// NewGeometry validates and completes the vertex streams of a triangle list.
// Missing indices are generated sequentially, and missing normals are computed per vertex from face normals.
// Missing UVs are filled with zeros.
//
// Parameters:
//   - positions: xyz triples, required
//   - normals: xyz triples, nil or the same vertex count as positions
//   - uvs: uv pairs, nil or the same vertex count as positions
//   - indices: triangle indices, nil for non-indexed geometry
//
// Returns:
//   - *Geometry: the geometry
//   - error: ErrEmptyGeometry or a stream length mismatch
func NewGeometry(positions, normals, uvs []float32, indices []uint32) (*Geometry, error) {
	if len(positions) < 3 || len(positions)%3 != 0 {
		return nil, ErrEmptyGeometry
	}
	vertexCount := len(positions) / 3

	if indices == nil {
		indices = make([]uint32, vertexCount)
		for i := range indices {
			indices[i] = uint32(i)
		}
	}
	if len(indices)%3 != 0 {
		return nil, fmt.Errorf("index count %d is not a multiple of 3", len(indices))
	}
	for _, idx := range indices {
		if int(idx) >= vertexCount {
			return nil, fmt.Errorf("index %d out of range for %d vertices", idx, vertexCount)
		}
	}

	if normals == nil {
		normals = computeNormals(positions, indices)
	} else if len(normals) != len(positions) {
		return nil, fmt.Errorf("normal count %d does not match vertex count %d", len(normals)/3, vertexCount)
	}

	if uvs == nil {
		uvs = make([]float32, vertexCount*2)
	} else if len(uvs) != vertexCount*2 {
		return nil, fmt.Errorf("uv count %d does not match vertex count %d", len(uvs)/2, vertexCount)
	}

	g := &Geometry{positions: positions, normals: normals, uvs: uvs, indices: indices}
	g.computeBounds()
	return g, nil
}

func computeNormals(positions []float32, indices []uint32) []float32 {
	normals := make([]float32, len(positions))
	vec := func(i uint32) mgl32.Vec3 {
		return mgl32.Vec3{positions[i*3], positions[i*3+1], positions[i*3+2]}
	}
	for t := 0; t+2 < len(indices); t += 3 {
		a, b, c := indices[t], indices[t+1], indices[t+2]
		n := vec(b).Sub(vec(a)).Cross(vec(c).Sub(vec(a)))
		for _, i := range [3]uint32{a, b, c} {
			normals[i*3] += n.X()
			normals[i*3+1] += n.Y()
			normals[i*3+2] += n.Z()
		}
	}
	for i := 0; i < len(normals); i += 3 {
		n := mgl32.Vec3{normals[i], normals[i+1], normals[i+2]}
		if l := n.Len(); l > 0 {
			n = n.Mul(1 / l)
		} else {
			n = mgl32.Vec3{0, 1, 0}
		}
		normals[i], normals[i+1], normals[i+2] = n.X(), n.Y(), n.Z()
	}
	return normals
}

func (g *Geometry) computeBounds() {
	inf := float32(math.Inf(1))
	g.min = mgl32.Vec3{inf, inf, inf}
	g.max = mgl32.Vec3{-inf, -inf, -inf}
	for i := 0; i < len(g.positions); i += 3 {
		for k := 0; k < 3; k++ {
			v := g.positions[i+k]
			g.min[k] = min(g.min[k], v)
			g.max[k] = max(g.max[k], v)
		}
	}
	g.center = g.min.Add(g.max).Mul(0.5)
	g.radius = g.max.Sub(g.center).Len()
}

// VertexCount returns the number of vertices.
func (g *Geometry) VertexCount() int { return len(g.positions) / 3 }

// TriangleCount returns the number of triangles.
func (g *Geometry) TriangleCount() int { return len(g.indices) / 3 }

// Indices returns the triangle index list.
func (g *Geometry) Indices() []uint32 { return g.indices }

// Triangle returns the three local-space corners of triangle t.
func (g *Geometry) Triangle(t int) (mgl32.Vec3, mgl32.Vec3, mgl32.Vec3) {
	p := func(i uint32) mgl32.Vec3 {
		return mgl32.Vec3{g.positions[i*3], g.positions[i*3+1], g.positions[i*3+2]}
	}
	return p(g.indices[t*3]), p(g.indices[t*3+1]), p(g.indices[t*3+2])
}

// Bounds returns the local-space axis aligned bounding box.
func (g *Geometry) Bounds() (mgl32.Vec3, mgl32.Vec3) { return g.min, g.max }

// BoundingSphere returns the local-space sphere enclosing the bounding box.
func (g *Geometry) BoundingSphere() (mgl32.Vec3, float32) { return g.center, g.radius }

// Interleaved packs the vertex streams as position(3) normal(3) uv(2), the layout the mesh pipeline reads.
func (g *Geometry) Interleaved() []float32 {
	n := g.VertexCount()
	out := make([]float32, 0, n*8)
	for i := 0; i < n; i++ {
		out = append(out,
			g.positions[i*3], g.positions[i*3+1], g.positions[i*3+2],
			g.normals[i*3], g.normals[i*3+1], g.normals[i*3+2],
			g.uvs[i*2], g.uvs[i*2+1],
		)
	}
	return out
}
