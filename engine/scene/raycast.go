package scene

import (
	"slices"

	"github.com/domx3d/hello-lamp/common"
	"github.com/go-gl/mathgl/mgl32"
)

const rayEpsilon = 1e-7

// Ray is a half line in world space. Direction is normalized.
type Ray struct {
	Origin    mgl32.Vec3
	Direction mgl32.Vec3
}

// Hit is a ray intersection with a mesh node. Face is the index of the nearest triangle hit.
type Hit struct {
	Node     Node
	Distance float32
	Point    mgl32.Vec3
	Face     int
}

// NewRay builds a ray, normalizing the direction.
func NewRay(origin, direction mgl32.Vec3) Ray {
	return Ray{Origin: origin, Direction: direction.Normalize()}
}

// RayFromNDC casts a ray from the near plane through the far plane at a pointer position.
//
// Parameters:
//   - ndc: pointer position in normalized device coordinates
//   - invViewProj: inverse of the camera's projection * view matrix
//
// Returns:
//   - Ray: the world-space pick ray
func RayFromNDC(ndc mgl32.Vec2, invViewProj mgl32.Mat4) Ray {
	near := common.UnprojectPoint(invViewProj, mgl32.Vec3{ndc.X(), ndc.Y(), 0})
	far := common.UnprojectPoint(invViewProj, mgl32.Vec3{ndc.X(), ndc.Y(), 1})
	return NewRay(near, far.Sub(near))
}

// At returns the point at distance t along the ray.
func (r Ray) At(t float32) mgl32.Vec3 {
	return r.Origin.Add(r.Direction.Mul(t))
}

// IntersectNode tests the ray against root and every visible descendant mesh.
// Invisible nodes hide their whole subtree. Single sided materials ignore back faces.
// Each mesh reports at most one hit, its nearest triangle, so a ray through an edge shared by two
// triangles does not list the node twice.
//
// Parameters:
//   - root: the subtree to test
//   - ray: the world-space ray
//
// Returns:
//   - []Hit: one hit per intersected mesh sorted by ascending distance, ties kept in traversal order
func IntersectNode(root Node, ray Ray) []Hit {
	var hits []Hit
	root.Traverse(func(n Node) bool {
		if !n.Visible() {
			return false
		}
		if g := n.Geometry(); g != nil {
			if hit, ok := intersectMesh(n, g, ray); ok {
				hits = append(hits, hit)
			}
		}
		return true
	})
	slices.SortStableFunc(hits, func(a, b Hit) int {
		switch {
		case a.Distance < b.Distance:
			return -1
		case a.Distance > b.Distance:
			return 1
		}
		return 0
	})
	return hits
}

func intersectMesh(n Node, g *Geometry, ray Ray) (Hit, bool) {
	world := n.WorldMatrix()
	inv := world.Inv()

	origin := mgl32.TransformCoordinate(ray.Origin, inv)
	dir := inv.Mul4x1(ray.Direction.Vec4(0)).Vec3()
	if dir.Len() == 0 {
		return Hit{}, false
	}

	center, radius := g.BoundingSphere()
	if !raySphere(origin, dir, center, radius) {
		return Hit{}, false
	}

	doubleSided := n.Material() == nil || n.Material().DoubleSided()

	var best Hit
	found := false
	for t := 0; t < g.TriangleCount(); t++ {
		a, b, c := g.Triangle(t)
		s, ok := rayTriangle(origin, dir, a, b, c, !doubleSided)
		if !ok {
			continue
		}
		p := mgl32.TransformCoordinate(origin.Add(dir.Mul(s)), world)
		d := p.Sub(ray.Origin).Len()
		if found && d >= best.Distance {
			continue
		}
		best = Hit{Node: n, Distance: d, Point: p, Face: t}
		found = true
	}
	return best, found
}

// raySphere reports whether the ray line passes within radius of center in front of or around the origin.
func raySphere(origin, dir, center mgl32.Vec3, radius float32) bool {
	d := dir.Normalize()
	oc := center.Sub(origin)
	tca := oc.Dot(d)
	d2 := oc.Dot(oc) - tca*tca
	r2 := radius * radius
	if d2 > r2 {
		return false
	}
	// A sphere entirely behind the origin is a miss.
	return tca >= 0 || oc.Dot(oc) <= r2
}

// rayTriangle is the Möller–Trumbore test. The returned parameter is in units of dir.
func rayTriangle(origin, dir, a, b, c mgl32.Vec3, cullBack bool) (float32, bool) {
	e1 := b.Sub(a)
	e2 := c.Sub(a)
	p := dir.Cross(e2)
	det := e1.Dot(p)

	if cullBack {
		if det < rayEpsilon {
			return 0, false
		}
	} else if det > -rayEpsilon && det < rayEpsilon {
		return 0, false
	}

	invDet := 1 / det
	tv := origin.Sub(a)
	u := tv.Dot(p) * invDet
	if u < 0 || u > 1 {
		return 0, false
	}
	q := tv.Cross(e1)
	v := dir.Dot(q) * invDet
	if v < 0 || u+v > 1 {
		return 0, false
	}
	s := e2.Dot(q) * invDet
	if s < 0 {
		return 0, false
	}
	return s, true
}
