package scene

import (
	"math"
	"testing"

	"github.com/domx3d/hello-lamp/common"
	"github.com/domx3d/hello-lamp/engine/light"
	"github.com/domx3d/hello-lamp/engine/material"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// quad returns a 2x2 square in the XY plane facing +Z.
func quad(t *testing.T) *Geometry {
	t.Helper()
	g, err := NewGeometry([]float32{
		-1, -1, 0,
		1, -1, 0,
		1, 1, 0,
		-1, 1, 0,
	}, nil, nil, []uint32{0, 1, 2, 0, 2, 3})
	require.NoError(t, err)
	return g
}

func meshNode(t *testing.T, name string, z float32, doubleSided bool) Node {
	t.Helper()
	return NewNode(
		WithName(name),
		WithPosition(mgl32.Vec3{0, 0, z}),
		WithMesh(quad(t), material.NewMaterial(material.WithDoubleSided(doubleSided))),
	)
}

func TestNewGeometryComputesNormalsAndBounds(t *testing.T) {
	g := quad(t)
	assert.Equal(t, 4, g.VertexCount())
	assert.Equal(t, 2, g.TriangleCount())

	inter := g.Interleaved()
	require.Len(t, inter, 4*8)
	assert.InDelta(t, 1, inter[5], 1e-6, "normal z of first vertex")

	lo, hi := g.Bounds()
	assert.Equal(t, mgl32.Vec3{-1, -1, 0}, lo)
	assert.Equal(t, mgl32.Vec3{1, 1, 0}, hi)
	_, r := g.BoundingSphere()
	assert.InDelta(t, math.Sqrt2, r, 1e-6)
}

func TestNewGeometryValidation(t *testing.T) {
	_, err := NewGeometry(nil, nil, nil, nil)
	assert.ErrorIs(t, err, ErrEmptyGeometry)

	_, err = NewGeometry([]float32{0, 0, 0, 1, 0, 0, 0, 1, 0}, nil, nil, []uint32{0, 1, 5})
	assert.Error(t, err)

	g, err := NewGeometry([]float32{0, 0, 0, 1, 0, 0, 0, 1, 0}, nil, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, []uint32{0, 1, 2}, g.Indices())
}

func TestAddReparentsAndGetObjectByName(t *testing.T) {
	s := NewScene()
	lamp := NewNode(WithName("lamp"), WithKind(KindGroup))
	caseNode := NewNode(WithName("case001"))
	bulb := NewNode(WithName("bulb001"))
	lamp.Add(caseNode)
	caseNode.Add(bulb)
	s.Add(lamp)

	assert.Equal(t, bulb, s.GetObjectByName("bulb001"))
	assert.Nil(t, s.GetObjectByName("missing"))
	assert.Equal(t, caseNode, bulb.Parent())

	lamp.Add(bulb)
	assert.Equal(t, lamp, bulb.Parent())
	assert.Empty(t, caseNode.Children())
	assert.Len(t, lamp.Children(), 2)

	assert.True(t, lamp.Remove(bulb))
	assert.False(t, lamp.Remove(bulb))
	assert.Nil(t, bulb.Parent())
}

func TestWorldMatrixComposesParents(t *testing.T) {
	parent := NewNode(WithPosition(mgl32.Vec3{0, -12.5, 0}), WithScale(mgl32.Vec3{5, 5, 5}))
	child := NewNode(WithPosition(mgl32.Vec3{1, 0, 0}))
	parent.Add(child)

	p := child.WorldPosition()
	assert.InDelta(t, 5, p.X(), 1e-5)
	assert.InDelta(t, -12.5, p.Y(), 1e-5)
}

func TestFindAncestor(t *testing.T) {
	caseNode := NewNode(WithName("case001"))
	group := NewNode(WithName("case001_group"))
	leaf := NewNode(WithName("leaf"))
	caseNode.Add(group)
	group.Add(leaf)

	assert.Equal(t, caseNode, FindAncestor(leaf, "case001"))
	assert.Equal(t, leaf, FindAncestor(leaf, "leaf"))
	assert.Nil(t, FindAncestor(leaf, "control_panel"))
	assert.True(t, IsDescendantOf(leaf, caseNode))
	assert.False(t, IsDescendantOf(caseNode, leaf))
}

func TestRaycastSortsByDistance(t *testing.T) {
	s := NewScene()
	far := meshNode(t, "far", -5, true)
	near := meshNode(t, "near", 0, true)
	s.Add(far, near)

	hits := s.Raycast(NewRay(mgl32.Vec3{0.2, 0.1, 10}, mgl32.Vec3{0, 0, -1}))
	require.Len(t, hits, 2)
	assert.Equal(t, "near", hits[0].Node.Name())
	assert.Equal(t, "far", hits[1].Node.Name())
	assert.InDelta(t, 10, hits[0].Distance, 1e-4)
	assert.InDelta(t, 15, hits[1].Distance, 1e-4)
	assert.InDelta(t, 0.2, hits[0].Point.X(), 1e-4)
}

func TestRaycastSkipsInvisibleAndBackFaces(t *testing.T) {
	s := NewScene()
	single := meshNode(t, "single", 0, false)
	hidden := meshNode(t, "hidden", -2, true)
	hidden.SetVisible(false)
	s.Add(single, hidden)

	assert.Len(t, s.Raycast(NewRay(mgl32.Vec3{0, 0, 10}, mgl32.Vec3{0, 0, -1})), 1)
	assert.Empty(t, s.Raycast(NewRay(mgl32.Vec3{0, 0, -10}, mgl32.Vec3{0, 0, 1})), "back face of single sided quad")
	assert.Empty(t, s.Raycast(NewRay(mgl32.Vec3{5, 5, 10}, mgl32.Vec3{0, 0, -1})))
}

func TestRaycastSharedEdgeReportsNodeOnce(t *testing.T) {
	s := NewScene()
	s.Add(meshNode(t, "quad", 0, true))

	hits := s.Raycast(NewRay(mgl32.Vec3{0, 0, 10}, mgl32.Vec3{0, 0, -1}))
	require.Len(t, hits, 1, "ray through the diagonal both triangles share")
	assert.Equal(t, "quad", hits[0].Node.Name())
	assert.InDelta(t, 10, hits[0].Distance, 1e-4)

	hits = s.Raycast(NewRay(mgl32.Vec3{0.5, -0.5, 10}, mgl32.Vec3{0, 0, -1}))
	require.Len(t, hits, 1)
	assert.Equal(t, 0, hits[0].Face)

	hits = s.Raycast(NewRay(mgl32.Vec3{-0.5, 0.5, 10}, mgl32.Vec3{0, 0, -1}))
	require.Len(t, hits, 1)
	assert.Equal(t, 1, hits[0].Face)
}

func TestRaycastFollowsRotation(t *testing.T) {
	s := NewScene()
	n := meshNode(t, "turned", 0, true)
	n.SetRotation(mgl32.Vec3{0, math.Pi / 2, 0})
	s.Add(n)

	assert.Empty(t, s.Raycast(NewRay(mgl32.Vec3{0.5, 0.5, 10}, mgl32.Vec3{0, 0, -1})))
	hits := s.Raycast(NewRay(mgl32.Vec3{10, 0.5, 0.5}, mgl32.Vec3{-1, 0, 0}))
	require.Len(t, hits, 1)
	assert.InDelta(t, 10, hits[0].Distance, 1e-4)
}

func TestRayFromNDCCenterLooksAtTarget(t *testing.T) {
	view := mgl32.LookAtV(mgl32.Vec3{0, 0, 10}, mgl32.Vec3{}, mgl32.Vec3{0, 1, 0})
	vp := common.Perspective(mgl32.DegToRad(45), 1, 0.1, 100).Mul4(view)

	r := RayFromNDC(mgl32.Vec2{0, 0}, vp.Inv())
	assert.InDelta(t, -1, r.Direction.Z(), 1e-4)
	assert.InDelta(t, 9.9, r.Origin.Z(), 1e-3)
}

func TestResolvedLightsFollowAttachedNode(t *testing.T) {
	point := light.NewLight(light.LightTypePoint, light.WithPosition(-3, 0, -0.5))
	ambient := light.NewLight(light.LightTypeAmbient, light.WithIntensity(0.5))
	s := NewScene(WithLights(point, ambient))

	caseNode := NewNode(WithName("case001"), WithPosition(mgl32.Vec3{1, 0, 0}))
	target := NewNode(WithPosition(mgl32.Vec3{-3, 5, -3}))
	caseNode.Add(target)
	spot := light.NewLight(light.LightTypeSpot)
	caseNode.AttachLight(spot, target)
	s.Add(caseNode)

	lights := s.ResolvedLights()
	require.Len(t, lights, 2)
	assert.Equal(t, point, lights[0].Light)
	assert.Equal(t, spot, lights[1].Light)
	assert.Equal(t, mgl32.Vec3{1, 0, 0}, lights[1].Position)

	want := mgl32.Vec3{-3, 5, -3}.Normalize()
	for i := 0; i < 3; i++ {
		assert.InDelta(t, want[i], lights[1].Direction[i], 1e-5)
	}

	caseNode.SetRotation(mgl32.Vec3{0, math.Pi, 0})
	rotated := s.ResolvedLights()[1].Direction
	assert.InDelta(t, -want.X(), rotated.X(), 1e-5)
	assert.InDelta(t, -want.Z(), rotated.Z(), 1e-5)

	amb := s.Ambient()
	assert.InDelta(t, 0.5, amb.R, 1e-6)

	caseNode.SetVisible(false)
	assert.Len(t, s.ResolvedLights(), 1)
}

func TestDumpTree(t *testing.T) {
	root := NewNode(WithKind(KindScene))
	lamp := NewNode(WithName("lamp"), WithKind(KindGroup))
	caseNode := NewNode(WithName("case001"), WithKind(KindMesh))
	room := NewNode(WithName("room"), WithKind(KindGroup))
	lamp.Add(caseNode)
	root.Add(lamp, room)

	assert.Equal(t, []string{
		"*no-name* [Scene]",
		"  ├─lamp [Group]",
		"  │ └─case001 [Mesh]",
		"  └─room [Group]",
	}, DumpTree(root))
}
