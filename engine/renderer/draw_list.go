package renderer

import (
	"cmp"
	"slices"

	"github.com/domx3d/hello-lamp/common"
	"github.com/domx3d/hello-lamp/engine/scene"

	"github.com/go-gl/mathgl/mgl32"
)

// Mesh pipeline keys. Transparent pipelines blend and skip depth writes; double-sided ones do not cull.
const (
	pipelineOpaque                 = "mesh/opaque"
	pipelineOpaqueDoubleSided      = "mesh/opaque/double-sided"
	pipelineTransparent            = "mesh/transparent"
	pipelineTransparentDoubleSided = "mesh/transparent/double-sided"
	pipelineOverlay                = "overlay"
)

// meshPipelineKey picks one of the four mesh pipeline variants.
func meshPipelineKey(transparent, doubleSided bool) string {
	switch {
	case transparent && doubleSided:
		return pipelineTransparentDoubleSided
	case transparent:
		return pipelineTransparent
	case doubleSided:
		return pipelineOpaqueDoubleSided
	default:
		return pipelineOpaque
	}
}

// drawItem is one visible mesh node queued for this frame.
type drawItem struct {
	node        scene.Node
	world       mgl32.Mat4
	pipelineKey string
	transparent bool
	// depth is the squared distance from the eye to the world-space bounds center.
	depth float32
}

// buildDrawList collects visible mesh nodes inside the frustum.
// Opaque items come first grouped by pipeline in traversal order, then transparent items back to front.
//
// Parameters:
//   - root: the scene root
//   - viewProj: the camera view-projection matrix
//   - eye: the camera world position
//
// Returns:
//   - []drawItem: the ordered draw list
func buildDrawList(root scene.Node, viewProj mgl32.Mat4, eye mgl32.Vec3) []drawItem {
	frustum := common.ExtractFrustum(viewProj)

	var items []drawItem
	root.Traverse(func(n scene.Node) bool {
		if !n.Visible() {
			return false
		}
		g := n.Geometry()
		if g == nil || g.TriangleCount() == 0 {
			return true
		}
		world := n.WorldMatrix()
		center, radius := worldBounds(g, world)
		if !frustum.SphereVisible(center, radius) {
			return true
		}

		transparent, doubleSided := false, false
		if m := n.Material(); m != nil {
			transparent, doubleSided = m.Transparent(), m.DoubleSided()
		}
		items = append(items, drawItem{
			node:        n,
			world:       world,
			pipelineKey: meshPipelineKey(transparent, doubleSided),
			transparent: transparent,
			depth:       center.Sub(eye).LenSqr(),
		})
		return true
	})

	slices.SortStableFunc(items, func(a, b drawItem) int {
		if a.transparent != b.transparent {
			if a.transparent {
				return 1
			}
			return -1
		}
		if a.transparent {
			return cmp.Compare(b.depth, a.depth)
		}
		return cmp.Compare(a.pipelineKey, b.pipelineKey)
	})
	return items
}

// worldBounds transforms a geometry's bounding sphere by a world matrix.
// The radius grows by the largest axis scale so the sphere stays conservative.
func worldBounds(g *scene.Geometry, world mgl32.Mat4) (mgl32.Vec3, float32) {
	center, radius := g.BoundingSphere()
	scale := max(world.Col(0).Vec3().Len(), world.Col(1).Vec3().Len(), world.Col(2).Vec3().Len())
	return mgl32.TransformCoordinate(center, world), radius * scale
}
