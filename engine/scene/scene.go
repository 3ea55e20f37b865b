package scene

import (
	"github.com/domx3d/hello-lamp/common"
	"github.com/domx3d/hello-lamp/engine/light"
	"github.com/domx3d/hello-lamp/engine/logging"
	"github.com/go-gl/mathgl/mgl32"
)

// ResolvedLight is a point or spot light with its world-space placement for the current frame.
type ResolvedLight struct {
	Light     light.Light
	Position  mgl32.Vec3
	Direction mgl32.Vec3
}

// scene is the implementation of the Scene interface.
type scene struct {
	root       Node
	lights     []light.Light
	background common.Color
	logger     logging.Logger
}

// Scene owns the root of the node graph and the lights that are not attached to any node.
type Scene interface {
	// Root returns the scene root node.
	//
	// Returns:
	//   - Node: the root, of kind Scene
	Root() Node

	// Add attaches nodes directly under the root.
	//
	// Parameters:
	//   - nodes: the nodes to attach
	Add(nodes ...Node)

	// AddLight registers a light positioned in world space.
	//
	// Parameters:
	//   - l: the light
	AddLight(l light.Light)

	// GetObjectByName searches the whole graph for an exact name match.
	//
	// Parameters:
	//   - name: the name to find
	//
	// Returns:
	//   - Node: the first match in depth-first order, or nil
	GetObjectByName(name string) Node

	// Ambient returns the sum of all enabled ambient lights, scaled by intensity.
	//
	// Returns:
	//   - common.Color: the ambient term
	Ambient() common.Color

	// ResolvedLights returns every enabled point and spot light with world-space position and direction.
	// Lights attached to invisible subtrees are skipped.
	//
	// Returns:
	//   - []ResolvedLight: the lights in registration then traversal order
	ResolvedLights() []ResolvedLight

	// Background returns the clear color.
	Background() common.Color

	// Raycast intersects a ray with every visible mesh in the graph.
	//
	// Parameters:
	//   - ray: the world-space ray
	//
	// Returns:
	//   - []Hit: intersections sorted by ascending distance
	Raycast(ray Ray) []Hit

	// Dump renders the node tree as indented lines.
	//
	// Returns:
	//   - []string: one line per node
	Dump() []string
}

var _ Scene = &scene{}

// NewScene creates an empty scene configured with the provided options.
//
// Parameters:
//   - options: variadic list of SceneBuilderOption functions
//
// Returns:
//   - Scene: the scene
func NewScene(options ...SceneBuilderOption) Scene {
	s := &scene{
		root:       NewNode(WithKind(KindScene)),
		background: common.Color{R: 0.1, G: 0.1, B: 0.1},
	}
	for _, opt := range options {
		opt(s)
	}
	s.logger = logging.OrDefault(s.logger)
	return s
}

func (s *scene) Root() Node {
	return s.root
}

func (s *scene) Add(nodes ...Node) {
	s.root.Add(nodes...)
}

func (s *scene) AddLight(l light.Light) {
	s.lights = append(s.lights, l)
}

func (s *scene) GetObjectByName(name string) Node {
	return s.root.GetObjectByName(name)
}

func (s *scene) Background() common.Color {
	return s.background
}

func (s *scene) Ambient() common.Color {
	var sum common.Color
	add := func(l light.Light) {
		if l.Enabled() && l.Type() == light.LightTypeAmbient {
			c := l.Color().Scale(l.Intensity())
			sum = common.Color{R: sum.R + c.R, G: sum.G + c.G, B: sum.B + c.B}
		}
	}
	for _, l := range s.lights {
		add(l)
	}
	s.root.Traverse(func(n Node) bool {
		for _, a := range n.Lights() {
			add(a.Light)
		}
		return n.Visible()
	})
	return sum
}

func (s *scene) ResolvedLights() []ResolvedLight {
	var out []ResolvedLight
	for _, l := range s.lights {
		if !l.Enabled() || l.Type() == light.LightTypeAmbient {
			continue
		}
		out = append(out, ResolvedLight{
			Light:     l,
			Position:  l.Position(),
			Direction: directionTo(l.Position(), mgl32.Vec3{}),
		})
	}
	s.root.Traverse(func(n Node) bool {
		if !n.Visible() {
			return false
		}
		for _, a := range n.Lights() {
			if !a.Light.Enabled() || a.Light.Type() == light.LightTypeAmbient {
				continue
			}
			pos := mgl32.TransformCoordinate(a.Light.Position(), n.WorldMatrix())
			var target mgl32.Vec3
			if a.Target != nil {
				target = a.Target.WorldPosition()
			}
			out = append(out, ResolvedLight{
				Light:     a.Light,
				Position:  pos,
				Direction: directionTo(pos, target),
			})
		}
		return true
	})
	if len(out) > light.MaxGPULights {
		s.logger.Debugf("scene: %d lights exceed the %d light budget, extra lights dropped", len(out), light.MaxGPULights)
		out = out[:light.MaxGPULights]
	}
	return out
}

func directionTo(from, to mgl32.Vec3) mgl32.Vec3 {
	d := to.Sub(from)
	if d.Len() == 0 {
		return mgl32.Vec3{0, -1, 0}
	}
	return d.Normalize()
}

func (s *scene) Raycast(ray Ray) []Hit {
	return IntersectNode(s.root, ray)
}

func (s *scene) Dump() []string {
	return DumpTree(s.root)
}
