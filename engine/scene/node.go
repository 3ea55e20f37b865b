package scene

import (
	"github.com/domx3d/hello-lamp/common"
	"github.com/domx3d/hello-lamp/engine/light"
	"github.com/domx3d/hello-lamp/engine/material"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"
)

// NodeKind names the role of a node in the graph, mirroring the glTF import structure.
type NodeKind string

const (
	KindObject3D NodeKind = "Object3D"
	KindGroup    NodeKind = "Group"
	KindMesh     NodeKind = "Mesh"
	KindScene    NodeKind = "Scene"
)

// LightAttachment is a light carried by a node. Target, when set, is the node the spot axis points at.
type LightAttachment struct {
	Light  light.Light
	Target Node
}

// node is the implementation of the Node interface.
type node struct {
	id       string
	name     string
	kind     NodeKind
	parent   *node
	children []*node

	position mgl32.Vec3
	rotation mgl32.Vec3
	scale    mgl32.Vec3
	visible  bool

	geometry *Geometry
	material material.Material
	lights   []LightAttachment
}

// Node is an element of the scene graph.
//
// Nodes are not safe for concurrent use. A subgraph may be built on a worker goroutine and
// handed to the main thread, after which only the main thread touches it.
type Node interface {
	// ID returns the node's unique identifier.
	//
	// Returns:
	//   - string: a UUID assigned at construction
	ID() string

	// Name returns the node name, matched exactly by GetObjectByName.
	//
	// Returns:
	//   - string: the name, possibly empty
	Name() string

	// SetName renames the node.
	//
	// Parameters:
	//   - name: the new name
	SetName(name string)

	// Kind returns the role of the node.
	//
	// Returns:
	//   - NodeKind: Object3D, Group, Mesh or Scene
	Kind() NodeKind

	// Parent returns the parent node, or nil for a root.
	//
	// Returns:
	//   - Node: the parent or nil
	Parent() Node

	// Children returns the direct children in insertion order.
	//
	// Returns:
	//   - []Node: a fresh slice of children
	Children() []Node

	// Add reparents each child under this node, removing it from any previous parent.
	//
	// Parameters:
	//   - children: nodes to add
	Add(children ...Node)

	// Remove detaches a direct child.
	//
	// Parameters:
	//   - child: the node to detach
	//
	// Returns:
	//   - bool: false when child was not a direct child
	Remove(child Node) bool

	Position() mgl32.Vec3
	SetPosition(p mgl32.Vec3)

	// Rotation returns XYZ-order Euler angles in radians.
	Rotation() mgl32.Vec3
	SetRotation(r mgl32.Vec3)

	Scale() mgl32.Vec3
	SetScale(s mgl32.Vec3)

	// Visible reports whether the node and its subtree are drawn and raycast.
	Visible() bool
	SetVisible(visible bool)

	// Geometry returns the mesh geometry, or nil for non-mesh nodes.
	Geometry() *Geometry

	// Material returns the mesh material, or nil for non-mesh nodes.
	Material() material.Material

	// SetMaterial replaces the mesh material.
	//
	// Parameters:
	//   - m: the new material
	SetMaterial(m material.Material)

	// AttachLight makes l follow this node's transform.
	//
	// Parameters:
	//   - l: the light; its position is read in this node's local space
	//   - target: for spot lights, the node the cone points at; nil points at the world origin
	AttachLight(l light.Light, target Node)

	// Lights returns the lights attached to this node.
	Lights() []LightAttachment

	// LocalMatrix returns T * R * S for this node.
	LocalMatrix() mgl32.Mat4

	// WorldMatrix returns the product of all ancestor local matrices with this node's local matrix.
	WorldMatrix() mgl32.Mat4

	// WorldPosition returns the translation part of WorldMatrix.
	WorldPosition() mgl32.Vec3

	// GetObjectByName searches this node and its descendants depth first for an exact name match.
	//
	// Parameters:
	//   - name: the name to find
	//
	// Returns:
	//   - Node: the first match, or nil
	GetObjectByName(name string) Node

	// Traverse visits this node and its descendants depth first.
	// Returning false from fn skips the subtree below the visited node.
	//
	// Parameters:
	//   - fn: the visitor
	Traverse(fn func(Node) bool)

	impl() *node
}

var _ Node = &node{}

// NewNode creates a node configured with the provided options.
// Defaults: kind Object3D, unit scale, visible.
//
// Parameters:
//   - options: variadic list of NodeBuilderOption functions
//
// Returns:
//   - Node: the node
func NewNode(options ...NodeBuilderOption) Node {
	n := &node{
		id:      uuid.NewString(),
		kind:    KindObject3D,
		scale:   mgl32.Vec3{1, 1, 1},
		visible: true,
	}
	for _, opt := range options {
		opt(n)
	}
	if n.geometry != nil {
		n.kind = KindMesh
		if n.material == nil {
			n.material = material.NewMaterial()
		}
	}
	return n
}

func (n *node) impl() *node {
	return n
}

func (n *node) ID() string {
	return n.id
}

func (n *node) Name() string {
	return n.name
}

func (n *node) SetName(name string) {
	n.name = name
}

func (n *node) Kind() NodeKind {
	return n.kind
}

func (n *node) Parent() Node {
	if n.parent == nil {
		return nil
	}
	return n.parent
}

func (n *node) Children() []Node {
	out := make([]Node, len(n.children))
	for i, c := range n.children {
		out[i] = c
	}
	return out
}

func (n *node) Add(children ...Node) {
	for _, c := range children {
		if c == nil {
			continue
		}
		ci := c.impl()
		if ci == n {
			continue
		}
		if ci.parent != nil {
			ci.parent.Remove(ci)
		}
		ci.parent = n
		n.children = append(n.children, ci)
	}
}

func (n *node) Remove(child Node) bool {
	if child == nil {
		return false
	}
	ci := child.impl()
	for i, c := range n.children {
		if c == ci {
			n.children = append(n.children[:i], n.children[i+1:]...)
			ci.parent = nil
			return true
		}
	}
	return false
}

func (n *node) Position() mgl32.Vec3 {
	return n.position
}

func (n *node) SetPosition(p mgl32.Vec3) {
	n.position = p
}

func (n *node) Rotation() mgl32.Vec3 {
	return n.rotation
}

func (n *node) SetRotation(r mgl32.Vec3) {
	n.rotation = r
}

func (n *node) Scale() mgl32.Vec3 {
	return n.scale
}

func (n *node) SetScale(s mgl32.Vec3) {
	n.scale = s
}

func (n *node) Visible() bool {
	return n.visible
}

func (n *node) SetVisible(visible bool) {
	n.visible = visible
}

func (n *node) Geometry() *Geometry {
	return n.geometry
}

func (n *node) Material() material.Material {
	return n.material
}

func (n *node) SetMaterial(m material.Material) {
	n.material = m
}

func (n *node) AttachLight(l light.Light, target Node) {
	n.lights = append(n.lights, LightAttachment{Light: l, Target: target})
}

func (n *node) Lights() []LightAttachment {
	return n.lights
}

func (n *node) LocalMatrix() mgl32.Mat4 {
	return common.ComposeTRS(n.position, n.rotation, n.scale)
}

func (n *node) WorldMatrix() mgl32.Mat4 {
	m := n.LocalMatrix()
	for p := n.parent; p != nil; p = p.parent {
		m = p.LocalMatrix().Mul4(m)
	}
	return m
}

func (n *node) WorldPosition() mgl32.Vec3 {
	return n.WorldMatrix().Col(3).Vec3()
}

func (n *node) GetObjectByName(name string) Node {
	if n.name == name {
		return n
	}
	for _, c := range n.children {
		if found := c.GetObjectByName(name); found != nil {
			return found
		}
	}
	return nil
}

func (n *node) Traverse(fn func(Node) bool) {
	if !fn(n) {
		return
	}
	for _, c := range n.children {
		c.Traverse(fn)
	}
}

// FindAncestor walks from n up to the root, n included, and returns the first node named name.
//
// Parameters:
//   - n: the starting node
//   - name: the exact name to match
//
// Returns:
//   - Node: the match, or nil
func FindAncestor(n Node, name string) Node {
	for cur := n; cur != nil; cur = cur.Parent() {
		if cur.Name() == name {
			return cur
		}
	}
	return nil
}

// IsDescendantOf reports whether n equals ancestor or lies below it.
func IsDescendantOf(n, ancestor Node) bool {
	if ancestor == nil {
		return false
	}
	for cur := n; cur != nil; cur = cur.Parent() {
		if cur.ID() == ancestor.ID() {
			return true
		}
	}
	return false
}
