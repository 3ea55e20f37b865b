package scene

import (
	"github.com/domx3d/hello-lamp/engine/material"
	"github.com/go-gl/mathgl/mgl32"
)

// NodeBuilderOption is a functional option for configuring a Node during construction.
type NodeBuilderOption func(*node)

// WithName sets the node name.
//
// Parameters:
//   - name: the node name
//
// Returns:
//   - NodeBuilderOption: functional option to set the name
func WithName(name string) NodeBuilderOption {
	return func(n *node) {
		n.name = name
	}
}

// WithKind overrides the node kind. Nodes built with a geometry are always meshes.
//
// Parameters:
//   - kind: the node kind
//
// Returns:
//   - NodeBuilderOption: functional option to set the kind
func WithKind(kind NodeKind) NodeBuilderOption {
	return func(n *node) {
		n.kind = kind
	}
}

// WithPosition sets the local translation.
func WithPosition(p mgl32.Vec3) NodeBuilderOption {
	return func(n *node) {
		n.position = p
	}
}

// WithRotation sets the local XYZ Euler rotation in radians.
func WithRotation(r mgl32.Vec3) NodeBuilderOption {
	return func(n *node) {
		n.rotation = r
	}
}

// WithScale sets the local scale.
func WithScale(s mgl32.Vec3) NodeBuilderOption {
	return func(n *node) {
		n.scale = s
	}
}

// WithMesh turns the node into a mesh.
//
// Parameters:
//   - g: the geometry
//   - m: the material, or nil for the default material
//
// Returns:
//   - NodeBuilderOption: functional option to set the mesh
func WithMesh(g *Geometry, m material.Material) NodeBuilderOption {
	return func(n *node) {
		n.geometry = g
		n.material = m
	}
}

// WithChildren adds children in order.
func WithChildren(children ...Node) NodeBuilderOption {
	return func(n *node) {
		n.Add(children...)
	}
}
