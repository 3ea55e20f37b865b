package loader

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/domx3d/hello-lamp/common"
	"github.com/domx3d/hello-lamp/engine/material"
	"github.com/domx3d/hello-lamp/engine/scene"

	"github.com/go-gl/mathgl/mgl32"
)

// gltfImporterImpl is the implementation of the gltfImporter interface.
type gltfImporterImpl struct{}

// gltfImporter combines the parser and the extractors to turn a glTF document into a scene subgraph.
type gltfImporter interface {
	// Import parses a .gltf or .glb file and builds its default scene.
	//
	// Parameters:
	//   - path: the file path
	//
	// Returns:
	//   - scene.Node: a Group holding the scene's root nodes
	//   - error: error if parsing or extraction fails
	Import(path string) (scene.Node, error)

	// ImportBytes builds the default scene of an in-memory document.
	//
	// Parameters:
	//   - name: fallback name of the returned group
	//   - data: glTF JSON or GLB bytes
	//   - baseDir: directory that relative URIs resolve against
	//
	// Returns:
	//   - scene.Node: a Group holding the scene's root nodes
	//   - error: error if parsing or extraction fails
	ImportBytes(name string, data []byte, baseDir string) (scene.Node, error)
}

var _ gltfImporter = &gltfImporterImpl{}

func newGLTFImporter() gltfImporter {
	return &gltfImporterImpl{}
}

func (imp *gltfImporterImpl) Import(path string) (scene.Node, error) {
	parser := newGLTFParser()
	if err := parser.Parse(path); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return imp.importFromParser(parser, path)
}

func (imp *gltfImporterImpl) ImportBytes(name string, data []byte, baseDir string) (scene.Node, error) {
	parser := newGLTFParser()
	if err := parser.ParseBytes(data, baseDir); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", name, err)
	}
	return imp.importFromParser(parser, name)
}

// graphBuilder carries per-import state while nodes are instantiated.
type graphBuilder struct {
	doc       *gltfDocument
	meshes    gltfMeshExtractor
	materials gltfMaterialExtractor
	fallback  material.Material
	visiting  map[int]bool
}

func (imp *gltfImporterImpl) importFromParser(parser gltfParser, fallbackName string) (scene.Node, error) {
	doc := parser.Document()
	if doc == nil {
		return nil, errNoDocument
	}

	b := &graphBuilder{
		doc:       doc,
		meshes:    newGLTFMeshExtractor(parser),
		materials: newGLTFMaterialExtractor(parser),
		visiting:  make(map[int]bool),
	}

	roots, sceneName := gltfSceneRoots(doc)
	group := scene.NewNode(
		scene.WithName(common.Coalesce(sceneName, gltfModelName(fallbackName))),
		scene.WithKind(scene.KindGroup),
	)
	for _, idx := range roots {
		n, err := b.buildNode(idx)
		if err != nil {
			return nil, err
		}
		group.Add(n)
	}
	return group, nil
}

// gltfSceneRoots returns the root node indices of the default scene. Documents without scenes
// fall back to every node that no other node lists as a child.
func gltfSceneRoots(doc *gltfDocument) ([]int, string) {
	if len(doc.Scenes) > 0 {
		idx := 0
		if doc.Scene != nil && *doc.Scene >= 0 && *doc.Scene < len(doc.Scenes) {
			idx = *doc.Scene
		}
		return doc.Scenes[idx].Nodes, doc.Scenes[idx].Name
	}

	isChild := make(map[int]bool)
	for _, n := range doc.Nodes {
		for _, c := range n.Children {
			isChild[c] = true
		}
	}
	var roots []int
	for i := range doc.Nodes {
		if !isChild[i] {
			roots = append(roots, i)
		}
	}
	return roots, ""
}

func (b *graphBuilder) buildNode(idx int) (scene.Node, error) {
	if idx < 0 || idx >= len(b.doc.Nodes) {
		return nil, fmt.Errorf("node index %d out of range", idx)
	}
	if b.visiting[idx] {
		return nil, fmt.Errorf("node %d is part of a cycle", idx)
	}
	b.visiting[idx] = true
	defer delete(b.visiting, idx)

	src := &b.doc.Nodes[idx]
	pos, rot, scale := gltfNodeTRS(src)
	opts := []scene.NodeBuilderOption{
		scene.WithName(src.Name),
		scene.WithPosition(pos),
		scene.WithRotation(rot),
		scene.WithScale(scale),
	}

	var n scene.Node
	if src.Mesh != nil {
		meshNodes, err := b.buildMesh(*src.Mesh)
		if err != nil {
			return nil, fmt.Errorf("node %q: %w", src.Name, err)
		}
		if len(meshNodes) == 1 {
			// A single primitive becomes the node itself, so its name finds the mesh directly.
			n = meshNodes[0]
			n.SetName(src.Name)
			n.SetPosition(pos)
			n.SetRotation(rot)
			n.SetScale(scale)
		} else {
			n = scene.NewNode(append(opts, scene.WithKind(scene.KindGroup), scene.WithChildren(meshNodes...))...)
		}
	} else {
		n = scene.NewNode(opts...)
	}

	for _, c := range src.Children {
		child, err := b.buildNode(c)
		if err != nil {
			return nil, err
		}
		n.Add(child)
	}
	return n, nil
}

func (b *graphBuilder) buildMesh(meshIndex int) ([]scene.Node, error) {
	geoms, err := b.meshes.ExtractMesh(meshIndex)
	if err != nil {
		return nil, err
	}
	mesh := &b.doc.Meshes[meshIndex]

	nodes := make([]scene.Node, 0, len(geoms))
	for i, g := range geoms {
		mat, err := b.primitiveMaterial(&mesh.Primitives[i])
		if err != nil {
			return nil, err
		}
		name := mesh.Name
		if len(geoms) > 1 {
			name = fmt.Sprintf("%s_%d", mesh.Name, i)
		}
		nodes = append(nodes, scene.NewNode(scene.WithName(name), scene.WithMesh(g, mat)))
	}
	return nodes, nil
}

func (b *graphBuilder) primitiveMaterial(prim *gltfPrimitive) (material.Material, error) {
	if prim.Material != nil {
		return b.materials.ExtractMaterial(*prim.Material)
	}
	if b.fallback == nil {
		b.fallback = material.NewMaterial(material.WithName("default"))
	}
	return b.fallback, nil
}

// gltfNodeTRS returns position, XYZ Euler rotation and scale. A matrix is decomposed, assuming
// no shear, as glTF requires for node matrices.
func gltfNodeTRS(n *gltfNode) (mgl32.Vec3, mgl32.Vec3, mgl32.Vec3) {
	if n.Matrix != nil {
		m := mgl32.Mat4(*n.Matrix)
		pos := m.Col(3).Vec3()
		scale := mgl32.Vec3{m.Col(0).Vec3().Len(), m.Col(1).Vec3().Len(), m.Col(2).Vec3().Len()}
		if m.Mat3().Det() < 0 {
			scale[0] = -scale[0]
		}
		var rot mgl32.Mat3
		for c := 0; c < 3; c++ {
			col := m.Col(c).Vec3()
			if scale[c] != 0 {
				col = col.Mul(1 / scale[c])
			}
			rot.SetCol(c, col)
		}
		return pos, common.EulerFromQuat(mgl32.Mat4ToQuat(rot.Mat4())), scale
	}

	pos := mgl32.Vec3{}
	if n.Translation != nil {
		pos = mgl32.Vec3(*n.Translation)
	}
	rot := mgl32.Vec3{}
	if r := n.Rotation; r != nil {
		q := mgl32.Quat{W: r[3], V: mgl32.Vec3{r[0], r[1], r[2]}}.Normalize()
		rot = common.EulerFromQuat(q)
	}
	scale := mgl32.Vec3{1, 1, 1}
	if n.Scale != nil {
		scale = mgl32.Vec3(*n.Scale)
	}
	return pos, rot, scale
}

// gltfModelName derives a group name from a path: "objects/lamp.gltf" becomes "lamp".
func gltfModelName(path string) string {
	base := filepath.Base(path)
	if name := strings.TrimSuffix(base, filepath.Ext(base)); name != "" && name != "." {
		return name
	}
	return "model"
}
