package lamp

import (
	"bytes"
	"encoding/base64"
	"encoding/binary"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/domx3d/hello-lamp/engine/logging"
	"github.com/domx3d/hello-lamp/engine/material"
	"github.com/domx3d/hello-lamp/engine/scene"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/require"
)

type fakeSurface struct {
	w, h int
}

func (s *fakeSurface) FramebufferSize() (int, int) { return s.w, s.h }

// newTestSession builds a session on a 1280x720 surface with a silent logger.
func newTestSession(t *testing.T, mutate ...func(*Config)) (*Session, *fakeSurface) {
	t.Helper()
	cfg := DefaultConfig()
	for _, m := range mutate {
		m(&cfg)
	}
	surface := &fakeSurface{w: 1280, h: 720}
	s, err := NewSession(cfg, WithLogger(logging.NewNopLogger()), WithSessionSurface(surface))
	require.NoError(t, err)
	return s, surface
}

// quad returns a double-sided 2x2 mesh in the XY plane centered on pos.
func quad(t *testing.T, name string, pos mgl32.Vec3) scene.Node {
	t.Helper()
	g, err := scene.NewGeometry([]float32{
		-1, -1, 0,
		1, -1, 0,
		1, 1, 0,
		-1, 1, 0,
	}, nil, nil, []uint32{0, 1, 2, 0, 2, 3})
	require.NoError(t, err)
	return scene.NewNode(
		scene.WithName(name),
		scene.WithPosition(pos),
		scene.WithMesh(g, material.NewMaterial(material.WithDoubleSided(true))),
	)
}

// group wraps children in a named group.
func group(name string, children ...scene.Node) scene.Node {
	return scene.NewNode(scene.WithName(name), scene.WithKind(scene.KindGroup), scene.WithChildren(children...))
}

// lampTree mirrors the lamp asset: a group holding the case, whose meshes include glass, foil and bulb.
func lampTree(t *testing.T, skip ...string) scene.Node {
	t.Helper()
	skipped := make(map[string]bool)
	for _, s := range skip {
		skipped[s] = true
	}
	var parts []scene.Node
	for _, name := range []string{GlassName, FoilName, BulbName} {
		if !skipped[name] {
			parts = append(parts, quad(t, name, mgl32.Vec3{0, 0, 0}))
		}
	}
	parts = append(parts, quad(t, "case_body", mgl32.Vec3{}))
	return group("Scene", group(CaseName, parts...))
}

type gltfNode struct {
	name     string
	mesh     bool
	children []int
}

// writeGLTF writes a document whose mesh nodes all instance one triangle through a data URI buffer.
func writeGLTF(t *testing.T, dir, rel string, nodes []gltfNode) {
	t.Helper()
	buf := new(bytes.Buffer)
	require.NoError(t, binary.Write(buf, binary.LittleEndian, []float32{0, 0, 0, 1, 0, 0, 0, 1, 0}))
	require.NoError(t, binary.Write(buf, binary.LittleEndian, []uint16{0, 1, 2, 0}))
	bin := buf.Bytes()

	jsonNodes := make([]any, 0, len(nodes))
	for _, n := range nodes {
		node := map[string]any{"name": n.name}
		if n.mesh {
			node["mesh"] = 0
		}
		if len(n.children) > 0 {
			node["children"] = n.children
		}
		jsonNodes = append(jsonNodes, node)
	}

	doc := map[string]any{
		"asset":  map[string]any{"version": "2.0"},
		"scene":  0,
		"scenes": []any{map[string]any{"name": "Scene", "nodes": []int{0}}},
		"nodes":  jsonNodes,
		"meshes": []any{map[string]any{
			"primitives": []any{map[string]any{
				"attributes": map[string]int{"POSITION": 0},
				"indices":    1,
				"material":   0,
			}},
		}},
		"materials": []any{map[string]any{"name": "plastic"}},
		"accessors": []any{
			map[string]any{"bufferView": 0, "componentType": 5126, "count": 3, "type": "VEC3"},
			map[string]any{"bufferView": 1, "componentType": 5123, "count": 3, "type": "SCALAR"},
		},
		"bufferViews": []any{
			map[string]any{"buffer": 0, "byteOffset": 0, "byteLength": 36},
			map[string]any{"buffer": 0, "byteOffset": 36, "byteLength": 6},
		},
		"buffers": []any{map[string]any{
			"byteLength": len(bin),
			"uri":        "data:application/octet-stream;base64," + base64.StdEncoding.EncodeToString(bin),
		}},
	}
	data, err := json.Marshal(doc)
	require.NoError(t, err)

	path := filepath.Join(dir, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, data, 0o644))
}

// writeAssets writes the three showcase assets under dir, skipping the named ones.
func writeAssets(t *testing.T, dir string, skip ...string) {
	t.Helper()
	skipped := make(map[string]bool)
	for _, s := range skip {
		skipped[s] = true
	}
	cfg := DefaultConfig()
	if !skipped["lamp"] {
		writeGLTF(t, dir, cfg.Assets.Lamp, []gltfNode{
			{name: CaseName, children: []int{1, 2, 3, 4}},
			{name: GlassName, mesh: true},
			{name: FoilName, mesh: true},
			{name: BulbName, mesh: true},
			{name: "body", mesh: true},
		})
	}
	if !skipped["panel"] {
		writeGLTF(t, dir, cfg.Assets.ColorPanel, []gltfNode{
			{name: ControlPanelName, mesh: true},
		})
	}
	if !skipped["room"] {
		writeGLTF(t, dir, cfg.Assets.Room, []gltfNode{
			{name: "floor", mesh: true},
		})
	}
}
