package loader

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/binary"
	"encoding/json"
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/domx3d/hello-lamp/engine/logging"
	"github.com/domx3d/hello-lamp/engine/scene"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// triangleBuffer holds one triangle: 36 bytes of positions followed by 6 bytes of uint16 indices.
func triangleBuffer() []byte {
	buf := new(bytes.Buffer)
	_ = binary.Write(buf, binary.LittleEndian, []float32{0, 0, 0, 1, 0, 0, 0, 1, 0})
	_ = binary.Write(buf, binary.LittleEndian, []uint16{0, 1, 2, 0})
	return buf.Bytes()
}

type docOption func(doc map[string]any)

// lampDoc builds a two-node document: case001 with a child bulb001, both instancing one triangle.
// With a nil uri the buffer is left for a GLB BIN chunk.
func lampDoc(uri *string, opts ...docOption) map[string]any {
	bin := triangleBuffer()
	buffer := map[string]any{"byteLength": len(bin)}
	if uri != nil {
		buffer["uri"] = *uri
	}
	doc := map[string]any{
		"asset":  map[string]any{"version": "2.0"},
		"scene":  0,
		"scenes": []any{map[string]any{"name": "Scene", "nodes": []int{0}}},
		"nodes": []any{
			map[string]any{"name": "case001", "mesh": 0, "translation": []float32{1, 2, 3}, "children": []int{1}},
			map[string]any{"name": "bulb001", "mesh": 0, "rotation": []float32{0, 0.5, 0, 0.8660254}},
		},
		"meshes": []any{map[string]any{
			"name": "tri",
			"primitives": []any{map[string]any{
				"attributes": map[string]int{"POSITION": 0},
				"indices":    1,
				"material":   0,
			}},
		}},
		"materials": []any{map[string]any{
			"name": "bulb",
			"pbrMetallicRoughness": map[string]any{
				"baseColorFactor": []float32{1, 0, 0, 0.5},
				"metallicFactor":  0.25,
				"roughnessFactor": 0.5,
			},
			"emissiveFactor": []float32{1, 1, 0},
			"alphaMode":      "BLEND",
			"doubleSided":    true,
		}},
		"accessors": []any{
			map[string]any{"bufferView": 0, "componentType": gltfComponentFloat, "count": 3, "type": "VEC3"},
			map[string]any{"bufferView": 1, "componentType": gltfComponentUnsignedShort, "count": 3, "type": "SCALAR"},
		},
		"bufferViews": []any{
			map[string]any{"buffer": 0, "byteOffset": 0, "byteLength": 36},
			map[string]any{"buffer": 0, "byteOffset": 36, "byteLength": 6},
		},
		"buffers": []any{buffer},
	}
	for _, opt := range opts {
		opt(doc)
	}
	return doc
}

func dataURI(b []byte) *string {
	s := "data:application/octet-stream;base64," + base64.StdEncoding.EncodeToString(b)
	return &s
}

func encode(t *testing.T, doc map[string]any) []byte {
	t.Helper()
	data, err := json.Marshal(doc)
	require.NoError(t, err)
	return data
}

func glb(jsonChunk, bin []byte) []byte {
	pad := func(b []byte, fill byte) []byte {
		for len(b)%4 != 0 {
			b = append(b, fill)
		}
		return b
	}
	jsonChunk = pad(append([]byte(nil), jsonChunk...), ' ')
	bin = pad(append([]byte(nil), bin...), 0)

	out := new(bytes.Buffer)
	total := uint32(glbHeaderSize + 8 + len(jsonChunk) + 8 + len(bin))
	_ = binary.Write(out, binary.LittleEndian, []uint32{glbMagic, glbVersion, total})
	_ = binary.Write(out, binary.LittleEndian, []uint32{uint32(len(jsonChunk)), glbChunkJSON})
	out.Write(jsonChunk)
	_ = binary.Write(out, binary.LittleEndian, []uint32{uint32(len(bin)), glbChunkBIN})
	out.Write(bin)
	return out.Bytes()
}

func TestImportBuildsNamedHierarchy(t *testing.T) {
	root, err := newGLTFImporter().ImportBytes("lamp.gltf", encode(t, lampDoc(dataURI(triangleBuffer()))), "")
	require.NoError(t, err)

	assert.Equal(t, "Scene", root.Name())
	assert.Equal(t, scene.KindGroup, root.Kind())

	caseNode := root.GetObjectByName("case001")
	require.NotNil(t, caseNode)
	assert.Equal(t, scene.KindMesh, caseNode.Kind())
	assert.Equal(t, mgl32.Vec3{1, 2, 3}, caseNode.Position())
	require.NotNil(t, caseNode.Geometry())
	assert.Equal(t, 1, caseNode.Geometry().TriangleCount())

	bulb := root.GetObjectByName("bulb001")
	require.NotNil(t, bulb)
	assert.Same(t, caseNode, bulb.Parent())
	assert.InDelta(t, math.Pi/3, bulb.Rotation().Y(), 1e-4)

	assert.Same(t, caseNode.Material(), bulb.Material(), "primitives sharing a material index share the instance")
}

func TestImportMaterialProperties(t *testing.T) {
	root, err := newGLTFImporter().ImportBytes("lamp.gltf", encode(t, lampDoc(dataURI(triangleBuffer()))), "")
	require.NoError(t, err)

	m := root.GetObjectByName("bulb001").Material()
	assert.Equal(t, "bulb", m.Name())
	assert.Equal(t, float32(1), m.Color().R)
	assert.Equal(t, float32(0), m.Color().G)
	assert.Equal(t, float32(0.5), m.Opacity())
	assert.True(t, m.Transparent())
	assert.True(t, m.DoubleSided())
	assert.Equal(t, float32(0.25), m.Metallic())
	assert.Equal(t, float32(0.5), m.Roughness())
	assert.Equal(t, "#ffff00", m.Emissive().Hex())
	assert.Equal(t, float32(1), m.EmissiveIntensity())
}

func TestImportMultiPrimitiveMeshBecomesGroup(t *testing.T) {
	twoPrims := func(doc map[string]any) {
		prim := map[string]any{"attributes": map[string]int{"POSITION": 0}}
		doc["meshes"] = []any{map[string]any{"name": "panel", "primitives": []any{prim, prim}}}
		doc["nodes"] = []any{map[string]any{"name": "control_panel", "mesh": 0}}
	}
	root, err := newGLTFImporter().ImportBytes("panel.gltf", encode(t, lampDoc(dataURI(triangleBuffer()), twoPrims)), "")
	require.NoError(t, err)

	panel := root.GetObjectByName("control_panel")
	require.NotNil(t, panel)
	assert.Equal(t, scene.KindGroup, panel.Kind())
	require.Len(t, panel.Children(), 2)
	assert.Equal(t, "panel_0", panel.Children()[0].Name())
	assert.Equal(t, "panel_1", panel.Children()[1].Name())
	assert.Equal(t, "default", panel.Children()[0].Material().Name())
}

func TestImportDecomposesNodeMatrix(t *testing.T) {
	withMatrix := func(doc map[string]any) {
		m := mgl32.Translate3D(4, 5, 6).Mul4(mgl32.HomogRotate3DZ(float32(math.Pi / 4))).Mul4(mgl32.Scale3D(2, 2, 2))
		doc["nodes"] = []any{map[string]any{"name": "room", "matrix": [16]float32(m)}}
	}
	root, err := newGLTFImporter().ImportBytes("room.gltf", encode(t, lampDoc(dataURI(triangleBuffer()), withMatrix)), "")
	require.NoError(t, err)

	room := root.GetObjectByName("room")
	require.NotNil(t, room)
	assert.True(t, room.Position().ApproxEqualThreshold(mgl32.Vec3{4, 5, 6}, 1e-4))
	assert.True(t, room.Scale().ApproxEqualThreshold(mgl32.Vec3{2, 2, 2}, 1e-4))
	assert.InDelta(t, math.Pi/4, room.Rotation().Z(), 1e-4)
}

func TestImportWithoutScenesUsesParentlessNodes(t *testing.T) {
	noScenes := func(doc map[string]any) {
		delete(doc, "scene")
		delete(doc, "scenes")
	}
	root, err := newGLTFImporter().ImportBytes("objects/lamp.gltf", encode(t, lampDoc(dataURI(triangleBuffer()), noScenes)), "")
	require.NoError(t, err)

	assert.Equal(t, "lamp", root.Name())
	require.Len(t, root.Children(), 1)
	assert.Equal(t, "case001", root.Children()[0].Name())
}

func TestImportGLB(t *testing.T) {
	data := glb(encode(t, lampDoc(nil)), triangleBuffer())
	root, err := newGLTFImporter().ImportBytes("lamp.glb", data, "")
	require.NoError(t, err)
	assert.NotNil(t, root.GetObjectByName("bulb001"))
}

func TestParseRejectsInvalidDocuments(t *testing.T) {
	p := newGLTFParser()

	oldVersion := lampDoc(dataURI(triangleBuffer()), func(doc map[string]any) {
		doc["asset"] = map[string]any{"version": "1.0"}
	})
	assert.ErrorIs(t, p.ParseBytes(encode(t, oldVersion), ""), errInvalidGLTFVersion)

	draco := lampDoc(dataURI(triangleBuffer()), func(doc map[string]any) {
		doc["extensionsRequired"] = []string{"KHR_draco_mesh_compression"}
	})
	assert.ErrorContains(t, p.ParseBytes(encode(t, draco), ""), "KHR_draco_mesh_compression")

	short := lampDoc(dataURI([]byte{1, 2, 3}))
	assert.ErrorIs(t, p.ParseBytes(encode(t, short), ""), errBufferSizeMismatch)

	badURI := "data:application/octet-stream,plain"
	assert.ErrorIs(t, p.ParseBytes(encode(t, lampDoc(&badURI)), ""), errInvalidDataURI)

	assert.ErrorIs(t, p.ParseBytes(glb(nil, nil)[:10], ""), errInvalidGLB)
}

func TestReadFloatsChecksLayout(t *testing.T) {
	p := newGLTFParser()
	require.NoError(t, p.ParseBytes(encode(t, lampDoc(dataURI(triangleBuffer()))), ""))

	_, err := p.ReadFloats(0, 2)
	assert.Error(t, err)

	_, err = p.ReadFloats(1, 1)
	assert.Error(t, err, "indices are not normalized")

	idx, err := p.ReadIndices(1)
	require.NoError(t, err)
	assert.Equal(t, []uint32{0, 1, 2}, idx)

	_, err = p.ReadFloats(7, 3)
	assert.Error(t, err)
}

func TestReadComponentNormalizes(t *testing.T) {
	assert.Equal(t, float32(1), readComponent([]byte{255}, gltfComponentUnsignedByte))
	assert.Equal(t, float32(-1), readComponent([]byte{0x80}, gltfComponentByte))
	assert.Equal(t, float32(1), readComponent([]byte{0xff, 0xff}, gltfComponentUnsignedShort))
}

func TestTriangulate(t *testing.T) {
	assert.Equal(t, []uint32{0, 1, 2, 2, 1, 3}, triangulate([]uint32{0, 1, 2, 3}, gltfModeTriangleStrip))
	assert.Equal(t, []uint32{0, 1, 2, 0, 2, 3}, triangulate([]uint32{0, 1, 2, 3}, gltfModeTriangleFan))
	assert.Nil(t, triangulate([]uint32{0, 1}, gltfModeTriangleFan))
}

// writeAsset writes a .gltf with an external .bin next to it and returns the relative path.
func writeAsset(t *testing.T, dir, name string) string {
	t.Helper()
	binName := name + ".bin"
	require.NoError(t, os.WriteFile(filepath.Join(dir, binName), triangleBuffer(), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, name+".gltf"), encode(t, lampDoc(&binName)), 0o644))
	return name + ".gltf"
}

func TestLoaderResolvesExternalBuffersAndCaches(t *testing.T) {
	dir := t.TempDir()
	rel := writeAsset(t, dir, "lamp")

	l := NewLoader(WithRootDir(dir), WithLogger(logging.NewNopLogger()))
	assert.Equal(t, filepath.Join(dir, rel), l.Resolve(rel))
	assert.False(t, l.Cached(rel))

	first, err := l.Load(rel)
	require.NoError(t, err)
	assert.True(t, l.Cached(rel))

	second, err := l.Load(rel)
	require.NoError(t, err)
	assert.NotSame(t, first, second, "every load builds a fresh subgraph")

	_, err = l.Load("lamp.obj")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)

	_, err = l.Load("missing.gltf")
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestImportFromPath(t *testing.T) {
	dir := t.TempDir()
	rel := writeAsset(t, dir, "color_panel")

	root, err := newGLTFImporter().Import(filepath.Join(dir, rel))
	require.NoError(t, err)
	assert.NotNil(t, root.GetObjectByName("case001"))
}

type managerEvents struct {
	starts, progress, joins int
	errors                  []string
	setupErrors             []string
}

func newTestManager(t *testing.T, dir string, ev *managerEvents) *LoadingManager {
	m := NewLoadingManager(
		WithLoader(NewLoader(WithRootDir(dir), WithLogger(logging.NewNopLogger()))),
		WithManagerLogger(logging.NewNopLogger()),
		WithWorkers(2, 100*time.Millisecond),
		WithOnStart(func(string, int, int) { ev.starts++ }),
		WithOnProgress(func(string, int, int) { ev.progress++ }),
		WithOnLoad(func() { ev.joins++ }),
		WithOnError(func(url string, _ error) { ev.errors = append(ev.errors, url) }),
		WithOnSetupError(func(url string, _ error) { ev.setupErrors = append(ev.setupErrors, url) }),
	)
	t.Cleanup(m.Close)
	return m
}

func drain(t *testing.T, m *LoadingManager) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, m.Drain(ctx))
}

func TestLoadingManagerJoinsOnceAllLoaded(t *testing.T) {
	dir := t.TempDir()
	urls := []string{writeAsset(t, dir, "lamp"), writeAsset(t, dir, "color_panel"), writeAsset(t, dir, "room")}

	ev := &managerEvents{}
	m := newTestManager(t, dir, ev)

	handled := map[string]scene.Node{}
	for _, u := range urls {
		m.Load(u, func(root scene.Node) error {
			handled[u] = root
			return nil
		})
	}
	m.Load(urls[0], nil)
	assert.Equal(t, 3, m.Total())

	drain(t, m)
	assert.Equal(t, 0, m.Poll())

	assert.Len(t, handled, 3)
	assert.Equal(t, 1, ev.starts)
	assert.Equal(t, 3, ev.progress)
	assert.Equal(t, 1, ev.joins)
	assert.True(t, m.AllLoaded())
	for _, u := range urls {
		s, ok := m.State(u)
		assert.True(t, ok)
		assert.Equal(t, StateLoaded, s)
	}
}

func TestLoadingManagerNeverJoinsAfterFailure(t *testing.T) {
	dir := t.TempDir()
	ev := &managerEvents{}
	m := newTestManager(t, dir, ev)

	m.Load(writeAsset(t, dir, "lamp"), nil)
	m.Load("objects/missing.gltf", nil)
	drain(t, m)

	assert.Equal(t, 0, ev.joins)
	assert.Equal(t, []string{"objects/missing.gltf"}, ev.errors)
	assert.Equal(t, 1, m.Failed())
	assert.False(t, m.AllLoaded())

	s, _ := m.State("objects/missing.gltf")
	assert.Equal(t, StateFailed, s)
	assert.Equal(t, "Failed", s.String())
}

func TestLoadingManagerSetupErrorStillCountsAsLoaded(t *testing.T) {
	dir := t.TempDir()
	ev := &managerEvents{}
	m := newTestManager(t, dir, ev)

	url := writeAsset(t, dir, "lamp")
	m.Load(url, func(scene.Node) error { return errors.New("case001 missing") })
	drain(t, m)

	assert.Equal(t, []string{url}, ev.setupErrors)
	assert.Empty(t, ev.errors)
	assert.Equal(t, 1, ev.joins)
}

func TestLoadingManagerStartsEachBatch(t *testing.T) {
	dir := t.TempDir()
	ev := &managerEvents{}
	m := newTestManager(t, dir, ev)

	m.Load(writeAsset(t, dir, "lamp"), nil)
	drain(t, m)
	assert.Equal(t, 1, ev.starts)
	assert.Equal(t, 1, ev.joins)

	m.Load(writeAsset(t, dir, "room"), nil)
	assert.Equal(t, 2, ev.starts, "first load after a settled batch")
	m.Load(writeAsset(t, dir, "color_panel"), nil)
	assert.Equal(t, 2, ev.starts, "same batch")
	drain(t, m)
	assert.Equal(t, 2, ev.joins)

	m.Load("objects/missing.gltf", nil)
	drain(t, m)
	assert.Equal(t, 3, ev.starts)
	assert.Equal(t, 2, ev.joins, "a failed batch never joins")

	m.Load(writeAsset(t, dir, "desk"), nil)
	assert.Equal(t, 4, ev.starts, "a failed batch still settles")
	drain(t, m)
}

func TestLoadingManagerCloseStopsLoads(t *testing.T) {
	dir := t.TempDir()
	ev := &managerEvents{}
	m := newTestManager(t, dir, ev)

	m.Close()
	m.Close()
	m.Load(writeAsset(t, dir, "lamp"), nil)
	assert.Equal(t, 0, m.Total())
	assert.Equal(t, 0, ev.starts)
	_, tracked := m.State("lamp.gltf")
	assert.False(t, tracked)
}

func TestDrainHonorsContext(t *testing.T) {
	m := NewLoadingManager(WithManagerLogger(logging.NewNopLogger()))
	t.Cleanup(m.Close)
	m.states["stuck.gltf"] = StatePending
	m.order = append(m.order, "stuck.gltf")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, m.Drain(ctx), context.Canceled)
}
