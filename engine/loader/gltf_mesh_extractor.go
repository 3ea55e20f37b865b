package loader

import (
	"fmt"

	"github.com/domx3d/hello-lamp/engine/scene"
)

// gltfMeshExtractorImpl is the implementation of the gltfMeshExtractor interface.
type gltfMeshExtractorImpl struct {
	parser gltfParser
	cache  map[int][]*scene.Geometry
}

// gltfMeshExtractor converts glTF mesh primitives into scene geometries.
type gltfMeshExtractor interface {
	// ExtractMesh returns one geometry per primitive of a mesh. Results are cached per mesh
	// index, so nodes that instance the same mesh share geometry.
	//
	// Parameters:
	//   - meshIndex: the index of the mesh in the document
	//
	// Returns:
	//   - []*scene.Geometry: geometries in primitive order
	//   - error: error if a primitive cannot be read
	ExtractMesh(meshIndex int) ([]*scene.Geometry, error)
}

var _ gltfMeshExtractor = &gltfMeshExtractorImpl{}

func newGLTFMeshExtractor(parser gltfParser) gltfMeshExtractor {
	return &gltfMeshExtractorImpl{parser: parser, cache: make(map[int][]*scene.Geometry)}
}

func (e *gltfMeshExtractorImpl) ExtractMesh(meshIndex int) ([]*scene.Geometry, error) {
	if cached, ok := e.cache[meshIndex]; ok {
		return cached, nil
	}

	doc := e.parser.Document()
	if doc == nil {
		return nil, errNoDocument
	}
	if meshIndex < 0 || meshIndex >= len(doc.Meshes) {
		return nil, fmt.Errorf("mesh index %d out of range", meshIndex)
	}

	mesh := &doc.Meshes[meshIndex]
	result := make([]*scene.Geometry, 0, len(mesh.Primitives))
	for primIdx := range mesh.Primitives {
		g, err := e.extractPrimitive(&mesh.Primitives[primIdx])
		if err != nil {
			return nil, fmt.Errorf("mesh %d primitive %d: %w", meshIndex, primIdx, err)
		}
		result = append(result, g)
	}

	e.cache[meshIndex] = result
	return result, nil
}

func (e *gltfMeshExtractorImpl) extractPrimitive(prim *gltfPrimitive) (*scene.Geometry, error) {
	mode := gltfModeTriangles
	if prim.Mode != nil {
		mode = *prim.Mode
	}
	switch mode {
	case gltfModeTriangles, gltfModeTriangleStrip, gltfModeTriangleFan:
	default:
		return nil, fmt.Errorf("unsupported primitive mode %d", mode)
	}

	posAccessor, ok := prim.Attributes[gltfAttrPosition]
	if !ok {
		return nil, fmt.Errorf("primitive has no %s attribute", gltfAttrPosition)
	}
	positions, err := e.parser.ReadFloats(posAccessor, 3)
	if err != nil {
		return nil, fmt.Errorf("positions: %w", err)
	}

	var normals, uvs []float32
	if idx, ok := prim.Attributes[gltfAttrNormal]; ok {
		if normals, err = e.parser.ReadFloats(idx, 3); err != nil {
			return nil, fmt.Errorf("normals: %w", err)
		}
	}
	if idx, ok := prim.Attributes[gltfAttrTexCoord]; ok {
		if uvs, err = e.parser.ReadFloats(idx, 2); err != nil {
			return nil, fmt.Errorf("uvs: %w", err)
		}
	}

	var indices []uint32
	if prim.Indices != nil {
		if indices, err = e.parser.ReadIndices(*prim.Indices); err != nil {
			return nil, fmt.Errorf("indices: %w", err)
		}
	}

	if mode != gltfModeTriangles {
		if indices == nil {
			indices = sequence(len(positions) / 3)
		}
		indices = triangulate(indices, mode)
	}

	return scene.NewGeometry(positions, normals, uvs, indices)
}

func sequence(n int) []uint32 {
	out := make([]uint32, n)
	for i := range out {
		out[i] = uint32(i)
	}
	return out
}

// triangulate expands strip and fan index lists into a triangle list, keeping counter-clockwise winding.
func triangulate(indices []uint32, mode int) []uint32 {
	if len(indices) < 3 {
		return nil
	}
	out := make([]uint32, 0, (len(indices)-2)*3)
	for i := 2; i < len(indices); i++ {
		switch mode {
		case gltfModeTriangleStrip:
			if i%2 == 0 {
				out = append(out, indices[i-2], indices[i-1], indices[i])
			} else {
				out = append(out, indices[i-1], indices[i-2], indices[i])
			}
		case gltfModeTriangleFan:
			out = append(out, indices[0], indices[i-1], indices[i])
		}
	}
	return out
}
