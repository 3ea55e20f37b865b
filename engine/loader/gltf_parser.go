package loader

import (
	"encoding/base64"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
)

var (
	errInvalidGLTFVersion = errors.New("invalid glTF version: must be 2.x")
	errInvalidGLB         = errors.New("invalid GLB container")
	errMissingJSONChunk   = errors.New("GLB file missing JSON chunk")
	errInvalidDataURI     = errors.New("invalid data URI")
	errBufferSizeMismatch = errors.New("buffer shorter than declared byteLength")
	errNoDocument         = errors.New("no document loaded")
)

// gltfParserImpl is the implementation of the gltfParser interface.
type gltfParserImpl struct {
	baseDir  string
	document *gltfDocument
	glbBin   []byte
}

// gltfParser decodes glTF JSON or GLB data and reads typed accessor streams.
type gltfParser interface {
	// Parse reads and decodes a .gltf or .glb file. External buffers resolve relative to the file.
	//
	// Parameters:
	//   - path: the file path
	//
	// Returns:
	//   - error: a read, decode or validation error
	Parse(path string) error

	// ParseBytes decodes an in-memory document. The container is detected from the GLB magic.
	//
	// Parameters:
	//   - data: glTF JSON or GLB bytes
	//   - baseDir: directory that relative URIs resolve against
	//
	// Returns:
	//   - error: a decode or validation error
	ParseBytes(data []byte, baseDir string) error

	// Document returns the decoded document, or nil before a successful parse.
	Document() *gltfDocument

	// BaseDir returns the directory relative URIs resolve against.
	BaseDir() string

	// ReadFloats reads an accessor as float32 components, converting normalized integer types.
	//
	// Parameters:
	//   - accessorIndex: the accessor
	//   - components: the expected components per element (3 for VEC3)
	//
	// Returns:
	//   - []float32: count*components values
	//   - error: a type mismatch or an out of range view
	ReadFloats(accessorIndex, components int) ([]float32, error)

	// ReadIndices reads a SCALAR unsigned accessor as uint32.
	ReadIndices(accessorIndex int) ([]uint32, error)

	// ReadBufferView returns a copy of a buffer view's bytes, used for embedded images.
	ReadBufferView(viewIndex int) ([]byte, error)
}

var _ gltfParser = &gltfParserImpl{}

func newGLTFParser() gltfParser {
	return &gltfParserImpl{}
}

func (p *gltfParserImpl) Document() *gltfDocument {
	return p.document
}

func (p *gltfParserImpl) BaseDir() string {
	return p.baseDir
}

func (p *gltfParserImpl) Parse(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}
	return p.ParseBytes(data, filepath.Dir(path))
}

func (p *gltfParserImpl) ParseBytes(data []byte, baseDir string) error {
	p.baseDir = baseDir
	p.glbBin = nil

	jsonData := data
	if len(data) >= 4 && binary.LittleEndian.Uint32(data) == glbMagic {
		var err error
		jsonData, p.glbBin, err = splitGLB(data)
		if err != nil {
			return err
		}
	}

	var doc gltfDocument
	if err := json.Unmarshal(jsonData, &doc); err != nil {
		return fmt.Errorf("failed to parse glTF JSON: %w", err)
	}
	if !strings.HasPrefix(doc.Asset.Version, "2.") {
		return errInvalidGLTFVersion
	}
	for _, ext := range doc.ExtensionsRequired {
		if !supportedExtensions[ext] {
			return fmt.Errorf("unsupported required extension %q", ext)
		}
	}
	if err := p.loadBuffers(&doc); err != nil {
		return fmt.Errorf("failed to load buffers: %w", err)
	}

	p.document = &doc
	return nil
}

// splitGLB returns the JSON and BIN chunks of a GLB container.
// Reference: https://registry.khronos.org/glTF/specs/2.0/glTF-2.0.html#glb-file-format-specification
func splitGLB(data []byte) (jsonChunk, binChunk []byte, err error) {
	if len(data) < glbHeaderSize {
		return nil, nil, fmt.Errorf("%w: %d bytes", errInvalidGLB, len(data))
	}
	if v := binary.LittleEndian.Uint32(data[4:]); v != glbVersion {
		return nil, nil, fmt.Errorf("%w: version %d", errInvalidGLB, v)
	}
	total := int(binary.LittleEndian.Uint32(data[8:]))
	if total > len(data) {
		return nil, nil, fmt.Errorf("%w: declared length %d exceeds %d", errInvalidGLB, total, len(data))
	}

	off := glbHeaderSize
	for off+8 <= total {
		length := int(binary.LittleEndian.Uint32(data[off:]))
		kind := binary.LittleEndian.Uint32(data[off+4:])
		off += 8
		if off+length > total {
			return nil, nil, fmt.Errorf("%w: chunk overruns file", errInvalidGLB)
		}
		switch kind {
		case glbChunkJSON:
			jsonChunk = data[off : off+length]
		case glbChunkBIN:
			binChunk = data[off : off+length]
		}
		off += length
	}

	if jsonChunk == nil {
		return nil, nil, errMissingJSONChunk
	}
	return jsonChunk, binChunk, nil
}

// loadBuffers fills every buffer from the GLB BIN chunk, a data URI or an external file.
func (p *gltfParserImpl) loadBuffers(doc *gltfDocument) error {
	for i := range doc.Buffers {
		buf := &doc.Buffers[i]

		switch {
		case buf.URI == "" && i == 0 && p.glbBin != nil:
			buf.data = p.glbBin
		case buf.URI == "":
			return fmt.Errorf("buffer %d has no URI and no GLB binary chunk", i)
		case strings.HasPrefix(buf.URI, "data:"):
			data, _, err := decodeDataURI(buf.URI)
			if err != nil {
				return fmt.Errorf("buffer %d: %w", i, err)
			}
			buf.data = data
		default:
			data, err := os.ReadFile(filepath.Join(p.baseDir, filepath.FromSlash(buf.URI)))
			if err != nil {
				return fmt.Errorf("buffer %d: %w", i, err)
			}
			buf.data = data
		}

		if len(buf.data) < buf.ByteLength {
			return fmt.Errorf("buffer %d: %w", i, errBufferSizeMismatch)
		}
	}
	return nil
}

// decodeDataURI decodes data:[<mediatype>][;base64],<data> and returns the bytes and media type.
func decodeDataURI(uri string) ([]byte, string, error) {
	rest, ok := strings.CutPrefix(uri, "data:")
	if !ok {
		return nil, "", errInvalidDataURI
	}
	header, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return nil, "", errInvalidDataURI
	}
	mime, isBase64 := strings.CutSuffix(header, ";base64")
	if !isBase64 {
		return nil, "", fmt.Errorf("%w: only base64 payloads are supported", errInvalidDataURI)
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %w", errInvalidDataURI, err)
	}
	return data, mime, nil
}

// accessorView locates an accessor's elements inside its buffer, honoring byteStride.
type accessorView struct {
	data        []byte
	base        int
	stride      int
	elementSize int
	count       int
}

func (p *gltfParserImpl) view(accessorIndex int) (*gltfAccessor, *accessorView, error) {
	doc := p.document
	if doc == nil {
		return nil, nil, errNoDocument
	}
	if accessorIndex < 0 || accessorIndex >= len(doc.Accessors) {
		return nil, nil, fmt.Errorf("accessor %d out of range", accessorIndex)
	}
	acc := &doc.Accessors[accessorIndex]
	if acc.Sparse != nil {
		return nil, nil, fmt.Errorf("accessor %d: sparse accessors are not supported", accessorIndex)
	}
	if acc.BufferView == nil || *acc.BufferView < 0 || *acc.BufferView >= len(doc.BufferViews) {
		return nil, nil, fmt.Errorf("accessor %d has no valid bufferView", accessorIndex)
	}

	bv := &doc.BufferViews[*acc.BufferView]
	if bv.Buffer < 0 || bv.Buffer >= len(doc.Buffers) {
		return nil, nil, fmt.Errorf("bufferView %d: buffer %d out of range", *acc.BufferView, bv.Buffer)
	}

	size := componentSize(acc.ComponentType) * gltfTypeComponents[acc.Type]
	if size == 0 {
		return nil, nil, fmt.Errorf("accessor %d: unsupported layout %s/%d", accessorIndex, acc.Type, acc.ComponentType)
	}
	stride := size
	if bv.ByteStride != nil && *bv.ByteStride > 0 {
		stride = *bv.ByteStride
	}

	v := &accessorView{
		data:        doc.Buffers[bv.Buffer].data,
		base:        bv.ByteOffset + acc.ByteOffset,
		stride:      stride,
		elementSize: size,
		count:       acc.Count,
	}
	if acc.Count > 0 {
		end := v.base + (acc.Count-1)*stride + size
		if end > bv.ByteOffset+bv.ByteLength || end > len(v.data) {
			return nil, nil, fmt.Errorf("accessor %d overruns its bufferView", accessorIndex)
		}
	}
	return acc, v, nil
}

func (p *gltfParserImpl) ReadFloats(accessorIndex, components int) ([]float32, error) {
	acc, v, err := p.view(accessorIndex)
	if err != nil {
		return nil, err
	}
	if gltfTypeComponents[acc.Type] != components {
		return nil, fmt.Errorf("accessor %d is %s, want %d components", accessorIndex, acc.Type, components)
	}
	if acc.ComponentType != gltfComponentFloat && !acc.Normalized {
		return nil, fmt.Errorf("accessor %d: non-normalized integer data cannot be read as float", accessorIndex)
	}

	cs := componentSize(acc.ComponentType)
	out := make([]float32, 0, v.count*components)
	for i := 0; i < v.count; i++ {
		elem := v.data[v.base+i*v.stride:]
		for c := 0; c < components; c++ {
			out = append(out, readComponent(elem[c*cs:], acc.ComponentType))
		}
	}
	return out, nil
}

func (p *gltfParserImpl) ReadIndices(accessorIndex int) ([]uint32, error) {
	acc, v, err := p.view(accessorIndex)
	if err != nil {
		return nil, err
	}
	if acc.Type != "SCALAR" {
		return nil, fmt.Errorf("index accessor %d is %s, want SCALAR", accessorIndex, acc.Type)
	}

	out := make([]uint32, v.count)
	for i := range out {
		elem := v.data[v.base+i*v.stride:]
		switch acc.ComponentType {
		case gltfComponentUnsignedByte:
			out[i] = uint32(elem[0])
		case gltfComponentUnsignedShort:
			out[i] = uint32(binary.LittleEndian.Uint16(elem))
		case gltfComponentUnsignedInt:
			out[i] = binary.LittleEndian.Uint32(elem)
		default:
			return nil, fmt.Errorf("unsupported index component type %d", acc.ComponentType)
		}
	}
	return out, nil
}

func (p *gltfParserImpl) ReadBufferView(viewIndex int) ([]byte, error) {
	doc := p.document
	if doc == nil {
		return nil, errNoDocument
	}
	if viewIndex < 0 || viewIndex >= len(doc.BufferViews) {
		return nil, fmt.Errorf("bufferView %d out of range", viewIndex)
	}
	bv := &doc.BufferViews[viewIndex]
	if bv.Buffer < 0 || bv.Buffer >= len(doc.Buffers) {
		return nil, fmt.Errorf("bufferView %d: buffer %d out of range", viewIndex, bv.Buffer)
	}
	buf := doc.Buffers[bv.Buffer].data
	end := bv.ByteOffset + bv.ByteLength
	if end > len(buf) {
		return nil, fmt.Errorf("bufferView %d exceeds buffer bounds: offset=%d length=%d size=%d",
			viewIndex, bv.ByteOffset, bv.ByteLength, len(buf))
	}
	out := make([]byte, bv.ByteLength)
	copy(out, buf[bv.ByteOffset:end])
	return out, nil
}

func componentSize(componentType int) int {
	switch componentType {
	case gltfComponentByte, gltfComponentUnsignedByte:
		return 1
	case gltfComponentShort, gltfComponentUnsignedShort:
		return 2
	case gltfComponentUnsignedInt, gltfComponentFloat:
		return 4
	default:
		return 0
	}
}

// readComponent decodes one component. Integer types are treated as normalized.
// Reference: https://registry.khronos.org/glTF/specs/2.0/glTF-2.0.html#animations (normalization table)
func readComponent(b []byte, componentType int) float32 {
	switch componentType {
	case gltfComponentFloat:
		return math.Float32frombits(binary.LittleEndian.Uint32(b))
	case gltfComponentByte:
		return max(float32(int8(b[0]))/127, -1)
	case gltfComponentUnsignedByte:
		return float32(b[0]) / 255
	case gltfComponentShort:
		return max(float32(int16(binary.LittleEndian.Uint16(b)))/32767, -1)
	case gltfComponentUnsignedShort:
		return float32(binary.LittleEndian.Uint16(b)) / 65535
	case gltfComponentUnsignedInt:
		return float32(binary.LittleEndian.Uint32(b)) / math.MaxUint32
	}
	return 0
}
