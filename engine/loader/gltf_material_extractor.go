package loader

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/domx3d/hello-lamp/common"
	"github.com/domx3d/hello-lamp/engine/material"

	"github.com/cogentcore/webgpu/wgpu"
)

// gltfMaterialExtractorImpl is the implementation of the gltfMaterialExtractor interface.
type gltfMaterialExtractorImpl struct {
	parser gltfParser
	cache  map[int]material.Material
}

// gltfMaterialExtractor converts glTF materials into engine materials.
type gltfMaterialExtractor interface {
	// ExtractMaterial converts a material by index. Primitives that reference the same index
	// receive the same Material instance, so recoloring one recolors all of them.
	//
	// Parameters:
	//   - materialIndex: the index of the material in the document
	//
	// Returns:
	//   - material.Material: the converted material
	//   - error: error if a referenced texture cannot be resolved
	ExtractMaterial(materialIndex int) (material.Material, error)
}

var _ gltfMaterialExtractor = &gltfMaterialExtractorImpl{}

func newGLTFMaterialExtractor(parser gltfParser) gltfMaterialExtractor {
	return &gltfMaterialExtractorImpl{parser: parser, cache: make(map[int]material.Material)}
}

func (e *gltfMaterialExtractorImpl) ExtractMaterial(materialIndex int) (material.Material, error) {
	if cached, ok := e.cache[materialIndex]; ok {
		return cached, nil
	}

	doc := e.parser.Document()
	if doc == nil {
		return nil, errNoDocument
	}
	if materialIndex < 0 || materialIndex >= len(doc.Materials) {
		return nil, fmt.Errorf("material index %d out of range", materialIndex)
	}
	mat := &doc.Materials[materialIndex]

	// glTF defaults: white, fully metallic, fully rough.
	opts := []material.MaterialBuilderOption{
		material.WithName(mat.Name),
		material.WithKind(material.KindStandard),
		material.WithMetallic(1),
		material.WithRoughness(1),
		material.WithDoubleSided(mat.DoubleSided),
		material.WithTransparent(mat.AlphaMode == "BLEND"),
	}

	if pbr := mat.PbrMetallicRoughness; pbr != nil {
		if f := pbr.BaseColorFactor; f != nil {
			opts = append(opts,
				material.WithColor(common.Color{R: f[0], G: f[1], B: f[2]}),
				material.WithOpacity(f[3]),
			)
		}
		if pbr.MetallicFactor != nil {
			opts = append(opts, material.WithMetallic(*pbr.MetallicFactor))
		}
		if pbr.RoughnessFactor != nil {
			opts = append(opts, material.WithRoughness(*pbr.RoughnessFactor))
		}
		if pbr.BaseColorTexture != nil {
			tex, err := e.loadTexture(pbr.BaseColorTexture.Index)
			if err != nil {
				return nil, fmt.Errorf("material %q: base color texture: %w", mat.Name, err)
			}
			opts = append(opts, material.WithDiffuseTexture(tex))
		}
	}

	if f := mat.EmissiveFactor; f != nil {
		strength := float32(1)
		if mat.Extensions != nil && mat.Extensions.EmissiveStrength != nil {
			strength = mat.Extensions.EmissiveStrength.EmissiveStrength
		}
		opts = append(opts, material.WithEmissive(common.Color{R: f[0], G: f[1], B: f[2]}, strength))
	}

	m := material.NewMaterial(opts...)
	e.cache[materialIndex] = m
	return m, nil
}

// loadTexture resolves a texture index into image bytes (embedded or data URI) or a file path.
// External images are decoded lazily by the renderer, so a missing file surfaces there.
func (e *gltfMaterialExtractorImpl) loadTexture(textureIndex int) (*common.ImportedTexture, error) {
	doc := e.parser.Document()
	if textureIndex < 0 || textureIndex >= len(doc.Textures) {
		return nil, fmt.Errorf("texture index %d out of range", textureIndex)
	}
	tex := &doc.Textures[textureIndex]
	if tex.Source == nil {
		return nil, nil
	}
	if *tex.Source < 0 || *tex.Source >= len(doc.Images) {
		return nil, fmt.Errorf("image index %d out of range", *tex.Source)
	}
	img := &doc.Images[*tex.Source]

	result := &common.ImportedTexture{
		Name:     img.Name,
		MimeType: img.MimeType,
	}
	if tex.Sampler != nil && *tex.Sampler >= 0 && *tex.Sampler < len(doc.Samplers) {
		result.SamplerData = gltfSamplerToStagingData(&doc.Samplers[*tex.Sampler])
	}

	switch {
	case img.BufferView != nil:
		data, err := e.parser.ReadBufferView(*img.BufferView)
		if err != nil {
			return nil, fmt.Errorf("image buffer view: %w", err)
		}
		result.Data = data
	case strings.HasPrefix(img.URI, "data:"):
		data, mime, err := decodeDataURI(img.URI)
		if err != nil {
			return nil, fmt.Errorf("image data URI: %w", err)
		}
		result.Data = data
		result.MimeType = common.Coalesce(result.MimeType, mime)
	case img.URI != "":
		result.Path = filepath.Join(e.parser.BaseDir(), filepath.FromSlash(img.URI))
		result.Name = common.Coalesce(result.Name, filepath.Base(img.URI))
	default:
		return nil, nil
	}
	return result, nil
}

// gltfSamplerToStagingData maps glTF sampler enums onto wgpu modes. Unset fields keep the glTF
// defaults of linear filtering and repeat wrapping.
// Reference: https://registry.khronos.org/glTF/specs/2.0/glTF-2.0.html#reference-sampler
func gltfSamplerToStagingData(s *gltfSampler) *common.SamplerStagingData {
	result := &common.SamplerStagingData{
		AddressModeU: wgpu.AddressModeRepeat,
		AddressModeV: wgpu.AddressModeRepeat,
		MagFilter:    wgpu.FilterModeLinear,
		MinFilter:    wgpu.FilterModeLinear,
	}
	if s.MagFilter != nil && *s.MagFilter == gltfFilterNearest {
		result.MagFilter = wgpu.FilterModeNearest
	}
	if s.MinFilter != nil {
		switch *s.MinFilter {
		case gltfFilterNearest, gltfFilterNearestMipmapNearest, gltfFilterNearestMipmapLinear:
			result.MinFilter = wgpu.FilterModeNearest
		}
	}
	if s.WrapS != nil {
		result.AddressModeU = gltfWrapToAddressMode(*s.WrapS)
	}
	if s.WrapT != nil {
		result.AddressModeV = gltfWrapToAddressMode(*s.WrapT)
	}
	return result
}

func gltfWrapToAddressMode(wrap int) wgpu.AddressMode {
	switch wrap {
	case gltfWrapClampToEdge:
		return wgpu.AddressModeClampToEdge
	case gltfWrapMirroredRepeat:
		return wgpu.AddressModeMirrorRepeat
	default:
		return wgpu.AddressModeRepeat
	}
}
