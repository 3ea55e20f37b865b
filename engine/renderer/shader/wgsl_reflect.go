package shader

import (
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/cogentcore/webgpu/wgpu"
)

var (
	structRegex    = regexp.MustCompile(`\bstruct\s+(\w+)\s*\{([^}]*)\}`)
	attributeRegex = regexp.MustCompile(`@(\w+)(?:\(\s*([^)]*)\))?`)

	// @group(0) @binding(0) var<uniform> frame: Frame;
	// @group(1) @binding(1) var base_texture: texture_2d<f32>;
	bindingRegex = regexp.MustCompile(`@group\((\d+)\)\s*@binding\((\d+)\)\s*var(?:<([^>]*)>)?\s+(\w+)\s*:\s*([^;]+?)\s*;`)

	entryRegex = map[Stage]*regexp.Regexp{
		StageVertex:   regexp.MustCompile(`(?s)@vertex\b.*?\bfn\s+(\w+)`),
		StageFragment: regexp.MustCompile(`(?s)@fragment\b.*?\bfn\s+(\w+)`),
	}
)

type vertexFormat struct {
	format wgpu.VertexFormat
	size   uint64
}

var vertexFormats = map[string]vertexFormat{
	"f32":       {wgpu.VertexFormatFloat32, 4},
	"vec2f":     {wgpu.VertexFormatFloat32x2, 8},
	"vec2<f32>": {wgpu.VertexFormatFloat32x2, 8},
	"vec3f":     {wgpu.VertexFormatFloat32x3, 12},
	"vec3<f32>": {wgpu.VertexFormatFloat32x3, 12},
	"vec4f":     {wgpu.VertexFormatFloat32x4, 16},
	"vec4<f32>": {wgpu.VertexFormatFloat32x4, 16},
	"u32":       {wgpu.VertexFormatUint32, 4},
	"i32":       {wgpu.VertexFormatSint32, 4},
}

// typeLayout is a WGSL host-shareable size and alignment.
//
// Reference: https://www.w3.org/TR/WGSL/#alignment-and-size
type typeLayout struct {
	size  uint64
	align uint64
}

var primitiveLayouts = map[string]typeLayout{
	"f32":         {4, 4},
	"i32":         {4, 4},
	"u32":         {4, 4},
	"vec2f":       {8, 8},
	"vec2<f32>":   {8, 8},
	"vec2u":       {8, 8},
	"vec3f":       {12, 16},
	"vec3<f32>":   {12, 16},
	"vec3u":       {12, 16},
	"vec4f":       {16, 16},
	"vec4<f32>":   {16, 16},
	"vec4u":       {16, 16},
	"mat3x3<f32>": {48, 16},
	"mat4x4<f32>": {64, 16},
	"mat4x4f":     {64, 16},
}

var sampleTypes = map[string]wgpu.TextureSampleType{
	"f32": wgpu.TextureSampleTypeFloat,
	"i32": wgpu.TextureSampleTypeSint,
	"u32": wgpu.TextureSampleTypeUint,
}

var viewDimensions = map[string]wgpu.TextureViewDimension{
	"texture_2d":       wgpu.TextureViewDimension2D,
	"texture_2d_array": wgpu.TextureViewDimension2DArray,
	"texture_cube":     wgpu.TextureViewDimensionCube,
	"texture_3d":       wgpu.TextureViewDimension3D,
	"texture_depth_2d": wgpu.TextureViewDimension2D,
}

type wgslField struct {
	name     string
	typeName string
	location int
	builtin  bool
}

type wgslStruct struct {
	name   string
	fields []wgslField
}

func parseEntryPoint(source string, stage Stage) string {
	re, ok := entryRegex[stage]
	if !ok {
		return ""
	}
	if m := re.FindStringSubmatch(source); m != nil {
		return m[1]
	}
	return ""
}

// parseStructs returns every struct declaration with its fields in source order.
func parseStructs(source string) []wgslStruct {
	var out []wgslStruct
	for _, m := range structRegex.FindAllStringSubmatch(source, -1) {
		s := wgslStruct{name: m[1]}
		for _, part := range splitTopLevel(m[2]) {
			if f, ok := parseField(part); ok {
				s.fields = append(s.fields, f)
			}
		}
		out = append(out, s)
	}
	return out
}

func parseField(part string) (wgslField, bool) {
	f := wgslField{location: -1}
	for _, attr := range attributeRegex.FindAllStringSubmatch(part, -1) {
		switch attr[1] {
		case "builtin":
			f.builtin = true
		case "location":
			if loc, err := strconv.Atoi(strings.TrimSpace(attr[2])); err == nil {
				f.location = loc
			}
		}
	}
	name, typeName, ok := strings.Cut(attributeRegex.ReplaceAllString(part, ""), ":")
	if !ok {
		return wgslField{}, false
	}
	f.name = strings.TrimSpace(name)
	f.typeName = strings.TrimSpace(typeName)
	return f, f.name != "" && f.typeName != ""
}

// parseVertexLayouts builds a buffer layout for every struct made only of @location fields.
// Structs mixing in a @builtin are stage outputs and are skipped.
func parseVertexLayouts(structs []wgslStruct) []wgpu.VertexBufferLayout {
	var layouts []wgpu.VertexBufferLayout
next:
	for _, s := range structs {
		if len(s.fields) == 0 {
			continue
		}
		var attrs []wgpu.VertexAttribute
		var offset uint64
		for _, f := range s.fields {
			vf, known := vertexFormats[f.typeName]
			if f.builtin || f.location < 0 || !known {
				continue next
			}
			attrs = append(attrs, wgpu.VertexAttribute{
				Format:         vf.format,
				Offset:         offset,
				ShaderLocation: uint32(f.location),
			})
			offset += vf.size
		}
		layouts = append(layouts, wgpu.VertexBufferLayout{
			ArrayStride: offset,
			StepMode:    wgpu.VertexStepModeVertex,
			Attributes:  attrs,
		})
	}
	return layouts
}

func roundUp(align, v uint64) uint64 {
	if align == 0 {
		return v
	}
	return (v + align - 1) / align * align
}

func resolveLayout(typeName string, known map[string]typeLayout) (typeLayout, bool) {
	if l, ok := primitiveLayouts[typeName]; ok {
		return l, true
	}
	if l, ok := known[typeName]; ok {
		return l, true
	}
	inner, ok := strings.CutPrefix(typeName, "array<")
	if !ok || !strings.HasSuffix(inner, ">") {
		return typeLayout{}, false
	}
	elem, count, ok := strings.Cut(strings.TrimSuffix(inner, ">"), ",")
	if !ok {
		return typeLayout{}, false
	}
	el, ok := resolveLayout(strings.TrimSpace(elem), known)
	if !ok {
		return typeLayout{}, false
	}
	n, err := strconv.ParseUint(strings.TrimSpace(count), 10, 64)
	if err != nil {
		return typeLayout{}, false
	}
	return typeLayout{size: n * roundUp(el.align, el.size), align: el.align}, true
}

// structLayouts resolves struct sizes, repeating until structs that embed other structs settle.
func structLayouts(structs []wgslStruct) map[string]typeLayout {
	known := make(map[string]typeLayout, len(structs))
	for progress := true; progress; {
		progress = false
		for _, s := range structs {
			if _, done := known[s.name]; done {
				continue
			}
			var offset uint64
			align := uint64(1)
			resolved := true
			for _, f := range s.fields {
				if f.builtin {
					continue
				}
				l, ok := resolveLayout(f.typeName, known)
				if !ok {
					resolved = false
					break
				}
				offset = roundUp(l.align, offset) + l.size
				align = max(align, l.align)
			}
			if resolved {
				known[s.name] = typeLayout{size: roundUp(align, offset), align: align}
				progress = true
			}
		}
	}
	return known
}

// parseBindGroups reflects every @group/@binding declaration into layout entries.
//
// Returns:
//   - map[int]wgpu.BindGroupLayoutDescriptor: descriptors keyed by group, entries sorted by binding
//   - map[int]map[int]string: variable names keyed by group then binding
//   - map[int]map[int]uint64: buffer sizes keyed by group then binding
func parseBindGroups(source string, structs []wgslStruct, visibility wgpu.ShaderStage) (map[int]wgpu.BindGroupLayoutDescriptor, map[int]map[int]string, map[int]map[int]uint64) {
	known := structLayouts(structs)
	entries := make(map[int][]wgpu.BindGroupLayoutEntry)
	names := make(map[int]map[int]string)
	sizes := make(map[int]map[int]uint64)

	for _, m := range bindingRegex.FindAllStringSubmatch(source, -1) {
		group, _ := strconv.Atoi(m[1])
		binding, _ := strconv.Atoi(m[2])
		space, name, typeName := strings.TrimSpace(m[3]), m[4], strings.TrimSpace(m[5])

		entry := classifyBinding(uint32(binding), visibility, space, typeName)
		if names[group] == nil {
			names[group] = make(map[int]string)
			sizes[group] = make(map[int]uint64)
		}
		names[group][binding] = name
		if entry.Buffer.Type != wgpu.BufferBindingTypeUndefined {
			if l, ok := resolveLayout(typeName, known); ok {
				entry.Buffer.MinBindingSize = l.size
				sizes[group][binding] = l.size
			}
		}
		entries[group] = append(entries[group], entry)
	}

	out := make(map[int]wgpu.BindGroupLayoutDescriptor, len(entries))
	for g, list := range entries {
		slices.SortFunc(list, func(a, b wgpu.BindGroupLayoutEntry) int {
			return int(a.Binding) - int(b.Binding)
		})
		out[g] = wgpu.BindGroupLayoutDescriptor{Entries: list}
	}
	return out, names, sizes
}

func classifyBinding(binding uint32, visibility wgpu.ShaderStage, space, typeName string) wgpu.BindGroupLayoutEntry {
	entry := wgpu.BindGroupLayoutEntry{Binding: binding, Visibility: visibility}
	switch {
	case space == "uniform":
		entry.Buffer.Type = wgpu.BufferBindingTypeUniform
	case strings.HasPrefix(space, "storage"):
		entry.Buffer.Type = wgpu.BufferBindingTypeReadOnlyStorage
		if strings.Contains(space, "read_write") {
			entry.Buffer.Type = wgpu.BufferBindingTypeStorage
		}
	case typeName == "sampler":
		entry.Sampler.Type = wgpu.SamplerBindingTypeFiltering
	case typeName == "sampler_comparison":
		entry.Sampler.Type = wgpu.SamplerBindingTypeComparison
	case strings.HasPrefix(typeName, "texture_depth_"):
		entry.Texture.SampleType = wgpu.TextureSampleTypeDepth
		entry.Texture.ViewDimension = viewDimensions[typeName]
	case strings.HasPrefix(typeName, "texture_"):
		base, param, _ := strings.Cut(typeName, "<")
		entry.Texture.ViewDimension = viewDimensions[base]
		entry.Texture.SampleType = sampleTypes[strings.TrimSuffix(strings.TrimSpace(param), ">")]
	}
	return entry
}

// splitTopLevel splits at commas outside angle brackets, so array<Light, 8> stays whole.
func splitTopLevel(s string) []string {
	var parts []string
	depth, start := 0, 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '<':
			depth++
		case '>':
			depth = max(depth-1, 0)
		case ',':
			if depth == 0 {
				parts = append(parts, s[start:i])
				start = i + 1
			}
		}
	}
	return append(parts, s[start:])
}

// stripComments removes line comments and nested block comments.
func stripComments(source string) string {
	var sb strings.Builder
	sb.Grow(len(source))
	depth := 0
	for i := 0; i < len(source); i++ {
		if i+1 < len(source) {
			switch source[i : i+2] {
			case "/*":
				depth++
				i++
				continue
			case "*/":
				if depth > 0 {
					depth--
					i++
					continue
				}
			case "//":
				if depth == 0 {
					for i < len(source) && source[i] != '\n' {
						i++
					}
					if i < len(source) {
						sb.WriteByte('\n')
					}
					continue
				}
			}
		}
		if depth == 0 {
			sb.WriteByte(source[i])
		}
	}
	return sb.String()
}
