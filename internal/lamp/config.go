package lamp

import (
	"errors"
	"fmt"
	"math"
	"os"

	"github.com/domx3d/hello-lamp/common"
	"github.com/domx3d/hello-lamp/engine/renderer"

	"gopkg.in/yaml.v3"
)

// ErrInvalidConfig wraps every validation failure reported by Config.Validate.
var ErrInvalidConfig = errors.New("invalid config")

// Config holds every tunable of the showcase. Zero values are never defaults: start from
// DefaultConfig and overlay a file with LoadConfig.
type Config struct {
	Window      WindowConfig      `yaml:"window"`
	Renderer    RendererConfig    `yaml:"renderer"`
	Assets      AssetsConfig      `yaml:"assets"`
	Camera      CameraConfig      `yaml:"camera"`
	Controls    ControlsConfig    `yaml:"controls"`
	Lights      LightsConfig      `yaml:"lights"`
	Interaction InteractionConfig `yaml:"interaction"`
	Brand       BrandConfig       `yaml:"brand"`
	Debug       bool              `yaml:"debug"`
	Profile     bool              `yaml:"profile"`
}

type WindowConfig struct {
	Title  string `yaml:"title"`
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
}

type RendererConfig struct {
	MSAA       int    `yaml:"msaa"`
	VSync      bool   `yaml:"vsync"`
	ClearColor string `yaml:"clear_color"`
	// FrameLimit caps frames per second, 0 for no cap.
	FrameLimit float64 `yaml:"frame_limit"`
	Software   bool    `yaml:"software"`
}

// AssetsConfig names the three glTF files. Relative paths resolve against Dir.
type AssetsConfig struct {
	Dir        string `yaml:"dir"`
	Lamp       string `yaml:"lamp"`
	ColorPanel string `yaml:"color_panel"`
	Room       string `yaml:"room"`
}

type CameraConfig struct {
	// Fov is the vertical field of view in degrees.
	Fov      float32    `yaml:"fov"`
	Near     float32    `yaml:"near"`
	Far      float32    `yaml:"far"`
	Position [3]float32 `yaml:"position"`
}

// ControlsConfig mirrors the orbit control settings. Angles are radians.
type ControlsConfig struct {
	AutoRotate      bool    `yaml:"auto_rotate"`
	AutoRotateSpeed float32 `yaml:"auto_rotate_speed"`
	Zoom            bool    `yaml:"zoom"`
	MinDistance     float32 `yaml:"min_distance"`
	MaxDistance     float32 `yaml:"max_distance"`
	MinPolar        float32 `yaml:"min_polar"`
	MaxPolar        float32 `yaml:"max_polar"`
	MinAzimuth      float32 `yaml:"min_azimuth"`
	MaxAzimuth      float32 `yaml:"max_azimuth"`
	// StepEveryFrame advances the controller (and auto-rotate) once per frame instead of only on input.
	StepEveryFrame bool `yaml:"step_every_frame"`
}

type LightsConfig struct {
	Ambient AmbientLightConfig `yaml:"ambient"`
	Point   PointLightConfig   `yaml:"point"`
	Spot    SpotLightConfig    `yaml:"spot"`
}

type AmbientLightConfig struct {
	Color     string  `yaml:"color"`
	Intensity float32 `yaml:"intensity"`
}

type PointLightConfig struct {
	Color     string     `yaml:"color"`
	Position  [3]float32 `yaml:"position"`
	Intensity float32    `yaml:"intensity"`
	Distance  float32    `yaml:"distance"`
	Decay     float32    `yaml:"decay"`
}

// SpotLightConfig places the spot light and its target relative to the lamp case.
type SpotLightConfig struct {
	Color     string     `yaml:"color"`
	Position  [3]float32 `yaml:"position"`
	Target    [3]float32 `yaml:"target"`
	Intensity float32    `yaml:"intensity"`
	Angle     float32    `yaml:"angle"`
	Penumbra  float32    `yaml:"penumbra"`
}

type InteractionConfig struct {
	DragSensitivity float32    `yaml:"drag_sensitivity"`
	OverlayOffset   [2]float32 `yaml:"overlay_offset"`
}

// BrandConfig is the title label drawn in the top-left corner.
type BrandConfig struct {
	Text  string `yaml:"text"`
	Color string `yaml:"color"`
}

// DefaultConfig returns the settings the showcase ships with.
func DefaultConfig() Config {
	return Config{
		Window: WindowConfig{
			Title:  "hello-lamp",
			Width:  1280,
			Height: 720,
		},
		Renderer: RendererConfig{
			MSAA:       4,
			VSync:      true,
			ClearColor: "#000000",
		},
		Assets: AssetsConfig{
			Dir:        ".",
			Lamp:       "objects/lamp.gltf",
			ColorPanel: "objects/color_panel.gltf",
			Room:       "objects/room/test.gltf",
		},
		Camera: CameraConfig{
			Fov:      45,
			Near:     0.1,
			Far:      1000,
			Position: [3]float32{-20, 20, 10},
		},
		Controls: ControlsConfig{
			AutoRotate:      true,
			AutoRotateSpeed: 10,
			Zoom:            true,
			MinDistance:     5,
			MaxDistance:     35,
			MinPolar:        math.Pi / 10,
			MaxPolar:        math.Pi / 2,
			MinAzimuth:      math.Pi + 0.05,
			MaxAzimuth:      math.Pi*2 - 0.05,
		},
		Lights: LightsConfig{
			Ambient: AmbientLightConfig{Color: "#ffffff", Intensity: 0.15},
			Point: PointLightConfig{
				Color:     "#ffffff",
				Position:  [3]float32{-3, 0, -0.5},
				Intensity: 2,
				Distance:  4.3,
				Decay:     1,
			},
			Spot: SpotLightConfig{
				Color:     "#ffffff",
				Position:  [3]float32{0, 1, 0},
				Target:    [3]float32{-3, 5, -3},
				Intensity: 2,
				Angle:     0.5,
				Penumbra:  0.1,
			},
		},
		Interaction: InteractionConfig{
			DragSensitivity: 5,
			OverlayOffset:   [2]float32{-30, -40},
		},
		Brand: BrandConfig{
			Text:  "hello-lamp",
			Color: "#ffffff",
		},
	}
}

// LoadConfig reads a YAML file over DefaultConfig. A missing file yields the defaults.
//
// Parameters:
//   - path: the config file path, empty for defaults
//
// Returns:
//   - Config: the merged and validated config
//   - error: a read, parse or validation error
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate reports the first out-of-range setting.
func (c Config) Validate() error {
	invalid := func(format string, args ...any) error {
		return fmt.Errorf("%w: %s", ErrInvalidConfig, fmt.Sprintf(format, args...))
	}

	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return invalid("window size %dx%d", c.Window.Width, c.Window.Height)
	}
	if _, ok := renderer.ParseMSAA(c.Renderer.MSAA); !ok {
		return invalid("renderer.msaa %d is not one of 0, 1, 4, 8, 16", c.Renderer.MSAA)
	}
	if c.Renderer.FrameLimit < 0 {
		return invalid("renderer.frame_limit %v", c.Renderer.FrameLimit)
	}
	if c.Camera.Fov <= 0 || c.Camera.Fov >= 180 {
		return invalid("camera.fov %v", c.Camera.Fov)
	}
	if c.Camera.Near <= 0 || c.Camera.Far <= c.Camera.Near {
		return invalid("camera clip planes %v..%v", c.Camera.Near, c.Camera.Far)
	}
	if c.Controls.MinDistance <= 0 || c.Controls.MaxDistance < c.Controls.MinDistance {
		return invalid("controls distance %v..%v", c.Controls.MinDistance, c.Controls.MaxDistance)
	}
	if c.Controls.MinPolar < 0 || c.Controls.MaxPolar > math.Pi || c.Controls.MaxPolar < c.Controls.MinPolar {
		return invalid("controls polar %v..%v", c.Controls.MinPolar, c.Controls.MaxPolar)
	}
	if c.Controls.MaxAzimuth < c.Controls.MinAzimuth {
		return invalid("controls azimuth %v..%v", c.Controls.MinAzimuth, c.Controls.MaxAzimuth)
	}
	if c.Interaction.DragSensitivity <= 0 {
		return invalid("interaction.drag_sensitivity %v", c.Interaction.DragSensitivity)
	}

	for _, f := range []struct{ field, hex string }{
		{"renderer.clear_color", c.Renderer.ClearColor},
		{"lights.ambient.color", c.Lights.Ambient.Color},
		{"lights.point.color", c.Lights.Point.Color},
		{"lights.spot.color", c.Lights.Spot.Color},
		{"brand.color", c.Brand.Color},
	} {
		if _, err := common.ParseHex(f.hex); err != nil {
			return fmt.Errorf("%w: %s: %w", ErrInvalidConfig, f.field, err)
		}
	}
	return nil
}
