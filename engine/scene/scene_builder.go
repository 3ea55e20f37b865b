package scene

import (
	"github.com/domx3d/hello-lamp/common"
	"github.com/domx3d/hello-lamp/engine/light"
	"github.com/domx3d/hello-lamp/engine/logging"
)

// SceneBuilderOption is a functional option for configuring a Scene during construction.
type SceneBuilderOption func(*scene)

// WithBackground sets the clear color.
//
// Parameters:
//   - c: the background color
//
// Returns:
//   - SceneBuilderOption: functional option to set the background
func WithBackground(c common.Color) SceneBuilderOption {
	return func(s *scene) {
		s.background = c
	}
}

// WithLights registers world-space lights.
//
// Parameters:
//   - lights: the lights to add
//
// Returns:
//   - SceneBuilderOption: functional option to add the lights
func WithLights(lights ...light.Light) SceneBuilderOption {
	return func(s *scene) {
		s.lights = append(s.lights, lights...)
	}
}

// WithLogger sets the logger used for diagnostics.
func WithLogger(l logging.Logger) SceneBuilderOption {
	return func(s *scene) {
		s.logger = l
	}
}
