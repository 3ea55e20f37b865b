package lamp

import (
	"github.com/domx3d/hello-lamp/engine/logging"
)

// InteractionOption is a functional option for configuring an InteractionController.
type InteractionOption func(*InteractionController)

// WithOrbitToggle sets the orbit camera suspended during a case drag.
func WithOrbitToggle(o OrbitToggle) InteractionOption {
	return func(ic *InteractionController) {
		ic.orbit = o
	}
}

// WithPicker sets the picker opened by a click on the control panel.
func WithPicker(p PickerOpener) InteractionOption {
	return func(ic *InteractionController) {
		ic.picker = p
	}
}

// WithSurface sets the source of the viewport size used to normalize pointer positions.
func WithSurface(s SurfaceSize) InteractionOption {
	return func(ic *InteractionController) {
		ic.surface = s
	}
}

// WithDragSensitivity scales the case rotation per NDC unit of pointer movement.
// Non-positive values keep the default of 5.
func WithDragSensitivity(k float32) InteractionOption {
	return func(ic *InteractionController) {
		if k > 0 {
			ic.sensitivity = k
		}
	}
}

// WithInteractionLogger sets the logger for drag diagnostics.
func WithInteractionLogger(l logging.Logger) InteractionOption {
	return func(ic *InteractionController) {
		ic.logger = l
	}
}
