package lamp

import (
	"math"

	"github.com/domx3d/hello-lamp/common"
	"github.com/domx3d/hello-lamp/engine/camera"
	"github.com/domx3d/hello-lamp/engine/logging"
	"github.com/domx3d/hello-lamp/engine/scene"

	"github.com/go-gl/mathgl/mgl32"
)

// InteractionState is the drag state machine of the lamp case.
type InteractionState int

const (
	StateIdle InteractionState = iota
	StateDragging
)

func (s InteractionState) String() string {
	if s == StateDragging {
		return "Dragging"
	}
	return "Idle"
}

// DragState is the pointer bookkeeping of a case drag. Deltas hold the previous pointer position
// in NDC and are zero outside a drag.
type DragState struct {
	Pressed    bool
	LastDeltaX float32
	LastDeltaY float32
}

// OrbitToggle suspends and resumes the orbit camera while the case is dragged.
type OrbitToggle interface {
	SetEnabled(enabled bool)
}

// PickerOpener opens the color palette.
type PickerOpener interface {
	ShowPicker()
}

// SurfaceSize reports the drawable size in pixels.
type SurfaceSize interface {
	FramebufferSize() (int, int)
}

// InteractionController turns pointer events into lamp case rotation and color picker requests.
type InteractionController struct {
	scene   scene.Scene
	camera  camera.Camera
	anchors *Anchors
	orbit   OrbitToggle
	picker  PickerOpener
	surface SurfaceSize
	logger  logging.Logger

	sensitivity float32
	drag        DragState
}

// NewInteractionController creates an idle controller.
//
// Parameters:
//   - s: the scene to raycast
//   - c: the camera pick rays start from
//   - anchors: the lamp anchors, read on every event
//   - options: variadic list of InteractionOption functions
//
// Returns:
//   - *InteractionController: the controller
func NewInteractionController(s scene.Scene, c camera.Camera, anchors *Anchors, options ...InteractionOption) *InteractionController {
	ic := &InteractionController{
		scene:       s,
		camera:      c,
		anchors:     anchors,
		sensitivity: 5,
	}
	for _, opt := range options {
		opt(ic)
	}
	ic.logger = logging.OrDefault(ic.logger)
	return ic
}

// State returns Dragging while a case drag is active.
func (ic *InteractionController) State() InteractionState {
	if ic.drag.Pressed {
		return StateDragging
	}
	return StateIdle
}

// Drag returns a copy of the drag bookkeeping.
func (ic *InteractionController) Drag() DragState {
	return ic.drag
}

// PointerDown picks the nearest mesh under the pointer. A hit inside the lamp case starts a drag
// and suspends the orbit camera; a hit inside the control panel opens the color picker.
//
// Parameters:
//   - x, y: pointer position in framebuffer pixels
func (ic *InteractionController) PointerDown(x, y float32) {
	w, h := ic.size()
	ray := scene.RayFromNDC(common.PointerToNDC(x, y, w, h), ic.camera.InverseViewProjectionMatrix())
	hits := ic.scene.Raycast(ray)
	if len(hits) == 0 {
		return
	}
	nearest := hits[0].Node

	if caseNode, ok := ic.anchors.Case(); ok && scene.IsDescendantOf(nearest, caseNode) {
		ic.drag = DragState{Pressed: true}
		if ic.orbit != nil {
			ic.orbit.SetEnabled(false)
		}
		ic.logger.Debugf("drag started on %s", nearest.Name())
		return
	}

	if scene.FindAncestor(nearest, ControlPanelName) != nil && ic.picker != nil {
		ic.picker.ShowPicker()
	}
}

// PointerUp ends a drag and resumes the orbit camera. Outside a drag it does nothing.
func (ic *InteractionController) PointerUp() {
	if !ic.drag.Pressed {
		return
	}
	ic.drag = DragState{}
	if ic.orbit != nil {
		ic.orbit.SetEnabled(true)
	}
}

// PointerMove rotates the lamp case while dragging. The rotation step uses the difference between
// the previous pointer position and the current one, both in NDC, and each axis is clamped to [-π, π].
//
// Parameters:
//   - x, y: pointer position in framebuffer pixels
func (ic *InteractionController) PointerMove(x, y float32) {
	if !ic.drag.Pressed {
		return
	}
	caseNode, ok := ic.anchors.Case()
	if !ok {
		return
	}

	w, h := ic.size()
	ndc := common.PointerToNDC(x, y, w, h)
	dX := ic.drag.LastDeltaX - ndc.X()
	dY := ic.drag.LastDeltaY - ndc.Y()

	rot := caseNode.Rotation()
	caseNode.SetRotation(mgl32.Vec3{
		common.Clamp(rot.X()+dY*ic.sensitivity, -math.Pi, math.Pi),
		common.Clamp(rot.Y()+dX*ic.sensitivity, -math.Pi, math.Pi),
		rot.Z(),
	})

	ic.drag.LastDeltaX = ndc.X()
	ic.drag.LastDeltaY = ndc.Y()
}

func (ic *InteractionController) size() (int, int) {
	if ic.surface == nil {
		return 0, 0
	}
	return ic.surface.FramebufferSize()
}
