package lamp

import (
	"github.com/domx3d/hello-lamp/common"
	"github.com/domx3d/hello-lamp/engine/camera"
	"github.com/domx3d/hello-lamp/engine/scene"
	"github.com/domx3d/hello-lamp/engine/ui"
)

// FrameRenderer is the part of the renderer the render loop drives.
type FrameRenderer interface {
	Size() (int, int)
	Resize(width, height int) error
	Render(s scene.Scene, c camera.Camera, quads []ui.Quad) error
}

// RenderLoop runs once per frame: it refreshes the camera, follows the window size, pins the
// color picker to the color button, and draws.
type RenderLoop struct {
	session  *Session
	renderer FrameRenderer
}

// NewRenderLoop binds a session to a renderer. The viewport size comes from the session's surface.
func NewRenderLoop(s *Session, r FrameRenderer) *RenderLoop {
	return &RenderLoop{session: s, renderer: r}
}

// Tick renders one frame. Render errors are logged and the next frame tries again.
//
// Parameters:
//   - dt: seconds since the previous frame, unused
func (l *RenderLoop) Tick(dt float32) {
	s := l.session
	if s.cfg.Controls.StepEveryFrame {
		s.controls.Update()
	}
	s.camera.Update()

	w, h := s.size()
	if w <= 0 || h <= 0 {
		return
	}
	if rw, rh := l.renderer.Size(); rw != w || rh != h {
		if err := l.renderer.Resize(w, h); err != nil {
			s.logger.Errorf("resize to %dx%d: %v", w, h, err)
			return
		}
		s.camera.SetAspect(float32(w) / float32(h))
	}

	l.placePicker(w, h)

	if err := l.renderer.Render(s.scene, s.camera, s.overlay.Quads(w, h)); err != nil {
		s.logger.Errorf("render: %v", err)
	}
}

// placePicker moves the picker to the color button's projected position plus the configured offset.
func (l *RenderLoop) placePicker(w, h int) {
	s := l.session
	button, ok := s.anchors.ColorButton()
	if !ok {
		return
	}
	ndc, ok := s.camera.Project(button.WorldPosition())
	if !ok {
		return
	}
	x, y := common.NDCToPixels(ndc.Vec2(), w, h)
	off := s.cfg.Interaction.OverlayOffset
	s.picker.SetTranslate(x+off[0], y+off[1])
}
