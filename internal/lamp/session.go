package lamp

import (
	"fmt"

	"github.com/domx3d/hello-lamp/common"
	"github.com/domx3d/hello-lamp/engine/camera"
	"github.com/domx3d/hello-lamp/engine/light"
	"github.com/domx3d/hello-lamp/engine/logging"
	"github.com/domx3d/hello-lamp/engine/scene"
	"github.com/domx3d/hello-lamp/engine/ui"
	"github.com/domx3d/hello-lamp/engine/window"

	"github.com/go-gl/mathgl/mgl32"
)

// Session is the state of one run of the showcase. Every handler runs on the main thread and
// reaches shared state through the session, so nothing here is locked.
type Session struct {
	cfg    Config
	logger logging.Logger

	surface SurfaceSize

	scene    scene.Scene
	camera   camera.Camera
	controls camera.CameraController

	pointLight light.Light
	spotLight  light.Light
	spotTarget scene.Node

	overlay       *ui.Overlay
	brand         *ui.Label
	picker        *ui.ColorPicker
	loadingScreen *ui.LoadingScreen

	anchors     Anchors
	interaction *InteractionController
	colorSync   *ColorSync
	loading     bool
}

// NewSession builds the scene, camera, lights and overlay described by cfg. Assets are not
// requested until LoadAssets.
//
// Parameters:
//   - cfg: a validated config
//   - options: variadic list of SessionOption functions
//
// Returns:
//   - *Session: the session
//   - error: an invalid color in cfg
func NewSession(cfg Config, options ...SessionOption) (*Session, error) {
	s := &Session{cfg: cfg}
	for _, opt := range options {
		opt(s)
	}
	s.logger = logging.OrDefault(s.logger)

	colors, err := parseColors(cfg)
	if err != nil {
		return nil, err
	}

	s.controls = newControls(cfg.Camera, cfg.Controls)
	aspect := float32(cfg.Window.Width) / float32(cfg.Window.Height)
	if w, h := s.size(); w > 0 && h > 0 {
		aspect = float32(w) / float32(h)
	}
	s.camera = camera.NewCamera(
		camera.WithFov(cfg.Camera.Fov),
		camera.WithAspect(aspect),
		camera.WithClipPlanes(cfg.Camera.Near, cfg.Camera.Far),
		camera.WithController(s.controls),
	)

	pl := cfg.Lights.Point
	s.pointLight = light.NewLight(light.LightTypePoint,
		light.WithColor(colors.point),
		light.WithPosition(pl.Position[0], pl.Position[1], pl.Position[2]),
		light.WithIntensity(pl.Intensity),
		light.WithDistance(pl.Distance),
		light.WithDecay(pl.Decay),
	)
	sl := cfg.Lights.Spot
	s.spotLight = light.NewLight(light.LightTypeSpot,
		light.WithColor(colors.spot),
		light.WithPosition(sl.Position[0], sl.Position[1], sl.Position[2]),
		light.WithIntensity(sl.Intensity),
		light.WithSpotCone(sl.Angle, sl.Penumbra),
	)
	s.spotTarget = scene.NewNode(scene.WithName("spotTarget"), scene.WithPosition(mgl32.Vec3(sl.Target)))

	s.scene = scene.NewScene(
		scene.WithBackground(colors.clear),
		scene.WithLogger(s.logger),
		scene.WithLights(light.NewLight(light.LightTypeAmbient,
			light.WithColor(colors.ambient),
			light.WithIntensity(cfg.Lights.Ambient.Intensity),
		)),
	)
	s.scene.AddLight(s.pointLight)

	s.brand = ui.NewLabel(cfg.Brand.Text,
		ui.WithLabelPosition(16, 16),
		ui.WithLabelScale(2),
		ui.WithLabelColor(colors.brand),
	)
	s.picker, err = ui.NewColorPicker(ui.WithValue(bulbEmissive))
	if err != nil {
		return nil, fmt.Errorf("failed to create color picker: %w", err)
	}
	s.loadingScreen = ui.NewLoadingScreen("Loading...")
	s.overlay = ui.NewOverlay(s.brand, s.picker, s.loadingScreen)

	s.colorSync = NewColorSync(s.brand, s.spotLight)
	s.picker.OnInput(func(hex string) {
		if err := s.colorSync.Apply(hex); err != nil {
			s.logger.Warnf("color picker: %v", err)
		}
	})

	s.interaction = NewInteractionController(s.scene, s.camera, &s.anchors,
		WithOrbitToggle(s.controls),
		WithPicker(s.picker),
		WithSurface(s),
		WithDragSensitivity(cfg.Interaction.DragSensitivity),
		WithInteractionLogger(s.logger),
	)
	return s, nil
}

func newControls(cam CameraConfig, c ControlsConfig) camera.CameraController {
	opts := []camera.CameraControllerOption{
		camera.WithEye(mgl32.Vec3(cam.Position)),
		camera.WithRadiusBounds(c.MinDistance, c.MaxDistance),
		camera.WithPolarBounds(c.MinPolar, c.MaxPolar),
		camera.WithAzimuthBounds(c.MinAzimuth, c.MaxAzimuth),
		camera.WithZoomEnabled(c.Zoom),
	}
	if c.AutoRotate {
		opts = append(opts, camera.WithAutoRotate(c.AutoRotateSpeed))
	}
	return camera.NewCameraController(opts...)
}

type sessionColors struct {
	clear, ambient, point, spot, brand common.Color
}

func parseColors(cfg Config) (sessionColors, error) {
	var out sessionColors
	for _, f := range []struct {
		dst *common.Color
		hex string
	}{
		{&out.clear, cfg.Renderer.ClearColor},
		{&out.ambient, cfg.Lights.Ambient.Color},
		{&out.point, cfg.Lights.Point.Color},
		{&out.spot, cfg.Lights.Spot.Color},
		{&out.brand, cfg.Brand.Color},
	} {
		c, err := common.ParseHex(f.hex)
		if err != nil {
			return out, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
		}
		*f.dst = c
	}
	return out, nil
}

// BindWindow routes the window's pointer and wheel events into the session.
func (s *Session) BindWindow(w window.Window) {
	s.surface = w
	w.SetPointerDownCallback(s.PointerDown)
	w.SetPointerUpCallback(s.PointerUp)
	w.SetPointerMoveCallback(s.PointerMove)
	w.SetScrollCallback(s.Scroll)
}

// PointerDown offers the click to the overlay first. Clicks the overlay does not consume reach
// the interaction controller and then the orbit camera, which ignores them while suspended.
func (s *Session) PointerDown(x, y float32) {
	w, h := s.size()
	if s.overlay.Click(x, y, w, h) {
		return
	}
	s.interaction.PointerDown(x, y)
	s.controls.PointerDown(x, y)
}

func (s *Session) PointerUp(x, y float32) {
	s.interaction.PointerUp()
	s.controls.PointerUp()
}

func (s *Session) PointerMove(x, y float32) {
	s.interaction.PointerMove(x, y)
	_, h := s.size()
	s.controls.PointerMove(x, y, h)
}

func (s *Session) Scroll(delta float32) {
	s.controls.Scroll(delta)
}

// FramebufferSize reports the bound window's size, or the configured size before binding.
func (s *Session) FramebufferSize() (int, int) {
	return s.size()
}

func (s *Session) size() (int, int) {
	if s.surface == nil {
		return s.cfg.Window.Width, s.cfg.Window.Height
	}
	return s.surface.FramebufferSize()
}

func (s *Session) Config() Config                      { return s.cfg }
func (s *Session) Scene() scene.Scene                  { return s.scene }
func (s *Session) Camera() camera.Camera               { return s.camera }
func (s *Session) Controls() camera.CameraController   { return s.controls }
func (s *Session) Anchors() *Anchors                   { return &s.anchors }
func (s *Session) Interaction() *InteractionController { return s.interaction }
func (s *Session) ColorSync() *ColorSync               { return s.colorSync }
func (s *Session) Overlay() *ui.Overlay                { return s.overlay }
func (s *Session) Brand() *ui.Label                    { return s.brand }
func (s *Session) Picker() *ui.ColorPicker             { return s.picker }
func (s *Session) LoadingScreen() *ui.LoadingScreen    { return s.loadingScreen }
func (s *Session) SpotLight() light.Light              { return s.spotLight }
func (s *Session) PointLight() light.Light             { return s.pointLight }

// Loading reports whether a load batch has started and not yet completed.
func (s *Session) Loading() bool { return s.loading }
