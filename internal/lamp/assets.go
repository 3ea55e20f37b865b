package lamp

import (
	"errors"
	"fmt"

	"github.com/domx3d/hello-lamp/common"
	"github.com/domx3d/hello-lamp/engine/loader"
	"github.com/domx3d/hello-lamp/engine/material"
	"github.com/domx3d/hello-lamp/engine/scene"

	"github.com/go-gl/mathgl/mgl32"
)

// ErrMissingNode is returned by an asset setup when a required named node is absent.
var ErrMissingNode = errors.New("missing node")

const bulbEmissive = "#ffff00"

var (
	colorPanelPosition = mgl32.Vec3{0, -2, 10}
	roomPosition       = mgl32.Vec3{-24.75, -12.5, 0}
	roomScale          = mgl32.Vec3{5, 5, 5}
)

// LoadAssets requests the lamp, the color panel and the room. Each setup runs inside
// m.Poll on the calling goroutine.
//
// Parameters:
//   - m: a manager built with the session's LoadingManagerOptions
func (s *Session) LoadAssets(m *loader.LoadingManager) {
	m.Load(s.cfg.Assets.Lamp, s.setupLamp)
	m.Load(s.cfg.Assets.ColorPanel, s.setupColorPanel)
	m.Load(s.cfg.Assets.Room, s.setupRoom)
}

// LoadingManagerOptions returns the callbacks that drive the loading flag and the loading screen.
func (s *Session) LoadingManagerOptions() []loader.LoadingManagerOption {
	return []loader.LoadingManagerOption{
		loader.WithManagerLogger(s.logger),
		loader.WithOnStart(func(url string, loaded, total int) {
			s.loading = true
			s.logger.Debugf("started loading %s (%d/%d)", url, loaded, total)
		}),
		loader.WithOnProgress(func(url string, loaded, total int) {
			s.logger.Debugf("loaded %s (%d/%d)", url, loaded, total)
		}),
		loader.WithOnError(func(url string, err error) {
			s.logger.Errorf("There was an error loading %s: %v", url, err)
		}),
		loader.WithOnSetupError(func(url string, err error) {
			s.logger.Errorf("setup of %s failed: %v", url, err)
		}),
		loader.WithOnLoad(s.finishLoading),
	}
}

// finishLoading takes the loading screen down. The screen reports true only on its first removal.
func (s *Session) finishLoading() {
	if s.loadingScreen.Remove() {
		s.overlay.Remove(s.loadingScreen)
		s.logger.Infof("all assets loaded")
	}
	s.loading = false
}

func (s *Session) setupLamp(root scene.Node) error {
	s.scene.Add(root)
	s.dump(s.cfg.Assets.Lamp, root)

	var errs []error
	find := func(name string) scene.Node {
		n := root.GetObjectByName(name)
		if n == nil {
			errs = append(errs, fmt.Errorf("%w: %q", ErrMissingNode, name))
		}
		return n
	}

	if n := find(CaseName); n != nil {
		n.Add(s.spotTarget)
		n.AttachLight(s.spotLight, s.spotTarget)
		s.anchors.lampCase = n
	}

	if n := find(GlassName); n != nil {
		setMaterial(n, material.NewMaterial(
			material.WithName("glass"),
			material.WithKind(material.KindPhong),
			material.WithColor(common.White),
			material.WithOpacity(0.7),
			material.WithTransparent(true),
			material.WithDoubleSided(true),
		))
		s.anchors.glass = n
	}

	if n := find(FoilName); n != nil {
		setMaterial(n, material.NewMaterial(
			material.WithName("foil"),
			material.WithKind(material.KindStandard),
			material.WithColor(common.MustParseHex("#848789")),
			material.WithRoughness(0.2),
			material.WithMetallic(1),
			material.WithDoubleSided(true),
		))
		s.anchors.foil = n
	}

	if n := find(BulbName); n != nil {
		mats := meshMaterials(n)
		for _, m := range mats {
			m.SetEmissive(common.MustParseHex(bulbEmissive))
			m.SetEmissiveIntensity(1)
		}
		s.anchors.bulb = n
		s.colorSync.SetBulb(emissiveTarget(mats))
	}

	return errors.Join(errs...)
}

func (s *Session) setupColorPanel(root scene.Node) error {
	root.SetPosition(colorPanelPosition)
	root.SetName(ColorButtonName)
	s.scene.Add(root)
	s.dump(s.cfg.Assets.ColorPanel, root)

	if root.GetObjectByName(ControlPanelName) == nil {
		s.logger.Warnf("%s has no %q node, the picker opens only from its swatch", s.cfg.Assets.ColorPanel, ControlPanelName)
	}
	s.anchors.colorButton = root
	return nil
}

func (s *Session) setupRoom(root scene.Node) error {
	root.SetScale(roomScale)
	root.SetPosition(roomPosition)
	s.scene.Add(root)
	s.dump(s.cfg.Assets.Room, root)
	return nil
}

// dump logs the loaded tree when debug logging is on.
func (s *Session) dump(url string, root scene.Node) {
	if !s.logger.DebugEnabled() {
		return
	}
	s.logger.Debugf("%s:", url)
	for _, line := range scene.DumpTree(root) {
		s.logger.Debugf("%s", line)
	}
}

// setMaterial replaces the material of n and of every mesh below it.
func setMaterial(n scene.Node, m material.Material) {
	n.Traverse(func(c scene.Node) bool {
		if c.Geometry() != nil {
			c.SetMaterial(m)
		}
		return true
	})
}

// meshMaterials collects the distinct materials of n and the meshes below it, creating a default
// material for meshes that have none.
func meshMaterials(n scene.Node) []material.Material {
	var out []material.Material
	seen := make(map[material.Material]bool)
	n.Traverse(func(c scene.Node) bool {
		if c.Geometry() == nil {
			return true
		}
		m := c.Material()
		if m == nil {
			m = material.NewMaterial()
			c.SetMaterial(m)
		}
		if !seen[m] {
			seen[m] = true
			out = append(out, m)
		}
		return true
	})
	return out
}
