package lamp

import (
	"github.com/domx3d/hello-lamp/engine/scene"
)

// Node names looked up in the loaded assets.
const (
	CaseName         = "case001"
	GlassName        = "glass001"
	BulbName         = "bulb001"
	FoilName         = "inner_foil001"
	ControlPanelName = "control_panel"
	ColorButtonName  = "colorButton"
)

// Anchors are the scene nodes the showcase mutates after loading. Each one is unset until the
// asset that carries it has loaded, so every accessor reports whether the node is present.
type Anchors struct {
	lampCase    scene.Node
	glass       scene.Node
	bulb        scene.Node
	foil        scene.Node
	colorButton scene.Node
}

func (a *Anchors) Case() (scene.Node, bool)        { return a.lampCase, a.lampCase != nil }
func (a *Anchors) Glass() (scene.Node, bool)       { return a.glass, a.glass != nil }
func (a *Anchors) Bulb() (scene.Node, bool)        { return a.bulb, a.bulb != nil }
func (a *Anchors) Foil() (scene.Node, bool)        { return a.foil, a.foil != nil }
func (a *Anchors) ColorButton() (scene.Node, bool) { return a.colorButton, a.colorButton != nil }
