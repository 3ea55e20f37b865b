// Command hello-lamp opens a window with an interactive desk lamp: orbit the camera, drag the lamp
// case to rotate it, and recolor the bulb from the picker pinned to the color panel.
package main

import (
	"flag"
	"fmt"
	"os"
	"runtime"

	"github.com/domx3d/hello-lamp/engine"
	"github.com/domx3d/hello-lamp/engine/loader"
	"github.com/domx3d/hello-lamp/engine/logging"
	"github.com/domx3d/hello-lamp/engine/renderer"
	"github.com/domx3d/hello-lamp/engine/window"
	"github.com/domx3d/hello-lamp/internal/lamp"
)

// GLFW and the WebGPU surface must stay on the main OS thread.
func init() {
	runtime.LockOSThread()
}

func main() {
	configPath := flag.String("config", "lamp.yaml", "YAML config file; a missing file means defaults")
	assetsDir := flag.String("assets", "", "directory asset paths resolve against (overrides assets.dir)")
	debug := flag.Bool("debug", false, "debug logging and loaded scene dumps")
	profile := flag.Bool("profile", false, "log frame rate and memory once per second")
	flag.Parse()

	logger := logging.NewDefaultLogger("hello-lamp", *debug)

	cfg, err := lamp.LoadConfig(*configPath)
	if err != nil {
		logger.Errorf("%v", err)
		os.Exit(1)
	}
	if *assetsDir != "" {
		cfg.Assets.Dir = *assetsDir
	}
	cfg.Debug = cfg.Debug || *debug
	cfg.Profile = cfg.Profile || *profile
	logger.SetDebug(cfg.Debug)

	if err := run(cfg, logger); err != nil {
		logger.Errorf("%v", err)
		os.Exit(1)
	}
}

func run(cfg lamp.Config, logger logging.Logger) error {
	// ── Window ──────────────────────────────────────────────────────────
	win, err := window.NewWindow(
		window.WithTitle(cfg.Window.Title),
		window.WithSize(cfg.Window.Width, cfg.Window.Height),
	)
	if err != nil {
		return fmt.Errorf("failed to create window: %w", err)
	}

	// ── Renderer ────────────────────────────────────────────────────────
	msaa, _ := renderer.ParseMSAA(cfg.Renderer.MSAA)
	present := renderer.PresentModeVSync
	if !cfg.Renderer.VSync {
		present = renderer.PresentModeUncapped
	}
	r, err := renderer.NewRenderer(win,
		renderer.WithMSAA(msaa),
		renderer.WithPresentMode(present),
		renderer.WithForceSoftwareRenderer(cfg.Renderer.Software),
		renderer.WithLogger(logger),
	)
	if err != nil {
		_ = win.Close()
		return fmt.Errorf("failed to create renderer: %w", err)
	}

	// ── Session ─────────────────────────────────────────────────────────
	session, err := lamp.NewSession(cfg,
		lamp.WithLogger(logger),
		lamp.WithSessionSurface(win),
	)
	if err != nil {
		r.Release()
		_ = win.Close()
		return err
	}
	session.BindWindow(win)

	// ── Assets ──────────────────────────────────────────────────────────
	manager := loader.NewLoadingManager(append(session.LoadingManagerOptions(),
		loader.WithLoader(loader.NewLoader(
			loader.WithRootDir(cfg.Assets.Dir),
			loader.WithLogger(logger),
		)),
	)...)
	defer manager.Close()
	session.LoadAssets(manager)

	// ── Engine ──────────────────────────────────────────────────────────
	loop := lamp.NewRenderLoop(session, r)
	eng := engine.NewEngine(
		engine.WithWindow(win),
		engine.WithRenderer(r),
		engine.WithLogger(logger),
		engine.WithProfiling(cfg.Profile),
		engine.WithRenderFrameLimit(cfg.Renderer.FrameLimit),
	)
	eng.SetTickCallback(func(float32) { manager.Poll() })
	eng.SetRenderCallback(loop.Tick)

	logger.Infof("running %s at %dx%d, assets from %s", cfg.Window.Title, cfg.Window.Width, cfg.Window.Height, cfg.Assets.Dir)
	eng.Run()
	return nil
}
