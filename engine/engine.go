package engine

import (
	"sync"
	"time"

	"github.com/domx3d/hello-lamp/engine/logging"
	"github.com/domx3d/hello-lamp/engine/profiler"
	"github.com/domx3d/hello-lamp/engine/renderer"
	"github.com/domx3d/hello-lamp/engine/window"
)

// engine implements the Engine interface.
// Every frame runs on the thread that called Run, inside the window's update callback.
type engine struct {
	quitOnce    sync.Once
	releaseOnce sync.Once

	window   window.Window
	renderer renderer.Renderer
	logger   logging.Logger

	profiler         *profiler.Profiler
	profilingEnabled bool

	tickCallback   func(deltaTime float32)
	renderCallback func(deltaTime float32)

	renderFrameLimit time.Duration // minimum frame duration; 0 = uncapped

	now       func() time.Time
	sleep     func(time.Duration)
	lastFrame time.Time
}

// Engine is the main entry point for the engine.
// It drives the frame loop from the window's message pump and owns shutdown.
type Engine interface {
	// Window returns the underlying window.
	//
	// Returns:
	//   - window.Window: the window instance
	Window() window.Window

	// EnableProfiler enables performance profiling output to the log.
	EnableProfiler()

	// DisableProfiler disables performance profiling output.
	DisableProfiler()

	// SetTickCallback registers the function called first in each frame.
	// Use this for input-driven state, completed loads and animation updates.
	//
	// Parameters:
	//   - callback: function receiving the delta time in seconds
	SetTickCallback(callback func(deltaTime float32))

	// SetRenderCallback registers the function called after the tick callback in each frame.
	// Use this for GPU buffer updates and scene rendering.
	//
	// Parameters:
	//   - callback: function receiving the delta time in seconds
	SetRenderCallback(callback func(deltaTime float32))

	// SetRenderFrameLimit sets an optional frame rate cap in frames per second.
	// Pass 0 to uncap the loop (default).
	//
	// Parameters:
	//   - fps: maximum frames per second (0 = uncapped)
	SetRenderFrameLimit(fps float64)

	// Run pumps window messages and runs one frame per iteration.
	// Blocks until the window closes, then releases the renderer and destroys the window.
	// Must be called from the main OS thread.
	Run()

	// Quit asks the window to close, which ends Run after the current frame.
	// Safe to call multiple times; subsequent calls are no-ops.
	Quit()
}

// NewEngine creates a new Engine instance with the provided options.
//
// Parameters:
//   - options: functional options for engine configuration (window, renderer, profiling, etc.)
//
// Returns:
//   - Engine: the newly created engine
func NewEngine(options ...EngineBuilderOption) Engine {
	e := &engine{
		now:   time.Now,
		sleep: time.Sleep,
	}

	for _, opt := range options {
		opt(e)
	}

	e.logger = logging.OrDefault(e.logger)
	if e.profiler == nil {
		e.profiler = profiler.NewProfiler(profiler.WithLogger(e.logger))
	}

	return e
}

func (e *engine) Window() window.Window {
	return e.window
}

func (e *engine) Run() {
	if e.window == nil {
		e.logger.Errorf("engine: run without a window")
		return
	}
	defer e.release()

	e.lastFrame = e.now()
	e.window.SetUpdateCallback(e.frame)
	e.window.ProcessMessages()
}

// Quit requests the window close once.
func (e *engine) Quit() {
	e.quitOnce.Do(func() {
		if e.window != nil {
			e.window.RequestClose()
		}
	})
}

// frame runs one iteration: tick, render, profiler, then the optional frame cap.
// A panic inside a callback is logged and shuts the engine down instead of crashing the process.
func (e *engine) frame() {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Errorf("engine: frame recovered from panic: %v", r)
			e.Quit()
		}
	}()

	start := e.now()
	dt := float32(start.Sub(e.lastFrame).Seconds())
	e.lastFrame = start

	if e.tickCallback != nil {
		e.tickCallback(dt)
	}
	if e.renderCallback != nil {
		e.renderCallback(dt)
	}

	if e.profilingEnabled && e.profiler != nil {
		e.profiler.Tick()
	}

	if e.renderFrameLimit > 0 {
		if remaining := e.renderFrameLimit - e.now().Sub(start); remaining > 0 {
			e.sleep(remaining)
		}
	}
}

// release frees the renderer after the loop has stopped, then the window it draws into.
func (e *engine) release() {
	e.releaseOnce.Do(func() {
		e.window.SetUpdateCallback(nil)
		if e.renderer != nil {
			e.renderer.Release()
		}
		if err := e.window.Close(); err != nil {
			e.logger.Debugf("engine: close window: %v", err)
		}
	})
}

// EnableProfiler enables performance profiling output to the log.
func (e *engine) EnableProfiler() {
	e.profilingEnabled = true
}

// DisableProfiler disables performance profiling output.
func (e *engine) DisableProfiler() {
	e.profilingEnabled = false
}

// SetTickCallback registers the function called first in each frame.
func (e *engine) SetTickCallback(callback func(deltaTime float32)) {
	e.tickCallback = callback
}

// SetRenderCallback registers the function called each render frame.
func (e *engine) SetRenderCallback(callback func(deltaTime float32)) {
	e.renderCallback = callback
}

// SetRenderFrameLimit sets an optional render frame rate cap.
// Pass 0 to uncap the render loop.
func (e *engine) SetRenderFrameLimit(fps float64) {
	e.renderFrameLimit = frameDuration(fps)
}

// frameDuration converts a frame rate cap to a minimum frame duration. Non-positive means uncapped.
func frameDuration(fps float64) time.Duration {
	if fps <= 0 {
		return 0
	}
	return time.Duration(float64(time.Second) / fps)
}
