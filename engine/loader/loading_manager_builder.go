package loader

import (
	"time"

	"github.com/domx3d/hello-lamp/engine/logging"
)

// LoadingManagerOption is a functional option for configuring a LoadingManager.
type LoadingManagerOption func(*LoadingManager)

// WithLoader sets the Loader used by the parse workers.
//
// Parameters:
//   - l: the loader
//
// Returns:
//   - LoadingManagerOption: the option function
func WithLoader(l Loader) LoadingManagerOption {
	return func(m *LoadingManager) {
		m.loader = l
	}
}

// WithWorkers sets the worker pool size and how long idle workers linger.
//
// Parameters:
//   - workers: maximum concurrent parses, at least 1
//   - idleTimeout: idle time before a worker exits
//
// Returns:
//   - LoadingManagerOption: the option function
func WithWorkers(workers int, idleTimeout time.Duration) LoadingManagerOption {
	return func(m *LoadingManager) {
		m.workers = max(workers, 1)
		m.idleTimeout = idleTimeout
	}
}

// WithManagerLogger sets the logger used when no callback handles an error.
func WithManagerLogger(logger logging.Logger) LoadingManagerOption {
	return func(m *LoadingManager) {
		m.logger = logger
	}
}

// WithOnStart sets the callback fired when the first asset of a batch is requested.
func WithOnStart(fn func(url string, loaded, total int)) LoadingManagerOption {
	return func(m *LoadingManager) {
		m.onStart = fn
	}
}

// WithOnProgress sets the callback fired after each asset loads.
func WithOnProgress(fn func(url string, loaded, total int)) LoadingManagerOption {
	return func(m *LoadingManager) {
		m.onProgress = fn
	}
}

// WithOnLoad sets the join callback. It fires once when every requested asset has loaded and
// never while any asset has failed.
func WithOnLoad(fn func()) LoadingManagerOption {
	return func(m *LoadingManager) {
		m.onLoad = fn
	}
}

// WithOnError sets the callback fired when an asset fails to read or parse.
func WithOnError(fn func(url string, err error)) LoadingManagerOption {
	return func(m *LoadingManager) {
		m.onError = fn
	}
}

// WithOnSetupError sets the callback fired when a completion handler returns an error.
func WithOnSetupError(fn func(url string, err error)) LoadingManagerOption {
	return func(m *LoadingManager) {
		m.onSetupError = fn
	}
}
