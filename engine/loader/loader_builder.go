package loader

import (
	"github.com/domx3d/hello-lamp/engine/logging"
)

// LoaderBuilderOption is a functional option for configuring a Loader via NewLoader.
type LoaderBuilderOption func(*loader)

// WithRootDir sets the directory that relative asset paths resolve against.
//
// Parameters:
//   - dir: the asset root, usually the -assets flag
//
// Returns:
//   - LoaderBuilderOption: a function that applies the root directory option to a loader
func WithRootDir(dir string) LoaderBuilderOption {
	return func(l *loader) {
		l.rootDir = dir
	}
}

// WithFileCache enables or disables caching of raw file bytes. Enabled by default.
//
// Parameters:
//   - enabled: whether to cache
//
// Returns:
//   - LoaderBuilderOption: a function that applies the cache option to a loader
func WithFileCache(enabled bool) LoaderBuilderOption {
	return func(l *loader) {
		l.cacheFiles = enabled
	}
}

// WithLogger sets the logger used for load diagnostics.
func WithLogger(logger logging.Logger) LoaderBuilderOption {
	return func(l *loader) {
		l.logger = logger
	}
}
