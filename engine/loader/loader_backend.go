package loader

import (
	"github.com/domx3d/hello-lamp/engine/scene"
)

// loaderBackend imports one model file format into a scene subgraph.
// Backends are called from worker goroutines and must not share mutable state between calls.
type loaderBackend interface {
	// LoadBytes imports an in-memory model.
	//
	// Parameters:
	//   - name: name used for errors and for the root group
	//   - data: the encoded model
	//   - baseDir: directory that relative references resolve against
	//
	// Returns:
	//   - scene.Node: the root of the imported subgraph
	//   - error: error if loading fails
	LoadBytes(name string, data []byte, baseDir string) (scene.Node, error)

	// Extensions lists the lower-case file extensions the backend accepts.
	Extensions() []string
}
