package loader

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/domx3d/hello-lamp/engine/logging"
	"github.com/domx3d/hello-lamp/engine/scene"
)

// ErrUnsupportedFormat is returned for a file extension no backend accepts.
var ErrUnsupportedFormat = errors.New("unsupported model format")

// loader is the implementation of the Loader interface.
type loader struct {
	mu sync.RWMutex

	rootDir  string
	backends map[string]loaderBackend
	logger   logging.Logger

	cacheFiles bool
	fileCache  map[string][]byte
}

// Loader imports model files into new scene subgraphs.
//
// Every call returns a fresh subgraph, since a node can only have one parent. Raw file bytes
// are cached by resolved path so repeated loads of the same asset skip the disk. Loader is safe
// for concurrent use; the LoadingManager calls it from worker goroutines.
type Loader interface {
	// Load imports a model file. Relative paths resolve against the loader's root directory.
	// The backend is selected by file extension (.gltf and .glb).
	//
	// Parameters:
	//   - path: the model path
	//
	// Returns:
	//   - scene.Node: the root group of the imported subgraph
	//   - error: ErrUnsupportedFormat, a read error or an import error
	Load(path string) (scene.Node, error)

	// LoadBytes imports an in-memory model. The extension of name selects the backend.
	//
	// Parameters:
	//   - name: a file name such as "lamp.gltf", also used as the fallback group name
	//   - data: the encoded model
	//
	// Returns:
	//   - scene.Node: the root group of the imported subgraph
	//   - error: ErrUnsupportedFormat or an import error
	LoadBytes(name string, data []byte) (scene.Node, error)

	// Resolve returns the path Load would read for the given path.
	Resolve(path string) string

	// Cached reports whether the file bytes for path are in the cache.
	Cached(path string) bool
}

var _ Loader = &loader{}

// NewLoader creates a Loader with the glTF backend registered.
//
// Parameters:
//   - options: a variadic list of LoaderBuilderOption functions to configure the Loader
//
// Returns:
//   - Loader: the configured loader
func NewLoader(options ...LoaderBuilderOption) Loader {
	l := &loader{
		backends:   make(map[string]loaderBackend),
		cacheFiles: true,
		fileCache:  make(map[string][]byte),
	}
	l.register(newGLTFLoaderBackend())

	for _, option := range options {
		option(l)
	}
	l.logger = logging.OrDefault(l.logger)
	return l
}

func (l *loader) register(b loaderBackend) {
	for _, ext := range b.Extensions() {
		l.backends[ext] = b
	}
}

func (l *loader) Resolve(path string) string {
	p := filepath.FromSlash(path)
	if filepath.IsAbs(p) || l.rootDir == "" {
		return p
	}
	return filepath.Join(l.rootDir, p)
}

func (l *loader) Cached(path string) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	_, ok := l.fileCache[l.Resolve(path)]
	return ok
}

func (l *loader) Load(path string) (scene.Node, error) {
	full := l.Resolve(path)
	backend, err := l.resolveBackend(full)
	if err != nil {
		return nil, err
	}

	data, err := l.readFile(full)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", path, err)
	}

	root, err := backend.LoadBytes(full, data, filepath.Dir(full))
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", path, err)
	}
	l.logger.Debugf("loaded %s (%d bytes)", path, len(data))
	return root, nil
}

func (l *loader) LoadBytes(name string, data []byte) (scene.Node, error) {
	backend, err := l.resolveBackend(name)
	if err != nil {
		return nil, err
	}
	root, err := backend.LoadBytes(name, data, l.rootDir)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", name, err)
	}
	return root, nil
}

func (l *loader) readFile(full string) ([]byte, error) {
	if l.cacheFiles {
		l.mu.RLock()
		cached, ok := l.fileCache[full]
		l.mu.RUnlock()
		if ok {
			return cached, nil
		}
	}

	data, err := os.ReadFile(full)
	if err != nil {
		return nil, err
	}

	if l.cacheFiles {
		l.mu.Lock()
		l.fileCache[full] = data
		l.mu.Unlock()
	}
	return data, nil
}

func (l *loader) resolveBackend(path string) (loaderBackend, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if b, ok := l.backends[ext]; ok {
		return b, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
}
