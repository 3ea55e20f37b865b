package loader

import (
	"github.com/domx3d/hello-lamp/engine/scene"
)

// gltfLoaderBackendImpl is the loaderBackend for glTF JSON and GLB files.
type gltfLoaderBackendImpl struct {
	importer gltfImporter
}

var _ loaderBackend = &gltfLoaderBackendImpl{}

func newGLTFLoaderBackend() loaderBackend {
	return &gltfLoaderBackendImpl{
		importer: newGLTFImporter(),
	}
}

func (b *gltfLoaderBackendImpl) LoadBytes(name string, data []byte, baseDir string) (scene.Node, error) {
	return b.importer.ImportBytes(name, data, baseDir)
}

func (b *gltfLoaderBackendImpl) Extensions() []string {
	return []string{".gltf", ".glb"}
}
