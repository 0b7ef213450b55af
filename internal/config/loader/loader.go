// Package loader reads configuration layers into nested maps.
//
// Each layer (a TOML file, the environment) produces a map[string]any keyed
// by section and setting name. Layers are combined with DeepMerge, higher
// layers overriding lower ones.
package loader

import (
	"io/fs"
	"os"
)

// Loader produces one configuration layer.
type Loader interface {
	// Load returns the layer's settings, or nil, nil when the source does
	// not exist.
	Load() (map[string]any, error)
}

// FileSystem is the file access a file loader needs.
// testing/fstest.MapFS satisfies it.
type FileSystem interface {
	ReadFile(path string) ([]byte, error)
	Stat(path string) (fs.FileInfo, error)
}

// OSFS implements FileSystem using the real OS file system.
type OSFS struct{}

// ReadFile reads the entire file at path.
func (OSFS) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}

// Stat returns file info for path.
func (OSFS) Stat(path string) (fs.FileInfo, error) {
	return os.Stat(path)
}

// DefaultFS returns the OS file system.
func DefaultFS() FileSystem {
	return OSFS{}
}
