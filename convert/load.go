package convert

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/signadot/xconv/format"
	"github.com/signadot/xconv/ir"
	"github.com/signadot/xconv/normalize"
)

// Loader returns the raw content stored under a path. The conversion
// packages never read files themselves.
type Loader interface {
	Load(path string) ([]byte, error)
}

// LoaderFunc adapts a function to a Loader.
type LoaderFunc func(path string) ([]byte, error)

func (f LoaderFunc) Load(path string) ([]byte, error) { return f(path) }

// FileLoader loads from the local file system.
var FileLoader Loader = LoaderFunc(os.ReadFile)

// Load reads path through l and normalizes its content. A known extension
// (.json, .ser, .xml, .yaml, .yml, .msgpack, .mp) forces the matching
// decoder so malformed content is an error; anything else is detected.
// Options given by the caller take precedence.
func Load(l Loader, path string, opts ...normalize.Option) (*ir.Node, error) {
	d, err := l.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	if k, ok := format.FromSuffix(filepath.Ext(path)); ok {
		opts = append([]normalize.Option{normalize.As(k)}, opts...)
	}
	node, err := normalize.ToStructure(d, opts...)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return node, nil
}
