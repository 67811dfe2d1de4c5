// Package codec moves images between files and resample.Image buffers.
//
// Decoded images come back with 1 channel (grayscale sources) or 3 channels
// (everything else, alpha dropped). The std backend is always available;
// builds tagged opencv or imagick register additional backends that route
// through native libraries.
package codec

import (
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/samber/lo"

	"github.com/Fepozopo/upscale/pkg/resample"
)

// ErrUnsupportedFormat reports a file extension no backend can handle.
var ErrUnsupportedFormat = errors.New("unsupported image format")

// Error records a failed codec operation on a file.
type Error struct {
	Op   string
	Path string
	Err  error
}

func (e *Error) Error() string {
	return e.Op + " " + e.Path + ": " + e.Err.Error()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Options control encoding.
type Options struct {
	// Quality is the JPEG or lossy WebP quality, 1..100; 0 means 90.
	Quality int
	// Lossless selects lossless WebP output.
	Lossless bool
}

// DefaultQuality is the JPEG quality used when Options.Quality is 0.
const DefaultQuality = 90

func (o Options) quality() int {
	if o.Quality <= 0 {
		return DefaultQuality
	}
	return min(o.Quality, 100)
}

// Backend decodes and encodes image files.
type Backend interface {
	Name() string
	Decode(path string) (*resample.Image, error)
	Encode(path string, img *resample.Image, opts Options) error
}

var (
	mu       sync.RWMutex
	backends = map[string]Backend{}
)

// Register makes b available under b.Name(), replacing any previous
// backend of that name.
func Register(b Backend) {
	mu.Lock()
	defer mu.Unlock()
	backends[b.Name()] = b
}

// Lookup returns the backend registered under name.
func Lookup(name string) (Backend, error) {
	mu.RLock()
	defer mu.RUnlock()
	b, ok := backends[name]
	if !ok {
		return nil, fmt.Errorf("unknown codec backend %q (have %v)", name, backendNames())
	}
	return b, nil
}

// Backends lists the registered backend names in order.
func Backends() []string {
	mu.RLock()
	defer mu.RUnlock()
	return backendNames()
}

func backendNames() []string {
	names := lo.Keys(backends)
	slices.Sort(names)
	return names
}

// Decode reads path with the std backend.
func Decode(path string) (*resample.Image, error) {
	return Std.Decode(path)
}

// Encode writes img to path with the std backend. The format follows the
// extension of path.
func Encode(path string, img *resample.Image, opts Options) error {
	return Std.Encode(path, img, opts)
}

func init() {
	Register(Std)
}
