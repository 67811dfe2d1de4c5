// Package config loads upscale settings from an optional .env file and the
// UPSCALE_* environment variables. Command line flags are applied on top by
// the cli package.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/Fepozopo/upscale/pkg/resample"
)

// ErrInvalidConfig reports a setting outside its accepted range.
var ErrInvalidConfig = errors.New("invalid config")

// Backend names an execution strategy.
type Backend string

const (
	BackendCPU Backend = "cpu"
	BackendGPU Backend = "gpu"
)

// Default lobe counts per backend.
const (
	DefaultCPULanczosA = 3
	DefaultGPULanczosA = 8
)

// Environment variable names.
const (
	EnvMethod       = "UPSCALE_METHOD"
	EnvLanczosA     = "UPSCALE_LANCZOS_A"
	EnvBackend      = "UPSCALE_BACKEND"
	EnvWorkers      = "UPSCALE_WORKERS"
	EnvJPEGQuality  = "UPSCALE_JPEG_QUALITY"
	EnvLossless     = "UPSCALE_LOSSLESS"
	EnvLinear       = "UPSCALE_LINEAR"
	EnvDebug        = "UPSCALE_DEBUG"
	EnvLogFormat    = "UPSCALE_LOG_FORMAT"
	EnvDeviceMemory = "UPSCALE_DEVICE_MEMORY"
	EnvDeviceBlock  = "UPSCALE_DEVICE_BLOCK"
)

// Config holds every tunable of a run.
type Config struct {
	Method resample.Method
	// LanczosA is the lobe count; 0 selects the backend default.
	LanczosA int
	Backend  Backend
	// Workers is the host worker count; 0 means GOMAXPROCS.
	Workers     int
	JPEGQuality int
	Lossless    bool
	Linear      bool
	Debug       bool
	LogFormat   string
	// DeviceMemory is the emulated device memory in bytes; 0 is unlimited.
	DeviceMemory int64
	// DeviceBlock is the edge of the square thread block.
	DeviceBlock int
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Method:      resample.Lanczos,
		Backend:     BackendCPU,
		JPEGQuality: 90,
		LogFormat:   "json",
		DeviceBlock: 16,
	}
}

// Load reads the given .env files (".env" when none are named), ignoring
// missing ones, then builds a Config from the process environment.
// Variables already set in the environment win over the files.
func Load(files ...string) (Config, error) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", f, err)
		}
	}
	return FromEnv(os.LookupEnv)
}

// FromEnv builds a Config from Default and the UPSCALE_* variables returned
// by lookup.
func FromEnv(lookup func(string) (string, bool)) (Config, error) {
	c := Default()
	var errs []error
	str := func(key string, fn func(string) error) {
		v, ok := lookup(key)
		if !ok || strings.TrimSpace(v) == "" {
			return
		}
		if err := fn(strings.TrimSpace(v)); err != nil {
			errs = append(errs, fmt.Errorf("%w: %s=%q: %v", ErrInvalidConfig, key, v, err))
		}
	}
	integer := func(key string, dst *int) {
		str(key, func(v string) (err error) {
			*dst, err = strconv.Atoi(v)
			return err
		})
	}
	boolean := func(key string, dst *bool) {
		str(key, func(v string) (err error) {
			*dst, err = strconv.ParseBool(v)
			return err
		})
	}

	str(EnvMethod, func(v string) (err error) {
		c.Method, err = resample.ParseMethod(v)
		return err
	})
	integer(EnvLanczosA, &c.LanczosA)
	str(EnvBackend, func(v string) error {
		c.Backend = Backend(strings.ToLower(v))
		return nil
	})
	integer(EnvWorkers, &c.Workers)
	integer(EnvJPEGQuality, &c.JPEGQuality)
	boolean(EnvLossless, &c.Lossless)
	boolean(EnvLinear, &c.Linear)
	boolean(EnvDebug, &c.Debug)
	str(EnvLogFormat, func(v string) error {
		c.LogFormat = strings.ToLower(v)
		return nil
	})
	str(EnvDeviceMemory, func(v string) (err error) {
		c.DeviceMemory, err = strconv.ParseInt(v, 10, 64)
		return err
	})
	integer(EnvDeviceBlock, &c.DeviceBlock)

	if err := errors.Join(errs...); err != nil {
		return Config{}, err
	}
	return c, c.Validate()
}

// Validate rejects out-of-range settings.
func (c Config) Validate() error {
	var errs []error
	bad := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("%w: "+format, append([]any{ErrInvalidConfig}, args...)...))
	}
	if _, ok := c.Method.Spec(); !ok {
		bad("method %v", c.Method)
	}
	if c.LanczosA < 0 {
		bad("lanczos a %d", c.LanczosA)
	}
	switch c.Backend {
	case BackendCPU, BackendGPU:
	default:
		bad("backend %q (want cpu or gpu)", c.Backend)
	}
	if c.Linear && c.Backend == BackendGPU {
		bad("linear light is not available on the gpu backend")
	}
	if c.Workers < 0 {
		bad("workers %d", c.Workers)
	}
	if c.JPEGQuality < 1 || c.JPEGQuality > 100 {
		bad("jpeg quality %d (want 1..100)", c.JPEGQuality)
	}
	switch c.LogFormat {
	case "json", "text":
	default:
		bad("log format %q (want json or text)", c.LogFormat)
	}
	if c.DeviceMemory < 0 {
		bad("device memory %d", c.DeviceMemory)
	}
	if c.DeviceBlock < 1 || c.DeviceBlock*c.DeviceBlock > 1024 {
		bad("device block %d (want 1..32)", c.DeviceBlock)
	}
	return errors.Join(errs...)
}

// EffectiveLanczosA returns LanczosA, or the default of the selected
// backend when it is unset.
func (c Config) EffectiveLanczosA() int {
	if c.LanczosA > 0 {
		return c.LanczosA
	}
	if c.Backend == BackendGPU {
		return DefaultGPULanczosA
	}
	return DefaultCPULanczosA
}
