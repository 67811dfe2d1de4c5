// Package engine puts the host and device execution strategies behind one
// interface so callers can switch between them by configuration.
package engine

import (
	"context"
	"fmt"

	"github.com/samber/lo"

	"github.com/Fepozopo/upscale/pkg/config"
	"github.com/Fepozopo/upscale/pkg/device"
	"github.com/Fepozopo/upscale/pkg/resample"
	"github.com/Fepozopo/upscale/pkg/workerpool"
)

// Backend resamples images with one execution strategy.
type Backend interface {
	Name() string
	Upscale(ctx context.Context, src *resample.Image, outW, outH int, m resample.Method, a int) (*resample.Image, error)
	Close() error
}

// New builds the backend selected by cfg.
func New(cfg config.Config) (Backend, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	switch cfg.Backend {
	case config.BackendGPU:
		block := device.Dim{X: cfg.DeviceBlock, Y: cfg.DeviceBlock}
		return NewDevice(device.New(device.Config{Memory: cfg.DeviceMemory, Block: block})), nil
	default:
		return NewHost(cfg.Workers, cfg.Linear), nil
	}
}

// Supports reports whether backend b can run method m. The device backend
// only has a Lanczos kernel.
func Supports(b config.Backend, m resample.Method) bool {
	if b == config.BackendGPU {
		return m == resample.Lanczos
	}
	_, ok := m.Spec()
	return ok
}

// Methods lists the methods backend b can run, in resample.Methods order.
func Methods(b config.Backend) []resample.MethodSpec {
	return lo.Filter(resample.Methods, func(s resample.MethodSpec, _ int) bool {
		return Supports(b, s.Method)
	})
}

// CheckMethod fails with resample.ErrUnsupportedMethod when b cannot run m.
func CheckMethod(b config.Backend, m resample.Method) error {
	if !Supports(b, m) {
		return fmt.Errorf("%w: %v on %s backend", resample.ErrUnsupportedMethod, m, b)
	}
	return nil
}

// Host runs every method on a persistent goroutine pool.
type Host struct {
	pool   *workerpool.Pool
	linear bool
}

// NewHost starts a host backend with the given worker count (<= 0 means
// GOMAXPROCS). linear enables linear-light resampling.
func NewHost(workers int, linear bool) *Host {
	return &Host{pool: workerpool.New(workers), linear: linear}
}

func (h *Host) Name() string { return string(config.BackendCPU) }

// Workers returns the pool size.
func (h *Host) Workers() int { return h.pool.NumWorkers() }

// Upscale dispatches to resample.Upscale. ctx is checked before work starts;
// a host resample is not interruptible once running.
func (h *Host) Upscale(ctx context.Context, src *resample.Image, outW, outH int, m resample.Method, a int) (*resample.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	opts := []resample.Option{resample.WithExecutor(h.pool), resample.WithLanczosA(a)}
	if h.linear {
		opts = append(opts, resample.WithLinearLight())
	}
	return resample.Upscale(src, outW, outH, m, opts...)
}

// Close stops the worker pool.
func (h *Host) Close() error {
	h.pool.Close()
	return nil
}

// Device runs the Lanczos kernel on a device grid. It has no other methods.
type Device struct {
	dev *device.Device
}

// NewDevice wraps d.
func NewDevice(d *device.Device) *Device {
	return &Device{dev: d}
}

func (d *Device) Name() string { return string(config.BackendGPU) }

// Properties describes the underlying device.
func (d *Device) Properties() device.Properties { return d.dev.Properties() }

// Upscale resamples with Lanczos on the device; any other method fails with
// resample.ErrUnsupportedMethod.
func (d *Device) Upscale(ctx context.Context, src *resample.Image, outW, outH int, m resample.Method, a int) (*resample.Image, error) {
	if err := CheckMethod(config.BackendGPU, m); err != nil {
		return nil, err
	}
	return d.dev.Upscale(ctx, src, outW, outH, a)
}

func (d *Device) Close() error { return nil }
