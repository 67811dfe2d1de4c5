// Package device emulates a CUDA-style accelerator on the host: a bounded
// device memory, explicit host<->device copies and kernel launches over a
// grid of blocks, one logical thread per grid cell.
//
// Blocks are scheduled concurrently, at most one per streaming
// multiprocessor; the threads of a block run in order on its goroutine.
// Launch is synchronous, like a launch followed by a device synchronise.
package device

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"

	"golang.org/x/sync/errgroup"
)

var (
	// ErrDeviceFailure is the root of every error reported by a Device.
	ErrDeviceFailure = errors.New("device failure")
	// ErrDeviceAlloc reports that device memory is exhausted.
	ErrDeviceAlloc = fmt.Errorf("%w: out of memory", ErrDeviceFailure)
	// ErrLaunch reports an invalid launch configuration or a kernel that
	// aborted.
	ErrLaunch = fmt.Errorf("%w: launch failed", ErrDeviceFailure)
	// ErrInvalidValue reports a bad buffer argument: freed, foreign or of
	// the wrong size.
	ErrInvalidValue = fmt.Errorf("%w: invalid value", ErrDeviceFailure)
)

// MaxThreadsPerBlock bounds Block.X*Block.Y.
const MaxThreadsPerBlock = 1024

// Dim is a 2D grid or block extent, or an index into one.
type Dim struct {
	X, Y int
}

// Config describes the emulated hardware.
type Config struct {
	// Memory is the device memory in bytes; 0 means unlimited.
	Memory int64
	// Multiprocessors bounds how many blocks run at once; 0 means GOMAXPROCS.
	Multiprocessors int
	// Block is the default block shape used by the resampling entry points;
	// the zero value means 16x16.
	Block Dim
}

// Properties is a snapshot of the device description.
type Properties struct {
	Name               string
	TotalMemory        int64
	UsedMemory         int64
	Multiprocessors    int
	MaxThreadsPerBlock int
	Block              Dim
}

// Device is one emulated accelerator. It is safe for concurrent use.
type Device struct {
	cfg Config

	mu   sync.Mutex
	used int64
}

// New returns a device with the given configuration.
func New(cfg Config) *Device {
	if cfg.Multiprocessors <= 0 {
		cfg.Multiprocessors = runtime.GOMAXPROCS(0)
	}
	if cfg.Block.X <= 0 || cfg.Block.Y <= 0 {
		cfg.Block = Dim{X: 16, Y: 16}
	}
	return &Device{cfg: cfg}
}

// Properties reports the device description and current memory use.
func (d *Device) Properties() Properties {
	d.mu.Lock()
	defer d.mu.Unlock()
	return Properties{
		Name:               "host-emulated",
		TotalMemory:        d.cfg.Memory,
		UsedMemory:         d.used,
		Multiprocessors:    d.cfg.Multiprocessors,
		MaxThreadsPerBlock: MaxThreadsPerBlock,
		Block:              d.cfg.Block,
	}
}

// Thread identifies one logical thread inside a launch.
type Thread struct {
	Block    Dim // blockIdx
	BlockDim Dim // blockDim
	Index    Dim // threadIdx
}

// X returns the global x index, blockIdx.x*blockDim.x + threadIdx.x.
func (t Thread) X() int {
	return t.Block.X*t.BlockDim.X + t.Index.X
}

// Y returns the global y index.
func (t Thread) Y() int {
	return t.Block.Y*t.BlockDim.Y + t.Index.Y
}

// Kernel is the body executed by every thread of a launch.
type Kernel func(t Thread)

// Launch runs kernel over grid x block threads and waits for completion.
// A panicking thread aborts the launch; blocks not yet started are skipped
// and the error wraps ErrLaunch.
func (d *Device) Launch(ctx context.Context, grid, block Dim, kernel Kernel) error {
	if grid.X < 1 || grid.Y < 1 || block.X < 1 || block.Y < 1 {
		return fmt.Errorf("%w: grid %v block %v", ErrLaunch, grid, block)
	}
	if block.X*block.Y > MaxThreadsPerBlock {
		return fmt.Errorf("%w: %d threads per block exceeds %d",
			ErrLaunch, block.X*block.Y, MaxThreadsPerBlock)
	}
	if kernel == nil {
		return fmt.Errorf("%w: nil kernel", ErrLaunch)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(d.cfg.Multiprocessors)
schedule:
	for by := 0; by < grid.Y; by++ {
		for bx := 0; bx < grid.X; bx++ {
			if gctx.Err() != nil {
				break schedule
			}
			b := Dim{X: bx, Y: by}
			g.Go(func() error {
				if err := gctx.Err(); err != nil {
					return err
				}
				return runBlock(b, block, kernel)
			})
		}
	}
	err := g.Wait()
	if err == nil {
		err = ctx.Err()
	}
	if err != nil {
		if errors.Is(err, ErrDeviceFailure) {
			return err
		}
		return fmt.Errorf("%w: %w", ErrLaunch, err)
	}
	return nil
}

func runBlock(b, dim Dim, kernel Kernel) (err error) {
	t := Thread{Block: b, BlockDim: dim}
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: block %v thread %v: %v", ErrLaunch, t.Block, t.Index, r)
		}
	}()
	for ty := 0; ty < dim.Y; ty++ {
		for tx := 0; tx < dim.X; tx++ {
			t.Index = Dim{X: tx, Y: ty}
			kernel(t)
		}
	}
	return nil
}

// GridFor returns the smallest grid of block-shaped blocks covering a
// width x height domain.
func GridFor(width, height int, block Dim) Dim {
	return Dim{
		X: (width + block.X - 1) / block.X,
		Y: (height + block.Y - 1) / block.Y,
	}
}
