package workerpool

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
)

var (
	// ErrInvalidGrid is returned by Launch for negative grid dimensions.
	ErrInvalidGrid = errors.New("workerpool: invalid grid")
	// ErrPanic wraps a value recovered from a panicking cell function.
	ErrPanic = errors.New("workerpool: cell function panicked")
)

// job is one Launch call. The grid is flattened row-major into [0, n) and
// every drainer claims the next chunk from a shared counter, so a slow
// region near a border does not hold up the others.
type job struct {
	width int
	n     int
	chunk int
	fn    func(x, y int)

	next atomic.Int64
	wg   sync.WaitGroup

	mu  sync.Mutex
	err error
}

func newJob(width, height, chunk int, fn func(x, y int)) *job {
	if chunk <= 0 {
		chunk = DefaultChunk
	}
	return &job{width: width, n: width * height, chunk: chunk, fn: fn}
}

// chunks is the number of work units the grid splits into.
func (j *job) chunks() int {
	return (j.n + j.chunk - 1) / j.chunk
}

// run drains the job on the calling goroutine while helpers more
// goroutines, started through spawn, do the same. It returns once every
// claimed chunk has finished.
func (j *job) run(helpers int, spawn func(*job)) error {
	j.wg.Add(helpers)
	for range helpers {
		spawn(j)
	}
	j.drain()
	j.wg.Wait()

	j.mu.Lock()
	defer j.mu.Unlock()
	return j.err
}

// help is the body a helper goroutine runs for one job.
func (j *job) help() {
	defer j.wg.Done()
	j.drain()
}

func (j *job) drain() {
	defer func() {
		if r := recover(); r != nil {
			j.fail(fmt.Errorf("%w: %v", ErrPanic, r))
		}
	}()
	step := int64(j.chunk)
	for {
		start := int(j.next.Add(step) - step)
		if start >= j.n {
			return
		}
		j.span(start, min(start+j.chunk, j.n))
	}
}

// fail records the first error and exhausts the counter so the other
// drainers stop after their current chunk.
func (j *job) fail(err error) {
	j.mu.Lock()
	if j.err == nil {
		j.err = err
	}
	j.mu.Unlock()
	j.next.Store(int64(j.n))
}

func (j *job) span(start, end int) {
	x, y := start%j.width, start/j.width
	for i := start; i < end; i++ {
		j.fn(x, y)
		if x++; x == j.width {
			x = 0
			y++
		}
	}
}

func checkGrid(width, height int) error {
	if width < 0 || height < 0 {
		return fmt.Errorf("%w: %dx%d", ErrInvalidGrid, width, height)
	}
	return nil
}
