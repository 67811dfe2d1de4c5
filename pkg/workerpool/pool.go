// Package workerpool runs per-pixel work on host goroutines.
//
// Three executors are provided. Pool keeps its workers alive between calls
// and suits a long-running process that resamples many images; Fork spawns
// its goroutines per call and needs no lifecycle management; Serial stays
// on the caller. All of them flatten the 2D output grid row-major and hand
// out contiguous chunks from a shared counter, so neighbouring output pixels
// stay on the same goroutine. The launching goroutine always takes part in
// the work. A panic in the cell function stops the launch and comes back as
// ErrPanic instead of killing the process.
//
// Usage:
//
//	pool := workerpool.New(runtime.GOMAXPROCS(0))
//	defer pool.Close()
//
//	for _, img := range images {
//	    out, err := resample.UpscaleLanczos(img, w, h, 3, resample.WithExecutor(pool))
//	    ...
//	}
package workerpool

import (
	"runtime"
	"sync"
	"sync/atomic"
)

// Pool is a persistent executor that can be reused across many resampling
// calls. It is safe for concurrent use, but a cell function must not Launch
// on the pool that is running it.
type Pool struct {
	workers int
	chunk   atomic.Int64
	jobs    chan *job

	mu     sync.RWMutex
	closed bool
}

// New creates a pool that runs each Launch on numWorkers goroutines: the
// caller plus numWorkers-1 background workers started here. If
// numWorkers <= 0, uses GOMAXPROCS.
func New(numWorkers int) *Pool {
	if numWorkers <= 0 {
		numWorkers = runtime.GOMAXPROCS(0)
	}
	p := &Pool{
		workers: numWorkers,
		jobs:    make(chan *job, numWorkers),
	}
	p.chunk.Store(DefaultChunk)
	for range numWorkers - 1 {
		go p.worker()
	}
	return p
}

func (p *Pool) worker() {
	for j := range p.jobs {
		j.help()
	}
}

// NumWorkers returns how many goroutines share one Launch.
func (p *Pool) NumWorkers() int {
	return p.workers
}

// SetChunk sets how many flat indices a worker claims at a time. Values
// <= 0 are ignored.
func (p *Pool) SetChunk(n int) {
	if n > 0 {
		p.chunk.Store(int64(n))
	}
}

// Close stops the background workers once queued work is done. Calling
// Close multiple times is safe. A closed pool still runs work, on the
// calling goroutine only.
func (p *Pool) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.closed {
		p.closed = true
		close(p.jobs)
	}
}

// Launch runs fn(x, y) for every cell of a width x height grid and returns
// once all calls have finished.
func (p *Pool) Launch(width, height int, fn func(x, y int)) error {
	if err := checkGrid(width, height); err != nil {
		return err
	}
	j := newJob(width, height, int(p.chunk.Load()), fn)
	if j.n == 0 {
		return nil
	}

	p.mu.RLock()
	defer p.mu.RUnlock()
	helpers := 0
	if !p.closed {
		helpers = min(p.workers, j.chunks()) - 1
	}
	return j.run(helpers, func(j *job) { p.jobs <- j })
}
