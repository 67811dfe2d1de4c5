package workerpool

import "runtime"

// DefaultChunk is the number of flat grid indices handed to a worker at once.
const DefaultChunk = 256

// Fork is an executor that spawns its goroutines on every Launch. The zero
// value uses GOMAXPROCS workers and DefaultChunk.
type Fork struct {
	// Workers limits concurrency, caller included; <= 0 means GOMAXPROCS.
	Workers int
	// Chunk is the number of flat indices per work unit; <= 0 means
	// DefaultChunk.
	Chunk int
}

// Launch runs fn(x, y) for every cell of a width x height grid.
func (f Fork) Launch(width, height int, fn func(x, y int)) error {
	if err := checkGrid(width, height); err != nil {
		return err
	}
	j := newJob(width, height, f.Chunk, fn)
	if j.n == 0 {
		return nil
	}
	limit := f.Workers
	if limit <= 0 {
		limit = runtime.GOMAXPROCS(0)
	}
	return j.run(min(limit, j.chunks())-1, func(j *job) { go j.help() })
}

// Serial runs every cell on the calling goroutine in row-major order.
type Serial struct{}

// Launch runs fn(x, y) for every cell of a width x height grid.
func (Serial) Launch(width, height int, fn func(x, y int)) error {
	if err := checkGrid(width, height); err != nil {
		return err
	}
	j := newJob(width, height, max(width*height, 1), fn)
	if j.n == 0 {
		return nil
	}
	return j.run(0, nil)
}
