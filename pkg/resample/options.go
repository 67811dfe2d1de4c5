package resample

import (
	"fmt"

	"github.com/Fepozopo/upscale/pkg/workerpool"
)

// Executor runs fn once for every (x, y) in [0,width)x[0,height). Calls may
// happen in any order and concurrently; fn never writes outside the output
// slot owned by (x, y). Launch returns only after every call has finished.
type Executor interface {
	Launch(width, height int, fn func(x, y int)) error
}

type options struct {
	exec   Executor
	linear bool
	a      int
}

func defaultOptions() options {
	return options{
		exec: workerpool.Fork{},
		a:    DefaultLanczosA,
	}
}

// Option configures a resampling call.
type Option interface {
	apply(*options)
}

type optionFunc func(*options)

func (f optionFunc) apply(o *options) {
	f(o)
}

// WithExecutor selects the parallel execution strategy. A nil executor keeps
// the default.
func WithExecutor(e Executor) Option {
	return optionFunc(func(o *options) {
		if e != nil {
			o.exec = e
		}
	})
}

// WithLinearLight converts sRGB samples to linear light before resampling and
// back afterwards. Only 3-channel images are accepted.
func WithLinearLight() Option {
	return optionFunc(func(o *options) {
		o.linear = true
	})
}

// WithLanczosA sets the lobe count the dispatcher passes to the Lanczos path.
func WithLanczosA(a int) Option {
	return optionFunc(func(o *options) {
		o.a = a
	})
}

func collectOptions(opts []Option) options {
	o := defaultOptions()
	for _, opt := range opts {
		if opt != nil {
			opt.apply(&o)
		}
	}
	return o
}

func (o options) checkLinear(channels int) error {
	if o.linear && channels != 3 {
		return fmt.Errorf("%w: linear light needs 3 channels, got %d", ErrInvalidArgument, channels)
	}
	return nil
}
