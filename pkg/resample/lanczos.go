package resample

import "fmt"

// UpscaleLanczos resamples img to outW x outH with a Lanczos kernel of a
// lobes (a >= 1), reading 2a source samples per axis around the
// pixel-centre mapped coordinate. Despite the name it also downscales.
func UpscaleLanczos(img *Image, outW, outH, a int, opts ...Option) (*Image, error) {
	o := collectOptions(opts)
	if err := checkRequest(img, outW, outH); err != nil {
		return nil, err
	}
	if err := checkLobes(a); err != nil {
		return nil, err
	}
	if err := o.checkLinear(img.Channels); err != nil {
		return nil, err
	}
	return separable(img, outW, outH, o, func(in, out, i int) []tap {
		return lanczosTaps(in, out, i, a)
	})
}

// LanczosPlan holds the per-axis taps of one inW x inH -> outW x outH
// Lanczos resample. Pixel evaluates one output pixel from them with the
// arithmetic of UpscaleLanczos, so a caller running Pixel once per output
// pixel on its own scheduler produces an identical buffer. A plan is
// read-only once built and may be shared between goroutines.
type LanczosPlan struct {
	inW, outW int
	xt, yt    [][]tap
}

// NewLanczosPlan precomputes the taps of both axes.
func NewLanczosPlan(inW, inH, outW, outH, a int) (*LanczosPlan, error) {
	if inW < 1 || inH < 1 || outW < 1 || outH < 1 {
		return nil, fmt.Errorf("%w: %dx%d -> %dx%d", ErrInvalidArgument, inW, inH, outW, outH)
	}
	if err := checkLobes(a); err != nil {
		return nil, err
	}
	xt, err := axisTaps(inW, outW, func(o int) []tap { return lanczosTaps(inW, outW, o, a) })
	if err != nil {
		return nil, err
	}
	yt, err := axisTaps(inH, outH, func(o int) []tap { return lanczosTaps(inH, outH, o, a) })
	if err != nil {
		return nil, err
	}
	return &LanczosPlan{inW: inW, outW: outW, xt: xt, yt: yt}, nil
}

// Pixel writes every channel of output pixel (x, y) into dst. src and dst
// are interleaved buffers of the planned sizes; nothing is checked.
func (p *LanczosPlan) Pixel(src, dst []uint8, channels, x, y int) {
	base := (y*p.outW + x) * channels
	for c := 0; c < channels; c++ {
		dst[base+c] = toUint8(accumulate(src, p.inW, channels, c, p.xt[x], p.yt[y]))
	}
}

func checkLobes(a int) error {
	if a < 1 {
		return fmt.Errorf("%w: lanczos a=%d, want >= 1", ErrInvalidArgument, a)
	}
	return nil
}
