package resample

import (
	"fmt"
	"math"
)

type sample interface {
	~uint8 | ~float64
}

// tap is one clamped source index and its 1D kernel weight.
type tap struct {
	index  int
	weight float64
}

// pixelCentre maps output index o to a source coordinate treating samples as
// the centres of unit cells.
func pixelCentre(in, out, o int) float64 {
	return (float64(o)+0.5)*(float64(in)/float64(out)) - 0.5
}

// edgeToEdge maps output index o so that the first and last samples of both
// axes coincide. A single output sample maps to source coordinate 0.
func edgeToEdge(in, out, o int) float64 {
	if out == 1 {
		return 0
	}
	return float64(o) * (float64(in-1) / float64(out-1))
}

// taps evaluates kernel at every neighbour floor(src)+m for m in [lo,hi],
// clamping neighbours to [0,in-1].
func taps(src float64, in, lo, hi int, kernel func(float64) float64) []tap {
	i := int(math.Floor(src))
	out := make([]tap, 0, hi-lo+1)
	for m := lo; m <= hi; m++ {
		n := clampInt(i+m, 0, in-1)
		out = append(out, tap{index: n, weight: kernel(src - float64(n))})
	}
	return out
}

func lanczosTaps(in, out, o, a int) []tap {
	return taps(pixelCentre(in, out, o), in, -a+1, a, func(x float64) float64 {
		return LanczosKernel(x, a)
	})
}

func bicubicTaps(in, out, o int) []tap {
	return taps(edgeToEdge(in, out, o), in, -1, 2, CubicKernel)
}

// axisTaps precomputes the taps of every output index along one axis and
// checks that each set has a positive weight sum.
func axisTaps(in, out int, tapsAt func(o int) []tap) ([][]tap, error) {
	all := make([][]tap, out)
	for o := range all {
		t := tapsAt(o)
		var sum float64
		for _, tp := range t {
			sum += tp.weight
		}
		if !(sum > 0) {
			return nil, fmt.Errorf("%w: weight sum %v at output %d of %d->%d",
				ErrNumericDegenerate, sum, o, in, out)
		}
		all[o] = t
	}
	return all, nil
}

// accumulate returns the normalised weighted sum of channel c over the
// neighbourhood xt x yt. x taps are the outer loop.
func accumulate[S sample](pix []S, inW, channels, c int, xt, yt []tap) float64 {
	var result, norm float64
	for _, tx := range xt {
		for _, ty := range yt {
			w := tx.weight * ty.weight
			result += w * float64(pix[(ty.index*inW+tx.index)*channels+c])
			norm += w
		}
	}
	return result / norm
}

// convolve fills dst (outW*outH*channels samples) from src using the
// per-axis taps, one Executor call per output pixel.
func convolve[S sample](exec Executor, src, dst []S, inW, channels int, xt, yt [][]tap, finish func(float64) S) error {
	outW, outH := len(xt), len(yt)
	return exec.Launch(outW, outH, func(x, y int) {
		base := (y*outW + x) * channels
		for c := 0; c < channels; c++ {
			dst[base+c] = finish(accumulate(src, inW, channels, c, xt[x], yt[y]))
		}
	})
}

// separable runs a separable resampler over img, honouring the linear-light
// option.
func separable(img *Image, outW, outH int, o options, tapsFor func(in, out, i int) []tap) (*Image, error) {
	xt, err := axisTaps(img.Width, outW, func(i int) []tap { return tapsFor(img.Width, outW, i) })
	if err != nil {
		return nil, err
	}
	yt, err := axisTaps(img.Height, outH, func(i int) []tap { return tapsFor(img.Height, outH, i) })
	if err != nil {
		return nil, err
	}

	if o.linear {
		lin, err := ToLinear(img)
		if err != nil {
			return nil, err
		}
		res := newFloatImage(outW, outH, img.Channels)
		if err := convolve(o.exec, lin.Pix, res.Pix, img.Width, img.Channels, xt, yt, toUnit); err != nil {
			return nil, err
		}
		return ToSRGB(res)
	}

	dst := &Image{
		Pix:      make([]uint8, outW*outH*img.Channels),
		Width:    outW,
		Height:   outH,
		Channels: img.Channels,
	}
	if err := convolve(o.exec, img.Pix, dst.Pix, img.Width, img.Channels, xt, yt, toUint8); err != nil {
		return nil, err
	}
	return dst, nil
}

// checkRequest validates the source and the requested output size before
// anything is allocated.
func checkRequest(img *Image, outW, outH int) error {
	if err := img.Validate(); err != nil {
		return err
	}
	if outW < 1 || outH < 1 {
		return fmt.Errorf("%w: output %dx%d", ErrInvalidArgument, outW, outH)
	}
	return checkShape(outW, outH, img.Channels)
}
