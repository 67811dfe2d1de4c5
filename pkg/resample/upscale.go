package resample

import "fmt"

// Upscale resamples img to outW x outH with method m.
//
// EdgeDirected takes a single scale factor, outW/inW, and applies it to both
// axes; outH is ignored for it. The output is exactly outW wide and
// floor(inH*scale) high. The Lanczos lobe count comes from
// WithLanczosA (default DefaultLanczosA). Tags outside the supported set fail
// with ErrUnsupportedMethod.
func Upscale(img *Image, outW, outH int, m Method, opts ...Option) (*Image, error) {
	switch m {
	case Bicubic:
		return UpscaleBicubic(img, outW, outH, opts...)
	case Lanczos:
		return UpscaleLanczos(img, outW, outH, collectOptions(opts).a, opts...)
	case EdgeDirected:
		if err := img.Validate(); err != nil {
			return nil, err
		}
		if outW < 1 {
			return nil, fmt.Errorf("%w: output width %d", ErrInvalidArgument, outW)
		}
		scale := float64(outW) / float64(img.Width)
		_, h, err := Plan(img.Width, img.Height, scale, scale)
		if err != nil {
			return nil, err
		}
		if err := checkRequest(img, outW, h); err != nil {
			return nil, err
		}
		return ediTo(img, outW, h, scale, collectOptions(opts))
	default:
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedMethod, m)
	}
}
