//go:build imagick

package codec

import (
	"fmt"
	"sync"

	"gopkg.in/gographics/imagick.v3/imagick"

	"github.com/Fepozopo/upscale/pkg/resample"
)

type imagickBackend struct{}

// ImageMagick reads and writes through MagickWand, which covers formats
// the pure Go decoders do not (HEIC, AVIF, PSD, ...).
var ImageMagick Backend = imagickBackend{}

var imagickOnce sync.Once

func init() {
	Register(ImageMagick)
}

func (imagickBackend) Name() string { return "imagick" }

func (imagickBackend) Decode(path string) (*resample.Image, error) {
	imagickOnce.Do(imagick.Initialize)
	mw := imagick.NewMagickWand()
	defer mw.Destroy()

	if err := mw.ReadImage(path); err != nil {
		return nil, &Error{Op: "decode", Path: path, Err: err}
	}
	if err := mw.AutoOrientImage(); err != nil {
		return nil, &Error{Op: "decode", Path: path, Err: err}
	}
	w, h := mw.GetImageWidth(), mw.GetImageHeight()
	pmap, channels := "RGB", 3
	if mw.GetImageColorspace() == imagick.COLORSPACE_GRAY {
		pmap, channels = "I", 1
	}
	px, err := mw.ExportImagePixels(0, 0, w, h, pmap, imagick.PIXEL_CHAR)
	if err != nil {
		return nil, &Error{Op: "decode", Path: path, Err: err}
	}
	pix, ok := px.([]byte)
	if !ok {
		return nil, &Error{Op: "decode", Path: path, Err: fmt.Errorf("unexpected pixel type %T", px)}
	}
	return &resample.Image{Pix: pix, Width: int(w), Height: int(h), Channels: channels}, nil
}

func (imagickBackend) Encode(path string, m *resample.Image, opts Options) error {
	if err := m.Validate(); err != nil {
		return &Error{Op: "encode", Path: path, Err: err}
	}
	var pmap string
	switch m.Channels {
	case 1:
		pmap = "I"
	case 3:
		pmap = "RGB"
	case 4:
		pmap = "RGBA"
	default:
		return &Error{Op: "encode", Path: path, Err: fmt.Errorf("%w: %d channels", resample.ErrInvalidArgument, m.Channels)}
	}

	imagickOnce.Do(imagick.Initialize)
	mw := imagick.NewMagickWand()
	defer mw.Destroy()

	if err := mw.ConstituteImage(uint(m.Width), uint(m.Height), pmap, imagick.PIXEL_CHAR, m.Pix); err != nil {
		return &Error{Op: "encode", Path: path, Err: err}
	}
	if err := mw.SetImageCompressionQuality(uint(opts.quality())); err != nil {
		return &Error{Op: "encode", Path: path, Err: err}
	}
	if opts.Lossless {
		if err := mw.SetOption("webp:lossless", "true"); err != nil {
			return &Error{Op: "encode", Path: path, Err: err}
		}
	}
	if err := mw.WriteImage(path); err != nil {
		return &Error{Op: "encode", Path: path, Err: err}
	}
	return nil
}
