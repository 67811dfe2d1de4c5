package codec

import (
	"bytes"
	"fmt"
	"image"
	"io"
	"os"

	"github.com/HugoSmits86/nativewebp"
	"github.com/disintegration/imaging"
	gen2brain "github.com/gen2brain/webp"
	xwebp "golang.org/x/image/webp"

	"github.com/Fepozopo/upscale/pkg/resample"
)

type stdBackend struct{}

// Std is the pure Go backend: imaging for JPEG, PNG, GIF, BMP and TIFF,
// x/image/webp and gen2brain/webp for WebP input, gen2brain/webp (lossy)
// and nativewebp (lossless) for WebP output. JPEG EXIF orientation is
// applied on decode.
var Std Backend = stdBackend{}

func (stdBackend) Name() string { return "std" }

func (stdBackend) Decode(path string) (*resample.Image, error) {
	f, err := FormatFromPath(path)
	if err != nil {
		return nil, &Error{Op: "decode", Path: path, Err: err}
	}
	var img image.Image
	if f == WebP {
		img, err = decodeWebP(path)
	} else {
		img, err = imaging.Open(path, imaging.AutoOrientation(true))
	}
	if err != nil {
		return nil, &Error{Op: "decode", Path: path, Err: err}
	}
	return FromImage(img), nil
}

func decodeWebP(path string) (image.Image, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	img, err := xwebp.Decode(bytes.NewReader(data))
	if err == nil {
		return img, nil
	}
	// x/image/webp does not handle every extended-format file.
	if alt, altErr := gen2brain.Decode(bytes.NewReader(data)); altErr == nil {
		return alt, nil
	}
	return nil, err
}

func (stdBackend) Encode(path string, m *resample.Image, opts Options) error {
	f, err := FormatFromPath(path)
	if err != nil {
		return &Error{Op: "encode", Path: path, Err: err}
	}
	img, err := ToImage(m)
	if err != nil {
		return &Error{Op: "encode", Path: path, Err: err}
	}

	if f != WebP {
		if err := imaging.Save(img, path, imaging.JPEGQuality(opts.quality())); err != nil {
			return &Error{Op: "encode", Path: path, Err: err}
		}
		return nil
	}

	out, err := os.Create(path)
	if err != nil {
		return &Error{Op: "encode", Path: path, Err: err}
	}
	err = encodeWebP(out, img, opts)
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return &Error{Op: "encode", Path: path, Err: err}
	}
	return nil
}

func encodeWebP(w io.Writer, img image.Image, opts Options) error {
	if opts.Lossless {
		return nativewebp.Encode(w, img, nil)
	}
	if err := gen2brain.Encode(w, img, gen2brain.Options{Quality: opts.quality()}); err != nil {
		return fmt.Errorf("lossy webp: %w", err)
	}
	return nil
}
