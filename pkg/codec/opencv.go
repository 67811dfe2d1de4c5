//go:build opencv

package codec

import (
	"errors"

	"gocv.io/x/gocv"

	"github.com/Fepozopo/upscale/pkg/resample"
)

type opencvBackend struct{}

// OpenCV reads and writes through gocv (IMRead/IMWrite), the same library
// family the CUDA builds of the tool link against.
var OpenCV Backend = opencvBackend{}

func init() {
	Register(OpenCV)
}

func (opencvBackend) Name() string { return "opencv" }

func (opencvBackend) Decode(path string) (*resample.Image, error) {
	mat := gocv.IMRead(path, gocv.IMReadColor)
	defer mat.Close()
	if mat.Empty() {
		return nil, &Error{Op: "decode", Path: path, Err: errors.New("opencv could not read image")}
	}
	img, err := mat.ToImage()
	if err != nil {
		return nil, &Error{Op: "decode", Path: path, Err: err}
	}
	return FromImage(img), nil
}

func (opencvBackend) Encode(path string, m *resample.Image, opts Options) error {
	if _, err := FormatFromPath(path); err != nil {
		return &Error{Op: "encode", Path: path, Err: err}
	}
	img, err := ToImage(m)
	if err != nil {
		return &Error{Op: "encode", Path: path, Err: err}
	}
	mat, err := gocv.ImageToMatRGB(img)
	if err != nil {
		return &Error{Op: "encode", Path: path, Err: err}
	}
	defer mat.Close()

	params := []int{gocv.IMWriteJpegQuality, opts.quality()}
	if opts.Lossless {
		params = append(params, gocv.IMWriteWebpQuality, 101)
	} else {
		params = append(params, gocv.IMWriteWebpQuality, opts.quality())
	}
	if !gocv.IMWriteWithParams(path, mat, params) {
		return &Error{Op: "encode", Path: path, Err: errors.New("opencv could not write image")}
	}
	return nil
}
