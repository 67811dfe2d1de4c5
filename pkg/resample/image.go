package resample

import (
	"fmt"
	"math"
)

// Image is a raw 8-bit raster: row-major, channels interleaved per pixel.
// Sample (x, y, c) lives at Pix[(y*Width+x)*Channels+c].
type Image struct {
	Pix      []uint8
	Width    int
	Height   int
	Channels int
}

// NewImage allocates a zeroed image after validating its shape.
func NewImage(width, height, channels int) (*Image, error) {
	if err := checkShape(width, height, channels); err != nil {
		return nil, err
	}
	return &Image{
		Pix:      make([]uint8, width*height*channels),
		Width:    width,
		Height:   height,
		Channels: channels,
	}, nil
}

// Validate checks the dimensions and that len(Pix) == Width*Height*Channels.
func (m *Image) Validate() error {
	if m == nil {
		return fmt.Errorf("%w: nil image", ErrInvalidArgument)
	}
	if err := checkShape(m.Width, m.Height, m.Channels); err != nil {
		return err
	}
	if want := m.Width * m.Height * m.Channels; len(m.Pix) != want {
		return fmt.Errorf("%w: buffer has %d samples, want %d (%dx%dx%d)",
			ErrInvalidArgument, len(m.Pix), want, m.Width, m.Height, m.Channels)
	}
	return nil
}

// Offset returns the index of the first sample of pixel (x, y).
func (m *Image) Offset(x, y int) int {
	return (y*m.Width + x) * m.Channels
}

// At returns sample c of pixel (x, y). Coordinates must be in range.
func (m *Image) At(x, y, c int) uint8 {
	return m.Pix[m.Offset(x, y)+c]
}

// Clone returns a deep copy of m.
func (m *Image) Clone() *Image {
	if m == nil {
		return nil
	}
	out := *m
	out.Pix = make([]uint8, len(m.Pix))
	copy(out.Pix, m.Pix)
	return &out
}

// FloatImage has the same layout as Image with samples normalised to [0,1].
type FloatImage struct {
	Pix      []float64
	Width    int
	Height   int
	Channels int
}

func newFloatImage(width, height, channels int) *FloatImage {
	return &FloatImage{
		Pix:      make([]float64, width*height*channels),
		Width:    width,
		Height:   height,
		Channels: channels,
	}
}

// Validate mirrors Image.Validate.
func (m *FloatImage) Validate() error {
	if m == nil {
		return fmt.Errorf("%w: nil image", ErrInvalidArgument)
	}
	if err := checkShape(m.Width, m.Height, m.Channels); err != nil {
		return err
	}
	if want := m.Width * m.Height * m.Channels; len(m.Pix) != want {
		return fmt.Errorf("%w: buffer has %d samples, want %d", ErrInvalidArgument, len(m.Pix), want)
	}
	return nil
}

func checkShape(width, height, channels int) error {
	if width < 1 || height < 1 {
		return fmt.Errorf("%w: dimensions %dx%d", ErrInvalidArgument, width, height)
	}
	if channels < 1 {
		return fmt.Errorf("%w: %d channels", ErrInvalidArgument, channels)
	}
	if width > math.MaxInt/height/channels {
		return fmt.Errorf("%w: %dx%dx%d overflows", ErrInvalidArgument, width, height, channels)
	}
	return nil
}

// clampInt clamps v to [lo,hi]
func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clampFloat(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// toUint8 clamps v to [0,255] and rounds half away from zero.
func toUint8(v float64) uint8 {
	return uint8(math.Round(clampFloat(v, 0, 255)))
}

// toUnit clamps v to [0,1].
func toUnit(v float64) float64 {
	return clampFloat(v, 0, 1)
}
