package resample

import (
	"fmt"
	"math"
	"sync"
)

var (
	srgbToLinearTab [256]float64
	srgbTablesOnce  sync.Once
)

// initSRGBTables precomputes the decoded value of every 8-bit sRGB sample.
func initSRGBTables() {
	srgbTablesOnce.Do(func() {
		for v := range srgbToLinearTab {
			srgbToLinearTab[v] = SRGBToLinear(float64(v) / 255)
		}
	})
}

// SRGBToLinear decodes one sRGB component in [0,1] to linear light.
func SRGBToLinear(c float64) float64 {
	if c <= 0.04045 {
		return c / 12.92
	}
	return math.Pow((c+0.055)/1.055, 2.4)
}

// LinearToSRGB encodes one linear-light component in [0,1] to sRGB.
func LinearToSRGB(c float64) float64 {
	if c <= 0.0031308 {
		return c * 12.92
	}
	return 1.055*math.Pow(c, 1/2.4) - 0.055
}

// ToLinear converts a 3-channel sRGB image to linear light in [0,1].
func ToLinear(img *Image) (*FloatImage, error) {
	if err := img.Validate(); err != nil {
		return nil, err
	}
	if img.Channels != 3 {
		return nil, fmt.Errorf("%w: sRGB conversion needs 3 channels, got %d", ErrInvalidArgument, img.Channels)
	}
	initSRGBTables()
	out := newFloatImage(img.Width, img.Height, img.Channels)
	for i, v := range img.Pix {
		out.Pix[i] = srgbToLinearTab[v]
	}
	return out, nil
}

// ToSRGB converts a 3-channel linear-light image back to 8-bit sRGB.
// Components are clamped to [0,1] before encoding.
func ToSRGB(img *FloatImage) (*Image, error) {
	if err := img.Validate(); err != nil {
		return nil, err
	}
	if img.Channels != 3 {
		return nil, fmt.Errorf("%w: sRGB conversion needs 3 channels, got %d", ErrInvalidArgument, img.Channels)
	}
	out := &Image{
		Pix:      make([]uint8, len(img.Pix)),
		Width:    img.Width,
		Height:   img.Height,
		Channels: img.Channels,
	}
	for i, v := range img.Pix {
		out.Pix[i] = toUint8(LinearToSRGB(toUnit(v)) * 255)
	}
	return out, nil
}
