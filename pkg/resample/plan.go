package resample

import (
	"fmt"
	"math"
)

// Plan computes output dimensions floor(in*scale) for independent x and y
// scales. Non-positive or non-finite scales and outputs smaller than one
// pixel are rejected with ErrInvalidArgument.
func Plan(inW, inH int, scaleX, scaleY float64) (outW, outH int, err error) {
	if inW < 1 || inH < 1 {
		return 0, 0, fmt.Errorf("%w: input %dx%d", ErrInvalidArgument, inW, inH)
	}
	if err := checkScale(scaleX); err != nil {
		return 0, 0, fmt.Errorf("scale x: %w", err)
	}
	if err := checkScale(scaleY); err != nil {
		return 0, 0, fmt.Errorf("scale y: %w", err)
	}
	w := math.Floor(float64(inW) * scaleX)
	h := math.Floor(float64(inH) * scaleY)
	if w < 1 || h < 1 {
		return 0, 0, fmt.Errorf("%w: output %vx%v is empty", ErrInvalidArgument, w, h)
	}
	if w > math.MaxInt32 || h > math.MaxInt32 {
		return 0, 0, fmt.Errorf("%w: output %vx%v is too large", ErrInvalidArgument, w, h)
	}
	return int(w), int(h), nil
}

func checkScale(s float64) error {
	if math.IsNaN(s) || math.IsInf(s, 0) || s <= 0 {
		return fmt.Errorf("%w: scale %v", ErrInvalidArgument, s)
	}
	return nil
}
