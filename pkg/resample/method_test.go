package resample

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMethod(t *testing.T) {
	cases := map[string]Method{
		"bicubic":       Bicubic,
		"Catmull-Rom":   Bicubic,
		"lanczos":       Lanczos,
		" LANCZOS ":     Lanczos,
		"edi":           EdgeDirected,
		"edge-directed": EdgeDirected,
	}
	for in, want := range cases {
		got, err := ParseMethod(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := ParseMethod("nearest")
	assert.ErrorIs(t, err, ErrUnsupportedMethod)
}

func TestMethodText(t *testing.T) {
	for _, spec := range Methods {
		text, err := spec.Method.MarshalText()
		require.NoError(t, err)
		var m Method
		require.NoError(t, m.UnmarshalText(text))
		assert.Equal(t, spec.Method, m)
		assert.Equal(t, spec.Name, spec.Method.String())
	}
	assert.Equal(t, "Method(9)", Method(9).String())
	_, err := MethodUnknown.MarshalText()
	assert.ErrorIs(t, err, ErrUnsupportedMethod)
}

func TestPlan(t *testing.T) {
	w, h, err := Plan(640, 480, 2, 1.5)
	require.NoError(t, err)
	assert.Equal(t, 1280, w)
	assert.Equal(t, 720, h)

	w, h, err = Plan(3, 3, 1.9, 0.34)
	require.NoError(t, err)
	assert.Equal(t, 5, w)
	assert.Equal(t, 1, h)

	bad := []struct{ sx, sy float64 }{
		{0, 1}, {1, -1}, {math.NaN(), 1}, {1, math.Inf(1)}, {0.1, 1},
	}
	for _, b := range bad {
		_, _, err := Plan(3, 3, b.sx, b.sy)
		assert.ErrorIs(t, err, ErrInvalidArgument, "scale %v x %v", b.sx, b.sy)
	}
	_, _, err = Plan(0, 3, 2, 2)
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestImageValidate(t *testing.T) {
	_, err := NewImage(0, 1, 1)
	assert.ErrorIs(t, err, ErrInvalidArgument)
	_, err = NewImage(1, 1, 0)
	assert.ErrorIs(t, err, ErrInvalidArgument)
	_, err = NewImage(math.MaxInt/2, 4, 3)
	assert.ErrorIs(t, err, ErrInvalidArgument)

	img, err := NewImage(3, 2, 3)
	require.NoError(t, err)
	require.NoError(t, img.Validate())
	img.Pix[img.Offset(2, 1)+1] = 9
	assert.Equal(t, uint8(9), img.At(2, 1, 1))

	clone := img.Clone()
	clone.Pix[0] = 1
	assert.Equal(t, uint8(0), img.Pix[0])

	img.Pix = img.Pix[:5]
	assert.ErrorIs(t, img.Validate(), ErrInvalidArgument)
}
