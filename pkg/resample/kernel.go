// Package resample resizes raw 8-bit rasters with windowed-sinc (Lanczos),
// cubic convolution (Catmull-Rom) and edge-directed interpolation.
//
// Every output pixel is computed independently of every other one, so all
// entry points hand their per-pixel work to an Executor; the default one
// forks goroutines over the output grid.
package resample

import "math"

// DefaultLanczosA is the lobe count used when none is given.
const DefaultLanczosA = 3

// Sinc is the normalised sinc, sin(pi*x)/(pi*x), with Sinc(0) = 1.
func Sinc(x float64) float64 {
	if x == 0 {
		return 1
	}
	x = math.Pi * x
	return math.Sin(x) / x
}

// LanczosKernel returns the Lanczos weight for distance x with a lobes.
// Support is the open interval (-a, a).
func LanczosKernel(x float64, a int) float64 {
	if x == 0 {
		return 1
	}
	fa := float64(a)
	if x > -fa && x < fa {
		return Sinc(x) * Sinc(x/fa)
	}
	return 0
}

// CubicKernel is the cubic convolution kernel with coefficient -0.5
// (Catmull-Rom). Support is (-2, 2).
func CubicKernel(x float64) float64 {
	x = math.Abs(x)
	if x <= 1 {
		return (1.5*x-2.5)*x*x + 1
	}
	if x < 2 {
		return ((-0.5*x+2.5)*x-4)*x + 2
	}
	return 0
}
