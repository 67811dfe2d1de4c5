package resample

import "math"

// UpscaleEDI enlarges img by a uniform scale factor using edge-directed
// interpolation. Output dimensions are floor(in*scale) on both axes.
func UpscaleEDI(img *Image, scale float64, opts ...Option) (*Image, error) {
	if err := img.Validate(); err != nil {
		return nil, err
	}
	outW, outH, err := Plan(img.Width, img.Height, scale, scale)
	if err != nil {
		return nil, err
	}
	return ediTo(img, outW, outH, scale, collectOptions(opts))
}

// ediTo samples img at x/scale, y/scale for every pixel of an outW x outH
// output. The size is taken as given so callers that fixed it beforehand
// are not subject to the rounding of floor(in*scale).
func ediTo(img *Image, outW, outH int, scale float64, o options) (*Image, error) {
	if err := o.checkLinear(img.Channels); err != nil {
		return nil, err
	}
	var (
		in  *FloatImage
		err error
	)
	if o.linear {
		if in, err = ToLinear(img); err != nil {
			return nil, err
		}
	} else {
		in = newFloatImage(img.Width, img.Height, img.Channels)
		if err := o.exec.Launch(len(img.Pix), 1, func(i, _ int) {
			in.Pix[i] = float64(img.Pix[i]) / 255
		}); err != nil {
			return nil, err
		}
	}

	res := newFloatImage(outW, outH, img.Channels)
	if err := o.exec.Launch(outW, outH, func(x, y int) {
		ediPixel(in, res, scale, x, y)
	}); err != nil {
		return nil, err
	}

	if o.linear {
		return ToSRGB(res)
	}
	dst := &Image{
		Pix:      make([]uint8, len(res.Pix)),
		Width:    outW,
		Height:   outH,
		Channels: img.Channels,
	}
	if err := o.exec.Launch(len(res.Pix), 1, func(i, _ int) {
		dst.Pix[i] = toUint8(res.Pix[i] * 255)
	}); err != nil {
		return nil, err
	}
	return dst, nil
}

func ediPixel(in, out *FloatImage, scale float64, x, y int) {
	sx := float64(x) / scale
	sy := float64(y) / scale
	x0 := clampInt(int(math.Floor(sx)), 0, in.Width-1)
	y0 := clampInt(int(math.Floor(sy)), 0, in.Height-1)
	x1 := min(x0+1, in.Width-1)
	y1 := min(y0+1, in.Height-1)
	fx := sx - float64(x0)
	fy := sy - float64(y0)

	ch := in.Channels
	row0, row1 := y0*in.Width, y1*in.Width
	base := (y*out.Width + x) * ch
	for c := 0; c < ch; c++ {
		v, _ := ediBlend(
			in.Pix[(row0+x0)*ch+c], in.Pix[(row0+x1)*ch+c],
			in.Pix[(row1+x0)*ch+c], in.Pix[(row1+x1)*ch+c],
			fx, fy,
		)
		out.Pix[base+c] = toUnit(v)
	}
}

// ediBlend interpolates the 2x2 block
//
//	a b
//	c d
//
// at fractional offset (fx, fy). When the horizontal contrast gx exceeds the
// vertical contrast gy the block is blended along y first, otherwise along x
// first; yFirst reports which. Ties go along x.
func ediBlend(a, b, c, d, fx, fy float64) (v float64, yFirst bool) {
	gx := math.Abs(a-b) + math.Abs(c-d)
	gy := math.Abs(a-c) + math.Abs(b-d)
	if gx > gy {
		left := a*(1-fy) + c*fy
		right := b*(1-fy) + d*fy
		return left*(1-fx) + right*fx, true
	}
	top := a*(1-fx) + b*fx
	bottom := c*(1-fx) + d*fx
	return top*(1-fy) + bottom*fy, false
}
