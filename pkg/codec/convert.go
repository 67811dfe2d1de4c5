package codec

import (
	"fmt"
	"image"
	"image/color"

	"github.com/Fepozopo/upscale/pkg/resample"
)

// FromImage converts any image.Image to a raw buffer: grayscale images
// become 1 channel, everything else 3 channel RGB with alpha dropped.
func FromImage(src image.Image) *resample.Image {
	if src == nil {
		return nil
	}
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()

	switch m := src.(type) {
	case *image.Gray:
		out := &resample.Image{Pix: make([]uint8, w*h), Width: w, Height: h, Channels: 1}
		for y := 0; y < h; y++ {
			i := m.PixOffset(b.Min.X, b.Min.Y+y)
			copy(out.Pix[y*w:(y+1)*w], m.Pix[i:i+w])
		}
		return out
	case *image.NRGBA:
		out := &resample.Image{Pix: make([]uint8, w*h*3), Width: w, Height: h, Channels: 3}
		idx := 0
		for y := 0; y < h; y++ {
			i := m.PixOffset(b.Min.X, b.Min.Y+y)
			for x := 0; x < w; x++ {
				out.Pix[idx+0] = m.Pix[i+0]
				out.Pix[idx+1] = m.Pix[i+1]
				out.Pix[idx+2] = m.Pix[i+2]
				idx += 3
				i += 4
			}
		}
		return out
	}

	if isGray(src.ColorModel()) {
		out := &resample.Image{Pix: make([]uint8, w*h), Width: w, Height: h, Channels: 1}
		idx := 0
		for y := b.Min.Y; y < b.Max.Y; y++ {
			for x := b.Min.X; x < b.Max.X; x++ {
				out.Pix[idx] = color.GrayModel.Convert(src.At(x, y)).(color.Gray).Y
				idx++
			}
		}
		return out
	}

	out := &resample.Image{Pix: make([]uint8, w*h*3), Width: w, Height: h, Channels: 3}
	idx := 0
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := color.NRGBAModel.Convert(src.At(x, y)).(color.NRGBA)
			out.Pix[idx+0] = c.R
			out.Pix[idx+1] = c.G
			out.Pix[idx+2] = c.B
			idx += 3
		}
	}
	return out
}

func isGray(m color.Model) bool {
	return m == color.GrayModel || m == color.Gray16Model
}

// ToImage wraps a 1, 3 or 4 channel buffer as an image.Image for encoding.
func ToImage(m *resample.Image) (image.Image, error) {
	if err := m.Validate(); err != nil {
		return nil, err
	}
	r := image.Rect(0, 0, m.Width, m.Height)
	switch m.Channels {
	case 1:
		g := image.NewGray(r)
		copy(g.Pix, m.Pix)
		return g, nil
	case 3:
		n := image.NewNRGBA(r)
		for i, j := 0, 0; i < len(m.Pix); i, j = i+3, j+4 {
			n.Pix[j+0] = m.Pix[i+0]
			n.Pix[j+1] = m.Pix[i+1]
			n.Pix[j+2] = m.Pix[i+2]
			n.Pix[j+3] = 0xff
		}
		return n, nil
	case 4:
		n := image.NewNRGBA(r)
		copy(n.Pix, m.Pix)
		return n, nil
	}
	return nil, fmt.Errorf("%w: cannot encode %d channels", resample.ErrInvalidArgument, m.Channels)
}
