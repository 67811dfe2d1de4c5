package device

import (
	"context"
	"fmt"

	"github.com/Fepozopo/upscale/pkg/resample"
)

// DefaultLanczosA is the lobe count the device path uses when the caller
// does not choose one.
const DefaultLanczosA = 8

// LanczosResample resamples the interleaved 8-bit buffer src (inW x inH x
// channels) into dst (outW x outH x channels) on the device, one thread per
// output pixel. It allocates device memory, copies the input over, launches,
// waits, copies the result back and frees. Taps are computed once on the
// host and shared by every thread. dst is written only when every step
// succeeded.
func (d *Device) LanczosResample(ctx context.Context, src, dst []byte, inW, inH, outW, outH, channels, a int) error {
	if channels < 1 {
		return fmt.Errorf("%w: %d channels", resample.ErrInvalidArgument, channels)
	}
	plan, err := resample.NewLanczosPlan(inW, inH, outW, outH, a)
	if err != nil {
		return err
	}
	if len(src) != inW*inH*channels {
		return fmt.Errorf("%w: source holds %d bytes, want %d", resample.ErrInvalidArgument, len(src), inW*inH*channels)
	}
	if len(dst) != outW*outH*channels {
		return fmt.Errorf("%w: destination holds %d bytes, want %d", resample.ErrInvalidArgument, len(dst), outW*outH*channels)
	}

	in, err := d.Malloc(len(src))
	if err != nil {
		return err
	}
	defer d.Free(in)
	out, err := d.Malloc(len(dst))
	if err != nil {
		return err
	}
	defer d.Free(out)

	if err := d.CopyToDevice(in, src); err != nil {
		return err
	}

	inPix, outPix := in.Bytes(), out.Bytes()
	block := d.cfg.Block
	err = d.Launch(ctx, GridFor(outW, outH, block), block, func(t Thread) {
		x, y := t.X(), t.Y()
		if x >= outW || y >= outH {
			return
		}
		plan.Pixel(inPix, outPix, channels, x, y)
	})
	if err != nil {
		return err
	}
	return d.CopyToHost(dst, out)
}

// Upscale is the image-level form of LanczosResample.
func (d *Device) Upscale(ctx context.Context, img *resample.Image, outW, outH, a int) (*resample.Image, error) {
	if err := img.Validate(); err != nil {
		return nil, err
	}
	if outW < 1 || outH < 1 {
		return nil, fmt.Errorf("%w: output %dx%d", resample.ErrInvalidArgument, outW, outH)
	}
	dst, err := resample.NewImage(outW, outH, img.Channels)
	if err != nil {
		return nil, err
	}
	if err := d.LanczosResample(ctx, img.Pix, dst.Pix, img.Width, img.Height, outW, outH, img.Channels, a); err != nil {
		return nil, err
	}
	return dst, nil
}
