package device

import (
	"context"
	"errors"
	"math/rand/v2"
	"sync/atomic"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Fepozopo/upscale/pkg/resample"
)

func randomBytes(n int, seed uint64) []byte {
	r := rand.New(rand.NewPCG(seed, 1))
	b := make([]byte, n)
	for i := range b {
		b[i] = byte(r.IntN(256))
	}
	return b
}

func TestMallocRespectsMemoryLimit(t *testing.T) {
	d := New(Config{Memory: 100})
	a, err := d.Malloc(60)
	require.NoError(t, err)

	_, err = d.Malloc(41)
	require.ErrorIs(t, err, ErrDeviceAlloc)
	require.ErrorIs(t, err, ErrDeviceFailure)

	b, err := d.Malloc(40)
	require.NoError(t, err)
	assert.Equal(t, int64(100), d.Properties().UsedMemory)

	require.NoError(t, d.Free(a))
	require.NoError(t, d.Free(b))
	assert.Equal(t, int64(0), d.Properties().UsedMemory)

	assert.ErrorIs(t, d.Free(a), ErrInvalidValue, "double free")
	_, err = d.Malloc(-1)
	assert.ErrorIs(t, err, ErrInvalidValue)
}

func TestCopies(t *testing.T) {
	d := New(Config{})
	buf, err := d.Malloc(4)
	require.NoError(t, err)
	defer d.Free(buf)

	require.NoError(t, d.CopyToDevice(buf, []byte{1, 2, 3, 4}))
	host := make([]byte, 4)
	require.NoError(t, d.CopyToHost(host, buf))
	assert.Equal(t, []byte{1, 2, 3, 4}, host)

	assert.ErrorIs(t, d.CopyToDevice(buf, []byte{1}), ErrInvalidValue)
	assert.ErrorIs(t, d.CopyToHost(make([]byte, 5), buf), ErrInvalidValue)

	other := New(Config{})
	assert.ErrorIs(t, other.CopyToHost(host, buf), ErrInvalidValue)
	assert.ErrorIs(t, d.CopyToDevice(nil, nil), ErrInvalidValue)
}

func TestLaunchCoversGrid(t *testing.T) {
	d := New(Config{Multiprocessors: 3})
	const w, h = 37, 21
	block := Dim{X: 8, Y: 4}
	grid := GridFor(w, h, block)
	assert.Equal(t, Dim{X: 5, Y: 6}, grid)

	hits := make([]atomic.Int32, w*h)
	var outside atomic.Int32
	err := d.Launch(context.Background(), grid, block, func(th Thread) {
		x, y := th.X(), th.Y()
		if x >= w || y >= h {
			outside.Add(1)
			return
		}
		hits[y*w+x].Add(1)
	})
	require.NoError(t, err)
	for i := range hits {
		require.Equal(t, int32(1), hits[i].Load(), "cell %d", i)
	}
	assert.Equal(t, int32(5*8*6*4-w*h), outside.Load())
}

func TestLaunchRejectsBadConfiguration(t *testing.T) {
	d := New(Config{})
	noop := func(Thread) {}
	cases := []struct {
		grid, block Dim
		kernel      Kernel
	}{
		{Dim{0, 1}, Dim{1, 1}, noop},
		{Dim{1, 1}, Dim{1, -1}, noop},
		{Dim{1, 1}, Dim{64, 32}, noop},
		{Dim{1, 1}, Dim{1, 1}, nil},
	}
	for _, c := range cases {
		err := d.Launch(context.Background(), c.grid, c.block, c.kernel)
		assert.ErrorIs(t, err, ErrLaunch, "grid %v block %v", c.grid, c.block)
	}
}

func TestLaunchRecoversPanics(t *testing.T) {
	d := New(Config{Multiprocessors: 2})
	err := d.Launch(context.Background(), Dim{4, 4}, Dim{2, 2}, func(th Thread) {
		if th.X() == 5 && th.Y() == 3 {
			panic("boom")
		}
	})
	require.ErrorIs(t, err, ErrLaunch)
	require.ErrorIs(t, err, ErrDeviceFailure)
	assert.Contains(t, err.Error(), "boom")
}

func TestLaunchHonoursCancellation(t *testing.T) {
	d := New(Config{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	var ran atomic.Int32
	err := d.Launch(ctx, Dim{8, 8}, Dim{1, 1}, func(Thread) { ran.Add(1) })
	require.ErrorIs(t, err, ErrLaunch)
	assert.True(t, errors.Is(err, context.Canceled))
	assert.Zero(t, ran.Load())
}

func TestLanczosResampleMatchesHost(t *testing.T) {
	shapes := []struct{ inW, inH, outW, outH, ch, a int }{
		{2, 2, 4, 4, 1, 2},
		{9, 7, 20, 15, 3, 3},
		{16, 12, 33, 9, 3, 8},
		{5, 5, 5, 5, 1, 3},
		{40, 30, 13, 11, 3, 3},
	}
	for _, block := range []Dim{{16, 16}, {3, 5}, {1, 1}} {
		d := New(Config{Block: block})
		for _, s := range shapes {
			src := randomBytes(s.inW*s.inH*s.ch, uint64(s.inW*100+s.outW))
			img := &resample.Image{Pix: src, Width: s.inW, Height: s.inH, Channels: s.ch}
			want, err := resample.UpscaleLanczos(img, s.outW, s.outH, s.a)
			require.NoError(t, err)

			got := make([]byte, s.outW*s.outH*s.ch)
			require.NoError(t, d.LanczosResample(context.Background(), src, got, s.inW, s.inH, s.outW, s.outH, s.ch, s.a))
			if diff := cmp.Diff(want.Pix, got); diff != "" {
				t.Fatalf("block %v shape %+v: device differs from host (-host +device):\n%s", block, s, diff)
			}
		}
		assert.Equal(t, int64(0), d.Properties().UsedMemory, "device memory leaked")
	}
}

func TestLanczosResampleArguments(t *testing.T) {
	d := New(Config{})
	src := make([]byte, 4*4)
	ctx := context.Background()

	assert.ErrorIs(t, d.LanczosResample(ctx, src, make([]byte, 63), 4, 4, 8, 8, 1, 3), resample.ErrInvalidArgument)
	assert.ErrorIs(t, d.LanczosResample(ctx, src[:3], make([]byte, 64), 4, 4, 8, 8, 1, 3), resample.ErrInvalidArgument)
	assert.ErrorIs(t, d.LanczosResample(ctx, src, make([]byte, 64), 4, 4, 8, 8, 1, 0), resample.ErrInvalidArgument)
	assert.ErrorIs(t, d.LanczosResample(ctx, src, nil, 4, 4, 0, 8, 1, 3), resample.ErrInvalidArgument)
}

func TestLanczosResampleOutOfMemory(t *testing.T) {
	d := New(Config{Memory: 100})
	src := randomBytes(8*8, 3)
	dst := make([]byte, 16*16)
	for i := range dst {
		dst[i] = 7
	}
	err := d.LanczosResample(context.Background(), src, dst, 8, 8, 16, 16, 1, 3)
	require.ErrorIs(t, err, ErrDeviceAlloc)
	for _, v := range dst {
		require.Equal(t, byte(7), v, "destination touched after failure")
	}
	assert.Equal(t, int64(0), d.Properties().UsedMemory)
}

func TestUpscaleImage(t *testing.T) {
	d := New(Config{})
	img := &resample.Image{Pix: randomBytes(6*4*3, 9), Width: 6, Height: 4, Channels: 3}
	out, err := d.Upscale(context.Background(), img, 12, 8, DefaultLanczosA)
	require.NoError(t, err)
	assert.Equal(t, 12, out.Width)
	assert.Equal(t, 8, out.Height)
	require.NoError(t, out.Validate())

	_, err = d.Upscale(context.Background(), nil, 12, 8, 3)
	assert.ErrorIs(t, err, resample.ErrInvalidArgument)
}

func BenchmarkLanczosResample(b *testing.B) {
	d := New(Config{})
	src := randomBytes(256*256*3, 1)
	dst := make([]byte, 512*512*3)
	for b.Loop() {
		if err := d.LanczosResample(context.Background(), src, dst, 256, 256, 512, 512, 3, 3); err != nil {
			b.Fatal(err)
		}
	}
}
