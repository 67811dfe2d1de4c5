package engine

import (
	"context"
	"math/rand/v2"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Fepozopo/upscale/pkg/config"
	"github.com/Fepozopo/upscale/pkg/device"
	"github.com/Fepozopo/upscale/pkg/resample"
)

func randomImage(w, h, ch int, seed uint64) *resample.Image {
	r := rand.New(rand.NewPCG(seed, 2))
	img := &resample.Image{Pix: make([]uint8, w*h*ch), Width: w, Height: h, Channels: ch}
	for i := range img.Pix {
		img.Pix[i] = uint8(r.IntN(256))
	}
	return img
}

func TestBackendsAgreeOnLanczos(t *testing.T) {
	host := NewHost(3, false)
	defer host.Close()
	dev := NewDevice(device.New(device.Config{Block: device.Dim{X: 8, Y: 8}}))
	defer dev.Close()

	ctx := context.Background()
	for _, tc := range []struct{ w, h, ch, outW, outH, a int }{
		{2, 2, 1, 4, 4, 2},
		{12, 9, 3, 30, 20, 3},
		{20, 20, 3, 41, 41, 8},
		{31, 17, 1, 11, 40, 4},
	} {
		src := randomImage(tc.w, tc.h, tc.ch, uint64(tc.w*tc.h))
		want, err := host.Upscale(ctx, src, tc.outW, tc.outH, resample.Lanczos, tc.a)
		require.NoError(t, err)
		got, err := dev.Upscale(ctx, src, tc.outW, tc.outH, resample.Lanczos, tc.a)
		require.NoError(t, err)
		if diff := cmp.Diff(want, got); diff != "" {
			t.Fatalf("%+v: backends differ (-cpu +gpu):\n%s", tc, diff)
		}
	}
}

func TestDeviceRejectsOtherMethods(t *testing.T) {
	dev := NewDevice(device.New(device.Config{}))
	src := randomImage(4, 4, 3, 1)
	for _, m := range []resample.Method{resample.Bicubic, resample.EdgeDirected, resample.MethodUnknown} {
		_, err := dev.Upscale(context.Background(), src, 8, 8, m, 3)
		assert.ErrorIs(t, err, resample.ErrUnsupportedMethod, m.String())
	}
}

func TestSupports(t *testing.T) {
	names := func(specs []resample.MethodSpec) []string {
		out := make([]string, len(specs))
		for i, s := range specs {
			out[i] = s.Name
		}
		return out
	}
	assert.Equal(t, []string{"lanczos"}, names(Methods(config.BackendGPU)))
	assert.Len(t, Methods(config.BackendCPU), len(resample.Methods))

	assert.True(t, Supports(config.BackendCPU, resample.EdgeDirected))
	assert.False(t, Supports(config.BackendGPU, resample.Bicubic))
	assert.False(t, Supports(config.BackendCPU, resample.MethodUnknown))
	assert.ErrorIs(t, CheckMethod(config.BackendGPU, resample.EdgeDirected), resample.ErrUnsupportedMethod)
	assert.NoError(t, CheckMethod(config.BackendGPU, resample.Lanczos))
}

func TestHostRunsEveryMethod(t *testing.T) {
	host := NewHost(0, true)
	defer host.Close()
	src := randomImage(5, 4, 3, 7)
	for _, spec := range resample.Methods {
		out, err := host.Upscale(context.Background(), src, 10, 8, spec.Method, 3)
		require.NoError(t, err, spec.Name)
		assert.Equal(t, 10, out.Width, spec.Name)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := host.Upscale(ctx, src, 10, 8, resample.Lanczos, 3)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNew(t *testing.T) {
	cfg := config.Default()
	cfg.Workers = 2
	b, err := New(cfg)
	require.NoError(t, err)
	defer b.Close()
	require.IsType(t, &Host{}, b)
	assert.Equal(t, "cpu", b.Name())
	assert.Equal(t, 2, b.(*Host).Workers())

	cfg.Backend = config.BackendGPU
	cfg.DeviceMemory = 1 << 20
	cfg.DeviceBlock = 4
	b, err = New(cfg)
	require.NoError(t, err)
	require.IsType(t, &Device{}, b)
	props := b.(*Device).Properties()
	assert.Equal(t, int64(1<<20), props.TotalMemory)
	assert.Equal(t, device.Dim{X: 4, Y: 4}, props.Block)

	cfg.Backend = "tpu"
	_, err = New(cfg)
	assert.ErrorIs(t, err, config.ErrInvalidConfig)
}

func TestHostCapabilities(t *testing.T) {
	c := HostCapabilities()
	assert.Positive(t, c.GOMAXPROCS)
	assert.Positive(t, c.NumCPU)
	assert.NotEmpty(t, c.FeatureString())
}
