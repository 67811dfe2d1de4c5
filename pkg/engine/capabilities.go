package engine

import (
	"runtime"
	"strings"

	"golang.org/x/sys/cpu"
)

// Capabilities describes the host the CPU backend runs on.
type Capabilities struct {
	GOOS       string
	GOARCH     string
	GOMAXPROCS int
	NumCPU     int
	Features   []string
}

// HostCapabilities reports the processor count and the SIMD extensions the
// Go compiler may use for the convolution loops.
func HostCapabilities() Capabilities {
	c := Capabilities{
		GOOS:       runtime.GOOS,
		GOARCH:     runtime.GOARCH,
		GOMAXPROCS: runtime.GOMAXPROCS(0),
		NumCPU:     runtime.NumCPU(),
	}
	add := func(ok bool, name string) {
		if ok {
			c.Features = append(c.Features, name)
		}
	}
	switch runtime.GOARCH {
	case "amd64", "386":
		add(cpu.X86.HasSSE41, "sse4.1")
		add(cpu.X86.HasAVX, "avx")
		add(cpu.X86.HasAVX2, "avx2")
		add(cpu.X86.HasFMA, "fma")
		add(cpu.X86.HasAVX512F, "avx512f")
	case "arm64":
		add(cpu.ARM64.HasASIMD, "asimd")
		add(cpu.ARM64.HasFPHP, "fphp")
		add(cpu.ARM64.HasSVE, "sve")
	}
	return c
}

// FeatureString joins Features, or "none".
func (c Capabilities) FeatureString() string {
	if len(c.Features) == 0 {
		return "none"
	}
	return strings.Join(c.Features, ",")
}
