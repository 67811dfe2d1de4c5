package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/Fepozopo/upscale/pkg/resample"
)

// methodFlags are the resampling settings shared by resize and interactive.
type methodFlags struct {
	method   resample.Method
	lanczosA int
	linear   bool
	quality  int
	lossless bool
}

func (m *methodFlags) register(fs *pflag.FlagSet) {
	fs.VarP((*methodValue)(&m.method), "method", "m", "resampling method: bicubic, lanczos or edi")
	fs.IntVar(&m.lanczosA, "a", 0, "Lanczos lobes (0 = backend default)")
	fs.BoolVar(&m.linear, "linear", false, "resample in linear light (3-channel images, cpu backend)")
	fs.IntVarP(&m.quality, "quality", "q", 0, "JPEG/WebP quality 1..100")
	fs.BoolVar(&m.lossless, "lossless", false, "write lossless WebP")
}

// apply copies the flags the user set onto a's configuration.
func (m *methodFlags) apply(a *App, fs *pflag.FlagSet) error {
	cfg := a.cfg
	if fs.Changed("method") {
		cfg.Method = m.method
	}
	if fs.Changed("a") {
		cfg.LanczosA = m.lanczosA
	}
	if fs.Changed("linear") {
		cfg.Linear = m.linear
	}
	if fs.Changed("quality") {
		cfg.JPEGQuality = m.quality
	}
	if fs.Changed("lossless") {
		cfg.Lossless = m.lossless
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	a.cfg = cfg
	return nil
}

func newResizeCommand(a *App) *cobra.Command {
	var (
		mf             methodFlags
		scale, sx, sy  float64
		force, preview bool
	)
	cmd := &cobra.Command{
		Use:   "resize <input> <output>",
		Short: "Resample one image",
		Example: `  upscale resize photo.jpg photo_2x.jpg --scale 2
  upscale resize in.png out.webp --scale-x 1.5 --scale-y 2 --method bicubic --lossless
  upscale --backend gpu resize in.jpg out.jpg --scale 4 --a 8`,
		Args: usageArgs(cobra.ExactArgs(2)),
		RunE: func(cmd *cobra.Command, args []string) error {
			fs := cmd.Flags()
			if err := mf.apply(a, fs); err != nil {
				return err
			}
			switch {
			case fs.Changed("scale") && (fs.Changed("scale-x") || fs.Changed("scale-y")):
				return usagef("--scale cannot be combined with --scale-x/--scale-y")
			case fs.Changed("scale"):
				sx, sy = scale, scale
			case fs.Changed("scale-x") && fs.Changed("scale-y"):
			case a.cfg.Method == resample.EdgeDirected && fs.Changed("scale-x"):
				sy = sx
			default:
				return usagef("need --scale or both --scale-x and --scale-y")
			}

			job := Job{Input: args[0], Output: args[1], ScaleX: sx, ScaleY: sy, Force: force}
			res, err := a.Run(cmd.Context(), job)
			if err != nil {
				return err
			}
			a.report(job, res)
			if preview {
				a.preview(job.Output)
			}
			return nil
		},
	}
	fs := cmd.Flags()
	mf.register(fs)
	fs.Float64VarP(&scale, "scale", "s", 0, "scale factor for both axes")
	fs.Float64Var(&sx, "scale-x", 0, "horizontal scale factor")
	fs.Float64Var(&sy, "scale-y", 0, "vertical scale factor")
	fs.BoolVarP(&force, "force", "f", false, "overwrite an existing output file")
	fs.BoolVar(&preview, "preview", false, "show the result in the terminal when supported")
	return cmd
}

func (a *App) report(job Job, res Result) {
	fmt.Fprintf(a.out, "Saved %s (%dx%d -> %dx%d, %s, %s backend) in %s\n",
		job.Output, res.InWidth, res.InHeight, res.OutWidth, res.OutHeight,
		a.cfg.Method, a.cfg.Backend, res.Elapsed.Round(time.Millisecond))
}

// preview shows path in the terminal. Failures are only logged.
func (a *App) preview(path string) {
	if !PreviewSupported() {
		a.log.Debug("Terminal preview not supported")
		return
	}
	img, err := a.codec.Decode(path)
	if err == nil {
		p := &Previewer{Out: a.out, Log: a.log}
		err = p.Show(img)
	}
	if err != nil {
		a.log.WithError(err).Warn("Preview failed")
	}
}
