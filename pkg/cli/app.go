package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/Fepozopo/upscale/pkg/codec"
	"github.com/Fepozopo/upscale/pkg/config"
	"github.com/Fepozopo/upscale/pkg/engine"
	"github.com/Fepozopo/upscale/pkg/files"
	"github.com/Fepozopo/upscale/pkg/resample"
)

// Version is the release version, set at build time with
// -ldflags "-X github.com/Fepozopo/upscale/pkg/cli.Version=1.2.3".
var Version = "0.0.0-dev"

// ErrOutputExists is returned when the output file exists and overwriting
// was not allowed.
var ErrOutputExists = errors.New("output file already exists")

// App carries the state shared by all commands.
type App struct {
	cfg    config.Config
	log    *logrus.Logger
	codec  codec.Backend
	prompt *Prompter
	out    io.Writer
	errOut io.Writer
}

func newApp(in io.Reader, out, errOut io.Writer) *App {
	return &App{
		cfg:    config.Default(),
		log:    NewLogger(errOut, false, "json"),
		codec:  codec.Std,
		prompt: NewPrompter(bufio.NewReader(in), out),
		out:    out,
		errOut: errOut,
	}
}

// Job is one resize request.
type Job struct {
	Input  string
	Output string
	ScaleX float64
	ScaleY float64
	// Force allows overwriting Output.
	Force bool
}

// Result summarises a finished job.
type Result struct {
	InWidth, InHeight   int
	OutWidth, OutHeight int
	Channels            int
	Elapsed             time.Duration
}

// Run decodes job.Input, resamples it with the configured method and
// backend, and encodes the result to job.Output.
func (a *App) Run(ctx context.Context, job Job) (Result, error) {
	var res Result
	if err := engine.CheckMethod(a.cfg.Backend, a.cfg.Method); err != nil {
		return res, err
	}
	if !job.Force {
		exists, err := files.Exists(job.Output)
		if err != nil {
			return res, err
		}
		if exists {
			return res, fmt.Errorf("%w: %s (use --force to overwrite)", ErrOutputExists, job.Output)
		}
	}

	img, err := a.codec.Decode(job.Input)
	if err != nil {
		return res, err
	}
	res.InWidth, res.InHeight, res.Channels = img.Width, img.Height, img.Channels

	outW, outH, err := resample.Plan(img.Width, img.Height, job.ScaleX, job.ScaleY)
	if err != nil {
		return res, err
	}
	if a.cfg.Method == resample.EdgeDirected && job.ScaleX != job.ScaleY {
		a.log.WithFields(logrus.Fields{
			"scale_x": job.ScaleX,
			"scale_y": job.ScaleY,
		}).Warn("edge-directed interpolation applies the x scale to both axes")
	}

	backend, err := engine.New(a.cfg)
	if err != nil {
		return res, err
	}
	defer backend.Close()

	lanczosA := a.cfg.EffectiveLanczosA()
	fields := logrus.Fields{
		"input":    job.Input,
		"width":    img.Width,
		"height":   img.Height,
		"channels": img.Channels,
		"method":   a.cfg.Method.String(),
		"backend":  backend.Name(),
	}
	if a.cfg.Method == resample.Lanczos {
		fields["a"] = lanczosA
	}
	a.log.WithFields(fields).Info("Resampling")

	start := time.Now()
	out, err := backend.Upscale(ctx, img, outW, outH, a.cfg.Method, lanczosA)
	if err != nil {
		return res, err
	}
	res.Elapsed = time.Since(start)
	res.OutWidth, res.OutHeight = out.Width, out.Height

	opts := codec.Options{Quality: a.cfg.JPEGQuality, Lossless: a.cfg.Lossless}
	if err := a.codec.Encode(job.Output, out, opts); err != nil {
		return res, err
	}

	a.log.WithFields(logrus.Fields{
		"output":  job.Output,
		"width":   out.Width,
		"height":  out.Height,
		"elapsed": res.Elapsed.String(),
	}).Info("Saved")
	return res, nil
}

func (a *App) logHost() {
	if a.cfg.Backend != config.BackendCPU {
		return
	}
	c := engine.HostCapabilities()
	a.log.WithFields(logrus.Fields{
		"goos":       c.GOOS,
		"goarch":     c.GOARCH,
		"gomaxprocs": c.GOMAXPROCS,
		"cpus":       c.NumCPU,
		"features":   c.FeatureString(),
	}).Debug("Host backend")
}
