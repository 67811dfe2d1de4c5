package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/Fepozopo/upscale/pkg/codec"
	"github.com/Fepozopo/upscale/pkg/config"
	"github.com/Fepozopo/upscale/pkg/resample"
)

// Exit codes returned by Execute.
const (
	ExitOK      = 0
	ExitFailure = 1
	ExitUsage   = 2
)

// usageError marks errors caused by bad command lines.
type usageError struct{ err error }

func (e usageError) Error() string { return e.err.Error() }
func (e usageError) Unwrap() error { return e.err }

func usagef(format string, args ...any) error {
	return usageError{fmt.Errorf(format, args...)}
}

func usageArgs(check cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := check(cmd, args); err != nil {
			return usageError{err}
		}
		return nil
	}
}

// exitCode maps err to a process exit status.
func exitCode(err error) int {
	var u usageError
	switch {
	case err == nil:
		return ExitOK
	case errors.As(err, &u),
		errors.Is(err, config.ErrInvalidConfig),
		errors.Is(err, resample.ErrUnsupportedMethod),
		strings.HasPrefix(err.Error(), "unknown command"):
		return ExitUsage
	}
	return ExitFailure
}

// Execute runs the command line args and returns the exit status.
func Execute(ctx context.Context, args []string, in io.Reader, out, errOut io.Writer) int {
	app := newApp(in, out, errOut)
	root := NewRootCommand(app)
	root.SetArgs(args)
	root.SetIn(in)
	root.SetOut(out)
	root.SetErr(errOut)

	err := root.ExecuteContext(ctx)
	code := exitCode(err)
	if err != nil {
		fmt.Fprintf(errOut, "upscale: %v\n", err)
		if code == ExitUsage {
			fmt.Fprintln(errOut, "Run 'upscale --help' for usage.")
		}
	}
	return code
}

type rootFlags struct {
	envFiles     []string
	debug        bool
	logFormat    string
	backend      config.Backend
	workers      int
	deviceMemory int64
	deviceBlock  int
	codec        string
}

// NewRootCommand builds the command tree around app.
func NewRootCommand(app *App) *cobra.Command {
	var f rootFlags
	root := &cobra.Command{
		Use:   "upscale",
		Short: "Resample images with Lanczos, bicubic or edge-directed interpolation",
		Long: `upscale enlarges (or shrinks) raster images with separable Lanczos or
bicubic filters, or edge-directed interpolation, on a CPU worker pool or a
block-scheduled device backend.

Settings are read from UPSCALE_* environment variables and .env files;
flags override both.`,
		Version:       Version,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return app.setup(cmd.Flags(), f)
		},
	}
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return usageError{err}
	})

	pf := root.PersistentFlags()
	pf.StringSliceVar(&f.envFiles, "env-file", nil, "load settings from `file` (repeatable; default .env)")
	pf.BoolVar(&f.debug, "debug", false, "enable debug logging")
	pf.StringVar(&f.logFormat, "log-format", "", "log format: json or text")
	pf.Var((*backendValue)(&f.backend), "backend", "compute backend: cpu or gpu")
	pf.IntVar(&f.workers, "workers", 0, "CPU worker count (0 = GOMAXPROCS)")
	pf.Int64Var(&f.deviceMemory, "device-memory", 0, "device memory limit in `bytes` (0 = unlimited)")
	pf.IntVar(&f.deviceBlock, "device-block", 0, "device thread block edge length")
	pf.StringVar(&f.codec, "codec", "std", "image codec backend: "+strings.Join(codec.Backends(), ", "))

	root.AddCommand(
		newResizeCommand(app),
		newInteractiveCommand(app),
		newMethodsCommand(app),
		newVersionCommand(app),
		newUpdateCommand(app),
		newInfoCommand(app),
	)
	return root
}

// setup loads the configuration, applies explicitly set flags and builds
// the logger.
func (a *App) setup(flags *pflag.FlagSet, f rootFlags) error {
	cfg, err := config.Load(f.envFiles...)
	if err != nil {
		return err
	}
	if flags.Changed("debug") {
		cfg.Debug = f.debug
	}
	if flags.Changed("log-format") {
		cfg.LogFormat = f.logFormat
	}
	if flags.Changed("backend") {
		cfg.Backend = f.backend
	}
	if flags.Changed("workers") {
		cfg.Workers = f.workers
	}
	if flags.Changed("device-memory") {
		cfg.DeviceMemory = f.deviceMemory
	}
	if flags.Changed("device-block") {
		cfg.DeviceBlock = f.deviceBlock
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	backend, err := codec.Lookup(f.codec)
	if err != nil {
		return usageError{err}
	}

	a.cfg = cfg
	a.codec = backend
	a.log = NewLogger(a.errOut, cfg.Debug, cfg.LogFormat)
	a.logHost()
	return nil
}

// methodValue adapts resample.Method to pflag.Value.
type methodValue resample.Method

func (v *methodValue) String() string {
	m := resample.Method(*v)
	if m == resample.MethodUnknown {
		return ""
	}
	return m.String()
}

func (v *methodValue) Set(s string) error {
	m, err := resample.ParseMethod(s)
	if err != nil {
		return err
	}
	*v = methodValue(m)
	return nil
}

func (v *methodValue) Type() string { return "method" }

// backendValue adapts config.Backend to pflag.Value.
type backendValue config.Backend

func (v *backendValue) String() string { return string(*v) }

func (v *backendValue) Set(s string) error {
	b := config.Backend(strings.ToLower(strings.TrimSpace(s)))
	switch b {
	case config.BackendCPU, config.BackendGPU:
		*v = backendValue(b)
		return nil
	}
	return fmt.Errorf("unknown backend %q (want cpu or gpu)", s)
}

func (v *backendValue) Type() string { return "backend" }
