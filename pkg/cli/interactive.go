package cli

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/Fepozopo/upscale/pkg/codec"
	"github.com/Fepozopo/upscale/pkg/engine"
	"github.com/Fepozopo/upscale/pkg/files"
	"github.com/Fepozopo/upscale/pkg/resample"
)

func newInteractiveCommand(a *App) *cobra.Command {
	var (
		mf  methodFlags
		all bool
	)
	cmd := &cobra.Command{
		Use:     "interactive [dir]",
		Aliases: []string{"i"},
		Short:   "Pick an image, method and scale from prompts",
		Long: `interactive lists the JPEG images in dir (default: the current directory),
asks which one to resample, the output name, the method and the scale,
then writes the result. fzf is used for selection when it is installed.`,
		Args: usageArgs(cobra.MaximumNArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := mf.apply(a, cmd.Flags()); err != nil {
				return err
			}
			dir := "."
			if len(args) == 1 {
				dir = args[0]
			}
			var exts []string
			if all {
				exts = codec.Extensions()
			}
			job, err := a.interview(dir, exts)
			if err != nil {
				return err
			}
			res, err := a.Run(cmd.Context(), job)
			if err != nil {
				return err
			}
			a.report(job, res)
			if PreviewSupported() {
				if ok, _ := a.prompt.Confirm("Preview result?", false); ok {
					a.preview(job.Output)
				}
			}
			return nil
		},
	}
	mf.register(cmd.Flags())
	cmd.Flags().BoolVar(&all, "all", false, "list every supported image format, not only JPEG")
	return cmd
}

// interview asks for the input image, the output path, the method and the
// scale, and stores the method in a.cfg.
func (a *App) interview(dir string, exts []string) (Job, error) {
	var job Job
	names, err := files.ListImages(dir, exts...)
	if err != nil {
		return job, err
	}
	if len(names) == 0 {
		return job, fmt.Errorf("no images found in %s", dir)
	}

	name, err := a.pickImage(dir, names)
	if err != nil {
		return job, err
	}
	job.Input = filepath.Join(dir, name)

	if job.Output, err = a.askOutput(dir, job.Input); err != nil {
		return job, err
	}
	// askOutput already confirmed any overwrite.
	job.Force = true

	if a.cfg.Method, err = a.pickMethod(); err != nil {
		return job, err
	}

	if a.cfg.Method == resample.EdgeDirected {
		fmt.Fprintln(a.out, "Edge-directed interpolation uses one scale for both axes.")
		job.ScaleX, err = a.prompt.Float("Scale factor: ")
		job.ScaleY = job.ScaleX
		return job, err
	}
	same, err := a.prompt.Confirm("Same scale for both axes?", true)
	if err != nil {
		return job, err
	}
	if same {
		job.ScaleX, err = a.prompt.Float("Scale factor: ")
		job.ScaleY = job.ScaleX
		return job, err
	}
	if job.ScaleX, err = a.prompt.Float("Scale X: "); err != nil {
		return job, err
	}
	job.ScaleY, err = a.prompt.Float("Scale Y: ")
	return job, err
}

func (a *App) pickImage(dir string, names []string) (string, error) {
	sel, err := selectWithFzf(names, "Image", dir, true)
	if err == nil {
		return sel, nil
	}
	if !errors.Is(err, errNoFzf) {
		a.log.WithError(err).Debug("fzf selection failed, using the numbered list")
	}
	fmt.Fprintf(a.out, "Images in %s:\n", dir)
	i, err := a.prompt.Choose("Select an image", names, -1)
	if err != nil {
		return "", err
	}
	return names[i], nil
}

// askOutput prompts until it gets a path that is new or may be overwritten.
// Relative answers are resolved against dir.
func (a *App) askOutput(dir, input string) (string, error) {
	def := files.OutputName(input, "upscaled", "")
	for {
		out, err := a.prompt.LineDefault("Output file", def)
		if err != nil {
			return "", err
		}
		if out != def && !filepath.IsAbs(out) {
			out = filepath.Join(dir, out)
		}
		if _, err := codec.FormatFromPath(out); err != nil {
			fmt.Fprintln(a.out, err)
			continue
		}
		exists, err := files.Exists(out)
		if err != nil {
			return "", err
		}
		if !exists {
			return out, nil
		}
		ok, err := a.prompt.Confirm(fmt.Sprintf("%s exists. Overwrite?", out), false)
		if err != nil {
			return "", err
		}
		if ok {
			return out, nil
		}
	}
}

// pickMethod offers the methods the configured backend can run.
func (a *App) pickMethod() (resample.Method, error) {
	specs := engine.Methods(a.cfg.Backend)
	if len(specs) == 1 {
		fmt.Fprintf(a.out, "Method: %s (the only method on the %s backend)\n", specs[0].Name, a.cfg.Backend)
		return specs[0].Method, nil
	}

	lines := lo.Map(specs, func(s resample.MethodSpec, _ int) string {
		return fmt.Sprintf("%s: %s", s.Name, s.Description)
	})
	if sel, err := selectWithFzf(lines, "Method", ".", false); err == nil {
		name, _, _ := strings.Cut(sel, ":")
		return resample.ParseMethod(name)
	}

	names := lo.Map(specs, func(s resample.MethodSpec, _ int) string { return s.Name })
	def := lo.IndexOf(names, a.cfg.Method.String())
	fmt.Fprintln(a.out, "Methods:")
	i, err := a.prompt.Choose("Method", names, def)
	if err != nil {
		return resample.MethodUnknown, err
	}
	return specs[i].Method, nil
}
