package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Fepozopo/upscale/pkg/codec"
	"github.com/Fepozopo/upscale/pkg/resample"
)

func newInfoCommand(a *App) *cobra.Command {
	var scale float64
	cmd := &cobra.Command{
		Use:   "info <image>...",
		Short: "Print format, size and channel count of images",
		Args:  usageArgs(cobra.MinimumNArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, path := range args {
				line, err := a.describe(path, scale)
				if err != nil {
					return err
				}
				fmt.Fprintln(a.out, line)
			}
			return nil
		},
	}
	cmd.Flags().Float64VarP(&scale, "scale", "s", 0, "also show the output size for this scale")
	return cmd
}

// describe summarises one image, and its planned output size when scale
// is set.
func (a *App) describe(path string, scale float64) (string, error) {
	format, err := codec.FormatFromPath(path)
	if err != nil {
		return "", err
	}
	img, err := a.codec.Decode(path)
	if err != nil {
		return "", err
	}
	line := fmt.Sprintf("%s: %s, Width: %d, Height: %d, Channels: %d",
		path, format, img.Width, img.Height, img.Channels)
	if scale > 0 {
		w, h, err := resample.Plan(img.Width, img.Height, scale, scale)
		if err != nil {
			return "", err
		}
		line += fmt.Sprintf(" -> %dx%d", w, h)
	}
	return line, nil
}
