package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Fepozopo/upscale/pkg/codec"
	"github.com/Fepozopo/upscale/pkg/engine"
)

func newVersionCommand(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version and host information",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, _ []string) error {
			c := engine.HostCapabilities()
			fmt.Fprintf(a.out, "upscale %s\n", Version)
			fmt.Fprintf(a.out, "platform: %s/%s, %d CPUs, GOMAXPROCS %d\n", c.GOOS, c.GOARCH, c.NumCPU, c.GOMAXPROCS)
			fmt.Fprintf(a.out, "cpu features: %s\n", c.FeatureString())
			fmt.Fprintf(a.out, "codecs: %s\n", strings.Join(codec.Backends(), ", "))
			return nil
		},
	}
}

func newUpdateCommand(a *App) *cobra.Command {
	var check bool
	cmd := &cobra.Command{
		Use:   "update",
		Short: "Check GitHub for a newer release and install it",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.checkForUpdates(newUpdater(), !check)
		},
	}
	cmd.Flags().BoolVar(&check, "check", false, "only report whether an update is available")
	return cmd
}
