package cli

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/Fepozopo/upscale/pkg/resample"
)

func newMethodsCommand(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "methods",
		Short: "List the resampling methods",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, _ []string) error {
			tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "NAME\tALIASES\tSUPPORT\tDESCRIPTION")
			for _, s := range resample.Methods {
				support := fmt.Sprintf("%d", s.Support)
				if s.Support == 0 {
					support = "2a"
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", s.Name, strings.Join(s.Aliases, ","), support, s.Description)
			}
			return tw.Flush()
		},
	}
}
