package cli

import (
	"github.com/spf13/cobra"

	"github.com/go-marc21/marc21toolkit/internal/config"
	"github.com/go-marc21/marc21toolkit/internal/driver"
	"github.com/go-marc21/marc21toolkit/internal/stream"
)

func newFilterCommand(cf *commonFlags, defaults config.Defaults) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "filter EXPR [path...]",
		Short: "Emit the raw bytes of every record matching EXPR",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			expr := args[0]
			src, err := stream.OpenMulti(args[1:])
			if err != nil {
				return err
			}
			defer src.Close()
			sink, err := stream.Create(cf.output, cf.compression)
			if err != nil {
				return err
			}
			defer sink.Close()

			return driver.Filter(cmd.Context(), src, sink, expr, cf.strsimThreshold/100.0, cf.skipInvalid, cf.progress)
		},
	}
	addSharedFlags(cmd.Flags(), cf, defaults)
	cmd.Flags().Float64Var(&cf.strsimThreshold, "strsim-threshold", defaults.StrsimThreshold*100, "default similarity threshold for =*/!* (0-100, percent)")
	return cmd
}
