package cli

import (
	"strconv"

	"github.com/spf13/cobra"

	"github.com/go-marc21/marc21toolkit/internal/config"
	"github.com/go-marc21/marc21toolkit/internal/driver"
	"github.com/go-marc21/marc21toolkit/internal/stream"
)

func newSampleCommand(cf *commonFlags, defaults config.Defaults) *cobra.Command {
	var seedStr string
	cmd := &cobra.Command{
		Use:   "sample SIZE [path...]",
		Short: "Reservoir-sample SIZE records out of the (filtered) stream",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			k, err := strconv.Atoi(args[0])
			if err != nil {
				return &driver.UsageError{Msg: "sample size must be an integer: " + err.Error()}
			}

			var seed *int64
			if seedStr != "" {
				s, err := strconv.ParseInt(seedStr, 10, 64)
				if err != nil {
					return &driver.UsageError{Msg: "--seed must be an integer: " + err.Error()}
				}
				seed = &s
			}

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

			return driver.Sample(cmd.Context(), src, sink, k, seed, optionsFrom(cf))
		},
	}
	addSharedFlags(cmd.Flags(), cf, defaults)
	addWhereFlags(cmd.Flags(), cf, defaults)
	cmd.Flags().StringVar(&seedStr, "seed", "", "deterministic random seed")
	return cmd
}
