package cli

import (
	"github.com/spf13/cobra"

	"github.com/go-marc21/marc21toolkit/internal/config"
	"github.com/go-marc21/marc21toolkit/internal/driver"
	"github.com/go-marc21/marc21toolkit/internal/stream"
)

func newConcatCommand(cf *commonFlags, defaults config.Defaults) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "concat [path...]",
		Aliases: []string{"cat"},
		Short:   "Pass through every valid (optionally filtered) record's raw bytes",
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := stream.OpenMulti(args)
			if err != nil {
				return err
			}
			defer src.Close()
			sink, err := stream.Create(cf.output, cf.compression)
			if err != nil {
				return err
			}
			defer sink.Close()
			return driver.Concat(cmd.Context(), src, sink, optionsFrom(cf))
		},
	}
	addSharedFlags(cmd.Flags(), cf, defaults)
	addWhereFlags(cmd.Flags(), cf, defaults)
	return cmd
}

func optionsFrom(cf *commonFlags) driver.Options {
	return driver.Options{
		Where:           cf.where,
		StrsimThreshold: cf.strsimThreshold / 100.0,
		SkipInvalid:     cf.skipInvalid,
		Progress:        cf.progress,
	}
}
