package cli

import (
	"github.com/spf13/cobra"

	"github.com/go-marc21/marc21toolkit/internal/config"
	"github.com/go-marc21/marc21toolkit/internal/driver"
	"github.com/go-marc21/marc21toolkit/internal/stream"
)

func newHashCommand(cf *commonFlags, defaults config.Defaults) *cobra.Command {
	var tsv bool
	cmd := &cobra.Command{
		Use:   "hash [path...]",
		Short: "Emit '<id> <hex sha256>' for every matching record",
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

			return driver.Hash(cmd.Context(), src, sink, tsv, optionsFrom(cf))
		},
	}
	addSharedFlags(cmd.Flags(), cf, defaults)
	addWhereFlags(cmd.Flags(), cf, defaults)
	cmd.Flags().BoolVar(&tsv, "tsv", false, "separate id and hash with a tab instead of a space")
	return cmd
}
