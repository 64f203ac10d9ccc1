package cli

import (
	"github.com/spf13/cobra"

	"github.com/go-marc21/marc21toolkit/internal/config"
	"github.com/go-marc21/marc21toolkit/internal/driver"
	"github.com/go-marc21/marc21toolkit/internal/stream"
)

func newPrintCommand(cf *commonFlags, defaults config.Defaults) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "print [path...]",
		Short: "Render each matching record in human-readable form",
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

			return driver.Print(cmd.Context(), src, sink, optionsFrom(cf))
		},
	}
	addSharedFlags(cmd.Flags(), cf, defaults)
	addWhereFlags(cmd.Flags(), cf, defaults)
	return cmd
}
