package cli

import (
	"github.com/spf13/cobra"

	"github.com/go-marc21/marc21toolkit/internal/config"
	"github.com/go-marc21/marc21toolkit/internal/driver"
	"github.com/go-marc21/marc21toolkit/internal/stream"
)

func newInvalidCommand(cf *commonFlags, defaults config.Defaults) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "invalid [path...]",
		Short: "Emit the raw bytes of every record that fails decoding",
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

			return driver.Invalid(cmd.Context(), src, sink, optionsFrom(cf))
		},
	}
	addSharedFlags(cmd.Flags(), cf, defaults)
	return cmd
}
