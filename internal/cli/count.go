package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/go-marc21/marc21toolkit/internal/config"
	"github.com/go-marc21/marc21toolkit/internal/driver"
	"github.com/go-marc21/marc21toolkit/internal/stream"
)

func newCountCommand(cf *commonFlags, defaults config.Defaults) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "count [path...]",
		Aliases: []string{"cnt"},
		Short:   "Print the number of records that pass the predicate",
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

			n, err := driver.Count(cmd.Context(), src, optionsFrom(cf))
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(sink, n)
			return err
		},
	}
	addSharedFlags(cmd.Flags(), cf, defaults)
	addWhereFlags(cmd.Flags(), cf, defaults)
	return cmd
}
