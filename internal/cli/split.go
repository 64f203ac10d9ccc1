package cli

import (
	"strconv"

	"github.com/spf13/cobra"

	"github.com/go-marc21/marc21toolkit/internal/config"
	"github.com/go-marc21/marc21toolkit/internal/driver"
	"github.com/go-marc21/marc21toolkit/internal/stream"
)

func newSplitCommand(cf *commonFlags, defaults config.Defaults) *cobra.Command {
	var outDir, filename string
	cmd := &cobra.Command{
		Use:   "split CHUNK-SIZE [path...]",
		Short: "Split the (filtered) stream into fixed-size chunk files",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := strconv.Atoi(args[0])
			if err != nil {
				return &driver.UsageError{Msg: "chunk size must be an integer: " + err.Error()}
			}

			src, err := stream.OpenMulti(args[1:])
			if err != nil {
				return err
			}
			defer src.Close()

			return driver.Split(cmd.Context(), src, outDir, filename, n, cf.compression, optionsFrom(cf))
		},
	}
	cmd.Flags().IntVarP(&cf.compression, "compression", "c", defaults.Compression, "gzip level for a .gz chunk filename")
	cmd.Flags().BoolVarP(&cf.skipInvalid, "skip-invalid", "s", false, "swallow invalid records instead of aborting")
	cmd.Flags().BoolVarP(&cf.progress, "progress", "p", defaults.Progress, "emit periodic progress to stderr")
	addWhereFlags(cmd.Flags(), cf, defaults)
	cmd.Flags().StringVarP(&outDir, "outdir", "o", ".", "output directory for chunk files")
	cmd.Flags().StringVar(&filename, "filename", "chunk_{}.mrc", `chunk filename template ("{}" becomes the zero-padded chunk ordinal)`)
	return cmd
}
