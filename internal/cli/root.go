// Package cli wires the cobra command tree for the marc21 binary:
// subcommands, shared flags, config-file defaults, and signal-based
// cancellation (spec §4.F, §6).
package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/go-marc21/marc21toolkit/internal/config"
	"github.com/go-marc21/marc21toolkit/internal/logging"
)

// version is set by the release build; "dev" otherwise.
var version = "dev"

// commonFlags holds the shared, where-capable flag values bound onto a
// subcommand's own FlagSet by addSharedFlags/addWhereFlags.
type commonFlags struct {
	output          string
	compression     int
	skipInvalid     bool
	progress        bool
	where           string
	strsimThreshold float64
	configPath      string
}

func addSharedFlags(fs *pflag.FlagSet, cf *commonFlags, defaults config.Defaults) {
	fs.StringVarP(&cf.output, "output", "o", "", "output file (default: stdout)")
	fs.IntVarP(&cf.compression, "compression", "c", defaults.Compression, "gzip level for a .gz output path")
	fs.BoolVarP(&cf.skipInvalid, "skip-invalid", "s", false, "swallow invalid records instead of aborting")
	fs.BoolVarP(&cf.progress, "progress", "p", defaults.Progress, "emit periodic progress to stderr")
}

func addWhereFlags(fs *pflag.FlagSet, cf *commonFlags, defaults config.Defaults) {
	fs.StringVar(&cf.where, "where", "", "optional filter expression")
	fs.Float64Var(&cf.strsimThreshold, "strsim-threshold", defaults.StrsimThreshold*100, "default similarity threshold for =*/!* (0-100, percent)")
}

// NewRootCommand builds the full marc21 command tree.
func NewRootCommand() *cobra.Command {
	var cf commonFlags

	root := &cobra.Command{
		Use:           "marc21",
		Short:         "Stream, filter, and inspect MARC 21 (ISO 2709) bibliographic records",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&cf.configPath, "config", "", "path to a config.yaml (default: $XDG_CONFIG_HOME/marc21/config.yaml)")

	defaults, err := config.Load(cf.configPath)
	if err != nil {
		logging.Error("loading config: %v", err)
		defaults = config.Defaults{StrsimThreshold: 0.8, Compression: -1, Progress: false}
	}

	root.AddCommand(
		newConcatCommand(&cf, defaults),
		newCountCommand(&cf, defaults),
		newFilterCommand(&cf, defaults),
		newHashCommand(&cf, defaults),
		newInvalidCommand(&cf, defaults),
		newPrintCommand(&cf, defaults),
		newSampleCommand(&cf, defaults),
		newSplitCommand(&cf, defaults),
		newBuildCompletionCommand(root),
		newBuildManCommand(root),
	)
	return root
}

// Execute runs the command tree to completion with a context cancelled on
// SIGINT/SIGTERM (spec §5 "Cancellation"), and returns the process exit
// code (spec §7: 0 on success, 1 on any failure).
func Execute() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	root := NewRootCommand()
	root.SetContext(ctx)
	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}
	return 0
}
