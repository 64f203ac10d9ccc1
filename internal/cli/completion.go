package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/go-marc21/marc21toolkit/internal/driver"
)

func newBuildCompletionCommand(root *cobra.Command) *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:       "build-completion SHELL",
		Short:     "Generate a shell completion script",
		Args:      cobra.ExactValidArgs(1),
		ValidArgs: []string{"bash", "zsh", "fish", "powershell"},
		RunE: func(cmd *cobra.Command, args []string) error {
			w := os.Stdout
			if output != "" {
				f, err := os.Create(output)
				if err != nil {
					return err
				}
				defer f.Close()
				w = f
			}
			switch args[0] {
			case "bash":
				return root.GenBashCompletionV2(w, true)
			case "zsh":
				return root.GenZshCompletion(w)
			case "fish":
				return root.GenFishCompletion(w, true)
			case "powershell":
				return root.GenPowerShellCompletionWithDesc(w)
			default:
				return &driver.UsageError{Msg: "unsupported shell: " + args[0]}
			}
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: stdout)")
	return cmd
}
