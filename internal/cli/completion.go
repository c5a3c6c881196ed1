package cli

import (
	"os"

	"github.com/spf13/cobra"
)

// newCompletionCmd wires cobra's shell completion generators.
func newCompletionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts.

Load directly for the current session:

  source <(pathlens completion bash)
  pathlens completion fish | source
  pathlens completion powershell | Out-String | Invoke-Expression

Or install persistently:

  pathlens completion bash > /etc/bash_completion.d/pathlens
  pathlens completion zsh > "${fpath[1]}/_pathlens"
  pathlens completion fish > ~/.config/fish/completions/pathlens.fish

Zsh needs compinit enabled first: echo "autoload -U compinit; compinit" >> ~/.zshrc`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletion(os.Stdout)
			case "zsh":
				return cmd.Root().GenZshCompletion(os.Stdout)
			case "fish":
				return cmd.Root().GenFishCompletion(os.Stdout, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(os.Stdout)
			}
			return nil
		},
	}
}
