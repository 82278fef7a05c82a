package cli

import (
	"github.com/spf13/cobra"
)

func newCompletionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "completion <shell>",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for projgrid.

Tag, blockchain, and preset flags complete from the dataset and config file
named by --data, --data-url, and --config.

Bash:
  $ source <(projgrid completion bash)
  $ projgrid completion bash > /etc/bash_completion.d/projgrid

Zsh:
  $ echo "autoload -U compinit; compinit" >> ~/.zshrc
  $ projgrid completion zsh > "${fpath[1]}/_projgrid"

Fish:
  $ projgrid completion fish > ~/.config/fish/completions/projgrid.fish

PowerShell:
  PS> projgrid completion powershell | Out-String | Invoke-Expression
`,
		// Completion scripts are generated without loading config.
		PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
		Args:              cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs:         []string{"bash", "zsh", "fish", "powershell"},
		RunE: func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()

			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletionV2(w, true)
			case "zsh":
				return cmd.Root().GenZshCompletion(w)
			case "fish":
				return cmd.Root().GenFishCompletion(w, true)
			default:
				return cmd.Root().GenPowerShellCompletionWithDesc(w)
			}
		},
	}
}
