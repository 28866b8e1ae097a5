package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spitkov/yns/internal/common/logger"
	"github.com/spf13/cobra"
)

var completionCmd = &cobra.Command{
	Use:   "completion [bash|zsh|fish|powershell]",
	Short: "Generate shell completion scripts",
	Long: `Generate shell completion scripts for yns.

To load completions:

Bash:
  $ source <(yns completion bash)
  # To load completions for each session, execute once:
  $ yns completion bash > /etc/bash_completion.d/yns

Zsh:
  # If shell completion is not already enabled in your environment,
  # you will need to enable it. You can execute the following once:
  $ echo "autoload -U compinit; compinit" >> ~/.zshrc
  # To load completions for each session, execute once:
  $ yns completion zsh > "${fpath[1]}/_yns"
  # You will need to start a new shell for this setup to take effect.

Fish:
  $ yns completion fish | source
  # To load completions for each session, execute once:
  $ yns completion fish > ~/.config/fish/completions/yns.fish

PowerShell:
  PS> yns completion powershell | Out-String | Invoke-Expression
  # To load completions for every new session, run:
  PS> yns completion powershell > yns.ps1
  # and source this file from your PowerShell profile.
`,
	DisableFlagsInUseLine: true,
	ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
	Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	Run: func(cmd *cobra.Command, args []string) {
		if err := writeCompletion(cmd.OutOrStdout(), args[0]); err != nil {
			logger.Error("%v", err)
			os.Exit(1)
		}
	},
}

func writeCompletion(w io.Writer, shellName string) error {
	switch shellName {
	case "bash":
		return rootCmd.GenBashCompletionV2(w, true)
	case "zsh":
		return rootCmd.GenZshCompletion(w)
	case "fish":
		return rootCmd.GenFishCompletion(w, true)
	case "powershell":
		return rootCmd.GenPowerShellCompletionWithDesc(w)
	}
	return fmt.Errorf("unsupported shell %q", shellName)
}

func init() {
	rootCmd.AddCommand(completionCmd)
}
