package main

import (
	"github.com/spf13/cobra"
)

var installCmd = &cobra.Command{
	Use:   "install <package>",
	Short: "Install a package",
	Long: `Install a package from the repository.

The package index is refreshed first. When an older version of the package
is already installed, yns offers to upgrade it instead.`,
	Example: `  yns install neofetch
  yns install -y neofetch`,
	Args:        cobra.ExactArgs(1),
	Annotations: rootOnly(),
	Run:         runInstall,
}

func init() {
	rootCmd.AddCommand(installCmd)
}

func runInstall(cmd *cobra.Command, args []string) {
	a := newApp(cmd.Context(), cfg)
	if err := a.Install(cmd.Context(), args[0]); err != nil {
		a.fail(err)
	}
}
