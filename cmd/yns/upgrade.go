package main

import (
	"github.com/spf13/cobra"
)

var upgradeCmd = &cobra.Command{
	Use:         "upgrade <package>",
	Short:       "Upgrade an installed package",
	Long:        `Run the package's update script when the repository offers a different version than the one installed.`,
	Args:        cobra.ExactArgs(1),
	Annotations: rootOnly(),
	Run:         runUpgrade,
}

func init() {
	rootCmd.AddCommand(upgradeCmd)
}

func runUpgrade(cmd *cobra.Command, args []string) {
	a := newApp(cmd.Context(), cfg)
	if err := a.Upgrade(cmd.Context(), args[0]); err != nil {
		a.fail(err)
	}
}
