package main

import (
	"github.com/spf13/cobra"
)

var removeCmd = &cobra.Command{
	Use:         "remove <package>",
	Short:       "Remove an installed package",
	Args:        cobra.ExactArgs(1),
	Annotations: rootOnly(),
	Run:         runRemove,
}

func init() {
	rootCmd.AddCommand(removeCmd)
}

func runRemove(cmd *cobra.Command, args []string) {
	a := newApp(cmd.Context(), cfg)
	if err := a.Remove(cmd.Context(), args[0]); err != nil {
		a.fail(err)
	}
}
