package main

import (
	"github.com/spf13/cobra"
)

var updateCmd = &cobra.Command{
	Use:         "update",
	Short:       "Update the package cache",
	Long:        `Download the package index from the configured repository and cache it locally.`,
	Args:        cobra.NoArgs,
	Annotations: rootOnly(),
	Run:         runUpdate,
}

func init() {
	rootCmd.AddCommand(updateCmd)
}

func runUpdate(cmd *cobra.Command, args []string) {
	a := newApp(cmd.Context(), cfg)
	if err := a.Update(cmd.Context()); err != nil {
		a.fail(err)
	}
}
