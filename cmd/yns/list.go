package main

import (
	"github.com/spf13/cobra"
)

var listCached bool

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all packages",
	Long: `List every package in the repository together with its install status:

  [installed X]                         installed and current
  [installed X, update available Y]     installed, repository has Y
  [available Y]                         not installed`,
	Args:        cobra.NoArgs,
	Annotations: rootOnly(),
	Run:         runList,
}

func init() {
	listCmd.Flags().BoolVar(&listCached, "cached", false, "Use the cached index instead of downloading it")
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, args []string) {
	a := newApp(cmd.Context(), cfg)

	var err error
	if listCached {
		err = a.ListCached()
	} else {
		err = a.List(cmd.Context())
	}
	if err != nil {
		a.fail(err)
	}
}
