package main

import (
	"github.com/spitkov/yns/internal/shell"
	"github.com/spf13/cobra"
)

var interactiveCmd = &cobra.Command{
	Use:         "interactive",
	Aliases:     []string{"shell"},
	Short:       "Start an interactive session",
	Long:        `Read commands from a "yns>" prompt until "exit" or end of input. Type "help" at the prompt for the command list.`,
	Args:        cobra.NoArgs,
	Annotations: rootOnly(),
	Run:         runInteractive,
}

func init() {
	rootCmd.AddCommand(interactiveCmd)
}

func runInteractive(cmd *cobra.Command, args []string) {
	a := newApp(cmd.Context(), cfg)
	if err := shell.New(a.term, a).Run(cmd.Context()); err != nil {
		a.fail(err)
	}
}
