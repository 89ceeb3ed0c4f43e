package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	serve := newServeCmd()

	root := &cobra.Command{
		Use:           "contactform",
		Short:         "Contact form backend",
		SilenceUsage:  true,
		SilenceErrors: true,
		// serve is the default when no subcommand is given
		RunE: serve.RunE,
	}
	root.AddCommand(serve, newInitDBCmd(), newSeedCmd())
	return root
}
