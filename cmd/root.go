package cmd

import (
	"os"

	"bookstore/config"

	"github.com/spf13/cobra"
)

// NewRootCommand creates the bookstore command with its subcommands.
func NewRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bookstore",
		Short: "Bookstore API server",
		Long:  "Online storefront and in-store register backend for the bookstore.",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			config.LoadConfig()
		},
	}

	cmd.AddCommand(NewServeCommand())
	cmd.AddCommand(NewMigrateCommand())

	return cmd
}

// Execute runs the root command; "serve" is implied when no subcommand is given.
func Execute() {
	root := NewRootCommand()
	if len(os.Args) == 1 {
		root.SetArgs([]string{"serve"})
	}
	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}
