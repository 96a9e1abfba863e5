package main

import (
	"fmt"

	"github.com/chazu/airsketch/pkg/version"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the airsketch version",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "airsketch %s\n", version.Full())
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
