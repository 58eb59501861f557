package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Version é sobrescrito no build via -ldflags "-X main.Version=...".
var Version = "dev"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Mostra a versão do txctl",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "txctl %s\n", Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
