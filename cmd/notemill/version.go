package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aretw0/notemill"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the notemill version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("notemill version %s\n", notemill.Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
