package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:           "natours",
	Short:         "Natours tour booking service",
	SilenceUsage:  true,
	SilenceErrors: true,
}

var storageFlag string

func init() {
	rootCmd.PersistentFlags().StringVar(&storageFlag, "storage", "", "storage backend (mongo or memory), overrides STORAGE")
	rootCmd.AddCommand(serveCmd, backfillCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
