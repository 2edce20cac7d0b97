package main

import (
	"os"

	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "clang-highlight",
		Short: "Semantic syntax highlighting for C++ via fuzzy parsing",
	}

	rootCmd.AddCommand(newParseCmd())
	rootCmd.AddCommand(newHighlightCmd())
	rootCmd.AddCommand(newWatchCmd())
	rootCmd.AddCommand(newLSPCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
