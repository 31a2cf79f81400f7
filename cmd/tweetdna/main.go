package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var version = "dev"

var noColor bool

var rootCmd = &cobra.Command{
	Use:     "tweetdna",
	Short:   "Profile your voice from tweet exports and draft new content in it",
	Version: version,
	Long: `tweetdna builds a compact persona profile from your exported tweet
history, then generates tweet, thread, and reply drafts in that voice
with ranking-signal alignment checks. No X API access required.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func main() {
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")

	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(profileCmd)
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(reviewCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(serveCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, colorize(colorRed, fmt.Sprintf("error: %v", err)))
		os.Exit(1)
	}
}
