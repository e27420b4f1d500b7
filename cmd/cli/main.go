package main

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "apiconnect",
	Short: "Check connectivity to the configured vendor APIs",
	Long: `apiconnect sends one minimal request to each vendor API (OpenAI, SerpAPI,
Shopify, YouTube, Google AI Studio, Google Gemini) and logs what it found.

Run the checks in-process with "check", or ask a running apiconnect API to run
them with "remote".`,
	SilenceUsage: true,
}

func main() {
	rootCmd.AddCommand(checkCmd(), remoteCmd())
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
