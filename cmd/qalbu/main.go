package main

import (
	"fmt"
	"os"

	"github.com/mtqmn/qalbu/internal/cli"
	"github.com/mtqmn/qalbu/internal/cli/client"
	"github.com/spf13/cobra"
)

var version = "dev"

func main() {
	rootCmd := &cobra.Command{
		Use:   "qalbu",
		Short: "Qalbu CLI - Islamic guidance question answering",
		Long: `Qalbu CLI provides commands to talk to a running qalbud server.

Environment variables:
  QALBU_API_URL   API base URL (default: http://localhost:8080)`,
		Version: version,
	}

	rootCmd.PersistentFlags().Bool("output", false, "Output as JSON")
	rootCmd.PersistentFlags().String("api-url", "", "API base URL (overrides env)")
	cli.AddHelpJSONFlag(rootCmd)

	rootCmd.AddCommand(client.ChatCmd())
	rootCmd.AddCommand(client.FeedbackCmd())
	rootCmd.AddCommand(client.StatsCmd())
	rootCmd.AddCommand(client.ReloadCmd())
	rootCmd.AddCommand(client.AudioCmd())

	cli.CheckHelpJSON(rootCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
