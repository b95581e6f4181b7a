package client

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

// StatsResponse represents the stats API response.
type StatsResponse struct {
	IndexItems    int    `json:"index_items"`
	ActiveKBCount int64  `json:"active_kb_count"`
	Database      string `json:"database"`
}

// StatsCmd creates the stats command.
func StatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show service statistics",
		Long:  "Prints index size and knowledge store state.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			outputJSON, _ := cmd.Flags().GetBool("output")
			return runStats(cmd, outputJSON)
		},
	}
}

func runStats(cmd *cobra.Command, outputJSON bool) error {
	api, err := NewAPIClientWithCmd(cmd)
	if err != nil {
		return err
	}

	resp, err := api.Get("/stats")
	if err != nil {
		return fmt.Errorf("stats failed: %w", err)
	}

	var statsResp StatsResponse
	if err := json.Unmarshal(resp.Data, &statsResp); err != nil {
		return fmt.Errorf("failed to parse stats response: %w", err)
	}

	if outputJSON {
		output, _ := json.MarshalIndent(statsResp, "", "  ")
		fmt.Println(string(output))
		return nil
	}

	fmt.Printf("index items:     %d\n", statsResp.IndexItems)
	fmt.Printf("active kb rows:  %d\n", statsResp.ActiveKBCount)
	fmt.Printf("database:        %s\n", statsResp.Database)
	return nil
}
