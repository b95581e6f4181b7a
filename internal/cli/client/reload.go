package client

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

// ReloadResponse represents the reload API response.
type ReloadResponse struct {
	Status  string `json:"status"`
	KBItems int    `json:"kb_items"`
}

// ReloadCmd creates the reload command.
func ReloadCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reload",
		Short: "Rebuild the knowledge index",
		Long:  "Forces a synchronous rebuild of the knowledge index snapshot.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			outputJSON, _ := cmd.Flags().GetBool("output")
			return runReload(cmd, outputJSON)
		},
	}
}

func runReload(cmd *cobra.Command, outputJSON bool) error {
	api, err := NewAPIClientWithCmd(cmd)
	if err != nil {
		return err
	}

	resp, err := api.Post("/reload", nil)
	if err != nil {
		return fmt.Errorf("reload failed: %w", err)
	}

	var reloadResp ReloadResponse
	if err := json.Unmarshal(resp.Data, &reloadResp); err != nil {
		return fmt.Errorf("failed to parse reload response: %w", err)
	}

	if outputJSON {
		output, _ := json.MarshalIndent(reloadResp, "", "  ")
		fmt.Println(string(output))
		return nil
	}

	fmt.Printf("reloaded: %d items indexed\n", reloadResp.KBItems)
	return nil
}
