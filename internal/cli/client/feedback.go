package client

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

// FeedbackRequest represents the feedback API request.
type FeedbackRequest struct {
	KBID    int64    `json:"kb_id"`
	Rating  *float64 `json:"rating,omitempty"`
	Helpful *bool    `json:"helpful,omitempty"`
	Comment string   `json:"comment,omitempty"`
}

// FeedbackResponse represents the feedback API response.
type FeedbackResponse struct {
	Status             string  `json:"status"`
	KBID               int64   `json:"kb_id"`
	UsageCount         int64   `json:"usage_count"`
	EffectivenessScore float64 `json:"effectiveness_score"`
}

// FeedbackCmd creates the feedback command.
func FeedbackCmd() *cobra.Command {
	var (
		rating  float64
		helpful bool
		comment string
	)

	cmd := &cobra.Command{
		Use:   "feedback <kb_id>",
		Short: "Rate an answer",
		Long:  "Sends feedback for a knowledge item by its kb_id.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			kbID, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid kb_id: %s", args[0])
			}

			outputJSON, _ := cmd.Flags().GetBool("output")
			req := FeedbackRequest{KBID: kbID, Comment: comment}
			if cmd.Flags().Changed("rating") {
				req.Rating = &rating
			}
			if cmd.Flags().Changed("helpful") {
				req.Helpful = &helpful
			}
			return runFeedback(cmd, req, outputJSON)
		},
	}

	cmd.Flags().Float64VarP(&rating, "rating", "r", 0, "Rating on a 0-5 scale")
	cmd.Flags().BoolVar(&helpful, "helpful", false, "Whether the answer was helpful")
	cmd.Flags().StringVar(&comment, "comment", "", "Free-text comment")

	return cmd
}

func runFeedback(cmd *cobra.Command, req FeedbackRequest, outputJSON bool) error {
	api, err := NewAPIClientWithCmd(cmd)
	if err != nil {
		return err
	}

	resp, err := api.Post("/chat/feedback", req)
	if err != nil {
		return fmt.Errorf("feedback failed: %w", err)
	}

	var fbResp FeedbackResponse
	if err := json.Unmarshal(resp.Data, &fbResp); err != nil {
		return fmt.Errorf("failed to parse feedback response: %w", err)
	}

	if outputJSON {
		output, _ := json.MarshalIndent(fbResp, "", "  ")
		fmt.Println(string(output))
		return nil
	}

	fmt.Printf("kb_id %d: usage %d, effectiveness %.3f\n",
		fbResp.KBID, fbResp.UsageCount, fbResp.EffectivenessScore)
	return nil
}
