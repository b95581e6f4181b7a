package client

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

// AudioTrack represents one track in API responses.
type AudioTrack struct {
	ID          string  `json:"id"`
	CategoryID  string  `json:"category_id"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	DurationSec int     `json:"duration_sec"`
	PlayCount   int64   `json:"play_count"`
	Rating      float64 `json:"rating"`
	DownloadURL string  `json:"download_url,omitempty"`
}

// ListAudioResponse represents the audio list API response.
type ListAudioResponse struct {
	Items   []*AudioTrack `json:"items"`
	Cursor  string        `json:"cursor,omitempty"`
	HasMore bool          `json:"has_more"`
}

// AudioCmd creates the audio command group.
func AudioCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "audio",
		Short: "Browse audio relaxation tracks",
	}

	cmd.AddCommand(audioListCmd())
	cmd.AddCommand(audioPopularCmd())
	cmd.AddCommand(audioGetCmd())
	cmd.AddCommand(audioPlayCmd())

	return cmd
}

func audioListCmd() *cobra.Command {
	var (
		limit  int
		cursor string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List audio tracks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			outputJSON, _ := cmd.Flags().GetBool("output")
			return runAudioList(cmd, limit, cursor, outputJSON)
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum number of tracks")
	cmd.Flags().StringVar(&cursor, "cursor", "", "Pagination cursor from previous response")

	return cmd
}

func runAudioList(cmd *cobra.Command, limit int, cursor string, outputJSON bool) error {
	api, err := NewAPIClientWithCmd(cmd)
	if err != nil {
		return err
	}

	query := url.Values{}
	if limit > 0 {
		query.Set("limit", strconv.Itoa(limit))
	}
	if cursor != "" {
		query.Set("cursor", cursor)
	}
	path := "/audio"
	if encoded := query.Encode(); encoded != "" {
		path += "?" + encoded
	}

	resp, err := api.Get(path)
	if err != nil {
		return fmt.Errorf("audio list failed: %w", err)
	}

	var listResp ListAudioResponse
	if err := json.Unmarshal(resp.Data, &listResp); err != nil {
		return fmt.Errorf("failed to parse audio list: %w", err)
	}

	if outputJSON {
		output, _ := json.MarshalIndent(listResp, "", "  ")
		fmt.Println(string(output))
		return nil
	}

	printTracks(listResp.Items)
	if listResp.HasMore && listResp.Cursor != "" {
		fmt.Printf("\nMore tracks available. Use --cursor %s\n", listResp.Cursor)
	}
	return nil
}

func audioPopularCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "popular",
		Short: "List the most played tracks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			outputJSON, _ := cmd.Flags().GetBool("output")
			return runAudioPopular(cmd, limit, outputJSON)
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 10, "Maximum number of tracks")

	return cmd
}

func runAudioPopular(cmd *cobra.Command, limit int, outputJSON bool) error {
	api, err := NewAPIClientWithCmd(cmd)
	if err != nil {
		return err
	}

	path := "/audio/popular"
	if limit > 0 {
		path += "?limit=" + strconv.Itoa(limit)
	}

	resp, err := api.Get(path)
	if err != nil {
		return fmt.Errorf("audio popular failed: %w", err)
	}

	var tracks []*AudioTrack
	if err := json.Unmarshal(resp.Data, &tracks); err != nil {
		return fmt.Errorf("failed to parse audio list: %w", err)
	}

	if outputJSON {
		output, _ := json.MarshalIndent(tracks, "", "  ")
		fmt.Println(string(output))
		return nil
	}

	printTracks(tracks)
	return nil
}

func audioGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show one track with its download URL",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			outputJSON, _ := cmd.Flags().GetBool("output")
			return runAudioGet(cmd, args[0], outputJSON)
		},
	}
}

func runAudioGet(cmd *cobra.Command, id string, outputJSON bool) error {
	api, err := NewAPIClientWithCmd(cmd)
	if err != nil {
		return err
	}

	resp, err := api.Get("/audio/" + url.PathEscape(id))
	if err != nil {
		return fmt.Errorf("audio get failed: %w", err)
	}

	var track AudioTrack
	if err := json.Unmarshal(resp.Data, &track); err != nil {
		return fmt.Errorf("failed to parse track: %w", err)
	}

	if outputJSON {
		output, _ := json.MarshalIndent(track, "", "  ")
		fmt.Println(string(output))
		return nil
	}

	fmt.Printf("%s (%s)\n", track.Title, track.ID)
	if track.Description != "" {
		fmt.Println(track.Description)
	}
	fmt.Printf("duration: %ds, plays: %d, rating: %.1f\n", track.DurationSec, track.PlayCount, track.Rating)
	if track.DownloadURL != "" {
		fmt.Printf("download: %s\n", track.DownloadURL)
	}
	return nil
}

func audioPlayCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "play <id>",
		Short: "Record one playback of a track",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			api, err := NewAPIClientWithCmd(cmd)
			if err != nil {
				return err
			}
			if _, err := api.Post("/audio/"+url.PathEscape(args[0])+"/play", nil); err != nil {
				return fmt.Errorf("audio play failed: %w", err)
			}
			fmt.Println("ok")
			return nil
		},
	}
}

func printTracks(tracks []*AudioTrack) {
	if len(tracks) == 0 {
		fmt.Println("No tracks found.")
		return
	}

	for i, track := range tracks {
		fmt.Printf("%d. %s (%ds, %d plays)\n", i+1, track.Title, track.DurationSec, track.PlayCount)
		fmt.Printf("   ID: %s\n", track.ID)
		if i < len(tracks)-1 {
			fmt.Println(strings.Repeat("-", 40))
		}
	}
}
