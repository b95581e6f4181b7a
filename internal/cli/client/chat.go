package client

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

// ChatRequest represents the chat API request.
type ChatRequest struct {
	Message        string `json:"message"`
	UserEmotion    string `json:"user_emotion,omitempty"`
	ConversationID string `json:"conversation_id,omitempty"`
}

// ChatSource represents one source behind a reply.
type ChatSource struct {
	KBID        int64   `json:"kb_id"`
	ContentType string  `json:"content_type"`
	ContentID   int64   `json:"content_id"`
	Score       float64 `json:"score"`
}

// ChatResponse represents the chat API response.
type ChatResponse struct {
	Reply          string       `json:"reply"`
	ResponseType   string       `json:"ai_response_type"`
	Sources        []ChatSource `json:"ai_sources"`
	Reason         string       `json:"reason,omitempty"`
	ConversationID string       `json:"conversation_id"`
}

// ChatCmd creates the chat command.
func ChatCmd() *cobra.Command {
	var (
		emotion        string
		conversationID string
	)

	cmd := &cobra.Command{
		Use:   "chat <message>",
		Short: "Ask a question",
		Long:  "Sends a free-text question to the guidance service and prints the reply.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			outputJSON, _ := cmd.Flags().GetBool("output")
			return runChat(cmd, args[0], emotion, conversationID, outputJSON)
		},
	}

	cmd.Flags().StringVarP(&emotion, "emotion", "e", "", "Current emotion, used to bias ranking")
	cmd.Flags().StringVar(&conversationID, "conversation", "", "Conversation ID to continue")

	return cmd
}

func runChat(cmd *cobra.Command, message, emotion, conversationID string, outputJSON bool) error {
	api, err := NewAPIClientWithCmd(cmd)
	if err != nil {
		return err
	}

	resp, err := api.Post("/chat", ChatRequest{
		Message:        message,
		UserEmotion:    emotion,
		ConversationID: conversationID,
	})
	if err != nil {
		return fmt.Errorf("chat failed: %w", err)
	}

	var chatResp ChatResponse
	if err := json.Unmarshal(resp.Data, &chatResp); err != nil {
		return fmt.Errorf("failed to parse chat response: %w", err)
	}

	if outputJSON {
		output, _ := json.MarshalIndent(chatResp, "", "  ")
		fmt.Println(string(output))
		return nil
	}

	fmt.Println(chatResp.Reply)
	if len(chatResp.Sources) > 0 {
		fmt.Printf("\n[%s, kb_id %d, score %.2f]\n",
			chatResp.ResponseType, chatResp.Sources[0].KBID, chatResp.Sources[0].Score)
	}
	fmt.Printf("conversation: %s\n", chatResp.ConversationID)
	return nil
}
