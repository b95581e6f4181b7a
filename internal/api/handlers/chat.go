package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/mtqmn/qalbu/internal/api"
	"github.com/mtqmn/qalbu/internal/domain"
	"github.com/mtqmn/qalbu/internal/service"
)

type ChatServiceInterface interface {
	Ask(ctx context.Context, input service.AskInput) (*service.AskOutput, error)
}

type FeedbackServiceInterface interface {
	Apply(ctx context.Context, itemID int64, signal domain.FeedbackSignal) (*service.FeedbackResult, error)
}

type ChatHandler struct {
	chat     ChatServiceInterface
	feedback FeedbackServiceInterface
}

func NewChatHandler(chat ChatServiceInterface, feedback FeedbackServiceInterface) *ChatHandler {
	return &ChatHandler{chat: chat, feedback: feedback}
}

type ChatRequest struct {
	Message        string `json:"message"`
	UserEmotion    string `json:"user_emotion"`
	ConversationID string `json:"conversation_id"`
}

type ChatResponse struct {
	Reply          string              `json:"reply"`
	ResponseType   string              `json:"ai_response_type"`
	Sources        []service.Source    `json:"ai_sources"`
	Candidates     []service.Candidate `json:"candidates"`
	Reason         string              `json:"reason,omitempty"`
	ConversationID string              `json:"conversation_id"`
}

type FeedbackRequest struct {
	KBID    int64    `json:"kb_id"`
	Rating  *float64 `json:"rating"`
	Helpful *bool    `json:"helpful"`
	Comment string   `json:"comment"`
}

type FeedbackResponse struct {
	Status             string  `json:"status"`
	KBID               int64   `json:"kb_id"`
	UsageCount         int64   `json:"usage_count"`
	EffectivenessScore float64 `json:"effectiveness_score"`
}

// Chat answers one free-text question.
func (h *ChatHandler) Chat(w http.ResponseWriter, r *http.Request) {
	var req ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	out, err := h.chat.Ask(r.Context(), service.AskInput{
		Message:        req.Message,
		UserEmotion:    req.UserEmotion,
		ConversationID: req.ConversationID,
	})
	if err != nil {
		api.HandleError(w, err)
		return
	}

	api.Success(w, http.StatusOK, &ChatResponse{
		Reply:          out.Reply,
		ResponseType:   out.ResponseType,
		Sources:        out.Sources,
		Candidates:     out.Candidates,
		Reason:         out.Reason,
		ConversationID: out.ConversationID,
	})
}

// Feedback folds an explicit signal into a knowledge item's effectiveness.
func (h *ChatHandler) Feedback(w http.ResponseWriter, r *http.Request) {
	var req FeedbackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.KBID <= 0 {
		api.Error(w, http.StatusBadRequest, "kb_id is required")
		return
	}

	signal := domain.FeedbackSignal{
		Rating:  req.Rating,
		Comment: req.Comment,
	}
	if req.Helpful != nil {
		signal.Helpful = *req.Helpful
	}

	result, err := h.feedback.Apply(r.Context(), req.KBID, signal)
	if err != nil {
		api.HandleError(w, err)
		return
	}

	api.Success(w, http.StatusOK, &FeedbackResponse{
		Status:             "ok",
		KBID:               result.ItemID,
		UsageCount:         result.UsageCount,
		EffectivenessScore: result.EffectivenessScore,
	})
}
