package service

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mtqmn/qalbu/internal/domain"
	"github.com/mtqmn/qalbu/internal/index"
	"github.com/mtqmn/qalbu/internal/ranking"
	"github.com/mtqmn/qalbu/internal/telemetry"
)

// Response types on the wire.
const (
	ResponseTypeQuranReference = "quran_reference"
	ResponseTypeText           = "text"
)

// Reasons attached to degraded answers.
const (
	ReasonFallbackQuran = "fallback_quran"
	ReasonLowSimilarity = "low_similarity"
)

// SnapshotProvider yields the current searchable snapshot.
type SnapshotProvider interface {
	Current() *index.Snapshot
}

// VerseResolver finds a fallback verse candidate for a query.
type VerseResolver interface {
	Resolve(ctx context.Context, query string) (*ranking.ScoredCandidate, error)
}

// FeedbackDispatcherInterface accepts fire-and-forget feedback signals.
type FeedbackDispatcherInterface interface {
	Dispatch(itemID int64, signal domain.FeedbackSignal)
}

// ChatLogRepositoryInterface stores chat logs for evaluation/feedback loops.
type ChatLogRepositoryInterface interface {
	CreateChatLog(ctx context.Context, entry ChatLogEntry) (string, error)
}

// UUIDGenerator defines interface for UUID generation (for testing)
type UUIDGenerator interface {
	NewString() string
}

// DefaultUUIDGenerator is the default UUID generator using google/uuid
type DefaultUUIDGenerator struct{}

// NewString generates a new UUID string
func (g *DefaultUUIDGenerator) NewString() string {
	return uuid.NewString()
}

// AskInput is one user question.
type AskInput struct {
	Message        string
	UserEmotion    string
	ConversationID string
}

// Source identifies the knowledge behind a reply.
type Source struct {
	KBID        int64              `json:"kb_id"`
	ContentType domain.ContentType `json:"content_type"`
	ContentID   int64              `json:"content_id"`
	Score       float64            `json:"score"`
}

// Candidate is one scored entry considered for a reply.
type Candidate struct {
	KBID        int64              `json:"kb_id"`
	ContentType domain.ContentType `json:"content_type"`
	Score       float64            `json:"score"`
}

// AskOutput is the assembled answer.
type AskOutput struct {
	Reply          string
	ResponseType   string
	Sources        []Source
	Candidates     []Candidate
	Reason         string
	ConversationID string
}

// ChatLogEntry captures one answered question for later evaluation.
type ChatLogEntry struct {
	Query          string
	UserEmotion    string
	ConversationID string
	ResponseType   string
	Reason         string
	ChosenKBID     *int64
	TopScore       float64
	Candidates     []Candidate
	DurationMs     int64
}

// ChatService answers free-text questions against the current index
// snapshot, with a Quran verse fallback and an apology as the last resort.
type ChatService struct {
	snapshots  SnapshotProvider
	fallback   VerseResolver
	dispatcher FeedbackDispatcherInterface
	chatLogs   ChatLogRepositoryInterface
	uuidGen    UUIDGenerator

	threshold float64
	topK      int
}

// NewChatService creates a new ChatService instance. chatLogs may be nil to
// disable logging; dispatcher may be nil to disable implicit feedback.
func NewChatService(
	snapshots SnapshotProvider,
	fallback VerseResolver,
	dispatcher FeedbackDispatcherInterface,
	chatLogs ChatLogRepositoryInterface,
	threshold float64,
	topK int,
) *ChatService {
	return &ChatService{
		snapshots:  snapshots,
		fallback:   fallback,
		dispatcher: dispatcher,
		chatLogs:   chatLogs,
		uuidGen:    &DefaultUUIDGenerator{},
		threshold:  threshold,
		topK:       topK,
	}
}

// Ask runs the full answer pipeline: retrieve top candidates, boost, accept
// the best one when it clears the similarity threshold, otherwise fall back
// to a verse lookup and finally to the apology reply. Showing a knowledge
// item to the user counts as implicit positive feedback.
func (s *ChatService) Ask(ctx context.Context, input AskInput) (*AskOutput, error) {
	ctx, span := telemetry.StartSpan(ctx, "ChatService.Ask", telemetry.SpanAttributes{
		ConversationID: input.ConversationID,
		Operation:      "ask",
	})
	defer span.End()

	message := strings.TrimSpace(input.Message)
	if message == "" {
		return nil, domain.ErrEmptyMessage
	}

	conversationID := input.ConversationID
	if conversationID == "" {
		conversationID = s.uuidGen.NewString()
	}

	start := time.Now()
	candidates := ranking.Boost(
		ranking.Search(s.snapshots.Current(), message, s.topK),
		input.UserEmotion,
	)

	var out *AskOutput
	if len(candidates) > 0 && candidates[0].Score >= s.threshold {
		out = s.answerFromKnowledge(candidates)
	} else {
		fallbackOut, err := s.answerFromFallback(ctx, message)
		if err != nil {
			span.SetError(err)
			return nil, err
		}
		out = fallbackOut
	}
	out.ConversationID = conversationID

	s.logChat(ctx, input, message, out, time.Since(start))
	return out, nil
}

func (s *ChatService) answerFromKnowledge(candidates []ranking.ScoredCandidate) *AskOutput {
	chosen := candidates[0]

	responseType := ResponseTypeText
	if chosen.Item.ContentType == domain.ContentTypeQuranAyah {
		responseType = ResponseTypeQuranReference
	}

	if s.dispatcher != nil {
		s.dispatcher.Dispatch(chosen.Item.ID, domain.ImplicitFeedback())
	}

	return &AskOutput{
		Reply:        RenderReply(chosen.Item),
		ResponseType: responseType,
		Sources: []Source{{
			KBID:        chosen.Item.ID,
			ContentType: chosen.Item.ContentType,
			ContentID:   chosen.Item.ContentID,
			Score:       chosen.Score,
		}},
		Candidates: candidateViews(candidates),
	}
}

func (s *ChatService) answerFromFallback(ctx context.Context, message string) (*AskOutput, error) {
	hit, err := s.fallback.Resolve(ctx, message)
	if err != nil {
		return nil, err
	}
	if hit == nil {
		return &AskOutput{
			Reply:        ApologyReply,
			ResponseType: ResponseTypeText,
			Reason:       ReasonLowSimilarity,
		}, nil
	}

	return &AskOutput{
		Reply:        RenderReply(hit.Item),
		ResponseType: ResponseTypeQuranReference,
		Reason:       ReasonFallbackQuran,
		Sources: []Source{{
			KBID:        hit.Item.ID,
			ContentType: hit.Item.ContentType,
			ContentID:   hit.Item.ContentID,
			Score:       hit.Score,
		}},
		Candidates: candidateViews([]ranking.ScoredCandidate{*hit}),
	}, nil
}

// logChat is best-effort: a failed write never fails the answer.
func (s *ChatService) logChat(ctx context.Context, input AskInput, message string, out *AskOutput, elapsed time.Duration) {
	if s.chatLogs == nil {
		return
	}

	entry := ChatLogEntry{
		Query:          message,
		UserEmotion:    input.UserEmotion,
		ConversationID: out.ConversationID,
		ResponseType:   out.ResponseType,
		Reason:         out.Reason,
		Candidates:     out.Candidates,
		DurationMs:     elapsed.Milliseconds(),
	}
	if len(out.Sources) > 0 {
		kbID := out.Sources[0].KBID
		entry.ChosenKBID = &kbID
		entry.TopScore = out.Sources[0].Score
	}

	if _, err := s.chatLogs.CreateChatLog(ctx, entry); err != nil {
		log.Printf("chat: failed to write chat log: %v", err)
		telemetry.CaptureError(ctx, err)
	}
}

func candidateViews(candidates []ranking.ScoredCandidate) []Candidate {
	views := make([]Candidate, len(candidates))
	for i, c := range candidates {
		views[i] = Candidate{
			KBID:        c.Item.ID,
			ContentType: c.Item.ContentType,
			Score:       c.Score,
		}
	}
	return views
}
