package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/mtqmn/qalbu/internal/domain"
	"github.com/mtqmn/qalbu/internal/index"
	"github.com/mtqmn/qalbu/internal/ranking"
)

// staticSnapshots serves one pre-built snapshot.
type staticSnapshots struct {
	snap *index.Snapshot
}

func (s *staticSnapshots) Current() *index.Snapshot { return s.snap }

// MockVerseResolver is a mock implementation of VerseResolver
type MockVerseResolver struct {
	mock.Mock
}

func (m *MockVerseResolver) Resolve(ctx context.Context, query string) (*ranking.ScoredCandidate, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ranking.ScoredCandidate), args.Error(1)
}

// MockFeedbackDispatcher is a mock implementation of FeedbackDispatcherInterface
type MockFeedbackDispatcher struct {
	mock.Mock
}

func (m *MockFeedbackDispatcher) Dispatch(itemID int64, signal domain.FeedbackSignal) {
	m.Called(itemID, signal)
}

// MockChatLogRepository is a mock implementation of ChatLogRepositoryInterface
type MockChatLogRepository struct {
	mock.Mock
}

func (m *MockChatLogRepository) CreateChatLog(ctx context.Context, entry ChatLogEntry) (string, error) {
	args := m.Called(ctx, entry)
	return args.String(0), args.Error(1)
}

// MockUUIDGenerator is a mock implementation of UUIDGenerator
type MockUUIDGenerator struct {
	mock.Mock
}

func (m *MockUUIDGenerator) NewString() string {
	args := m.Called()
	return args.String(0)
}

func knowledgeSnapshot() *index.Snapshot {
	items := []*domain.KnowledgeItem{
		{
			ID:               1,
			ContentType:      domain.ContentTypeGuidance,
			EmotionTrigger:   "sedih",
			GuidanceText:     "Bersabarlah dalam menghadapi musibah, Allah bersama orang sabar",
			SuggestedActions: []string{"Perbanyak istighfar"},
		},
		{
			ID:           2,
			ContentType:  domain.ContentTypeDzikir,
			GuidanceText: "Perbanyak dzikir pagi petang",
		},
	}
	return index.NewSnapshot(items, 0)
}

func newTestChatService(snap *index.Snapshot, fallback VerseResolver, dispatcher FeedbackDispatcherInterface, chatLogs ChatLogRepositoryInterface) *ChatService {
	return NewChatService(&staticSnapshots{snap: snap}, fallback, dispatcher, chatLogs, 0.25, 3)
}

// TestChatService_Ask_ConfidentHit verifies the knowledge-base path
func TestChatService_Ask_ConfidentHit(t *testing.T) {
	dispatcher := new(MockFeedbackDispatcher)
	dispatcher.On("Dispatch", int64(1), domain.ImplicitFeedback()).Return()

	chatLogs := new(MockChatLogRepository)
	chatLogs.On("CreateChatLog", mock.Anything, mock.MatchedBy(func(entry ChatLogEntry) bool {
		return entry.ResponseType == ResponseTypeText &&
			entry.ChosenKBID != nil && *entry.ChosenKBID == 1 &&
			entry.TopScore > 0
	})).Return("log-id", nil)

	svc := newTestChatService(knowledgeSnapshot(), new(MockVerseResolver), dispatcher, chatLogs)

	out, err := svc.Ask(context.Background(), AskInput{
		Message:        "bagaimana menghadapi musibah dengan sabar",
		UserEmotion:    "sedih",
		ConversationID: "conv-1",
	})

	require.NoError(t, err)
	assert.Equal(t, ResponseTypeText, out.ResponseType)
	assert.Contains(t, out.Reply, "MasyaAllah, terima kasih atas pertanyaannya.")
	assert.Contains(t, out.Reply, "Saran tindakan: Perbanyak istighfar")
	assert.Contains(t, out.Reply, "Sumber: guidance (kb_id: 1)")
	assert.Empty(t, out.Reason)
	assert.Equal(t, "conv-1", out.ConversationID)

	require.Len(t, out.Sources, 1)
	assert.Equal(t, int64(1), out.Sources[0].KBID)
	assert.GreaterOrEqual(t, out.Sources[0].Score, 0.25)
	assert.NotEmpty(t, out.Candidates)

	dispatcher.AssertExpectations(t)
	chatLogs.AssertExpectations(t)
}

// TestChatService_Ask_FallbackVerse verifies the verse fallback path
func TestChatService_Ask_FallbackVerse(t *testing.T) {
	fallback := new(MockVerseResolver)
	fallback.On("Resolve", mock.Anything, "topik yang sama sekali asing").Return(&ranking.ScoredCandidate{
		Item: &domain.KnowledgeItem{
			ID:           5555,
			ContentType:  domain.ContentTypeQuranAyah,
			ContentID:    5555,
			GuidanceText: "Sesungguhnya bersama kesulitan ada kemudahan.\n\n(QS. Asy-Syarh:6)",
		},
		Score: 0.51,
	}, nil)

	dispatcher := new(MockFeedbackDispatcher)
	svc := newTestChatService(knowledgeSnapshot(), fallback, dispatcher, nil)

	out, err := svc.Ask(context.Background(), AskInput{
		Message:        "topik yang sama sekali asing",
		ConversationID: "conv-2",
	})

	require.NoError(t, err)
	assert.Equal(t, ResponseTypeQuranReference, out.ResponseType)
	assert.Equal(t, ReasonFallbackQuran, out.Reason)
	assert.Contains(t, out.Reply, "(QS. Asy-Syarh:6)")

	require.Len(t, out.Sources, 1)
	assert.Equal(t, int64(5555), out.Sources[0].KBID)

	// Fallback verses are not knowledge rows; no implicit feedback.
	dispatcher.AssertNotCalled(t, "Dispatch", mock.Anything, mock.Anything)
	fallback.AssertExpectations(t)
}

// TestChatService_Ask_Apology verifies the last-resort apology
func TestChatService_Ask_Apology(t *testing.T) {
	fallback := new(MockVerseResolver)
	fallback.On("Resolve", mock.Anything, mock.Anything).Return(nil, nil)

	svc := newTestChatService(knowledgeSnapshot(), fallback, nil, nil)

	out, err := svc.Ask(context.Background(), AskInput{Message: "topik asing sekali"})

	require.NoError(t, err)
	assert.Equal(t, ApologyReply, out.Reply)
	assert.Equal(t, ResponseTypeText, out.ResponseType)
	assert.Equal(t, ReasonLowSimilarity, out.Reason)
	assert.Empty(t, out.Sources)
}

// TestChatService_Ask_EmptyMessage verifies validation
func TestChatService_Ask_EmptyMessage(t *testing.T) {
	svc := newTestChatService(knowledgeSnapshot(), new(MockVerseResolver), nil, nil)

	out, err := svc.Ask(context.Background(), AskInput{Message: "   "})

	assert.Nil(t, out)
	assert.ErrorIs(t, err, domain.ErrEmptyMessage)
}

// TestChatService_Ask_GeneratesConversationID verifies a missing id is filled in
func TestChatService_Ask_GeneratesConversationID(t *testing.T) {
	fallback := new(MockVerseResolver)
	fallback.On("Resolve", mock.Anything, mock.Anything).Return(nil, nil)

	uuidGen := new(MockUUIDGenerator)
	uuidGen.On("NewString").Return("generated-conversation-id")

	svc := newTestChatService(knowledgeSnapshot(), fallback, nil, nil)
	svc.uuidGen = uuidGen

	out, err := svc.Ask(context.Background(), AskInput{Message: "topik asing sekali"})

	require.NoError(t, err)
	assert.Equal(t, "generated-conversation-id", out.ConversationID)
	uuidGen.AssertExpectations(t)
}

// TestChatService_Ask_FallbackErrorPropagates verifies resolver errors surface
func TestChatService_Ask_FallbackErrorPropagates(t *testing.T) {
	fallback := new(MockVerseResolver)
	fallback.On("Resolve", mock.Anything, mock.Anything).
		Return(nil, domain.NewDomainErrorWithCause(domain.ErrCodeSourceUnavailable, "verse lookup failed", errors.New("down")))

	svc := newTestChatService(knowledgeSnapshot(), fallback, nil, nil)

	out, err := svc.Ask(context.Background(), AskInput{Message: "topik asing sekali"})

	assert.Nil(t, out)
	var domainErr *domain.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, domain.ErrCodeSourceUnavailable, domainErr.Code)
}

// TestChatService_Ask_LogFailureDoesNotFailAnswer verifies best-effort logging
func TestChatService_Ask_LogFailureDoesNotFailAnswer(t *testing.T) {
	fallback := new(MockVerseResolver)
	fallback.On("Resolve", mock.Anything, mock.Anything).Return(nil, nil)

	chatLogs := new(MockChatLogRepository)
	chatLogs.On("CreateChatLog", mock.Anything, mock.Anything).Return("", errors.New("insert failed"))

	svc := newTestChatService(knowledgeSnapshot(), fallback, nil, chatLogs)

	out, err := svc.Ask(context.Background(), AskInput{Message: "topik asing sekali"})

	require.NoError(t, err)
	assert.Equal(t, ApologyReply, out.Reply)
	chatLogs.AssertExpectations(t)
}

// TestChatService_Ask_EmotionBoostPrefersTrigger verifies emotion steering
func TestChatService_Ask_EmotionBoostPrefersTrigger(t *testing.T) {
	items := []*domain.KnowledgeItem{
		{ID: 1, ContentType: domain.ContentTypeGuidance, EmotionTrigger: "sedih", GuidanceText: "sabar dan doa"},
		{ID: 2, ContentType: domain.ContentTypeGuidance, GuidanceText: "sabar dan doa"},
	}
	snap := index.NewSnapshot(items, 0)

	dispatcher := new(MockFeedbackDispatcher)
	dispatcher.On("Dispatch", int64(1), mock.Anything).Return()

	svc := newTestChatService(snap, new(MockVerseResolver), dispatcher, nil)

	out, err := svc.Ask(context.Background(), AskInput{Message: "sabar doa", UserEmotion: "sedih"})

	require.NoError(t, err)
	require.Len(t, out.Sources, 1)
	assert.Equal(t, int64(1), out.Sources[0].KBID)
	dispatcher.AssertExpectations(t)
}
