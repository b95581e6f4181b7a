package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/mtqmn/qalbu/internal/domain"
)

// MockKnowledgeRepository is a mock implementation of KnowledgeRepositoryInterface
type MockKnowledgeRepository struct {
	mock.Mock
}

func (m *MockKnowledgeRepository) ListActive(ctx context.Context) ([]*domain.KnowledgeItem, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.KnowledgeItem), args.Error(1)
}

func (m *MockKnowledgeRepository) GetByID(ctx context.Context, id int64) (*domain.KnowledgeItem, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.KnowledgeItem), args.Error(1)
}

func (m *MockKnowledgeRepository) GetForUpdate(ctx context.Context, id int64) (*domain.KnowledgeItem, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.KnowledgeItem), args.Error(1)
}

func (m *MockKnowledgeRepository) UpdateFeedback(ctx context.Context, id int64, usageCount int64, effectiveness float64) error {
	args := m.Called(ctx, id, usageCount, effectiveness)
	return args.Error(0)
}

func (m *MockKnowledgeRepository) CountActive(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

// mockTxRunner runs the transaction function directly against a single mock
// repository, with no real transaction underneath.
type mockTxRunner struct {
	knowledge *MockKnowledgeRepository
	txErr     error
}

func (r *mockTxRunner) WithTx(ctx context.Context, fn func(repos TxRepositories) error) error {
	if r.txErr != nil {
		return r.txErr
	}
	return fn(mockTxRepos{knowledge: r.knowledge})
}

type mockTxRepos struct {
	knowledge *MockKnowledgeRepository
}

func (r mockTxRepos) Knowledge() KnowledgeRepositoryInterface {
	return r.knowledge
}

func ratingPtr(v float64) *float64 { return &v }

// TestFeedbackService_Apply verifies the running-mean update
func TestFeedbackService_Apply(t *testing.T) {
	repo := new(MockKnowledgeRepository)
	repo.On("GetForUpdate", mock.Anything, int64(42)).Return(&domain.KnowledgeItem{
		ID:                 42,
		UsageCount:         3,
		EffectivenessScore: 0.6,
	}, nil)
	repo.On("UpdateFeedback", mock.Anything, int64(42), int64(4), mock.MatchedBy(func(eff float64) bool {
		return eff > 0.699 && eff < 0.701
	})).Return(nil)

	svc := NewFeedbackService(&mockTxRunner{knowledge: repo})
	result, err := svc.Apply(context.Background(), 42, domain.FeedbackSignal{Rating: ratingPtr(5)})

	require.NoError(t, err)
	assert.Equal(t, int64(42), result.ItemID)
	assert.Equal(t, int64(4), result.UsageCount)
	assert.InDelta(t, 0.7, result.EffectivenessScore, 1e-9)
	repo.AssertExpectations(t)
}

// TestFeedbackService_Apply_HelpfulFlag verifies a helpful=false signal
// lowers the mean
func TestFeedbackService_Apply_HelpfulFlag(t *testing.T) {
	repo := new(MockKnowledgeRepository)
	repo.On("GetForUpdate", mock.Anything, int64(7)).Return(&domain.KnowledgeItem{
		ID:                 7,
		UsageCount:         1,
		EffectivenessScore: 1.0,
	}, nil)
	repo.On("UpdateFeedback", mock.Anything, int64(7), int64(2), 0.5).Return(nil)

	svc := NewFeedbackService(&mockTxRunner{knowledge: repo})
	result, err := svc.Apply(context.Background(), 7, domain.FeedbackSignal{Helpful: false})

	require.NoError(t, err)
	assert.InDelta(t, 0.5, result.EffectivenessScore, 1e-9)
	repo.AssertExpectations(t)
}

// TestFeedbackService_Apply_MissingID verifies the id guard
func TestFeedbackService_Apply_MissingID(t *testing.T) {
	svc := NewFeedbackService(&mockTxRunner{knowledge: new(MockKnowledgeRepository)})

	result, err := svc.Apply(context.Background(), 0, domain.FeedbackSignal{Helpful: true})

	assert.Nil(t, result)
	assert.ErrorIs(t, err, domain.ErrMissingFeedbackID)
}

// TestFeedbackService_Apply_NotFound verifies unknown items return NOT_FOUND
func TestFeedbackService_Apply_NotFound(t *testing.T) {
	repo := new(MockKnowledgeRepository)
	repo.On("GetForUpdate", mock.Anything, int64(999)).Return(nil, domain.ErrKnowledgeNotFound)

	svc := NewFeedbackService(&mockTxRunner{knowledge: repo})
	result, err := svc.Apply(context.Background(), 999, domain.FeedbackSignal{Helpful: true})

	assert.Nil(t, result)
	assert.ErrorIs(t, err, domain.ErrKnowledgeNotFound)
	repo.AssertNotCalled(t, "UpdateFeedback", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}
