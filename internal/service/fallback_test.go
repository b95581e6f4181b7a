package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/mtqmn/qalbu/internal/domain"
)

// MockQuranRepository is a mock implementation of QuranRepositoryInterface
type MockQuranRepository struct {
	mock.Mock
}

func (m *MockQuranRepository) SearchVerses(ctx context.Context, query string, limit int) ([]*domain.QuranVerse, error) {
	args := m.Called(ctx, query, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.QuranVerse), args.Error(1)
}

func testVerse() *domain.QuranVerse {
	return &domain.QuranVerse{
		AyahID:         5555,
		SurahID:        94,
		AyahNumber:     6,
		SurahNumber:    94,
		SurahName:      "Asy-Syarh",
		TextIndonesian: "Sesungguhnya bersama kesulitan ada kemudahan.",
	}
}

// TestFallbackResolver_Resolve verifies a matching verse becomes a synthetic
// candidate
func TestFallbackResolver_Resolve(t *testing.T) {
	repo := new(MockQuranRepository)
	repo.On("SearchVerses", mock.Anything, "kesulitan hidup", 1).
		Return([]*domain.QuranVerse{testVerse()}, nil)

	resolver := NewFallbackResolver(repo, ErrorPolicySwallow)
	hit, err := resolver.Resolve(context.Background(), "kesulitan hidup")

	require.NoError(t, err)
	require.NotNil(t, hit)
	assert.Equal(t, int64(5555), hit.Item.ID)
	assert.Equal(t, domain.ContentTypeQuranAyah, hit.Item.ContentType)
	assert.Equal(t, "Sesungguhnya bersama kesulitan ada kemudahan.\n\n(QS. Asy-Syarh:6)", hit.Item.GuidanceText)
	assert.Equal(t, []string{"Renungkan makna ayat ini", "Perbanyak doa dan dzikir"}, hit.Item.SuggestedActions)
	assert.InDelta(t, 0.51, hit.Score, 1e-9)
	repo.AssertExpectations(t)
}

// TestFallbackResolver_NoMatch verifies an empty result resolves to nil
func TestFallbackResolver_NoMatch(t *testing.T) {
	repo := new(MockQuranRepository)
	repo.On("SearchVerses", mock.Anything, mock.Anything, 1).Return([]*domain.QuranVerse{}, nil)

	resolver := NewFallbackResolver(repo, ErrorPolicySwallow)
	hit, err := resolver.Resolve(context.Background(), "tidak ada")

	require.NoError(t, err)
	assert.Nil(t, hit)
}

// TestFallbackResolver_SwallowPolicy verifies lookup failures degrade to nil
func TestFallbackResolver_SwallowPolicy(t *testing.T) {
	repo := new(MockQuranRepository)
	repo.On("SearchVerses", mock.Anything, mock.Anything, 1).Return(nil, errors.New("connection refused"))

	resolver := NewFallbackResolver(repo, ErrorPolicySwallow)
	hit, err := resolver.Resolve(context.Background(), "sabar")

	require.NoError(t, err)
	assert.Nil(t, hit)
}

// TestFallbackResolver_PropagatePolicy verifies lookup failures surface as
// SOURCE_UNAVAILABLE
func TestFallbackResolver_PropagatePolicy(t *testing.T) {
	repo := new(MockQuranRepository)
	repo.On("SearchVerses", mock.Anything, mock.Anything, 1).Return(nil, errors.New("connection refused"))

	resolver := NewFallbackResolver(repo, ErrorPolicyPropagate)
	hit, err := resolver.Resolve(context.Background(), "sabar")

	require.Error(t, err)
	assert.Nil(t, hit)

	var domainErr *domain.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, domain.ErrCodeSourceUnavailable, domainErr.Code)
}

// TestFallbackResolver_EmptyPolicyDefaultsToSwallow verifies the default policy
func TestFallbackResolver_EmptyPolicyDefaultsToSwallow(t *testing.T) {
	repo := new(MockQuranRepository)
	repo.On("SearchVerses", mock.Anything, mock.Anything, 1).Return(nil, errors.New("boom"))

	resolver := NewFallbackResolver(repo, "")
	hit, err := resolver.Resolve(context.Background(), "sabar")

	require.NoError(t, err)
	assert.Nil(t, hit)
}
