package jobs

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/mtqmn/qalbu/internal/domain"
	"github.com/mtqmn/qalbu/internal/service"
)

// MockFeedbackApplier is a mock implementation of FeedbackApplier
type MockFeedbackApplier struct {
	mock.Mock
}

func (m *MockFeedbackApplier) Apply(ctx context.Context, itemID int64, signal domain.FeedbackSignal) (*service.FeedbackResult, error) {
	args := m.Called(ctx, itemID, signal)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.FeedbackResult), args.Error(1)
}

// TestFeedbackDispatcher_AppliesQueuedSignals verifies end-to-end dispatch
func TestFeedbackDispatcher_AppliesQueuedSignals(t *testing.T) {
	applied := make(chan int64, 2)

	applier := new(MockFeedbackApplier)
	applier.On("Apply", mock.Anything, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			applied <- args.Get(1).(int64)
		}).
		Return(&service.FeedbackResult{}, nil)

	dispatcher := NewFeedbackDispatcher(applier, 8)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		dispatcher.Start(context.Background())
	}()

	dispatcher.Dispatch(1, domain.ImplicitFeedback())
	dispatcher.Dispatch(2, domain.ImplicitFeedback())

	ids := map[int64]bool{}
	for i := 0; i < 2; i++ {
		select {
		case id := <-applied:
			ids[id] = true
		case <-time.After(time.Second):
			t.Fatal("signal was not applied in time")
		}
	}
	assert.True(t, ids[1])
	assert.True(t, ids[2])

	dispatcher.Stop()
	wg.Wait()
}

// TestFeedbackDispatcher_DropsWhenFull verifies Dispatch never blocks
func TestFeedbackDispatcher_DropsWhenFull(t *testing.T) {
	applier := new(MockFeedbackApplier)
	dispatcher := NewFeedbackDispatcher(applier, 1)

	// No consumer is running: the second dispatch must drop, not block.
	done := make(chan struct{})
	go func() {
		defer close(done)
		dispatcher.Dispatch(1, domain.ImplicitFeedback())
		dispatcher.Dispatch(2, domain.ImplicitFeedback())
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Dispatch blocked on a full queue")
	}
	applier.AssertNotCalled(t, "Apply", mock.Anything, mock.Anything, mock.Anything)
}

// TestFeedbackDispatcher_ApplyFailureAbsorbed verifies failures do not stop
// the loop
func TestFeedbackDispatcher_ApplyFailureAbsorbed(t *testing.T) {
	applied := make(chan int64, 2)

	applier := new(MockFeedbackApplier)
	applier.On("Apply", mock.Anything, int64(1), mock.Anything).
		Run(func(args mock.Arguments) { applied <- 1 }).
		Return(nil, errors.New("apply failed"))
	applier.On("Apply", mock.Anything, int64(2), mock.Anything).
		Run(func(args mock.Arguments) { applied <- 2 }).
		Return(&service.FeedbackResult{}, nil)

	dispatcher := NewFeedbackDispatcher(applier, 8)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		dispatcher.Start(context.Background())
	}()

	dispatcher.Dispatch(1, domain.ImplicitFeedback())
	dispatcher.Dispatch(2, domain.ImplicitFeedback())

	for i := 0; i < 2; i++ {
		select {
		case <-applied:
		case <-time.After(time.Second):
			t.Fatal("signal was not applied in time")
		}
	}

	dispatcher.Stop()
	wg.Wait()
	applier.AssertExpectations(t)
}

// TestFeedbackDispatcher_DefaultQueueSize verifies the size floor
func TestFeedbackDispatcher_DefaultQueueSize(t *testing.T) {
	dispatcher := NewFeedbackDispatcher(new(MockFeedbackApplier), 0)
	assert.Equal(t, 256, cap(dispatcher.queue))
}
