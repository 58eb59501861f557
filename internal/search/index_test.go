package search_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"posconsole/internal/domain"
	"posconsole/internal/pkg/logger"
	"posconsole/internal/search"
)

// MockFetcher é uma implementação mock da interface Fetcher.
type MockFetcher struct {
	mock.Mock
}

func (m *MockFetcher) SearchProducts(ctx context.Context, query string) ([]domain.CandidateItem, error) {
	args := m.Called(ctx, query)
	return args.Get(0).([]domain.CandidateItem), args.Error(1)
}

func (m *MockFetcher) SearchInventory(ctx context.Context, pointOfSaleID int64, query string) ([]domain.CandidateItem, error) {
	args := m.Called(ctx, pointOfSaleID, query)
	return args.Get(0).([]domain.CandidateItem), args.Error(1)
}

// fakeClock guarda os timers agendados; Fire executa o último não cancelado.
type fakeClock struct {
	mu     sync.Mutex
	timers []*fakeTimer
}

type fakeTimer struct {
	f       func()
	d       time.Duration
	stopped bool
}

func (t *fakeTimer) Stop() bool {
	wasActive := !t.stopped
	t.stopped = true
	return wasActive
}

func (c *fakeClock) AfterFunc(d time.Duration, f func()) search.Timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &fakeTimer{f: f, d: d}
	c.timers = append(c.timers, t)
	return t
}

func (c *fakeClock) pending() []*fakeTimer {
	c.mu.Lock()
	defer c.mu.Unlock()
	var out []*fakeTimer
	for _, t := range c.timers {
		if !t.stopped {
			out = append(out, t)
		}
	}
	return out
}

func (c *fakeClock) Fire() bool {
	c.mu.Lock()
	var next *fakeTimer
	for _, t := range c.timers {
		if !t.stopped {
			next = t
		}
	}
	if next != nil {
		next.stopped = true
	}
	c.mu.Unlock()

	if next == nil {
		return false
	}
	next.f()
	return true
}

func candidates(ids ...int64) []domain.CandidateItem {
	out := make([]domain.CandidateItem, 0, len(ids))
	for _, id := range ids {
		out = append(out, domain.CandidateItem{ID: id, InventoryID: id, ProductID: id * 10})
	}
	return out
}

func newIndex(f search.Fetcher, clock *fakeClock) *search.Index {
	return search.NewIndex(f, logger.NewNop(), search.Options{Clock: clock, MaxResults: 3})
}

func TestType_DebounceKeepsSingleTimer(t *testing.T) {
	fetcher := new(MockFetcher)
	clock := &fakeClock{}
	idx := newIndex(fetcher, clock)
	idx.SetScope(search.Scope{TransactionType: domain.TransactionSale, PointOfSaleID: 4})

	fetcher.On("SearchInventory", mock.Anything, int64(4), "yerb").Return(candidates(1, 2), nil).Once()

	idx.Type(context.Background(), "ye")
	idx.Type(context.Background(), "yer")
	idx.Type(context.Background(), "yerb")

	pending := clock.pending()
	require.Len(t, pending, 1)
	assert.Equal(t, search.DefaultDebounce, pending[0].d)

	assert.True(t, clock.Fire())
	assert.Len(t, idx.Results(), 2)
	fetcher.AssertExpectations(t)
}

func TestType_ShortQueryClearsResultsWithoutRequest(t *testing.T) {
	fetcher := new(MockFetcher)
	clock := &fakeClock{}
	idx := newIndex(fetcher, clock)
	idx.SetScope(search.Scope{TransactionType: domain.TransactionRestock})

	fetcher.On("SearchProducts", mock.Anything, "ca").Return(candidates(1), nil).Once()
	idx.Type(context.Background(), "ca")
	clock.Fire()
	require.Len(t, idx.Results(), 1)

	idx.Type(context.Background(), " c ")

	assert.Empty(t, clock.pending())
	assert.Empty(t, idx.Results())
	fetcher.AssertNumberOfCalls(t, "SearchProducts", 1)
}

func TestType_RestockUsesProductSearch(t *testing.T) {
	fetcher := new(MockFetcher)
	clock := &fakeClock{}
	idx := newIndex(fetcher, clock)
	idx.SetScope(search.Scope{TransactionType: domain.TransactionRestock, PointOfSaleID: 9})

	fetcher.On("SearchProducts", mock.Anything, "leche").Return(candidates(5), nil).Once()

	idx.Type(context.Background(), "  leche ")
	clock.Fire()

	assert.Len(t, idx.Results(), 1)
	fetcher.AssertNotCalled(t, "SearchInventory", mock.Anything, mock.Anything, mock.Anything)
}

func TestType_FailureClearsResults(t *testing.T) {
	fetcher := new(MockFetcher)
	clock := &fakeClock{}
	idx := newIndex(fetcher, clock)
	idx.SetScope(search.Scope{TransactionType: domain.TransactionSale, PointOfSaleID: 1})

	fetcher.On("SearchInventory", mock.Anything, int64(1), "pan").Return(candidates(1), nil).Once()
	fetcher.On("SearchInventory", mock.Anything, int64(1), "pane").Return([]domain.CandidateItem(nil), errors.New("timeout")).Once()

	idx.Type(context.Background(), "pan")
	clock.Fire()
	require.Len(t, idx.Results(), 1)

	idx.Type(context.Background(), "pane")
	clock.Fire()

	assert.Empty(t, idx.Results())
}

func TestSearch_CapsResults(t *testing.T) {
	fetcher := new(MockFetcher)
	idx := newIndex(fetcher, &fakeClock{})

	fetcher.On("SearchInventory", mock.Anything, int64(2), "agua").Return(candidates(1, 2, 3, 4, 5), nil)

	items, err := idx.Search(context.Background(), search.Scope{TransactionType: domain.TransactionTransfer, PointOfSaleID: 2}, "agua")

	assert.NoError(t, err)
	assert.Len(t, items, 3)
}

func TestSearch_Fail_InventoryWithoutPointOfSale(t *testing.T) {
	fetcher := new(MockFetcher)
	idx := newIndex(fetcher, &fakeClock{})

	_, err := idx.Search(context.Background(), search.Scope{TransactionType: domain.TransactionSale}, "agua")

	assert.Error(t, err)
	fetcher.AssertNotCalled(t, "SearchInventory", mock.Anything, mock.Anything, mock.Anything)
}

func TestSelect_CancelsPendingTimer(t *testing.T) {
	fetcher := new(MockFetcher)
	clock := &fakeClock{}
	idx := newIndex(fetcher, clock)
	idx.SetScope(search.Scope{TransactionType: domain.TransactionSale, PointOfSaleID: 1})

	fetcher.On("SearchInventory", mock.Anything, int64(1), "arroz").Return(candidates(7, 8), nil).Once()
	idx.Type(context.Background(), "arroz")
	clock.Fire()

	idx.Type(context.Background(), "arroz integral")
	c, ok := idx.Select(8)

	assert.True(t, ok)
	assert.Equal(t, int64(8), c.ID)
	assert.Empty(t, clock.pending())
	assert.Empty(t, idx.Results())
	fetcher.AssertNumberOfCalls(t, "SearchInventory", 1)
}

func TestSelect_UnknownCandidate(t *testing.T) {
	idx := newIndex(new(MockFetcher), &fakeClock{})

	_, ok := idx.Select(42)

	assert.False(t, ok)
}

func TestSetScope_ClearsState(t *testing.T) {
	fetcher := new(MockFetcher)
	clock := &fakeClock{}
	idx := newIndex(fetcher, clock)
	idx.SetScope(search.Scope{TransactionType: domain.TransactionSale, PointOfSaleID: 1})

	fetcher.On("SearchInventory", mock.Anything, int64(1), "sal").Return(candidates(1), nil).Once()
	idx.Type(context.Background(), "sal")
	clock.Fire()
	idx.Type(context.Background(), "sal fina")

	idx.SetScope(search.Scope{TransactionType: domain.TransactionSale, PointOfSaleID: 2})

	assert.Empty(t, idx.Results())
	assert.Empty(t, idx.Query())
	assert.Empty(t, clock.pending())
}

// blockingFetcher segura cada resposta até o teste liberá-la.
type blockingFetcher struct {
	started chan string
	release map[string]chan []domain.CandidateItem
}

func (f *blockingFetcher) SearchProducts(ctx context.Context, query string) ([]domain.CandidateItem, error) {
	return f.SearchInventory(ctx, 0, query)
}

func (f *blockingFetcher) SearchInventory(_ context.Context, _ int64, query string) ([]domain.CandidateItem, error) {
	f.started <- query
	return <-f.release[query], nil
}

func TestType_OutOfOrderResponseIsDiscarded(t *testing.T) {
	fetcher := &blockingFetcher{
		started: make(chan string, 2),
		release: map[string]chan []domain.CandidateItem{
			"le":  make(chan []domain.CandidateItem),
			"lec": make(chan []domain.CandidateItem),
		},
	}
	clock := &fakeClock{}
	idx := newIndex(fetcher, clock)
	idx.SetScope(search.Scope{TransactionType: domain.TransactionSale, PointOfSaleID: 1})

	var wg sync.WaitGroup
	fireAsync := func() {
		wg.Add(1)
		go func() {
			defer wg.Done()
			clock.Fire()
		}()
	}

	idx.Type(context.Background(), "le")
	fireAsync()
	require.Equal(t, "le", <-fetcher.started)

	idx.Type(context.Background(), "lec")
	fireAsync()
	require.Equal(t, "lec", <-fetcher.started)

	// A resposta mais nova chega primeiro; a antiga chega depois e deve ser ignorada.
	fetcher.release["lec"] <- candidates(2)
	fetcher.release["le"] <- candidates(1, 3)
	wg.Wait()

	results := idx.Results()
	require.Len(t, results, 1)
	assert.Equal(t, int64(2), results[0].ID)
}

func TestReset_CancelsPendingSearch(t *testing.T) {
	fetcher := new(MockFetcher)
	clock := &fakeClock{}
	idx := newIndex(fetcher, clock)
	idx.SetScope(search.Scope{TransactionType: domain.TransactionSale, PointOfSaleID: 4})

	idx.Type(context.Background(), "yerba")
	require.Len(t, clock.pending(), 1)

	idx.Reset()

	assert.Empty(t, clock.pending())
	assert.False(t, clock.Fire())
	assert.Empty(t, idx.Query())
	assert.Empty(t, idx.Results())
	fetcher.AssertNotCalled(t, "SearchInventory", mock.Anything, mock.Anything, mock.Anything)
}
