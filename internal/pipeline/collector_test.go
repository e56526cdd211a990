package pipeline

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/jordan/restaurant-collector/internal/seen"
	"github.com/jordan/restaurant-collector/internal/types"
	"github.com/jordan/restaurant-collector/internal/yelp"
)

type fakeSearcher struct {
	listings map[string][]yelp.Business
	err      error
	searched []string
	onSearch func()
}

func (f *fakeSearcher) Search(_ context.Context, location string) ([]yelp.Business, error) {
	f.searched = append(f.searched, location)
	if f.onSearch != nil {
		f.onSearch()
	}
	if f.err != nil {
		return nil, f.err
	}
	return f.listings[location], nil
}

type finishedRun struct {
	status  string
	written int
	skipped int
	failed  int
}

type fakeStore struct {
	upserted     []types.Restaurant
	failYelpID   string
	marked       map[string][]types.Restaurant
	markErr      error
	runsCreated  []string
	runsFinished []finishedRun
	createRunErr error
}

func newFakeStore() *fakeStore {
	return &fakeStore{marked: map[string][]types.Restaurant{}}
}

func (f *fakeStore) UpsertRestaurant(_ context.Context, r *types.Restaurant) (*types.Restaurant, error) {
	if f.failYelpID != "" && r.YelpID == f.failYelpID {
		return nil, errors.New("constraint violation")
	}
	stored := *r
	stored.ID = uuid.New()
	f.upserted = append(f.upserted, stored)
	return &stored, nil
}

func (f *fakeStore) MarkRestaurantsFound(_ context.Context, userID string, restaurants []types.Restaurant) error {
	if f.markErr != nil {
		return f.markErr
	}
	f.marked[userID] = restaurants
	return nil
}

func (f *fakeStore) CreateCollectionRun(_ context.Context, location string) (uuid.UUID, error) {
	if f.createRunErr != nil {
		return uuid.Nil, f.createRunErr
	}
	f.runsCreated = append(f.runsCreated, location)
	return uuid.New(), nil
}

func (f *fakeStore) FinishCollectionRun(_ context.Context, _ uuid.UUID, status string, written, skipped, failed int) error {
	f.runsFinished = append(f.runsFinished, finishedRun{status, written, skipped, failed})
	return nil
}

type fakeNotifier struct {
	calls  int
	userID string
	batch  []types.Restaurant
	err    error
}

func (f *fakeNotifier) Notify(_ context.Context, userID string, restaurants []types.Restaurant) error {
	f.calls++
	f.userID = userID
	f.batch = restaurants
	return f.err
}

func listing(id, name string) yelp.Business {
	return yelp.Business{
		ID:          id,
		Name:        name,
		Coordinates: &yelp.Coordinates{Latitude: 34.0, Longitude: -118.5},
		Location:    &yelp.Location{DisplayAddress: []string{"123 Main St"}},
		Categories:  []yelp.Category{{Title: "Diner"}},
	}
}

func newTestCollector(t *testing.T, searcher Searcher, store Store, opts Options) *Collector {
	t.Helper()
	if opts.Logger == nil {
		opts.Logger = zap.NewNop().Sugar()
	}
	cache := seen.New(0, 0)
	t.Cleanup(cache.Stop)
	return New(searcher, store, cache, opts)
}

func TestProcessBatch_DeduplicatesWithinBatch(t *testing.T) {
	store := newFakeStore()
	collector := newTestCollector(t, &fakeSearcher{}, store, Options{})

	batch := collector.ProcessBatch(context.Background(), []yelp.Business{
		listing("abc", "Joe's Diner"),
		listing("abc", "Joe's Diner"),
	})

	assert.Equal(t, 1, batch.Written)
	assert.Equal(t, 1, batch.Skipped)
	assert.Equal(t, 0, batch.Failed)
	assert.Len(t, store.upserted, 1)
}

func TestProcessBatch_DeduplicatesAcrossCalls(t *testing.T) {
	store := newFakeStore()
	collector := newTestCollector(t, &fakeSearcher{}, store, Options{})

	listings := []yelp.Business{listing("abc", "Joe's Diner"), listing("def", "Thai Palace")}
	first := collector.ProcessBatch(context.Background(), listings)
	second := collector.ProcessBatch(context.Background(), listings)

	assert.Equal(t, 2, first.Written)
	assert.Equal(t, 0, second.Written)
	assert.Equal(t, 2, second.Skipped)
	assert.Len(t, store.upserted, 2)
}

func TestProcessBatch_PartialFailure(t *testing.T) {
	store := newFakeStore()
	collector := newTestCollector(t, &fakeSearcher{}, store, Options{})

	broken := listing("bad", "No Coordinates Cafe")
	broken.Coordinates = nil

	batch := collector.ProcessBatch(context.Background(), []yelp.Business{
		listing("a", "First"),
		broken,
		listing("c", "Third"),
	})

	assert.Equal(t, 2, batch.Written)
	assert.Equal(t, 1, batch.Failed)
	require.Len(t, batch.Errors, 1)
	assert.Equal(t, "No Coordinates Cafe", batch.Errors[0].Name)

	// Input order is preserved for the successful listings.
	require.Len(t, batch.Restaurants, 2)
	assert.Equal(t, "First", batch.Restaurants[0].Name)
	assert.Equal(t, "Third", batch.Restaurants[1].Name)
}

func TestProcessBatch_StoreFailureDoesNotAbortBatch(t *testing.T) {
	store := newFakeStore()
	store.failYelpID = "b"
	collector := newTestCollector(t, &fakeSearcher{}, store, Options{})

	batch := collector.ProcessBatch(context.Background(), []yelp.Business{
		listing("a", "First"),
		listing("b", "Second"),
		listing("c", "Third"),
	})

	assert.Equal(t, 2, batch.Written)
	assert.Equal(t, 1, batch.Failed)
	require.Len(t, batch.Errors, 1)
	assert.Equal(t, "Second", batch.Errors[0].Name)
}

func TestCollectLocation_Found(t *testing.T) {
	searcher := &fakeSearcher{listings: map[string][]yelp.Business{
		"Santa Monica, CA": {listing("a", "First"), listing("b", "Second")},
	}}
	store := newFakeStore()
	collector := newTestCollector(t, searcher, store, Options{})

	result := collector.CollectLocation(context.Background(), "Santa Monica, CA")

	assert.Equal(t, StatusFound, result.Status)
	assert.Equal(t, "Santa Monica, CA", result.Location)
	assert.Equal(t, 2, result.Batch.Written)
	assert.NoError(t, result.Err)

	assert.Equal(t, []string{"Santa Monica, CA"}, searcher.searched)
	assert.Equal(t, []string{"Santa Monica, CA"}, store.runsCreated)
	require.Len(t, store.runsFinished, 1)
	assert.Equal(t, finishedRun{status: StatusFound, written: 2}, store.runsFinished[0])
}

func TestCollectLocation_Empty(t *testing.T) {
	searcher := &fakeSearcher{}
	store := newFakeStore()
	collector := newTestCollector(t, searcher, store, Options{})

	result := collector.CollectLocation(context.Background(), "Nowhere, KS")

	assert.Equal(t, StatusEmpty, result.Status)
	assert.NoError(t, result.Err)
	assert.NotNil(t, result.Batch.Restaurants)
	assert.Empty(t, result.Batch.Restaurants)
	require.Len(t, store.runsFinished, 1)
	assert.Equal(t, StatusEmpty, store.runsFinished[0].status)
}

func TestCollectLocation_FetchFailed(t *testing.T) {
	searcher := &fakeSearcher{err: errors.New("upstream 429")}
	store := newFakeStore()
	collector := newTestCollector(t, searcher, store, Options{})

	result := collector.CollectLocation(context.Background(), "Santa Monica, CA")

	assert.Equal(t, StatusFetchFailed, result.Status)
	require.Error(t, result.Err)
	assert.Contains(t, result.Err.Error(), "429")
	assert.Empty(t, store.upserted)
	require.Len(t, store.runsFinished, 1)
	assert.Equal(t, StatusFetchFailed, store.runsFinished[0].status)
}

func TestCollectLocation_RunRecordFailureDoesNotAbort(t *testing.T) {
	searcher := &fakeSearcher{listings: map[string][]yelp.Business{
		"Santa Monica, CA": {listing("a", "First")},
	}}
	store := newFakeStore()
	store.createRunErr = errors.New("collection_runs table missing")
	collector := newTestCollector(t, searcher, store, Options{})

	result := collector.CollectLocation(context.Background(), "Santa Monica, CA")

	assert.Equal(t, StatusFound, result.Status)
	assert.Equal(t, 1, result.Batch.Written)
	assert.Empty(t, store.runsFinished)
}

func TestCollectForUser_MarksUserAndNotifies(t *testing.T) {
	searcher := &fakeSearcher{listings: map[string][]yelp.Business{
		"Santa Monica, CA": {listing("a", "First")},
	}}
	store := newFakeStore()
	notifier := &fakeNotifier{}
	collector := newTestCollector(t, searcher, store, Options{Notifier: notifier})

	result := collector.CollectForUser(context.Background(), "Santa Monica, CA", "user-1")

	assert.Equal(t, StatusFound, result.Status)
	require.Contains(t, store.marked, "user-1")
	assert.Len(t, store.marked["user-1"], 1)

	assert.Equal(t, 1, notifier.calls)
	assert.Equal(t, "user-1", notifier.userID)
	require.Len(t, notifier.batch, 1)
	assert.Equal(t, "First", notifier.batch[0].Name)
}

func TestCollectForUser_EmptyResultSkipsFollowups(t *testing.T) {
	searcher := &fakeSearcher{}
	store := newFakeStore()
	notifier := &fakeNotifier{}
	collector := newTestCollector(t, searcher, store, Options{Notifier: notifier})

	result := collector.CollectForUser(context.Background(), "Nowhere, KS", "user-1")

	assert.Equal(t, StatusEmpty, result.Status)
	assert.Empty(t, store.marked)
	assert.Equal(t, 0, notifier.calls)
}

func TestCollectForUser_MarkFailureStillNotifies(t *testing.T) {
	searcher := &fakeSearcher{listings: map[string][]yelp.Business{
		"Santa Monica, CA": {listing("a", "First")},
	}}
	store := newFakeStore()
	store.markErr = errors.New("user not found: user-1")
	notifier := &fakeNotifier{}
	collector := newTestCollector(t, searcher, store, Options{Notifier: notifier})

	result := collector.CollectForUser(context.Background(), "Santa Monica, CA", "user-1")

	assert.Equal(t, StatusFound, result.Status)
	assert.Equal(t, 1, notifier.calls)
}

func TestCollectForUser_NotifierFailureDoesNotChangeResult(t *testing.T) {
	searcher := &fakeSearcher{listings: map[string][]yelp.Business{
		"Santa Monica, CA": {listing("a", "First")},
	}}
	store := newFakeStore()
	notifier := &fakeNotifier{err: errors.New("webhook unreachable")}
	collector := newTestCollector(t, searcher, store, Options{Notifier: notifier})

	result := collector.CollectForUser(context.Background(), "Santa Monica, CA", "user-1")

	assert.Equal(t, StatusFound, result.Status)
	assert.Equal(t, 1, result.Batch.Written)
}

func TestCollectAll_SequentialInOrder(t *testing.T) {
	searcher := &fakeSearcher{listings: map[string][]yelp.Business{
		"Los Angeles, CA":  {listing("a", "First")},
		"Santa Monica, CA": {listing("b", "Second")},
	}}
	store := newFakeStore()
	collector := newTestCollector(t, searcher, store, Options{})

	results := collector.CollectAll(context.Background(), []string{"Los Angeles, CA", "Santa Monica, CA"})

	require.Len(t, results, 2)
	assert.Equal(t, "Los Angeles, CA", results[0].Location)
	assert.Equal(t, "Santa Monica, CA", results[1].Location)
	assert.Equal(t, []string{"Los Angeles, CA", "Santa Monica, CA"}, searcher.searched)
}

func TestCollectAll_StopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	searcher := &fakeSearcher{
		listings: map[string][]yelp.Business{"Los Angeles, CA": {listing("a", "First")}},
		onSearch: cancel,
	}
	store := newFakeStore()
	collector := newTestCollector(t, searcher, store, Options{})

	results := collector.CollectAll(ctx, []string{"Los Angeles, CA", "Santa Monica, CA"})

	require.Len(t, results, 1)
	assert.Equal(t, []string{"Los Angeles, CA"}, searcher.searched)
}

func TestCollectLocation_ProgressEvents(t *testing.T) {
	searcher := &fakeSearcher{listings: map[string][]yelp.Business{
		"Santa Monica, CA": {listing("a", "First"), listing("b", "Second")},
	}}
	store := newFakeStore()
	collector := newTestCollector(t, searcher, store, Options{})

	var events []ProgressEvent
	streaming := collector.WithProgress(func(event ProgressEvent) {
		events = append(events, event)
	})

	streaming.CollectLocation(context.Background(), "Santa Monica, CA")

	require.Len(t, events, 4)
	assert.Equal(t, StageFetching, events[0].Stage)
	assert.Equal(t, "Santa Monica, CA", events[0].Location)
	assert.Equal(t, StageStored, events[1].Stage)
	assert.Equal(t, StageStored, events[2].Stage)
	assert.Equal(t, StageDone, events[3].Stage)

	stored, ok := events[1].Content.(*types.Restaurant)
	require.True(t, ok)
	assert.Equal(t, "First", stored.Name)

	summary, ok := events[3].Content.(BatchResult)
	require.True(t, ok)
	assert.Equal(t, 2, summary.Written)
}
