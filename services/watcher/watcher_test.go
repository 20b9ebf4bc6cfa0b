package watcher

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"internship-watcher/internal/extractor"
	apperr "internship-watcher/pkg/errors"
	"internship-watcher/services/notifier"
	"internship-watcher/services/store"
)

// mockExtractor returns canned listings
type mockExtractor struct {
	listings []extractor.Listing
	err      error
}

var _ extractor.Extractor = (*mockExtractor)(nil)

func (m *mockExtractor) Extract(ctx context.Context) ([]extractor.Listing, error) {
	return m.listings, m.err
}

// mockNotifier records delivered batches
type mockNotifier struct {
	mu      sync.Mutex
	batches []notifier.Batch
	err     error
}

var _ notifier.Notifier = (*mockNotifier)(nil)

func (m *mockNotifier) Notify(ctx context.Context, batch notifier.Batch) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.batches = append(m.batches, batch)
	return nil
}

func (m *mockNotifier) batchIdentifiers() [][]string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([][]string, 0, len(m.batches))
	for _, batch := range m.batches {
		ids := make([]string, 0, len(batch))
		for _, l := range batch {
			ids = append(ids, l.Identifier)
		}
		out = append(out, ids)
	}
	return out
}

func listings(ids ...string) []extractor.Listing {
	out := make([]extractor.Listing, 0, len(ids))
	for _, id := range ids {
		out = append(out, extractor.Listing{Identifier: id, Title: "title-" + id})
	}
	return out
}

func TestRunOnceScenario(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemoryStore()
	not := &mockNotifier{}

	// Run 1: {A, B} against an empty seen-set
	ext := &mockExtractor{listings: listings("A", "B")}
	w := New(ext, st, not, true)

	result, err := w.RunOnce(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, result.Extracted)
	assert.Equal(t, 2, result.New)
	assert.True(t, result.Notified)
	assert.Equal(t, []string{"A", "B"}, st.Identifiers())

	// Run 2: {A, B, C} against the persisted {A, B}
	ext.listings = listings("A", "B", "C")

	result, err = w.RunOnce(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, result.Extracted)
	assert.Equal(t, 1, result.New)
	assert.True(t, result.Notified)
	assert.Equal(t, []string{"A", "B", "C"}, st.Identifiers())

	assert.Equal(t, [][]string{{"A", "B"}, {"C"}}, not.batchIdentifiers())
}

func TestRunOnceNoDuplicateNotification(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemoryStore()
	not := &mockNotifier{}
	w := New(&mockExtractor{listings: listings("A", "B")}, st, not, true)

	_, err := w.RunOnce(ctx)
	require.NoError(t, err)

	// The second run sees the same records and must stay silent
	result, err := w.RunOnce(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, result.New)
	assert.False(t, result.Notified)
	assert.Len(t, not.batchIdentifiers(), 1)
}

func TestRunOnceEmptyExtraction(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemoryStore("A")
	not := &mockNotifier{}
	w := New(&mockExtractor{listings: nil}, st, not, true)

	result, err := w.RunOnce(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, result.Extracted)
	assert.False(t, result.Notified)
	assert.Empty(t, not.batchIdentifiers(), "notifier must never see an empty batch")

	// The store is persisted unchanged
	assert.Equal(t, 1, st.Saves())
	assert.Equal(t, []string{"A"}, st.Identifiers())
}

func TestRunOnceExtractionError(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemoryStore("A")
	not := &mockNotifier{}
	extractErr := apperr.NewExtraction("render timeout", errors.New("deadline exceeded"))
	w := New(&mockExtractor{err: extractErr}, st, not, true)

	_, err := w.RunOnce(ctx)
	assert.True(t, apperr.IsType(err, apperr.ErrorTypeExtraction))

	// No notification, no persistence: the next run retries against an
	// unchanged baseline.
	assert.Empty(t, not.batchIdentifiers())
	assert.Equal(t, 0, st.Saves())
	assert.Equal(t, []string{"A"}, st.Identifiers())
}

func TestRunOnceDeliveryErrorMarksSeen(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemoryStore()
	not := &mockNotifier{err: apperr.NewDelivery("connection refused", nil)}
	w := New(&mockExtractor{listings: listings("A", "B")}, st, not, true)

	result, err := w.RunOnce(ctx)
	require.NoError(t, err, "a delivery failure does not fail the run")
	assert.False(t, result.Notified)
	assert.True(t, apperr.IsType(result.DeliveryErr, apperr.ErrorTypeDelivery))

	// Reference policy: identifiers are marked seen anyway, so the failed
	// batch is never re-sent.
	assert.Equal(t, []string{"A", "B"}, st.Identifiers())
}

func TestRunOnceDeliveryErrorRetryPolicy(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemoryStore()
	not := &mockNotifier{err: apperr.NewDelivery("connection refused", nil)}
	w := New(&mockExtractor{listings: listings("A")}, st, not, false)

	result, err := w.RunOnce(ctx)
	require.NoError(t, err)
	assert.False(t, result.Notified)

	// Retry policy: nothing is marked seen, so the next run re-notifies
	assert.Empty(t, st.Identifiers())

	not.err = nil
	result, err = w.RunOnce(ctx)
	require.NoError(t, err)
	assert.True(t, result.Notified)
	assert.Equal(t, [][]string{{"A"}}, not.batchIdentifiers())
	assert.Equal(t, []string{"A"}, st.Identifiers())
}

func TestRunOnceCorruptStore(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemoryStore()
	st.FailLoadWith(apperr.NewStoreCorrupt("unparseable file", errors.New("invalid json")))
	not := &mockNotifier{}
	w := New(&mockExtractor{listings: listings("A")}, st, not, true)

	result, err := w.RunOnce(ctx)
	require.NoError(t, err, "a corrupt store must not fail the run")
	assert.NotNil(t, result.StoreWarn)
	assert.True(t, result.Notified)
}

func TestRunOncePersistenceError(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemoryStore()
	st.FailSaveWith(errors.New("disk full"))
	not := &mockNotifier{}
	w := New(&mockExtractor{listings: listings("A")}, st, not, true)

	_, err := w.RunOnce(ctx)
	assert.True(t, apperr.IsType(err, apperr.ErrorTypePersistence))
}
