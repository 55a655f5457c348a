package store

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/servicedesk/sla-agent/internal/domain"
	"github.com/servicedesk/sla-agent/internal/events"
	"github.com/servicedesk/sla-agent/internal/sla"
)

type stubSource struct {
	records []domain.RawTicket
	err     error
}

func (s *stubSource) Name() string { return "stub" }

func (s *stubSource) Load(ctx context.Context) ([]domain.RawTicket, error) {
	return s.records, s.err
}

var now = time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

func newTestStore(t *testing.T, src *stubSource, dispatcher events.Dispatcher) *Store {
	t.Helper()
	return New(Dependencies{
		Source:     src,
		Normalizer: sla.NewNormalizer(sla.WithClock(func() time.Time { return now })),
		Dispatcher: dispatcher,
		Logger:     zaptest.NewLogger(t),
	})
}

func TestStoreStartsEmpty(t *testing.T) {
	s := newTestStore(t, &stubSource{}, nil)

	require.NotNil(t, s.Current())
	assert.Equal(t, 0, s.Current().Len())
	assert.NotNil(t, s.Current().Tickets)
}

func TestStoreReload(t *testing.T) {
	src := &stubSource{records: []domain.RawTicket{
		{"id": "INC-001", "priority": "High", "status": "breach"},
		{"id": "INC-002", "priority": "Low", "sla_due": "2025-04-01T00:00:00Z"},
		{"id": "INC-001", "title": "duplicate"},
	}}
	dispatcher := events.NewInMemoryDispatcher()
	var payload events.SnapshotPublishedPayload
	dispatcher.Subscribe(events.EventSnapshotPublished, func(ctx context.Context, e events.Event) error {
		payload = e.Payload.(events.SnapshotPublishedPayload)
		return nil
	})
	s := newTestStore(t, src, dispatcher)

	require.NoError(t, s.Reload(context.Background()))

	snap := s.Current()
	assert.Equal(t, 3, snap.Len())
	ticket, ok := snap.Find("INC-001")
	require.True(t, ok)
	assert.Equal(t, "", ticket.Title)
	_, ok = snap.Find("inc-001")
	assert.False(t, ok)

	assert.Equal(t, 3, payload.Total)
	assert.Equal(t, []string{"INC-001"}, payload.BreachedIDs)
	assert.Equal(t, 1, payload.AtRisk)
}

func TestStoreFirstLoadFailureServesEmpty(t *testing.T) {
	dispatcher := events.NewInMemoryDispatcher()
	failed := false
	dispatcher.Subscribe(events.EventSnapshotLoadFailed, func(ctx context.Context, e events.Event) error {
		failed = true
		return nil
	})
	s := newTestStore(t, &stubSource{err: errors.New("no such file")}, dispatcher)

	err := s.Reload(context.Background())

	assert.ErrorContains(t, err, "no such file")
	assert.True(t, failed)
	assert.Equal(t, 0, s.Current().Len())
	assert.False(t, s.Current().LoadedAt.IsZero())
}

func TestStoreRefreshFailureKeepsPrevious(t *testing.T) {
	src := &stubSource{records: []domain.RawTicket{{"id": "INC-001"}}}
	s := newTestStore(t, src, nil)
	require.NoError(t, s.Reload(context.Background()))
	before := s.Current()

	src.err = errors.New("redis down")
	require.Error(t, s.Reload(context.Background()))

	assert.Same(t, before, s.Current())
}

func TestStoreConcurrentReaders(t *testing.T) {
	src := &stubSource{records: []domain.RawTicket{{"id": "INC-001"}, {"id": "INC-002"}}}
	s := newTestStore(t, src, nil)
	require.NoError(t, s.Reload(context.Background()))

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				snap := s.Current()
				_, _ = snap.Find("INC-002")
			}
		}()
	}
	for i := 0; i < 5; i++ {
		require.NoError(t, s.Reload(context.Background()))
	}
	wg.Wait()
	assert.Equal(t, 2, s.Current().Len())
}

func TestNewRequiresSource(t *testing.T) {
	assert.Panics(t, func() { New(Dependencies{}) })
}
