package store

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/servicedesk/sla-agent/internal/domain"
	"github.com/servicedesk/sla-agent/internal/events"
	"github.com/servicedesk/sla-agent/internal/repository"
	"github.com/servicedesk/sla-agent/internal/sla"
)

// Store owns the current ticket snapshot. Reads are lock-free; reloads
// publish a new snapshot by swapping the pointer.
type Store struct {
	source      repository.RawTicketSource
	normalizer  *sla.Normalizer
	dispatcher  events.Dispatcher
	logger      *zap.Logger
	loadTimeout time.Duration

	current atomic.Pointer[Snapshot]
	loaded  atomic.Bool
}

// Dependencies bundles collaborators for the store.
type Dependencies struct {
	Source      repository.RawTicketSource
	Normalizer  *sla.Normalizer
	Dispatcher  events.Dispatcher
	Logger      *zap.Logger
	LoadTimeout time.Duration
}

// New constructs a store holding an empty snapshot until the first Reload.
func New(deps Dependencies) *Store {
	if deps.Source == nil {
		panic("store: source is required")
	}
	if deps.Normalizer == nil {
		deps.Normalizer = sla.NewNormalizer()
	}
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	s := &Store{
		source:      deps.Source,
		normalizer:  deps.Normalizer,
		dispatcher:  deps.Dispatcher,
		logger:      deps.Logger,
		loadTimeout: deps.LoadTimeout,
	}
	s.current.Store(NewSnapshot(nil, deps.Source.Name(), time.Time{}))
	return s
}

// Current returns the latest published snapshot. It is never nil.
func (s *Store) Current() *Snapshot {
	return s.current.Load()
}

// Reload reads the dataset, normalizes it and publishes the result. A failed
// first load publishes an empty snapshot; a failed refresh keeps the previous one.
func (s *Store) Reload(ctx context.Context) error {
	if s.loadTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.loadTimeout)
		defer cancel()
	}

	raw, err := s.source.Load(ctx)
	if err != nil {
		err = fmt.Errorf("load dataset from %s: %w", s.source.Name(), err)
		if s.loaded.CompareAndSwap(false, true) {
			s.logger.Warn("dataset unavailable, serving empty ticket set", zap.Error(err))
			s.current.Store(NewSnapshot(nil, s.source.Name(), time.Now().UTC()))
		} else {
			s.logger.Warn("dataset refresh failed, keeping previous snapshot", zap.Error(err))
		}
		s.publish(ctx, events.NewEvent(events.EventSnapshotLoadFailed, events.SnapshotLoadFailedPayload{
			Source: s.source.Name(),
			Error:  err.Error(),
		}))
		return err
	}

	tickets := s.normalizer.NormalizeAll(raw)
	snap := NewSnapshot(tickets, s.source.Name(), time.Now().UTC())
	s.current.Store(snap)
	s.loaded.Store(true)

	s.logger.Info("ticket snapshot published",
		zap.String("source", snap.Source),
		zap.Int("tickets", snap.Len()))
	s.publish(ctx, events.NewEvent(events.EventSnapshotPublished, publishedPayload(snap)))
	return nil
}

func (s *Store) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if err := s.dispatcher.Publish(ctx, event); err != nil {
		s.logger.Warn("event handler failed", zap.String("event_type", string(event.Type)), zap.Error(err))
	}
}

func publishedPayload(snap *Snapshot) events.SnapshotPublishedPayload {
	payload := events.SnapshotPublishedPayload{
		Source:      snap.Source,
		Total:       snap.Len(),
		BreachedIDs: []string{},
		AtRiskIDs:   []string{},
	}
	for _, t := range snap.Tickets {
		switch t.Status {
		case domain.SLAStatusBreached:
			payload.BreachedIDs = append(payload.BreachedIDs, t.ID)
		case domain.SLAStatusAtRisk:
			payload.AtRiskIDs = append(payload.AtRiskIDs, t.ID)
		}
	}
	payload.Breached = len(payload.BreachedIDs)
	payload.AtRisk = len(payload.AtRiskIDs)
	return payload
}
