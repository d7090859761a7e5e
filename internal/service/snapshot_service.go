package service

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/solar-ticketing/internal/domain"
	"github.com/spec-kit/solar-ticketing/internal/engine"
	"github.com/spec-kit/solar-ticketing/internal/events"
	"github.com/spec-kit/solar-ticketing/internal/persistence"
	"github.com/spec-kit/solar-ticketing/internal/repository"
)

// SnapshotService holds the in-memory ticket collection that filtering
// and aggregation operate on. The snapshot is replaced wholesale on
// refresh; readers always see either the old or the new collection,
// never a partial update. A filter applied mid-refresh simply uses the
// pre-refresh snapshot.
type SnapshotService struct {
	tickets repository.TicketRepository
	engine  *engine.Engine
	cache   *persistence.Redis
	logger  *zap.Logger
	ttl     time.Duration

	mu        sync.RWMutex
	snapshot  []domain.Ticket
	fetchedAt time.Time
	stale     bool
}

// NewSnapshotService constructs the service.
func NewSnapshotService(tickets repository.TicketRepository, eng *engine.Engine, cache *persistence.Redis, ttl time.Duration, logger *zap.Logger) *SnapshotService {
	return &SnapshotService{
		tickets: tickets,
		engine:  eng,
		cache:   cache,
		logger:  logger,
		ttl:     ttl,
		stale:   true,
	}
}

// SubscribeInvalidation marks the snapshot stale whenever a ticket
// mutation event is published.
func (s *SnapshotService) SubscribeInvalidation(dispatcher events.Dispatcher) {
	if dispatcher == nil {
		return
	}
	invalidate := func(ctx context.Context, event events.Event) error {
		s.mu.Lock()
		s.stale = true
		s.mu.Unlock()
		return nil
	}
	dispatcher.Subscribe(events.EventTicketCreated, invalidate)
	dispatcher.Subscribe(events.EventTicketUpdated, invalidate)
	dispatcher.Subscribe(events.EventTicketStatusChanged, invalidate)
}

// Refresh reloads the snapshot from the repository.
func (s *SnapshotService) Refresh(ctx context.Context) error {
	tickets, err := s.tickets.ListAll(ctx)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.snapshot = tickets
	s.fetchedAt = time.Now()
	s.stale = false
	s.mu.Unlock()
	s.logger.Debug("ticket snapshot refreshed", zap.Int("count", len(tickets)))
	return nil
}

// EnsureFresh refreshes only when a mutation has invalidated the
// snapshot since the last load.
func (s *SnapshotService) EnsureFresh(ctx context.Context) error {
	s.mu.RLock()
	stale := s.stale
	s.mu.RUnlock()
	if !stale {
		return nil
	}
	return s.Refresh(ctx)
}

// Snapshot returns the current ticket collection. The returned slice
// must be treated as immutable.
func (s *SnapshotService) Snapshot() []domain.Ticket {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot
}

// ScopedTickets applies only the ownership scope. Stat cards aggregate
// over this set so click-to-filter counts stay accurate regardless of
// any active search or date filter.
func (s *SnapshotService) ScopedTickets(user *domain.User, scope engine.OwnershipScope) []domain.Ticket {
	return s.engine.ApplyFilters(s.Snapshot(), engine.NewFilterState(scope), user)
}

// FilteredTickets applies the full filter state.
func (s *SnapshotService) FilteredTickets(user *domain.User, state engine.FilterState) []domain.Ticket {
	return s.engine.ApplyFilters(s.Snapshot(), state, user)
}

// Stats computes dashboard stats over the ownership-scoped collection,
// consulting the Redis cache first. Cache failures degrade to a fresh
// computation.
func (s *SnapshotService) Stats(ctx context.Context, user *domain.User, scope engine.OwnershipScope) (engine.Stats, error) {
	key := statsCacheKey(user, scope)
	if cached, err := s.cache.GetCached(ctx, key); err != nil {
		s.logger.Warn("stats cache read failed", zap.Error(err))
	} else if cached != "" {
		var stats engine.Stats
		if err := json.Unmarshal([]byte(cached), &stats); err == nil {
			return stats, nil
		}
	}

	stats := s.engine.ComputeStats(s.ScopedTickets(user, scope))

	if payload, err := json.Marshal(stats); err == nil {
		if err := s.cache.SetCached(ctx, key, string(payload), s.ttl); err != nil {
			s.logger.Warn("stats cache write failed", zap.Error(err))
		}
	}
	return stats, nil
}

func statsCacheKey(user *domain.User, scope engine.OwnershipScope) string {
	if scope == engine.ScopeMine && user != nil {
		return "stats:mine:" + user.ID
	}
	return "stats:all"
}
