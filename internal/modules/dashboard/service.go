package dashboard

import (
	"context"

	"travelbook/internal/domain"
	"travelbook/internal/pkg/authz"
)

type BookingStatsReader interface {
	CountByStatus(ctx context.Context, userID string) (map[domain.BookingStatus]int64, error)
}

type EscalationStatsReader interface {
	CountPendingEscalations(ctx context.Context) (int64, error)
}

type statsCache interface {
	Get(ctx context.Context, key string) (*Stats, bool)
	Set(ctx context.Context, key string, stats *Stats)
}

// Stats is the dashboard aggregate over the caller's visible set.
type Stats struct {
	Pending   int64 `json:"pending"`
	Confirmed int64 `json:"confirmed"`
	Cancelled int64 `json:"cancelled"`
	Completed int64 `json:"completed"`
	Total     int64 `json:"total"`

	// Only populated for admins.
	PendingEscalations *int64 `json:"pending_escalations,omitempty"`
}

// Service is a pure read-side projection; it never mutates lifecycle
// state.
type Service struct {
	bookings    BookingStatsReader
	escalations EscalationStatsReader
	cache       statsCache
}

func NewService(bookings BookingStatsReader, escalations EscalationStatsReader, cache statsCache) *Service {
	return &Service{
		bookings:    bookings,
		escalations: escalations,
		cache:       cache,
	}
}

// Stats returns booking counts by status. Travelers see their own
// bookings; staff see the whole set; admins additionally get the
// pending escalation count.
func (s *Service) Stats(ctx context.Context, actorID string, role domain.Role) (*Stats, error) {
	scope := actorID
	if authz.Authorize(role, authz.OpListAllBookings, false) == nil {
		scope = ""
	}

	cacheKey := scope
	if cacheKey == "" {
		cacheKey = "all"
	}
	if role == domain.RoleAdmin {
		cacheKey = "admin:" + cacheKey
	}
	if s.cache != nil {
		if cached, ok := s.cache.Get(ctx, cacheKey); ok {
			return cached, nil
		}
	}

	counts, err := s.bookings.CountByStatus(ctx, scope)
	if err != nil {
		return nil, err
	}

	stats := &Stats{
		Pending:   counts[domain.BookingPending],
		Confirmed: counts[domain.BookingConfirmed],
		Cancelled: counts[domain.BookingCancelled],
		Completed: counts[domain.BookingCompleted],
	}
	stats.Total = stats.Pending + stats.Confirmed + stats.Cancelled + stats.Completed

	if role == domain.RoleAdmin {
		pending, err := s.escalations.CountPendingEscalations(ctx)
		if err != nil {
			return nil, err
		}
		stats.PendingEscalations = &pending
	}

	if s.cache != nil {
		s.cache.Set(ctx, cacheKey, stats)
	}
	return stats, nil
}
