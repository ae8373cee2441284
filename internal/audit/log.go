package audit

import (
	"context"
	"log/slog"
	"sync"
	"time"

	id "campusgate/pkg/domain"
	dErrors "campusgate/pkg/domain-errors"
	"campusgate/pkg/requestcontext"
)

// Store is the persistence contract for audit entries. Append assigns the
// entry ID and must produce strictly increasing IDs; Query returns entries
// newest first.
type Store interface {
	Append(ctx context.Context, entry Entry) (Entry, error)
	Query(ctx context.Context, filter Filter) ([]Entry, error)
	CountDenied(ctx context.Context, personID id.PersonID, since time.Time) (int, error)
	DeleteBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// Log wraps a Store with the audit guarantees: one immutable entry per
// recorded attempt, and timestamps that never run backwards within this log
// instance even if the wall clock does.
type Log struct {
	store  Store
	logger *slog.Logger

	mu       sync.Mutex
	lastSeen time.Time
}

func NewLog(store Store, logger *slog.Logger) *Log {
	return &Log{store: store, logger: logger}
}

// Record persists one attempt. The caller supplies everything except the ID
// and final timestamp; Record claims a monotonic timestamp and appends.
// There is no update path: a failed append is reported to the caller and the
// attempt is not considered settled.
//
// The timestamp claim and the append share one critical section: a later ID
// must never carry an earlier timestamp, and the stores rely on appends
// arriving in timestamp order.
func (l *Log) Record(ctx context.Context, entry Entry) (Entry, error) {
	l.mu.Lock()
	now := requestcontext.Now(ctx)
	if !now.After(l.lastSeen) {
		now = l.lastSeen.Add(time.Nanosecond)
	}
	entry.Timestamp = now

	recorded, err := l.store.Append(ctx, entry)
	if err != nil {
		l.mu.Unlock()
		return Entry{}, dErrors.Wrap(dErrors.CodeUnavailable, "audit store unavailable", err)
	}
	l.lastSeen = now
	l.mu.Unlock()

	l.logger.InfoContext(ctx, "access attempt recorded",
		"request_id", requestcontext.RequestID(ctx),
		"entry_id", recorded.ID,
		"gate_id", recorded.GateID,
		"granted", recorded.Decision.Granted,
		"method", recorded.Decision.Method,
		"reason", recorded.Decision.Reason,
	)
	return recorded, nil
}

// Query returns entries matching the filter, newest first. Limit defaults
// to 50 and is capped at 500.
func (l *Log) Query(ctx context.Context, filter Filter) ([]Entry, error) {
	if filter.Limit <= 0 {
		filter.Limit = 50
	}
	if filter.Limit > 500 {
		filter.Limit = 500
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}
	entries, err := l.store.Query(ctx, filter)
	if err != nil {
		return nil, dErrors.Wrap(dErrors.CodeUnavailable, "audit store unavailable", err)
	}
	return entries, nil
}

// RecentDenials counts denied attempts for a person inside the window.
// Used by the verification brute-force guard; computed from the log itself
// rather than a running counter.
func (l *Log) RecentDenials(ctx context.Context, personID id.PersonID, window time.Duration) (int, error) {
	return l.store.CountDenied(ctx, personID, requestcontext.Now(ctx).Add(-window))
}

// Stats recomputes aggregate numbers over the given trailing period.
func (l *Log) Stats(ctx context.Context, period time.Duration) (Stats, error) {
	entries, err := l.store.Query(ctx, Filter{
		From:  requestcontext.Now(ctx).Add(-period),
		Limit: 10000,
	})
	if err != nil {
		return Stats{}, dErrors.Wrap(dErrors.CodeUnavailable, "audit store unavailable", err)
	}

	stats := Stats{
		Period:   period,
		ByMethod: make(map[id.Method]int),
		ByGate:   make(map[id.GateID]int),
	}
	for _, e := range entries {
		stats.Total++
		if e.Decision.Granted {
			stats.Granted++
		} else {
			stats.Denied++
		}
		if e.AlertTriggered {
			stats.Alerts++
		}
		stats.ByMethod[e.Decision.Method]++
		stats.ByGate[e.GateID]++
	}
	return stats, nil
}

// CleanupBefore removes entries older than the cutoff. Maintenance only;
// never called on the decision path.
func (l *Log) CleanupBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	removed, err := l.store.DeleteBefore(ctx, cutoff)
	if err != nil {
		return 0, dErrors.Wrap(dErrors.CodeUnavailable, "audit store unavailable", err)
	}
	l.logger.InfoContext(ctx, "audit retention cleanup completed",
		"request_id", requestcontext.RequestID(ctx),
		"cutoff", cutoff,
		"removed", removed,
		"authority_id", requestcontext.AuthorityID(ctx),
	)
	return removed, nil
}
