package navigation

import (
	"context"
	"log/slog"
	"sync"

	"github.com/samandr77/microservices/bills/internal/entity"
)

const maxEntries = 50

type SessionAccessor interface {
	Session(ctx context.Context) (entity.Session, bool)
}

// History records the routes each session was sent to. The latest entry is
// the page the front end has to render.
type History struct {
	sessions SessionAccessor

	mu      sync.RWMutex
	entries map[string][]entity.Route
}

func NewHistory(sessions SessionAccessor) *History {
	return &History{
		sessions: sessions,
		entries:  make(map[string][]entity.Route),
	}
}

func (h *History) Navigate(ctx context.Context, route entity.Route) {
	s, ok := h.sessions.Session(ctx)
	if !ok {
		slog.WarnContext(ctx, "navigate without session", "route", route)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	entries := append(h.entries[s.Email], route)
	if len(entries) > maxEntries {
		entries = entries[len(entries)-maxEntries:]
	}

	h.entries[s.Email] = entries

	slog.DebugContext(ctx, "navigate", "route", route, "path", route.Path())
}

// Current falls back to the bills list for sessions that never navigated.
func (h *History) Current(email string) entity.Route {
	h.mu.RLock()
	defer h.mu.RUnlock()

	entries := h.entries[email]
	if len(entries) == 0 {
		return entity.RouteBills
	}

	return entries[len(entries)-1]
}
