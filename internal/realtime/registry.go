package realtime

import (
	"context"
	"encoding/json"
	"sync"

	"taskmaster/internal/entity"
	"taskmaster/pkg/logger"
)

// Registry tracks the live sessions of each user. A user may hold any
// number of concurrent sessions; delivery goes to all of them.
type Registry struct {
	mu       sync.RWMutex
	sessions map[string]map[*Session]struct{}
	log      *logger.Logger
}

func NewRegistry(log *logger.Logger) *Registry {
	return &Registry{
		sessions: make(map[string]map[*Session]struct{}),
		log:      log,
	}
}

func (r *Registry) Add(userID string, session *Session) {
	r.mu.Lock()
	defer r.mu.Unlock()
	set, ok := r.sessions[userID]
	if !ok {
		set = make(map[*Session]struct{})
		r.sessions[userID] = set
	}
	set[session] = struct{}{}
}

func (r *Registry) Remove(userID string, session *Session) {
	r.mu.Lock()
	defer r.mu.Unlock()
	set, ok := r.sessions[userID]
	if !ok {
		return
	}
	delete(set, session)
	if len(set) == 0 {
		delete(r.sessions, userID)
	}
}

func (r *Registry) CountForUser(userID string) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions[userID])
}

// Deliver enqueues the payload on every session of the user and
// reports how many accepted it. Sessions with a full outbound buffer
// skip the frame rather than stall delivery.
func (r *Registry) Deliver(userID string, payload []byte) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	delivered := 0
	for session := range r.sessions[userID] {
		if session.TrySend(payload) {
			delivered++
		}
	}
	return delivered
}

type notificationFrame struct {
	Kind string `json:"type"`
	*entity.Notification
}

// Run consumes the subscription and pushes each event to the owner's
// sessions, until the context ends or the subscription closes.
func (r *Registry) Run(ctx context.Context, sub *Subscription) {
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-sub.C:
			if !ok {
				return
			}
			payload, err := json.Marshal(notificationFrame{Kind: "notification", Notification: event.Notification})
			if err != nil {
				r.log.Error("failed to encode notification %d: %v", event.Notification.ID, err)
				continue
			}
			r.Deliver(event.UserID, payload)
		}
	}
}
