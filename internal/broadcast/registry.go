// Package broadcast pushes fleet updates to live subscribers on a schedule.
package broadcast

import (
	"context"
	"log/slog"
	"sync"

	"metrolive.dev/internal/logging"
)

// Subscriber receives broadcast messages. Send must be safe to call from
// one goroutine while others register or unregister subscribers.
type Subscriber interface {
	ID() string
	Send(ctx context.Context, msg any) error
}

// Registry holds the live subscribers. Its lock is never held while sending.
type Registry struct {
	mu          sync.RWMutex
	subscribers map[string]Subscriber
	order       []string
	logger      *slog.Logger
}

func NewRegistry(logger *slog.Logger) *Registry {
	return &Registry{
		subscribers: make(map[string]Subscriber),
		logger:      logging.ForComponent(logger, "subscriber_registry"),
	}
}

// Register adds s. Registering the same id twice keeps a single entry.
func (r *Registry) Register(s Subscriber) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.subscribers[s.ID()]; !ok {
		r.order = append(r.order, s.ID())
	}
	r.subscribers[s.ID()] = s
	r.logger.Info("subscriber registered", slog.String("subscriber_id", s.ID()), slog.Int("total", len(r.order)))
}

// Unregister removes s. Removing an unknown subscriber does nothing.
func (r *Registry) Unregister(s Subscriber) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.remove(s.ID())
}

func (r *Registry) remove(id string) {
	if _, ok := r.subscribers[id]; !ok {
		return
	}
	delete(r.subscribers, id)
	for i, existing := range r.order {
		if existing == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	r.logger.Info("subscriber unregistered", slog.String("subscriber_id", id), slog.Int("total", len(r.order)))
}

func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.order)
}

func (r *Registry) has(id string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.subscribers[id]
	return ok
}

// Broadcast sends msg to every subscriber still registered when its turn
// comes and returns how many deliveries succeeded. Subscribers whose send
// fails are dropped once every delivery has been attempted. Cancelling ctx
// ends the broadcast early without dropping anyone.
func (r *Registry) Broadcast(ctx context.Context, msg any) int {
	r.mu.RLock()
	targets := make([]Subscriber, 0, len(r.order))
	for _, id := range r.order {
		targets = append(targets, r.subscribers[id])
	}
	r.mu.RUnlock()

	delivered := 0
	var failed []Subscriber
	for _, s := range targets {
		if ctx.Err() != nil {
			break
		}
		if !r.has(s.ID()) {
			continue
		}
		if err := s.Send(ctx, msg); err != nil {
			if ctx.Err() != nil {
				break
			}
			logging.LogError(r.logger, "failed to deliver broadcast", err,
				slog.String("subscriber_id", s.ID()))
			failed = append(failed, s)
			continue
		}
		delivered++
	}

	if len(failed) > 0 {
		r.mu.Lock()
		for _, s := range failed {
			// Only drop the instance that failed.
			if current, ok := r.subscribers[s.ID()]; ok && current == s {
				r.remove(s.ID())
			}
		}
		r.mu.Unlock()
	}

	return delivered
}
