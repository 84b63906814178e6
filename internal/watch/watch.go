// Package watch implements the subscription side of the stores' live
// queries. Repositories call Notify after every committed write; each
// observer re-runs its query on the matching signal and pushes the fresh
// result to its channel until the observing context is cancelled.
package watch

import (
	"context"
	"sync"
)

type key struct {
	table  string
	userID uint
}

type Hub struct {
	mu   sync.RWMutex
	subs map[key]map[chan struct{}]struct{}
}

func NewHub() *Hub {
	return &Hub{
		subs: make(map[key]map[chan struct{}]struct{}),
	}
}

// Notify wakes every subscriber watching (table, userID). Signals are
// coalesced: a subscriber that has not consumed the previous signal does
// not queue another.
func (h *Hub) Notify(table string, userID uint) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for ch := range h.subs[key{table: table, userID: userID}] {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

// Subscribe registers a signal channel for (table, userID). The channel is
// closed and removed when ctx is cancelled.
func (h *Hub) Subscribe(ctx context.Context, table string, userID uint) <-chan struct{} {
	ch := make(chan struct{}, 1)
	k := key{table: table, userID: userID}

	h.mu.Lock()
	if h.subs[k] == nil {
		h.subs[k] = make(map[chan struct{}]struct{})
	}
	h.subs[k][ch] = struct{}{}
	h.mu.Unlock()

	go func() {
		<-ctx.Done()
		h.mu.Lock()
		delete(h.subs[k], ch)
		if len(h.subs[k]) == 0 {
			delete(h.subs, k)
		}
		h.mu.Unlock()
		close(ch)
	}()

	return ch
}

// Observe runs query once, emits the result, then re-runs it on every
// Notify for (table, userID). Query errors skip the emission; the stream
// ends when ctx is cancelled.
func Observe[T any](ctx context.Context, h *Hub, table string, userID uint, query func(context.Context) (T, error)) <-chan T {
	out := make(chan T, 1)
	signals := h.Subscribe(ctx, table, userID)

	emit := func() bool {
		v, err := query(ctx)
		if err != nil {
			return true
		}
		select {
		case out <- v:
			return true
		case <-ctx.Done():
			return false
		}
	}

	go func() {
		defer close(out)
		if !emit() {
			return
		}
		for {
			select {
			case <-ctx.Done():
				return
			case _, ok := <-signals:
				if !ok {
					return
				}
				if !emit() {
					return
				}
			}
		}
	}()

	return out
}
