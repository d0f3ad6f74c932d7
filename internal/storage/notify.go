package storage

import (
	"context"
	"log/slog"
	"sync"

	"soldi/internal/log"
)

// Kind identifies one of the record collections for change notification.
type Kind string

const (
	KindTransaction Kind = "transaction"
	KindAccount     Kind = "account"
	KindCategory    Kind = "category"
	KindObjective   Kind = "objective"
	KindLoan        Kind = "loan"
)

// Notifier fans out change signals per record kind. Delivery is
// coalescing: a subscriber that has not drained its pending signal gets
// no second one, so rapid writes collapse to a single re-query
// (last-write-wins).
type Notifier struct {
	mu   sync.Mutex
	subs map[Kind]map[*Subscription]struct{}
}

// Subscription is a live registration against one record kind. C fires
// (at least once) after every committed mutation of that kind. Close
// releases the registration; it is safe to call more than once.
type Subscription struct {
	C <-chan struct{}

	c    chan struct{}
	n    *Notifier
	kind Kind
	once sync.Once
}

func NewNotifier() *Notifier {
	return &Notifier{subs: make(map[Kind]map[*Subscription]struct{})}
}

// Subscribe registers a new observer for the given kind.
func (n *Notifier) Subscribe(kind Kind) *Subscription {
	c := make(chan struct{}, 1)
	sub := &Subscription{C: c, c: c, n: n, kind: kind}

	n.mu.Lock()
	defer n.mu.Unlock()
	if n.subs[kind] == nil {
		n.subs[kind] = make(map[*Subscription]struct{})
	}
	n.subs[kind][sub] = struct{}{}
	return sub
}

// Notify signals every subscriber of kind. Never blocks the writer.
func (n *Notifier) Notify(kind Kind) {
	n.mu.Lock()
	defer n.mu.Unlock()
	for sub := range n.subs[kind] {
		select {
		case sub.c <- struct{}{}:
		default: // a signal is already pending, coalesce
		}
	}
}

func (s *Subscription) Close() {
	s.once.Do(func() {
		s.n.mu.Lock()
		delete(s.n.subs[s.kind], s)
		s.n.mu.Unlock()
	})
}

// Watch turns a one-shot query into a live view: it emits an initial
// snapshot, then re-runs the query after every change of kind until ctx
// is done. A slow consumer only ever sees the latest snapshot; a failed
// re-query is logged and the last-known-good value stands.
func Watch[T any](ctx context.Context, n *Notifier, kind Kind, query func(context.Context) (T, error)) <-chan T {
	out := make(chan T, 1)
	sub := n.Subscribe(kind)

	emit := func() {
		v, err := query(ctx)
		if err != nil {
			if ctx.Err() == nil {
				slog.ErrorContext(ctx, "Live view re-query failed",
					"component", log.ComponentStorage, "kind", kind, "error", err)
			}
			return
		}
		for {
			select {
			case out <- v:
				return
			default:
				// Replace the stale pending snapshot.
				select {
				case <-out:
				default:
				}
			}
		}
	}

	go func() {
		defer close(out)
		defer sub.Close()
		emit()
		for {
			select {
			case <-ctx.Done():
				return
			case <-sub.C:
				emit()
			}
		}
	}()

	return out
}
