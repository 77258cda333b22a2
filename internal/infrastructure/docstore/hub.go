package docstore

import (
	"context"
	"sync"

	"go.uber.org/zap"
)

type queryFunc func(ctx context.Context, collection string) ([]Document, error)

// hub fans change signals out to watchers. Each watcher owns one goroutine
// and a one-slot signal channel, so writers never block on slow watchers and
// snapshots are always delivered in order.
type hub struct {
	mu       sync.Mutex
	watchers map[string]map[*watcher]struct{}
	query    queryFunc
	logger   *zap.Logger
}

type watcher struct {
	signal chan struct{}
}

func newHub(query queryFunc, logger *zap.Logger) *hub {
	return &hub{
		watchers: make(map[string]map[*watcher]struct{}),
		query:    query,
		logger:   logger,
	}
}

func (h *hub) watch(ctx context.Context, collection string, fn SnapshotFunc) {
	w := &watcher{signal: make(chan struct{}, 1)}
	w.signal <- struct{}{} // initial snapshot

	h.mu.Lock()
	if h.watchers[collection] == nil {
		h.watchers[collection] = make(map[*watcher]struct{})
	}
	h.watchers[collection][w] = struct{}{}
	h.mu.Unlock()

	go func() {
		defer func() {
			h.mu.Lock()
			delete(h.watchers[collection], w)
			h.mu.Unlock()
		}()

		for {
			select {
			case <-ctx.Done():
				return
			case <-w.signal:
				docs, err := h.query(ctx, collection)
				if err != nil {
					if ctx.Err() != nil {
						return
					}
					h.logger.Error("docstore.watch.query_failed",
						zap.String("collection", collection),
						zap.Error(err),
					)
					continue
				}
				fn(docs)
			}
		}
	}()
}

func (h *hub) notify(collection string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for w := range h.watchers[collection] {
		select {
		case w.signal <- struct{}{}:
		default:
			// a snapshot is already pending
		}
	}
}
