package docstore

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var _ Store = (*MemoryStore)(nil)

type memoryEntry struct {
	seq int64
	doc Document
}

// MemoryStore is a single-process Store with the same watch semantics as the
// Postgres store.
type MemoryStore struct {
	mu          sync.RWMutex
	seq         int64
	collections map[string]map[string]*memoryEntry
	hub         *hub
}

// NewMemoryStore creates an empty store.
func NewMemoryStore(logger *zap.Logger) *MemoryStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &MemoryStore{collections: make(map[string]map[string]*memoryEntry)}
	s.hub = newHub(s.Query, logger)
	return s
}

// Insert adds a document under a new UUID.
func (s *MemoryStore) Insert(ctx context.Context, collection string, doc Document) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	id := uuid.NewString()

	s.mu.Lock()
	s.putLocked(collection, id, doc)
	s.mu.Unlock()

	s.hub.notify(collection)
	return id, nil
}

// Put creates or replaces a document.
func (s *MemoryStore) Put(ctx context.Context, collection, id string, doc Document) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	s.putLocked(collection, id, doc)
	s.mu.Unlock()

	s.hub.notify(collection)
	return nil
}

func (s *MemoryStore) putLocked(collection, id string, doc Document) {
	docs := s.collections[collection]
	if docs == nil {
		docs = make(map[string]*memoryEntry)
		s.collections[collection] = docs
	}

	doc = cloneDocument(doc)
	doc.ID = id
	if existing, ok := docs[id]; ok {
		existing.doc = doc
		return
	}
	s.seq++
	docs[id] = &memoryEntry{seq: s.seq, doc: doc}
}

// Get returns a copy of one document.
func (s *MemoryStore) Get(ctx context.Context, collection, id string) (*Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, ok := s.collections[collection][id]
	if !ok {
		return nil, ErrNotFound
	}
	doc := cloneDocument(entry.doc)
	return &doc, nil
}

// Delete removes one document.
func (s *MemoryStore) Delete(ctx context.Context, collection, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	docs := s.collections[collection]
	if _, ok := docs[id]; !ok {
		s.mu.Unlock()
		return ErrNotFound
	}
	delete(docs, id)
	s.mu.Unlock()

	s.hub.notify(collection)
	return nil
}

// Query returns the collection ordered by date descending, then insertion order.
func (s *MemoryStore) Query(ctx context.Context, collection string) ([]Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	entries := make([]memoryEntry, 0, len(s.collections[collection]))
	for _, e := range s.collections[collection] {
		entries = append(entries, memoryEntry{seq: e.seq, doc: cloneDocument(e.doc)})
	}
	s.mu.RUnlock()

	sort.Slice(entries, func(i, j int) bool {
		if !entries[i].doc.Date.Equal(entries[j].doc.Date) {
			return entries[i].doc.Date.After(entries[j].doc.Date)
		}
		return entries[i].seq < entries[j].seq
	})

	docs := make([]Document, 0, len(entries))
	for _, e := range entries {
		docs = append(docs, e.doc)
	}
	return docs, nil
}

// Watch registers fn for snapshots of collection.
func (s *MemoryStore) Watch(ctx context.Context, collection string, fn SnapshotFunc) error {
	s.hub.watch(ctx, collection, fn)
	return nil
}
