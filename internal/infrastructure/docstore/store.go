// Package docstore is the remote document store behind the remote backend:
// named collections of meeting-shaped documents with live change delivery.
package docstore

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrNotFound is returned by Get and Delete for unknown documents.
var ErrNotFound = errors.New("document not found")

// Document is one stored record. Sections are keyed by raw section key.
type Document struct {
	ID          string
	Title       string
	Date        time.Time
	Sections    map[string]string
	CreatedAt   *time.Time
	PublishedAt *time.Time
	UpdatedAt   *time.Time
}

// SnapshotFunc receives the full, ordered contents of a collection.
type SnapshotFunc func(docs []Document)

// Store is the document store contract.
type Store interface {
	// Insert adds a document under a freshly assigned id and returns it.
	Insert(ctx context.Context, collection string, doc Document) (string, error)

	// Put creates or replaces the document with the given id.
	Put(ctx context.Context, collection, id string, doc Document) error

	// Get returns one document or ErrNotFound.
	Get(ctx context.Context, collection, id string) (*Document, error)

	// Delete removes one document or returns ErrNotFound.
	Delete(ctx context.Context, collection, id string) error

	// Query returns every document ordered by date descending; ties keep
	// insertion order.
	Query(ctx context.Context, collection string) ([]Document, error)

	// Watch delivers the current snapshot right away and again after every
	// change to the collection until ctx is done. Deliveries are coalesced:
	// a burst of writes may produce a single snapshot, and every snapshot
	// reflects the state at query time.
	Watch(ctx context.Context, collection string, fn SnapshotFunc) error
}

// CollectionPath scopes a collection name to an application namespace.
func CollectionPath(appID, name string) string {
	return fmt.Sprintf("artifacts/%s/public/data/%s", appID, name)
}

func cloneDocument(d Document) Document {
	out := d
	if d.Sections != nil {
		out.Sections = make(map[string]string, len(d.Sections))
		for k, v := range d.Sections {
			out.Sections[k] = v
		}
	}
	out.CreatedAt = cloneTime(d.CreatedAt)
	out.PublishedAt = cloneTime(d.PublishedAt)
	out.UpdatedAt = cloneTime(d.UpdatedAt)
	return out
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}
