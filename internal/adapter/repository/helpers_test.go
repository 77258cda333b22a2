package repository

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/johnquangdev/meeting-notes/internal/domain/entities"
	"github.com/johnquangdev/meeting-notes/internal/infrastructure/docstore"
	"github.com/johnquangdev/meeting-notes/internal/infrastructure/kv"
)

var errInjected = errors.New("injected failure")

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

// flakyKV fails the next write to the named key.
type flakyKV struct {
	kv.Store
	mu      sync.Mutex
	failSet map[string]bool
	failDel map[string]bool
}

func newFlakyKV() *flakyKV {
	return &flakyKV{Store: kv.NewMemoryStore(), failSet: map[string]bool{}, failDel: map[string]bool{}}
}

func (f *flakyKV) Set(key, value string) error {
	f.mu.Lock()
	fail := f.failSet[key]
	f.mu.Unlock()
	if fail {
		return errInjected
	}
	return f.Store.Set(key, value)
}

func (f *flakyKV) Delete(key string) error {
	f.mu.Lock()
	fail := f.failDel[key]
	f.mu.Unlock()
	if fail {
		return errInjected
	}
	return f.Store.Delete(key)
}

// flakyDocs fails deletes in the named collection.
type flakyDocs struct {
	docstore.Store
	failDelete string
	failInsert bool
}

func (f *flakyDocs) Insert(ctx context.Context, collection string, doc docstore.Document) (string, error) {
	if f.failInsert {
		return "", errInjected
	}
	return f.Store.Insert(ctx, collection, doc)
}

func (f *flakyDocs) Delete(ctx context.Context, collection, id string) error {
	if collection == f.failDelete {
		return errInjected
	}
	return f.Store.Delete(ctx, collection, id)
}

func draftWith(key entities.SectionKey, text string) *entities.Meeting {
	d := entities.NewDraft(day("2025-07-01"))
	d.Sections[key] = text
	return d
}
