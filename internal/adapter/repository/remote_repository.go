package repository

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/johnquangdev/meeting-notes/internal/domain/entities"
	"github.com/johnquangdev/meeting-notes/internal/domain/repositories"
	"github.com/johnquangdev/meeting-notes/internal/infrastructure/docstore"
)

const (
	meetingsCollection = "meetings"
	draftsCollection   = "drafts"
	metaCollection     = "meta"
	seededMarkerID     = "seeded"
)

var (
	_ repositories.MeetingRepository = (*RemoteMeetingRepository)(nil)
	_ repositories.ChangeNotifier    = (*RemoteMeetingRepository)(nil)
)

// RemoteMeetingRepository stores meetings in a document store namespaced by
// application id and pushes every change, including its own writes, to subscribers.
type RemoteMeetingRepository struct {
	store    docstore.Store
	meetings string
	drafts   string
	meta     string
	logger   *zap.Logger
	now      func() time.Time
}

// NewRemoteMeetingRepository creates a repository over store for appID.
func NewRemoteMeetingRepository(store docstore.Store, appID string, logger *zap.Logger) *RemoteMeetingRepository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RemoteMeetingRepository{
		store:    store,
		meetings: docstore.CollectionPath(appID, meetingsCollection),
		drafts:   docstore.CollectionPath(appID, draftsCollection),
		meta:     docstore.CollectionPath(appID, metaCollection),
		logger:   logger,
		now:      time.Now,
	}
}

// LoadMeetings queries the history, seeding the demo meeting into a store
// that has never been seeded.
func (r *RemoteMeetingRepository) LoadMeetings(ctx context.Context) ([]*entities.Meeting, error) {
	docs, err := r.store.Query(ctx, r.meetings)
	if err != nil {
		return nil, fmt.Errorf("failed to query meetings: %w", err)
	}
	if len(docs) > 0 {
		return meetingsFromDocuments(docs), nil
	}

	_, err = r.store.Get(ctx, r.meta, seededMarkerID)
	if err == nil {
		return []*entities.Meeting{}, nil
	}
	if !errors.Is(err, docstore.ErrNotFound) {
		return nil, fmt.Errorf("failed to read seed marker: %w", err)
	}

	demo := entities.DemoMeeting()
	now := r.now().UTC().Truncate(time.Millisecond)
	demo.CreatedAt = &now
	if err := r.store.Put(ctx, r.meetings, demo.ID, documentFromMeeting(demo)); err != nil {
		return nil, fmt.Errorf("failed to seed demo meeting: %w", err)
	}
	if err := r.store.Put(ctx, r.meta, seededMarkerID, docstore.Document{Title: seededMarkerID, Date: now}); err != nil {
		return nil, fmt.Errorf("failed to write seed marker: %w", err)
	}
	r.logger.Info("Seeded empty history with demo meeting",
		zap.String("collection", r.meetings),
		zap.String("meeting_id", demo.ID),
	)
	return []*entities.Meeting{demo}, nil
}

// LoadDraft reads the well-known draft document.
func (r *RemoteMeetingRepository) LoadDraft(ctx context.Context) (*entities.Meeting, error) {
	doc, err := r.store.Get(ctx, r.drafts, entities.DraftSlotID)
	if errors.Is(err, docstore.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read draft: %w", err)
	}
	return draftFromDocument(*doc), nil
}

// SaveDraft overwrites the well-known draft document.
func (r *RemoteMeetingRepository) SaveDraft(ctx context.Context, draft *entities.Meeting) (*entities.Meeting, error) {
	if draft == nil {
		return nil, fmt.Errorf("draft is required")
	}
	saved := draft.Clone()
	saved.ID = entities.DraftSlotID
	saved.IsDraft = false
	now := r.now().UTC().Truncate(time.Millisecond)
	saved.UpdatedAt = &now

	if err := r.store.Put(ctx, r.drafts, entities.DraftSlotID, documentFromMeeting(saved)); err != nil {
		r.logger.Error("Failed to save draft", zap.String("collection", r.drafts), zap.Error(err))
		return nil, fmt.Errorf("failed to save draft: %w", err)
	}
	r.logger.Info("Draft saved", zap.String("collection", r.drafts))
	saved.IsDraft = true
	return saved, nil
}

// DeleteDraft removes the draft document; a missing draft is fine.
func (r *RemoteMeetingRepository) DeleteDraft(ctx context.Context) error {
	err := r.store.Delete(ctx, r.drafts, entities.DraftSlotID)
	if err != nil && !errors.Is(err, docstore.ErrNotFound) {
		r.logger.Error("Failed to delete draft", zap.String("collection", r.drafts), zap.Error(err))
		return fmt.Errorf("failed to delete draft: %w", err)
	}
	return nil
}

// Publish inserts the meeting and then removes the draft. The two writes are
// separate; a failed removal leaves both and is reported as a partial publish.
func (r *RemoteMeetingRepository) Publish(ctx context.Context, draft *entities.Meeting) (*entities.Meeting, error) {
	if draft == nil {
		return nil, fmt.Errorf("draft is required")
	}
	published := newPublished(draft, r.now().UTC().Truncate(time.Millisecond))
	published.ID = ""

	id, err := r.store.Insert(ctx, r.meetings, documentFromMeeting(published))
	if err != nil {
		r.logger.Error("Failed to publish meeting", zap.String("collection", r.meetings), zap.Error(err))
		return nil, fmt.Errorf("failed to publish meeting: %w", err)
	}
	published.ID = id
	r.logger.Info("Meeting published",
		zap.String("collection", r.meetings),
		zap.String("meeting_id", id),
	)

	if err := r.DeleteDraft(ctx); err != nil {
		r.logger.Warn("Meeting published but draft remains",
			zap.String("meeting_id", id),
			zap.Error(err),
		)
		return published, fmt.Errorf("%w: %v", entities.ErrPartialPublish, err)
	}
	return published, nil
}

// DeleteMeeting removes a meeting document. Unknown ids succeed.
func (r *RemoteMeetingRepository) DeleteMeeting(ctx context.Context, id string) error {
	if id == "" {
		return entities.ErrInvalidMeetingID
	}
	err := r.store.Delete(ctx, r.meetings, id)
	if errors.Is(err, docstore.ErrNotFound) {
		r.logger.Info("Delete of unknown meeting ignored", zap.String("meeting_id", id))
		return nil
	}
	if err != nil {
		r.logger.Error("Failed to delete meeting", zap.String("meeting_id", id), zap.Error(err))
		return fmt.Errorf("failed to delete meeting: %w", err)
	}
	r.logger.Info("Meeting deleted", zap.String("meeting_id", id))
	return nil
}

// Subscribe watches the history and the draft collection. The current state
// of both arrives first, then one event per observed change. The channel is
// closed once ctx is done.
func (r *RemoteMeetingRepository) Subscribe(ctx context.Context) (<-chan repositories.ChangeEvent, error) {
	sub := &subscription{ctx: ctx, events: make(chan repositories.ChangeEvent, 4)}

	err := r.store.Watch(ctx, r.meetings, func(docs []docstore.Document) {
		r.logger.Debug("Meetings snapshot received",
			zap.String("collection", r.meetings),
			zap.Int("count", len(docs)),
		)
		sub.send(repositories.ChangeEvent{Kind: repositories.ChangeMeetings, Meetings: meetingsFromDocuments(docs)})
	})
	if err != nil {
		return nil, fmt.Errorf("failed to watch meetings: %w", err)
	}

	err = r.store.Watch(ctx, r.drafts, func(docs []docstore.Document) {
		var draft *entities.Meeting
		for _, d := range docs {
			if d.ID == entities.DraftSlotID {
				draft = draftFromDocument(d)
				break
			}
		}
		r.logger.Debug("Draft snapshot received", zap.String("collection", r.drafts))
		sub.send(repositories.ChangeEvent{Kind: repositories.ChangeDraft, Draft: draft})
	})
	if err != nil {
		return nil, fmt.Errorf("failed to watch drafts: %w", err)
	}

	go func() {
		<-ctx.Done()
		sub.close()
	}()
	return sub.events, nil
}

// subscription serializes sends against the final close.
type subscription struct {
	mu     sync.Mutex
	ctx    context.Context
	events chan repositories.ChangeEvent
	closed bool
}

func (s *subscription) send(ev repositories.ChangeEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	select {
	case s.events <- ev:
	case <-s.ctx.Done():
	}
}

func (s *subscription) close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.closed {
		s.closed = true
		close(s.events)
	}
}

func documentFromMeeting(m *entities.Meeting) docstore.Document {
	sections := make(map[string]string, len(m.Sections))
	for k, v := range m.Sections {
		sections[string(k)] = v
	}
	return docstore.Document{
		ID:          m.ID,
		Title:       m.Title,
		Date:        m.Date,
		Sections:    sections,
		CreatedAt:   m.CreatedAt,
		PublishedAt: m.PublishedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

func meetingFromDocument(d docstore.Document) *entities.Meeting {
	sections := make(entities.SectionMap, len(d.Sections))
	for k, v := range d.Sections {
		sections[entities.SectionKey(k)] = v
	}
	return &entities.Meeting{
		ID:          d.ID,
		Title:       d.Title,
		Date:        d.Date.UTC(),
		Sections:    sections,
		CreatedAt:   d.CreatedAt,
		PublishedAt: d.PublishedAt,
		UpdatedAt:   d.UpdatedAt,
	}
}

func draftFromDocument(d docstore.Document) *entities.Meeting {
	m := meetingFromDocument(d)
	m.ID = entities.DraftSlotID
	m.IsDraft = true
	return m
}

func meetingsFromDocuments(docs []docstore.Document) []*entities.Meeting {
	meetings := make([]*entities.Meeting, 0, len(docs))
	for _, d := range docs {
		meetings = append(meetings, meetingFromDocument(d))
	}
	return meetings
}
