package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/johnquangdev/meeting-notes/internal/domain/entities"
	"github.com/johnquangdev/meeting-notes/internal/domain/repositories"
	"github.com/johnquangdev/meeting-notes/internal/infrastructure/kv"
)

const (
	meetingsKey = "bp-meetings"
	draftKey    = "bp-draft"
)

var _ repositories.MeetingRepository = (*LocalMeetingRepository)(nil)

// LocalMeetingRepository keeps the history and the draft under two keys of a
// key/value store. It never pushes changes.
type LocalMeetingRepository struct {
	mu     sync.Mutex
	store  kv.Store
	logger *zap.Logger
	now    func() time.Time
}

// NewLocalMeetingRepository creates a repository over store.
func NewLocalMeetingRepository(store kv.Store, logger *zap.Logger) *LocalMeetingRepository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LocalMeetingRepository{
		store:  store,
		logger: logger,
		now:    time.Now,
	}
}

// LoadMeetings returns the history, seeding the demo meeting when the key was never written.
func (r *LocalMeetingRepository) LoadMeetings(ctx context.Context) ([]*entities.Meeting, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	raw, ok, err := r.store.Get(meetingsKey)
	if err != nil {
		return nil, fmt.Errorf("failed to read meetings: %w", err)
	}
	if !ok {
		seed := []*entities.Meeting{entities.DemoMeeting()}
		if err := r.writeMeetings(seed); err != nil {
			return nil, err
		}
		r.logger.Info("Seeded empty history with demo meeting", zap.String("meeting_id", seed[0].ID))
		return seed, nil
	}

	return decodeMeetings(raw)
}

// LoadDraft returns the persisted draft or nil.
func (r *LocalMeetingRepository) LoadDraft(ctx context.Context) (*entities.Meeting, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	raw, ok, err := r.store.Get(draftKey)
	if err != nil {
		return nil, fmt.Errorf("failed to read draft: %w", err)
	}
	if !ok {
		return nil, nil
	}

	var stored storedMeeting
	if err := json.Unmarshal([]byte(raw), &stored); err != nil {
		return nil, fmt.Errorf("failed to decode draft: %w", err)
	}
	draft, err := stored.meeting()
	if err != nil {
		return nil, fmt.Errorf("failed to decode draft: %w", err)
	}
	draft.ID = entities.DraftSlotID
	draft.IsDraft = true
	return draft, nil
}

// SaveDraft overwrites the draft slot.
func (r *LocalMeetingRepository) SaveDraft(ctx context.Context, draft *entities.Meeting) (*entities.Meeting, error) {
	if draft == nil {
		return nil, fmt.Errorf("draft is required")
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	saved := draft.Clone()
	saved.ID = entities.DraftSlotID
	saved.IsDraft = false
	now := r.now().UTC().Truncate(time.Millisecond)
	saved.UpdatedAt = &now

	b, err := json.Marshal(toStored(saved))
	if err != nil {
		return nil, fmt.Errorf("failed to encode draft: %w", err)
	}
	if err := r.store.Set(draftKey, string(b)); err != nil {
		r.logger.Error("Failed to save draft", zap.Error(err))
		return nil, fmt.Errorf("failed to save draft: %w", err)
	}

	r.logger.Info("Draft saved")
	saved.IsDraft = true
	return saved, nil
}

// DeleteDraft clears the draft slot.
func (r *LocalMeetingRepository) DeleteDraft(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.deleteDraftLocked()
}

func (r *LocalMeetingRepository) deleteDraftLocked() error {
	if err := r.store.Delete(draftKey); err != nil {
		r.logger.Error("Failed to delete draft", zap.Error(err))
		return fmt.Errorf("failed to delete draft: %w", err)
	}
	return nil
}

// Publish appends the draft to the history and clears the draft slot.
func (r *LocalMeetingRepository) Publish(ctx context.Context, draft *entities.Meeting) (*entities.Meeting, error) {
	if draft == nil {
		return nil, fmt.Errorf("draft is required")
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	meetings, err := r.readMeetings()
	if err != nil {
		return nil, err
	}

	published := newPublished(draft, r.now().UTC().Truncate(time.Millisecond))
	if err := r.writeMeetings(insertByDate(meetings, published)); err != nil {
		r.logger.Error("Failed to publish meeting", zap.Error(err))
		return nil, err
	}
	r.logger.Info("Meeting published", zap.String("meeting_id", published.ID))

	if err := r.deleteDraftLocked(); err != nil {
		return published.Clone(), fmt.Errorf("%w: %v", entities.ErrPartialPublish, err)
	}
	return published.Clone(), nil
}

// DeleteMeeting removes one meeting. Unknown ids are ignored.
func (r *LocalMeetingRepository) DeleteMeeting(ctx context.Context, id string) error {
	if id == "" {
		return entities.ErrInvalidMeetingID
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	meetings, err := r.readMeetings()
	if err != nil {
		return err
	}

	kept := meetings[:0]
	for _, m := range meetings {
		if m.ID != id {
			kept = append(kept, m)
		}
	}
	if len(kept) == len(meetings) {
		r.logger.Info("Delete of unknown meeting ignored", zap.String("meeting_id", id))
		return nil
	}

	if err := r.writeMeetings(kept); err != nil {
		r.logger.Error("Failed to delete meeting", zap.String("meeting_id", id), zap.Error(err))
		return err
	}
	r.logger.Info("Meeting deleted", zap.String("meeting_id", id))
	return nil
}

// readMeetings returns the stored history without seeding.
func (r *LocalMeetingRepository) readMeetings() ([]*entities.Meeting, error) {
	raw, ok, err := r.store.Get(meetingsKey)
	if err != nil {
		return nil, fmt.Errorf("failed to read meetings: %w", err)
	}
	if !ok {
		return []*entities.Meeting{}, nil
	}
	return decodeMeetings(raw)
}

func (r *LocalMeetingRepository) writeMeetings(meetings []*entities.Meeting) error {
	stored := make([]storedMeeting, 0, len(meetings))
	for _, m := range meetings {
		stored = append(stored, toStored(m))
	}
	b, err := json.Marshal(stored)
	if err != nil {
		return fmt.Errorf("failed to encode meetings: %w", err)
	}
	if err := r.store.Set(meetingsKey, string(b)); err != nil {
		return fmt.Errorf("failed to write meetings: %w", err)
	}
	return nil
}

func decodeMeetings(raw string) ([]*entities.Meeting, error) {
	var stored []storedMeeting
	if err := json.Unmarshal([]byte(raw), &stored); err != nil {
		return nil, fmt.Errorf("failed to decode meetings: %w", err)
	}
	meetings := make([]*entities.Meeting, 0, len(stored))
	for _, s := range stored {
		m, err := s.meeting()
		if err != nil {
			return nil, fmt.Errorf("failed to decode meeting %q: %w", s.ID, err)
		}
		meetings = append(meetings, m)
	}
	sort.SliceStable(meetings, func(i, j int) bool {
		return meetings[i].Date.After(meetings[j].Date)
	})
	return meetings, nil
}
