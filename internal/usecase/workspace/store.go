// Package workspace holds the in-memory authority over the meeting history,
// the draft, the current selection and the editing mode. It is the only
// component that writes through the meeting repository.
package workspace

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/johnquangdev/meeting-notes/internal/domain/entities"
	"github.com/johnquangdev/meeting-notes/internal/domain/repositories"
)

// Mode is the editing/selection state.
type Mode string

const (
	ModeEmpty   Mode = "empty"
	ModeViewing Mode = "viewing"
	ModeEditing Mode = "editing"
)

// State is a copy of the workspace at one point in time.
type State struct {
	Meetings  []*entities.Meeting
	Draft     *entities.Meeting
	Selection *entities.Meeting
	Mode      Mode
	Loaded    bool
}

// Store serializes every workspace operation. Repository calls happen while
// the lock is held, so there is a single logical writer per process.
type Store struct {
	mu        sync.Mutex
	repo      repositories.MeetingRepository
	logger    *zap.Logger
	now       func() time.Time
	meetings  []*entities.Meeting
	draft     *entities.Meeting
	selection *entities.Meeting
	editing   bool
	loaded    bool
}

// NewStore creates an empty store. Call Load before use.
func NewStore(repo repositories.MeetingRepository, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{
		repo:   repo,
		logger: logger,
		now:    time.Now,
	}
}

// Load reads the history and the draft and selects the most recent meeting.
func (s *Store) Load(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	meetings, err := s.repo.LoadMeetings(ctx)
	if err != nil {
		return fmt.Errorf("load meetings: %w", err)
	}
	draft, err := s.repo.LoadDraft(ctx)
	if err != nil {
		return fmt.Errorf("load draft: %w", err)
	}

	s.meetings = cloneAll(meetings)
	s.draft = draft.AsDraft()
	if s.selection == nil {
		s.selection = s.firstMeeting()
	}
	s.loaded = true

	s.logger.Info("Workspace loaded",
		zap.Int("meetings", len(s.meetings)),
		zap.Bool("has_draft", s.draft != nil),
	)
	return nil
}

// Snapshot returns a deep copy of the current state.
func (s *Store) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return State{
		Meetings:  cloneAll(s.meetings),
		Draft:     s.draft.Clone(),
		Selection: s.selection.Clone(),
		Mode:      s.mode(),
		Loaded:    s.loaded,
	}
}

// Selection returns a copy of the selected record or nil.
func (s *Store) Selection() *entities.Meeting {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selection.Clone()
}

// Mode reports the current editing/selection state.
func (s *Store) Mode() Mode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mode()
}

func (s *Store) mode() Mode {
	switch {
	case s.selection == nil:
		return ModeEmpty
	case s.editing:
		return ModeEditing
	default:
		return ModeViewing
	}
}

// SelectMeeting shows a published meeting and leaves editing mode.
func (s *Store) SelectMeeting(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	m := s.findMeeting(id)
	if m == nil {
		return fmt.Errorf("%w: %s", entities.ErrNotFound, id)
	}
	s.selection = m.Clone()
	s.editing = false
	return nil
}

// SelectDraft shows the persisted draft and leaves editing mode.
func (s *Store) SelectDraft() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.draft == nil {
		return fmt.Errorf("%w: no draft", entities.ErrNotFound)
	}
	s.selection = s.draft.Clone()
	s.editing = false
	return nil
}

// StartOrResumeDraft selects the persisted draft, or a fresh one from the
// template, and enters editing mode.
func (s *Store) StartOrResumeDraft() *entities.Meeting {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.draft != nil {
		s.selection = s.draft.Clone()
	} else {
		s.selection = entities.NewDraft(s.today())
	}
	s.editing = true
	return s.selection.Clone()
}

// StartDraftWithSections selects a new draft carrying sections and enters
// editing mode. The persisted draft is left alone until SaveDraft.
func (s *Store) StartDraftWithSections(sections entities.SectionMap) *entities.Meeting {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.selection = entities.NewDraftWithSections(s.today(), sections.Known())
	s.editing = true
	return s.selection.Clone()
}

// Edit re-enters editing mode when the selection is a draft.
func (s *Store) Edit() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.selectionIsDraft() {
		return false
	}
	s.editing = true
	return true
}

// EditField replaces one section of the draft being edited. Outside editing
// mode it does nothing.
func (s *Store) EditField(key entities.SectionKey, text string) error {
	if !key.IsValid() {
		return fmt.Errorf("%w: %q", entities.ErrUnknownSection, key)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.editingDraft() {
		return nil
	}
	if s.selection.Sections == nil {
		s.selection.Sections = entities.SectionMap{}
	}
	s.selection.Sections[key] = text
	return nil
}

// EditDate changes the date of the draft being edited, kept to millisecond
// precision like every stored timestamp. Outside editing mode it does nothing.
func (s *Store) EditDate(date time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.editingDraft() {
		return
	}
	s.selection.Date = date.UTC().Truncate(time.Millisecond)
}

// SaveDraft persists the selected draft and leaves editing mode. With no
// draft selected it returns nil and does nothing.
func (s *Store) SaveDraft(ctx context.Context) (*entities.Meeting, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.selectionIsDraft() {
		return nil, nil
	}

	saved, err := s.repo.SaveDraft(ctx, s.selection.Clone())
	if err != nil {
		s.logger.Error("Failed to save draft", zap.Error(err))
		return nil, err
	}

	s.draft = saved.AsDraft()
	s.selection = s.draft.Clone()
	s.editing = false
	return s.draft.Clone(), nil
}

// CancelEdit drops unsaved edits and shows the most recent meeting.
func (s *Store) CancelEdit() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.editing = false
	s.selection = s.firstMeeting()
}

// PublishDraft turns the persisted draft into a history record and selects
// it. It returns nil, nil when there is no draft. A partial publish returns
// the record with an error wrapping entities.ErrPartialPublish; the record is
// shown and the stale draft is kept.
func (s *Store) PublishDraft(ctx context.Context) (*entities.Meeting, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.draft == nil {
		return nil, nil
	}

	published, err := s.repo.Publish(ctx, s.draft.Clone())
	if err != nil && !(errors.Is(err, entities.ErrPartialPublish) && published != nil) {
		s.logger.Error("Failed to publish draft", zap.Error(err))
		return nil, err
	}

	published = published.Clone()
	published.IsDraft = false
	if s.findMeeting(published.ID) == nil {
		s.meetings = insertByDate(s.meetings, published.Clone())
	}
	s.selection = published.Clone()
	s.editing = false

	if err != nil {
		s.logger.Warn("Draft published but not cleared",
			zap.String("meeting_id", published.ID),
			zap.Error(err),
		)
		return published, err
	}

	s.draft = nil
	s.logger.Info("Draft published", zap.String("meeting_id", published.ID))
	return published, nil
}

// DeleteMeeting removes a published meeting and shows the most recent one
// left. It is refused while a draft is selected so unsaved edits survive.
// Confirmation is the caller's job.
func (s *Store) DeleteMeeting(ctx context.Context, id string) error {
	if id == "" {
		return entities.ErrInvalidMeetingID
	}
	if id == entities.DraftSlotID {
		return entities.ErrDraftNotDeletable
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.selectionIsDraft() {
		return entities.ErrDraftSelected
	}
	if err := s.repo.DeleteMeeting(ctx, id); err != nil {
		s.logger.Error("Failed to delete meeting", zap.String("meeting_id", id), zap.Error(err))
		return err
	}

	kept := make([]*entities.Meeting, 0, len(s.meetings))
	for _, m := range s.meetings {
		if m.ID != id {
			kept = append(kept, m)
		}
	}
	s.meetings = kept
	s.selection = s.firstMeeting()
	s.editing = false
	return nil
}

// ApplyRemoteUpdate replaces the history or the draft with a pushed
// snapshot. Re-applying state the store already holds changes nothing, so a
// process may safely receive its own writes back.
func (s *Store) ApplyRemoteUpdate(ev repositories.ChangeEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch ev.Kind {
	case repositories.ChangeMeetings:
		s.applyMeetings(ev.Meetings)
	case repositories.ChangeDraft:
		s.applyDraft(ev.Draft)
	default:
		s.logger.Warn("Ignoring unknown change event", zap.String("kind", string(ev.Kind)))
	}
}

func (s *Store) applyMeetings(meetings []*entities.Meeting) {
	s.meetings = cloneAll(meetings)

	switch {
	case s.selection == nil:
		if !s.editing {
			s.selection = s.firstMeeting()
		}
	case s.selection.IsDraft:
		// drafts are not part of the history
	default:
		if m := s.findMeeting(s.selection.ID); m != nil {
			s.selection = m.Clone()
		} else {
			s.selection = s.firstMeeting()
		}
	}
}

func (s *Store) applyDraft(draft *entities.Meeting) {
	if s.draft.Equal(draft) {
		return
	}
	s.draft = draft.AsDraft()

	if !s.selectionIsDraft() || s.editing {
		return
	}
	if s.draft != nil {
		s.selection = s.draft.Clone()
	} else {
		s.selection = s.firstMeeting()
	}
}

// Watch applies pushed changes until ctx is done when the repository
// supports them. It returns immediately otherwise.
func (s *Store) Watch(ctx context.Context) error {
	notifier, ok := s.repo.(repositories.ChangeNotifier)
	if !ok {
		return nil
	}
	events, err := notifier.Subscribe(ctx)
	if err != nil {
		return fmt.Errorf("subscribe: %w", err)
	}

	go func() {
		for ev := range events {
			s.ApplyRemoteUpdate(ev)
		}
		s.logger.Debug("Workspace watch stopped")
	}()
	return nil
}

func (s *Store) today() time.Time {
	return s.now().UTC().Truncate(time.Millisecond)
}

func (s *Store) selectionIsDraft() bool {
	return s.selection != nil && s.selection.IsDraft
}

func (s *Store) editingDraft() bool {
	return s.editing && s.selectionIsDraft()
}

func (s *Store) firstMeeting() *entities.Meeting {
	if len(s.meetings) == 0 {
		return nil
	}
	return s.meetings[0].Clone()
}

func (s *Store) findMeeting(id string) *entities.Meeting {
	for _, m := range s.meetings {
		if m.ID == id {
			return m
		}
	}
	return nil
}

func cloneAll(meetings []*entities.Meeting) []*entities.Meeting {
	out := make([]*entities.Meeting, 0, len(meetings))
	for _, m := range meetings {
		c := m.Clone()
		c.IsDraft = false
		out = append(out, c)
	}
	return out
}

// insertByDate keeps the history date descending; equal dates keep arrival order.
func insertByDate(meetings []*entities.Meeting, m *entities.Meeting) []*entities.Meeting {
	idx := len(meetings)
	for i, existing := range meetings {
		if existing.Date.Before(m.Date) {
			idx = i
			break
		}
	}
	out := make([]*entities.Meeting, 0, len(meetings)+1)
	out = append(out, meetings[:idx]...)
	out = append(out, m)
	return append(out, meetings[idx:]...)
}
