package repositories

import (
	"context"

	"github.com/johnquangdev/meeting-notes/internal/domain/entities"
)

// MeetingRepository is the persistence contract the workspace store is built on.
// Both the local and the remote backend implement it.
type MeetingRepository interface {
	// LoadMeetings returns the published history, newest date first. An empty
	// store is seeded with the demo meeting exactly once.
	LoadMeetings(ctx context.Context) ([]*entities.Meeting, error)

	// LoadDraft returns the singleton draft, or nil when there is none.
	LoadDraft(ctx context.Context) (*entities.Meeting, error)

	// SaveDraft overwrites the draft slot and returns the stored record with
	// its update timestamp.
	SaveDraft(ctx context.Context, draft *entities.Meeting) (*entities.Meeting, error)

	// DeleteDraft clears the draft slot. A missing draft is not an error.
	DeleteDraft(ctx context.Context) error

	// Publish appends a new meeting built from the draft and then clears the
	// draft slot. The two writes are not atomic: when the append succeeds and
	// the clear fails, the published meeting is returned together with an
	// error wrapping entities.ErrPartialPublish.
	Publish(ctx context.Context, draft *entities.Meeting) (*entities.Meeting, error)

	// DeleteMeeting removes one published meeting. Unknown ids are a no-op.
	DeleteMeeting(ctx context.Context, id string) error
}

// ChangeKind says which part of the workspace a change event replaces.
type ChangeKind string

const (
	ChangeMeetings ChangeKind = "meetings"
	ChangeDraft    ChangeKind = "draft"
)

// ChangeEvent carries a full snapshot of either the history or the draft slot.
type ChangeEvent struct {
	Kind     ChangeKind
	Meetings []*entities.Meeting
	Draft    *entities.Meeting
}

// ChangeNotifier is implemented by backends that push changes, including the
// subscriber's own writes. The channel is closed when ctx is done.
type ChangeNotifier interface {
	Subscribe(ctx context.Context) (<-chan ChangeEvent, error)
}
