package entities

import "errors"

// Domain errors
var (
	ErrNotFound          = errors.New("meeting not found")
	ErrUnknownSection    = errors.New("unknown section")
	ErrInvalidMeetingID  = errors.New("invalid meeting id")
	ErrDraftNotDeletable = errors.New("the draft cannot be deleted as a published meeting")
	ErrNothingSelected   = errors.New("no meeting selected")
	ErrDraftSelected     = errors.New("a draft is selected; select a published meeting to delete it")

	// ErrPartialPublish means the meeting was published but the draft slot
	// could not be cleared; both now exist until the draft is deleted.
	ErrPartialPublish = errors.New("meeting published but draft was not cleared")
)
