package workspace

// SelectRequest picks either a published meeting or the draft
type SelectRequest struct {
	MeetingID string `json:"meetingId" validate:"required_without=Draft,max=64"`
	Draft     bool   `json:"draft"`
}

// EditSectionRequest replaces one section of the draft being edited
type EditSectionRequest struct {
	Key  string `param:"key" validate:"required,section_key"`
	Text string `json:"text"`
}

// EditDateRequest changes the meeting date of the draft being edited.
// Date accepts RFC 3339 or a plain YYYY-MM-DD day.
type EditDateRequest struct {
	Date string `json:"date" validate:"required"`
}

// DeleteMeetingRequest removes a published meeting after explicit confirmation
type DeleteMeetingRequest struct {
	ID      string `param:"id" validate:"required,max=64"`
	Confirm bool   `query:"confirm"`
}

// ExportRequest is free text to download or upload as plain text
type ExportRequest struct {
	Title   string `json:"title" validate:"max=200"`
	Content string `json:"content" validate:"required"`
}
