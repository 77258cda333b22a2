package workspace

import "time"

// MeetingResponse is a meeting or draft as the client renders it
type MeetingResponse struct {
	ID          string            `json:"id,omitempty"`
	Title       string            `json:"title"`
	Date        time.Time         `json:"date"`
	DateLabel   string            `json:"dateLabel"`
	Sections    []SectionResponse `json:"sections"`
	IsDraft     bool              `json:"isDraft"`
	CreatedAt   *time.Time        `json:"createdAt,omitempty"`
	PublishedAt *time.Time        `json:"publishedAt,omitempty"`
	UpdatedAt   *time.Time        `json:"updatedAt,omitempty"`
}

// SectionResponse is one section in catalog order
type SectionResponse struct {
	Key   string `json:"key"`
	Label string `json:"label"`
	Text  string `json:"text"`
}

// MeetingSummary is one history entry
type MeetingSummary struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	DateLabel string `json:"dateLabel"`
}

// WorkspaceResponse is the full workspace state
type WorkspaceResponse struct {
	Meetings  []MeetingSummary `json:"meetings"`
	Draft     *MeetingResponse `json:"draft,omitempty"`
	Selection *MeetingResponse `json:"selection,omitempty"`
	Mode      string           `json:"mode"`
}

// PublishResponse carries the published record. Warning is set when the
// draft could not be cleared afterwards.
type PublishResponse struct {
	Meeting *MeetingResponse `json:"meeting"`
	Warning string           `json:"warning,omitempty"`
}

// GenerationResponse is generated text for the current selection
type GenerationResponse struct {
	Kind string `json:"kind"`
	Text string `json:"text"`
}

// PrefillResponse is the draft opened by "Create Draft with AI"
type PrefillResponse struct {
	Draft     *MeetingResponse `json:"draft"`
	Prefilled bool             `json:"prefilled"`
	Warning   string           `json:"warning,omitempty"`
}

// ExportResponse points at an uploaded export
type ExportResponse struct {
	Filename  string    `json:"filename"`
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expiresAt"`
}
