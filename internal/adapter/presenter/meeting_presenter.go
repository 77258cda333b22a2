package presenter

import (
	"github.com/johnquangdev/meeting-notes/internal/adapter/dto/workspace"
	"github.com/johnquangdev/meeting-notes/internal/domain/entities"
	workspaceUsecase "github.com/johnquangdev/meeting-notes/internal/usecase/workspace"
)

const (
	dateLayout      = "January 2, 2006"
	dateUnavailable = "Date not available"
)

// DateLabel formats a meeting date for display
func DateLabel(m *entities.Meeting) string {
	if m == nil || m.Date.IsZero() {
		return dateUnavailable
	}
	return m.Date.UTC().Format(dateLayout)
}

// ToMeetingResponse converts a Meeting entity to MeetingResponse DTO
func ToMeetingResponse(m *entities.Meeting) *workspace.MeetingResponse {
	if m == nil {
		return nil
	}

	sections := make([]workspace.SectionResponse, 0, len(entities.SectionKeys()))
	for _, key := range entities.SectionKeys() {
		sections = append(sections, workspace.SectionResponse{
			Key:   string(key),
			Label: key.Label(),
			Text:  m.Sections.Get(key),
		})
	}

	return &workspace.MeetingResponse{
		ID:          m.ID,
		Title:       m.Title,
		Date:        m.Date,
		DateLabel:   DateLabel(m),
		Sections:    sections,
		IsDraft:     m.IsDraft,
		CreatedAt:   m.CreatedAt,
		PublishedAt: m.PublishedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

// ToMeetingSummaries converts history records to list entries
func ToMeetingSummaries(meetings []*entities.Meeting) []workspace.MeetingSummary {
	out := make([]workspace.MeetingSummary, 0, len(meetings))
	for _, m := range meetings {
		out = append(out, workspace.MeetingSummary{
			ID:        m.ID,
			Title:     m.Title,
			DateLabel: DateLabel(m),
		})
	}
	return out
}

// ToWorkspaceResponse converts a store snapshot to WorkspaceResponse DTO
func ToWorkspaceResponse(state workspaceUsecase.State) *workspace.WorkspaceResponse {
	return &workspace.WorkspaceResponse{
		Meetings:  ToMeetingSummaries(state.Meetings),
		Draft:     ToMeetingResponse(state.Draft),
		Selection: ToMeetingResponse(state.Selection),
		Mode:      string(state.Mode),
	}
}
