package repository

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/johnquangdev/meeting-notes/internal/domain/entities"
)

// isoLayout matches the millisecond ISO-8601 form the stored history uses.
const isoLayout = "2006-01-02T15:04:05.000Z07:00"

// storedMeeting is the serialized form of a meeting in the local key/value store.
// Dates are ISO-8601 strings; the draft marker is never written.
type storedMeeting struct {
	ID          string              `json:"id,omitempty"`
	Title       string              `json:"title"`
	Date        string              `json:"date"`
	Sections    entities.SectionMap `json:"sections"`
	CreatedAt   string              `json:"createdAt,omitempty"`
	PublishedAt string              `json:"publishedAt,omitempty"`
	UpdatedAt   string              `json:"updatedAt,omitempty"`
}

func formatISO(t time.Time) string {
	return t.UTC().Format(isoLayout)
}

func formatISOPtr(t *time.Time) string {
	if t == nil {
		return ""
	}
	return formatISO(*t)
}

func parseISO(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return t.UTC(), nil
}

func parseISOPtr(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := parseISO(s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func toStored(m *entities.Meeting) storedMeeting {
	sections := m.Sections
	if sections == nil {
		sections = entities.SectionMap{}
	}
	return storedMeeting{
		ID:          m.ID,
		Title:       m.Title,
		Date:        formatISO(m.Date),
		Sections:    sections,
		CreatedAt:   formatISOPtr(m.CreatedAt),
		PublishedAt: formatISOPtr(m.PublishedAt),
		UpdatedAt:   formatISOPtr(m.UpdatedAt),
	}
}

func (s storedMeeting) meeting() (*entities.Meeting, error) {
	date, err := parseISO(s.Date)
	if err != nil {
		return nil, err
	}
	m := &entities.Meeting{
		ID:       s.ID,
		Title:    s.Title,
		Date:     date,
		Sections: s.Sections,
	}
	if m.Sections == nil {
		m.Sections = entities.SectionMap{}
	}
	if m.CreatedAt, err = parseISOPtr(s.CreatedAt); err != nil {
		return nil, err
	}
	if m.PublishedAt, err = parseISOPtr(s.PublishedAt); err != nil {
		return nil, err
	}
	if m.UpdatedAt, err = parseISOPtr(s.UpdatedAt); err != nil {
		return nil, err
	}
	return m, nil
}

// newPublished builds the history record for a draft: fresh identity,
// publish stamp, no draft bookkeeping.
func newPublished(draft *entities.Meeting, now time.Time) *entities.Meeting {
	m := draft.Content()
	m.ID = uuid.NewString()
	m.CreatedAt = &now
	published := now
	m.PublishedAt = &published
	if m.Title == "" {
		m.Title = entities.DefaultTitle
	}
	return m
}

// insertByDate places m before the first record with an earlier date, so
// history stays date descending and equal dates keep insertion order.
func insertByDate(meetings []*entities.Meeting, m *entities.Meeting) []*entities.Meeting {
	idx := len(meetings)
	for i, existing := range meetings {
		if existing.Date.Before(m.Date) {
			idx = i
			break
		}
	}
	meetings = append(meetings, nil)
	copy(meetings[idx+1:], meetings[idx:])
	meetings[idx] = m
	return meetings
}
