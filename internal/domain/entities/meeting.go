package entities

import "time"

const (
	// DraftSlotID is the well-known identity of the singleton draft.
	DraftSlotID = "current-draft"

	// DefaultTitle is the title every new meeting starts with.
	DefaultTitle = "Business Partners/Community Kitchen Huddle"
)

// Meeting is a meeting record. Published meetings are immutable; the draft
// is the only record that is ever edited.
type Meeting struct {
	ID          string     `json:"id,omitempty"`
	Title       string     `json:"title"`
	Date        time.Time  `json:"date"`
	Sections    SectionMap `json:"sections"`
	CreatedAt   *time.Time `json:"createdAt,omitempty"`
	PublishedAt *time.Time `json:"publishedAt,omitempty"`
	UpdatedAt   *time.Time `json:"updatedAt,omitempty"`

	// IsDraft only exists in memory; it is never persisted.
	IsDraft bool `json:"-"`
}

// NewDraft builds a draft from the template dated at now.
func NewDraft(now time.Time) *Meeting {
	return &Meeting{
		Title:    DefaultTitle,
		Date:     now,
		Sections: TemplateSections(),
		IsDraft:  true,
	}
}

// NewDraftWithSections builds a draft from the template carrying the given sections.
func NewDraftWithSections(now time.Time, sections SectionMap) *Meeting {
	d := NewDraft(now)
	d.Sections = sections.Clone()
	if d.Sections == nil {
		d.Sections = SectionMap{}
	}
	return d
}

// DemoMeeting is the record seeded into an empty history.
func DemoMeeting() *Meeting {
	return &Meeting{
		ID:    "1",
		Title: DefaultTitle,
		Date:  time.Date(2025, time.June, 3, 12, 0, 0, 0, time.UTC),
		Sections: SectionMap{
			SectionLIB:                "Ends March 2026\nGoal 50 participants/ Current: 20\nGoal 40 complete the program / Current:20\nGoal 36 increase in knowledge and/or implement a digital solution / Current:\nUpcoming cohort: July 15th tues/thur",
			SectionDYCD:               "business partner intake\nGoal of 93 enrolled / Current: 74\nAdditional notes",
			SectionBusinessPlans:      "Goal of 37 / Previous meeting: / Current: 25\nProjected DYCD - 6\nDYCD- success story",
			SectionCommercialLease:    "Notes:",
			SectionKitchenMembers:     "Goal of 25 / Pipeline: 6\nInspections - Deferring to June\nPrevious Meeting: 25\nCurrent: 24\nGoal: 25\nProspects: 3 (Royal V Eats, Skrimps Seafood, A Few Good Men)\nMaybe: 3 (Everything but the Meat, Highrise Food Co., Undine/Juicing)\nH26 renewal\nNotes:",
			SectionBIDUpdates:         "Board Retreat\nNotes:",
			SectionAvenueNYC:          "Notes:",
			SectionMerchantOrganizing: "Notes:",
			SectionENYFarmersMarket:   "ENY Farmers Market - June 28th\nNotes:",
			SectionOtherUpdates:       "Daisha's First Day\nEmily Visiting at next meeting\nThursday, Small Business event\nBP Outing\nJune 6th - Dave and Busters\nNotes:",
		},
	}
}

// Clone returns a deep copy.
func (m *Meeting) Clone() *Meeting {
	if m == nil {
		return nil
	}
	out := *m
	out.Sections = m.Sections.Clone()
	out.CreatedAt = cloneTime(m.CreatedAt)
	out.PublishedAt = cloneTime(m.PublishedAt)
	out.UpdatedAt = cloneTime(m.UpdatedAt)
	return &out
}

// AsDraft returns a copy marked as the draft.
func (m *Meeting) AsDraft() *Meeting {
	d := m.Clone()
	if d != nil {
		d.IsDraft = true
	}
	return d
}

// Content returns a copy stripped of identity, bookkeeping timestamps and the draft marker.
func (m *Meeting) Content() *Meeting {
	if m == nil {
		return nil
	}
	return &Meeting{
		Title:    m.Title,
		Date:     m.Date,
		Sections: m.Sections.Clone(),
	}
}

// SameContent compares title, date and sections.
func (m *Meeting) SameContent(other *Meeting) bool {
	if m == nil || other == nil {
		return m == other
	}
	return m.Title == other.Title &&
		m.Date.Equal(other.Date) &&
		m.Sections.Equal(other.Sections)
}

// Equal compares content, identity and timestamps. The draft marker is ignored.
func (m *Meeting) Equal(other *Meeting) bool {
	if m == nil || other == nil {
		return m == other
	}
	return m.ID == other.ID &&
		m.SameContent(other) &&
		timeEqual(m.CreatedAt, other.CreatedAt) &&
		timeEqual(m.PublishedAt, other.PublishedAt) &&
		timeEqual(m.UpdatedAt, other.UpdatedAt)
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}

func timeEqual(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Equal(*b)
}
