package docstore

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDocumentRow_RoundTrip(t *testing.T) {
	published := time.Date(2025, 6, 3, 18, 30, 0, 0, time.UTC)
	doc := Document{
		Title:       "Huddle",
		Date:        time.Date(2025, 6, 3, 12, 0, 0, 0, time.UTC),
		Sections:    map[string]string{"lib": "Goal 50/Current: 30", "otherUpdates": "X"},
		PublishedAt: &published,
	}

	row, err := rowFromDocument("meetings", "abc", doc)
	require.NoError(t, err)
	assert.Equal(t, "meetings", row.Collection)
	assert.Equal(t, "abc", row.ID)
	assert.Nil(t, row.Created)

	back, err := row.document()
	require.NoError(t, err)
	assert.Equal(t, "abc", back.ID)
	assert.Equal(t, doc.Title, back.Title)
	assert.True(t, doc.Date.Equal(back.Date))
	assert.Equal(t, doc.Sections, back.Sections)
	require.NotNil(t, back.PublishedAt)
	assert.True(t, published.Equal(*back.PublishedAt))
}

func TestDocumentRow_NilSectionsEncodeAsObject(t *testing.T) {
	row, err := rowFromDocument("drafts", "current-draft", Document{})
	require.NoError(t, err)
	assert.JSONEq(t, `{}`, string(row.Sections))
}

func TestDocumentRow_BadSections(t *testing.T) {
	row := documentRow{Collection: "meetings", ID: "x", Sections: []byte("[1,2]")}
	_, err := row.document()
	assert.Error(t, err)
}

func TestDocumentRow_TableName(t *testing.T) {
	assert.Equal(t, "documents", documentRow{}.TableName())
}
