package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/johnquangdev/meeting-notes/internal/domain/entities"
	"github.com/johnquangdev/meeting-notes/internal/domain/repositories"
	"github.com/johnquangdev/meeting-notes/internal/infrastructure/docstore"
)

const testAppID = "test-app"

func newRemote(store docstore.Store) *RemoteMeetingRepository {
	r := NewRemoteMeetingRepository(store, testAppID, nil)
	r.now = fixedClock(day("2025-07-02"))
	return r
}

func TestRemoteRepository_NamespacesCollections(t *testing.T) {
	r := newRemote(docstore.NewMemoryStore(nil))
	assert.Equal(t, "artifacts/test-app/public/data/meetings", r.meetings)
	assert.Equal(t, "artifacts/test-app/public/data/drafts", r.drafts)
}

func TestRemoteRepository_SeedsDemoOnce(t *testing.T) {
	ctx := context.Background()
	store := docstore.NewMemoryStore(nil)
	r := newRemote(store)

	meetings, err := r.LoadMeetings(ctx)
	require.NoError(t, err)
	require.Len(t, meetings, 1)
	assert.Equal(t, entities.DefaultTitle, meetings[0].Title)

	require.NoError(t, r.DeleteMeeting(ctx, meetings[0].ID))

	meetings, err = newRemote(store).LoadMeetings(ctx)
	require.NoError(t, err)
	assert.Empty(t, meetings)
}

func TestRemoteRepository_DraftLifecycle(t *testing.T) {
	ctx := context.Background()
	store := docstore.NewMemoryStore(nil)
	r := newRemote(store)

	draft, err := r.LoadDraft(ctx)
	require.NoError(t, err)
	assert.Nil(t, draft)

	_, err = r.SaveDraft(ctx, draftWith(entities.SectionLIB, "first"))
	require.NoError(t, err)
	_, err = r.SaveDraft(ctx, draftWith(entities.SectionLIB, "Goal 50/Current: 30"))
	require.NoError(t, err)

	docs, err := store.Query(ctx, r.drafts)
	require.NoError(t, err)
	require.Len(t, docs, 1)

	draft, err = newRemote(store).LoadDraft(ctx)
	require.NoError(t, err)
	require.NotNil(t, draft)
	assert.True(t, draft.IsDraft)
	assert.Equal(t, "Goal 50/Current: 30", draft.Sections[entities.SectionLIB])
	assert.NotNil(t, draft.UpdatedAt)

	require.NoError(t, r.DeleteDraft(ctx))
	require.NoError(t, r.DeleteDraft(ctx))
}

func TestRemoteRepository_Publish(t *testing.T) {
	ctx := context.Background()
	r := newRemote(docstore.NewMemoryStore(nil))
	_, err := r.LoadMeetings(ctx)
	require.NoError(t, err)

	draft, err := r.SaveDraft(ctx, draftWith(entities.SectionOtherUpdates, "X"))
	require.NoError(t, err)

	published, err := r.Publish(ctx, draft)
	require.NoError(t, err)
	assert.NotEqual(t, entities.DraftSlotID, published.ID)
	assert.NotNil(t, published.CreatedAt)
	assert.NotNil(t, published.PublishedAt)

	meetings, err := r.LoadMeetings(ctx)
	require.NoError(t, err)
	require.Len(t, meetings, 2)
	assert.Equal(t, published.ID, meetings[0].ID)
	assert.Equal(t, "X", meetings[0].Sections[entities.SectionOtherUpdates])

	after, err := r.LoadDraft(ctx)
	require.NoError(t, err)
	assert.Nil(t, after)
}

func TestRemoteRepository_PartialPublish(t *testing.T) {
	ctx := context.Background()
	inner := docstore.NewMemoryStore(nil)
	r := newRemote(inner)
	draft, err := r.SaveDraft(ctx, draftWith(entities.SectionLIB, "both"))
	require.NoError(t, err)

	r.store = &flakyDocs{Store: inner, failDelete: r.drafts}
	published, err := r.Publish(ctx, draft)
	require.ErrorIs(t, err, entities.ErrPartialPublish)
	require.NotNil(t, published)

	stale, err := r.LoadDraft(ctx)
	require.NoError(t, err)
	require.NotNil(t, stale)
	assert.True(t, stale.SameContent(published))
}

func TestRemoteRepository_PublishInsertFailure(t *testing.T) {
	ctx := context.Background()
	inner := docstore.NewMemoryStore(nil)
	r := newRemote(inner)
	draft, err := r.SaveDraft(ctx, draftWith(entities.SectionLIB, "x"))
	require.NoError(t, err)

	r.store = &flakyDocs{Store: inner, failInsert: true}
	_, err = r.Publish(ctx, draft)
	require.ErrorIs(t, err, errInjected)

	still, err := r.LoadDraft(ctx)
	require.NoError(t, err)
	assert.NotNil(t, still)
}

func TestRemoteRepository_DeleteUnknownMeetingSucceeds(t *testing.T) {
	r := newRemote(docstore.NewMemoryStore(nil))
	assert.NoError(t, r.DeleteMeeting(context.Background(), "nope"))
	assert.ErrorIs(t, r.DeleteMeeting(context.Background(), ""), entities.ErrInvalidMeetingID)
}

func TestRemoteRepository_SubscribeDeliversInitialAndOwnWrites(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	r := newRemote(docstore.NewMemoryStore(nil))
	_, err := r.LoadMeetings(ctx)
	require.NoError(t, err)

	events, err := r.Subscribe(ctx)
	require.NoError(t, err)

	seen := map[repositories.ChangeKind]bool{}
	deadline := time.After(2 * time.Second)
	for len(seen) < 2 {
		select {
		case ev := <-events:
			seen[ev.Kind] = true
			if ev.Kind == repositories.ChangeMeetings {
				assert.Len(t, ev.Meetings, 1)
			} else {
				assert.Nil(t, ev.Draft)
			}
		case <-deadline:
			t.Fatal("initial snapshots not delivered")
		}
	}

	_, err = r.SaveDraft(ctx, draftWith(entities.SectionLIB, "echo"))
	require.NoError(t, err)

	for {
		select {
		case ev := <-events:
			if ev.Kind == repositories.ChangeDraft && ev.Draft != nil {
				assert.Equal(t, "echo", ev.Draft.Sections[entities.SectionLIB])
				assert.True(t, ev.Draft.IsDraft)
				return
			}
		case <-deadline:
			t.Fatal("own write not redelivered")
		}
	}
}

func TestRemoteRepository_SubscribeClosesOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	r := newRemote(docstore.NewMemoryStore(nil))

	events, err := r.Subscribe(ctx)
	require.NoError(t, err)
	cancel()

	require.Eventually(t, func() bool {
		select {
		case _, ok := <-events:
			return !ok
		default:
			return false
		}
	}, 2*time.Second, 5*time.Millisecond)
}
