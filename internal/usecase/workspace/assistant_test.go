package workspace

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/johnquangdev/meeting-notes/internal/domain/entities"
	"github.com/johnquangdev/meeting-notes/internal/infrastructure/kv"
	"github.com/johnquangdev/meeting-notes/internal/usecase/generation"
	pkgai "github.com/johnquangdev/meeting-notes/pkg/ai"
)

type stubGateway struct {
	err      error
	requests []generation.Request
}

func (g *stubGateway) Generate(ctx context.Context, req generation.Request) (*generation.Result, error) {
	g.requests = append(g.requests, req)
	if g.err != nil {
		return nil, g.err
	}
	return &generation.Result{Kind: req.Kind, Text: "generated " + string(req.Kind)}, nil
}

func TestAssistant_SummarizeUsesSelection(t *testing.T) {
	s, _ := newLocalStore(t, kv.NewMemoryStore())
	gw := &stubGateway{}
	a := NewAssistant(s, gw, nil)

	text, err := a.Summarize(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "generated summarize", text)
	require.Len(t, gw.requests, 1)
	assert.True(t, gw.requests[0].Sections.Equal(entities.DemoMeeting().Sections))

	text, err = a.SuggestActions(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "generated suggestActions", text)
}

func TestAssistant_NothingSelected(t *testing.T) {
	ctx := context.Background()
	s, _ := newLocalStore(t, kv.NewMemoryStore())
	require.NoError(t, s.DeleteMeeting(ctx, s.Selection().ID))

	a := NewAssistant(s, &stubGateway{}, nil)
	_, err := a.Summarize(ctx)
	assert.ErrorIs(t, err, entities.ErrNothingSelected)
}

func TestAssistant_GenerationFailureIsReturned(t *testing.T) {
	s, _ := newLocalStore(t, kv.NewMemoryStore())
	a := NewAssistant(s, &stubGateway{err: errors.New("quota")}, nil)

	_, err := a.SuggestActions(context.Background())
	assert.Error(t, err)
	assert.Equal(t, ModeViewing, s.Mode())
}

func TestAssistant_PrefillFromLastMeeting(t *testing.T) {
	s, _ := newLocalStore(t, kv.NewMemoryStore())
	a := NewAssistant(s, generation.NewService(pkgai.NewMockClient(0), 0, nil), nil)

	res := a.PrefillNextDraft(context.Background())
	require.NoError(t, res.Fallback)
	assert.True(t, res.Prefilled)
	require.NotNil(t, res.Draft)
	assert.True(t, res.Draft.IsDraft)
	assert.Contains(t, res.Draft.Sections[entities.SectionLIB], "Current: 22")
	assert.Equal(t, ModeEditing, s.Mode())
	assert.Nil(t, s.Snapshot().Draft)
}

func TestAssistant_PrefillFallsBackOnFailure(t *testing.T) {
	s, _ := newLocalStore(t, kv.NewMemoryStore())
	a := NewAssistant(s, &stubGateway{err: errors.New("unavailable")}, nil)

	res := a.PrefillNextDraft(context.Background())
	assert.Error(t, res.Fallback)
	assert.False(t, res.Prefilled)
	assert.Equal(t, entities.SectionLIB.Placeholder(), res.Draft.Sections[entities.SectionLIB])
	assert.Equal(t, ModeEditing, s.Mode())
}

func TestAssistant_PrefillWithoutHistoryStartsDraft(t *testing.T) {
	ctx := context.Background()
	s, _ := newLocalStore(t, kv.NewMemoryStore())
	require.NoError(t, s.DeleteMeeting(ctx, s.Selection().ID))
	gw := &stubGateway{}
	a := NewAssistant(s, gw, nil)

	res := a.PrefillNextDraft(ctx)
	assert.NoError(t, res.Fallback)
	assert.False(t, res.Prefilled)
	assert.NotNil(t, res.Draft)
	assert.Empty(t, gw.requests)
	assert.Equal(t, ModeEditing, s.Mode())
}
