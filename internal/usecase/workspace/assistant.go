package workspace

import (
	"context"

	"go.uber.org/zap"

	"github.com/johnquangdev/meeting-notes/internal/domain/entities"
	"github.com/johnquangdev/meeting-notes/internal/usecase/generation"
)

// Assistant runs content generation against the workspace. Generation never
// holds the store lock.
type Assistant struct {
	store   *Store
	gateway generation.Gateway
	logger  *zap.Logger
}

// NewAssistant creates an assistant over store and gateway.
func NewAssistant(store *Store, gateway generation.Gateway, logger *zap.Logger) *Assistant {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Assistant{store: store, gateway: gateway, logger: logger}
}

// Summarize generates a summary of the selected record.
func (a *Assistant) Summarize(ctx context.Context) (string, error) {
	return a.generateText(ctx, generation.KindSummarize)
}

// SuggestActions generates action items for the selected record.
func (a *Assistant) SuggestActions(ctx context.Context) (string, error) {
	return a.generateText(ctx, generation.KindSuggestActions)
}

func (a *Assistant) generateText(ctx context.Context, kind generation.Kind) (string, error) {
	selection := a.store.Selection()
	if selection == nil {
		return "", entities.ErrNothingSelected
	}

	res, err := a.gateway.Generate(ctx, generation.Request{Kind: kind, Sections: selection.Sections})
	if err != nil {
		return "", err
	}
	return res.Text, nil
}

// PrefillResult is the draft a prefill left selected. Fallback is set when
// generation was skipped or failed and the regular draft flow ran instead.
type PrefillResult struct {
	Draft     *entities.Meeting
	Prefilled bool
	Fallback  error
}

// PrefillNextDraft opens a new draft whose sections are suggested from the
// most recent meeting. Without history, or when generation fails, it falls
// back to StartOrResumeDraft.
func (a *Assistant) PrefillNextDraft(ctx context.Context) PrefillResult {
	state := a.store.Snapshot()
	if len(state.Meetings) == 0 {
		return PrefillResult{Draft: a.store.StartOrResumeDraft()}
	}
	last := state.Meetings[0]

	res, err := a.gateway.Generate(ctx, generation.Request{Kind: generation.KindPrefillAgenda, Sections: last.Sections})
	if err != nil {
		a.logger.Warn("Prefill failed, starting regular draft",
			zap.String("meeting_id", last.ID),
			zap.Error(err),
		)
		return PrefillResult{Draft: a.store.StartOrResumeDraft(), Fallback: err}
	}

	return PrefillResult{Draft: a.store.StartDraftWithSections(res.Sections), Prefilled: true}
}
