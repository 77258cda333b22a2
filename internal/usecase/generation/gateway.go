package generation

import (
	"context"
	"errors"
	"fmt"

	"github.com/johnquangdev/meeting-notes/internal/domain/entities"
)

// Kind names what the gateway is asked to produce.
type Kind string

const (
	KindSummarize      Kind = "summarize"
	KindSuggestActions Kind = "suggestActions"
	KindPrefillAgenda  Kind = "prefillAgenda"
)

// IsValid reports whether k is one of the known request kinds.
func (k Kind) IsValid() bool {
	switch k {
	case KindSummarize, KindSuggestActions, KindPrefillAgenda:
		return true
	}
	return false
}

var (
	ErrUnknownKind   = errors.New("unknown generation kind")
	ErrEmptyResponse = errors.New("empty generation response")
	ErrNoSections    = errors.New("response contains no known sections")
)

// Request is one generation call.
type Request struct {
	Kind     Kind
	Sections entities.SectionMap
}

// Result carries Text for summarize/suggestActions and Sections for prefillAgenda.
type Result struct {
	Kind     Kind
	Text     string
	Sections entities.SectionMap
}

// Gateway produces generated content from a meeting's sections.
// Implementations hold no state between calls.
type Gateway interface {
	Generate(ctx context.Context, req Request) (*Result, error)
}

// Error reports a failed generation. Callers treat it as non-fatal.
type Error struct {
	Kind      Kind
	Retryable bool
	Err       error
}

func (e *Error) Error() string {
	return fmt.Sprintf("generate %s: %v", e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}
