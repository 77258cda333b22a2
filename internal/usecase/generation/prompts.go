package generation

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/johnquangdev/meeting-notes/internal/domain/entities"
)

const (
	summaryInstruction = "Based on the following meeting notes, generate a concise summary in English. Format the output in Markdown."
	actionsInstruction = "Analyze the following meeting notes and identify potential action items, tasks, or decisions. For each item, indicate who might be responsible if mentioned. Present the result as a bulleted list in English. If no clear action items are found, state that. Format the output in Markdown."
	agendaInstruction  = "Based on our last meeting's notes, suggest an agenda for the next one. Keep the same sections (%s). For each section, suggest points to discuss based on the current status from the last meeting. Provide only the content for the sections in JSON format, with no introductory text."
)

// BuildPrompt renders the provider prompt for a request.
func BuildPrompt(req Request) (string, error) {
	sections := req.Sections
	if sections == nil {
		sections = entities.SectionMap{}
	}
	payload, err := json.MarshalIndent(sections, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode sections: %w", err)
	}

	switch req.Kind {
	case KindSummarize:
		return summaryInstruction + "\n\n" + string(payload), nil
	case KindSuggestActions:
		return actionsInstruction + "\n\n" + string(payload), nil
	case KindPrefillAgenda:
		instruction := fmt.Sprintf(agendaInstruction, strings.Join(entities.SectionLabels(), ", "))
		return instruction + "\n\nLast Meeting:\n" + string(payload), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownKind, req.Kind)
	}
}
