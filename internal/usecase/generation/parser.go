package generation

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/johnquangdev/meeting-notes/internal/domain/entities"
)

// ParseSections decodes a prefill response into a section map keyed like the
// template. Unknown keys are dropped and missing keys come back empty.
func ParseSections(content string) (entities.SectionMap, error) {
	raw := map[string]json.RawMessage{}
	if err := json.Unmarshal([]byte(extractJSON(content)), &raw); err != nil {
		return nil, fmt.Errorf("failed to parse JSON response: %w", err)
	}

	sections := make(entities.SectionMap, len(entities.SectionKeys()))
	found := 0
	for _, key := range entities.SectionKeys() {
		value, ok := raw[string(key)]
		if !ok {
			sections[key] = ""
			continue
		}
		found++
		sections[key] = sectionText(value)
	}
	if found == 0 {
		return nil, ErrNoSections
	}
	return sections, nil
}

// sectionText accepts a string or a list of strings; anything else is kept as raw JSON.
func sectionText(value json.RawMessage) string {
	var s string
	if err := json.Unmarshal(value, &s); err == nil {
		return s
	}
	var lines []string
	if err := json.Unmarshal(value, &lines); err == nil {
		return strings.Join(lines, "\n")
	}
	return strings.TrimSpace(string(value))
}

// extractJSON strips markdown code fences and any chatter around the object.
func extractJSON(content string) string {
	content = strings.TrimSpace(content)

	// Check if wrapped in markdown code block
	if strings.HasPrefix(content, "```json") {
		content = strings.TrimPrefix(content, "```json")
		if idx := strings.LastIndex(content, "```"); idx != -1 {
			content = content[:idx]
		}
	} else if strings.HasPrefix(content, "```") {
		content = strings.TrimPrefix(content, "```")
		if idx := strings.LastIndex(content, "```"); idx != -1 {
			content = content[:idx]
		}
	}
	content = strings.TrimSpace(content)

	if !strings.HasPrefix(content, "{") {
		start := strings.Index(content, "{")
		end := strings.LastIndex(content, "}")
		if start != -1 && end > start {
			content = content[start : end+1]
		}
	}
	return content
}
