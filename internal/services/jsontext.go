package services

import (
	"encoding/json"
	"strings"
)

// stripCodeFences removes a surrounding markdown fence such as ```json ... ```.
// Input that is not fenced comes back trimmed and otherwise unchanged.
func stripCodeFences(raw string) string {
	text := strings.TrimSpace(raw)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```JSON")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	return strings.TrimSpace(text)
}

// decodeModelJSON decodes model output into v. If the whole text is not
// valid JSON it retries with the span between the first open and last close
// delimiter, which covers prose wrapped around the payload.
func decodeModelJSON(raw string, v interface{}, open, close string) error {
	text := stripCodeFences(raw)
	err := json.Unmarshal([]byte(text), v)
	if err == nil {
		return nil
	}

	start := strings.Index(text, open)
	end := strings.LastIndex(text, close)
	if start >= 0 && end > start {
		return json.Unmarshal([]byte(text[start:end+1]), v)
	}
	return err
}
