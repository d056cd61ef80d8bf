package insight

import (
	"encoding/json"
	"strings"
)

// structuredResponse is the JSON shape the prompt asks the provider for.
type structuredResponse struct {
	Insight         string   `json:"insight"`
	ActionableSteps []string `json:"actionable_steps"`
	Confidence      float64  `json:"confidence"`
	Predictions     string   `json:"predictions"`
}

// parseStructured decodes the provider's response text. Providers often
// wrap JSON payloads in markdown code fences, which are stripped before
// decoding.
func parseStructured(raw string) (structuredResponse, error) {
	text := stripFences(strings.TrimSpace(raw))

	var out structuredResponse
	if err := json.Unmarshal([]byte(text), &out); err != nil {
		return structuredResponse{}, &ParseError{Raw: raw, Err: err}
	}
	return out, nil
}

// stripFences removes a surrounding ```json ... ``` or ``` ... ``` block.
func stripFences(text string) string {
	if strings.HasPrefix(text, "```json") {
		text = strings.TrimPrefix(text, "```json")
	} else if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```")
	} else {
		return text
	}
	text = strings.TrimSuffix(strings.TrimSpace(text), "```")
	return strings.TrimSpace(text)
}
