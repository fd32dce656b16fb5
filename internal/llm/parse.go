package llm

import (
	"encoding/json"
	"fmt"
	"strings"
)

// CleanJSON strips markdown code fences that chat models like to wrap
// around their output.
func CleanJSON(input string) string {
	clean := strings.TrimSpace(input)

	if strings.HasPrefix(clean, "```json") {
		clean = strings.TrimPrefix(clean, "```json")
	} else if strings.HasPrefix(clean, "```") {
		clean = strings.TrimPrefix(clean, "```")
	}
	clean = strings.TrimLeft(clean, "\r\n")
	clean = strings.TrimSuffix(clean, "```")

	return strings.TrimSpace(clean)
}

// ParseJSONObject decodes a backend response into dst: strict attempt first,
// then a tolerant scan for the outermost JSON object. Anything else is a
// malformed response.
func ParseJSONObject(response string, dst interface{}) error {
	cleaned := CleanJSON(response)

	if err := json.Unmarshal([]byte(cleaned), dst); err == nil {
		return nil
	}

	// Tolerant fallback: take everything between the first '{' and the last
	// '}' in case the model added prose around the object.
	start := strings.Index(cleaned, "{")
	end := strings.LastIndex(cleaned, "}")
	if start >= 0 && end > start {
		if err := json.Unmarshal([]byte(cleaned[start:end+1]), dst); err == nil {
			return nil
		}
	}

	return fmt.Errorf("%w: %.200s", ErrMalformedResponse, response)
}
