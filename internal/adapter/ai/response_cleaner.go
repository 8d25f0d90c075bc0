// Package ai provides response cleaning utilities for handling malformed LLM responses.
package ai

import (
	"encoding/json"
	"regexp"
	"strings"
)

// ResponseCleaner recovers usable JSON from raw model output. Models wrap
// payloads in markdown fences, prepend prose, or leave trailing commas; the
// cleaner handles those. It never invents content.
type ResponseCleaner struct{}

// NewResponseCleaner creates a new response cleaner.
func NewResponseCleaner() *ResponseCleaner {
	return &ResponseCleaner{}
}

var trailingComma = regexp.MustCompile(`,(\s*[}\]])`)

// ExtractObject returns the first balanced JSON object in response, cleaned.
func (rc *ResponseCleaner) ExtractObject(response string) (string, error) {
	return rc.extract(response, '{', '}')
}

// ExtractArray returns the first balanced JSON array in response, cleaned.
func (rc *ResponseCleaner) ExtractArray(response string) (string, error) {
	return rc.extract(response, '[', ']')
}

func (rc *ResponseCleaner) extract(response string, open, closing byte) (string, error) {
	response = rc.removeMarkdownBlocks(response)

	candidate := rc.balancedSlice(response, open, closing)
	if rc.IsValidJSON(candidate) {
		return candidate, nil
	}

	// Second attempt after repairing trailing commas.
	candidate = trailingComma.ReplaceAllString(candidate, "$1")
	if rc.IsValidJSON(candidate) {
		return candidate, nil
	}

	return "", &JSONValidationError{
		Original: response,
		Cleaned:  candidate,
		Message:  "cleaned response is still not valid JSON",
	}
}

// removeMarkdownBlocks removes markdown code fences from the response.
func (rc *ResponseCleaner) removeMarkdownBlocks(response string) string {
	response = strings.TrimSpace(response)
	response = strings.TrimPrefix(response, "```json")
	response = strings.TrimPrefix(response, "```")
	response = strings.TrimSuffix(response, "```")
	return strings.TrimSpace(response)
}

// balancedSlice cuts the substring from the first opening delimiter to its
// matching close, skipping delimiters that occur inside string literals.
func (rc *ResponseCleaner) balancedSlice(response string, open, closing byte) string {
	start := strings.IndexByte(response, open)
	if start == -1 {
		return response
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(response); i++ {
		c := response[i]
		switch {
		case escaped:
			escaped = false
		case c == '\\' && inString:
			escaped = true
		case c == '"':
			inString = !inString
		case inString:
		case c == open:
			depth++
		case c == closing:
			depth--
			if depth == 0 {
				return response[start : i+1]
			}
		}
	}
	return response[start:]
}

// IsValidJSON checks if a string is valid JSON.
func (rc *ResponseCleaner) IsValidJSON(response string) bool {
	var temp interface{}
	return json.Unmarshal([]byte(response), &temp) == nil
}

// JSONValidationError represents a JSON validation error.
type JSONValidationError struct {
	Original string
	Cleaned  string
	Message  string
}

func (e *JSONValidationError) Error() string {
	return e.Message
}
