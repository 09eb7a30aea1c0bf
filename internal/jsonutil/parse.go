// Package jsonutil pulls JSON out of model responses, which may wrap it in
// markdown code fences or surround it with prose.
package jsonutil

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrNoJSON is returned when the text contains no JSON object or array.
var ErrNoJSON = errors.New("no JSON content found")

// StripMarkdownFences returns the content between a leading ``` (or ```json)
// line and the last closing ``` line. Unfenced text is returned trimmed.
func StripMarkdownFences(text string) string {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "```") {
		return text
	}

	lines := strings.Split(text, "\n")
	if len(lines) < 3 {
		return text
	}

	end := len(lines) - 1
	for i := len(lines) - 1; i > 0; i-- {
		if strings.TrimSpace(lines[i]) == "```" {
			end = i
			break
		}
	}
	return strings.Join(lines[1:end], "\n")
}

// Extract strips fences and returns the outermost object or array, whichever
// opens first.
func Extract(raw string) (string, error) {
	text := StripMarkdownFences(raw)

	objIdx := strings.Index(text, "{")
	arrIdx := strings.Index(text, "[")
	if objIdx == -1 && arrIdx == -1 {
		return "", ErrNoJSON
	}

	start, endChar := arrIdx, "]"
	if arrIdx == -1 || (objIdx != -1 && objIdx < arrIdx) {
		start, endChar = objIdx, "}"
	}

	text = text[start:]
	end := strings.LastIndex(text, endChar)
	if end == -1 {
		return "", fmt.Errorf("%w: no closing %s", ErrNoJSON, endChar)
	}
	return text[:end+1], nil
}

// Decode extracts JSON from raw and unmarshals it into T.
func Decode[T any](raw string) (T, error) {
	var result T
	jsonText, err := Extract(raw)
	if err != nil {
		return result, err
	}
	if err := json.Unmarshal([]byte(jsonText), &result); err != nil {
		return result, fmt.Errorf("invalid JSON: %w (text: %.200s)", err, jsonText)
	}
	return result, nil
}
