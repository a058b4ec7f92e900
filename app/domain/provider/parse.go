package provider

import (
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf8"
)

// ParseFailure carries model output that could not be decoded.
type ParseFailure struct {
	Raw    string
	Reason string
}

func (p *ParseFailure) Error() string {
	return fmt.Sprintf("unparsable model output: %s", p.Reason)
}

// DecodeJSON decodes model output into v. Code fences and prose around
// the first JSON value are tolerated.
func DecodeJSON(raw string, v any) error {
	text := stripFences(strings.TrimSpace(raw))
	if text == "" {
		return &ParseFailure{Raw: raw, Reason: "empty output"}
	}
	err := json.Unmarshal([]byte(text), v)
	if err == nil {
		return nil
	}
	if candidate, ok := extractJSON(text); ok {
		if err2 := json.Unmarshal([]byte(candidate), v); err2 == nil {
			return nil
		}
	}
	return &ParseFailure{Raw: raw, Reason: err.Error()}
}

func stripFences(text string) string {
	if !strings.HasPrefix(text, "```") {
		return text
	}
	text = strings.TrimPrefix(text, "```")
	if nl := strings.IndexByte(text, '\n'); nl >= 0 {
		text = text[nl+1:]
	}
	text = strings.TrimSuffix(strings.TrimSpace(text), "```")
	return strings.TrimSpace(text)
}

func extractJSON(text string) (string, bool) {
	start := strings.IndexAny(text, "{[")
	if start < 0 {
		return "", false
	}
	closer := byte('}')
	if text[start] == '[' {
		closer = ']'
	}
	end := strings.LastIndexByte(text, closer)
	if end <= start {
		return "", false
	}
	return text[start : end+1], true
}

// Truncate cuts s to at most limit bytes without splitting a UTF-8 sequence.
func Truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	if limit <= 0 {
		return ""
	}
	cut := limit
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}
