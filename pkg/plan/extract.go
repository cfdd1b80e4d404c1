package plan

import (
	"encoding/json"
	"fmt"
	"strings"
)

// diagnosticLimit bounds how much of the offending text a ParseError carries.
const diagnosticLimit = 200

// ParseError reports that a terminal model response could not be decoded into
// plans. The Snippet is a bounded prefix of the offending text; partial or
// best-effort plans are never produced.
type ParseError struct {
	Cause   error
	Snippet string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse plans: %v (text: %q)", e.Cause, e.Snippet)
}

func (e *ParseError) Unwrap() error { return e.Cause }

func newParseError(cause error, text string) *ParseError {
	snippet := text
	if len(snippet) > diagnosticLimit {
		snippet = snippet[:diagnosticLimit]
	}
	return &ParseError{Cause: cause, Snippet: snippet}
}

// plansEnvelope is the current response schema: a single object with a
// "plans" key. Older model prompts produced a bare Plan object instead.
type plansEnvelope struct {
	Plans []Plan `json:"plans"`
}

// Extract recovers the plan list from a free-form terminal response. The text
// may be wrapped in a fenced code block (optionally tagged ```json); the fence
// lines are stripped before parsing. A document without a "plans" key is
// treated as a legacy single-plan object and wrapped into a one-element list
// with a synthesized identity.
func Extract(text string) ([]Plan, error) {
	cleaned := Unfence(text)
	if cleaned == "" {
		return nil, newParseError(fmt.Errorf("empty response"), text)
	}

	var probe map[string]json.RawMessage
	if err := json.Unmarshal([]byte(cleaned), &probe); err != nil {
		return nil, newParseError(err, cleaned)
	}

	if _, ok := probe["plans"]; ok {
		var envelope plansEnvelope
		if err := json.Unmarshal([]byte(cleaned), &envelope); err != nil {
			return nil, newParseError(err, cleaned)
		}
		return envelope.Plans, nil
	}

	// Legacy schema: the whole document is one plan.
	var single Plan
	if err := json.Unmarshal([]byte(cleaned), &single); err != nil {
		return nil, newParseError(err, cleaned)
	}
	single.PlanID = 1
	if single.PlanTitle == "" {
		single.PlanTitle = "Your Day Plan"
	}
	if single.PlanEmoji == "" {
		single.PlanEmoji = "🌟"
	}
	if single.PlanTagline == "" {
		single.PlanTagline = "A day planned just for you"
	}
	return []Plan{single}, nil
}

// Unfence trims surrounding whitespace and strips a single wrapping fenced
// code block, with or without a language tag.
func Unfence(text string) string {
	cleaned := strings.TrimSpace(text)
	if !strings.HasPrefix(cleaned, "```") {
		return cleaned
	}
	cleaned = strings.TrimPrefix(cleaned, "```")
	// Drop a language tag such as "json" on the opening fence line.
	if idx := strings.IndexByte(cleaned, '\n'); idx >= 0 {
		first := strings.TrimSpace(cleaned[:idx])
		if first == "" || !strings.ContainsAny(first, "{[") {
			cleaned = cleaned[idx+1:]
		}
	}
	cleaned = strings.TrimSuffix(strings.TrimSpace(cleaned), "```")
	return strings.TrimSpace(cleaned)
}
