package query

import (
	"regexp"
	"strings"

	"github.com/julianshen/nereid-core/internal/model"
)

// MessageFilter narrows Messages' result to messages matching every
// populated field; empty fields are unconstrained.
type MessageFilter struct {
	From string
	To   string
	Kind model.MessageKind
}

// Messages returns every message matching filter, in canonical order.
func Messages(ast *model.SequenceAST, filter MessageFilter) []model.Message {
	var out []model.Message
	for _, m := range ast.CanonicalMessages() {
		if filter.From != "" && m.FromID != filter.From {
			continue
		}
		if filter.To != "" && m.ToID != filter.To {
			continue
		}
		if filter.Kind != "" && m.Kind != filter.Kind {
			continue
		}
		out = append(out, m)
	}
	return out
}

// SearchMode selects how Search matches needle against message text.
type SearchMode string

const (
	SearchSubstring SearchMode = "substring"
	SearchRegex     SearchMode = "regex"
)

// Search returns every message whose text matches needle under mode, in
// canonical order. A malformed regex yields InvalidParams.
func Search(ast *model.SequenceAST, needle string, mode SearchMode, caseInsensitive bool) ([]model.Message, error) {
	switch mode {
	case SearchSubstring:
		n := needle
		if caseInsensitive {
			n = strings.ToLower(n)
		}
		var out []model.Message
		for _, m := range ast.CanonicalMessages() {
			text := m.Text
			if caseInsensitive {
				text = strings.ToLower(text)
			}
			if strings.Contains(text, n) {
				out = append(out, m)
			}
		}
		return out, nil
	case SearchRegex:
		pattern := needle
		if caseInsensitive {
			pattern = "(?i)" + pattern
		}
		re, err := regexp.Compile(pattern)
		if err != nil {
			return nil, &InvalidParams{Detail: "bad regex: " + err.Error()}
		}
		var out []model.Message
		for _, m := range ast.CanonicalMessages() {
			if re.MatchString(m.Text) {
				out = append(out, m)
			}
		}
		return out, nil
	default:
		return nil, &InvalidParams{Detail: "unknown search mode: " + string(mode)}
	}
}

// TraceDirection selects which side of an anchor message Trace walks.
type TraceDirection string

const (
	TraceBefore TraceDirection = "before"
	TraceAfter  TraceDirection = "after"
	TraceBoth   TraceDirection = "both"
)

// Trace returns up to limit messages in canonical order around fromMessageID.
// An empty fromMessageID anchors at the start of the diagram for "after"/
// "both" and at the end for "before". limit<=0 returns an empty slice.
func Trace(ast *model.SequenceAST, fromMessageID string, direction TraceDirection, limit int) ([]model.Message, error) {
	if limit <= 0 {
		return nil, nil
	}
	canonical := ast.CanonicalMessages()

	anchor := -1
	if fromMessageID != "" {
		for i, m := range canonical {
			if m.ID == fromMessageID {
				anchor = i
				break
			}
		}
		if anchor == -1 {
			return nil, &NotFound{Kind: "message", ID: fromMessageID}
		}
	}

	switch direction {
	case TraceBefore:
		end := anchor
		if fromMessageID == "" {
			end = len(canonical)
		}
		start := end - limit
		if start < 0 {
			start = 0
		}
		if end < 0 {
			end = 0
		}
		return append([]model.Message(nil), canonical[start:end]...), nil
	case TraceAfter:
		start := anchor + 1
		if fromMessageID == "" {
			start = 0
		}
		end := start + limit
		if end > len(canonical) {
			end = len(canonical)
		}
		if start > len(canonical) {
			start = len(canonical)
		}
		return append([]model.Message(nil), canonical[start:end]...), nil
	case TraceBoth:
		center := anchor
		if fromMessageID == "" {
			center = 0
		}
		before := limit / 2
		after := limit - before
		start := center - before
		end := center + after + 1
		if start < 0 {
			end += -start
			start = 0
		}
		if end > len(canonical) {
			start -= end - len(canonical)
			end = len(canonical)
		}
		if start < 0 {
			start = 0
		}
		return append([]model.Message(nil), canonical[start:end]...), nil
	default:
		return nil, &InvalidParams{Detail: "unknown trace direction: " + string(direction)}
	}
}
