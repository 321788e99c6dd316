// Package anonymizer is the core text-rewriting engine: it takes free text
// plus detector-produced entity spans and returns the text with every
// surviving span transformed by a configured operator, together with an
// audit item per change.
//
// The engine performs no I/O. Spans and operator configs come in as plain
// data, the rewritten text and its items go out as plain data, and nothing
// is shared between invocations, so one Engine value serves concurrent
// callers without locking.
package anonymizer

import (
	"github.com/veil-io/veil/internal/operator"
)

// DefaultConfigKey is the operator-config key that applies to any entity
// type without a specific entry.
const DefaultConfigKey = "DEFAULT"

// Span is one detector candidate: a half-open byte range [Start, End) in
// the source text, tagged with an entity type and a confidence score.
// The engine never mutates a Span, it only selects or discards.
type Span struct {
	Start      int     `json:"start"`
	End        int     `json:"end"`
	EntityType string  `json:"entity_type"`
	Score      float64 `json:"score"`
}

// Len returns the span's width in bytes.
func (s Span) Len() int { return s.End - s.Start }

// containedIn reports whether s's range is a subset of other's, including
// the equal-range case.
func (s Span) containedIn(other Span) bool {
	return s.Start >= other.Start && s.End <= other.End
}

// OperatorConfig selects an operator and its parameters for one entity
// type (or for DefaultConfigKey).
type OperatorConfig struct {
	Type   string          `json:"type" yaml:"type"`
	Params operator.Params `json:"params,omitempty" yaml:"params,omitempty"`
}

// ResultItem is the audit record of one applied change. Offsets are the
// span's original (pre-rewrite) positions in the input text.
type ResultItem struct {
	Operator   string `json:"operator"`
	EntityType string `json:"entity_type"`
	Start      int    `json:"start"`
	End        int    `json:"end"`
	Text       string `json:"text"`
}

// Result is the engine output: the rewritten text plus one item per
// surviving span, ordered by ascending original start.
type Result struct {
	Text  string       `json:"text"`
	Items []ResultItem `json:"items"`
}
