package anonymizer

import "sort"

// binding is a surviving span paired with its resolved, validated operator
// invocation, ready for the rewriting pass.
type binding struct {
	span Span
	op   resolvedOperator
}

// rewrite applies every binding to text and returns the final text plus
// one item per binding, ordered by ascending original start.
//
// Spans are processed rightmost first, splicing the working text as
// text[:start] + transformed + text[end:]. Only text at or after the
// current span's start ever shifts, so offsets of not-yet-processed spans
// to the left stay valid. When two survivors partially overlap (the
// reconciler allows that), the leftward splice is clipped at the start of
// the nearest span already rewritten to its right: each original byte is
// transformed exactly once and the output does not depend on any hidden
// ordering. Audit items always carry the original, unclipped offsets.
func rewrite(text string, bindings []binding) (string, []ResultItem, error) {
	ordered := make([]binding, len(bindings))
	copy(ordered, bindings)
	sort.Slice(ordered, func(i, j int) bool {
		return ordered[i].span.Start > ordered[j].span.Start
	})

	working := text
	items := make([]ResultItem, 0, len(ordered))
	// Start of the most recently rewritten span; nothing clips against the
	// end of the text.
	boundary := len(text)

	for _, b := range ordered {
		end := b.span.End
		if end > boundary {
			end = boundary
		}

		transformed, err := b.op.operate(working[b.span.Start:end])
		if err != nil {
			return "", nil, err
		}

		working = working[:b.span.Start] + transformed + working[end:]
		boundary = b.span.Start

		items = append(items, ResultItem{
			Operator:   b.op.name,
			EntityType: b.span.EntityType,
			Start:      b.span.Start,
			End:        b.span.End,
			Text:       transformed,
		})
	}

	sort.Slice(items, func(i, j int) bool { return items[i].Start < items[j].Start })
	return working, items, nil
}
