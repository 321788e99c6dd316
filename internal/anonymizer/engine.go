package anonymizer

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"

	veilotel "github.com/veil-io/veil/internal/otel"
	"github.com/veil-io/veil/internal/operator"
)

var tracer = veilotel.Tracer("github.com/veil-io/veil/internal/anonymizer")

// Engine applies operators to detected spans. A single value is stateless
// apart from the immutable operator catalog and serves concurrent callers.
type Engine struct {
	catalog *operator.Catalog
}

// NewEngine creates an Engine with the built-in operator catalog.
func NewEngine() *Engine {
	return &Engine{catalog: operator.NewCatalog()}
}

// Catalog exposes the engine's operator catalog (read-only).
func (e *Engine) Catalog() *operator.Catalog { return e.catalog }

// Anonymize rewrites text by applying a configured operator to every
// surviving span. Redundant (fully contained) spans are pruned first;
// spans with no specific or DEFAULT config fall back to replacing the
// slice with "<ENTITY_TYPE>". Any validation or operator failure aborts
// the whole call; there is no partial output.
func (e *Engine) Anonymize(ctx context.Context, text string, spans []Span, operators map[string]OperatorConfig) (*Result, error) {
	_, span := tracer.Start(ctx, "anonymizer.anonymize")
	defer span.End()

	if err := validateInput(text, spans); err != nil {
		return nil, err
	}

	survivors := reconcile(spans)
	bindings := make([]binding, 0, len(survivors))
	for _, sp := range survivors {
		resolved, err := e.resolveAnonymizer(sp, operators)
		if err != nil {
			return nil, err
		}
		bindings = append(bindings, binding{span: sp, op: resolved})
	}

	rewritten, items, err := rewrite(text, bindings)
	if err != nil {
		return nil, err
	}

	span.SetAttributes(
		attribute.Int("anonymizer.candidate_count", len(spans)),
		attribute.Int("anonymizer.applied_count", len(items)),
	)

	return &Result{Text: rewritten, Items: items}, nil
}

// Deanonymize reverses encrypt output: each span must resolve to a
// deanonymizing operator (decrypt) via its entity type or DEFAULT. There
// is no built-in fallback: decrypting needs a key, so a span without
// configuration is a caller error.
func (e *Engine) Deanonymize(ctx context.Context, text string, spans []Span, operators map[string]OperatorConfig) (*Result, error) {
	_, span := tracer.Start(ctx, "anonymizer.deanonymize")
	defer span.End()

	if err := validateInput(text, spans); err != nil {
		return nil, err
	}

	survivors := reconcile(spans)
	bindings := make([]binding, 0, len(survivors))
	for _, sp := range survivors {
		cfg, ok := lookupConfig(sp.EntityType, operators)
		if !ok {
			return nil, operator.NewParamError("operators",
				fmt.Sprintf("no deanonymizer configured for entity type %q", sp.EntityType), nil)
		}
		resolved, err := e.bind(sp, cfg, e.catalog.Deanonymizer)
		if err != nil {
			return nil, err
		}
		bindings = append(bindings, binding{span: sp, op: resolved})
	}

	rewritten, items, err := rewrite(text, bindings)
	if err != nil {
		return nil, err
	}

	span.SetAttributes(attribute.Int("anonymizer.applied_count", len(items)))
	return &Result{Text: rewritten, Items: items}, nil
}

// resolvedOperator is one validated operator invocation bound to a span.
type resolvedOperator struct {
	name   string
	op     operator.Operator
	params operator.Params
}

func (r resolvedOperator) operate(slice string) (string, error) {
	return r.op.Operate(slice, r.params)
}

// resolveAnonymizer picks the operator config for a span: entity-specific
// entry, then DEFAULT, then the built-in replace fallback.
func (e *Engine) resolveAnonymizer(sp Span, operators map[string]OperatorConfig) (resolvedOperator, error) {
	cfg, ok := lookupConfig(sp.EntityType, operators)
	if !ok {
		cfg = OperatorConfig{Type: operator.Replace{}.Name()}
	}
	return e.bind(sp, cfg, e.catalog.Anonymizer)
}

// bind resolves the named operator, validates its params, and attaches a
// private params copy carrying the span's entity type. The caller's map
// is never mutated.
func (e *Engine) bind(sp Span, cfg OperatorConfig, lookup func(string) (operator.Operator, error)) (resolvedOperator, error) {
	op, err := lookup(cfg.Type)
	if err != nil {
		return resolvedOperator{}, fmt.Errorf("entity type %q: %w", sp.EntityType, err)
	}

	if err := op.Validate(cfg.Params); err != nil {
		return resolvedOperator{}, fmt.Errorf("operator %q for entity type %q: %w", cfg.Type, sp.EntityType, err)
	}

	params := make(operator.Params, len(cfg.Params)+1)
	for k, v := range cfg.Params {
		params[k] = v
	}
	params[operator.ParamEntityType] = sp.EntityType

	return resolvedOperator{name: op.Name(), op: op, params: params}, nil
}

// lookupConfig resolves the config for an entity type, falling back to the
// DEFAULT entry. Entity-type keys are matched case-sensitively, DEFAULT is
// the single reserved key.
func lookupConfig(entityType string, operators map[string]OperatorConfig) (OperatorConfig, bool) {
	if cfg, ok := operators[entityType]; ok {
		return cfg, true
	}
	cfg, ok := operators[DefaultConfigKey]
	return cfg, ok
}

// validateInput rejects empty text and spans outside [0, len(text)].
func validateInput(text string, spans []Span) error {
	if text == "" {
		return operator.NewParamError("text", "can not be empty", nil)
	}
	for _, sp := range spans {
		if sp.Start < 0 || sp.Start >= sp.End || sp.End > len(text) {
			return operator.NewParamError("span",
				fmt.Sprintf("start: %d and end: %d must satisfy 0 <= start < end <= text length, while text length is only %d",
					sp.Start, sp.End, len(text)), nil)
		}
	}
	return nil
}
