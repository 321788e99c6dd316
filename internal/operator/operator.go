// Package operator defines the text transformations applied to detected
// entity spans: hash, mask, redact, replace, encrypt and decrypt.
//
// Operators are pure: Operate maps an input slice to its replacement and
// touches nothing else. Each operator validates its parameters up front so
// the engine can reject a whole request before rewriting any text. The
// Catalog is an immutable value built once at startup and shared by
// concurrent callers without synchronization.
package operator

import (
	"fmt"
	"sort"
)

// Param keys shared across operators.
const (
	ParamKey         = "key"
	ParamNewValue    = "new_value"
	ParamHashType    = "hash_type"
	ParamMaskingChar = "masking_char"
	ParamCharsToMask = "chars_to_mask"
	ParamFromEnd     = "from_end"

	// ParamEntityType is injected by the dispatcher, not supplied by
	// callers. Replace uses it for its generic fallback value.
	ParamEntityType = "entity_type"
)

// Params holds the configuration for one operator invocation. Values come
// from JSON or YAML decoding, so numbers may arrive as int or float64.
type Params map[string]interface{}

// Kind classifies whether an operator's output can be mapped back to its
// input. Encrypt and decrypt are the reversible pair; everything else
// destroys information.
type Kind int

const (
	// Irreversible transformations cannot be undone (hash, mask, redact, replace).
	Irreversible Kind = iota
	// Reversible transformations round-trip through a key (encrypt, decrypt).
	Reversible
)

func (k Kind) String() string {
	if k == Reversible {
		return "reversible"
	}
	return "irreversible"
}

// Operator is a named, parameterized text transformation.
type Operator interface {
	// Name returns the catalog name ("hash", "mask", ...).
	Name() string
	// Kind reports whether the transformation is reversible.
	Kind() Kind
	// Validate checks params before any text is rewritten. It returns a
	// *ParamError describing the first violated constraint.
	Validate(params Params) error
	// Operate transforms one text slice. Params have already passed Validate.
	Operate(text string, params Params) (string, error)
}

// ParamError is the single failure kind at the engine boundary: some part
// of the caller's input (text, span offsets, operator name or operator
// params) violated a constraint. Callers should treat it as their own
// error (4xx-equivalent), never as a transient system failure.
type ParamError struct {
	Field      string      // offending input field or parameter name
	Constraint string      // the constraint that was violated
	Actual     interface{} // offending value, when it helps (nil otherwise)
}

func (e *ParamError) Error() string {
	if e.Actual != nil {
		return fmt.Sprintf("invalid %s: %s (got %v)", e.Field, e.Constraint, e.Actual)
	}
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Constraint)
}

// NewParamError builds a ParamError. Pass nil actual when the offending
// value is secret (keys) or already part of the constraint text.
func NewParamError(field, constraint string, actual interface{}) *ParamError {
	return &ParamError{Field: field, Constraint: constraint, Actual: actual}
}

// Catalog is the fixed set of built-in operators, split by direction:
// anonymizing lookups never resolve decrypt, and deanonymizing lookups
// resolve nothing else.
type Catalog struct {
	anonymizers   map[string]Operator
	deanonymizers map[string]Operator
}

// NewCatalog builds the built-in catalog. The returned value is never
// mutated afterwards and is safe to share across goroutines.
func NewCatalog() *Catalog {
	anonymizers := map[string]Operator{}
	for _, op := range []Operator{Hash{}, Mask{}, Redact{}, Replace{}, Encrypt{}} {
		anonymizers[op.Name()] = op
	}
	return &Catalog{
		anonymizers:   anonymizers,
		deanonymizers: map[string]Operator{Decrypt{}.Name(): Decrypt{}},
	}
}

// Anonymizer resolves a named operator for the anonymizing direction.
func (c *Catalog) Anonymizer(name string) (Operator, error) {
	op, ok := c.anonymizers[name]
	if !ok {
		return nil, NewParamError("operator", fmt.Sprintf("operator class %q is not in the catalog", name), nil)
	}
	return op, nil
}

// Deanonymizer resolves a named operator for the deanonymizing direction.
func (c *Catalog) Deanonymizer(name string) (Operator, error) {
	op, ok := c.deanonymizers[name]
	if !ok {
		return nil, NewParamError("operator", fmt.Sprintf("operator class %q is not in the catalog", name), nil)
	}
	return op, nil
}

// Anonymizers returns the sorted names of anonymizing operators.
func (c *Catalog) Anonymizers() []string {
	return sortedNames(c.anonymizers)
}

// Deanonymizers returns the sorted names of deanonymizing operators.
func (c *Catalog) Deanonymizers() []string {
	return sortedNames(c.deanonymizers)
}

func sortedNames(ops map[string]Operator) []string {
	names := make([]string, 0, len(ops))
	for name := range ops {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// stringParam returns params[key] as a string when present.
func stringParam(params Params, key string) (string, bool) {
	v, ok := params[key]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// intParam returns params[key] as an int, accepting the int and float64
// shapes produced by YAML and JSON decoding. The second result is false
// when the key is absent or not a whole number.
func intParam(params Params, key string) (int, bool) {
	v, ok := params[key]
	if !ok {
		return 0, false
	}
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		if n != float64(int(n)) {
			return 0, false
		}
		return int(n), true
	}
	return 0, false
}

// boolParam returns params[key] as a bool when present.
func boolParam(params Params, key string) (bool, bool) {
	v, ok := params[key]
	if !ok {
		return false, false
	}
	b, ok := v.(bool)
	return b, ok
}
