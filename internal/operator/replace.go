package operator

import "strings"

// Replace substitutes the slice with a configured new_value. Without one
// it falls back to the entity type in angle brackets ("<PHONE_NUMBER>"),
// which is also what the engine uses when a span has no operator
// configuration at all.
type Replace struct{}

func (Replace) Name() string { return "replace" }

func (Replace) Kind() Kind { return Irreversible }

// Validate accepts an optional new_value string.
func (Replace) Validate(params Params) error {
	v, present := params[ParamNewValue]
	if !present {
		return nil
	}
	if _, ok := v.(string); !ok {
		return NewParamError(ParamNewValue, "must be a string", v)
	}
	return nil
}

func (Replace) Operate(_ string, params Params) (string, error) {
	if value, ok := stringParam(params, ParamNewValue); ok {
		return value, nil
	}
	entityType, _ := stringParam(params, ParamEntityType)
	return "<" + strings.ToUpper(entityType) + ">", nil
}
