package operator

// Redact removes the slice entirely. Takes no parameters; redacting an
// already-empty slice is a no-op.
type Redact struct{}

func (Redact) Name() string { return "redact" }

func (Redact) Kind() Kind { return Irreversible }

func (Redact) Validate(Params) error { return nil }

func (Redact) Operate(string, Params) (string, error) { return "", nil }
