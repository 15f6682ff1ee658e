package manifest

import "fmt"

// SyntaxError reports a TOML-level parse failure. Per the descriptor's
// failure semantics this is fatal: nothing downstream of a malformed
// descriptor runs.
type SyntaxError struct {
	Path string
	Err  error
}

func (e *SyntaxError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s: %v", e.Path, e.Err)
	}
	return e.Err.Error()
}

func (e *SyntaxError) Unwrap() error { return e.Err }

// SchemaError reports a single semantic problem with a well-formed
// descriptor: a missing required field, an invalid version, a
// malformed dependency specifier.
type SchemaError struct {
	Field  string // dotted path of the offending field
	Reason string
}

func (e SchemaError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// SchemaErrors collects every semantic problem found in one pass.
type SchemaErrors []SchemaError

func (e SchemaErrors) Error() string {
	if len(e) == 1 {
		return e[0].Error()
	}
	return fmt.Sprintf("%s (and %d more)", e[0].Error(), len(e)-1)
}
