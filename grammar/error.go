package grammar

import "fmt"

// LoadError reports a structural problem with a grammar description: the
// JSON was malformed, a required field was missing or mistyped, a regex
// failed to compile, an identifier was malformed, or a rule string could
// not be parsed. LoadError is always fatal — no parser is produced and no
// parse can proceed.
type LoadError struct {
	Msg string
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("could not load grammar: %s", e.Msg)
}

func newLoadError(format string, a ...interface{}) *LoadError {
	return &LoadError{Msg: fmt.Sprintf(format, a...)}
}
