package translator

import "fmt"

// CompileError reports a problem turning an AQL tree into SQL: an unknown
// function name, or a property reference to a join alias that was never
// declared during alias planning.
type CompileError struct {
	Message string
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("translator: %s", e.Message)
}

func errorf(format string, args ...interface{}) *CompileError {
	return &CompileError{Message: fmt.Sprintf(format, args...)}
}
