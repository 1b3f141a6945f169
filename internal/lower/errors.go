package lower

import (
	"fmt"

	"gold/internal/source"
)

// InternalError is a compiler fault found while lowering: the checked program
// broke an assumption that sema should have guaranteed. It is never a user
// error.
type InternalError struct {
	Fn   string
	Span source.Span
	Msg  string
	Err  error
}

func (e *InternalError) Error() string {
	msg := fmt.Sprintf("internal compiler error in %s: %s", e.Fn, e.Msg)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *InternalError) Unwrap() error { return e.Err }
