package main

import (
	"errors"
	"strconv"

	"gold/internal/jit"
	"gold/internal/lower"
)

const (
	exitOK          = 0
	exitDiagnostics = 1
	exitInternal    = 3
	exitTrap        = 4
)

// exitError carries a process status. reported is set when the command has
// already printed everything the user needs to see.
type exitError struct {
	code     int
	err      error
	reported bool
}

func (e *exitError) Error() string {
	if e.err == nil {
		return "exit status " + strconv.Itoa(e.code)
	}
	return e.err.Error()
}

func (e *exitError) Unwrap() error { return e.err }

// errDiagnosed marks a command that stopped on source diagnostics.
var errDiagnosed = &exitError{code: exitDiagnostics, err: errors.New("source has errors"), reported: true}

func exitCode(err error) int {
	if err == nil {
		return exitOK
	}
	var ee *exitError
	if errors.As(err, &ee) {
		return ee.code
	}
	var trap *jit.Trap
	if errors.As(err, &trap) {
		return exitTrap
	}
	var ice *lower.InternalError
	if errors.As(err, &ice) {
		return exitInternal
	}
	return exitDiagnostics
}
