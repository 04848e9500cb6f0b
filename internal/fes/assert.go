package fes

import (
	"fmt"
	"strings"

	"github.com/stretchr/testify/require"
)

// AssertionError is the panic value raised by PanicT when a body assertion
// fails outside of a Go test.
type AssertionError struct {
	Messages []string
}

func (e *AssertionError) Error() string {
	return "mock assertion failed: " + strings.TrimSpace(strings.Join(e.Messages, "; "))
}

// PanicT adapts testify's assertion functions for use in a standalone mock
// process: failures are collected and FailNow panics with *AssertionError.
// A PanicT must not be shared between requests.
type PanicT struct {
	messages []string
}

var _ require.TestingT = (*PanicT)(nil)

// Errorf records an assertion failure message.
func (p *PanicT) Errorf(format string, args ...any) {
	p.messages = append(p.messages, fmt.Sprintf(format, args...))
}

// FailNow aborts the current request.
func (p *PanicT) FailNow() {
	panic(&AssertionError{Messages: p.messages})
}
