// util/error.go
// Copyright(c) 2025 tofpa contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package util

import (
	"fmt"
	"os"
	"strings"

	"github.com/andures/tofpa/log"
)

// ErrorLogger is a small utility class used to log errors when validating
// calculation parameters. It tracks context about what is currently being
// validated and accumulates multiple errors, making it possible to report
// every problem at once rather than stopping at the first one.
type ErrorLogger struct {
	// Tracked via Push()/Pop() calls to remember what we're looking at if
	// an error is found.
	hierarchy []string
	// Actual error messages to report.
	errors []string
}

func (e *ErrorLogger) Push(s string) {
	e.hierarchy = append(e.hierarchy, s)
}

func (e *ErrorLogger) Pop() {
	e.hierarchy = e.hierarchy[:len(e.hierarchy)-1]
}

func (e *ErrorLogger) ErrorString(s string, args ...interface{}) {
	msg := fmt.Sprintf(s, args...)
	if len(e.hierarchy) > 0 {
		msg = strings.Join(e.hierarchy, " / ") + ": " + msg
	}
	e.errors = append(e.errors, msg)
}

func (e *ErrorLogger) Error(err error) {
	e.ErrorString("%s", err.Error())
}

func (e *ErrorLogger) HaveErrors() bool {
	return len(e.errors) > 0
}

// Errors returns the accumulated messages; the slice is a copy, so the
// caller may hold on to it.
func (e *ErrorLogger) Errors() []string {
	return DuplicateSlice(e.errors)
}

func (e *ErrorLogger) PrintErrors(lg *log.Logger) {
	// Two loops so they aren't interleaved with logging to stdout
	if lg != nil {
		for _, err := range e.errors {
			lg.Errorf("%+v", err)
		}
	}
	for _, err := range e.errors {
		fmt.Fprintln(os.Stderr, err)
	}
}

func (e *ErrorLogger) String() string {
	return strings.Join(e.errors, "\n")
}
