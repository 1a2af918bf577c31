package config

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalid matches every *Error under errors.Is.
var ErrInvalid = errors.New("invalid configuration")

// Error reports every problem found in one config file: environment
// variables that did not resolve and failed validation checks.
type Error struct {
	Path    string
	Missing []string
	Errors  []string
}

func (e *Error) Error() string {
	if !e.HasErrors() {
		return ""
	}

	var b strings.Builder
	fmt.Fprintf(&b, "config %s: %s", e.Path, e.summary())
	if len(e.Missing) > 0 {
		fmt.Fprintf(&b, "\nmissing environment variables: %s", strings.Join(e.Missing, ", "))
	}
	if len(e.Errors) > 0 {
		b.WriteString("\nvalidation failed:")
		for _, msg := range e.Errors {
			fmt.Fprintf(&b, "\n  - %s", msg)
		}
	}
	return b.String()
}

// Is reports whether target is ErrInvalid.
func (e *Error) Is(target error) bool {
	return target == ErrInvalid
}

// HasErrors reports whether anything was collected.
func (e *Error) HasErrors() bool {
	return len(e.Missing) > 0 || len(e.Errors) > 0
}

func (e *Error) summary() string {
	var parts []string
	if n := len(e.Missing); n > 0 {
		parts = append(parts, plural(n, "unresolved variable"))
	}
	if n := len(e.Errors); n > 0 {
		parts = append(parts, plural(n, "invalid field"))
	}
	return strings.Join(parts, ", ")
}

func plural(n int, noun string) string {
	if n == 1 {
		return "1 " + noun
	}
	return fmt.Sprintf("%d %ss", n, noun)
}
