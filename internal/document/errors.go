package document

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for conversion failures. Every typed error below matches
// exactly one of them with errors.Is.
var (
	ErrIO                   = errors.New("source file unreadable")
	ErrSyntax               = errors.New("syntax error")
	ErrUnsupportedConstruct = errors.New("unsupported construct")
	ErrIncludeCycle         = errors.New("include cycle")
)

// IOError reports a source or include file that could not be read.
type IOError struct {
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("reading %s: %v", e.Path, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }

func (e *IOError) Is(target error) bool { return target == ErrIO }

// SyntaxError reports input rejected by the grammar.
type SyntaxError struct {
	Path     string
	Line     int
	Column   int
	Expected string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%s:%d:%d: syntax error: expected %s", e.Path, e.Line, e.Column, e.Expected)
}

func (e *SyntaxError) Is(target error) bool { return target == ErrSyntax }

// UnsupportedConstructError reports a construct with no tree or HTML mapping.
// Path and position are empty when the construct was found in a tree that was
// not produced from a source file.
type UnsupportedConstructError struct {
	Kind   string // "command", "environment", "special", "rule"...
	Name   string
	Detail string
	Path   string
	Line   int
	Column int
}

func (e *UnsupportedConstructError) Error() string {
	var b strings.Builder
	if e.Path != "" {
		fmt.Fprintf(&b, "%s:%d:%d: ", e.Path, e.Line, e.Column)
	}
	fmt.Fprintf(&b, "unsupported %s %q", e.Kind, e.Name)
	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}
	return b.String()
}

func (e *UnsupportedConstructError) Is(target error) bool { return target == ErrUnsupportedConstruct }

// IncludeCycleError reports an include chain that revisits a file already
// being expanded. Chain ends with the repeated file.
type IncludeCycleError struct {
	Chain []string
}

func (e *IncludeCycleError) Error() string {
	return "include cycle: " + strings.Join(e.Chain, " -> ")
}

func (e *IncludeCycleError) Is(target error) bool { return target == ErrIncludeCycle }
