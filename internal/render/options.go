package render

import (
	"errors"
	"fmt"
	"strings"
)

// FootnoteMode selects where footnote bodies are written.
type FootnoteMode string

const (
	// FootnotesChapter writes a numbered anchor at the call site and the
	// body in a footnotes block at the end of the chapter.
	FootnotesChapter FootnoteMode = "chapter"
	// FootnotesInline writes the body in place, wrapped in a span.
	FootnotesInline FootnoteMode = "inline"
)

// ErrInvalidFootnoteMode is returned by ParseFootnoteMode.
var ErrInvalidFootnoteMode = errors.New("invalid footnote mode")

// ParseFootnoteMode accepts "chapter" and "inline", case-insensitively.
// The empty string selects FootnotesChapter.
func ParseFootnoteMode(s string) (FootnoteMode, error) {
	switch FootnoteMode(strings.ToLower(strings.TrimSpace(s))) {
	case "", FootnotesChapter:
		return FootnotesChapter, nil
	case FootnotesInline:
		return FootnotesInline, nil
	default:
		return "", fmt.Errorf("%w: %q (expected chapter or inline)", ErrInvalidFootnoteMode, s)
	}
}

type options struct {
	footnotes FootnoteMode
	xhtml     bool
}

// Option configures a Render call.
type Option func(*options)

// WithFootnotes selects the footnote placement.
func WithFootnotes(mode FootnoteMode) Option {
	return func(o *options) {
		o.footnotes = mode
	}
}

// WithXHTML writes paragraph ids as quoted XML names ("p0", "p1", ...) so the
// fragment can be embedded in an XHTML document.
func WithXHTML() Option {
	return func(o *options) {
		o.xhtml = true
	}
}
