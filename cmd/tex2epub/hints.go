package main

import (
	"errors"
	"fmt"

	tex2epub "github.com/alnah/go-tex2epub"
	"github.com/alnah/go-tex2epub/internal/assets"
	"github.com/alnah/go-tex2epub/internal/builder"
	"github.com/alnah/go-tex2epub/internal/fileutil"
	"github.com/alnah/go-tex2epub/internal/hints"
)

// bookError ties a conversion failure to the book it came from.
// The message is the library error unchanged; it already names the file.
type bookError struct {
	root      string
	extension string
	err       error
}

func (e *bookError) Error() string { return e.err.Error() }

func (e *bookError) Unwrap() error { return e.err }

// batchError summarizes failed books of a multi-book run. Each failure was
// already printed with its hint; the first one decides the exit code.
type batchError struct {
	failed int
	total  int
	first  error
}

func (e *batchError) Error() string {
	return fmt.Sprintf("%d of %d books failed", e.failed, e.total)
}

func (e *batchError) Unwrap() error { return e.first }

// hintFor returns an actionable hint for err, or "" when none applies.
func hintFor(err error) string {
	var batch *batchError
	if errors.As(err, &batch) {
		return ""
	}

	var cycle *tex2epub.IncludeCycleError
	if errors.As(err, &cycle) {
		return hints.ForIncludeCycle(cycle.Chain)
	}

	var syntax *tex2epub.SyntaxError
	if errors.As(err, &syntax) {
		return hints.ForSyntax(syntax.Expected)
	}

	var unsupported *tex2epub.UnsupportedConstructError
	if errors.As(err, &unsupported) {
		switch unsupported.Kind {
		case "command":
			if unsupported.Detail != "" {
				return ""
			}
			return hints.ForUnsupported("command", builder.SupportedCommands())
		case "environment":
			return hints.ForUnsupported("environment", builder.SupportedEnvironments())
		}
		return ""
	}

	var ioErr *tex2epub.IOError
	var book *bookError
	if errors.As(err, &ioErr) && errors.As(err, &book) {
		if fileutil.CanonicalPath(ioErr.Path) != fileutil.CanonicalPath(book.root) {
			return hints.ForMissingInclude(book.extension)
		}
		return ""
	}

	if errors.Is(err, tex2epub.ErrStyleNotFound) {
		return hints.ForUnsupported("style", assets.StyleNames())
	}

	if errors.Is(err, ErrWriteChapter) {
		return hints.ForOutputDirectory()
	}

	return ""
}
