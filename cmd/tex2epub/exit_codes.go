package main

import (
	"errors"
	"os"

	tex2epub "github.com/alnah/go-tex2epub"
	"github.com/alnah/go-tex2epub/internal/assets"
	"github.com/alnah/go-tex2epub/internal/config"
)

// Exit codes for the tex2epub CLI.
// Follows Unix conventions: 0=success, 1=general, 2=usage, and custom codes < 126.
const (
	ExitSuccess    = 0 // Successful conversion
	ExitGeneral    = 1 // General/unexpected error
	ExitUsage      = 2 // Invalid flags, config, or validation
	ExitIO         = 3 // File not found, permission denied
	ExitManuscript = 4 // Syntax error, unsupported construct, include cycle
)

// exitCodeFor returns the appropriate exit code for an error.
// It uses errors.Is to check wrapped errors, so callers must use fmt.Errorf("%w", err).
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	// Manuscript errors (exit 4)
	if errors.Is(err, tex2epub.ErrSyntax) ||
		errors.Is(err, tex2epub.ErrUnsupportedConstruct) ||
		errors.Is(err, tex2epub.ErrIncludeCycle) {
		return ExitManuscript
	}

	// I/O errors (exit 3)
	if errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, os.ErrPermission) ||
		errors.Is(err, tex2epub.ErrIO) ||
		errors.Is(err, ErrWriteChapter) ||
		errors.Is(err, ErrNoInput) {
		return ExitIO
	}

	// Usage/config/validation errors (exit 2)
	if errors.Is(err, ErrUsage) ||
		errors.Is(err, ErrUnknownCommand) ||
		errors.Is(err, ErrInvalidWorkerCount) ||
		errors.Is(err, ErrUnsupportedShell) ||
		errors.Is(err, config.ErrConfigNotFound) ||
		errors.Is(err, config.ErrEmptyConfigName) ||
		errors.Is(err, config.ErrConfigParse) ||
		errors.Is(err, config.ErrFieldTooLong) ||
		errors.Is(err, config.ErrInvalidPattern) ||
		errors.Is(err, config.ErrInvalidExtension) ||
		errors.Is(err, tex2epub.ErrEmptyPath) ||
		errors.Is(err, tex2epub.ErrInvalidExtension) ||
		errors.Is(err, tex2epub.ErrInvalidFootnoteMode) ||
		errors.Is(err, tex2epub.ErrInvalidLanguage) ||
		errors.Is(err, tex2epub.ErrInvalidAssetPath) ||
		errors.Is(err, tex2epub.ErrStyleNotFound) ||
		errors.Is(err, tex2epub.ErrTemplate) ||
		errors.Is(err, assets.ErrInvalidAssetName) {
		return ExitUsage
	}

	return ExitGeneral
}
