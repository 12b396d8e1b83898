package tex2epub

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/alnah/go-tex2epub/internal/assets"
	"github.com/alnah/go-tex2epub/internal/builder"
	"github.com/alnah/go-tex2epub/internal/document"
	"github.com/alnah/go-tex2epub/internal/fileutil"
	"github.com/alnah/go-tex2epub/internal/render"
)

// FootnoteMode selects where footnote bodies are written.
type FootnoteMode = render.FootnoteMode

// Footnote modes.
const (
	FootnotesChapter = render.FootnotesChapter // anchors, bodies at chapter end
	FootnotesInline  = render.FootnotesInline  // bodies in place
)

// Atom is a node of the document tree.
type Atom = document.Atom

// Book is a parsed manuscript: its document tree and the files it was read from.
type Book = document.Book

// DefaultLanguage is the language of standalone documents when none is set.
const DefaultLanguage = "en"

// maxLanguageLength bounds a BCP 47 tag.
const maxLanguageLength = 35

// Input contains conversion parameters.
type Input struct {
	Path       string      // root source file (required); includes resolve relative to it
	Source     []byte      // root file content (optional); when set, Path is not read
	Standalone *Standalone // wrap chapters in XHTML documents (optional, nil = fragments)
}

// Standalone configures complete XHTML output.
type Standalone struct {
	Language string // xml:lang of every chapter (default: "en")
	Style    string // stylesheet name to inline (empty = none)
}

// Validate checks standalone settings.
// Returns nil if s is nil (nil means fragments only).
func (s *Standalone) Validate() error {
	if s == nil {
		return nil
	}
	if len(s.Language) > maxLanguageLength || strings.ContainsAny(s.Language, " \t\n\"<>&") {
		return fmt.Errorf("%w: %q", ErrInvalidLanguage, s.Language)
	}
	if s.Style != "" {
		if err := assets.ValidateAssetName(s.Style); err != nil {
			return err
		}
	}
	return nil
}

// language returns the configured language or DefaultLanguage.
func (s *Standalone) language() string {
	if s.Language == "" {
		return DefaultLanguage
	}
	return s.Language
}

// Chapter is one rendered chapter. Content before the first \chapter forms
// a chapter of its own with an empty title.
type Chapter struct {
	Index int    // 0-based position in the book
	Title string // plain-text heading
	HTML  string // fragment, or complete XHTML document when Standalone is set
}

// FileName formats the output name of the chapter. The pattern holds one
// integer verb that receives the 1-based chapter number.
func (c Chapter) FileName(pattern string) string {
	return fileutil.ChapterFileName(pattern, c.Index)
}

// ConvertResult holds the output of a conversion.
type ConvertResult struct {
	Chapters []Chapter
	Files    []string // source files read, in first-read order
}

// Size returns the total number of HTML bytes across chapters.
func (r *ConvertResult) Size() int {
	n := 0
	for _, c := range r.Chapters {
		n += len(c.HTML)
	}
	return n
}

// Option configures a Converter.
type Option func(*Converter)

// converterConfig holds internal configuration for Converter.
type converterConfig struct {
	footnotes FootnoteMode
	extension string
	assetPath string
}

// WithLogger sets the logger for conversion events. The default discards them.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Converter) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithFootnotes selects footnote placement (default FootnotesChapter).
func WithFootnotes(mode FootnoteMode) Option {
	return func(c *Converter) {
		c.cfg.footnotes = mode
	}
}

// WithExtension sets the suffix appended to include names lacking it (default ".tex").
func WithExtension(ext string) Option {
	return func(c *Converter) {
		c.cfg.extension = ext
	}
}

// WithReadFile replaces os.ReadFile for every source file.
func WithReadFile(fn builder.ReadFunc) Option {
	return func(c *Converter) {
		if fn != nil {
			c.readFile = fn
		}
	}
}

// WithAssetPath sets a directory whose styles/ and templates/ override the
// built-in standalone assets.
func WithAssetPath(path string) Option {
	return func(c *Converter) {
		c.cfg.assetPath = path
	}
}
