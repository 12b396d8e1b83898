// Package builder converts manuscript sources into a document tree.
//
// Build drives the grammar over the root file, maps every syntax rule to an
// Atom, binds command arguments, resolves special tokens against the symbol
// table and splices included files in place of their include directives.
// The first failure aborts the whole build; no partial Book is returned.
package builder

import (
	"errors"
	"os"

	"go.uber.org/zap"

	"github.com/alnah/go-tex2epub/internal/document"
	"github.com/alnah/go-tex2epub/internal/fileutil"
	"github.com/alnah/go-tex2epub/internal/grammar"
)

// ReadFunc reads a source file. It is the file-resolution callback of the
// builder; paths it receives are the root path or include paths resolved
// relative to the including file.
type ReadFunc func(path string) ([]byte, error)

// Option configures a Builder.
type Option func(*Builder)

// WithReadFile replaces os.ReadFile as the source reader.
func WithReadFile(fn ReadFunc) Option {
	return func(b *Builder) {
		b.readFile = fn
	}
}

// WithExtension sets the suffix appended to include names.
func WithExtension(ext string) Option {
	return func(b *Builder) {
		b.extension = ext
	}
}

// WithLogger sets the logger for build events.
func WithLogger(logger *zap.Logger) Option {
	return func(b *Builder) {
		b.logger = logger
	}
}

// Builder turns source files into a document.Book.
// A Builder holds configuration only and may be reused across builds.
type Builder struct {
	readFile  ReadFunc
	extension string
	logger    *zap.Logger
}

// New creates a Builder reading from the file system with the .tex extension.
func New(opts ...Option) *Builder {
	b := &Builder{
		readFile:  os.ReadFile,
		extension: fileutil.DefaultExtension,
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Build parses the file at rootPath, and every file it includes, into a Book.
func Build(rootPath string, opts ...Option) (*document.Book, error) {
	return New(opts...).Build(rootPath)
}

// Build parses the file at rootPath, and every file it includes, into a Book.
func (b *Builder) Build(rootPath string) (*document.Book, error) {
	run := &expansion{
		builder: b,
		active:  make(map[string]bool),
		seen:    make(map[string]bool),
	}

	ast, err := run.expand(rootPath)
	if err != nil {
		return nil, err
	}

	b.logger.Debug("document tree built",
		zap.String("root", rootPath),
		zap.Int("files", len(run.files)),
	)
	return &document.Book{AST: ast, Root: rootPath, Files: run.files}, nil
}

// expansion is the state of one Build call: the active inclusion path and
// the files read so far.
type expansion struct {
	builder *Builder
	active  map[string]bool // canonical paths currently being expanded
	stack   []string        // active inclusion path, as written
	seen    map[string]bool
	files   []string
}

// expand reads, parses and converts one file.
func (e *expansion) expand(path string) (document.Atom, error) {
	key := fileutil.CanonicalPath(path)
	if e.active[key] {
		chain := make([]string, 0, len(e.stack)+1)
		chain = append(chain, e.stack...)
		chain = append(chain, path)
		return nil, &document.IncludeCycleError{Chain: chain}
	}

	data, err := e.builder.readFile(path)
	if err != nil {
		return nil, &document.IOError{Path: path, Err: err}
	}
	if !e.seen[key] {
		e.seen[key] = true
		e.files = append(e.files, path)
	}

	root, err := grammar.Parse(string(data))
	if err != nil {
		var syntaxErr *grammar.SyntaxError
		if errors.As(err, &syntaxErr) {
			return nil, &document.SyntaxError{
				Path:     path,
				Line:     syntaxErr.Line,
				Column:   syntaxErr.Column,
				Expected: syntaxErr.Expected,
			}
		}
		return nil, err
	}
	e.builder.logger.Debug("source parsed", zap.String("path", path), zap.Int("depth", len(e.stack)))

	e.active[key] = true
	e.stack = append(e.stack, path)
	defer func() {
		delete(e.active, key)
		e.stack = e.stack[:len(e.stack)-1]
	}()

	src := &source{expansion: e, path: path}
	return src.convert(root)
}
