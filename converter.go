package tex2epub

import (
	"context"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/alnah/go-tex2epub/internal/assets"
	"github.com/alnah/go-tex2epub/internal/builder"
	"github.com/alnah/go-tex2epub/internal/fileutil"
	"github.com/alnah/go-tex2epub/internal/pipeline"
	"github.com/alnah/go-tex2epub/internal/render"
)

// Converter orchestrates the manuscript-to-HTML pipeline.
// A Converter holds configuration only; Convert may be called concurrently.
type Converter struct {
	cfg      converterConfig
	logger   *zap.Logger
	readFile builder.ReadFunc
	assets   assets.AssetLoader
	wrapper  pipeline.DocumentWrapper
}

// NewConverter creates a Converter with default configuration.
// Returns error if an option value is invalid or the chapter template
// cannot be loaded.
func NewConverter(opts ...Option) (*Converter, error) {
	c := &Converter{
		cfg: converterConfig{
			footnotes: FootnotesChapter,
			extension: fileutil.DefaultExtension,
		},
		logger:   zap.NewNop(),
		readFile: os.ReadFile,
	}

	for _, opt := range opts {
		opt(c)
	}

	if err := fileutil.ValidateExtension(c.cfg.extension); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidExtension, err)
	}

	mode, err := render.ParseFootnoteMode(string(c.cfg.footnotes))
	if err != nil {
		return nil, err
	}
	c.cfg.footnotes = mode

	resolver, err := assets.NewAssetResolver(c.cfg.assetPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidAssetPath, err)
	}
	c.assets = resolver
	c.logger.Debug("assets resolved",
		zap.Bool("custom", resolver.HasCustomLoader()),
		zap.String("path", c.cfg.assetPath),
	)

	tmpl, err := c.assets.LoadTemplate(assets.ChapterTemplateName)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTemplate, err)
	}
	wrapper, err := pipeline.NewXHTMLWrapper(tmpl)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTemplate, err)
	}
	c.wrapper = wrapper

	return c, nil
}

// Parse reads the manuscript and returns its document tree without rendering.
func (c *Converter) Parse(ctx context.Context, input Input) (book *Book, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("internal error: %v", r)
		}
	}()

	if err := c.validateInput(input); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return c.build(input)
}

// Convert parses, renders and optionally wraps a manuscript.
// The context is checked between stages.
// Recovers from internal panics to prevent crashes from propagating to callers.
func (c *Converter) Convert(ctx context.Context, input Input) (result *ConvertResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("internal error: %v", r)
		}
	}()

	if err := c.validateInput(input); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	book, err := c.build(input)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	renderOpts := []render.Option{render.WithFootnotes(c.cfg.footnotes)}
	if input.Standalone != nil {
		renderOpts = append(renderOpts, render.WithXHTML())
	}
	rendered, err := render.Chapters(book.AST, renderOpts...)
	if err != nil {
		return nil, fmt.Errorf("rendering %s: %w", input.Path, err)
	}
	c.logger.Debug("chapters rendered",
		zap.String("root", input.Path),
		zap.Int("chapters", len(rendered)),
	)

	res := &ConvertResult{
		Chapters: make([]Chapter, len(rendered)),
		Files:    book.Files,
	}
	for i, ch := range rendered {
		res.Chapters[i] = Chapter{Index: i, Title: ch.Title, HTML: ch.HTML}
	}

	if input.Standalone != nil {
		if err := c.wrap(ctx, res, input.Standalone); err != nil {
			return nil, err
		}
	}

	return res, nil
}

// build runs the tree builder over the input.
func (c *Converter) build(input Input) (*Book, error) {
	read := c.readFile
	if input.Source != nil {
		root := fileutil.CanonicalPath(input.Path)
		read = func(path string) ([]byte, error) {
			if fileutil.CanonicalPath(path) == root {
				return input.Source, nil
			}
			return c.readFile(path)
		}
	}

	return builder.Build(input.Path,
		builder.WithReadFile(read),
		builder.WithExtension(c.cfg.extension),
		builder.WithLogger(c.logger),
	)
}

// wrap turns every chapter fragment into a standalone document.
func (c *Converter) wrap(ctx context.Context, res *ConvertResult, s *Standalone) error {
	var css string
	if s.Style != "" {
		var err error
		css, err = c.assets.LoadStyle(s.Style)
		if err != nil {
			return fmt.Errorf("loading style %q: %w", s.Style, err)
		}
	}

	for i, ch := range res.Chapters {
		doc, err := c.wrapper.Wrap(ctx, pipeline.Page{
			Index:    ch.Index,
			Title:    ch.Title,
			Language: s.language(),
			CSS:      css,
			Body:     ch.HTML,
		})
		if err != nil {
			return fmt.Errorf("%w: chapter %d: %w", ErrTemplate, ch.Index+1, err)
		}
		res.Chapters[i].HTML = doc
	}
	return nil
}

// validateInput checks that required fields are present and valid.
//
// This is a TRUST BOUNDARY for direct library users who build Input manually.
// CLI users have their settings validated earlier by Config.Validate().
func (c *Converter) validateInput(input Input) error {
	if input.Path == "" {
		return ErrEmptyPath
	}
	return input.Standalone.Validate()
}
