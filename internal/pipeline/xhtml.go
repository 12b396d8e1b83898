package pipeline

import (
	"bytes"
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"html/template"
	"strings"
)

// Sentinel errors for document wrapping.
var (
	ErrTemplateParse  = errors.New("chapter template parsing failed")
	ErrTemplateRender = errors.New("chapter template rendering failed")
)

// Page is one chapter to wrap.
type Page struct {
	Index    int    // 0-based chapter index
	Title    string // plain text, escaped by the template
	Language string
	CSS      string // raw stylesheet, sanitized before injection
	Body     string // rendered fragment, trusted HTML
}

// DocumentWrapper defines the contract for turning a fragment into a document.
type DocumentWrapper interface {
	Wrap(ctx context.Context, page Page) (string, error)
}

// XHTMLWrapper executes a chapter template and prefixes the XML declaration.
type XHTMLWrapper struct {
	tmpl *template.Template
}

// templateData is what chapter templates see.
type templateData struct {
	Index    int
	Number   int
	Title    string
	Language string
	CSS      template.CSS
	Body     template.HTML
}

// NewXHTMLWrapper parses a chapter template.
func NewXHTMLWrapper(tmplContent string) (*XHTMLWrapper, error) {
	tmpl, err := template.New("chapter").Option("missingkey=error").Parse(tmplContent)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTemplateParse, err)
	}
	return &XHTMLWrapper{tmpl: tmpl}, nil
}

// Wrap renders page into a complete XHTML document.
func (w *XHTMLWrapper) Wrap(ctx context.Context, page Page) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	// #nosec G203 -- stylesheet is sanitized, body is renderer output
	data := templateData{
		Index:    page.Index,
		Number:   page.Index + 1,
		Title:    page.Title,
		Language: page.Language,
		CSS:      template.CSS(sanitizeCSS(page.CSS)),
		Body:     template.HTML(page.Body),
	}

	var buf bytes.Buffer
	buf.WriteString(xml.Header)
	if err := w.tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("%w: %v", ErrTemplateRender, err)
	}
	return buf.String(), nil
}

// sanitizeCSS escapes sequences that could break out of a <style> block.
func sanitizeCSS(css string) string {
	return strings.ReplaceAll(css, "</", `<\/`)
}

// Compile-time interface check.
var _ DocumentWrapper = (*XHTMLWrapper)(nil)
