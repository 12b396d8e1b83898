// Package render serializes a document tree into per-chapter HTML fragments.
//
// Rendering is a single depth-first, pre-order walk. Every chapter start opens
// a new buffer; content before the first chapter goes to a buffer created on
// first write. Paragraph ids and footnote numbers are global to the book.
package render

import (
	"fmt"
	"strings"

	"github.com/yuin/goldmark/util"

	"github.com/alnah/go-tex2epub/internal/document"
	"github.com/alnah/go-tex2epub/internal/symbols"
)

// Chapter is one rendered buffer.
type Chapter struct {
	Title string // plain-text heading, empty for content before the first chapter
	HTML  string
}

// Render returns the HTML fragment of every chapter, in chapter order.
func Render(tree document.Atom, opts ...Option) ([]string, error) {
	chapters, err := Chapters(tree, opts...)
	if err != nil {
		return nil, err
	}
	buffers := make([]string, len(chapters))
	for i, c := range chapters {
		buffers[i] = c.HTML
	}
	return buffers, nil
}

// Chapters renders tree and keeps the title of each chapter with its HTML.
func Chapters(tree document.Atom, opts ...Option) ([]Chapter, error) {
	cfg := options{footnotes: FootnotesChapter}
	for _, opt := range opts {
		opt(&cfg)
	}

	r := &renderer{opts: cfg, para: newParagraph()}
	if err := r.walk(tree); err != nil {
		return nil, err
	}
	r.closeParagraph()
	r.flushNotes()

	chapters := make([]Chapter, len(r.chapters))
	for i, c := range r.chapters {
		chapters[i] = Chapter{Title: c.title, HTML: c.html.String()}
	}
	return chapters, nil
}

type chapterBuffer struct {
	title string
	html  strings.Builder
	notes []note
}

// note is a footnote body waiting for the end of its chapter.
type note struct {
	id   int
	body string
}

// renderer is the mutable context of one Render call.
type renderer struct {
	opts     options
	chapters []*chapterBuffer
	// target receives writes instead of the chapter buffer while a
	// deferred footnote body is rendered.
	target     *strings.Builder
	para       paragraph
	inline     int // depth of headings and inline runs being walked
	paragraphs int // next paragraph id
	footnotes  int // next footnote id
}

func (r *renderer) walk(atom document.Atom) error {
	switch v := atom.(type) {
	case document.List:
		for _, child := range v {
			if err := r.walk(child); err != nil {
				return err
			}
		}
		return nil
	case document.Comment, document.Ignore:
		return nil
	case document.Text:
		r.literal(string(v))
		return nil
	case document.Escaped:
		r.literal(string(rune(v)))
		return nil
	case document.Special:
		return r.symbol("special", string(v))
	case document.NamedSymbol:
		return r.symbol("named symbol", string(v))
	case document.StartChapter:
		return r.startChapter(v.Title)
	case document.StartSection:
		return r.startSection(v.Title)
	case document.Footnote:
		return r.footnote(v.Body)
	case document.Italic:
		r.openParagraph()
		return r.inlineRun(func() error {
			r.write("<i>")
			if err := r.walk(v.Contents); err != nil {
				return err
			}
			r.write("</i>")
			return nil
		})
	case document.BeginEnvironment:
		return r.quotation(v.Name, "<blockquote>\n\n")
	case document.EndEnvironment:
		return r.quotation(v.Name, "</blockquote>\n\n")
	case document.ParagraphEnd:
		r.closeParagraph()
		return nil
	default:
		return &document.UnsupportedConstructError{Kind: "atom", Name: fmt.Sprintf("%T", atom)}
	}
}

// literal writes escaped text, opening a paragraph if needed. Blanks that
// would start a paragraph are dropped, so blank text between blocks cannot
// open an empty one.
func (r *renderer) literal(text string) {
	if r.para.atBlockLevel() {
		text = strings.TrimLeft(text, " \t\n")
		if text == "" {
			return
		}
	}
	r.openParagraph()
	r.write(string(util.EscapeHTML([]byte(text))))
}

func (r *renderer) symbol(kind, token string) error {
	out, ok := symbols.Resolve(token)
	if !ok {
		return &document.UnsupportedConstructError{Kind: kind, Name: token}
	}
	r.literal(out)
	return nil
}

func (r *renderer) startChapter(title document.Atom) error {
	if err := r.requireBlock("chapter"); err != nil {
		return err
	}
	r.closeParagraph()
	r.flushNotes()
	r.chapters = append(r.chapters, &chapterBuffer{title: plainText(title)})
	return r.heading("h1", title)
}

func (r *renderer) startSection(title document.Atom) error {
	if err := r.requireBlock("section"); err != nil {
		return err
	}
	r.closeParagraph()
	return r.heading("h2", title)
}

func (r *renderer) heading(tag string, title document.Atom) error {
	r.para.hold()
	r.inline++
	r.write("<" + tag + ">")
	if err := r.walk(title); err != nil {
		return err
	}
	r.write("</" + tag + ">\n\n")
	r.inline--
	r.para.release()
	return nil
}

func (r *renderer) quotation(name, tag string) error {
	if !document.IsQuotation(name) {
		return &document.UnsupportedConstructError{Kind: "environment", Name: name}
	}
	if err := r.requireBlock("environment " + name); err != nil {
		return err
	}
	r.closeParagraph()
	r.write(tag)
	return nil
}

// inlineRun walks inner content with the paragraph state suspended and
// restores it afterwards, so following siblings continue the same paragraph.
func (r *renderer) inlineRun(inner func() error) error {
	saved := r.para.suspend()
	r.inline++
	if err := inner(); err != nil {
		return err
	}
	r.inline--
	r.para.resume(saved)
	return nil
}

func (r *renderer) footnote(body document.Atom) error {
	id := r.footnotes
	r.footnotes++
	r.openParagraph()

	if r.opts.footnotes == FootnotesInline {
		return r.inlineRun(func() error {
			r.write(fmt.Sprintf(`<span class="footnote" id="fn%d">`, id))
			if err := r.walk(body); err != nil {
				return err
			}
			r.write("</span>")
			return nil
		})
	}

	r.write(fmt.Sprintf(`<sup><a id="fnref%d" href="#fn%d">%d</a></sup>`, id, id, id+1))
	chapter := r.chapter()
	slot := len(chapter.notes)
	chapter.notes = append(chapter.notes, note{id: id})

	outer := r.target
	var text strings.Builder
	r.target = &text
	err := r.inlineRun(func() error { return r.walk(body) })
	r.target = outer
	if err != nil {
		return err
	}
	chapter.notes[slot].body = text.String()
	return nil
}

// requireBlock rejects block constructs inside headings and inline runs.
func (r *renderer) requireBlock(name string) error {
	if r.inline > 0 {
		return &document.UnsupportedConstructError{
			Kind:   "block",
			Name:   name,
			Detail: "not allowed inside a heading, footnote or italic run",
		}
	}
	return nil
}

func (r *renderer) openParagraph() {
	if !r.para.atBlockLevel() {
		return
	}
	if r.opts.xhtml {
		r.write(fmt.Sprintf(`<p id="p%d">`, r.paragraphs))
	} else {
		r.write(fmt.Sprintf("<p id=%d>", r.paragraphs))
	}
	r.paragraphs++
	r.para.begin()
}

func (r *renderer) closeParagraph() {
	if r.para.end() {
		r.write("</p>\n\n")
	}
}

func (r *renderer) write(s string) {
	if r.target != nil {
		r.target.WriteString(s)
		return
	}
	r.chapter().html.WriteString(s)
}

// chapter returns the current buffer, creating it on first write.
func (r *renderer) chapter() *chapterBuffer {
	if len(r.chapters) == 0 {
		r.chapters = append(r.chapters, &chapterBuffer{})
	}
	return r.chapters[len(r.chapters)-1]
}

// flushNotes appends the pending footnotes of the current chapter to it.
func (r *renderer) flushNotes() {
	if len(r.chapters) == 0 {
		return
	}
	c := r.chapters[len(r.chapters)-1]
	if len(c.notes) == 0 {
		return
	}
	c.html.WriteString(`<div class="footnotes">` + "\n")
	for _, n := range c.notes {
		fmt.Fprintf(&c.html, `<div class="footnote" id="fn%d"><a href="#fnref%d">%d</a> %s</div>`+"\n",
			n.id, n.id, n.id+1, n.body)
	}
	c.html.WriteString("</div>\n\n")
	c.notes = nil
}

// plainText flattens a heading into text for tables of contents.
func plainText(atom document.Atom) string {
	var b strings.Builder
	var visit func(document.Atom)
	visit = func(a document.Atom) {
		switch v := a.(type) {
		case document.List:
			for _, child := range v {
				visit(child)
			}
		case document.Text:
			b.WriteString(string(v))
		case document.Escaped:
			b.WriteRune(rune(v))
		case document.Special:
			out, _ := symbols.Resolve(string(v))
			b.WriteString(out)
		case document.NamedSymbol:
			out, _ := symbols.Resolve(string(v))
			b.WriteString(out)
		case document.Italic:
			visit(v.Contents)
		}
	}
	visit(atom)
	return strings.Join(strings.Fields(b.String()), " ")
}
