package render_test

// Notes:
// - Expected HTML is compared byte for byte; goquery is only used where the
//   property spans several buffers (paragraph ids, footnote links).

import (
	"errors"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/google/go-cmp/cmp"

	"github.com/alnah/go-tex2epub/internal/document"
	"github.com/alnah/go-tex2epub/internal/render"
)

// ---------------------------------------------------------------------------
// TestRender - Paragraphs, headings, symbols and escaping
// ---------------------------------------------------------------------------

func TestRender(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		tree document.Atom
		want []string
	}{
		{
			name: "single text becomes one paragraph",
			tree: document.Text("Hello, World!"),
			want: []string{"<p id=0>Hello, World!</p>\n\n"},
		},
		{
			name: "chapter heading then body",
			tree: document.List{
				document.StartChapter{Title: document.Text("Intro")},
				document.ParagraphEnd{},
				document.Text("Body"),
			},
			want: []string{"<h1>Intro</h1>\n\n<p id=0>Body</p>\n\n"},
		},
		{
			name: "em dash special",
			tree: document.List{document.Text("a"), document.Special("---"), document.Text("b")},
			want: []string{"<p id=0>a—b</p>\n\n"},
		},
		{
			name: "paragraph end splits paragraphs",
			tree: document.List{document.Text("A"), document.ParagraphEnd{}, document.Text("B")},
			want: []string{"<p id=0>A</p>\n\n<p id=1>B</p>\n\n"},
		},
		{
			name: "blank text between blocks opens nothing",
			tree: document.List{
				document.Text("A"),
				document.ParagraphEnd{},
				document.Special("\n"),
				document.Text("  \t"),
				document.ParagraphEnd{},
				document.Text("B"),
			},
			want: []string{"<p id=0>A</p>\n\n<p id=1>B</p>\n\n"},
		},
		{
			name: "newline inside paragraph is kept",
			tree: document.List{document.Text("a"), document.Special("\n"), document.Text("b")},
			want: []string{"<p id=0>a\nb</p>\n\n"},
		},
		{
			name: "html characters are escaped",
			tree: document.Text(`a<b & "c">`),
			want: []string{"<p id=0>a&lt;b &amp; &quot;c&quot;&gt;</p>\n\n"},
		},
		{
			name: "escaped character",
			tree: document.List{document.Text("50"), document.Escaped('%'), document.Text(" off")},
			want: []string{"<p id=0>50% off</p>\n\n"},
		},
		{
			name: "escaped ampersand is html-escaped",
			tree: document.List{document.Text("R"), document.Escaped('&'), document.Text("D")},
			want: []string{"<p id=0>R&amp;D</p>\n\n"},
		},
		{
			name: "quotes and non-breaking space",
			tree: document.List{
				document.Special("``"), document.Text("Hi"), document.Special("''"),
				document.Special("~"), document.Text("there"),
			},
			want: []string{"<p id=0>“Hi” there</p>\n\n"},
		},
		{
			name: "named symbols",
			tree: document.List{
				document.NamedSymbol("textbackslash"), document.Text(" "), document.NamedSymbol("omission"),
			},
			want: []string{"<p id=0>\\ [...]</p>\n\n"},
		},
		{
			name: "minus ligature",
			tree: document.List{document.Special("$-$"), document.Text("1")},
			want: []string{"<p id=0>−1</p>\n\n"},
		},
		{
			name: "comments and ignored directives produce nothing",
			tree: document.List{document.Comment(" note"), document.Ignore{}, document.Text("x")},
			want: []string{"<p id=0>x</p>\n\n"},
		},
		{
			name: "italic inside a paragraph",
			tree: document.List{
				document.Text("x "), document.Italic{Contents: document.Text("y")}, document.Text(" z"),
			},
			want: []string{"<p id=0>x <i>y</i> z</p>\n\n"},
		},
		{
			name: "italic opens the paragraph",
			tree: document.List{document.Italic{Contents: document.Text("y")}, document.Text(" z")},
			want: []string{"<p id=0><i>y</i> z</p>\n\n"},
		},
		{
			name: "paragraph end inside italic is ignored",
			tree: document.Italic{Contents: document.List{
				document.Text("a"), document.ParagraphEnd{}, document.Text("b"),
			}},
			want: []string{"<p id=0><i>ab</i></p>\n\n"},
		},
		{
			name: "nested italic",
			tree: document.Italic{Contents: document.List{
				document.Text("a"), document.Italic{Contents: document.Text("b")},
			}},
			want: []string{"<p id=0><i>a<i>b</i></i></p>\n\n"},
		},
		{
			name: "section heading closes paragraph",
			tree: document.List{
				document.Text("a"),
				document.StartSection{Title: document.Text("S")},
				document.Text("b"),
			},
			want: []string{"<p id=0>a</p>\n\n<h2>S</h2>\n\n<p id=1>b</p>\n\n"},
		},
		{
			name: "heading markup is escaped and italic",
			tree: document.StartChapter{Title: document.List{
				document.Text("Q&A "), document.Italic{Contents: document.Text("now")},
			}},
			want: []string{"<h1>Q&amp;A <i>now</i></h1>\n\n"},
		},
		{
			name: "quotation environment",
			tree: document.List{
				document.Text("a"),
				document.BeginEnvironment{Name: "quotation"},
				document.Text("q"),
				document.EndEnvironment{Name: "quotation"},
				document.Text("b"),
			},
			want: []string{
				"<p id=0>a</p>\n\n<blockquote>\n\n<p id=1>q</p>\n\n</blockquote>\n\n<p id=2>b</p>\n\n",
			},
		},
		{
			name: "quote environment",
			tree: document.List{
				document.BeginEnvironment{Name: "quote"},
				document.Text("q"),
				document.EndEnvironment{Name: "quote"},
			},
			want: []string{"<blockquote>\n\n<p id=0>q</p>\n\n</blockquote>\n\n"},
		},
		{
			name: "content before first chapter gets its own buffer",
			tree: document.List{
				document.Text("Before"),
				document.StartChapter{Title: document.Text("A")},
				document.Text("After"),
			},
			want: []string{
				"<p id=0>Before</p>\n\n",
				"<h1>A</h1>\n\n<p id=1>After</p>\n\n",
			},
		},
		{
			name: "paragraph ids continue across chapters",
			tree: document.List{
				document.StartChapter{Title: document.Text("One")},
				document.Text("a"), document.ParagraphEnd{}, document.Text("b"),
				document.StartChapter{Title: document.Text("Two")},
				document.Text("c"),
			},
			want: []string{
				"<h1>One</h1>\n\n<p id=0>a</p>\n\n<p id=1>b</p>\n\n",
				"<h1>Two</h1>\n\n<p id=2>c</p>\n\n",
			},
		},
		{
			name: "blanks after a heading do not start the paragraph",
			tree: document.List{
				document.StartChapter{Title: document.Text("Intro")},
				document.Text(" \tHello"),
			},
			want: []string{"<h1>Intro</h1>\n\n<p id=0>Hello</p>\n\n"},
		},
		{
			name: "no-break space starts a paragraph",
			tree: document.List{document.Special("~"), document.Text("x")},
			want: []string{"<p id=0>\u00a0x</p>\n\n"},
		},
		{
			name: "empty document",
			tree: document.List{},
			want: []string{},
		},
		{
			name: "whitespace-only document",
			tree: document.List{document.Special("\n"), document.Comment(""), document.Text(" ")},
			want: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := render.Render(tt.tree)
			if err != nil {
				t.Fatalf("Render() unexpected error: %v", err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Render() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestRender_XHTML - Quoted paragraph ids for standalone documents
// ---------------------------------------------------------------------------

func TestRender_XHTML(t *testing.T) {
	t.Parallel()

	tree := document.List{
		document.Text("A"),
		document.Footnote{Body: document.Text("n")},
		document.ParagraphEnd{},
		document.Text("B"),
	}

	got, err := render.Render(tree, render.WithXHTML())
	if err != nil {
		t.Fatalf("Render() unexpected error: %v", err)
	}
	want := []string{
		`<p id="p0">A<sup><a id="fnref0" href="#fn0">1</a></sup></p>` + "\n\n" +
			`<p id="p1">B</p>` + "\n\n" +
			`<div class="footnotes">` + "\n" +
			`<div class="footnote" id="fn0"><a href="#fnref0">1</a> n</div>` + "\n" +
			"</div>\n\n",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Render() mismatch (-want +got):\n%s", diff)
	}
}

// ---------------------------------------------------------------------------
// TestRender_Footnotes - Chapter-end and inline placement
// ---------------------------------------------------------------------------

func TestRender_Footnotes(t *testing.T) {
	t.Parallel()

	tree := document.List{
		document.StartChapter{Title: document.Text("One")},
		document.Text("Hi"),
		document.Footnote{Body: document.Text("note")},
		document.Text("."),
		document.StartChapter{Title: document.Text("Two")},
		document.Text("Bye"),
		document.Footnote{Body: document.Italic{Contents: document.Text("n2")}},
	}

	t.Run("chapter mode", func(t *testing.T) {
		t.Parallel()

		got, err := render.Render(tree)
		if err != nil {
			t.Fatalf("Render() unexpected error: %v", err)
		}
		want := []string{
			"<h1>One</h1>\n\n" +
				`<p id=0>Hi<sup><a id="fnref0" href="#fn0">1</a></sup>.</p>` + "\n\n" +
				`<div class="footnotes">` + "\n" +
				`<div class="footnote" id="fn0"><a href="#fnref0">1</a> note</div>` + "\n" +
				"</div>\n\n",
			"<h1>Two</h1>\n\n" +
				`<p id=1>Bye<sup><a id="fnref1" href="#fn1">2</a></sup></p>` + "\n\n" +
				`<div class="footnotes">` + "\n" +
				`<div class="footnote" id="fn1"><a href="#fnref1">2</a> <i>n2</i></div>` + "\n" +
				"</div>\n\n",
		}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("Render() mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("inline mode", func(t *testing.T) {
		t.Parallel()

		got, err := render.Render(tree, render.WithFootnotes(render.FootnotesInline))
		if err != nil {
			t.Fatalf("Render() unexpected error: %v", err)
		}
		want := []string{
			"<h1>One</h1>\n\n" +
				`<p id=0>Hi<span class="footnote" id="fn0">note</span>.</p>` + "\n\n",
			"<h1>Two</h1>\n\n" +
				`<p id=1>Bye<span class="footnote" id="fn1"><i>n2</i></span></p>` + "\n\n",
		}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("Render() mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("paragraph end inside footnote does not close the paragraph", func(t *testing.T) {
		t.Parallel()

		got, err := render.Render(document.List{
			document.Text("a"),
			document.Footnote{Body: document.List{
				document.Text("x"), document.ParagraphEnd{}, document.Text("y"),
			}},
			document.Text("b"),
		}, render.WithFootnotes(render.FootnotesInline))
		if err != nil {
			t.Fatalf("Render() unexpected error: %v", err)
		}
		want := []string{`<p id=0>a<span class="footnote" id="fn0">xy</span>b</p>` + "\n\n"}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("Render() mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("nested footnotes keep id order", func(t *testing.T) {
		t.Parallel()

		got, err := render.Render(document.Footnote{Body: document.List{
			document.Text("outer"),
			document.Footnote{Body: document.Text("inner")},
		}})
		if err != nil {
			t.Fatalf("Render() unexpected error: %v", err)
		}
		doc := parseHTML(t, got[0])
		var ids []string
		doc.Find("div.footnote").Each(func(_ int, s *goquery.Selection) {
			id, _ := s.Attr("id")
			ids = append(ids, id)
		})
		if diff := cmp.Diff([]string{"fn0", "fn1"}, ids); diff != "" {
			t.Errorf("footnote order mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("footnote in chapter title", func(t *testing.T) {
		t.Parallel()

		got, err := render.Render(document.StartChapter{Title: document.List{
			document.Text("Intro"), document.Footnote{Body: document.Text("n")},
		}})
		if err != nil {
			t.Fatalf("Render() unexpected error: %v", err)
		}
		want := `<h1>Intro<sup><a id="fnref0" href="#fn0">1</a></sup></h1>` + "\n\n" +
			`<div class="footnotes">` + "\n" +
			`<div class="footnote" id="fn0"><a href="#fnref0">1</a> n</div>` + "\n" +
			"</div>\n\n"
		if diff := cmp.Diff([]string{want}, got); diff != "" {
			t.Errorf("Render() mismatch (-want +got):\n%s", diff)
		}
	})
}

// ---------------------------------------------------------------------------
// TestRender_Structure - Properties checked on parsed output
// ---------------------------------------------------------------------------

func TestRender_Structure(t *testing.T) {
	t.Parallel()

	var tree document.List
	for _, title := range []string{"One", "Two", "Three"} {
		tree = append(tree,
			document.StartChapter{Title: document.Text(title)},
			document.Text("first"),
			document.Footnote{Body: document.Text("note " + title)},
			document.ParagraphEnd{},
			document.Italic{Contents: document.Text("second")},
			document.BeginEnvironment{Name: "quote"},
			document.Text("quoted"),
			document.EndEnvironment{Name: "quote"},
			document.Text("third"),
		)
	}

	buffers, err := render.Render(tree)
	if err != nil {
		t.Fatalf("Render() unexpected error: %v", err)
	}
	if len(buffers) != 3 {
		t.Fatalf("Render() returned %d buffers, want 3", len(buffers))
	}

	var ids []string
	for i, html := range buffers {
		if opens, closes := strings.Count(html, "<p "), strings.Count(html, "</p>"); opens != closes {
			t.Errorf("buffer %d: %d <p> opened, %d closed", i, opens, closes)
		}

		doc := parseHTML(t, html)
		doc.Find("p").Each(func(_ int, s *goquery.Selection) {
			id, _ := s.Attr("id")
			ids = append(ids, id)
		})
		doc.Find("sup a").Each(func(_ int, s *goquery.Selection) {
			href, _ := s.Attr("href")
			if doc.Find("div.footnote" + href).Length() != 1 {
				t.Errorf("buffer %d: anchor %s has no footnote in the same buffer", i, href)
			}
		})
	}

	want := []string{"0", "1", "2", "3", "4", "5", "6", "7", "8", "9", "10", "11"}
	if diff := cmp.Diff(want, ids); diff != "" {
		t.Errorf("paragraph ids mismatch (-want +got):\n%s", diff)
	}
}

// ---------------------------------------------------------------------------
// TestChapters - Titles
// ---------------------------------------------------------------------------

func TestChapters(t *testing.T) {
	t.Parallel()

	got, err := render.Chapters(document.List{
		document.Text("Preface"),
		document.StartChapter{Title: document.List{
			document.Text("The "),
			document.Italic{Contents: document.Text("End")},
			document.Footnote{Body: document.Text("ignored")},
			document.Special("---"),
			document.Text("Again"),
		}},
	})
	if err != nil {
		t.Fatalf("Chapters() unexpected error: %v", err)
	}

	var titles []string
	for _, c := range got {
		titles = append(titles, c.Title)
	}
	if diff := cmp.Diff([]string{"", "The End—Again"}, titles); diff != "" {
		t.Errorf("titles mismatch (-want +got):\n%s", diff)
	}
}

// ---------------------------------------------------------------------------
// TestRender_Errors - Unsupported constructs
// ---------------------------------------------------------------------------

func TestRender_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		tree     document.Atom
		wantKind string
		wantName string
	}{
		{
			name:     "unknown environment",
			tree:     document.List{document.BeginEnvironment{Name: "fancybox"}},
			wantKind: "environment",
			wantName: "fancybox",
		},
		{
			name:     "unknown end environment",
			tree:     document.EndEnvironment{Name: "itemize"},
			wantKind: "environment",
			wantName: "itemize",
		},
		{
			name:     "unknown special",
			tree:     document.Special("&"),
			wantKind: "special",
			wantName: "&",
		},
		{
			name:     "unknown named symbol",
			tree:     document.NamedSymbol("LaTeX"),
			wantKind: "named symbol",
			wantName: "LaTeX",
		},
		{
			name:     "chapter inside italic",
			tree:     document.Italic{Contents: document.StartChapter{Title: document.Text("x")}},
			wantKind: "block",
			wantName: "chapter",
		},
		{
			name:     "quotation inside footnote",
			tree:     document.Footnote{Body: document.BeginEnvironment{Name: "quotation"}},
			wantKind: "block",
			wantName: "environment quotation",
		},
		{
			name:     "section inside heading",
			tree:     document.StartChapter{Title: document.StartSection{Title: document.Text("x")}},
			wantKind: "block",
			wantName: "section",
		},
		{
			name:     "nil atom",
			tree:     nil,
			wantKind: "atom",
			wantName: "<nil>",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := render.Render(tt.tree)
			if err == nil {
				t.Fatalf("Render() = %q, want error", got)
			}
			if !errors.Is(err, document.ErrUnsupportedConstruct) {
				t.Errorf("Render() error = %v, want ErrUnsupportedConstruct", err)
			}
			var unsupported *document.UnsupportedConstructError
			if !errors.As(err, &unsupported) {
				t.Fatalf("Render() error type = %T, want *UnsupportedConstructError", err)
			}
			if unsupported.Kind != tt.wantKind || unsupported.Name != tt.wantName {
				t.Errorf("Render() error = %s %q, want %s %q",
					unsupported.Kind, unsupported.Name, tt.wantKind, tt.wantName)
			}
			if got != nil {
				t.Errorf("Render() returned buffers alongside error: %q", got)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestParseFootnoteMode
// ---------------------------------------------------------------------------

func TestParseFootnoteMode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input   string
		want    render.FootnoteMode
		wantErr bool
	}{
		{input: "", want: render.FootnotesChapter},
		{input: "chapter", want: render.FootnotesChapter},
		{input: " Inline ", want: render.FootnotesInline},
		{input: "endnotes", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()

			got, err := render.ParseFootnoteMode(tt.input)
			if tt.wantErr {
				if !errors.Is(err, render.ErrInvalidFootnoteMode) {
					t.Errorf("ParseFootnoteMode(%q) error = %v, want ErrInvalidFootnoteMode", tt.input, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseFootnoteMode(%q) unexpected error: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ParseFootnoteMode(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func parseHTML(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		t.Fatalf("parsing rendered html: %v", err)
	}
	return doc
}
