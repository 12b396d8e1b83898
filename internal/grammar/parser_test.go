package grammar

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

// shape is a position-free view of a Node for comparisons.
type shape struct {
	Rule     Rule
	Text     string
	Children []shape
}

func shapeOf(n *Node) shape {
	s := shape{Rule: n.Rule, Text: n.Text}
	for _, c := range n.Children {
		s.Children = append(s.Children, shapeOf(c))
	}
	return s
}

func leaf(rule Rule, text string) shape {
	return shape{Rule: rule, Text: text}
}

func mustParse(t *testing.T, src string) *Node {
	t.Helper()
	n, err := Parse(src)
	if err != nil {
		t.Fatalf("Parse(%q) unexpected error: %v", src, err)
	}
	return n
}

func TestParse(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  []shape
	}{
		{
			name:  "empty input",
			input: "",
			want:  nil,
		},
		{
			name:  "plain text",
			input: "Hello, World!",
			want:  []shape{leaf(RuleText, "Hello, World!")},
		},
		{
			name:  "utf8 text",
			input: "Introdução",
			want:  []shape{leaf(RuleText, "Introdução")},
		},
		{
			name:  "single newline is special text",
			input: "A\nB",
			want:  []shape{leaf(RuleText, "A"), leaf(RuleSpecial, "\n"), leaf(RuleText, "B")},
		},
		{
			name:  "blank line ends the paragraph",
			input: "A\n\nB",
			want:  []shape{leaf(RuleText, "A"), leaf(RuleParagraphEnd, "\n\n"), leaf(RuleText, "B")},
		},
		{
			name:  "several blank lines with spaces are one paragraph end",
			input: "A\n  \n\t\n\nB",
			want:  []shape{leaf(RuleText, "A"), leaf(RuleParagraphEnd, "\n\n"), leaf(RuleText, "B")},
		},
		{
			name:  "crlf line endings are normalized",
			input: "A\r\n\r\nB",
			want:  []shape{leaf(RuleText, "A"), leaf(RuleParagraphEnd, "\n\n"), leaf(RuleText, "B")},
		},
		{
			name:  "explicit par",
			input: `text\par rem`,
			want:  []shape{leaf(RuleText, "text"), leaf(RuleParagraphEnd, `\par`), leaf(RuleText, "rem")},
		},
		{
			name:  "comment stops at the line end",
			input: "text1%comment\ntext2",
			want: []shape{
				leaf(RuleText, "text1"),
				leaf(RuleComment, "comment"),
				leaf(RuleSpecial, "\n"),
				leaf(RuleText, "text2"),
			},
		},
		{
			name:  "empty comment at end of input",
			input: "%",
			want:  []shape{leaf(RuleComment, "")},
		},
		{
			name:  "dashes",
			input: "a-b--c---d----e",
			want: []shape{
				leaf(RuleText, "a"), leaf(RuleSpecial, "-"),
				leaf(RuleText, "b"), leaf(RuleSpecial, "--"),
				leaf(RuleText, "c"), leaf(RuleSpecial, "---"),
				leaf(RuleText, "d"), leaf(RuleSpecial, "---"), leaf(RuleSpecial, "-"),
				leaf(RuleText, "e"),
			},
		},
		{
			name:  "quotes",
			input: "``a'' `b'",
			want: []shape{
				leaf(RuleSpecial, "``"), leaf(RuleText, "a"), leaf(RuleSpecial, "''"),
				leaf(RuleText, " "),
				leaf(RuleSpecial, "`"), leaf(RuleText, "b"), leaf(RuleSpecial, "'"),
			},
		},
		{
			name:  "tie, minus and dollar",
			input: "a~b$-$c$",
			want: []shape{
				leaf(RuleText, "a"), leaf(RuleSpecial, "~"), leaf(RuleText, "b"),
				leaf(RuleSpecial, "$-$"), leaf(RuleText, "c"), leaf(RuleSpecial, "$"),
			},
		},
		{
			name:  "escapes",
			input: `50\% \& \{x\}`,
			want: []shape{
				leaf(RuleText, "50"), leaf(RuleEscape, "%"), leaf(RuleText, " "),
				leaf(RuleEscape, "&"), leaf(RuleText, " "),
				leaf(RuleEscape, "{"), leaf(RuleText, "x"), leaf(RuleEscape, "}"),
			},
		},
		{
			name:  "double backslash is special text",
			input: `a\\b`,
			want:  []shape{leaf(RuleText, "a"), leaf(RuleSpecial, `\\`), leaf(RuleText, "b")},
		},
		{
			name:  "brackets outside arguments are text",
			input: "see [1] here",
			want:  []shape{leaf(RuleText, "see [1] here")},
		},
		{
			name:  "command with required argument",
			input: `\chapter{Intro}`,
			want: []shape{{
				Rule: RuleCommand, Text: "chapter",
				Children: []shape{{Rule: RuleRequiredArg, Children: []shape{leaf(RuleText, "Intro")}}},
			}},
		},
		{
			name:  "starred command with optional and required argument",
			input: `\chapter*[Short]{Long}`,
			want: []shape{{
				Rule: RuleCommand, Text: "chapter*",
				Children: []shape{
					{Rule: RuleOptionalArg, Children: []shape{leaf(RuleText, "Short")}},
					{Rule: RuleRequiredArg, Children: []shape{leaf(RuleText, "Long")}},
				},
			}},
		},
		{
			name:  "spaces after a control word are skipped",
			input: `\textbackslash  foo`,
			want:  []shape{{Rule: RuleCommand, Text: "textbackslash"}, leaf(RuleText, "foo")},
		},
		{
			name:  "control symbol",
			input: `\'e`,
			want:  []shape{{Rule: RuleCommand, Text: "'"}, leaf(RuleText, "e")},
		},
		{
			name:  "bare group",
			input: "{a}b",
			want:  []shape{{Rule: RuleGroup, Children: []shape{leaf(RuleText, "a")}}, leaf(RuleText, "b")},
		},
		{
			name:  "include",
			input: `\include{chapters/one}`,
			want: []shape{{
				Rule: RuleInclude, Text: "chapters/one",
				Children: []shape{{Rule: RuleRequiredArg, Children: []shape{leaf(RuleText, "chapters/one")}}},
			}},
		},
		{
			name:  "input with underscore in the name",
			input: `\input{ch_1}`,
			want: []shape{{
				Rule: RuleInclude, Text: "ch_1",
				Children: []shape{{Rule: RuleRequiredArg, Children: []shape{
					leaf(RuleText, "ch"), leaf(RuleSpecial, "_"), leaf(RuleText, "1"),
				}}},
			}},
		},
		{
			name:  "environment",
			input: "\\begin{quotation}\nq\n\\end{quotation}",
			want: []shape{
				{Rule: RuleBeginEnv, Text: "quotation", Children: []shape{{Rule: RuleRequiredArg, Children: []shape{leaf(RuleText, "quotation")}}}},
				leaf(RuleSpecial, "\n"),
				leaf(RuleText, "q"),
				leaf(RuleSpecial, "\n"),
				{Rule: RuleEndEnv, Text: "quotation", Children: []shape{{Rule: RuleRequiredArg, Children: []shape{leaf(RuleText, "quotation")}}}},
			},
		},
		{
			name:  "directive consumes its arguments",
			input: `\documentclass[12pt]{book}x`,
			want: []shape{
				{Rule: RuleDirective, Text: "documentclass", Children: []shape{
					{Rule: RuleOptionalArg, Children: []shape{leaf(RuleText, "12pt")}},
					{Rule: RuleRequiredArg, Children: []shape{leaf(RuleText, "book")}},
				}},
				leaf(RuleText, "x"),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := shapeOf(mustParse(t, tt.input))
			want := shape{Rule: RuleFile, Children: tt.want}
			if diff := cmp.Diff(want, got, cmpopts.EquateEmpty()); diff != "" {
				t.Errorf("Parse(%q) mismatch (-want +got):\n%s", tt.input, diff)
			}
		})
	}
}

func TestParse_Positions(t *testing.T) {
	t.Parallel()

	root := mustParse(t, "ab\n\\chapter{é}")
	cmd := root.Children[2]
	if cmd.Rule != RuleCommand {
		t.Fatalf("child 2 rule = %v, want command", cmd.Rule)
	}
	if cmd.Pos.Line != 2 || cmd.Pos.Column != 1 {
		t.Errorf("command position = %d:%d, want 2:1", cmd.Pos.Line, cmd.Pos.Column)
	}
	title := cmd.Children[0].Children[0]
	if title.Pos.Line != 2 || title.Pos.Column != 10 {
		t.Errorf("title position = %d:%d, want 2:10", title.Pos.Line, title.Pos.Column)
	}
}

func TestParse_NormalizesToNFC(t *testing.T) {
	t.Parallel()

	decomposed := "Introduc\u0327a\u0303o"
	root := mustParse(t, decomposed)
	if got := root.Children[0].Text; got != "Introdução" {
		t.Errorf("text = %q, want composed %q", got, "Introdução")
	}
}

func TestParse_SyntaxErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		input        string
		wantLine     int
		wantColumn   int
		wantExpected string
	}{
		{
			name:         "unclosed argument",
			input:        `\chapter{Intro`,
			wantLine:     1,
			wantColumn:   15,
			wantExpected: "`}`",
		},
		{
			name:         "unclosed optional argument",
			input:        `\chapter[Intro`,
			wantLine:     1,
			wantColumn:   15,
			wantExpected: "`]`",
		},
		{
			name:         "stray closing brace",
			input:        "a\nb}",
			wantLine:     2,
			wantColumn:   2,
			wantExpected: "end of input",
		},
		{
			name:         "trailing backslash",
			input:        `a\`,
			wantLine:     1,
			wantColumn:   3,
			wantExpected: "command name or escaped character",
		},
		{
			name:         "environment without a name",
			input:        `\begin x`,
			wantLine:     1,
			wantColumn:   8,
			wantExpected: "`{`",
		},
		{
			name:         "mismatched environment end",
			input:        "\\begin{quotation}\n\\end{quote}",
			wantLine:     2,
			wantColumn:   1,
			wantExpected: `\end{quotation}`,
		},
		{
			name:         "end without begin",
			input:        `\end{quotation}`,
			wantLine:     1,
			wantColumn:   1,
			wantExpected: `\begin{quotation} before \end{quotation}`,
		},
		{
			name:         "unclosed environment",
			input:        "\\begin{quotation}\ntext",
			wantLine:     2,
			wantColumn:   5,
			wantExpected: `\end{quotation} for the environment opened at line 1`,
		},
		{
			name:         "include without a name",
			input:        `\include{ }`,
			wantLine:     1,
			wantColumn:   9,
			wantExpected: "file name",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := Parse(tt.input)
			var syntaxErr *SyntaxError
			if !errors.As(err, &syntaxErr) {
				t.Fatalf("Parse(%q) error = %v, want *SyntaxError", tt.input, err)
			}
			if syntaxErr.Line != tt.wantLine || syntaxErr.Column != tt.wantColumn {
				t.Errorf("position = %d:%d, want %d:%d", syntaxErr.Line, syntaxErr.Column, tt.wantLine, tt.wantColumn)
			}
			if syntaxErr.Expected != tt.wantExpected {
				t.Errorf("Expected = %q, want %q", syntaxErr.Expected, tt.wantExpected)
			}
		})
	}
}

func TestLiteral(t *testing.T) {
	t.Parallel()

	root := mustParse(t, `{a\_b%c`+"\n"+`{d}}`)
	if got := Literal(root); got != "a_b\nd" {
		t.Errorf("Literal() = %q, want %q", got, "a_b\nd")
	}
}

func TestRule_String(t *testing.T) {
	t.Parallel()

	if got := RuleBeginEnv.String(); got != "begin_env" {
		t.Errorf("RuleBeginEnv.String() = %q, want %q", got, "begin_env")
	}
	if got := Rule(99).String(); !strings.HasPrefix(got, "rule(") {
		t.Errorf("Rule(99).String() = %q, want rule(99)", got)
	}
}
