package grammar

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

const eof rune = -1

// crlfOrCR matches Windows and classic Mac line endings.
var crlfOrCR = regexp.MustCompile(`\r\n?`)

// reserved runes end a text span.
const reserved = "\\{}%`'-~$&#_^\n]"

// escapable runes may follow a backslash to lose their special meaning.
const escapable = "%{}&$#_ "

// directives are commands accepted for compatibility with full LaTeX sources
// whose effect is outside what the output can express. Their arguments are
// parsed and discarded.
var directives = map[string]bool{
	"documentclass":   true,
	"usepackage":      true,
	"title":           true,
	"author":          true,
	"date":            true,
	"maketitle":       true,
	"tableofcontents": true,
	"frontmatter":     true,
	"mainmatter":      true,
	"backmatter":      true,
	"noindent":        true,
	"clearpage":       true,
	"cleardoublepage": true,
	"newpage":         true,
}

// mode tells parseSequence which closing delimiter ends it.
type mode int

const (
	modeFile mode = iota
	modeRequired
	modeOptional
	modeGroup
)

type openEnv struct {
	name string
	pos  Position
}

type parser struct {
	src  []rune
	off  int
	line int
	col  int
	envs []openEnv
}

// Normalize converts line endings to \n and the text to Unicode NFC, so that
// composed and decomposed accents in a manuscript compare equal.
func Normalize(src string) string {
	return norm.NFC.String(crlfOrCR.ReplaceAllString(src, "\n"))
}

// Parse matches a whole source file. The input is normalized first; positions
// in the returned tree and in errors refer to the normalized text.
func Parse(src string) (*Node, error) {
	p := &parser{src: []rune(Normalize(src)), line: 1, col: 1}

	file := &Node{Rule: RuleFile, Pos: p.pos()}
	children, err := p.parseSequence(modeFile)
	if err != nil {
		return nil, err
	}
	if len(p.envs) > 0 {
		top := p.envs[len(p.envs)-1]
		return nil, p.errorf(`\end{%s} for the environment opened at line %d`, top.name, top.pos.Line)
	}
	file.Children = children
	return file, nil
}

func (p *parser) peek() rune {
	return p.peekAt(0)
}

func (p *parser) peekAt(n int) rune {
	if p.off+n >= len(p.src) {
		return eof
	}
	return p.src[p.off+n]
}

func (p *parser) next() rune {
	r := p.peek()
	if r == eof {
		return eof
	}
	p.off++
	if r == '\n' {
		p.line++
		p.col = 1
	} else {
		p.col++
	}
	return r
}

func (p *parser) pos() Position {
	return Position{Line: p.line, Column: p.col, Offset: p.off}
}

func (p *parser) reset(pos Position) {
	p.off, p.line, p.col = pos.Offset, pos.Line, pos.Column
}

func (p *parser) errorf(format string, args ...any) *SyntaxError {
	return p.errorAt(p.pos(), fmt.Sprintf(format, args...))
}

func (p *parser) errorAt(pos Position, expected string) *SyntaxError {
	return &SyntaxError{Line: pos.Line, Column: pos.Column, Expected: expected}
}

// parseSequence matches items until the delimiter of m, which is left unread.
func (p *parser) parseSequence(m mode) ([]*Node, error) {
	var nodes []*Node
	for {
		r := p.peek()
		switch {
		case r == eof:
			switch m {
			case modeRequired, modeGroup:
				return nil, p.errorf("`}`")
			case modeOptional:
				return nil, p.errorf("`]`")
			}
			return nodes, nil
		case r == '}':
			if m == modeRequired || m == modeGroup {
				return nodes, nil
			}
			if m == modeOptional {
				return nil, p.errorf("`]`")
			}
			return nil, p.errorf("end of input")
		case r == ']' && m == modeOptional:
			return nodes, nil
		}

		node, err := p.parseItem()
		if err != nil {
			return nil, err
		}
		nodes = appendNode(nodes, node)
	}
}

// appendNode merges adjacent text spans.
func appendNode(nodes []*Node, n *Node) []*Node {
	if n.Rule == RuleText && len(nodes) > 0 {
		last := nodes[len(nodes)-1]
		if last.Rule == RuleText {
			last.Text += n.Text
			return nodes
		}
	}
	return append(nodes, n)
}

func (p *parser) parseItem() (*Node, error) {
	start := p.pos()
	switch r := p.peek(); r {
	case '%':
		return p.parseComment(), nil
	case '\\':
		return p.parseBackslash()
	case '{':
		p.next()
		children, err := p.parseSequence(modeGroup)
		if err != nil {
			return nil, err
		}
		p.next()
		return &Node{Rule: RuleGroup, Pos: start, Children: children}, nil
	case '\n':
		return p.parseNewlines(), nil
	case '-':
		return p.parseDashes(), nil
	case '`', '\'':
		p.next()
		token := string(r)
		if p.peek() == r {
			p.next()
			token += string(r)
		}
		return &Node{Rule: RuleSpecial, Text: token, Pos: start}, nil
	case '$':
		p.next()
		if p.peek() == '-' && p.peekAt(1) == '$' {
			p.next()
			p.next()
			return &Node{Rule: RuleSpecial, Text: "$-$", Pos: start}, nil
		}
		return &Node{Rule: RuleSpecial, Text: "$", Pos: start}, nil
	case '~', '&', '#', '_', '^':
		p.next()
		return &Node{Rule: RuleSpecial, Text: string(r), Pos: start}, nil
	case ']':
		p.next()
		return &Node{Rule: RuleText, Text: "]", Pos: start}, nil
	default:
		return p.parseText(), nil
	}
}

func (p *parser) parseComment() *Node {
	start := p.pos()
	p.next() // %
	var b strings.Builder
	for r := p.peek(); r != eof && r != '\n'; r = p.peek() {
		b.WriteRune(p.next())
	}
	return &Node{Rule: RuleComment, Text: b.String(), Pos: start}
}

func (p *parser) parseText() *Node {
	start := p.pos()
	var b strings.Builder
	for r := p.peek(); r != eof && !strings.ContainsRune(reserved, r); r = p.peek() {
		b.WriteRune(p.next())
	}
	return &Node{Rule: RuleText, Text: b.String(), Pos: start}
}

// parseNewlines matches a single line break, or a blank line (two or more
// line breaks with only blanks between them) ending the paragraph.
func (p *parser) parseNewlines() *Node {
	start := p.pos()
	p.next()
	afterFirst := p.pos()

	blank := false
	for {
		save := p.pos()
		p.skipBlanks()
		if p.peek() != '\n' {
			p.reset(save)
			break
		}
		p.next()
		blank = true
	}

	if !blank {
		p.reset(afterFirst)
		return &Node{Rule: RuleSpecial, Text: "\n", Pos: start}
	}
	return &Node{Rule: RuleParagraphEnd, Text: "\n\n", Pos: start}
}

func (p *parser) parseDashes() *Node {
	start := p.pos()
	n := 0
	for p.peek() == '-' && n < 3 {
		p.next()
		n++
	}
	return &Node{Rule: RuleSpecial, Text: strings.Repeat("-", n), Pos: start}
}

func (p *parser) skipBlanks() {
	for r := p.peek(); r == ' ' || r == '\t'; r = p.peek() {
		p.next()
	}
}

func (p *parser) parseBackslash() (*Node, error) {
	start := p.pos()
	p.next() // \

	r := p.peek()
	switch {
	case r == eof:
		return nil, p.errorf("command name or escaped character")
	case isLetter(r):
		return p.parseCommand(start)
	case strings.ContainsRune(escapable, r):
		p.next()
		return &Node{Rule: RuleEscape, Text: string(r), Pos: start}, nil
	case r == '\\':
		p.next()
		return &Node{Rule: RuleSpecial, Text: `\\`, Pos: start}, nil
	case r == '\n':
		return nil, p.errorf("command name or escaped character")
	default:
		// Control symbols such as \' or \, have no arguments.
		p.next()
		return &Node{Rule: RuleCommand, Text: string(r), Pos: start}, nil
	}
}

func (p *parser) parseCommand(start Position) (*Node, error) {
	var b strings.Builder
	for isLetter(p.peek()) {
		b.WriteRune(p.next())
	}
	if p.peek() == '*' {
		b.WriteRune(p.next())
	}
	name := b.String()
	p.skipBlanks()

	switch name {
	case "par":
		return &Node{Rule: RuleParagraphEnd, Text: `\par`, Pos: start}, nil
	case "begin", "end":
		return p.parseEnvironment(name, start)
	case "include", "input":
		arg, err := p.parseRequiredArg()
		if err != nil {
			return nil, err
		}
		file := Literal(arg)
		if strings.TrimSpace(file) == "" {
			return nil, p.errorAt(arg.Pos, "file name")
		}
		return &Node{Rule: RuleInclude, Text: file, Pos: start, Children: []*Node{arg}}, nil
	}

	args, err := p.parseArgs()
	if err != nil {
		return nil, err
	}
	rule := RuleCommand
	if directives[name] {
		rule = RuleDirective
	}
	return &Node{Rule: rule, Text: name, Pos: start, Children: args}, nil
}

func (p *parser) parseEnvironment(keyword string, start Position) (*Node, error) {
	arg, err := p.parseRequiredArg()
	if err != nil {
		return nil, err
	}
	name := strings.TrimSpace(Literal(arg))
	if name == "" {
		return nil, p.errorAt(arg.Pos, "environment name")
	}

	if keyword == "begin" {
		p.envs = append(p.envs, openEnv{name: name, pos: start})
		return &Node{Rule: RuleBeginEnv, Text: name, Pos: start, Children: []*Node{arg}}, nil
	}

	if len(p.envs) == 0 {
		return nil, p.errorAt(start, fmt.Sprintf(`\begin{%s} before \end{%s}`, name, name))
	}
	top := p.envs[len(p.envs)-1]
	if top.name != name {
		return nil, p.errorAt(start, fmt.Sprintf(`\end{%s}`, top.name))
	}
	p.envs = p.envs[:len(p.envs)-1]
	return &Node{Rule: RuleEndEnv, Text: name, Pos: start, Children: []*Node{arg}}, nil
}

func (p *parser) parseRequiredArg() (*Node, error) {
	if p.peek() != '{' {
		return nil, p.errorf("`{`")
	}
	start := p.pos()
	p.next()
	children, err := p.parseSequence(modeRequired)
	if err != nil {
		return nil, err
	}
	p.next()
	return &Node{Rule: RuleRequiredArg, Pos: start, Children: children}, nil
}

func (p *parser) parseOptionalArg() (*Node, error) {
	start := p.pos()
	p.next() // [
	children, err := p.parseSequence(modeOptional)
	if err != nil {
		return nil, err
	}
	p.next()
	return &Node{Rule: RuleOptionalArg, Pos: start, Children: children}, nil
}

// parseArgs matches the argument groups directly following a command name,
// in source order.
func (p *parser) parseArgs() ([]*Node, error) {
	var args []*Node
	for {
		var (
			arg *Node
			err error
		)
		switch p.peek() {
		case '[':
			arg, err = p.parseOptionalArg()
		case '{':
			arg, err = p.parseRequiredArg()
		default:
			return args, nil
		}
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
	}
}

func isLetter(r rune) bool {
	return r != eof && r < unicode.MaxASCII && unicode.IsLetter(r)
}
