package builder

import (
	"maps"
	"slices"

	"go.uber.org/zap"

	"github.com/alnah/go-tex2epub/internal/document"
	"github.com/alnah/go-tex2epub/internal/fileutil"
	"github.com/alnah/go-tex2epub/internal/grammar"
	"github.com/alnah/go-tex2epub/internal/symbols"
)

// Argument is one bound command argument, in source order.
type Argument struct {
	Optional bool
	Value    document.Atom
	Pos      grammar.Position
}

// isEmpty reports whether the argument was written as {} or [].
func (a Argument) isEmpty() bool {
	list, ok := a.Value.(document.List)
	return ok && len(list) == 0
}

// structural maps commands that wrap their first required argument.
var structural = map[string]func(document.Atom) document.Atom{
	"chapter":  func(a document.Atom) document.Atom { return document.StartChapter{Title: a} },
	"chapter*": func(a document.Atom) document.Atom { return document.StartChapter{Title: a} },
	"section":  func(a document.Atom) document.Atom { return document.StartSection{Title: a} },
	"section*": func(a document.Atom) document.Atom { return document.StartSection{Title: a} },
	"footnote": func(a document.Atom) document.Atom { return document.Footnote{Body: a} },
	"textit":   func(a document.Atom) document.Atom { return document.Italic{Contents: a} },
	"emph":     func(a document.Atom) document.Atom { return document.Italic{Contents: a} },
}

// SupportedCommands returns every command name the builder maps to an Atom,
// sorted. Directives dropped from the tree are not listed.
func SupportedCommands() []string {
	names := slices.Collect(maps.Keys(structural))
	names = append(names, symbols.Names()...)
	slices.Sort(names)
	return names
}

// SupportedEnvironments returns the environments accepted in a manuscript.
func SupportedEnvironments() []string {
	return []string{"document", "quotation", "quote"}
}

// source converts the syntax tree of one file.
type source struct {
	*expansion
	path string
}

func (s *source) convert(n *grammar.Node) (document.Atom, error) {
	switch n.Rule {
	case grammar.RuleFile, grammar.RuleGroup:
		return s.sequence(n.Children)
	case grammar.RuleComment:
		return document.Comment(n.Text), nil
	case grammar.RuleText:
		return document.Text(n.Text), nil
	case grammar.RuleEscape:
		return document.Escaped([]rune(n.Text)[0]), nil
	case grammar.RuleSpecial:
		if !symbols.IsSpecial(n.Text) {
			return nil, s.unsupported(n, "special", n.Text, "")
		}
		return document.Special(n.Text), nil
	case grammar.RuleParagraphEnd:
		return document.ParagraphEnd{}, nil
	case grammar.RuleDirective:
		return document.Ignore{}, nil
	case grammar.RuleInclude:
		return s.include(n)
	case grammar.RuleBeginEnv, grammar.RuleEndEnv:
		return s.environment(n)
	case grammar.RuleCommand:
		return s.command(n)
	default:
		return nil, s.unsupported(n, "rule", n.Rule.String(), "")
	}
}

// sequence converts sibling nodes and collapses the result.
func (s *source) sequence(nodes []*grammar.Node) (document.Atom, error) {
	atoms := make([]document.Atom, 0, len(nodes))
	for _, n := range nodes {
		atom, err := s.convert(n)
		if err != nil {
			return nil, err
		}
		atoms = append(atoms, atom)
	}
	return document.Collapse(atoms), nil
}

func (s *source) include(n *grammar.Node) (document.Atom, error) {
	path := fileutil.ResolveInclude(s.path, n.Text, s.builder.extension)
	s.builder.logger.Debug("expanding include",
		zap.String("from", s.path),
		zap.String("include", path),
		zap.Int("line", n.Pos.Line),
	)
	return s.expand(path)
}

func (s *source) environment(n *grammar.Node) (document.Atom, error) {
	name := n.Text
	if name == "document" {
		return document.Ignore{}, nil
	}
	if !document.IsQuotation(name) {
		return nil, s.unsupported(n, "environment", name, "")
	}
	if n.Rule == grammar.RuleBeginEnv {
		return document.BeginEnvironment{Name: name}, nil
	}
	return document.EndEnvironment{Name: name}, nil
}

// command binds the arguments of a command and folds it into its Atom.
func (s *source) command(n *grammar.Node) (document.Atom, error) {
	args, err := s.arguments(n.Children)
	if err != nil {
		return nil, err
	}

	name := n.Text
	if wrap, ok := structural[name]; ok {
		arg, found := firstRequired(args)
		if !found {
			return nil, s.unsupported(n, "command", name, "expects a {...} argument")
		}
		return wrap(arg.Value), nil
	}

	if symbols.IsNamed(name) {
		for _, arg := range args {
			if !arg.isEmpty() {
				return nil, s.unsupported(n, "command", name, "takes no arguments")
			}
		}
		return document.NamedSymbol(name), nil
	}

	return nil, s.unsupported(n, "command", name, "")
}

// arguments converts argument groups in source order.
func (s *source) arguments(nodes []*grammar.Node) ([]Argument, error) {
	args := make([]Argument, 0, len(nodes))
	for _, n := range nodes {
		value, err := s.sequence(n.Children)
		if err != nil {
			return nil, err
		}
		args = append(args, Argument{
			Optional: n.Rule == grammar.RuleOptionalArg,
			Value:    value,
			Pos:      n.Pos,
		})
	}
	return args, nil
}

func firstRequired(args []Argument) (Argument, bool) {
	for _, arg := range args {
		if !arg.Optional {
			return arg, true
		}
	}
	return Argument{}, false
}

func (s *source) unsupported(n *grammar.Node, kind, name, detail string) error {
	return &document.UnsupportedConstructError{
		Kind:   kind,
		Name:   name,
		Detail: detail,
		Path:   s.path,
		Line:   n.Pos.Line,
		Column: n.Pos.Column,
	}
}
