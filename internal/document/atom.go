// Package document defines the typed tree a manuscript is converted into.
//
// The tree is built bottom-up by the builder package and read by the render
// package. Atoms are plain values: nothing in this package mutates a tree
// after it has been constructed.
package document

// Atom is one node of the document tree.
//
// The set of implementations is closed: only the types declared in this file
// satisfy the interface. Consumers switch on the concrete type and must handle
// every variant.
type Atom interface {
	atom()
}

// List is an ordered sequence of sibling atoms.
// A List built with Collapse never has exactly one element.
type List []Atom

// Comment is an author annotation. It is never rendered.
type Comment string

// Text is literal prose.
type Text string

// Escaped is a character whose special meaning was suppressed in the source.
type Escaped rune

// Special is a markup token classified by the grammar as special text:
// ligatures, dashes, quotes, the non-breaking space and line breaks.
type Special string

// NamedSymbol is a zero-argument command that stands for a fixed symbol.
type NamedSymbol string

// StartChapter begins a new top-level division.
type StartChapter struct {
	Title Atom
}

// StartSection begins a subdivision of the current chapter.
type StartSection struct {
	Title Atom
}

// Footnote is an annotation anchored at a point in the text.
type Footnote struct {
	Body Atom
}

// Italic is an inline emphasis run.
type Italic struct {
	Contents Atom
}

// BeginEnvironment opens a named block construct.
type BeginEnvironment struct {
	Name string
}

// EndEnvironment closes a named block construct.
type EndEnvironment struct {
	Name string
}

// ParagraphEnd is an explicit paragraph boundary.
type ParagraphEnd struct{}

// Ignore is a recognized directive without meaning for the output.
type Ignore struct{}

func (List) atom()             {}
func (Comment) atom()          {}
func (Text) atom()             {}
func (Escaped) atom()          {}
func (Special) atom()          {}
func (NamedSymbol) atom()      {}
func (StartChapter) atom()     {}
func (StartSection) atom()     {}
func (Footnote) atom()         {}
func (Italic) atom()           {}
func (BeginEnvironment) atom() {}
func (EndEnvironment) atom()   {}
func (ParagraphEnd) atom()     {}
func (Ignore) atom()           {}

// Collapse turns a sequence of sibling atoms into a single atom.
// An empty sequence becomes the empty List and a single element is returned
// as is, so callers never see a List of length one.
func Collapse(atoms []Atom) Atom {
	switch len(atoms) {
	case 0:
		return List{}
	case 1:
		return atoms[0]
	default:
		list := make(List, len(atoms))
		copy(list, atoms)
		return list
	}
}

// IsQuotation reports whether an environment name denotes a block quotation.
// These are the only environments with an HTML rendering.
func IsQuotation(name string) bool {
	return name == "quotation" || name == "quote"
}

// Book owns the document tree of one conversion run.
type Book struct {
	AST   Atom
	Root  string   // path of the root source file
	Files []string // every source file read, in first-read order
}
