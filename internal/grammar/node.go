// Package grammar turns manuscript source text into a syntax tree.
//
// The tree is purely syntactic: commands keep their names and raw argument
// groups, special text keeps its raw token. Giving those a meaning is the job
// of the builder package.
package grammar

import (
	"fmt"
	"strings"
)

// Rule identifies the grammar rule a Node was matched by.
type Rule int

// Grammar rules.
const (
	RuleFile         Rule = iota // whole source file
	RuleComment                  // % to end of line; Text holds the body
	RuleText                     // literal prose
	RuleEscape                   // \% \{ \} \& \$ \# \_ and control space; Text holds the character
	RuleSpecial                  // ligatures, dashes, quotes, ~, line breaks
	RuleInclude                  // \include{name} or \input{name}; Text holds the name
	RuleCommand                  // \name followed by argument groups; Text holds the name
	RuleOptionalArg              // [ ... ]
	RuleRequiredArg              // { ... } right after a command
	RuleGroup                    // bare { ... }
	RuleBeginEnv                 // \begin{name}
	RuleEndEnv                   // \end{name}
	RuleParagraphEnd             // blank line or \par
	RuleDirective                // recognized command without meaning for the output
)

var ruleNames = [...]string{
	RuleFile:         "file",
	RuleComment:      "comment",
	RuleText:         "text",
	RuleEscape:       "escape",
	RuleSpecial:      "special",
	RuleInclude:      "include",
	RuleCommand:      "command",
	RuleOptionalArg:  "optional_arg",
	RuleRequiredArg:  "required_arg",
	RuleGroup:        "group",
	RuleBeginEnv:     "begin_env",
	RuleEndEnv:       "end_env",
	RuleParagraphEnd: "paragraph_end",
	RuleDirective:    "directive",
}

func (r Rule) String() string {
	if r >= 0 && int(r) < len(ruleNames) {
		return ruleNames[r]
	}
	return fmt.Sprintf("rule(%d)", int(r))
}

// Position is a location in the normalized source.
type Position struct {
	Line   int // 1-based line number
	Column int // 1-based column, counted in runes
	Offset int // 0-based rune offset
}

// Node is one matched rule.
type Node struct {
	Rule     Rule
	Text     string
	Pos      Position
	Children []*Node
}

// Literal concatenates the literal text spans under n.
// Comments and nested structure other than groups are skipped.
func Literal(n *Node) string {
	var b strings.Builder
	writeLiteral(&b, n)
	return b.String()
}

func writeLiteral(b *strings.Builder, n *Node) {
	switch n.Rule {
	case RuleText, RuleEscape, RuleSpecial:
		b.WriteString(n.Text)
	case RuleOptionalArg, RuleRequiredArg, RuleGroup, RuleFile:
		for _, c := range n.Children {
			writeLiteral(b, c)
		}
	}
}

// SyntaxError reports source text the grammar cannot match.
type SyntaxError struct {
	Line     int
	Column   int
	Expected string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("line %d, column %d: expected %s", e.Line, e.Column, e.Expected)
}
