// Package symbols maps markup tokens, ligatures and named symbols to the
// characters they stand for in the output.
package symbols

import (
	"maps"
	"slices"
)

// Output characters.
const (
	NoBreakSpace     = "\u00a0"
	EmDash           = "\u2014"
	EnDash           = "\u2013"
	LeftDoubleQuote  = "\u201c"
	RightDoubleQuote = "\u201d"
	LeftSingleQuote  = "\u2018"
	RightSingleQuote = "\u2019"
	Minus            = "\u2212"
	Omission         = "[...]"
)

// tokens holds special-text tokens as classified by the grammar.
var tokens = map[string]string{
	"\n":  "\n",
	"-":   "-",
	"~":   NoBreakSpace,
	"---": EmDash,
	"--":  EnDash,
	"``":  LeftDoubleQuote,
	"''":  RightDoubleQuote,
	"`":   LeftSingleQuote,
	"'":   RightSingleQuote,
	"$-$": Minus,
}

// named holds zero-argument commands standing for a symbol.
var named = map[string]string{
	"textbackslash": `\`,
	"omission":      Omission, // TODO: use U+2026 once the packager's font subset includes it
}

// Resolve returns the output text for a special token or a named symbol.
func Resolve(token string) (string, bool) {
	if out, ok := tokens[token]; ok {
		return out, true
	}
	out, ok := named[token]
	return out, ok
}

// IsSpecial reports whether token is a known special-text token.
func IsSpecial(token string) bool {
	_, ok := tokens[token]
	return ok
}

// IsNamed reports whether name is a known named symbol.
func IsNamed(name string) bool {
	_, ok := named[name]
	return ok
}

// Names returns the named symbols in sorted order.
func Names() []string {
	return slices.Sorted(maps.Keys(named))
}
