package tex2epub

import (
	"errors"

	"github.com/alnah/go-tex2epub/internal/assets"
	"github.com/alnah/go-tex2epub/internal/document"
	"github.com/alnah/go-tex2epub/internal/render"
)

// Sentinel errors for library operations.
var (
	ErrEmptyPath           = errors.New("source path cannot be empty")
	ErrInvalidExtension    = errors.New("invalid source extension")
	ErrInvalidFootnoteMode = render.ErrInvalidFootnoteMode
	ErrInvalidLanguage     = errors.New("invalid language tag")
	ErrInvalidAssetPath    = errors.New("invalid asset path")
	ErrStyleNotFound       = assets.ErrStyleNotFound
	ErrTemplate            = errors.New("chapter template failed")

	// Manuscript errors.
	ErrIO                   = document.ErrIO
	ErrSyntax               = document.ErrSyntax
	ErrUnsupportedConstruct = document.ErrUnsupportedConstruct
	ErrIncludeCycle         = document.ErrIncludeCycle
)

// Typed manuscript errors, usable with errors.As.
type (
	IOError                   = document.IOError
	SyntaxError               = document.SyntaxError
	UnsupportedConstructError = document.UnsupportedConstructError
	IncludeCycleError         = document.IncludeCycleError
)
