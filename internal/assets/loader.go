package assets

// Built-in asset names.
const (
	DefaultStyleName    = "default"
	ChapterTemplateName = "chapter"
)

// File layout of an asset directory.
const (
	stylesDir    = "styles"
	styleExt     = ".css"
	templatesDir = "templates"
	templateExt  = ".xhtml"
)

// AssetLoader defines the contract for loading stylesheets and chapter templates.
type AssetLoader interface {
	// LoadStyle loads a CSS style by name (without .css extension).
	// Returns ErrStyleNotFound if the style doesn't exist.
	// Returns ErrInvalidAssetName if the name contains invalid characters.
	LoadStyle(name string) (string, error)

	// LoadTemplate loads a chapter template by name (without .xhtml extension).
	// Returns ErrTemplateNotFound if the template doesn't exist.
	// Returns ErrInvalidAssetName if the name contains invalid characters.
	LoadTemplate(name string) (string, error)
}
