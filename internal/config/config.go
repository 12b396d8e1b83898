package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/alnah/go-tex2epub/internal/assets"
	"github.com/alnah/go-tex2epub/internal/fileutil"
	"github.com/alnah/go-tex2epub/internal/render"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound   = errors.New("config file not found")
	ErrEmptyConfigName  = errors.New("config name cannot be empty")
	ErrConfigParse      = errors.New("failed to parse config")
	ErrFieldTooLong     = errors.New("field exceeds maximum length")
	ErrInvalidPattern   = errors.New("invalid output file pattern")
	ErrInvalidExtension = errors.New("invalid source extension")
)

// Field length limits.
const (
	MaxExtensionLength = 16
	MaxDirLength       = 4096
	MaxPatternLength   = 255 // single path element
	MaxLanguageLength  = 35  // BCP 47 tag
	MaxStyleLength     = 64
)

// Defaults applied before a config file is decoded.
const (
	DefaultFilePattern = "chapter-%03d.xhtml"
	DefaultLanguage    = "en"
)

// appDir is the directory under the user config dir searched for named configs.
const appDir = "go-tex2epub"

// Config holds all settings of a conversion run.
type Config struct {
	Source    SourceConfig    `yaml:"source"`
	Output    OutputConfig    `yaml:"output"`
	Footnotes FootnotesConfig `yaml:"footnotes"`
	Assets    AssetsConfig    `yaml:"assets"`
}

// SourceConfig defines how manuscript files are located.
type SourceConfig struct {
	Extension string `yaml:"extension"` // appended to include names lacking it
}

// OutputConfig defines where and how chapter files are written.
type OutputConfig struct {
	DefaultDir  string `yaml:"defaultDir"`  // empty = next to the root source file
	FilePattern string `yaml:"filePattern"` // one integer verb, 1-based chapter number
	Standalone  bool   `yaml:"standalone"`  // wrap fragments in an XHTML document
	Language    string `yaml:"language"`    // xml:lang of standalone documents
}

// FootnotesConfig defines footnote placement.
type FootnotesConfig struct {
	Mode string `yaml:"mode"` // "chapter" or "inline"
}

// AssetsConfig defines the stylesheet and templates of standalone documents.
type AssetsConfig struct {
	BasePath string `yaml:"basePath"` // directory with styles/ and templates/ overrides
	Style    string `yaml:"style"`    // stylesheet name, empty = no stylesheet
}

// Validate checks field lengths and values. Called by LoadConfig, and
// available to callers that build a Config by hand.
func (c *Config) Validate() error {
	if err := validateFieldLength("source.extension", c.Source.Extension, MaxExtensionLength); err != nil {
		return err
	}
	if c.Source.Extension != "" {
		if err := fileutil.ValidateExtension(c.Source.Extension); err != nil {
			return fmt.Errorf("%w: source.extension: %w", ErrInvalidExtension, err)
		}
	}

	if err := validateFieldLength("output.defaultDir", c.Output.DefaultDir, MaxDirLength); err != nil {
		return err
	}
	if err := validateFieldLength("output.filePattern", c.Output.FilePattern, MaxPatternLength); err != nil {
		return err
	}
	if c.Output.FilePattern != "" {
		if err := ValidateFilePattern(c.Output.FilePattern); err != nil {
			return err
		}
	}
	if err := validateFieldLength("output.language", c.Output.Language, MaxLanguageLength); err != nil {
		return err
	}

	if _, err := render.ParseFootnoteMode(c.Footnotes.Mode); err != nil {
		return fmt.Errorf("footnotes.mode: %w", err)
	}

	if err := validateFieldLength("assets.basePath", c.Assets.BasePath, MaxDirLength); err != nil {
		return err
	}
	if err := validateFieldLength("assets.style", c.Assets.Style, MaxStyleLength); err != nil {
		return err
	}
	if c.Assets.Style != "" {
		if err := assets.ValidateAssetName(c.Assets.Style); err != nil {
			return fmt.Errorf("assets.style: %w", err)
		}
	}

	return nil
}

// FootnoteMode returns the parsed footnote mode. Validate must have passed.
func (c *Config) FootnoteMode() render.FootnoteMode {
	mode, err := render.ParseFootnoteMode(c.Footnotes.Mode)
	if err != nil {
		return render.FootnotesChapter
	}
	return mode
}

// ValidateFilePattern checks that pattern names a single file and holds
// exactly one integer verb for the chapter number.
func ValidateFilePattern(pattern string) error {
	if strings.ContainsAny(pattern, `/\`) {
		return fmt.Errorf("%w: %q must not contain path separators", ErrInvalidPattern, pattern)
	}
	if verbs := strings.Count(strings.ReplaceAll(pattern, "%%", ""), "%"); verbs != 1 {
		return fmt.Errorf("%w: %q must contain exactly one integer verb, found %d", ErrInvalidPattern, pattern, verbs)
	}
	if name := fmt.Sprintf(pattern, 1); strings.Contains(name, "%!") {
		return fmt.Errorf("%w: %q is not an integer verb", ErrInvalidPattern, pattern)
	}
	return nil
}

// validateFieldLength checks if a field exceeds its maximum allowed length.
func validateFieldLength(fieldName, value string, maxLength int) error {
	if len(value) > maxLength {
		return fmt.Errorf("%w: %s (%d chars, max %d)", ErrFieldTooLong, fieldName, len(value), maxLength)
	}
	return nil
}

// DefaultConfig returns the settings used when no config file is given.
func DefaultConfig() *Config {
	return &Config{
		Source: SourceConfig{Extension: fileutil.DefaultExtension},
		Output: OutputConfig{
			FilePattern: DefaultFilePattern,
			Language:    DefaultLanguage,
		},
		Footnotes: FootnotesConfig{Mode: string(render.FootnotesChapter)},
		Assets:    AssetsConfig{Style: assets.DefaultStyleName},
	}
}

// LoadConfig loads configuration from a file path or config name.
// If nameOrPath contains a path separator, it's treated as a file path.
// Otherwise, it's treated as a config name and searched in standard locations.
// Fields missing from the file keep their DefaultConfig values.
func LoadConfig(nameOrPath string) (*Config, error) {
	if nameOrPath == "" {
		return nil, ErrEmptyConfigName
	}

	configPath := nameOrPath
	if !isFilePath(nameOrPath) {
		var err error
		configPath, err = resolveConfigPath(nameOrPath)
		if err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(configPath) // #nosec G304 -- config path is user-provided
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := unmarshalStrict(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrConfigParse, configPath, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// isFilePath returns true if the string looks like a file path.
func isFilePath(s string) bool {
	return strings.ContainsAny(s, "/\\")
}

// SearchPaths returns the files tried, in order, for a config name:
// name.yaml and name.yml in the current directory, then in
// <user config dir>/go-tex2epub/.
func SearchPaths(name string) []string {
	extensions := []string{".yaml", ".yml"}
	paths := make([]string, 0, len(extensions)*2)
	for _, ext := range extensions {
		paths = append(paths, name+ext)
	}
	if userConfigDir, err := os.UserConfigDir(); err == nil {
		for _, ext := range extensions {
			paths = append(paths, filepath.Join(userConfigDir, appDir, name+ext))
		}
	}
	return paths
}

// resolveConfigPath returns the first existing file among SearchPaths(name).
func resolveConfigPath(name string) (string, error) {
	paths := SearchPaths(name)
	for _, p := range paths {
		if fileutil.FileExists(p) {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w: tried %s", ErrConfigNotFound, strings.Join(paths, ", "))
}
