// Package styles holds the terminal styles used by packmerge output.
//
// Styles are declared in the embedded styles.yaml with adaptive colors, so
// they follow light and dark terminal themes. Each Theme is bound to one
// writer and decides on its own whether that writer gets color.
package styles

import (
	_ "embed"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"
	"gopkg.in/yaml.v3"
)

// ColorDef is an adaptive color as written in styles.yaml
type ColorDef struct {
	Light string `yaml:"light"`
	Dark  string `yaml:"dark"`
}

// StyleDef is a style as written in styles.yaml
type StyleDef struct {
	Bold       bool   `yaml:"bold,omitempty"`
	Italic     bool   `yaml:"italic,omitempty"`
	Underline  bool   `yaml:"underline,omitempty"`
	Foreground string `yaml:"foreground,omitempty"`
	Background string `yaml:"background,omitempty"`
}

// Config is the parsed styles file
type Config struct {
	Colors map[string]ColorDef `yaml:"colors"`
	Styles map[string]StyleDef `yaml:"styles"`
}

// Style names
const (
	Header  = "Header"
	Path    = "Path"
	Option  = "Option"
	Root    = "Root"
	Digest  = "Digest"
	Prompt  = "Prompt"
	Success = "Success"
	Error   = "Error"
	Warning = "Warning"
	Muted   = "Muted"
	DryRun  = "DryRun"
)

//go:embed styles.yaml
var embeddedStyles []byte

// ColorMode controls whether output is colored.
type ColorMode string

const (
	ColorAuto   ColorMode = "auto"
	ColorAlways ColorMode = "always"
	ColorNever  ColorMode = "never"
)

// ParseColorMode accepts auto, always or never. An empty string means auto.
func ParseColorMode(s string) (ColorMode, error) {
	switch ColorMode(s) {
	case "", ColorAuto:
		return ColorAuto, nil
	case ColorAlways, ColorNever:
		return ColorMode(s), nil
	}
	return "", fmt.Errorf("unknown color mode %q (want auto, always or never)", s)
}

// Theme renders named styles for one writer.
type Theme struct {
	renderer *lipgloss.Renderer
	styles   map[string]lipgloss.Style
	colored  bool
}

// LoadConfig parses a styles file.
func LoadConfig(data []byte) (*Config, error) {
	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse styles data: %w", err)
	}
	return &config, nil
}

// NewTheme creates a theme for w using the embedded styles.
func NewTheme(w io.Writer, mode ColorMode) *Theme {
	config, err := LoadConfig(embeddedStyles)
	if err != nil {
		// The embedded file is part of the build; fall back to plain text.
		config = &Config{}
	}
	return NewThemeFromConfig(w, mode, config)
}

// NewThemeFromConfig creates a theme for w from an explicit style config.
func NewThemeFromConfig(w io.Writer, mode ColorMode, config *Config) *Theme {
	renderer := lipgloss.NewRenderer(w)
	colored := UseColor(w, mode)
	if !colored {
		renderer.SetColorProfile(termenv.Ascii)
	}

	colors := make(map[string]lipgloss.AdaptiveColor, len(config.Colors))
	for name, def := range config.Colors {
		colors[name] = lipgloss.AdaptiveColor{Light: def.Light, Dark: def.Dark}
	}

	styles := make(map[string]lipgloss.Style, len(config.Styles))
	for name, def := range config.Styles {
		styles[name] = buildStyle(renderer, colors, def)
	}

	return &Theme{renderer: renderer, styles: styles, colored: colored}
}

// UseColor decides whether w gets color. Auto mode requires a terminal and
// honors NO_COLOR.
func UseColor(w io.Writer, mode ColorMode) bool {
	switch mode {
	case ColorAlways:
		return true
	case ColorNever:
		return false
	}
	if termenv.EnvNoColor() {
		return false
	}
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// Colored reports whether the theme emits escape sequences.
func (t *Theme) Colored() bool {
	return t.colored
}

// Style returns the named style, or an unstyled one if it is not defined.
func (t *Theme) Style(name string) lipgloss.Style {
	if style, ok := t.styles[name]; ok {
		return style
	}
	return t.renderer.NewStyle()
}

// Render applies the named style to s.
func (t *Theme) Render(name, s string) string {
	if !t.colored {
		return s
	}
	return t.Style(name).Render(s)
}

// Has reports whether a style is defined.
func (t *Theme) Has(name string) bool {
	_, ok := t.styles[name]
	return ok
}

func buildStyle(r *lipgloss.Renderer, colors map[string]lipgloss.AdaptiveColor, def StyleDef) lipgloss.Style {
	style := r.NewStyle()

	if def.Bold {
		style = style.Bold(true)
	}
	if def.Italic {
		style = style.Italic(true)
	}
	if def.Underline {
		style = style.Underline(true)
	}

	if def.Foreground != "" {
		if color, ok := colors[def.Foreground]; ok {
			style = style.Foreground(color)
		}
	}
	if def.Background != "" {
		if color, ok := colors[def.Background]; ok {
			style = style.Background(color)
		}
	}

	return style
}
