package panelkit

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Theme provides the named styles widgets render with. Highlight runs in
// panel content refer to these entries by name.
type Theme struct {
	Base        Style // default text style
	Muted       Style // de-emphasized text, placeholders
	Accent      Style // highlighted/important text
	Error       Style // error messages
	Border      Style // border/divider style
	Selection   Style // selected option rows in overlays
	FieldActive Style // materialized field background
}

// Lookup resolves a style name from content highlights. Unknown names fall
// back to Base so a typo degrades to plain text instead of failing.
func (t *Theme) Lookup(name string) Style {
	switch name {
	case "base", "":
		return t.Base
	case "muted", "hint":
		return t.Muted
	case "accent", "title":
		return t.Accent
	case "error":
		return t.Error
	case "border":
		return t.Border
	case "selection":
		return t.Selection
	case "field":
		return t.FieldActive
	}
	return t.Base
}

// Pre-defined themes

// ThemeDark is a dark theme with light text on dark background.
var ThemeDark = Theme{
	Base:        Style{FG: White},
	Muted:       Style{FG: BrightBlack},
	Accent:      Style{FG: BrightCyan},
	Error:       Style{FG: BrightRed},
	Border:      Style{FG: BrightBlack},
	Selection:   Style{FG: Black, BG: BrightCyan},
	FieldActive: Style{FG: White, Attr: AttrBold},
}

// ThemeLight is a light theme with dark text on light background.
var ThemeLight = Theme{
	Base:        Style{FG: Black},
	Muted:       Style{FG: BrightBlack},
	Accent:      Style{FG: Blue},
	Error:       Style{FG: Red},
	Border:      Style{FG: White},
	Selection:   Style{FG: White, BG: Blue},
	FieldActive: Style{FG: Black, Attr: AttrBold},
}

// ThemeMonochrome is a minimal theme using only attributes.
var ThemeMonochrome = Theme{
	Base:        Style{},
	Muted:       Style{Attr: AttrDim},
	Accent:      Style{Attr: AttrBold},
	Error:       Style{Attr: AttrBold | AttrUnderline},
	Border:      Style{Attr: AttrDim},
	Selection:   Style{Attr: AttrInverse},
	FieldActive: Style{Attr: AttrBold},
}

// themeFile is the YAML shape for theme overrides. Every entry is
// optional; absent entries keep the base theme's style.
type themeFile struct {
	Base        *styleSpec `yaml:"base"`
	Muted       *styleSpec `yaml:"muted"`
	Accent      *styleSpec `yaml:"accent"`
	Error       *styleSpec `yaml:"error"`
	Border      *styleSpec `yaml:"border"`
	Selection   *styleSpec `yaml:"selection"`
	FieldActive *styleSpec `yaml:"field_active"`
}

type styleSpec struct {
	FG        string `yaml:"fg"`
	BG        string `yaml:"bg"`
	Bold      bool   `yaml:"bold"`
	Dim       bool   `yaml:"dim"`
	Italic    bool   `yaml:"italic"`
	Underline bool   `yaml:"underline"`
	Inverse   bool   `yaml:"inverse"`
}

// LoadTheme reads YAML theme overrides from path, applied over base.
func LoadTheme(path string, base Theme) (Theme, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return base, fmt.Errorf("read theme: %w", err)
	}
	return ParseTheme(data, base)
}

// ParseTheme applies YAML theme overrides to base.
func ParseTheme(data []byte, base Theme) (Theme, error) {
	var f themeFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return base, fmt.Errorf("parse theme: %w", err)
	}

	apply := func(dst *Style, spec *styleSpec) error {
		if spec == nil {
			return nil
		}
		s, err := spec.style()
		if err != nil {
			return err
		}
		*dst = s
		return nil
	}

	t := base
	for _, entry := range []struct {
		dst  *Style
		spec *styleSpec
	}{
		{&t.Base, f.Base},
		{&t.Muted, f.Muted},
		{&t.Accent, f.Accent},
		{&t.Error, f.Error},
		{&t.Border, f.Border},
		{&t.Selection, f.Selection},
		{&t.FieldActive, f.FieldActive},
	} {
		if err := apply(entry.dst, entry.spec); err != nil {
			return base, err
		}
	}
	return t, nil
}

func (s *styleSpec) style() (Style, error) {
	st := Style{}
	var err error
	if st.FG, err = parseColor(s.FG); err != nil {
		return st, err
	}
	if st.BG, err = parseColor(s.BG); err != nil {
		return st, err
	}
	if s.Bold {
		st.Attr = st.Attr.With(AttrBold)
	}
	if s.Dim {
		st.Attr = st.Attr.With(AttrDim)
	}
	if s.Italic {
		st.Attr = st.Attr.With(AttrItalic)
	}
	if s.Underline {
		st.Attr = st.Attr.With(AttrUnderline)
	}
	if s.Inverse {
		st.Attr = st.Attr.With(AttrInverse)
	}
	return st, nil
}

// namedColors maps the 16 basic color names accepted in theme files.
var namedColors = map[string]Color{
	"black":          Black,
	"red":            Red,
	"green":          Green,
	"yellow":         Yellow,
	"blue":           Blue,
	"magenta":        Magenta,
	"cyan":           Cyan,
	"white":          White,
	"bright-black":   BrightBlack,
	"bright-red":     BrightRed,
	"bright-green":   BrightGreen,
	"bright-yellow":  BrightYellow,
	"bright-blue":    BrightBlue,
	"bright-magenta": BrightMagenta,
	"bright-cyan":    BrightCyan,
	"bright-white":   BrightWhite,
}

// parseColor accepts "", a basic color name, "#rrggbb", or a 256-palette
// index.
func parseColor(s string) (Color, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	if s == "" || s == "default" {
		return DefaultColor(), nil
	}
	if c, ok := namedColors[s]; ok {
		return c, nil
	}
	if strings.HasPrefix(s, "#") {
		hex := strings.TrimPrefix(s, "#")
		if len(hex) != 6 {
			return Color{}, fmt.Errorf("bad hex color %q", s)
		}
		v, err := strconv.ParseUint(hex, 16, 32)
		if err != nil {
			return Color{}, fmt.Errorf("bad hex color %q: %w", s, err)
		}
		return Hex(uint32(v)), nil
	}
	if idx, err := strconv.ParseUint(s, 10, 8); err == nil {
		return PaletteColor(uint8(idx)), nil
	}
	return Color{}, fmt.Errorf("unknown color %q", s)
}
