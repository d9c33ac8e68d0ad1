package styles

import (
	"sort"

	"github.com/lucasb-eyer/go-colorful"
)

// Palette defines a minimal semantic theme palette as hex colors.
type Palette struct {
	Primary    string
	Secondary  string
	Foreground string
	Muted      string
	Background string
	Surface    string
	Success    string
	Warning    string
	Error      string
}

// DefaultTheme is the name of the default theme.
const DefaultTheme = "tokyo-night"

// themes holds the built-in named palettes.
var themes = map[string]Palette{
	"tokyo-night": {
		Primary:    "#7aa2f7",
		Secondary:  "#7dcfff",
		Foreground: "#c0caf5",
		Muted:      "#565f89",
		Background: "#1a1b26",
		Surface:    "#3b4261",
		Success:    "#9ece6a",
		Warning:    "#e0af68",
		Error:      "#f7768e",
	},
	"gruvbox": {
		Primary:    "#83a598",
		Secondary:  "#8ec07c",
		Foreground: "#ebdbb2",
		Muted:      "#665c54",
		Background: "#282828",
		Surface:    "#3c3836",
		Success:    "#b8bb26",
		Warning:    "#fabd2f",
		Error:      "#fb4934",
	},
	"catppuccin": {
		Primary:    "#89b4fa", // Blue
		Secondary:  "#94e2d5", // Teal
		Foreground: "#cdd6f4", // Text
		Muted:      "#6c7086", // Overlay0
		Background: "#1e1e2e", // Base
		Surface:    "#313244", // Surface0
		Success:    "#a6e3a1", // Green
		Warning:    "#f9e2af", // Yellow
		Error:      "#f38ba8", // Red
	},
	"kanagawa": {
		Primary:    "#7E9CD8", // crystalBlue
		Secondary:  "#7FB4CA", // springBlue
		Foreground: "#DCD7BA", // fujiWhite
		Muted:      "#727169", // fujiGray
		Background: "#1F1F28", // sumiInk1
		Surface:    "#2A2A37", // sumiInk3
		Success:    "#76946A", // autumnGreen
		Warning:    "#DCA561", // autumnYellow
		Error:      "#C34043", // autumnRed
	},
}

// ThemeNames returns sorted names of all built-in themes.
func ThemeNames() []string {
	names := make([]string, 0, len(themes))
	for name := range themes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// GetPalette returns the palette for the given theme name. "default" is an
// alias for DefaultTheme.
func GetPalette(name string) (Palette, bool) {
	if name == "" || name == "default" {
		name = DefaultTheme
	}
	p, ok := themes[name]
	return p, ok
}

// Dimmed returns the palette blended toward its background by amount (0-1).
// Unfocused sidebars use it so the assistant pane reads as primary.
func (p Palette) Dimmed(amount float64) Palette {
	bg, err := colorful.Hex(p.Background)
	if err != nil {
		return p
	}
	blend := func(hex string) string {
		c, err := colorful.Hex(hex)
		if err != nil {
			return hex
		}
		return c.BlendLab(bg, amount).Clamped().Hex()
	}
	return Palette{
		Primary:    blend(p.Primary),
		Secondary:  blend(p.Secondary),
		Foreground: blend(p.Foreground),
		Muted:      blend(p.Muted),
		Background: p.Background,
		Surface:    blend(p.Surface),
		Success:    blend(p.Success),
		Warning:    blend(p.Warning),
		Error:      blend(p.Error),
	}
}
