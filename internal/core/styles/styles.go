// Package styles provides the lipgloss styles used by the sidebar renderer.
package styles

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// dimAmount is how far unfocused colors are pulled toward the background.
const dimAmount = 0.45

// Styles is one complete set of sidebar styles.
type Styles struct {
	Header       lipgloss.Style
	HeaderCount  lipgloss.Style
	SectionTitle lipgloss.Style
	Active       lipgloss.Style
	ActiveIdle   lipgloss.Style
	Elapsed      lipgloss.Style
	Done         lipgloss.Style
	Todo         lipgloss.Style
	TodoDone     lipgloss.Style
	TodoCurrent  lipgloss.Style
	Number       lipgloss.Style
	Item         lipgloss.Style
	Selected     lipgloss.Style
	Recommended  lipgloss.Style
	Clarified    lipgloss.Style
	Priority     lipgloss.Style
	InputTitle   lipgloss.Style
	Input        lipgloss.Style
	Hint         lipgloss.Style
	Flash        lipgloss.Style
	Metrics      lipgloss.Style
	MetricsWarn  lipgloss.Style
	Muted        lipgloss.Style
}

// Theme pairs the focused styles with their dimmed counterparts.
type Theme struct {
	Name      string
	Focused   Styles
	Unfocused Styles
}

// For returns the styles for the given focus state.
func (t Theme) For(focused bool) Styles {
	if focused {
		return t.Focused
	}
	return t.Unfocused
}

// NewRenderer returns a lipgloss renderer writing to w. A nil profile keeps
// termenv's detection for w.
func NewRenderer(w io.Writer, profile *termenv.Profile) *lipgloss.Renderer {
	r := lipgloss.NewRenderer(w)
	if profile != nil {
		r.SetColorProfile(*profile)
	}
	return r
}

// NewTheme builds the named theme for renderer r.
func NewTheme(name string, r *lipgloss.Renderer) (Theme, error) {
	p, ok := GetPalette(name)
	if !ok {
		return Theme{}, fmt.Errorf("unknown theme %q (available: %v)", name, ThemeNames())
	}
	return Theme{
		Name:      name,
		Focused:   New(p, r),
		Unfocused: New(p.Dimmed(dimAmount), r),
	}, nil
}

// New builds Styles from a palette.
func New(p Palette, r *lipgloss.Renderer) Styles {
	c := func(hex string) lipgloss.Color { return lipgloss.Color(hex) }
	s := r.NewStyle

	return Styles{
		Header:       s().Bold(true).Foreground(c(p.Primary)),
		HeaderCount:  s().Foreground(c(p.Muted)),
		SectionTitle: s().Bold(true).Foreground(c(p.Secondary)),
		Active:       s().Foreground(c(p.Warning)),
		ActiveIdle:   s().Foreground(c(p.Muted)).Italic(true),
		Elapsed:      s().Foreground(c(p.Muted)),
		Done:         s().Foreground(c(p.Success)),
		Todo:         s().Foreground(c(p.Foreground)),
		TodoDone:     s().Foreground(c(p.Muted)).Strikethrough(true),
		TodoCurrent:  s().Foreground(c(p.Warning)),
		Number:       s().Foreground(c(p.Muted)),
		Item:         s().Foreground(c(p.Foreground)),
		Selected:     s().Foreground(c(p.Foreground)).Background(c(p.Surface)).Bold(true),
		Recommended:  s().Foreground(c(p.Warning)),
		Clarified:    s().Foreground(c(p.Success)),
		Priority:     s().Foreground(c(p.Secondary)),
		InputTitle:   s().Bold(true).Foreground(c(p.Primary)),
		Input:        s().Foreground(c(p.Foreground)),
		Hint:         s().Foreground(c(p.Muted)),
		Flash:        s().Foreground(c(p.Error)),
		Metrics:      s().Foreground(c(p.Muted)),
		MetricsWarn:  s().Foreground(c(p.Warning)),
		Muted:        s().Foreground(c(p.Muted)),
	}
}
