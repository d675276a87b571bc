package theme

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

// RGB is a raw palette color
type RGB [3]uint8

// Theme maps color roles and grid glyphs for the TUI
type Theme struct {
	Palette []RGB
	Symbols Symbols
}

type Symbols struct {
	// Step grid (no cursor)
	StepEmpty    rune // · empty slot
	StepNote     rune // ● slot holds notes
	StepPlayhead rune // ▶ clock is here

	// Step grid (with cursor / selection)
	CursorEmpty rune // ○ selected empty slot
	CursorNote  rune // ◉ selected slot with notes
	SelectEmpty rune // ▫ in multi-select range, empty
	SelectNote  rune // ▪ in multi-select range, with notes

	Muted rune // M track muted marker
}

// Default is a built-in warm palette, dark to bright
func Default() *Theme {
	return &Theme{
		Palette: []RGB{
			{24, 12, 40},    // deep purple
			{52, 28, 74},    // dark purple
			{106, 58, 120},  // purple-magenta
			{180, 110, 170}, // pink-purple (readable)
			{226, 78, 160},  // vivid magenta
			{240, 120, 140}, // rose pink
			{246, 150, 98},  // soft red-orange
			{250, 190, 80},  // orange
			{252, 230, 110}, // bright yellow
		},
		Symbols: Symbols{
			StepEmpty:    '·',
			StepNote:     '●',
			StepPlayhead: '▶',
			CursorEmpty:  '○',
			CursorNote:   '◉',
			SelectEmpty:  '▫',
			SelectNote:   '▪',
			Muted:        'M',
		},
	}
}

// Color roles mapped to palette positions (0-1)
const (
	RoleBG      = 0.0
	RoleSurface = 0.1
	RoleMuted   = 0.25
	RoleFG      = 0.4
	RoleAccent  = 0.5
	RoleCursor  = 0.6
	RoleActive  = 0.7
	RoleWarning = 0.85
	RoleSuccess = 1.0
)

// Style helpers

func (t *Theme) FG() lipgloss.Color     { return t.Color(RoleFG) }
func (t *Theme) Accent() lipgloss.Color { return t.Color(RoleAccent) }
func (t *Theme) Muted() lipgloss.Color  { return t.Color(RoleMuted) }
func (t *Theme) Active() lipgloss.Color { return t.Color(RoleActive) }
func (t *Theme) Cursor() lipgloss.Color { return t.Color(RoleCursor) }
func (t *Theme) Warn() lipgloss.Color   { return t.Color(RoleWarning) }

// Color returns the lipgloss color for a normalized palette position 0-1
func (t *Theme) Color(norm float64) lipgloss.Color {
	c := t.Lookup(norm)
	return lipgloss.Color(fmt.Sprintf("#%02x%02x%02x", c[0], c[1], c[2]))
}

// Lookup returns the raw RGB nearest to a normalized position 0-1
func (t *Theme) Lookup(norm float64) RGB {
	if len(t.Palette) == 0 {
		return RGB{255, 255, 255}
	}
	if norm < 0 {
		norm = 0
	}
	if norm > 1 {
		norm = 1
	}
	idx := int(norm * float64(len(t.Palette)-1))
	return t.Palette[idx]
}
