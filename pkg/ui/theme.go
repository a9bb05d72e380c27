package ui

import (
	"os"

	"github.com/charmbracelet/colorprofile"
	"github.com/charmbracelet/lipgloss"

	"github.com/vanderheijden86/larch/pkg/fstree"
)

// TermProfile holds the detected terminal color profile. Computed once at
// package init so every style helper can branch without re-detecting.
var TermProfile colorprofile.Profile

func init() {
	TermProfile = colorprofile.Detect(os.Stdout, os.Environ())
}

// ThemeFg returns the given hex color for ANSI256+ terminals and a safe
// ANSI white (color 7) for 16-color or lower terminals.
func ThemeFg(hex string) lipgloss.TerminalColor {
	if TermProfile < colorprofile.ANSI256 {
		return lipgloss.ANSIColor(7)
	}
	return lipgloss.Color(hex)
}

type Theme struct {
	Renderer *lipgloss.Renderer

	// Colors
	Primary   lipgloss.AdaptiveColor
	Secondary lipgloss.AdaptiveColor
	Subtext   lipgloss.AdaptiveColor

	// Entry kinds
	Directory lipgloss.AdaptiveColor
	File      lipgloss.AdaptiveColor
	Symlink   lipgloss.AdaptiveColor
	Special   lipgloss.AdaptiveColor

	// UI elements
	Border    lipgloss.AdaptiveColor
	Highlight lipgloss.AdaptiveColor
	Muted     lipgloss.AdaptiveColor

	// Styles
	Base     lipgloss.Style
	Selected lipgloss.Style
	Header   lipgloss.Style

	// Pre-computed row styles, created once at startup instead of
	// per-frame
	Connector     lipgloss.Style
	DirName       lipgloss.Style
	FileName      lipgloss.Style
	SymlinkName   lipgloss.Style
	HiddenName    lipgloss.Style
	MutedText     lipgloss.Style
	SecondaryText lipgloss.Style
	PrimaryBold   lipgloss.Style
	StatusBar     lipgloss.Style
	SearchMatch   lipgloss.Style
	SearchCurrent lipgloss.Style
}

// DefaultTheme returns the standard Dracula-inspired theme (adaptive).
func DefaultTheme(r *lipgloss.Renderer) Theme {
	t := Theme{
		Renderer: r,

		Primary:   lipgloss.AdaptiveColor{Light: "#6B47D9", Dark: "#BD93F9"}, // Purple
		Secondary: lipgloss.AdaptiveColor{Light: "#555555", Dark: "#6272A4"}, // Gray
		Subtext:   lipgloss.AdaptiveColor{Light: "#666666", Dark: "#BFBFBF"}, // Dim

		Directory: lipgloss.AdaptiveColor{Light: "#0066CC", Dark: "#6699FF"}, // Blue
		File:      lipgloss.AdaptiveColor{Light: "#333333", Dark: "#E8E8E8"},
		Symlink:   lipgloss.AdaptiveColor{Light: "#008080", Dark: "#00CED1"}, // Teal
		Special:   lipgloss.AdaptiveColor{Light: "#B06800", Dark: "#FFB86C"}, // Orange

		Border:    lipgloss.AdaptiveColor{Light: "#AAAAAA", Dark: "#44475A"},
		Highlight: lipgloss.AdaptiveColor{Light: "#E0E0E0", Dark: "#44475A"},
		Muted:     lipgloss.AdaptiveColor{Light: "#555555", Dark: "#6272A4"},
	}

	t.Base = r.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#000000", Dark: "#F8F8F2"})

	t.Selected = r.NewStyle().
		Background(t.Highlight).
		Bold(true)

	t.Header = r.NewStyle().
		Background(t.Primary).
		Foreground(lipgloss.AdaptiveColor{Light: "#FFFFFF", Dark: "#282A36"}).
		Bold(true).
		Padding(0, 1)

	t.Connector = r.NewStyle().Foreground(t.Muted)
	t.DirName = r.NewStyle().Foreground(t.Directory).Bold(true)
	t.FileName = r.NewStyle().Foreground(t.File)
	t.SymlinkName = r.NewStyle().Foreground(t.Symlink)
	t.HiddenName = r.NewStyle().Foreground(t.Muted)
	t.MutedText = r.NewStyle().Foreground(t.Muted)
	t.SecondaryText = r.NewStyle().Foreground(t.Secondary)
	t.PrimaryBold = r.NewStyle().Foreground(t.Primary).Bold(true)
	t.StatusBar = r.NewStyle().Foreground(t.Subtext)
	t.SearchMatch = r.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#B06800", Dark: "#FFB86C"})
	t.SearchCurrent = r.NewStyle().
		Foreground(lipgloss.AdaptiveColor{Light: "#7A5600", Dark: "#F1FA8C"}).
		Bold(true)

	return t
}

// NameStyle picks the row style for an entry's name.
func (t Theme) NameStyle(n *fstree.Node) lipgloss.Style {
	if n.Hidden() {
		return t.HiddenName
	}
	switch n.Kind() {
	case fstree.KindDir:
		return t.DirName
	case fstree.KindSymlink:
		return t.SymlinkName
	case fstree.KindOther:
		return t.MutedText
	default:
		return t.FileName
	}
}

// KindGlyph returns the one-character type column, ls style.
func (t Theme) KindGlyph(k fstree.Kind) (string, lipgloss.AdaptiveColor) {
	switch k {
	case fstree.KindDir:
		return "d", t.Directory
	case fstree.KindSymlink:
		return "l", t.Symlink
	case fstree.KindFile:
		return "-", t.Muted
	default:
		return "?", t.Special
	}
}

// TestTheme returns a theme suitable for use in tests.
func TestTheme() Theme {
	return DefaultTheme(lipgloss.NewRenderer(os.Stdout))
}
