package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vanderheijden86/larch/pkg/fstree"
)

// buildPrefixes computes the connector prefix for every entry in emission
// order. A single pass suffices: openAtDepth tracks, per nesting level,
// whether the branch above is still open (more siblings to come), which is
// exactly what the vertical continuation lines encode.
func buildPrefixes(entries []*fstree.Entry) []string {
	prefixes := make([]string, len(entries))
	var openAtDepth []bool

	for i, e := range entries {
		if e.Depth == 0 {
			prefixes[i] = ""
			continue
		}
		for len(openAtDepth) <= e.Depth {
			openAtDepth = append(openAtDepth, false)
		}

		var b strings.Builder
		for level := 1; level < e.Depth; level++ {
			if openAtDepth[level] {
				b.WriteString("│   ")
			} else {
				b.WriteString("    ")
			}
		}
		if e.Last {
			b.WriteString("└── ")
		} else {
			b.WriteString("├── ")
		}
		openAtDepth[e.Depth] = !e.Last
		prefixes[i] = b.String()
	}
	return prefixes
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "loading…"
	}

	switch m.focused {
	case focusHelp:
		return m.renderHelp()
	case focusPreview:
		return m.renderPreview()
	}

	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")

	body := m.bodyHeight()
	end := m.offset + body
	if end > len(m.entries) {
		end = len(m.entries)
	}
	for i := m.offset; i < end; i++ {
		e := m.entries[i]
		e.Selected = i == m.cursor
		b.WriteString(m.renderRow(i))
		b.WriteString("\n")
	}
	for i := end - m.offset; i < body; i++ {
		b.WriteString("\n")
	}

	b.WriteString(m.renderStatusBar())
	return b.String()
}

func (m Model) renderHeader() string {
	root := m.tree.Root()
	left := m.theme.Header.Render(" larch ") + " " + m.theme.PrimaryBold.Render(root.Path())

	mods := []string{
		"sort:" + m.tree.SortField().String() + ":" + m.tree.SortDirection().String(),
		m.policy().String(),
	}
	if m.showHidden {
		mods = append(mods, "dotfiles")
	}
	right := m.theme.MutedText.Render(strings.Join(mods, "  "))

	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right) - 1
	if gap < 1 {
		gap = 1
	}
	return left + strings.Repeat(" ", gap) + right
}

// renderRow draws one visible line: connector prefix, kind glyph, name,
// then right-aligned size and age columns when the terminal is wide
// enough.
func (m Model) renderRow(i int) string {
	e := m.entries[i]
	n := e.Node
	r := m.theme.Renderer

	width := m.width
	if width <= 0 {
		width = 80
	}
	width-- // avoid wrapping on the exact edge

	var left strings.Builder

	prefix := m.prefixes[i]
	left.WriteString(m.theme.Connector.Render(prefix))
	prefixWidth := lipgloss.Width(prefix)

	glyph, glyphColor := m.theme.KindGlyph(n.Kind())
	left.WriteString(r.NewStyle().Foreground(glyphColor).Render(glyph))
	left.WriteString(" ")

	name := n.Name()
	if n.IsDir() {
		name += "/"
	}

	// Right side: size and age columns
	rightWidth := 0
	var rightParts []string
	if width > 50 && !n.IsDir() {
		rightParts = append(rightParts, m.theme.SecondaryText.Render(fmt.Sprintf("%7s", FormatSize(n.Size()))))
		rightWidth += 8
	}
	if width > 70 {
		rightParts = append(rightParts, m.theme.MutedText.Render(fmt.Sprintf("%8s", FormatTimeRel(n.ModTime()))))
		rightWidth += 9
	}

	nameWidth := width - prefixWidth - 2 - rightWidth - 2
	if nameWidth < 5 {
		nameWidth = 5
	}
	name = truncateRunesHelper(name, nameWidth, "…")

	style := m.nameStyleFor(i)
	left.WriteString(style.Render(name))

	rightSide := strings.Join(rightParts, " ")
	padding := width - lipgloss.Width(left.String()) - lipgloss.Width(rightSide)
	if padding < 0 {
		padding = 0
	}
	row := left.String() + strings.Repeat(" ", padding) + rightSide

	if e.Selected {
		return m.theme.Selected.Render(row)
	}
	return row
}

// nameStyleFor layers search-match highlighting over the kind style.
func (m Model) nameStyleFor(i int) lipgloss.Style {
	e := m.entries[i]
	if m.searchQuery != "" {
		if m.isCurrentMatch(i) {
			return m.theme.SearchCurrent
		}
		if m.isMatch(i) {
			return m.theme.SearchMatch
		}
	}
	return m.theme.NameStyle(e.Node)
}

func (m Model) renderStatusBar() string {
	if m.focused == focusSearch {
		line := m.searchInput.View()
		if len(m.searchMatches) > 0 {
			line += m.theme.MutedText.Render(fmt.Sprintf("  %d matches", len(m.searchMatches)))
		}
		return line
	}
	if m.status != "" {
		return m.theme.StatusBar.Render(m.status)
	}
	pos := ""
	if len(m.entries) > 0 {
		pos = fmt.Sprintf("%d/%d", m.cursor+1, len(m.entries))
	}
	if m.searchQuery != "" && len(m.searchMatches) > 0 {
		pos += fmt.Sprintf("  match %d/%d", m.searchMatchIdx+1, len(m.searchMatches))
	}
	help := "j/k move  enter descend  h up  . dotfiles  s sort  / search  ? help  q quit"
	gap := m.width - lipgloss.Width(pos) - lipgloss.Width(help) - 1
	if gap < 2 {
		return m.theme.StatusBar.Render(pos)
	}
	return m.theme.StatusBar.Render(pos + strings.Repeat(" ", gap) + help)
}

func (m Model) renderPreview() string {
	title := m.theme.Header.Render(" " + m.previewTitle + " ")
	hint := m.theme.MutedText.Render("j/k scroll  q close")
	return title + "\n" + m.preview.View() + "\n" + hint
}

var helpRows = [][2]string{
	{"j/k, arrows", "move cursor"},
	{"g / G", "jump to top / bottom"},
	{"ctrl+d / ctrl+u", "half-page down / up"},
	{"enter, l", "descend into directory (preview a file)"},
	{"h, backspace", "ascend to parent"},
	{".", "toggle dotfiles"},
	{"s / S", "cycle sort field / flip direction"},
	{"+ / -", "expand one more / one less level"},
	{"X / Z", "expand everything / collapse to one level"},
	{"/", "fuzzy search, n/N to cycle matches"},
	{"y", "yank path to clipboard"},
	{"p", "preview file (markdown rendered)"},
	{"u", "disk usage of selected directory"},
	{"1-9", "jump to bookmarked directory"},
	{"q", "quit"},
}

func (m Model) renderHelp() string {
	var b strings.Builder
	b.WriteString(m.theme.Header.Render(" larch keys "))
	b.WriteString("\n\n")
	for _, row := range helpRows {
		b.WriteString("  ")
		b.WriteString(m.theme.PrimaryBold.Render(padRight(row[0], 18)))
		b.WriteString(m.theme.StatusBar.Render(row[1]))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(m.theme.MutedText.Render("  any key to close"))
	return b.String()
}
