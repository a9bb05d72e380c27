// Package ui implements the larch terminal interface: a bubbletea model
// over the fstree focus/iterator core, with connector rendering, fuzzy
// search, previews and clipboard yank layered on top.
//
// Discipline: the visible entry list is a transient flattening of the
// tree. Every focus-changing or order-changing operation invalidates it,
// so every such operation ends in rebuild() — entries never survive a
// mutation.
package ui

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vanderheijden86/larch/pkg/config"
	"github.com/vanderheijden86/larch/pkg/debug"
	"github.com/vanderheijden86/larch/pkg/fstree"
)

// unboundedDepth marks the expand-everything depth setting.
const unboundedDepth = -1

// maxBoundedDepth keeps +/- from walking the setting into absurdity.
const maxBoundedDepth = 16

type focus int

const (
	focusTree focus = iota
	focusSearch
	focusPreview
	focusHelp
)

// diskUsageMsg delivers an asynchronous DiskUsage result.
type diskUsageMsg struct {
	path  string
	total int64
	err   error
}

// previewMsg delivers rendered preview content.
type previewMsg struct {
	title   string
	content string
	err     error
}

// Model is the bubbletea model for the navigator.
type Model struct {
	tree *fstree.Tree
	cfg  config.Config

	theme   Theme
	focused focus
	ready   bool
	width   int
	height  int

	// Flattened view state
	entries  []*fstree.Entry
	prefixes []string // connector prefixes parallel to entries
	cursor   int
	offset   int

	// View policy
	depth      int // unboundedDepth or a bound >= 1
	showHidden bool

	// Search state
	searchInput    textinput.Model
	searchQuery    string
	searchMatches  []int // indices into entries, best score first
	searchMatchIdx int

	// Preview state
	preview      viewport.Model
	previewTitle string

	// Transient status line; cleared on the next action
	status string
}

// NewModel builds the model from an initialized tree and loaded config.
func NewModel(tree *fstree.Tree, cfg config.Config) Model {
	theme := DefaultTheme(lipgloss.DefaultRenderer())

	ti := textinput.New()
	ti.Prompt = "/"
	ti.CharLimit = 128

	// A negative configured depth means expand everything, matching the
	// --depth flag and print mode.
	depth := cfg.UI.MaxDepth
	if depth < 0 {
		depth = unboundedDepth
	} else if depth == 0 {
		depth = 1
	}

	tree.Sort(cfg.SortField(), cfg.SortDirection())

	m := Model{
		tree:        tree,
		cfg:         cfg,
		theme:       theme,
		depth:       depth,
		showHidden:  cfg.UI.ShowHidden,
		searchInput: ti,
	}
	m.rebuild()
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// policy maps the current depth setting to an iterator policy.
func (m Model) policy() fstree.DepthPolicy {
	if m.depth == unboundedDepth {
		return fstree.ExpandAll()
	}
	return fstree.ExpandToDepth(m.depth)
}

// rebuild re-flattens the tree into the visible entry list. Called after
// every mutation; cursor and search state are carried over best-effort by
// node identity.
func (m *Model) rebuild() {
	defer debug.LogEnterExit("ui.rebuild")()

	var selected *fstree.Node
	if e := m.selected(); e != nil {
		selected = e.Node
	}

	it := m.tree.Iterate(m.policy(), m.showHidden)
	m.entries = it.Collect()
	if err := it.Err(); err != nil {
		m.status = statusForErr(err)
	}
	m.prefixes = buildPrefixes(m.entries)

	m.cursor = 0
	for i, e := range m.entries {
		e.Selected = false
		if selected != nil && e.Node == selected {
			m.cursor = i
		}
	}
	m.applySearch()
	m.clampScroll()
}

// selected returns the entry under the cursor, nil on an empty view.
func (m Model) selected() *fstree.Entry {
	if m.cursor < 0 || m.cursor >= len(m.entries) {
		return nil
	}
	return m.entries[m.cursor]
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.preview.Width = msg.Width - 4
		m.preview.Height = msg.Height - 4
		m.ready = true
		m.clampScroll()
		return m, nil

	case diskUsageMsg:
		if msg.err != nil {
			m.status = fmt.Sprintf("du %s: %s", msg.path, statusForErr(msg.err))
		} else {
			m.status = fmt.Sprintf("%s: %s", msg.path, FormatSize(msg.total))
		}
		return m, nil

	case previewMsg:
		if msg.err != nil {
			m.status = statusForErr(msg.err)
			return m, nil
		}
		m.previewTitle = msg.title
		m.preview.SetContent(msg.content)
		m.preview.GotoTop()
		m.focused = focusPreview
		return m, nil

	case tea.KeyMsg:
		switch m.focused {
		case focusHelp:
			m.focused = focusTree
			return m, nil
		case focusPreview:
			return m.handlePreviewKeys(msg)
		case focusSearch:
			return m.handleSearchKeys(msg)
		default:
			return m.handleTreeKeys(msg)
		}
	}
	return m, nil
}

func (m Model) handlePreviewKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "esc", "p":
		m.focused = focusTree
		return m, nil
	case "ctrl+c":
		return m, tea.Quit
	}
	var cmd tea.Cmd
	m.preview, cmd = m.preview.Update(msg)
	return m, cmd
}

func (m Model) handleSearchKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.searchInput.Reset()
		m.searchInput.Blur()
		m.searchQuery = ""
		m.searchMatches = nil
		m.focused = focusTree
		return m, nil
	case "enter":
		m.searchInput.Blur()
		m.focused = focusTree
		m.jumpToMatch(0)
		return m, nil
	case "ctrl+c":
		return m, tea.Quit
	}
	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)
	m.searchQuery = m.searchInput.Value()
	m.applySearch()
	m.jumpToMatch(0)
	return m, cmd
}

func (m Model) handleTreeKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.status = ""

	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit

	case "?":
		m.focused = focusHelp

	case "j", "down":
		m.moveCursor(1)
	case "k", "up":
		m.moveCursor(-1)
	case "g", "home":
		m.cursor = 0
		m.clampScroll()
	case "G", "end":
		m.cursor = len(m.entries) - 1
		m.clampScroll()
	case "ctrl+d", "pgdown":
		m.moveCursor(m.pageSize())
	case "ctrl+u", "pgup":
		m.moveCursor(-m.pageSize())

	case "enter", "l", "right":
		return m.descendSelected()

	case "h", "backspace", "left":
		return m.ascend()

	case ".":
		m.showHidden = !m.showHidden
		m.rebuild()

	case "s":
		field := (m.tree.SortField() + 1) % fstree.NumSortFields
		m.tree.Sort(field, m.tree.SortDirection())
		m.rebuild()
		m.status = "sort: " + field.String()
	case "S":
		dir := fstree.SortAscending
		if m.tree.SortDirection() == fstree.SortAscending {
			dir = fstree.SortDescending
		}
		m.tree.Sort(m.tree.SortField(), dir)
		m.rebuild()
		m.status = "sort: " + m.tree.SortField().String() + " " + dir.String()

	case "+", "=":
		if m.depth != unboundedDepth && m.depth < maxBoundedDepth {
			m.depth++
			m.rebuild()
		}
	case "-", "_":
		if m.depth == unboundedDepth {
			m.depth = maxBoundedDepth
		}
		if m.depth > 1 {
			m.depth--
			m.rebuild()
		}
	case "X":
		m.depth = unboundedDepth
		m.rebuild()
	case "Z":
		m.depth = 1
		m.rebuild()

	case "/":
		m.searchInput.Reset()
		m.searchInput.Focus()
		m.focused = focusSearch
	case "n":
		m.jumpToMatch(m.searchMatchIdx + 1)
	case "N":
		m.jumpToMatch(m.searchMatchIdx - 1)

	case "y":
		if e := m.selected(); e != nil {
			if err := clipboard.WriteAll(e.Node.Path()); err != nil {
				m.status = "clipboard unavailable"
			} else {
				m.status = "yanked " + e.Node.Path()
			}
		}

	case "p":
		if e := m.selected(); e != nil && !e.Node.IsDir() {
			return m, loadPreview(e.Node.Path(), m.width-6)
		}

	case "u":
		if e := m.selected(); e != nil && e.Node.IsDir() {
			path := e.Node.Path()
			m.status = "measuring " + path + "…"
			return m, func() tea.Msg {
				ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
				defer cancel()
				total, err := fstree.DiskUsage(ctx, path)
				return diskUsageMsg{path: path, total: total, err: err}
			}
		}

	case "1", "2", "3", "4", "5", "6", "7", "8", "9":
		n, _ := strconv.Atoi(msg.String())
		return m.jumpToBookmark(n)
	}

	return m, nil
}

// descendSelected moves focus onto the entry under the cursor. A file is
// previewed instead; an unreadable directory is refused before any tree
// state changes.
func (m Model) descendSelected() (tea.Model, tea.Cmd) {
	e := m.selected()
	if e == nil || e.Node == m.tree.Root() {
		return m, nil
	}
	if !e.Node.IsDir() {
		return m, loadPreview(e.Node.Path(), m.width-6)
	}
	if !e.Node.Enterable() {
		m.status = "permission denied: " + e.Node.Name()
		return m, nil
	}
	if _, err := m.tree.Descend(e.Node); err != nil {
		m.status = statusForErr(err)
		return m, nil
	}
	m.cursor = 0
	m.rebuild()
	return m, nil
}

// ascend moves focus to the parent directory. At the filesystem root this
// reports and stays put.
func (m Model) ascend() (tea.Model, tea.Cmd) {
	prev := m.tree.Root()
	if _, err := m.tree.Ascend(); err != nil {
		if errors.Is(err, fstree.ErrNoParent) {
			m.status = "already at filesystem root"
		} else {
			m.status = statusForErr(err)
		}
		return m, nil
	}
	m.rebuild()
	// Keep the old focus under the cursor when it was adopted.
	for i, e := range m.entries {
		if e.Node == prev {
			m.cursor = i
			break
		}
	}
	m.clampScroll()
	return m, nil
}

// jumpToBookmark replaces the whole tree with the configured path.
func (m Model) jumpToBookmark(n int) (tea.Model, tea.Cmd) {
	path := m.cfg.Bookmark(n)
	if path == "" {
		m.status = fmt.Sprintf("bookmark %d not set", n)
		return m, nil
	}
	node, err := fstree.NewNode(path)
	if err != nil {
		m.status = statusForErr(err)
		return m, nil
	}
	if !node.IsDir() {
		m.status = path + ": not a directory"
		return m, nil
	}
	m.tree.ReplaceRoot(node)
	m.cursor = 0
	m.rebuild()
	m.status = "jumped to " + path
	return m, nil
}

func (m *Model) moveCursor(delta int) {
	m.cursor += delta
	m.clampScroll()
}

// pageSize is half the body height, vim ctrl+d style.
func (m Model) pageSize() int {
	n := m.bodyHeight() / 2
	if n < 1 {
		n = 1
	}
	return n
}

// bodyHeight is the row budget between header and status bar.
func (m Model) bodyHeight() int {
	h := m.height - 2
	if h < 1 {
		h = 1
	}
	return h
}

// clampScroll keeps the cursor in range and visible.
func (m *Model) clampScroll() {
	if m.cursor >= len(m.entries) {
		m.cursor = len(m.entries) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
	body := m.bodyHeight()
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+body {
		m.offset = m.cursor - body + 1
	}
	if m.offset < 0 {
		m.offset = 0
	}
}

// statusForErr maps core errors onto short status-bar phrasing.
func statusForErr(err error) string {
	switch {
	case errors.Is(err, fstree.ErrAccessDenied):
		return "permission denied"
	case errors.Is(err, fstree.ErrNotFound):
		return "no longer exists"
	case errors.Is(err, fstree.ErrNotInTree):
		return "not in the current tree"
	case errors.Is(err, fstree.ErrNoParent):
		return "already at filesystem root"
	default:
		return err.Error()
	}
}
