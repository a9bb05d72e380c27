package ui

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
)

// previewCap bounds how much of a file the preview reads. Large files
// are truncated, not refused.
const previewCap = 256 * 1024

// loadPreview reads a file off the UI goroutine and renders it for the
// preview pane. Markdown gets the full glamour treatment; anything else
// is shown as-is when it looks like text.
func loadPreview(path string, width int) tea.Cmd {
	return func() tea.Msg {
		f, err := os.Open(path)
		if err != nil {
			return previewMsg{err: err}
		}
		defer f.Close()

		// One byte past the cap distinguishes an exactly-cap-sized file
		// from a genuinely longer one.
		raw, err := io.ReadAll(io.LimitReader(f, previewCap+1))
		if err != nil {
			return previewMsg{err: err}
		}
		truncated := len(raw) > previewCap
		if truncated {
			raw = raw[:previewCap]
		}

		title := filepath.Base(path)
		if !looksLikeText(raw) {
			return previewMsg{
				title:   title,
				content: fmt.Sprintf("binary file (%d bytes shown of preview cap)", len(raw)),
			}
		}

		content := string(raw)
		if isMarkdown(path) {
			if rendered, rerr := renderMarkdown(content, width); rerr == nil {
				content = rendered
			}
		}
		if truncated {
			content += "\n… truncated …\n"
		}
		return previewMsg{title: title, content: content}
	}
}

func isMarkdown(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".md", ".markdown", ".mdown":
		return true
	}
	return false
}

func renderMarkdown(src string, width int) (string, error) {
	if width < 20 {
		width = 20
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return "", err
	}
	return r.Render(src)
}

// looksLikeText applies the same heuristic as file(1): no NUL bytes and
// mostly valid UTF-8 in the first chunk.
func looksLikeText(b []byte) bool {
	probe := b
	if len(probe) > 1024 {
		probe = probe[:1024]
	}
	if bytes.IndexByte(probe, 0) >= 0 {
		return false
	}
	invalid := 0
	for len(probe) > 0 {
		r, size := utf8.DecodeRune(probe)
		if r == utf8.RuneError && size == 1 {
			invalid++
		}
		probe = probe[size:]
	}
	return invalid < 32
}
