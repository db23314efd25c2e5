package ui

import (
	"fmt"
	"strings"

	"policyexplorer/internal/country"
	"policyexplorer/internal/reform"

	"github.com/charmbracelet/bubbles/viewport"
	"github.com/charmbracelet/glamour"
)

// OverviewModel summarises the reform being built.
type OverviewModel struct {
	width    int
	height   int
	viewport viewport.Model
	renderer *glamour.TermRenderer
	wrap     int
	markdown string
	styles   Styles
}

// NewOverviewModel creates the reform summary pane.
func NewOverviewModel(styles Styles) OverviewModel {
	return OverviewModel{viewport: viewport.New(0, 0), styles: styles}
}

// SetSize sets the pane dimensions, rebuilding the renderer for the new wrap.
func (m *OverviewModel) SetSize(width, height int) {
	m.width, m.height = width, height
	m.viewport.Width = width
	m.viewport.Height = max(height, 1)
	m.render()
}

// UpdateContent rebuilds the summary for sub.
func (m *OverviewModel) UpdateContent(c *country.Context, sub *reform.Submission) {
	m.markdown = OverviewMarkdown(c, sub)
	m.render()
}

// Markdown returns the unrendered summary.
func (m OverviewModel) Markdown() string {
	return m.markdown
}

func (m *OverviewModel) render() {
	wrap := max(m.width-2, 20)
	if m.renderer == nil || m.wrap != wrap {
		style := "light"
		if m.styles.Theme.IsDark {
			style = "dark"
		}
		r, err := glamour.NewTermRenderer(
			glamour.WithStandardStyle(style),
			glamour.WithWordWrap(wrap),
		)
		if err == nil {
			m.renderer, m.wrap = r, wrap
		}
	}
	out := m.markdown
	if m.renderer != nil {
		if rendered, err := m.renderer.Render(m.markdown); err == nil {
			out = strings.Trim(rendered, "\n")
		}
	}
	m.viewport.SetContent(out)
}

// View renders the pane.
func (m OverviewModel) View() string {
	return m.viewport.View()
}

// OverviewMarkdown describes the edits of sub as markdown.
func OverviewMarkdown(c *country.Context, sub *reform.Submission) string {
	var sb strings.Builder
	sb.WriteString("## Your reform\n\n")
	edits := sub.Edits()
	if len(edits) == 0 {
		sb.WriteString("No changes yet. Select a parameter and press enter to edit it.\n")
		return sb.String()
	}
	for _, e := range edits {
		p, _ := c.Parameter(e.ID)
		kind := p.ValueKind()
		line := fmt.Sprintf("- **%s**: %s", p.Label, reform.FormatValue(kind, e.Value))
		if p.Default != nil {
			line += fmt.Sprintf(" (was %s)", reform.FormatValue(kind, p.Default))
		}
		sb.WriteString(line + "\n")
	}
	if sub.EditsBaseline() {
		sb.WriteString("\n> This reform changes the baseline policy.\n")
	}
	return sb.String()
}
