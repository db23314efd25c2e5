package ui

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"policyexplorer/internal/controls"
	"policyexplorer/internal/country"
	"policyexplorer/internal/reform"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
)

// ControlRow is one control with everything needed to draw it.
type ControlRow struct {
	Descriptor controls.Descriptor
	Param      country.Parameter
	// Value is the edited value, or the default when Edited is false.
	Value  any
	Edited bool
}

// Kind returns the value kind the row edits.
func (r ControlRow) Kind() string {
	if k := r.Descriptor.Attr("kind", ""); k != "" {
		return k
	}
	return r.Param.ValueKind()
}

// ControlsPageModel shows the controls of the selected group and edits
// their values.
type ControlsPageModel struct {
	width    int
	height   int
	viewport viewport.Model
	input    textinput.Model

	path    string
	rows    []ControlRow
	cursor  int
	editing bool
	err     string

	styles Styles
}

// NewControlsPageModel creates an empty control pane.
func NewControlsPageModel(styles Styles) ControlsPageModel {
	ti := textinput.New()
	ti.Prompt = "› "
	ti.CharLimit = 64
	ti.PromptStyle = styles.Selected

	return ControlsPageModel{
		viewport: viewport.New(0, 0),
		input:    ti,
		styles:   styles,
	}
}

// SetRows replaces the controls, e.g. after a group change. The cursor is
// kept when the same group is redrawn.
func (m *ControlsPageModel) SetRows(path string, rows []ControlRow) {
	if path != m.path {
		m.cursor = 0
		m.editing = false
		m.err = ""
		m.input.Blur()
	}
	m.path = path
	m.rows = rows
	if m.cursor >= len(rows) {
		m.cursor = max(len(rows)-1, 0)
	}
	m.UpdateContent()
}

// Rows returns the current controls.
func (m ControlsPageModel) Rows() []ControlRow {
	return m.rows
}

// Editing reports whether a value is being typed.
func (m ControlsPageModel) Editing() bool {
	return m.editing
}

// Cursor returns the highlighted row index.
func (m ControlsPageModel) Cursor() int {
	return m.cursor
}

// SetSize sets the pane dimensions.
func (m *ControlsPageModel) SetSize(width, height int) {
	m.width, m.height = width, height
	m.viewport.Width = width
	m.viewport.Height = max(height-1, 1)
	m.input.Width = max(width-4, 8)
	m.UpdateContent()
}

// Update handles messages.
func (m ControlsPageModel) Update(msg tea.Msg) (ControlsPageModel, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		var cmd tea.Cmd
		if m.editing {
			m.input, cmd = m.input.Update(msg)
		}
		return m, cmd
	}

	if m.editing {
		return m.updateEditing(key)
	}

	switch key.String() {
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.rows)-1 {
			m.cursor++
		}
	case "home", "g":
		m.cursor = 0
	case "end", "G":
		m.cursor = max(len(m.rows)-1, 0)
	case "enter", " ":
		return m.activate()
	case "u", "backspace":
		if row, ok := m.current(); ok && row.Edited {
			id := row.Descriptor.Key
			return m, func() tea.Msg { return ParameterEditedMsg{ID: id, Unset: true} }
		}
	}
	m.UpdateContent()
	return m, nil
}

func (m ControlsPageModel) activate() (ControlsPageModel, tea.Cmd) {
	row, ok := m.current()
	if !ok {
		return m, nil
	}
	if row.Kind() == reform.KindBool {
		id := row.Descriptor.Key
		on, _ := row.Value.(bool)
		return m, func() tea.Msg { return ParameterEditedMsg{ID: id, Value: !on} }
	}
	m.editing = true
	m.err = ""
	m.input.SetValue(reform.FormatValue(row.Kind(), row.Value))
	m.input.CursorEnd()
	m.input.Focus()
	m.UpdateContent()
	return m, textinput.Blink
}

func (m ControlsPageModel) updateEditing(key tea.KeyMsg) (ControlsPageModel, tea.Cmd) {
	switch key.String() {
	case "esc":
		m.editing = false
		m.err = ""
		m.input.Blur()
		m.UpdateContent()
		return m, nil
	case "enter":
		row, ok := m.current()
		if !ok {
			m.editing = false
			return m, nil
		}
		v, err := reform.ParseValue(row.Kind(), m.input.Value())
		if err == nil {
			err = checkBounds(row.Descriptor, v)
		}
		if err != nil {
			m.err = err.Error()
			m.UpdateContent()
			return m, nil
		}
		m.editing = false
		m.err = ""
		m.input.Blur()
		m.UpdateContent()
		id := row.Descriptor.Key
		return m, func() tea.Msg { return ParameterEditedMsg{ID: id, Value: v} }
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(key)
	m.UpdateContent()
	return m, cmd
}

// checkBounds enforces min/max attributes of override templates.
func checkBounds(d controls.Descriptor, v any) error {
	f, ok := v.(float64)
	if !ok {
		return nil
	}
	if lo, err := strconv.ParseFloat(d.Attr("min", ""), 64); err == nil && f < lo {
		return fmt.Errorf("must be at least %s", d.Attr("min", ""))
	}
	if hi, err := strconv.ParseFloat(d.Attr("max", ""), 64); err == nil && f > hi {
		return fmt.Errorf("must be at most %s", d.Attr("max", ""))
	}
	return nil
}

func (m ControlsPageModel) current() (ControlRow, bool) {
	if m.cursor < 0 || m.cursor >= len(m.rows) {
		return ControlRow{}, false
	}
	return m.rows[m.cursor], true
}

// UpdateContent redraws the viewport, keeping the cursor row visible.
func (m *ControlsPageModel) UpdateContent() {
	if len(m.rows) == 0 {
		m.viewport.SetContent(m.styles.Muted.Render("No parameters in this group."))
		return
	}
	var sb strings.Builder
	cursorLine := 0
	for i, row := range m.rows {
		if i == m.cursor {
			cursorLine = strings.Count(sb.String(), "\n")
		}
		sb.WriteString(m.renderRow(i, row))
		sb.WriteString("\n")
	}
	m.viewport.SetContent(strings.TrimRight(sb.String(), "\n"))
	if cursorLine < m.viewport.YOffset {
		m.viewport.SetYOffset(cursorLine)
	} else if bottom := m.viewport.YOffset + m.viewport.Height - 3; cursorLine > bottom {
		m.viewport.SetYOffset(cursorLine - m.viewport.Height + 3)
	}
}

func (m ControlsPageModel) renderRow(i int, row ControlRow) string {
	marker := "  "
	label := m.styles.Body.Render(row.Param.Label)
	if i == m.cursor {
		marker = m.styles.Selected.Render("▸ ")
		label = m.styles.Selected.Render(row.Param.Label)
	}

	value := reform.FormatValue(row.Kind(), row.Value)
	if value == "" {
		value = "–"
	}
	if row.Param.Unit != "" && row.Kind() != reform.KindPercent {
		value += " " + row.Param.Unit
	}
	valueStyle := m.styles.Muted
	if row.Edited {
		valueStyle = m.styles.Edited
	}

	var sb strings.Builder
	sb.WriteString(marker + label + "  " + valueStyle.Render(value))
	if row.Descriptor.Override && row.Descriptor.Label != "" {
		sb.WriteString(" " + m.styles.Badge.Render(row.Descriptor.Label))
	}
	sb.WriteString("\n")

	if row.Descriptor.Kind == "slider" {
		if s := renderSlider(row, max(m.width-6, 10)); s != "" {
			sb.WriteString("    " + m.styles.Muted.Render(s) + "\n")
		}
	}
	if i == m.cursor && m.editing {
		sb.WriteString("    " + m.input.View() + "\n")
		if m.err != "" {
			sb.WriteString("    " + m.styles.Error.Render(m.err) + "\n")
		}
	} else if i == m.cursor && row.Param.Description != "" {
		sb.WriteString("    " + m.styles.Subtitle.Render(row.Param.Description) + "\n")
	}
	return strings.TrimRight(sb.String(), "\n")
}

// renderSlider draws the value's position between a slider's min and max.
func renderSlider(row ControlRow, width int) string {
	lo, err1 := strconv.ParseFloat(row.Descriptor.Attr("min", ""), 64)
	hi, err2 := strconv.ParseFloat(row.Descriptor.Attr("max", ""), 64)
	v, ok := toFloat(row.Value)
	if err1 != nil || err2 != nil || !ok || hi <= lo {
		return ""
	}
	track := max(width-lenInt(lo)-lenInt(hi)-2, 4)
	pos := int(math.Round((math.Min(math.Max(v, lo), hi) - lo) / (hi - lo) * float64(track-1)))
	bar := strings.Repeat("─", pos) + "●" + strings.Repeat("─", track-pos-1)
	return fmt.Sprintf("%s %s %s", row.Descriptor.Attr("min", ""), bar, row.Descriptor.Attr("max", ""))
}

func lenInt(f float64) int {
	return len(strconv.FormatFloat(f, 'f', -1, 64))
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	default:
		return 0, false
	}
}

// View renders the pane.
func (m ControlsPageModel) View() string {
	title := m.styles.Title.Render("Parameters")
	if m.path != "" {
		title += " " + m.styles.Muted.Render(m.path)
	}
	return title + "\n" + m.viewport.View()
}
