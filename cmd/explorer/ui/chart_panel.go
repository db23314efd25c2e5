package ui

import (
	"strings"

	"policyexplorer/internal/chart"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

// ChartPanelModel draws the age chart according to the tracker.
type ChartPanelModel struct {
	width   int
	height  int
	spinner spinner.Model
	tracker *chart.Tracker
	styles  Styles
}

// NewChartPanelModel creates the panel for tracker.
func NewChartPanelModel(tracker *chart.Tracker, styles Styles) ChartPanelModel {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = styles.Spinner
	return ChartPanelModel{spinner: sp, tracker: tracker, styles: styles}
}

// SetSize sets the panel dimensions.
func (m *ChartPanelModel) SetSize(width, height int) {
	m.width, m.height = width, height
}

// Tick starts the spinner.
func (m ChartPanelModel) Tick() tea.Cmd {
	return m.spinner.Tick
}

// Update advances the spinner while a request is outstanding.
func (m ChartPanelModel) Update(msg tea.Msg) (ChartPanelModel, tea.Cmd) {
	if _, ok := msg.(spinner.TickMsg); ok {
		if m.tracker.Display() != chart.ViewBusy {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

// View renders the panel.
func (m ChartPanelModel) View() string {
	header := m.styles.Title.Render("Impact by age")
	switch m.tracker.Display() {
	case chart.ViewCollapsed:
		return header + " " + m.styles.Muted.Render("(press c to show)")
	case chart.ViewBusy:
		return header + "\n" + m.spinner.View() + " Calculating the age chart..."
	case chart.ViewError:
		st := m.tracker.State()
		msg := "The age chart could not be loaded."
		if st.Message != "" {
			msg += "\n" + st.Message
		}
		return header + "\n" + m.styles.Error.Render(msg) + "\n" +
			m.styles.Muted.Render("Collapse and expand the chart to try again.")
	default:
		st := m.tracker.State()
		var sb strings.Builder
		sb.WriteString(header)
		if st.Outdated {
			sb.WriteString(" " + m.styles.Warning.Render("outdated"))
		}
		sb.WriteString("\n")
		if st.Result != nil {
			sb.WriteString(RenderPlot(st.Result.AgeChart, max(m.width, 20), m.styles))
		}
		if st.Outdated {
			sb.WriteString("\n" + m.styles.Muted.Render("The reform changed. Collapse and expand to refresh."))
		}
		return sb.String()
	}
}
