package ui

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"policyexplorer/internal/chart"
	"policyexplorer/internal/country"
	"policyexplorer/internal/logging"
	"policyexplorer/internal/reform"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Focus identifies the pane receiving keys.
type Focus int

const (
	FocusMenu Focus = iota
	FocusControls
	FocusChart
)

func (f Focus) next() Focus { return (f + 1) % 3 }

// Saver persists reforms.
type Saver interface {
	Save(ctx context.Context, name, country string, sub *reform.Submission) (string, error)
}

// Options configures the root model.
type Options struct {
	Styles         Styles
	Fetcher        chart.Fetcher
	Store          Saver
	FetchTimeout   time.Duration
	ResizeDebounce time.Duration
	ChartExpanded  bool
	// Submission seeds the reform, e.g. from a saved one.
	Submission *reform.Submission
	// NewFetcher rebuilds the fetcher when a reload changes the API URL.
	NewFetcher func(apiURL string) chart.Fetcher
}

// Model is the root explorer model.
type Model struct {
	ctx        *country.Context
	selection  country.Selection
	submission *reform.Submission
	tracker    *chart.Tracker

	menu     MenuModel
	controls ControlsPageModel
	overview OverviewModel
	chart    ChartPanelModel

	focus    Focus
	layout   Layout
	resize   *ResizeDebouncer
	ready    bool
	status   string
	statusOK bool

	opts   Options
	apiURL string
	styles Styles
}

// New builds the root model over the shared country context.
func New(c *country.Context, opts Options) Model {
	styles := opts.Styles
	if styles.Theme.Name == "" {
		styles = DefaultStyles()
	}
	sub := opts.Submission
	if sub == nil {
		sub = reform.NewSubmission()
	}
	tracker := chart.NewTracker(c, opts.Fetcher)

	m := Model{
		ctx:        c,
		selection:  country.NewSelection(c),
		submission: sub,
		tracker:    tracker,
		menu:       NewMenuModel(styles),
		controls:   NewControlsPageModel(styles),
		overview:   NewOverviewModel(styles),
		chart:      NewChartPanelModel(tracker, styles),
		resize:     NewResizeDebouncer(opts.ResizeDebounce),
		opts:       opts,
		apiURL:     c.APIURL(),
		styles:     styles,
	}
	m.menu.SetGroups(c.Groups(), m.selection.Path())
	m.refreshControls()
	m.overview.UpdateContent(c, sub)
	return m
}

// Init opens the chart panel when configured to start expanded.
func (m Model) Init() tea.Cmd {
	if !m.opts.ChartExpanded {
		return nil
	}
	return m.expandChart()
}

// Selection returns the selected group path.
func (m Model) Selection() string { return m.selection.Path() }

// Submission returns the reform being edited.
func (m Model) Submission() *reform.Submission { return m.submission }

// Tracker returns the chart freshness tracker.
func (m Model) Tracker() *chart.Tracker { return m.tracker }

// Focus returns the focused pane.
func (m Model) Focus() Focus { return m.focus }

// Status returns the last status line.
func (m Model) Status() string { return m.status }

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		if !m.ready {
			m.ready = true
			m.applySize(msg.Width, msg.Height)
			return m, nil
		}
		return m, m.resize.Resize(msg.Width, msg.Height)

	case resizeSettledMsg:
		if m.resize.Settle(msg) {
			m.applySize(msg.width, msg.height)
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case GroupSelectedMsg:
		m.selection.SelectGroup(msg.Path)
		logging.UIDebug("selected group %s", msg.Path)
		m.refreshControls()
		m.focus = FocusControls
		return m, nil

	case ParameterEditedMsg:
		if msg.Unset {
			m.submission.Unset(msg.ID)
		} else {
			m.submission.Set(msg.ID, msg.Value)
		}
		logging.Reform("edit %s = %v (unset=%t)", msg.ID, msg.Value, msg.Unset)
		m.tracker.MarkOutdated()
		m.refreshControls()
		m.overview.UpdateContent(m.ctx, m.submission)
		return m, nil

	case chartFetchedMsg:
		m.tracker.Complete(msg.outcome)
		return m, nil

	case reformSavedMsg:
		if msg.err != nil {
			m.setStatus(fmt.Sprintf("Save failed: %v", msg.err), false)
		} else {
			m.setStatus(fmt.Sprintf("Saved %q as %s", msg.name, msg.id), true)
		}
		return m, nil

	case CountryReloadedMsg:
		return m.handleReload(msg)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.chart, cmd = m.chart.Update(msg)
		return m, cmd
	}

	// Cursor blink and similar messages go to the focused pane.
	return m.routeToFocused(msg)
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}
	// Text entry owns the keyboard.
	if m.controls.Editing() || m.menu.Filtering() {
		return m.routeToFocused(msg)
	}

	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "tab":
		m.focus = m.focus.next()
		return m, nil
	case "shift+tab":
		m.focus = (m.focus + 2) % 3
		return m, nil
	case "c":
		return m, m.toggleChart()
	case "r":
		if m.submission.Len() > 0 {
			m.submission.Reset()
			m.tracker.MarkOutdated()
			m.refreshControls()
			m.overview.UpdateContent(m.ctx, m.submission)
			m.setStatus("Reform reset", true)
		}
		return m, nil
	case "s":
		return m, m.saveReform()
	case "y":
		m.copySubmission()
		return m, nil
	}
	return m.routeToFocused(msg)
}

func (m Model) routeToFocused(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.focus {
	case FocusMenu:
		m.menu, cmd = m.menu.Update(msg)
	case FocusControls:
		m.controls, cmd = m.controls.Update(msg)
	case FocusChart:
		if key, ok := msg.(tea.KeyMsg); ok && key.String() == "enter" {
			cmd = m.toggleChart()
		}
	}
	return m, cmd
}

func (m *Model) toggleChart() tea.Cmd {
	if m.tracker.Expanded() {
		m.tracker.Collapse()
		return nil
	}
	return m.expandChart()
}

func (m *Model) expandChart() tea.Cmd {
	f := m.tracker.Expand(m.submission.Clone())
	if f == nil {
		return nil
	}
	return tea.Batch(m.chart.Tick(), fetchChart(f, m.opts.FetchTimeout))
}

// fetchChart runs f off the update loop.
func fetchChart(f *chart.Fetch, timeout time.Duration) tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		if timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, timeout)
			defer cancel()
		}
		return chartFetchedMsg{outcome: f.Run(ctx)}
	}
}

func (m *Model) saveReform() tea.Cmd {
	if m.opts.Store == nil {
		m.setStatus("No reform store configured", false)
		return nil
	}
	if m.submission.Len() == 0 {
		m.setStatus("Nothing to save", false)
		return nil
	}
	store := m.opts.Store
	countryName := m.ctx.Name()
	sub := m.submission.Clone()
	name := fmt.Sprintf("%s reform %s", countryName, time.Now().Format("2006-01-02 15:04"))
	return func() tea.Msg {
		id, err := store.Save(context.Background(), name, countryName, sub)
		return reformSavedMsg{id: id, name: name, err: err}
	}
}

func (m *Model) copySubmission() {
	body, err := json.Marshal(m.submission)
	if err == nil {
		err = clipboardWriteAll(string(body))
	}
	if err != nil {
		m.setStatus("Failed to copy reform", false)
		return
	}
	m.setStatus("Copied reform JSON to clipboard", true)
}

func (m Model) handleReload(msg CountryReloadedMsg) (tea.Model, tea.Cmd) {
	if msg.Err != nil {
		m.setStatus(fmt.Sprintf("Country file not reloaded: %v", msg.Err), false)
		return m, nil
	}
	if msg.File == nil {
		return m, nil
	}
	m.ctx.Replace(msg.File)
	if url := m.ctx.APIURL(); url != m.apiURL {
		m.apiURL = url
		if m.opts.NewFetcher != nil {
			m.tracker.SetFetcher(m.opts.NewFetcher(url))
		}
	}
	m.menu.SetGroups(m.ctx.Groups(), m.selection.Path())
	m.refreshControls()
	m.overview.UpdateContent(m.ctx, m.submission)
	m.setStatus("Country file reloaded", true)
	return m, nil
}

func (m *Model) setStatus(s string, ok bool) {
	m.status, m.statusOK = s, ok
}

// refreshControls rebuilds the control rows for the current selection.
func (m *Model) refreshControls() {
	path := m.selection.Path()
	descs := m.ctx.Controls(path)
	rows := make([]ControlRow, len(descs))
	for i, d := range descs {
		p, _ := m.ctx.Parameter(d.Name())
		row := ControlRow{Descriptor: d, Param: p, Value: p.Default}
		if v, ok := m.submission.Get(d.Key); ok {
			row.Value, row.Edited = v, true
		}
		rows[i] = row
	}
	m.controls.SetRows(path, rows)
}

func (m *Model) applySize(width, height int) {
	m.layout = NewLayout(width, height)
	l := m.layout
	inner := PanelContentHeight(l.BodyHeight)

	m.menu.SetSize(PanelContentWidth(l.MenuWidth), inner)
	if l.Compact {
		half := max(inner/2, 1)
		m.controls.SetSize(PanelContentWidth(l.ControlsWidth), half)
		m.overview.SetSize(PanelContentWidth(l.SideWidth), max(inner-half-ChartMinHeight, 1))
		m.chart.SetSize(PanelContentWidth(l.SideWidth), ChartMinHeight)
		return
	}
	m.controls.SetSize(PanelContentWidth(l.ControlsWidth), inner)
	chartH := max(inner/2, ChartMinHeight)
	m.overview.SetSize(PanelContentWidth(l.SideWidth), max(inner-chartH-2, 1))
	m.chart.SetSize(PanelContentWidth(l.SideWidth), chartH)
}

// View renders the explorer.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	l := m.layout
	if l.Width < MinimumTerminalWidth || l.Height < MinimumTerminalHeight {
		return m.styles.Warning.Render(fmt.Sprintf("Terminal too small (%dx%d)", l.Width, l.Height))
	}

	header := m.styles.Header.Width(l.Width).Render(
		fmt.Sprintf("Policy explorer · %s · %s", m.ctx.Name(), m.selection.Path()))

	panel := func(f Focus, width, height int, content string) string {
		style := m.styles.Panel
		if m.focus == f {
			style = m.styles.FocusedPanel
		}
		return style.Width(width - PanelBorderWidth*2).Height(height - PanelBorderWidth*2).Render(content)
	}

	menu := panel(FocusMenu, l.MenuWidth, l.BodyHeight, m.menu.View())
	var body string
	if l.Compact {
		half := max(l.BodyHeight/2, 3)
		right := lipgloss.JoinVertical(lipgloss.Left,
			panel(FocusControls, l.ControlsWidth, half, m.controls.View()),
			panel(FocusChart, l.SideWidth, l.BodyHeight-half, m.overview.View()+"\n"+m.chart.View()),
		)
		body = lipgloss.JoinHorizontal(lipgloss.Top, menu, right)
	} else {
		controls := panel(FocusControls, l.ControlsWidth, l.BodyHeight, m.controls.View())
		overviewH := l.BodyHeight / 2
		side := lipgloss.JoinVertical(lipgloss.Left,
			panel(-1, l.SideWidth, overviewH, m.overview.View()),
			panel(FocusChart, l.SideWidth, l.BodyHeight-overviewH, m.chart.View()),
		)
		body = lipgloss.JoinHorizontal(lipgloss.Top, menu, controls, side)
	}

	return lipgloss.JoinVertical(lipgloss.Left, header, body, m.footer())
}

func (m Model) footer() string {
	help := "tab focus · enter select/edit · esc cancel · c chart · r reset · s save · y copy · q quit"
	if m.controls.Editing() {
		help = "enter apply · esc cancel"
	}
	line := m.styles.Footer.Render(help)
	if m.status == "" {
		return line
	}
	style := m.styles.Success
	if !m.statusOK {
		style = m.styles.Error
	}
	return strings.Join([]string{style.Padding(0, 2).Render(m.status), line}, "\n")
}

// ErrNoCountry is returned when the explorer is started without a country.
var ErrNoCountry = errors.New("no country loaded")

// Run starts the explorer program. reloads, when non-nil, is drained into
// the program as CountryReloadedMsg values.
func Run(ctx context.Context, c *country.Context, opts Options, reloads <-chan CountryReloadedMsg) error {
	if c == nil {
		return ErrNoCountry
	}
	p := tea.NewProgram(New(c, opts), tea.WithAltScreen(), tea.WithContext(ctx))
	if reloads != nil {
		go func() {
			for {
				select {
				case <-ctx.Done():
					return
				case msg, ok := <-reloads:
					if !ok {
						return
					}
					p.Send(msg)
				}
			}
		}()
	}
	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}
