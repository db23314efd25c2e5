package ui

import (
	"context"
	"sync"
	"testing"

	"policyexplorer/internal/chart"
	"policyexplorer/internal/country"
	"policyexplorer/internal/reform"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"
)

const testCountry = `
name: uk
api_url: http://localhost:9999
default_selected_parameter_group: /policy/tax/income_tax
parameter_hierarchy:
  tax:
    income_tax: [basic_rate, higher_rate]
    allowances: [personal_allowance]
  benefit:
    child_benefit: [cb_eldest]
    flags: [uc_enabled]
parameters:
  basic_rate: {label: Basic rate, kind: percent, default: 0.2}
  higher_rate: {label: Higher rate, kind: percent, default: 0.4}
  personal_allowance: {label: Personal Allowance, unit: GBP, default: 12570}
  cb_eldest: {label: Child Benefit, default: 21.8}
  uc_enabled: {label: Universal Credit, kind: bool, default: true}
parameter_component_overrides:
  cb_eldest:
    kind: slider
    label: Weekly
    attrs: {min: "0", max: "50"}
`

func testContext(t *testing.T) *country.Context {
	t.Helper()
	f, err := country.Parse([]byte(testCountry))
	require.NoError(t, err)
	return country.NewContext(f)
}

type fakeFetcher struct {
	mu     sync.Mutex
	calls  int
	result *chart.Result
	err    error
}

func (f *fakeFetcher) FetchAgeChart(context.Context, any) (*chart.Result, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return f.result, f.err
}

func (f *fakeFetcher) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type fakeSaver struct {
	saved []*reform.Submission
	names []string
	err   error
}

func (s *fakeSaver) Save(_ context.Context, name, _ string, sub *reform.Submission) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	s.saved = append(s.saved, sub)
	s.names = append(s.names, name)
	return "id-1", nil
}

func testFigure() *chart.Result {
	return &chart.Result{AgeChart: chart.Figure{
		Data: []chart.Series{{X: []chart.Label{"0", "40", "80"}, Y: []float64{10, -5, 2.5}}},
	}}
}

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// collect runs cmd and returns the messages it produces, expanding batches.
func collect(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, collect(c)...)
		}
		return out
	}
	return []tea.Msg{msg}
}

// findMsg returns the first message of type T in msgs.
func findMsg[T any](msgs []tea.Msg) (T, bool) {
	for _, m := range msgs {
		if v, ok := m.(T); ok {
			return v, true
		}
	}
	var zero T
	return zero, false
}

// blockingFetcher waits for the request context to end.
type blockingFetcher struct {
	err error
}

func (f *blockingFetcher) FetchAgeChart(ctx context.Context, _ any) (*chart.Result, error) {
	<-ctx.Done()
	f.err = ctx.Err()
	return nil, f.err
}
