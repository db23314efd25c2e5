// Package chart fetches the age chart for a reform and tracks whether the
// cached copy is still current.
package chart

import (
	"context"
	"encoding/json"
	"fmt"

	"policyexplorer/internal/logging"
)

// State is the chart slice of the shared country context.
type State struct {
	Result   *Result
	Outdated bool
	InFlight bool
	Failed   bool
	Message  string
}

// Fresh reports whether a result is held and nothing has invalidated it.
func (s State) Fresh() bool {
	return s.Result != nil && !s.Outdated
}

// Patch is a partial update of State. Nil fields are left untouched.
type Patch struct {
	Result   *Result
	Outdated *bool
	InFlight *bool
	Failed   *bool
	Message  *string
}

// Apply returns s with p merged over it.
func (s State) Apply(p Patch) State {
	if p.Result != nil {
		s.Result = p.Result
	}
	if p.Outdated != nil {
		s.Outdated = *p.Outdated
	}
	if p.InFlight != nil {
		s.InFlight = *p.InFlight
	}
	if p.Failed != nil {
		s.Failed = *p.Failed
	}
	if p.Message != nil {
		s.Message = *p.Message
	}
	return s
}

// Store holds chart state on behalf of the tracker.
type Store interface {
	ChartState() State
	Update(Patch)
}

// Fetcher issues the age chart request.
type Fetcher interface {
	FetchAgeChart(ctx context.Context, payload any) (*Result, error)
}

// View is what the chart panel should draw.
type View int

const (
	ViewCollapsed View = iota
	ViewBusy
	ViewError
	ViewPlot
)

func (v View) String() string {
	switch v {
	case ViewCollapsed:
		return "collapsed"
	case ViewBusy:
		return "busy"
	case ViewError:
		return "error"
	case ViewPlot:
		return "plot"
	default:
		return fmt.Sprintf("View(%d)", int(v))
	}
}

// Tracker decides when the chart must be fetched. It owns the expanded flag;
// everything else lives in the Store.
type Tracker struct {
	store    Store
	fetcher  Fetcher
	expanded bool
}

// NewTracker returns a collapsed tracker.
func NewTracker(store Store, fetcher Fetcher) *Tracker {
	return &Tracker{store: store, fetcher: fetcher}
}

// SetFetcher swaps the fetcher, e.g. after the API URL changes.
func (t *Tracker) SetFetcher(f Fetcher) {
	t.fetcher = f
}

// Expanded reports whether the panel is open.
func (t *Tracker) Expanded() bool {
	return t.expanded
}

// State returns the current chart state.
func (t *Tracker) State() State {
	return t.store.ChartState()
}

// Expand opens the panel. When there is no result, or the result is
// outdated, and no request is outstanding, it marks the chart in flight and
// returns the one fetch to run. Otherwise it returns nil.
func (t *Tracker) Expand(submission any) *Fetch {
	t.expanded = true
	st := t.store.ChartState()
	if st.InFlight || st.Fresh() {
		logging.ChartDebug("expand: no fetch (in_flight=%t fresh=%t)", st.InFlight, st.Fresh())
		return nil
	}

	payload, err := json.Marshal(submission)
	t.store.Update(Patch{InFlight: boolp(true)})
	logging.Chart("expand: fetching (has_result=%t outdated=%t)", st.Result != nil, st.Outdated)
	return &Fetch{fetcher: t.fetcher, payload: payload, encodeErr: err}
}

// Collapse closes the panel. Outstanding requests still complete.
func (t *Tracker) Collapse() {
	t.expanded = false
}

// Toggle flips the panel, returning the fetch Expand would.
func (t *Tracker) Toggle(submission any) *Fetch {
	if t.expanded {
		t.Collapse()
		return nil
	}
	return t.Expand(submission)
}

// MarkOutdated records that the cached result no longer matches the reform.
func (t *Tracker) MarkOutdated() {
	if t.store.ChartState().Outdated {
		return
	}
	t.store.Update(Patch{Outdated: boolp(true)})
	logging.ChartDebug("chart marked outdated")
}

// Complete applies the outcome of a fetch. Completions are applied in the
// order they arrive, so the last one wins.
func (t *Tracker) Complete(o Outcome) {
	if o.Err != nil {
		msg := o.Err.Error()
		t.store.Update(Patch{
			InFlight: boolp(false),
			Failed:   boolp(true),
			Message:  &msg,
		})
		logging.ChartWarn("age chart fetch failed: %v", o.Err)
		return
	}
	empty := ""
	t.store.Update(Patch{
		Result:   o.Result,
		Outdated: boolp(false),
		InFlight: boolp(false),
		Failed:   boolp(false),
		Message:  &empty,
	})
	logging.Chart("age chart stored")
}

// Display resolves what the panel shows.
func (t *Tracker) Display() View {
	if !t.expanded {
		return ViewCollapsed
	}
	st := t.store.ChartState()
	switch {
	case st.InFlight || (st.Result == nil && !st.Failed):
		return ViewBusy
	case st.Failed:
		return ViewError
	default:
		return ViewPlot
	}
}

// Fetch is a single request attempt with the submission captured at the
// moment it was started.
type Fetch struct {
	fetcher   Fetcher
	payload   json.RawMessage
	encodeErr error
}

// Payload returns the captured request body.
func (f *Fetch) Payload() json.RawMessage {
	return f.payload
}

// Run performs the request. It never retries.
func (f *Fetch) Run(ctx context.Context) Outcome {
	if f.encodeErr != nil {
		return Outcome{Err: fmt.Errorf("encode submission: %w", f.encodeErr)}
	}
	if f.fetcher == nil {
		return Outcome{Err: fmt.Errorf("no chart API configured")}
	}
	timer := logging.StartTimer(logging.CategoryChart, "age chart fetch")
	defer timer.Stop()
	res, err := f.fetcher.FetchAgeChart(ctx, f.payload)
	if err != nil {
		return Outcome{Err: err}
	}
	if res == nil {
		return Outcome{Err: fmt.Errorf("empty age chart response")}
	}
	return Outcome{Result: res}
}

// Outcome is the result of Fetch.Run.
type Outcome struct {
	Result *Result
	Err    error
}

func boolp(b bool) *bool { return &b }
