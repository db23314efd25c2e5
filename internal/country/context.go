package country

import (
	"sync"

	"policyexplorer/internal/chart"
	"policyexplorer/internal/controls"
	"policyexplorer/internal/logging"
	"policyexplorer/internal/params"
)

// Context is the shared handle passed to every pane. Configuration is
// replaced wholesale on reload; chart state is patched by the tracker.
type Context struct {
	mu     sync.RWMutex
	file   *File
	apiURL string
	chart  chart.State
}

// ContextOption configures a Context.
type ContextOption func(*Context)

// WithAPIURL overrides the file's api_url.
func WithAPIURL(u string) ContextOption {
	return func(c *Context) {
		if u != "" {
			c.apiURL = u
		}
	}
}

// NewContext wraps a loaded file.
func NewContext(f *File, opts ...ContextOption) *Context {
	c := &Context{file: f}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Name returns the country name.
func (c *Context) Name() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.file.Name
}

// RootMarker returns the first segment of every selected path.
func (c *Context) RootMarker() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.file.Marker()
}

// ParameterHierarchy returns the group tree. Callers must not modify it.
func (c *Context) ParameterHierarchy() *params.Node {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.file.ParameterHierarchy
}

// DefaultSelectedParameterGroup returns the path selected on start.
func (c *Context) DefaultSelectedParameterGroup() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.file.DefaultSelectedParameterGroup
}

// ParameterComponentOverrides returns the override registry, possibly nil.
func (c *Context) ParameterComponentOverrides() controls.Registry {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.file.ParameterComponentOverrides
}

// APIURL returns the simulation API root.
func (c *Context) APIURL() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.apiURL != "" {
		return c.apiURL
	}
	return c.file.APIURL
}

// Parameter returns metadata for id. Unknown ids get a label equal to the id.
func (c *Context) Parameter(id string) (Parameter, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	p, ok := c.file.Parameters[id]
	if !ok {
		return Parameter{Label: id}, false
	}
	if p.Label == "" {
		p.Label = id
	}
	return p, true
}

// Resolve returns the parameters under selectedPath.
func (c *Context) Resolve(selectedPath string) []string {
	return params.Resolve(c.ParameterHierarchy(), selectedPath)
}

// Controls resolves selectedPath and renders its controls.
func (c *Context) Controls(selectedPath string) []controls.Descriptor {
	return controls.Render(c.Resolve(selectedPath), c.ParameterComponentOverrides())
}

// Groups lists the hierarchy's groups in menu order.
func (c *Context) Groups() []params.Group {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return params.Groups(c.file.ParameterHierarchy, c.file.Marker())
}

// ChartState implements chart.Store.
func (c *Context) ChartState() chart.State {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.chart
}

// Update implements chart.Store.
func (c *Context) Update(p chart.Patch) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.chart = c.chart.Apply(p)
}

// Snapshot is a point-in-time copy of the context.
type Snapshot struct {
	Name          string
	APIURL        string
	DefaultGroup  string
	GroupCount    int
	ParamCount    int
	OverrideCount int
	Chart         chart.State
}

// Snapshot copies out the current state.
func (c *Context) Snapshot() Snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()
	url := c.apiURL
	if url == "" {
		url = c.file.APIURL
	}
	return Snapshot{
		Name:          c.file.Name,
		APIURL:        url,
		DefaultGroup:  c.file.DefaultSelectedParameterGroup,
		GroupCount:    len(params.Groups(c.file.ParameterHierarchy, c.file.Marker())),
		ParamCount:    len(params.Parameters(c.file.ParameterHierarchy)),
		OverrideCount: len(c.file.ParameterComponentOverrides),
		Chart:         c.chart,
	}
}

// Replace swaps in a reloaded file. The held chart result was computed
// against the old configuration, so it is marked outdated.
func (c *Context) Replace(f *File) {
	if f == nil {
		return
	}
	c.mu.Lock()
	c.file = f
	c.chart.Outdated = true
	c.mu.Unlock()
	logging.Country("country %s reloaded", f.Name)
}
